package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/pkg/database"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

// AppendMovements implements RepositoryInterface.AppendMovements
func (r *postgresRepository) AppendMovements(ctx context.Context, movements []*model.Movement, positions []*model.StockPosition) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		insertMovement := `
			INSERT INTO movements (
				id, product_id, location_id, kind, quantity_delta,
				resulting_quantity, actor_id, reason, reference_id, created_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
			RETURNING seq
		`
		for _, m := range movements {
			err := tx.QueryRow(ctx, insertMovement,
				m.ID,
				m.ProductID,
				m.LocationID,
				m.Kind,
				m.QuantityDelta,
				m.ResultingQuantity,
				m.ActorID,
				m.Reason,
				m.ReferenceID,
				m.CreatedAt,
			).Scan(&m.Seq)
			if err != nil {
				return fmt.Errorf("failed to insert movement: %w", err)
			}
		}

		upsertPosition := `
			INSERT INTO stock_positions (
				product_id, location_id, quantity_on_hand, last_movement_id, updated_at
			) VALUES ($1, $2, $3, $4, $5)
			ON CONFLICT (product_id, location_id) DO UPDATE SET
				quantity_on_hand = EXCLUDED.quantity_on_hand,
				last_movement_id = EXCLUDED.last_movement_id,
				updated_at       = EXCLUDED.updated_at
		`
		for _, p := range positions {
			_, err := tx.Exec(ctx, upsertPosition,
				p.ProductID,
				p.LocationID,
				p.QuantityOnHand,
				p.LastMovementID,
				p.UpdatedAt,
			)
			if err != nil {
				return fmt.Errorf("failed to upsert stock position: %w", err)
			}
		}

		return nil
	})
}

// GetPosition implements RepositoryInterface.GetPosition
func (r *postgresRepository) GetPosition(ctx context.Context, productID, locationID uuid.UUID) (*model.StockPosition, error) {
	query := `
		SELECT product_id, location_id, quantity_on_hand, last_movement_id, updated_at
		FROM stock_positions
		WHERE product_id = $1 AND location_id = $2
	`

	var p model.StockPosition
	err := r.pool.QueryRow(ctx, query, productID, locationID).Scan(
		&p.ProductID,
		&p.LocationID,
		&p.QuantityOnHand,
		&p.LastMovementID,
		&p.UpdatedAt,
	)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get stock position: %w", err)
	}

	return &p, nil
}

// ListMovements implements RepositoryInterface.ListMovements
func (r *postgresRepository) ListMovements(ctx context.Context, filter model.HistoryFilter) ([]model.Movement, int, error) {
	countQuery := `
		SELECT COUNT(*)
		FROM movements
		WHERE product_id = $1 AND location_id = $2
	`
	var total int
	if err := r.pool.QueryRow(ctx, countQuery, filter.ProductID, filter.LocationID).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count movements: %w", err)
	}

	query := `
		SELECT id, seq, product_id, location_id, kind, quantity_delta,
		       resulting_quantity, actor_id, reason, reference_id, created_at
		FROM movements
		WHERE product_id = $1 AND location_id = $2
		ORDER BY created_at DESC, seq ASC
		LIMIT $3 OFFSET $4
	`

	offset := (filter.Page - 1) * filter.Limit
	rows, err := r.pool.Query(ctx, query, filter.ProductID, filter.LocationID, filter.Limit, offset)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list movements: %w", err)
	}
	defer rows.Close()

	movements := make([]model.Movement, 0, filter.Limit)
	for rows.Next() {
		var m model.Movement
		err := rows.Scan(
			&m.ID,
			&m.Seq,
			&m.ProductID,
			&m.LocationID,
			&m.Kind,
			&m.QuantityDelta,
			&m.ResultingQuantity,
			&m.ActorID,
			&m.Reason,
			&m.ReferenceID,
			&m.CreatedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan movement: %w", err)
		}
		movements = append(movements, m)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate movements: %w", err)
	}

	return movements, total, nil
}

// ListPositionsBelowReorderPoint implements RepositoryInterface.ListPositionsBelowReorderPoint
func (r *postgresRepository) ListPositionsBelowReorderPoint(ctx context.Context) ([]model.StockPosition, error) {
	query := `
		SELECT sp.product_id, sp.location_id, sp.quantity_on_hand, sp.last_movement_id, sp.updated_at
		FROM stock_positions sp
		JOIN products p ON p.id = sp.product_id
		WHERE p.active = true AND sp.quantity_on_hand <= p.reorder_point
		ORDER BY sp.updated_at ASC
	`

	rows, err := r.pool.Query(ctx, query)
	if err != nil {
		return nil, fmt.Errorf("failed to list low stock positions: %w", err)
	}
	defer rows.Close()

	var positions []model.StockPosition
	for rows.Next() {
		var p model.StockPosition
		if err := rows.Scan(&p.ProductID, &p.LocationID, &p.QuantityOnHand, &p.LastMovementID, &p.UpdatedAt); err != nil {
			return nil, fmt.Errorf("failed to scan stock position: %w", err)
		}
		positions = append(positions, p)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate stock positions: %w", err)
	}

	return positions, nil
}
