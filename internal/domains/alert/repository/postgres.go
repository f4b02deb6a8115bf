package repository

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dentalcare-backend/internal/domains/alert/model"
)

// postgresRepository implements RepositoryInterface
type postgresRepository struct {
	pool *pgxpool.Pool
}

// NewRepository creates a new PostgreSQL repository
func NewRepository(pool *pgxpool.Pool) RepositoryInterface {
	return &postgresRepository{pool: pool}
}

const alertColumns = `
	id, product_id, location_id, status, stock_at_creation,
	reorder_point_at_creation, suggested_order_quantity,
	created_at, updated_at, resolved_at
`

// Create implements RepositoryInterface.Create
func (r *postgresRepository) Create(ctx context.Context, alert *model.ReorderAlert) error {
	query := `
		INSERT INTO reorder_alerts (` + alertColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)
	`

	_, err := r.pool.Exec(ctx, query,
		alert.ID,
		alert.ProductID,
		alert.LocationID,
		alert.Status,
		alert.StockAtCreation,
		alert.ReorderPointAtCreation,
		alert.SuggestedOrderQuantity,
		alert.CreatedAt,
		alert.UpdatedAt,
		alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to insert reorder alert: %w", err)
	}
	return nil
}

// Update implements RepositoryInterface.Update
func (r *postgresRepository) Update(ctx context.Context, alert *model.ReorderAlert) error {
	query := `
		UPDATE reorder_alerts SET
			status = $2,
			stock_at_creation = $3,
			suggested_order_quantity = $4,
			updated_at = $5,
			resolved_at = $6
		WHERE id = $1
	`

	tag, err := r.pool.Exec(ctx, query,
		alert.ID,
		alert.Status,
		alert.StockAtCreation,
		alert.SuggestedOrderQuantity,
		alert.UpdatedAt,
		alert.ResolvedAt,
	)
	if err != nil {
		return fmt.Errorf("failed to update reorder alert: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return model.ErrAlertNotFound
	}
	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *postgresRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	query := `SELECT ` + alertColumns + ` FROM reorder_alerts WHERE id = $1`

	alert, err := r.scanOne(r.pool.QueryRow(ctx, query, id))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrAlertNotFound
		}
		return nil, fmt.Errorf("failed to get reorder alert: %w", err)
	}
	return alert, nil
}

// GetOpenByKey implements RepositoryInterface.GetOpenByKey
func (r *postgresRepository) GetOpenByKey(ctx context.Context, productID, locationID uuid.UUID) (*model.ReorderAlert, error) {
	query := `
		SELECT ` + alertColumns + `
		FROM reorder_alerts
		WHERE product_id = $1 AND location_id = $2 AND status <> 'resolved'
	`

	alert, err := r.scanOne(r.pool.QueryRow(ctx, query, productID, locationID))
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, nil
		}
		return nil, fmt.Errorf("failed to get open alert: %w", err)
	}
	return alert, nil
}

// List implements RepositoryInterface.List
func (r *postgresRepository) List(ctx context.Context, filter model.ListAlertFilter) ([]model.ReorderAlert, int, error) {
	conditions := []string{"1=1"}
	args := []interface{}{}
	argIdx := 1

	if filter.ProductID != nil {
		conditions = append(conditions, fmt.Sprintf("product_id = $%d", argIdx))
		args = append(args, *filter.ProductID)
		argIdx++
	}
	if filter.LocationID != nil {
		conditions = append(conditions, fmt.Sprintf("location_id = $%d", argIdx))
		args = append(args, *filter.LocationID)
		argIdx++
	}
	if filter.Status != nil {
		conditions = append(conditions, fmt.Sprintf("status = $%d", argIdx))
		args = append(args, *filter.Status)
		argIdx++
	}
	if filter.OpenOnly {
		conditions = append(conditions, "status <> 'resolved'")
	}

	where := strings.Join(conditions, " AND ")

	var total int
	countQuery := "SELECT COUNT(*) FROM reorder_alerts WHERE " + where
	if err := r.pool.QueryRow(ctx, countQuery, args...).Scan(&total); err != nil {
		return nil, 0, fmt.Errorf("failed to count alerts: %w", err)
	}

	query := fmt.Sprintf(`
		SELECT %s FROM reorder_alerts
		WHERE %s
		ORDER BY created_at DESC
		LIMIT $%d OFFSET $%d
	`, alertColumns, where, argIdx, argIdx+1)
	args = append(args, filter.Limit, (filter.Page-1)*filter.Limit)

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, 0, fmt.Errorf("failed to list alerts: %w", err)
	}
	defer rows.Close()

	alerts := make([]model.ReorderAlert, 0, filter.Limit)
	for rows.Next() {
		var a model.ReorderAlert
		err := rows.Scan(
			&a.ID, &a.ProductID, &a.LocationID, &a.Status,
			&a.StockAtCreation, &a.ReorderPointAtCreation, &a.SuggestedOrderQuantity,
			&a.CreatedAt, &a.UpdatedAt, &a.ResolvedAt,
		)
		if err != nil {
			return nil, 0, fmt.Errorf("failed to scan alert: %w", err)
		}
		alerts = append(alerts, a)
	}
	if err := rows.Err(); err != nil {
		return nil, 0, fmt.Errorf("failed to iterate alerts: %w", err)
	}

	return alerts, total, nil
}

func (r *postgresRepository) scanOne(row pgx.Row) (*model.ReorderAlert, error) {
	var a model.ReorderAlert
	err := row.Scan(
		&a.ID, &a.ProductID, &a.LocationID, &a.Status,
		&a.StockAtCreation, &a.ReorderPointAtCreation, &a.SuggestedOrderQuantity,
		&a.CreatedAt, &a.UpdatedAt, &a.ResolvedAt,
	)
	if err != nil {
		return nil, err
	}
	return &a, nil
}
