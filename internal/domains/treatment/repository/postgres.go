package repository

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"dentalcare-backend/internal/domains/treatment/model"
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

// Replace implements RepositoryInterface.Replace
func (r *postgresRepository) Replace(ctx context.Context, profile *model.ConsumptionProfile) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM consumption_profile_items WHERE treatment_id = $1`, profile.TreatmentID); err != nil {
			return fmt.Errorf("failed to clear profile items: %w", err)
		}

		upsert := `
			INSERT INTO consumption_profiles (treatment_id, updated_at)
			VALUES ($1, $2)
			ON CONFLICT (treatment_id) DO UPDATE SET updated_at = EXCLUDED.updated_at
		`
		if _, err := tx.Exec(ctx, upsert, profile.TreatmentID, profile.UpdatedAt); err != nil {
			return fmt.Errorf("failed to upsert profile: %w", err)
		}

		insert := `
			INSERT INTO consumption_profile_items (treatment_id, product_id, quantity)
			VALUES ($1, $2, $3)
		`
		for _, item := range profile.Items {
			if _, err := tx.Exec(ctx, insert, profile.TreatmentID, item.ProductID, item.Quantity); err != nil {
				return fmt.Errorf("failed to insert profile item: %w", err)
			}
		}
		return nil
	})
}

// GetByTreatmentID implements RepositoryInterface.GetByTreatmentID
func (r *postgresRepository) GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*model.ConsumptionProfile, error) {
	var profile model.ConsumptionProfile
	err := r.pool.QueryRow(ctx,
		`SELECT treatment_id, updated_at FROM consumption_profiles WHERE treatment_id = $1`,
		treatmentID,
	).Scan(&profile.TreatmentID, &profile.UpdatedAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, model.ErrProfileNotFound
		}
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}

	rows, err := r.pool.Query(ctx,
		`SELECT product_id, quantity FROM consumption_profile_items WHERE treatment_id = $1 ORDER BY product_id`,
		treatmentID,
	)
	if err != nil {
		return nil, fmt.Errorf("failed to load profile items: %w", err)
	}
	defer rows.Close()

	for rows.Next() {
		var item model.ProfileItem
		if err := rows.Scan(&item.ProductID, &item.Quantity); err != nil {
			return nil, fmt.Errorf("failed to scan profile item: %w", err)
		}
		profile.Items = append(profile.Items, item)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("failed to iterate profile items: %w", err)
	}

	return &profile, nil
}

// Delete implements RepositoryInterface.Delete
func (r *postgresRepository) Delete(ctx context.Context, treatmentID uuid.UUID) error {
	return database.WithTransaction(ctx, r.pool, func(tx pgx.Tx) error {
		if _, err := tx.Exec(ctx, `DELETE FROM consumption_profile_items WHERE treatment_id = $1`, treatmentID); err != nil {
			return fmt.Errorf("failed to delete profile items: %w", err)
		}

		tag, err := tx.Exec(ctx, `DELETE FROM consumption_profiles WHERE treatment_id = $1`, treatmentID)
		if err != nil {
			return fmt.Errorf("failed to delete profile: %w", err)
		}
		if tag.RowsAffected() == 0 {
			return model.ErrProfileNotFound
		}
		return nil
	})
}
