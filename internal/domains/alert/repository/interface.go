package repository

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/alert/model"
)

// RepositoryInterface persists reorder alerts.
type RepositoryInterface interface {
	Create(ctx context.Context, alert *model.ReorderAlert) error
	Update(ctx context.Context, alert *model.ReorderAlert) error
	GetByID(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error)

	// GetOpenByKey returns the single open alert for a key, or nil when a
	// key has none.
	GetOpenByKey(ctx context.Context, productID, locationID uuid.UUID) (*model.ReorderAlert, error)

	List(ctx context.Context, filter model.ListAlertFilter) ([]model.ReorderAlert, int, error)
}
