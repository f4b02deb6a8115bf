package repository

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/purchase/model"
)

// RepositoryInterface persists purchase orders, their lines, their status
// history, and attachment metadata.
type RepositoryInterface interface {
	// Create inserts an order with its items and initial status history.
	Create(ctx context.Context, order *model.PurchaseOrder) error

	// Update writes the order guarded by its previous version: the row must
	// still be at order.Version-1 or ErrConcurrentModification is returned.
	// Items are replaced; appendHistory entries are appended.
	Update(ctx context.Context, order *model.PurchaseOrder, appendHistory []model.StatusChange) error

	// GetByID loads an order with items and full status history.
	GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)

	List(ctx context.Context, filter model.ListOrderFilter) ([]model.PurchaseOrder, int, error)

	// Delete hard-deletes an order and its items. The service only calls
	// this for borrador orders.
	Delete(ctx context.Context, id uuid.UUID) error

	CreateAttachment(ctx context.Context, attachment *model.Attachment) error
	GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error)
	ListAttachments(ctx context.Context, orderID uuid.UUID) ([]model.Attachment, error)
}
