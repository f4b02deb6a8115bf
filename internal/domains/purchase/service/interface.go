package service

import (
	"context"
	"io"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/purchase/model"
)

// ServiceInterface drives purchase orders through their lifecycle. Receiving
// goods is the only path by which this service writes to the stock ledger.
type ServiceInterface interface {
	// CreateDraft opens a new order in borrador and assigns its number.
	// Linked reorder alerts are marked ordering.
	CreateDraft(ctx context.Context, actorID uuid.UUID, req model.CreateOrderRequest) (*model.PurchaseOrder, error)

	// UpdateDraft edits items, notes or delivery date while still borrador;
	// totals are recomputed.
	UpdateDraft(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.UpdateDraftRequest) (*model.PurchaseOrder, error)

	// GetOrder loads an order with items and status history.
	GetOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error)

	// ListOrders returns a filtered page of orders without items.
	ListOrders(ctx context.Context, filter model.ListOrderFilter) (*model.ListOrderResponse, error)

	// ChangeState applies a legal non-receipt transition. Receipt states
	// are only reachable through Receive.
	ChangeState(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.ChangeStateRequest) (*model.PurchaseOrder, error)

	// Receive records one delivery. Each call posts only its own lines;
	// accumulated received quantities decide recibida_parcial versus
	// recibida_completa.
	Receive(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.ReceiveRequest) (*model.PurchaseOrder, error)

	// Delete hard-deletes a borrador order.
	Delete(ctx context.Context, id uuid.UUID) error

	// UploadAttachment stores a delivery note or invoice for an order.
	UploadAttachment(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*model.Attachment, error)

	// ListAttachments lists an order's stored documents.
	ListAttachments(ctx context.Context, orderID uuid.UUID) ([]model.Attachment, error)

	// DownloadAttachment streams an attachment's content.
	DownloadAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, io.ReadCloser, error)
}
