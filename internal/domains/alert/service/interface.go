package service

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/alert/model"
	stockmodel "dentalcare-backend/internal/domains/stock/model"
)

// ServiceInterface watches the stock ledger and manages reorder alerts.
type ServiceInterface interface {
	// OnStockChanged evaluates a ledger event. Called synchronously by the
	// stock service while it still holds the key's lock.
	OnStockChanged(ctx context.Context, event stockmodel.StockChanged) error

	// GetAlert returns an alert by ID.
	GetAlert(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error)

	// ListAlerts returns a filtered page of alerts.
	ListAlerts(ctx context.Context, filter model.ListAlertFilter) (*model.ListAlertResponse, error)

	// Acknowledge moves a new alert to acknowledged.
	Acknowledge(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error)

	// MarkOrdering moves a new or acknowledged alert to ordering, meaning a
	// purchase order is being prepared for it.
	MarkOrdering(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error)

	// Resolve closes any non-resolved alert. Resolved alerts never reopen;
	// a fresh breach creates a new one.
	Resolve(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error)

	// ScanPositions sweeps every position at or below its reorder point and
	// runs the same evaluation as OnStockChanged. Used by the nightly job
	// to catch keys whose stock never moved after a reorder point was raised.
	ScanPositions(ctx context.Context) (int, error)
}
