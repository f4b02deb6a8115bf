package service

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/stock/model"
)

// ServiceInterface is the stock ledger. All quantity mutations in the system
// flow through PostMovement or PostMovements; nothing else writes positions.
type ServiceInterface interface {
	// PostMovement validates and appends a single movement, updates the
	// position, and notifies listeners before releasing the key's lock.
	PostMovement(ctx context.Context, actorID uuid.UUID, req model.PostMovementRequest) (*model.Movement, error)

	// PostMovements posts a batch atomically. Every line is validated
	// against current quantities before any line is applied; one failing
	// line fails the whole batch.
	PostMovements(ctx context.Context, actorID uuid.UUID, reqs []model.PostMovementRequest) ([]model.Movement, error)

	// GetPosition returns the position for a key. A key that never moved
	// reports zero quantity, not an error.
	GetPosition(ctx context.Context, productID, locationID uuid.UUID) (*model.StockPosition, error)

	// GetHistory pages through a key's movements, newest first.
	GetHistory(ctx context.Context, filter model.HistoryFilter) (*model.HistoryResponse, error)

	// RegisterListener subscribes to StockChanged events. Not safe to call
	// concurrently with posting; wire listeners at startup.
	RegisterListener(l model.Listener)
}
