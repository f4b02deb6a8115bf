package repository

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/stock/model"
)

// RepositoryInterface persists the movement ledger and stock positions.
// AppendMovements must write the movements and their position updates
// atomically; either everything lands or nothing does.
type RepositoryInterface interface {
	// AppendMovements appends movements (assigning each a Seq) and upserts
	// the matching positions in one transaction. Movements and positions
	// are parallel with respect to (product, location) keys.
	AppendMovements(ctx context.Context, movements []*model.Movement, positions []*model.StockPosition) error

	// GetPosition returns the position for a key, or nil when none exists.
	GetPosition(ctx context.Context, productID, locationID uuid.UUID) (*model.StockPosition, error)

	// ListMovements returns one page of a key's history, newest first.
	// Timestamp collisions keep insertion order (Seq ascending). The total
	// count is returned alongside the page.
	ListMovements(ctx context.Context, filter model.HistoryFilter) ([]model.Movement, int, error)

	// ListPositionsBelowReorderPoint returns positions whose quantity is at
	// or below their product's reorder point. Used by the nightly scan.
	ListPositionsBelowReorderPoint(ctx context.Context) ([]model.StockPosition, error)
}
