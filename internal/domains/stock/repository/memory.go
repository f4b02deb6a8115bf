package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/stock/model"
)

// memoryRepository is an in-memory RepositoryInterface used by tests and
// demo mode. Thread safe.
type memoryRepository struct {
	mu        sync.RWMutex
	seq       int64
	movements []model.Movement
	positions map[string]model.StockPosition

	// reorder points by product, fed by the caller in demo mode so the
	// nightly scan has something to compare against
	reorderPoints map[uuid.UUID]int64
}

// NewMemoryRepository creates an empty in-memory ledger store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		positions:     make(map[string]model.StockPosition),
		reorderPoints: make(map[uuid.UUID]int64),
	}
}

func positionKey(productID, locationID uuid.UUID) string {
	return productID.String() + "|" + locationID.String()
}

// AppendMovements implements RepositoryInterface.AppendMovements
func (r *memoryRepository) AppendMovements(ctx context.Context, movements []*model.Movement, positions []*model.StockPosition) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	for _, m := range movements {
		r.seq++
		m.Seq = r.seq
		r.movements = append(r.movements, *m)
	}
	for _, p := range positions {
		r.positions[positionKey(p.ProductID, p.LocationID)] = *p
	}

	return nil
}

// GetPosition implements RepositoryInterface.GetPosition
func (r *memoryRepository) GetPosition(ctx context.Context, productID, locationID uuid.UUID) (*model.StockPosition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.positions[positionKey(productID, locationID)]
	if !ok {
		return nil, nil
	}
	return &p, nil
}

// ListMovements implements RepositoryInterface.ListMovements
func (r *memoryRepository) ListMovements(ctx context.Context, filter model.HistoryFilter) ([]model.Movement, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.Movement
	for _, m := range r.movements {
		if m.ProductID == filter.ProductID && m.LocationID == filter.LocationID {
			matched = append(matched, m)
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		if !matched[i].CreatedAt.Equal(matched[j].CreatedAt) {
			return matched[i].CreatedAt.After(matched[j].CreatedAt)
		}
		return matched[i].Seq < matched[j].Seq
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []model.Movement{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]model.Movement, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}

// SetReorderPoint records a product's reorder point for the low-stock scan.
func (r *memoryRepository) SetReorderPoint(productID uuid.UUID, point int64) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.reorderPoints[productID] = point
}

// ListPositionsBelowReorderPoint implements RepositoryInterface.ListPositionsBelowReorderPoint
func (r *memoryRepository) ListPositionsBelowReorderPoint(ctx context.Context) ([]model.StockPosition, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.StockPosition
	for _, p := range r.positions {
		point, ok := r.reorderPoints[p.ProductID]
		if ok && p.QuantityOnHand <= point {
			out = append(out, p)
		}
	}

	sort.Slice(out, func(i, j int) bool {
		return out[i].UpdatedAt.Before(out[j].UpdatedAt)
	})
	return out, nil
}
