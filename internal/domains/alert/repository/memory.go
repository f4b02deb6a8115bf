package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/alert/model"
)

// memoryRepository is an in-memory RepositoryInterface for tests and demo
// mode. Thread safe.
type memoryRepository struct {
	mu     sync.RWMutex
	alerts map[uuid.UUID]model.ReorderAlert
}

// NewMemoryRepository creates an empty in-memory alert store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{alerts: make(map[uuid.UUID]model.ReorderAlert)}
}

// Create implements RepositoryInterface.Create
func (r *memoryRepository) Create(ctx context.Context, alert *model.ReorderAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.alerts[alert.ID] = *alert
	return nil
}

// Update implements RepositoryInterface.Update
func (r *memoryRepository) Update(ctx context.Context, alert *model.ReorderAlert) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.alerts[alert.ID]; !ok {
		return model.ErrAlertNotFound
	}
	r.alerts[alert.ID] = *alert
	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.alerts[id]
	if !ok {
		return nil, model.ErrAlertNotFound
	}
	return &a, nil
}

// GetOpenByKey implements RepositoryInterface.GetOpenByKey
func (r *memoryRepository) GetOpenByKey(ctx context.Context, productID, locationID uuid.UUID) (*model.ReorderAlert, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	for _, a := range r.alerts {
		if a.ProductID == productID && a.LocationID == locationID && a.Status.IsOpen() {
			found := a
			return &found, nil
		}
	}
	return nil, nil
}

// List implements RepositoryInterface.List
func (r *memoryRepository) List(ctx context.Context, filter model.ListAlertFilter) ([]model.ReorderAlert, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.ReorderAlert
	for _, a := range r.alerts {
		if filter.ProductID != nil && a.ProductID != *filter.ProductID {
			continue
		}
		if filter.LocationID != nil && a.LocationID != *filter.LocationID {
			continue
		}
		if filter.Status != nil && a.Status != *filter.Status {
			continue
		}
		if filter.OpenOnly && !a.Status.IsOpen() {
			continue
		}
		matched = append(matched, a)
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []model.ReorderAlert{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	page := make([]model.ReorderAlert, end-start)
	copy(page, matched[start:end])
	return page, total, nil
}
