package repository

import (
	"context"
	"sync"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/treatment/model"
)

// memoryRepository is an in-memory RepositoryInterface for tests and demo
// mode. Thread safe.
type memoryRepository struct {
	mu       sync.RWMutex
	profiles map[uuid.UUID]model.ConsumptionProfile
}

// NewMemoryRepository creates an empty in-memory profile store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{profiles: make(map[uuid.UUID]model.ConsumptionProfile)}
}

// Replace implements RepositoryInterface.Replace
func (r *memoryRepository) Replace(ctx context.Context, profile *model.ConsumptionProfile) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	items := make([]model.ProfileItem, len(profile.Items))
	copy(items, profile.Items)
	stored := *profile
	stored.Items = items
	r.profiles[profile.TreatmentID] = stored
	return nil
}

// GetByTreatmentID implements RepositoryInterface.GetByTreatmentID
func (r *memoryRepository) GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*model.ConsumptionProfile, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	p, ok := r.profiles[treatmentID]
	if !ok {
		return nil, model.ErrProfileNotFound
	}
	items := make([]model.ProfileItem, len(p.Items))
	copy(items, p.Items)
	p.Items = items
	return &p, nil
}

// Delete implements RepositoryInterface.Delete
func (r *memoryRepository) Delete(ctx context.Context, treatmentID uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.profiles[treatmentID]; !ok {
		return model.ErrProfileNotFound
	}
	delete(r.profiles, treatmentID)
	return nil
}
