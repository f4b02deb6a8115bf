package repository

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/treatment/model"
)

// RepositoryInterface persists consumption profiles.
type RepositoryInterface interface {
	// Replace atomically swaps a treatment's full item list.
	Replace(ctx context.Context, profile *model.ConsumptionProfile) error

	// GetByTreatmentID loads a profile or ErrProfileNotFound.
	GetByTreatmentID(ctx context.Context, treatmentID uuid.UUID) (*model.ConsumptionProfile, error)

	// Delete removes a treatment's profile.
	Delete(ctx context.Context, treatmentID uuid.UUID) error
}
