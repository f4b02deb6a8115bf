package service

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/treatment/model"
)

// ServiceInterface links treatments to the materials they consume.
type ServiceInterface interface {
	// SetConsumptionProfile replaces the full material list for a
	// treatment. Duplicate products in one call are rejected.
	SetConsumptionProfile(ctx context.Context, treatmentID uuid.UUID, req model.SetProfileRequest) (*model.ConsumptionProfile, error)

	// GetConsumptionProfile loads a treatment's profile.
	GetConsumptionProfile(ctx context.Context, treatmentID uuid.UUID) (*model.ConsumptionProfile, error)

	// DeleteConsumptionProfile removes a treatment's profile.
	DeleteConsumptionProfile(ctx context.Context, treatmentID uuid.UUID) error

	// ApplyConsumption posts one clinical_use movement per configured item
	// when a treatment is performed. All-or-nothing: if any material lacks
	// stock, nothing is posted.
	ApplyConsumption(ctx context.Context, actorID, treatmentID, locationID uuid.UUID) (*model.ConsumptionResult, error)
}
