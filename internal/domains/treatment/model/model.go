package model

import (
	"time"

	"github.com/google/uuid"
)

// ProfileItem is one material a treatment consumes per execution.
type ProfileItem struct {
	ProductID uuid.UUID `json:"product_id"`
	Quantity  int64     `json:"quantity"` // units per execution, > 0
}

// ConsumptionProfile maps a treatment to the materials it consumes.
// SetConsumptionProfile replaces the whole list; there is no merging.
type ConsumptionProfile struct {
	TreatmentID uuid.UUID     `json:"treatment_id"`
	Items       []ProfileItem `json:"items"`
	UpdatedAt   time.Time     `json:"updated_at"`
}

// ConsumptionResult reports one applied execution.
type ConsumptionResult struct {
	TreatmentID uuid.UUID `json:"treatment_id"`
	ExecutionID uuid.UUID `json:"execution_id"` // reference on the posted movements
	LocationID  uuid.UUID `json:"location_id"`
	MovementIDs []uuid.UUID `json:"movement_ids"`
	AppliedAt   time.Time `json:"applied_at"`
}
