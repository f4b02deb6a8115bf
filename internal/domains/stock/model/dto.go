package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/google/uuid"
)

// PostMovementRequest is one ledger entry to post.
type PostMovementRequest struct {
	ProductID     uuid.UUID    `json:"product_id"`
	LocationID    uuid.UUID    `json:"location_id"`
	Kind          MovementKind `json:"kind"`
	QuantityDelta int64        `json:"quantity_delta"`
	Reason        *string      `json:"reason,omitempty"`
	ReferenceID   *uuid.UUID   `json:"reference_id,omitempty"`
}

func (req PostMovementRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required),
		validation.Field(&req.LocationID, validation.Required),
		validation.Field(&req.Kind, validation.Required, validation.By(func(interface{}) error {
			if !req.Kind.IsValid() {
				return validation.NewError("validation_kind", "unknown movement kind")
			}
			return nil
		})),
		validation.Field(&req.QuantityDelta, validation.Required.Error("quantity delta cannot be zero")),
	)
}

// HistoryFilter pages through a key's movement history.
type HistoryFilter struct {
	ProductID  uuid.UUID
	LocationID uuid.UUID
	Page       int
	Limit      int
}

// HistoryResponse is one page of movements, newest first.
type HistoryResponse struct {
	Items      []Movement `json:"items"`
	TotalItems int        `json:"total_items"`
	TotalPages int        `json:"total_pages"`
	Page       int        `json:"page"`
	Limit      int        `json:"limit"`
}
