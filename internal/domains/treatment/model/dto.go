package model

import (
	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
)

// ProfileItemRequest is one material in a profile replace call.
type ProfileItemRequest struct {
	ProductID string `json:"product_id"`
	Quantity  int64  `json:"quantity"`
}

func (req ProfileItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, validation.Required, is.UUIDv4),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
	)
}

// SetProfileRequest replaces a treatment's full material list.
type SetProfileRequest struct {
	Items []ProfileItemRequest `json:"items"`
}

func (req SetProfileRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
	)
}

// ApplyConsumptionRequest records one performed treatment.
type ApplyConsumptionRequest struct {
	LocationID string `json:"location_id"`
}

func (req ApplyConsumptionRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.LocationID, validation.Required, is.UUIDv4),
	)
}
