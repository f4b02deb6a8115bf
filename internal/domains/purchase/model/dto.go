package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/shopspring/decimal"
)

// ItemRequest is one order line in a create or update call.
type ItemRequest struct {
	ProductID   *string         `json:"product_id,omitempty"` // nil for free-text lines
	Description string          `json:"description"`
	Quantity    int64           `json:"quantity"`
	UnitPrice   decimal.Decimal `json:"unit_price"`
}

func (req ItemRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.ProductID, is.UUIDv4),
		validation.Field(&req.Quantity, validation.Required, validation.Min(1)),
		validation.Field(&req.UnitPrice, validation.By(func(interface{}) error {
			if req.UnitPrice.IsNegative() {
				return validation.NewError("validation_unit_price", "unit price cannot be negative")
			}
			return nil
		})),
		validation.Field(&req.Description, validation.By(func(interface{}) error {
			if req.ProductID == nil && req.Description == "" {
				return validation.NewError("validation_description", "description is required for non-catalog lines")
			}
			return nil
		})),
	)
}

// CreateOrderRequest opens a draft order.
type CreateOrderRequest struct {
	SupplierID          string        `json:"supplier_id"`
	LocationID          string        `json:"location_id"`
	Items               []ItemRequest `json:"items"`
	Notes               string        `json:"notes,omitempty"`
	EstimatedDeliveryAt *time.Time    `json:"estimated_delivery_at,omitempty"`

	// AlertIDs optionally links reorder alerts; they are marked ordering.
	AlertIDs []string `json:"alert_ids,omitempty"`
}

func (req CreateOrderRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SupplierID, validation.Required, is.UUIDv4),
		validation.Field(&req.LocationID, validation.Required, is.UUIDv4),
		validation.Field(&req.Items, validation.Required, validation.Length(1, 0)),
		validation.Field(&req.AlertIDs, validation.Each(is.UUIDv4)),
	)
}

// UpdateDraftRequest edits an order while still in borrador. Items, when
// present, replace the full line list and totals are recomputed.
type UpdateDraftRequest struct {
	Items               []ItemRequest `json:"items,omitempty"`
	Notes               *string       `json:"notes,omitempty"`
	EstimatedDeliveryAt *time.Time    `json:"estimated_delivery_at,omitempty"`
}

// ChangeStateRequest moves an order through the state machine.
type ChangeStateRequest struct {
	TargetStatus Status `json:"target_status"`

	// ExpectedVersion guards against lost updates when set.
	ExpectedVersion *int `json:"expected_version,omitempty"`
}

func (req ChangeStateRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.TargetStatus, validation.Required, validation.By(func(interface{}) error {
			if !req.TargetStatus.IsValid() {
				return validation.NewError("validation_status", "unknown order status")
			}
			return nil
		})),
	)
}

// ReceiveLine reports goods received against one order line.
type ReceiveLine struct {
	ItemID   string `json:"item_id"`
	Quantity int64  `json:"quantity"`
}

func (l ReceiveLine) Validate() error {
	return validation.ValidateStruct(&l,
		validation.Field(&l.ItemID, validation.Required, is.UUIDv4),
		validation.Field(&l.Quantity, validation.Required, validation.Min(1)),
	)
}

// ReceiveRequest records one delivery. Only the lines present are posted;
// earlier deliveries for the same order are never re-posted.
type ReceiveRequest struct {
	Lines           []ReceiveLine `json:"lines"`
	ExpectedVersion *int          `json:"expected_version,omitempty"`
}

func (req ReceiveRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Lines, validation.Required, validation.Length(1, 0)),
	)
}
