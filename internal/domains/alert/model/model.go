package model

import (
	"time"

	"github.com/google/uuid"
)

// Status of a reorder alert.
type Status string

const (
	StatusNew          Status = "new"
	StatusAcknowledged Status = "acknowledged"
	StatusOrdering     Status = "ordering"
	StatusResolved     Status = "resolved"
)

// IsOpen reports whether the alert still needs attention. At most one open
// alert may exist per (product, location) key.
func (s Status) IsOpen() bool {
	return s != StatusResolved
}

// ReorderAlert flags a (product, location) whose quantity dropped to or
// below the product's reorder point.
type ReorderAlert struct {
	ID         uuid.UUID `json:"id"`
	ProductID  uuid.UUID `json:"product_id"`
	LocationID uuid.UUID `json:"location_id"`
	Status     Status    `json:"status"`

	StockAtCreation        int64 `json:"stock_at_creation"`
	ReorderPointAtCreation int64 `json:"reorder_point_at_creation"`
	SuggestedOrderQuantity int64 `json:"suggested_order_quantity"`

	CreatedAt  time.Time  `json:"created_at"`
	UpdatedAt  time.Time  `json:"updated_at"`
	ResolvedAt *time.Time `json:"resolved_at,omitempty"`
}

// ListAlertFilter narrows alert listings.
type ListAlertFilter struct {
	ProductID  *uuid.UUID
	LocationID *uuid.UUID
	Status     *Status
	OpenOnly   bool
	Page       int
	Limit      int
}

// ListAlertResponse is one page of alerts.
type ListAlertResponse struct {
	Items      []ReorderAlert `json:"items"`
	TotalItems int            `json:"total_items"`
	TotalPages int            `json:"total_pages"`
	Page       int            `json:"page"`
	Limit      int            `json:"limit"`
}
