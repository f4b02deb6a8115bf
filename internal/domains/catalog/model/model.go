package model

import (
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// Product is a catalog entry for a clinical material or consumable.
// Movement history references products, so they are soft-deleted only.
type Product struct {
	ID       uuid.UUID `json:"id"`
	SKU      string    `json:"sku"` // unique, immutable after creation
	Name     string    `json:"name"`
	Category string    `json:"category"`
	Unit     string    `json:"unit"` // caja, unidad, ml, g...

	UnitCost     decimal.Decimal `json:"unit_cost"`
	ReorderPoint int64           `json:"reorder_point"`

	PreferredSupplierID *uuid.UUID `json:"preferred_supplier_id,omitempty"`
	Tags                []string   `json:"tags,omitempty"`

	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// Supplier is a read-mostly reference for purchase orders.
type Supplier struct {
	ID        uuid.UUID `json:"id"`
	Name      string    `json:"name"`
	TaxID     string    `json:"tax_id"`
	Email     string    `json:"email"`
	Phone     string    `json:"phone"`
	Active    bool      `json:"active"`
	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

// ListProductFilter narrows product listings.
type ListProductFilter struct {
	Keyword  string
	Category string
	Active   *bool
	Page     int
	Limit    int
}
