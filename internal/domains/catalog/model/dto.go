package model

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
	"github.com/go-ozzo/ozzo-validation/v4/is"
	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// =====================================================
// PRODUCT DTOs
// =====================================================

type CreateProductRequest struct {
	SKU                 string          `json:"sku"`
	Name                string          `json:"name"`
	Category            string          `json:"category"`
	Unit                string          `json:"unit"`
	UnitCost            decimal.Decimal `json:"unit_cost"`
	ReorderPoint        int64           `json:"reorder_point"`
	PreferredSupplierID *string         `json:"preferred_supplier_id,omitempty"`
	Tags                []string        `json:"tags,omitempty"`
}

func (req CreateProductRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.SKU, validation.Required, validation.Length(2, 64)),
		validation.Field(&req.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&req.Unit, validation.Required),
		validation.Field(&req.ReorderPoint, validation.Min(0)),
		validation.Field(&req.PreferredSupplierID, is.UUIDv4),
	)
}

// UpdateProductRequest updates only non-nil fields. SKU is immutable.
type UpdateProductRequest struct {
	Name                *string          `json:"name,omitempty"`
	Category            *string          `json:"category,omitempty"`
	Unit                *string          `json:"unit,omitempty"`
	UnitCost            *decimal.Decimal `json:"unit_cost,omitempty"`
	ReorderPoint        *int64           `json:"reorder_point,omitempty"`
	PreferredSupplierID *string          `json:"preferred_supplier_id,omitempty"`
	Tags                []string         `json:"tags,omitempty"`
	Active              *bool            `json:"active,omitempty"`
}

type ListProductResponse struct {
	Items      []Product `json:"items"`
	TotalItems int       `json:"total_items"`
	TotalPages int       `json:"total_pages"`
	Page       int       `json:"page"`
	Limit      int       `json:"limit"`
}

// =====================================================
// SUPPLIER DTOs
// =====================================================

type CreateSupplierRequest struct {
	Name  string `json:"name"`
	TaxID string `json:"tax_id"`
	Email string `json:"email"`
	Phone string `json:"phone"`
}

func (req CreateSupplierRequest) Validate() error {
	return validation.ValidateStruct(&req,
		validation.Field(&req.Name, validation.Required, validation.Length(2, 255)),
		validation.Field(&req.Email, is.Email),
	)
}

// =====================================================
// BULK IMPORT DTOs
// =====================================================

// BulkImportRowError pinpoints a rejected spreadsheet row.
type BulkImportRowError struct {
	Row     int    `json:"row"`
	Message string `json:"message"`
}

type BulkImportResult struct {
	Imported   int                  `json:"imported"`
	Skipped    int                  `json:"skipped"`
	RowErrors  []BulkImportRowError `json:"row_errors,omitempty"`
	FinishedAt time.Time            `json:"finished_at"`
}

// ToProductID parses an optional supplier reference.
func ToProductID(s *string) (*uuid.UUID, error) {
	if s == nil || *s == "" {
		return nil, nil
	}
	id, err := uuid.Parse(*s)
	if err != nil {
		return nil, err
	}
	return &id, nil
}
