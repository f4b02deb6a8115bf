package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/xuri/excelize/v2"

	"dentalcare-backend/internal/domains/catalog/model"
)

// ServiceInterface is the business contract for the catalog. The clinic's
// catalog screens own product data; the inventory core reads it.
type ServiceInterface interface {
	// CreateProduct registers a new product. SKU must be unique.
	CreateProduct(ctx context.Context, req model.CreateProductRequest) (*model.Product, error)

	// GetProduct returns a product by ID (cached).
	GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error)

	// GetProductBySKU returns a product by its SKU.
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)

	// UpdateProduct applies non-nil fields. SKU is immutable; deactivation
	// is the only form of deletion, movement history keeps referencing the row.
	UpdateProduct(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error)

	// ListProducts returns a paginated, filtered product listing.
	ListProducts(ctx context.Context, filter model.ListProductFilter) (*model.ListProductResponse, error)

	// CreateSupplier registers a supplier.
	CreateSupplier(ctx context.Context, req model.CreateSupplierRequest) (*model.Supplier, error)

	// GetSupplier returns a supplier by ID.
	GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error)

	// ListSuppliers lists suppliers, optionally active only.
	ListSuppliers(ctx context.Context, activeOnly bool) ([]model.Supplier, error)

	// ImportProducts reads an Excel sheet (SKU, Name, Category, Unit,
	// UnitCost, ReorderPoint) and upserts valid rows; per-row errors are
	// collected, not fatal.
	ImportProducts(ctx context.Context, reader io.Reader) (*model.BulkImportResult, error)

	// ExportProducts builds an Excel workbook of the current catalog.
	ExportProducts(ctx context.Context, filter model.ListProductFilter) (*excelize.File, error)
}
