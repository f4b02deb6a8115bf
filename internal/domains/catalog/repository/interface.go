package repository

import (
	"context"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/catalog/model"
)

// RepositoryInterface is the data-access contract for the catalog.
type RepositoryInterface interface {
	CreateProduct(ctx context.Context, product *model.Product) error
	GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error)
	GetProductBySKU(ctx context.Context, sku string) (*model.Product, error)
	UpdateProduct(ctx context.Context, product *model.Product) error
	ListProducts(ctx context.Context, filter model.ListProductFilter) ([]model.Product, int, error)

	CreateSupplier(ctx context.Context, supplier *model.Supplier) error
	GetSupplierByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error)
	ListSuppliers(ctx context.Context, activeOnly bool) ([]model.Supplier, error)
}
