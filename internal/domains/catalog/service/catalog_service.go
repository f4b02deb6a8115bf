package service

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/catalog/model"
	"dentalcare-backend/internal/domains/catalog/repository"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/cache"
)

const (
	productCacheTTL       = 5 * time.Minute
	productCacheKeyPrefix = "catalog:product:"
)

type CatalogService struct {
	repo  repository.RepositoryInterface
	cache cache.Cache
	clock shared.Clock
}

// NewService creates a new catalog service.
func NewService(repo repository.RepositoryInterface, cacheLayer cache.Cache, clock shared.Clock) ServiceInterface {
	return &CatalogService{
		repo:  repo,
		cache: cacheLayer,
		clock: clock,
	}
}

// CreateProduct implements ServiceInterface.CreateProduct
func (s *CatalogService) CreateProduct(ctx context.Context, req model.CreateProductRequest) (*model.Product, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidProduct, err)
	}

	supplierID, err := model.ToProductID(req.PreferredSupplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid preferred_supplier_id", model.ErrInvalidProduct)
	}

	now := s.clock.Now()
	product := &model.Product{
		ID:                  uuid.New(),
		SKU:                 req.SKU,
		Name:                req.Name,
		Category:            req.Category,
		Unit:                req.Unit,
		UnitCost:            req.UnitCost,
		ReorderPoint:        req.ReorderPoint,
		PreferredSupplierID: supplierID,
		Tags:                req.Tags,
		Active:              true,
		CreatedAt:           now,
		UpdatedAt:           now,
	}

	if err := s.repo.CreateProduct(ctx, product); err != nil {
		return nil, err
	}

	return product, nil
}

// GetProduct implements ServiceInterface.GetProduct
func (s *CatalogService) GetProduct(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	cacheKey := productCacheKeyPrefix + id.String()

	var cached model.Product
	if found, err := s.cache.Get(ctx, cacheKey, &cached); err == nil && found {
		return &cached, nil
	}

	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	// Best effort; a cache failure never fails the read.
	_ = s.cache.Set(ctx, cacheKey, product, productCacheTTL)

	return product, nil
}

// GetProductBySKU implements ServiceInterface.GetProductBySKU
func (s *CatalogService) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	return s.repo.GetProductBySKU(ctx, sku)
}

// UpdateProduct implements ServiceInterface.UpdateProduct
func (s *CatalogService) UpdateProduct(ctx context.Context, id uuid.UUID, req model.UpdateProductRequest) (*model.Product, error) {
	product, err := s.repo.GetProductByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		product.Name = *req.Name
	}
	if req.Category != nil {
		product.Category = *req.Category
	}
	if req.Unit != nil {
		product.Unit = *req.Unit
	}
	if req.UnitCost != nil {
		if req.UnitCost.IsNegative() {
			return nil, fmt.Errorf("%w: unit_cost cannot be negative", model.ErrInvalidProduct)
		}
		product.UnitCost = *req.UnitCost
	}
	if req.ReorderPoint != nil {
		if *req.ReorderPoint < 0 {
			return nil, fmt.Errorf("%w: reorder_point cannot be negative", model.ErrInvalidProduct)
		}
		product.ReorderPoint = *req.ReorderPoint
	}
	if req.PreferredSupplierID != nil {
		supplierID, err := model.ToProductID(req.PreferredSupplierID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid preferred_supplier_id", model.ErrInvalidProduct)
		}
		product.PreferredSupplierID = supplierID
	}
	if req.Tags != nil {
		product.Tags = req.Tags
	}
	if req.Active != nil {
		product.Active = *req.Active
	}
	product.UpdatedAt = s.clock.Now()

	if err := s.repo.UpdateProduct(ctx, product); err != nil {
		return nil, err
	}

	_ = s.cache.Delete(ctx, productCacheKeyPrefix+id.String())

	return product, nil
}

// ListProducts implements ServiceInterface.ListProducts
func (s *CatalogService) ListProducts(ctx context.Context, filter model.ListProductFilter) (*model.ListProductResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	products, total, err := s.repo.ListProducts(ctx, filter)
	if err != nil {
		return nil, fmt.Errorf("failed to list products: %w", err)
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	if totalPages == 0 {
		totalPages = 1
	}

	return &model.ListProductResponse{
		Items:      products,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// CreateSupplier implements ServiceInterface.CreateSupplier
func (s *CatalogService) CreateSupplier(ctx context.Context, req model.CreateSupplierRequest) (*model.Supplier, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidProduct, err)
	}

	now := s.clock.Now()
	supplier := &model.Supplier{
		ID:        uuid.New(),
		Name:      req.Name,
		TaxID:     req.TaxID,
		Email:     req.Email,
		Phone:     req.Phone,
		Active:    true,
		CreatedAt: now,
		UpdatedAt: now,
	}

	if err := s.repo.CreateSupplier(ctx, supplier); err != nil {
		return nil, err
	}

	return supplier, nil
}

// GetSupplier implements ServiceInterface.GetSupplier
func (s *CatalogService) GetSupplier(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	return s.repo.GetSupplierByID(ctx, id)
}

// ListSuppliers implements ServiceInterface.ListSuppliers
func (s *CatalogService) ListSuppliers(ctx context.Context, activeOnly bool) ([]model.Supplier, error) {
	return s.repo.ListSuppliers(ctx, activeOnly)
}
