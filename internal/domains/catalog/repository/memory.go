package repository

import (
	"context"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/catalog/model"
)

// memoryRepository keeps the catalog in process memory. Used by tests and
// by demo mode when no database is configured.
type memoryRepository struct {
	mu        sync.RWMutex
	products  map[uuid.UUID]model.Product
	bySKU     map[string]uuid.UUID
	suppliers map[uuid.UUID]model.Supplier
}

// NewMemoryRepository creates an empty in-memory catalog repository.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		products:  make(map[uuid.UUID]model.Product),
		bySKU:     make(map[string]uuid.UUID),
		suppliers: make(map[uuid.UUID]model.Supplier),
	}
}

func (r *memoryRepository) CreateProduct(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.bySKU[product.SKU]; exists {
		return model.ErrSKUAlreadyExists
	}
	if product.PreferredSupplierID != nil {
		if _, ok := r.suppliers[*product.PreferredSupplierID]; !ok {
			return model.ErrSupplierNotFound
		}
	}

	r.products[product.ID] = *product
	r.bySKU[product.SKU] = product.ID
	return nil
}

func (r *memoryRepository) GetProductByID(ctx context.Context, id uuid.UUID) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	product, ok := r.products[id]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	return &product, nil
}

func (r *memoryRepository) GetProductBySKU(ctx context.Context, sku string) (*model.Product, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	id, ok := r.bySKU[sku]
	if !ok {
		return nil, model.ErrProductNotFound
	}
	product := r.products[id]
	return &product, nil
}

func (r *memoryRepository) UpdateProduct(ctx context.Context, product *model.Product) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, ok := r.products[product.ID]
	if !ok {
		return model.ErrProductNotFound
	}
	if current.SKU != product.SKU {
		return model.ErrSKUImmutable
	}

	r.products[product.ID] = *product
	return nil
}

func (r *memoryRepository) ListProducts(ctx context.Context, filter model.ListProductFilter) ([]model.Product, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	matched := make([]model.Product, 0)
	for _, p := range r.products {
		if filter.Keyword != "" {
			kw := strings.ToLower(filter.Keyword)
			if !strings.Contains(strings.ToLower(p.Name), kw) && !strings.Contains(strings.ToLower(p.SKU), kw) {
				continue
			}
		}
		if filter.Category != "" && p.Category != filter.Category {
			continue
		}
		if filter.Active != nil && p.Active != *filter.Active {
			continue
		}
		matched = append(matched, p)
	}

	sort.Slice(matched, func(i, j int) bool { return matched[i].Name < matched[j].Name })

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start > total {
		start = total
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}

	return matched[start:end], total, nil
}

func (r *memoryRepository) CreateSupplier(ctx context.Context, supplier *model.Supplier) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	r.suppliers[supplier.ID] = *supplier
	return nil
}

func (r *memoryRepository) GetSupplierByID(ctx context.Context, id uuid.UUID) (*model.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	supplier, ok := r.suppliers[id]
	if !ok {
		return nil, model.ErrSupplierNotFound
	}
	return &supplier, nil
}

func (r *memoryRepository) ListSuppliers(ctx context.Context, activeOnly bool) ([]model.Supplier, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	suppliers := make([]model.Supplier, 0, len(r.suppliers))
	for _, s := range r.suppliers {
		if activeOnly && !s.Active {
			continue
		}
		suppliers = append(suppliers, s)
	}

	sort.Slice(suppliers, func(i, j int) bool { return suppliers[i].Name < suppliers[j].Name })
	return suppliers, nil
}
