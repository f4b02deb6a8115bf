package repository

import (
	"context"
	"sort"
	"sync"

	"github.com/google/uuid"

	"dentalcare-backend/internal/domains/purchase/model"
)

// memoryRepository is an in-memory RepositoryInterface for tests and demo
// mode. Thread safe.
type memoryRepository struct {
	mu          sync.RWMutex
	orders      map[uuid.UUID]model.PurchaseOrder
	attachments map[uuid.UUID]model.Attachment
}

// NewMemoryRepository creates an empty in-memory order store.
func NewMemoryRepository() RepositoryInterface {
	return &memoryRepository{
		orders:      make(map[uuid.UUID]model.PurchaseOrder),
		attachments: make(map[uuid.UUID]model.Attachment),
	}
}

func cloneOrder(o model.PurchaseOrder) model.PurchaseOrder {
	items := make([]model.Item, len(o.Items))
	copy(items, o.Items)
	history := make([]model.StatusChange, len(o.StatusHistory))
	copy(history, o.StatusHistory)
	o.Items = items
	o.StatusHistory = history
	return o
}

// Create implements RepositoryInterface.Create
func (r *memoryRepository) Create(ctx context.Context, order *model.PurchaseOrder) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.orders[order.ID] = cloneOrder(*order)
	return nil
}

// Update implements RepositoryInterface.Update
func (r *memoryRepository) Update(ctx context.Context, order *model.PurchaseOrder, appendHistory []model.StatusChange) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	stored, ok := r.orders[order.ID]
	if !ok {
		return model.ErrOrderNotFound
	}
	if stored.Version != order.Version-1 {
		return model.ErrConcurrentModification
	}

	next := cloneOrder(*order)
	next.StatusHistory = append(append([]model.StatusChange{}, stored.StatusHistory...), appendHistory...)
	r.orders[order.ID] = next
	order.StatusHistory = next.StatusHistory
	return nil
}

// GetByID implements RepositoryInterface.GetByID
func (r *memoryRepository) GetByID(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	o, ok := r.orders[id]
	if !ok {
		return nil, model.ErrOrderNotFound
	}
	clone := cloneOrder(o)
	return &clone, nil
}

// List implements RepositoryInterface.List
func (r *memoryRepository) List(ctx context.Context, filter model.ListOrderFilter) ([]model.PurchaseOrder, int, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var matched []model.PurchaseOrder
	for _, o := range r.orders {
		if filter.SupplierID != nil && o.SupplierID != *filter.SupplierID {
			continue
		}
		if filter.LocationID != nil && o.LocationID != *filter.LocationID {
			continue
		}
		if filter.Status != nil && o.Status != *filter.Status {
			continue
		}
		matched = append(matched, cloneOrder(o))
	}

	sort.Slice(matched, func(i, j int) bool {
		return matched[i].CreatedAt.After(matched[j].CreatedAt)
	})

	total := len(matched)
	start := (filter.Page - 1) * filter.Limit
	if start >= total {
		return []model.PurchaseOrder{}, total, nil
	}
	end := start + filter.Limit
	if end > total {
		end = total
	}
	return matched[start:end], total, nil
}

// Delete implements RepositoryInterface.Delete
func (r *memoryRepository) Delete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.orders[id]; !ok {
		return model.ErrOrderNotFound
	}
	delete(r.orders, id)
	return nil
}

// CreateAttachment implements RepositoryInterface.CreateAttachment
func (r *memoryRepository) CreateAttachment(ctx context.Context, attachment *model.Attachment) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.attachments[attachment.ID] = *attachment
	return nil
}

// GetAttachment implements RepositoryInterface.GetAttachment
func (r *memoryRepository) GetAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	a, ok := r.attachments[id]
	if !ok {
		return nil, model.ErrAttachmentNotFound
	}
	return &a, nil
}

// ListAttachments implements RepositoryInterface.ListAttachments
func (r *memoryRepository) ListAttachments(ctx context.Context, orderID uuid.UUID) ([]model.Attachment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var out []model.Attachment
	for _, a := range r.attachments {
		if a.OrderID == orderID {
			out = append(out, a)
		}
	}
	sort.Slice(out, func(i, j int) bool {
		return out[i].UploadedAt.Before(out[j].UploadedAt)
	})
	return out, nil
}
