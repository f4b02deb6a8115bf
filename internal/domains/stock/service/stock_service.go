package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	"dentalcare-backend/internal/domains/stock/model"
	"dentalcare-backend/internal/domains/stock/repository"
	"dentalcare-backend/internal/shared"
)

const (
	defaultHistoryLimit = 20
	maxHistoryLimit     = 100
)

// keyLocks serializes writers per (product, location) key. Different keys
// proceed in parallel.
type keyLocks struct {
	mu    sync.Mutex
	locks map[string]*sync.Mutex
}

func newKeyLocks() *keyLocks {
	return &keyLocks{locks: make(map[string]*sync.Mutex)}
}

func (k *keyLocks) get(key string) *sync.Mutex {
	k.mu.Lock()
	defer k.mu.Unlock()

	l, ok := k.locks[key]
	if !ok {
		l = &sync.Mutex{}
		k.locks[key] = l
	}
	return l
}

type StockService struct {
	repo      repository.RepositoryInterface
	clock     shared.Clock
	locks     *keyLocks
	listeners []model.Listener
}

// NewService creates a new stock ledger service.
func NewService(repo repository.RepositoryInterface, clock shared.Clock) *StockService {
	return &StockService{
		repo:  repo,
		clock: clock,
		locks: newKeyLocks(),
	}
}

// RegisterListener implements ServiceInterface.RegisterListener
func (s *StockService) RegisterListener(l model.Listener) {
	s.listeners = append(s.listeners, l)
}

func movementKey(productID, locationID uuid.UUID) string {
	return productID.String() + "|" + locationID.String()
}

func validateMovement(req model.PostMovementRequest) error {
	if err := req.Validate(); err != nil {
		return fmt.Errorf("%w: %v", model.ErrInvalidMovement, err)
	}

	if req.Kind.IsInbound() {
		if req.QuantityDelta <= 0 {
			return fmt.Errorf("%w: %s requires a positive delta", model.ErrSignMismatch, req.Kind)
		}
	} else if req.QuantityDelta >= 0 {
		return fmt.Errorf("%w: %s requires a negative delta", model.ErrSignMismatch, req.Kind)
	}

	if req.Kind.IsManualAdjustment() {
		if req.Reason == nil || strings.TrimSpace(*req.Reason) == "" {
			return model.ErrMissingReason
		}
	}

	return nil
}

// PostMovement implements ServiceInterface.PostMovement
func (s *StockService) PostMovement(ctx context.Context, actorID uuid.UUID, req model.PostMovementRequest) (*model.Movement, error) {
	movements, err := s.PostMovements(ctx, actorID, []model.PostMovementRequest{req})
	if err != nil {
		return nil, err
	}
	return &movements[0], nil
}

// PostMovements implements ServiceInterface.PostMovements
func (s *StockService) PostMovements(ctx context.Context, actorID uuid.UUID, reqs []model.PostMovementRequest) ([]model.Movement, error) {
	if len(reqs) == 0 {
		return nil, fmt.Errorf("%w: empty batch", model.ErrInvalidMovement)
	}

	for _, req := range reqs {
		if err := validateMovement(req); err != nil {
			return nil, err
		}
	}

	// Lock every involved key in sorted order so concurrent batches that
	// overlap cannot deadlock.
	keys := make([]string, 0, len(reqs))
	seen := make(map[string]bool, len(reqs))
	for _, req := range reqs {
		key := movementKey(req.ProductID, req.LocationID)
		if !seen[key] {
			seen[key] = true
			keys = append(keys, key)
		}
	}
	sort.Strings(keys)

	for _, key := range keys {
		l := s.locks.get(key)
		l.Lock()
		defer l.Unlock()
	}

	// Load current quantities for every key, then walk the batch in order,
	// checking each running quantity before anything is written.
	now := s.clock.Now()
	positions := make(map[string]*model.StockPosition, len(keys))
	for _, req := range reqs {
		key := movementKey(req.ProductID, req.LocationID)
		if _, ok := positions[key]; ok {
			continue
		}
		p, err := s.repo.GetPosition(ctx, req.ProductID, req.LocationID)
		if err != nil {
			return nil, err
		}
		if p == nil {
			p = &model.StockPosition{
				ProductID:  req.ProductID,
				LocationID: req.LocationID,
			}
		}
		positions[key] = p
	}

	previous := make(map[string]int64, len(keys))
	for key, p := range positions {
		previous[key] = p.QuantityOnHand
	}

	movements := make([]*model.Movement, 0, len(reqs))
	for _, req := range reqs {
		key := movementKey(req.ProductID, req.LocationID)
		p := positions[key]

		resulting := p.QuantityOnHand + req.QuantityDelta
		if resulting < 0 {
			return nil, model.NewInsufficientStockError(p.QuantityOnHand, req.QuantityDelta)
		}

		m := &model.Movement{
			ID:                uuid.New(),
			ProductID:         req.ProductID,
			LocationID:        req.LocationID,
			Kind:              req.Kind,
			QuantityDelta:     req.QuantityDelta,
			ResultingQuantity: resulting,
			ActorID:           actorID,
			Reason:            req.Reason,
			ReferenceID:       req.ReferenceID,
			CreatedAt:         now,
		}
		movements = append(movements, m)

		p.QuantityOnHand = resulting
		p.LastMovementID = &m.ID
		p.UpdatedAt = now
	}

	updated := make([]*model.StockPosition, 0, len(keys))
	for _, key := range keys {
		updated = append(updated, positions[key])
	}

	if err := s.repo.AppendMovements(ctx, movements, updated); err != nil {
		return nil, fmt.Errorf("failed to append movements: %w", err)
	}

	// Notify while still holding the locks so listeners always see the
	// ledger and their own state in the same order.
	for _, m := range movements {
		key := movementKey(m.ProductID, m.LocationID)
		event := model.StockChanged{
			ProductID:        m.ProductID,
			LocationID:       m.LocationID,
			PreviousQuantity: previous[key],
			NewQuantity:      m.ResultingQuantity,
			MovementID:       m.ID,
			Kind:             m.Kind,
			OccurredAt:       now,
		}
		previous[key] = m.ResultingQuantity

		for _, l := range s.listeners {
			if err := l.OnStockChanged(ctx, event); err != nil {
				log.Error().Err(err).
					Str("product_id", m.ProductID.String()).
					Str("location_id", m.LocationID.String()).
					Msg("Stock listener failed")
			}
		}
	}

	out := make([]model.Movement, len(movements))
	for i, m := range movements {
		out[i] = *m
	}
	return out, nil
}

// GetPosition implements ServiceInterface.GetPosition
func (s *StockService) GetPosition(ctx context.Context, productID, locationID uuid.UUID) (*model.StockPosition, error) {
	p, err := s.repo.GetPosition(ctx, productID, locationID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		// A key that never moved is simply empty.
		return &model.StockPosition{
			ProductID:  productID,
			LocationID: locationID,
		}, nil
	}
	return p, nil
}

// GetHistory implements ServiceInterface.GetHistory
func (s *StockService) GetHistory(ctx context.Context, filter model.HistoryFilter) (*model.HistoryResponse, error) {
	if filter.Page == 0 {
		filter.Page = 1
	}
	if filter.Limit == 0 {
		filter.Limit = defaultHistoryLimit
	}
	if filter.Page < 1 || filter.Limit < 1 || filter.Limit > maxHistoryLimit {
		return nil, fmt.Errorf("%w: page=%d limit=%d", model.ErrInvalidPagination, filter.Page, filter.Limit)
	}

	items, total, err := s.repo.ListMovements(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &model.HistoryResponse{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}
