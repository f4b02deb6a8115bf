package service

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"dentalcare-backend/internal/domains/alert/model"
	"dentalcare-backend/internal/domains/alert/repository"
	catalogservice "dentalcare-backend/internal/domains/catalog/service"
	stockmodel "dentalcare-backend/internal/domains/stock/model"
	stockrepo "dentalcare-backend/internal/domains/stock/repository"
	"dentalcare-backend/internal/shared"
)

type AlertService struct {
	repo        repository.RepositoryInterface
	catalogSvc  catalogservice.ServiceInterface
	stockRepo   stockrepo.RepositoryInterface
	asynqClient *asynq.Client // nil in tests and demo mode
	clock       shared.Clock
}

// NewService creates a new reorder alert service.
func NewService(
	repo repository.RepositoryInterface,
	catalogSvc catalogservice.ServiceInterface,
	stockRepo stockrepo.RepositoryInterface,
	asynqClient *asynq.Client,
	clock shared.Clock,
) *AlertService {
	return &AlertService{
		repo:        repo,
		catalogSvc:  catalogSvc,
		stockRepo:   stockRepo,
		asynqClient: asynqClient,
		clock:       clock,
	}
}

// suggestedQuantity targets twice the reorder point, never ordering less
// than one reorder point's worth.
func suggestedQuantity(reorderPoint, onHand int64) int64 {
	suggested := reorderPoint*2 - onHand
	if suggested < reorderPoint {
		suggested = reorderPoint
	}
	return suggested
}

// OnStockChanged implements ServiceInterface.OnStockChanged
func (s *AlertService) OnStockChanged(ctx context.Context, event stockmodel.StockChanged) error {
	product, err := s.catalogSvc.GetProduct(ctx, event.ProductID)
	if err != nil {
		return fmt.Errorf("failed to load product for alert evaluation: %w", err)
	}

	return s.evaluate(ctx, product.ID, event.LocationID, event.NewQuantity, product.ReorderPoint)
}

func (s *AlertService) evaluate(ctx context.Context, productID, locationID uuid.UUID, quantity, reorderPoint int64) error {
	open, err := s.repo.GetOpenByKey(ctx, productID, locationID)
	if err != nil {
		return err
	}

	now := s.clock.Now()
	breached := quantity <= reorderPoint

	switch {
	case breached && open == nil:
		alert := &model.ReorderAlert{
			ID:                     uuid.New(),
			ProductID:              productID,
			LocationID:             locationID,
			Status:                 model.StatusNew,
			StockAtCreation:        quantity,
			ReorderPointAtCreation: reorderPoint,
			SuggestedOrderQuantity: suggestedQuantity(reorderPoint, quantity),
			CreatedAt:              now,
			UpdatedAt:              now,
		}
		if err := s.repo.Create(ctx, alert); err != nil {
			return fmt.Errorf("failed to create reorder alert: %w", err)
		}
		s.enqueueNotification(alert)

	case breached && open != nil:
		// A second breach refreshes the open alert instead of duplicating it.
		open.StockAtCreation = quantity
		open.SuggestedOrderQuantity = suggestedQuantity(open.ReorderPointAtCreation, quantity)
		open.UpdatedAt = now
		if err := s.repo.Update(ctx, open); err != nil {
			return fmt.Errorf("failed to refresh reorder alert: %w", err)
		}

	case !breached && open != nil:
		open.Status = model.StatusResolved
		open.UpdatedAt = now
		open.ResolvedAt = &now
		if err := s.repo.Update(ctx, open); err != nil {
			return fmt.Errorf("failed to resolve reorder alert: %w", err)
		}
	}

	return nil
}

// enqueueNotification is best effort; a broker outage must never fail the
// movement that created the alert.
func (s *AlertService) enqueueNotification(alert *model.ReorderAlert) {
	if s.asynqClient == nil {
		return
	}

	payload, err := json.Marshal(shared.LowStockNotificationPayload{
		AlertID:    alert.ID.String(),
		ProductID:  alert.ProductID.String(),
		LocationID: alert.LocationID.String(),
		Quantity:   alert.StockAtCreation,
	})
	if err != nil {
		log.Error().Err(err).Msg("Failed to marshal low stock payload")
		return
	}

	task := asynq.NewTask(shared.TypeLowStockNotification, payload)
	if _, err := s.asynqClient.Enqueue(task, asynq.Queue(shared.QueueAlerts), asynq.MaxRetry(3)); err != nil {
		log.Error().Err(err).
			Str("alert_id", alert.ID.String()).
			Msg("Failed to enqueue low stock notification")
	}
}

// GetAlert implements ServiceInterface.GetAlert
func (s *AlertService) GetAlert(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	return s.repo.GetByID(ctx, id)
}

// ListAlerts implements ServiceInterface.ListAlerts
func (s *AlertService) ListAlerts(ctx context.Context, filter model.ListAlertFilter) (*model.ListAlertResponse, error) {
	if filter.Page < 1 {
		filter.Page = 1
	}
	if filter.Limit < 1 || filter.Limit > 100 {
		filter.Limit = 20
	}

	items, total, err := s.repo.List(ctx, filter)
	if err != nil {
		return nil, err
	}

	totalPages := (total + filter.Limit - 1) / filter.Limit
	return &model.ListAlertResponse{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// Acknowledge implements ServiceInterface.Acknowledge
func (s *AlertService) Acknowledge(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	return s.transition(ctx, id, model.StatusAcknowledged, func(from model.Status) bool {
		return from == model.StatusNew
	})
}

// MarkOrdering implements ServiceInterface.MarkOrdering
func (s *AlertService) MarkOrdering(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	return s.transition(ctx, id, model.StatusOrdering, func(from model.Status) bool {
		return from == model.StatusNew || from == model.StatusAcknowledged
	})
}

// Resolve implements ServiceInterface.Resolve
func (s *AlertService) Resolve(ctx context.Context, id uuid.UUID) (*model.ReorderAlert, error) {
	return s.transition(ctx, id, model.StatusResolved, func(from model.Status) bool {
		return from.IsOpen()
	})
}

func (s *AlertService) transition(ctx context.Context, id uuid.UUID, to model.Status, allowed func(model.Status) bool) (*model.ReorderAlert, error) {
	alert, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if !allowed(alert.Status) {
		return nil, model.NewInvalidTransitionError(alert.Status, to)
	}

	now := s.clock.Now()
	alert.Status = to
	alert.UpdatedAt = now
	if to == model.StatusResolved {
		alert.ResolvedAt = &now
	}

	if err := s.repo.Update(ctx, alert); err != nil {
		return nil, err
	}
	return alert, nil
}

// ScanPositions implements ServiceInterface.ScanPositions
func (s *AlertService) ScanPositions(ctx context.Context) (int, error) {
	positions, err := s.stockRepo.ListPositionsBelowReorderPoint(ctx)
	if err != nil {
		return 0, fmt.Errorf("failed to scan stock positions: %w", err)
	}

	evaluated := 0
	for _, p := range positions {
		product, err := s.catalogSvc.GetProduct(ctx, p.ProductID)
		if err != nil {
			log.Error().Err(err).
				Str("product_id", p.ProductID.String()).
				Msg("Reorder scan skipped a position")
			continue
		}

		if err := s.evaluate(ctx, p.ProductID, p.LocationID, p.QuantityOnHand, product.ReorderPoint); err != nil {
			log.Error().Err(err).
				Str("product_id", p.ProductID.String()).
				Str("location_id", p.LocationID.String()).
				Msg("Reorder scan evaluation failed")
			continue
		}
		evaluated++
	}

	log.Info().Int("evaluated", evaluated).Msg("Reorder scan finished")
	return evaluated, nil
}
