package service

import (
	"context"
	"fmt"
	"io"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"
	"github.com/shopspring/decimal"

	alertservice "dentalcare-backend/internal/domains/alert/service"
	"dentalcare-backend/internal/domains/purchase/model"
	"dentalcare-backend/internal/domains/purchase/repository"
	stockmodel "dentalcare-backend/internal/domains/stock/model"
	stockservice "dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/infrastructure/storage"
	"dentalcare-backend/internal/shared"
)

type PurchaseService struct {
	repo     repository.RepositoryInterface
	stockSvc stockservice.ServiceInterface
	alertSvc alertservice.ServiceInterface
	sequence OrderNumberSequence
	storage  storage.ObjectStorage
	clock    shared.Clock

	taxRate      decimal.Decimal
	numberPrefix string
}

// NewService creates a new purchase order service.
func NewService(
	repo repository.RepositoryInterface,
	stockSvc stockservice.ServiceInterface,
	alertSvc alertservice.ServiceInterface,
	sequence OrderNumberSequence,
	objectStorage storage.ObjectStorage,
	clock shared.Clock,
	taxRate decimal.Decimal,
	numberPrefix string,
) *PurchaseService {
	return &PurchaseService{
		repo:         repo,
		stockSvc:     stockSvc,
		alertSvc:     alertSvc,
		sequence:     sequence,
		storage:      objectStorage,
		clock:        clock,
		taxRate:      taxRate,
		numberPrefix: numberPrefix,
	}
}

// buildItems validates line requests and derives line subtotals.
func buildItems(reqs []model.ItemRequest) ([]model.Item, error) {
	items := make([]model.Item, 0, len(reqs))
	for i, req := range reqs {
		if err := req.Validate(); err != nil {
			return nil, fmt.Errorf("%w: line %d: %v", model.ErrInvalidOrder, i+1, err)
		}

		var productID *uuid.UUID
		if req.ProductID != nil && *req.ProductID != "" {
			id, err := uuid.Parse(*req.ProductID)
			if err != nil {
				return nil, fmt.Errorf("%w: line %d: invalid product_id", model.ErrInvalidOrder, i+1)
			}
			productID = &id
		}

		qty := decimal.NewFromInt(req.Quantity)
		items = append(items, model.Item{
			ID:          uuid.New(),
			ProductID:   productID,
			Description: req.Description,
			Quantity:    req.Quantity,
			UnitPrice:   req.UnitPrice,
			Subtotal:    req.UnitPrice.Mul(qty),
		})
	}
	return items, nil
}

// applyTotals recomputes subtotal, tax, and total from the lines. Tax is
// rounded to cents, half away from zero.
func (s *PurchaseService) applyTotals(order *model.PurchaseOrder) {
	subtotal := decimal.Zero
	for _, item := range order.Items {
		subtotal = subtotal.Add(item.Subtotal)
	}
	tax := subtotal.Mul(s.taxRate).Round(2)

	order.Subtotal = subtotal
	order.TaxAmount = tax
	order.Total = subtotal.Add(tax)
}

// CreateDraft implements ServiceInterface.CreateDraft
func (s *PurchaseService) CreateDraft(ctx context.Context, actorID uuid.UUID, req model.CreateOrderRequest) (*model.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidOrder, err)
	}

	supplierID, err := uuid.Parse(req.SupplierID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid supplier_id", model.ErrInvalidOrder)
	}
	locationID, err := uuid.Parse(req.LocationID)
	if err != nil {
		return nil, fmt.Errorf("%w: invalid location_id", model.ErrInvalidOrder)
	}

	items, err := buildItems(req.Items)
	if err != nil {
		return nil, err
	}

	number, err := s.sequence.Next(ctx)
	if err != nil {
		return nil, err
	}

	now := s.clock.Now()
	order := &model.PurchaseOrder{
		ID:                  uuid.New(),
		OrderNumber:         fmt.Sprintf("%s-%06d", s.numberPrefix, number),
		SupplierID:          supplierID,
		LocationID:          locationID,
		CreatedBy:           actorID,
		Items:               items,
		Status:              model.StatusBorrador,
		Notes:               req.Notes,
		EstimatedDeliveryAt: req.EstimatedDeliveryAt,
		Version:             1,
		CreatedAt:           now,
		UpdatedAt:           now,
		StatusHistory: []model.StatusChange{
			{Status: model.StatusBorrador, ActorID: actorID, ChangedAt: now},
		},
	}
	s.applyTotals(order)

	if err := s.repo.Create(ctx, order); err != nil {
		return nil, fmt.Errorf("failed to create purchase order: %w", err)
	}

	// Linked alerts move to ordering. An alert that already advanced past
	// new/acknowledged is skipped, not an error.
	for _, raw := range req.AlertIDs {
		alertID, err := uuid.Parse(raw)
		if err != nil {
			continue
		}
		if _, err := s.alertSvc.MarkOrdering(ctx, alertID); err != nil {
			log.Warn().Err(err).
				Str("alert_id", raw).
				Str("order_id", order.ID.String()).
				Msg("Linked alert could not be marked ordering")
		}
	}

	return order, nil
}

// UpdateDraft implements ServiceInterface.UpdateDraft
func (s *PurchaseService) UpdateDraft(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.UpdateDraftRequest) (*model.PurchaseOrder, error) {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if order.Status != model.StatusBorrador {
		return nil, fmt.Errorf("%w: only borrador orders are editable, current status %s",
			model.ErrInvalidStatusTransition, order.Status)
	}

	if req.Items != nil {
		items, err := buildItems(req.Items)
		if err != nil {
			return nil, err
		}
		order.Items = items
	}
	if req.Notes != nil {
		order.Notes = *req.Notes
	}
	if req.EstimatedDeliveryAt != nil {
		order.EstimatedDeliveryAt = req.EstimatedDeliveryAt
	}

	s.applyTotals(order)
	order.Version++
	order.UpdatedAt = s.clock.Now()

	if err := s.repo.Update(ctx, order, nil); err != nil {
		return nil, err
	}
	return order, nil
}

// GetOrder implements ServiceInterface.GetOrder
func (s *PurchaseService) GetOrder(ctx context.Context, id uuid.UUID) (*model.PurchaseOrder, error) {
	return s.repo.GetByID(ctx, id)
}

// ListOrders implements ServiceInterface.ListOrders
func (s *PurchaseService) ListOrders(ctx context.Context, filter model.ListOrderFilter) (*model.ListOrderResponse, error) {
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
	return &model.ListOrderResponse{
		Items:      items,
		TotalItems: total,
		TotalPages: totalPages,
		Page:       filter.Page,
		Limit:      filter.Limit,
	}, nil
}

// ChangeState implements ServiceInterface.ChangeState
func (s *PurchaseService) ChangeState(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.ChangeStateRequest) (*model.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidOrder, err)
	}
	if req.TargetStatus.IsReceiptStatus() {
		return nil, fmt.Errorf("%w: %s is only reachable by receiving goods",
			model.ErrInvalidStatusTransition, req.TargetStatus)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
		return nil, fmt.Errorf("%w: expected version %d, current %d",
			model.ErrConcurrentModification, *req.ExpectedVersion, order.Version)
	}

	if !order.Status.CanTransitionTo(req.TargetStatus) {
		return nil, model.NewInvalidTransitionError(order.Status, req.TargetStatus)
	}

	now := s.clock.Now()
	entry := model.StatusChange{Status: req.TargetStatus, ActorID: actorID, ChangedAt: now}
	order.Status = req.TargetStatus
	order.Version++
	order.UpdatedAt = now

	if err := s.repo.Update(ctx, order, []model.StatusChange{entry}); err != nil {
		return nil, err
	}
	return order, nil
}

// Receive implements ServiceInterface.Receive
func (s *PurchaseService) Receive(ctx context.Context, actorID uuid.UUID, id uuid.UUID, req model.ReceiveRequest) (*model.PurchaseOrder, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidOrder, err)
	}

	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if req.ExpectedVersion != nil && *req.ExpectedVersion != order.Version {
		return nil, fmt.Errorf("%w: expected version %d, current %d",
			model.ErrConcurrentModification, *req.ExpectedVersion, order.Version)
	}

	if order.Status != model.StatusEnviada && order.Status != model.StatusRecibidaParcial {
		return nil, fmt.Errorf("%w: cannot receive goods in status %s",
			model.ErrInvalidStatusTransition, order.Status)
	}

	itemsByID := make(map[uuid.UUID]*model.Item, len(order.Items))
	for i := range order.Items {
		itemsByID[order.Items[i].ID] = &order.Items[i]
	}

	// Validate every line before posting anything. Each call only posts
	// its own deltas; earlier deliveries stay counted on the items.
	var movements []stockmodel.PostMovementRequest
	seen := make(map[uuid.UUID]bool, len(req.Lines))
	for _, line := range req.Lines {
		if err := line.Validate(); err != nil {
			return nil, fmt.Errorf("%w: %v", model.ErrInvalidOrder, err)
		}
		itemID, err := uuid.Parse(line.ItemID)
		if err != nil {
			return nil, fmt.Errorf("%w: invalid item_id", model.ErrInvalidOrder)
		}
		if seen[itemID] {
			return nil, fmt.Errorf("%w: duplicate line for item %s", model.ErrInvalidOrder, itemID)
		}
		seen[itemID] = true

		item, ok := itemsByID[itemID]
		if !ok {
			return nil, fmt.Errorf("%w: item %s does not belong to this order", model.ErrInvalidOrder, itemID)
		}
		if line.Quantity > item.Remaining() {
			return nil, fmt.Errorf("%w: item %s has %d remaining, got %d",
				model.ErrReceiveExceedsOrdered, itemID, item.Remaining(), line.Quantity)
		}

		item.ReceivedQuantity += line.Quantity

		// Free-text lines have no product and never touch the ledger.
		if item.ProductID != nil {
			orderID := order.ID
			movements = append(movements, stockmodel.PostMovementRequest{
				ProductID:     *item.ProductID,
				LocationID:    order.LocationID,
				Kind:          stockmodel.KindPurchaseReceipt,
				QuantityDelta: line.Quantity,
				ReferenceID:   &orderID,
			})
		}
	}

	now := s.clock.Now()
	newStatus := model.StatusRecibidaParcial
	if order.TotalReceived() == order.TotalOrdered() {
		newStatus = model.StatusRecibidaCompleta
	}

	var history []model.StatusChange
	if newStatus != order.Status {
		if !order.Status.CanTransitionTo(newStatus) {
			return nil, model.NewInvalidTransitionError(order.Status, newStatus)
		}
		order.Status = newStatus
		history = append(history, model.StatusChange{Status: newStatus, ActorID: actorID, ChangedAt: now})
	}

	order.Version++
	order.UpdatedAt = now

	// The version-guarded update claims this delivery; once it lands, the
	// ledger postings follow. A stale writer fails here before any stock
	// moved.
	if err := s.repo.Update(ctx, order, history); err != nil {
		return nil, err
	}

	if len(movements) > 0 {
		if _, err := s.stockSvc.PostMovements(ctx, actorID, movements); err != nil {
			return nil, fmt.Errorf("failed to post receipt movements: %w", err)
		}
	}

	return order, nil
}

// Delete implements ServiceInterface.Delete
func (s *PurchaseService) Delete(ctx context.Context, id uuid.UUID) error {
	order, err := s.repo.GetByID(ctx, id)
	if err != nil {
		return err
	}
	if order.Status != model.StatusBorrador {
		return fmt.Errorf("%w: only borrador orders can be deleted, current status %s",
			model.ErrInvalidStatusTransition, order.Status)
	}

	if err := s.repo.Delete(ctx, id); err != nil {
		return err
	}

	if err := s.storage.DeleteByPrefix(ctx, attachmentPrefix(id)); err != nil {
		log.Warn().Err(err).Str("order_id", id.String()).Msg("Failed to clean order attachments")
	}
	return nil
}

func attachmentPrefix(orderID uuid.UUID) string {
	return fmt.Sprintf("purchase-orders/%s/", orderID)
}

// UploadAttachment implements ServiceInterface.UploadAttachment
func (s *PurchaseService) UploadAttachment(ctx context.Context, actorID uuid.UUID, orderID uuid.UUID, fileName, contentType string, size int64, reader io.Reader) (*model.Attachment, error) {
	order, err := s.repo.GetByID(ctx, orderID)
	if err != nil {
		return nil, err
	}

	attachment := &model.Attachment{
		ID:          uuid.New(),
		OrderID:     order.ID,
		FileName:    fileName,
		ContentType: contentType,
		Size:        size,
		UploadedBy:  actorID,
		UploadedAt:  s.clock.Now(),
	}
	attachment.ObjectKey = attachmentPrefix(order.ID) + attachment.ID.String()

	if err := s.storage.Upload(ctx, attachment.ObjectKey, reader, size, contentType); err != nil {
		return nil, fmt.Errorf("failed to store attachment: %w", err)
	}

	if err := s.repo.CreateAttachment(ctx, attachment); err != nil {
		// Metadata failed; do not leave an orphan object behind.
		if delErr := s.storage.Delete(ctx, attachment.ObjectKey); delErr != nil {
			log.Warn().Err(delErr).Str("key", attachment.ObjectKey).Msg("Failed to remove orphan attachment object")
		}
		return nil, err
	}

	return attachment, nil
}

// ListAttachments implements ServiceInterface.ListAttachments
func (s *PurchaseService) ListAttachments(ctx context.Context, orderID uuid.UUID) ([]model.Attachment, error) {
	if _, err := s.repo.GetByID(ctx, orderID); err != nil {
		return nil, err
	}
	return s.repo.ListAttachments(ctx, orderID)
}

// DownloadAttachment implements ServiceInterface.DownloadAttachment
func (s *PurchaseService) DownloadAttachment(ctx context.Context, id uuid.UUID) (*model.Attachment, io.ReadCloser, error) {
	attachment, err := s.repo.GetAttachment(ctx, id)
	if err != nil {
		return nil, nil, err
	}

	reader, err := s.storage.Download(ctx, attachment.ObjectKey)
	if err != nil {
		return nil, nil, fmt.Errorf("failed to read attachment: %w", err)
	}
	return attachment, reader, nil
}
