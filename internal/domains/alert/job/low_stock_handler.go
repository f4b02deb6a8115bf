package job

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/google/uuid"
	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	catalogservice "dentalcare-backend/internal/domains/catalog/service"
	"dentalcare-backend/internal/infrastructure/email"
	"dentalcare-backend/internal/shared"
)

// LowStockHandler emails the purchasing team when a reorder alert is created.
type LowStockHandler struct {
	emailService email.EmailService
	catalogSvc   catalogservice.ServiceInterface
	recipients   []string
}

func NewLowStockHandler(
	emailService email.EmailService,
	catalogSvc catalogservice.ServiceInterface,
	recipients []string,
) *LowStockHandler {
	return &LowStockHandler{
		emailService: emailService,
		catalogSvc:   catalogSvc,
		recipients:   recipients,
	}
}

func (h *LowStockHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	var payload shared.LowStockNotificationPayload
	if err := json.Unmarshal(task.Payload(), &payload); err != nil {
		log.Error().Err(err).Msg("Failed to unmarshal low stock payload")
		return fmt.Errorf("unmarshal payload: %w", err)
	}

	log.Info().
		Str("alert_id", payload.AlertID).
		Str("product_id", payload.ProductID).
		Int64("quantity", payload.Quantity).
		Msg("Processing low stock notification")

	productName := payload.ProductID
	if id, err := uuid.Parse(payload.ProductID); err == nil {
		if product, err := h.catalogSvc.GetProduct(ctx, id); err == nil {
			productName = fmt.Sprintf("%s (%s)", product.Name, product.SKU)
		}
	}

	subject := fmt.Sprintf("Stock bajo: %s", productName)
	body := fmt.Sprintf(
		"El producto %s ha caído a %d unidades en la ubicación %s.\n\nAlerta: %s\n",
		productName, payload.Quantity, payload.LocationID, payload.AlertID,
	)

	if err := h.emailService.SendEmail(ctx, email.EmailRequest{
		To:      h.recipients,
		Subject: subject,
		Body:    body,
	}); err != nil {
		log.Error().Err(err).Str("alert_id", payload.AlertID).Msg("Failed to send low stock email")
		return fmt.Errorf("send email: %w", err)
	}

	return nil
}
