package main

import (
	"strings"

	"github.com/hibiken/asynq"

	alertJob "dentalcare-backend/internal/domains/alert/job"
	"dentalcare-backend/internal/shared"
	"dentalcare-backend/pkg/container"
)

// HandlerRegistry holds all job handlers
type HandlerRegistry struct {
	lowStock    *alertJob.LowStockHandler
	reorderScan *alertJob.ReorderScanHandler
}

// initializeHandlers creates all job handlers with their dependencies
func initializeHandlers(c *container.Container) *HandlerRegistry {
	recipients := splitRecipients(c.Config.SMTP.AlertRecipients)

	return &HandlerRegistry{
		lowStock:    alertJob.NewLowStockHandler(c.Email, c.CatalogService, recipients),
		reorderScan: alertJob.NewReorderScanHandler(c.AlertService),
	}
}

// RegisterHandlers maps task types to their handlers
func (h *HandlerRegistry) RegisterHandlers(mux *asynq.ServeMux) {
	mux.Handle(shared.TypeLowStockNotification, h.lowStock)
	mux.Handle(shared.TypeReorderScan, h.reorderScan)
}

func splitRecipients(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if addr := strings.TrimSpace(part); addr != "" {
			out = append(out, addr)
		}
	}
	return out
}
