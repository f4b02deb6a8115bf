package job

import (
	"context"
	"fmt"

	"github.com/hibiken/asynq"
	"github.com/rs/zerolog/log"

	"dentalcare-backend/internal/domains/alert/service"
)

// ReorderScanHandler runs the nightly sweep over stock positions so alerts
// get opened even for keys whose stock never moved after a reorder point
// was raised.
type ReorderScanHandler struct {
	alertSvc service.ServiceInterface
}

func NewReorderScanHandler(alertSvc service.ServiceInterface) *ReorderScanHandler {
	return &ReorderScanHandler{alertSvc: alertSvc}
}

func (h *ReorderScanHandler) ProcessTask(ctx context.Context, task *asynq.Task) error {
	log.Info().Msg("Starting reorder scan")

	evaluated, err := h.alertSvc.ScanPositions(ctx)
	if err != nil {
		log.Error().Err(err).Msg("Reorder scan failed")
		return fmt.Errorf("reorder scan: %w", err)
	}

	log.Info().Int("evaluated", evaluated).Msg("Reorder scan completed")
	return nil
}
