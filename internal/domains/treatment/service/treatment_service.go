package service

import (
	"context"
	"fmt"

	"github.com/google/uuid"
	"github.com/rs/zerolog/log"

	stockmodel "dentalcare-backend/internal/domains/stock/model"
	stockservice "dentalcare-backend/internal/domains/stock/service"
	"dentalcare-backend/internal/domains/treatment/model"
	"dentalcare-backend/internal/domains/treatment/repository"
	"dentalcare-backend/internal/shared"
)

type TreatmentService struct {
	repo     repository.RepositoryInterface
	stockSvc stockservice.ServiceInterface
	clock    shared.Clock
}

// NewService creates a new treatment consumption service.
func NewService(repo repository.RepositoryInterface, stockSvc stockservice.ServiceInterface, clock shared.Clock) *TreatmentService {
	return &TreatmentService{
		repo:     repo,
		stockSvc: stockSvc,
		clock:    clock,
	}
}

// SetConsumptionProfile implements ServiceInterface.SetConsumptionProfile
func (s *TreatmentService) SetConsumptionProfile(ctx context.Context, treatmentID uuid.UUID, req model.SetProfileRequest) (*model.ConsumptionProfile, error) {
	if err := req.Validate(); err != nil {
		return nil, fmt.Errorf("%w: %v", model.ErrInvalidProfile, err)
	}

	items := make([]model.ProfileItem, 0, len(req.Items))
	seen := make(map[uuid.UUID]bool, len(req.Items))
	for i, itemReq := range req.Items {
		if err := itemReq.Validate(); err != nil {
			return nil, fmt.Errorf("%w: item %d: %v", model.ErrInvalidProfile, i+1, err)
		}

		productID, err := uuid.Parse(itemReq.ProductID)
		if err != nil {
			return nil, fmt.Errorf("%w: item %d: invalid product_id", model.ErrInvalidProfile, i+1)
		}
		if seen[productID] {
			return nil, model.NewDuplicateProductError(productID)
		}
		seen[productID] = true

		items = append(items, model.ProfileItem{ProductID: productID, Quantity: itemReq.Quantity})
	}

	profile := &model.ConsumptionProfile{
		TreatmentID: treatmentID,
		Items:       items,
		UpdatedAt:   s.clock.Now(),
	}
	if err := s.repo.Replace(ctx, profile); err != nil {
		return nil, fmt.Errorf("failed to replace consumption profile: %w", err)
	}
	return profile, nil
}

// GetConsumptionProfile implements ServiceInterface.GetConsumptionProfile
func (s *TreatmentService) GetConsumptionProfile(ctx context.Context, treatmentID uuid.UUID) (*model.ConsumptionProfile, error) {
	return s.repo.GetByTreatmentID(ctx, treatmentID)
}

// DeleteConsumptionProfile implements ServiceInterface.DeleteConsumptionProfile
func (s *TreatmentService) DeleteConsumptionProfile(ctx context.Context, treatmentID uuid.UUID) error {
	return s.repo.Delete(ctx, treatmentID)
}

// ApplyConsumption implements ServiceInterface.ApplyConsumption
func (s *TreatmentService) ApplyConsumption(ctx context.Context, actorID, treatmentID, locationID uuid.UUID) (*model.ConsumptionResult, error) {
	profile, err := s.repo.GetByTreatmentID(ctx, treatmentID)
	if err != nil {
		return nil, err
	}

	executionID := uuid.New()
	reqs := make([]stockmodel.PostMovementRequest, 0, len(profile.Items))
	for _, item := range profile.Items {
		ref := executionID
		reqs = append(reqs, stockmodel.PostMovementRequest{
			ProductID:     item.ProductID,
			LocationID:    locationID,
			Kind:          stockmodel.KindClinicalUse,
			QuantityDelta: -item.Quantity,
			ReferenceID:   &ref,
		})
	}

	// The ledger batch validates every line before applying any; a short
	// material fails the whole execution with nothing posted.
	movements, err := s.stockSvc.PostMovements(ctx, actorID, reqs)
	if err != nil {
		return nil, err
	}

	movementIDs := make([]uuid.UUID, len(movements))
	for i, m := range movements {
		movementIDs[i] = m.ID
	}

	log.Info().
		Str("treatment_id", treatmentID.String()).
		Str("execution_id", executionID.String()).
		Int("lines", len(movementIDs)).
		Msg("Treatment consumption applied")

	return &model.ConsumptionResult{
		TreatmentID: treatmentID,
		ExecutionID: executionID,
		LocationID:  locationID,
		MovementIDs: movementIDs,
		AppliedAt:   s.clock.Now(),
	}, nil
}
