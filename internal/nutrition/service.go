package nutrition

import (
	"context"
	"errors"
	"fmt"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

var (
	ErrProfileNotFound = errors.New("profile_not_found")
	ErrInvalidRequest  = errors.New("invalid_request")
)

// Service handles nutrition targets business logic.
type Service struct {
	storage        storage.Storage
	targetsStorage storage.NutritionTargetsStorage
}

// NewService creates a new nutrition service.
func NewService(storage storage.Storage, targetsStorage storage.NutritionTargetsStorage) *Service {
	return &Service{
		storage:        storage,
		targetsStorage: targetsStorage,
	}
}

// GetOrDefault returns nutrition targets for a profile or defaults if not set.
// Performs ownership check - returns ErrProfileNotFound if profile doesn't belong to user.
func (s *Service) GetOrDefault(ctx context.Context, ownerUserID string, profileID uuid.UUID) (TargetsDTO, bool, error) {
	if err := s.checkOwner(ctx, ownerUserID, profileID); err != nil {
		return TargetsDTO{}, false, err
	}

	target, err := s.targetsStorage.Get(ctx, ownerUserID, profileID)
	if err != nil {
		return TargetsDTO{}, false, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	if target == nil {
		return GetDefaultTargets(profileID), true, nil
	}

	return toDTO(target), false, nil
}

// Upsert creates or updates nutrition targets entered by hand.
func (s *Service) Upsert(ctx context.Context, ownerUserID string, req UpsertTargetsRequest) (TargetsDTO, error) {
	return s.upsert(ctx, ownerUserID, req, nil, nil)
}

// ApplyFromPlan stores one week of a saved plan as the current targets.
func (s *Service) ApplyFromPlan(ctx context.Context, ownerUserID string, req UpsertTargetsRequest, planID uuid.UUID, week int) (TargetsDTO, error) {
	return s.upsert(ctx, ownerUserID, req, &planID, &week)
}

func (s *Service) upsert(ctx context.Context, ownerUserID string, req UpsertTargetsRequest, planID *uuid.UUID, week *int) (TargetsDTO, error) {
	if err := req.Validate(); err != nil {
		return TargetsDTO{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}

	if err := s.checkOwner(ctx, ownerUserID, req.ProfileID); err != nil {
		return TargetsDTO{}, err
	}

	upsert := storage.NutritionTargetUpsert{
		CaloriesKcal: req.CaloriesKcal,
		ProteinG:     req.ProteinG,
		FatG:         req.FatG,
		CarbsG:       req.CarbsG,
		SourcePlanID: planID,
		SourceWeek:   week,
	}

	target, err := s.targetsStorage.Upsert(ctx, ownerUserID, req.ProfileID, upsert)
	if err != nil {
		return TargetsDTO{}, fmt.Errorf("failed to upsert nutrition targets: %w", err)
	}

	return toDTO(target), nil
}

func (s *Service) checkOwner(ctx context.Context, ownerUserID string, profileID uuid.UUID) error {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.OwnerUserID != ownerUserID {
		return ErrProfileNotFound
	}
	return nil
}

func toDTO(target *storage.NutritionTarget) TargetsDTO {
	return TargetsDTO{
		ProfileID:    target.ProfileID,
		CaloriesKcal: target.CaloriesKcal,
		ProteinG:     target.ProteinG,
		FatG:         target.FatG,
		CarbsG:       target.CarbsG,
		SourcePlanID: target.SourcePlanID,
		SourceWeek:   target.SourceWeek,
		CreatedAt:    target.CreatedAt,
		UpdatedAt:    target.UpdatedAt,
	}
}
