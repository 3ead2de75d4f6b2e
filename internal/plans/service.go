package plans

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/nutrition"
	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
	"github.com/suvamneog/foodanalyserr/internal/units"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

var (
	ErrNotFound        = errors.New("plan not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidWeek     = errors.New("week out of range")
	ErrNameTooLong     = errors.New("name must be at most 100 characters")
)

const (
	maxNameLen   = 100
	defaultLimit = 50
	maxLimit     = 200
)

// Service runs the projection engine and keeps saved plans.
type Service struct {
	storage   storage.Storage
	plans     storage.PlansStorage
	nutrition *nutrition.Service
	metrics   *telemetry.Manager
}

// NewService creates a plans service. metrics may be nil.
func NewService(st storage.Storage, plans storage.PlansStorage, nutritionService *nutrition.Service, metrics *telemetry.Manager) *Service {
	return &Service{
		storage:   st,
		plans:     plans,
		nutrition: nutritionService,
		metrics:   metrics,
	}
}

// Preview runs the engine without persisting anything.
func (s *Service) Preview(ctx context.Context, input projection.Profile) (projection.Plan, error) {
	return s.calculate(input)
}

// Create fills missing calculator defaults from the person profile, runs the
// engine and stores both snapshots.
func (s *Service) Create(ctx context.Context, req CreatePlanRequest) (*PlanDTO, error) {
	profile, err := s.ownedProfile(ctx, req.ProfileID)
	if err != nil {
		return nil, err
	}

	name := strings.TrimSpace(req.Name)
	if len(name) > maxNameLen {
		return nil, ErrNameTooLong
	}

	input := req.Input
	if input.WeightUnit == "" && profile.WeightUnit != "" {
		input.WeightUnit = units.System(profile.WeightUnit)
	}
	if input.Gender == "" && profile.Gender != "" {
		input.Gender = projection.Gender(profile.Gender)
	}
	input = input.WithDefaults()

	result, err := s.calculate(input)
	if err != nil {
		return nil, err
	}

	if name == "" {
		name = fmt.Sprintf("%s %.0f%% to %.0f%%", result.PlanType, input.CurrentBodyFatPct, input.GoalBodyFatPct)
	}

	inputJSON, err := json.Marshal(input)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan input: %w", err)
	}
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return nil, fmt.Errorf("failed to encode plan result: %w", err)
	}

	saved := &storage.SavedPlan{
		ProfileID:           profile.ID,
		Name:                name,
		PlanType:            string(result.PlanType),
		MaintenanceCalories: result.MaintenanceCalories,
		DailyCalories:       result.DailyCalories,
		Input:               inputJSON,
		Result:              resultJSON,
	}
	if err := s.plans.CreatePlan(ctx, saved); err != nil {
		return nil, fmt.Errorf("failed to save plan: %w", err)
	}

	log.Debugf("plans: saved %s plan %s for profile %s", result.PlanType, saved.ID, profile.ID)

	return &PlanDTO{
		ID:                  saved.ID,
		ProfileID:           saved.ProfileID,
		Name:                saved.Name,
		PlanType:            saved.PlanType,
		MaintenanceCalories: saved.MaintenanceCalories,
		DailyCalories:       saved.DailyCalories,
		Input:               input,
		Result:              result,
		CreatedAt:           saved.CreatedAt,
	}, nil
}

// List returns saved plans of a profile, newest first.
func (s *Service) List(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]PlanSummaryDTO, error) {
	if _, err := s.ownedProfile(ctx, profileID); err != nil {
		return nil, err
	}

	if limit <= 0 {
		limit = defaultLimit
	}
	if limit > maxLimit {
		limit = maxLimit
	}
	if offset < 0 {
		offset = 0
	}

	rows, err := s.plans.ListPlans(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list plans: %w", err)
	}

	out := make([]PlanSummaryDTO, 0, len(rows))
	for _, p := range rows {
		out = append(out, PlanSummaryDTO{
			ID:                  p.ID,
			ProfileID:           p.ProfileID,
			Name:                p.Name,
			PlanType:            p.PlanType,
			MaintenanceCalories: p.MaintenanceCalories,
			DailyCalories:       p.DailyCalories,
			CreatedAt:           p.CreatedAt,
		})
	}
	return out, nil
}

// Get returns a saved plan with decoded snapshots.
func (s *Service) Get(ctx context.Context, id uuid.UUID) (*PlanDTO, error) {
	saved, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	return decode(saved)
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	if _, err := s.owned(ctx, id); err != nil {
		return err
	}
	if err := s.plans.DeletePlan(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete plan: %w", err)
	}
	return nil
}

// Apply copies the targets of one plan week into the profile's nutrition targets.
func (s *Service) Apply(ctx context.Context, id uuid.UUID, week int) (nutrition.TargetsDTO, error) {
	if week == 0 {
		week = 1
	}

	plan, err := s.Get(ctx, id)
	if err != nil {
		return nutrition.TargetsDTO{}, err
	}

	wc, ok := plan.Result.Week(week)
	if !ok {
		return nutrition.TargetsDTO{}, fmt.Errorf("%w: must be between 1 and %d", ErrInvalidWeek, len(plan.Result.WeeklyCaloriePlan))
	}

	req := nutrition.UpsertTargetsRequest{
		ProfileID:    plan.ProfileID,
		CaloriesKcal: wc.Calories,
		ProteinG:     wc.ProteinG,
		FatG:         wc.FatsG,
		CarbsG:       wc.CarbsG,
	}
	return s.nutrition.ApplyFromPlan(ctx, userctx.UserIDOrDefault(ctx), req, plan.ID, week)
}

// calculate runs the engine and counts the outcome.
func (s *Service) calculate(input projection.Profile) (projection.Plan, error) {
	plan, err := projection.Calculate(input)

	outcome := telemetry.OutcomeOK
	var verr *projection.ValidationError
	var cerr *projection.CalculationError
	switch {
	case errors.As(err, &verr):
		outcome = telemetry.OutcomeValidationFailed
	case errors.As(err, &cerr):
		outcome = telemetry.OutcomeCalcFailed
		log.Infof("plans: calculation rejected: %s", cerr)
	}

	if s.metrics != nil {
		planType := ""
		if err == nil {
			planType = string(plan.PlanType)
		}
		s.metrics.CounterPlanCalculations.WithLabelValues(planType, outcome).Inc()
	}

	return plan, err
}

func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.SavedPlan, error) {
	saved, err := s.plans.GetPlan(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	if _, err := s.ownedProfile(ctx, saved.ProfileID); err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			return nil, ErrNotFound
		}
		return nil, err
	}
	return saved, nil
}

func (s *Service) ownedProfile(ctx context.Context, profileID uuid.UUID) (*storage.Profile, error) {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return nil, ErrProfileNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return nil, ErrProfileNotFound
	}
	return profile, nil
}

func decode(saved *storage.SavedPlan) (*PlanDTO, error) {
	dto := &PlanDTO{
		ID:                  saved.ID,
		ProfileID:           saved.ProfileID,
		Name:                saved.Name,
		PlanType:            saved.PlanType,
		MaintenanceCalories: saved.MaintenanceCalories,
		DailyCalories:       saved.DailyCalories,
		CreatedAt:           saved.CreatedAt,
	}
	if err := json.Unmarshal(saved.Input, &dto.Input); err != nil {
		return nil, fmt.Errorf("failed to decode plan input: %w", err)
	}
	if err := json.Unmarshal(saved.Result, &dto.Result); err != nil {
		return nil, fmt.Errorf("failed to decode plan result: %w", err)
	}
	return dto, nil
}
