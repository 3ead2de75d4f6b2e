package foods

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

var (
	ErrNotFound        = errors.New("custom food not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrConflict        = errors.New("custom food with this name already exists")
	ErrLimitReached    = fmt.Errorf("maximum custom foods limit reached (%d)", maxCustomFood)
)

// Service combines the external provider with the profile's custom foods.
type Service struct {
	storage  storage.Storage
	custom   storage.CustomFoodsStorage
	provider Provider
	metrics  *telemetry.Manager
}

// NewService creates a foods service. metrics may be nil.
func NewService(st storage.Storage, custom storage.CustomFoodsStorage, provider Provider, metrics *telemetry.Manager) *Service {
	return &Service{
		storage:  st,
		custom:   custom,
		provider: provider,
		metrics:  metrics,
	}
}

func (s *Service) Search(ctx context.Context, query string) (Food, error) {
	if strings.TrimSpace(query) == "" {
		return Food{}, ErrInvalidQuery
	}
	return s.provider.Search(ctx, query)
}

// Barcode looks the product up and attaches flags, score and a healthier
// alternative.
func (s *Service) Barcode(ctx context.Context, code string) (BarcodeResult, error) {
	code = strings.TrimSpace(code)
	if !ValidBarcode(code) {
		return BarcodeResult{}, ErrInvalidBarcode
	}

	product, err := s.provider.Barcode(ctx, code)
	if err != nil {
		return BarcodeResult{}, err
	}

	flags := Flags(product.Nutriments)
	return BarcodeResult{
		Product:     product,
		Flags:       flags,
		HealthScore: Score(product),
		Alternative: SuggestAlternative(product.Categories, flags),
	}, nil
}

// Resolve returns per-100 g values for a meal item name: the profile's custom
// food with that name first, then the provider.
func (s *Service) Resolve(ctx context.Context, profileID uuid.UUID, name string) (Food, error) {
	owner := userctx.UserIDOrDefault(ctx)

	custom, err := s.custom.FindByName(ctx, owner, profileID, name)
	if err != nil {
		return Food{}, fmt.Errorf("failed to find custom food: %w", err)
	}
	if custom != nil {
		if s.metrics != nil {
			s.metrics.CounterFoodLookups.WithLabelValues(SourceCustom).Inc()
		}
		return Food{
			Name:            custom.Name,
			KcalPer100g:     custom.KcalPer100g,
			ProteinGPer100g: custom.ProteinGPer100g,
			CarbsGPer100g:   custom.CarbsGPer100g,
			FatGPer100g:     custom.FatGPer100g,
			Source:          SourceCustom,
		}, nil
	}

	return s.Search(ctx, name)
}

func (s *Service) ListCustom(ctx context.Context, profileID uuid.UUID, query string, limit, offset int) (ListCustomFoodsResponse, error) {
	if err := s.checkProfile(ctx, profileID); err != nil {
		return ListCustomFoodsResponse{}, err
	}

	if limit <= 0 || limit > 100 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.custom.List(ctx, userctx.UserIDOrDefault(ctx), profileID, strings.TrimSpace(query), limit, offset)
	if err != nil {
		return ListCustomFoodsResponse{}, fmt.Errorf("failed to list custom foods: %w", err)
	}

	items := make([]CustomFoodDTO, len(rows))
	for i, f := range rows {
		items[i] = toDTO(f)
	}

	return ListCustomFoodsResponse{Items: items, Total: total, Limit: limit, Offset: offset}, nil
}

func (s *Service) UpsertCustom(ctx context.Context, req UpsertCustomFoodRequest) (CustomFoodDTO, error) {
	if err := req.Validate(); err != nil {
		return CustomFoodDTO{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	if err := s.checkProfile(ctx, req.ProfileID); err != nil {
		return CustomFoodDTO{}, err
	}

	owner := userctx.UserIDOrDefault(ctx)

	if req.ID == nil {
		_, total, err := s.custom.List(ctx, owner, req.ProfileID, "", 1, 0)
		if err != nil {
			return CustomFoodDTO{}, fmt.Errorf("failed to check existing count: %w", err)
		}
		if total >= maxCustomFood {
			return CustomFoodDTO{}, ErrLimitReached
		}
	}

	food, err := s.custom.Upsert(ctx, owner, req.ProfileID, storage.CustomFoodUpsert{
		ID:              req.ID,
		Name:            req.Name,
		KcalPer100g:     req.KcalPer100g,
		ProteinGPer100g: req.ProteinGPer100g,
		CarbsGPer100g:   req.CarbsGPer100g,
		FatGPer100g:     req.FatGPer100g,
	})
	switch {
	case errors.Is(err, storage.ErrConflict):
		return CustomFoodDTO{}, ErrConflict
	case errors.Is(err, storage.ErrNotFound):
		return CustomFoodDTO{}, ErrNotFound
	case err != nil:
		return CustomFoodDTO{}, fmt.Errorf("failed to upsert custom food: %w", err)
	}

	log.Debugf("foods: custom food %q saved for profile %s", food.Name, food.ProfileID)
	return toDTO(food), nil
}

func (s *Service) DeleteCustom(ctx context.Context, id uuid.UUID) error {
	err := s.custom.Delete(ctx, userctx.UserIDOrDefault(ctx), id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to delete custom food: %w", err)
	}
	return nil
}

func (s *Service) checkProfile(ctx context.Context, profileID uuid.UUID) error {
	profile, err := s.storage.GetProfile(ctx, profileID)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrProfileNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get profile: %w", err)
	}
	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return ErrProfileNotFound
	}
	return nil
}

func toDTO(f storage.CustomFood) CustomFoodDTO {
	return CustomFoodDTO{
		ID:              f.ID,
		ProfileID:       f.ProfileID,
		Name:            f.Name,
		KcalPer100g:     f.KcalPer100g,
		ProteinGPer100g: f.ProteinGPer100g,
		CarbsGPer100g:   f.CarbsGPer100g,
		FatGPer100g:     f.FatGPer100g,
		CreatedAt:       f.CreatedAt,
		UpdatedAt:       f.UpdatedAt,
	}
}
