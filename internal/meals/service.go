package meals

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
	"golang.org/x/sync/errgroup"

	"github.com/suvamneog/foodanalyserr/internal/foods"
	"github.com/suvamneog/foodanalyserr/internal/nutrition"
	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

var (
	ErrNotFound        = errors.New("meal not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrInvalidRequest  = errors.New("invalid_request")
	ErrNothingResolved = errors.New("none of the meal items could be resolved")
)

// resolveConcurrency bounds parallel provider lookups per meal.
const resolveConcurrency = 4

// Resolver returns per-100 g nutrition for a food name.
type Resolver interface {
	Resolve(ctx context.Context, profileID uuid.UUID, name string) (foods.Food, error)
}

type Service struct {
	storage   storage.Storage
	meals     storage.MealsStorage
	resolver  Resolver
	nutrition *nutrition.Service
	now       func() time.Time
}

func NewService(st storage.Storage, meals storage.MealsStorage, resolver Resolver, nutritionService *nutrition.Service) *Service {
	return &Service{
		storage:   st,
		meals:     meals,
		resolver:  resolver,
		nutrition: nutritionService,
		now:       time.Now,
	}
}

// LogMeal resolves every item, scales it to the logged quantity and stores
// the meal. Items that cannot be resolved are skipped and reported.
func (s *Service) LogMeal(ctx context.Context, req LogMealRequest) (LogMealResponse, error) {
	if err := req.Validate(s.now()); err != nil {
		return LogMealResponse{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	if err := s.checkProfile(ctx, req.ProfileID); err != nil {
		return LogMealResponse{}, err
	}

	resolved := make([]*storage.MealItem, len(req.Items))
	failures := make([]string, len(req.Items))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(resolveConcurrency)
	for i, item := range req.Items {
		g.Go(func() error {
			line, err := s.resolveItem(gctx, req.ProfileID, item)
			if err != nil {
				if gctx.Err() != nil {
					return gctx.Err()
				}
				log.Debugf("meals: skip item %q: %s", item.Name, err)
				failures[i] = strings.TrimSpace(item.Name)
				return nil
			}
			resolved[i] = &line
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return LogMealResponse{}, err
	}

	meal := &storage.Meal{
		ProfileID: req.ProfileID,
		Name:      req.MealName,
		Date:      req.Date,
		Items:     make([]storage.MealItem, 0, len(req.Items)),
	}
	var failed []string
	for i := range req.Items {
		if resolved[i] == nil {
			failed = append(failed, failures[i])
			continue
		}
		meal.Items = append(meal.Items, *resolved[i])
	}
	if len(meal.Items) == 0 {
		return LogMealResponse{}, fmt.Errorf("%w: %s", ErrNothingResolved, strings.Join(failed, ", "))
	}

	totals := sumItems(meal.Items)
	meal.CaloriesKcal = totals.CaloriesKcal
	meal.ProteinG = totals.ProteinG
	meal.CarbsG = totals.CarbsG
	meal.FatG = totals.FatG

	if err := s.meals.CreateMeal(ctx, meal); err != nil {
		return LogMealResponse{}, fmt.Errorf("failed to save meal: %w", err)
	}

	resp := LogMealResponse{Meal: toDTO(*meal)}
	if len(failed) > 0 {
		resp.Warnings = &Warnings{FailedItems: failed}
	}
	return resp, nil
}

func (s *Service) resolveItem(ctx context.Context, profileID uuid.UUID, item ItemRequest) (storage.MealItem, error) {
	grams, err := ToGrams(item.Quantity, item.Unit)
	if err != nil {
		return storage.MealItem{}, err
	}

	food, err := s.resolver.Resolve(ctx, profileID, item.Name)
	if err != nil {
		return storage.MealItem{}, err
	}

	unit := strings.ToLower(strings.TrimSpace(item.Unit))
	if unit == "" {
		unit = "g"
	}
	factor := grams / 100
	return storage.MealItem{
		Name:         strings.TrimSpace(item.Name),
		Quantity:     item.Quantity,
		Unit:         unit,
		Grams:        round2(grams),
		Source:       food.Source,
		CaloriesKcal: round2(food.KcalPer100g * factor),
		ProteinG:     round2(food.ProteinGPer100g * factor),
		CarbsG:       round2(food.CarbsGPer100g * factor),
		FatG:         round2(food.FatGPer100g * factor),
	}, nil
}

// List returns the meals of one day with the day totals.
func (s *Service) List(ctx context.Context, profileID uuid.UUID, date string) (MealsResponse, error) {
	date, err := normalizeDate(date, s.now())
	if err != nil {
		return MealsResponse{}, fmt.Errorf("%w: %s", ErrInvalidRequest, err.Error())
	}
	if err := s.checkProfile(ctx, profileID); err != nil {
		return MealsResponse{}, err
	}

	rows, err := s.meals.ListMeals(ctx, profileID, date)
	if err != nil {
		return MealsResponse{}, fmt.Errorf("failed to list meals: %w", err)
	}

	resp := MealsResponse{Date: date, Meals: make([]MealDTO, 0, len(rows))}
	for _, m := range rows {
		dto := toDTO(m)
		resp.Meals = append(resp.Meals, dto)
		resp.Totals.CaloriesKcal += dto.Totals.CaloriesKcal
		resp.Totals.ProteinG += dto.Totals.ProteinG
		resp.Totals.CarbsG += dto.Totals.CarbsG
		resp.Totals.FatG += dto.Totals.FatG
	}
	resp.Totals = roundTotals(resp.Totals)
	return resp, nil
}

func (s *Service) Delete(ctx context.Context, id uuid.UUID) error {
	meal, err := s.meals.GetMeal(ctx, id)
	if errors.Is(err, storage.ErrNotFound) {
		return ErrNotFound
	}
	if err != nil {
		return fmt.Errorf("failed to get meal: %w", err)
	}
	if err := s.checkProfile(ctx, meal.ProfileID); err != nil {
		return ErrNotFound
	}

	if err := s.meals.DeleteMeal(ctx, id); err != nil {
		if errors.Is(err, storage.ErrNotFound) {
			return ErrNotFound
		}
		return fmt.Errorf("failed to delete meal: %w", err)
	}
	return nil
}

// Summary compares the day totals with the profile's nutrition targets.
func (s *Service) Summary(ctx context.Context, profileID uuid.UUID, date string) (DailySummary, error) {
	day, err := s.List(ctx, profileID, date)
	if err != nil {
		return DailySummary{}, err
	}

	targets, isDefault, err := s.nutrition.GetOrDefault(ctx, userctx.UserIDOrDefault(ctx), profileID)
	if err != nil {
		return DailySummary{}, fmt.Errorf("failed to get nutrition targets: %w", err)
	}

	return DailySummary{
		ProfileID:        profileID,
		Date:             day.Date,
		MealsCount:       len(day.Meals),
		TargetsIsDefault: isDefault,
		Calories:         progress(day.Totals.CaloriesKcal, float64(targets.CaloriesKcal)),
		Protein:          progress(day.Totals.ProteinG, float64(targets.ProteinG)),
		Carbs:            progress(day.Totals.CarbsG, float64(targets.CarbsG)),
		Fat:              progress(day.Totals.FatG, float64(targets.FatG)),
	}, nil
}

func progress(consumed, target float64) MacroProgress {
	p := MacroProgress{
		Consumed:  round2(consumed),
		Target:    target,
		Remaining: round2(target - consumed),
	}
	if target > 0 {
		p.Percent = math.Round(consumed/target*1000) / 10
	}
	return p
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

func sumItems(items []storage.MealItem) Totals {
	var t Totals
	for _, it := range items {
		t.CaloriesKcal += it.CaloriesKcal
		t.ProteinG += it.ProteinG
		t.CarbsG += it.CarbsG
		t.FatG += it.FatG
	}
	return roundTotals(t)
}

func roundTotals(t Totals) Totals {
	return Totals{
		CaloriesKcal: round2(t.CaloriesKcal),
		ProteinG:     round2(t.ProteinG),
		CarbsG:       round2(t.CarbsG),
		FatG:         round2(t.FatG),
	}
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

func toDTO(m storage.Meal) MealDTO {
	items := m.Items
	if items == nil {
		items = []storage.MealItem{}
	}
	return MealDTO{
		ID:        m.ID,
		ProfileID: m.ProfileID,
		MealName:  m.Name,
		Date:      m.Date,
		Items:     items,
		Totals: Totals{
			CaloriesKcal: m.CaloriesKcal,
			ProteinG:     m.ProteinG,
			CarbsG:       m.CarbsG,
			FatG:         m.FatG,
		},
		CreatedAt: m.CreatedAt,
	}
}
