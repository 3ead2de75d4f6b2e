package meals

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/storage"
)

const (
	dateLayout   = "2006-01-02"
	maxMealItems = 30
	maxMealName  = 100
)

// ItemRequest is one food line of a meal.
type ItemRequest struct {
	Name     string  `json:"name"`
	Quantity float64 `json:"quantity"`
	Unit     string  `json:"unit"`
}

// LogMealRequest: тело POST /v1/meals
type LogMealRequest struct {
	ProfileID uuid.UUID     `json:"profile_id"`
	MealName  string        `json:"meal_name"`
	Date      string        `json:"date,omitempty"`
	Items     []ItemRequest `json:"items"`
}

// Validate checks the request and fills the date with today (UTC) when empty.
func (r *LogMealRequest) Validate(now time.Time) error {
	if r.ProfileID == uuid.Nil {
		return fmt.Errorf("profile_id is required")
	}

	r.MealName = strings.TrimSpace(r.MealName)
	if r.MealName == "" {
		return fmt.Errorf("meal_name is required")
	}
	if len(r.MealName) > maxMealName {
		return fmt.Errorf("meal_name must be at most %d characters", maxMealName)
	}

	date, err := normalizeDate(r.Date, now)
	if err != nil {
		return err
	}
	r.Date = date

	if len(r.Items) == 0 {
		return fmt.Errorf("items must not be empty")
	}
	if len(r.Items) > maxMealItems {
		return fmt.Errorf("at most %d items per meal", maxMealItems)
	}

	for i, item := range r.Items {
		if strings.TrimSpace(item.Name) == "" {
			return fmt.Errorf("items[%d].name is required", i)
		}
		if item.Quantity <= 0 {
			return fmt.Errorf("items[%d].quantity must be positive", i)
		}
		grams, err := ToGrams(item.Quantity, item.Unit)
		if err != nil {
			return fmt.Errorf("items[%d].unit: %w", i, err)
		}
		if grams > maxItemGrams {
			return fmt.Errorf("items[%d] quantity %.0f%s seems too high", i, item.Quantity, item.Unit)
		}
	}

	return nil
}

func normalizeDate(raw string, now time.Time) (string, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return now.UTC().Format(dateLayout), nil
	}
	if _, err := time.Parse(dateLayout, raw); err != nil {
		return "", fmt.Errorf("date must be YYYY-MM-DD")
	}
	return raw, nil
}

// Totals are macro sums rounded to 2 decimals.
type Totals struct {
	CaloriesKcal float64 `json:"calories_kcal"`
	ProteinG     float64 `json:"protein_g"`
	CarbsG       float64 `json:"carbs_g"`
	FatG         float64 `json:"fat_g"`
}

type MealDTO struct {
	ID        uuid.UUID          `json:"id"`
	ProfileID uuid.UUID          `json:"profile_id"`
	MealName  string             `json:"meal_name"`
	Date      string             `json:"date"`
	Items     []storage.MealItem `json:"items"`
	Totals    Totals             `json:"totals"`
	CreatedAt time.Time          `json:"created_at"`
}

// Warnings lists items that could not be resolved and were skipped.
type Warnings struct {
	FailedItems []string `json:"failed_items"`
}

type LogMealResponse struct {
	Meal     MealDTO   `json:"meal"`
	Warnings *Warnings `json:"warnings,omitempty"`
}

type MealsResponse struct {
	Date   string    `json:"date"`
	Meals  []MealDTO `json:"meals"`
	Totals Totals    `json:"totals"`
}

// MacroProgress compares one macro with its target.
type MacroProgress struct {
	Consumed  float64 `json:"consumed"`
	Target    float64 `json:"target"`
	Remaining float64 `json:"remaining"`
	Percent   float64 `json:"percent"`
}

// DailySummary: ответ GET /v1/meals/summary
type DailySummary struct {
	ProfileID        uuid.UUID     `json:"profile_id"`
	Date             string        `json:"date"`
	MealsCount       int           `json:"meals_count"`
	TargetsIsDefault bool          `json:"targets_is_default"`
	Calories         MacroProgress `json:"calories"`
	Protein          MacroProgress `json:"protein"`
	Carbs            MacroProgress `json:"carbs"`
	Fat              MacroProgress `json:"fat"`
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
