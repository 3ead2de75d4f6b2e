package foods

import (
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
)

// BarcodeResult: ответ GET /v1/foods/barcode/{code}
type BarcodeResult struct {
	Product     Product       `json:"product"`
	Flags       NutrientFlags `json:"flags"`
	HealthScore HealthScore   `json:"health_score"`
	Alternative Alternative   `json:"alternative"`
}

// CustomFoodDTO is a user-defined food with values per 100 g.
type CustomFoodDTO struct {
	ID              uuid.UUID `json:"id"`
	ProfileID       uuid.UUID `json:"profile_id"`
	Name            string    `json:"name"`
	KcalPer100g     float64   `json:"kcal_per_100g"`
	ProteinGPer100g float64   `json:"protein_g_per_100g"`
	CarbsGPer100g   float64   `json:"carbs_g_per_100g"`
	FatGPer100g     float64   `json:"fat_g_per_100g"`
	CreatedAt       time.Time `json:"created_at"`
	UpdatedAt       time.Time `json:"updated_at"`
}

type ListCustomFoodsResponse struct {
	Items  []CustomFoodDTO `json:"items"`
	Total  int             `json:"total"`
	Limit  int             `json:"limit"`
	Offset int             `json:"offset"`
}

// UpsertCustomFoodRequest: тело POST /v1/foods/custom. With id it updates.
type UpsertCustomFoodRequest struct {
	ID              *uuid.UUID `json:"id,omitempty"`
	ProfileID       uuid.UUID  `json:"profile_id"`
	Name            string     `json:"name"`
	KcalPer100g     float64    `json:"kcal_per_100g"`
	ProteinGPer100g float64    `json:"protein_g_per_100g"`
	CarbsGPer100g   float64    `json:"carbs_g_per_100g"`
	FatGPer100g     float64    `json:"fat_g_per_100g"`
}

const (
	maxNameLen    = 80
	maxKcal100g   = 900
	maxMacro100g  = 100
	maxCustomFood = 200
)

func (r *UpsertCustomFoodRequest) Validate() error {
	if r.ProfileID == uuid.Nil {
		return fmt.Errorf("profile_id is required")
	}

	r.Name = strings.TrimSpace(r.Name)
	if len(r.Name) < 1 || len(r.Name) > maxNameLen {
		return fmt.Errorf("name must be between 1 and %d characters", maxNameLen)
	}

	if r.KcalPer100g < 0 || r.KcalPer100g > maxKcal100g {
		return fmt.Errorf("kcal_per_100g must be between 0 and %d", maxKcal100g)
	}
	if r.ProteinGPer100g < 0 || r.ProteinGPer100g > maxMacro100g {
		return fmt.Errorf("protein_g_per_100g must be between 0 and %d", maxMacro100g)
	}
	if r.CarbsGPer100g < 0 || r.CarbsGPer100g > maxMacro100g {
		return fmt.Errorf("carbs_g_per_100g must be between 0 and %d", maxMacro100g)
	}
	if r.FatGPer100g < 0 || r.FatGPer100g > maxMacro100g {
		return fmt.Errorf("fat_g_per_100g must be between 0 and %d", maxMacro100g)
	}
	if r.ProteinGPer100g+r.CarbsGPer100g+r.FatGPer100g > maxMacro100g {
		return fmt.Errorf("macros must not exceed 100 g per 100 g")
	}

	return nil
}

type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string `json:"code"`
	Message string `json:"message"`
}
