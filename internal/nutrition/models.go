package nutrition

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

// TargetsDTO represents nutrition goals/targets for a profile.
type TargetsDTO struct {
	ProfileID    uuid.UUID  `json:"profile_id"`
	CaloriesKcal int        `json:"calories_kcal"`
	ProteinG     int        `json:"protein_g"`
	FatG         int        `json:"fat_g"`
	CarbsG       int        `json:"carbs_g"`
	SourcePlanID *uuid.UUID `json:"source_plan_id,omitempty"`
	SourceWeek   *int       `json:"source_week,omitempty"`
	CreatedAt    time.Time  `json:"created_at"`
	UpdatedAt    time.Time  `json:"updated_at"`
}

// GetTargetsResponse contains targets and a flag indicating if they are defaults.
type GetTargetsResponse struct {
	Targets   TargetsDTO `json:"targets"`
	IsDefault bool       `json:"is_default"`
}

// UpsertTargetsRequest is the request body for PUT /v1/nutrition/targets.
// Manual edits clear the plan source.
type UpsertTargetsRequest struct {
	ProfileID    uuid.UUID `json:"profile_id"`
	CaloriesKcal int       `json:"calories_kcal"`
	ProteinG     int       `json:"protein_g"`
	FatG         int       `json:"fat_g"`
	CarbsG       int       `json:"carbs_g"`
}

// Bounds match the CHECK constraints of the nutrition_targets table.
const (
	minCalories = 800
	maxCalories = 10000
	maxProteinG = 1000
	maxFatG     = 1000
	maxCarbsG   = 2000
)

// Validate validates the upsert request.
func (r *UpsertTargetsRequest) Validate() error {
	if r.ProfileID == uuid.Nil {
		return fmt.Errorf("profile_id is required")
	}

	if r.CaloriesKcal < minCalories || r.CaloriesKcal > maxCalories {
		return fmt.Errorf("calories_kcal must be between %d and %d", minCalories, maxCalories)
	}

	if r.ProteinG < 0 || r.ProteinG > maxProteinG {
		return fmt.Errorf("protein_g must be between 0 and %d", maxProteinG)
	}

	if r.FatG < 0 || r.FatG > maxFatG {
		return fmt.Errorf("fat_g must be between 0 and %d", maxFatG)
	}

	if r.CarbsG < 0 || r.CarbsG > maxCarbsG {
		return fmt.Errorf("carbs_g must be between 0 and %d", maxCarbsG)
	}

	return nil
}

// GetDefaultTargets returns reasonable default nutrition targets.
func GetDefaultTargets(profileID uuid.UUID) TargetsDTO {
	now := time.Now().UTC()
	return TargetsDTO{
		ProfileID:    profileID,
		CaloriesKcal: 2200,
		ProteinG:     120,
		FatG:         70,
		CarbsG:       250,
		CreatedAt:    now,
		UpdatedAt:    now,
	}
}
