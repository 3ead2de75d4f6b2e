package plans

import (
	"time"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/projection"
)

// CreatePlanRequest: запрос для POST /v1/plans
type CreatePlanRequest struct {
	ProfileID uuid.UUID          `json:"profile_id"`
	Name      string             `json:"name"`
	Input     projection.Profile `json:"input"`
}

// PlanDTO is a saved plan with its input and result snapshots.
type PlanDTO struct {
	ID                  uuid.UUID          `json:"id"`
	ProfileID           uuid.UUID          `json:"profile_id"`
	Name                string             `json:"name"`
	PlanType            string             `json:"plan_type"`
	MaintenanceCalories int                `json:"maintenance_calories"`
	DailyCalories       int                `json:"daily_calories"`
	Input               projection.Profile `json:"input"`
	Result              projection.Plan    `json:"result"`
	CreatedAt           time.Time          `json:"created_at"`
}

// PlanSummaryDTO is a list entry without the weekly series.
type PlanSummaryDTO struct {
	ID                  uuid.UUID `json:"id"`
	ProfileID           uuid.UUID `json:"profile_id"`
	Name                string    `json:"name"`
	PlanType            string    `json:"plan_type"`
	MaintenanceCalories int       `json:"maintenance_calories"`
	DailyCalories       int       `json:"daily_calories"`
	CreatedAt           time.Time `json:"created_at"`
}

type PlansResponse struct {
	Plans []PlanSummaryDTO `json:"plans"`
}

// ApplyRequest: запрос для POST /v1/plans/{id}/apply. Week defaults to 1.
type ApplyRequest struct {
	Week int `json:"week"`
}

// OptionsResponse lists the selectable engine inputs.
type OptionsResponse struct {
	ActivityLevels []projection.ActivityLevel `json:"activity_levels"`
	ProteinOptions []projection.ProteinOption `json:"protein_options"`
	BMRFormulas    []projection.Formula       `json:"bmr_formulas"`
	WeightUnits    []string                   `json:"weight_units"`
	TotalWeeks     int                        `json:"total_weeks"`
}

// ErrorResponse: формат ошибки. Fields is set for validation failures,
// Week for calculation failures tied to a week.
type ErrorResponse struct {
	Error ErrorDetail `json:"error"`
}

type ErrorDetail struct {
	Code    string            `json:"code"`
	Message string            `json:"message"`
	Fields  map[string]string `json:"fields,omitempty"`
	Week    int               `json:"week,omitempty"`
}
