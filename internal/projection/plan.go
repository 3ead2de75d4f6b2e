package projection

import "github.com/suvamneog/foodanalyserr/internal/units"

// PlanType is derived from the profile, never chosen directly.
type PlanType string

const (
	PlanDeficit PlanType = "Deficit"
	PlanSurplus PlanType = "Surplus"
	PlanRecomp  PlanType = "Recomp"
)

// WeekProgress is the projected body state at the end of a week.
// Weight is in the profile's display unit.
type WeekProgress struct {
	Week       int     `json:"week"`
	Weight     float64 `json:"weight"`
	BodyFatPct float64 `json:"bodyfat"`
}

// WeekCalories is the calorie and macro target for a week.
type WeekCalories struct {
	Week     int `json:"week"`
	Calories int `json:"calories"`
	ProteinG int `json:"protein"`
	CarbsG   int `json:"carbs"`
	FatsG    int `json:"fats"`
}

// Plan is the result of one calculation. WeeklyProgress and
// WeeklyCaloriePlan always hold TotalWeeks entries aligned by week.
type Plan struct {
	WeightUnit          units.System   `json:"weight_unit"`
	GoalWeight          float64        `json:"goal_weight"`
	MaintenanceCalories int            `json:"maintenance_calories"`
	DailyCalories       int            `json:"daily_calories"`
	ProteinGoal         int            `json:"protein_goal"`
	PlanType            PlanType       `json:"plan_type"`
	IsRecomp            bool           `json:"is_recomp"`
	TotalWeeks          int            `json:"total_weeks"`
	WeeklyProgress      []WeekProgress `json:"weekly_progress"`
	WeeklyCaloriePlan   []WeekCalories `json:"weekly_calorie_plan"`
	Warnings            []string       `json:"warnings,omitempty"`
}

// Week returns the calorie plan entry for week n (1-based).
func (p Plan) Week(n int) (WeekCalories, bool) {
	if n < 1 || n > len(p.WeeklyCaloriePlan) {
		return WeekCalories{}, false
	}
	return p.WeeklyCaloriePlan[n-1], true
}
