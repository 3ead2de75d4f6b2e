package projection

import (
	"math"

	"github.com/suvamneog/foodanalyserr/internal/units"
)

// Gender affects the Mifflin-St Jeor constant, the minimum body fat and the
// muscle-gain rate.
type Gender string

const (
	Male   Gender = "male"
	Female Gender = "female"
)

// Formula selects the BMR equation.
type Formula string

const (
	KatchMcArdle  Formula = "katch-mcardle"
	MifflinStJeor Formula = "mifflin-st-jeor"
)

// Profile is the immutable input of one calculation. Weight and height are
// expressed in WeightUnit; everything else is unit-free.
type Profile struct {
	WeightUnit           units.System `json:"weight_unit"`
	CurrentWeight        float64      `json:"weight"`
	Height               float64      `json:"height"`
	CurrentBodyFatPct    float64      `json:"current_bodyfat"`
	GoalBodyFatPct       float64      `json:"goal_bodyfat"`
	Age                  int          `json:"age"`
	Gender               Gender       `json:"gender"`
	ActivityMultiplier   float64      `json:"activity_multiplier"`
	CalorieAdjustmentPct float64      `json:"calorie_adjustment_pct"`
	ProteinMultiplier    float64      `json:"protein_multiplier"`
	BMRFormula           Formula      `json:"bmr_formula"`
}

// Field names used as keys in ValidationError.Fields. They match the JSON
// names of Profile.
const (
	FieldWeightUnit         = "weight_unit"
	FieldWeight             = "weight"
	FieldHeight             = "height"
	FieldCurrentBodyFat     = "current_bodyfat"
	FieldGoalBodyFat        = "goal_bodyfat"
	FieldAge                = "age"
	FieldGender             = "gender"
	FieldActivityMultiplier = "activity_multiplier"
	FieldCalorieAdjustment  = "calorie_adjustment_pct"
	FieldProteinMultiplier  = "protein_multiplier"
	FieldBMRFormula         = "bmr_formula"
)

// ActivityLevel is one of the selectable activity multipliers.
type ActivityLevel struct {
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

// ActivityLevels lists the accepted activity multipliers in ascending order.
var ActivityLevels = []ActivityLevel{
	{1.2, "Sedentary (office job)"},
	{1.375, "Light Exercise (1-2 days/week)"},
	{1.55, "Moderate Exercise (3-5 days/week)"},
	{1.725, "Heavy Exercise (6-7 days/week)"},
	{1.9, "Athlete (2x training/day)"},
}

// ProteinOption is one of the selectable protein multipliers (g per kg LBM).
type ProteinOption struct {
	Multiplier float64 `json:"multiplier"`
	Label      string  `json:"label"`
}

var ProteinOptions = []ProteinOption{
	{1.6, "Moderate (1.6g/kg)"},
	{2.0, "Standard (2.0g/kg)"},
	{2.2, "Athletic (2.2g/kg)"},
	{2.5, "High Performance (2.5g/kg)"},
}

// Input bounds. Weight and height bounds are metric; imperial input is
// converted before it is checked.
const (
	MinAge = 16
	MaxAge = 100

	MinWeightKg = 30.0
	MaxWeightKg = 300.0
	MinHeightCm = 100.0
	MaxHeightCm = 250.0

	MaxBodyFatPct = 50.0

	MinAdjustmentPct = 5.0
	MaxDeficitPct    = 30.0
	MaxSurplusPct    = 20.0
)

// MinBodyFat returns the lowest accepted body fat percentage for gender.
func MinBodyFat(g Gender) float64 {
	if g == Female {
		return 12
	}
	return 5
}

func isActivityMultiplier(v float64) bool {
	for _, l := range ActivityLevels {
		if nearlyEqual(l.Multiplier, v) {
			return true
		}
	}
	return false
}

func isProteinMultiplier(v float64) bool {
	for _, o := range ProteinOptions {
		if nearlyEqual(o.Multiplier, v) {
			return true
		}
	}
	return false
}

func nearlyEqual(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

// IsCutting reports whether the profile asks for a calorie deficit.
func (p Profile) IsCutting() bool {
	return p.CalorieAdjustmentPct > 0
}

// IsRecomp reports whether the calorie direction conflicts with the body-fat
// direction: a deficit aiming for more fat or a surplus aiming for less.
func (p Profile) IsRecomp() bool {
	if p.IsCutting() {
		return p.GoalBodyFatPct > p.CurrentBodyFatPct
	}
	return p.GoalBodyFatPct < p.CurrentBodyFatPct
}

// Metric returns weight in kg and height in cm.
func (p Profile) Metric() (kg, cm float64) {
	return units.ToMetric(p.CurrentWeight, p.Height, p.WeightUnit.IsMetric())
}

func (p Profile) genderFactor() float64 {
	if p.Gender == Female {
		return 0.8
	}
	return 1.0
}
