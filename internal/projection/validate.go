package projection

import (
	"fmt"
	"math"

	"github.com/suvamneog/foodanalyserr/internal/units"
)

// WithDefaults fills the optional enum fields (metric units, the
// Katch-McArdle formula) and normalises the spelling of the unit system.
func (p Profile) WithDefaults() Profile {
	if system, err := units.ParseSystem(string(p.WeightUnit)); err == nil {
		p.WeightUnit = system
	}
	if p.BMRFormula == "" {
		p.BMRFormula = KatchMcArdle
	}
	return p
}

// Validate checks every field of p and returns a *ValidationError listing all
// violations, or nil. A goal body fat that points against the calorie
// direction is accepted and treated as recomposition.
func Validate(p Profile) error {
	verr := &ValidationError{Fields: map[string]string{}}

	system, err := units.ParseSystem(string(p.WeightUnit))
	if err != nil {
		verr.add(FieldWeightUnit, "must be metric or imperial")
	} else {
		validateBodySize(verr, system, p.CurrentWeight, p.Height)
	}

	gender := p.Gender
	switch gender {
	case Male, Female:
	default:
		verr.add(FieldGender, "must be male or female")
		gender = Male
	}

	minBF := MinBodyFat(gender)
	bfRange := fmt.Sprintf("must be between %.0f and %.0f", minBF, MaxBodyFatPct)
	if !inRange(p.CurrentBodyFatPct, minBF, MaxBodyFatPct) {
		verr.add(FieldCurrentBodyFat, bfRange)
	}
	if !inRange(p.GoalBodyFatPct, minBF, MaxBodyFatPct) {
		verr.add(FieldGoalBodyFat, bfRange)
	} else if nearlyEqual(p.GoalBodyFatPct, p.CurrentBodyFatPct) {
		verr.add(FieldGoalBodyFat, "goal must differ from current")
	}

	if p.Age < MinAge || p.Age > MaxAge {
		verr.add(FieldAge, fmt.Sprintf("must be between %d and %d", MinAge, MaxAge))
	}

	if !isActivityMultiplier(p.ActivityMultiplier) {
		verr.add(FieldActivityMultiplier, "must be one of 1.2, 1.375, 1.55, 1.725, 1.9")
	}
	if !isProteinMultiplier(p.ProteinMultiplier) {
		verr.add(FieldProteinMultiplier, "must be one of 1.6, 2.0, 2.2, 2.5")
	}

	adj := p.CalorieAdjustmentPct
	switch {
	case math.IsNaN(adj) || adj == 0:
		verr.add(FieldCalorieAdjustment, "must be a deficit (positive) or a surplus (negative)")
	case adj > 0 && !inRange(adj, MinAdjustmentPct, MaxDeficitPct):
		verr.add(FieldCalorieAdjustment, fmt.Sprintf("deficit must be between %.0f%% and %.0f%%", MinAdjustmentPct, MaxDeficitPct))
	case adj < 0 && !inRange(-adj, MinAdjustmentPct, MaxSurplusPct):
		verr.add(FieldCalorieAdjustment, fmt.Sprintf("surplus must be between %.0f%% and %.0f%%", MinAdjustmentPct, MaxSurplusPct))
	}

	switch p.BMRFormula {
	case KatchMcArdle, MifflinStJeor:
	default:
		verr.add(FieldBMRFormula, "must be katch-mcardle or mifflin-st-jeor")
	}

	if len(verr.Fields) > 0 {
		return verr
	}
	return nil
}

func validateBodySize(verr *ValidationError, system units.System, weight, height float64) {
	metric := system.IsMetric()
	kg, cm := units.ToMetric(weight, height, metric)

	if !inRange(kg, MinWeightKg, MaxWeightKg) {
		lo, _ := units.FromMetric(MinWeightKg, 0, metric)
		hi, _ := units.FromMetric(MaxWeightKg, 0, metric)
		verr.add(FieldWeight, fmt.Sprintf("must be between %.1f and %.1f %s", lo, hi, system.WeightLabel()))
	}
	if !inRange(cm, MinHeightCm, MaxHeightCm) {
		_, lo := units.FromMetric(0, MinHeightCm, metric)
		_, hi := units.FromMetric(0, MaxHeightCm, metric)
		verr.add(FieldHeight, fmt.Sprintf("must be between %.1f and %.1f %s", lo, hi, system.HeightLabel()))
	}
}

// inRange is false for NaN.
func inRange(v, lo, hi float64) bool {
	return v >= lo-1e-9 && v <= hi+1e-9
}
