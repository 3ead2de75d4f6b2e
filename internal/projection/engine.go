package projection

import (
	"fmt"
	"math"

	"github.com/suvamneog/foodanalyserr/internal/units"
)

// TotalWeeks is the length of every projection.
const TotalWeeks = 16

// MinDailyCalories is the safety floor for any projected week.
const MinDailyCalories = 1200

const (
	fatKcalPerKg    = 7700.0
	muscleKcalPerKg = 2000.0
	tissueKcalPerKg = 8500.0

	// Share of the calorie gap that drives each recomposition component.
	recompGapShare = 0.3
	recompLeanStep = 0.01

	bulkRateFactor   = 0.85
	bulkWeeklyGain   = 0.0025
	bulkProteinScale = 0.95

	adaptationRate = 0.1

	kcalPerGramProtein = 4.0
	kcalPerGramCarb    = 4.0
	kcalPerGramFat     = 9.0
)

// Classify derives the plan type from the calorie and body-fat directions.
func Classify(p Profile) PlanType {
	switch {
	case p.IsRecomp():
		return PlanRecomp
	case p.IsCutting():
		return PlanDeficit
	default:
		return PlanSurplus
	}
}

// Calculate validates p and runs the weekly simulation. It returns a
// *ValidationError for bad input and a *CalculationError when a projected
// week is unsafe; no partial plan is returned in either case.
func Calculate(p Profile) (Plan, error) {
	p = p.WithDefaults()
	if err := Validate(p); err != nil {
		return Plan{}, err
	}

	s := newSimulation(p)
	weeks, err := s.run()
	if err != nil {
		return Plan{}, err
	}

	metric := p.WeightUnit.IsMetric()
	plan := Plan{
		WeightUnit:          p.WeightUnit,
		GoalWeight:          units.Round(units.KgToDisplay(s.goalKg, metric), 2),
		MaintenanceCalories: int(math.Round(s.tdee)),
		DailyCalories:       int(math.Round(s.tdee * (1 - p.CalorieAdjustmentPct/100))),
		ProteinGoal:         int(math.Round(s.lbm * s.proteinPerKg)),
		PlanType:            Classify(p),
		IsRecomp:            s.recomp,
		TotalWeeks:          TotalWeeks,
		WeeklyProgress:      make([]WeekProgress, 0, TotalWeeks),
		WeeklyCaloriePlan:   make([]WeekCalories, 0, TotalWeeks),
	}
	for _, w := range weeks {
		plan.WeeklyProgress = append(plan.WeeklyProgress, WeekProgress{
			Week:       w.week,
			Weight:     units.Round(units.KgToDisplay(w.weightKg, metric), 1),
			BodyFatPct: units.Round(w.bodyFatPct, 1),
		})
		plan.WeeklyCaloriePlan = append(plan.WeeklyCaloriePlan, w.calories)
	}
	if p.BMRFormula == MifflinStJeor {
		plan.Warnings = append(plan.Warnings,
			"mifflin-st-jeor ignores body fat; weekly targets still use the body fat you entered for lean mass")
	}
	return plan, nil
}

type simulation struct {
	p        Profile
	kg, cm   float64
	cutting  bool
	recomp   bool
	lbm      float64
	tdee     float64
	goalKg   float64
	goalLean float64
	goalFat  float64

	// recomp bounds: fat only falls to fatFloor, lean only grows to leanCap
	fatFloor float64
	leanCap  float64

	// kg per week
	weightRate float64
	fatRate    float64
	leanRate   float64

	proteinPerKg float64
	carbShare    float64
	fatShare     float64
}

type simulatedWeek struct {
	week       int
	weightKg   float64
	bodyFatPct float64
	calories   WeekCalories
}

func newSimulation(p Profile) *simulation {
	kg, cm := p.Metric()
	s := &simulation{
		p:       p,
		kg:      kg,
		cm:      cm,
		cutting: p.IsCutting(),
		recomp:  p.IsRecomp(),
		lbm:     LeanBodyMass(kg, p.CurrentBodyFatPct),
	}
	s.tdee = TDEE(BMR(p.BMRFormula, kg, cm, p.CurrentBodyFatPct, p.Age, p.Gender), p.ActivityMultiplier)

	adj := math.Abs(p.CalorieAdjustmentPct)
	gapPerWeek := s.tdee * adj / 100 * 7
	goalFraction := 1 - p.GoalBodyFatPct/100

	switch {
	case s.recomp:
		step := 1 + recompLeanStep
		if s.cutting {
			step = 1 - recompLeanStep
		}
		s.goalLean = s.lbm * step
		s.goalKg = s.goalLean / goalFraction
		s.goalFat = s.goalKg - s.goalLean
		s.fatRate = recompGapShare * gapPerWeek / fatKcalPerKg
		s.leanRate = recompGapShare * gapPerWeek / muscleKcalPerKg * p.genderFactor()

		s.leanCap = s.lbm * (1 + recompLeanStep)
		currentFat := kg - s.lbm
		s.fatFloor = s.goalFat
		if s.fatFloor >= currentFat {
			// a deficit never adds fat; stop at the gender minimum instead
			minBF := MinBodyFat(p.Gender)
			s.fatFloor = math.Min(s.leanCap*minBF/(100-minBF), currentFat)
		}
	case s.cutting:
		s.goalKg = s.lbm / goalFraction
		s.weightRate = gapPerWeek / tissueKcalPerKg
	default:
		weekly := kg * bulkWeeklyGain * (adj / 10) * p.genderFactor()
		s.goalKg = kg + float64(TotalWeeks)*weekly
		s.weightRate = gapPerWeek / tissueKcalPerKg * bulkRateFactor
	}

	s.proteinPerKg = p.ProteinMultiplier
	if !s.cutting && !s.recomp {
		s.proteinPerKg *= bulkProteinScale
	}
	s.carbShare, s.fatShare = 0.5, 0.2
	if s.cutting {
		s.carbShare, s.fatShare = 0.4, 0.3
	}
	return s
}

func (s *simulation) run() ([]simulatedWeek, error) {
	weeks := make([]simulatedWeek, 0, TotalWeeks)
	fat := s.kg - s.lbm
	lean := s.lbm

	for week := 1; week <= TotalWeeks; week++ {
		var weightKg, bodyFatPct float64
		if s.recomp {
			fat = math.Max(fat-s.fatRate, math.Min(fat, s.fatFloor))
			lean = math.Min(lean+s.leanRate, math.Max(lean, s.leanCap))
			weightKg = fat + lean
			if weightKg > 0 {
				bodyFatPct = fat / weightKg * 100
			}
		} else {
			weightKg = approach(s.kg, s.goalKg, s.weightRate*float64(week))
			bodyFatPct = s.interpolateBodyFat(weightKg)
		}
		if weightKg <= 0 || math.IsNaN(weightKg) {
			return nil, &CalculationError{Week: week, Message: "projected weight is not positive"}
		}

		cal, err := s.weekCalories(week, weightKg, bodyFatPct)
		if err != nil {
			return nil, err
		}
		weeks = append(weeks, simulatedWeek{
			week:       week,
			weightKg:   weightKg,
			bodyFatPct: bodyFatPct,
			calories:   cal,
		})
	}
	return weeks, nil
}

func (s *simulation) weekCalories(week int, weightKg, bodyFatPct float64) (WeekCalories, error) {
	p := s.p
	decay := 1 - float64(week)/TotalWeeks*adaptationRate
	if !s.cutting {
		decay = 1 - float64(week)/TotalWeeks*adaptationRate*0.5
	}
	tdee := TDEE(BMR(p.BMRFormula, weightKg, s.cm, bodyFatPct, p.Age, p.Gender), p.ActivityMultiplier) * decay
	calories := tdee * (1 - p.CalorieAdjustmentPct/100)
	if calories < MinDailyCalories {
		return WeekCalories{}, &CalculationError{
			Week:    week,
			Message: fmt.Sprintf("projected intake of %.0f kcal is below the %d kcal safety floor; reduce the deficit", calories, MinDailyCalories),
		}
	}

	total := int(math.Round(calories))
	protein := int(math.Round(LeanBodyMass(weightKg, bodyFatPct) * s.proteinPerKg))
	rest := float64(total) - float64(protein)*kcalPerGramProtein
	if rest < 0 {
		return WeekCalories{}, &CalculationError{
			Week:    week,
			Message: fmt.Sprintf("protein target of %dg exceeds the %d kcal budget", protein, total),
		}
	}
	shares := s.carbShare + s.fatShare
	return WeekCalories{
		Week:     week,
		Calories: total,
		ProteinG: protein,
		CarbsG:   int(math.Round(rest * s.carbShare / shares / kcalPerGramCarb)),
		FatsG:    int(math.Round(rest * s.fatShare / shares / kcalPerGramFat)),
	}, nil
}

// interpolateBodyFat maps the weight progress toward the goal weight onto the
// body-fat range between current and goal.
func (s *simulation) interpolateBodyFat(weightKg float64) float64 {
	span := s.goalKg - s.kg
	if span == 0 {
		return s.p.GoalBodyFatPct
	}
	progress := (weightKg - s.kg) / span
	return s.p.CurrentBodyFatPct + (s.p.GoalBodyFatPct-s.p.CurrentBodyFatPct)*progress
}

// approach moves from toward target by step without overshooting it.
func approach(from, target, step float64) float64 {
	if from < target {
		return math.Min(from+step, target)
	}
	return math.Max(from-step, target)
}
