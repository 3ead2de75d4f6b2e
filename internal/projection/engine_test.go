package projection

import (
	"errors"
	"math"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/units"
)

func cutProfile() Profile {
	return Profile{
		WeightUnit:           units.Metric,
		CurrentWeight:        80,
		Height:               175,
		CurrentBodyFatPct:    20,
		GoalBodyFatPct:       15,
		Age:                  30,
		Gender:               Male,
		ActivityMultiplier:   1.55,
		CalorieAdjustmentPct: 20,
		ProteinMultiplier:    2.0,
		BMRFormula:           KatchMcArdle,
	}
}

func bulkProfile() Profile {
	p := cutProfile()
	p.CurrentBodyFatPct = 15
	p.GoalBodyFatPct = 20
	p.CalorieAdjustmentPct = -10
	return p
}

func TestBMR(t *testing.T) {
	assert.InDelta(t, 64.0, LeanBodyMass(80, 20), 1e-9)
	assert.InDelta(t, 1752.4, BMR(KatchMcArdle, 80, 175, 20, 30, Male), 1e-9)
	assert.InDelta(t, 1748.75, BMR(MifflinStJeor, 80, 175, 20, 30, Male), 1e-9)
	assert.InDelta(t, 1582.75, BMR(MifflinStJeor, 80, 175, 20, 30, Female), 1e-9)
	assert.InDelta(t, 2716.22, TDEE(1752.4, 1.55), 1e-9)
}

func TestCalculateCutExample(t *testing.T) {
	plan, err := Calculate(cutProfile())
	require.NoError(t, err)

	assert.Equal(t, PlanDeficit, plan.PlanType)
	assert.False(t, plan.IsRecomp)
	assert.Equal(t, 2716, plan.MaintenanceCalories)
	assert.Equal(t, 2173, plan.DailyCalories)
	assert.Equal(t, 128, plan.ProteinGoal)
	assert.InDelta(t, 75.29, plan.GoalWeight, 0.001)
	assert.Empty(t, plan.Warnings)
}

func TestCalculateSeriesShape(t *testing.T) {
	for name, p := range map[string]Profile{
		"cut":    cutProfile(),
		"bulk":   bulkProfile(),
		"recomp": func() Profile { p := cutProfile(); p.CalorieAdjustmentPct = -10; return p }(),
	} {
		t.Run(name, func(t *testing.T) {
			plan, err := Calculate(p)
			require.NoError(t, err)
			require.Len(t, plan.WeeklyProgress, TotalWeeks)
			require.Len(t, plan.WeeklyCaloriePlan, TotalWeeks)
			assert.Equal(t, TotalWeeks, plan.TotalWeeks)
			for i := 0; i < TotalWeeks; i++ {
				assert.Equal(t, i+1, plan.WeeklyProgress[i].Week)
				assert.Equal(t, i+1, plan.WeeklyCaloriePlan[i].Week)
			}
		})
	}
}

func TestCalculateCutIsNonIncreasingAndStopsAtGoal(t *testing.T) {
	plan, err := Calculate(cutProfile())
	require.NoError(t, err)

	prev := 80.0
	for _, w := range plan.WeeklyProgress {
		assert.LessOrEqual(t, w.Weight, prev, "week %d", w.Week)
		assert.GreaterOrEqual(t, w.Weight, 75.2, "week %d overshoots goal", w.Week)
		prev = w.Weight
	}
	last := plan.WeeklyProgress[TotalWeeks-1]
	assert.InDelta(t, 75.3, last.Weight, 0.05)
	assert.InDelta(t, 15.0, last.BodyFatPct, 0.05)
}

func TestCalculateBulkIsNonDecreasing(t *testing.T) {
	plan, err := Calculate(bulkProfile())
	require.NoError(t, err)

	assert.Equal(t, PlanSurplus, plan.PlanType)
	assert.InDelta(t, 83.2, plan.GoalWeight, 0.001)

	prev := 80.0
	for _, w := range plan.WeeklyProgress {
		assert.GreaterOrEqual(t, w.Weight, prev, "week %d", w.Week)
		assert.LessOrEqual(t, w.Weight, 83.2)
		prev = w.Weight
	}
	// protein is scaled down for a pure surplus
	assert.Equal(t, int(math.Round(68*2.0*0.95)), plan.ProteinGoal)
}

func TestCalculateDetectsRecomp(t *testing.T) {
	p := cutProfile()
	p.CalorieAdjustmentPct = -10

	plan, err := Calculate(p)
	require.NoError(t, err)
	assert.True(t, plan.IsRecomp)
	assert.Equal(t, PlanRecomp, plan.PlanType)
	assert.InDelta(t, 64*1.01/0.85, plan.GoalWeight, 0.01)

	// body fat trends down while the surplus adds lean mass
	first, last := plan.WeeklyProgress[0], plan.WeeklyProgress[TotalWeeks-1]
	assert.Less(t, last.BodyFatPct, first.BodyFatPct)
	assert.GreaterOrEqual(t, last.BodyFatPct, 14.9)

	p = cutProfile()
	p.GoalBodyFatPct = 25
	plan, err = Calculate(p)
	require.NoError(t, err)
	assert.Equal(t, PlanRecomp, plan.PlanType)
}

func TestCalculateMacrosMatchCalories(t *testing.T) {
	mifflin := cutProfile()
	mifflin.BMRFormula = MifflinStJeor
	female := bulkProfile()
	female.Gender = Female
	female.CurrentBodyFatPct = 25
	female.GoalBodyFatPct = 28
	female.CurrentWeight = 62
	female.Height = 165

	for _, p := range []Profile{cutProfile(), bulkProfile(), mifflin, female} {
		plan, err := Calculate(p)
		require.NoError(t, err)
		for _, w := range plan.WeeklyCaloriePlan {
			kcal := w.ProteinG*4 + w.CarbsG*4 + w.FatsG*9
			assert.InDelta(t, w.Calories, kcal, 10, "week %d", w.Week)
			assert.GreaterOrEqual(t, w.Calories, MinDailyCalories)
		}
	}
}

func TestCalculateMetabolicAdaptation(t *testing.T) {
	p := cutProfile()
	p.GoalBodyFatPct = 19.5

	plan, err := Calculate(p)
	require.NoError(t, err)

	// weight settles early, so the later drop comes from adaptation only
	w8, w16 := plan.WeeklyCaloriePlan[7], plan.WeeklyCaloriePlan[15]
	assert.Less(t, w16.Calories, w8.Calories)
}

func TestCalculateMifflinWarns(t *testing.T) {
	p := cutProfile()
	p.BMRFormula = MifflinStJeor

	plan, err := Calculate(p)
	require.NoError(t, err)
	assert.Equal(t, int(math.Round(1748.75*1.55)), plan.MaintenanceCalories)
	assert.Len(t, plan.Warnings, 1)
}

func TestCalculateImperialMatchesMetric(t *testing.T) {
	metric, err := Calculate(cutProfile())
	require.NoError(t, err)

	p := cutProfile()
	p.WeightUnit = units.Imperial
	p.CurrentWeight = units.KgToDisplay(80, false)
	p.Height = 175 * units.InchPerCm

	imperial, err := Calculate(p)
	require.NoError(t, err)
	assert.Equal(t, metric.MaintenanceCalories, imperial.MaintenanceCalories)
	assert.Equal(t, metric.DailyCalories, imperial.DailyCalories)
	assert.Equal(t, units.Imperial, imperial.WeightUnit)
	assert.InDelta(t, units.KgToDisplay(metric.GoalWeight, false), imperial.GoalWeight, 0.02)
}

func TestCalculateUnitSpellingDoesNotChangeResult(t *testing.T) {
	p := cutProfile()
	p.WeightUnit = units.Imperial
	p.CurrentWeight = 176.37
	p.Height = 68.9

	lower, err := Calculate(p)
	require.NoError(t, err)

	for _, spelling := range []units.System{"Imperial", "IMPERIAL", " imperial "} {
		p.WeightUnit = spelling
		plan, err := Calculate(p)
		require.NoError(t, err, spelling)
		assert.Equal(t, units.Imperial, plan.WeightUnit, spelling)
		assert.Equal(t, lower.MaintenanceCalories, plan.MaintenanceCalories, spelling)
		assert.Equal(t, lower.DailyCalories, plan.DailyCalories, spelling)
		assert.Equal(t, lower.GoalWeight, plan.GoalWeight, spelling)
	}
	assert.Equal(t, 2716, lower.MaintenanceCalories)
}

func TestCalculateRecompInDeficitLosesFatAndKeepsLean(t *testing.T) {
	p := cutProfile()
	p.CurrentBodyFatPct = 15
	p.GoalBodyFatPct = 18

	plan, err := Calculate(p)
	require.NoError(t, err)
	require.Equal(t, PlanRecomp, plan.PlanType)

	prevBF := p.CurrentBodyFatPct
	for _, w := range plan.WeeklyProgress {
		assert.LessOrEqual(t, w.BodyFatPct, prevBF, "week %d", w.Week)
		prevBF = w.BodyFatPct
	}

	first, last := plan.WeeklyProgress[0], plan.WeeklyProgress[TotalWeeks-1]
	assert.Less(t, last.Weight, p.CurrentWeight)
	assert.Less(t, last.BodyFatPct, first.BodyFatPct)

	// lean mass ends one percent above the start: 68 kg * 1.01
	lean := last.Weight * (1 - last.BodyFatPct/100)
	assert.InDelta(t, 68.68, lean, 0.1)
}

func TestCalculateBelowSafetyFloor(t *testing.T) {
	p := Profile{
		CurrentWeight:        50,
		Height:               160,
		CurrentBodyFatPct:    25,
		GoalBodyFatPct:       20,
		Age:                  30,
		Gender:               Female,
		ActivityMultiplier:   1.2,
		CalorieAdjustmentPct: 30,
		ProteinMultiplier:    1.6,
	}

	plan, err := Calculate(p)
	require.Error(t, err)
	assert.Empty(t, plan.WeeklyProgress)

	var calcErr *CalculationError
	require.True(t, errors.As(err, &calcErr))
	assert.Equal(t, 1, calcErr.Week)
	assert.Contains(t, calcErr.Error(), "safety floor")
}

func TestCalculateRejectsEqualGoal(t *testing.T) {
	p := cutProfile()
	p.GoalBodyFatPct = p.CurrentBodyFatPct

	_, err := Calculate(p)
	var verr *ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Equal(t, map[string]string{FieldGoalBodyFat: "goal must differ from current"}, verr.Fields)
}

func TestPlanWeek(t *testing.T) {
	plan, err := Calculate(cutProfile())
	require.NoError(t, err)

	w, ok := plan.Week(1)
	require.True(t, ok)
	assert.Equal(t, 1, w.Week)

	_, ok = plan.Week(0)
	assert.False(t, ok)
	_, ok = plan.Week(TotalWeeks + 1)
	assert.False(t, ok)
}
