package projection

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/units"
)

func validationFields(t *testing.T, err error) map[string]string {
	t.Helper()
	var verr *ValidationError
	require.True(t, errors.As(err, &verr), "expected *ValidationError, got %v", err)
	return verr.Fields
}

func TestValidateAcceptsWorkedExample(t *testing.T) {
	assert.NoError(t, Validate(cutProfile()))
	assert.NoError(t, Validate(bulkProfile()))
}

func TestValidateCollectsAllFields(t *testing.T) {
	err := Validate(Profile{
		WeightUnit: "stone",
		Gender:     "other",
		BMRFormula: "harris-benedict",
	})
	fields := validationFields(t, err)

	for _, key := range []string{
		FieldWeightUnit,
		FieldGender,
		FieldCurrentBodyFat,
		FieldGoalBodyFat,
		FieldAge,
		FieldActivityMultiplier,
		FieldProteinMultiplier,
		FieldCalorieAdjustment,
		FieldBMRFormula,
	} {
		assert.Contains(t, fields, key)
	}
	// size cannot be checked without a valid unit
	assert.NotContains(t, fields, FieldWeight)
	assert.NotContains(t, fields, FieldHeight)
	assert.Contains(t, err.Error(), "invalid profile: activity_multiplier")
}

func TestValidateBodySize(t *testing.T) {
	p := cutProfile()
	p.CurrentWeight = 0
	p.Height = 400
	fields := validationFields(t, Validate(p))
	assert.Equal(t, "must be between 30.0 and 300.0 kg", fields[FieldWeight])
	assert.Equal(t, "must be between 100.0 and 250.0 cm", fields[FieldHeight])
	assert.Len(t, fields, 2)

	p = cutProfile()
	p.WeightUnit = units.Imperial
	p.CurrentWeight = 50 // lb
	p.Height = 70        // in
	fields = validationFields(t, Validate(p))
	assert.Equal(t, "must be between 66.1 and 661.4 lb", fields[FieldWeight])
	assert.NotContains(t, fields, FieldHeight)
}

func TestValidateBodyFatBoundsDependOnGender(t *testing.T) {
	p := cutProfile()
	p.CurrentBodyFatPct = 10
	p.GoalBodyFatPct = 8
	assert.NoError(t, Validate(p))

	p.Gender = Female
	fields := validationFields(t, Validate(p))
	assert.Equal(t, "must be between 12 and 50", fields[FieldCurrentBodyFat])
	assert.Equal(t, "must be between 12 and 50", fields[FieldGoalBodyFat])

	p = cutProfile()
	p.CurrentBodyFatPct = 55
	fields = validationFields(t, Validate(p))
	assert.Contains(t, fields, FieldCurrentBodyFat)
}

func TestValidateCalorieAdjustment(t *testing.T) {
	cases := []struct {
		adj float64
		ok  bool
	}{
		{0, false},
		{4, false},
		{5, true},
		{30, true},
		{31, false},
		{-5, true},
		{-20, true},
		{-21, false},
		{-3, false},
	}
	for _, tc := range cases {
		p := cutProfile()
		p.CalorieAdjustmentPct = tc.adj
		err := Validate(p)
		if tc.ok {
			assert.NoError(t, err, "adj %v", tc.adj)
			continue
		}
		assert.Contains(t, validationFields(t, err), FieldCalorieAdjustment, "adj %v", tc.adj)
	}
}

func TestValidateConflictingDirectionIsNotAnError(t *testing.T) {
	p := cutProfile()
	p.GoalBodyFatPct = 25
	require.NoError(t, Validate(p))
	assert.True(t, p.IsRecomp())

	p = bulkProfile()
	p.GoalBodyFatPct = 10
	require.NoError(t, Validate(p))
	assert.True(t, p.IsRecomp())
}

func TestValidateEnumeratedMultipliers(t *testing.T) {
	p := cutProfile()
	p.ActivityMultiplier = 1.5
	p.ProteinMultiplier = 3
	fields := validationFields(t, Validate(p))
	assert.Len(t, fields, 2)

	for _, l := range ActivityLevels {
		p := cutProfile()
		p.ActivityMultiplier = l.Multiplier
		assert.NoError(t, Validate(p), l.Label)
	}
	for _, o := range ProteinOptions {
		p := cutProfile()
		p.ProteinMultiplier = o.Multiplier
		assert.NoError(t, Validate(p), o.Label)
	}
}

func TestWithDefaults(t *testing.T) {
	p := Profile{}.WithDefaults()
	assert.Equal(t, units.Metric, p.WeightUnit)
	assert.Equal(t, KatchMcArdle, p.BMRFormula)
}

func TestWithDefaultsNormalisesUnit(t *testing.T) {
	p := Profile{WeightUnit: "Imperial"}.WithDefaults()
	assert.Equal(t, units.Imperial, p.WeightUnit)

	// unknown spellings are left for Validate to report
	p = Profile{WeightUnit: "stone"}.WithDefaults()
	assert.Equal(t, units.System("stone"), p.WeightUnit)
}
