package main

import (
	"bytes"
	"sort"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRun_PrintsWeeklyTable(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-weight", "80", "-height", "175", "-bodyfat", "20", "-goal-bodyfat", "15",
		"-age", "30", "-activity", "1.55", "-adjustment", "20", "-protein", "2.0",
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	out := stdout.String()
	assert.Contains(t, out, "Plan type:    Deficit")
	assert.Contains(t, out, "weight (kg)")

	lines := strings.Split(strings.TrimSpace(out), "\n")
	assert.Equal(t, "16", strings.Fields(lines[len(lines)-1])[0])
}

func TestRun_ValidationFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{"-weight", "-5", "-gender", "other"}, &stdout, &stderr)

	assert.Equal(t, exitValidation, code)
	assert.Contains(t, stderr.String(), "gender")
	assert.Empty(t, stdout.String())

	// fields are listed alphabetically
	var fields []string
	for _, line := range strings.Split(strings.TrimSpace(stderr.String()), "\n")[1:] {
		fields = append(fields, strings.TrimSpace(strings.SplitN(line, ":", 2)[0]))
	}
	assert.True(t, sort.StringsAreSorted(fields), fields)
	assert.Contains(t, fields, "weight")
}

func TestRun_DefaultsPassValidation(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-weight", "80", "-height", "175", "-bodyfat", "20", "-goal-bodyfat", "15", "-age", "30",
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Plan type:    Deficit")
	assert.Contains(t, stdout.String(), "Protein goal: 128 g")
}

func TestRun_MixedCaseImperial(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-unit", "Imperial", "-weight", "176.37", "-height", "68.9", "-bodyfat", "20", "-goal-bodyfat", "15",
		"-age", "30", "-activity", "1.55",
	}, &stdout, &stderr)

	require.Equal(t, exitOK, code, stderr.String())
	assert.Contains(t, stdout.String(), "Maintenance:  2716 kcal")
	assert.Contains(t, stdout.String(), "Goal weight:  166.0 lb")
}

func TestRun_CalculationFailure(t *testing.T) {
	var stdout, stderr bytes.Buffer

	code := run([]string{
		"-weight", "50", "-height", "160", "-bodyfat", "25", "-goal-bodyfat", "20",
		"-age", "30", "-gender", "female", "-activity", "1.2", "-adjustment", "30", "-protein", "1.6",
	}, &stdout, &stderr)

	assert.Equal(t, exitCalculation, code)
	assert.Contains(t, stderr.String(), "cannot build plan")
}

func TestRun_BadFlag(t *testing.T) {
	var stdout, stderr bytes.Buffer

	assert.Equal(t, exitUsage, run([]string{"-nope"}, &stdout, &stderr))
}
