// Package units converts body measurements between metric and imperial.
//
// All calculations run in kilograms and centimetres. One canonical constant
// is kept per dimension and the reverse direction always uses its exact
// reciprocal, so kg -> lb -> kg round trips only accumulate float error.
package units

import (
	"fmt"
	"math"
	"strings"
)

const (
	KgPerLb   = 0.453592
	CmPerInch = 2.54

	LbPerKg   = 1 / KgPerLb
	InchPerCm = 1 / CmPerInch
)

// System is the measurement system a value is expressed in.
type System string

const (
	Metric   System = "metric"
	Imperial System = "imperial"
)

// ParseSystem accepts "metric"/"imperial" (case-insensitive). Empty means metric.
func ParseSystem(raw string) (System, error) {
	switch System(strings.ToLower(strings.TrimSpace(raw))) {
	case "", Metric:
		return Metric, nil
	case Imperial:
		return Imperial, nil
	default:
		return "", fmt.Errorf("unknown unit system %q", raw)
	}
}

// IsMetric is false only for imperial, in any letter case.
func (s System) IsMetric() bool {
	return !strings.EqualFold(strings.TrimSpace(string(s)), string(Imperial))
}

// WeightLabel returns "kg" or "lb".
func (s System) WeightLabel() string {
	if s.IsMetric() {
		return "kg"
	}
	return "lb"
}

// HeightLabel returns "cm" or "in".
func (s System) HeightLabel() string {
	if s.IsMetric() {
		return "cm"
	}
	return "in"
}

// ToMetric converts weight and height to kg and cm. Identity when isMetric.
func ToMetric(weight, height float64, isMetric bool) (kg, cm float64) {
	if isMetric {
		return weight, height
	}
	return weight * KgPerLb, height * CmPerInch
}

// FromMetric converts kg and cm back to the display system.
func FromMetric(kg, cm float64, isMetric bool) (weight, height float64) {
	if isMetric {
		return kg, cm
	}
	return kg * LbPerKg, cm * InchPerCm
}

// DisplayToKg converts a single weight value to kilograms.
func DisplayToKg(weight float64, isMetric bool) float64 {
	kg, _ := ToMetric(weight, 0, isMetric)
	return kg
}

// KgToDisplay converts a single kilogram value to the display system.
func KgToDisplay(kg float64, isMetric bool) float64 {
	w, _ := FromMetric(kg, 0, isMetric)
	return w
}

// Round rounds v half away from zero to the given number of decimal places.
func Round(v float64, places int) float64 {
	p := math.Pow(10, float64(places))
	return math.Round(v*p) / p
}
