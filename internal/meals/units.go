package meals

import (
	"errors"
	"fmt"
	"strings"
)

var ErrUnknownUnit = errors.New("unknown unit")

// gramsPerUnit converts a quantity to grams. Liquids are counted as water
// density, so 1 ml is 1 g.
var gramsPerUnit = map[string]float64{
	"g":  1,
	"kg": 1000,
	"mg": 0.001,
	"oz": 28.349523125,
	"lb": 453.59237,
	"ml": 1,
	"l":  1000,
}

// maxItemGrams rejects obviously mistyped quantities.
const maxItemGrams = 5000

// ToGrams converts quantity in unit to grams. An empty unit means grams.
func ToGrams(quantity float64, unit string) (float64, error) {
	u := strings.ToLower(strings.TrimSpace(unit))
	if u == "" {
		u = "g"
	}
	factor, ok := gramsPerUnit[u]
	if !ok {
		return 0, fmt.Errorf("%w %q (use g, kg, mg, oz, lb, ml or l)", ErrUnknownUnit, unit)
	}
	return quantity * factor, nil
}
