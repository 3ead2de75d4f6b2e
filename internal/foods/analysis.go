package foods

import "strings"

// Thresholds per 100 g.
const (
	highFatG      = 17.5
	highSugarG    = 22.5
	highSaltG     = 1.5
	lowFiberG     = 3.0
	lowProteinG   = 6.0
	mediumSugarG  = 5.0
	mediumSaltG   = 0.3
	mediumFatG    = 3.0
	highSatFatG   = 5.0
	mediumSatFatG = 1.5
	highFiberG    = 6.0
	highProteinG  = 12.0
	denseKcal     = 400.0
)

// NutrientFlags marks the nutrients that make a product a poor choice.
// Missing fiber or protein counts as low.
type NutrientFlags struct {
	HighFat    bool `json:"high_fat"`
	HighSugar  bool `json:"high_sugar"`
	HighSalt   bool `json:"high_salt"`
	LowFiber   bool `json:"low_fiber"`
	LowProtein bool `json:"low_protein"`
}

func Flags(n Nutriments) NutrientFlags {
	return NutrientFlags{
		HighFat:    above(n.Fat, highFatG),
		HighSugar:  above(n.Sugars, highSugarG),
		HighSalt:   above(n.Salt, highSaltG),
		LowFiber:   n.Fiber == nil || *n.Fiber <= 0 || *n.Fiber < lowFiberG,
		LowProtein: n.Proteins == nil || *n.Proteins <= 0 || *n.Proteins < lowProteinG,
	}
}

func above(v *float64, limit float64) bool {
	return v != nil && *v > limit
}

type Alternative struct {
	Name      string            `json:"name"`
	Nutrition map[string]string `json:"nutrition"`
	Benefits  string            `json:"benefits"`
}

type categoryAlternative struct {
	keywords    []string
	alternative Alternative
}

func nutrition(kcal, fat, carbs, protein, fiber string) map[string]string {
	return map[string]string{
		"calories": kcal,
		"fat":      fat,
		"carbs":    carbs,
		"protein":  protein,
		"fiber":    fiber,
	}
}

var defaultAlternative = Alternative{
	Name:      "Fresh Fruits and Vegetables",
	Nutrition: nutrition("Low", "Low", "Moderate", "Varies", "High"),
	Benefits:  "Rich in vitamins, minerals, and fiber with low calories",
}

// первое совпадение побеждает
var categoryAlternatives = []categoryAlternative{
	{[]string{"breakfast-cereal"}, Alternative{"Whole Grain Oatmeal with Berries", nutrition("150", "3g", "27g", "5g", "4g"), "Higher in fiber, lower in sugar, provides sustained energy"}},
	{[]string{"pizza"}, Alternative{"Cauliflower Crust Veggie Pizza", nutrition("180", "7g", "22g", "10g", "5g"), "Lower in calories and carbs, higher in fiber and nutrients"}},
	{[]string{"bread"}, Alternative{"Whole Grain Bread", nutrition("80", "1g", "15g", "4g", "3g"), "Higher in fiber and protein, more complex carbohydrates"}},
	{[]string{"snack"}, Alternative{"Greek Yogurt with Nuts and Berries", nutrition("150", "5g", "12g", "15g", "3g"), "Higher in protein, contains healthy fats and probiotics"}},
	{[]string{"beverage", "drink"}, Alternative{"Infused Water or Herbal Tea", nutrition("0", "0g", "0g", "0g", "0g"), "Zero calories, no sugar, hydrating and refreshing"}},
	{[]string{"dessert", "sweet"}, Alternative{"Fresh Fruit with Dark Chocolate", nutrition("120", "5g", "20g", "2g", "4g"), "Natural sugars, antioxidants, and fiber"}},
	{[]string{"meat"}, Alternative{"Lean Grilled Chicken or Fish", nutrition("150", "3g", "0g", "30g", "0g"), "High in protein, low in saturated fat, no added preservatives"}},
	{[]string{"pasta", "noodle"}, Alternative{"Whole Grain Pasta with Vegetables", nutrition("200", "2g", "40g", "8g", "6g"), "Higher in fiber and protein, more complex carbohydrates"}},
	{[]string{"sauce", "condiment"}, Alternative{"Homemade Herb and Yogurt Sauce", nutrition("50", "2g", "3g", "4g", "0g"), "Lower in sodium and sugar, no preservatives"}},
	{[]string{"fast-food", "restaurant"}, Alternative{"Homemade Bowl with Grains, Protein and Vegetables", nutrition("400", "10g", "50g", "25g", "8g"), "Balanced nutrition, portion control, no added preservatives"}},
}

// SuggestAlternative picks a healthier option by category, then lets the
// nutrient flags override it in order of severity.
func SuggestAlternative(categories []string, flags NutrientFlags) Alternative {
	alt := defaultAlternative
	for _, ca := range categoryAlternatives {
		if anyContains(categories, ca.keywords) {
			alt = ca.alternative
			break
		}
	}

	switch {
	case flags.HighFat && flags.HighSugar:
		alt = Alternative{"Fresh Fruit Salad with Yogurt", nutrition("120", "0g", "25g", "5g", "3g"), "Low in fat, contains natural sugars, high in vitamins"}
	case flags.HighFat:
		alt = Alternative{"Lean Protein with Steamed Vegetables", nutrition("250", "5g", "15g", "35g", "5g"), "Low in fat, high in protein, nutrient-dense"}
	case flags.HighSugar:
		alt = Alternative{"Berries with Unsweetened Greek Yogurt", nutrition("130", "0g", "15g", "15g", "4g"), "Low in added sugar, high in protein and antioxidants"}
	case flags.HighSalt:
		alt = Alternative{"Herb-Seasoned Fresh Foods", nutrition("Varies", "Low", "Moderate", "Moderate", "High"), "Low in sodium, rich in natural flavors and nutrients"}
	case flags.LowFiber:
		alt = Alternative{"Whole Grain and Legume Mix", nutrition("200", "3g", "35g", "10g", "8g"), "High in fiber, complex carbohydrates, and plant protein"}
	case flags.LowProtein:
		alt = Alternative{"Quinoa Bowl with Beans and Vegetables", nutrition("350", "8g", "45g", "15g", "10g"), "Complete protein source, high in fiber and nutrients"}
	}
	return alt
}

func anyContains(categories, keywords []string) bool {
	for _, c := range categories {
		c = strings.ToLower(c)
		for _, k := range keywords {
			if strings.Contains(c, k) {
				return true
			}
		}
	}
	return false
}

type HealthScore struct {
	Score int    `json:"score"`
	Color string `json:"color"`
	Label string `json:"label"`
}

var nutriScoreGrades = map[string]HealthScore{
	"a": {90, "green", "Very Healthy"},
	"b": {75, "green", "Healthy"},
	"c": {60, "yellow", "Moderate"},
	"d": {40, "yellow", "Less Healthy"},
	"e": {20, "red", "Unhealthy"},
}

// Score uses the Nutri-Score grade when present, otherwise a 0..100 estimate
// from nutriments, additives and NOVA group.
func Score(p Product) HealthScore {
	if p.NutriScore != "" {
		if hs, ok := nutriScoreGrades[p.NutriScore]; ok {
			return hs
		}
		return HealthScore{50, "yellow", "Moderate"}
	}

	score := 50
	n := p.Nutriments

	switch {
	case above(n.Sugars, highSugarG):
		score -= 20
	case above(n.Sugars, mediumSugarG):
		score -= 10
	}
	switch {
	case above(n.Salt, highSaltG):
		score -= 15
	case above(n.Salt, mediumSaltG):
		score -= 7
	}
	switch {
	case above(n.Fat, highFatG):
		score -= 20
	case above(n.Fat, mediumFatG):
		score -= 10
	}
	switch {
	case above(n.SaturatedFat, highSatFatG):
		score -= 15
	case above(n.SaturatedFat, mediumSatFatG):
		score -= 7
	}
	switch {
	case above(n.Fiber, highFiberG):
		score += 15
	case above(n.Fiber, lowFiberG):
		score += 7
	}
	switch {
	case above(n.Proteins, highProteinG):
		score += 15
	case above(n.Proteins, lowProteinG):
		score += 7
	}
	if above(n.EnergyKcal, denseKcal) {
		score -= 10
	}

	switch {
	case p.AdditivesCount > 5:
		score -= 15
	case p.AdditivesCount > 0:
		score -= 5
	}

	switch p.NovaGroup {
	case 4:
		score -= 20
	case 3:
		score -= 10
	case 1:
		score += 15
	}

	if score < 0 {
		score = 0
	}
	if score > 100 {
		score = 100
	}

	switch {
	case score >= 85:
		return HealthScore{score, "green", "Very Healthy"}
	case score >= 70:
		return HealthScore{score, "green", "Healthy"}
	case score >= 55:
		return HealthScore{score, "yellow", "Moderate"}
	case score >= 40:
		return HealthScore{score, "yellow", "Less Healthy"}
	default:
		return HealthScore{score, "red", "Unhealthy"}
	}
}
