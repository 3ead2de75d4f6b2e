package foods

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestFlags(t *testing.T) {
	flags := Flags(Nutriments{Fat: f64(17.6), Sugars: f64(22.5), Salt: f64(1.6), Fiber: f64(3), Proteins: f64(5.9)})
	assert.True(t, flags.HighFat)
	assert.False(t, flags.HighSugar, "22.5 is not above the limit")
	assert.True(t, flags.HighSalt)
	assert.False(t, flags.LowFiber)
	assert.True(t, flags.LowProtein)

	// missing fiber and protein count as low
	empty := Flags(Nutriments{})
	assert.Equal(t, NutrientFlags{LowFiber: true, LowProtein: true}, empty)
}

func TestSuggestAlternative(t *testing.T) {
	tests := []struct {
		name       string
		categories []string
		flags      NutrientFlags
		want       string
	}{
		{"default", nil, NutrientFlags{}, "Fresh Fruits and Vegetables"},
		{"cereal", []string{"en:breakfast-cereals"}, NutrientFlags{}, "Whole Grain Oatmeal with Berries"},
		{"snack before sweet", []string{"en:snacks", "en:sweet-snacks"}, NutrientFlags{}, "Greek Yogurt with Nuts and Berries"},
		{"drink", []string{"en:carbonated-drinks"}, NutrientFlags{}, "Infused Water or Herbal Tea"},
		{"pasta", []string{"en:pastas"}, NutrientFlags{}, "Whole Grain Pasta with Vegetables"},
		{"fat and sugar override", []string{"en:pastas"}, NutrientFlags{HighFat: true, HighSugar: true}, "Fresh Fruit Salad with Yogurt"},
		{"fat", nil, NutrientFlags{HighFat: true, LowFiber: true}, "Lean Protein with Steamed Vegetables"},
		{"sugar", nil, NutrientFlags{HighSugar: true}, "Berries with Unsweetened Greek Yogurt"},
		{"salt", nil, NutrientFlags{HighSalt: true, LowProtein: true}, "Herb-Seasoned Fresh Foods"},
		{"fiber", nil, NutrientFlags{LowFiber: true, LowProtein: true}, "Whole Grain and Legume Mix"},
		{"protein", nil, NutrientFlags{LowProtein: true}, "Quinoa Bowl with Beans and Vegetables"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			alt := SuggestAlternative(tt.categories, tt.flags)
			assert.Equal(t, tt.want, alt.Name)
			assert.NotEmpty(t, alt.Benefits)
			assert.Len(t, alt.Nutrition, 5)
		})
	}
}

func TestScore(t *testing.T) {
	assert.Equal(t, HealthScore{20, "red", "Unhealthy"}, Score(Product{NutriScore: "e"}))
	assert.Equal(t, HealthScore{75, "green", "Healthy"}, Score(Product{NutriScore: "b"}))
	assert.Equal(t, HealthScore{50, "yellow", "Moderate"}, Score(Product{NutriScore: "x"}))

	junk := Product{
		AdditivesCount: 6,
		NovaGroup:      4,
		Nutriments: Nutriments{
			Sugars: f64(30), Salt: f64(2), Fat: f64(20), SaturatedFat: f64(6),
			Proteins: f64(2), EnergyKcal: f64(500),
		},
	}
	assert.Equal(t, HealthScore{0, "red", "Unhealthy"}, Score(junk))

	whole := Product{
		NovaGroup: 1,
		Nutriments: Nutriments{
			Sugars: f64(1), Salt: f64(0.1), Fat: f64(1), Fiber: f64(7), Proteins: f64(13),
		},
	}
	assert.Equal(t, HealthScore{95, "green", "Very Healthy"}, Score(whole))

	// 50 - 10 (sugar) - 7 (salt) = 33
	mid := Product{Nutriments: Nutriments{Sugars: f64(6), Salt: f64(0.5)}}
	assert.Equal(t, HealthScore{33, "red", "Unhealthy"}, Score(mid))
}
