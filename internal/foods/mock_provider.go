package foods

import (
	"context"
	"fmt"
	"strings"
)

// MockProvider serves a small built-in table so the API works without keys.
type MockProvider struct {
	foods    map[string]Food
	products map[string]Product
}

func NewMockProvider() *MockProvider {
	p := &MockProvider{
		foods:    make(map[string]Food),
		products: make(map[string]Product),
	}
	for _, f := range mockFoods {
		f.Source = SourceMock
		p.foods[normalizeQuery(f.Name)] = f
	}
	for _, pr := range mockProducts {
		pr.Source = SourceMock
		p.products[pr.Code] = pr
	}
	return p
}

func (p *MockProvider) Search(ctx context.Context, query string) (Food, error) {
	_ = ctx

	key := normalizeQuery(query)
	if key == "" {
		return Food{}, ErrInvalidQuery
	}
	if f, ok := p.foods[key]; ok {
		return f, nil
	}
	// "chicken breast grilled" still finds "chicken breast"
	for name, f := range p.foods {
		if strings.HasPrefix(key, name+" ") {
			return f, nil
		}
	}
	return Food{}, fmt.Errorf("%w: no results for %q", ErrFoodNotFound, strings.TrimSpace(query))
}

func (p *MockProvider) Barcode(ctx context.Context, code string) (Product, error) {
	_ = ctx

	code = strings.TrimSpace(code)
	if !ValidBarcode(code) {
		return Product{}, ErrInvalidBarcode
	}
	if pr, ok := p.products[code]; ok {
		return pr, nil
	}
	return Product{}, fmt.Errorf("%w: no product for barcode %s", ErrFoodNotFound, code)
}

func f64(v float64) *float64 { return &v }

var mockFoods = []Food{
	{Name: "rice", KcalPer100g: 130, ProteinGPer100g: 2.7, CarbsGPer100g: 28.2, FatGPer100g: 0.3},
	{Name: "chicken breast", KcalPer100g: 165, ProteinGPer100g: 31, CarbsGPer100g: 0, FatGPer100g: 3.6},
	{Name: "egg", KcalPer100g: 143, ProteinGPer100g: 12.6, CarbsGPer100g: 0.7, FatGPer100g: 9.5},
	{Name: "oats", KcalPer100g: 389, ProteinGPer100g: 16.9, CarbsGPer100g: 66.3, FatGPer100g: 6.9},
	{Name: "banana", KcalPer100g: 89, ProteinGPer100g: 1.1, CarbsGPer100g: 22.8, FatGPer100g: 0.3},
	{Name: "apple", KcalPer100g: 52, ProteinGPer100g: 0.3, CarbsGPer100g: 13.8, FatGPer100g: 0.2},
	{Name: "milk", KcalPer100g: 42, ProteinGPer100g: 3.4, CarbsGPer100g: 5, FatGPer100g: 1},
	{Name: "salmon", KcalPer100g: 208, ProteinGPer100g: 20, CarbsGPer100g: 0, FatGPer100g: 13},
	{Name: "broccoli", KcalPer100g: 34, ProteinGPer100g: 2.8, CarbsGPer100g: 6.6, FatGPer100g: 0.4},
	{Name: "olive oil", KcalPer100g: 884, ProteinGPer100g: 0, CarbsGPer100g: 0, FatGPer100g: 100},
	{Name: "greek yogurt", KcalPer100g: 59, ProteinGPer100g: 10.2, CarbsGPer100g: 3.6, FatGPer100g: 0.4},
	{Name: "bread", KcalPer100g: 265, ProteinGPer100g: 9, CarbsGPer100g: 49, FatGPer100g: 3.2},
}

var mockProducts = []Product{
	{
		Code:       "3017620422003",
		Name:       "Nutella",
		Brands:     "Ferrero",
		Categories: []string{"en:spreads", "en:sweet-spreads", "en:hazelnut-spreads"},
		NutriScore: "e",
		NovaGroup:  4,
		Nutriments: Nutriments{
			EnergyKcal: f64(539), Fat: f64(30.9), SaturatedFat: f64(10.6), Carbs: f64(57.5),
			Sugars: f64(56.3), Proteins: f64(6.3), Salt: f64(0.107),
		},
	},
	{
		Code:       "5449000000996",
		Name:       "Coca-Cola",
		Brands:     "Coca-Cola",
		Categories: []string{"en:beverages", "en:carbonated-drinks", "en:sodas"},
		NutriScore: "e",
		NovaGroup:  4,
		Nutriments: Nutriments{
			EnergyKcal: f64(42), Fat: f64(0), Carbs: f64(10.6), Sugars: f64(10.6), Proteins: f64(0), Salt: f64(0),
		},
	},
	{
		Code:       "8076809513753",
		Name:       "Spaghetti n.5",
		Brands:     "Barilla",
		Categories: []string{"en:plant-based-foods", "en:pastas", "en:spaghetti"},
		NutriScore: "a",
		NovaGroup:  1,
		Nutriments: Nutriments{
			EnergyKcal: f64(359), Fat: f64(2), SaturatedFat: f64(0.5), Carbs: f64(71.2),
			Sugars: f64(3.5), Fiber: f64(3), Proteins: f64(13), Salt: f64(0.013),
		},
	},
}
