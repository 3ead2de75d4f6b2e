package foods

import (
	"context"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrFoodNotFound   = errors.New("food not found")
	ErrIncompleteData = errors.New("incomplete food data")
	ErrUpstream       = errors.New("food provider unavailable")
	ErrInvalidQuery   = errors.New("query must not be empty")
	ErrInvalidBarcode = errors.New("barcode must be 8 to 14 digits")
)

// Provider looks up nutrition data. Values are per 100 g.
type Provider interface {
	Search(ctx context.Context, query string) (Food, error)
	Barcode(ctx context.Context, code string) (Product, error)
}

type Food struct {
	Name            string  `json:"name"`
	KcalPer100g     float64 `json:"calories"`
	ProteinGPer100g float64 `json:"protein_g"`
	CarbsGPer100g   float64 `json:"carbohydrates_total_g"`
	FatGPer100g     float64 `json:"fat_total_g"`
	Source          string  `json:"source"`
}

// Product is a packaged product found by barcode. Optional nutriments are
// nil when the upstream does not report them.
type Product struct {
	Code           string     `json:"code"`
	Name           string     `json:"name"`
	Brands         string     `json:"brands,omitempty"`
	Categories     []string   `json:"categories"`
	NutriScore     string     `json:"nutriscore_grade,omitempty"`
	NovaGroup      int        `json:"nova_group,omitempty"`
	AdditivesCount int        `json:"additives_n,omitempty"`
	Nutriments     Nutriments `json:"nutriments"`
	Source         string     `json:"source"`
}

type Nutriments struct {
	EnergyKcal   *float64 `json:"energy_kcal_100g,omitempty"`
	Fat          *float64 `json:"fat_100g,omitempty"`
	SaturatedFat *float64 `json:"saturated_fat_100g,omitempty"`
	Carbs        *float64 `json:"carbohydrates_100g,omitempty"`
	Sugars       *float64 `json:"sugars_100g,omitempty"`
	Fiber        *float64 `json:"fiber_100g,omitempty"`
	Proteins     *float64 `json:"proteins_100g,omitempty"`
	Salt         *float64 `json:"salt_100g,omitempty"`
}

// Lookup sources, also used as metric labels.
const (
	SourceCustom   = "custom"
	SourceCache    = "cache"
	SourceUpstream = "upstream"
	SourceMock     = "mock"
)

// UpstreamError keeps the upstream HTTP status. It matches ErrUpstream or
// ErrFoodNotFound with errors.Is.
type UpstreamError struct {
	Status  int
	Message string
}

func (e *UpstreamError) Error() string {
	return fmt.Sprintf("food provider: status %d: %s", e.Status, e.Message)
}

func (e *UpstreamError) Is(target error) bool {
	if e.Status == 404 {
		return target == ErrFoodNotFound
	}
	return target == ErrUpstream
}

// upstreamError maps an upstream status the same way for search and barcode.
func upstreamError(status int, query string) error {
	switch {
	case status == 401:
		return &UpstreamError{Status: status, Message: "api key rejected"}
	case status == 403:
		return &UpstreamError{Status: status, Message: "access denied"}
	case status == 404:
		return &UpstreamError{Status: status, Message: fmt.Sprintf("no data found for %q", query)}
	case status == 429:
		return &UpstreamError{Status: status, Message: "too many requests"}
	case status >= 500:
		return &UpstreamError{Status: status, Message: "server error"}
	default:
		return &UpstreamError{Status: status, Message: "unexpected response"}
	}
}

func normalizeQuery(q string) string {
	return strings.Join(strings.Fields(strings.ToLower(q)), " ")
}

// ValidBarcode accepts EAN-8, UPC-A, EAN-13 and GTIN-14 digit strings.
func ValidBarcode(code string) bool {
	if len(code) < 8 || len(code) > 14 {
		return false
	}
	for _, c := range code {
		if c < '0' || c > '9' {
			return false
		}
	}
	return true
}
