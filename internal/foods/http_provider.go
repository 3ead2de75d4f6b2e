package foods

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
	"time"

	log "github.com/sirupsen/logrus"
	"golang.org/x/time/rate"

	"github.com/suvamneog/foodanalyserr/internal/config"
)

const maxResponseBytes = 1 << 20

// HTTPProvider queries a CalorieNinjas style nutrition API for search and
// OpenFoodFacts for barcodes. All outbound calls share one limiter.
type HTTPProvider struct {
	searchURL        string
	apiKey           string
	openFoodFactsURL string
	httpClient       *http.Client
	limiter          *rate.Limiter
}

func NewHTTPProvider(cfg config.FoodsConfig) *HTTPProvider {
	timeoutSeconds := cfg.TimeoutSeconds
	if timeoutSeconds <= 0 {
		timeoutSeconds = 10
	}
	rps := cfg.RPS
	if rps <= 0 {
		rps = 5
	}
	burst := int(rps)
	if burst < 1 {
		burst = 1
	}

	return &HTTPProvider{
		searchURL:        strings.TrimRight(cfg.SearchURL, "/"),
		apiKey:           cfg.APIKey,
		openFoodFactsURL: strings.TrimRight(cfg.OpenFoodFactsURL, "/"),
		httpClient: &http.Client{
			Timeout: time.Duration(timeoutSeconds) * time.Second,
		},
		limiter: rate.NewLimiter(rate.Limit(rps), burst),
	}
}

type searchResponse struct {
	Items []searchItem `json:"items"`
}

type searchItem struct {
	Name         *string  `json:"name"`
	Calories     *float64 `json:"calories"`
	ServingSizeG *float64 `json:"serving_size_g"`
	ProteinG     *float64 `json:"protein_g"`
	CarbsG       *float64 `json:"carbohydrates_total_g"`
	FatG         *float64 `json:"fat_total_g"`
}

func (p *HTTPProvider) Search(ctx context.Context, query string) (Food, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return Food{}, ErrInvalidQuery
	}

	endpoint := p.searchURL + "?query=" + url.QueryEscape(query)
	body, err := p.get(ctx, endpoint, query, map[string]string{"X-Api-Key": p.apiKey})
	if err != nil {
		return Food{}, err
	}

	var parsed searchResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Food{}, fmt.Errorf("%w: invalid response format: %v", ErrUpstream, err)
	}
	if len(parsed.Items) == 0 {
		return Food{}, fmt.Errorf("%w: no results for %q", ErrFoodNotFound, query)
	}

	return parsed.Items[0].toFood()
}

// toFood checks the required fields and rescales to 100 g when the upstream
// reports another serving size.
func (it searchItem) toFood() (Food, error) {
	missing := make([]string, 0, 5)
	if it.Name == nil || strings.TrimSpace(*it.Name) == "" {
		missing = append(missing, "name")
	}
	if it.Calories == nil {
		missing = append(missing, "calories")
	}
	if it.ProteinG == nil {
		missing = append(missing, "protein_g")
	}
	if it.CarbsG == nil {
		missing = append(missing, "carbohydrates_total_g")
	}
	if it.FatG == nil {
		missing = append(missing, "fat_total_g")
	}
	if len(missing) > 0 {
		return Food{}, fmt.Errorf("%w: missing %s", ErrIncompleteData, strings.Join(missing, ", "))
	}

	scale := 1.0
	if it.ServingSizeG != nil && *it.ServingSizeG > 0 {
		scale = 100 / *it.ServingSizeG
	}

	return Food{
		Name:            *it.Name,
		KcalPer100g:     *it.Calories * scale,
		ProteinGPer100g: *it.ProteinG * scale,
		CarbsGPer100g:   *it.CarbsG * scale,
		FatGPer100g:     *it.FatG * scale,
		Source:          SourceUpstream,
	}, nil
}

type offResponse struct {
	Status  int        `json:"status"`
	Code    string     `json:"code"`
	Product offProduct `json:"product"`
}

type offProduct struct {
	ProductName    string   `json:"product_name"`
	Brands         string   `json:"brands"`
	CategoriesTags []string `json:"categories_tags"`
	NutriScore     string   `json:"nutriscore_grade"`
	NovaGroup      int      `json:"nova_group"`
	AdditivesN     int      `json:"additives_n"`
	Nutriments     struct {
		EnergyKcal   *float64 `json:"energy-kcal_100g"`
		Fat          *float64 `json:"fat_100g"`
		SaturatedFat *float64 `json:"saturated-fat_100g"`
		Carbs        *float64 `json:"carbohydrates_100g"`
		Sugars       *float64 `json:"sugars_100g"`
		Fiber        *float64 `json:"fiber_100g"`
		Proteins     *float64 `json:"proteins_100g"`
		Salt         *float64 `json:"salt_100g"`
	} `json:"nutriments"`
}

func (p *HTTPProvider) Barcode(ctx context.Context, code string) (Product, error) {
	code = strings.TrimSpace(code)
	if !ValidBarcode(code) {
		return Product{}, ErrInvalidBarcode
	}

	endpoint := fmt.Sprintf("%s/api/v0/product/%s.json", p.openFoodFactsURL, code)
	body, err := p.get(ctx, endpoint, code, nil)
	if err != nil {
		return Product{}, err
	}

	var parsed offResponse
	if err := json.Unmarshal(body, &parsed); err != nil {
		return Product{}, fmt.Errorf("%w: invalid response format: %v", ErrUpstream, err)
	}
	if parsed.Status != 1 {
		return Product{}, fmt.Errorf("%w: no product for barcode %s", ErrFoodNotFound, code)
	}

	pr := parsed.Product
	categories := pr.CategoriesTags
	if categories == nil {
		categories = []string{}
	}
	return Product{
		Code:           code,
		Name:           pr.ProductName,
		Brands:         pr.Brands,
		Categories:     categories,
		NutriScore:     strings.ToLower(pr.NutriScore),
		NovaGroup:      pr.NovaGroup,
		AdditivesCount: pr.AdditivesN,
		Nutriments: Nutriments{
			EnergyKcal:   pr.Nutriments.EnergyKcal,
			Fat:          pr.Nutriments.Fat,
			SaturatedFat: pr.Nutriments.SaturatedFat,
			Carbs:        pr.Nutriments.Carbs,
			Sugars:       pr.Nutriments.Sugars,
			Fiber:        pr.Nutriments.Fiber,
			Proteins:     pr.Nutriments.Proteins,
			Salt:         pr.Nutriments.Salt,
		},
		Source: SourceUpstream,
	}, nil
}

func (p *HTTPProvider) get(ctx context.Context, endpoint, query string, headers map[string]string) ([]byte, error) {
	if err := p.limiter.Wait(ctx); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, endpoint, nil)
	if err != nil {
		return nil, err
	}
	req.Header.Set("Accept", "application/json")
	for k, v := range headers {
		req.Header.Set(k, v)
	}

	resp, err := p.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	body, err := io.ReadAll(io.LimitReader(resp.Body, maxResponseBytes))
	if err != nil {
		return nil, fmt.Errorf("%w: read body: %v", ErrUpstream, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode >= 300 {
		log.Warnf("foods: upstream %s returned %d", req.URL.Host, resp.StatusCode)
		return nil, upstreamError(resp.StatusCode, query)
	}

	return body, nil
}
