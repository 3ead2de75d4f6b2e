package foods

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/config"
)

func newTestHTTPProvider(t *testing.T, handler http.HandlerFunc) *HTTPProvider {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	return NewHTTPProvider(config.FoodsConfig{
		Mode:             config.FoodsModeHTTP,
		SearchURL:        srv.URL + "/v1/nutrition",
		APIKey:           "test-key",
		OpenFoodFactsURL: srv.URL,
		TimeoutSeconds:   2,
		RPS:              100,
	})
}

func TestHTTPProvider_Search(t *testing.T) {
	p := newTestHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v1/nutrition", r.URL.Path)
		assert.Equal(t, "test-key", r.Header.Get("X-Api-Key"))
		assert.Equal(t, "brown rice", r.URL.Query().Get("query"))
		fmt.Fprint(w, `{"items":[
			{"name":"brown rice","calories":224,"serving_size_g":200,"protein_g":5.2,"carbohydrates_total_g":46,"fat_total_g":1.8},
			{"name":"rice","calories":130,"serving_size_g":100,"protein_g":2.7,"carbohydrates_total_g":28,"fat_total_g":0.3}
		]}`)
	})

	food, err := p.Search(context.Background(), "  brown rice ")
	require.NoError(t, err)
	assert.Equal(t, "brown rice", food.Name)
	assert.Equal(t, SourceUpstream, food.Source)
	// 200 g serving rescaled to 100 g
	assert.InDelta(t, 112.0, food.KcalPer100g, 1e-9)
	assert.InDelta(t, 2.6, food.ProteinGPer100g, 1e-9)
	assert.InDelta(t, 23.0, food.CarbsGPer100g, 1e-9)
	assert.InDelta(t, 0.9, food.FatGPer100g, 1e-9)
}

func TestHTTPProvider_SearchIncomplete(t *testing.T) {
	p := newTestHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[{"name":"mystery","calories":100}]}`)
	})

	_, err := p.Search(context.Background(), "mystery")
	require.ErrorIs(t, err, ErrIncompleteData)
	assert.Contains(t, err.Error(), "protein_g, carbohydrates_total_g, fat_total_g")
}

func TestHTTPProvider_SearchNoResults(t *testing.T) {
	p := newTestHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		fmt.Fprint(w, `{"items":[]}`)
	})

	_, err := p.Search(context.Background(), "nothing")
	assert.ErrorIs(t, err, ErrFoodNotFound)

	_, err = p.Search(context.Background(), "   ")
	assert.ErrorIs(t, err, ErrInvalidQuery)
}

func TestHTTPProvider_SearchStatusMapping(t *testing.T) {
	tests := []struct {
		status   int
		notFound bool
	}{
		{http.StatusUnauthorized, false},
		{http.StatusForbidden, false},
		{http.StatusNotFound, true},
		{http.StatusTooManyRequests, false},
		{http.StatusInternalServerError, false},
		{http.StatusBadGateway, false},
	}

	for _, tt := range tests {
		t.Run(http.StatusText(tt.status), func(t *testing.T) {
			p := newTestHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
				w.WriteHeader(tt.status)
			})

			_, err := p.Search(context.Background(), "apple")
			require.Error(t, err)

			var upstream *UpstreamError
			require.True(t, errors.As(err, &upstream))
			assert.Equal(t, tt.status, upstream.Status)
			assert.Equal(t, tt.notFound, errors.Is(err, ErrFoodNotFound))
			assert.Equal(t, !tt.notFound, errors.Is(err, ErrUpstream))
		})
	}
}

func TestHTTPProvider_Barcode(t *testing.T) {
	p := newTestHTTPProvider(t, func(w http.ResponseWriter, r *http.Request) {
		if strings.HasSuffix(r.URL.Path, "/api/v0/product/0000000000000.json") {
			fmt.Fprint(w, `{"status":0,"status_verbose":"product not found"}`)
			return
		}
		assert.Equal(t, "/api/v0/product/3017620422003.json", r.URL.Path)
		fmt.Fprint(w, `{"status":1,"code":"3017620422003","product":{
			"product_name":"Nutella","brands":"Ferrero","nutriscore_grade":"E","nova_group":4,
			"categories_tags":["en:spreads","en:sweet-spreads"],
			"nutriments":{"energy-kcal_100g":539,"fat_100g":30.9,"sugars_100g":56.3,"proteins_100g":6.3,"salt_100g":0.107}
		}}`)
	})

	product, err := p.Barcode(context.Background(), "3017620422003")
	require.NoError(t, err)
	assert.Equal(t, "Nutella", product.Name)
	assert.Equal(t, SourceUpstream, product.Source)
	assert.Equal(t, "e", product.NutriScore)
	assert.Equal(t, 4, product.NovaGroup)
	require.NotNil(t, product.Nutriments.Fat)
	assert.InDelta(t, 30.9, *product.Nutriments.Fat, 1e-9)
	assert.Nil(t, product.Nutriments.Fiber)

	_, err = p.Barcode(context.Background(), "0000000000000")
	assert.ErrorIs(t, err, ErrFoodNotFound)

	_, err = p.Barcode(context.Background(), "12ab")
	assert.ErrorIs(t, err, ErrInvalidBarcode)
}
