package httpserver

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/auth"
	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/meals"
	"github.com/suvamneog/foodanalyserr/internal/plans"
	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/reports"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
	"github.com/suvamneog/foodanalyserr/internal/units"
)

func newTestServer(t *testing.T, cfg *config.Config) *Server {
	t.Helper()

	if cfg.Blob.Mode == "" {
		cfg.Blob.Mode = config.BlobModeLocal
	}
	srv, err := New(context.Background(), cfg)
	require.NoError(t, err)
	t.Cleanup(func() { srv.Close() })
	return srv
}

func do(t *testing.T, h http.Handler, method, path string, body interface{}, header http.Header) *httptest.ResponseRecorder {
	t.Helper()

	var reader io.Reader = http.NoBody
	if body != nil {
		raw, err := json.Marshal(body)
		require.NoError(t, err)
		reader = bytes.NewReader(raw)
	}

	req := httptest.NewRequest(method, path, reader)
	for k, v := range header {
		req.Header[k] = v
	}
	w := httptest.NewRecorder()
	h.ServeHTTP(w, req)
	return w
}

func TestHealthz(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	w := do(t, srv.Handler(), http.MethodGet, "/healthz", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)

	var resp map[string]string
	require.NoError(t, json.NewDecoder(w.Body).Decode(&resp))
	assert.Equal(t, "ok", resp["status"])
}

func TestHealthzMethodNotAllowed(t *testing.T) {
	srv := newTestServer(t, &config.Config{Port: 8080})

	w := do(t, srv.Handler(), http.MethodPost, "/healthz", nil, nil)
	assert.Equal(t, http.StatusMethodNotAllowed, w.Code)
}

func TestNew_S3ModeWithoutConfigFails(t *testing.T) {
	_, err := New(context.Background(), &config.Config{Blob: config.BlobConfig{Mode: config.BlobModeS3}})
	assert.Error(t, err)
}

func TestMetricsEndpoint(t *testing.T) {
	srv := newTestServer(t, &config.Config{MetricsEnabled: true})
	h := srv.Handler()

	w := do(t, h, http.MethodPost, "/v1/plans/preview", cutInput(), nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/metrics", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	body := w.Body.String()
	assert.Contains(t, body, `foodanalyserr_api_plan_calculations{outcome="ok",plan_type="Deficit"} 1`)
	assert.Contains(t, body, "foodanalyserr_api_request_duration_seconds")
	assert.Contains(t, body, "go_goroutines")
}

func TestMetricsEndpointDisabled(t *testing.T) {
	srv := newTestServer(t, &config.Config{MetricsEnabled: false})

	w := do(t, srv.Handler(), http.MethodGet, "/metrics", nil, nil)
	assert.Equal(t, http.StatusNotFound, w.Code)
}

func TestPanicRecovery(t *testing.T) {
	metrics := telemetry.NewTestManager()

	handler := PanicRecovery(metrics)(http.HandlerFunc(func(http.ResponseWriter, *http.Request) {
		panic("boom")
	}))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, http.StatusInternalServerError, w.Code)
	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CounterHandleRequestPanic))
}

func TestRequestMetrics_CountsStatus(t *testing.T) {
	metrics := telemetry.NewTestManager()

	handler := RequestMetrics(metrics)(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusTeapot)
	}))
	handler.ServeHTTP(httptest.NewRecorder(), httptest.NewRequest(http.MethodGet, "/", nil))

	assert.Equal(t, float64(1), testutil.ToFloat64(metrics.CounterRequests.WithLabelValues("GET", "418")))
	assert.Equal(t, float64(0), testutil.ToFloat64(metrics.GaugeRequests))
}

func TestAuthRequired(t *testing.T) {
	srv := newTestServer(t, &config.Config{
		AuthMode:      "dev",
		AuthEnabled:   true,
		AuthRequired:  true,
		JWTSecret:     "test-secret",
		JWTIssuer:     "foodanalyserr-test",
		JWTTTLMinutes: 60,
	})
	h := srv.Handler()

	w := do(t, h, http.MethodGet, "/v1/plans/options", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, w.Code)

	w = do(t, h, http.MethodPost, "/v1/auth/dev", auth.DevAuthRequest{UserID: "alice"}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	var token auth.DevAuthResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&token))

	bearer := http.Header{"Authorization": {"Bearer " + token.AccessToken}}
	w = do(t, h, http.MethodGet, "/v1/plans/options", nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code)

	// alice sees her own owner profile only
	w = do(t, h, http.MethodGet, "/v1/plans?profile_id="+token.OwnerProfileID.String(), nil, bearer)
	assert.Equal(t, http.StatusOK, w.Code)
}

func TestEndToEnd_PlanMealsReport(t *testing.T) {
	srv := newTestServer(t, &config.Config{})
	h := srv.Handler()

	profiles, err := srv.storage.ListProfiles(context.Background())
	require.NoError(t, err)
	ownerID := profiles[0].ID

	w := do(t, h, http.MethodPost, "/v1/plans", plans.CreatePlanRequest{ProfileID: ownerID, Input: cutInput()}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var plan plans.PlanDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&plan))

	w = do(t, h, http.MethodPost, fmt.Sprintf("/v1/plans/%s/apply", plan.ID), plans.ApplyRequest{Week: 2}, nil)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/nutrition/targets?profile_id="+ownerID.String(), nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	week2, _ := plan.Result.Week(2)
	assert.Contains(t, w.Body.String(), fmt.Sprintf(`"calories_kcal":%d`, week2.Calories))

	w = do(t, h, http.MethodPost, "/v1/meals", meals.LogMealRequest{
		ProfileID: ownerID,
		MealName:  "lunch",
		Date:      "2026-03-14",
		Items:     []meals.ItemRequest{{Name: "rice", Quantity: 150, Unit: "g"}},
	}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	w = do(t, h, http.MethodGet, "/v1/meals?profile_id="+ownerID.String()+"&date=2026-03-14", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	var day meals.MealsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&day))
	require.Len(t, day.Meals, 1)
	assert.InDelta(t, 195.0, day.Totals.CaloriesKcal, 0.001)

	w = do(t, h, http.MethodPost, "/v1/reports", reports.CreateReportRequest{PlanID: plan.ID, Format: reports.FormatCSV}, nil)
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	var report reports.ReportDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&report))

	w = do(t, h, http.MethodGet, "/v1/reports/"+report.ID.String()+"/download", nil, nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "week,weight,bodyfat,calories,protein,carbs,fats")
}

func cutInput() projection.Profile {
	return projection.Profile{
		WeightUnit:           units.Metric,
		CurrentWeight:        80,
		Height:               175,
		CurrentBodyFatPct:    20,
		GoalBodyFatPct:       15,
		Age:                  30,
		Gender:               projection.Male,
		ActivityMultiplier:   1.55,
		CalorieAdjustmentPct: 20,
		ProteinMultiplier:    2.0,
		BMRFormula:           projection.KatchMcArdle,
	}
}

func TestShutdownBeforeStart(t *testing.T) {
	srv, err := New(context.Background(), &config.Config{Blob: config.BlobConfig{Mode: config.BlobModeLocal}})
	require.NoError(t, err)

	assert.NoError(t, srv.Shutdown(context.Background()))
}
