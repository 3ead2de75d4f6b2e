package reports

import (
	"bytes"
	"context"
	"encoding/csv"
	"encoding/json"
	"errors"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/suvamneog/foodanalyserr/internal/nutrition"
	"github.com/suvamneog/foodanalyserr/internal/plans"
	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/storage/memory"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
	"github.com/suvamneog/foodanalyserr/internal/units"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

// fakeStore is an in-memory blob.Store
type fakeStore struct {
	mu      sync.Mutex
	objects map[string][]byte
	deleted []string
}

func newFakeStore() *fakeStore {
	return &fakeStore{objects: map[string][]byte{}}
}

func (f *fakeStore) PutObject(_ context.Context, key string, data []byte, _ string) (int64, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.objects[key] = append([]byte(nil), data...)
	return int64(len(data)), nil
}

func (f *fakeStore) GetObject(_ context.Context, key string) ([]byte, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	data, ok := f.objects[key]
	if !ok {
		return nil, errors.New("no such key")
	}
	return data, nil
}

func (f *fakeStore) PresignGet(_ context.Context, key string, ttlSeconds int) (string, error) {
	return "https://signed.example.com/" + key, nil
}

func (f *fakeStore) DeleteObject(_ context.Context, key string) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	delete(f.objects, key)
	f.deleted = append(f.deleted, key)
	return nil
}

type testEnv struct {
	mux     *http.ServeMux
	service *Service
	plan    *plans.PlanDTO
	ownerID uuid.UUID
}

func newTestEnv(t *testing.T, store *fakeStore, opts Options) *testEnv {
	t.Helper()

	st := memory.New()
	profiles, err := st.ListProfiles(context.Background())
	require.NoError(t, err)
	ownerID := profiles[0].ID

	nutritionService := nutrition.NewService(st, st.GetNutritionTargetsStorage())
	planService := plans.NewService(st, st.GetPlansStorage(), nutritionService, telemetry.NewTestManager())
	plan, err := planService.Create(context.Background(), plans.CreatePlanRequest{
		ProfileID: ownerID,
		Name:      "Spring cut",
		Input: projection.Profile{
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
		},
	})
	require.NoError(t, err)

	var service *Service
	if store == nil {
		service = NewService(st.GetReportsStorage(), planService, st, nil, opts)
	} else {
		service = NewService(st.GetReportsStorage(), planService, st, store, opts)
	}
	h := NewHandlers(service)

	mux := http.NewServeMux()
	mux.HandleFunc("POST /v1/reports", h.HandleCreate)
	mux.HandleFunc("GET /v1/reports", h.HandleList)
	mux.HandleFunc("GET /v1/reports/{id}/download", h.HandleDownload)
	mux.HandleFunc("DELETE /v1/reports/{id}", h.HandleDelete)

	return &testEnv{mux: mux, service: service, plan: plan, ownerID: ownerID}
}

func (e *testEnv) do(t *testing.T, method, path string, body interface{}) *httptest.ResponseRecorder {
	t.Helper()

	var raw []byte
	if body != nil {
		var err error
		raw, err = json.Marshal(body)
		require.NoError(t, err)
	}
	req := httptest.NewRequest(method, path, bytes.NewReader(raw))
	w := httptest.NewRecorder()
	e.mux.ServeHTTP(w, req)
	return w
}

func (e *testEnv) create(t *testing.T, format string) ReportDTO {
	t.Helper()

	w := e.do(t, http.MethodPost, "/v1/reports", CreateReportRequest{PlanID: e.plan.ID, Format: format})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())

	var dto ReportDTO
	require.NoError(t, json.NewDecoder(w.Body).Decode(&dto))
	return dto
}

func TestCreateCSV_LocalMode(t *testing.T) {
	env := newTestEnv(t, nil, Options{})

	dto := env.create(t, FormatCSV)
	assert.Equal(t, env.plan.ID, dto.PlanID)
	assert.Equal(t, env.ownerID, dto.ProfileID)
	assert.Equal(t, StatusReady, dto.Status)
	assert.Equal(t, "http://example.com/v1/reports/"+dto.ID.String()+"/download", dto.DownloadURL)

	w := env.do(t, http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/csv", w.Header().Get("Content-Type"))
	assert.Contains(t, w.Header().Get("Content-Disposition"), ".csv")

	rows, err := csv.NewReader(w.Body).ReadAll()
	require.NoError(t, err)
	require.Len(t, rows, projection.TotalWeeks+1)
	assert.Equal(t, []string{"week", "weight", "bodyfat", "calories", "protein", "carbs", "fats"}, rows[0])
	assert.Equal(t, "1", rows[1][0])
	assert.Equal(t, "16", rows[16][0])

	first, _ := env.plan.Result.Week(1)
	assert.Equal(t, first.Calories, atoi(t, rows[1][3]))
}

func TestCreatePDF_LocalMode(t *testing.T) {
	env := newTestEnv(t, nil, Options{})

	dto := env.create(t, "PDF")
	assert.Equal(t, FormatPDF, dto.Format)
	assert.Positive(t, dto.SizeBytes)

	w := env.do(t, http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "application/pdf", w.Header().Get("Content-Type"))
	assert.True(t, strings.HasPrefix(w.Body.String(), "%PDF-"))
}

func TestCreate_Errors(t *testing.T) {
	env := newTestEnv(t, nil, Options{})

	tests := []struct {
		name string
		body interface{}
		code int
		want string
	}{
		{"bad format", CreateReportRequest{PlanID: env.plan.ID, Format: "xlsx"}, http.StatusBadRequest, "invalid_format"},
		{"missing plan", CreateReportRequest{Format: FormatCSV}, http.StatusBadRequest, "invalid_request"},
		{"unknown plan", CreateReportRequest{PlanID: uuid.New(), Format: FormatCSV}, http.StatusNotFound, "plan_not_found"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := env.do(t, http.MethodPost, "/v1/reports", tt.body)
			assert.Equal(t, tt.code, w.Code)
			assert.Contains(t, w.Body.String(), tt.want)
		})
	}
}

func TestListAndDelete(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	csvReport := env.create(t, FormatCSV)
	env.create(t, FormatPDF)

	w := env.do(t, http.MethodGet, "/v1/reports?profile_id="+env.ownerID.String(), nil)
	require.Equal(t, http.StatusOK, w.Code)
	var list ReportsResponse
	require.NoError(t, json.NewDecoder(w.Body).Decode(&list))
	assert.Len(t, list.Reports, 2)

	w = env.do(t, http.MethodDelete, "/v1/reports/"+csvReport.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)

	w = env.do(t, http.MethodGet, "/v1/reports/"+csvReport.ID.String()+"/download", nil)
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = env.do(t, http.MethodGet, "/v1/reports?profile_id=nope", nil)
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestReports_HiddenFromOtherUsers(t *testing.T) {
	env := newTestEnv(t, nil, Options{})
	dto := env.create(t, FormatCSV)

	ctx := userctx.WithUserID(context.Background(), "someone-else")

	_, err := env.service.GetReport(ctx, dto.ID)
	assert.ErrorIs(t, err, ErrReportNotFound)

	_, err = env.service.CreateReport(ctx, CreateReportRequest{PlanID: env.plan.ID, Format: FormatCSV})
	assert.ErrorIs(t, err, ErrPlanNotFound)

	_, err = env.service.ListReports(ctx, env.ownerID, 10, 0)
	assert.ErrorIs(t, err, ErrProfileNotFound)

	assert.ErrorIs(t, env.service.DeleteReport(ctx, dto.ID), ErrReportNotFound)
}

func TestReports_Expire(t *testing.T) {
	env := newTestEnv(t, nil, Options{TTL: time.Hour})
	dto := env.create(t, FormatCSV)

	env.service.now = func() time.Time { return time.Now().Add(2 * time.Hour) }

	w := env.do(t, http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	assert.Equal(t, http.StatusGone, w.Code)

	list, err := env.service.ListReports(context.Background(), env.ownerID, 10, 0)
	require.NoError(t, err)
	assert.Empty(t, list)
}

func TestObjectStoreMode_Presigned(t *testing.T) {
	store := newFakeStore()
	env := newTestEnv(t, store, Options{PresignTTLSeconds: 900})

	dto := env.create(t, FormatCSV)
	require.Len(t, store.objects, 1)
	assert.True(t, strings.HasPrefix(dto.DownloadURL, "https://signed.example.com/reports/"+env.ownerID.String()+"/"))

	w := env.do(t, http.MethodGet, "/v1/reports/"+dto.ID.String()+"/download", nil)
	assert.Equal(t, http.StatusFound, w.Code)
	assert.Equal(t, dto.DownloadURL, w.Header().Get("Location"))

	data, ct, err := env.service.ReportData(context.Background(), dto.ID)
	require.NoError(t, err)
	assert.Equal(t, "text/csv", ct)
	assert.True(t, strings.HasPrefix(string(data), "week,"))

	w = env.do(t, http.MethodDelete, "/v1/reports/"+dto.ID.String(), nil)
	assert.Equal(t, http.StatusNoContent, w.Code)
	assert.Len(t, store.deleted, 1)
	assert.Empty(t, store.objects)
}

func TestObjectStoreMode_PublicURL(t *testing.T) {
	store := newFakeStore()
	env := newTestEnv(t, store, Options{PublicBaseURL: "https://cdn.example.com/", PreferPublicURL: true})

	dto := env.create(t, FormatPDF)
	assert.True(t, strings.HasPrefix(dto.DownloadURL, "https://cdn.example.com/reports/"))
	assert.True(t, strings.HasSuffix(dto.DownloadURL, ".pdf"))
}
