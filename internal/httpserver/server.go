package httpserver

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	log "github.com/sirupsen/logrus"
	"go.uber.org/multierr"

	"github.com/suvamneog/foodanalyserr/internal/auth"
	"github.com/suvamneog/foodanalyserr/internal/blob"
	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/foods"
	"github.com/suvamneog/foodanalyserr/internal/meals"
	"github.com/suvamneog/foodanalyserr/internal/nutrition"
	"github.com/suvamneog/foodanalyserr/internal/plans"
	"github.com/suvamneog/foodanalyserr/internal/profiles"
	"github.com/suvamneog/foodanalyserr/internal/reports"
	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/storage/memory"
	"github.com/suvamneog/foodanalyserr/internal/storage/postgres"
	"github.com/suvamneog/foodanalyserr/internal/telemetry"
)

// appStorage is implemented by both the memory and the Postgres storage.
type appStorage interface {
	storage.Storage
	GetPlansStorage() storage.PlansStorage
	GetReportsStorage() storage.ReportsStorage
	GetMealsStorage() storage.MealsStorage
	GetNutritionTargetsStorage() storage.NutritionTargetsStorage
	GetCustomFoodsStorage() storage.CustomFoodsStorage
}

// Server представляет HTTP сервер
type Server struct {
	config         *config.Config
	mux            *http.ServeMux
	routeTable     *routeTable
	storage        appStorage
	metrics        *telemetry.Manager
	registry       *prometheus.Registry
	authMiddleware *auth.Middleware
	httpServer     *http.Server
}

// New создаёт сервер: storage, blob store, сервисы и маршруты
func New(ctx context.Context, cfg *config.Config) (*Server, error) {
	s := &Server{
		config:     cfg,
		mux:        http.NewServeMux(),
		routeTable: &routeTable{},
	}

	s.initStorage(ctx)

	var collectors []prometheus.Collector
	if pg, ok := s.storage.(*postgres.PostgresStorage); ok {
		collectors = append(collectors, pg.MetricsCollector())
	}
	s.registry = telemetry.SetupPrometheus(collectors...)
	s.metrics = telemetry.NewManager("foodanalyserr", "api", s.registry)

	reportsBlobStore, _, err := blob.NewBlobStore(ctx, cfg.Blob, log.StandardLogger())
	if err != nil {
		return nil, multierr.Append(err, s.storage.Close())
	}

	s.routes(reportsBlobStore)

	s.httpServer = &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Port),
		Handler:           s.Handler(),
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       120 * time.Second,
	}
	return s, nil
}

// initStorage выбирает Postgres, если задан DATABASE_URL, иначе память
func (s *Server) initStorage(ctx context.Context) {
	if s.config.DatabaseURL == "" {
		log.Info("storage: using in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Info("storage: connecting to PostgreSQL...")
	pgStorage, err := postgres.New(ctx, s.config.DatabaseURL)
	if err != nil {
		log.WithError(err).Warn("storage: PostgreSQL unavailable, fallback to in-memory storage")
		s.storage = memory.New()
		return
	}

	log.Info("storage: PostgreSQL connected")
	s.storage = pgStorage
}

// routes регистрирует маршруты
func (s *Server) routes(reportsBlobStore blob.Store) {
	s.handleFunc("/healthz", s.handleHealthz)
	if s.config.MetricsEnabled {
		s.handle("GET /metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	}

	// Auth
	authService := auth.NewService(s.config, s.storage)
	authHandler := auth.NewHandlers(authService)
	s.authMiddleware = auth.NewMiddleware(s.config, authService)
	if s.config.AuthEnabled {
		s.handleFunc("POST /v1/auth/dev", authHandler.HandleDevAuth)
	}

	// Profiles
	profileHandler := profiles.NewHandler(profiles.NewService(s.storage))
	s.handleFunc("GET /v1/profiles", profileHandler.HandleList)
	s.handleFunc("POST /v1/profiles", profileHandler.HandleCreate)
	s.handleFunc("GET /v1/profiles/{id}", profileHandler.HandleGet)
	s.handleFunc("PATCH /v1/profiles/{id}", profileHandler.HandleUpdate)
	s.handleFunc("DELETE /v1/profiles/{id}", profileHandler.HandleDelete)

	// Nutrition targets
	nutritionService := nutrition.NewService(s.storage, s.storage.GetNutritionTargetsStorage())
	nutritionHandler := nutrition.NewHandler(nutritionService)
	s.handleFunc("GET /v1/nutrition/targets", nutritionHandler.HandleGetTargets)
	s.handleFunc("PUT /v1/nutrition/targets", nutritionHandler.HandleUpsertTargets)

	// Plans
	planService := plans.NewService(s.storage, s.storage.GetPlansStorage(), nutritionService, s.metrics)
	planHandler := plans.NewHandler(planService)
	s.handleFunc("GET /v1/plans/options", planHandler.HandleOptions)
	s.handleFunc("POST /v1/plans/preview", planHandler.HandlePreview)
	s.handleFunc("POST /v1/plans", planHandler.HandleCreate)
	s.handleFunc("GET /v1/plans", planHandler.HandleList)
	s.handleFunc("GET /v1/plans/{id}", planHandler.HandleGet)
	s.handleFunc("DELETE /v1/plans/{id}", planHandler.HandleDelete)
	s.handleFunc("POST /v1/plans/{id}/apply", planHandler.HandleApply)

	// Foods
	provider := foods.NewProvider(s.config.Foods, s.metrics)
	foodService := foods.NewService(s.storage, s.storage.GetCustomFoodsStorage(), provider, s.metrics)
	foodHandler := foods.NewHandler(foodService)
	s.handleFunc("GET /v1/foods/search", foodHandler.HandleSearch)
	s.handleFunc("GET /v1/foods/barcode/{code}", foodHandler.HandleBarcode)
	s.handleFunc("GET /v1/foods/custom", foodHandler.HandleListCustom)
	s.handleFunc("POST /v1/foods/custom", foodHandler.HandleUpsertCustom)
	s.handleFunc("DELETE /v1/foods/custom/{id}", foodHandler.HandleDeleteCustom)

	// Meals
	mealHandler := meals.NewHandler(meals.NewService(s.storage, s.storage.GetMealsStorage(), foodService, nutritionService))
	s.handleFunc("POST /v1/meals", mealHandler.HandleLog)
	s.handleFunc("GET /v1/meals", mealHandler.HandleList)
	s.handleFunc("GET /v1/meals/summary", mealHandler.HandleSummary)
	s.handleFunc("DELETE /v1/meals/{id}", mealHandler.HandleDelete)

	// Reports
	reportsService := reports.NewService(
		s.storage.GetReportsStorage(),
		planService,
		s.storage,
		reportsBlobStore,
		reports.Options{
			PresignTTLSeconds: s.config.Blob.S3.PresignTTLSeconds,
			PublicBaseURL:     s.config.Blob.S3.PublicBaseURL,
			PreferPublicURL:   s.config.Blob.S3.PreferPublicURL,
			TTL:               time.Duration(s.config.ReportsDefaultTTLHours) * time.Hour,
		},
	)
	reportsHandler := reports.NewHandlers(reportsService)
	s.handleFunc("POST /v1/reports", reportsHandler.HandleCreate)
	s.handleFunc("GET /v1/reports", reportsHandler.HandleList)
	s.handleFunc("GET /v1/reports/{id}/download", reportsHandler.HandleDownload)
	s.handleFunc("DELETE /v1/reports/{id}", reportsHandler.HandleDelete)
}

// Handler returns the router wrapped in the middleware chain,
// outermost first: CORS → drain → recovery → logging → metrics → rate limit → auth → router.
func (s *Server) Handler() http.Handler {
	var handler http.Handler = s.mux
	handler = s.authMiddleware.Wrap(handler)
	handler = RateLimitMiddleware(s.config, s.metrics, handler)
	handler = RequestMetrics(s.metrics)(handler)
	handler = LogRequest()(handler)
	handler = PanicRecovery(s.metrics)(handler)
	handler = DrainAndCloseRequest()(handler)
	handler = CORSMiddleware(s.config, s.routeTable, handler)
	return handler
}

// handleHealthz возвращает статус сервера
func (s *Server) handleHealthz(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
		return
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(http.StatusOK)
	json.NewEncoder(w).Encode(map[string]string{
		"status": "ok",
	})
}

// Start запускает HTTP сервер и блокируется до Shutdown
func (s *Server) Start() error {
	addr := s.httpServer.Addr
	log.Infof("server listening on http://localhost%s", addr)
	log.Infof("health check: http://localhost%s/healthz", addr)

	if err := s.httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return err
	}
	return nil
}

// Shutdown останавливает сервер и закрывает storage
func (s *Server) Shutdown(ctx context.Context) error {
	return multierr.Append(s.httpServer.Shutdown(ctx), s.Close())
}

// Close закрывает storage и освобождает ресурсы
func (s *Server) Close() error {
	if s.storage != nil {
		return s.storage.Close()
	}
	return nil
}
