package main

import (
	"context"
	"fmt"
	"os/signal"
	"strings"
	"syscall"
	"time"

	_ "github.com/joho/godotenv/autoload"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/config"
	"github.com/suvamneog/foodanalyserr/internal/dbmigrate"
	"github.com/suvamneog/foodanalyserr/internal/httpserver"
)

const shutdownTimeout = 10 * time.Second

func main() {
	log.SetFormatter(&log.TextFormatter{FullTimestamp: true})

	cfg := config.Load()
	cfg.ApplyLogLevel()

	printStartupBanner(cfg)

	if cfg.RunMigrationsOnStartup {
		target, err := dbmigrate.SelectTarget(cfg, true)
		if err != nil {
			log.Fatalf("startup migrations: %v", err)
		}

		log.Infof("startup migrations: command=up using=%s target=%s", target.Source, target.Redacted())
		if err := dbmigrate.Run("up", target.URL, dbmigrate.DefaultMigrationsDir); err != nil {
			log.Fatalf("startup migrations failed: %v", err)
		}
		log.Info("startup migrations: completed")
	}

	validateProductionConfig(cfg)

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	server, err := httpserver.New(ctx, cfg)
	if err != nil {
		log.Fatalf("init server: %v", err)
	}

	errCh := make(chan error, 1)
	go func() {
		errCh <- server.Start()
	}()

	select {
	case err := <-errCh:
		if err != nil {
			log.Errorf("server stopped: %v", err)
		}
	case <-ctx.Done():
		log.Info("shutdown signal received")
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil {
		log.Errorf("graceful shutdown: %v", err)
	}
	log.Info("bye")
}

// printStartupBanner logs the resolved configuration once. Secrets show as "set" / "not set".
func printStartupBanner(cfg *config.Config) {
	log.Info("========== Food Analyser API ==========")
	log.Infof("  env              = %s", cfg.Env)
	log.Infof("  port             = %d", cfg.Port)
	log.Infof("  log_level        = %s", cfg.LogLevel)

	log.Info("---- database ----")
	log.Infof("  runtime_url      = %s", describeDBURL(cfg.DatabaseURL, cfg.DatabaseURLPooled))
	log.Infof("  pooled           = %s", config.SetOrNot(cfg.DatabaseURLPooled))
	log.Infof("  direct           = %s", config.SetOrNot(cfg.DatabaseURLDirect))
	log.Infof("  migrations_on_startup = %t", cfg.RunMigrationsOnStartup)

	log.Info("---- auth ----")
	log.Infof("  auth_mode        = %s", cfg.AuthMode)
	log.Infof("  auth_required    = %t", cfg.AuthRequired)
	log.Infof("  jwt_secret       = %s", secretStatus(cfg.JWTSecret, "change_me"))
	log.Infof("  jwt_ttl_minutes  = %d", cfg.JWTTTLMinutes)

	log.Info("---- blob ----")
	log.Infof("  blob_mode        = %s", cfg.Blob.Mode)
	log.Infof("  reports_mode     = %s (effective=%s)", displayReportsMode(cfg), cfg.Blob.EffectiveReportsMode())
	log.Infof("  reports_ttl      = %dh", cfg.ReportsDefaultTTLHours)
	if cfg.Blob.EffectiveReportsMode() != config.BlobModeLocal {
		log.Infof("  s3: %s", cfg.Blob.S3.DiagnosticsSummary())
	}

	log.Info("---- foods ----")
	log.Infof("  foods_mode       = %s", cfg.Foods.Mode)
	if cfg.Foods.Mode == config.FoodsModeHTTP {
		log.Infof("  search_url       = %s", cfg.Foods.SearchURL)
		log.Infof("  api_key          = %s", config.SetOrNot(cfg.Foods.APIKey))
		log.Infof("  off_url          = %s", cfg.Foods.OpenFoodFactsURL)
		log.Infof("  rps              = %.1f", cfg.Foods.RPS)
	}

	log.Infof("  metrics          = %t", cfg.MetricsEnabled)
	log.Info("=======================================")
}

// validateProductionConfig stops the process on settings that are unsafe outside local.
func validateProductionConfig(cfg *config.Config) {
	isProd := cfg.Env == "production" || cfg.Env == "staging"

	if cfg.Blob.EffectiveReportsMode() == config.BlobModeS3 {
		if missing := cfg.Blob.S3.MissingRequired(); len(missing) > 0 {
			log.Fatalf("blob: REPORTS_MODE is 's3' but S3 config is incomplete, missing: %s", strings.Join(missing, ", "))
		}
	}

	if isProd && cfg.AuthRequired && cfg.JWTSecret == "change_me" {
		log.Fatalf("auth: JWT_SECRET must not be 'change_me' in %s with AUTH_REQUIRED=1", cfg.Env)
	}

	if isProd && cfg.DatabaseURL == "" {
		log.Fatalf("db: no DATABASE_URL configured in %s", cfg.Env)
	}
}

func secretStatus(v, insecureDefault string) string {
	v = strings.TrimSpace(v)
	if v == "" {
		return "not set"
	}
	if v == insecureDefault {
		return fmt.Sprintf("set (DEFAULT, insecure '%s')", insecureDefault)
	}
	return "set (custom)"
}

func describeDBURL(runtime, pooled string) string {
	if runtime == "" {
		return "not set (will use in-memory storage)"
	}
	if pooled != "" && runtime == pooled {
		return "set (via DATABASE_URL_POOLED)"
	}
	return "set"
}

func displayReportsMode(cfg *config.Config) string {
	if cfg.Blob.ReportsModeSet {
		return cfg.Blob.ReportsMode
	}
	return fmt.Sprintf("(inherits BLOB_MODE=%s)", cfg.Blob.Mode)
}
