package blob

import (
	"context"
	"fmt"
	"strings"

	log "github.com/sirupsen/logrus"

	appcfg "github.com/suvamneog/foodanalyserr/internal/config"
)

// NewBlobStore builds a blob store using mode local|s3|auto.
// A nil Store means exports stay in the reports storage.
func NewBlobStore(ctx context.Context, cfg appcfg.BlobConfig, logger log.FieldLogger) (Store, string, error) {
	if logger == nil {
		logger = log.StandardLogger()
	}
	logger = logger.WithField("component", "blob")

	mode := strings.ToLower(strings.TrimSpace(cfg.EffectiveReportsMode()))
	if mode == "" {
		mode = appcfg.BlobModeLocal
	}

	switch mode {
	case appcfg.BlobModeLocal:
		logger.Info("mode=local (forced)")
		return nil, appcfg.BlobModeLocal, nil

	case appcfg.BlobModeAuto:
		if !cfg.S3.IsConfigured() {
			logDiagnostics(logger, cfg.S3)
			logger.Info("mode=local (auto, S3 not configured)")
			return nil, appcfg.BlobModeLocal, nil
		}

		logger.WithField("code", "s3_ready").Info(cfg.S3.DiagnosticsSummary())
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			logger.WithError(err).Warn("s3 init failed, fallback=local")
			return nil, appcfg.BlobModeLocal, nil
		}

		logger.Info("mode=s3 (auto, configured)")
		return store, appcfg.BlobModeS3, nil

	case appcfg.BlobModeS3:
		if !cfg.S3.IsConfigured() {
			missing := cfg.S3.MissingRequired()
			logger.WithField("code", "s3_config_incomplete").Errorf("missing=%v %s", missing, cfg.S3.DiagnosticsSummary())
			return nil, "", fmt.Errorf("BLOB_MODE=s3 requested but missing required config: %s", strings.Join(missing, ", "))
		}

		logger.WithField("code", "s3_ready").Info(cfg.S3.DiagnosticsSummary())
		store, err := newS3FromConfig(ctx, cfg.S3)
		if err != nil {
			logger.WithError(err).Error("s3 init failed")
			return nil, "", fmt.Errorf("BLOB_MODE=s3 init failed: %w", err)
		}

		logger.Info("mode=s3 (forced)")
		return store, appcfg.BlobModeS3, nil

	default:
		return nil, "", fmt.Errorf("unsupported blob mode: %s", mode)
	}
}

func newS3FromConfig(ctx context.Context, c appcfg.S3Config) (*S3Store, error) {
	return NewS3Store(ctx, c.Endpoint, c.Region, c.Bucket, c.AccessKeyID, c.SecretAccessKey)
}

func logDiagnostics(logger log.FieldLogger, c appcfg.S3Config) {
	level, code, msg := c.Diagnostics()
	entry := logger.WithField("code", code)
	if level == "WARN" {
		entry.Warn(msg)
	} else {
		entry.Info(msg)
	}
	logger.Info(c.DiagnosticsSummary())
}
