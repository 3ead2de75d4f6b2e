package blob

import (
	"context"
	"testing"

	log "github.com/sirupsen/logrus"
	"github.com/sirupsen/logrus/hooks/test"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	appcfg "github.com/suvamneog/foodanalyserr/internal/config"
)

func messages(hook *test.Hook) []string {
	var out []string
	for _, e := range hook.AllEntries() {
		out = append(out, e.Message)
	}
	return out
}

func TestNewBlobStoreLocalForced(t *testing.T) {
	logger, hook := test.NewNullLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeLocal}, logger)
	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
	assert.Nil(t, store)
	assert.Contains(t, messages(hook), "mode=local (forced)")
}

func TestNewBlobStoreAutoEmptyS3FallsBackToLocal(t *testing.T) {
	logger, hook := test.NewNullLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: appcfg.BlobModeAuto}, logger)
	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
	assert.Nil(t, store)

	var codes []any
	for _, e := range hook.AllEntries() {
		if c, ok := e.Data["code"]; ok {
			codes = append(codes, c)
		}
	}
	assert.Contains(t, codes, "s3_not_configured")
	assert.Contains(t, messages(hook), "mode=local (auto, S3 not configured)")
}

func TestNewBlobStorePartialConfigWarns(t *testing.T) {
	logger, hook := test.NewNullLogger()

	_, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeAuto,
		S3:   appcfg.S3Config{Bucket: "exports"},
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)

	var warned bool
	for _, e := range hook.AllEntries() {
		if e.Level == log.WarnLevel && e.Data["code"] == "s3_partial_config" {
			warned = true
		}
	}
	assert.True(t, warned)
}

func TestNewBlobStoreReportsModeOverride(t *testing.T) {
	logger, _ := test.NewNullLogger()

	_, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode:           appcfg.BlobModeS3,
		ReportsMode:    appcfg.BlobModeLocal,
		ReportsModeSet: true,
	}, logger)
	require.NoError(t, err)
	assert.Equal(t, appcfg.BlobModeLocal, mode)
}

func TestNewBlobStoreS3MissingRequiredReturnsError(t *testing.T) {
	logger, _ := test.NewNullLogger()

	store, mode, err := NewBlobStore(context.Background(), appcfg.BlobConfig{
		Mode: appcfg.BlobModeS3,
		S3:   appcfg.S3Config{Endpoint: "https://s3.example.com"},
	}, logger)
	require.Error(t, err)
	assert.Nil(t, store)
	assert.Empty(t, mode)
	assert.Contains(t, err.Error(), "missing required config")
}

func TestNewBlobStoreUnknownMode(t *testing.T) {
	_, _, err := NewBlobStore(context.Background(), appcfg.BlobConfig{Mode: "ftp"}, nil)
	assert.Error(t, err)
}
