package reports

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"

	"github.com/suvamneog/foodanalyserr/internal/blob"
	"github.com/suvamneog/foodanalyserr/internal/plans"
	"github.com/suvamneog/foodanalyserr/internal/storage"
	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

var (
	ErrInvalidFormat   = errors.New("invalid format")
	ErrPlanNotFound    = errors.New("plan not found")
	ErrProfileNotFound = errors.New("profile not found")
	ErrReportNotFound  = errors.New("report not found")
	ErrReportExpired   = errors.New("report expired")
)

// PlanSource returns saved plans visible to the caller.
type PlanSource interface {
	Get(ctx context.Context, id uuid.UUID) (*plans.PlanDTO, error)
}

type ProfileStorageAdapter interface {
	GetProfile(ctx context.Context, id uuid.UUID) (*storage.Profile, error)
}

// Options configures where exports live and how long they stay downloadable.
type Options struct {
	PresignTTLSeconds int
	PublicBaseURL     string
	PreferPublicURL   bool
	// TTL <= 0 keeps reports forever.
	TTL time.Duration
}

// Service handles plan exports
type Service struct {
	reportsStorage storage.ReportsStorage
	plans          PlanSource
	profiles       ProfileStorageAdapter
	generator      *Generator
	blobStore      blob.Store
	opts           Options
	now            func() time.Time
}

// NewService creates a reports service. A nil blobStore keeps files in reportsStorage.
func NewService(
	reportsStorage storage.ReportsStorage,
	planSource PlanSource,
	profiles ProfileStorageAdapter,
	blobStore blob.Store,
	opts Options,
) *Service {
	return &Service{
		reportsStorage: reportsStorage,
		plans:          planSource,
		profiles:       profiles,
		generator:      NewGenerator(),
		blobStore:      blobStore,
		opts:           opts,
		now:            time.Now,
	}
}

func (s *Service) localMode() bool {
	return s.blobStore == nil
}

// CreateReport renders a saved plan and stores the file.
func (s *Service) CreateReport(ctx context.Context, req CreateReportRequest) (*Report, error) {
	format := strings.ToLower(strings.TrimSpace(req.Format))
	if format != FormatPDF && format != FormatCSV {
		return nil, ErrInvalidFormat
	}

	plan, err := s.plans.Get(ctx, req.PlanID)
	if err != nil {
		if errors.Is(err, plans.ErrNotFound) {
			return nil, ErrPlanNotFound
		}
		return nil, err
	}

	data, err := s.generator.Generate(plan, format)
	if err != nil {
		return nil, fmt.Errorf("failed to generate report: %w", err)
	}

	meta := &storage.ReportMeta{
		ProfileID: plan.ProfileID,
		PlanID:    plan.ID,
		Format:    format,
		SizeBytes: int64(len(data)),
		Status:    StatusReady,
	}

	if s.localMode() {
		meta.Data = data
	} else {
		key := fmt.Sprintf("reports/%s/%s_%s.%s", plan.ProfileID, plan.ID, uuid.NewString(), format)
		if _, err := s.blobStore.PutObject(ctx, key, data, contentType(format)); err != nil {
			return nil, fmt.Errorf("failed to upload report: %w", err)
		}
		meta.ObjectKey = &key
	}

	if err := s.reportsStorage.CreateReport(ctx, meta); err != nil {
		return nil, fmt.Errorf("failed to save report metadata: %w", err)
	}

	log.WithFields(log.Fields{
		"report_id": meta.ID,
		"plan_id":   plan.ID,
		"format":    format,
		"size":      meta.SizeBytes,
	}).Info("reports: created")

	return toReport(meta), nil
}

// GetReport returns a report owned by the caller.
func (s *Service) GetReport(ctx context.Context, id uuid.UUID) (*Report, error) {
	meta, err := s.owned(ctx, id)
	if err != nil {
		return nil, err
	}
	return toReport(meta), nil
}

func (s *Service) ListReports(ctx context.Context, profileID uuid.UUID, limit, offset int) ([]Report, error) {
	if err := s.ensureProfileAccess(ctx, profileID); err != nil {
		return nil, err
	}

	metas, err := s.reportsStorage.ListReports(ctx, profileID, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("failed to list reports: %w", err)
	}

	out := make([]Report, 0, len(metas))
	for i := range metas {
		if s.expired(&metas[i]) {
			continue
		}
		out = append(out, *toReport(&metas[i]))
	}
	return out, nil
}

func (s *Service) DeleteReport(ctx context.Context, id uuid.UUID) error {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return ErrReportNotFound
	}

	if !s.localMode() && meta.ObjectKey != nil {
		if err := s.blobStore.DeleteObject(ctx, *meta.ObjectKey); err != nil {
			// метаданные удаляем в любом случае
			log.WithError(err).WithField("key", *meta.ObjectKey).Warn("reports: failed to delete object")
		}
	}

	if err := s.reportsStorage.DeleteReport(ctx, id); err != nil {
		return fmt.Errorf("failed to delete report metadata: %w", err)
	}
	return nil
}

// DownloadURL returns the API download endpoint in local mode, otherwise
// a public or presigned object URL.
func (s *Service) DownloadURL(ctx context.Context, report *Report, baseURL string) (string, error) {
	if s.localMode() {
		return fmt.Sprintf("%s/v1/reports/%s/download", strings.TrimSuffix(baseURL, "/"), report.ID), nil
	}
	if report.ObjectKey == nil {
		return "", errors.New("object key is missing")
	}
	if s.opts.PreferPublicURL && s.opts.PublicBaseURL != "" {
		return strings.TrimSuffix(s.opts.PublicBaseURL, "/") + "/" + *report.ObjectKey, nil
	}

	url, err := s.blobStore.PresignGet(ctx, *report.ObjectKey, s.opts.PresignTTLSeconds)
	if err != nil {
		return "", fmt.Errorf("failed to generate presigned URL: %w", err)
	}
	return url, nil
}

// ReportData returns the file bytes and content type.
func (s *Service) ReportData(ctx context.Context, id uuid.UUID) ([]byte, string, error) {
	meta, err := s.owned(ctx, id)
	if err != nil {
		return nil, "", err
	}

	if s.localMode() {
		return meta.Data, contentType(meta.Format), nil
	}
	if meta.ObjectKey == nil {
		return nil, "", errors.New("object key is missing")
	}
	data, err := s.blobStore.GetObject(ctx, *meta.ObjectKey)
	if err != nil {
		return nil, "", err
	}
	return data, contentType(meta.Format), nil
}

func (s *Service) owned(ctx context.Context, id uuid.UUID) (*storage.ReportMeta, error) {
	meta, err := s.reportsStorage.GetReport(ctx, id)
	if err != nil {
		return nil, ErrReportNotFound
	}
	if err := s.ensureProfileAccess(ctx, meta.ProfileID); err != nil {
		return nil, ErrReportNotFound
	}
	if s.expired(meta) {
		return nil, ErrReportExpired
	}
	return meta, nil
}

func (s *Service) expired(meta *storage.ReportMeta) bool {
	return s.opts.TTL > 0 && s.now().Sub(meta.CreatedAt) > s.opts.TTL
}

func (s *Service) ensureProfileAccess(ctx context.Context, profileID uuid.UUID) error {
	profile, err := s.profiles.GetProfile(ctx, profileID)
	if err != nil {
		return ErrProfileNotFound
	}
	if profile.OwnerUserID != userctx.UserIDOrDefault(ctx) {
		return ErrProfileNotFound
	}
	return nil
}

func toReport(meta *storage.ReportMeta) *Report {
	return &Report{
		ID:        meta.ID,
		ProfileID: meta.ProfileID,
		PlanID:    meta.PlanID,
		Format:    meta.Format,
		ObjectKey: meta.ObjectKey,
		SizeBytes: meta.SizeBytes,
		Status:    meta.Status,
		Error:     meta.Error,
		CreatedAt: meta.CreatedAt,
		UpdatedAt: meta.UpdatedAt,
		Data:      meta.Data,
	}
}
