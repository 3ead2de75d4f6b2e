package reports

import (
	"time"

	"github.com/google/uuid"
)

// Report: метаданные экспорта плана
type Report struct {
	ID        uuid.UUID
	ProfileID uuid.UUID
	PlanID    uuid.UUID
	Format    string // "pdf" or "csv"
	ObjectKey *string
	SizeBytes int64
	Status    string
	Error     *string
	CreatedAt time.Time
	UpdatedAt time.Time
	Data      []byte // local mode only
}

// CreateReportRequest exports one saved plan.
type CreateReportRequest struct {
	PlanID uuid.UUID `json:"plan_id"`
	Format string    `json:"format"`
}

type ReportDTO struct {
	ID          uuid.UUID `json:"id"`
	ProfileID   uuid.UUID `json:"profile_id"`
	PlanID      uuid.UUID `json:"plan_id"`
	Format      string    `json:"format"`
	DownloadURL string    `json:"download_url"`
	SizeBytes   int64     `json:"size_bytes"`
	Status      string    `json:"status"`
	CreatedAt   time.Time `json:"created_at"`
}

type ReportsResponse struct {
	Reports []ReportDTO `json:"reports"`
}

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"

	StatusReady  = "ready"
	StatusFailed = "failed"
)

func contentType(format string) string {
	if format == FormatCSV {
		return "text/csv"
	}
	return "application/pdf"
}
