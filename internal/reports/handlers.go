package reports

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

// Handlers handles HTTP requests for plan exports
type Handlers struct {
	service *Service
}

func NewHandlers(service *Service) *Handlers {
	return &Handlers{service: service}
}

// HandleCreate handles POST /v1/reports
func (h *Handlers) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreateReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "Invalid JSON")
		return
	}
	if req.PlanID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "plan_id is required")
		return
	}

	report, err := h.service.CreateReport(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dto, err := h.toDTO(r, report)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, dto)
}

// HandleList handles GET /v1/reports?profile_id=
func (h *Handlers) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profileID, err := uuid.Parse(q.Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_profile_id", "valid profile_id is required")
		return
	}

	limit := 20
	if l, err := strconv.Atoi(q.Get("limit")); err == nil && l > 0 {
		limit = l
	}
	offset := 0
	if o, err := strconv.Atoi(q.Get("offset")); err == nil && o >= 0 {
		offset = o
	}

	reports, err := h.service.ListReports(r.Context(), profileID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	dtos := make([]ReportDTO, 0, len(reports))
	for i := range reports {
		dto, err := h.toDTO(r, &reports[i])
		if err != nil {
			log.WithError(err).WithField("report_id", reports[i].ID).Warn("reports: no download url")
		}
		dtos = append(dtos, dto)
	}

	writeJSON(w, http.StatusOK, ReportsResponse{Reports: dtos})
}

// HandleDownload handles GET /v1/reports/{id}/download
func (h *Handlers) HandleDownload(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	report, err := h.service.GetReport(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	if !h.service.localMode() {
		url, err := h.service.DownloadURL(r.Context(), report, getBaseURL(r))
		if err != nil {
			writeServiceError(w, err)
			return
		}
		http.Redirect(w, r, url, http.StatusFound)
		return
	}

	data, ct, err := h.service.ReportData(r.Context(), reportID)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	filename := fmt.Sprintf("plan_%s.%s", report.PlanID, report.Format)
	w.Header().Set("Content-Type", ct)
	w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%s", filename))
	w.Header().Set("Content-Length", strconv.Itoa(len(data)))
	w.Write(data)
}

// HandleDelete handles DELETE /v1/reports/{id}
func (h *Handlers) HandleDelete(w http.ResponseWriter, r *http.Request) {
	reportID, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid report ID")
		return
	}

	if err := h.service.DeleteReport(r.Context(), reportID); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

func (h *Handlers) toDTO(r *http.Request, report *Report) (ReportDTO, error) {
	url, err := h.service.DownloadURL(r.Context(), report, getBaseURL(r))
	return ReportDTO{
		ID:          report.ID,
		ProfileID:   report.ProfileID,
		PlanID:      report.PlanID,
		Format:      report.Format,
		DownloadURL: url,
		SizeBytes:   report.SizeBytes,
		Status:      report.Status,
		CreatedAt:   report.CreatedAt,
	}, err
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidFormat):
		writeError(w, http.StatusBadRequest, "invalid_format", "Format must be 'pdf' or 'csv'")
	case errors.Is(err, ErrPlanNotFound):
		writeError(w, http.StatusNotFound, "plan_not_found", "Plan not found")
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrReportNotFound):
		writeError(w, http.StatusNotFound, "report_not_found", "Report not found")
	case errors.Is(err, ErrReportExpired):
		writeError(w, http.StatusGone, "report_expired", "Report has expired")
	default:
		log.WithError(err).Error("reports: request failed")
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}

func getBaseURL(r *http.Request) string {
	scheme := "http"
	if r.TLS != nil || r.Header.Get("X-Forwarded-Proto") == "https" {
		scheme = "https"
	}
	return fmt.Sprintf("%s://%s", scheme, r.Host)
}
