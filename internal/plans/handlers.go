package plans

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/nutrition"
	"github.com/suvamneog/foodanalyserr/internal/projection"
	"github.com/suvamneog/foodanalyserr/internal/units"
)

const maxBodyBytes = 64 << 10

// Handler содержит HTTP обработчики для планов
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleOptions обрабатывает GET /v1/plans/options
func (h *Handler) HandleOptions(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, OptionsResponse{
		ActivityLevels: projection.ActivityLevels,
		ProteinOptions: projection.ProteinOptions,
		BMRFormulas:    []projection.Formula{projection.KatchMcArdle, projection.MifflinStJeor},
		WeightUnits:    []string{string(units.Metric), string(units.Imperial)},
		TotalWeeks:     projection.TotalWeeks,
	})
}

// HandlePreview обрабатывает POST /v1/plans/preview
func (h *Handler) HandlePreview(w http.ResponseWriter, r *http.Request) {
	var input projection.Profile
	if err := decodeBody(w, r, &input); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	plan, err := h.service.Preview(r.Context(), input)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleCreate обрабатывает POST /v1/plans
func (h *Handler) HandleCreate(w http.ResponseWriter, r *http.Request) {
	var req CreatePlanRequest
	if err := decodeBody(w, r, &req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}
	if req.ProfileID == uuid.Nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	plan, err := h.service.Create(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusCreated, plan)
}

// HandleList обрабатывает GET /v1/plans?profile_id=&limit=&offset=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	profileID, err := uuid.Parse(q.Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "valid profile_id is required")
		return
	}

	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	plans, err := h.service.List(r.Context(), profileID, limit, offset)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, PlansResponse{Plans: plans})
}

// HandleGet обрабатывает GET /v1/plans/{id}
func (h *Handler) HandleGet(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid plan ID")
		return
	}

	plan, err := h.service.Get(r.Context(), id)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, plan)
}

// HandleDelete обрабатывает DELETE /v1/plans/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid plan ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}

	w.WriteHeader(http.StatusNoContent)
}

// HandleApply обрабатывает POST /v1/plans/{id}/apply
func (h *Handler) HandleApply(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid plan ID")
		return
	}

	var req ApplyRequest
	if r.ContentLength != 0 {
		if err := decodeBody(w, r, &req); err != nil {
			writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
			return
		}
	}

	targets, err := h.service.Apply(r.Context(), id, req.Week)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	writeJSON(w, http.StatusOK, targets)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var verr *projection.ValidationError
	var cerr *projection.CalculationError

	switch {
	case errors.As(err, &verr):
		writeJSON(w, http.StatusBadRequest, ErrorResponse{Error: ErrorDetail{
			Code:    "validation_failed",
			Message: "Profile has invalid fields",
			Fields:  verr.Fields,
		}})
	case errors.As(err, &cerr):
		writeJSON(w, http.StatusUnprocessableEntity, ErrorResponse{Error: ErrorDetail{
			Code:    "calculation_failed",
			Message: cerr.Message,
			Week:    cerr.Week,
		}})
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Plan not found")
	case errors.Is(err, ErrProfileNotFound), errors.Is(err, nutrition.ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrInvalidWeek), errors.Is(err, ErrNameTooLong), errors.Is(err, nutrition.ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	default:
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func decodeBody(w http.ResponseWriter, r *http.Request, dst interface{}) error {
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	return dec.Decode(dst)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
