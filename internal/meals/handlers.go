package meals

import (
	"encoding/json"
	"errors"
	"net/http"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

// Handler содержит HTTP обработчики для приёмов пищи
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleLog обрабатывает POST /v1/meals
func (h *Handler) HandleLog(w http.ResponseWriter, r *http.Request) {
	var req LogMealRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	resp, err := h.service.LogMeal(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusCreated, resp)
}

// HandleList обрабатывает GET /v1/meals?profile_id=&date=
func (h *Handler) HandleList(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.List(r.Context(), profileID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleSummary обрабатывает GET /v1/meals/summary?profile_id=&date=
func (h *Handler) HandleSummary(w http.ResponseWriter, r *http.Request) {
	profileID, ok := parseProfileID(w, r)
	if !ok {
		return
	}

	resp, err := h.service.Summary(r.Context(), profileID, r.URL.Query().Get("date"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleDelete обрабатывает DELETE /v1/meals/{id}
func (h *Handler) HandleDelete(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid meal ID")
		return
	}

	if err := h.service.Delete(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func parseProfileID(w http.ResponseWriter, r *http.Request) (uuid.UUID, bool) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "valid profile_id is required")
		return uuid.Nil, false
	}
	return profileID, true
}

func writeServiceError(w http.ResponseWriter, err error) {
	switch {
	case errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Meal not found")
	case errors.Is(err, ErrNothingResolved):
		writeError(w, http.StatusUnprocessableEntity, "items_not_resolved", err.Error())
	default:
		log.Errorf("meals: %s", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
