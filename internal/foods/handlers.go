package foods

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/google/uuid"
	log "github.com/sirupsen/logrus"
)

const maxBodyBytes = 64 << 10

// Handler handles HTTP requests for food lookups and custom foods.
type Handler struct {
	service *Service
}

func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleSearch handles GET /v1/foods/search?q=
func (h *Handler) HandleSearch(w http.ResponseWriter, r *http.Request) {
	food, err := h.service.Search(r.Context(), r.URL.Query().Get("q"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, food)
}

// HandleBarcode handles GET /v1/foods/barcode/{code}
func (h *Handler) HandleBarcode(w http.ResponseWriter, r *http.Request) {
	result, err := h.service.Barcode(r.Context(), r.PathValue("code"))
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, result)
}

// HandleListCustom handles GET /v1/foods/custom?profile_id=&q=&limit=&offset=
func (h *Handler) HandleListCustom(w http.ResponseWriter, r *http.Request) {
	profileID, err := uuid.Parse(r.URL.Query().Get("profile_id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "valid profile_id is required")
		return
	}

	resp, err := h.service.ListCustom(r.Context(), profileID,
		r.URL.Query().Get("q"),
		parseIntQuery(r, "limit", 50),
		parseIntQuery(r, "offset", 0),
	)
	if err != nil {
		writeServiceError(w, err)
		return
	}
	writeJSON(w, http.StatusOK, resp)
}

// HandleUpsertCustom handles POST /v1/foods/custom
func (h *Handler) HandleUpsertCustom(w http.ResponseWriter, r *http.Request) {
	var req UpsertCustomFoodRequest
	dec := json.NewDecoder(http.MaxBytesReader(w, r.Body, maxBodyBytes))
	dec.DisallowUnknownFields()
	if err := dec.Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_json", "Invalid JSON")
		return
	}

	food, err := h.service.UpsertCustom(r.Context(), req)
	if err != nil {
		writeServiceError(w, err)
		return
	}

	status := http.StatusCreated
	if req.ID != nil {
		status = http.StatusOK
	}
	writeJSON(w, status, food)
}

// HandleDeleteCustom handles DELETE /v1/foods/custom/{id}
func (h *Handler) HandleDeleteCustom(w http.ResponseWriter, r *http.Request) {
	id, err := uuid.Parse(r.PathValue("id"))
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_id", "Invalid custom food ID")
		return
	}

	if err := h.service.DeleteCustom(r.Context(), id); err != nil {
		writeServiceError(w, err)
		return
	}
	w.WriteHeader(http.StatusNoContent)
}

func writeServiceError(w http.ResponseWriter, err error) {
	var upstream *UpstreamError
	switch {
	case errors.Is(err, ErrInvalidQuery), errors.Is(err, ErrInvalidBarcode), errors.Is(err, ErrInvalidRequest):
		writeError(w, http.StatusBadRequest, "invalid_request", err.Error())
	case errors.Is(err, ErrProfileNotFound):
		writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
	case errors.Is(err, ErrNotFound):
		writeError(w, http.StatusNotFound, "not_found", "Custom food not found")
	case errors.Is(err, ErrFoodNotFound):
		writeError(w, http.StatusNotFound, "food_not_found", err.Error())
	case errors.Is(err, ErrConflict):
		writeError(w, http.StatusConflict, "conflict", err.Error())
	case errors.Is(err, ErrLimitReached):
		writeError(w, http.StatusUnprocessableEntity, "limit_reached", err.Error())
	case errors.Is(err, ErrIncompleteData):
		writeError(w, http.StatusBadGateway, "incomplete_data", err.Error())
	case errors.As(err, &upstream) && upstream.Status == http.StatusTooManyRequests:
		writeError(w, http.StatusServiceUnavailable, "upstream_rate_limited", "Too many requests. Please try again later.")
	case errors.Is(err, ErrUpstream):
		writeError(w, http.StatusBadGateway, "upstream_error", "Food provider unavailable")
	default:
		log.Errorf("foods: %s", err)
		writeError(w, http.StatusInternalServerError, "internal_error", "Internal server error")
	}
}

func parseIntQuery(r *http.Request, key string, defaultVal int) int {
	s := r.URL.Query().Get(key)
	if s == "" {
		return defaultVal
	}
	v, err := strconv.Atoi(s)
	if err != nil {
		return defaultVal
	}
	return v
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, ErrorResponse{Error: ErrorDetail{Code: code, Message: message}})
}
