package nutrition

import (
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/google/uuid"

	"github.com/suvamneog/foodanalyserr/internal/userctx"
)

// Handler handles HTTP requests for nutrition targets.
type Handler struct {
	service *Service
}

// NewHandler creates a new nutrition handler.
func NewHandler(service *Service) *Handler {
	return &Handler{service: service}
}

// HandleGetTargets handles GET /v1/nutrition/targets?profile_id=
func (h *Handler) HandleGetTargets(w http.ResponseWriter, r *http.Request) {
	ownerUserID := userctx.UserIDOrDefault(r.Context())

	profileIDStr := r.URL.Query().Get("profile_id")
	if profileIDStr == "" {
		writeError(w, http.StatusBadRequest, "invalid_request", "profile_id is required")
		return
	}

	profileID, err := uuid.Parse(profileIDStr)
	if err != nil {
		writeError(w, http.StatusBadRequest, "invalid_request", "invalid profile_id format")
		return
	}

	targets, isDefault, err := h.service.GetOrDefault(r.Context(), ownerUserID, profileID)
	if err != nil {
		if errors.Is(err, ErrProfileNotFound) {
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
			return
		}
		writeError(w, http.StatusInternalServerError, "internal_error", "Failed to get nutrition targets")
		return
	}

	writeJSON(w, http.StatusOK, GetTargetsResponse{
		Targets:   targets,
		IsDefault: isDefault,
	})
}

// HandleUpsertTargets handles PUT /v1/nutrition/targets
func (h *Handler) HandleUpsertTargets(w http.ResponseWriter, r *http.Request) {
	ownerUserID := userctx.UserIDOrDefault(r.Context())

	var req UpsertTargetsRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid_payload", "Invalid request body")
		return
	}

	targets, err := h.service.Upsert(r.Context(), ownerUserID, req)
	if err != nil {
		switch {
		case errors.Is(err, ErrProfileNotFound):
			writeError(w, http.StatusNotFound, "profile_not_found", "Profile not found")
		case errors.Is(err, ErrInvalidRequest):
			writeError(w, http.StatusBadRequest, "invalid_request", strings.TrimPrefix(err.Error(), ErrInvalidRequest.Error()+": "))
		default:
			writeError(w, http.StatusInternalServerError, "internal_error", "Failed to upsert nutrition targets")
		}
		return
	}

	writeJSON(w, http.StatusOK, targets)
}

func writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	json.NewEncoder(w).Encode(data)
}

// writeError writes an error response in the standard format.
func writeError(w http.ResponseWriter, status int, code, message string) {
	writeJSON(w, status, map[string]interface{}{
		"error": map[string]string{
			"code":    code,
			"message": message,
		},
	})
}
