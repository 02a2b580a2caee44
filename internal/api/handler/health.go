// Package handler provides HTTP handlers for the REST API.
package handler

import (
	"encoding/json"
	"net/http"

	"github.com/remiblancher/cryptosuite/internal/api/dto"
	apierrors "github.com/remiblancher/cryptosuite/internal/api/errors"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

// HealthHandler handles health and readiness endpoints.
type HealthHandler struct {
	version   string
	catalogue *policy.Catalogue
}

// NewHealthHandler creates a new HealthHandler.
func NewHealthHandler(version string, catalogue *policy.Catalogue) *HealthHandler {
	return &HealthHandler{
		version:   version,
		catalogue: catalogue,
	}
}

// Health handles GET /health.
func (h *HealthHandler) Health(w http.ResponseWriter, r *http.Request) {
	resp := dto.HealthResponse{
		Status:  "ok",
		Version: h.version,
	}
	if h.catalogue != nil {
		resp.Policy = h.catalogue.Metadata().PolicyName
	} else {
		resp.Status = "degraded"
	}

	respondJSON(w, http.StatusOK, resp)
}

// Ready handles GET /ready.
func (h *HealthHandler) Ready(w http.ResponseWriter, r *http.Request) {
	checks := map[string]bool{
		"suite":         h.catalogue != nil,
		"default_scope": false,
	}
	if h.catalogue != nil {
		_, err := h.catalogue.Suite(policy.ScopeDefault)
		checks["default_scope"] = err == nil
	}

	allReady := true
	for _, ready := range checks {
		if !ready {
			allReady = false
			break
		}
	}

	resp := dto.ReadyResponse{
		Ready:  allReady,
		Checks: checks,
	}

	status := http.StatusOK
	if !allReady {
		status = http.StatusServiceUnavailable
	}

	respondJSON(w, status, resp)
}

// respondJSON writes a JSON response.
func respondJSON(w http.ResponseWriter, status int, data any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(data); err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
	}
}

// respondError writes an error response.
func respondError(w http.ResponseWriter, status int, apiErr *dto.APIError) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(apiErr)
}

// respondMapped writes the API error matching err.
func respondMapped(w http.ResponseWriter, err error) {
	status, apiErr := apierrors.MapError(err)
	respondError(w, status, apiErr)
}
