package handler

import (
	"net/http"
	"strconv"

	"github.com/remiblancher/cryptosuite/internal/api/dto"
	apierrors "github.com/remiblancher/cryptosuite/internal/api/errors"
	"github.com/remiblancher/cryptosuite/internal/audit"
)

// AuditHandler handles audit-related HTTP requests on one audit log.
type AuditHandler struct {
	path string
}

// NewAuditHandler creates a new AuditHandler. An empty path disables the
// endpoints.
func NewAuditHandler(path string) *AuditHandler {
	return &AuditHandler{path: path}
}

// Logs handles GET /api/v1/audit/logs?limit=n
func (h *AuditHandler) Logs(w http.ResponseWriter, r *http.Request) {
	if h.path == "" {
		respondError(w, http.StatusNotFound, apierrors.NewNotFound("audit log", ""))
		return
	}

	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n < 0 {
			respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("limit must be a non-negative integer"))
			return
		}
		limit = n
	}

	events, err := audit.Tail(h.path, limit)
	if err != nil {
		respondMapped(w, err)
		return
	}

	resp := dto.AuditLogsResponse{
		Logs:  make([]dto.AuditEntry, 0, len(events)),
		Limit: limit,
	}
	for _, e := range events {
		resp.Logs = append(resp.Logs, auditEntry(e))
	}
	respondJSON(w, http.StatusOK, resp)
}

// Verify handles POST /api/v1/audit/verify
func (h *AuditHandler) Verify(w http.ResponseWriter, r *http.Request) {
	if h.path == "" {
		respondError(w, http.StatusNotFound, apierrors.NewNotFound("audit log", ""))
		return
	}

	count, err := audit.VerifyChain(h.path)
	resp := dto.AuditVerifyResponse{
		Valid:      err == nil,
		EntryCount: count,
	}
	if err != nil {
		resp.Errors = []string{err.Error()}
	}
	respondJSON(w, http.StatusOK, resp)
}

func auditEntry(e *audit.Event) dto.AuditEntry {
	subject := e.Object.ID
	if subject == "" {
		subject = e.Object.Path
	}

	details := map[string]string{}
	add := func(k, v string) {
		if v != "" {
			details[k] = v
		}
	}
	add("policy", e.Context.Policy)
	add("scope", e.Context.Scope)
	add("kind", e.Context.Kind)
	add("algorithm", e.Context.Algorithm)
	add("check", e.Context.Check)
	add("status", e.Context.Status)
	add("report_id", e.Context.ReportID)
	add("valid_at", e.Context.ValidAt)
	add("reason", e.Context.Reason)

	return dto.AuditEntry{
		Timestamp: e.Timestamp,
		Operation: string(e.EventType),
		Subject:   subject,
		Details:   details,
		Success:   e.Result == audit.ResultSuccess,
		Hash:      e.Hash,
	}
}
