package handler

import (
	"encoding/json"
	"fmt"
	"net/http"
	"time"

	"github.com/remiblancher/cryptosuite/internal/api/dto"
	apierrors "github.com/remiblancher/cryptosuite/internal/api/errors"
	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// ValidationHandler runs the validation chain on submitted tokens.
type ValidationHandler struct {
	validator *validation.Validator
	now       func() time.Time
}

// NewValidationHandler creates a new ValidationHandler. A nil clock uses
// time.Now.
func NewValidationHandler(v *validation.Validator, now func() time.Time) *ValidationHandler {
	if now == nil {
		now = time.Now
	}
	return &ValidationHandler{validator: v, now: now}
}

// Token handles POST /api/v1/validate/token
func (h *ValidationHandler) Token(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateTokenRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Invalid JSON request body"))
		return
	}

	at, err := h.validationTime(req.ValidationTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewValidationError(err.Error(),
			map[string]string{"field": "validation_time"}))
		return
	}
	token, err := tokenFromRequest(req.Token)
	if err != nil {
		respondMapped(w, err)
		return
	}

	result, err := h.validator.ValidateToken(token, at)
	if err != nil {
		respondMapped(w, err)
		return
	}
	if err := audit.LogTokenValidated(result); err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

// Chain handles POST /api/v1/validate/chain
func (h *ValidationHandler) Chain(w http.ResponseWriter, r *http.Request) {
	var req dto.ValidateChainRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewBadRequest("Invalid JSON request body"))
		return
	}

	at, err := h.validationTime(req.ValidationTime)
	if err != nil {
		respondError(w, http.StatusBadRequest, apierrors.NewValidationError(err.Error(),
			map[string]string{"field": "validation_time"}))
		return
	}
	context := validation.KindSignature
	if req.Context != "" {
		if context, err = validation.ParseTokenKind(req.Context); err != nil {
			respondMapped(w, err)
			return
		}
	}
	certs, err := req.Chain.Certificates()
	if err != nil {
		respondMapped(w, err)
		return
	}
	tokens, err := validation.TokensFromChain(certs, context)
	if err != nil {
		respondMapped(w, err)
		return
	}
	result, err := h.validator.ValidateChain(tokens, at)
	if err != nil {
		respondMapped(w, err)
		return
	}
	if err := audit.LogChainValidated(result); err != nil {
		respondMapped(w, err)
		return
	}

	respondJSON(w, http.StatusOK, result)
}

func (h *ValidationHandler) validationTime(raw string) (time.Time, error) {
	if raw == "" {
		return h.now().UTC(), nil
	}
	at, err := time.Parse(time.RFC3339, raw)
	if err != nil {
		return time.Time{}, fmt.Errorf("validation_time must be RFC3339: %q", raw)
	}
	return at, nil
}

// tokenFromRequest resolves the names of a token request.
func tokenFromRequest(req dto.TokenRequest) (validation.Token, error) {
	kind, err := validation.ParseTokenKind(req.Kind)
	if err != nil {
		return validation.Token{}, err
	}
	token := validation.Token{ID: req.ID, Kind: kind, KeySize: req.KeySize}

	if req.Context != "" {
		if token.Context, err = validation.ParseTokenKind(req.Context); err != nil {
			return validation.Token{}, err
		}
	}
	if req.SignatureAlgorithm != "" {
		alg, ok := crypto.LookupSignature(req.SignatureAlgorithm)
		if !ok {
			return validation.Token{}, fmt.Errorf("%w: signature algorithm %q",
				crypto.ErrUnknownAlgorithm, req.SignatureAlgorithm)
		}
		token.SignatureAlgorithm = alg
	}
	for _, d := range req.Digests {
		alg, ok := crypto.LookupDigest(d.Algorithm)
		if !ok {
			return validation.Token{}, fmt.Errorf("%w: digest algorithm %q", crypto.ErrUnknownAlgorithm, d.Algorithm)
		}
		pos, err := validation.ParseDigestPosition(d.Position)
		if err != nil {
			return validation.Token{}, err
		}
		token.Digests = append(token.Digests, validation.DigestUsage{Algorithm: alg, Position: pos})
	}
	return token, nil
}
