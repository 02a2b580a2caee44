package handler

import (
	"net/http"
	"sort"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/cryptosuite/internal/api/dto"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

// SuiteHandler serves the suite document and its usage-scoped views.
type SuiteHandler struct {
	catalogue *policy.Catalogue
}

// NewSuiteHandler creates a new SuiteHandler.
func NewSuiteHandler(catalogue *policy.Catalogue) *SuiteHandler {
	return &SuiteHandler{catalogue: catalogue}
}

// Suite handles GET /api/v1/suite
func (h *SuiteHandler) Suite(w http.ResponseWriter, r *http.Request) {
	m := h.catalogue.Metadata()

	resp := dto.SuiteResponse{
		PolicyName: m.PolicyName,
		PolicyOID:  m.PolicyOID,
		PolicyURI:  m.PolicyURI,
		IssueDate:  formatDate(m.IssueDate),
		NextUpdate: formatDate(m.NextUpdate),
		Version:    m.Version,
		Language:   m.Language,
		Entries:    len(h.catalogue.Algorithms()),
	}
	if m.PublisherName != "" || m.PublisherAddress != "" || m.PublisherURI != "" {
		resp.Publisher = &dto.PublisherInfo{
			Name:    m.PublisherName,
			Address: m.PublisherAddress,
			URI:     m.PublisherURI,
		}
	}
	for _, s := range policy.Scopes() {
		resp.Scopes = append(resp.Scopes, string(s))
	}

	respondJSON(w, http.StatusOK, resp)
}

// Digests handles GET /api/v1/suite/digests and
// GET /api/v1/scopes/{scope}/digests
func (h *SuiteHandler) Digests(w http.ResponseWriter, r *http.Request) {
	suite, err := h.suite(r)
	if err != nil {
		respondMapped(w, err)
		return
	}

	resp := dto.DigestsResponse{
		Scope:   string(suite.Scope()),
		Digests: []dto.DigestInfo{},
	}
	for alg, end := range suite.AcceptableDigestAlgorithmsWithExpirationDates() {
		resp.Digests = append(resp.Digests, dto.DigestInfo{
			Algorithm: string(alg),
			OID:       alg.OID(),
			NotAfter:  optionalDate(end),
		})
	}
	sort.Slice(resp.Digests, func(i, j int) bool {
		return resp.Digests[i].Algorithm < resp.Digests[j].Algorithm
	})

	respondJSON(w, http.StatusOK, resp)
}

// Signatures handles GET /api/v1/suite/signatures and
// GET /api/v1/scopes/{scope}/signatures
func (h *SuiteHandler) Signatures(w http.ResponseWriter, r *http.Request) {
	suite, err := h.suite(r)
	if err != nil {
		respondMapped(w, err)
		return
	}

	expirations := suite.AcceptableSignatureAlgorithmsWithExpirationDates()
	resp := dto.SignaturesResponse{
		Scope:      string(suite.Scope()),
		Signatures: []dto.SignatureInfo{},
	}
	for _, tier := range suite.AcceptableSignatureAlgorithmsWithMinKeySizes() {
		resp.Signatures = append(resp.Signatures, dto.SignatureInfo{
			Algorithm:  string(tier.Algorithm),
			OID:        tier.Algorithm.OID(),
			MinKeySize: tier.MinKeySize,
			NotAfter:   optionalDate(expirations[tier]),
		})
	}

	respondJSON(w, http.StatusOK, resp)
}

// suite returns the suite named by the {scope} URL parameter, or the
// unfiltered suite when the route has none.
func (h *SuiteHandler) suite(r *http.Request) (*policy.Suite, error) {
	name := chi.URLParam(r, "scope")
	if name == "" {
		return h.catalogue.Suite(policy.ScopeDefault)
	}
	scope, err := policy.ParseScope(name)
	if err != nil {
		return nil, err
	}
	return h.catalogue.Suite(scope)
}

func formatDate(t *time.Time) string {
	if t == nil {
		return ""
	}
	return t.UTC().Format(time.RFC3339)
}

func optionalDate(t *time.Time) *string {
	if t == nil {
		return nil
	}
	s := formatDate(t)
	return &s
}
