// Package router provides HTTP routing configuration using Chi.
package router

import (
	_ "embed"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"

	"github.com/remiblancher/cryptosuite/internal/api/handler"
	"github.com/remiblancher/cryptosuite/internal/api/middleware"
	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/metrics"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

//go:embed openapi.yaml
var openapiSpec []byte

// Config holds router configuration.
type Config struct {
	Version   string
	Catalogue *policy.Catalogue
	Validator *validation.Validator

	// AuditLog is the audit log served by the audit endpoints; empty
	// disables them.
	AuditLog string

	Logger  logging.Logger
	Metrics *metrics.Metrics

	// Now is the validation clock; nil uses time.Now.
	Now func() time.Time
}

// New creates a new Chi router with all routes configured.
func New(cfg *Config) http.Handler {
	logger := cfg.Logger
	if logger == nil {
		logger = logging.NewNull()
	}

	r := chi.NewRouter()

	// Global middleware
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(logger))
	r.Use(middleware.Recoverer(logger))
	r.Use(middleware.CORS)
	if cfg.Metrics != nil {
		r.Use(middleware.Metrics(cfg.Metrics))
		r.Method(http.MethodGet, "/metrics", cfg.Metrics.Handler())
	}

	// Health endpoints (always enabled)
	healthHandler := handler.NewHealthHandler(cfg.Version, cfg.Catalogue)
	r.Get("/health", healthHandler.Health)
	r.Get("/ready", healthHandler.Ready)

	// OpenAPI spec
	r.Get("/api/openapi.yaml", serveOpenAPISpec)

	if cfg.Catalogue == nil {
		return r
	}

	suiteHandler := handler.NewSuiteHandler(cfg.Catalogue)
	auditHandler := handler.NewAuditHandler(cfg.AuditLog)

	validator := cfg.Validator
	if validator == nil {
		validator = validation.NewValidator(cfg.Catalogue, validation.WithLogger(logger))
	}
	validationHandler := handler.NewValidationHandler(validator, cfg.Now)

	r.Route("/api/v1", func(r chi.Router) {
		// Suite document and scoped views
		r.Route("/suite", func(r chi.Router) {
			r.Get("/", suiteHandler.Suite)
			r.Get("/digests", suiteHandler.Digests)
			r.Get("/signatures", suiteHandler.Signatures)
		})
		r.Route("/scopes/{scope}", func(r chi.Router) {
			r.Get("/digests", suiteHandler.Digests)
			r.Get("/signatures", suiteHandler.Signatures)
		})

		// Validation chain
		r.Route("/validate", func(r chi.Router) {
			r.Post("/token", validationHandler.Token)
			r.Post("/chain", validationHandler.Chain)
		})

		// Audit operations
		r.Route("/audit", func(r chi.Router) {
			r.Get("/logs", auditHandler.Logs)
			r.Post("/verify", auditHandler.Verify)
		})
	})

	return r
}

// serveOpenAPISpec serves the OpenAPI specification file.
func serveOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	w.Header().Set("Content-Type", "application/yaml")
	w.Header().Set("Cache-Control", "public, max-age=3600")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(openapiSpec)
}
