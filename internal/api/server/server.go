package server

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/remiblancher/cryptosuite/internal/logging"
)

// Server represents the HTTP server.
type Server struct {
	cfg     *Config
	version string
	handler http.Handler
	logger  logging.Logger
	srv     *http.Server
}

// New creates a new Server serving handler.
func New(cfg *Config, version string, handler http.Handler, logger logging.Logger) *Server {
	if logger == nil {
		logger = logging.NewNull()
	}
	return &Server{
		cfg:     cfg,
		version: version,
		handler: handler,
		logger:  logger,
	}
}

// Start starts the HTTP server and blocks until SIGINT or SIGTERM.
func (s *Server) Start() error {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	s.printStartupInfo()
	return s.Run(ctx)
}

// Run serves until ctx is done, then shuts down gracefully.
func (s *Server) Run(ctx context.Context) error {
	s.srv = &http.Server{
		Addr:         s.cfg.Address(),
		Handler:      s.handler,
		ReadTimeout:  s.cfg.ReadTimeout,
		WriteTimeout: s.cfg.WriteTimeout,
		IdleTimeout:  s.cfg.IdleTimeout,
	}

	errChan := make(chan error, 1)
	go func() {
		if s.cfg.UseTLS() {
			errChan <- s.srv.ListenAndServeTLS(s.cfg.TLSCert, s.cfg.TLSKey)
		} else {
			errChan <- s.srv.ListenAndServe()
		}
	}()
	s.logger.Info("Listening on {Address}", s.cfg.Address())

	select {
	case err := <-errChan:
		if err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("server error: %w", err)
		}
		return nil
	case <-ctx.Done():
		s.logger.Info("Shutting down: {Reason}", context.Cause(ctx))
		return s.shutdown()
	}
}

// shutdown gracefully stops the server.
func (s *Server) shutdown() error {
	ctx, cancel := context.WithTimeout(context.Background(), s.cfg.ShutdownTimeout)
	defer cancel()

	if err := s.srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("shutdown error: %w", err)
	}
	s.logger.Info("Server stopped gracefully")
	return nil
}

// printStartupInfo prints server startup information.
func (s *Server) printStartupInfo() {
	scheme := "http"
	if s.cfg.UseTLS() {
		scheme = "https"
	}

	fmt.Println()
	fmt.Println("Cryptographic Suite API Server")
	fmt.Println("==============================")
	fmt.Printf("  Version:  %s\n", s.version)
	fmt.Printf("  Address:  %s://%s\n", scheme, s.cfg.Address())
	if s.cfg.UseTLS() {
		fmt.Println("  TLS:      enabled")
	}
	fmt.Println()
	s.printEndpoints()
	fmt.Println()
	fmt.Println("Use Ctrl+C to stop")
	fmt.Println()
}

// printEndpoints prints available endpoints.
func (s *Server) printEndpoints() {
	fmt.Println("Endpoints:")
	fmt.Println("  GET  /health                            - Health check")
	fmt.Println("  GET  /ready                             - Readiness check")
	fmt.Println("  GET  /metrics                           - Prometheus metrics")
	fmt.Println("  GET  /api/openapi.yaml                  - OpenAPI specification")
	fmt.Println("  GET  /api/v1/suite                      - Suite metadata")
	fmt.Println("  GET  /api/v1/scopes/{scope}/digests     - Acceptable digests")
	fmt.Println("  GET  /api/v1/scopes/{scope}/signatures  - Acceptable signatures")
	fmt.Println("  POST /api/v1/validate/token             - Validate a token")
	fmt.Println("  POST /api/v1/validate/chain             - Validate a certificate chain")
}
