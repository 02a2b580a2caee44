package main

import (
	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/api/router"
	"github.com/remiblancher/cryptosuite/internal/api/server"
	"github.com/remiblancher/cryptosuite/internal/metrics"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Serve command flags
var (
	servePort    int
	serveHost    string
	serveTLSCert string
	serveTLSKey  string
)

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the REST API server",
	Long: `Start the REST API server for the loaded suite.

Endpoints:
  /health, /ready, /metrics
  /api/v1/suite, /api/v1/scopes/{scope}/digests|signatures
  /api/v1/validate/token, /api/v1/validate/chain
  /api/v1/audit/logs, /api/v1/audit/verify (when an audit log is set)

Flags override the server section of the configuration file.

Examples:
  # Serve on the default port
  cryptosuite serve --suite suite.xml

  # Serve with TLS and an audit log
  cryptosuite serve --suite suite.xml --port 8443 --tls-cert server.crt --tls-key server.key \
      --audit-log /var/log/cryptosuite/audit.jsonl`,
	Args: cobra.NoArgs,
	RunE: runServe,
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "Port to listen on (default: 8080)")
	serveCmd.Flags().StringVar(&serveHost, "host", "", "Host to bind to (default: all interfaces)")
	serveCmd.Flags().StringVar(&serveTLSCert, "tls-cert", "", "TLS certificate file")
	serveCmd.Flags().StringVar(&serveTLSKey, "tls-key", "", "TLS private key file")
}

// serverConfig applies the serve flags to the configured server section.
func serverConfig(cmd *cobra.Command) (*server.Config, error) {
	sc := cfg.Server
	if cmd.Flags().Changed("port") {
		sc.Port = servePort
	}
	if cmd.Flags().Changed("host") {
		sc.Host = serveHost
	}
	if cmd.Flags().Changed("tls-cert") {
		sc.TLSCert = serveTLSCert
	}
	if cmd.Flags().Changed("tls-key") {
		sc.TLSKey = serveTLSKey
	}
	if err := sc.Validate(); err != nil {
		return nil, err
	}
	return &sc, nil
}

func runServe(cmd *cobra.Command, args []string) error {
	sc, err := serverConfig(cmd)
	if err != nil {
		return err
	}

	m := metrics.New()
	catalogue, _, err := loadCatalogue(policy.WithMetrics(m))
	if err != nil {
		return err
	}

	opts := append(cfg.ValidatorOptions(), validation.WithLogger(logger), validation.WithMetrics(m))
	handler := router.New(&router.Config{
		Version:   version,
		Catalogue: catalogue,
		Validator: validation.NewValidator(catalogue, opts...),
		AuditLog:  cfg.Audit.Path,
		Logger:    logger,
		Metrics:   m,
	})

	return server.New(sc, version, handler, logger).Start()
}
