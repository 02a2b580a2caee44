// Command cryptosuite queries cryptographic suites and checks algorithms
// against them.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/config"
	"github.com/remiblancher/cryptosuite/internal/logging"
)

// Build-time variables (injected by GoReleaser)
var (
	version = "dev"
	commit  = "none"
	date    = "unknown"
)

// Global flags
var (
	configPath   string
	suitePath    string
	auditLogPath string
	logLevel     string
)

// Loaded by the root command before any subcommand runs.
var (
	cfg    *config.Config
	logger logging.Logger = logging.NewNull()
)

func main() {
	err := rootCmd.Execute()
	_ = audit.Close()
	if err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

var rootCmd = &cobra.Command{
	Use:   "cryptosuite",
	Short: "Cryptographic suite policy engine",
	Long: `cryptosuite evaluates digest and signature algorithms against a
cryptographic suite (ETSI TS 119 312 / TS 119 322 catalogue).

A suite lists algorithms by OID or URI with time-bounded evaluations.
Signature algorithms are taken from explicit entries or derived from
encryption x digest pairs, and every usage scope (signatures, certificates,
timestamps, revocation data, evidence records) gets its own view.

Suite documents may be XML, JSON or YAML.

Examples:
  # Show suite metadata
  cryptosuite inspect --suite suite.xml

  # List acceptable signature algorithms for certificates
  cryptosuite signatures --suite suite.xml --scope signature-certificates

  # Check an algorithm at a given time
  cryptosuite check --suite suite.xml --signature RSA_SHA256 --key-size 2048 --at 2024-01-01

  # Check a certificate chain
  cryptosuite check-cert chain.pem --suite suite.xml

  # Serve the REST API
  cryptosuite serve --suite suite.xml --port 8080`,
	Version:       fmt.Sprintf("%s (commit: %s, built: %s)", version, commit, date),
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load(configPath)
		if err != nil {
			return err
		}
		if suitePath != "" {
			c.Suite.Path = suitePath
		}
		if auditLogPath != "" {
			c.Audit.Path = auditLogPath
		}
		if logLevel != "" {
			c.Log.Level = logLevel
			if err := c.Validate(); err != nil {
				return err
			}
		}
		cfg = c
		logger = logging.New(cmd.ErrOrStderr(), cfg.LogLevel())

		// Initialize audit logging
		_ = audit.Close()
		if cfg.Audit.Path != "" {
			if err := audit.InitFile(cfg.Audit.Path, audit.NewLogWriter(logger)); err != nil {
				return fmt.Errorf("failed to initialize audit log: %w", err)
			}
		}
		return nil
	},
	PersistentPostRunE: func(cmd *cobra.Command, args []string) error {
		// Close audit log
		return audit.Close()
	},
}

func init() {
	// Global persistent flags
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "",
		"Path to configuration file (or set "+config.EnvConfig+" env var)")
	rootCmd.PersistentFlags().StringVarP(&suitePath, "suite", "s", "",
		"Path to suite document (or set "+config.EnvSuite+" env var)")
	rootCmd.PersistentFlags().StringVar(&auditLogPath, "audit-log", "",
		"Path to audit log file (or set "+config.EnvAuditLog+" env var)")
	rootCmd.PersistentFlags().StringVar(&logLevel, "log-level", "",
		"Log level: debug, info, warn, error (or set "+config.EnvLogLevel+" env var)")

	// Suite queries
	rootCmd.AddCommand(inspectCmd)
	rootCmd.AddCommand(digestsCmd)
	rootCmd.AddCommand(signaturesCmd)

	// Validation
	rootCmd.AddCommand(checkCmd)
	rootCmd.AddCommand(checkCertCmd)
	rootCmd.AddCommand(digestCmd)

	// REST API
	rootCmd.AddCommand(serveCmd)

	rootCmd.AddCommand(auditCmd)
}
