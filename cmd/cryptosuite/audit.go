package main

import (
	"errors"
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
)

var auditCmd = &cobra.Command{
	Use:   "audit",
	Short: "Audit log management",
	Long: `Commands for managing and verifying audit logs.

The audit log records every suite load and every validation verdict,
separately from the technical logs. Each event is cryptographically chained
using SHA-256 hashes.

The log defaults to the one given by --audit-log or the configuration.

Examples:
  # Verify audit log integrity
  cryptosuite audit verify --log /var/log/cryptosuite/audit.jsonl

  # Show last 10 events
  cryptosuite audit tail --log /var/log/cryptosuite/audit.jsonl -n 10`,
}

var auditVerifyCmd = &cobra.Command{
	Use:   "verify",
	Short: "Verify audit log integrity",
	Long: `Verify the cryptographic hash chain of an audit log file.

Each event in the log contains:
  - hash_prev: SHA-256 hash of the previous event
  - hash: SHA-256 hash of the current event

The chain starts with hash_prev="sha256:genesis" for the first event.

If the chain is broken (events modified, deleted, or inserted),
this command will report the location and nature of the tampering.`,
	Args: cobra.NoArgs,
	RunE: runAuditVerify,
}

var auditTailCmd = &cobra.Command{
	Use:   "tail",
	Short: "Show recent audit events",
	Long:  `Display the most recent audit events from the log file.`,
	Args:  cobra.NoArgs,
	RunE:  runAuditTail,
}

var (
	auditLogFile  string
	auditTailNum  int
	auditShowJSON bool
)

func init() {
	auditVerifyCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file")

	auditTailCmd.Flags().StringVar(&auditLogFile, "log", "", "Path to audit log file")
	auditTailCmd.Flags().IntVarP(&auditTailNum, "num", "n", 10, "Number of events to show")
	auditTailCmd.Flags().BoolVar(&auditShowJSON, "json", false, "Output as JSON")

	auditCmd.AddCommand(auditVerifyCmd)
	auditCmd.AddCommand(auditTailCmd)
}

func auditLog() (string, error) {
	if auditLogFile != "" {
		return auditLogFile, nil
	}
	if cfg != nil && cfg.Audit.Path != "" {
		return cfg.Audit.Path, nil
	}
	return "", errors.New("no audit log: use --log or --audit-log")
}

func runAuditVerify(cmd *cobra.Command, args []string) error {
	path, err := auditLog()
	if err != nil {
		return err
	}
	out := cmd.OutOrStdout()
	_, _ = fmt.Fprintf(out, "Verifying audit log: %s\n\n", path)

	count, err := audit.VerifyChain(path)
	if err != nil {
		_, _ = fmt.Fprintf(out, "VERIFICATION FAILED\n")
		_, _ = fmt.Fprintf(out, "  Valid events: %d\n", count)
		_, _ = fmt.Fprintf(out, "  Error: %s\n", err)
		return fmt.Errorf("audit log verification failed: %w", err)
	}

	_, _ = fmt.Fprintf(out, "VERIFICATION PASSED\n")
	_, _ = fmt.Fprintf(out, "  Total events: %d\n", count)
	_, _ = fmt.Fprintf(out, "  Hash chain: VALID\n")

	return nil
}

func runAuditTail(cmd *cobra.Command, args []string) error {
	path, err := auditLog()
	if err != nil {
		return err
	}
	events, err := audit.Tail(path, auditTailNum)
	if err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if auditShowJSON {
		return writeJSON(out, events)
	}
	if len(events) == 0 {
		_, _ = fmt.Fprintln(out, "Audit log is empty")
		return nil
	}

	for _, event := range events {
		printEvent(out, event)
	}
	return nil
}

func printEvent(w io.Writer, e *audit.Event) {
	resultIcon := "✓"
	if e.Result == audit.ResultFailure {
		resultIcon = "✗"
	}

	_, _ = fmt.Fprintf(w, "[%s] %s %s\n", e.Timestamp, resultIcon, e.EventType)
	_, _ = fmt.Fprintf(w, "    Actor:  %s@%s\n", e.Actor.ID, e.Actor.Host)

	if e.Object.Type != "" {
		_, _ = fmt.Fprintf(w, "    Object: %s", e.Object.Type)
		if e.Object.ID != "" {
			_, _ = fmt.Fprintf(w, " id=%s", e.Object.ID)
		}
		if e.Object.Name != "" {
			_, _ = fmt.Fprintf(w, " name=%q", e.Object.Name)
		}
		if e.Object.Path != "" {
			_, _ = fmt.Fprintf(w, " path=%s", e.Object.Path)
		}
		_, _ = fmt.Fprintln(w)
	}

	c := e.Context
	if c.Scope != "" || c.Algorithm != "" || c.Status != "" || c.Reason != "" {
		_, _ = fmt.Fprint(w, "    Context:")
		if c.Scope != "" {
			_, _ = fmt.Fprintf(w, " scope=%s", c.Scope)
		}
		if c.Algorithm != "" {
			_, _ = fmt.Fprintf(w, " algorithm=%s", c.Algorithm)
		}
		if c.Check != "" {
			_, _ = fmt.Fprintf(w, " check=%s", c.Check)
		}
		if c.Status != "" {
			_, _ = fmt.Fprintf(w, " status=%s", c.Status)
		}
		if c.Reason != "" {
			_, _ = fmt.Fprintf(w, " reason=%q", c.Reason)
		}
		_, _ = fmt.Fprintln(w)
	}

	_, _ = fmt.Fprintln(w)
}
