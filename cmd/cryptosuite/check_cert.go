package main

import (
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/cli"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

var checkCertCmd = &cobra.Command{
	Use:   "check-cert <chain.pem>",
	Short: "Check the algorithms of a certificate chain",
	Long: `Check every certificate of a PEM chain against the suite.

The chain is ordered leaf first. Each certificate is checked with the key size
of its issuer, the next certificate in the file, or its own key for the last
one. The --context names the object the chain supports and selects the
certificate scope: SIGNATURE, COUNTER_SIGNATURE, TIMESTAMP, REVOCATION or
EVIDENCE_RECORD.

The command exits non-zero when the chain verdict is FAILED.

Examples:
  cryptosuite check-cert chain.pem --suite suite.xml
  cryptosuite check-cert tsa-chain.pem --context TIMESTAMP --at 2021-06-01`,
	Args: cobra.ExactArgs(1),
	RunE: runCheckCert,
}

var (
	checkCertContext string
	checkCertAt      string
	checkCertJSON    bool
)

func init() {
	checkCertCmd.Flags().StringVar(&checkCertContext, "context", string(validation.KindSignature), "Object the chain supports")
	checkCertCmd.Flags().StringVar(&checkCertAt, "at", "", "Validation time, RFC3339 or YYYY-MM-DD (default: now)")
	checkCertCmd.Flags().BoolVar(&checkCertJSON, "json", false, "Output as JSON")
}

func runCheckCert(cmd *cobra.Command, args []string) error {
	context, err := validation.ParseTokenKind(checkCertContext)
	if err != nil {
		return err
	}
	at, err := cli.ParseTime(checkCertAt, time.Now())
	if err != nil {
		return err
	}
	certs, err := cli.LoadChainFromPath(args[0])
	if err != nil {
		return err
	}
	tokens, err := validation.TokensFromChain(certs, context)
	if err != nil {
		return err
	}

	catalogue, _, err := loadCatalogue()
	if err != nil {
		return err
	}
	result, err := newValidator(catalogue).ValidateChain(tokens, at)
	if err != nil {
		return err
	}
	if err := audit.LogChainValidated(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkCertJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		cli.PrintChainResult(out, result)
	}

	if result.Status == validation.StatusFailed {
		return errValidationFailed
	}
	return nil
}
