package main

import (
	"encoding/hex"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/cli"
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

var digestCmd = &cobra.Command{
	Use:   "digest <file>",
	Short: "Digest a file and check the digest algorithm",
	Long: `Compute the digest of a file and check the digest algorithm against the
suite scope of the token kind that would reference it.

Examples:
  # SHA3-256 digest of a document referenced by a signature
  cryptosuite digest contract.pdf --algorithm SHA3-256

  # Message imprint of a timestamp request, as of 2020
  cryptosuite digest data.bin --kind TIMESTAMP --position MESSAGE_IMPRINT --at 2020-01-01`,
	Args: cobra.ExactArgs(1),
	RunE: runDigest,
}

var (
	digestAlgorithm string
	digestKind      string
	digestPosition  string
	digestAt        string
	digestJSON      bool
)

func init() {
	digestCmd.Flags().StringVarP(&digestAlgorithm, "algorithm", "a", string(crypto.DigestSHA256), "Digest algorithm")
	digestCmd.Flags().StringVar(&digestKind, "kind", string(validation.KindSignature), "Kind of the referencing token")
	digestCmd.Flags().StringVar(&digestPosition, "position", string(validation.PositionReference), "Digest position in the token")
	digestCmd.Flags().StringVar(&digestAt, "at", "", "Validation time, RFC3339 or YYYY-MM-DD (default: now)")
	digestCmd.Flags().BoolVar(&digestJSON, "json", false, "Output as JSON")
}

type digestReport struct {
	File      string                  `json:"file"`
	Algorithm crypto.DigestAlgorithm  `json:"algorithm"`
	Digest    string                  `json:"digest"`
	Result    *validation.TokenResult `json:"result"`
}

func runDigest(cmd *cobra.Command, args []string) error {
	alg, ok := crypto.LookupDigest(digestAlgorithm)
	if !ok {
		return fmt.Errorf("%w: digest algorithm %q", crypto.ErrUnknownAlgorithm, digestAlgorithm)
	}
	kind, err := validation.ParseTokenKind(digestKind)
	if err != nil {
		return err
	}
	position, err := validation.ParseDigestPosition(digestPosition)
	if err != nil {
		return err
	}
	at, err := cli.ParseTime(digestAt, time.Now())
	if err != nil {
		return err
	}

	sum, err := digestFile(args[0], alg)
	if err != nil {
		return err
	}

	catalogue, _, err := loadCatalogue()
	if err != nil {
		return err
	}
	result, err := newValidator(catalogue).ValidateToken(validation.Token{
		ID:      args[0],
		Kind:    kind,
		Digests: []validation.DigestUsage{{Algorithm: alg, Position: position}},
	}, at)
	if err != nil {
		return err
	}
	if err := audit.LogTokenValidated(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if digestJSON {
		if err := writeJSON(out, digestReport{File: args[0], Algorithm: alg, Digest: sum, Result: result}); err != nil {
			return err
		}
	} else {
		_, _ = fmt.Fprintf(out, "%s (%s) = %s\n\n", alg, args[0], sum)
		cli.PrintTokenResult(out, result)
	}

	if result.Status == validation.StatusFailed {
		return errValidationFailed
	}
	return nil
}

func digestFile(path string, alg crypto.DigestAlgorithm) (string, error) {
	h, err := alg.New()
	if err != nil {
		return "", err
	}
	f, err := os.Open(path)
	if err != nil {
		return "", fmt.Errorf("failed to open %s: %w", path, err)
	}
	defer func() { _ = f.Close() }()

	if _, err := io.Copy(h, f); err != nil {
		return "", fmt.Errorf("failed to read %s: %w", path, err)
	}
	return hex.EncodeToString(h.Sum(nil)), nil
}
