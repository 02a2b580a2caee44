package main

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/cli"
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// errValidationFailed makes the process exit non-zero on a FAILED verdict.
var errValidationFailed = errors.New("cryptographic validation failed")

var checkCmd = &cobra.Command{
	Use:   "check",
	Short: "Check algorithms against the suite",
	Long: `Check a signature algorithm, its key size and a set of digests against the
suite, as used by one token at a given time.

The token kind selects the usage scope: SIGNATURE, COUNTER_SIGNATURE,
TIMESTAMP, REVOCATION, EVIDENCE_RECORD or CERTIFICATE. A CERTIFICATE token is
checked in the certificate scope of its --context.

Algorithms may be given by name (RSA_SHA256), JWA/JAdES name (RS256), OID or
URI. Digests take an optional position: --digest SHA256:MESSAGE_IMPRINT.

The command exits non-zero when the verdict is FAILED.

Examples:
  # Is RSA 2048 with SHA-256 acceptable for signatures today?
  cryptosuite check --signature RSA_SHA256 --key-size 2048

  # Was a timestamp acceptable in 2020?
  cryptosuite check --kind TIMESTAMP --signature ECDSA_SHA256 --key-size 256 \
      --digest SHA256:MESSAGE_IMPRINT --at 2020-01-01`,
	Args: cobra.NoArgs,
	RunE: runCheck,
}

var (
	checkID        string
	checkKind      string
	checkContext   string
	checkSignature string
	checkKeySize   int
	checkDigests   []string
	checkAt        string
	checkJSON      bool
)

func init() {
	checkCmd.Flags().StringVar(&checkID, "id", "", "Token identifier reported in the verdict")
	checkCmd.Flags().StringVar(&checkKind, "kind", string(validation.KindSignature), "Token kind")
	checkCmd.Flags().StringVar(&checkContext, "context", "", "Chain context of a CERTIFICATE token")
	checkCmd.Flags().StringVar(&checkSignature, "signature", "", "Signature algorithm")
	checkCmd.Flags().IntVar(&checkKeySize, "key-size", 0, "Signing key size in bits")
	checkCmd.Flags().StringArrayVar(&checkDigests, "digest", nil, "Digest algorithm[:POSITION] (repeatable)")
	checkCmd.Flags().StringVar(&checkAt, "at", "", "Validation time, RFC3339 or YYYY-MM-DD (default: now)")
	checkCmd.Flags().BoolVar(&checkJSON, "json", false, "Output as JSON")
}

func runCheck(cmd *cobra.Command, args []string) error {
	token, err := checkToken()
	if err != nil {
		return err
	}
	at, err := cli.ParseTime(checkAt, time.Now())
	if err != nil {
		return err
	}

	catalogue, _, err := loadCatalogue()
	if err != nil {
		return err
	}
	result, err := newValidator(catalogue).ValidateToken(token, at)
	if err != nil {
		return err
	}
	if err := audit.LogTokenValidated(result); err != nil {
		return err
	}

	out := cmd.OutOrStdout()
	if checkJSON {
		if err := writeJSON(out, result); err != nil {
			return err
		}
	} else {
		cli.PrintTokenResult(out, result)
	}

	if result.Status == validation.StatusFailed {
		return errValidationFailed
	}
	return nil
}

// checkToken builds the token described by the check flags.
func checkToken() (validation.Token, error) {
	if checkSignature == "" && len(checkDigests) == 0 {
		return validation.Token{}, fmt.Errorf("nothing to check: use --signature or --digest")
	}

	kind, err := validation.ParseTokenKind(checkKind)
	if err != nil {
		return validation.Token{}, err
	}
	token := validation.Token{ID: checkID, Kind: kind, KeySize: checkKeySize}

	if checkContext != "" {
		if token.Context, err = validation.ParseTokenKind(checkContext); err != nil {
			return validation.Token{}, err
		}
	}
	if checkSignature != "" {
		alg, ok := crypto.LookupSignature(checkSignature)
		if !ok {
			return validation.Token{}, fmt.Errorf("%w: signature algorithm %q", crypto.ErrUnknownAlgorithm, checkSignature)
		}
		token.SignatureAlgorithm = alg
	}
	for _, raw := range checkDigests {
		usage, err := parseDigestFlag(raw)
		if err != nil {
			return validation.Token{}, err
		}
		token.Digests = append(token.Digests, usage)
	}
	return token, nil
}

// parseDigestFlag parses ALG or ALG:POSITION. The position defaults to
// REFERENCE. URIs contain colons, so only the last segment is tried as a
// position.
func parseDigestFlag(raw string) (validation.DigestUsage, error) {
	name, position := raw, validation.PositionReference
	if i := strings.LastIndex(raw, ":"); i > 0 {
		if p, err := validation.ParseDigestPosition(raw[i+1:]); err == nil {
			name, position = raw[:i], p
		}
	}

	alg, ok := crypto.LookupDigest(name)
	if !ok {
		return validation.DigestUsage{}, fmt.Errorf("%w: digest algorithm %q", crypto.ErrUnknownAlgorithm, name)
	}
	return validation.DigestUsage{Algorithm: alg, Position: position}, nil
}

func newValidator(c *policy.Catalogue) *validation.Validator {
	opts := append(cfg.ValidatorOptions(), validation.WithLogger(logger))
	return validation.NewValidator(c, opts...)
}
