package validation

import (
	"time"

	"github.com/remiblancher/cryptosuite/internal/policy"
)

// CheckResult is the outcome of one suite check.
type CheckResult struct {
	Check     policy.Check   `json:"check"`
	Status    Status         `json:"status"`
	Algorithm string         `json:"algorithm"`
	KeySize   int            `json:"key_size,omitempty"`
	Position  DigestPosition `json:"position,omitempty"`

	// NotAfter is the expiration date the check was made against, if any.
	NotAfter *time.Time `json:"not_after,omitempty"`

	Message string `json:"message"`
}

// TokenResult is the verdict for one token.
type TokenResult struct {
	ReportID       string       `json:"report_id"`
	TokenID        string       `json:"token_id"`
	Kind           TokenKind    `json:"kind"`
	Scope          policy.Scope `json:"scope"`
	PolicyName     string       `json:"policy_name"`
	ValidationTime time.Time    `json:"validation_time"`

	// Status is the worst status among Checks.
	Status Status        `json:"status"`
	Checks []CheckResult `json:"checks"`

	// Cryptographic is the first check carrying the worst status. It is nil
	// only when the token uses no algorithm.
	Cryptographic *CheckResult `json:"cryptographic,omitempty"`
}

// Failed returns the checks that did not pass.
func (r *TokenResult) Failed() []CheckResult {
	var out []CheckResult
	for _, c := range r.Checks {
		if c.Status != StatusPassed {
			out = append(out, c)
		}
	}
	return out
}

func (r *TokenResult) finish() {
	r.Status = StatusPassed
	r.Cryptographic = nil
	for i := range r.Checks {
		c := &r.Checks[i]
		if r.Cryptographic == nil || c.Status.IsWorseThan(r.Status) {
			r.Status = Worst(r.Status, c.Status)
			r.Cryptographic = c
		}
	}
}

// ChainResult is the verdict for an ordered set of tokens.
type ChainResult struct {
	ReportID       string         `json:"report_id"`
	ValidationTime time.Time      `json:"validation_time"`
	Status         Status         `json:"status"`
	Tokens         []*TokenResult `json:"tokens"`
}
