package cli

import (
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/remiblancher/cryptosuite/internal/validation"
)

// PrintTokenResult writes a token verdict followed by its checks.
func PrintTokenResult(w io.Writer, r *validation.TokenResult) {
	id := r.TokenID
	if id == "" {
		id = "-"
	}
	_, _ = fmt.Fprintf(w, "Token:   %s (%s)\n", id, r.Kind)
	_, _ = fmt.Fprintf(w, "Scope:   %s\n", r.Scope)
	_, _ = fmt.Fprintf(w, "Policy:  %s\n", r.PolicyName)
	_, _ = fmt.Fprintf(w, "Status:  %s\n", FormatStatus(r.Status))
	if r.Cryptographic != nil && r.Status != validation.StatusPassed {
		_, _ = fmt.Fprintf(w, "Reason:  %s\n", r.Cryptographic.Message)
	}

	if len(r.Checks) == 0 {
		return
	}
	_, _ = fmt.Fprintln(w)

	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	_, _ = fmt.Fprintln(tw, "  CHECK\tALGORITHM\tPOSITION\tNOT AFTER\tSTATUS")
	for _, c := range r.Checks {
		position := string(c.Position)
		if position == "" {
			position = "-"
		}
		_, _ = fmt.Fprintf(tw, "  %s\t%s\t%s\t%s\t%s\n",
			c.Check, c.Algorithm, position, FormatDate(c.NotAfter), c.Status)
	}
	_ = tw.Flush()
}

// PrintChainResult writes a chain verdict and every token verdict.
func PrintChainResult(w io.Writer, c *validation.ChainResult) {
	_, _ = fmt.Fprintf(w, "Chain status: %s (%d certificates, at %s)\n\n",
		FormatStatus(c.Status), len(c.Tokens), c.ValidationTime.UTC().Format("2006-01-02T15:04:05Z"))
	for i, r := range c.Tokens {
		if i > 0 {
			_, _ = fmt.Fprintln(w)
		}
		PrintTokenResult(w, r)
	}
}
