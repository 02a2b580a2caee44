// Package cli holds the rendering helpers shared by the cryptosuite commands.
package cli

import (
	"crypto/x509"
	"fmt"
	"os"
	"time"

	"github.com/remiblancher/cryptosuite/internal/validation"
)

// NoExpiration is printed for algorithms without an end date.
const NoExpiration = "no expiration"

// FirstOrEmpty returns the first element of a slice or an empty string.
func FirstOrEmpty(s []string) string {
	if len(s) > 0 {
		return s[0]
	}
	return ""
}

// FormatDate formats an optional date as YYYY-MM-DD.
func FormatDate(t *time.Time) string {
	if t == nil {
		return NoExpiration
	}
	return t.UTC().Format(time.DateOnly)
}

// ParseTime parses a validation time given as RFC3339 or YYYY-MM-DD.
// An empty string returns now.
func ParseTime(s string, now time.Time) (time.Time, error) {
	if s == "" {
		return now.UTC(), nil
	}
	if t, err := time.Parse(time.RFC3339, s); err == nil {
		return t.UTC(), nil
	}
	t, err := time.Parse(time.DateOnly, s)
	if err != nil {
		return time.Time{}, fmt.Errorf("invalid time %q: expected RFC3339 or YYYY-MM-DD", s)
	}
	return t, nil
}

// LoadChainFromPath loads a PEM certificate chain, leaf first.
func LoadChainFromPath(path string) ([]*x509.Certificate, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read certificate file: %w", err)
	}
	return validation.ParseCertificatesPEM(data)
}
