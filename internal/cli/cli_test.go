package cli

import (
	"bytes"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// =============================================================================
// Formatting Tests
// =============================================================================

func TestU_FormatStatus(t *testing.T) {
	tests := []struct {
		status validation.Status
		color  string
	}{
		{validation.StatusPassed, ColorGreen},
		{validation.StatusFailed, ColorRed},
		{validation.StatusWarning, ColorYellow},
		{validation.StatusInfo, ColorBlue},
	}

	for _, tt := range tests {
		t.Run("[Unit] FormatStatus: "+string(tt.status), func(t *testing.T) {
			got := FormatStatus(tt.status)
			if !strings.HasPrefix(got, tt.color) || !strings.Contains(got, string(tt.status)) {
				t.Errorf("FormatStatus(%s) = %q", tt.status, got)
			}
		})
	}

	if got := FormatStatus("OTHER"); got != "OTHER" {
		t.Errorf("FormatStatus(OTHER) = %q, want plain text", got)
	}
}

func TestU_FormatDate(t *testing.T) {
	if got := FormatDate(nil); got != NoExpiration {
		t.Errorf("FormatDate(nil) = %q, want %q", got, NoExpiration)
	}
	d := time.Date(2029, 1, 1, 0, 0, 0, 0, time.UTC)
	if got := FormatDate(&d); got != "2029-01-01" {
		t.Errorf("FormatDate() = %q, want 2029-01-01", got)
	}
}

func TestU_FirstOrEmpty(t *testing.T) {
	if got := FirstOrEmpty(nil); got != "" {
		t.Errorf("FirstOrEmpty(nil) = %q", got)
	}
	if got := FirstOrEmpty([]string{"a", "b"}); got != "a" {
		t.Errorf("FirstOrEmpty() = %q, want a", got)
	}
}

func TestU_ParseTime(t *testing.T) {
	now := time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC)

	tests := []struct {
		name    string
		in      string
		want    time.Time
		wantErr bool
	}{
		{"[Unit] ParseTime: empty is now", "", now, false},
		{"[Unit] ParseTime: RFC3339", "2020-02-03T04:05:06Z", time.Date(2020, 2, 3, 4, 5, 6, 0, time.UTC), false},
		{"[Unit] ParseTime: date only", "2020-02-03", time.Date(2020, 2, 3, 0, 0, 0, 0, time.UTC), false},
		{"[Unit] ParseTime: invalid", "03/02/2020", time.Time{}, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := ParseTime(tt.in, now)
			if (err != nil) != tt.wantErr {
				t.Fatalf("ParseTime(%q) error = %v, wantErr %v", tt.in, err, tt.wantErr)
			}
			if !got.Equal(tt.want) {
				t.Errorf("ParseTime(%q) = %v, want %v", tt.in, got, tt.want)
			}
		})
	}
}

// =============================================================================
// Report Tests
// =============================================================================

func sampleResult() *validation.TokenResult {
	end := time.Date(2019, 10, 1, 0, 0, 0, 0, time.UTC)
	check := validation.CheckResult{
		Check:     policy.CheckExpirationDate,
		Status:    validation.StatusFailed,
		Algorithm: "RSA_SHA256",
		KeySize:   1024,
		NotAfter:  &end,
		Message:   "RSA_SHA256 expired on 2019-10-01",
	}
	return &validation.TokenResult{
		TokenID:    "leaf",
		Kind:       validation.KindCertificate,
		Scope:      policy.ScopeSignatureCertificates,
		PolicyName: "Test Suite",
		Status:     validation.StatusFailed,
		Checks: []validation.CheckResult{
			{
				Check:     policy.CheckAcceptableDigestAlgorithms,
				Status:    validation.StatusPassed,
				Algorithm: "SHA256",
				Position:  validation.PositionMessageImprint,
			},
			check,
		},
		Cryptographic: &check,
	}
}

func TestU_PrintTokenResult(t *testing.T) {
	var buf bytes.Buffer
	PrintTokenResult(&buf, sampleResult())
	out := buf.String()

	for _, want := range []string{
		"leaf (CERTIFICATE)",
		"signature-certificates",
		"Test Suite",
		"Reason:  RSA_SHA256 expired on 2019-10-01",
		"expiration_date",
		"2019-10-01",
		string(validation.PositionMessageImprint),
		NoExpiration,
	} {
		if !strings.Contains(out, want) {
			t.Errorf("PrintTokenResult() output missing %q:\n%s", want, out)
		}
	}
}

func TestU_PrintChainResult(t *testing.T) {
	var buf bytes.Buffer
	PrintChainResult(&buf, &validation.ChainResult{
		ValidationTime: time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC),
		Status:         validation.StatusFailed,
		Tokens:         []*validation.TokenResult{sampleResult(), sampleResult()},
	})
	out := buf.String()

	if !strings.Contains(out, "2 certificates, at 2024-06-01T00:00:00Z") {
		t.Errorf("PrintChainResult() header missing:\n%s", out)
	}
	if n := strings.Count(out, "Token:"); n != 2 {
		t.Errorf("PrintChainResult() printed %d tokens, want 2", n)
	}
}

// =============================================================================
// Chain Loading Tests
// =============================================================================

func TestU_LoadChainFromPath_Errors(t *testing.T) {
	dir := t.TempDir()

	if _, err := LoadChainFromPath(filepath.Join(dir, "missing.pem")); err == nil {
		t.Error("LoadChainFromPath() should fail for a missing file")
	}

	path := filepath.Join(dir, "empty.pem")
	if err := os.WriteFile(path, []byte("not a certificate"), 0644); err != nil {
		t.Fatal(err)
	}
	if _, err := LoadChainFromPath(path); err == nil {
		t.Error("LoadChainFromPath() should fail without certificates")
	}
}
