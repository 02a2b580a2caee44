package main

import (
	"bytes"
	"crypto/ecdsa"
	"crypto/elliptic"
	"crypto/rand"
	"crypto/x509"
	"crypto/x509/pkix"
	"encoding/pem"
	"math/big"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/spf13/cobra"

	"github.com/remiblancher/cryptosuite/internal/audit"
	"github.com/remiblancher/cryptosuite/internal/config"
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

const testSuite = `
policy_name: CLI test suite
version: "1"
next_update: 2030-01-01
algorithms:
  - name: MD5
    oids: [1.2.840.113549.2.5]
    evaluations:
      - end: 2004-08-01
  - name: SHA256
    oids: [2.16.840.1.101.3.4.2.1]
    evaluations:
      - {}
  - name: SHA384
    oids: [2.16.840.1.101.3.4.2.2]
    evaluations:
      - usages: [sign-timestamps]
  - name: RSA
    oids: [1.2.840.113549.1.1.1]
    evaluations:
      - parameters: [{name: moduluslength, min: 1024}]
        end: 2019-10-01
      - parameters: [{name: moduluslength, min: 3000}]
  - name: ECDSA
    oids: [1.2.840.10045.2.1]
    evaluations:
      - parameters: [{name: plength, min: 256}]
`

// executeCommand executes a Cobra command with the given args and returns
// its standard output. Logs go to a separate buffer so JSON output parses.
func executeCommand(root *cobra.Command, args ...string) (output string, err error) {
	buf := new(bytes.Buffer)
	root.SetOut(buf)
	root.SetErr(new(bytes.Buffer))
	root.SetArgs(args)

	err = root.Execute()
	return buf.String(), err
}

// resetFlags resets all command flags to their default values.
func resetFlags() {
	configPath = ""
	suitePath = ""
	auditLogPath = ""
	logLevel = ""

	suiteScope = string(policy.ScopeDefault)
	suiteJSON = false

	checkID = ""
	checkKind = string(validation.KindSignature)
	checkContext = ""
	checkSignature = ""
	checkKeySize = 0
	checkDigests = nil
	checkAt = ""
	checkJSON = false

	checkCertContext = string(validation.KindSignature)
	checkCertAt = ""
	checkCertJSON = false

	digestAlgorithm = string(crypto.DigestSHA256)
	digestKind = string(validation.KindSignature)
	digestPosition = string(validation.PositionReference)
	digestAt = ""
	digestJSON = false

	auditLogFile = ""
	auditTailNum = 10
	auditShowJSON = false

	_ = audit.Close()
}

// testContext holds test resources.
type testContext struct {
	t       *testing.T
	tempDir string
}

// newTestContext creates a new test context with a temp directory and
// clean flags and environment.
func newTestContext(t *testing.T) *testContext {
	t.Helper()
	for _, env := range []string{config.EnvConfig, config.EnvSuite, config.EnvAuditLog, config.EnvLogLevel} {
		t.Setenv(env, "")
	}
	resetFlags()
	t.Cleanup(resetFlags)
	return &testContext{t: t, tempDir: t.TempDir()}
}

// path returns a path within the temp directory.
func (tc *testContext) path(name string) string {
	return filepath.Join(tc.tempDir, name)
}

// writeFile writes content to a file in the temp directory.
func (tc *testContext) writeFile(name, content string) string {
	tc.t.Helper()
	path := tc.path(name)
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		tc.t.Fatalf("Failed to write file %s: %v", name, err)
	}
	return path
}

// writeSuite writes the test suite document.
func (tc *testContext) writeSuite() string {
	return tc.writeFile("suite.yaml", testSuite)
}

// writeChain writes an ECDSA P-256 chain, leaf first.
func (tc *testContext) writeChain() string {
	tc.t.Helper()

	rootKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tc.t.Fatalf("Failed to generate ECDSA key: %v", err)
	}
	leafKey, err := ecdsa.GenerateKey(elliptic.P256(), rand.Reader)
	if err != nil {
		tc.t.Fatalf("Failed to generate ECDSA key: %v", err)
	}

	rootTmpl := &x509.Certificate{
		SerialNumber:          big.NewInt(1),
		Subject:               pkix.Name{CommonName: "CLI Root"},
		NotBefore:             time.Now().Add(-time.Hour),
		NotAfter:              time.Now().Add(24 * time.Hour),
		IsCA:                  true,
		BasicConstraintsValid: true,
		KeyUsage:              x509.KeyUsageCertSign,
		SignatureAlgorithm:    x509.ECDSAWithSHA256,
	}
	rootDER, err := x509.CreateCertificate(rand.Reader, rootTmpl, rootTmpl, &rootKey.PublicKey, rootKey)
	if err != nil {
		tc.t.Fatalf("Failed to create certificate: %v", err)
	}
	root, err := x509.ParseCertificate(rootDER)
	if err != nil {
		tc.t.Fatalf("Failed to parse certificate: %v", err)
	}

	leafTmpl := &x509.Certificate{
		SerialNumber:       big.NewInt(2),
		Subject:            pkix.Name{CommonName: "CLI Leaf"},
		NotBefore:          time.Now().Add(-time.Hour),
		NotAfter:           time.Now().Add(24 * time.Hour),
		SignatureAlgorithm: x509.ECDSAWithSHA256,
	}
	leafDER, err := x509.CreateCertificate(rand.Reader, leafTmpl, root, &leafKey.PublicKey, rootKey)
	if err != nil {
		tc.t.Fatalf("Failed to create certificate: %v", err)
	}

	var sb strings.Builder
	_ = pem.Encode(&sb, &pem.Block{Type: "CERTIFICATE", Bytes: leafDER})
	_ = pem.Encode(&sb, &pem.Block{Type: "CERTIFICATE", Bytes: rootDER})
	return tc.writeFile("chain.pem", sb.String())
}

// assertNoError fails the test if err is not nil.
func assertNoError(t *testing.T, err error) {
	t.Helper()
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
}

// assertError fails the test if err is nil.
func assertError(t *testing.T, err error) {
	t.Helper()
	if err == nil {
		t.Fatal("expected error, got nil")
	}
}

// assertContains fails the test if out does not contain every want.
func assertContains(t *testing.T, out string, want ...string) {
	t.Helper()
	for _, w := range want {
		if !strings.Contains(out, w) {
			t.Errorf("output missing %q:\n%s", w, out)
		}
	}
}
