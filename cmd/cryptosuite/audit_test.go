package main

import (
	"encoding/json"
	"os"
	"strings"
	"testing"

	"github.com/remiblancher/cryptosuite/internal/audit"
)

// =============================================================================
// Audit Verify Tests
// =============================================================================

func TestF_Audit_Verify_LogNotFound(t *testing.T) {
	tc := newTestContext(t)

	_, err := executeCommand(rootCmd, "audit", "verify", "--log", tc.path("nonexistent.jsonl"))
	assertError(t, err)
}

func TestF_Audit_Verify_NoLog(t *testing.T) {
	newTestContext(t)

	_, err := executeCommand(rootCmd, "audit", "verify")
	assertError(t, err)
}

func TestF_Audit_Verify_EmptyLog(t *testing.T) {
	tc := newTestContext(t)

	// Empty log should still verify (0 events is valid)
	out, err := executeCommand(rootCmd, "audit", "verify", "--log", tc.writeFile("audit.jsonl", ""))
	assertNoError(t, err)
	assertContains(t, out, "VERIFICATION PASSED", "Total events: 0")
}

func TestF_Audit_RecordsCommands(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")
	suite := tc.writeSuite()

	_, err := executeCommand(rootCmd, "check", "--audit-log", logPath, "--suite", suite,
		"--signature", "RSA_SHA256", "--key-size", "3072", "--at", "2024-06-01")
	assertNoError(t, err)

	resetFlags()
	_, err = executeCommand(rootCmd, "check-cert", tc.writeChain(), "--audit-log", logPath, "--suite", suite)
	assertNoError(t, err)

	resetFlags()
	out, err := executeCommand(rootCmd, "audit", "verify", "--log", logPath)
	assertNoError(t, err)
	// suite + token, then suite + chain + 2 tokens
	assertContains(t, out, "VERIFICATION PASSED", "Total events: 6")

	resetFlags()
	out, err = executeCommand(rootCmd, "audit", "tail", "--log", logPath, "-n", "4")
	assertNoError(t, err)
	assertContains(t, out,
		string(audit.EventSuiteLoaded),
		string(audit.EventChainValidated),
		string(audit.EventTokenValidated),
		"scope=signature-certificates",
	)
	if strings.Count(out, "Actor:") != 4 {
		t.Errorf("tail -n 4 printed %d events:\n%s", strings.Count(out, "Actor:"), out)
	}
}

func TestF_Audit_SuiteRejected(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")

	_, err := executeCommand(rootCmd, "inspect", tc.writeFile("bad.yaml", "policy_name: [unterminated"),
		"--audit-log", logPath)
	assertError(t, err)
	_ = audit.Close()

	events, err := audit.Tail(logPath, 0)
	assertNoError(t, err)
	if len(events) != 1 || events[0].EventType != audit.EventSuiteRejected {
		t.Fatalf("events = %+v, want one SUITE_REJECTED", events)
	}
	if events[0].Result != audit.ResultFailure {
		t.Errorf("Result = %s, want failure", events[0].Result)
	}
}

func TestF_Audit_Verify_Tampered(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")

	_, err := executeCommand(rootCmd, "inspect", tc.writeSuite(), "--audit-log", logPath)
	assertNoError(t, err)

	data, err := os.ReadFile(logPath)
	assertNoError(t, err)
	tampered := strings.Replace(string(data), "CLI test suite", "Other suite", 1)
	if err := os.WriteFile(logPath, []byte(tampered), 0644); err != nil {
		t.Fatal(err)
	}

	resetFlags()
	out, err := executeCommand(rootCmd, "audit", "verify", "--log", logPath)
	assertError(t, err)
	assertContains(t, out, "VERIFICATION FAILED")
}

// =============================================================================
// Audit Tail Tests
// =============================================================================

func TestF_Audit_Tail_LogNotFound(t *testing.T) {
	tc := newTestContext(t)

	_, err := executeCommand(rootCmd, "audit", "tail", "--log", tc.path("nonexistent.jsonl"))
	assertError(t, err)
}

func TestF_Audit_Tail_EmptyLog(t *testing.T) {
	tc := newTestContext(t)

	out, err := executeCommand(rootCmd, "audit", "tail", "--log", tc.writeFile("audit.jsonl", ""))
	assertNoError(t, err)
	assertContains(t, out, "Audit log is empty")
}

func TestF_Audit_Tail_JSON(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")

	_, err := executeCommand(rootCmd, "inspect", tc.writeSuite(), "--audit-log", logPath)
	assertNoError(t, err)

	resetFlags()
	out, err := executeCommand(rootCmd, "audit", "tail", "--log", logPath, "--json")
	assertNoError(t, err)

	var events []audit.Event
	if err := json.Unmarshal([]byte(out), &events); err != nil {
		t.Fatalf("tail --json output is not JSON: %v\n%s", err, out)
	}
	if len(events) != 1 || events[0].Object.Name != "CLI test suite" {
		t.Errorf("events = %+v", events)
	}
}

func TestF_Audit_Tail_DefaultsToAuditLog(t *testing.T) {
	tc := newTestContext(t)
	logPath := tc.path("audit.jsonl")

	_, err := executeCommand(rootCmd, "inspect", tc.writeSuite(), "--audit-log", logPath)
	assertNoError(t, err)

	resetFlags()
	t.Setenv("CRYPTOSUITE_AUDIT_LOG", logPath)
	out, err := executeCommand(rootCmd, "audit", "tail")
	assertNoError(t, err)
	assertContains(t, out, string(audit.EventSuiteLoaded))
}
