package audit

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// =============================================================================
// Event Tests
// =============================================================================

func TestU_NewEvent_Creation(t *testing.T) {
	event := NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})

	if event.EventType != EventSuiteLoaded {
		t.Errorf("expected EventType=%s, got %s", EventSuiteLoaded, event.EventType)
	}
	if event.Result != ResultSuccess {
		t.Errorf("expected Result=%s, got %s", ResultSuccess, event.Result)
	}
	if _, err := time.Parse(time.RFC3339, event.Timestamp); err != nil {
		t.Errorf("Timestamp %q is not RFC3339: %v", event.Timestamp, err)
	}
	if event.Actor.Type != "user" {
		t.Errorf("expected Actor.Type=user, got %s", event.Actor.Type)
	}
}

func TestU_NewEvent_UnknownUser(t *testing.T) {
	t.Setenv("USER", "")
	t.Setenv("USERNAME", "")

	event := NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})
	if event.Actor.ID != "unknown" {
		t.Errorf("expected Actor.ID=unknown, got %s", event.Actor.ID)
	}
}

func TestU_Event_Validate(t *testing.T) {
	tests := []struct {
		name    string
		event   *Event
		wantErr bool
	}{
		{
			name:    "[Unit] Validate: valid event",
			event:   NewEvent(EventTokenValidated, ResultSuccess, Object{}, Context{}),
			wantErr: false,
		},
		{
			name: "[Unit] Validate: missing event_type",
			event: &Event{
				Timestamp: "2024-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing timestamp",
			event: &Event{
				EventType: EventTokenValidated,
				Actor:     Actor{Type: "user", ID: "admin"},
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing actor",
			event: &Event{
				EventType: EventTokenValidated,
				Timestamp: "2024-01-15T10:00:00Z",
				Result:    ResultSuccess,
			},
			wantErr: true,
		},
		{
			name: "[Unit] Validate: missing result",
			event: &Event{
				EventType: EventTokenValidated,
				Timestamp: "2024-01-15T10:00:00Z",
				Actor:     Actor{Type: "user", ID: "admin"},
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.event.Validate()
			if (err != nil) != tt.wantErr {
				t.Errorf("Validate() error = %v, wantErr %v", err, tt.wantErr)
			}
			if err != nil && !errors.Is(err, ErrIncompleteEvent) {
				t.Errorf("Validate() error = %v, want ErrIncompleteEvent", err)
			}
		})
	}
}

func TestU_Event_CanonicalJSONExcludesHash(t *testing.T) {
	event := NewEvent(EventSuiteLoaded, ResultSuccess, Object{Type: "suite", Name: "reference"}, Context{})
	event.HashPrev = GenesisHash
	event.Hash = "sha256:should-not-appear"

	canonical, err := event.CanonicalJSON()
	if err != nil {
		t.Fatalf("CanonicalJSON() error = %v", err)
	}
	if strings.Contains(string(canonical), "should-not-appear") {
		t.Error("canonical JSON must not contain the event hash")
	}
	if !strings.Contains(string(canonical), GenesisHash) {
		t.Error("canonical JSON must contain hash_prev")
	}
}

func TestU_Event_DomainConstructors(t *testing.T) {
	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)

	loaded := SuiteEvent("suite.xml", "reference", 12, 1, nil)
	if loaded.EventType != EventSuiteLoaded || loaded.Object.Name != "reference" || loaded.Context.Dropped != 1 {
		t.Errorf("unexpected suite event: %+v", loaded)
	}
	rejected := SuiteEvent("broken.xml", "", 0, 0, errors.New("malformed"))
	if rejected.EventType != EventSuiteRejected || rejected.Result != ResultFailure || rejected.Context.Reason != "malformed" {
		t.Errorf("unexpected rejection event: %+v", rejected)
	}

	warned := TokenEvent(&validation.TokenResult{
		ReportID: "r-1", TokenID: "sig", Kind: validation.KindSignature, Status: validation.StatusWarning, ValidationTime: at,
		Cryptographic: &validation.CheckResult{Check: policy.CheckExpirationDate, Algorithm: "SHA1"},
	})
	if warned.Result != ResultFailure || warned.Context.Check != string(policy.CheckExpirationDate) || warned.Object.ID != "sig" {
		t.Errorf("unexpected token event: %+v", warned)
	}

	chain := ChainEvent(&validation.ChainResult{ReportID: "c-1", Status: validation.StatusPassed, ValidationTime: at})
	if chain.Result != ResultSuccess || chain.Object.Type != "chain" || chain.Context.ValidAt != "2024-06-01T00:00:00Z" {
		t.Errorf("unexpected chain event: %+v", chain)
	}
	if chain.Hash != "" {
		t.Errorf("new event should be unsealed, got hash %s", chain.Hash)
	}
}

// =============================================================================
// FileWriter Tests
// =============================================================================

func TestU_FileWriter_Write(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer.Close() }()

	event1 := NewEvent(EventSuiteLoaded, ResultSuccess, Object{Type: "suite", Path: "/etc/suite.xml"}, Context{})
	if err := writer.Write(event1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event1.HashPrev != GenesisHash {
		t.Errorf("first event HashPrev = %s, want %s", event1.HashPrev, GenesisHash)
	}
	if !strings.HasPrefix(event1.Hash, HashPrefix) {
		t.Errorf("first event Hash should start with %s, got %s", HashPrefix, event1.Hash)
	}

	event2 := NewEvent(EventTokenValidated, ResultFailure, Object{Type: "token", ID: "sig-1"}, Context{})
	if err := writer.Write(event2); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if event2.HashPrev != event1.Hash {
		t.Errorf("second event HashPrev = %s, want %s", event2.HashPrev, event1.Hash)
	}
	if writer.LastHash() != event2.Hash {
		t.Errorf("LastHash() = %s, want %s", writer.LastHash(), event2.Hash)
	}
	if writer.Path() != logPath {
		t.Errorf("Path() = %s, want %s", writer.Path(), logPath)
	}
}

func TestU_FileWriter_Append(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")

	writer1, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	event1 := NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})
	if err := writer1.Write(event1); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	_ = writer1.Close()

	writer2, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer2.Close() }()

	if writer2.LastHash() != event1.Hash {
		t.Errorf("LastHash() = %s, want %s", writer2.LastHash(), event1.Hash)
	}
}

func TestU_FileWriter_WriteAfterClose(t *testing.T) {
	writer, err := NewFileWriter(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("Close() error = %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Errorf("second Close() error = %v", err)
	}
	if err := writer.Write(NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})); err == nil {
		t.Error("Write() after Close() should fail")
	}
}

func TestU_FileWriter_InvalidEvent(t *testing.T) {
	writer, err := NewFileWriter(filepath.Join(t.TempDir(), "audit.jsonl"))
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	defer func() { _ = writer.Close() }()

	if err := writer.Write(&Event{}); err == nil {
		t.Error("Write() should reject an invalid event")
	}
	if writer.LastHash() != GenesisHash {
		t.Errorf("LastHash() = %s, want %s", writer.LastHash(), GenesisHash)
	}
}

func TestU_FileWriter_CorruptExistingLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := os.WriteFile(logPath, []byte("{not json}\n"), 0600); err != nil {
		t.Fatal(err)
	}

	if _, err := NewFileWriter(logPath); err == nil {
		t.Error("NewFileWriter() should fail on a corrupt log")
	}
}

func TestU_FileWriter_ConcurrentWrites(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	writer, err := NewFileWriter(logPath)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}

	var wg sync.WaitGroup
	for i := 0; i < 20; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := writer.Write(NewEvent(EventTokenValidated, ResultSuccess, Object{}, Context{})); err != nil {
				t.Errorf("Write() error = %v", err)
			}
		}()
	}
	wg.Wait()
	_ = writer.Close()

	count, err := VerifyChain(logPath)
	if err != nil {
		t.Fatalf("VerifyChain() error = %v", err)
	}
	if count != 20 {
		t.Errorf("VerifyChain() count = %d, want 20", count)
	}
}

// =============================================================================
// VerifyChain and Tail Tests
// =============================================================================

func writeEvents(t *testing.T, path string, n int) {
	t.Helper()
	writer, err := NewFileWriter(path)
	if err != nil {
		t.Fatalf("NewFileWriter() error = %v", err)
	}
	for i := 0; i < n; i++ {
		event := NewEvent(EventTokenValidated, ResultSuccess, Object{Type: "token", ID: string(rune('a' + i))}, Context{})
		if err := writer.Write(event); err != nil {
			t.Fatalf("Write() error = %v", err)
		}
	}
	_ = writer.Close()
}

func TestU_VerifyChain_ValidLog(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	writeEvents(t, logPath, 5)

	count, err := VerifyChain(logPath)
	if err != nil {
		t.Errorf("VerifyChain() error = %v", err)
	}
	if count != 5 {
		t.Errorf("VerifyChain() count = %d, want 5", count)
	}
}

func TestU_VerifyChain_Tampering(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	writeEvents(t, logPath, 3)

	data, _ := os.ReadFile(logPath)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")

	var event Event
	_ = json.Unmarshal([]byte(lines[1]), &event)
	event.Context.Status = "PASSED"
	tampered, _ := json.Marshal(&event)
	lines[1] = string(tampered)
	_ = os.WriteFile(logPath, []byte(strings.Join(lines, "\n")+"\n"), 0600)

	count, err := VerifyChain(logPath)
	if err == nil {
		t.Error("VerifyChain() should fail on tampered log")
	}
	if count != 1 {
		t.Errorf("VerifyChain() count = %d, want 1 (events before tampering)", count)
	}
}

func TestU_VerifyChain_DeletedLine(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	writeEvents(t, logPath, 3)

	data, _ := os.ReadFile(logPath)
	lines := strings.Split(strings.TrimSpace(string(data)), "\n")
	_ = os.WriteFile(logPath, []byte(lines[0]+"\n\n"+lines[2]+"\n"), 0600)

	count, err := VerifyChain(logPath)
	if !errors.Is(err, ErrChainBroken) {
		t.Errorf("VerifyChain() error = %v, want broken chain", err)
	}
	if count != 1 {
		t.Errorf("VerifyChain() count = %d, want 1", count)
	}
}

func TestU_VerifyChain_EmptyAndMissing(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	_ = os.WriteFile(logPath, nil, 0600)

	count, err := VerifyChain(logPath)
	if err != nil || count != 0 {
		t.Errorf("VerifyChain(empty) = %d, %v", count, err)
	}

	if _, err := VerifyChain(filepath.Join(t.TempDir(), "absent.jsonl")); err == nil {
		t.Error("VerifyChain() should fail on a missing file")
	}
}

func TestU_Tail(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	writeEvents(t, logPath, 5)

	events, err := Tail(logPath, 2)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("Tail() returned %d events, want 2", len(events))
	}
	if events[0].Object.ID != "d" || events[1].Object.ID != "e" {
		t.Errorf("Tail() = %s, %s; want d, e", events[0].Object.ID, events[1].Object.ID)
	}

	all, err := Tail(logPath, 0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(all) != 5 {
		t.Errorf("Tail(0) returned %d events, want 5", len(all))
	}
}

// =============================================================================
// MultiWriter and NopWriter Tests
// =============================================================================

type failingWriter struct{ NopWriter }

func (failingWriter) Write(*Event) error { return errors.New("disk full") }

func TestU_MultiWriter(t *testing.T) {
	dir := t.TempDir()
	a, _ := NewFileWriter(filepath.Join(dir, "a.jsonl"))
	b, _ := NewFileWriter(filepath.Join(dir, "b.jsonl"))
	m := NewMultiWriter(a, b)

	if err := m.Write(NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if m.LastHash() != a.LastHash() {
		t.Errorf("LastHash() = %s, want first writer hash", m.LastHash())
	}
	if err := m.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}

	if err := NewMultiWriter(NopWriter{}, failingWriter{}).Write(NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{})); err == nil {
		t.Error("Write() should fail when one writer fails")
	}
	if NewMultiWriter().LastHash() != GenesisHash {
		t.Error("empty MultiWriter should report the genesis hash")
	}
}

func TestU_LogWriter_MirrorsFileWriter(t *testing.T) {
	buf := &bytes.Buffer{}
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := InitFile(logPath, NewLogWriter(logging.New(buf, logging.DebugLevel))); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	defer func() { _ = Close() }()

	if err := LogSuiteLoaded("/etc/suite.xml", "Mirror", 3, 0, nil); err != nil {
		t.Fatalf("LogSuiteLoaded() error = %v", err)
	}
	if err := LogSuiteLoaded("/etc/broken.xml", "", 0, 0, errors.New("malformed document")); err != nil {
		t.Fatalf("LogSuiteLoaded() error = %v", err)
	}

	out := buf.String()
	if !strings.Contains(out, string(EventSuiteLoaded)) {
		t.Errorf("log output missing %s: %q", EventSuiteLoaded, out)
	}
	if !strings.Contains(out, "malformed document") {
		t.Errorf("log output missing failure reason: %q", out)
	}

	count, err := VerifyChain(logPath)
	if err != nil {
		t.Fatalf("VerifyChain() error = %v", err)
	}
	if count != 2 {
		t.Errorf("VerifyChain() = %d events, want 2", count)
	}
}

func TestU_LogWriter_LastHash(t *testing.T) {
	w := NewLogWriter(nil)
	if w.LastHash() != GenesisHash {
		t.Errorf("LastHash() = %s, want genesis", w.LastHash())
	}
	e := NewEvent(EventTokenValidated, ResultSuccess, Object{}, Context{})
	e.Hash = "sha256:abc"
	if err := w.Write(e); err != nil {
		t.Fatalf("Write() error = %v", err)
	}
	if w.LastHash() != "sha256:abc" {
		t.Errorf("LastHash() = %s, want sha256:abc", w.LastHash())
	}
}

// =============================================================================
// Global Audit Tests
// =============================================================================

func TestU_GlobalAudit_SuiteEvents(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := InitFile(logPath); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	defer func() { _ = Close() }()

	if !Enabled() {
		t.Fatal("Enabled() = false after InitFile")
	}
	if err := LogSuiteLoaded("suite.xml", "reference", 12, 1, nil); err != nil {
		t.Fatalf("LogSuiteLoaded() error = %v", err)
	}
	if err := LogSuiteLoaded("broken.xml", "", 0, 0, errors.New("malformed")); err != nil {
		t.Fatalf("LogSuiteLoaded() error = %v", err)
	}
	_ = Close()

	events, err := Tail(logPath, 0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(events) != 2 {
		t.Fatalf("expected 2 events, got %d", len(events))
	}
	if events[0].EventType != EventSuiteLoaded || events[0].Context.Entries != 12 {
		t.Errorf("unexpected first event: %+v", events[0])
	}
	if events[1].EventType != EventSuiteRejected || events[1].Result != ResultFailure {
		t.Errorf("unexpected second event: %+v", events[1])
	}
}

func TestU_GlobalAudit_ValidationEvents(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "audit.jsonl")
	if err := InitFile(logPath); err != nil {
		t.Fatalf("InitFile() error = %v", err)
	}
	defer func() { _ = Close() }()

	at := time.Date(2024, 6, 1, 0, 0, 0, 0, time.UTC)
	failing := &validation.TokenResult{
		ReportID: "r-2", TokenID: "leaf", Kind: validation.KindCertificate,
		Scope: policy.ScopeSignatureCertificates, Status: validation.StatusFailed, ValidationTime: at,
		Cryptographic: &validation.CheckResult{
			Check: policy.CheckMinKeySize, Algorithm: "RSA_SHA256", Message: "key size 512 is below the minimum 1024",
		},
	}
	info := &validation.TokenResult{
		ReportID: "r-1", TokenID: "sig", Kind: validation.KindSignature, Status: validation.StatusInfo, ValidationTime: at,
	}
	chain := &validation.ChainResult{
		ReportID: "c-1", Status: validation.StatusFailed, ValidationTime: at,
		Tokens: []*validation.TokenResult{info, failing},
	}

	if err := LogChainValidated(chain); err != nil {
		t.Fatalf("LogChainValidated() error = %v", err)
	}
	_ = Close()

	events, err := Tail(logPath, 0)
	if err != nil {
		t.Fatalf("Tail() error = %v", err)
	}
	if len(events) != 3 {
		t.Fatalf("expected 3 events, got %d", len(events))
	}
	if events[0].EventType != EventChainValidated || events[0].Context.Entries != 2 {
		t.Errorf("unexpected chain event: %+v", events[0])
	}
	if events[1].Result != ResultSuccess {
		t.Errorf("INFO verdict should be audited as success, got %s", events[1].Result)
	}
	if events[2].Context.Check != string(policy.CheckMinKeySize) || events[2].Result != ResultFailure {
		t.Errorf("unexpected token event: %+v", events[2])
	}
	if _, err := VerifyChain(logPath); err != nil {
		t.Errorf("VerifyChain() error = %v", err)
	}
}

func TestU_GlobalAudit_Disabled(t *testing.T) {
	if err := InitFile(""); err != nil {
		t.Fatalf("InitFile(\"\") error = %v", err)
	}
	if Enabled() {
		t.Error("Enabled() = true with an empty path")
	}
	if err := LogTokenValidated(&validation.TokenResult{Status: validation.StatusPassed}); err != nil {
		t.Errorf("LogTokenValidated() with auditing disabled error = %v", err)
	}
}

func TestU_MustLog_Error(t *testing.T) {
	if err := Init(failingWriter{}); err != nil {
		t.Fatal(err)
	}
	defer func() { _ = Init(nil) }()

	err := MustLog(NewEvent(EventSuiteLoaded, ResultSuccess, Object{}, Context{}))
	if err == nil || !strings.Contains(err.Error(), "audit log failed") {
		t.Errorf("MustLog() error = %v, want wrapped failure", err)
	}
}
