// Package audit records suite and validation decisions in a tamper-evident
// log, kept apart from the technical logs.
//
// Every event is one JSON line chained to its predecessor by a SHA-256 hash,
// so any edit or deletion inside the log breaks verification. All timestamps
// are UTC. When auditing is enabled a failed write fails the operation that
// triggered it.
package audit

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"time"

	"github.com/remiblancher/cryptosuite/internal/validation"
)

// EventType represents the category of audit event.
type EventType string

const (
	EventSuiteLoaded    EventType = "SUITE_LOADED"
	EventSuiteRejected  EventType = "SUITE_REJECTED"
	EventTokenValidated EventType = "TOKEN_VALIDATED"
	EventChainValidated EventType = "CHAIN_VALIDATED"
)

// Result is the audited outcome. Validation verdicts worse than INFO are
// failures.
type Result string

const (
	ResultSuccess Result = "success"
	ResultFailure Result = "failure"
)

func resultFor(s validation.Status) Result {
	if s.IsWorseThan(validation.StatusInfo) {
		return ResultFailure
	}
	return ResultSuccess
}

// ErrIncompleteEvent is returned when an event lacks a field the log needs.
var ErrIncompleteEvent = errors.New("incomplete audit event")

// Actor is the local account that ran the operation.
type Actor struct {
	Type string `json:"type"`
	ID   string `json:"id"`
	Host string `json:"host,omitempty"`
}

// Object is the suite, token or chain an event is about.
type Object struct {
	Type string `json:"type"`
	ID   string `json:"id,omitempty"`
	Name string `json:"name,omitempty"`
	Path string `json:"path,omitempty"`
}

// Context provides additional details about the operation.
type Context struct {
	Policy    string `json:"policy,omitempty"`    // suite policy name
	Scope     string `json:"scope,omitempty"`     // catalogue scope
	Kind      string `json:"kind,omitempty"`      // token kind
	Algorithm string `json:"algorithm,omitempty"` // representative algorithm
	Check     string `json:"check,omitempty"`     // representative check
	Status    string `json:"status,omitempty"`    // validation status
	ReportID  string `json:"report_id,omitempty"` // validation report id
	Entries   int    `json:"entries,omitempty"`   // loaded suite entries
	Dropped   int    `json:"dropped,omitempty"`   // dropped suite entries
	ValidAt   string `json:"valid_at,omitempty"`  // validation time, RFC3339
	Reason    string `json:"reason,omitempty"`    // failure reason or message
}

// Event is one audit log line. Hash covers every other field, HashPrev
// included, so it is empty until the event is sealed by a FileWriter.
type Event struct {
	EventType EventType `json:"event_type"`
	Timestamp string    `json:"timestamp"`
	Actor     Actor     `json:"actor"`
	Object    Object    `json:"object"`
	Context   Context   `json:"context"`
	Result    Result    `json:"result"`
	HashPrev  string    `json:"hash_prev"`
	Hash      string    `json:"hash,omitempty"`
}

// NewEvent creates an unsealed event stamped with the current UTC time and
// the local account.
func NewEvent(t EventType, r Result, obj Object, ctx Context) *Event {
	return &Event{
		EventType: t,
		Timestamp: time.Now().UTC().Format(time.RFC3339),
		Actor:     localActor(),
		Object:    obj,
		Context:   ctx,
		Result:    r,
	}
}

func localActor() Actor {
	a := Actor{Type: "user", ID: "unknown"}
	a.Host, _ = os.Hostname()
	for _, env := range []string{"USER", "USERNAME"} {
		if v := os.Getenv(env); v != "" {
			a.ID = v
			break
		}
	}
	return a
}

// SuiteEvent records a suite document load, or its rejection when loadErr
// is set.
func SuiteEvent(path, policyName string, entries, dropped int, loadErr error) *Event {
	if loadErr != nil {
		return NewEvent(EventSuiteRejected, ResultFailure,
			Object{Type: "suite", Path: path},
			Context{Reason: loadErr.Error()})
	}
	return NewEvent(EventSuiteLoaded, ResultSuccess,
		Object{Type: "suite", Name: policyName, Path: path},
		Context{Policy: policyName, Entries: entries, Dropped: dropped})
}

// TokenEvent records one token verdict with its representative check.
func TokenEvent(r *validation.TokenResult) *Event {
	ctx := Context{
		Policy:   r.PolicyName,
		Scope:    string(r.Scope),
		Kind:     string(r.Kind),
		Status:   string(r.Status),
		ReportID: r.ReportID,
		ValidAt:  r.ValidationTime.Format(time.RFC3339),
	}
	if c := r.Cryptographic; c != nil {
		ctx.Algorithm = c.Algorithm
		ctx.Check = string(c.Check)
		ctx.Reason = c.Message
	}
	return NewEvent(EventTokenValidated, resultFor(r.Status), Object{Type: "token", ID: r.TokenID}, ctx)
}

// ChainEvent records a chain verdict. Entries is the number of tokens.
func ChainEvent(c *validation.ChainResult) *Event {
	return NewEvent(EventChainValidated, resultFor(c.Status),
		Object{Type: "chain", ID: c.ReportID},
		Context{
			Status:   string(c.Status),
			ReportID: c.ReportID,
			Entries:  len(c.Tokens),
			ValidAt:  c.ValidationTime.Format(time.RFC3339),
		})
}

// Validate checks that the fields every log line carries are set.
func (e *Event) Validate() error {
	required := []struct {
		field   string
		missing bool
	}{
		{"event_type", e.EventType == ""},
		{"timestamp", e.Timestamp == ""},
		{"actor", e.Actor.Type == "" || e.Actor.ID == ""},
		{"result", e.Result == ""},
	}
	for _, r := range required {
		if r.missing {
			return fmt.Errorf("%w: %s is required", ErrIncompleteEvent, r.field)
		}
	}
	return nil
}

// CanonicalJSON returns the hashed form of the event: its JSON without Hash.
func (e *Event) CanonicalJSON() ([]byte, error) {
	unsealed := *e
	unsealed.Hash = ""
	return json.Marshal(&unsealed)
}

// digest computes SHA-256(canonical JSON || HashPrev).
func (e *Event) digest() (string, error) {
	data, err := e.CanonicalJSON()
	if err != nil {
		return "", fmt.Errorf("failed to serialize event: %w", err)
	}
	h := sha256.New()
	_, _ = h.Write(data)
	_, _ = h.Write([]byte(e.HashPrev))
	return HashPrefix + hex.EncodeToString(h.Sum(nil)), nil
}

// seal links the event after prev and sets its hash.
func (e *Event) seal(prev string) error {
	e.HashPrev = prev
	sum, err := e.digest()
	if err != nil {
		return err
	}
	e.Hash = sum
	return nil
}
