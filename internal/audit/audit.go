package audit

import (
	"fmt"
	"sync"

	"github.com/remiblancher/cryptosuite/internal/validation"
)

var (
	// globalWriter is the default audit writer.
	globalWriter Writer = NopWriter{}
	globalMu     sync.RWMutex

	// enabled tracks whether audit logging is active.
	enabled bool
)

// Init installs w as the global audit writer. A nil writer disables
// auditing.
func Init(w Writer) error {
	globalMu.Lock()
	defer globalMu.Unlock()

	if w == nil {
		globalWriter = NopWriter{}
		enabled = false
		return nil
	}

	globalWriter = w
	enabled = true
	return nil
}

// InitFile installs a FileWriter on path, followed by any mirror writers.
// An empty path disables auditing.
func InitFile(path string, mirrors ...Writer) error {
	if path == "" {
		return Init(nil)
	}

	w, err := NewFileWriter(path)
	if err != nil {
		return err
	}
	if len(mirrors) == 0 {
		return Init(w)
	}
	return Init(NewMultiWriter(append([]Writer{w}, mirrors...)...))
}

// Close closes the global audit writer and disables auditing.
func Close() error {
	globalMu.Lock()
	defer globalMu.Unlock()

	err := globalWriter.Close()
	globalWriter = NopWriter{}
	enabled = false
	return err
}

// Enabled returns whether audit logging is active.
func Enabled() bool {
	globalMu.RLock()
	defer globalMu.RUnlock()
	return enabled
}

// Log writes an audit event to the global writer.
func Log(event *Event) error {
	globalMu.RLock()
	w := globalWriter
	globalMu.RUnlock()

	return w.Write(event)
}

// MustLog writes an audit event and returns an error suitable for failing
// the parent operation.
//
//	if err := audit.MustLog(event); err != nil {
//	    return nil, err
//	}
func MustLog(event *Event) error {
	if err := Log(event); err != nil {
		return fmt.Errorf("audit log failed: %w", err)
	}
	return nil
}

// LogSuiteLoaded logs a suite document load. loadErr is the load failure,
// if any.
func LogSuiteLoaded(path, policyName string, entries, dropped int, loadErr error) error {
	return MustLog(SuiteEvent(path, policyName, entries, dropped, loadErr))
}

// LogTokenValidated logs one token verdict. WARNING and FAILED verdicts are
// recorded as failures.
func LogTokenValidated(r *validation.TokenResult) error {
	return MustLog(TokenEvent(r))
}

// LogChainValidated logs a chain verdict followed by its token verdicts.
func LogChainValidated(c *validation.ChainResult) error {
	if err := MustLog(ChainEvent(c)); err != nil {
		return err
	}
	for _, r := range c.Tokens {
		if err := MustLog(TokenEvent(r)); err != nil {
			return err
		}
	}
	return nil
}
