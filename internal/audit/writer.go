package audit

import (
	"sync"

	"github.com/remiblancher/cryptosuite/internal/logging"
)

// Writer persists audit events.
//
// The primary writer of a chain sets HashPrev and Hash before returning;
// a failed write must be reported so the audited operation fails with it.
type Writer interface {
	Write(event *Event) error
	Close() error

	// LastHash returns the hash of the last written event, or GenesisHash.
	LastHash() string
}

// NopWriter discards every event. It is installed while auditing is off.
type NopWriter struct{}

var _ Writer = (*NopWriter)(nil)

func (NopWriter) Write(*Event) error { return nil }
func (NopWriter) Close() error       { return nil }
func (NopWriter) LastHash() string   { return GenesisHash }

// LogWriter mirrors audit events into the technical log. It never chains
// events itself and only reports the hash of the last event it saw, so it
// is meant to follow a FileWriter in a MultiWriter.
type LogWriter struct {
	logger logging.Logger

	mu   sync.Mutex
	last string
}

var _ Writer = (*LogWriter)(nil)

// NewLogWriter creates a writer logging events through l.
func NewLogWriter(l logging.Logger) *LogWriter {
	if l == nil {
		l = logging.NewNull()
	}
	return &LogWriter{logger: l, last: GenesisHash}
}

func (w *LogWriter) Write(event *Event) error {
	log := w.logger.ForContext("AuditHash", event.Hash)
	if event.Result == ResultFailure {
		log.Warn("Audit {EventType} on {ObjectType} {ObjectID} failed: {Reason}",
			event.EventType, event.Object.Type, event.Object.ID, event.Context.Reason)
	} else {
		log.Debug("Audit {EventType} on {ObjectType} {ObjectID} status {Status}",
			event.EventType, event.Object.Type, event.Object.ID, event.Context.Status)
	}

	w.mu.Lock()
	if event.Hash != "" {
		w.last = event.Hash
	}
	w.mu.Unlock()
	return nil
}

func (w *LogWriter) Close() error { return nil }

func (w *LogWriter) LastHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.last
}

// MultiWriter fans events out to several writers in order. The first writer
// is the primary one: its hash is the chain head and its failure stops the
// fan-out.
type MultiWriter struct {
	writers []Writer
}

var _ Writer = (*MultiWriter)(nil)

// NewMultiWriter creates a writer that writes to all provided writers.
func NewMultiWriter(writers ...Writer) *MultiWriter {
	return &MultiWriter{writers: writers}
}

func (m *MultiWriter) Write(event *Event) error {
	for _, w := range m.writers {
		if err := w.Write(event); err != nil {
			return err
		}
	}
	return nil
}

func (m *MultiWriter) Close() error {
	var lastErr error
	for _, w := range m.writers {
		if err := w.Close(); err != nil {
			lastErr = err
		}
	}
	return lastErr
}

func (m *MultiWriter) LastHash() string {
	if len(m.writers) == 0 {
		return GenesisHash
	}
	return m.writers[0].LastHash()
}
