package audit

import (
	"bufio"
	"bytes"
	"encoding/json"
	"errors"
	"fmt"
	"io/fs"
	"os"
	"sync"
)

const (
	// GenesisHash is the HashPrev of the first event of a log.
	GenesisHash = "sha256:genesis"

	// HashPrefix is prepended to all hash values.
	HashPrefix = "sha256:"
)

// ErrChainBroken is returned by VerifyChain when an event does not link to
// its predecessor or its hash does not match its content.
var ErrChainBroken = errors.New("hash chain broken")

// FileWriter appends sealed events to a JSONL file and syncs after each one.
type FileWriter struct {
	path string

	mu   sync.Mutex
	file *os.File
	head string
}

var _ Writer = (*FileWriter)(nil)

// NewFileWriter opens path for appending. An existing log is continued
// from the hash of its last event.
func NewFileWriter(path string) (*FileWriter, error) {
	head, err := resumeHash(path)
	if err != nil {
		return nil, err
	}
	file, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o600)
	if err != nil {
		return nil, fmt.Errorf("failed to open audit log: %w", err)
	}
	return &FileWriter{path: path, file: file, head: head}, nil
}

// resumeHash returns the chain head of the log at path, GenesisHash for a
// missing or empty log.
func resumeHash(path string) (string, error) {
	var last []byte
	err := scanLines(path, func(_ int, line []byte) error {
		last = bytes.Clone(line)
		return nil
	})
	if errors.Is(err, fs.ErrNotExist) || (err == nil && last == nil) {
		return GenesisHash, nil
	}
	if err != nil {
		return "", err
	}

	var tail struct {
		Hash string `json:"hash"`
	}
	if err := json.Unmarshal(last, &tail); err != nil {
		return "", fmt.Errorf("failed to resume audit log %s: %w", path, err)
	}
	if tail.Hash == "" {
		return "", fmt.Errorf("failed to resume audit log %s: last event is not sealed", path)
	}
	return tail.Hash, nil
}

// Write seals the event after the current head and appends it.
func (w *FileWriter) Write(event *Event) error {
	if err := event.Validate(); err != nil {
		return err
	}

	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return fmt.Errorf("audit log %s is closed", w.path)
	}
	if err := event.seal(w.head); err != nil {
		return err
	}
	line, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to serialize event: %w", err)
	}
	if _, err := w.file.Write(append(line, '\n')); err != nil {
		return fmt.Errorf("failed to write event: %w", err)
	}
	if err := w.file.Sync(); err != nil {
		return fmt.Errorf("failed to sync audit log: %w", err)
	}
	w.head = event.Hash
	return nil
}

// Close closes the log file. Closing twice is a no-op.
func (w *FileWriter) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.file == nil {
		return nil
	}
	err := errors.Join(w.file.Sync(), w.file.Close())
	w.file = nil
	return err
}

func (w *FileWriter) LastHash() string {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.head
}

// Path returns the file path of the audit log.
func (w *FileWriter) Path() string { return w.path }

// VerifyChain replays the hash chain of the log at path and returns the
// number of events verified before the first error.
func VerifyChain(path string) (int, error) {
	count := 0
	prev := GenesisHash
	err := scanLines(path, func(n int, line []byte) error {
		var e Event
		if err := json.Unmarshal(line, &e); err != nil {
			return fmt.Errorf("line %d: invalid JSON: %w", n, err)
		}
		if e.HashPrev != prev {
			return fmt.Errorf("line %d: %w: links to %s, expected %s", n, ErrChainBroken, e.HashPrev, prev)
		}
		want, err := e.digest()
		if err != nil {
			return fmt.Errorf("line %d: %w", n, err)
		}
		if e.Hash != want {
			return fmt.Errorf("line %d: %w: hash %s does not match content %s", n, ErrChainBroken, e.Hash, want)
		}
		prev = e.Hash
		count++
		return nil
	})
	return count, err
}

// Tail returns the last n events of an audit log, oldest first.
// n <= 0 returns every event.
func Tail(path string, n int) ([]*Event, error) {
	events := []*Event{}
	err := scanLines(path, func(_ int, line []byte) error {
		e := new(Event)
		if err := json.Unmarshal(line, e); err != nil {
			return fmt.Errorf("invalid audit event: %w", err)
		}
		events = append(events, e)
		if n > 0 && len(events) > n {
			events = events[1:]
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return events, nil
}

// scanLines streams the non-blank lines of the log at path to fn with their
// 1-based line numbers. fn must not retain line.
func scanLines(path string, fn func(n int, line []byte) error) error {
	f, err := os.Open(path)
	if err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	defer func() { _ = f.Close() }()

	s := bufio.NewScanner(f)
	s.Buffer(make([]byte, 0, 64*1024), 1024*1024)
	for n := 1; s.Scan(); n++ {
		line := bytes.TrimSpace(s.Bytes())
		if len(line) == 0 {
			continue
		}
		if err := fn(n, line); err != nil {
			return err
		}
	}
	if err := s.Err(); err != nil {
		return fmt.Errorf("failed to read audit log: %w", err)
	}
	return nil
}
