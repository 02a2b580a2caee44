package policy

import (
	"errors"
	"fmt"
)

// Sentinel errors for suite operations.
// Use errors.Is() to check for these errors through the error chain.
var (
	// ErrMissingMetadata indicates a suite without metadata.
	ErrMissingMetadata = errors.New("cryptographic suite metadata is missing")

	// ErrMissingAlgorithms indicates a suite without an algorithm list.
	ErrMissingAlgorithms = errors.New("cryptographic suite algorithm list is missing")

	// ErrUnknownScope indicates a usage scope the catalogue does not define.
	ErrUnknownScope = errors.New("unknown usage scope")

	// ErrUnknownUsage indicates a usage tag outside the AlgorithmUsage set.
	ErrUnknownUsage = errors.New("unknown algorithm usage")

	// ErrInvalidLevel indicates a level string other than FAIL, WARN, INFO or IGNORE.
	ErrInvalidLevel = errors.New("invalid level")
)

// EntryError reports a suite entry that could not be parsed.
// It supports errors.Is() and errors.As().
type EntryError struct {
	Index int    // Position of the entry in the document
	Name  string // Entry name, OID or URI when known
	Err   error  // Underlying error
}

// Error implements the error interface.
func (e *EntryError) Error() string {
	if e.Name != "" {
		return fmt.Sprintf("algorithm entry #%d (%s): %v", e.Index, e.Name, e.Err)
	}
	return fmt.Sprintf("algorithm entry #%d: %v", e.Index, e.Err)
}

// Unwrap returns the underlying error for errors.Is/As support.
func (e *EntryError) Unwrap() error { return e.Err }

// NewEntryError creates a new EntryError.
func NewEntryError(index int, name string, err error) *EntryError {
	return &EntryError{Index: index, Name: name, Err: err}
}
