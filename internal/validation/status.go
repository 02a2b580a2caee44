package validation

import (
	"errors"

	"github.com/remiblancher/cryptosuite/internal/policy"
)

var (
	// ErrUnknownTokenKind indicates a token kind or certificate context
	// that maps to no catalogue scope.
	ErrUnknownTokenKind = errors.New("unknown token kind")

	// ErrUnknownPosition indicates an unknown digest position name.
	ErrUnknownPosition = errors.New("unknown digest position")
)

// Status is the outcome of a check, a token or a chain.
type Status string

const (
	StatusPassed  Status = "PASSED"
	StatusInfo    Status = "INFO"
	StatusWarning Status = "WARNING"
	StatusFailed  Status = "FAILED"
)

func (s Status) rank() int {
	switch s {
	case StatusFailed:
		return 3
	case StatusWarning:
		return 2
	case StatusInfo:
		return 1
	default:
		return 0
	}
}

// IsWorseThan reports whether s dominates other.
func (s Status) IsWorseThan(other Status) bool {
	return s.rank() > other.rank()
}

// Worst returns the dominating status; PASSED for none.
func Worst(statuses ...Status) Status {
	worst := StatusPassed
	for _, s := range statuses {
		if s.IsWorseThan(worst) {
			worst = s
		}
	}
	return worst
}

// StatusForLevel converts the level of a failed check to its status.
func StatusForLevel(l policy.Level) Status {
	switch l {
	case policy.LevelFail:
		return StatusFailed
	case policy.LevelWarn:
		return StatusWarning
	case policy.LevelInfo:
		return StatusInfo
	default:
		return StatusPassed
	}
}
