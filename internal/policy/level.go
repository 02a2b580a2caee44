package policy

import (
	"fmt"
	"strings"
)

// Level is the severity a failed check is reported with.
type Level string

const (
	LevelFail   Level = "FAIL"
	LevelWarn   Level = "WARN"
	LevelInfo   Level = "INFO"
	LevelIgnore Level = "IGNORE"
)

// ParseLevel parses a level name, case-insensitively.
func ParseLevel(s string) (Level, error) {
	switch l := Level(strings.ToUpper(strings.TrimSpace(s))); l {
	case LevelFail, LevelWarn, LevelInfo, LevelIgnore:
		return l, nil
	case "WARNING":
		return LevelWarn, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrInvalidLevel, s)
	}
}

// Check names a category of suite check with its own configurable level.
type Check string

const (
	CheckAcceptableDigestAlgorithms    Check = "acceptable_digest_algorithms"
	CheckAcceptableSignatureAlgorithms Check = "acceptable_signature_algorithms"
	CheckMinKeySize                    Check = "min_key_size"
	CheckExpirationDate                Check = "expiration_date"
	CheckExpirationAfterUpdate         Check = "expiration_after_update"
)

// Checks returns every check category.
func Checks() []Check {
	return []Check{
		CheckAcceptableDigestAlgorithms,
		CheckAcceptableSignatureAlgorithms,
		CheckMinKeySize,
		CheckExpirationDate,
		CheckExpirationAfterUpdate,
	}
}

// LevelSet is a level configuration: a global level plus optional
// per-check overrides. Empty values are unset.
type LevelSet struct {
	Level     Level           `yaml:"level,omitempty" json:"level,omitempty"`
	Overrides map[Check]Level `yaml:"overrides,omitempty" json:"overrides,omitempty"`
}

// Validate checks that every configured level is known.
func (s LevelSet) Validate() error {
	if s.Level != "" {
		if _, err := ParseLevel(string(s.Level)); err != nil {
			return err
		}
	}
	for check, l := range s.Overrides {
		if !validCheck(check) {
			return fmt.Errorf("unknown check %q", check)
		}
		if _, err := ParseLevel(string(l)); err != nil {
			return fmt.Errorf("check %s: %w", check, err)
		}
	}
	return nil
}

func validCheck(c Check) bool {
	for _, known := range Checks() {
		if c == known {
			return true
		}
	}
	return false
}
