package policy

import (
	"maps"
	"slices"
	"sync"
	"time"

	"github.com/remiblancher/cryptosuite/internal/crypto"
)

// CryptographicSuite is the query contract consumed by the validation chain.
type CryptographicSuite interface {
	PolicyName() string
	UpdateDate() *time.Time

	Level() Level
	SetLevel(Level)
	LevelFor(Check) Level
	SetLevelFor(Check, Level)

	AcceptableDigestAlgorithms() map[crypto.DigestAlgorithm]ConstraintSet
	AcceptableSignatureAlgorithms() map[crypto.SignatureAlgorithm]ConstraintSet
	AcceptableDigestAlgorithmsWithExpirationDates() map[crypto.DigestAlgorithm]*time.Time
	AcceptableSignatureAlgorithmsWithExpirationDates() map[crypto.SignatureAlgorithmWithMinKeySize]*time.Time
	AcceptableSignatureAlgorithmsWithMinKeySizes() []crypto.SignatureAlgorithmWithMinKeySize

	IsDigestAcceptable(crypto.DigestAlgorithm) bool
	DigestExpiration(crypto.DigestAlgorithm) (*time.Time, bool)
	IsSignatureAcceptable(crypto.SignatureAlgorithm) bool
	MinKeySize(crypto.SignatureAlgorithm) (int, bool)
	IsKeySizeAcceptable(crypto.SignatureAlgorithm, int) bool
	SignatureExpiration(crypto.SignatureAlgorithm, int) (*time.Time, bool)
}

// DefaultLevel is the global level of a new Suite.
const DefaultLevel = LevelFail

// Suite is a resolved cryptographic suite for one usage scope.
// Acceptance data is read-only; levels may be changed concurrently.
type Suite struct {
	scope    Scope
	metadata Metadata
	res      *Resolution

	mu     sync.RWMutex
	level  Level
	checks map[Check]Level
}

var _ CryptographicSuite = (*Suite)(nil)

// NewSuite wraps a resolution.
func NewSuite(scope Scope, metadata *Metadata, res *Resolution) *Suite {
	s := &Suite{
		scope:  scope,
		res:    res,
		level:  DefaultLevel,
		checks: make(map[Check]Level),
	}
	if metadata != nil {
		s.metadata = *metadata
	}
	return s
}

// Scope returns the usage scope the suite was built for.
func (s *Suite) Scope() Scope { return s.scope }

// Metadata returns a copy of the suite metadata.
func (s *Suite) Metadata() Metadata { return s.metadata }

// Resolution returns the shared resolution behind the suite.
func (s *Suite) Resolution() *Resolution { return s.res }

// PolicyName returns the suite policy name.
func (s *Suite) PolicyName() string { return s.metadata.PolicyName }

// UpdateDate returns the next-update date of the suite, or nil.
func (s *Suite) UpdateDate() *time.Time { return s.metadata.NextUpdate }

// Level returns the global level.
func (s *Suite) Level() Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.level
}

// SetLevel sets the global level.
func (s *Suite) SetLevel(l Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.level = l
}

// LevelFor returns the level of a check, falling back to the global level.
func (s *Suite) LevelFor(c Check) Level {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if l, ok := s.checks[c]; ok {
		return l
	}
	return s.level
}

// SetLevelFor overrides the level of one check. An empty level removes the
// override.
func (s *Suite) SetLevelFor(c Check, l Level) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if l == "" {
		delete(s.checks, c)
		return
	}
	s.checks[c] = l
}

// ApplyLevels applies a level configuration. Invalid levels are rejected
// before anything is changed.
func (s *Suite) ApplyLevels(set LevelSet) error {
	if err := set.Validate(); err != nil {
		return err
	}
	if set.Level != "" {
		l, _ := ParseLevel(string(set.Level))
		s.SetLevel(l)
	}
	for c, raw := range set.Overrides {
		l, _ := ParseLevel(string(raw))
		s.SetLevelFor(c, l)
	}
	return nil
}

// AcceptableDigestAlgorithmsLevel returns the level of the acceptable digest check.
func (s *Suite) AcceptableDigestAlgorithmsLevel() Level {
	return s.LevelFor(CheckAcceptableDigestAlgorithms)
}

// SetAcceptableDigestAlgorithmsLevel overrides the level of the acceptable digest check.
func (s *Suite) SetAcceptableDigestAlgorithmsLevel(l Level) {
	s.SetLevelFor(CheckAcceptableDigestAlgorithms, l)
}

// AcceptableSignatureAlgorithmsLevel returns the level of the acceptable signature check.
func (s *Suite) AcceptableSignatureAlgorithmsLevel() Level {
	return s.LevelFor(CheckAcceptableSignatureAlgorithms)
}

// SetAcceptableSignatureAlgorithmsLevel overrides the level of the acceptable signature check.
func (s *Suite) SetAcceptableSignatureAlgorithmsLevel(l Level) {
	s.SetLevelFor(CheckAcceptableSignatureAlgorithms, l)
}

// MinKeySizeLevel returns the level of the key size check.
func (s *Suite) MinKeySizeLevel() Level {
	return s.LevelFor(CheckMinKeySize)
}

// SetMinKeySizeLevel overrides the level of the key size check.
func (s *Suite) SetMinKeySizeLevel(l Level) {
	s.SetLevelFor(CheckMinKeySize, l)
}

// ExpirationDateLevel returns the level of the algorithm expiration check.
func (s *Suite) ExpirationDateLevel() Level {
	return s.LevelFor(CheckExpirationDate)
}

// SetExpirationDateLevel overrides the level of the algorithm expiration check.
func (s *Suite) SetExpirationDateLevel(l Level) {
	s.SetLevelFor(CheckExpirationDate, l)
}

// ExpirationAfterUpdateLevel returns the level of the suite update date check.
func (s *Suite) ExpirationAfterUpdateLevel() Level {
	return s.LevelFor(CheckExpirationAfterUpdate)
}

// SetExpirationAfterUpdateLevel overrides the level of the suite update date check.
func (s *Suite) SetExpirationAfterUpdateLevel(l Level) {
	s.SetLevelFor(CheckExpirationAfterUpdate, l)
}

// AcceptableDigestAlgorithms returns every acceptable digest with its constraints.
func (s *Suite) AcceptableDigestAlgorithms() map[crypto.DigestAlgorithm]ConstraintSet {
	out := make(map[crypto.DigestAlgorithm]ConstraintSet, len(s.res.digests))
	for d, set := range s.res.digests {
		out[d] = set.Clone()
	}
	return out
}

// AcceptableSignatureAlgorithms returns every acceptable signature algorithm
// with its constraints, explicit and derived.
func (s *Suite) AcceptableSignatureAlgorithms() map[crypto.SignatureAlgorithm]ConstraintSet {
	out := make(map[crypto.SignatureAlgorithm]ConstraintSet, len(s.res.signatures))
	for alg, set := range s.res.signatures {
		out[alg] = set.Clone()
	}
	return out
}

// AcceptableDigestAlgorithmsWithExpirationDates maps each acceptable digest
// to its expiration date. Nil means no expiration.
func (s *Suite) AcceptableDigestAlgorithmsWithExpirationDates() map[crypto.DigestAlgorithm]*time.Time {
	return maps.Clone(s.res.digestExpirations)
}

// AcceptableSignatureAlgorithmsWithExpirationDates maps each
// (algorithm, key-size tier) to its expiration date. Nil means no expiration.
func (s *Suite) AcceptableSignatureAlgorithmsWithExpirationDates() map[crypto.SignatureAlgorithmWithMinKeySize]*time.Time {
	return maps.Clone(s.res.signatureExpirations)
}

// AcceptableSignatureAlgorithmsWithMinKeySizes returns the key-size tiers in
// order. A key size of 0 is unconstrained.
func (s *Suite) AcceptableSignatureAlgorithmsWithMinKeySizes() []crypto.SignatureAlgorithmWithMinKeySize {
	return slices.SortedFunc(maps.Keys(s.res.signatureExpirations),
		func(a, b crypto.SignatureAlgorithmWithMinKeySize) int { return a.Compare(b) })
}

// IsDigestAcceptable reports whether the suite lists d.
func (s *Suite) IsDigestAcceptable(d crypto.DigestAlgorithm) bool {
	_, ok := s.res.digestExpirations[d]
	return ok
}

// DigestExpiration returns the expiration date of d. The boolean is false
// when d is not acceptable; a nil date means no expiration.
func (s *Suite) DigestExpiration(d crypto.DigestAlgorithm) (*time.Time, bool) {
	end, ok := s.res.digestExpirations[d]
	return end, ok
}

// IsSignatureAcceptable reports whether the suite lists alg at any key size.
func (s *Suite) IsSignatureAcceptable(alg crypto.SignatureAlgorithm) bool {
	_, ok := s.MinKeySize(alg)
	return ok
}

// MinKeySize returns the smallest key-size tier of alg.
func (s *Suite) MinKeySize(alg crypto.SignatureAlgorithm) (int, bool) {
	found := false
	smallest := 0
	for k := range s.res.signatureExpirations {
		if k.Algorithm != alg {
			continue
		}
		if !found || k.MinKeySize < smallest {
			smallest = k.MinKeySize
			found = true
		}
	}
	return smallest, found
}

// IsKeySizeAcceptable reports whether some tier of alg admits keySize.
func (s *Suite) IsKeySizeAcceptable(alg crypto.SignatureAlgorithm, keySize int) bool {
	_, ok := s.SignatureExpiration(alg, keySize)
	return ok
}

// SignatureExpiration returns the expiration of alg for a key of keySize
// bits: the latest date among the tiers whose minimum the key meets, nil
// (no expiration) winning. The boolean is false when no tier applies.
func (s *Suite) SignatureExpiration(alg crypto.SignatureAlgorithm, keySize int) (*time.Time, bool) {
	var end *time.Time
	found := false
	for k, tierEnd := range s.res.signatureExpirations {
		if k.Algorithm != alg || k.MinKeySize > keySize {
			continue
		}
		if !found {
			end, found = tierEnd, true
			continue
		}
		end = latestEnd(end, tierEnd)
	}
	return end, found
}
