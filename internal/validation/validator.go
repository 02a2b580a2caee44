package validation

import (
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/metrics"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

// Validator checks tokens against the suites of a catalogue.
// It holds no mutable state and is safe for concurrent use.
type Validator struct {
	catalogue *policy.Catalogue
	ignored   map[DigestPosition]bool
	logger    logging.Logger
	metrics   *metrics.Metrics
}

// Option configures a Validator.
type Option func(*Validator)

// WithIgnoredPositions skips digest usages at the given positions.
func WithIgnoredPositions(positions ...DigestPosition) Option {
	return func(v *Validator) {
		for _, p := range positions {
			v.ignored[p] = true
		}
	}
}

// WithLogger sets the validator logger.
func WithLogger(l logging.Logger) Option {
	return func(v *Validator) {
		if l != nil {
			v.logger = l
		}
	}
}

// WithMetrics counts verdicts by token kind and status.
func WithMetrics(m *metrics.Metrics) Option {
	return func(v *Validator) {
		v.metrics = m
	}
}

// NewValidator creates a validator over a catalogue.
func NewValidator(c *policy.Catalogue, opts ...Option) *Validator {
	v := &Validator{
		catalogue: c,
		ignored:   make(map[DigestPosition]bool),
		logger:    logging.NewNull(),
	}
	for _, opt := range opts {
		opt(v)
	}
	return v
}

// IsIgnored reports whether digests at position p are skipped.
func (v *Validator) IsIgnored(p DigestPosition) bool {
	return v.ignored[p]
}

// ValidateToken checks the algorithms of one token at validation time at.
func (v *Validator) ValidateToken(token Token, at time.Time) (*TokenResult, error) {
	scope, err := token.Scope()
	if err != nil {
		return nil, err
	}
	suite, err := v.catalogue.Suite(scope)
	if err != nil {
		return nil, fmt.Errorf("failed to get suite for %s: %w", scope, err)
	}

	r := &TokenResult{
		ReportID:       uuid.NewString(),
		TokenID:        token.ID,
		Kind:           token.Kind,
		Scope:          scope,
		PolicyName:     suite.PolicyName(),
		ValidationTime: at.UTC(),
	}

	if token.SignatureAlgorithm != "" {
		r.Checks = append(r.Checks, checkSignature(suite, token.SignatureAlgorithm, token.KeySize, at)...)
	}
	for _, d := range v.digestGroups(token.Digests) {
		r.Checks = append(r.Checks, checkDigest(suite, d, at)...)
	}
	r.finish()

	if v.metrics != nil {
		v.metrics.ValidationsTotal.WithLabelValues(string(token.Kind), string(r.Status)).Inc()
	}
	log := v.logger.ForContext("ReportID", r.ReportID)
	if r.Status == StatusPassed {
		log.Debug("Token {TokenID} ({Kind}) passed {Checks} checks in scope {Scope}",
			token.ID, token.Kind, len(r.Checks), scope)
	} else {
		log.Info("Token {TokenID} ({Kind}) is {Status}: {Message}",
			token.ID, token.Kind, r.Status, r.Cryptographic.Message)
	}
	return r, nil
}

// ValidateChain checks every token at the same validation time.
// The chain status is the worst token status.
func (v *Validator) ValidateChain(tokens []Token, at time.Time) (*ChainResult, error) {
	chain := &ChainResult{
		ReportID:       uuid.NewString(),
		ValidationTime: at.UTC(),
		Status:         StatusPassed,
		Tokens:         make([]*TokenResult, 0, len(tokens)),
	}
	for i, t := range tokens {
		r, err := v.ValidateToken(t, at)
		if err != nil {
			return nil, fmt.Errorf("token #%d (%s): %w", i, t.ID, err)
		}
		chain.Tokens = append(chain.Tokens, r)
		chain.Status = Worst(chain.Status, r.Status)
	}
	return chain, nil
}

// digestGroups returns the distinct (algorithm, position) pairs in
// first-seen order, without ignored positions.
func (v *Validator) digestGroups(usages []DigestUsage) []DigestUsage {
	seen := make(map[DigestUsage]bool, len(usages))
	var groups []DigestUsage
	for _, u := range usages {
		if v.ignored[u.Position] || seen[u] {
			continue
		}
		seen[u] = true
		groups = append(groups, u)
	}
	return groups
}

func checkSignature(s *policy.Suite, alg crypto.SignatureAlgorithm, keySize int, at time.Time) []CheckResult {
	base := CheckResult{Algorithm: string(alg), KeySize: keySize}

	if !s.IsSignatureAcceptable(alg) {
		return []CheckResult{failed(s, base, policy.CheckAcceptableSignatureAlgorithms,
			fmt.Sprintf("signature algorithm %s is not acceptable", alg))}
	}
	out := []CheckResult{passed(base, policy.CheckAcceptableSignatureAlgorithms,
		fmt.Sprintf("signature algorithm %s is acceptable", alg))}

	end, ok := s.SignatureExpiration(alg, keySize)
	if !ok {
		minSize, _ := s.MinKeySize(alg)
		msg := fmt.Sprintf("key size %d is below the minimum %d for %s", keySize, minSize, alg)
		if keySize == 0 {
			msg = fmt.Sprintf("key size is unknown and %s requires at least %d bits", alg, minSize)
		}
		out = append(out, failed(s, base, policy.CheckMinKeySize, msg))
		// An undersized key is still dated by the smallest tier.
		end, _ = s.SignatureExpiration(alg, minSize)
	} else {
		out = append(out, passed(base, policy.CheckMinKeySize,
			fmt.Sprintf("key size %d is acceptable for %s", keySize, alg)))
	}

	return append(out, checkExpiration(s, base, end, at)...)
}

func checkDigest(s *policy.Suite, d DigestUsage, at time.Time) []CheckResult {
	base := CheckResult{Algorithm: string(d.Algorithm), Position: d.Position}

	end, ok := s.DigestExpiration(d.Algorithm)
	if !ok {
		return []CheckResult{failed(s, base, policy.CheckAcceptableDigestAlgorithms,
			fmt.Sprintf("digest algorithm %s is not acceptable at %s", d.Algorithm, d.Position))}
	}
	out := []CheckResult{passed(base, policy.CheckAcceptableDigestAlgorithms,
		fmt.Sprintf("digest algorithm %s is acceptable at %s", d.Algorithm, d.Position))}

	return append(out, checkExpiration(s, base, end, at)...)
}

// checkExpiration checks the algorithm end date, then whether the suite was
// still current at the validation time.
func checkExpiration(s *policy.Suite, base CheckResult, end *time.Time, at time.Time) []CheckResult {
	base.NotAfter = end

	if end != nil && !at.Before(*end) {
		return []CheckResult{failed(s, base, policy.CheckExpirationDate,
			fmt.Sprintf("%s expired on %s", base.Algorithm, end.Format(time.DateOnly)))}
	}
	msg := fmt.Sprintf("%s has no expiration date", base.Algorithm)
	if end != nil {
		msg = fmt.Sprintf("%s is valid until %s", base.Algorithm, end.Format(time.DateOnly))
	}
	out := []CheckResult{passed(base, policy.CheckExpirationDate, msg)}

	next := s.UpdateDate()
	if next == nil {
		return out
	}
	if at.After(*next) {
		return append(out, failed(s, base, policy.CheckExpirationAfterUpdate,
			fmt.Sprintf("validation time is after the suite update date %s", next.Format(time.DateOnly))))
	}
	return append(out, passed(base, policy.CheckExpirationAfterUpdate,
		fmt.Sprintf("suite is current until %s", next.Format(time.DateOnly))))
}

func passed(base CheckResult, check policy.Check, msg string) CheckResult {
	base.Check = check
	base.Status = StatusPassed
	base.Message = msg
	return base
}

func failed(s *policy.Suite, base CheckResult, check policy.Check, msg string) CheckResult {
	base.Check = check
	base.Status = StatusForLevel(s.LevelFor(check))
	base.Message = msg
	return base
}
