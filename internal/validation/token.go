// Package validation runs the algorithm obsolescence checks of a validation
// chain against the usage-scoped suites of a policy.Catalogue.
//
// A Token describes what a validated object (certificate, signature,
// timestamp, ...) used: one signature algorithm with its key size and any
// number of digest usages. The Validator picks the suite for the token kind,
// runs every check and folds the results into one verdict per token.
package validation

import (
	"fmt"
	"strings"

	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

// TokenKind is the kind of validated object.
type TokenKind string

const (
	KindCertificate      TokenKind = "CERTIFICATE"
	KindSignature        TokenKind = "SIGNATURE"
	KindCounterSignature TokenKind = "COUNTER_SIGNATURE"
	KindTimestamp        TokenKind = "TIMESTAMP"
	KindRevocation       TokenKind = "REVOCATION"
	KindEvidenceRecord   TokenKind = "EVIDENCE_RECORD"
)

// TokenKinds returns every token kind.
func TokenKinds() []TokenKind {
	return []TokenKind{
		KindCertificate, KindSignature, KindCounterSignature,
		KindTimestamp, KindRevocation, KindEvidenceRecord,
	}
}

// ParseTokenKind parses a token kind name, ignoring case and separators.
func ParseTokenKind(s string) (TokenKind, error) {
	want := fold(s)
	for _, k := range TokenKinds() {
		if fold(string(k)) == want {
			return k, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownTokenKind, s)
}

// DigestPosition is the semantic place a digest is used at inside a token.
type DigestPosition string

const (
	PositionSignedAttributes DigestPosition = "SIGNED_ATTRIBUTES"
	PositionReference        DigestPosition = "REFERENCE"
	PositionMessageImprint   DigestPosition = "MESSAGE_IMPRINT"
	PositionCertificateRef   DigestPosition = "CERTIFICATE_REFERENCE"
	PositionRevocationRef    DigestPosition = "REVOCATION_REFERENCE"
	PositionTimestampRef     DigestPosition = "TIMESTAMP_REFERENCE"
	PositionHashTree         DigestPosition = "HASH_TREE"
)

// DigestPositions returns every digest position.
func DigestPositions() []DigestPosition {
	return []DigestPosition{
		PositionSignedAttributes, PositionReference, PositionMessageImprint,
		PositionCertificateRef, PositionRevocationRef, PositionTimestampRef,
		PositionHashTree,
	}
}

// ParseDigestPosition parses a digest position name.
func ParseDigestPosition(s string) (DigestPosition, error) {
	want := fold(s)
	for _, p := range DigestPositions() {
		if fold(string(p)) == want {
			return p, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownPosition, s)
}

// DigestUsage is one digest computed by the token.
type DigestUsage struct {
	Algorithm crypto.DigestAlgorithm `json:"algorithm"`
	Position  DigestPosition         `json:"position"`
}

// Token is the algorithm footprint of one validated object.
type Token struct {
	ID   string    `json:"id"`
	Kind TokenKind `json:"kind"`

	// Context is the kind of object a certificate token's chain belongs to.
	// It is ignored for other kinds and defaults to KindSignature.
	Context TokenKind `json:"context,omitempty"`

	SignatureAlgorithm crypto.SignatureAlgorithm `json:"signature_algorithm,omitempty"`

	// KeySize is the signing key size in bits; 0 when unknown.
	KeySize int `json:"key_size,omitempty"`

	Digests []DigestUsage `json:"digests,omitempty"`
}

// Scope returns the catalogue scope the token is checked against.
func (t Token) Scope() (policy.Scope, error) {
	switch t.Kind {
	case KindCertificate:
		switch t.Context {
		case "", KindSignature, KindEvidenceRecord:
			return policy.ScopeSignatureCertificates, nil
		case KindCounterSignature:
			return policy.ScopeCounterSignatureCertificates, nil
		case KindTimestamp:
			return policy.ScopeTimestampCertificates, nil
		case KindRevocation:
			return policy.ScopeRevocationCertificates, nil
		default:
			return "", fmt.Errorf("%w: certificate context %q", ErrUnknownTokenKind, t.Context)
		}
	case KindSignature:
		return policy.ScopeSignature, nil
	case KindCounterSignature:
		return policy.ScopeCounterSignature, nil
	case KindTimestamp:
		return policy.ScopeTimestamp, nil
	case KindRevocation:
		return policy.ScopeRevocation, nil
	case KindEvidenceRecord:
		return policy.ScopeEvidenceRecordSignature, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnknownTokenKind, t.Kind)
	}
}

func fold(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	return strings.ReplaceAll(s, "_", "")
}
