package cryptosuite

import (
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/loader"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Re-export suite types
type (
	// SuiteDocument is a parsed suite as seen by the catalogue.
	SuiteDocument = policy.Document

	// Document is a suite document read by Load or LoadBytes.
	Document = loader.Document

	// Format is a suite document encoding.
	Format = loader.Format

	// LoadOption configures Load and LoadBytes.
	LoadOption = loader.Option

	// Metadata identifies a suite and its publication.
	Metadata = policy.Metadata

	// Algorithm is one raw suite entry.
	Algorithm = policy.Algorithm

	// Evaluation is one time-bounded row of an entry.
	Evaluation = policy.Evaluation

	// Parameter is a named key size constraint of an evaluation.
	Parameter = policy.Parameter

	// Validity is the time window of an evaluation.
	Validity = policy.Validity

	// Usage tags the operations an evaluation applies to.
	Usage = policy.Usage

	// Catalogue serves the usage-scoped suites of one document.
	Catalogue = policy.Catalogue

	// CatalogueOption configures NewCatalogue.
	CatalogueOption = policy.CatalogueOption

	// Suite is a resolved, read-only cryptographic suite.
	Suite = policy.Suite

	// CryptographicSuite is the query interface of a resolved suite.
	CryptographicSuite = policy.CryptographicSuite

	// Scope is a validation context of the catalogue.
	Scope = policy.Scope

	// Level is the severity a failed check is reported with.
	Level = policy.Level

	// LevelSet is a global level plus per-check overrides.
	LevelSet = policy.LevelSet

	// Check names a category of suite check.
	Check = policy.Check
)

// Re-export validation types
type (
	// Validator checks tokens against a catalogue.
	Validator = validation.Validator

	// ValidatorOption configures NewValidator.
	ValidatorOption = validation.Option

	// Token is the algorithm footprint of one validated object.
	Token = validation.Token

	// TokenKind is the kind of validated object.
	TokenKind = validation.TokenKind

	// DigestUsage is one digest computed by a token.
	DigestUsage = validation.DigestUsage

	// DigestPosition is where in a token a digest is computed.
	DigestPosition = validation.DigestPosition

	// TokenResult is the verdict for one token.
	TokenResult = validation.TokenResult

	// ChainResult is the verdict for a chain of tokens.
	ChainResult = validation.ChainResult

	// CheckResult is the outcome of one check.
	CheckResult = validation.CheckResult

	// Status is the outcome of a check, token or chain.
	Status = validation.Status
)

// Re-export algorithm identity types
type (
	DigestAlgorithm                  = crypto.DigestAlgorithm
	EncryptionAlgorithm              = crypto.EncryptionAlgorithm
	SignatureAlgorithm               = crypto.SignatureAlgorithm
	SignatureAlgorithmWithMinKeySize = crypto.SignatureAlgorithmWithMinKeySize
)

// Document formats.
const (
	FormatXML  = loader.FormatXML
	FormatJSON = loader.FormatJSON
	FormatYAML = loader.FormatYAML
)

// Scopes.
const (
	ScopeDefault                      = policy.ScopeDefault
	ScopeSignature                    = policy.ScopeSignature
	ScopeSignatureCertificates        = policy.ScopeSignatureCertificates
	ScopeCounterSignature             = policy.ScopeCounterSignature
	ScopeCounterSignatureCertificates = policy.ScopeCounterSignatureCertificates
	ScopeRevocation                   = policy.ScopeRevocation
	ScopeRevocationCertificates       = policy.ScopeRevocationCertificates
	ScopeTimestamp                    = policy.ScopeTimestamp
	ScopeTimestampCertificates        = policy.ScopeTimestampCertificates
	ScopeEvidenceRecordSignature      = policy.ScopeEvidenceRecordSignature
)

// Levels.
const (
	LevelFail   = policy.LevelFail
	LevelWarn   = policy.LevelWarn
	LevelInfo   = policy.LevelInfo
	LevelIgnore = policy.LevelIgnore
)

// Token kinds.
const (
	KindCertificate      = validation.KindCertificate
	KindSignature        = validation.KindSignature
	KindCounterSignature = validation.KindCounterSignature
	KindTimestamp        = validation.KindTimestamp
	KindRevocation       = validation.KindRevocation
	KindEvidenceRecord   = validation.KindEvidenceRecord
)

// Statuses.
const (
	StatusPassed  = validation.StatusPassed
	StatusInfo    = validation.StatusInfo
	StatusWarning = validation.StatusWarning
	StatusFailed  = validation.StatusFailed
)

// Frequently used algorithms. The full catalogues live in LookupDigest and
// LookupSignature.
const (
	SHA1   = crypto.DigestSHA1
	SHA256 = crypto.DigestSHA256
	SHA384 = crypto.DigestSHA384
	SHA512 = crypto.DigestSHA512

	RSASHA256    = crypto.RSASHA256
	RSAPSSSHA256 = crypto.RSAPSSSHA256
	ECDSASHA256  = crypto.ECDSASHA256
	ECDSASHA384  = crypto.ECDSASHA384
	Ed25519      = crypto.Ed25519
	MLDSA65      = crypto.MLDSA65
)

// Errors
var (
	ErrMissingMetadata   = policy.ErrMissingMetadata
	ErrMissingAlgorithms = policy.ErrMissingAlgorithms
	ErrUnknownScope      = policy.ErrUnknownScope
	ErrUnsupportedFormat = loader.ErrUnsupportedFormat
	ErrInvalidDocument   = loader.ErrInvalidDocument
	ErrUnknownAlgorithm  = crypto.ErrUnknownAlgorithm
	ErrUnknownTokenKind  = validation.ErrUnknownTokenKind
	ErrEmptyChain        = validation.ErrEmptyChain
)
