package cryptosuite

import (
	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/loader"
	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/policy"
	"github.com/remiblancher/cryptosuite/internal/validation"
)

// Logger is the structured logger accepted by the With*Logger options.
type Logger = logging.Logger

// WithFormat forces the format of Load instead of detecting it.
func WithFormat(format Format) LoadOption { return loader.WithFormat(format) }

// WithLoadLogger sets the logger receiving dropped-entry warnings.
func WithLoadLogger(l Logger) LoadOption { return loader.WithLogger(l) }

// WithCatalogueLogger sets the catalogue logger.
func WithCatalogueLogger(l Logger) CatalogueOption { return policy.WithLogger(l) }

// WithDefaultLevels applies a level set to every scope.
func WithDefaultLevels(set LevelSet) CatalogueOption { return policy.WithDefaultLevels(set) }

// WithScopeLevels applies a level set to one scope, after the default levels.
func WithScopeLevels(scope Scope, set LevelSet) CatalogueOption {
	return policy.WithScopeLevels(scope, set)
}

// WithIgnoredPositions makes the validator skip digests at the given positions.
func WithIgnoredPositions(positions ...DigestPosition) ValidatorOption {
	return validation.WithIgnoredPositions(positions...)
}

// WithValidatorLogger sets the validator logger.
func WithValidatorLogger(l Logger) ValidatorOption { return validation.WithLogger(l) }

// ParseScope parses a scope name.
func ParseScope(s string) (Scope, error) { return policy.ParseScope(s) }

// LookupDigest resolves a digest algorithm from a name, JAdES name, OID or URI.
func LookupDigest(s string) (DigestAlgorithm, bool) { return crypto.LookupDigest(s) }

// LookupSignature resolves a signature algorithm from a name, JWA name, OID
// or URI.
func LookupSignature(s string) (SignatureAlgorithm, bool) { return crypto.LookupSignature(s) }
