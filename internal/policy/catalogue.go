package policy

import (
	"crypto/sha256"
	"encoding/hex"
	"encoding/json"
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"

	"github.com/bluele/gcache"

	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/metrics"
)

// Scope is a validation context served by the catalogue.
type Scope string

const (
	ScopeDefault                      Scope = "default"
	ScopeSignature                    Scope = "signature"
	ScopeSignatureCertificates        Scope = "signature-certificates"
	ScopeCounterSignature             Scope = "counter-signature"
	ScopeCounterSignatureCertificates Scope = "counter-signature-certificates"
	ScopeRevocation                   Scope = "revocation"
	ScopeRevocationCertificates       Scope = "revocation-certificates"
	ScopeTimestamp                    Scope = "timestamp"
	ScopeTimestampCertificates        Scope = "timestamp-certificates"
	ScopeEvidenceRecordSignature      Scope = "evidence-record-signature"
)

// scopeUsages maps each scope to the usages its rows must carry.
// A nil set keeps every row.
var scopeUsages = map[Scope][]Usage{
	ScopeDefault:                      nil,
	ScopeSignature:                    {UsageSignData},
	ScopeSignatureCertificates:        {UsageSignCertificates},
	ScopeCounterSignature:             {UsageSignData},
	ScopeCounterSignatureCertificates: {UsageSignCertificates},
	ScopeRevocation:                   {UsageSignCRLs, UsageSignOCSP},
	ScopeRevocationCertificates:       {UsageSignCertificates},
	ScopeTimestamp:                    {UsageSignTimestamps},
	ScopeTimestampCertificates:        {UsageSignCertificates},
	ScopeEvidenceRecordSignature:      {UsageSignEvidenceRecords, UsageHashTrees},
}

// Scopes returns every scope in a stable order.
func Scopes() []Scope {
	return []Scope{
		ScopeDefault,
		ScopeSignature, ScopeSignatureCertificates,
		ScopeCounterSignature, ScopeCounterSignatureCertificates,
		ScopeRevocation, ScopeRevocationCertificates,
		ScopeTimestamp, ScopeTimestampCertificates,
		ScopeEvidenceRecordSignature,
	}
}

// ParseScope parses a scope name ("timestamp", "TIMESTAMP_CERTIFICATES", ...).
func ParseScope(s string) (Scope, error) {
	want := foldName(s)
	for _, scope := range Scopes() {
		if foldName(string(scope)) == want {
			return scope, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownScope, s)
}

// Usages returns the usage filter of the scope; nil means no filter.
func (s Scope) Usages() []Usage {
	return slices.Clone(scopeUsages[s])
}

// Catalogue derives usage-scoped suites from one suite document and caches
// them for its lifetime. Scopes whose filtered entries are identical share
// one Resolution; each scope keeps its own Suite so levels stay per scope.
type Catalogue struct {
	metadata   *Metadata
	algorithms []Algorithm

	logger  logging.Logger
	metrics *metrics.Metrics
	levels  map[Scope]LevelSet
	global  LevelSet

	suites gcache.Cache

	mu          sync.Mutex
	resolutions map[string]*Resolution
}

// CatalogueOption configures a Catalogue.
type CatalogueOption func(*Catalogue)

// WithLogger sets the catalogue logger.
func WithLogger(l logging.Logger) CatalogueOption {
	return func(c *Catalogue) {
		if l != nil {
			c.logger = l
		}
	}
}

// WithMetrics sets the collectors receiving cache and resolution metrics.
func WithMetrics(m *metrics.Metrics) CatalogueOption {
	return func(c *Catalogue) {
		c.metrics = m
	}
}

// WithDefaultLevels sets the levels applied to every scope.
func WithDefaultLevels(set LevelSet) CatalogueOption {
	return func(c *Catalogue) {
		c.global = set
	}
}

// WithScopeLevels sets levels for one scope, on top of the default levels.
func WithScopeLevels(scope Scope, set LevelSet) CatalogueOption {
	return func(c *Catalogue) {
		c.levels[scope] = set
	}
}

// NewCatalogue loads the document parts and prepares the scope cache.
func NewCatalogue(doc Document, opts ...CatalogueOption) (*Catalogue, error) {
	metadata, err := doc.Metadata()
	if err != nil {
		return nil, fmt.Errorf("failed to read suite metadata: %w", err)
	}
	if metadata == nil {
		return nil, ErrMissingMetadata
	}
	algorithms, err := doc.Algorithms()
	if err != nil {
		return nil, fmt.Errorf("failed to read suite algorithms: %w", err)
	}
	if algorithms == nil {
		return nil, ErrMissingAlgorithms
	}

	c := &Catalogue{
		metadata:    metadata,
		algorithms:  algorithms,
		logger:      logging.NewNull(),
		levels:      make(map[Scope]LevelSet),
		resolutions: make(map[string]*Resolution),
	}
	for _, opt := range opts {
		opt(c)
	}

	if err := c.global.Validate(); err != nil {
		return nil, fmt.Errorf("default levels: %w", err)
	}
	for scope, set := range c.levels {
		if _, ok := scopeUsages[scope]; !ok {
			return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
		}
		if err := set.Validate(); err != nil {
			return nil, fmt.Errorf("levels of scope %s: %w", scope, err)
		}
	}

	warnUnsupportedMax(c.algorithms, c.logger)

	c.suites = gcache.New(0).Simple().LoaderFunc(func(key interface{}) (interface{}, error) {
		return c.build(key.(cacheKey))
	}).Build()

	return c, nil
}

// cacheKey identifies one cached Suite: a named scope, or an ad-hoc usage
// set when filter is set. An empty ad-hoc set keeps untagged rows only.
type cacheKey struct {
	scope  Scope
	filter bool
	usages string
}

func (k cacheKey) label() string {
	if k.scope != "" {
		return string(k.scope)
	}
	return "usages:" + k.usages
}

// Metadata returns the suite metadata.
func (c *Catalogue) Metadata() Metadata { return *c.metadata }

// Algorithms returns the raw entries of the document.
func (c *Catalogue) Algorithms() []Algorithm { return slices.Clone(c.algorithms) }

// ResolutionCount returns the number of distinct resolutions built so far.
func (c *Catalogue) ResolutionCount() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return len(c.resolutions)
}

// Suite returns the cached suite of a scope, building it on first use.
func (c *Catalogue) Suite(scope Scope) (*Suite, error) {
	if _, ok := scopeUsages[scope]; !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownScope, scope)
	}
	return c.get(cacheKey{scope: scope})
}

// SuiteForUsages returns a suite restricted to an arbitrary usage set.
// Rows without usage tags always apply, so an empty set keeps only those.
// It carries the default levels only.
func (c *Catalogue) SuiteForUsages(usages ...Usage) (*Suite, error) {
	names := make([]string, 0, len(usages))
	for _, u := range usages {
		if !slices.Contains(AllUsages(), u) {
			return nil, fmt.Errorf("%w: %q", ErrUnknownUsage, u)
		}
		names = append(names, string(u))
	}
	slices.Sort(names)
	return c.get(cacheKey{filter: true, usages: strings.Join(slices.Compact(names), ",")})
}

func (c *Catalogue) get(key cacheKey) (*Suite, error) {
	c.countCache(key, c.suites.Has(key))

	v, err := c.suites.Get(key)
	if err != nil {
		return nil, err
	}
	return v.(*Suite), nil
}

func (c *Catalogue) countCache(key cacheKey, hit bool) {
	if c.metrics == nil {
		return
	}
	if hit {
		c.metrics.CacheHitsTotal.WithLabelValues(key.label()).Inc()
	} else {
		c.metrics.CacheMissesTotal.WithLabelValues(key.label()).Inc()
	}
}

func (c *Catalogue) build(key cacheKey) (*Suite, error) {
	filtered := c.algorithms
	switch {
	case key.filter:
		var usages []Usage
		if key.usages != "" {
			for _, name := range strings.Split(key.usages, ",") {
				usages = append(usages, Usage(name))
			}
		}
		filtered = FilterUsages(c.algorithms, usages)
	case scopeUsages[key.scope] != nil:
		filtered = FilterUsages(c.algorithms, scopeUsages[key.scope])
	}

	res, err := c.resolution(filtered)
	if err != nil {
		return nil, err
	}

	suite := NewSuite(key.scope, c.metadata, res)
	if err := suite.ApplyLevels(c.global); err != nil {
		return nil, err
	}
	if set, ok := c.levels[key.scope]; ok {
		if err := suite.ApplyLevels(set); err != nil {
			return nil, err
		}
	}

	c.logger.Debug("Built suite for {Scope} from {Entries} of {Total} entries",
		key.label(), len(filtered), len(c.algorithms))
	return suite, nil
}

// resolution returns the shared resolution of a filtered entry list,
// resolving it the first time its content is seen.
func (c *Catalogue) resolution(filtered []Algorithm) (*Resolution, error) {
	fp, err := fingerprint(filtered)
	if err != nil {
		return nil, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if res, ok := c.resolutions[fp]; ok {
		return res, nil
	}

	start := time.Now()
	res, err := Resolve(c.metadata, filtered, WithResolveLogger(c.logger), withoutMaxWarnings())
	if err != nil {
		return nil, err
	}
	if c.metrics != nil {
		c.metrics.ResolutionsTotal.Inc()
		c.metrics.ResolutionDuration.Observe(time.Since(start).Seconds())
	}

	c.resolutions[fp] = res
	return res, nil
}

// fingerprint is a content hash of an entry list.
func fingerprint(algorithms []Algorithm) (string, error) {
	data, err := json.Marshal(algorithms)
	if err != nil {
		return "", fmt.Errorf("failed to fingerprint suite entries: %w", err)
	}
	sum := sha256.Sum256(data)
	return hex.EncodeToString(sum[:]), nil
}

func (c *Catalogue) must(scope Scope) *Suite {
	s, err := c.Suite(scope)
	if err != nil {
		// Metadata and entries are checked by NewCatalogue, so building a
		// known scope cannot fail.
		panic(fmt.Sprintf("policy: building scope %s: %v", scope, err))
	}
	return s
}

// CryptographicSuite returns the unfiltered suite.
func (c *Catalogue) CryptographicSuite() *Suite { return c.must(ScopeDefault) }

// SignatureCryptographicSuite returns the suite for signature values.
func (c *Catalogue) SignatureCryptographicSuite() *Suite { return c.must(ScopeSignature) }

// SignatureCertificatesCryptographicSuite returns the suite for the signing certificate chain.
func (c *Catalogue) SignatureCertificatesCryptographicSuite() *Suite {
	return c.must(ScopeSignatureCertificates)
}

// CounterSignatureCryptographicSuite returns the suite for counter-signatures.
func (c *Catalogue) CounterSignatureCryptographicSuite() *Suite {
	return c.must(ScopeCounterSignature)
}

// CounterSignatureCertificatesCryptographicSuite returns the suite for counter-signer chains.
func (c *Catalogue) CounterSignatureCertificatesCryptographicSuite() *Suite {
	return c.must(ScopeCounterSignatureCertificates)
}

// RevocationCryptographicSuite returns the suite for CRLs and OCSP responses.
func (c *Catalogue) RevocationCryptographicSuite() *Suite { return c.must(ScopeRevocation) }

// RevocationCertificatesCryptographicSuite returns the suite for revocation issuer chains.
func (c *Catalogue) RevocationCertificatesCryptographicSuite() *Suite {
	return c.must(ScopeRevocationCertificates)
}

// TimestampCryptographicSuite returns the suite for timestamp tokens.
func (c *Catalogue) TimestampCryptographicSuite() *Suite { return c.must(ScopeTimestamp) }

// TimestampCertificatesCryptographicSuite returns the suite for TSA chains.
func (c *Catalogue) TimestampCertificatesCryptographicSuite() *Suite {
	return c.must(ScopeTimestampCertificates)
}

// EvidenceRecordSignatureCryptographicSuite returns the suite for evidence records.
func (c *Catalogue) EvidenceRecordSignatureCryptographicSuite() *Suite {
	return c.must(ScopeEvidenceRecordSignature)
}
