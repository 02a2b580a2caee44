package policy

import (
	"bytes"
	"errors"
	"strings"
	"sync"
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/metrics"
)

func scopedAlgorithms() []Algorithm {
	ocspOnly := until("2040-01-01")
	ocspOnly.Usages = []Usage{UsageSignOCSP}

	timestamps := until("2045-01-01")
	timestamps.Usages = []Usage{UsageSignTimestamps}

	return []Algorithm{
		{Name: "SHA256", OIDs: []string{oidSHA256}, Evaluations: []Evaluation{until("")}},
		{Name: "SHA1", OIDs: []string{oidSHA1}, Evaluations: []Evaluation{ocspOnly}},
		{Name: "MD5", OIDs: []string{oidMD5}, Evaluations: []Evaluation{timestamps}},
		{Name: "RSA", OIDs: []string{oidRSA}, Evaluations: []Evaluation{rsaTier(2048, "")}},
	}
}

func newTestCatalogue(t *testing.T, opts ...CatalogueOption) *Catalogue {
	t.Helper()
	c, err := NewCatalogue(NewStaticDocument(testMetadata(), scopedAlgorithms()), opts...)
	require.NoError(t, err)
	return c
}

// =============================================================================
// [Unit] Catalogue Scope Tests
// =============================================================================

func TestU_Catalogue_UsageFiltering(t *testing.T) {
	c := newTestCatalogue(t)

	ts := c.TimestampCryptographicSuite()
	assert.False(t, ts.IsDigestAcceptable(crypto.DigestSHA1), "SIGN_OCSP rows must not reach the timestamp suite")
	assert.True(t, ts.IsDigestAcceptable(crypto.DigestMD5))
	assert.True(t, ts.IsDigestAcceptable(crypto.DigestSHA256))
	assert.False(t, ts.IsSignatureAcceptable(crypto.RSASHA1))

	rev := c.RevocationCryptographicSuite()
	assert.True(t, rev.IsDigestAcceptable(crypto.DigestSHA1))
	assert.False(t, rev.IsDigestAcceptable(crypto.DigestMD5))
	assert.True(t, rev.IsSignatureAcceptable(crypto.RSASHA1))

	all := c.CryptographicSuite()
	assert.Len(t, all.AcceptableDigestAlgorithms(), 3)
}

func TestU_Catalogue_NamedAccessors(t *testing.T) {
	c := newTestCatalogue(t)

	accessors := map[Scope]func() *Suite{
		ScopeDefault:                      c.CryptographicSuite,
		ScopeSignature:                    c.SignatureCryptographicSuite,
		ScopeSignatureCertificates:        c.SignatureCertificatesCryptographicSuite,
		ScopeCounterSignature:             c.CounterSignatureCryptographicSuite,
		ScopeCounterSignatureCertificates: c.CounterSignatureCertificatesCryptographicSuite,
		ScopeRevocation:                   c.RevocationCryptographicSuite,
		ScopeRevocationCertificates:       c.RevocationCertificatesCryptographicSuite,
		ScopeTimestamp:                    c.TimestampCryptographicSuite,
		ScopeTimestampCertificates:        c.TimestampCertificatesCryptographicSuite,
		ScopeEvidenceRecordSignature:      c.EvidenceRecordSignatureCryptographicSuite,
	}
	require.Len(t, accessors, len(Scopes()))

	for scope, get := range accessors {
		t.Run("[Unit] Accessor: "+string(scope), func(t *testing.T) {
			s := get()
			assert.Equal(t, scope, s.Scope())
			assert.Same(t, s, get())
		})
	}
}

func TestU_Catalogue_SharesIdenticalResolutions(t *testing.T) {
	c := newTestCatalogue(t)

	sig := c.SignatureCryptographicSuite()
	counter := c.CounterSignatureCryptographicSuite()
	certs := c.SignatureCertificatesCryptographicSuite()
	tsCerts := c.TimestampCertificatesCryptographicSuite()

	assert.NotSame(t, sig, counter)
	assert.Same(t, sig.Resolution(), counter.Resolution())
	assert.Same(t, certs.Resolution(), tsCerts.Resolution())
	// SIGN_DATA and SIGN_CERTIFICATES filter to the same untagged rows here.
	assert.Same(t, sig.Resolution(), certs.Resolution())
	assert.Equal(t, 1, c.ResolutionCount())

	c.TimestampCryptographicSuite()
	assert.Equal(t, 2, c.ResolutionCount())
}

func TestU_Catalogue_SuiteForUsages(t *testing.T) {
	c := newTestCatalogue(t)

	a, err := c.SuiteForUsages(UsageSignOCSP, UsageSignTimestamps)
	require.NoError(t, err)
	b, err := c.SuiteForUsages(UsageSignTimestamps, UsageSignOCSP, UsageSignOCSP)
	require.NoError(t, err)

	assert.Same(t, a, b)
	assert.True(t, a.IsDigestAcceptable(crypto.DigestSHA1))
	assert.True(t, a.IsDigestAcceptable(crypto.DigestMD5))
}

func TestU_Catalogue_SuiteForUsages_EmptySetKeepsUntaggedRows(t *testing.T) {
	c := newTestCatalogue(t)

	s, err := c.SuiteForUsages()
	require.NoError(t, err)

	assert.True(t, s.IsDigestAcceptable(crypto.DigestSHA256))
	assert.False(t, s.IsDigestAcceptable(crypto.DigestSHA1), "SIGN_OCSP-only row must not apply")
	assert.False(t, s.IsDigestAcceptable(crypto.DigestMD5), "SIGN_TIMESTAMPS-only row must not apply")

	assert.True(t, c.CryptographicSuite().IsDigestAcceptable(crypto.DigestSHA1))
	assert.NotSame(t, c.CryptographicSuite(), s)
}

func TestU_Catalogue_SuiteForUsages_UnknownUsage(t *testing.T) {
	c := newTestCatalogue(t)

	_, err := c.SuiteForUsages(UsageSignData, Usage("BOGUS"))
	assert.ErrorIs(t, err, ErrUnknownUsage)

	_, err = ParseUsage("bogus")
	assert.ErrorIs(t, err, ErrUnknownUsage)
}

func TestU_Catalogue_UnknownScope(t *testing.T) {
	c := newTestCatalogue(t)

	_, err := c.Suite(Scope("archive"))
	assert.ErrorIs(t, err, ErrUnknownScope)

	_, err = ParseScope("archive")
	assert.ErrorIs(t, err, ErrUnknownScope)

	scope, err := ParseScope("TIMESTAMP_CERTIFICATES")
	require.NoError(t, err)
	assert.Equal(t, ScopeTimestampCertificates, scope)
}

func TestU_Catalogue_MissingDocumentParts(t *testing.T) {
	_, err := NewCatalogue(NewStaticDocument(nil, []Algorithm{}))
	assert.ErrorIs(t, err, ErrMissingMetadata)

	_, err = NewCatalogue(NewStaticDocument(testMetadata(), nil))
	assert.ErrorIs(t, err, ErrMissingAlgorithms)

	boom := errors.New("boom")
	_, err = NewCatalogue(NewDocument(
		func() (*Metadata, error) { return nil, boom },
		func() ([]Algorithm, error) { return nil, nil },
	))
	assert.ErrorIs(t, err, boom)
}

func TestU_Catalogue_DocumentComputedOnce(t *testing.T) {
	calls := 0
	doc := NewDocument(
		func() (*Metadata, error) { return testMetadata(), nil },
		func() ([]Algorithm, error) { calls++; return scopedAlgorithms(), nil },
	)

	_, err := doc.Algorithms()
	require.NoError(t, err)
	_, err = NewCatalogue(doc)
	require.NoError(t, err)

	assert.Equal(t, 1, calls)
}

func TestU_Catalogue_MaxBoundWarnedOnce(t *testing.T) {
	buf := &bytes.Buffer{}
	capped := rsaTier(2048, "")
	capped.Parameters[0].Max = intPtr(4096)
	algorithms := append(scopedAlgorithms(),
		Algorithm{Name: "RSA-capped", OIDs: []string{oidRSA}, Evaluations: []Evaluation{capped}})

	c, err := NewCatalogue(NewStaticDocument(testMetadata(), algorithms),
		WithLogger(logging.New(buf, logging.WarnLevel)))
	require.NoError(t, err)
	for _, scope := range Scopes() {
		_, err := c.Suite(scope)
		require.NoError(t, err)
	}
	require.Greater(t, c.ResolutionCount(), 1)

	assert.Equal(t, 1, strings.Count(buf.String(), "is not supported and is ignored"))
}

// =============================================================================
// [Unit] Level Tests
// =============================================================================

func TestU_Catalogue_Levels(t *testing.T) {
	c := newTestCatalogue(t,
		WithDefaultLevels(LevelSet{Level: LevelWarn}),
		WithScopeLevels(ScopeTimestamp, LevelSet{
			Overrides: map[Check]Level{CheckExpirationDate: "info"},
		}),
	)

	ts := c.TimestampCryptographicSuite()
	assert.Equal(t, LevelWarn, ts.Level())
	assert.Equal(t, LevelInfo, ts.ExpirationDateLevel())
	assert.Equal(t, LevelWarn, ts.MinKeySizeLevel())

	sig := c.SignatureCryptographicSuite()
	assert.Equal(t, LevelWarn, sig.ExpirationDateLevel())
}

func TestU_Catalogue_InvalidLevels(t *testing.T) {
	_, err := NewCatalogue(NewStaticDocument(testMetadata(), scopedAlgorithms()),
		WithDefaultLevels(LevelSet{Level: "LOUD"}))
	assert.ErrorIs(t, err, ErrInvalidLevel)

	_, err = NewCatalogue(NewStaticDocument(testMetadata(), scopedAlgorithms()),
		WithScopeLevels("archive", LevelSet{Level: LevelFail}))
	assert.ErrorIs(t, err, ErrUnknownScope)
}

func TestU_Suite_LevelFallback(t *testing.T) {
	s := mustResolve(t, []Algorithm{})

	assert.Equal(t, LevelFail, s.Level())
	for _, check := range Checks() {
		assert.Equal(t, LevelFail, s.LevelFor(check), check)
	}

	s.SetAcceptableDigestAlgorithmsLevel(LevelIgnore)
	s.SetLevel(LevelInfo)

	assert.Equal(t, LevelIgnore, s.AcceptableDigestAlgorithmsLevel())
	assert.Equal(t, LevelInfo, s.AcceptableSignatureAlgorithmsLevel())
	assert.Equal(t, LevelInfo, s.ExpirationAfterUpdateLevel())

	s.SetAcceptableDigestAlgorithmsLevel("")
	assert.Equal(t, LevelInfo, s.AcceptableDigestAlgorithmsLevel())
}

func TestU_ParseLevel(t *testing.T) {
	l, err := ParseLevel("warning")
	require.NoError(t, err)
	assert.Equal(t, LevelWarn, l)

	_, err = ParseLevel("panic")
	assert.ErrorIs(t, err, ErrInvalidLevel)
}

// =============================================================================
// [Unit] Concurrency and Metrics Tests
// =============================================================================

func TestU_Catalogue_ConcurrentAccess(t *testing.T) {
	c := newTestCatalogue(t)

	var wg sync.WaitGroup
	results := make([]*Suite, 32)
	for i := range results {
		wg.Add(1)
		go func(i int) {
			defer wg.Done()
			s := c.TimestampCryptographicSuite()
			s.SetMinKeySizeLevel(LevelWarn)
			_ = s.AcceptableSignatureAlgorithmsWithExpirationDates()
			results[i] = s
		}(i)
	}
	wg.Wait()

	for _, s := range results {
		assert.Same(t, results[0].Resolution(), s.Resolution())
	}
	assert.Equal(t, 1, c.ResolutionCount())
}

func TestU_Catalogue_Metrics(t *testing.T) {
	m := metrics.New()
	c := newTestCatalogue(t, WithMetrics(m))

	c.TimestampCryptographicSuite()
	c.TimestampCryptographicSuite()
	c.RevocationCryptographicSuite()

	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheMissesTotal.WithLabelValues("timestamp")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.CacheHitsTotal.WithLabelValues("timestamp")))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.ResolutionsTotal))
}

func TestU_FilterUsages_DoesNotMutateInput(t *testing.T) {
	in := scopedAlgorithms()

	out := FilterUsages(in, []Usage{UsageSignTimestamps})

	assert.Len(t, in, 4)
	assert.Len(t, in[1].Evaluations, 1)
	assert.Len(t, out, 3)
}
