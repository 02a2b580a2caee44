// Package policy implements cryptographic suite evaluation.
//
// A cryptographic suite (ETSI TS 119 312 / TS 119 322) lists the digest,
// encryption and signature algorithms a validation policy accepts, each with
// time-bounded evaluation rows restricting key sizes and usages.
//
// The package holds:
//   - the suite document model (Metadata, Algorithm, Evaluation, Parameter)
//   - the resolution engine turning entries into acceptance maps
//   - Suite, the queryable read-only result with per-check levels
//   - Catalogue, which derives usage-scoped suites and caches them
package policy

import (
	"fmt"
	"slices"
	"strings"
	"sync"
	"time"
)

// Usage tags the validation context an evaluation row applies to.
type Usage string

const (
	UsageSignData            Usage = "SIGN_DATA"
	UsageSignCertificates    Usage = "SIGN_CERTIFICATES"
	UsageSignCRLs            Usage = "SIGN_CRLS"
	UsageSignOCSP            Usage = "SIGN_OCSP"
	UsageSignTimestamps      Usage = "SIGN_TIMESTAMPS"
	UsageSignEvidenceRecords Usage = "SIGN_EVIDENCE_RECORDS"
	UsageHashTrees           Usage = "HASH_TREES"
)

// AllUsages returns every known usage tag.
func AllUsages() []Usage {
	return []Usage{
		UsageSignData, UsageSignCertificates, UsageSignCRLs, UsageSignOCSP,
		UsageSignTimestamps, UsageSignEvidenceRecords, UsageHashTrees,
	}
}

// ParseUsage parses a usage tag. Case and '-'/'_' separators are ignored
// ("sign-timestamps", "SIGN_TIMESTAMPS" and "signTimestamps" are equal).
func ParseUsage(s string) (Usage, error) {
	want := foldName(s)
	for _, u := range AllUsages() {
		if foldName(string(u)) == want {
			return u, nil
		}
	}
	return "", fmt.Errorf("%w: %q", ErrUnknownUsage, s)
}

// Recommendation classifies an evaluation row.
type Recommendation string

const (
	RecommendationRecommended Recommendation = "RECOMMENDED"
	RecommendationLegacy      Recommendation = "LEGACY"
	RecommendationDeprecated  Recommendation = "DEPRECATED"
)

// ParseRecommendation parses a recommendation; the empty string is allowed.
func ParseRecommendation(s string) (Recommendation, error) {
	switch foldName(s) {
	case "":
		return "", nil
	case "RECOMMENDED":
		return RecommendationRecommended, nil
	case "LEGACY":
		return RecommendationLegacy, nil
	case "DEPRECATED":
		return RecommendationDeprecated, nil
	default:
		return "", fmt.Errorf("unknown recommendation %q", s)
	}
}

// Parameter is a named integer range constraint. Only Min is honored.
type Parameter struct {
	Name string `json:"name" yaml:"name"`
	Min  *int   `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *int   `json:"max,omitempty" yaml:"max,omitempty"`
}

// Validity is a time window. A nil bound is unbounded: a nil End means the
// algorithm has no known expiration.
type Validity struct {
	Start *time.Time `json:"start,omitempty" yaml:"start,omitempty"`
	End   *time.Time `json:"end,omitempty" yaml:"end,omitempty"`
}

// Evaluation is one time-bounded, usage-scoped acceptance rule.
type Evaluation struct {
	Parameters     []Parameter    `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Validity       Validity       `json:"validity" yaml:"validity"`
	Usages         []Usage        `json:"usages,omitempty" yaml:"usages,omitempty"`
	Recommendation Recommendation `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// AppliesTo reports whether the row applies to any of the given usages.
// Rows without usage tags apply everywhere.
func (e Evaluation) AppliesTo(usages []Usage) bool {
	if len(e.Usages) == 0 {
		return true
	}
	for _, u := range e.Usages {
		if slices.Contains(usages, u) {
			return true
		}
	}
	return false
}

// Algorithm is one raw suite entry. Name is informational only: identity
// comes from OIDs, then URIs. An entry with neither is inert.
type Algorithm struct {
	Name        string       `json:"name,omitempty" yaml:"name,omitempty"`
	OIDs        []string     `json:"oids,omitempty" yaml:"oids,omitempty"`
	URIs        []string     `json:"uris,omitempty" yaml:"uris,omitempty"`
	Information []string     `json:"information,omitempty" yaml:"information,omitempty"`
	Evaluations []Evaluation `json:"evaluations" yaml:"evaluations"`
}

// HasIdentifier reports whether the entry carries at least one OID or URI.
func (a Algorithm) HasIdentifier() bool {
	return len(a.OIDs) > 0 || len(a.URIs) > 0
}

// Label returns a short description for log messages.
func (a Algorithm) Label() string {
	switch {
	case a.Name != "":
		return a.Name
	case len(a.OIDs) > 0:
		return a.OIDs[0]
	case len(a.URIs) > 0:
		return a.URIs[0]
	default:
		return "<unnamed>"
	}
}

// FilterUsages returns the entries restricted to rows applying to usages.
// Entries left without rows are dropped. The input is not modified.
func FilterUsages(algorithms []Algorithm, usages []Usage) []Algorithm {
	out := make([]Algorithm, 0, len(algorithms))
	for _, a := range algorithms {
		var rows []Evaluation
		for _, e := range a.Evaluations {
			if e.AppliesTo(usages) {
				rows = append(rows, e)
			}
		}
		if len(rows) == 0 {
			continue
		}
		a.Evaluations = rows
		out = append(out, a)
	}
	return out
}

// Metadata identifies a suite and its publication.
type Metadata struct {
	PolicyName       string     `json:"policy_name" yaml:"policy_name"`
	PolicyOID        string     `json:"policy_oid,omitempty" yaml:"policy_oid,omitempty"`
	PolicyURI        string     `json:"policy_uri,omitempty" yaml:"policy_uri,omitempty"`
	PublisherName    string     `json:"publisher_name,omitempty" yaml:"publisher_name,omitempty"`
	PublisherAddress string     `json:"publisher_address,omitempty" yaml:"publisher_address,omitempty"`
	PublisherURI     string     `json:"publisher_uri,omitempty" yaml:"publisher_uri,omitempty"`
	IssueDate        *time.Time `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	NextUpdate       *time.Time `json:"next_update,omitempty" yaml:"next_update,omitempty"`
	Usage            string     `json:"usage,omitempty" yaml:"usage,omitempty"`
	Version          string     `json:"version,omitempty" yaml:"version,omitempty"`
	Language         string     `json:"language,omitempty" yaml:"language,omitempty"`
	ID               string     `json:"id,omitempty" yaml:"id,omitempty"`
}

// Document is a parsed suite as seen by the resolution engine.
type Document interface {
	Metadata() (*Metadata, error)
	Algorithms() ([]Algorithm, error)
}

// NewDocument builds a Document whose parts are computed on first use and
// cached afterwards.
func NewDocument(metadata func() (*Metadata, error), algorithms func() ([]Algorithm, error)) Document {
	return &lazyDocument{metadataFn: metadata, algorithmsFn: algorithms}
}

// NewStaticDocument wraps already-built parts.
func NewStaticDocument(metadata *Metadata, algorithms []Algorithm) Document {
	return NewDocument(
		func() (*Metadata, error) { return metadata, nil },
		func() ([]Algorithm, error) { return algorithms, nil },
	)
}

type lazyDocument struct {
	metadataFn   func() (*Metadata, error)
	algorithmsFn func() ([]Algorithm, error)

	metadataOnce sync.Once
	metadata     *Metadata
	metadataErr  error

	algorithmsOnce sync.Once
	algorithms     []Algorithm
	algorithmsErr  error
}

func (d *lazyDocument) Metadata() (*Metadata, error) {
	d.metadataOnce.Do(func() {
		d.metadata, d.metadataErr = d.metadataFn()
	})
	return d.metadata, d.metadataErr
}

func (d *lazyDocument) Algorithms() ([]Algorithm, error) {
	d.algorithmsOnce.Do(func() {
		d.algorithms, d.algorithmsErr = d.algorithmsFn()
	})
	return d.algorithms, d.algorithmsErr
}

func foldName(s string) string {
	s = strings.ToUpper(strings.TrimSpace(s))
	s = strings.ReplaceAll(s, "-", "")
	s = strings.ReplaceAll(s, "_", "")
	return s
}
