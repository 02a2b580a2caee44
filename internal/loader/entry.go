package loader

import (
	"fmt"
	"strings"
	"time"

	"github.com/remiblancher/cryptosuite/internal/policy"
)

// metadataDoc is the format-neutral form of suite metadata. Dates stay
// strings until conversion so every format shares one date grammar.
type metadataDoc struct {
	PolicyName string       `json:"policy_name" yaml:"policy_name"`
	PolicyOID  string       `json:"policy_oid,omitempty" yaml:"policy_oid,omitempty"`
	PolicyURI  string       `json:"policy_uri,omitempty" yaml:"policy_uri,omitempty"`
	Publisher  publisherDoc `json:"publisher" yaml:"publisher"`
	IssueDate  string       `json:"issue_date,omitempty" yaml:"issue_date,omitempty"`
	NextUpdate string       `json:"next_update,omitempty" yaml:"next_update,omitempty"`
	Usage      string       `json:"usage,omitempty" yaml:"usage,omitempty"`
	Version    string       `json:"version,omitempty" yaml:"version,omitempty"`
	Language   string       `json:"lang,omitempty" yaml:"lang,omitempty"`
	ID         string       `json:"id,omitempty" yaml:"id,omitempty"`
}

type publisherDoc struct {
	Name    string `json:"name,omitempty" yaml:"name,omitempty"`
	Address string `json:"address,omitempty" yaml:"address,omitempty"`
	URI     string `json:"uri,omitempty" yaml:"uri,omitempty"`
}

// entryDoc is the format-neutral form of one algorithm entry.
type entryDoc struct {
	Name        string          `json:"name,omitempty" yaml:"name,omitempty"`
	OIDs        []string        `json:"oids,omitempty" yaml:"oids,omitempty"`
	URIs        []string        `json:"uris,omitempty" yaml:"uris,omitempty"`
	Information []string        `json:"information,omitempty" yaml:"information,omitempty"`
	Evaluations []evaluationDoc `json:"evaluations" yaml:"evaluations"`
}

type evaluationDoc struct {
	Parameters     []parameterDoc `json:"parameters,omitempty" yaml:"parameters,omitempty"`
	Start          string         `json:"start,omitempty" yaml:"start,omitempty"`
	End            string         `json:"end,omitempty" yaml:"end,omitempty"`
	Usages         []string       `json:"usages,omitempty" yaml:"usages,omitempty"`
	Recommendation string         `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

type parameterDoc struct {
	Name string `json:"name" yaml:"name"`
	Min  *int   `json:"min,omitempty" yaml:"min,omitempty"`
	Max  *int   `json:"max,omitempty" yaml:"max,omitempty"`
}

// dateLayouts are tried in order.
var dateLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02Z07:00",
	"2006-01-02",
}

// parseDate parses an optional date. The empty string is nil.
func parseDate(s string) (*time.Time, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return nil, nil
	}
	for _, layout := range dateLayouts {
		if t, err := time.Parse(layout, s); err == nil {
			t = t.UTC()
			return &t, nil
		}
	}
	return nil, fmt.Errorf("%w: %q", ErrInvalidDate, s)
}

func (m metadataDoc) toMetadata() (*policy.Metadata, error) {
	issue, err := parseDate(m.IssueDate)
	if err != nil {
		return nil, fmt.Errorf("%w: issue date: %w", ErrInvalidDocument, err)
	}
	next, err := parseDate(m.NextUpdate)
	if err != nil {
		return nil, fmt.Errorf("%w: next update: %w", ErrInvalidDocument, err)
	}

	return &policy.Metadata{
		PolicyName:       strings.TrimSpace(m.PolicyName),
		PolicyOID:        normalizeIdentifier(m.PolicyOID),
		PolicyURI:        strings.TrimSpace(m.PolicyURI),
		PublisherName:    strings.TrimSpace(m.Publisher.Name),
		PublisherAddress: strings.TrimSpace(m.Publisher.Address),
		PublisherURI:     strings.TrimSpace(m.Publisher.URI),
		IssueDate:        issue,
		NextUpdate:       next,
		Usage:            strings.TrimSpace(m.Usage),
		Version:          strings.TrimSpace(m.Version),
		Language:         strings.TrimSpace(m.Language),
		ID:               strings.TrimSpace(m.ID),
	}, nil
}

func (e entryDoc) toAlgorithm() (policy.Algorithm, error) {
	alg := policy.Algorithm{
		Name:        strings.TrimSpace(e.Name),
		Information: e.Information,
		Evaluations: make([]policy.Evaluation, 0, len(e.Evaluations)),
	}
	for _, oid := range e.OIDs {
		if oid = normalizeIdentifier(oid); oid != "" {
			alg.OIDs = append(alg.OIDs, oid)
		}
	}
	for _, uri := range e.URIs {
		if uri = strings.TrimSpace(uri); uri != "" {
			alg.URIs = append(alg.URIs, uri)
		}
	}

	for i, ev := range e.Evaluations {
		row, err := ev.toEvaluation()
		if err != nil {
			return policy.Algorithm{}, fmt.Errorf("evaluation #%d: %w", i, err)
		}
		alg.Evaluations = append(alg.Evaluations, row)
	}
	return alg, nil
}

func (e evaluationDoc) toEvaluation() (policy.Evaluation, error) {
	start, err := parseDate(e.Start)
	if err != nil {
		return policy.Evaluation{}, fmt.Errorf("start: %w", err)
	}
	end, err := parseDate(e.End)
	if err != nil {
		return policy.Evaluation{}, fmt.Errorf("end: %w", err)
	}

	row := policy.Evaluation{
		Validity: policy.Validity{Start: start, End: end},
	}
	for _, p := range e.Parameters {
		row.Parameters = append(row.Parameters, policy.Parameter{
			Name: strings.TrimSpace(p.Name),
			Min:  p.Min,
			Max:  p.Max,
		})
	}
	for _, raw := range e.Usages {
		u, err := policy.ParseUsage(raw)
		if err != nil {
			return policy.Evaluation{}, err
		}
		row.Usages = append(row.Usages, u)
	}
	if row.Recommendation, err = policy.ParseRecommendation(e.Recommendation); err != nil {
		return policy.Evaluation{}, err
	}
	return row, nil
}

// normalizeIdentifier trims an OID and strips a "urn:oid:" prefix.
func normalizeIdentifier(s string) string {
	s = strings.TrimSpace(s)
	if len(s) >= len("urn:oid:") && strings.EqualFold(s[:len("urn:oid:")], "urn:oid:") {
		s = s[len("urn:oid:"):]
	}
	return s
}
