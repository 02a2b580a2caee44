// Package loader reads cryptographic suite documents.
//
// Three formats are supported: the ETSI TS 119 312 XML policy
// (SecuritySuitabilityPolicy), and JSON and YAML documents sharing one
// snake_case layout. Every format is converted to policy.Metadata and
// policy.Algorithm values.
//
// Structural failures fail the load. An algorithm entry that cannot be
// converted, for example because of a bad date or an unknown usage, is
// logged and dropped; the other entries are kept. A document without any
// algorithm list loads with nil algorithms, which policy.NewCatalogue
// rejects.
package loader

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"slices"
	"strings"

	"github.com/remiblancher/cryptosuite/internal/logging"
	"github.com/remiblancher/cryptosuite/internal/policy"
)

// Format identifies a document encoding.
type Format string

const (
	FormatXML  Format = "xml"
	FormatJSON Format = "json"
	FormatYAML Format = "yaml"
)

// ParseFormat parses a format name. "yml" is accepted for YAML.
func ParseFormat(s string) (Format, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "xml":
		return FormatXML, nil
	case "json":
		return FormatJSON, nil
	case "yaml", "yml":
		return FormatYAML, nil
	default:
		return "", fmt.Errorf("%w: %q", ErrUnsupportedFormat, s)
	}
}

// DetectFormat guesses the format from a file extension, falling back to
// the first significant byte of data.
func DetectFormat(path string, data []byte) Format {
	if f, err := ParseFormat(strings.TrimPrefix(filepath.Ext(path), ".")); err == nil {
		return f
	}
	trimmed := bytes.TrimLeft(data, " \t\r\n\ufeff")
	switch {
	case bytes.HasPrefix(trimmed, []byte("<")):
		return FormatXML
	case bytes.HasPrefix(trimmed, []byte("{")):
		return FormatJSON
	default:
		return FormatYAML
	}
}

// Option configures a load.
type Option func(*options)

type options struct {
	logger logging.Logger
	source string
	format Format
}

// WithLogger sets the logger receiving dropped-entry warnings.
func WithLogger(l logging.Logger) Option {
	return func(o *options) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithSource names the document in log messages and in Document.Source.
func WithSource(source string) Option {
	return func(o *options) {
		o.source = source
	}
}

// WithFormat makes LoadFile use format instead of detecting it.
func WithFormat(format Format) Option {
	return func(o *options) {
		o.format = format
	}
}

// Document is a loaded suite document. It implements policy.Document.
type Document struct {
	format     Format
	source     string
	metadata   *policy.Metadata
	algorithms []policy.Algorithm
	dropped    []*policy.EntryError
}

var _ policy.Document = (*Document)(nil)

// Metadata returns the suite metadata.
func (d *Document) Metadata() (*policy.Metadata, error) { return d.metadata, nil }

// Algorithms returns the entries that converted successfully.
func (d *Document) Algorithms() ([]policy.Algorithm, error) { return d.algorithms, nil }

// Dropped returns the entries rejected during conversion.
func (d *Document) Dropped() []*policy.EntryError { return slices.Clone(d.dropped) }

// Format returns the encoding the document was read from.
func (d *Document) Format() Format { return d.format }

// Source returns the file path or name the document was loaded from.
func (d *Document) Source() string { return d.source }

// LoadFile reads a suite document. Unless WithFormat is given, the format is
// detected from the extension or content.
func LoadFile(path string, opts ...Option) (*Document, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read suite file: %w", err)
	}
	o := options{}
	for _, opt := range opts {
		opt(&o)
	}
	format := o.format
	if format == "" {
		format = DetectFormat(path, data)
	}
	return LoadBytes(data, format, append([]Option{WithSource(path)}, opts...)...)
}

// LoadBytes parses a suite document in the given format.
func LoadBytes(data []byte, format Format, opts ...Option) (*Document, error) {
	o := options{logger: logging.NewNull()}
	for _, opt := range opts {
		opt(&o)
	}

	var (
		meta    metadataDoc
		entries []rawEntry
		err     error
	)
	switch format {
	case FormatXML:
		meta, entries, err = parseXML(data)
	case FormatJSON:
		meta, entries, err = parseJSON(data)
	case FormatYAML:
		meta, entries, err = parseYAML(data)
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedFormat, format)
	}
	if err != nil {
		return nil, err
	}

	metadata, err := meta.toMetadata()
	if err != nil {
		return nil, err
	}

	doc := &Document{
		format:   format,
		source:   o.source,
		metadata: metadata,
	}
	if entries != nil {
		doc.algorithms = make([]policy.Algorithm, 0, len(entries))
	}
	log := o.logger.ForContext("Source", o.source)

	for i, raw := range entries {
		alg, err := raw.convert()
		if err != nil {
			entryErr := policy.NewEntryError(i, raw.label(), err)
			log.Warn("Dropping suite entry {Index} ({Entry}): {Error}", i, raw.label(), err)
			doc.dropped = append(doc.dropped, entryErr)
			continue
		}
		doc.algorithms = append(doc.algorithms, alg)
	}

	log.Debug("Loaded {Format} suite {PolicyName} with {Entries} entries, {Dropped} dropped",
		format, metadata.PolicyName, len(doc.algorithms), len(doc.dropped))
	return doc, nil
}

// rawEntry is an entry as decoded by a format reader. decodeErr holds a
// failure that happened before conversion, such as a type mismatch.
type rawEntry struct {
	doc       entryDoc
	decodeErr error
}

func (r rawEntry) convert() (policy.Algorithm, error) {
	if r.decodeErr != nil {
		return policy.Algorithm{}, r.decodeErr
	}
	return r.doc.toAlgorithm()
}

func (r rawEntry) label() string {
	switch {
	case r.doc.Name != "":
		return r.doc.Name
	case len(r.doc.OIDs) > 0:
		return r.doc.OIDs[0]
	case len(r.doc.URIs) > 0:
		return r.doc.URIs[0]
	default:
		return ""
	}
}
