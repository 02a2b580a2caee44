package policy

import (
	"maps"
	"slices"
	"time"

	"github.com/remiblancher/cryptosuite/internal/crypto"
	"github.com/remiblancher/cryptosuite/internal/logging"
)

// Resolution is the immutable outcome of resolving a list of suite entries.
// It is safe for concurrent use and may be shared by several Suites.
type Resolution struct {
	digests              map[crypto.DigestAlgorithm]ConstraintSet
	digestExpirations    map[crypto.DigestAlgorithm]*time.Time
	digestWindows        map[crypto.DigestAlgorithm]Validity
	signatures           map[crypto.SignatureAlgorithm]ConstraintSet
	signatureExpirations map[crypto.SignatureAlgorithmWithMinKeySize]*time.Time
	explicit             map[crypto.SignatureAlgorithm]bool
	entries              int
}

// ResolveOption configures Resolve.
type ResolveOption func(*resolveOptions)

type resolveOptions struct {
	logger   logging.Logger
	quietMax bool
}

// WithResolveLogger sets the logger receiving resolution diagnostics.
func WithResolveLogger(l logging.Logger) ResolveOption {
	return func(o *resolveOptions) {
		if l != nil {
			o.logger = l
		}
	}
}

// withoutMaxWarnings skips the max bound warnings, for callers that
// already reported them for the whole document.
func withoutMaxWarnings() ResolveOption {
	return func(o *resolveOptions) {
		o.quietMax = true
	}
}

// Resolve computes acceptance maps from suite entries.
//
// Entries that resolve to no known identity are skipped. Unsupported
// parameters are logged and never abort resolution. Only a missing metadata
// record or a nil entry list is an error.
func Resolve(metadata *Metadata, algorithms []Algorithm, opts ...ResolveOption) (*Resolution, error) {
	if metadata == nil {
		return nil, ErrMissingMetadata
	}
	if algorithms == nil {
		return nil, ErrMissingAlgorithms
	}

	o := resolveOptions{logger: logging.NewNull()}
	for _, opt := range opts {
		opt(&o)
	}
	if !o.quietMax {
		warnUnsupportedMax(algorithms, o.logger)
	}

	r := &Resolution{
		digests:              make(map[crypto.DigestAlgorithm]ConstraintSet),
		digestExpirations:    make(map[crypto.DigestAlgorithm]*time.Time),
		digestWindows:        make(map[crypto.DigestAlgorithm]Validity),
		signatures:           make(map[crypto.SignatureAlgorithm]ConstraintSet),
		signatureExpirations: make(map[crypto.SignatureAlgorithmWithMinKeySize]*time.Time),
		explicit:             make(map[crypto.SignatureAlgorithm]bool),
		entries:              len(algorithms),
	}

	var encryptionEntries []encryptionEntry
	for _, a := range algorithms {
		if !a.HasIdentifier() {
			o.logger.Debug("Skipping entry {Entry} without OID or URI", a.Label())
			continue
		}

		resolved := false
		if d, ok := crypto.ResolveDigest(a.OIDs, a.URIs); ok {
			r.addDigest(d, a.Evaluations, o.logger)
			resolved = true
		}
		if s, ok := crypto.ResolveSignature(a.OIDs, a.URIs); ok {
			r.addExplicitSignature(s, a.Evaluations, o.logger)
			resolved = true
		} else if e, ok := crypto.ResolveEncryption(a.OIDs); ok {
			sizes := make([]int, len(a.Evaluations))
			for i, row := range a.Evaluations {
				sizes[i] = keySize(e, row.Parameters, o.logger)
			}
			encryptionEntries = append(encryptionEntries, encryptionEntry{enc: e, rows: a.Evaluations, sizes: sizes})
			resolved = true
		}
		if !resolved {
			o.logger.Debug("Entry {Entry} does not match any known algorithm, skipped", a.Label())
		}
	}

	// Derived signatures need the complete digest picture, so they are built
	// after every entry has been classified.
	digests := slices.Sorted(maps.Keys(r.digests))
	for _, e := range encryptionEntries {
		r.addDerivedSignatures(e, digests, o.logger)
	}

	for d, set := range r.digests {
		r.digests[d] = set.sorted()
	}
	for s, set := range r.signatures {
		r.signatures[s] = set.sorted()
	}

	return r, nil
}

type encryptionEntry struct {
	enc   crypto.EncryptionAlgorithm
	rows  []Evaluation
	sizes []int
}

func (r *Resolution) addDigest(d crypto.DigestAlgorithm, rows []Evaluation, log logging.Logger) {
	for _, row := range rows {
		if row.Validity.Start != nil {
			log.Debug("Start date {Start} of {Digest} is not used for its expiration date", *row.Validity.Start, d)
		}
		r.digests[d] = r.digests[d].add(Constraint{
			Start:          row.Validity.Start,
			End:            row.Validity.End,
			Usages:         slices.Clone(row.Usages),
			Recommendation: row.Recommendation,
		})

		window, seen := r.digestWindows[d]
		if !seen {
			window = row.Validity
		} else {
			window = Validity{
				Start: earliestStart(window.Start, row.Validity.Start),
				End:   latestEnd(window.End, row.Validity.End),
			}
		}
		r.digestWindows[d] = window
		r.digestExpirations[d] = window.End
	}
}

func (r *Resolution) addExplicitSignature(s crypto.SignatureAlgorithm, rows []Evaluation, log logging.Logger) {
	r.explicit[s] = true
	for _, row := range rows {
		size := keySize(s.EncryptionAlgorithm(), row.Parameters, log)
		r.addSignatureRow(s, size, row, row.Validity)
	}
}

// addDerivedSignatures pairs an encryption entry with every acceptable
// digest. Explicitly defined signature algorithms are never overridden and
// every derived window is tightened by the digest window.
func (r *Resolution) addDerivedSignatures(e encryptionEntry, digests []crypto.DigestAlgorithm, log logging.Logger) {
	for _, d := range digests {
		s, ok := crypto.GetAlgorithm(e.enc, d)
		if !ok || r.explicit[s] {
			continue
		}
		for i, row := range e.rows {
			window, ok := tighten(row.Validity, r.digestWindows[d])
			if !ok {
				log.Debug("Dropping {Signature} row: window is empty once limited by {Digest}", s, d)
				continue
			}
			r.addSignatureRow(s, e.sizes[i], row, window)
		}
	}
}

func (r *Resolution) addSignatureRow(s crypto.SignatureAlgorithm, size int, row Evaluation, window Validity) {
	r.signatures[s] = r.signatures[s].add(Constraint{
		MinKeySize:     size,
		Start:          window.Start,
		End:            window.End,
		Usages:         slices.Clone(row.Usages),
		Recommendation: row.Recommendation,
	})

	key := crypto.NewSignatureAlgorithmWithMinKeySize(s, size)
	if end, seen := r.signatureExpirations[key]; seen {
		r.signatureExpirations[key] = latestEnd(end, window.End)
	} else {
		r.signatureExpirations[key] = window.End
	}
}

// Entries returns the number of entries the resolution was built from.
func (r *Resolution) Entries() int {
	return r.entries
}

// IsExplicit reports whether s was defined by its own entry rather than
// derived from an encryption algorithm and a digest.
func (r *Resolution) IsExplicit(s crypto.SignatureAlgorithm) bool {
	return r.explicit[s]
}
