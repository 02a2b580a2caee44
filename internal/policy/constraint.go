package policy

import (
	"cmp"
	"fmt"
	"slices"
	"strings"
	"time"
)

// Constraint is the resolved form of one evaluation row: a key-size floor,
// a validity window, the usages it was declared for and its recommendation.
type Constraint struct {
	MinKeySize     int            `json:"min_key_size" yaml:"min_key_size"`
	Start          *time.Time     `json:"start,omitempty" yaml:"start,omitempty"`
	End            *time.Time     `json:"end,omitempty" yaml:"end,omitempty"`
	Usages         []Usage        `json:"usages,omitempty" yaml:"usages,omitempty"`
	Recommendation Recommendation `json:"recommendation,omitempty" yaml:"recommendation,omitempty"`
}

// Validity returns the constraint window.
func (c Constraint) Validity() Validity {
	return Validity{Start: c.Start, End: c.End}
}

// ActiveAt reports whether t falls inside the window (start inclusive,
// end exclusive).
func (c Constraint) ActiveAt(t time.Time) bool {
	if c.Start != nil && t.Before(*c.Start) {
		return false
	}
	if c.End != nil && !t.Before(*c.End) {
		return false
	}
	return true
}

// key is the value identity used for deduplication.
func (c Constraint) key() string {
	usages := make([]string, len(c.Usages))
	for i, u := range c.Usages {
		usages[i] = string(u)
	}
	slices.Sort(usages)
	return fmt.Sprintf("%d|%s|%s|%s|%s", c.MinKeySize, timeKey(c.Start), timeKey(c.End),
		strings.Join(usages, ","), c.Recommendation)
}

func timeKey(t *time.Time) string {
	if t == nil {
		return "-"
	}
	return t.UTC().Format(time.RFC3339Nano)
}

// ConstraintSet is a deduplicated, ordered set of constraints.
type ConstraintSet []Constraint

// add inserts c unless an equal constraint is already present.
func (s ConstraintSet) add(c Constraint) ConstraintSet {
	k := c.key()
	for _, existing := range s {
		if existing.key() == k {
			return s
		}
	}
	return append(s, c)
}

// sorted orders by key size, then start, then end.
func (s ConstraintSet) sorted() ConstraintSet {
	slices.SortStableFunc(s, func(a, b Constraint) int {
		if c := cmp.Compare(a.MinKeySize, b.MinKeySize); c != 0 {
			return c
		}
		if c := compareStart(a.Start, b.Start); c != 0 {
			return c
		}
		return compareEnd(a.End, b.End)
	})
	return s
}

// Clone returns a copy that shares no slices with s.
func (s ConstraintSet) Clone() ConstraintSet {
	if s == nil {
		return nil
	}
	out := make(ConstraintSet, len(s))
	for i, c := range s {
		c.Usages = slices.Clone(c.Usages)
		out[i] = c
	}
	return out
}

// compareStart orders start dates with nil (unbounded) first.
func compareStart(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return -1
	case b == nil:
		return 1
	default:
		return a.Compare(*b)
	}
}

// compareEnd orders end dates with nil (unbounded) last.
func compareEnd(a, b *time.Time) int {
	switch {
	case a == nil && b == nil:
		return 0
	case a == nil:
		return 1
	case b == nil:
		return -1
	default:
		return a.Compare(*b)
	}
}

// latestEnd merges two end dates where nil means no expiration and wins.
func latestEnd(a, b *time.Time) *time.Time {
	if compareEnd(a, b) >= 0 {
		return a
	}
	return b
}

// earliestStart merges two start dates where nil means unbounded and wins.
func earliestStart(a, b *time.Time) *time.Time {
	if compareStart(a, b) <= 0 {
		return a
	}
	return b
}

// earliestNonNil returns the earliest of the non-nil dates, or nil.
func earliestNonNil(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.Before(*a):
		return b
	default:
		return a
	}
}

// latestNonNil returns the latest of the non-nil dates, or nil.
func latestNonNil(a, b *time.Time) *time.Time {
	switch {
	case a == nil:
		return b
	case b == nil:
		return a
	case b.After(*a):
		return b
	default:
		return a
	}
}

// tighten intersects a derived window with the window of its digest.
// It returns false when the result is empty (start at or after end).
func tighten(derived, digest Validity) (Validity, bool) {
	out := Validity{
		Start: latestNonNil(derived.Start, digest.Start),
		End:   earliestNonNil(derived.End, digest.End),
	}
	if out.Start != nil && out.End != nil && !out.Start.Before(*out.End) {
		return Validity{}, false
	}
	return out, true
}
