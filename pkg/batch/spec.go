// Package batch routes predicates to logs by name.
//
// A Spec is an ordered list of entries, each pairing a set of log names with
// the predicates to search those logs with. An entry with no names applies
// to every log. Specs are validated on construction and immutable after.
package batch

import (
	"fmt"
	"slices"
	"strings"

	"github.com/strrl/logscan/pkg/predicate"
)

// Entry pairs a set of log names with a non-empty predicate list.
// Empty Names is the wildcard.
type Entry struct {
	Names      []string
	Predicates []predicate.Predicate
}

// IsWildcard reports whether the entry applies to every log.
func (e Entry) IsWildcard() bool {
	return len(e.Names) == 0
}

func (e Entry) appliesTo(name string) bool {
	if e.IsWildcard() {
		return true
	}
	_, found := slices.BinarySearch(e.Names, name)
	return found
}

// Spec is a validated, immutable batch search definition.
type Spec struct {
	entries []Entry
}

// Build validates entries and returns a Spec. Entries are kept in order and
// never merged; names within an entry are deduplicated and sorted.
func Build(entries ...Entry) (*Spec, error) {
	spec := &Spec{entries: make([]Entry, 0, len(entries))}
	for i, e := range entries {
		normalized, err := normalizeEntry(i, e)
		if err != nil {
			return nil, err
		}
		spec.entries = append(spec.entries, normalized)
	}
	return spec, nil
}

// MustBuild is like Build but panics on error.
func MustBuild(entries ...Entry) *Spec {
	s, err := Build(entries...)
	if err != nil {
		panic(err)
	}
	return s
}

// Wildcard returns a spec with a single entry applying preds to every log.
func Wildcard(preds ...predicate.Predicate) (*Spec, error) {
	return Build(Entry{Predicates: preds})
}

func normalizeEntry(index int, e Entry) (Entry, error) {
	if len(e.Predicates) == 0 {
		return Entry{}, &ValidationError{Entry: index, Field: FieldPredicates, Reason: "must not be empty"}
	}
	for j, p := range e.Predicates {
		if p == nil {
			return Entry{}, &ValidationError{
				Entry:  index,
				Field:  FieldPredicates,
				Reason: fmt.Sprintf("predicate %d is nil", j),
			}
		}
	}

	var names []string
	if len(e.Names) > 0 {
		names = slices.Clone(e.Names)
		for j, n := range names {
			if strings.TrimSpace(n) == "" {
				return Entry{}, &ValidationError{
					Entry:  index,
					Field:  FieldNames,
					Reason: fmt.Sprintf("name %d is blank", j),
				}
			}
		}
		slices.Sort(names)
		names = slices.Compact(names)
	}

	return Entry{
		Names:      names,
		Predicates: slices.Clone(e.Predicates),
	}, nil
}

// PredicatesFor returns, in spec order, the predicates of every entry that
// is a wildcard or names the given log.
func (s *Spec) PredicatesFor(name string) []predicate.Predicate {
	var preds []predicate.Predicate
	for _, e := range s.entries {
		if e.appliesTo(name) {
			preds = append(preds, e.Predicates...)
		}
	}
	return preds
}

// Entries returns a copy of the normalized entries.
func (s *Spec) Entries() []Entry {
	out := make([]Entry, len(s.entries))
	for i, e := range s.entries {
		out[i] = Entry{
			Names:      slices.Clone(e.Names),
			Predicates: slices.Clone(e.Predicates),
		}
	}
	return out
}

// Len returns the number of entries.
func (s *Spec) Len() int {
	return len(s.entries)
}

// Equal reports structural equality.
func (s *Spec) Equal(other *Spec) bool {
	if s == nil || other == nil {
		return s == other
	}
	return slices.EqualFunc(s.entries, other.entries, func(a, b Entry) bool {
		return slices.Equal(a.Names, b.Names) &&
			slices.EqualFunc(a.Predicates, b.Predicates, func(x, y predicate.Predicate) bool {
				return x.Equal(y)
			})
	})
}

func (s *Spec) String() string {
	var buf strings.Builder
	buf.WriteString("BatchSpec{")
	for i, e := range s.entries {
		if i > 0 {
			buf.WriteString("; ")
		}
		if e.IsWildcard() {
			buf.WriteString("*")
		} else {
			buf.WriteString(strings.Join(e.Names, ","))
		}
		buf.WriteString(": ")
		for j, p := range e.Predicates {
			if j > 0 {
				buf.WriteString(", ")
			}
			buf.WriteString(p.String())
		}
	}
	buf.WriteString("}")
	return buf.String()
}
