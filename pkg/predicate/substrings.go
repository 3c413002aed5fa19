package predicate

import (
	"fmt"
	"slices"
	"strings"

	ac "github.com/petar-dambovaliev/aho-corasick"
)

// Substrings matches a line containing any member of a literal string set.
// Matching is case-sensitive.
type Substrings struct {
	// values is deduplicated and sorted; its order breaks ties between
	// members that occur at the same offset.
	values []string
	// automaton covers the non-empty members; nil when there are none.
	automaton *ac.AhoCorasick
	hasEmpty  bool
}

// NewSubstrings builds a substring-set predicate. The set must be non-empty
// and no member may contain a newline.
func NewSubstrings(values ...string) (*Substrings, error) {
	if len(values) == 0 {
		return nil, &InvalidSubstringError{Index: -1, Reason: reasonEmptySet}
	}
	for i, v := range values {
		if strings.Contains(v, "\n") {
			return nil, &InvalidSubstringError{Index: i, Value: v, Reason: reasonNewline}
		}
	}

	set := slices.Clone(values)
	slices.Sort(set)
	set = slices.Compact(set)

	s := &Substrings{values: set}
	patterns := set
	if set[0] == "" {
		s.hasEmpty = true
		patterns = set[1:]
	}
	if len(patterns) > 0 {
		builder := ac.NewAhoCorasickBuilder(ac.Opts{
			AsciiCaseInsensitive: false,
			MatchOnlyWholeWords:  false,
			MatchKind:            ac.LeftMostFirstMatch,
			DFA:                  true,
		})
		built := builder.Build(patterns)
		s.automaton = &built
	}
	return s, nil
}

// MustSubstrings is like NewSubstrings but panics on error.
func MustSubstrings(values ...string) *Substrings {
	s, err := NewSubstrings(values...)
	if err != nil {
		panic(err)
	}
	return s
}

// Values returns a copy of the normalized set.
func (s *Substrings) Values() []string {
	return slices.Clone(s.values)
}

// Match returns the leftmost member occurring in line.
func (s *Substrings) Match(line string) (string, bool) {
	if s.automaton != nil {
		if matches := s.automaton.FindAll(line); len(matches) > 0 {
			m := matches[0]
			return line[m.Start():m.End()], true
		}
	}
	if s.hasEmpty {
		return "", true
	}
	return "", false
}

func (s *Substrings) Kind() Kind { return KindSubstrings }

func (s *Substrings) Equal(other Predicate) bool {
	o, ok := other.(*Substrings)
	if !ok || o == nil {
		return false
	}
	return slices.Equal(s.values, o.values)
}

func (s *Substrings) String() string {
	quoted := make([]string, len(s.values))
	for i, v := range s.values {
		quoted[i] = fmt.Sprintf("%q", v)
	}
	return "Substrings([" + strings.Join(quoted, ", ") + "])"
}

func (s *Substrings) sealed() {}
