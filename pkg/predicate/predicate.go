// Package predicate defines the line matchers used by log searches.
//
// A Predicate is one of exactly two variants: a set of literal substrings or
// a compiled regular expression. Predicates are immutable once constructed
// and safe for concurrent use.
package predicate

// Kind identifies a predicate variant in its serialized form.
type Kind string

const (
	KindSubstrings Kind = "substrings"
	KindRegex      Kind = "regex"
)

// Predicate matches a single line of text.
type Predicate interface {
	// Match returns the matched part of line and true, or "" and false.
	Match(line string) (string, bool)
	// Kind returns the variant tag.
	Kind() Kind
	// Equal reports structural equality: same variant, same payload.
	Equal(other Predicate) bool
	// String returns a debug description.
	String() string

	sealed()
}

var (
	_ Predicate = (*Substrings)(nil)
	_ Predicate = (*Regex)(nil)
)

// MatchesAny reports whether any of preds matches line.
func MatchesAny(preds []Predicate, line string) bool {
	for _, p := range preds {
		if _, ok := p.Match(line); ok {
			return true
		}
	}
	return false
}
