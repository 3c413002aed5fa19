package predicate

import (
	"fmt"
	"regexp"
)

// Regex matches a line against a compiled RE2 expression.
type Regex struct {
	pattern string
	re      *regexp.Regexp
}

// NewRegex compiles pattern into a predicate.
func NewRegex(pattern string) (*Regex, error) {
	re, err := regexp.Compile(pattern)
	if err != nil {
		return nil, &PatternCompileError{Pattern: pattern, Err: err}
	}
	return &Regex{pattern: pattern, re: re}, nil
}

// MustRegex is like NewRegex but panics on error.
func MustRegex(pattern string) *Regex {
	r, err := NewRegex(pattern)
	if err != nil {
		panic(err)
	}
	return r
}

// Pattern returns the source expression.
func (r *Regex) Pattern() string {
	return r.pattern
}

// Match returns the leftmost-first match in line. An empty match counts.
func (r *Regex) Match(line string) (string, bool) {
	loc := r.re.FindStringIndex(line)
	if loc == nil {
		return "", false
	}
	return line[loc[0]:loc[1]], true
}

func (r *Regex) Kind() Kind { return KindRegex }

func (r *Regex) Equal(other Predicate) bool {
	o, ok := other.(*Regex)
	if !ok || o == nil {
		return false
	}
	return r.pattern == o.pattern
}

func (r *Regex) String() string {
	return fmt.Sprintf("Regex(%q)", r.pattern)
}

func (r *Regex) sealed() {}
