package predicate

import (
	"errors"
	"strings"
	"testing"
)

func TestSubstringsMatch(t *testing.T) {
	p, err := NewSubstrings("error", "fatal")
	if err != nil {
		t.Fatalf("NewSubstrings: %v", err)
	}

	tests := []struct {
		line    string
		want    string
		matched bool
	}{
		{"bar error", "error", true},
		{"fatal: out of memory", "fatal", true},
		{"an Error in caps", "", false},
		{"all good", "", false},
		{"", "", false},
		// leftmost occurrence wins regardless of set order
		{"fatal then error", "fatal", true},
	}
	for _, tt := range tests {
		got, ok := p.Match(tt.line)
		if ok != tt.matched || got != tt.want {
			t.Errorf("Match(%q) = (%q, %v), want (%q, %v)", tt.line, got, ok, tt.want, tt.matched)
		}
	}
}

func TestSubstringsMatchIffContained(t *testing.T) {
	set := []string{"abc", "bcd", "x"}
	p := MustSubstrings(set...)
	lines := []string{"abcd", "zzz", "xylophone", "ab cd", "BCD", "aabcc"}
	for _, line := range lines {
		want := false
		for _, s := range set {
			if strings.Contains(line, s) {
				want = true
			}
		}
		got, ok := p.Match(line)
		if ok != want {
			t.Errorf("Match(%q) matched=%v, want %v", line, ok, want)
		}
		if ok && !strings.Contains(line, got) {
			t.Errorf("Match(%q) returned %q which is not in the line", line, got)
		}
	}
}

func TestSubstringsTieBreakIsDeterministic(t *testing.T) {
	p := MustSubstrings("abc", "ab")
	for i := 0; i < 10; i++ {
		got, ok := p.Match("xabcx")
		if !ok || got != "ab" {
			t.Fatalf("Match = (%q, %v), want (\"ab\", true)", got, ok)
		}
	}
}

func TestSubstringsEmptyMember(t *testing.T) {
	p := MustSubstrings("", "warn")
	if got, ok := p.Match("no hits here"); !ok || got != "" {
		t.Errorf("empty member should match any line, got (%q, %v)", got, ok)
	}
	if got, ok := p.Match("a warn line"); !ok || got != "warn" {
		t.Errorf("non-empty member should be preferred, got (%q, %v)", got, ok)
	}
}

func TestSubstringsNormalized(t *testing.T) {
	a := MustSubstrings("b", "a", "b")
	b := MustSubstrings("a", "b")
	if !a.Equal(b) {
		t.Errorf("expected %s to equal %s", a, b)
	}
	if got := a.Values(); len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Values() = %v, want [a b]", got)
	}
	if a.String() != `Substrings(["a", "b"])` {
		t.Errorf("String() = %s", a.String())
	}
}

func TestNewSubstringsInvalid(t *testing.T) {
	tests := []struct {
		name   string
		values []string
		index  int
	}{
		{"empty set", nil, -1},
		{"newline", []string{"ok", "bad\nvalue"}, 1},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, err := NewSubstrings(tt.values...)
			if err == nil {
				t.Fatalf("expected error, got predicate %v", p)
			}
			if p != nil {
				t.Errorf("expected nil predicate on error")
			}
			var invalid *InvalidSubstringError
			if !errors.As(err, &invalid) {
				t.Fatalf("expected InvalidSubstringError, got %T: %v", err, err)
			}
			if invalid.Index != tt.index {
				t.Errorf("Index = %d, want %d", invalid.Index, tt.index)
			}
		})
	}
}

func TestRegexMatch(t *testing.T) {
	p, err := NewRegex(`Trace: \d+`)
	if err != nil {
		t.Fatalf("NewRegex: %v", err)
	}
	if got, ok := p.Match("Trace: 123"); !ok || got != "Trace: 123" {
		t.Errorf("Match = (%q, %v)", got, ok)
	}
	if _, ok := p.Match("Exception: abc"); ok {
		t.Error("expected no match")
	}

	// leftmost-first alternation
	alt := MustRegex(`a|ab`)
	if got, _ := alt.Match("xab"); got != "a" {
		t.Errorf("leftmost-first match = %q, want \"a\"", got)
	}

	// an empty match is still a match
	empty := MustRegex(`^`)
	if got, ok := empty.Match("anything"); !ok || got != "" {
		t.Errorf("empty match = (%q, %v), want (\"\", true)", got, ok)
	}
}

func TestNewRegexInvalid(t *testing.T) {
	p, err := NewRegex(`(unclosed`)
	if err == nil {
		t.Fatalf("expected error, got %v", p)
	}
	var compileErr *PatternCompileError
	if !errors.As(err, &compileErr) {
		t.Fatalf("expected PatternCompileError, got %T", err)
	}
	if compileErr.Pattern != "(unclosed" {
		t.Errorf("Pattern = %q", compileErr.Pattern)
	}
}

func TestEqualAcrossVariants(t *testing.T) {
	s := MustSubstrings("x")
	r := MustRegex("x")
	if s.Equal(r) || r.Equal(s) {
		t.Error("predicates of different kinds must not be equal")
	}
	if !r.Equal(MustRegex("x")) {
		t.Error("regexes with the same pattern must be equal")
	}
}

func TestMatchesAny(t *testing.T) {
	preds := []Predicate{MustSubstrings("foo"), MustRegex(`\d{3}`)}
	if !MatchesAny(preds, "code 404") {
		t.Error("expected regex to match")
	}
	if MatchesAny(preds, "nothing") {
		t.Error("expected no match")
	}
	if MatchesAny(nil, "foo") {
		t.Error("no predicates never match")
	}
}
