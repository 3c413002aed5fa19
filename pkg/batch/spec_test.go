package batch

import (
	"errors"
	"testing"

	"github.com/strrl/logscan/pkg/predicate"
)

func TestPredicatesForWildcardUnion(t *testing.T) {
	p1 := predicate.MustSubstrings("error")
	p2 := predicate.MustRegex(`Trace: \d+`)
	spec, err := Build(
		Entry{Predicates: []predicate.Predicate{p1}},
		Entry{Names: []string{"x"}, Predicates: []predicate.Predicate{p2}},
	)
	if err != nil {
		t.Fatalf("Build: %v", err)
	}

	got := spec.PredicatesFor("x")
	if len(got) != 2 || !got[0].Equal(p1) || !got[1].Equal(p2) {
		t.Errorf("PredicatesFor(x) = %v, want [%s %s]", got, p1, p2)
	}

	got = spec.PredicatesFor("y")
	if len(got) != 1 || !got[0].Equal(p1) {
		t.Errorf("PredicatesFor(y) = %v, want [%s]", got, p1)
	}
}

func TestPredicatesForKeepsSpecOrder(t *testing.T) {
	a := predicate.MustSubstrings("a")
	b := predicate.MustSubstrings("b")
	c := predicate.MustSubstrings("c")
	spec := MustBuild(
		Entry{Names: []string{"syslog", "crash"}, Predicates: []predicate.Predicate{a}},
		Entry{Predicates: []predicate.Predicate{b}},
		Entry{Names: []string{"syslog"}, Predicates: []predicate.Predicate{c, a}},
	)

	got := spec.PredicatesFor("syslog")
	want := []predicate.Predicate{a, b, c, a}
	if len(got) != len(want) {
		t.Fatalf("got %d predicates, want %d", len(got), len(want))
	}
	for i := range want {
		if !got[i].Equal(want[i]) {
			t.Errorf("predicate %d = %s, want %s", i, got[i], want[i])
		}
	}

	if got := spec.PredicatesFor("unnamed"); len(got) != 1 {
		t.Errorf("expected only the wildcard predicate, got %v", got)
	}
}

func TestPredicatesForNoMatch(t *testing.T) {
	spec := MustBuild(Entry{Names: []string{"x"}, Predicates: []predicate.Predicate{predicate.MustSubstrings("a")}})
	if got := spec.PredicatesFor("y"); len(got) != 0 {
		t.Errorf("expected no predicates, got %v", got)
	}
}

func TestBuildRejects(t *testing.T) {
	ok := []predicate.Predicate{predicate.MustSubstrings("a")}
	tests := []struct {
		name    string
		entries []Entry
		entry   int
		field   string
	}{
		{
			name:    "empty predicate list",
			entries: []Entry{{Predicates: ok}, {Names: []string{"x"}}},
			entry:   1,
			field:   FieldPredicates,
		},
		{
			name:    "nil predicate",
			entries: []Entry{{Predicates: []predicate.Predicate{nil}}},
			entry:   0,
			field:   FieldPredicates,
		},
		{
			name:    "blank name",
			entries: []Entry{{Names: []string{"x", " "}, Predicates: ok}},
			entry:   0,
			field:   FieldNames,
		},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			spec, err := Build(tt.entries...)
			if err == nil {
				t.Fatalf("expected error, got %s", spec)
			}
			if spec != nil {
				t.Error("no spec may be produced on failure")
			}
			var ve *ValidationError
			if !errors.As(err, &ve) {
				t.Fatalf("expected ValidationError, got %T", err)
			}
			if ve.Entry != tt.entry || ve.Field != tt.field {
				t.Errorf("error points at entry %d field %q, want %d %q", ve.Entry, ve.Field, tt.entry, tt.field)
			}
		})
	}
}

func TestBuildIsolatesCallerSlices(t *testing.T) {
	names := []string{"b", "a", "b"}
	preds := []predicate.Predicate{predicate.MustSubstrings("x")}
	spec := MustBuild(Entry{Names: names, Predicates: preds})

	names[0] = "mutated"
	preds[0] = predicate.MustSubstrings("y")

	entries := spec.Entries()
	if got := entries[0].Names; len(got) != 2 || got[0] != "a" || got[1] != "b" {
		t.Errorf("Names = %v, want [a b]", got)
	}
	if !entries[0].Predicates[0].Equal(predicate.MustSubstrings("x")) {
		t.Errorf("spec predicate changed after caller mutation")
	}

	entries[0].Names[0] = "changed"
	if spec.Entries()[0].Names[0] != "a" {
		t.Error("Entries must return copies")
	}
}

func TestSpecEqualAndString(t *testing.T) {
	a := MustBuild(
		Entry{Predicates: []predicate.Predicate{predicate.MustRegex(`x`)}},
		Entry{Names: []string{"b", "a"}, Predicates: []predicate.Predicate{predicate.MustSubstrings("q")}},
	)
	b := MustBuild(
		Entry{Predicates: []predicate.Predicate{predicate.MustRegex(`x`)}},
		Entry{Names: []string{"a", "b"}, Predicates: []predicate.Predicate{predicate.MustSubstrings("q")}},
	)
	if !a.Equal(b) {
		t.Errorf("expected %s == %s", a, b)
	}
	c := MustBuild(Entry{Predicates: []predicate.Predicate{predicate.MustRegex(`x`)}})
	if a.Equal(c) {
		t.Error("specs with different entries must differ")
	}
	want := `BatchSpec{*: Regex("x"); a,b: Substrings(["q"])}`
	if a.String() != want {
		t.Errorf("String() = %s, want %s", a.String(), want)
	}
}
