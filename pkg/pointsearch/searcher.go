// Package pointsearch answers single ad-hoc queries against one diagnostic.
package pointsearch

import (
	"fmt"

	"github.com/strrl/logscan/pkg/diagnostic"
	"github.com/strrl/logscan/pkg/predicate"
)

// Searcher pairs one diagnostic with one predicate. Every query reads the
// diagnostic's content again, so two calls may observe different content.
type Searcher struct {
	diag diagnostic.Diagnostic
	pred predicate.Predicate
}

func New(d diagnostic.Diagnostic, p predicate.Predicate) *Searcher {
	return &Searcher{diag: d, pred: p}
}

func (s *Searcher) Diagnostic() diagnostic.Diagnostic { return s.diag }

func (s *Searcher) Predicate() predicate.Predicate { return s.pred }

// FirstMatch returns the text matched in the first matching line.
func (s *Searcher) FirstMatch() (string, bool) {
	matched, _, ok := s.first()
	return matched, ok
}

// FirstMatchingLine returns the whole first line the predicate matches.
func (s *Searcher) FirstMatchingLine() (string, bool) {
	_, line, ok := s.first()
	return line, ok
}

func (s *Searcher) first() (matched, line string, ok bool) {
	content, isText := s.diag.TextContent()
	if !isText {
		return "", "", false
	}
	for _, l := range diagnostic.Lines(content) {
		if m, hit := s.pred.Match(l); hit {
			return m, l, true
		}
	}
	return "", "", false
}

func (s *Searcher) String() string {
	return fmt.Sprintf("PointSearcher(%s, %s)", s.diag.Name(), s.pred)
}
