// Package pattern groups matched log lines into Drain templates so that a
// large set of matches can be reviewed as a handful of shapes.
package pattern

import (
	"cmp"
	"slices"
	"sync"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/jaeyo/go-drain3/pkg/drain3"
)

// DrainParser clusters lines online with the Drain algorithm. It is safe
// for concurrent use.
type DrainParser struct {
	mu    sync.Mutex
	drain *drain3.Drain
	// ids maps Drain cluster ids to UUIDs that stay fixed for the parser's life.
	ids map[int64]uuid.UUID
}

// NewDrainParser creates a DrainParser with default Drain parameters.
func NewDrainParser() (*DrainParser, error) {
	d, err := drain3.NewDrain(
		drain3.WithDepth(4),
		drain3.WithSimTh(0.4),
		drain3.WithExtraDelimiter(extraDelimiters),
	)
	if err != nil {
		return nil, errors.Errorf("create drain: %w", err)
	}
	return &DrainParser{
		drain: d,
		ids:   make(map[int64]uuid.UUID),
	}, nil
}

// Feed adds lines to the clustering.
func (p *DrainParser) Feed(lines []string) error {
	p.mu.Lock()
	defer p.mu.Unlock()

	for _, line := range lines {
		cluster, _, err := p.drain.AddLogMessage(line)
		if err != nil {
			return errors.Errorf("drain add: %w", err)
		}
		if cluster == nil {
			continue
		}
		if _, ok := p.ids[cluster.ClusterId]; !ok {
			p.ids[cluster.ClusterId] = uuid.New()
		}
	}
	return nil
}

// Templates returns the clusters found so far, most frequent first.
func (p *DrainParser) Templates() ([]Cluster, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	found := p.drain.GetClusters()
	clusters := make([]Cluster, 0, len(found))
	for _, c := range found {
		id, ok := p.ids[c.ClusterId]
		if !ok {
			continue
		}
		clusters = append(clusters, Cluster{
			ID:      id,
			Pattern: c.GetTemplate(),
			Count:   int(c.Size),
		})
	}
	slices.SortStableFunc(clusters, func(a, b Cluster) int {
		if c := cmp.Compare(b.Count, a.Count); c != 0 {
			return c
		}
		return cmp.Compare(a.Pattern, b.Pattern)
	})
	return clusters, nil
}

// Summarize clusters lines in one pass and returns the templates, most
// frequent first. No lines yields no templates.
func Summarize(lines []string) ([]Cluster, error) {
	if len(lines) == 0 {
		return nil, nil
	}
	p, err := NewDrainParser()
	if err != nil {
		return nil, err
	}
	if err := p.Feed(lines); err != nil {
		return nil, err
	}
	return p.Templates()
}

// Assign returns, for each line, the id of the first cluster matching it,
// or "" when none does.
func Assign(lines []string, clusters []Cluster) []string {
	ids := make([]string, len(lines))
	for i, line := range lines {
		if c, ok := MatchTemplate(line, clusters); ok {
			ids[i] = c.ID.String()
		}
	}
	return ids
}
