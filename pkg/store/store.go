package store

import (
	"context"
	"slices"
	"time"
)

// Run records one search invocation.
type Run struct {
	RunID        string
	StartedAt    time.Time
	Spec         string // JSON form of the batch spec
	Diagnostics  int
	MatchedLogs  int
	MatchedLines int
}

// Evidence is one matched line kept from a run.
type Evidence struct {
	ID        int64
	RunID     string
	LogName   string
	Seq       int // 1-based position among the log's matched lines
	Line      string
	PatternID string
}

// Template is a line template discovered among a run's matches.
type Template struct {
	RunID     string
	PatternID string
	Pattern   string
	Count     int
}

// QueryOpts specifies filters for querying evidence.
type QueryOpts struct {
	RunID     string
	LogName   string
	PatternID string
	Limit     int
}

// Store persists search runs and the evidence they produced.
type Store interface {
	// Init creates tables if they don't exist.
	Init(ctx context.Context) error
	// InsertRun stores the run header.
	InsertRun(ctx context.Context, run Run) error
	// InsertEvidenceBatch stores matched lines in a single transaction.
	InsertEvidenceBatch(ctx context.Context, evidence []Evidence) error
	// InsertTemplates upserts the templates discovered for a run.
	InsertTemplates(ctx context.Context, templates []Template) error
	// QueryEvidence returns evidence matching the given options.
	QueryEvidence(ctx context.Context, opts QueryOpts) ([]Evidence, error)
	// Runs returns all runs, newest first.
	Runs(ctx context.Context) ([]Run, error)
	// Templates returns a run's templates ordered by count.
	Templates(ctx context.Context, runID string) ([]Template, error)
	// EvidenceCounts returns the number of evidence rows per log for a run.
	EvidenceCounts(ctx context.Context, runID string) (map[string]int, error)
	// Close releases resources.
	Close() error
}

// EvidenceFromResult flattens a search result into evidence rows, ordered
// by log name and then by line order within the log.
func EvidenceFromResult(runID string, result map[string][]string) []Evidence {
	names := make([]string, 0, len(result))
	total := 0
	for name, lines := range result {
		names = append(names, name)
		total += len(lines)
	}
	slices.Sort(names)

	evidence := make([]Evidence, 0, total)
	for _, name := range names {
		for i, line := range result[name] {
			evidence = append(evidence, Evidence{
				RunID:   runID,
				LogName: name,
				Seq:     i + 1,
				Line:    line,
			})
		}
	}
	return evidence
}
