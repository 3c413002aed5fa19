package querier

import (
	"context"

	"github.com/strrl/logscan/pkg/store"
)

// Querier provides a high-level interface for reviewing saved evidence.
type Querier struct {
	store store.Store
}

// NewQuerier creates a new Querier backed by the given store.
func NewQuerier(s store.Store) *Querier {
	return &Querier{store: s}
}

// ByLog returns the evidence one log produced in a run.
func (q *Querier) ByLog(ctx context.Context, runID, logName string) ([]store.Evidence, error) {
	return q.store.QueryEvidence(ctx, store.QueryOpts{RunID: runID, LogName: logName})
}

// ByRun returns all evidence of a run.
func (q *Querier) ByRun(ctx context.Context, runID string) ([]store.Evidence, error) {
	return q.store.QueryEvidence(ctx, store.QueryOpts{RunID: runID})
}

// Runs returns all saved runs, newest first.
func (q *Querier) Runs(ctx context.Context) ([]store.Run, error) {
	return q.store.Runs(ctx)
}

// Templates returns the line templates saved for a run.
func (q *Querier) Templates(ctx context.Context, runID string) ([]store.Template, error) {
	return q.store.Templates(ctx, runID)
}

// Search returns evidence matching the given query options.
func (q *Querier) Search(ctx context.Context, opts store.QueryOpts) ([]store.Evidence, error) {
	return q.store.QueryEvidence(ctx, opts)
}
