// Package search runs batch specs over collections of diagnostics.
package search

import (
	"context"
	"log/slog"
	"runtime"
	"slices"
	"time"

	"github.com/go-errors/errors"
	"github.com/strrl/logscan/pkg/batch"
	"github.com/strrl/logscan/pkg/diagnostic"
	"github.com/strrl/logscan/pkg/predicate"
	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"golang.org/x/sync/errgroup"
)

const tracerName = "github.com/strrl/logscan/pkg/search"

// Result maps a log name to its matched lines, in the order they appear in
// the log. Logs without matches have no key.
type Result map[string][]string

// Names returns the matched log names in sorted order.
func (r Result) Names() []string {
	names := make([]string, 0, len(r))
	for name := range r {
		names = append(names, name)
	}
	slices.Sort(names)
	return names
}

// Lines returns the total number of matched lines.
func (r Result) Lines() int {
	n := 0
	for _, lines := range r {
		n += len(lines)
	}
	return n
}

// Engine searches diagnostics concurrently on a bounded worker pool.
type Engine struct {
	workers int
	logger  *slog.Logger
	tracer  trace.Tracer
}

// Option configures an Engine.
type Option func(*Engine)

// WithWorkers bounds the number of diagnostics scanned at once.
// Values below 1 are ignored.
func WithWorkers(n int) Option {
	return func(e *Engine) {
		if n >= 1 {
			e.workers = n
		}
	}
}

// WithLogger sets the logger. The default is slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) { e.logger = l }
}

// WithTracerProvider sets where search spans are recorded. The default is
// the global provider.
func WithTracerProvider(tp trace.TracerProvider) Option {
	return func(e *Engine) { e.tracer = tp.Tracer(tracerName) }
}

// NewEngine creates an Engine. By default it runs GOMAXPROCS workers.
func NewEngine(opts ...Option) *Engine {
	e := &Engine{
		workers: runtime.GOMAXPROCS(0),
		tracer:  otel.Tracer(tracerName),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

func (e *Engine) log() *slog.Logger {
	if e.logger != nil {
		return e.logger
	}
	return slog.Default()
}

type job struct {
	diag  diagnostic.Diagnostic
	preds []predicate.Predicate
}

// Search resolves the predicates for every diagnostic, then scans the
// diagnostics that have any. The result is the same as a sequential scan in
// input order; diagnostics sharing a name have their matches concatenated in
// input order. The only error is cancellation of ctx.
func (e *Engine) Search(ctx context.Context, diags []diagnostic.Diagnostic, spec *batch.Spec) (Result, error) {
	start := time.Now()
	ctx, span := e.tracer.Start(ctx, "search.batch", trace.WithAttributes(
		attribute.Int("search.diagnostics", len(diags)),
		attribute.Int("search.entries", spec.Len()),
	))
	defer span.End()

	jobs := make([]job, 0, len(diags))
	for _, d := range diags {
		preds := spec.PredicatesFor(d.Name())
		if len(preds) == 0 {
			continue
		}
		jobs = append(jobs, job{diag: d, preds: preds})
	}

	// Each worker owns one slot; the merge below runs after Wait.
	found := make([][]string, len(jobs))
	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(e.workers)
	for i, j := range jobs {
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			found[i] = e.scan(gctx, j)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		span.RecordError(err)
		span.SetStatus(codes.Error, err.Error())
		return nil, errors.Errorf("search: %w", err)
	}

	result := make(Result)
	for i, j := range jobs {
		if len(found[i]) == 0 {
			continue
		}
		name := j.diag.Name()
		result[name] = append(result[name], found[i]...)
	}

	span.SetAttributes(
		attribute.Int("search.scanned", len(jobs)),
		attribute.Int("search.matched_logs", len(result)),
		attribute.Int("search.matched_lines", result.Lines()),
	)
	e.log().Debug("search finished",
		"diagnostics", len(diags),
		"scanned", len(jobs),
		"matched_logs", len(result),
		"matched_lines", result.Lines(),
		"duration", time.Since(start),
	)
	return result, nil
}

// SearchWithPredicate searches every diagnostic with a single predicate.
func (e *Engine) SearchWithPredicate(ctx context.Context, diags []diagnostic.Diagnostic, p predicate.Predicate) (Result, error) {
	spec, err := batch.Wildcard(p)
	if err != nil {
		return nil, errors.Errorf("search: %w", err)
	}
	return e.Search(ctx, diags, spec)
}

func (e *Engine) scan(ctx context.Context, j job) []string {
	_, span := e.tracer.Start(ctx, "search.diagnostic", trace.WithAttributes(
		attribute.String("diagnostic.name", j.diag.Name()),
		attribute.Int("search.predicates", len(j.preds)),
	))
	defer span.End()

	content, ok := j.diag.TextContent()
	if !ok {
		span.SetAttributes(attribute.Bool("diagnostic.text", false))
		e.log().Debug("skipping diagnostic without text", "name", j.diag.Name())
		return nil
	}
	matched := MatchLines(content, j.preds)
	span.SetAttributes(attribute.Int("search.matched_lines", len(matched)))
	return matched
}

// MatchLines returns the lines of content matched by at least one of preds.
// Each line appears at most once, in content order.
func MatchLines(content string, preds []predicate.Predicate) []string {
	var matched []string
	for _, line := range diagnostic.Lines(content) {
		if predicate.MatchesAny(preds, line) {
			matched = append(matched, line)
		}
	}
	return matched
}

var defaultEngine = NewEngine()

// Search runs spec over diags with the default engine. It always runs to
// completion.
func Search(diags []diagnostic.Diagnostic, spec *batch.Spec) Result {
	result, err := defaultEngine.Search(context.Background(), diags, spec)
	if err != nil {
		return Result{}
	}
	return result
}

// SearchWithPredicate runs a single wildcard predicate over diags with the
// default engine.
func SearchWithPredicate(diags []diagnostic.Diagnostic, p predicate.Predicate) Result {
	result, err := defaultEngine.SearchWithPredicate(context.Background(), diags, p)
	if err != nil {
		return Result{}
	}
	return result
}
