package main

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"os"
	"os/signal"
	"time"

	"github.com/go-errors/errors"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/batch"
	"github.com/strrl/logscan/pkg/config"
	"github.com/strrl/logscan/pkg/diagnostic"
	"github.com/strrl/logscan/pkg/pattern"
	"github.com/strrl/logscan/pkg/search"
	"github.com/strrl/logscan/pkg/store"
)

type searchOptions struct {
	specFile  string
	pred      predicateFlags
	workers   int
	asJSON    bool
	summarize bool
	save      bool
}

func searchCmd() *cobra.Command {
	var opts searchOptions

	cmd := &cobra.Command{
		Use:   "search <path|glob|->...",
		Short: "Search logs with a batch spec or a single predicate",
		Long: `Search every log with the predicates that apply to it and print the matched lines.

Predicates come from a spec file (--spec, JSON or YAML) or from a single
--substring/--regex that applies to every log. Paths may be doublestar globs;
"-" reads standard input as the log named "stdin".`,
		Args: cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			return runSearch(cmd, args, opts)
		},
	}
	cmd.Flags().StringVar(&opts.specFile, "spec", "", "batch spec file (.json, .yaml)")
	cmd.Flags().StringArrayVar(&opts.pred.substrings, "substring", nil, "literal substring to match in every log (repeatable)")
	cmd.Flags().StringVar(&opts.pred.regex, "regex", "", "regular expression to match in every log")
	cmd.Flags().IntVar(&opts.workers, "workers", 0, "logs searched at once (default $LOGSCAN_WORKERS or GOMAXPROCS)")
	cmd.Flags().BoolVar(&opts.asJSON, "json", false, "print results as JSON")
	cmd.Flags().BoolVar(&opts.summarize, "summarize", false, "group matched lines into templates")
	cmd.Flags().BoolVar(&opts.save, "save", false, "save matched lines as evidence in the database")
	return cmd
}

// searchReport is the JSON form of a search.
type searchReport struct {
	RunID     string           `json:"run_id,omitempty"`
	Matches   search.Result    `json:"matches"`
	Templates []templateReport `json:"templates,omitempty"`
}

type templateReport struct {
	ID      string `json:"id"`
	Pattern string `json:"pattern"`
	Count   int    `json:"count"`
}

func runSearch(cmd *cobra.Command, args []string, opts searchOptions) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt)
	defer stop()

	spec, err := loadSearchSpec(opts)
	if err != nil {
		return err
	}

	workers, err := config.ResolveWorkers(opts.workers)
	if err != nil {
		return err
	}

	diags, err := collectDiagnostics(args, func() (diagnostic.Diagnostic, error) {
		return diagnostic.ReadStdin("stdin", cmd.InOrStdin())
	})
	if err != nil {
		return errors.Errorf("collect logs: %w", err)
	}

	started := time.Now()
	engine := search.NewEngine(search.WithWorkers(workers))
	result, err := engine.Search(ctx, diags, spec)
	if err != nil {
		return err
	}
	slog.Info("search finished",
		"logs", len(diags),
		"matched_logs", len(result),
		"matched_lines", result.Lines(),
		"duration", time.Since(started),
	)

	var clusters []pattern.Cluster
	if opts.summarize || opts.save {
		clusters, err = pattern.Summarize(allLines(result))
		if err != nil {
			return errors.Errorf("summarize: %w", err)
		}
	}

	report := searchReport{Matches: result}
	if opts.summarize {
		report.Templates = templateReports(clusters)
	}
	if opts.save {
		runID, err := saveRun(ctx, started, spec, len(diags), result, clusters)
		if err != nil {
			return err
		}
		report.RunID = runID
	}

	out := cmd.OutOrStdout()
	if opts.asJSON {
		enc := json.NewEncoder(out)
		enc.SetIndent("", "  ")
		return enc.Encode(report)
	}
	printMatches(out, result)
	if opts.summarize {
		printTemplates(out, report.Templates)
	}
	if report.RunID != "" {
		fmt.Fprintf(cmd.ErrOrStderr(), "Saved run %s to %s\n", report.RunID, config.ResolveDBPath(dbPath))
	}
	return nil
}

func loadSearchSpec(opts searchOptions) (*batch.Spec, error) {
	if opts.specFile != "" {
		if opts.pred.set() {
			return nil, errors.New("use either --spec or --substring/--regex, not both")
		}
		return batch.LoadFile(opts.specFile)
	}
	p, err := opts.pred.build()
	if err != nil {
		return nil, err
	}
	return batch.Wildcard(p)
}

func allLines(result search.Result) []string {
	lines := make([]string, 0, result.Lines())
	for _, name := range result.Names() {
		lines = append(lines, result[name]...)
	}
	return lines
}

func templateReports(clusters []pattern.Cluster) []templateReport {
	reports := make([]templateReport, 0, len(clusters))
	for _, c := range clusters {
		reports = append(reports, templateReport{ID: c.ID.String(), Pattern: c.Pattern, Count: c.Count})
	}
	return reports
}

func printMatches(w io.Writer, result search.Result) {
	for _, name := range result.Names() {
		for _, line := range result[name] {
			fmt.Fprintf(w, "%s: %s\n", name, line)
		}
	}
}

func printTemplates(w io.Writer, templates []templateReport) {
	fmt.Fprintf(w, "\n%-8s %s\n", "COUNT", "TEMPLATE")
	fmt.Fprintln(w, "-------- ----------------------------------------")
	for _, t := range templates {
		fmt.Fprintf(w, "%-8d %s\n", t.Count, t.Pattern)
	}
}

// saveRun stores the run header, its evidence stamped with template ids,
// and the templates themselves.
func saveRun(ctx context.Context, started time.Time, spec *batch.Spec, diagnostics int, result search.Result, clusters []pattern.Cluster) (string, error) {
	encoded, err := batch.Marshal(spec)
	if err != nil {
		return "", errors.Errorf("encode spec: %w", err)
	}

	s, err := openStore(ctx)
	if err != nil {
		return "", err
	}
	defer func() { _ = s.Close() }()

	runID := uuid.NewString()
	run := store.Run{
		RunID:        runID,
		StartedAt:    started,
		Spec:         string(encoded),
		Diagnostics:  diagnostics,
		MatchedLogs:  len(result),
		MatchedLines: result.Lines(),
	}
	if err := s.InsertRun(ctx, run); err != nil {
		return "", errors.Errorf("insert run: %w", err)
	}

	evidence := store.EvidenceFromResult(runID, result)
	lines := make([]string, len(evidence))
	for i, e := range evidence {
		lines[i] = e.Line
	}
	for i, id := range pattern.Assign(lines, clusters) {
		evidence[i].PatternID = id
	}
	if err := s.InsertEvidenceBatch(ctx, evidence); err != nil {
		return "", errors.Errorf("insert evidence: %w", err)
	}

	templates := make([]store.Template, 0, len(clusters))
	for _, c := range clusters {
		templates = append(templates, store.Template{
			RunID:     runID,
			PatternID: c.ID.String(),
			Pattern:   c.Pattern,
			Count:     c.Count,
		})
	}
	if len(templates) > 0 {
		if err := s.InsertTemplates(ctx, templates); err != nil {
			return "", errors.Errorf("insert templates: %w", err)
		}
	}
	return runID, nil
}
