package main

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/querier"
	"github.com/strrl/logscan/pkg/store"
)

func evidenceCmd() *cobra.Command {
	var (
		opts      store.QueryOpts
		templates bool
	)

	cmd := &cobra.Command{
		Use:   "evidence",
		Short: "Show matched lines saved by a search run",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			q := querier.NewQuerier(s)
			out := cmd.OutOrStdout()
			if templates {
				ts, err := q.Templates(ctx, opts.RunID)
				if err != nil {
					return errors.Errorf("query templates: %w", err)
				}
				fmt.Fprintf(out, "%-36s %-8s %s\n", "ID", "COUNT", "TEMPLATE")
				for _, t := range ts {
					fmt.Fprintf(out, "%-36s %-8d %s\n", t.PatternID, t.Count, t.Pattern)
				}
				return nil
			}

			entries, err := q.Search(ctx, opts)
			if err != nil {
				return errors.Errorf("query evidence: %w", err)
			}
			for _, e := range entries {
				fmt.Fprintf(out, "[%s#%d] %s\n", e.LogName, e.Seq, e.Line)
			}
			fmt.Fprintf(cmd.ErrOrStderr(), "\n%d entries found\n", len(entries))
			return nil
		},
	}
	cmd.Flags().StringVar(&opts.RunID, "run", "", "run ID to show (required)")
	cmd.Flags().StringVar(&opts.LogName, "log", "", "only show evidence from this log")
	cmd.Flags().StringVar(&opts.PatternID, "pattern", "", "only show evidence assigned to this template id")
	cmd.Flags().IntVar(&opts.Limit, "limit", 0, "maximum number of lines")
	cmd.Flags().BoolVar(&templates, "templates", false, "list the run's templates instead of lines")
	_ = cmd.MarkFlagRequired("run")
	return cmd
}
