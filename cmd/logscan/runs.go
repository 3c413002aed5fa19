package main

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/querier"
)

func runsCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "runs",
		Short: "List saved search runs",
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			s, err := openStore(ctx)
			if err != nil {
				return err
			}
			defer func() { _ = s.Close() }()

			runs, err := querier.NewQuerier(s).Runs(ctx)
			if err != nil {
				return errors.Errorf("query runs: %w", err)
			}

			out := cmd.OutOrStdout()
			fmt.Fprintf(out, "%-36s %-20s %-6s %-8s %s\n", "RUN", "STARTED", "LOGS", "MATCHED", "LINES")
			fmt.Fprintln(out, "------------------------------------ -------------------- ------ -------- --------")
			for _, r := range runs {
				fmt.Fprintf(out, "%-36s %-20s %-6d %-8d %d\n",
					r.RunID, r.StartedAt.Format("2006-01-02 15:04:05"), r.Diagnostics, r.MatchedLogs, r.MatchedLines)
			}
			return nil
		},
	}
}
