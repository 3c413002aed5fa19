package main

import (
	"context"
	"log/slog"
	"os"

	"github.com/go-errors/errors"
	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/config"
	"github.com/strrl/logscan/pkg/store"
	"github.com/strrl/logscan/pkg/tracing"
)

var (
	dbPath  string
	verbose bool
)

func main() {
	// Load .env file if present (does not override existing env vars)
	_ = godotenv.Load()

	root := newRootCmd()

	flush := func() {}
	root.PersistentPreRun = func(cmd *cobra.Command, args []string) {
		setupLogging(verbose)
		flush = tracing.InitOTLP()
	}

	err := root.Execute()
	flush()

	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:          "logscan",
		Short:        "Search diagnostic logs with substring and regex predicates",
		Long:         "logscan runs batch specs of substring and regex predicates over log files and keeps the matched lines as evidence.",
		SilenceUsage: true,
	}

	root.PersistentFlags().StringVar(&dbPath, "db", "", "path to DuckDB evidence database (default $LOGSCAN_DB or "+config.DefaultDBPath+")")
	root.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "enable debug logging")

	root.AddCommand(searchCmd())
	root.AddCommand(firstCmd())
	root.AddCommand(validateCmd())
	root.AddCommand(evidenceCmd())
	root.AddCommand(runsCmd())
	return root
}

func setupLogging(debug bool) {
	level := slog.LevelInfo
	if debug {
		level = slog.LevelDebug
	}
	slog.SetDefault(slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level})))
}

// openStore opens and initializes the evidence database.
func openStore(ctx context.Context) (*store.DuckDBStore, error) {
	path := config.ResolveDBPath(dbPath)
	s, err := store.NewDuckDBStore(path)
	if err != nil {
		return nil, errors.Errorf("store: %w", err)
	}
	if err := s.Init(ctx); err != nil {
		_ = s.Close()
		return nil, errors.Errorf("store init: %w", err)
	}
	slog.Debug("opened evidence store", "path", path)
	return s, nil
}
