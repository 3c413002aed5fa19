// Package config resolves settings from flags, the environment and defaults,
// in that order.
package config

import (
	"os"
	"runtime"
	"strconv"
	"strings"

	"github.com/go-errors/errors"
)

const (
	// EnvWorkers overrides the number of diagnostics searched at once.
	EnvWorkers = "LOGSCAN_WORKERS"
	// EnvDB overrides the evidence database path.
	EnvDB = "LOGSCAN_DB"
)

// DefaultDBPath is the evidence database used when none is specified.
const DefaultDBPath = "logscan.duckdb"

// ResolveWorkers returns the worker count to use, checking the explicit
// value first, then LOGSCAN_WORKERS, and finally GOMAXPROCS. Zero means
// unset; negative values are rejected.
func ResolveWorkers(workers int) (int, error) {
	if workers < 0 {
		return 0, errors.Errorf("workers must be positive, got %d", workers)
	}
	if workers > 0 {
		return workers, nil
	}
	if env := strings.TrimSpace(os.Getenv(EnvWorkers)); env != "" {
		n, err := strconv.Atoi(env)
		if err != nil || n < 1 {
			return 0, errors.Errorf("%s must be a positive integer, got %q", EnvWorkers, env)
		}
		return n, nil
	}
	return runtime.GOMAXPROCS(0), nil
}

// ResolveDBPath returns the database path, checking the explicit value
// first, then LOGSCAN_DB, and finally DefaultDBPath.
func ResolveDBPath(path string) string {
	if path != "" {
		return path
	}
	if env := os.Getenv(EnvDB); env != "" {
		return env
	}
	return DefaultDBPath
}
