package store

import (
	"context"
	"database/sql"
	"fmt"
	"strings"

	_ "github.com/duckdb/duckdb-go/v2"
	"github.com/go-errors/errors"
)

// DuckDBStore implements Store using DuckDB.
type DuckDBStore struct {
	db *sql.DB
}

// NewDuckDBStore creates a new DuckDB-backed store.
// Pass dsn="" for in-memory, or a file path for persistent storage.
func NewDuckDBStore(dsn string) (*DuckDBStore, error) {
	db, err := sql.Open("duckdb", dsn)
	if err != nil {
		return nil, errors.Errorf("open duckdb: %w", err)
	}
	return &DuckDBStore{db: db}, nil
}

// Init creates the runs, evidence and templates tables if they do not
// exist, and migrates evidence tables written before pattern ids existed.
func (s *DuckDBStore) Init(ctx context.Context) error {
	_, err := s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS runs (
			run_id VARCHAR PRIMARY KEY,
			started_at TIMESTAMP,
			spec VARCHAR,
			diagnostics INTEGER,
			matched_logs INTEGER,
			matched_lines INTEGER
		)
	`)
	if err != nil {
		return errors.Errorf("create runs table: %w", err)
	}

	if err := s.migrateEvidence(ctx); err != nil {
		return err
	}

	_, err = s.db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS templates (
			run_id VARCHAR,
			pattern_id VARCHAR,
			pattern VARCHAR,
			line_count INTEGER,
			PRIMARY KEY (run_id, pattern_id)
		)
	`)
	if err != nil {
		return errors.Errorf("create templates table: %w", err)
	}
	return nil
}

// migrateEvidence ensures the evidence table exists with the current schema.
func (s *DuckDBStore) migrateEvidence(ctx context.Context) error {
	var tableExists bool
	err := s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0 FROM information_schema.tables
		WHERE table_name = 'evidence'
	`).Scan(&tableExists)
	if err != nil {
		return errors.Errorf("check table existence: %w", err)
	}

	if !tableExists {
		_, _ = s.db.ExecContext(ctx, `CREATE SEQUENCE IF NOT EXISTS evidence_id_seq START 1`)
		_, err := s.db.ExecContext(ctx, `
			CREATE TABLE evidence (
				id BIGINT DEFAULT nextval('evidence_id_seq'),
				run_id VARCHAR,
				log_name VARCHAR,
				seq INTEGER,
				line VARCHAR,
				pattern_id VARCHAR
			)
		`)
		if err != nil {
			return errors.Errorf("create evidence table: %w", err)
		}
		return nil
	}

	var hasPatternID bool
	err = s.db.QueryRowContext(ctx, `
		SELECT COUNT(*) > 0 FROM information_schema.columns
		WHERE table_name = 'evidence' AND column_name = 'pattern_id'
	`).Scan(&hasPatternID)
	if err != nil {
		return errors.Errorf("check evidence schema: %w", err)
	}
	if !hasPatternID {
		if _, err := s.db.ExecContext(ctx, `ALTER TABLE evidence ADD COLUMN pattern_id VARCHAR DEFAULT ''`); err != nil {
			return errors.Errorf("add pattern_id column: %w", err)
		}
	}
	return nil
}

// InsertRun stores the run header.
func (s *DuckDBStore) InsertRun(ctx context.Context, run Run) error {
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO runs (run_id, started_at, spec, diagnostics, matched_logs, matched_lines)
		 VALUES (?, ?, ?, ?, ?, ?)`,
		run.RunID,
		run.StartedAt.UTC(),
		run.Spec,
		run.Diagnostics,
		run.MatchedLogs,
		run.MatchedLines,
	)
	if err != nil {
		return errors.Errorf("insert run: %w", err)
	}
	return nil
}

// InsertEvidenceBatch stores evidence rows in a single transaction.
func (s *DuckDBStore) InsertEvidenceBatch(ctx context.Context, evidence []Evidence) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT INTO evidence (run_id, log_name, seq, line, pattern_id)
		 VALUES (?, ?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, e := range evidence {
		if _, err := stmt.ExecContext(ctx, e.RunID, e.LogName, e.Seq, e.Line, e.PatternID); err != nil {
			return errors.Errorf("exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("commit: %w", err)
	}
	return nil
}

// InsertTemplates upserts templates keyed by run and pattern id.
func (s *DuckDBStore) InsertTemplates(ctx context.Context, templates []Template) error {
	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return errors.Errorf("begin tx: %w", err)
	}
	defer func() { _ = tx.Rollback() }()

	stmt, err := tx.PrepareContext(ctx,
		`INSERT OR REPLACE INTO templates (run_id, pattern_id, pattern, line_count)
		 VALUES (?, ?, ?, ?)`,
	)
	if err != nil {
		return errors.Errorf("prepare: %w", err)
	}
	defer func() { _ = stmt.Close() }()

	for _, t := range templates {
		if _, err := stmt.ExecContext(ctx, t.RunID, t.PatternID, t.Pattern, t.Count); err != nil {
			return errors.Errorf("exec: %w", err)
		}
	}

	if err := tx.Commit(); err != nil {
		return errors.Errorf("commit: %w", err)
	}
	return nil
}

// QueryEvidence returns evidence matching the given options, ordered by
// run, log name and sequence.
func (s *DuckDBStore) QueryEvidence(ctx context.Context, opts QueryOpts) ([]Evidence, error) {
	var conditions []string
	var args []any

	if opts.RunID != "" {
		conditions = append(conditions, "run_id = ?")
		args = append(args, opts.RunID)
	}
	if opts.LogName != "" {
		conditions = append(conditions, "log_name = ?")
		args = append(args, opts.LogName)
	}
	if opts.PatternID != "" {
		conditions = append(conditions, "pattern_id = ?")
		args = append(args, opts.PatternID)
	}

	query := "SELECT id, run_id, log_name, seq, line, COALESCE(pattern_id, '') FROM evidence"
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	query += " ORDER BY run_id, log_name, seq"
	if opts.Limit > 0 {
		query += fmt.Sprintf(" LIMIT %d", opts.Limit)
	}

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, errors.Errorf("query evidence: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var evidence []Evidence
	for rows.Next() {
		var e Evidence
		if err := rows.Scan(&e.ID, &e.RunID, &e.LogName, &e.Seq, &e.Line, &e.PatternID); err != nil {
			return nil, errors.Errorf("scan evidence: %w", err)
		}
		evidence = append(evidence, e)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return evidence, nil
}

// Runs returns all runs, newest first.
func (s *DuckDBStore) Runs(ctx context.Context) ([]Run, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, started_at, spec, diagnostics, matched_logs, matched_lines
		 FROM runs
		 ORDER BY started_at DESC, run_id`,
	)
	if err != nil {
		return nil, errors.Errorf("query runs: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var runs []Run
	for rows.Next() {
		var r Run
		if err := rows.Scan(&r.RunID, &r.StartedAt, &r.Spec, &r.Diagnostics, &r.MatchedLogs, &r.MatchedLines); err != nil {
			return nil, errors.Errorf("scan run: %w", err)
		}
		runs = append(runs, r)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return runs, nil
}

// Templates returns the templates stored for a run, most frequent first.
func (s *DuckDBStore) Templates(ctx context.Context, runID string) ([]Template, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT run_id, pattern_id, pattern, line_count
		 FROM templates
		 WHERE run_id = ?
		 ORDER BY line_count DESC, pattern_id`,
		runID,
	)
	if err != nil {
		return nil, errors.Errorf("query templates: %w", err)
	}
	defer func() { _ = rows.Close() }()

	var templates []Template
	for rows.Next() {
		var t Template
		if err := rows.Scan(&t.RunID, &t.PatternID, &t.Pattern, &t.Count); err != nil {
			return nil, errors.Errorf("scan template: %w", err)
		}
		templates = append(templates, t)
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return templates, nil
}

// EvidenceCounts returns the number of evidence rows per log name for a run.
func (s *DuckDBStore) EvidenceCounts(ctx context.Context, runID string) (map[string]int, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT log_name, COUNT(*) FROM evidence WHERE run_id = ? GROUP BY log_name`,
		runID,
	)
	if err != nil {
		return nil, errors.Errorf("evidence counts: %w", err)
	}
	defer func() { _ = rows.Close() }()

	counts := make(map[string]int)
	for rows.Next() {
		var name string
		var cnt int
		if err := rows.Scan(&name, &cnt); err != nil {
			return nil, errors.Errorf("scan: %w", err)
		}
		counts[name] = cnt
	}
	if err := rows.Err(); err != nil {
		return nil, errors.Errorf("rows err: %w", err)
	}
	return counts, nil
}

// Close closes the underlying database connection.
func (s *DuckDBStore) Close() error {
	return s.db.Close()
}
