package main

import (
	"bytes"
	"encoding/json"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/strrl/logscan/pkg/batch"
)

func runCLI(t *testing.T, stdin string, args ...string) (string, string, error) {
	t.Helper()
	root := newRootCmd()
	var out, errOut bytes.Buffer
	root.SetOut(&out)
	root.SetErr(&errOut)
	root.SetIn(strings.NewReader(stdin))
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), errOut.String(), err
}

func writeLogs(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	files := map[string]string{
		"syslog.log": "foo\nbar error\nbaz\n",
		"crash.log":  "Exception: abc\nTrace: 123\n",
		"app.log":    "all good\n",
	}
	for name, content := range files {
		if err := os.WriteFile(filepath.Join(dir, name), []byte(content), 0o644); err != nil {
			t.Fatalf("write %s: %v", name, err)
		}
	}
	return dir
}

func TestSearchCommand(t *testing.T) {
	dir := writeLogs(t)
	out, _, err := runCLI(t, "", "search", "--substring", "error", filepath.Join(dir, "*.log"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out != "syslog: bar error\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSearchCommandWithSpecJSON(t *testing.T) {
	dir := writeLogs(t)
	specPath := filepath.Join(t.TempDir(), "spec.yaml")
	spec := `
- names: []
  predicates:
    - kind: substrings
      values: [error]
- names: [crash]
  predicates:
    - kind: regex
      pattern: 'Trace: \d+'
`
	if err := os.WriteFile(specPath, []byte(spec), 0o644); err != nil {
		t.Fatalf("write spec: %v", err)
	}

	out, _, err := runCLI(t, "", "search", "--json", "--spec", specPath, filepath.Join(dir, "**", "*.log"))
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	var report searchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if len(report.Matches) != 2 {
		t.Errorf("expected 2 matched logs, got %v", report.Matches)
	}
	if got := report.Matches["crash"]; len(got) != 1 || got[0] != "Trace: 123" {
		t.Errorf("crash matches = %v", got)
	}
	if report.RunID != "" {
		t.Error("run id must be empty without --save")
	}
}

func TestSearchCommandRejectsConflictingFlags(t *testing.T) {
	dir := writeLogs(t)
	tests := [][]string{
		{"search", filepath.Join(dir, "*.log")},
		{"search", "--substring", "a", "--regex", "b", filepath.Join(dir, "*.log")},
		{"search", "--spec", "x.json", "--regex", "b", filepath.Join(dir, "*.log")},
		{"search", "--regex", "(", filepath.Join(dir, "*.log")},
		{"search", "--substring", "a", filepath.Join(dir, "*.missing")},
	}
	for _, args := range tests {
		if _, _, err := runCLI(t, "", args...); err == nil {
			t.Errorf("%v: expected error", args)
		}
	}
}

func TestSearchCommandStdin(t *testing.T) {
	out, _, err := runCLI(t, "ok\npanic: boom\n", "search", "--regex", `^panic:`, "-")
	if err != nil {
		t.Fatalf("search: %v", err)
	}
	if out != "stdin: panic: boom\n" {
		t.Errorf("unexpected output %q", out)
	}
}

func TestSaveRunsAndEvidence(t *testing.T) {
	dir := writeLogs(t)
	db := filepath.Join(t.TempDir(), "evidence.duckdb")

	out, _, err := runCLI(t, "", "--db", db, "search", "--save", "--summarize", "--json", "--regex", `error|Trace`, filepath.Join(dir, "*.log"))
	if err != nil {
		t.Fatalf("search --save: %v", err)
	}
	var report searchReport
	if err := json.Unmarshal([]byte(out), &report); err != nil {
		t.Fatalf("decode %s: %v", out, err)
	}
	if report.RunID == "" {
		t.Fatal("expected a run id")
	}
	if len(report.Templates) == 0 {
		t.Error("expected templates with --summarize")
	}

	out, _, err = runCLI(t, "", "--db", db, "runs")
	if err != nil {
		t.Fatalf("runs: %v", err)
	}
	if !strings.Contains(out, report.RunID) {
		t.Errorf("runs output missing %s:\n%s", report.RunID, out)
	}

	out, _, err = runCLI(t, "", "--db", db, "evidence", "--run", report.RunID)
	if err != nil {
		t.Fatalf("evidence: %v", err)
	}
	want := "[crash#1] Trace: 123\n[syslog#1] bar error\n"
	if out != want {
		t.Errorf("evidence output %q, want %q", out, want)
	}

	out, _, err = runCLI(t, "", "--db", db, "evidence", "--run", report.RunID, "--log", "crash")
	if err != nil {
		t.Fatalf("evidence --log: %v", err)
	}
	if out != "[crash#1] Trace: 123\n" {
		t.Errorf("evidence --log output %q", out)
	}

	if _, _, err := runCLI(t, "", "--db", db, "evidence"); err == nil {
		t.Error("expected error without --run")
	}
}

func TestFirstCommand(t *testing.T) {
	dir := writeLogs(t)
	crash := filepath.Join(dir, "crash.log")

	out, _, err := runCLI(t, "", "first", "--regex", `\d+`, crash)
	if err != nil {
		t.Fatalf("first: %v", err)
	}
	if out != "123\n" {
		t.Errorf("first output %q", out)
	}

	out, _, err = runCLI(t, "", "first", "--line", "--regex", `\d+`, crash)
	if err != nil {
		t.Fatalf("first --line: %v", err)
	}
	if out != "Trace: 123\n" {
		t.Errorf("first --line output %q", out)
	}

	_, _, err = runCLI(t, "", "first", "--substring", "panic", crash)
	if !errors.Is(err, errNoMatch) {
		t.Errorf("expected errNoMatch, got %v", err)
	}

	out, _, err = runCLI(t, "a\nerror b\n", "first", "--substring", "error", "-")
	if err != nil {
		t.Fatalf("first stdin: %v", err)
	}
	if out != "error\n" {
		t.Errorf("first stdin output %q", out)
	}
}

func TestValidateCommand(t *testing.T) {
	dir := t.TempDir()
	good := filepath.Join(dir, "good.json")
	if err := os.WriteFile(good, []byte(`[{"names":["b","a"],"predicates":[{"kind":"substrings","values":["y","x","x"]}]}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := runCLI(t, "", "validate", good)
	if err != nil {
		t.Fatalf("validate: %v", err)
	}
	want := `[{"names":["a","b"],"predicates":[{"kind":"substrings","values":["x","y"]}]}]` + "\n"
	if out != want {
		t.Errorf("validate output %q, want %q", out, want)
	}

	bad := filepath.Join(dir, "bad.json")
	if err := os.WriteFile(bad, []byte(`[{"names":["a"],"predicates":[]}]`), 0o644); err != nil {
		t.Fatalf("write: %v", err)
	}
	_, _, err = runCLI(t, "", "validate", bad)
	var ve *batch.ValidationError
	if !errors.As(err, &ve) {
		t.Errorf("expected ValidationError, got %v", err)
	}
}
