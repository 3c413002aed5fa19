// Package loghub loads the Loghub 2k benchmark datasets used by the
// integration tests.
package loghub

import (
	"encoding/csv"
	"os"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/go-errors/errors"
)

// LogEntry represents a single parsed log entry from a Loghub CSV file.
type LogEntry struct {
	Content       string
	EventTemplate string
	EventID       string
}

// CSVPath returns the structured CSV of a dataset under root.
func CSVPath(root, dataset string) string {
	return filepath.Join(root, dataset, dataset+"_2k.log_structured_corrected.csv")
}

// RawPath returns the raw log file of a dataset under root.
func RawPath(root, dataset string) string {
	return filepath.Join(root, dataset, dataset+"_2k.log")
}

// LoadDataset reads a Loghub structured CSV file and returns parsed entries.
// Column indices are determined dynamically from the header row.
func LoadDataset(csvPath string) ([]LogEntry, error) {
	f, err := os.Open(csvPath)
	if err != nil {
		return nil, errors.Errorf("open csv: %w", err)
	}
	defer func() { _ = f.Close() }()

	reader := csv.NewReader(f)
	reader.LazyQuotes = true

	records, err := reader.ReadAll()
	if err != nil {
		return nil, errors.Errorf("read csv: %w", err)
	}
	if len(records) < 2 {
		return nil, errors.Errorf("csv has fewer than 2 rows (header + data)")
	}

	cols := map[string]int{"Content": -1, "EventTemplate": -1, "EventId": -1}
	for i, name := range records[0] {
		if _, ok := cols[name]; ok {
			cols[name] = i
		}
	}
	for _, name := range []string{"Content", "EventTemplate", "EventId"} {
		if cols[name] == -1 {
			return nil, errors.Errorf("missing required column: %s", name)
		}
	}

	entries := make([]LogEntry, 0, len(records)-1)
	for _, row := range records[1:] {
		if len(row) <= cols["Content"] || len(row) <= cols["EventTemplate"] || len(row) <= cols["EventId"] {
			continue
		}
		entries = append(entries, LogEntry{
			Content:       row[cols["Content"]],
			EventTemplate: row[cols["EventTemplate"]],
			EventID:       row[cols["EventId"]],
		})
	}
	return entries, nil
}

// ByEvent groups entries by event id. Templates are taken from the first
// entry of each event.
func ByEvent(entries []LogEntry) (templates map[string]string, counts map[string]int) {
	templates = make(map[string]string)
	counts = make(map[string]int)
	for _, e := range entries {
		if _, ok := templates[e.EventID]; !ok {
			templates[e.EventID] = e.EventTemplate
		}
		counts[e.EventID]++
	}
	return templates, counts
}

// TemplateRegex turns a Loghub event template into an anchored regular
// expression: "<*>" matches any run of characters and everything else is
// literal.
func TemplateRegex(template string) string {
	parts := strings.Split(template, "<*>")
	for i, p := range parts {
		parts[i] = regexp.QuoteMeta(p)
	}
	return "^" + strings.Join(parts, ".*") + "$"
}
