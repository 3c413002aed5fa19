package diagnostic

import (
	"log/slog"
	"os"
	"path/filepath"
	"slices"
	"strings"
	"unicode/utf8"

	"github.com/bmatcuk/doublestar/v4"
	"github.com/go-errors/errors"
)

// File is a diagnostic backed by a file on disk. The file is read again on
// every TextContent call.
type File struct {
	name string
	path string
}

// NewFile creates a file-backed diagnostic.
func NewFile(name, path string) *File {
	return &File{name: name, path: path}
}

// FromPath creates a file diagnostic named after the file's base name with
// its extension removed: "/var/log/syslog.log" becomes "syslog".
func FromPath(path string) *File {
	base := filepath.Base(path)
	return NewFile(strings.TrimSuffix(base, filepath.Ext(base)), path)
}

func (f *File) Name() string { return f.name }

// Path returns the backing file path.
func (f *File) Path() string { return f.path }

// TextContent reads the file. Unreadable or non-UTF-8 files have no text.
func (f *File) TextContent() (string, bool) {
	data, err := os.ReadFile(f.path)
	if err != nil {
		slog.Debug("diagnostic not readable", "name", f.name, "path", f.path, "err", err)
		return "", false
	}
	if !utf8.Valid(data) {
		slog.Debug("diagnostic is not text", "name", f.name, "path", f.path)
		return "", false
	}
	return string(data), true
}

// Discover expands doublestar glob patterns ("logs/**/*.log") into file
// diagnostics. Plain paths pass through unchanged. Results are sorted by
// path and de-duplicated; directories are skipped.
func Discover(patterns ...string) ([]*File, error) {
	var paths []string
	for _, pattern := range patterns {
		if !doublestar.ValidatePathPattern(pattern) {
			return nil, errors.Errorf("invalid glob pattern %q", pattern)
		}
		matches, err := doublestar.FilepathGlob(pattern, doublestar.WithFilesOnly())
		if err != nil {
			return nil, errors.Errorf("glob %q: %w", pattern, err)
		}
		if len(matches) == 0 {
			return nil, errors.Errorf("no files match %q", pattern)
		}
		paths = append(paths, matches...)
	}

	slices.Sort(paths)
	paths = slices.Compact(paths)

	files := make([]*File, 0, len(paths))
	for _, p := range paths {
		files = append(files, FromPath(p))
	}
	return files, nil
}
