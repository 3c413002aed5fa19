// Package diagnostic provides named text artifacts that searches run over.
package diagnostic

import (
	"io"
	"unicode/utf8"

	"github.com/go-errors/errors"
)

// Diagnostic is a named log whose content is fetched on demand.
// Content may change between calls for file-backed implementations.
type Diagnostic interface {
	// Name is the stable short name used to key search results.
	Name() string
	// TextContent returns the current text, or false when the diagnostic
	// has no text representation.
	TextContent() (string, bool)
}

var (
	_ Diagnostic = (*Text)(nil)
	_ Diagnostic = (*Data)(nil)
	_ Diagnostic = (*File)(nil)
)

// Text is an in-memory text diagnostic.
type Text struct {
	name    string
	content string
}

// NewText creates a diagnostic holding content.
func NewText(name, content string) *Text {
	return &Text{name: name, content: content}
}

func (t *Text) Name() string { return t.name }

func (t *Text) TextContent() (string, bool) { return t.content, true }

// Data is an in-memory diagnostic holding raw bytes. It is searchable only
// when the bytes are valid UTF-8.
type Data struct {
	name string
	data []byte
}

// NewData creates a byte-backed diagnostic. data is copied.
func NewData(name string, data []byte) *Data {
	return &Data{name: name, data: append([]byte(nil), data...)}
}

func (d *Data) Name() string { return d.name }

func (d *Data) TextContent() (string, bool) {
	if !utf8.Valid(d.data) {
		return "", false
	}
	return string(d.data), true
}

// ReadStdin snapshots everything readable from r into a text diagnostic.
func ReadStdin(name string, r io.Reader) (*Data, error) {
	data, err := io.ReadAll(r)
	if err != nil {
		return nil, errors.Errorf("read %s: %w", name, err)
	}
	return &Data{name: name, data: data}, nil
}
