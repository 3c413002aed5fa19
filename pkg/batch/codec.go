package batch

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/go-errors/errors"
	"github.com/strrl/logscan/pkg/predicate"
	"gopkg.in/yaml.v3"
)

// EntryRecord is the serialized form of an Entry. Empty Names is the
// wildcard.
type EntryRecord struct {
	Names      []string           `json:"names" yaml:"names"`
	Predicates []predicate.Record `json:"predicates" yaml:"predicates"`
}

// Encode converts s into its ordered record list.
func Encode(s *Spec) []EntryRecord {
	records := make([]EntryRecord, len(s.entries))
	for i, e := range s.entries {
		names := []string{}
		names = append(names, e.Names...)
		preds := make([]predicate.Record, len(e.Predicates))
		for j, p := range e.Predicates {
			preds[j] = predicate.Encode(p)
		}
		records[i] = EntryRecord{Names: names, Predicates: preds}
	}
	return records
}

// FromTree validates a generic decoded tree (a list of {names, predicates}
// objects) and builds a Spec from it.
func FromTree(v any) (*Spec, error) {
	if v == nil {
		return Build()
	}
	list, ok := v.([]any)
	if !ok {
		return nil, &ValidationError{Entry: -1, Reason: fmt.Sprintf("must be a list of entries, got %T", v)}
	}

	entries := make([]Entry, 0, len(list))
	for i, item := range list {
		e, err := entryFromTree(i, item)
		if err != nil {
			return nil, err
		}
		entries = append(entries, e)
	}
	return Build(entries...)
}

func entryFromTree(index int, item any) (Entry, error) {
	m, ok := asStringMap(item)
	if !ok {
		return Entry{}, &ValidationError{Entry: index, Field: FieldEntry, Reason: fmt.Sprintf("must be an object, got %T", item)}
	}

	var names []string
	switch raw := m["names"].(type) {
	case nil:
	case []any:
		names = make([]string, len(raw))
		for j, n := range raw {
			s, ok := n.(string)
			if !ok {
				return Entry{}, &ValidationError{
					Entry:  index,
					Field:  FieldNames,
					Reason: fmt.Sprintf("name %d must be a string, got %T", j, n),
				}
			}
			names[j] = s
		}
	default:
		return Entry{}, &ValidationError{Entry: index, Field: FieldNames, Reason: fmt.Sprintf("must be a list, got %T", raw)}
	}

	rawPreds, ok := m["predicates"].([]any)
	if !ok {
		return Entry{}, &ValidationError{
			Entry:  index,
			Field:  FieldPredicates,
			Reason: fmt.Sprintf("must be a list, got %T", m["predicates"]),
		}
	}
	preds := make([]predicate.Predicate, len(rawPreds))
	for j, rp := range rawPreds {
		p, err := predicate.FromTree(rp)
		if err != nil {
			return Entry{}, &ValidationError{
				Entry:  index,
				Field:  FieldPredicates,
				Reason: fmt.Sprintf("predicate %d is invalid", j),
				Err:    err,
			}
		}
		preds[j] = p
	}
	return Entry{Names: names, Predicates: preds}, nil
}

// Marshal encodes s as JSON.
func Marshal(s *Spec) ([]byte, error) {
	return json.Marshal(Encode(s))
}

// Unmarshal decodes and validates a JSON spec.
func Unmarshal(data []byte) (*Spec, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.Errorf("decode batch spec: %w", err)
	}
	return FromTree(tree)
}

// EncodeYAML encodes s as YAML.
func EncodeYAML(s *Spec) ([]byte, error) {
	return yaml.Marshal(Encode(s))
}

// DecodeYAML decodes and validates a YAML spec.
func DecodeYAML(data []byte) (*Spec, error) {
	var tree any
	if err := yaml.Unmarshal(data, &tree); err != nil {
		return nil, errors.Errorf("decode batch spec: %w", err)
	}
	return FromTree(tree)
}

// LoadFile reads a spec from path. ".yaml" and ".yml" files are decoded as
// YAML, everything else as JSON.
func LoadFile(path string) (*Spec, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Errorf("read batch spec: %w", err)
	}
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		return DecodeYAML(data)
	default:
		return Unmarshal(data)
	}
}

func (s *Spec) MarshalJSON() ([]byte, error) { return Marshal(s) }

func (s *Spec) MarshalYAML() (any, error) { return Encode(s), nil }

func asStringMap(v any) (map[string]any, bool) {
	switch m := v.(type) {
	case map[string]any:
		return m, true
	case map[any]any:
		out := make(map[string]any, len(m))
		for k, val := range m {
			ks, ok := k.(string)
			if !ok {
				return nil, false
			}
			out[ks] = val
		}
		return out, true
	}
	return nil, false
}
