package predicate

import (
	"encoding/json"

	"github.com/go-errors/errors"
)

// Record is the tagged, serializable form of a Predicate:
// {kind: "substrings", values: [...]} or {kind: "regex", pattern: "..."}.
type Record struct {
	Kind    Kind     `json:"kind" yaml:"kind"`
	Values  []string `json:"values" yaml:"values"`
	Pattern string   `json:"pattern" yaml:"pattern"`
}

type substringsRecord struct {
	Kind   Kind     `json:"kind" yaml:"kind"`
	Values []string `json:"values" yaml:"values"`
}

type regexRecord struct {
	Kind    Kind   `json:"kind" yaml:"kind"`
	Pattern string `json:"pattern" yaml:"pattern"`
}

// shaped drops the fields that do not belong to the record's kind.
func (r Record) shaped() any {
	if r.Kind == KindRegex {
		return regexRecord{Kind: r.Kind, Pattern: r.Pattern}
	}
	values := r.Values
	if values == nil {
		values = []string{}
	}
	return substringsRecord{Kind: r.Kind, Values: values}
}

func (r Record) MarshalJSON() ([]byte, error) { return json.Marshal(r.shaped()) }

func (r Record) MarshalYAML() (any, error) { return r.shaped(), nil }

// Encode converts p into its record form.
func Encode(p Predicate) Record {
	switch v := p.(type) {
	case *Substrings:
		return Record{Kind: KindSubstrings, Values: v.Values()}
	case *Regex:
		return Record{Kind: KindRegex, Pattern: v.pattern}
	}
	panic("predicate: unreachable variant")
}

// Decode rebuilds a Predicate from r, validating it exactly as the
// constructors do.
func Decode(r Record) (Predicate, error) {
	switch r.Kind {
	case KindSubstrings:
		return NewSubstrings(r.Values...)
	case KindRegex:
		return NewRegex(r.Pattern)
	default:
		return nil, &UnknownKindError{Kind: string(r.Kind)}
	}
}

// FromTree decodes a predicate from a generic decoded tree, as produced by
// unmarshalling JSON or YAML into an interface value.
func FromTree(v any) (Predicate, error) {
	m, ok := asStringMap(v)
	if !ok {
		return nil, errors.Errorf("predicate must be an object, got %T", v)
	}
	kind, ok := m["kind"].(string)
	if !ok {
		return nil, errors.Errorf("predicate kind must be a string, got %T", m["kind"])
	}

	switch Kind(kind) {
	case KindSubstrings:
		if values, ok := m["values"].([]string); ok {
			return NewSubstrings(values...)
		}
		raw, ok := m["values"].([]any)
		if !ok {
			return nil, errors.Errorf("substrings values must be a list, got %T", m["values"])
		}
		values := make([]string, len(raw))
		for i, rv := range raw {
			s, ok := rv.(string)
			if !ok {
				return nil, errors.Errorf("substrings value %d must be a string, got %T", i, rv)
			}
			values[i] = s
		}
		return NewSubstrings(values...)
	case KindRegex:
		pattern, ok := m["pattern"].(string)
		if !ok {
			return nil, errors.Errorf("regex pattern must be a string, got %T", m["pattern"])
		}
		return NewRegex(pattern)
	default:
		return nil, &UnknownKindError{Kind: kind}
	}
}

// Marshal encodes p as JSON.
func Marshal(p Predicate) ([]byte, error) {
	return json.Marshal(Encode(p))
}

// Unmarshal decodes a JSON predicate record.
func Unmarshal(data []byte) (Predicate, error) {
	var tree any
	if err := json.Unmarshal(data, &tree); err != nil {
		return nil, errors.Errorf("decode predicate: %w", err)
	}
	return FromTree(tree)
}

func (s *Substrings) MarshalJSON() ([]byte, error) { return Marshal(s) }

func (r *Regex) MarshalJSON() ([]byte, error) { return Marshal(r) }

func (s *Substrings) MarshalYAML() (any, error) { return Encode(s).shaped(), nil }

func (r *Regex) MarshalYAML() (any, error) { return Encode(r).shaped(), nil }

// asStringMap accepts both map shapes a YAML or JSON decoder may produce.
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
