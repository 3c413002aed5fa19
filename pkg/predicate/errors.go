package predicate

import "fmt"

// PatternCompileError reports a regex pattern that does not compile.
type PatternCompileError struct {
	Pattern string
	Err     error
}

func (e *PatternCompileError) Error() string {
	return fmt.Sprintf("compile pattern %q: %v", e.Pattern, e.Err)
}

func (e *PatternCompileError) Unwrap() error {
	return e.Err
}

// InvalidSubstringError reports an empty substring set, or a member that
// contains a newline. Index is -1 when the set itself is at fault.
type InvalidSubstringError struct {
	Index  int
	Value  string
	Reason string
}

const (
	reasonEmptySet = "substring set is empty"
	reasonNewline  = "contains a newline"
)

func (e *InvalidSubstringError) Error() string {
	if e.Index < 0 {
		return "invalid substrings: " + e.Reason
	}
	return fmt.Sprintf("invalid substring %d (%q): %s", e.Index, e.Value, e.Reason)
}

// UnknownKindError reports a serialized predicate with an unrecognized kind.
type UnknownKindError struct {
	Kind string
}

func (e *UnknownKindError) Error() string {
	return fmt.Sprintf("unknown predicate kind %q", e.Kind)
}
