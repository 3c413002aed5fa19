package batch

import "fmt"

// Fields a ValidationError can point at.
const (
	FieldEntry      = "entry"
	FieldNames      = "names"
	FieldPredicates = "predicates"
)

// ValidationError identifies the spec entry that failed validation.
// Entry is -1 when the spec as a whole is malformed.
type ValidationError struct {
	Entry  int
	Field  string
	Reason string
	Err    error
}

func (e *ValidationError) Error() string {
	where := "batch spec"
	if e.Entry >= 0 {
		where = fmt.Sprintf("batch spec entry %d", e.Entry)
	}
	if e.Field != "" {
		where += " " + e.Field
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %s: %v", where, e.Reason, e.Err)
	}
	return fmt.Sprintf("%s: %s", where, e.Reason)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}
