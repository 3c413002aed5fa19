package main

import (
	"github.com/go-errors/errors"
	"github.com/strrl/logscan/pkg/diagnostic"
	"github.com/strrl/logscan/pkg/predicate"
)

const stdinArg = "-"

// predicateFlags holds the single-predicate flags shared by search and first.
type predicateFlags struct {
	substrings []string
	regex      string
}

func (f *predicateFlags) set() bool {
	return len(f.substrings) > 0 || f.regex != ""
}

func (f *predicateFlags) build() (predicate.Predicate, error) {
	switch {
	case len(f.substrings) > 0 && f.regex != "":
		return nil, errors.New("use either --substring or --regex, not both")
	case len(f.substrings) > 0:
		s, err := predicate.NewSubstrings(f.substrings...)
		if err != nil {
			return nil, err
		}
		return s, nil
	case f.regex != "":
		r, err := predicate.NewRegex(f.regex)
		if err != nil {
			return nil, err
		}
		return r, nil
	default:
		return nil, errors.New("one of --substring or --regex is required")
	}
}

// collectDiagnostics turns path arguments into diagnostics. "-" reads
// standard input once; anything else is a path or doublestar glob.
func collectDiagnostics(args []string, stdin func() (diagnostic.Diagnostic, error)) ([]diagnostic.Diagnostic, error) {
	var diags []diagnostic.Diagnostic
	var patterns []string
	for _, arg := range args {
		if arg == stdinArg {
			d, err := stdin()
			if err != nil {
				return nil, err
			}
			diags = append(diags, d)
			continue
		}
		patterns = append(patterns, arg)
	}
	if len(patterns) == 0 {
		return diags, nil
	}
	files, err := diagnostic.Discover(patterns...)
	if err != nil {
		return nil, err
	}
	for _, f := range files {
		diags = append(diags, f)
	}
	return diags, nil
}
