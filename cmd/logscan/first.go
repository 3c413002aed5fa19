package main

import (
	"fmt"

	"github.com/go-errors/errors"
	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/diagnostic"
	"github.com/strrl/logscan/pkg/pointsearch"
)

var errNoMatch = errors.New("no match")

func firstCmd() *cobra.Command {
	var (
		pred     predicateFlags
		wantLine bool
	)

	cmd := &cobra.Command{
		Use:   "first <path|->",
		Short: "Print the first match of a predicate in one log",
		Long:  "Print the text matched first in a log, or with --line the whole line containing it. Exits non-zero when nothing matches.",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			p, err := pred.build()
			if err != nil {
				return err
			}

			var d diagnostic.Diagnostic
			if args[0] == stdinArg {
				d, err = diagnostic.ReadStdin("stdin", cmd.InOrStdin())
				if err != nil {
					return err
				}
			} else {
				d = diagnostic.FromPath(args[0])
			}

			s := pointsearch.New(d, p)
			var (
				found string
				ok    bool
			)
			if wantLine {
				found, ok = s.FirstMatchingLine()
			} else {
				found, ok = s.FirstMatch()
			}
			if !ok {
				return errNoMatch
			}
			fmt.Fprintln(cmd.OutOrStdout(), found)
			return nil
		},
	}
	cmd.Flags().StringArrayVar(&pred.substrings, "substring", nil, "literal substring to match (repeatable)")
	cmd.Flags().StringVar(&pred.regex, "regex", "", "regular expression to match")
	cmd.Flags().BoolVar(&wantLine, "line", false, "print the whole matching line")
	return cmd
}
