package main

import (
	"fmt"

	"github.com/spf13/cobra"
	"github.com/strrl/logscan/pkg/batch"
)

func validateCmd() *cobra.Command {
	var asYAML bool

	cmd := &cobra.Command{
		Use:   "validate <specfile>",
		Short: "Check a batch spec and print its normalized form",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			spec, err := batch.LoadFile(args[0])
			if err != nil {
				return err
			}

			var out []byte
			if asYAML {
				out, err = batch.EncodeYAML(spec)
			} else {
				out, err = batch.Marshal(spec)
			}
			if err != nil {
				return err
			}
			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			fmt.Fprintf(cmd.ErrOrStderr(), "%s: %d entries\n", args[0], spec.Len())
			return nil
		},
	}
	cmd.Flags().BoolVar(&asYAML, "yaml", false, "print the normalized spec as YAML")
	return cmd
}
