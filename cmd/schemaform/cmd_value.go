package main

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/spf13/cobra"
)

func newValueCmd(g *globalOptions) *cobra.Command {
	fo := &formOptions{}
	var compact bool

	cmd := &cobra.Command{
		Use:   "value",
		Short: "Print the value of a form tree as JSON",
		Long: `Builds the form tree, applies --values and --set, and prints the value read
back from the root. Excluded optional groups print as null.`,
		Example: `  schemaform value --schema backup.json --defaults defaults.yaml
  schemaform value --schema backup.json --force-optional --set retention.days=30`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			defer cancel()

			s, err := buildSession(ctx, g, fo)
			if err != nil {
				return err
			}

			var out []byte
			if compact {
				out, err = json.Marshal(s.root.Value())
			} else {
				out, err = json.MarshalIndent(s.root.Value(), "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode value: %w", err)
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	bindFormFlags(cmd, fo)
	cmd.Flags().BoolVar(&compact, "compact", false, "Print JSON on a single line")
	return cmd
}
