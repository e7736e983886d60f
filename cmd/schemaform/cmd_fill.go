package main

import (
	"context"
	"fmt"

	"github.com/spf13/cobra"

	"github.com/goliatone/go-schemaform/pkg/renderers/tui"
)

func newFillCmd(g *globalOptions) *cobra.Command {
	fo := &formOptions{}
	var format string

	cmd := &cobra.Command{
		Use:   "fill",
		Short: "Fill a form interactively in the terminal",
		Long: `Walks the form tree with terminal prompts. Optional groups ask whether to
fill their information; the collected value is printed when the session ends.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			outputFormat, ok := tui.ParseOutputFormat(format)
			if !ok {
				return fmt.Errorf("unsupported --format %q (json, form, pretty)", format)
			}

			loadCtx, cancel := context.WithTimeout(cmd.Context(), g.timeout)
			s, err := buildSession(loadCtx, g, fo)
			cancel()
			if err != nil {
				return err
			}

			renderer, err := tui.New(
				tui.WithFactory(s.factory),
				tui.WithLogger(g.logger),
				tui.WithOutput(cmd.ErrOrStderr()),
				tui.WithOutputFormat(outputFormat),
				tui.WithTheme(tui.Theme{InfoPrefix: "! ", Indent: " "}),
			)
			if err != nil {
				return err
			}

			out, err := renderer.Render(cmd.Context(), s.root)
			if err != nil {
				return err
			}
			_, err = fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return err
		},
	}

	bindFormFlags(cmd, fo)
	cmd.Flags().StringVar(&format, "format", string(tui.OutputFormatJSON), "Output format: json, form or pretty")
	return cmd
}
