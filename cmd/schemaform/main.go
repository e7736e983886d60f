package main

import (
	"fmt"
	"os"
	"time"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

// globalOptions carries the persistent flags shared by every subcommand.
type globalOptions struct {
	verbose bool
	locale  string
	catalog string
	timeout time.Duration

	logger *zap.Logger
}

// formOptions carries the flags that describe one form tree.
type formOptions struct {
	schema        string
	openapi       string
	operation     string
	ui            string
	defaults      string
	values        string
	set           []string
	forceOptional bool
	allowHTTP     bool
}

func newRootCmd() *cobra.Command {
	opts := &globalOptions{logger: zap.NewNop()}

	root := &cobra.Command{
		Use:   "schemaform",
		Short: "Build, fill and render forms described by JSON schema documents",
		Long: `schemaform builds a form tree from a JSON or YAML schema (or the request
body of an OpenAPI operation), lets optional object groups be opted in and
out, and prints the resulting value.

Optional object groups start excluded unless --force-optional is set or the
UI hint document marks them with forceDisplayOptional.`,
		SilenceUsage: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			config := zap.NewProductionConfig()
			config.Level = zap.NewAtomicLevelAt(zapcore.WarnLevel)
			if opts.verbose {
				config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
			}
			logger, err := config.Build()
			if err != nil {
				return fmt.Errorf("failed to initialize logger: %w", err)
			}
			opts.logger = logger
			return nil
		},
		PersistentPostRun: func(cmd *cobra.Command, args []string) {
			if opts.logger != nil {
				_ = opts.logger.Sync()
			}
		},
	}

	root.PersistentFlags().BoolVarP(&opts.verbose, "verbose", "v", false, "Enable verbose logging")
	root.PersistentFlags().StringVar(&opts.locale, "locale", "en", "Locale used for form chrome")
	root.PersistentFlags().StringVar(&opts.catalog, "catalog", "", "Message catalog document (JSON or YAML)")
	root.PersistentFlags().DurationVar(&opts.timeout, "timeout", 30*time.Second, "Operation timeout")

	root.AddCommand(newValueCmd(opts))
	root.AddCommand(newFillCmd(opts))
	root.AddCommand(newRenderCmd(opts))
	return root
}

func bindFormFlags(cmd *cobra.Command, fo *formOptions) {
	cmd.Flags().StringVar(&fo.schema, "schema", "", "Schema document path or URL")
	cmd.Flags().StringVar(&fo.openapi, "openapi", "", "OpenAPI document path or URL (with --operation)")
	cmd.Flags().StringVar(&fo.operation, "operation", "", "OpenAPI operation id whose request body is used")
	cmd.Flags().StringVar(&fo.ui, "ui", "", "UI hint document")
	cmd.Flags().StringVar(&fo.defaults, "defaults", "", "Default value document")
	cmd.Flags().StringVar(&fo.values, "values", "", "Value document written into the form after construction")
	cmd.Flags().StringArrayVar(&fo.set, "set", nil, "Set a value by dotted path (path=value, repeatable)")
	cmd.Flags().BoolVar(&fo.forceOptional, "force-optional", false, "Include optional object groups initially")
	cmd.Flags().BoolVar(&fo.allowHTTP, "allow-http", false, "Allow loading documents over HTTP(S)")
}

func main() {
	if err := newRootCmd().Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
