package tui

import (
	"io"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

// OutputFormat controls how collected values are serialized.
type OutputFormat string

const (
	// OutputFormatJSON emits application/json payloads.
	OutputFormatJSON OutputFormat = "json"
	// OutputFormatFormURLEncoded emits application/x-www-form-urlencoded payloads.
	OutputFormatFormURLEncoded OutputFormat = "form"
	// OutputFormatPrettyText emits a human-friendly text summary.
	OutputFormatPrettyText OutputFormat = "pretty"
)

// ParseOutputFormat maps a flag value onto an OutputFormat.
func ParseOutputFormat(raw string) (OutputFormat, bool) {
	switch OutputFormat(raw) {
	case OutputFormatJSON, OutputFormatFormURLEncoded, OutputFormatPrettyText:
		return OutputFormat(raw), true
	default:
		return "", false
	}
}

// Theme captures optional formatting hints the driver can apply when printing
// messages. Keep minimal to avoid coupling renderer logic to ANSI specifics.
type Theme struct {
	PromptPrefix string
	InfoPrefix   string
	// Indent is repeated once per depth level in front of prompt messages.
	Indent string
}

// SubmitTransformer mutates collected values before serialization.
type SubmitTransformer func(map[string]any) (map[string]any, error)

// Option configures the TUI renderer.
type Option func(*Renderer)

// WithPromptDriver overrides the prompt driver used by the renderer.
func WithPromptDriver(driver PromptDriver) Option {
	return func(r *Renderer) {
		if driver != nil {
			r.driver = driver
		}
	}
}

// WithOutput redirects informational messages of the default survey driver.
func WithOutput(out io.Writer) Option {
	return func(r *Renderer) {
		if out != nil {
			r.out = out
		}
	}
}

// WithOutputFormat selects the output serialization format.
func WithOutputFormat(format OutputFormat) Option {
	return func(r *Renderer) {
		if format != "" {
			r.outputFormat = format
		}
	}
}

// WithSubmitTransformer allows callers to mutate collected values prior to
// serialization.
func WithSubmitTransformer(fn SubmitTransformer) Option {
	return func(r *Renderer) {
		r.submitTransformer = fn
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(r *Renderer) {
		r.theme = theme
	}
}

// WithRegistry overrides the widget kind registry.
func WithRegistry(reg *widgets.Registry) Option {
	return func(r *Renderer) {
		if reg != nil {
			r.registry = reg
		}
	}
}

// WithFactory sets the factory used to build list item widgets.
func WithFactory(f *form.Factory) Option {
	return func(r *Renderer) {
		if f != nil {
			r.factory = f
		}
	}
}

// WithLogger attaches a logger for session diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(r *Renderer) {
		if logger != nil {
			r.logger = logger
		}
	}
}
