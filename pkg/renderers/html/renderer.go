package html

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"maps"
	"os"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"github.com/microcosm-cc/bluemonday"
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

// ErrNilRoot is returned when Render receives no form tree.
var ErrNilRoot = errors.New("html: form root is required")

// StylesheetKey is the asset key resolved through theme.RendererConfig.AssetURL.
const StylesheetKey = "schemaform.css"

type Option func(*config)

type config struct {
	templateFS fs.FS
	theme      *theme.RendererConfig
	selector   theme.ThemeSelector
	themeName  string
	variant    string
	fallbacks  map[string]string
	cssVars    map[string]string
	registry   *widgets.Registry
	policy     *bluemonday.Policy
	logger     *zap.Logger
}

// WithTemplatesFS supplies a template bundle consulted before the embedded one.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads override templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTheme applies go-theme tokens, CSS variables, partial overrides and the
// stylesheet asset resolver.
func WithTheme(rc *theme.RendererConfig) Option {
	return func(cfg *config) {
		cfg.theme = rc
	}
}

// WithThemeSelector resolves name and variant through selector when the
// renderer is built. The selection replaces any config given to WithTheme.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(cfg *config) {
		cfg.selector = selector
		cfg.themeName = name
		cfg.variant = variant
	}
}

// WithThemeFallbacks sets the partials used where a selected theme declares
// no template. Defaults to DefaultPartials.
func WithThemeFallbacks(fallbacks map[string]string) Option {
	return func(cfg *config) {
		cfg.fallbacks = fallbacks
	}
}

// WithCSSVars adds CSS custom properties on top of the theme variables.
func WithCSSVars(vars map[string]string) Option {
	return func(cfg *config) {
		cfg.cssVars = vars
	}
}

// WithRegistry overrides the widget kind registry.
func WithRegistry(reg *widgets.Registry) Option {
	return func(cfg *config) {
		if reg != nil {
			cfg.registry = reg
		}
	}
}

// WithSanitizer replaces the policy applied to schema descriptions.
func WithSanitizer(policy *bluemonday.Policy) Option {
	return func(cfg *config) {
		if policy != nil {
			cfg.policy = policy
		}
	}
}

// WithLogger attaches a logger for template diagnostics.
func WithLogger(logger *zap.Logger) Option {
	return func(cfg *config) {
		if logger != nil {
			cfg.logger = logger
		}
	}
}

// Renderer produces static markup for a form tree: a fieldset per object with
// legend, sanitized description, separator and inclusion checkbox, and one
// labelled control per primitive widget.
type Renderer struct {
	engine   *engine
	theme    *theme.RendererConfig
	registry *widgets.Registry
	policy   *bluemonday.Policy
	logger   *zap.Logger
}

// New constructs the renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}
	if cfg.registry == nil {
		cfg.registry = widgets.NewRegistry()
	}
	if cfg.policy == nil {
		cfg.policy = bluemonday.UGCPolicy()
	}
	if cfg.logger == nil {
		cfg.logger = zap.NewNop()
	}

	if cfg.selector != nil {
		sel, err := cfg.selector.Select(cfg.themeName, cfg.variant)
		if err != nil {
			return nil, fmt.Errorf("html: select theme: %w", err)
		}
		fallbacks := cfg.fallbacks
		if fallbacks == nil {
			fallbacks = DefaultPartials()
		}
		cfg.theme = ConfigFromSelection(sel, fallbacks)
		cfg.logger.Debug("html: theme selected",
			zap.String("theme", sel.Theme),
			zap.String("variant", sel.Variant),
		)
	}
	if len(cfg.cssVars) > 0 {
		cfg.theme = withCSSVars(cfg.theme, cfg.cssVars)
	}

	eng, err := newEngine(cfg.templateFS, TemplatesFS())
	if err != nil {
		return nil, err
	}

	return &Renderer{
		engine:   eng,
		theme:    cfg.theme,
		registry: cfg.registry,
		policy:   cfg.policy,
		logger:   cfg.logger,
	}, nil
}

func (r *Renderer) Name() string {
	return "html"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

// Render returns the markup of root and everything currently included below it.
func (r *Renderer) Render(ctx context.Context, root *form.Object) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if root == nil {
		return nil, ErrNilRoot
	}

	body, err := r.renderObject(ctx, root, "")
	if err != nil {
		return nil, err
	}

	page, err := r.engine.render(r.partial(PartialPage, TemplatePage), map[string]any{
		"body":       body,
		"theme":      r.themeContext(),
		"css_vars":   cssVarsStyle(r.cssVars()),
		"stylesheet": r.assetURL(StylesheetKey),
	})
	if err != nil {
		return nil, err
	}
	return []byte(page), nil
}

func (r *Renderer) renderObject(ctx context.Context, obj *form.Object, path string) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}
	props := obj.Props()

	var children []string
	for _, child := range obj.Children() {
		childPath := joinPath(path, child.Key())
		var (
			markup string
			err    error
		)
		if nested, ok := child.Input().(*form.Object); ok {
			markup, err = r.renderObject(ctx, nested, childPath)
		} else {
			markup, err = r.renderField(child.Input(), childPath)
		}
		if err != nil {
			return "", err
		}
		children = append(children, markup)
	}

	r.logger.Debug("render object",
		zap.String("path", path),
		zap.Bool("included", obj.Included()),
		zap.Int("children", len(children)),
	)

	return r.engine.render(r.partial(PartialObject, TemplateObject), map[string]any{
		"path":         path,
		"label":        obj.Label(),
		"description":  r.sanitize(obj.Description()),
		"depth":        obj.Depth(),
		"disabled":     props.Disabled,
		"has_toggle":   obj.HasToggle(),
		"included":     obj.Included(),
		"toggle_name":  toggleName(path),
		"toggle_label": obj.ToggleLabel(),
		"children":     children,
	})
}

func (r *Renderer) renderField(w form.Widget, path string) (string, error) {
	props := w.Props()
	kind := r.registry.KindOf(w)

	data := map[string]any{
		"kind":        kind,
		"id":          fieldID(path),
		"name":        path,
		"label":       props.Label,
		"depth":       props.Depth,
		"required":    props.Required,
		"disabled":    props.Disabled,
		"help":        help(props),
		"placeholder": placeholder(props),
		"input_type":  "text",
		"value":       "",
	}

	switch input := w.(type) {
	case *widgets.Toggle:
		data["checked"] = input.Bool()
	case *widgets.Select:
		current := input.Index()
		options := make([]map[string]any, 0, len(input.Options()))
		for i, option := range input.Options() {
			options = append(options, map[string]any{"value": option, "selected": i == current})
		}
		data["options"] = options
	case *widgets.Number:
		data["input_type"] = "number"
		data["value"] = input.Format()
	case *widgets.List:
		lines := make([]string, 0, len(input.Items()))
		for _, item := range input.Items() {
			lines = append(lines, fmt.Sprint(item))
		}
		data["value"] = strings.Join(lines, "\n")
	default:
		if kind == widgets.KindPassword {
			data["input_type"] = "password"
		}
		if v := w.Value(); v != nil {
			data["value"] = fmt.Sprint(v)
		}
	}

	return r.engine.render(r.partial(PartialField, TemplateField), data)
}

func (r *Renderer) sanitize(raw string) string {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return ""
	}
	return strings.TrimSpace(r.policy.Sanitize(raw))
}

func (r *Renderer) partial(key, fallback string) string {
	if r.theme != nil {
		if name := strings.TrimSpace(r.theme.Partials[key]); name != "" {
			return name
		}
	}
	return fallback
}

func (r *Renderer) themeContext() map[string]any {
	if r.theme == nil {
		return map[string]any{}
	}
	return map[string]any{
		"name":    r.theme.Theme,
		"variant": r.theme.Variant,
		"tokens":  r.theme.Tokens,
	}
}

func (r *Renderer) cssVars() map[string]string {
	if r.theme == nil {
		return nil
	}
	return r.theme.CSSVars
}

func (r *Renderer) assetURL(key string) string {
	if r.theme == nil || r.theme.AssetURL == nil {
		return ""
	}
	return r.theme.AssetURL(key)
}

// withCSSVars returns a copy of rc whose CSS variables include extra.
func withCSSVars(rc *theme.RendererConfig, extra map[string]string) *theme.RendererConfig {
	out := &theme.RendererConfig{}
	if rc != nil {
		*out = *rc
	}
	vars := make(map[string]string, len(out.CSSVars)+len(extra))
	maps.Copy(vars, out.CSSVars)
	maps.Copy(vars, extra)
	out.CSSVars = vars
	return out
}

func cssVarsStyle(vars map[string]string) string {
	if len(vars) == 0 {
		return ""
	}
	keys := make([]string, 0, len(vars))
	for key := range vars {
		keys = append(keys, key)
	}
	sort.Strings(keys)

	var b strings.Builder
	b.WriteString(":root {\n")
	for _, key := range keys {
		b.WriteString(key)
		b.WriteString(": ")
		b.WriteString(vars[key])
		b.WriteString(";\n")
	}
	b.WriteString("}")
	return b.String()
}

func help(props form.Props) string {
	if props.UISchema != nil && props.UISchema.Help != "" {
		return props.UISchema.Help
	}
	if props.Schema != nil {
		return props.Schema.Description
	}
	return ""
}

func placeholder(props form.Props) string {
	if props.UISchema == nil {
		return ""
	}
	return props.UISchema.Placeholder
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func fieldID(path string) string {
	return "sf-" + strings.ReplaceAll(path, ".", "-")
}

func toggleName(path string) string {
	if path == "" {
		return "_use"
	}
	return path + "._use"
}
