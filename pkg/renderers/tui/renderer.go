package tui

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/url"
	"sort"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

// Renderer drives a terminal session over a form tree: optional groups are
// offered through their toggle question, leaf widgets are prompted by kind and
// the answers are written back through SetValue.
type Renderer struct {
	driver            PromptDriver
	out               io.Writer
	outputFormat      OutputFormat
	submitTransformer SubmitTransformer
	theme             Theme
	registry          *widgets.Registry
	factory           *form.Factory
	logger            *zap.Logger
}

// New constructs a TUI renderer with defaults (survey driver, JSON output).
func New(options ...Option) (*Renderer, error) {
	r := &Renderer{
		outputFormat: OutputFormatJSON,
		theme:        Theme{Indent: " "},
		logger:       zap.NewNop(),
	}

	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(r)
	}

	if r.driver == nil {
		r.driver = newSurveyDriver(r.out, r.theme)
	}
	if r.registry == nil {
		r.registry = widgets.NewRegistry()
	}
	if r.factory == nil {
		r.factory = form.NewFactory(form.WithLogger(r.logger))
		widgets.Register(r.factory)
	}

	return r, nil
}

// Name reports the renderer identifier.
func (r *Renderer) Name() string {
	return "tui"
}

// ContentType reports the serialization format used by Render.
func (r *Renderer) ContentType() string {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return "application/x-www-form-urlencoded"
	case OutputFormatPrettyText:
		return "text/plain"
	default:
		return "application/json"
	}
}

// Render walks root, prompting for every reachable widget, and serializes the
// resulting root value.
func (r *Renderer) Render(ctx context.Context, root *form.Object) ([]byte, error) {
	if ctx == nil {
		ctx = context.Background()
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	if root == nil {
		return nil, ErrNilRoot
	}
	if r.driver == nil {
		return nil, ErrNilDriver
	}

	if err := r.promptObject(ctx, root, ""); err != nil {
		return nil, err
	}

	values, _ := root.Value().(map[string]any)
	if values == nil {
		values = map[string]any{}
	}
	if r.submitTransformer != nil {
		var err error
		values, err = r.submitTransformer(values)
		if err != nil {
			return nil, fmt.Errorf("tui: submit transformer: %w", err)
		}
	}

	return r.serialize(values)
}

func (r *Renderer) promptObject(ctx context.Context, obj *form.Object, path string) error {
	props := obj.Props()
	if obj.HasToggle() && !props.Disabled {
		use, err := r.driver.Confirm(ctx, ConfirmConfig{
			Prompt: Prompt{
				Path:    path,
				Message: fmt.Sprintf("%s: %s", obj.Label(), obj.ToggleLabel()),
				Help:    obj.Description(),
				Depth:   props.Depth,
			},
			Default: obj.Included(),
		})
		if err != nil {
			return err
		}
		if err := obj.Toggle(use); err != nil {
			return fmt.Errorf("tui: %s: %w", displayPath(path, obj.Label()), err)
		}
		r.logger.Debug("optional group answered", zap.String("path", path), zap.Bool("include", use))
	}
	if !obj.Included() {
		return nil
	}

	for _, child := range obj.Children() {
		if err := r.promptField(ctx, child.Input(), joinPath(path, child.Key())); err != nil {
			return err
		}
	}
	return nil
}

func (r *Renderer) promptField(ctx context.Context, w form.Widget, path string) error {
	if obj, ok := w.(*form.Object); ok {
		return r.promptObject(ctx, obj, path)
	}
	if w.Props().Disabled {
		return nil
	}

	switch input := w.(type) {
	case *widgets.Toggle:
		return r.promptBoolean(ctx, input, path)
	case *widgets.Select:
		return r.promptEnum(ctx, input, path)
	case *widgets.Number:
		return r.promptNumber(ctx, input, path)
	case *widgets.List:
		return r.promptList(ctx, input, path)
	default:
		return r.promptString(ctx, w, path)
	}
}

func (r *Renderer) promptString(ctx context.Context, w form.Widget, path string) error {
	props := w.Props()
	prompt := fieldPrompt(props, path)
	defaultVal := ""
	if current := w.Value(); current != nil {
		defaultVal = fmt.Sprint(current)
	}
	kind := r.registry.KindOf(w)

	for {
		var response string
		var err error
		cfg := InputConfig{
			Prompt:      prompt,
			Default:     defaultVal,
			Placeholder: placeholder(props),
			Validate:    requiredText(props.Required),
		}
		switch kind {
		case widgets.KindPassword:
			response, err = r.driver.Password(ctx, cfg)
		case widgets.KindTextarea:
			response, err = r.driver.TextArea(ctx, TextAreaConfig{Prompt: prompt, Default: defaultVal})
		default:
			response, err = r.driver.Input(ctx, cfg)
		}
		if err != nil {
			return err
		}

		if strings.TrimSpace(response) == "" {
			if props.Required {
				r.info(ctx, fmt.Sprintf("Invalid %s: required", path))
				continue
			}
			w.SetValue(nil)
			return nil
		}

		w.SetValue(response)
		return nil
	}
}

func (r *Renderer) promptBoolean(ctx context.Context, input *widgets.Toggle, path string) error {
	props := input.Props()
	resp, err := r.driver.Confirm(ctx, ConfirmConfig{
		Prompt:  fieldPrompt(props, path),
		Default: input.Bool(),
	})
	if err != nil {
		return err
	}
	input.SetValue(resp)
	return nil
}

func (r *Renderer) promptNumber(ctx context.Context, input *widgets.Number, path string) error {
	props := input.Props()
	cfg := InputConfig{
		Prompt:      fieldPrompt(props, path),
		Default:     input.Format(),
		Placeholder: placeholder(props),
		Validate: func(raw string) error {
			parsed, err := input.Parse(raw)
			if err != nil {
				return err
			}
			if parsed == nil && props.Required {
				return errRequired
			}
			return nil
		},
	}

	for {
		raw, err := r.driver.Input(ctx, cfg)
		if err != nil {
			return err
		}

		parsed, err := input.Parse(raw)
		if err != nil {
			r.info(ctx, fmt.Sprintf("Invalid %s: %v", path, err))
			continue
		}
		if parsed == nil && props.Required {
			r.info(ctx, fmt.Sprintf("Invalid %s: required", path))
			continue
		}

		input.SetValue(parsed)
		return nil
	}
}

func (r *Renderer) promptEnum(ctx context.Context, input *widgets.Select, path string) error {
	props := input.Props()
	options := input.Options()

	for {
		idx, err := r.driver.Select(ctx, SelectConfig{
			Prompt:       fieldPrompt(props, path),
			Options:      options,
			DefaultIndex: input.Index(),
		})
		if err != nil {
			return err
		}
		if err := input.Choose(idx); err != nil {
			r.info(ctx, fmt.Sprintf("Invalid %s selection", path))
			continue
		}
		return nil
	}
}

func (r *Renderer) promptList(ctx context.Context, input *widgets.List, path string) error {
	props := input.Props()
	prompt := fieldPrompt(props, path)
	itemSchema := input.ItemSchema()

	// Enum-backed array -> multiselect of known options
	if itemSchema != nil && len(itemSchema.Enum) > 0 {
		options := stringifyEnum(itemSchema.Enum)
		defaults := indicesOf(options, stringifyEnum(input.Items()))
		indices, err := r.driver.MultiSelect(ctx, SelectConfig{
			Prompt:   prompt,
			Options:  options,
			Defaults: defaults,
		})
		if err != nil {
			return err
		}
		selected := make([]any, 0, len(indices))
		for _, idx := range indices {
			if idx >= 0 && idx < len(itemSchema.Enum) {
				selected = append(selected, itemSchema.Enum[idx])
			}
		}
		input.SetValue(selected)
		return nil
	}
	if itemSchema == nil {
		return fmt.Errorf("tui: array field %s missing items schema", path)
	}

	// An empty required list must gain an item; otherwise the current items
	// are kept unless the user asks to add more.
	items := append([]any(nil), input.Items()...)
	if len(items) > 0 || !props.Required {
		add, err := r.driver.Confirm(ctx, ConfirmConfig{
			Prompt: withMessage(prompt, "%s: add items?", prompt.Message),
		})
		if err != nil {
			return err
		}
		if !add {
			return nil
		}
	}

	for {
		idx := len(items)
		item, err := r.factory.New(form.Props{
			Depth:    props.Depth + 2,
			Label:    fmt.Sprintf("%s[%d]", displayLabel(props), idx),
			Required: true,
			Schema:   itemSchema,
		})
		if err != nil {
			return fmt.Errorf("tui: %s: %w", path, err)
		}
		if err := r.promptField(ctx, item, fmt.Sprintf("%s.%d", path, idx)); err != nil {
			return err
		}
		items = append(items, item.Value())

		more, err := r.driver.Confirm(ctx, ConfirmConfig{
			Prompt: withMessage(prompt, "%s: add another?", prompt.Message),
		})
		if err != nil {
			return err
		}
		if !more {
			break
		}
	}

	input.SetValue(items)
	return nil
}

func (r *Renderer) info(ctx context.Context, msg string) {
	if err := r.driver.Info(ctx, msg); err != nil {
		r.logger.Warn("tui info message failed", zap.Error(err))
	}
}

func (r *Renderer) serialize(values map[string]any) ([]byte, error) {
	switch r.outputFormat {
	case OutputFormatFormURLEncoded:
		return []byte(flattenForm(values)), nil
	case OutputFormatPrettyText:
		return []byte(prettyPrint(values)), nil
	default:
		return json.Marshal(values)
	}
}

var errRequired = errors.New("required")

func fieldPrompt(props form.Props, path string) Prompt {
	return Prompt{
		Path:    path,
		Message: displayLabel(props),
		Help:    displayHelp(props),
		Depth:   props.Depth,
	}
}

func withMessage(p Prompt, format string, args ...any) Prompt {
	p.Message = fmt.Sprintf(format, args...)
	return p
}

func requiredText(required bool) func(string) error {
	if !required {
		return nil
	}
	return func(raw string) error {
		if strings.TrimSpace(raw) == "" {
			return errRequired
		}
		return nil
	}
}

func displayLabel(props form.Props) string {
	if props.Label != "" {
		return props.Label
	}
	if props.Schema != nil && props.Schema.Title != "" {
		return props.Schema.Title
	}
	return "value"
}

func displayHelp(props form.Props) string {
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

func displayPath(path, label string) string {
	if path == "" {
		return label
	}
	return path
}

func stringifyEnum(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func sortedKeys(values map[string]any) []string {
	keys := make([]string, 0, len(values))
	for key := range values {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

func flattenForm(values map[string]any) string {
	flattened := url.Values{}
	flatten("", values, flattened)
	return flattened.Encode()
}

// flatten skips nil entries: undefined fields and excluded groups are not
// submitted.
func flatten(prefix string, value any, out url.Values) {
	switch v := value.(type) {
	case nil:
	case map[string]any:
		for _, key := range sortedKeys(v) {
			flatten(joinPath(prefix, key), v[key], out)
		}
	case []any:
		for _, val := range v {
			out.Add(prefix+"[]", fmt.Sprint(val))
		}
	default:
		out.Set(prefix, fmt.Sprint(v))
	}
}

func prettyPrint(values map[string]any) string {
	var b strings.Builder
	writePretty(&b, "", values)
	return b.String()
}

func writePretty(b *strings.Builder, prefix string, value any) {
	switch v := value.(type) {
	case map[string]any:
		for _, key := range sortedKeys(v) {
			writePretty(b, joinPath(prefix, key), v[key])
		}
	case []any:
		for idx, val := range v {
			writePretty(b, fmt.Sprintf("%s[%d]", prefix, idx), val)
		}
	case nil:
		if prefix != "" {
			fmt.Fprintf(b, "%s=\n", prefix)
		}
	default:
		if prefix != "" {
			fmt.Fprintf(b, "%s=%v\n", prefix, v)
		}
	}
}
