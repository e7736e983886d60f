package main

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform"
	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// session is a loaded form tree plus the factory that built it.
type session struct {
	root    *form.Object
	factory *form.Factory
}

func buildSession(ctx context.Context, g *globalOptions, fo *formOptions) (*session, error) {
	loader := newLoader(g, fo)

	node, err := loadSchema(ctx, loader, fo)
	if err != nil {
		return nil, err
	}

	var hint *schema.UIHint
	if fo.ui != "" {
		src, err := sourceFlag("ui", fo.ui)
		if err != nil {
			return nil, err
		}
		if hint, err = schemaform.LoadUIHint(ctx, loader, src); err != nil {
			return nil, fmt.Errorf("load ui hints: %w", err)
		}
	}
	var defaults map[string]any
	if fo.defaults != "" {
		src, err := sourceFlag("defaults", fo.defaults)
		if err != nil {
			return nil, err
		}
		if defaults, err = schemaform.LoadDefaults(ctx, loader, src); err != nil {
			return nil, fmt.Errorf("load defaults: %w", err)
		}
	}

	var translator i18n.Translator = i18n.Default()
	if g.catalog != "" {
		src, err := sourceFlag("catalog", g.catalog)
		if err != nil {
			return nil, err
		}
		catalog, err := schemaform.LoadCatalog(ctx, loader, src)
		if err != nil {
			return nil, fmt.Errorf("load catalog: %w", err)
		}
		translator = catalog
	}

	factory := schemaform.NewFactory(
		form.WithLogger(g.logger),
		form.WithForceDisplayOptional(fo.forceOptional),
		form.WithTranslator(translator),
		form.WithLocale(g.locale),
	)
	root, err := factory.Root(form.Props{
		Required:     true,
		Schema:       node,
		UISchema:     hint,
		DefaultValue: defaults,
	})
	if err != nil {
		return nil, err
	}

	if err := applyValues(ctx, loader, root, fo); err != nil {
		return nil, err
	}

	g.logger.Debug("form built",
		zap.Strings("keys", root.Keys()),
		zap.Bool("force_optional", fo.forceOptional),
	)
	return &session{root: root, factory: factory}, nil
}

func newLoader(g *globalOptions, fo *formOptions) schema.Loader {
	var loaderOpts []schema.LoaderOption
	if fo.allowHTTP {
		loaderOpts = append(loaderOpts, schema.WithHTTPFallback(g.timeout))
	}
	return schemaform.NewLoader(loaderOpts...)
}

func loadSchema(ctx context.Context, loader schema.Loader, fo *formOptions) (*schema.Node, error) {
	switch {
	case fo.schema != "" && fo.openapi != "":
		return nil, errors.New("use either --schema or --openapi, not both")
	case fo.schema != "":
		src, err := sourceFlag("schema", fo.schema)
		if err != nil {
			return nil, err
		}
		node, err := schemaform.LoadNode(ctx, loader, src)
		if err != nil {
			return nil, fmt.Errorf("load schema: %w", err)
		}
		return node, nil
	case fo.openapi != "":
		if fo.operation == "" {
			return nil, errors.New("--operation is required with --openapi")
		}
		src, err := sourceFlag("openapi", fo.openapi)
		if err != nil {
			return nil, err
		}
		return schemaform.LoadRequestSchema(ctx, loader, src, fo.operation)
	default:
		return nil, errors.New("--schema or --openapi is required")
	}
}

func sourceFlag(name, raw string) (schema.Source, error) {
	src, err := schema.SourceFromPath(raw)
	if err != nil {
		return nil, fmt.Errorf("--%s: %w", name, err)
	}
	return src, nil
}

// applyValues writes the --values document and --set assignments through the
// root SetValue. Assignments below an excluded group are dropped like any
// other write into an excluded object.
func applyValues(ctx context.Context, loader schema.Loader, root *form.Object, fo *formOptions) error {
	if fo.values == "" && len(fo.set) == 0 {
		return nil
	}

	current, _ := root.Value().(map[string]any)
	values := make(map[string]any, len(current))
	for key, val := range current {
		values[key] = cloneValue(val)
	}
	if fo.values != "" {
		src, err := sourceFlag("values", fo.values)
		if err != nil {
			return err
		}
		doc, err := loader.Load(ctx, src)
		if err != nil {
			return fmt.Errorf("load values: %w", err)
		}
		if values, err = schema.ParseValues(doc); err != nil {
			return fmt.Errorf("parse values: %w", err)
		}
	}

	for _, assignment := range fo.set {
		path, raw, ok := strings.Cut(assignment, "=")
		if !ok || strings.TrimSpace(path) == "" {
			return fmt.Errorf("invalid --set %q: expected path=value", assignment)
		}
		if err := form.SetPath(values, strings.TrimSpace(path), parseScalar(raw)); err != nil {
			return fmt.Errorf("--set %s: %w", path, err)
		}
	}

	root.SetValue(values)
	return nil
}

// parseScalar reads raw as JSON when possible so numbers and booleans keep
// their type; anything else is taken as a string.
func parseScalar(raw string) any {
	var decoded any
	if err := json.Unmarshal([]byte(raw), &decoded); err == nil {
		return decoded
	}
	return raw
}

func cloneValue(value any) any {
	switch v := value.(type) {
	case map[string]any:
		out := make(map[string]any, len(v))
		for key, val := range v {
			out[key] = cloneValue(val)
		}
		return out
	case []any:
		out := make([]any, len(v))
		for i, val := range v {
			out[i] = cloneValue(val)
		}
		return out
	default:
		return v
	}
}
