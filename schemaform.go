// Package schemaform builds editable form trees from JSON-schema-like
// documents. It wires the form engine in pkg/form to the primitive widgets in
// pkg/widgets and exposes loading helpers for schema, UI hint, default value
// and message catalog documents.
package schemaform

import (
	"context"
	"fmt"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/schema"
	"github.com/goliatone/go-schemaform/pkg/widgets"
)

// Config describes the root of a form tree.
type Config struct {
	Schema   *schema.Node
	UIHint   *schema.UIHint
	Defaults map[string]any
	Label    string
	Disabled bool
}

// NewFactory returns a form factory with every primitive widget registered.
func NewFactory(options ...form.Option) *form.Factory {
	f := form.NewFactory(options...)
	widgets.Register(f)
	return f
}

// Build constructs the root object of a form tree. The root is always
// included.
func Build(cfg Config, options ...form.Option) (*form.Object, error) {
	return NewFactory(options...).Root(form.Props{
		Label:        cfg.Label,
		Required:     true,
		Disabled:     cfg.Disabled,
		Schema:       cfg.Schema,
		UISchema:     cfg.UIHint,
		DefaultValue: cfg.Defaults,
	})
}

// LoadNode loads and parses a schema document.
func LoadNode(ctx context.Context, loader schema.Loader, src schema.Source) (*schema.Node, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return schema.ParseNode(doc)
}

// LoadUIHint loads and parses a UI hint document.
func LoadUIHint(ctx context.Context, loader schema.Loader, src schema.Source) (*schema.UIHint, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return schema.ParseUIHint(doc)
}

// LoadDefaults loads a default value document.
func LoadDefaults(ctx context.Context, loader schema.Loader, src schema.Source) (map[string]any, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return schema.ParseValues(doc)
}

// LoadCatalog loads a message catalog document.
func LoadCatalog(ctx context.Context, loader schema.Loader, src schema.Source) (*i18n.Catalog, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	return i18n.LoadCatalog(doc)
}

// LoadThemeManifest loads a go-theme manifest document (JSON or YAML).
func LoadThemeManifest(ctx context.Context, loader schema.Loader, src schema.Source) (*theme.Manifest, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	var manifest theme.Manifest
	if err := doc.Decode(&manifest); err != nil {
		return nil, err
	}
	if manifest.Name == "" {
		return nil, fmt.Errorf("schemaform: %s: theme manifest has no name", src.Location())
	}
	return &manifest, nil
}

// LoadRequestSchema loads an OpenAPI document and converts the request body
// schema of operationID.
func LoadRequestSchema(ctx context.Context, loader schema.Loader, src schema.Source, operationID string) (*schema.Node, error) {
	doc, err := loader.Load(ctx, src)
	if err != nil {
		return nil, err
	}
	node, err := NewParser().RequestSchema(ctx, doc, operationID)
	if err != nil {
		return nil, fmt.Errorf("schemaform: %s: %w", src.Location(), err)
	}
	return node, nil
}
