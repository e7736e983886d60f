package form

import (
	"fmt"
	"slices"

	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Type aliases schema.Type so callers registering constructors need only this
// package.
type Type = schema.Type

// Constructor builds the widget for one schema level. The factory is passed so
// composite widgets can build their own children.
type Constructor func(f *Factory, props Props) (Widget, error)

// Factory turns schema levels into widgets through a dispatch table keyed by
// schema type. Only TypeObject is registered by default; primitive widgets
// are collaborators registered by the caller (see package widgets).
type Factory struct {
	constructors map[schema.Type]Constructor
	forceDisplay bool
	logger       *zap.Logger
	translator   i18n.Translator
	locale       string
}

// NewFactory returns a factory with the object constructor installed.
func NewFactory(options ...Option) *Factory {
	f := &Factory{
		constructors: make(map[schema.Type]Constructor),
		logger:       zap.NewNop(),
		locale:       i18n.DefaultLocale,
	}
	f.constructors[schema.TypeObject] = func(f *Factory, props Props) (Widget, error) {
		return NewObject(f, props)
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(f)
	}
	return f
}

// Register installs ctor for typ, replacing any previous entry. A nil ctor
// removes the entry.
func (f *Factory) Register(typ schema.Type, ctor Constructor) {
	if ctor == nil {
		delete(f.constructors, typ)
		return
	}
	f.constructors[typ] = ctor
}

// Supports reports whether typ has a constructor.
func (f *Factory) Supports(typ schema.Type) bool {
	_, ok := f.constructors[typ]
	return ok
}

// New builds the widget described by props.Schema.
func (f *Factory) New(props Props) (Widget, error) {
	if props.Schema == nil {
		return nil, ErrMissingSchema
	}
	ctor, ok := f.constructors[props.Schema.Type]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedType, props.Schema.Type)
	}
	return ctor(f, props)
}

// Build produces the wrapped child stored under key by an object whose
// required set is parentRequired. Nested objects are indented two units deeper
// than depth; primitive widgets stay at depth.
func (f *Factory) Build(key string, node *schema.Node, hint *schema.UIHint, parentRequired []string, defaultValue any, depth int, disabled bool) (*FieldWrapper, error) {
	if node == nil {
		return nil, fmt.Errorf("form: %s: %w", key, ErrMissingSchema)
	}
	childDepth := depth
	if node.Type == schema.TypeObject {
		childDepth = depth + 2
	}
	widget, err := f.New(Props{
		Depth:        childDepth,
		Disabled:     disabled,
		Label:        node.Label(key),
		Required:     slices.Contains(parentRequired, key),
		Schema:       node,
		UISchema:     hint,
		DefaultValue: defaultValue,
	})
	if err != nil {
		return nil, fmt.Errorf("form: %s: %w", key, err)
	}
	return Wrap(key, widget), nil
}

// Root builds the top-level object of a form tree.
func (f *Factory) Root(props Props) (*Object, error) {
	if props.Schema == nil {
		return nil, ErrMissingSchema
	}
	if !props.Schema.IsObject() {
		return nil, fmt.Errorf("form: root: %w", schema.ErrNotObject)
	}
	return NewObject(f, props)
}

// Logger exposes the factory logger to widgets.
func (f *Factory) Logger() *zap.Logger {
	return f.logger
}

// Translate resolves a chrome string with the factory translator and locale.
func (f *Factory) Translate(key string, args ...any) string {
	return i18n.Lookup(f.translator, f.locale, key, args...)
}
