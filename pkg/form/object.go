package form

import (
	"go.uber.org/zap"

	"github.com/goliatone/go-schemaform/pkg/i18n"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Object is the composite node for an object-typed schema level. It is either
// included, holding one wrapped child per declared property, or excluded,
// holding no children and reading as nil.
type Object struct {
	factory *Factory
	props   Props
	// seed is the props snapshot children are built from. It only moves on a
	// rebuild, so re-including restores the defaults of the last rebuild.
	seed     Props
	use      bool
	children map[string]*FieldWrapper
	order    []string
}

var _ Widget = (*Object)(nil)

// NewObject builds an object node. Inclusion is derived here, once: required
// objects and objects with forced display start included.
func NewObject(f *Factory, props Props) (*Object, error) {
	if f == nil {
		f = NewFactory()
	}
	if props.Schema == nil {
		return nil, ErrMissingSchema
	}
	o := &Object{
		factory: f,
		props:   props,
		seed:    props,
		use:     props.Required || f.forceDisplay || forcedByHint(props.UISchema),
	}
	if o.use {
		if err := o.buildChildren(props); err != nil {
			return nil, err
		}
	}
	return o, nil
}

func forcedByHint(hint *schema.UIHint) bool {
	return hint != nil && hint.ForceDisplayOptional
}

// buildChildren builds the children of props and installs them only when every
// child was built.
func (o *Object) buildChildren(props Props) error {
	defaults, _ := props.DefaultValue.(map[string]any)
	keys := schema.OrderedKeys(props.Schema, props.UISchema)

	children := make(map[string]*FieldWrapper, len(keys))
	for _, key := range keys {
		child := props.Schema.Properties[key]
		wrapped, err := o.factory.Build(key, child, props.UISchema.Child(key), props.Schema.Required, defaults[key], props.Depth, props.Disabled)
		if err != nil {
			return err
		}
		children[key] = wrapped
	}

	o.children = children
	o.order = keys
	o.factory.logger.Debug("form: object children built",
		zap.String("label", props.Label),
		zap.Int("depth", props.Depth),
		zap.Int("children", len(keys)),
	)
	return nil
}

func (o *Object) dropChildren() {
	o.children = nil
	o.order = nil
}

// Value returns nil while excluded. While included it returns a map holding
// every child key, including keys whose value is nil.
func (o *Object) Value() any {
	if !o.use {
		return nil
	}
	out := make(map[string]any, len(o.order))
	for _, key := range o.order {
		out[key] = o.children[key].Value()
	}
	return out
}

// SetValue distributes value (a map[string]any; anything else counts as an
// empty map) to the existing children. Keys without a child are ignored and
// missing keys write nil. Inclusion is left untouched.
func (o *Object) SetValue(value any) {
	values, _ := value.(map[string]any)
	for _, key := range o.order {
		o.children[key].SetValue(values[key])
	}
}

// Toggle includes or excludes the object on behalf of the user. Excluding
// discards the children and whatever they held; including builds fresh
// children from the defaults.
func (o *Object) Toggle(use bool) error {
	if o.props.Required {
		return ErrToggleUnavailable
	}
	if o.props.Disabled {
		return ErrDisabled
	}
	if use == o.use {
		return nil
	}
	if use {
		if err := o.buildChildren(o.seed); err != nil {
			return err
		}
	} else {
		o.dropChildren()
	}
	o.use = use
	o.factory.logger.Debug("form: object toggled",
		zap.String("label", o.props.Label),
		zap.Bool("included", use),
	)
	return nil
}

// Update swaps in new props. Children are rebuilt only when ConfigChanged
// reports a difference; a DefaultValue-only change is stored but builds
// nothing. Inclusion is not re-derived. It reports whether a rebuild ran.
// A failed rebuild leaves the object as it was before the call.
func (o *Object) Update(next Props) (bool, error) {
	if next.Schema == nil {
		return false, ErrMissingSchema
	}
	if !ConfigChanged(o.props, next) {
		o.props = next
		return false, nil
	}

	if o.use {
		if err := o.buildChildren(next); err != nil {
			return false, err
		}
	} else {
		o.factory.logger.Debug("form: object config changed while excluded",
			zap.String("label", next.Label),
		)
	}
	o.props = next
	o.seed = next
	return true, nil
}

// Props returns the props the object was last updated with.
func (o *Object) Props() Props {
	return o.props
}

// Included reports whether the object currently contributes a value.
func (o *Object) Included() bool {
	return o.use
}

// HasToggle reports whether an inclusion control is offered.
func (o *Object) HasToggle() bool {
	return !o.props.Required
}

// Label returns the legend text.
func (o *Object) Label() string {
	return o.props.Label
}

// Description returns the schema description, if any.
func (o *Object) Description() string {
	if o.props.Schema == nil {
		return ""
	}
	return o.props.Schema.Description
}

// Depth returns the indentation units of the object's children.
func (o *Object) Depth() int {
	return o.props.Depth
}

// ToggleLabel returns the localized label of the inclusion control.
func (o *Object) ToggleLabel() string {
	return o.factory.Translate(i18n.KeyFillOptional)
}

// Keys lists child keys in display order. Empty while excluded.
func (o *Object) Keys() []string {
	return append([]string(nil), o.order...)
}

// Children returns the wrapped children in display order.
func (o *Object) Children() []*FieldWrapper {
	out := make([]*FieldWrapper, 0, len(o.order))
	for _, key := range o.order {
		out = append(out, o.children[key])
	}
	return out
}

// Child returns the wrapped child stored under key.
func (o *Object) Child(key string) (*FieldWrapper, bool) {
	child, ok := o.children[key]
	return child, ok
}
