package widgets

import (
	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Register installs the primitive widget constructors on f.
func Register(f *form.Factory) {
	f.Register(schema.TypeString, newScalar)
	f.Register(schema.TypeNumber, newScalar)
	f.Register(schema.TypeInteger, newScalar)
	f.Register(schema.TypeBoolean, func(_ *form.Factory, props form.Props) (form.Widget, error) {
		return &Toggle{newLeaf(props)}, nil
	})
	f.Register(schema.TypeArray, func(_ *form.Factory, props form.Props) (form.Widget, error) {
		return &List{newLeaf(props)}, nil
	})
}

func newScalar(_ *form.Factory, props form.Props) (form.Widget, error) {
	if len(props.Schema.Enum) > 0 {
		return &Select{newLeaf(props)}, nil
	}
	switch props.Schema.Type {
	case schema.TypeNumber, schema.TypeInteger:
		return &Number{newLeaf(props)}, nil
	default:
		return &Text{newLeaf(props)}, nil
	}
}
