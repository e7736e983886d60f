package form

import (
	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Props are the construction parameters every widget receives.
type Props struct {
	Depth        int
	Disabled     bool
	Label        string
	Required     bool
	Schema       *schema.Node
	UISchema     *schema.UIHint
	DefaultValue any
}

// Input is the value contract shared by every node of a form tree.
type Input interface {
	Value() any
	SetValue(value any)
}

// Widget is an Input that also exposes the props it was built from, so
// renderers can walk a tree without knowing concrete widget types.
type Widget interface {
	Input
	Props() Props
}

// configSnapshot holds the props that trigger a rebuild. DefaultValue is
// deliberately absent: defaults only seed construction.
type configSnapshot struct {
	Depth    int
	Disabled bool
	Label    string
	Required bool
	Schema   *schema.Node
	UISchema *schema.UIHint
}

func snapshot(p Props) configSnapshot {
	return configSnapshot{
		Depth:    p.Depth,
		Disabled: p.Disabled,
		Label:    p.Label,
		Required: p.Required,
		Schema:   p.Schema,
		UISchema: p.UISchema,
	}
}

// ConfigChanged reports whether next differs from prev on any field that
// forces an Object to rebuild its children. Schema and UI hint trees are
// compared structurally.
func ConfigChanged(prev, next Props) bool {
	return !cmp.Equal(snapshot(prev), snapshot(next))
}
