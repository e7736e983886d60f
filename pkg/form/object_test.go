package form

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

type stubLeaf struct {
	props Props
	value any
}

func (s *stubLeaf) Value() any         { return s.value }
func (s *stubLeaf) SetValue(value any) { s.value = value }
func (s *stubLeaf) Props() Props       { return s.props }

func newStubLeaf(_ *Factory, props Props) (Widget, error) {
	return &stubLeaf{props: props, value: props.DefaultValue}, nil
}

func testFactory(options ...Option) *Factory {
	f := NewFactory(options...)
	for _, typ := range []schema.Type{schema.TypeString, schema.TypeNumber, schema.TypeInteger, schema.TypeBoolean, schema.TypeArray} {
		f.Register(typ, newStubLeaf)
	}
	return f
}

func personSchema() *schema.Node {
	return &schema.Node{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Node{
			"name": {Type: schema.TypeString},
			"age":  {Type: schema.TypeNumber},
		},
		Required: []string{"name"},
	}
}

func srSchema() *schema.Node {
	return &schema.Node{
		Type:        schema.TypeObject,
		Title:       "Storage repository",
		Description: "Where VM disks live",
		Properties: map[string]*schema.Node{
			"name": {Type: schema.TypeString, Title: "Name"},
			"host": {
				Type: schema.TypeObject,
				Properties: map[string]*schema.Node{
					"address": {Type: schema.TypeString},
					"port":    {Type: schema.TypeInteger},
				},
				Required: []string{"address"},
			},
			"advanced": {
				Type: schema.TypeObject,
				Properties: map[string]*schema.Node{
					"shared": {Type: schema.TypeBoolean},
					"tags":   {Type: schema.TypeArray, Items: &schema.Node{Type: schema.TypeString}},
				},
			},
		},
		Required: []string{"name", "host"},
	}
}

func newRoot(t *testing.T, f *Factory, node *schema.Node, defaults map[string]any) *Object {
	t.Helper()
	root, err := f.Root(Props{
		Label:        "root",
		Required:     true,
		Schema:       node,
		DefaultValue: defaults,
	})
	require.NoError(t, err)
	return root
}

func childObject(t *testing.T, o *Object, key string) *Object {
	t.Helper()
	child, ok := o.Child(key)
	require.True(t, ok, "missing child %q", key)
	obj, ok := child.Input().(*Object)
	require.True(t, ok, "child %q is not an object", key)
	return obj
}

func TestObject_NameAgeScenario(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), map[string]any{"name": "Alice"})

	value, ok := root.Value().(map[string]any)
	require.True(t, ok)
	assert.Equal(t, "Alice", value["name"])

	age, present := value["age"]
	assert.True(t, present, "age key must be present")
	assert.Nil(t, age)
	assert.Len(t, value, 2)
}

func TestObject_OptionalObjectChildReadsNilUnderPresentKey(t *testing.T) {
	node := personSchema()
	node.Properties["age"] = &schema.Node{
		Type:       schema.TypeObject,
		Properties: map[string]*schema.Node{"years": {Type: schema.TypeInteger}},
	}
	root := newRoot(t, testFactory(), node, map[string]any{"name": "Alice"})

	assert.Equal(t, map[string]any{"name": "Alice", "age": nil}, root.Value())
	assert.False(t, childObject(t, root, "age").Included())
}

func TestObject_RoundTrip(t *testing.T) {
	root := newRoot(t, testFactory(WithForceDisplayOptional(true)), srSchema(), nil)

	want := map[string]any{
		"name": "local-lvm",
		"host": map[string]any{"address": "10.0.0.4", "port": 3260},
		"advanced": map[string]any{
			"shared": true,
			"tags":   []any{"fast", "ssd"},
		},
	}
	root.SetValue(want)
	assert.Equal(t, want, root.Value())
}

func TestObject_RoundTripIgnoresUndeclaredKeys(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), nil)

	root.SetValue(map[string]any{"name": "Bob", "age": 42, "email": "bob@example.com"})
	assert.Equal(t, map[string]any{"name": "Bob", "age": 42}, root.Value())
}

func TestObject_RequiredChildAlwaysIncluded(t *testing.T) {
	for _, force := range []bool{false, true} {
		root := newRoot(t, testFactory(WithForceDisplayOptional(force)), srSchema(), nil)
		host := childObject(t, root, "host")

		assert.True(t, host.Included(), "force=%v", force)
		assert.False(t, host.HasToggle(), "force=%v", force)
		assert.ErrorIs(t, host.Toggle(false), ErrToggleUnavailable)
		assert.True(t, host.Included())
	}
}

func TestObject_OptionalChildStartsExcluded(t *testing.T) {
	root := newRoot(t, testFactory(), srSchema(), nil)
	advanced := childObject(t, root, "advanced")

	assert.False(t, advanced.Included())
	assert.True(t, advanced.HasToggle())
	assert.Nil(t, advanced.Value())
	assert.Empty(t, advanced.Children())
	assert.Equal(t, "Fill optional information", advanced.ToggleLabel())

	value := root.Value().(map[string]any)
	assert.Contains(t, value, "advanced")
	assert.Nil(t, value["advanced"])
}

func TestObject_ForceDisplayFromHint(t *testing.T) {
	f := testFactory()
	root, err := f.Root(Props{
		Required: true,
		Schema:   srSchema(),
		UISchema: &schema.UIHint{
			Properties: map[string]*schema.UIHint{
				"advanced": {ForceDisplayOptional: true},
			},
		},
	})
	require.NoError(t, err)
	assert.True(t, childObject(t, root, "advanced").Included())
}

func TestObject_ExcludeDiscardsValues(t *testing.T) {
	defaults := map[string]any{
		"name":     "nfs",
		"host":     map[string]any{"address": "nas"},
		"advanced": map[string]any{"shared": false, "tags": []any{"default"}},
	}
	root := newRoot(t, testFactory(), srSchema(), defaults)
	advanced := childObject(t, root, "advanced")

	require.NoError(t, advanced.Toggle(true))
	assert.Equal(t, map[string]any{"shared": false, "tags": []any{"default"}}, advanced.Value())

	advanced.SetValue(map[string]any{"shared": true, "tags": []any{"edited"}})
	assert.Equal(t, map[string]any{"shared": true, "tags": []any{"edited"}}, advanced.Value())

	require.NoError(t, advanced.Toggle(false))
	assert.Nil(t, advanced.Value())
	assert.Empty(t, advanced.Keys())

	require.NoError(t, advanced.Toggle(true))
	assert.Equal(t, map[string]any{"shared": false, "tags": []any{"default"}}, advanced.Value())
}

func TestObject_ToggleSameStateIsNoop(t *testing.T) {
	root := newRoot(t, testFactory(), srSchema(), nil)
	advanced := childObject(t, root, "advanced")

	require.NoError(t, advanced.Toggle(true))
	advanced.SetValue(map[string]any{"shared": true})
	require.NoError(t, advanced.Toggle(true))
	assert.Equal(t, map[string]any{"shared": true, "tags": nil}, advanced.Value())
}

func TestObject_DisabledBlocksToggle(t *testing.T) {
	f := testFactory()
	root, err := f.Root(Props{Required: true, Disabled: true, Schema: srSchema()})
	require.NoError(t, err)

	advanced := childObject(t, root, "advanced")
	assert.ErrorIs(t, advanced.Toggle(true), ErrDisabled)
	assert.False(t, advanced.Included())

	name, _ := root.Child("name")
	assert.True(t, name.Input().Props().Disabled)
}

func TestObject_SetValueDoesNotChangeInclusion(t *testing.T) {
	root := newRoot(t, testFactory(), srSchema(), nil)

	root.SetValue(map[string]any{"advanced": map[string]any{"shared": true}})
	advanced := childObject(t, root, "advanced")
	assert.False(t, advanced.Included())
	assert.Nil(t, advanced.Value())
	assert.Empty(t, advanced.Children())
}

func TestObject_SetValueWithNonMapClearsChildren(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), map[string]any{"name": "Alice", "age": 30})

	root.SetValue(nil)
	assert.Equal(t, map[string]any{"name": nil, "age": nil}, root.Value())

	root.SetValue(map[string]any{"name": "Eve"})
	root.SetValue("not a map")
	assert.Equal(t, map[string]any{"name": nil, "age": nil}, root.Value())
}

func TestObject_RebuildOnSchemaChange(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), map[string]any{"name": "Alice"})
	before, _ := root.Child("name")

	next := root.Props()
	next.DefaultValue = map[string]any{"name": "Zed"}
	rebuilt, err := root.Update(next)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	same, _ := root.Child("name")
	assert.Same(t, before, same)
	assert.Equal(t, "Alice", same.Value())

	changed := personSchema()
	changed.Properties["bar"] = &schema.Node{Type: schema.TypeBoolean}
	next = root.Props()
	next.Schema = changed
	rebuilt, err = root.Update(next)
	require.NoError(t, err)
	assert.True(t, rebuilt)

	_, ok := root.Child("bar")
	assert.True(t, ok)
	after, _ := root.Child("name")
	assert.NotSame(t, before, after)
	assert.Equal(t, "Zed", after.Value())
}

func TestObject_StructurallyEqualSchemaDoesNotRebuild(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), nil)
	before, _ := root.Child("age")

	next := root.Props()
	next.Schema = personSchema()
	rebuilt, err := root.Update(next)
	require.NoError(t, err)
	assert.False(t, rebuilt)

	after, _ := root.Child("age")
	assert.Same(t, before, after)
}

func TestObject_UpdateKeepsInclusion(t *testing.T) {
	root := newRoot(t, testFactory(), srSchema(), nil)
	advanced := childObject(t, root, "advanced")

	next := advanced.Props()
	next.Required = true
	rebuilt, err := advanced.Update(next)
	require.NoError(t, err)
	assert.True(t, rebuilt)
	assert.False(t, advanced.Included(), "inclusion is derived once at construction")
	assert.False(t, advanced.HasToggle())
}

func TestObject_UpdateWhileExcludedSeedsNextInclusion(t *testing.T) {
	root := newRoot(t, testFactory(), srSchema(), nil)
	advanced := childObject(t, root, "advanced")

	next := advanced.Props()
	next.Schema = &schema.Node{
		Type:       schema.TypeObject,
		Properties: map[string]*schema.Node{"quota": {Type: schema.TypeInteger}},
	}
	next.DefaultValue = map[string]any{"quota": 10}
	_, err := advanced.Update(next)
	require.NoError(t, err)
	assert.Nil(t, advanced.Value())

	require.NoError(t, advanced.Toggle(true))
	assert.Equal(t, map[string]any{"quota": 10}, advanced.Value())
}

func TestObject_FailedUpdateKeepsPriorState(t *testing.T) {
	root := newRoot(t, testFactory(), personSchema(), map[string]any{"name": "Alice"})
	root.SetValue(map[string]any{"name": "Bob", "age": 41})
	before := root.Props()

	broken := personSchema()
	broken.Properties["when"] = &schema.Node{Type: schema.Type("date")}
	next := root.Props()
	next.Schema = broken
	rebuilt, err := root.Update(next)

	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.False(t, rebuilt)
	assert.True(t, root.Included())
	assert.Equal(t, map[string]any{"name": "Bob", "age": 41}, root.Value())
	assert.Equal(t, []string{"age", "name"}, root.Keys())
	assert.False(t, ConfigChanged(before, root.Props()), "props stay at the last good config")
}

func TestObject_DepthAndLabels(t *testing.T) {
	f := testFactory()
	root, err := f.Root(Props{Depth: 1, Required: true, Schema: srSchema()})
	require.NoError(t, err)

	name, _ := root.Child("name")
	assert.Equal(t, 1, name.Input().Props().Depth)
	assert.Equal(t, "Name", name.Input().Props().Label)
	assert.True(t, name.Input().Props().Required)

	host := childObject(t, root, "host")
	assert.Equal(t, 3, host.Depth())
	assert.Equal(t, "host", host.Label())

	address, _ := host.Child("address")
	assert.Equal(t, 3, address.Input().Props().Depth)
}

func TestObject_ChildrenFollowHintOrder(t *testing.T) {
	f := testFactory()
	root, err := f.Root(Props{
		Required: true,
		Schema:   srSchema(),
		UISchema: &schema.UIHint{Order: []string{"name", "host"}},
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"name", "host", "advanced"}, root.Keys())

	keys := make([]string, 0, 3)
	for _, child := range root.Children() {
		keys = append(keys, child.Key())
	}
	assert.Equal(t, root.Keys(), keys)
}

func TestObject_RequiredUnknownKeyIsInert(t *testing.T) {
	node := personSchema()
	node.Required = append(node.Required, "ghost")
	root := newRoot(t, testFactory(), node, nil)

	_, ok := root.Child("ghost")
	assert.False(t, ok)
	assert.Equal(t, map[string]any{"name": nil, "age": nil}, root.Value())
}

func TestFactory_UnsupportedType(t *testing.T) {
	node := &schema.Node{
		Type:       schema.TypeObject,
		Properties: map[string]*schema.Node{"when": {Type: schema.Type("date")}},
	}
	_, err := testFactory().Root(Props{Required: true, Schema: node})
	assert.ErrorIs(t, err, ErrUnsupportedType)
	assert.Contains(t, err.Error(), "when")

	bare := NewFactory()
	_, err = bare.Root(Props{Required: true, Schema: personSchema()})
	assert.ErrorIs(t, err, ErrUnsupportedType)
}

func TestFactory_RootRequiresObject(t *testing.T) {
	_, err := testFactory().Root(Props{Schema: &schema.Node{Type: schema.TypeString}})
	assert.ErrorIs(t, err, schema.ErrNotObject)

	_, err = testFactory().Root(Props{})
	assert.ErrorIs(t, err, ErrMissingSchema)
}

func TestFactory_BuildCreatesFreshNodes(t *testing.T) {
	f := testFactory()
	node := &schema.Node{Type: schema.TypeString, Title: "Label"}

	first, err := f.Build("k", node, nil, []string{"k"}, "v", 0, false)
	require.NoError(t, err)
	second, err := f.Build("k", node, nil, []string{"k"}, "v", 0, false)
	require.NoError(t, err)

	assert.NotSame(t, first.Input(), second.Input())
	assert.Equal(t, "k", first.Key())
	assert.Equal(t, "Label", first.Input().Props().Label)
	assert.True(t, first.Input().Props().Required)
	assert.Equal(t, "v", first.Value())

	first.SetValue("w")
	assert.Equal(t, "w", first.Input().Value())
}

func TestConfigChanged(t *testing.T) {
	base := Props{Depth: 2, Label: "x", Schema: personSchema(), DefaultValue: map[string]any{"name": "a"}}

	same := base
	same.Schema = personSchema()
	same.DefaultValue = map[string]any{"name": "b"}
	assert.False(t, ConfigChanged(base, same))

	for name, mutate := range map[string]func(*Props){
		"depth":    func(p *Props) { p.Depth = 4 },
		"disabled": func(p *Props) { p.Disabled = true },
		"label":    func(p *Props) { p.Label = "y" },
		"required": func(p *Props) { p.Required = true },
		"schema":   func(p *Props) { p.Schema = srSchema() },
		"uiSchema": func(p *Props) { p.UISchema = &schema.UIHint{Widget: "textarea"} },
	} {
		next := base
		mutate(&next)
		assert.True(t, ConfigChanged(base, next), name)
	}
}
