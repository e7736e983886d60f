package schemaform

import (
	"context"
	"testing"
	"testing/fstest"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

var bundle = fstest.MapFS{
	"schema.yaml": {Data: []byte(`
type: object
required: [name]
properties:
  name:
    type: string
    title: Name
  retention:
    type: object
    title: Retention
    properties:
      days:
        type: integer
  archive:
    type: object
    properties:
      bucket:
        type: string
`)},
	"ui.yaml": {Data: []byte(`
order: [retention, name]
properties:
  retention:
    forceDisplayOptional: true
`)},
	"defaults.json": {Data: []byte(`{"name": "nightly", "retention": {"days": 14}, "archive": {"bucket": "cold"}}`)},
	"catalog.yaml": {Data: []byte(`
fr:
  fillOptionalInformations: Compléter
`)},
	"openapi.json": {Data: []byte(`{
  "openapi": "3.0.0",
  "info": {"title": "Backups", "version": "1.0.0"},
  "paths": {
    "/backups": {
      "post": {
        "operationId": "createBackup",
        "requestBody": {"content": {"application/json": {"schema": {
          "type": "object",
          "required": ["name"],
          "properties": {"name": {"type": "string"}}
        }}}},
        "responses": {"201": {"description": "created"}}
      }
    }
  }
}`)},
}

func TestBuildFromLoadedDocuments(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(schema.WithFileSystem(bundle))

	node, err := LoadNode(ctx, loader, schema.SourceFromFS("schema.yaml"))
	require.NoError(t, err)
	hint, err := LoadUIHint(ctx, loader, schema.SourceFromFS("ui.yaml"))
	require.NoError(t, err)
	defaults, err := LoadDefaults(ctx, loader, schema.SourceFromFS("defaults.json"))
	require.NoError(t, err)
	catalog, err := LoadCatalog(ctx, loader, schema.SourceFromFS("catalog.yaml"))
	require.NoError(t, err)

	root, err := Build(Config{Schema: node, UIHint: hint, Defaults: defaults},
		form.WithTranslator(catalog),
		form.WithLocale("fr"),
	)
	require.NoError(t, err)

	assert.Equal(t, []string{"retention", "name", "archive"}, root.Keys())
	assert.Equal(t, map[string]any{
		"name":      "nightly",
		"retention": map[string]any{"days": float64(14)},
		"archive":   nil,
	}, root.Value())

	archive, ok := root.Child("archive")
	require.True(t, ok)
	obj := archive.Input().(*form.Object)
	assert.Equal(t, "Compléter", obj.ToggleLabel())

	require.NoError(t, obj.Toggle(true))
	assert.Equal(t, map[string]any{"bucket": "cold"}, obj.Value())
}

func TestLoadRequestSchema(t *testing.T) {
	ctx := context.Background()
	loader := NewLoader(schema.WithFileSystem(bundle))

	node, err := LoadRequestSchema(ctx, loader, schema.SourceFromFS("openapi.json"), "createBackup")
	require.NoError(t, err)

	root, err := Build(Config{Schema: node, Defaults: map[string]any{"name": "weekly"}})
	require.NoError(t, err)
	assert.Equal(t, map[string]any{"name": "weekly"}, root.Value())

	_, err = LoadRequestSchema(ctx, loader, schema.SourceFromFS("openapi.json"), "missing")
	assert.Error(t, err)
}

func TestBuildRejectsNonObjectRoot(t *testing.T) {
	_, err := Build(Config{Schema: &schema.Node{Type: schema.TypeString}})
	assert.ErrorIs(t, err, schema.ErrNotObject)
}
