package parser

import (
	"context"
	"errors"
	"testing"

	"github.com/getkin/kin-openapi/openapi3"
	"github.com/google/go-cmp/cmp"

	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

const backupDocument = `{
  "openapi": "3.0.0",
  "info": { "title": "Backups", "version": "1.0.0" },
  "paths": {
    "/backups": {
      "get": {
        "operationId": "listBackups",
        "responses": { "200": { "description": "ok" } }
      },
      "post": {
        "operationId": "createBackup",
        "summary": "Create a backup",
        "requestBody": {
          "content": {
            "application/json": {
              "schema": {
                "allOf": [
                  {"$ref": "#/components/schemas/BaseBackup"},
                  {
                    "type": "object",
                    "required": ["mode"],
                    "properties": {
                      "mode": {"type": "string", "enum": ["full", "delta"]}
                    }
                  }
                ]
              }
            }
          }
        },
        "responses": { "201": { "description": "created" } }
      }
    },
    "/repositories": {
      "put": {
        "requestBody": {
          "content": {
            "application/x-www-form-urlencoded": {
              "schema": {
                "type": "object",
                "properties": { "path": {"type": "string"} }
              }
            }
          }
        },
        "responses": { "204": { "description": "updated" } }
      }
    }
  },
  "components": {
    "schemas": {
      "BaseBackup": {
        "type": "object",
        "required": ["name"],
        "properties": {
          "name": {"type": "string", "title": "Name"},
          "tags": {"type": "array", "items": {"type": "string"}},
          "retention": {
            "type": "object",
            "properties": { "days": {"type": "integer", "default": 7} }
          }
        }
      }
    }
  }
}`

func newDocument(t *testing.T, raw string) schema.Document {
	t.Helper()
	doc, err := schema.NewDocument(schema.SourceInline("openapi.json"), []byte(raw))
	if err != nil {
		t.Fatalf("construct document: %v", err)
	}
	return doc
}

func TestOperations(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())

	got, err := parser.Operations(context.Background(), newDocument(t, backupDocument))
	if err != nil {
		t.Fatalf("operations: %v", err)
	}

	want := []pkgopenapi.Operation{
		{ID: "createBackup", Method: "POST", Path: "/backups", Summary: "Create a backup", HasRequestBody: true},
		{ID: "listBackups", Method: "GET", Path: "/backups"},
		{ID: "put:/repositories", Method: "PUT", Path: "/repositories", HasRequestBody: true},
	}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Fatalf("operations mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestSchemaMergesAllOf(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())

	node, err := parser.RequestSchema(context.Background(), newDocument(t, backupDocument), "createBackup")
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}

	want := &schema.Node{
		Type: schema.TypeObject,
		Properties: map[string]*schema.Node{
			"name": {Type: schema.TypeString, Title: "Name"},
			"tags": {Type: schema.TypeArray, Items: &schema.Node{Type: schema.TypeString}},
			"retention": {
				Type: schema.TypeObject,
				Properties: map[string]*schema.Node{
					"days": {Type: schema.TypeInteger, Default: float64(7)},
				},
			},
			"mode": {Type: schema.TypeString, Enum: []any{"full", "delta"}},
		},
		Required: []string{"name", "mode"},
	}
	if diff := cmp.Diff(want, node); diff != "" {
		t.Fatalf("schema mismatch (-want +got):\n%s", diff)
	}
}

func TestRequestSchemaFallbackIDAndMediaType(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())

	node, err := parser.RequestSchema(context.Background(), newDocument(t, backupDocument), "put:/repositories")
	if err != nil {
		t.Fatalf("request schema: %v", err)
	}
	if _, ok := node.Property("path"); !ok {
		t.Fatalf("expected path property, got %+v", node)
	}
}

func TestRequestSchemaErrors(t *testing.T) {
	parser := New(pkgopenapi.NewParserOptions())
	doc := newDocument(t, backupDocument)

	if _, err := parser.RequestSchema(context.Background(), doc, "missing"); !errors.Is(err, pkgopenapi.ErrOperationNotFound) {
		t.Fatalf("expected ErrOperationNotFound, got %v", err)
	}
	if _, err := parser.RequestSchema(context.Background(), doc, "listBackups"); !errors.Is(err, pkgopenapi.ErrNoRequestBody) {
		t.Fatalf("expected ErrNoRequestBody, got %v", err)
	}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	if _, err := parser.Operations(ctx, doc); !errors.Is(err, context.Canceled) {
		t.Fatalf("expected context.Canceled, got %v", err)
	}
}

func TestPartialDocuments(t *testing.T) {
	const partial = `{
  "openapi": "3.0.0",
  "info": { "title": "Empty", "version": "1.0.0" },
  "paths": {}
}`
	doc := newDocument(t, partial)

	if _, err := New(pkgopenapi.NewParserOptions()).Operations(context.Background(), doc); !errors.Is(err, pkgopenapi.ErrNoPaths) {
		t.Fatalf("expected ErrNoPaths, got %v", err)
	}

	parser := New(pkgopenapi.NewParserOptions(pkgopenapi.WithPartialDocuments(true)))
	ops, err := parser.Operations(context.Background(), doc)
	if err != nil {
		t.Fatalf("operations: %v", err)
	}
	if len(ops) != 0 {
		t.Fatalf("expected no operations, got %v", ops)
	}
}

func TestConvertSchemaHandlesRecursiveReferences(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Cycle", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Repository": {
        "type": "object",
        "properties": {
          "mirror": { "$ref": "#/components/schemas/Mirror" }
        }
      },
      "Mirror": {
        "type": "object",
        "properties": {
          "origin": { "$ref": "#/components/schemas/Repository" }
        }
      }
    }
  }
}`

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(document))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	node, err := convertSchema(doc.Components.Schemas["Repository"])
	if err != nil {
		t.Fatalf("convert: %v", err)
	}
	mirror, ok := node.Property("mirror")
	if !ok {
		t.Fatalf("expected mirror property")
	}
	origin, ok := mirror.Property("origin")
	if !ok {
		t.Fatalf("expected origin property")
	}
	if origin.Type != schema.TypeObject || len(origin.Properties) != 0 {
		t.Fatalf("expected cycle to be cut at origin, got %+v", origin)
	}
}

func TestConvertSchemaRejectsUnknownType(t *testing.T) {
	ref := openapi3.NewSchemaRef("", &openapi3.Schema{
		Type: &openapi3.Types{"object"},
		Properties: openapi3.Schemas{
			"blob": openapi3.NewSchemaRef("", &openapi3.Schema{Type: &openapi3.Types{"file"}}),
		},
	})

	if _, err := convertSchema(ref); !errors.Is(err, schema.ErrUnsupportedType) {
		t.Fatalf("expected ErrUnsupportedType, got %v", err)
	}
}

func TestConvertSchemaInfersAllOfTypeFromMembers(t *testing.T) {
	const document = `{
  "openapi": "3.0.0",
  "info": { "title": "Wrapped", "version": "1.0.0" },
  "paths": {},
  "components": {
    "schemas": {
      "Label": { "type": "string", "format": "hostname", "title": "Label" },
      "Labels": { "type": "array", "items": { "$ref": "#/components/schemas/Label" } },
      "Repository": {
        "type": "object",
        "properties": {
          "name": {
            "description": "Repository name",
            "allOf": [ { "$ref": "#/components/schemas/Label" } ]
          },
          "tags": {
            "allOf": [ { "required": [] }, { "$ref": "#/components/schemas/Labels" } ]
          },
          "extra": {
            "allOf": [ { "required": ["x"] } ]
          }
        }
      }
    }
  }
}`

	loader := openapi3.NewLoader()
	doc, err := loader.LoadFromData([]byte(document))
	if err != nil {
		t.Fatalf("load schema: %v", err)
	}

	node, err := convertSchema(doc.Components.Schemas["Repository"])
	if err != nil {
		t.Fatalf("convert: %v", err)
	}

	name, _ := node.Property("name")
	want := &schema.Node{Type: schema.TypeString, Title: "Label", Description: "Repository name", Format: "hostname"}
	if diff := cmp.Diff(want, name); diff != "" {
		t.Fatalf("name mismatch (-want +got):\n%s", diff)
	}

	tags, _ := node.Property("tags")
	if tags.Type != schema.TypeArray || tags.Items == nil || tags.Items.Type != schema.TypeString {
		t.Fatalf("expected array of strings, got %+v", tags)
	}

	extra, _ := node.Property("extra")
	if extra.Type != schema.TypeObject {
		t.Fatalf("expected undecided allOf to stay an object, got %s", extra.Type)
	}
}
