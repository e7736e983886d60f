package parser

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/getkin/kin-openapi/openapi3"

	pkgopenapi "github.com/goliatone/go-schemaform/pkg/openapi"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Parser implements pkgopenapi.Parser using kin-openapi.
type Parser struct {
	options pkgopenapi.ParserOptions
}

// Ensure the implementation satisfies the public interface.
var _ pkgopenapi.Parser = (*Parser)(nil)

// New constructs a Parser with the given options.
func New(options pkgopenapi.ParserOptions) *Parser {
	return &Parser{options: options}
}

// Operations lists the operations of doc sorted by id.
func (p *Parser) Operations(ctx context.Context, doc schema.Document) ([]pkgopenapi.Operation, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}

	var operations []pkgopenapi.Operation
	p.walk(spec, func(method, path string, op *openapi3.Operation) bool {
		operations = append(operations, pkgopenapi.Operation{
			ID:             operationID(method, path, op),
			Method:         method,
			Path:           path,
			Summary:        op.Summary,
			Description:    op.Description,
			HasRequestBody: p.requestSchemaRef(op.RequestBody) != nil,
		})
		return true
	})
	sort.Slice(operations, func(i, j int) bool {
		return operations[i].ID < operations[j].ID
	})
	return operations, nil
}

// RequestSchema converts the request body schema of operationID.
func (p *Parser) RequestSchema(ctx context.Context, doc schema.Document, operationID string) (*schema.Node, error) {
	spec, err := p.load(ctx, doc)
	if err != nil {
		return nil, err
	}

	var found *openapi3.Operation
	p.walk(spec, func(method, path string, op *openapi3.Operation) bool {
		if operationIDMatches(operationID, method, path, op) {
			found = op
			return false
		}
		return true
	})
	if found == nil {
		return nil, fmt.Errorf("%w: %q", pkgopenapi.ErrOperationNotFound, operationID)
	}

	ref := p.requestSchemaRef(found.RequestBody)
	if ref == nil {
		return nil, fmt.Errorf("%w: %q", pkgopenapi.ErrNoRequestBody, operationID)
	}
	node, err := convertSchema(ref)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: %s: %w", operationID, err)
	}
	return node, nil
}

func (p *Parser) load(ctx context.Context, doc schema.Document) (*openapi3.T, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	raw := doc.Raw()
	if len(raw) == 0 {
		return nil, errors.New("openapi parser: document payload is empty")
	}

	loader := &openapi3.Loader{
		Context:               ctx,
		IsExternalRefsAllowed: p.options.ResolveReferences,
	}

	spec, err := loader.LoadFromData(raw)
	if err != nil {
		return nil, fmt.Errorf("openapi parser: load document: %w", err)
	}

	if spec.Paths == nil || spec.Paths.Len() == 0 {
		if !p.options.AllowPartialDocuments {
			return nil, pkgopenapi.ErrNoPaths
		}
	}

	if p.options.ResolveReferences {
		if err := spec.Validate(ctx, openapi3.DisableExamplesValidation()); err != nil {
			return nil, fmt.Errorf("openapi parser: validate: %w", err)
		}
	}
	return spec, nil
}

// walk visits operations in path then method order until fn returns false.
func (p *Parser) walk(spec *openapi3.T, fn func(method, path string, op *openapi3.Operation) bool) {
	if spec.Paths == nil {
		return
	}
	items := spec.Paths.Map()
	paths := make([]string, 0, len(items))
	for path := range items {
		paths = append(paths, path)
	}
	sort.Strings(paths)

	for _, path := range paths {
		item := items[path]
		if item == nil {
			continue
		}
		ops := item.Operations()
		methods := make([]string, 0, len(ops))
		for method := range ops {
			methods = append(methods, method)
		}
		sort.Strings(methods)
		for _, method := range methods {
			if op := ops[method]; op != nil {
				if !fn(method, path, op) {
					return
				}
			}
		}
	}
}

func (p *Parser) requestSchemaRef(requestBody *openapi3.RequestBodyRef) *openapi3.SchemaRef {
	if requestBody == nil || requestBody.Value == nil {
		return nil
	}
	content := requestBody.Value.Content
	for _, mediaType := range p.options.MediaTypes {
		if mt, ok := content[mediaType]; ok && mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	keys := make([]string, 0, len(content))
	for key := range content {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	for _, key := range keys {
		if mt := content[key]; mt != nil && mt.Schema != nil {
			return mt.Schema
		}
	}
	return nil
}

func operationID(method, path string, op *openapi3.Operation) string {
	if op.OperationID != "" {
		return op.OperationID
	}
	return strings.ToLower(method) + ":" + path
}

func operationIDMatches(id, method, path string, op *openapi3.Operation) bool {
	if op.OperationID != "" && op.OperationID == id {
		return true
	}
	return strings.EqualFold(strings.ToLower(method)+":"+path, id)
}
