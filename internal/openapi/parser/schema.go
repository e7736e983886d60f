package parser

import (
	"fmt"
	"slices"

	"github.com/getkin/kin-openapi/openapi3"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// convertSchema maps a resolved kin-openapi schema onto a schema.Node. A
// reference cycle is cut by emitting an object without properties at the
// point where the cycle closes.
func convertSchema(ref *openapi3.SchemaRef) (*schema.Node, error) {
	return convert(ref, "", map[*openapi3.Schema]bool{})
}

func convert(ref *openapi3.SchemaRef, path string, visiting map[*openapi3.Schema]bool) (*schema.Node, error) {
	if ref == nil || ref.Value == nil {
		return nil, fmt.Errorf("%s: unresolved schema reference %q", displayPath(path), refOf(ref))
	}
	src := ref.Value
	if visiting[src] {
		return &schema.Node{Type: schema.TypeObject, Title: src.Title, Properties: map[string]*schema.Node{}}, nil
	}
	visiting[src] = true
	defer delete(visiting, src)

	typ, err := schemaType(src)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", displayPath(path), err)
	}

	node := &schema.Node{
		Type:        typ,
		Title:       src.Title,
		Description: src.Description,
		Format:      src.Format,
		Default:     src.Default,
	}
	if len(src.Enum) > 0 {
		node.Enum = append([]any(nil), src.Enum...)
	}

	switch typ {
	case schema.TypeObject:
		node.Properties = make(map[string]*schema.Node, len(src.Properties))
		if err := mergeObject(node, src, path, visiting); err != nil {
			return nil, err
		}
	case schema.TypeArray:
		if src.Items != nil {
			items, err := convert(src.Items, path+"[]", visiting)
			if err != nil {
				return nil, err
			}
			node.Items = items
		}
	}
	return node, nil
}

// mergeObject copies properties and required keys of src and of every allOf
// member into node.
func mergeObject(node *schema.Node, src *openapi3.Schema, path string, visiting map[*openapi3.Schema]bool) error {
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil || visiting[member.Value] {
			continue
		}
		visiting[member.Value] = true
		err := mergeObject(node, member.Value, path, visiting)
		delete(visiting, member.Value)
		if err != nil {
			return err
		}
	}
	for name, property := range src.Properties {
		child, err := convert(property, joinPath(path, name), visiting)
		if err != nil {
			return err
		}
		node.Properties[name] = child
	}
	for _, key := range src.Required {
		if !slices.Contains(node.Required, key) {
			node.Required = append(node.Required, key)
		}
	}
	return nil
}

// schemaType reads the declared type, skipping "null". Untyped schemas are
// inferred from their shape, then from the first allOf member that decides a
// type; an allOf of undecided members is an object.
func schemaType(src *openapi3.Schema) (schema.Type, error) {
	typ, ok, err := inferType(src, map[*openapi3.Schema]bool{})
	if err != nil || ok {
		return typ, err
	}
	if len(src.AllOf) > 0 {
		return schema.TypeObject, nil
	}
	return schema.TypeString, nil
}

func inferType(src *openapi3.Schema, seen map[*openapi3.Schema]bool) (schema.Type, bool, error) {
	if seen[src] {
		return "", false, nil
	}
	seen[src] = true
	if src.Type != nil {
		for _, value := range src.Type.Slice() {
			if value == "null" {
				continue
			}
			typ, err := schema.ParseType(value)
			return typ, err == nil, err
		}
	}
	switch {
	case len(src.Properties) > 0:
		return schema.TypeObject, true, nil
	case src.Items != nil:
		return schema.TypeArray, true, nil
	}
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil {
			continue
		}
		if typ, ok, err := inferType(member.Value, seen); err != nil || ok {
			return typ, ok, err
		}
	}
	return "", false, nil
}

// inheritMembers fills what a non-object allOf wrapper leaves unset from its
// members of the same type.
func inheritMembers(node *schema.Node, src *openapi3.Schema, path string, visiting map[*openapi3.Schema]bool) error {
	for _, member := range src.AllOf {
		if member == nil || member.Value == nil || visiting[member.Value] {
			continue
		}
		m, err := convert(member, path, visiting)
		if err != nil {
			return err
		}
		if m.Type != node.Type {
			continue
		}
		if node.Title == "" {
			node.Title = m.Title
		}
		if node.Description == "" {
			node.Description = m.Description
		}
		if node.Format == "" {
			node.Format = m.Format
		}
		if node.Default == nil {
			node.Default = m.Default
		}
		if len(node.Enum) == 0 {
			node.Enum = m.Enum
		}
		if node.Items == nil {
			node.Items = m.Items
		}
	}
	return nil
}

func refOf(ref *openapi3.SchemaRef) string {
	if ref == nil {
		return ""
	}
	return ref.Ref
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}

func displayPath(path string) string {
	if path == "" {
		return "root"
	}
	return path
}
