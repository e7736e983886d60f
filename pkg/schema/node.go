package schema

import (
	"fmt"
	"slices"
	"sort"
	"strings"
)

// Type tags a schema node. The set is closed; ParseType rejects anything else.
type Type string

const (
	TypeObject  Type = "object"
	TypeString  Type = "string"
	TypeNumber  Type = "number"
	TypeInteger Type = "integer"
	TypeBoolean Type = "boolean"
	TypeArray   Type = "array"
)

var knownTypes = []Type{TypeObject, TypeString, TypeNumber, TypeInteger, TypeBoolean, TypeArray}

// ParseType normalizes a raw type tag.
func ParseType(raw string) (Type, error) {
	candidate := Type(strings.ToLower(strings.TrimSpace(raw)))
	if slices.Contains(knownTypes, candidate) {
		return candidate, nil
	}
	return "", fmt.Errorf("%w: %q", ErrUnsupportedType, raw)
}

// Types lists every supported tag in declaration order.
func Types() []Type {
	return append([]Type(nil), knownTypes...)
}

// Node is one level of a JSON-schema-like tree. Properties are only present on
// object nodes and Required only references keys of Properties.
type Node struct {
	Type        Type             `json:"type" yaml:"type"`
	Title       string           `json:"title,omitempty" yaml:"title,omitempty"`
	Description string           `json:"description,omitempty" yaml:"description,omitempty"`
	Format      string           `json:"format,omitempty" yaml:"format,omitempty"`
	Default     any              `json:"default,omitempty" yaml:"default,omitempty"`
	Enum        []any            `json:"enum,omitempty" yaml:"enum,omitempty"`
	Items       *Node            `json:"items,omitempty" yaml:"items,omitempty"`
	Properties  map[string]*Node `json:"properties,omitempty" yaml:"properties,omitempty"`
	Required    []string         `json:"required,omitempty" yaml:"required,omitempty"`
}

// IsObject reports whether the node describes a composite value.
func (n *Node) IsObject() bool {
	return n != nil && n.Type == TypeObject
}

// IsRequired reports whether key is listed in the node's required set.
func (n *Node) IsRequired(key string) bool {
	if n == nil {
		return false
	}
	return slices.Contains(n.Required, key)
}

// Property returns the child schema stored under key.
func (n *Node) Property(key string) (*Node, bool) {
	if n == nil || n.Properties == nil {
		return nil, false
	}
	child, ok := n.Properties[key]
	return child, ok && child != nil
}

// Keys returns the declared property names sorted alphabetically.
func (n *Node) Keys() []string {
	if n == nil || len(n.Properties) == 0 {
		return nil
	}
	keys := make([]string, 0, len(n.Properties))
	for key := range n.Properties {
		keys = append(keys, key)
	}
	sort.Strings(keys)
	return keys
}

// Label resolves the display label of a node stored under key.
func (n *Node) Label(key string) string {
	if n != nil && strings.TrimSpace(n.Title) != "" {
		return n.Title
	}
	return key
}

// UIHint mirrors the schema tree with optional presentation overrides. Every
// level, and every field within a level, is optional.
type UIHint struct {
	Widget               string             `json:"widget,omitempty" yaml:"widget,omitempty"`
	Placeholder          string             `json:"placeholder,omitempty" yaml:"placeholder,omitempty"`
	Help                 string             `json:"help,omitempty" yaml:"help,omitempty"`
	Order                []string           `json:"order,omitempty" yaml:"order,omitempty"`
	ForceDisplayOptional bool               `json:"forceDisplayOptional,omitempty" yaml:"forceDisplayOptional,omitempty"`
	Properties           map[string]*UIHint `json:"properties,omitempty" yaml:"properties,omitempty"`
}

// Child returns the hint for key, or nil.
func (h *UIHint) Child(key string) *UIHint {
	if h == nil || h.Properties == nil {
		return nil
	}
	return h.Properties[key]
}

// OrderedKeys lists node's property names, honouring the hint's explicit order
// first and appending the remaining keys alphabetically. Order entries that do
// not name a declared property are skipped.
func OrderedKeys(node *Node, hint *UIHint) []string {
	keys := node.Keys()
	if hint == nil || len(hint.Order) == 0 || len(keys) == 0 {
		return keys
	}
	out := make([]string, 0, len(keys))
	seen := make(map[string]struct{}, len(keys))
	for _, key := range hint.Order {
		key = strings.TrimSpace(key)
		if _, ok := node.Properties[key]; !ok {
			continue
		}
		if _, dup := seen[key]; dup {
			continue
		}
		seen[key] = struct{}{}
		out = append(out, key)
	}
	for _, key := range keys {
		if _, ok := seen[key]; ok {
			continue
		}
		out = append(out, key)
	}
	return out
}

// ParseNode decodes a schema tree from a JSON or YAML document.
func ParseNode(doc Document) (*Node, error) {
	var node Node
	if err := doc.Decode(&node); err != nil {
		return nil, err
	}
	if err := normalizeTypes(&node, ""); err != nil {
		return nil, err
	}
	return &node, nil
}

// ParseUIHint decodes a UI hint tree from a JSON or YAML document.
func ParseUIHint(doc Document) (*UIHint, error) {
	var hint UIHint
	if err := doc.Decode(&hint); err != nil {
		return nil, err
	}
	return &hint, nil
}

// ParseValues decodes a value mapping (defaults or a value to apply).
func ParseValues(doc Document) (map[string]any, error) {
	var values map[string]any
	if err := doc.Decode(&values); err != nil {
		return nil, err
	}
	if values == nil {
		values = make(map[string]any)
	}
	return values, nil
}

func normalizeTypes(node *Node, path string) error {
	if node == nil {
		return nil
	}
	typ, err := ParseType(string(node.Type))
	if err != nil {
		if path == "" {
			return err
		}
		return fmt.Errorf("%s: %w", path, err)
	}
	node.Type = typ
	for key, child := range node.Properties {
		if err := normalizeTypes(child, joinPath(path, key)); err != nil {
			return err
		}
	}
	if node.Items != nil {
		return normalizeTypes(node.Items, joinPath(path, "items"))
	}
	return nil
}

func joinPath(prefix, key string) string {
	if prefix == "" {
		return key
	}
	return prefix + "." + key
}
