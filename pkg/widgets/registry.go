package widgets

import (
	"sort"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// Built-in widget kinds resolved by the registry.
const (
	KindObject   = "object"
	KindToggle   = "toggle"
	KindSelect   = "select"
	KindPassword = "password"
	KindTextarea = "textarea"
	KindNumber   = "number"
	KindList     = "list"
	KindText     = "text"
)

// Matcher decides whether a widget kind should handle the supplied props.
type Matcher func(props form.Props) bool

type rule struct {
	name     string
	priority int
	match    Matcher
	order    int
}

// Registry picks the presentation kind of a widget from explicit UI hints or
// registered matchers. Higher priority wins; ties fall back to registration
// order. It is shared across form trees and safe for concurrent use.
type Registry struct {
	mu    sync.RWMutex
	rules []rule
}

// NewRegistry constructs a registry with the built-in matchers registered.
func NewRegistry() *Registry {
	reg := &Registry{}
	reg.registerBuiltins()
	return reg
}

// Register adds a matcher with the provided name and priority. Blank names
// and nil matchers are ignored.
func (r *Registry) Register(name string, priority int, matcher Matcher) {
	if r == nil || matcher == nil {
		return
	}
	trimmed := strings.TrimSpace(name)
	if trimmed == "" {
		return
	}
	r.mu.Lock()
	defer r.mu.Unlock()

	r.rules = append(r.rules, rule{
		name:     trimmed,
		priority: priority,
		match:    matcher,
		order:    len(r.rules),
	})
}

// Resolve returns the kind for props. An explicit UIHint.Widget wins over
// matchers.
func (r *Registry) Resolve(props form.Props) (string, bool) {
	if props.UISchema != nil {
		if explicit := strings.TrimSpace(props.UISchema.Widget); explicit != "" {
			return explicit, true
		}
	}
	if r == nil {
		return "", false
	}
	r.mu.RLock()
	rules := append([]rule(nil), r.rules...)
	r.mu.RUnlock()
	if len(rules) == 0 {
		return "", false
	}
	sort.SliceStable(rules, func(i, j int) bool {
		if rules[i].priority == rules[j].priority {
			return rules[i].order < rules[j].order
		}
		return rules[i].priority > rules[j].priority
	})
	for _, entry := range rules {
		if entry.match(props) {
			return entry.name, true
		}
	}
	return "", false
}

// KindOf resolves the kind of a built widget, defaulting to text.
func (r *Registry) KindOf(w form.Widget) string {
	if _, ok := w.(*form.Object); ok {
		return KindObject
	}
	if kind, ok := r.Resolve(w.Props()); ok {
		return kind
	}
	return KindText
}

func typeIs(props form.Props, types ...schema.Type) bool {
	if props.Schema == nil {
		return false
	}
	for _, typ := range types {
		if props.Schema.Type == typ {
			return true
		}
	}
	return false
}

func formatIs(props form.Props, formats ...string) bool {
	if props.Schema == nil {
		return false
	}
	format := strings.ToLower(strings.TrimSpace(props.Schema.Format))
	for _, candidate := range formats {
		if format == candidate {
			return true
		}
	}
	return false
}

func (r *Registry) registerBuiltins() {
	r.Register(KindObject, 100, func(props form.Props) bool {
		return typeIs(props, schema.TypeObject)
	})
	r.Register(KindToggle, 90, func(props form.Props) bool {
		return typeIs(props, schema.TypeBoolean)
	})
	r.Register(KindList, 80, func(props form.Props) bool {
		return typeIs(props, schema.TypeArray)
	})
	r.Register(KindSelect, 70, func(props form.Props) bool {
		return props.Schema != nil && len(props.Schema.Enum) > 0
	})
	r.Register(KindPassword, 60, func(props form.Props) bool {
		return typeIs(props, schema.TypeString) && formatIs(props, "password")
	})
	r.Register(KindTextarea, 50, func(props form.Props) bool {
		return typeIs(props, schema.TypeString) && formatIs(props, "textarea", "markdown", "json", "yaml")
	})
	r.Register(KindNumber, 40, func(props form.Props) bool {
		return typeIs(props, schema.TypeNumber, schema.TypeInteger)
	})
	r.Register(KindText, 0, func(props form.Props) bool {
		return typeIs(props, schema.TypeString)
	})
}
