package widgets

import (
	"fmt"
	"math"
	"strconv"
	"strings"

	"github.com/goliatone/go-schemaform/pkg/form"
	"github.com/goliatone/go-schemaform/pkg/schema"
)

// leaf holds one primitive value. Writes are stored as given; the typed
// accessors below interpret the stored value for renderers.
type leaf struct {
	props form.Props
	value any
}

func newLeaf(props form.Props) leaf {
	return leaf{props: props, value: props.DefaultValue}
}

func (l *leaf) Value() any           { return l.value }
func (l *leaf) SetValue(value any)   { l.value = value }
func (l *leaf) Props() form.Props    { return l.props }
func (l *leaf) Schema() *schema.Node { return l.props.Schema }

// Text is a free-form string input.
type Text struct{ leaf }

// String returns the stored value formatted as text; nil yields "".
func (t *Text) String() string {
	if t.value == nil {
		return ""
	}
	if s, ok := t.value.(string); ok {
		return s
	}
	return fmt.Sprint(t.value)
}

// Number is a numeric input. Integer schemas parse typed text into int64;
// stored values keep whatever type they were written with.
type Number struct{ leaf }

// Integer reports whether the schema type is integer.
func (n *Number) Integer() bool {
	return n.props.Schema != nil && n.props.Schema.Type == schema.TypeInteger
}

// Float returns the stored value as float64 when it is numeric.
func (n *Number) Float() (float64, bool) {
	return toFloat(n.value)
}

// Parse converts raw text into the value the schema expects. Blank input
// yields nil.
func (n *Number) Parse(raw string) (any, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return nil, nil
	}
	if n.Integer() {
		i, err := strconv.ParseInt(raw, 10, 64)
		if err != nil {
			return nil, fmt.Errorf("widgets: %q is not an integer", raw)
		}
		return i, nil
	}
	f, err := strconv.ParseFloat(raw, 64)
	if err != nil {
		return nil, fmt.Errorf("widgets: %q is not a number", raw)
	}
	return f, nil
}

// Format renders the stored number for text prompts; nil yields "".
func (n *Number) Format() string {
	f, ok := n.Float()
	if !ok {
		return ""
	}
	if i, ok := n.value.(int64); ok {
		return strconv.FormatInt(i, 10)
	}
	if f == math.Trunc(f) && math.Abs(f) < 1<<63 {
		return strconv.FormatInt(int64(f), 10)
	}
	return strconv.FormatFloat(f, 'f', -1, 64)
}

// Toggle is a boolean checkbox.
type Toggle struct{ leaf }

// Bool returns the stored value as a bool; nil and non-bool values are false.
func (t *Toggle) Bool() bool {
	b, _ := t.value.(bool)
	return b
}

// Select picks one value from the schema enum.
type Select struct{ leaf }

// Options returns the enum entries formatted for display.
func (s *Select) Options() []string {
	return stringify(s.props.Schema.Enum)
}

// Index returns the position of the stored value in the enum, or -1.
func (s *Select) Index() int {
	if s.value == nil {
		return -1
	}
	current := fmt.Sprint(s.value)
	for i, option := range s.Options() {
		if option == current {
			return i
		}
	}
	return -1
}

// Choose stores the enum entry at idx, keeping its original type.
func (s *Select) Choose(idx int) error {
	enum := s.props.Schema.Enum
	if idx < 0 || idx >= len(enum) {
		return fmt.Errorf("widgets: option %d out of range", idx)
	}
	s.value = enum[idx]
	return nil
}

// List holds an array value.
type List struct{ leaf }

// Items returns the stored slice; non-slice values yield nil.
func (l *List) Items() []any {
	switch v := l.value.(type) {
	case []any:
		return v
	case []string:
		out := make([]any, len(v))
		for i, s := range v {
			out[i] = s
		}
		return out
	default:
		return nil
	}
}

// ItemSchema returns the schema of list entries, if declared.
func (l *List) ItemSchema() *schema.Node {
	if l.props.Schema == nil {
		return nil
	}
	return l.props.Schema.Items
}

func stringify(values []any) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		out = append(out, fmt.Sprint(v))
	}
	return out
}

func toFloat(value any) (float64, bool) {
	switch v := value.(type) {
	case float64:
		return v, true
	case float32:
		return float64(v), true
	case int:
		return float64(v), true
	case int64:
		return float64(v), true
	case int32:
		return float64(v), true
	case uint64:
		return float64(v), true
	default:
		return 0, false
	}
}
