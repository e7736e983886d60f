package form

import (
	"fmt"
	"strconv"
	"strings"
)

// GetPath resolves a dotted path ("address.city", "tags.0") inside a value
// mapping such as the one returned by Object.Value.
func GetPath(root map[string]any, path string) (any, bool) {
	if root == nil || path == "" {
		return nil, false
	}
	var current any = root
	for _, segment := range strings.Split(path, ".") {
		switch node := current.(type) {
		case map[string]any:
			next, ok := node[segment]
			if !ok {
				return nil, false
			}
			current = next
		case []any:
			idx, err := strconv.Atoi(segment)
			if err != nil || idx < 0 || idx >= len(node) {
				return nil, false
			}
			current = node[idx]
		default:
			return nil, false
		}
	}
	return current, true
}

// SetPath writes value at a dotted path, creating intermediate maps as needed.
// Numeric segments address slice elements; slices grow to fit.
func SetPath(root map[string]any, path string, value any) error {
	if root == nil {
		return fmt.Errorf("form: set %q: root map is nil", path)
	}
	if path == "" {
		return fmt.Errorf("form: set: empty path")
	}
	segments := strings.Split(path, ".")
	_, err := setSegments(root, segments, value, path)
	return err
}

func setSegments(container any, segments []string, value any, path string) (any, error) {
	segment := segments[0]
	last := len(segments) == 1

	switch node := container.(type) {
	case map[string]any:
		if last {
			node[segment] = value
			return node, nil
		}
		child, err := setSegments(ensureContainer(node[segment], segments[1]), segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		node[segment] = child
		return node, nil

	case []any:
		idx, err := strconv.Atoi(segment)
		if err != nil || idx < 0 {
			return nil, fmt.Errorf("form: set %q: invalid index %q", path, segment)
		}
		if len(node) <= idx {
			node = append(node, make([]any, idx+1-len(node))...)
		}
		if last {
			node[idx] = value
			return node, nil
		}
		child, err := setSegments(ensureContainer(node[idx], segments[1]), segments[1:], value, path)
		if err != nil {
			return nil, err
		}
		node[idx] = child
		return node, nil

	default:
		return nil, fmt.Errorf("form: set %q: segment %q is not a container", path, segment)
	}
}

// ensureContainer keeps existing maps/slices and otherwise allocates the kind
// the next segment expects.
func ensureContainer(existing any, next string) any {
	switch existing.(type) {
	case map[string]any, []any:
		return existing
	}
	if _, err := strconv.Atoi(next); err == nil {
		return []any{}
	}
	return make(map[string]any)
}
