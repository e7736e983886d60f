// Package testsupport holds fixture and golden helpers shared by tests.
package testsupport

import (
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// LoadDocument reads a fixture and builds a schema.Document using a file
// source.
func LoadDocument(t *testing.T, path string) schema.Document {
	t.Helper()

	doc, err := LoadDocumentFromPath(path)
	if err != nil {
		t.Fatalf("load document: %v", err)
	}
	return doc
}

// LoadDocumentFromPath returns a Document without requiring testing.T.
func LoadDocumentFromPath(path string) (schema.Document, error) {
	if path == "" {
		return schema.Document{}, errors.New("testsupport: document path is required")
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: read document: %w", err)
	}
	doc, err := schema.NewDocument(schema.SourceFromFile(path), data)
	if err != nil {
		return schema.Document{}, fmt.Errorf("testsupport: new document: %w", err)
	}
	return doc, nil
}

// MustLoadNode loads and parses a schema fixture.
func MustLoadNode(t *testing.T, path string) *schema.Node {
	t.Helper()

	node, err := schema.ParseNode(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("parse schema %s: %v", path, err)
	}
	return node
}

// MustLoadUIHint loads and parses a UI hint fixture.
func MustLoadUIHint(t *testing.T, path string) *schema.UIHint {
	t.Helper()

	hint, err := schema.ParseUIHint(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("parse ui hint %s: %v", path, err)
	}
	return hint
}

// MustLoadValues loads a value fixture.
func MustLoadValues(t *testing.T, path string) map[string]any {
	t.Helper()

	values, err := schema.ParseValues(LoadDocument(t, path))
	if err != nil {
		t.Fatalf("parse values %s: %v", path, err)
	}
	return values
}

// WriteGolden writes value as indented JSON when UPDATE_GOLDENS is set.
// Returns true if the golden was written (test should exit early).
func WriteGolden(t *testing.T, path string, value any) bool {
	t.Helper()

	if os.Getenv("UPDATE_GOLDENS") == "" {
		return false
	}
	payload, err := json.MarshalIndent(value, "", "  ")
	if err != nil {
		t.Fatalf("marshal golden: %v", err)
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		t.Fatalf("mkdir golden dir: %v", err)
	}
	if err := os.WriteFile(path, payload, 0o644); err != nil {
		t.Fatalf("write golden: %v", err)
	}
	return true
}

// MustReadGoldenJSON reads a JSON golden file into a generic value.
func MustReadGoldenJSON(t *testing.T, path string) any {
	t.Helper()

	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("read golden: %v", err)
	}
	var out any
	if err := json.Unmarshal(data, &out); err != nil {
		t.Fatalf("unmarshal golden: %v", err)
	}
	return out
}

// CompareGolden round-trips got through JSON so numeric types match what
// MustReadGoldenJSON returns, then diffs it against want.
func CompareGolden(t *testing.T, want, got any) string {
	t.Helper()

	payload, err := json.Marshal(got)
	if err != nil {
		t.Fatalf("marshal value: %v", err)
	}
	var normalized any
	if err := json.Unmarshal(payload, &normalized); err != nil {
		t.Fatalf("unmarshal value: %v", err)
	}
	return cmp.Diff(want, normalized)
}
