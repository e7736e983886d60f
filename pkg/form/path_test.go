package form

import (
	"testing"

	"github.com/google/go-cmp/cmp"
)

func TestSetPath(t *testing.T) {
	values := map[string]any{"name": "old"}

	steps := []struct {
		path  string
		value any
	}{
		{"name", "sr-1"},
		{"host.address", "10.0.0.1"},
		{"host.port", 3260},
		{"tags.1", "ssd"},
		{"disks.0.size", 20},
	}
	for _, step := range steps {
		if err := SetPath(values, step.path, step.value); err != nil {
			t.Fatalf("SetPath(%q): %v", step.path, err)
		}
	}

	want := map[string]any{
		"name":  "sr-1",
		"host":  map[string]any{"address": "10.0.0.1", "port": 3260},
		"tags":  []any{nil, "ssd"},
		"disks": []any{map[string]any{"size": 20}},
	}
	if diff := cmp.Diff(want, values); diff != "" {
		t.Fatalf("values mismatch (-want +got):\n%s", diff)
	}

	got, ok := GetPath(values, "disks.0.size")
	if !ok || got != 20 {
		t.Fatalf("GetPath = %v, %v", got, ok)
	}
	if _, ok := GetPath(values, "host.missing"); ok {
		t.Fatalf("expected missing path")
	}
}

func TestSetPath_Errors(t *testing.T) {
	if err := SetPath(nil, "a", 1); err == nil {
		t.Fatalf("expected error for nil root")
	}
	values := map[string]any{"name": "x"}
	if err := SetPath(values, "", 1); err == nil {
		t.Fatalf("expected error for empty path")
	}
	list := map[string]any{"tags": []any{"a"}}
	if err := SetPath(list, "tags.x", 1); err == nil {
		t.Fatalf("expected error for non-numeric index")
	}
}
