package i18n

import (
	"errors"
	"testing"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

func TestCatalog_TranslateWithFallbacks(t *testing.T) {
	c := NewCatalog(map[string]map[string]string{
		"en": {"greeting": "Hello %s", "only.en": "English"},
		"de": {"greeting": "Hallo %s"},
	})

	cases := []struct {
		locale string
		key    string
		args   []any
		want   string
	}{
		{"de", "greeting", []any{"Ada"}, "Hallo Ada"},
		{"de-AT", "greeting", []any{"Ada"}, "Hallo Ada"},
		{"DE_at", "greeting", []any{"Ada"}, "Hallo Ada"},
		{"de", "only.en", nil, "English"},
		{"", "only.en", nil, "English"},
	}
	for _, tc := range cases {
		got, err := c.Translate(tc.locale, tc.key, tc.args...)
		if err != nil {
			t.Fatalf("Translate(%q, %q): %v", tc.locale, tc.key, err)
		}
		if got != tc.want {
			t.Fatalf("Translate(%q, %q) = %q, want %q", tc.locale, tc.key, got, tc.want)
		}
	}

	if _, err := c.Translate("de", "nope"); !errors.Is(err, ErrMissingTranslation) {
		t.Fatalf("expected ErrMissingTranslation, got %v", err)
	}
}

func TestLookup_BuiltinAndKeyFallback(t *testing.T) {
	if got := Lookup(nil, "", KeyFillOptional); got != "Fill optional information" {
		t.Fatalf("builtin lookup = %q", got)
	}
	if got := Lookup(nil, "fr-CA", KeyFillOptional); got != "Remplir les informations optionnelles" {
		t.Fatalf("builtin fr lookup = %q", got)
	}
	if got := Lookup(nil, "en", "unknown.key"); got != "unknown.key" {
		t.Fatalf("key fallback = %q", got)
	}

	custom := NewCatalog(map[string]map[string]string{"en": {KeyFillOptional: "Show more"}})
	if got := Lookup(custom, "en", KeyFillOptional); got != "Show more" {
		t.Fatalf("custom lookup = %q", got)
	}
}

func TestLookupWith_MissingHandler(t *testing.T) {
	var gotErr error
	msg := LookupWith(nil, "en", "missing", func(locale, key string, _ []any, err error) string {
		gotErr = err
		return "[" + locale + ":" + key + "]"
	})
	if msg != "[en:missing]" {
		t.Fatalf("handler output = %q", msg)
	}
	if !errors.Is(gotErr, ErrMissingTranslator) {
		t.Fatalf("expected ErrMissingTranslator, got %v", gotErr)
	}
}

func TestLoadCatalog_YAML(t *testing.T) {
	doc := schema.MustNewDocument(schema.SourceInline("catalog"), []byte(`
es:
  fillOptionalInformations: Rellenar información opcional
`))
	c, err := LoadCatalog(doc)
	if err != nil {
		t.Fatalf("load: %v", err)
	}
	if got := Lookup(c, "es", KeyFillOptional); got != "Rellenar información opcional" {
		t.Fatalf("lookup = %q", got)
	}
}
