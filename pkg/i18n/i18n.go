// Package i18n provides the string lookup used for form chrome such as the
// optional group toggle. Catalogs are plain locale -> key -> message maps that
// can be loaded from JSON or YAML.
package i18n

import (
	"errors"
	"fmt"
	"strings"
	"sync"

	"github.com/goliatone/go-schemaform/pkg/schema"
)

// KeyFillOptional labels the toggle shown on optional object groups.
const KeyFillOptional = "fillOptionalInformations"

// DefaultLocale is used when callers do not pick one.
const DefaultLocale = "en"

var (
	// ErrMissingTranslator is passed to MissingTranslationHandler when no
	// translator was configured.
	ErrMissingTranslator = errors.New("i18n: translator not configured")
	// ErrMissingTranslation is returned when a key has no message.
	ErrMissingTranslation = errors.New("i18n: missing translation")
)

// Translator resolves a message key for a locale.
type Translator interface {
	Translate(locale, key string, args ...any) (string, error)
}

// MissingTranslationHandler produces the string used when translation fails.
type MissingTranslationHandler func(locale, key string, args []any, err error) string

// Catalog is an in-memory Translator. It is safe for concurrent use.
type Catalog struct {
	mu       sync.RWMutex
	messages map[string]map[string]string
	fallback string
}

// NewCatalog builds a catalog seeded with messages. The fallback locale is
// consulted when a key is missing for the requested locale.
func NewCatalog(messages map[string]map[string]string) *Catalog {
	c := &Catalog{
		messages: make(map[string]map[string]string, len(messages)),
		fallback: DefaultLocale,
	}
	for locale, entries := range messages {
		c.Add(locale, entries)
	}
	return c
}

// LoadCatalog decodes a locale -> key -> message document.
func LoadCatalog(doc schema.Document) (*Catalog, error) {
	var messages map[string]map[string]string
	if err := doc.Decode(&messages); err != nil {
		return nil, fmt.Errorf("i18n: load catalog: %w", err)
	}
	return NewCatalog(messages), nil
}

// Add merges entries into a locale.
func (c *Catalog) Add(locale string, entries map[string]string) {
	locale = normalizeLocale(locale)
	if locale == "" || len(entries) == 0 {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	target := c.messages[locale]
	if target == nil {
		target = make(map[string]string, len(entries))
		c.messages[locale] = target
	}
	for key, msg := range entries {
		target[strings.TrimSpace(key)] = msg
	}
}

// Translate implements Translator. Region-qualified locales ("fr-FR") fall
// back to their base language, then to the catalog fallback.
func (c *Catalog) Translate(locale, key string, args ...any) (string, error) {
	if c == nil {
		return "", ErrMissingTranslator
	}
	c.mu.RLock()
	defer c.mu.RUnlock()

	for _, candidate := range localeChain(normalizeLocale(locale), c.fallback) {
		if msg, ok := c.messages[candidate][key]; ok && strings.TrimSpace(msg) != "" {
			if len(args) > 0 {
				return fmt.Sprintf(msg, args...), nil
			}
			return msg, nil
		}
	}
	return "", fmt.Errorf("%w: %s/%s", ErrMissingTranslation, locale, key)
}

var builtin = NewCatalog(map[string]map[string]string{
	"en": {KeyFillOptional: "Fill optional information"},
	"fr": {KeyFillOptional: "Remplir les informations optionnelles"},
})

// Default returns the built-in catalog.
func Default() Translator {
	return builtin
}

// Lookup translates key with t, falling back to the built-in catalog and
// finally to the key itself.
func Lookup(t Translator, locale, key string, args ...any) string {
	return LookupWith(t, locale, key, nil, args...)
}

// LookupWith is Lookup with a custom handler for keys nobody can translate.
func LookupWith(t Translator, locale, key string, onMissing MissingTranslationHandler, args ...any) string {
	key = strings.TrimSpace(key)
	if key == "" {
		return ""
	}
	if locale == "" {
		locale = DefaultLocale
	}

	var err error = ErrMissingTranslator
	if t != nil {
		var msg string
		msg, err = t.Translate(locale, key, args...)
		if err == nil && strings.TrimSpace(msg) != "" {
			return msg
		}
	}
	if msg, builtinErr := builtin.Translate(locale, key, args...); builtinErr == nil {
		return msg
	}
	if onMissing != nil {
		return onMissing(locale, key, args, err)
	}
	return key
}

func normalizeLocale(locale string) string {
	return strings.ReplaceAll(strings.ToLower(strings.TrimSpace(locale)), "_", "-")
}

func localeChain(locale, fallback string) []string {
	chain := make([]string, 0, 3)
	if locale != "" {
		chain = append(chain, locale)
		if base, _, ok := strings.Cut(locale, "-"); ok && base != "" {
			chain = append(chain, base)
		}
	}
	if fallback != "" && fallback != locale {
		chain = append(chain, fallback)
	}
	return chain
}
