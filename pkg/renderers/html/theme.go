package html

import (
	"errors"
	"fmt"
	"maps"
	"strings"

	theme "github.com/goliatone/go-theme"
)

var (
	// ErrUnknownTheme is returned when a selection names an unregistered theme.
	ErrUnknownTheme = errors.New("html: unknown theme")
	// ErrUnknownVariant is returned when a theme does not declare the variant.
	ErrUnknownVariant = errors.New("html: unknown theme variant")
)

// DefaultPartials maps the renderer partial keys onto the embedded templates.
// Theme templates override these entries.
func DefaultPartials() map[string]string {
	return map[string]string{
		PartialPage:   TemplatePage,
		PartialObject: TemplateObject,
		PartialField:  TemplateField,
	}
}

// ManifestSelector resolves theme/variant pairs against go-theme manifests.
type ManifestSelector struct {
	manifests      map[string]*theme.Manifest
	defaultTheme   string
	defaultVariant string
}

var _ theme.ThemeSelector = (*ManifestSelector)(nil)

// NewManifestSelector registers manifests with a go-theme registry, which
// rejects invalid or duplicate manifests. With a single manifest and no
// default theme, that manifest becomes the default.
func NewManifestSelector(defaultTheme, defaultVariant string, manifests ...*theme.Manifest) (*ManifestSelector, error) {
	registry := theme.NewRegistry()
	s := &ManifestSelector{
		manifests:      make(map[string]*theme.Manifest, len(manifests)),
		defaultTheme:   defaultTheme,
		defaultVariant: defaultVariant,
	}
	for _, manifest := range manifests {
		if manifest == nil {
			continue
		}
		if err := registry.Register(manifest); err != nil {
			return nil, fmt.Errorf("html: register theme %q: %w", manifest.Name, err)
		}
		s.manifests[manifest.Name] = manifest
		if s.defaultTheme == "" && len(manifests) == 1 {
			s.defaultTheme = manifest.Name
		}
	}
	return s, nil
}

// Select returns the manifest registered under name. Empty arguments fall back
// to the selector defaults.
func (s *ManifestSelector) Select(name, variant string, _ ...theme.QueryOption) (*theme.Selection, error) {
	if name == "" {
		name = s.defaultTheme
	}
	if variant == "" {
		variant = s.defaultVariant
	}
	manifest, ok := s.manifests[name]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrUnknownTheme, name)
	}
	if variant != "" {
		if _, ok := manifest.Variants[variant]; !ok {
			return nil, fmt.Errorf("%w: %s/%s", ErrUnknownVariant, name, variant)
		}
	}
	return &theme.Selection{Theme: name, Variant: variant, Manifest: manifest}, nil
}

// ConfigFromSelection flattens a selection into the renderer config: partials
// are fallbacks overlaid by theme then variant templates, tokens are merged
// the same way and each token becomes a --token CSS variable. AssetURL looks
// keys up in the variant assets first.
func ConfigFromSelection(sel *theme.Selection, fallbacks map[string]string) *theme.RendererConfig {
	if sel == nil {
		return nil
	}
	rc := &theme.RendererConfig{
		Theme:    sel.Theme,
		Variant:  sel.Variant,
		Partials: maps.Clone(fallbacks),
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}
	if rc.Partials == nil {
		rc.Partials = map[string]string{}
	}

	manifest := sel.Manifest
	if manifest == nil {
		rc.AssetURL = func(string) string { return "" }
		return rc
	}
	variant := manifest.Variants[sel.Variant]

	maps.Copy(rc.Partials, manifest.Templates)
	maps.Copy(rc.Partials, variant.Templates)
	maps.Copy(rc.Tokens, manifest.Tokens)
	maps.Copy(rc.Tokens, variant.Tokens)
	for key, value := range rc.Tokens {
		rc.CSSVars["--"+strings.TrimPrefix(key, "--")] = value
	}

	base, variantAssets := manifest.Assets, variant.Assets
	rc.AssetURL = func(key string) string {
		prefix := base.Prefix
		if variantAssets.Prefix != "" {
			prefix = variantAssets.Prefix
		}
		file, ok := variantAssets.Files[key]
		if !ok {
			if file, ok = base.Files[key]; !ok {
				return ""
			}
		}
		if prefix == "" || strings.Contains(file, "://") || strings.HasPrefix(file, "/") {
			return file
		}
		return strings.TrimRight(prefix, "/") + "/" + file
	}
	return rc
}
