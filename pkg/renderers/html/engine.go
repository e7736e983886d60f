package html

import (
	"bytes"
	"errors"
	"fmt"
	"io/fs"
	"strings"
	"sync"

	"github.com/flosch/pongo2/v6"
)

// engine wraps a pongo2 template set with a parsed-template cache. Loaders are
// consulted in order, so caller bundles shadow the embedded defaults.
type engine struct {
	mu sync.RWMutex

	set       *pongo2.TemplateSet
	templates map[string]*pongo2.Template
}

func newEngine(bundles ...fs.FS) (*engine, error) {
	var loaders []pongo2.TemplateLoader
	for _, bundle := range bundles {
		if bundle == nil {
			continue
		}
		loaders = append(loaders, pongo2.NewFSLoader(bundle))
	}
	if len(loaders) == 0 {
		return nil, errors.New("html: need at least one template bundle")
	}
	return &engine{
		set:       pongo2.NewSet("schemaform", loaders...),
		templates: make(map[string]*pongo2.Template),
	}, nil
}

func (e *engine) render(name string, data map[string]any) (string, error) {
	tmpl, err := e.template(name)
	if err != nil {
		return "", err
	}

	var buf bytes.Buffer
	if err := tmpl.ExecuteWriter(pongo2.Context(data), &buf); err != nil {
		return "", fmt.Errorf("html: execute template %q: %w", name, err)
	}
	return buf.String(), nil
}

func (e *engine) template(name string) (*pongo2.Template, error) {
	name = strings.TrimSpace(name)

	e.mu.RLock()
	if tmpl, ok := e.templates[name]; ok {
		e.mu.RUnlock()
		return tmpl, nil
	}
	e.mu.RUnlock()

	e.mu.Lock()
	defer e.mu.Unlock()

	if tmpl, ok := e.templates[name]; ok {
		return tmpl, nil
	}
	tmpl, err := e.set.FromFile(name)
	if err != nil {
		return nil, fmt.Errorf("html: load template %q: %w", name, err)
	}
	e.templates[name] = tmpl
	return tmpl, nil
}
