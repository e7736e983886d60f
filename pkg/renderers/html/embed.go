package html

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// Template names used by the renderer. Theme partials may override any of
// them by key.
const (
	TemplatePage   = "templates/page.tmpl"
	TemplateObject = "templates/object.tmpl"
	TemplateField  = "templates/field.tmpl"
)

// Partial keys looked up in theme.RendererConfig.Partials.
const (
	PartialPage   = "forms.page"
	PartialObject = "forms.object"
	PartialField  = "forms.field"
)

// TemplatesFS exposes the embedded template bundle.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
