package vanilla

import (
	"embed"
	"io/fs"
)

//go:embed templates/*.tmpl
var embeddedTemplates embed.FS

// PageTemplate is the built-in page layout; themes override it through the
// PartialPage key.
const (
	PageTemplate = "templates/page.tmpl"
	PartialPage  = "settings.page"
)

// TemplatesFS exposes the embedded template bundle so callers can reuse or
// extend it.
func TemplatesFS() fs.FS {
	return embeddedTemplates
}
