package adminsettings

import (
	"io/fs"

	"github.com/goliatone/go-adminsettings/pkg/definition"
	vanilla "github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
)

// EmbeddedTemplates exposes the built-in page templates so callers can reuse
// or extend them without importing the renderer package directly.
func EmbeddedTemplates() fs.FS {
	return vanilla.TemplatesFS()
}

// EmbeddedDefinitions exposes the built-in page definitions.
func EmbeddedDefinitions() fs.FS {
	return definition.DefaultFS()
}
