package tui

import "github.com/goliatone/go-adminsettings/pkg/serialize"

// Theme captures optional formatting hints applied to printed messages.
type Theme struct {
	SectionPrefix  string
	ReadOnlyPrefix string
}

// Option configures the Editor.
type Option func(*Editor)

// WithPromptDriver overrides the prompt driver used by the editor.
func WithPromptDriver(driver PromptDriver) Option {
	return func(e *Editor) {
		if driver != nil {
			e.driver = driver
		}
	}
}

// WithSerializer replaces the transform applied to `serialized` fields, so a
// read-only field re-submits exactly what the HTML form would.
func WithSerializer(serializer serialize.Serializer) Option {
	return func(e *Editor) {
		if serializer != nil {
			e.serializer = serializer
		}
	}
}

// WithTheme applies optional message prefixes.
func WithTheme(theme Theme) Option {
	return func(e *Editor) {
		e.theme = theme
	}
}
