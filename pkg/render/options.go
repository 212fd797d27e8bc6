package render

// RenderOptions describe per-request data renderers can use to customise
// their output without mutating the assembled page.
type RenderOptions struct {
	// SubmitLabel overrides the submit button caption.
	SubmitLabel string
	// Theme carries the resolved theme selection, if any.
	Theme *ThemeConfig
	// HiddenFields are extra hidden inputs posted with the form, such as a
	// nonce or referer. They cannot replace option_page or action.
	HiddenFields map[string]string
}

// ThemeConfig is the renderer-facing projection of a theme selection.
type ThemeConfig struct {
	Name    string
	Variant string
	// Partials maps logical template keys (e.g. "settings.page") to template
	// paths that replace the built-in ones.
	Partials map[string]string
	Tokens   map[string]string
	// CSSVars are the tokens exposed as custom properties ("--brand").
	CSSVars map[string]string
}

// Partial returns the template override for key, or fallback when none is set.
func (t *ThemeConfig) Partial(key, fallback string) string {
	if t == nil || len(t.Partials) == 0 {
		return fallback
	}
	if value := t.Partials[key]; value != "" {
		return value
	}
	return fallback
}
