package orchestrator

import (
	"fmt"
	"strings"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-adminsettings/pkg/render"
)

// themeConfig resolves the theme for a request. The request's theme wins over
// the configured defaults; a nil selector disables theming.
func (o *Orchestrator) themeConfig(req Request) (*render.ThemeConfig, error) {
	if o.themes == nil {
		return nil, nil
	}
	name := firstNonEmpty(req.ThemeName, o.themeName)
	variant := firstNonEmpty(req.ThemeVariant, o.themeVariant)

	selection, err := o.themes.Select(name, variant)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: select theme %q: %w", name, err)
	}
	if selection == nil {
		return nil, nil
	}
	return rendererTheme(selection), nil
}

// rendererTheme flattens a selection into renderer options: variant tokens and
// templates override the manifest's, and every token is exposed as a CSS
// custom property.
func rendererTheme(selection *theme.Selection) *render.ThemeConfig {
	cfg := &render.ThemeConfig{
		Name:     selection.Theme,
		Variant:  selection.Variant,
		Partials: map[string]string{},
		Tokens:   map[string]string{},
		CSSVars:  map[string]string{},
	}

	if manifest := selection.Manifest; manifest != nil {
		if cfg.Name == "" {
			cfg.Name = manifest.Name
		}
		mergeInto(cfg.Tokens, manifest.Tokens)
		mergeInto(cfg.Partials, manifest.Templates)
		if variant, ok := manifest.Variants[selection.Variant]; ok {
			mergeInto(cfg.Tokens, variant.Tokens)
			mergeInto(cfg.Partials, variant.Templates)
		}
	}

	for name, value := range cfg.Tokens {
		cfg.CSSVars["--"+strings.TrimPrefix(name, "--")] = value
	}
	return cfg
}

func mergeInto(dst, src map[string]string) {
	for key, value := range src {
		if strings.TrimSpace(value) == "" {
			continue
		}
		dst[key] = value
	}
}

func firstNonEmpty(values ...string) string {
	for _, value := range values {
		if strings.TrimSpace(value) != "" {
			return value
		}
	}
	return ""
}
