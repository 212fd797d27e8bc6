package render_test

import (
	"context"
	"testing"

	"github.com/google/go-cmp/cmp"

	"github.com/goliatone/go-adminsettings/pkg/render"
)

type namedRenderer string

func (n namedRenderer) Name() string        { return string(n) }
func (n namedRenderer) ContentType() string { return "text/plain" }
func (n namedRenderer) Render(context.Context, render.Page, render.RenderOptions) ([]byte, error) {
	return []byte(n), nil
}

func TestRegistryRejectsDuplicates(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("vanilla"))
	if err := registry.Register(namedRenderer("vanilla")); err == nil {
		t.Fatalf("expected duplicate registration error")
	}
	if err := registry.Register(namedRenderer("")); err == nil {
		t.Fatalf("expected empty name error")
	}
}

func TestRegistryListSorted(t *testing.T) {
	registry := render.NewRegistry()
	registry.MustRegister(namedRenderer("text"))
	registry.MustRegister(namedRenderer("html"))

	if diff := cmp.Diff([]string{"html", "text"}, registry.List()); diff != "" {
		t.Fatalf("names mismatch (-want +got):\n%s", diff)
	}
	if _, err := registry.Get("missing"); err == nil {
		t.Fatalf("expected missing renderer error")
	}
	if !registry.Has("html") {
		t.Fatalf("expected html renderer registered")
	}
}

func TestThemeConfigPartialFallback(t *testing.T) {
	var cfg *render.ThemeConfig
	if got := cfg.Partial("settings.page", "templates/page.tmpl"); got != "templates/page.tmpl" {
		t.Fatalf("nil theme should fall back, got %q", got)
	}
	cfg = &render.ThemeConfig{Partials: map[string]string{"settings.page": "themes/acme/page.tmpl"}}
	if got := cfg.Partial("settings.page", "templates/page.tmpl"); got != "themes/acme/page.tmpl" {
		t.Fatalf("expected override, got %q", got)
	}
}
