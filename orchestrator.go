package adminsettings

import (
	"context"
	"net/url"

	theme "github.com/goliatone/go-theme"

	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/render"
	"github.com/goliatone/go-adminsettings/pkg/settings"
	"github.com/goliatone/go-adminsettings/pkg/store"
)

// RenderOptions describes per-request renderer overrides.
type RenderOptions = render.RenderOptions

// Request describes a single page render.
type Request = orchestrator.Request

// SubmitResult reports what a submission stored.
type SubmitResult = orchestrator.SubmitResult

// NewOrchestrator exposes the orchestrator constructor from the top-level
// module.
func NewOrchestrator(options ...orchestrator.Option) *orchestrator.Orchestrator {
	return orchestrator.New(options...)
}

// NewRegistry returns an empty settings registry.
func NewRegistry() *settings.Registry {
	return settings.NewRegistry()
}

// WithStore forwards the backend used for reads and submissions.
func WithStore(backend store.Backend) orchestrator.Option {
	return orchestrator.WithStore(backend)
}

// WithThemeSelector passes a go-theme selector through to the orchestrator so
// theme/variant choices are resolved ahead of rendering.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) orchestrator.Option {
	return orchestrator.WithThemeSelector(selector, name, variant)
}

// RenderPage assembles and renders page with the default renderer.
func RenderPage(ctx context.Context, page string, options ...orchestrator.Option) ([]byte, error) {
	return orchestrator.New(options...).RenderPage(ctx, orchestrator.Request{Page: page})
}

// Submit persists the bound fields of page from a posted form.
func Submit(ctx context.Context, page string, values url.Values, options ...orchestrator.Option) (SubmitResult, error) {
	return orchestrator.New(options...).Submit(ctx, page, values)
}
