package vanilla

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	"github.com/goliatone/go-adminsettings/pkg/render"
	rendertemplate "github.com/goliatone/go-adminsettings/pkg/render/template"
	gotemplate "github.com/goliatone/go-adminsettings/pkg/render/template/gotemplate"
)

// DefaultSubmitLabel is the caption of the save button.
const DefaultSubmitLabel = "Save Changes"

type Option func(*config)

type config struct {
	templateFS       fs.FS
	templateRenderer rendertemplate.TemplateRenderer
}

// WithTemplatesFS supplies an alternate template bundle via fs.FS.
func WithTemplatesFS(files fs.FS) Option {
	return func(cfg *config) {
		cfg.templateFS = files
	}
}

// WithTemplatesDir loads templates from a directory on disk.
func WithTemplatesDir(path string) Option {
	return func(cfg *config) {
		if path == "" {
			return
		}
		cfg.templateFS = os.DirFS(path)
	}
}

// WithTemplateRenderer injects a custom template renderer implementation.
func WithTemplateRenderer(renderer rendertemplate.TemplateRenderer) Option {
	return func(cfg *config) {
		if renderer != nil {
			cfg.templateRenderer = renderer
		}
	}
}

// Renderer produces the HTML settings screen: notices, the options form with
// its hidden fields, one table per section and the submit button.
type Renderer struct {
	templates rendertemplate.TemplateRenderer
}

var _ render.Renderer = (*Renderer)(nil)

// New constructs the vanilla renderer applying any provided options.
func New(options ...Option) (*Renderer, error) {
	cfg := config{templateFS: TemplatesFS()}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(&cfg)
	}

	if cfg.templateFS == nil {
		cfg.templateFS = TemplatesFS()
	}

	renderer := cfg.templateRenderer
	if renderer == nil {
		engine, err := gotemplate.New(
			gotemplate.WithFS(cfg.templateFS),
			gotemplate.WithExtension(".tmpl"),
		)
		if err != nil {
			return nil, fmt.Errorf("vanilla renderer: configure template renderer: %w", err)
		}
		renderer = engine
	}

	return &Renderer{templates: renderer}, nil
}

func (r *Renderer) Name() string {
	return "vanilla"
}

func (r *Renderer) ContentType() string {
	return "text/html; charset=utf-8"
}

func (r *Renderer) Render(_ context.Context, page render.Page, options render.RenderOptions) ([]byte, error) {
	if r == nil || r.templates == nil {
		return nil, errors.New("vanilla renderer: template renderer is nil")
	}

	templateName := options.Theme.Partial(PartialPage, PageTemplate)
	result, err := r.templates.RenderTemplate(templateName, pageContext(page, options))
	if err != nil {
		return nil, fmt.Errorf("vanilla renderer: render template: %w", err)
	}
	return []byte(result), nil
}

func pageContext(page render.Page, options render.RenderOptions) map[string]any {
	submit := options.SubmitLabel
	if submit == "" {
		submit = DefaultSubmitLabel
	}

	notices := make([]map[string]any, 0, len(page.Notices))
	for _, n := range page.Notices {
		notices = append(notices, map[string]any{
			"setting":  n.Setting,
			"code":     n.Code,
			"message":  n.Message,
			"severity": string(n.Severity),
		})
	}

	hidden := make([]map[string]any, 0, len(page.Hidden))
	for _, field := range page.Hidden {
		hidden = append(hidden, map[string]any{"name": field.Name, "value": field.Value})
	}

	sections := make([]map[string]any, 0, len(page.Sections))
	for _, section := range page.Sections {
		rows := make([]map[string]any, 0, len(section.Rows))
		for _, row := range section.Rows {
			rows = append(rows, map[string]any{
				"id":       row.ID,
				"label":    row.Label,
				"required": row.Required,
				"control":  row.Control,
			})
		}
		sections = append(sections, map[string]any{
			"id":          section.ID,
			"title":       section.Title,
			"description": sanitizeDescription(section.Description),
			"rows":        rows,
		})
	}

	ctx := map[string]any{
		"page": map[string]any{
			"key":          page.Key,
			"title":        page.Title,
			"action":       page.Action,
			"option_group": page.OptionGroup,
		},
		"notices":      notices,
		"hidden":       hidden,
		"sections":     sections,
		"submit_label": submit,
	}
	if theme := options.Theme; theme != nil {
		cssVars := make(map[string]any, len(theme.CSSVars))
		for name, value := range theme.CSSVars {
			cssVars[name] = value
		}
		ctx["theme"] = map[string]any{
			"name":    theme.Name,
			"variant": theme.Variant,
			"tokens":  theme.Tokens,
		}
		ctx["css_vars"] = cssVars
	}
	return ctx
}
