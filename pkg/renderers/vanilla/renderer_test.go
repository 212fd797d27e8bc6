package vanilla_test

import (
	"context"
	"strings"
	"testing"
	"testing/fstest"

	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/render"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
)

func samplePage() render.Page {
	return render.Page{
		Key:         "servtake_menu_general_settings",
		Title:       "ServTake Menu",
		Action:      "/options.php",
		OptionGroup: "servtake_menu_general_settings",
		Notices: []notice.Notice{{
			Setting:  "servtake_menu_example_setting",
			Code:     "servtake_menu_example_setting",
			Message:  "There was an error adding this setting.",
			Severity: notice.SeverityError,
		}},
		Hidden: render.OptionPageFields("servtake_menu_general_settings"),
		Sections: []render.Section{{
			ID:          "servtake_menu_general_section",
			Title:       "General",
			Description: `Here you can find <em>some</em> general settings.<script>x()</script>`,
			Rows: []render.Row{{
				ID:       "servtake_menu_menu_data",
				Label:    "Menu Data",
				Required: true,
				Control:  `<textarea id="servtake_menu_menu_data" name="servtake_menu_menu_data" cols="100" rows="20">Soup $5</textarea>`,
			}},
		}},
	}
}

func TestRendererRendersSettingsPage(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), samplePage(), render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)

	for _, want := range []string{
		`class="notice notice-error settings-error is-dismissible"`,
		`There was an error adding this setting.`,
		`<form method="post" action="/options.php">`,
		`<input type="hidden" name="option_page" value="servtake_menu_general_settings" />`,
		`<input type="hidden" name="action" value="update" />`,
		`<h2 id="servtake_menu_general_section">General</h2>`,
		`Here you can find <em>some</em> general settings.`,
		`<label for="servtake_menu_menu_data">Menu Data <span class="required">*</span></label>`,
		`<textarea id="servtake_menu_menu_data"`,
		`value="Save Changes"`,
	} {
		if !strings.Contains(html, want) {
			t.Fatalf("expected %q in output:\n%s", want, html)
		}
	}
	if strings.Contains(html, "<script>") {
		t.Fatalf("section description was not sanitized:\n%s", html)
	}
}

func TestRendererWrapsParagraphDescriptionInDiv(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	page := samplePage()
	page.Sections[0].Description = "<p>Here you can find some general settings.</p>"

	out, err := renderer.Render(context.Background(), page, render.RenderOptions{})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	html := string(out)
	want := `<div class="section-description"><p>Here you can find some general settings.</p></div>`
	if !strings.Contains(html, want) {
		t.Fatalf("expected %q in output:\n%s", want, html)
	}
	if strings.Contains(html, `<p class="section-description">`) {
		t.Fatalf("description must not be nested in a paragraph:\n%s", html)
	}
}

func TestRendererUsesThemePartialAndCSSVars(t *testing.T) {
	files := fstest.MapFS{
		"templates/page.tmpl": {Data: []byte(`default`)},
		"themes/compact.tmpl": {Data: []byte(`<div style="{{ css_vars|cssvars }}">{{ page.title }}|{{ submit_label }}|{{ theme.variant }}</div>`)},
	}
	renderer, err := vanilla.New(vanilla.WithTemplatesFS(files))
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}

	out, err := renderer.Render(context.Background(), samplePage(), render.RenderOptions{
		SubmitLabel: "Update",
		Theme: &render.ThemeConfig{
			Name:     "admin",
			Variant:  "dark",
			Partials: map[string]string{vanilla.PartialPage: "themes/compact.tmpl"},
			CSSVars:  map[string]string{"--brand": "#123456", "--accent": "red"},
		},
	})
	if err != nil {
		t.Fatalf("render: %v", err)
	}
	want := `<div style="--accent: red; --brand: #123456">ServTake Menu|Update|dark</div>`
	if got := string(out); got != want {
		t.Fatalf("got %q, want %q", got, want)
	}
}

func TestRendererMetadata(t *testing.T) {
	renderer, err := vanilla.New()
	if err != nil {
		t.Fatalf("new renderer: %v", err)
	}
	if renderer.Name() != "vanilla" {
		t.Fatalf("unexpected name %q", renderer.Name())
	}
	if !strings.HasPrefix(renderer.ContentType(), "text/html") {
		t.Fatalf("unexpected content type %q", renderer.ContentType())
	}
}
