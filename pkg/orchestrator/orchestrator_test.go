package orchestrator_test

import (
	"context"
	"errors"
	"net/url"
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/render"
	"github.com/goliatone/go-adminsettings/pkg/settings"
	"github.com/goliatone/go-adminsettings/pkg/store"
)

const page = "servtake_menu_general_settings"

type captureRenderer struct {
	page    render.Page
	options render.RenderOptions
}

func (r *captureRenderer) Name() string        { return "capture" }
func (r *captureRenderer) ContentType() string { return "text/plain" }

func (r *captureRenderer) Render(_ context.Context, page render.Page, opts render.RenderOptions) ([]byte, error) {
	r.page = page
	r.options = opts
	return []byte(page.Key), nil
}

func newRegistry(t *testing.T) *settings.Registry {
	t.Helper()
	reg := settings.NewRegistry()
	must := func(err error) {
		t.Helper()
		if err != nil {
			t.Fatalf("registry setup: %v", err)
		}
	}
	must(reg.RegisterPage(model.Page{Key: page, Title: "ServTake Menu"}))
	must(reg.RegisterSection(page, "general", "General", func() string { return "Here you can find some general settings." }))
	must(reg.RegisterField(page, "general", model.Field{
		ID: "menu_data", Name: "menu_data", Label: "Menu Data",
		Type: model.FieldTypeTextarea, DataSource: model.DataSourceOption, Required: true,
	}, nil))
	must(reg.RegisterField(page, "general", model.Field{
		ID: "enabled", Name: "enabled", Label: "Enabled",
		Type: model.FieldTypeInput, Subtype: model.SubtypeCheckbox, DataSource: model.DataSourceOption,
	}, nil))
	must(reg.RegisterField(page, "general", model.Field{
		ID: "api_key", Name: "api_key", Label: "API key",
		Type: model.FieldTypeInput, DataSource: model.DataSourceOption, Disabled: true,
	}, nil))
	must(reg.RegisterField(page, "general", model.Field{
		ID: "price", Name: "price", Label: "Price",
		Type: model.FieldTypeInput, DataSource: model.DataSourcePostMeta, PostID: model.Ptr(int64(7)),
	}, nil))
	for _, name := range []string{"menu_data", "enabled", "api_key", "price"} {
		must(reg.BindStorage(page, name))
	}
	return reg
}

func newOrchestrator(t *testing.T, backend store.Backend, extra ...orchestrator.Option) (*orchestrator.Orchestrator, *captureRenderer) {
	t.Helper()
	renderer := &captureRenderer{}
	renderers := render.NewRegistry()
	renderers.MustRegister(renderer)

	options := []orchestrator.Option{
		orchestrator.WithRegistry(newRegistry(t)),
		orchestrator.WithStore(backend),
		orchestrator.WithRendererRegistry(renderers),
		orchestrator.WithDefaultRenderer(renderer.Name()),
	}
	return orchestrator.New(append(options, extra...)...), renderer
}

func TestRenderPageAssemblesRowsInOrder(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	_ = backend.SetOption(ctx, "menu_data", "Soup $5")
	_ = backend.SetOption(ctx, "enabled", "1")
	_ = backend.SetOption(ctx, "api_key", "secret")

	orch, renderer := newOrchestrator(t, backend)
	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page}); err != nil {
		t.Fatalf("render page: %v", err)
	}

	got := renderer.page
	if got.Title != "ServTake Menu" || got.Action != orchestrator.DefaultAction || got.OptionGroup != page {
		t.Fatalf("unexpected page metadata: %+v", got)
	}
	wantHidden := []render.HiddenField{{Name: "option_page", Value: page}, {Name: "action", Value: "update"}}
	if diff := cmp.Diff(wantHidden, got.Hidden); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
	if len(got.Sections) != 1 || got.Sections[0].Description != "Here you can find some general settings." {
		t.Fatalf("unexpected sections: %+v", got.Sections)
	}

	rows := got.Sections[0].Rows
	var ids []string
	for _, row := range rows {
		ids = append(ids, row.ID)
	}
	if diff := cmp.Diff([]string{"menu_data", "enabled", "api_key", "price"}, ids); diff != "" {
		t.Fatalf("row order mismatch (-want +got):\n%s", diff)
	}
	if !strings.Contains(rows[0].Control, ">Soup $5</textarea>") {
		t.Fatalf("unexpected textarea control: %s", rows[0].Control)
	}
	if !strings.Contains(rows[1].Control, " checked") {
		t.Fatalf("expected checked checkbox: %s", rows[1].Control)
	}
	if !strings.Contains(rows[2].Control, `<input type="hidden" id="api_key" name="api_key" value="secret" />`) {
		t.Fatalf("expected shadow control: %s", rows[2].Control)
	}
	if !rows[0].Required || rows[1].Required {
		t.Fatalf("required flags not propagated")
	}
}

func TestRenderPageNotices(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	orch, renderer := newOrchestrator(t, store.NewMemory(), orchestrator.WithLogger(zap.New(core)))
	ctx := context.Background()

	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page, ErrorCode: "1"}); err != nil {
		t.Fatalf("render page: %v", err)
	}
	if len(renderer.page.Notices) != 1 {
		t.Fatalf("expected one notice, got %+v", renderer.page.Notices)
	}
	descriptor, _ := notice.Describe("1")
	if n := renderer.page.Notices[0]; n.Message != descriptor.Message || n.Severity != notice.SeverityError {
		t.Fatalf("unexpected notice %+v", n)
	}

	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page, ErrorCode: "2"}); err != nil {
		t.Fatalf("render page: %v", err)
	}
	if len(renderer.page.Notices) != 0 {
		t.Fatalf("unknown code must not produce a notice: %+v", renderer.page.Notices)
	}
	if logs.FilterMessage("dropping unknown settings error code").Len() != 1 {
		t.Fatalf("expected unknown code to be logged, got %v", logs.All())
	}

	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page, Updated: true}); err != nil {
		t.Fatalf("render page: %v", err)
	}
	if len(renderer.page.Notices) != 1 || renderer.page.Notices[0].Severity != notice.SeveritySuccess {
		t.Fatalf("expected saved banner, got %+v", renderer.page.Notices)
	}
}

func TestRenderPageSurfacesResolveErrors(t *testing.T) {
	boom := errors.New("boom")
	mem := store.NewMemory()
	core, logs := observer.New(zapcore.DebugLevel)
	orch, renderer := newOrchestrator(t, mem,
		orchestrator.WithLogger(zap.New(core)),
		orchestrator.WithResolver(store.NewResolver(keyFailingOptions{Memory: mem, key: "enabled", err: boom}, mem)),
	)
	ctx := context.Background()

	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page}); err != nil {
		t.Fatalf("render page: %v", err)
	}

	var rows []string
	for _, row := range renderer.page.Sections[0].Rows {
		rows = append(rows, row.ID)
	}
	if diff := cmp.Diff([]string{"menu_data", "api_key", "price"}, rows); diff != "" {
		t.Fatalf("rows mismatch (-want +got):\n%s", diff)
	}

	want := []notice.Notice{{
		Setting:  "enabled",
		Code:     "enabled" + orchestrator.UnavailableCodeSuffix,
		Message:  "Enabled could not be loaded: boom",
		Severity: notice.SeverityError,
	}}
	if diff := cmp.Diff(want, renderer.page.Notices); diff != "" {
		t.Fatalf("notices mismatch (-want +got):\n%s", diff)
	}
	if logs.FilterMessage("resolve settings field").Len() != 1 {
		t.Fatalf("expected resolve failure to be logged, got %v", logs.All())
	}

	if _, err := orch.RenderField(ctx, page, "enabled"); !errors.Is(err, boom) {
		t.Fatalf("expected single-field render to return resolve error, got %v", err)
	}
}

func TestRenderPageUnknownPage(t *testing.T) {
	orch, _ := newOrchestrator(t, store.NewMemory())
	_, err := orch.RenderPage(context.Background(), orchestrator.Request{Page: "missing"})
	if !errors.Is(err, orchestrator.ErrUnknownPage) {
		t.Fatalf("expected ErrUnknownPage, got %v", err)
	}
}

func TestRenderFieldUsesCustomCallback(t *testing.T) {
	reg := settings.NewRegistry()
	_ = reg.RegisterSection(page, "general", "General", nil)
	custom := func(_ context.Context, field model.Field, value any) (string, error) {
		return field.Name + ":" + value.(string), nil
	}
	if err := reg.RegisterField(page, "general", model.Field{
		ID: "motd", Name: "motd", Type: model.FieldTypeInput, DataSource: model.DataSourceOption,
	}, custom); err != nil {
		t.Fatalf("field: %v", err)
	}
	backend := store.NewMemory()
	_ = backend.SetOption(context.Background(), "motd", "hello")

	orch := orchestrator.New(orchestrator.WithRegistry(reg), orchestrator.WithStore(backend))
	got, err := orch.RenderField(context.Background(), page, "motd")
	if err != nil {
		t.Fatalf("render field: %v", err)
	}
	if got != "motd:hello" {
		t.Fatalf("got %q", got)
	}

	if _, err := orch.RenderField(context.Background(), page, "nope"); !errors.Is(err, orchestrator.ErrUnknownField) {
		t.Fatalf("expected ErrUnknownField, got %v", err)
	}
}

func TestSubmitPersistsBoundFields(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	_ = backend.SetOption(ctx, "enabled", "1")
	_ = backend.SetOption(ctx, "api_key", "secret")

	orch, _ := newOrchestrator(t, backend)
	values := url.Values{
		"option_page":      {page},
		"action":           {"update"},
		"menu_data":        {"Soup $5"},
		"api_key":          {"secret"},
		"api_key_disabled": {"tampered"},
		"price":            {"4.50"},
		"rogue":            {"x"},
	}

	result, err := orch.Submit(ctx, page, values)
	if err != nil {
		t.Fatalf("submit: %v", err)
	}
	if diff := cmp.Diff([]string{"menu_data", "enabled", "api_key", "price"}, result.Saved); diff != "" {
		t.Fatalf("saved mismatch (-want +got):\n%s", diff)
	}
	if diff := cmp.Diff([]string{"api_key_disabled", "rogue"}, result.Ignored); diff != "" {
		t.Fatalf("ignored mismatch (-want +got):\n%s", diff)
	}

	checks := map[string]any{"menu_data": "Soup $5", "enabled": "", "api_key": "secret"}
	for name, want := range checks {
		got, _, _ := backend.GetOption(ctx, name)
		if got != want {
			t.Fatalf("option %s = %v, want %v", name, got, want)
		}
	}
	if _, ok, _ := backend.GetOption(ctx, "api_key_disabled"); ok {
		t.Fatalf("display control must never be persisted")
	}
	if _, ok, _ := backend.GetOption(ctx, "rogue"); ok {
		t.Fatalf("unbound key persisted")
	}
	if got, _, _ := backend.GetPostMeta(ctx, 7, "price"); got != "4.50" {
		t.Fatalf("post meta price = %v", got)
	}
}

func TestSubmitRoundTripPreservesDisabledValue(t *testing.T) {
	ctx := context.Background()
	backend := store.NewMemory()
	_ = backend.SetOption(ctx, "api_key", "secret")
	orch, renderer := newOrchestrator(t, backend)

	if _, err := orch.RenderPage(ctx, orchestrator.Request{Page: page}); err != nil {
		t.Fatalf("render: %v", err)
	}
	control := renderer.page.Sections[0].Rows[2].Control

	// A browser posts the hidden shadow control and skips the disabled one.
	posted := url.Values{"option_page": {page}}
	if strings.Contains(control, `type="hidden" id="api_key" name="api_key" value="secret"`) {
		posted.Set("api_key", "secret")
	}
	if _, err := orch.Submit(ctx, page, posted); err != nil {
		t.Fatalf("submit: %v", err)
	}
	if got, _, _ := backend.GetOption(ctx, "api_key"); got != "secret" {
		t.Fatalf("disabled value lost, got %v", got)
	}
}

func TestSubmitRejectsWrongOptionGroup(t *testing.T) {
	orch, _ := newOrchestrator(t, store.NewMemory())
	_, err := orch.Submit(context.Background(), page, url.Values{"option_page": {"other"}})
	if !errors.Is(err, orchestrator.ErrOptionGroupMismatch) {
		t.Fatalf("expected ErrOptionGroupMismatch, got %v", err)
	}
}

func TestSubmitReportsStoreErrors(t *testing.T) {
	core, logs := observer.New(zapcore.InfoLevel)
	boom := errors.New("disk full")
	orch, _ := newOrchestrator(t, failingBackend{Memory: store.NewMemory(), err: boom}, orchestrator.WithLogger(zap.New(core)))

	_, err := orch.Submit(context.Background(), page, url.Values{})
	if !errors.Is(err, boom) {
		t.Fatalf("expected store error, got %v", err)
	}
	if logs.FilterMessage("settings submission failed").Len() != 1 {
		t.Fatalf("expected failure log, got %v", logs.All())
	}
}

func TestSubmitWithoutBackendIsReadOnly(t *testing.T) {
	orch := orchestrator.New(
		orchestrator.WithRegistry(newRegistry(t)),
		orchestrator.WithResolver(store.NewResolver(store.NewMemory(), nil)),
	)
	if _, err := orch.Submit(context.Background(), page, url.Values{}); !errors.Is(err, orchestrator.ErrReadOnly) {
		t.Fatalf("expected ErrReadOnly, got %v", err)
	}
}

func TestTransformerRunsBeforeRender(t *testing.T) {
	orch, renderer := newOrchestrator(t, store.NewMemory(), orchestrator.WithTransformer(
		orchestrator.TransformerFunc(func(_ context.Context, p *render.Page) error {
			p.Title = strings.ToUpper(p.Title)
			return nil
		}),
	))
	if _, err := orch.RenderPage(context.Background(), orchestrator.Request{Page: page}); err != nil {
		t.Fatalf("render: %v", err)
	}
	if renderer.page.Title != "SERVTAKE MENU" {
		t.Fatalf("transformer not applied: %q", renderer.page.Title)
	}
}

func TestRenderPageAppendsExtraHiddenFields(t *testing.T) {
	orch, renderer := newOrchestrator(t, store.NewMemory())
	req := orchestrator.Request{Page: page, RenderOptions: render.RenderOptions{
		HiddenFields: map[string]string{
			"_wpnonce":         "abc",
			"_wp_http_referer": "/settings",
			"option_page":      "hijacked",
		},
	}}
	if _, err := orch.RenderPage(context.Background(), req); err != nil {
		t.Fatalf("render: %v", err)
	}
	want := []render.HiddenField{
		{Name: "option_page", Value: page},
		{Name: "action", Value: "update"},
		{Name: "_wp_http_referer", Value: "/settings"},
		{Name: "_wpnonce", Value: "abc"},
	}
	if diff := cmp.Diff(want, renderer.page.Hidden); diff != "" {
		t.Fatalf("hidden fields mismatch (-want +got):\n%s", diff)
	}
}

type keyFailingOptions struct {
	*store.Memory
	key string
	err error
}

func (f keyFailingOptions) GetOption(ctx context.Context, name string) (any, bool, error) {
	if name == f.key {
		return nil, false, f.err
	}
	return f.Memory.GetOption(ctx, name)
}

type failingBackend struct {
	*store.Memory
	err error
}

func (f failingBackend) SetOption(context.Context, string, any) error {
	return f.err
}
