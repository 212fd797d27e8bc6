package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"net/url"
	"sort"
	"strings"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminsettings/pkg/model"
	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/render"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla/components"
	"github.com/goliatone/go-adminsettings/pkg/serialize"
	"github.com/goliatone/go-adminsettings/pkg/settings"
	"github.com/goliatone/go-adminsettings/pkg/store"
)

const (
	defaultRendererName = "vanilla"
	// DefaultAction is where the settings form posts.
	DefaultAction = "options.php"

	// UpdatedCode is the notice code of the "Settings saved." banner.
	UpdatedCode    = "settings_updated"
	updatedMessage = "Settings saved."
)

var (
	// ErrUnknownPage is returned for pages the settings registry does not hold.
	ErrUnknownPage = errors.New("orchestrator: unknown page")
	// ErrUnknownField is returned by RenderField for unregistered field names.
	ErrUnknownField = errors.New("orchestrator: unknown field")
	// ErrOptionGroupMismatch is returned when a submission names a different
	// option group than the page it targets.
	ErrOptionGroupMismatch = errors.New("orchestrator: option group mismatch")
	// ErrReadOnly is returned by Submit when no writable backend is configured.
	ErrReadOnly = errors.New("orchestrator: no writable store configured")
)

// Option customises the orchestrator configuration.
type Option func(*Orchestrator)

// WithRegistry injects the settings registry pages are assembled from.
func WithRegistry(registry *settings.Registry) Option {
	return func(o *Orchestrator) {
		o.settings = registry
	}
}

// WithStore sets the backend used for both reads and submissions.
func WithStore(backend store.Backend) Option {
	return func(o *Orchestrator) {
		o.backend = backend
	}
}

// WithResolver overrides how field values are read. Submissions still go to
// the backend configured with WithStore.
func WithResolver(resolver *store.Resolver) Option {
	return func(o *Orchestrator) {
		o.resolver = resolver
	}
}

// WithRendererRegistry injects a page renderer registry.
func WithRendererRegistry(registry *render.Registry) Option {
	return func(o *Orchestrator) {
		o.renderers = registry
	}
}

// WithDefaultRenderer overrides the renderer used when a request omits an
// explicit Renderer field.
func WithDefaultRenderer(name string) Option {
	return func(o *Orchestrator) {
		o.defaultRenderer = name
	}
}

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(o *Orchestrator) {
		if logger != nil {
			o.logger = logger
		}
	}
}

// WithThemeSelector resolves a go-theme selection for each render. name and
// variant are used when a request does not pick its own.
func WithThemeSelector(selector theme.ThemeSelector, name, variant string) Option {
	return func(o *Orchestrator) {
		o.themes = selector
		o.themeName = name
		o.themeVariant = variant
	}
}

// WithThemeProvider selects themes from provider through a go-theme
// Selector, falling back to name when a requested theme is missing.
func WithThemeProvider(provider theme.ThemeProvider, name, variant string) Option {
	return WithThemeSelector(theme.Selector{
		Registry:       provider,
		DefaultTheme:   name,
		DefaultVariant: variant,
	}, name, variant)
}

// WithSerializer replaces the transform applied to `serialized` fields.
func WithSerializer(serializer serialize.Serializer) Option {
	return func(o *Orchestrator) {
		if serializer != nil {
			o.serializer = serializer
		}
	}
}

// WithComponents replaces the field component registry used when a field has
// no render callback of its own.
func WithComponents(registry *components.Registry) Option {
	return func(o *Orchestrator) {
		o.components = registry
	}
}

// WithAction overrides the form post target.
func WithAction(action string) Option {
	return func(o *Orchestrator) {
		if strings.TrimSpace(action) != "" {
			o.action = action
		}
	}
}

// WithTransformer registers a Transformer that runs on every assembled page.
func WithTransformer(t Transformer) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.transformers = append(o.transformers, t)
		}
	}
}

// Orchestrator coordinates registry, stores and renderers. It applies
// defaults (in-memory store, vanilla renderer) so a single constructor call
// is enough to render a page.
type Orchestrator struct {
	settings        *settings.Registry
	backend         store.Backend
	resolver        *store.Resolver
	renderers       *render.Registry
	defaultRenderer string
	logger          *zap.Logger
	themes          theme.ThemeSelector
	themeName       string
	themeVariant    string
	serializer      serialize.Serializer
	components      *components.Registry
	action          string
	transformers    []Transformer
	initialiseErr   error
}

// New constructs an Orchestrator applying any provided options.
func New(options ...Option) *Orchestrator {
	o := &Orchestrator{
		defaultRenderer: defaultRendererName,
		logger:          zap.NewNop(),
		serializer:      serialize.Default,
		action:          DefaultAction,
	}
	for _, opt := range options {
		if opt == nil {
			continue
		}
		opt(o)
	}
	o.applyDefaults()
	return o
}

// Registry returns the settings registry the orchestrator reads.
func (o *Orchestrator) Registry() *settings.Registry {
	return o.settings
}

// Request describes a single page render.
type Request struct {
	// Page is the registry key of the settings page.
	Page string

	// Renderer names the renderer to use. If empty, the orchestrator falls back
	// to the configured default renderer.
	Renderer string

	// ErrorCode is the `error_message` query value, dispatched through the
	// notice table. Unknown codes are logged and dropped.
	ErrorCode string

	// Updated adds the "Settings saved." banner, as after a successful submit.
	Updated bool

	// Notices are queued after any dispatched error.
	Notices []notice.Notice

	ThemeName    string
	ThemeVariant string

	RenderOptions render.RenderOptions
}

// RenderPage resolves and renders every field on req.Page and returns the
// renderer output.
func (o *Orchestrator) RenderPage(ctx context.Context, req Request) ([]byte, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}

	page, err := o.Assemble(ctx, req)
	if err != nil {
		return nil, err
	}

	renderer, err := o.rendererFor(req.Renderer)
	if err != nil {
		return nil, err
	}

	options := req.RenderOptions
	if options.Theme == nil {
		cfg, err := o.themeConfig(req)
		if err != nil {
			return nil, err
		}
		options.Theme = cfg
	}

	output, err := renderer.Render(ctx, page, options)
	if err != nil {
		return nil, fmt.Errorf("orchestrator: render output: %w", err)
	}

	o.logger.Debug("settings page rendered",
		zap.String("page", page.Key),
		zap.String("renderer", renderer.Name()),
		zap.Int("fields", page.FieldCount()),
		zap.Int("notices", len(page.Notices)),
	)
	return output, nil
}

// Assemble builds the renderer-facing page without rendering it. Each field's
// value is read exactly once.
func (o *Orchestrator) Assemble(ctx context.Context, req Request) (render.Page, error) {
	if err := o.ready(ctx); err != nil {
		return render.Page{}, err
	}

	meta, ok := o.settings.Page(req.Page)
	if !ok {
		return render.Page{}, fmt.Errorf("%w %q", ErrUnknownPage, req.Page)
	}

	page := render.Page{
		Key:         meta.Key,
		Title:       meta.Title,
		Action:      o.action,
		OptionGroup: meta.OptionGroup,
		Notices:     o.notices(req),
		Hidden:      hiddenFields(meta.OptionGroup, req.RenderOptions.HiddenFields),
	}

	for _, section := range o.settings.Sections(meta.Key) {
		out := render.Section{ID: section.ID, Title: section.Title}
		if section.Description != nil {
			out.Description = section.Description()
		}
		for _, field := range o.settings.Fields(meta.Key, section.ID) {
			value, err := o.resolver.Resolve(ctx, field.Field)
			if err != nil {
				// Unreadable rows are omitted, never rendered empty.
				o.logger.Error("resolve settings field",
					zap.String("page", meta.Key),
					zap.String("field", field.Field.Name),
					zap.Error(err),
				)
				page.Notices = append(page.Notices, resolveNotice(field.Field, err))
				continue
			}
			control, err := o.renderValue(ctx, field, value)
			if err != nil {
				return render.Page{}, err
			}
			out.Rows = append(out.Rows, render.Row{
				ID:       field.Field.ID,
				Label:    field.Field.Label,
				Required: field.Field.Required,
				Control:  control,
			})
		}
		page.Sections = append(page.Sections, out)
	}

	for _, transformer := range o.transformers {
		if err := transformer.Transform(ctx, &page); err != nil {
			return render.Page{}, fmt.Errorf("orchestrator: transform page: %w", err)
		}
	}
	return page, nil
}

// RenderField renders a single registered field with its stored value.
func (o *Orchestrator) RenderField(ctx context.Context, page, name string) (string, error) {
	if err := o.ready(ctx); err != nil {
		return "", err
	}
	field, ok := o.settings.Field(page, name)
	if !ok {
		return "", fmt.Errorf("%w %q on page %q", ErrUnknownField, name, page)
	}
	return o.renderRegistered(ctx, field)
}

// Resolve returns the stored value of field.
func (o *Orchestrator) Resolve(ctx context.Context, field model.Field) (any, error) {
	if err := o.ready(ctx); err != nil {
		return nil, err
	}
	return o.resolver.Resolve(ctx, field)
}

// RenderValue renders field with an explicit value using the configured
// serializer and components. It is the default render callback.
func (o *Orchestrator) RenderValue(_ context.Context, field model.Field, value any) (string, error) {
	return vanilla.RenderField(field, value,
		vanilla.WithSerializer(o.serializer),
		vanilla.WithComponents(o.components),
	)
}

func (o *Orchestrator) renderRegistered(ctx context.Context, field model.SettingsField) (string, error) {
	value, err := o.resolver.Resolve(ctx, field.Field)
	if err != nil {
		return "", fmt.Errorf("orchestrator: resolve field %q: %w", field.Field.Name, err)
	}
	return o.renderValue(ctx, field, value)
}

func (o *Orchestrator) renderValue(ctx context.Context, field model.SettingsField, value any) (string, error) {
	renderFn := field.Render
	if renderFn == nil {
		renderFn = o.RenderValue
	}
	control, err := renderFn(ctx, field.Field, value)
	if err != nil {
		return "", fmt.Errorf("orchestrator: render field %q: %w", field.Field.Name, err)
	}
	return control, nil
}

// UnavailableCodeSuffix is appended to a field name to form the code of the
// notice raised when the field's stored value cannot be read.
const UnavailableCodeSuffix = "_unavailable"

func resolveNotice(field model.Field, err error) notice.Notice {
	label := field.Label
	if label == "" {
		label = field.Name
	}
	return notice.Notice{
		Setting:  field.Name,
		Code:     field.Name + UnavailableCodeSuffix,
		Message:  fmt.Sprintf("%s could not be loaded: %v", label, err),
		Severity: notice.SeverityError,
	}
}

func (o *Orchestrator) notices(req Request) []notice.Notice {
	list := &notice.Notices{}
	dispatcher := notice.NewDispatcher(list)
	if code := strings.TrimSpace(req.ErrorCode); code != "" {
		if _, err := dispatcher.Dispatch(code); err != nil {
			o.logger.Warn("dropping unknown settings error code",
				zap.String("page", req.Page),
				zap.String("code", code),
				zap.Error(err),
			)
		}
	}
	if req.Updated {
		list.Add(notice.Notice{
			Setting:  "general",
			Code:     UpdatedCode,
			Message:  updatedMessage,
			Severity: notice.SeveritySuccess,
		})
	}
	for _, n := range req.Notices {
		list.Add(n)
	}
	return list.List()
}

// SubmitResult reports what a submission stored.
type SubmitResult struct {
	Page string
	// Saved lists the bound fields written, in binding order.
	Saved []string
	// Ignored lists posted keys that are not bound on the page, sorted.
	Ignored []string
}

// Submit persists every storage-bound field of page from values. A bound
// field absent from values is stored as the empty string, the way an
// unchecked checkbox clears its option. Keys that are not bound, including the
// renamed display control of a disabled field, are never written.
func (o *Orchestrator) Submit(ctx context.Context, page string, values url.Values) (SubmitResult, error) {
	if err := o.ready(ctx); err != nil {
		return SubmitResult{}, err
	}
	if o.backend == nil {
		return SubmitResult{}, ErrReadOnly
	}

	meta, ok := o.settings.Page(page)
	if !ok {
		return SubmitResult{}, fmt.Errorf("%w %q", ErrUnknownPage, page)
	}
	if group := values.Get(render.OptionPageField); group != "" && group != meta.OptionGroup {
		return SubmitResult{}, fmt.Errorf("%w: page %q expects %q, got %q", ErrOptionGroupMismatch, page, meta.OptionGroup, group)
	}

	result := SubmitResult{Page: meta.Key}
	bound := o.settings.Bound(meta.Key)
	var errs []error
	for _, name := range bound {
		field, ok := o.settings.Field(meta.Key, name)
		if !ok {
			continue
		}
		if err := store.Persist(ctx, o.backend, field.Field, values.Get(name)); err != nil {
			errs = append(errs, err)
			continue
		}
		result.Saved = append(result.Saved, name)
	}

	for key := range values {
		if isFormControlKey(key) || o.settings.IsBound(meta.Key, key) {
			continue
		}
		result.Ignored = append(result.Ignored, key)
	}
	sort.Strings(result.Ignored)

	if len(errs) > 0 {
		err := errors.Join(errs...)
		o.logger.Error("settings submission failed",
			zap.String("page", meta.Key),
			zap.Strings("saved", result.Saved),
			zap.Error(err),
		)
		return result, fmt.Errorf("orchestrator: submit %q: %w", meta.Key, err)
	}

	o.logger.Info("settings saved",
		zap.String("page", meta.Key),
		zap.Strings("saved", result.Saved),
		zap.Strings("ignored", result.Ignored),
	)
	return result, nil
}

// hiddenFields puts the option group fields first, followed by the extra
// fields sorted by name.
func hiddenFields(group string, extra map[string]string) []render.HiddenField {
	fields := render.OptionPageFields(group)
	merged := render.MergeHiddenFields(extra)
	for _, reserved := range fields {
		delete(merged, reserved.Name)
	}
	return append(fields, render.SortedHiddenFields(merged)...)
}

func isFormControlKey(key string) bool {
	switch key {
	case render.OptionPageField, render.ActionField, "submit":
		return true
	default:
		return false
	}
}

func (o *Orchestrator) ready(ctx context.Context) error {
	if ctx == nil {
		return errors.New("orchestrator: context is required")
	}
	if err := ctx.Err(); err != nil {
		return err
	}
	return o.initialiseErr
}

func (o *Orchestrator) rendererFor(name string) (render.Renderer, error) {
	if o.renderers == nil {
		return nil, errors.New("orchestrator: renderer registry is nil")
	}

	target := name
	if target == "" {
		target = o.defaultRenderer
	}

	if target != "" {
		renderer, err := o.renderers.Get(target)
		if err == nil {
			return renderer, nil
		}
		if name != "" {
			return nil, fmt.Errorf("orchestrator: renderer %q: %w", name, err)
		}
	}

	names := o.renderers.List()
	if len(names) == 0 {
		return nil, errors.New("orchestrator: no renderers registered")
	}

	renderer, err := o.renderers.Get(names[0])
	if err != nil {
		return nil, fmt.Errorf("orchestrator: renderer %q: %w", names[0], err)
	}
	return renderer, nil
}

func (o *Orchestrator) applyDefaults() {
	if o.settings == nil {
		o.settings = settings.NewRegistry()
	}
	if o.backend == nil && o.resolver == nil {
		o.backend = store.NewMemory()
	}
	if o.resolver == nil {
		o.resolver = store.NewResolver(o.backend, o.backend)
	}
	if o.components == nil {
		o.components = components.NewDefaultRegistry()
	}
	if o.renderers == nil {
		o.renderers = render.NewRegistry()
		renderer, err := vanilla.New()
		if err != nil {
			o.initialiseErr = fmt.Errorf("orchestrator: default renderer: %w", err)
		} else {
			o.renderers.MustRegister(renderer)
		}
	}
	if o.defaultRenderer == "" {
		o.defaultRenderer = defaultRendererName
	}
}
