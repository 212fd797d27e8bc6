// Package bootstrap wires configuration into a ready orchestrator: logger,
// storage backend, page definitions and renderers.
package bootstrap

import (
	"context"
	"errors"
	"fmt"
	"io/fs"
	"os"

	theme "github.com/goliatone/go-theme"
	"go.uber.org/zap"

	"github.com/goliatone/go-adminsettings/internal/config"
	"github.com/goliatone/go-adminsettings/internal/logging"
	"github.com/goliatone/go-adminsettings/pkg/definition"
	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/render"
	rendertemplate "github.com/goliatone/go-adminsettings/pkg/render/template"
	"github.com/goliatone/go-adminsettings/pkg/render/template/gotemplate"
	"github.com/goliatone/go-adminsettings/pkg/renderers/vanilla"
	"github.com/goliatone/go-adminsettings/pkg/settings"
	"github.com/goliatone/go-adminsettings/pkg/store"
	"github.com/goliatone/go-adminsettings/pkg/store/bunstore"
)

// App bundles the wired components. Close releases the storage backend.
type App struct {
	Config       *config.Config
	Logger       *zap.Logger
	Backend      store.Backend
	Registry     *settings.Registry
	Orchestrator *orchestrator.Orchestrator

	closers []func() error
}

// New builds an App from cfg. extra options are applied to the orchestrator
// after the defaults derived from cfg.
func New(ctx context.Context, cfg *config.Config, extra ...orchestrator.Option) (*App, error) {
	logger, err := logging.New(cfg.Logging)
	if err != nil {
		return nil, err
	}
	logger = logger.With(zap.String("plugin", cfg.Plugin.Name), zap.String("version", cfg.Plugin.Version))

	app := &App{Config: cfg, Logger: logger}
	app.closers = append(app.closers, func() error {
		_ = logger.Sync()
		return nil
	})

	fail := func(err error) (*App, error) {
		_ = app.Close()
		return nil, err
	}

	backend, err := app.openBackend(ctx)
	if err != nil {
		return fail(err)
	}
	app.Backend = backend

	doc, err := loadDefinitions(cfg.Definitions)
	if err != nil {
		return fail(err)
	}
	app.Registry = settings.NewRegistry()

	renderers, err := app.renderers()
	if err != nil {
		return fail(err)
	}

	options := []orchestrator.Option{
		orchestrator.WithRegistry(app.Registry),
		orchestrator.WithStore(backend),
		orchestrator.WithLogger(logger),
		orchestrator.WithRendererRegistry(renderers),
	}
	if cfg.Theme.Dir != "" {
		themes, err := app.loadThemes()
		if err != nil {
			return fail(err)
		}
		options = append(options, orchestrator.WithThemeProvider(themes, cfg.Theme.Name, cfg.Theme.Variant))
	}
	app.Orchestrator = orchestrator.New(append(options, extra...)...)

	if err := definition.Apply(doc, app.Registry, nil); err != nil {
		return fail(err)
	}
	logger.Info("settings pages registered", zap.Int("pages", len(app.Registry.Pages())))
	return app, nil
}

// Close releases resources in reverse order of acquisition.
func (a *App) Close() error {
	var first error
	for i := len(a.closers) - 1; i >= 0; i-- {
		if err := a.closers[i](); err != nil && first == nil {
			first = err
		}
	}
	return first
}

func (a *App) openBackend(ctx context.Context) (store.Backend, error) {
	switch a.Config.Storage.Driver {
	case config.DriverPostgres:
		db, err := bunstore.Open(ctx, bunstore.Config{
			DSN:             a.Config.Storage.DSN,
			MaxOpenConns:    a.Config.Storage.MaxOpenConns,
			MaxIdleConns:    a.Config.Storage.MaxIdleConns,
			ConnMaxLifetime: a.Config.Storage.ConnMaxLifetime.Duration(),
		}, a.Logger)
		if err != nil {
			return nil, err
		}
		a.closers = append(a.closers, db.Close)
		if a.Config.Storage.CreateSchema {
			if err := db.CreateSchema(ctx); err != nil {
				return nil, err
			}
		}
		return db, nil
	default:
		a.Logger.Warn("using in-memory settings store; values are lost on exit")
		return store.NewMemory(), nil
	}
}

// renderers registers the vanilla page renderer on the configured template
// engine. Plugin name and version are exposed to templates as `plugin`.
func (a *App) renderers() (*render.Registry, error) {
	cfg := a.Config.Templates
	options := []gotemplate.Option{
		gotemplate.WithFS(vanilla.TemplatesFS()),
		gotemplate.WithExtension(".tmpl"),
		gotemplate.WithGlobalData(map[string]any{
			"plugin": map[string]any{
				"name":    a.Config.Plugin.Name,
				"version": a.Config.Plugin.Version,
			},
		}),
	}
	if cfg.Dir != "" {
		options = append(options, gotemplate.WithBaseDir(cfg.Dir))
	}

	var (
		engine rendertemplate.TemplateRenderer
		err    error
	)
	switch cfg.Engine {
	case config.EngineGoTemplate:
		engine, err = gotemplate.NewUpstream(options...)
	default:
		engine, err = gotemplate.New(options...)
	}
	if err != nil {
		return nil, fmt.Errorf("bootstrap: %s template engine: %w", cfg.Engine, err)
	}

	renderer, err := vanilla.New(vanilla.WithTemplateRenderer(engine))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: page renderer: %w", err)
	}
	registry := render.NewRegistry()
	if err := registry.Register(renderer); err != nil {
		return nil, fmt.Errorf("bootstrap: register renderer: %w", err)
	}
	a.Logger.Debug("page renderer ready", zap.String("engine", cfg.Engine), zap.String("templates_dir", cfg.Dir))
	return registry, nil
}

// loadThemes registers the manifest at the root of the theme directory and
// one per subdirectory. Subdirectories without a readable manifest are
// skipped with a warning; the configured default theme must load.
func (a *App) loadThemes() (*theme.MemoryRegistry, error) {
	dir := a.Config.Theme.Dir
	fsys := os.DirFS(dir)
	entries, err := fs.ReadDir(fsys, ".")
	if err != nil {
		return nil, fmt.Errorf("bootstrap: themes %s: %w", dir, err)
	}

	candidates := []string{"."}
	for _, entry := range entries {
		if entry.IsDir() {
			candidates = append(candidates, entry.Name())
		}
	}

	registry := theme.NewRegistry()
	var errs []error
	for _, candidate := range candidates {
		manifest, err := theme.LoadDir(fsys, candidate)
		if err != nil {
			if candidate != "." {
				a.Logger.Warn("skipping theme directory", zap.String("dir", candidate), zap.Error(err))
			}
			continue
		}
		if err := registry.Register(manifest); err != nil {
			errs = append(errs, fmt.Errorf("%s: %w", candidate, err))
			continue
		}
		a.Logger.Debug("theme registered", zap.String("theme", manifest.Name), zap.String("version", manifest.Version))
	}
	if err := errors.Join(errs...); err != nil {
		return nil, fmt.Errorf("bootstrap: themes %s: %w", dir, err)
	}
	if _, err := registry.Theme(a.Config.Theme.Name); err != nil {
		return nil, fmt.Errorf("bootstrap: default theme: %w", err)
	}
	return registry, nil
}

func loadDefinitions(dir string) (*definition.Document, error) {
	if dir == "" {
		return definition.Default()
	}
	doc, err := definition.LoadFS(os.DirFS(dir))
	if err != nil {
		return nil, fmt.Errorf("bootstrap: definitions %s: %w", dir, err)
	}
	return doc, nil
}
