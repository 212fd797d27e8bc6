// Package admin exposes settings pages over HTTP: GET renders a page, POST
// to the options endpoint saves it and redirects back with a status flag.
package admin

import (
	"errors"
	"net/http"
	"net/url"
	"strings"

	"go.uber.org/zap"

	"github.com/goliatone/go-adminsettings/pkg/notice"
	"github.com/goliatone/go-adminsettings/pkg/orchestrator"
	"github.com/goliatone/go-adminsettings/pkg/render"
)

// Routes served by Handler.
const (
	SettingsPath = "/settings"
	OptionsPath  = "/options.php"
	HealthPath   = "/healthz"
)

// Query parameters understood by the settings page.
const (
	ParamPage     = "page"
	ParamError    = "error_message"
	ParamUpdated  = "settings-updated"
	ParamRenderer = "renderer"
	ParamTheme    = "theme"
	ParamVariant  = "variant"
)

// Option configures a Handler.
type Option func(*Handler)

// WithLogger sets the structured logger.
func WithLogger(logger *zap.Logger) Option {
	return func(h *Handler) {
		if logger != nil {
			h.logger = logger
		}
	}
}

// WithDefaultPage selects the page served when the request names none.
func WithDefaultPage(page string) Option {
	return func(h *Handler) {
		h.defaultPage = page
	}
}

// Handler serves settings pages backed by an orchestrator.
type Handler struct {
	orch        *orchestrator.Orchestrator
	logger      *zap.Logger
	defaultPage string
	mux         *http.ServeMux
}

// New builds the handler and its routes.
func New(orch *orchestrator.Orchestrator, options ...Option) *Handler {
	h := &Handler{orch: orch, logger: zap.NewNop()}
	for _, opt := range options {
		if opt != nil {
			opt(h)
		}
	}
	if h.defaultPage == "" {
		if pages := orch.Registry().Pages(); len(pages) > 0 {
			h.defaultPage = pages[0].Key
		}
	}

	h.mux = http.NewServeMux()
	h.mux.HandleFunc(SettingsPath, h.handleSettings)
	h.mux.HandleFunc(OptionsPath, h.handleOptions)
	h.mux.HandleFunc(HealthPath, func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		_, _ = w.Write([]byte("ok"))
	})
	h.mux.HandleFunc("/", func(w http.ResponseWriter, r *http.Request) {
		if r.URL.Path != "/" {
			http.NotFound(w, r)
			return
		}
		http.Redirect(w, r, SettingsPath, http.StatusFound)
	})
	return h
}

func (h *Handler) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	h.mux.ServeHTTP(w, r)
}

func (h *Handler) handleSettings(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet && r.Method != http.MethodHead {
		methodNotAllowed(w, http.MethodGet, http.MethodHead)
		return
	}
	query := r.URL.Query()
	page := strings.TrimSpace(query.Get(ParamPage))
	if page == "" {
		page = h.defaultPage
	}

	output, err := h.orch.RenderPage(r.Context(), orchestrator.Request{
		Page:         page,
		Renderer:     query.Get(ParamRenderer),
		ErrorCode:    query.Get(ParamError),
		Updated:      query.Get(ParamUpdated) == "true",
		ThemeName:    query.Get(ParamTheme),
		ThemeVariant: query.Get(ParamVariant),
	})
	if err != nil {
		status := http.StatusInternalServerError
		if errors.Is(err, orchestrator.ErrUnknownPage) {
			status = http.StatusNotFound
		}
		h.logger.Error("render settings page", zap.String("page", page), zap.Error(err))
		http.Error(w, http.StatusText(status), status)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	if _, err := w.Write(output); err != nil {
		h.logger.Warn("write settings page", zap.Error(err))
	}
}

func (h *Handler) handleOptions(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		methodNotAllowed(w, http.MethodPost)
		return
	}
	if err := r.ParseForm(); err != nil {
		http.Error(w, "invalid form body", http.StatusBadRequest)
		return
	}

	group := strings.TrimSpace(r.PostForm.Get(render.OptionPageField))
	page, ok := h.pageForGroup(group)
	if !ok {
		h.logger.Warn("submission for unknown option group", zap.String("option_page", group))
		http.Error(w, "unknown option group", http.StatusBadRequest)
		return
	}

	target := url.Values{ParamPage: {page}}
	if _, err := h.orch.Submit(r.Context(), page, r.PostForm); err != nil {
		h.logger.Error("save settings", zap.String("page", page), zap.Error(err))
		target.Set(ParamError, string(notice.CodeSaveFailed))
	} else {
		target.Set(ParamUpdated, "true")
	}
	http.Redirect(w, r, SettingsPath+"?"+target.Encode(), http.StatusSeeOther)
}

func (h *Handler) pageForGroup(group string) (string, bool) {
	if group == "" {
		return "", false
	}
	for _, page := range h.orch.Registry().Pages() {
		if page.OptionGroup == group {
			return page.Key, true
		}
	}
	return "", false
}

func methodNotAllowed(w http.ResponseWriter, allowed ...string) {
	w.Header().Set("Allow", strings.Join(allowed, ", "))
	http.Error(w, http.StatusText(http.StatusMethodNotAllowed), http.StatusMethodNotAllowed)
}
