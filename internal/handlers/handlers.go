package handlers

import (
	"bytes"
	"errors"
	"html/template"
	"io/fs"
	"net/http"

	"github.com/gorilla/csrf"
	"go.uber.org/zap"

	"nudgepay/internal/api"
	"nudgepay/internal/logger"
	"nudgepay/internal/models"
	"nudgepay/internal/money"
	"nudgepay/internal/session"
	"nudgepay/internal/validation"
)

// formResetEvent is triggered on a form after a successful create.
const formResetEvent = "form-reset"

// Handlers holds dependencies for HTTP handlers.
type Handlers struct {
	api       *api.Client
	reads     *api.Loader
	cookies   *session.Cookies
	templates fs.FS
	log       *zap.Logger
}

// NewHandlers creates a new Handlers instance. Panel reads go through a
// Loader over client so identical concurrent fetches share one API call;
// mutations and the list refetch that follows them use client directly.
func NewHandlers(client *api.Client, cookies *session.Cookies, templates fs.FS, log *zap.Logger) *Handlers {
	if log == nil {
		log = zap.NewNop()
	}
	return &Handlers{
		api:       client,
		reads:     api.NewLoader(client),
		cookies:   cookies,
		templates: templates,
		log:       log,
	}
}

// Page is the data passed to every full page template.
type Page struct {
	Title    string
	LoggedIn bool
	CSRF     template.HTML

	// Panel pages.
	Heading  string
	Message  string
	PanelID  string
	PanelURL string
	Loading  string
	Filters  []Filter

	Data any
}

// Filter is one status filter link above a panel.
type Filter struct {
	Label  string
	URL    string
	Active bool
}

// store returns the token store bound to this request.
func (h *Handlers) store(w http.ResponseWriter, r *http.Request) session.Store {
	return h.cookies.For(w, r)
}

func (h *Handlers) token(w http.ResponseWriter, r *http.Request) (string, bool) {
	return h.store(w, r).Get()
}

var funcs = template.FuncMap{
	"money": money.FormatCents,
	"day":   models.DisplayDate,
	"deref": func(s *string) string {
		if s == nil {
			return ""
		}
		return *s
	},
}

// errorMessage returns the text a panel shows for err. Validation and API
// failures carry their own message, anything else gets fallback.
func errorMessage(err error, fallback string) string {
	var invalid *validation.Error
	if errors.As(err, &invalid) {
		return invalid.Message
	}
	return api.Message(err, fallback)
}

// failure logs a panel error and returns the message to render.
func (h *Handlers) failure(r *http.Request, panel string, err error, fallback string) string {
	var apiErr *api.Error
	fields := []zap.Field{zap.String("panel", panel), zap.Error(err)}
	if errors.As(err, &apiErr) {
		fields = append(fields, zap.Int("api_status", apiErr.Status))
	}
	logger.WithTrace(r.Context(), h.log).Warn("panel failed", fields...)
	return errorMessage(err, fallback)
}

func (h *Handlers) render(w http.ResponseWriter, r *http.Request, viewName string, page Page) {
	tmpl, err := template.New("base.html").Funcs(funcs).ParseFS(h.templates, "base.html", viewName, "partials.html")
	if err != nil {
		h.log.Error("template parse failed", zap.String("view", viewName), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	if page.CSRF == "" {
		page.CSRF = csrf.TemplateField(r)
	}
	target := "base.html"
	if r.Header.Get("HX-Request") == "true" && r.Header.Get("HX-Boosted") != "true" {
		target = "content"
	}
	h.execute(w, tmpl, target, page)
}

// fragment renders one template from partials.html, the unit htmx swaps.
func (h *Handlers) fragment(w http.ResponseWriter, name string, data any) {
	tmpl, err := template.New("partials.html").Funcs(funcs).ParseFS(h.templates, "partials.html")
	if err != nil {
		h.log.Error("template parse failed", zap.String("fragment", name), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	h.execute(w, tmpl, name, data)
}

func (h *Handlers) execute(w http.ResponseWriter, tmpl *template.Template, name string, data any) {
	var buf bytes.Buffer
	if err := tmpl.ExecuteTemplate(&buf, name, data); err != nil {
		h.log.Error("template execution failed", zap.String("template", name), zap.Error(err))
		http.Error(w, "Template error", http.StatusInternalServerError)
		return
	}
	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	_, _ = buf.WriteTo(w)
}

// redirect sends the browser to path, through HX-Redirect for htmx requests.
func redirect(w http.ResponseWriter, r *http.Request, path string) {
	if r.Header.Get("HX-Request") == "true" {
		w.Header().Set("HX-Redirect", path)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, path, http.StatusSeeOther)
}

// panelPage renders a page shell. Without a token the shell carries the
// logged-out message and nothing is fetched; with one it carries a loading
// placeholder that htmx swaps for the panel fragment.
func (h *Handlers) panelPage(w http.ResponseWriter, r *http.Request, page Page, loggedOut string) {
	if _, ok := h.token(w, r); ok {
		page.LoggedIn = true
	} else {
		page.Message = loggedOut
		page.PanelURL = ""
		page.Filters = nil
	}
	h.render(w, r, "panel.html", page)
}

// Home redirects to the dashboard.
func (h *Handlers) Home(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, "/dashboard", http.StatusFound)
}
