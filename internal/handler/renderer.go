package handler

import (
	"bytes"
	"context"
	"fmt"
	"html/template"
	"io"
	"io/fs"
	"log/slog"
	"net/http"
	"path"
	"strings"
	"sync"

	"github.com/a-h/templ"

	"github.com/DukeRupert/parkiez/internal/templ/components/toast"
)

// ToastData holds data for rendering a toast notification.
type ToastData = toast.Data

// nestedPageDirs are page directories rendered with the app layout and
// stored as "<dir>/<page>".
var nestedPageDirs = []string{"attendants"}

// Renderer manages template parsing and rendering with isolated template sets.
// It supports two layouts:
//   - "auth" layout for unauthenticated pages (login)
//   - "app" layout for authenticated pages (dashboard, attendants, analytics)
//
// Templates are read from an fs.FS organized as:
//   - layouts/auth.html, layouts/app.html - base layouts
//   - partials/*.html - fragments for htmx responses, also usable from pages
//   - pages/auth/*.html - auth pages (use auth layout)
//   - pages/*.html, pages/<dir>/*.html - app pages (use app layout)
type Renderer struct {
	templates map[string]*template.Template
	partials  *template.Template
	logger    *slog.Logger
	isDev     bool
	mu        sync.RWMutex

	fsys fs.FS
}

// RendererConfig holds configuration for the renderer.
type RendererConfig struct {
	FS     fs.FS
	Logger *slog.Logger
	IsDev  bool // reload templates on every render
}

// NewRenderer creates a new template renderer.
func NewRenderer(cfg RendererConfig) (*Renderer, error) {
	r := &Renderer{
		templates: make(map[string]*template.Template),
		logger:    cfg.Logger,
		isDev:     cfg.IsDev,
		fsys:      cfg.FS,
	}

	if err := r.loadTemplates(); err != nil {
		return nil, err
	}

	return r, nil
}

func (r *Renderer) loadTemplates() error {
	templates := make(map[string]*template.Template)

	partialFiles, err := fs.Glob(r.fsys, "partials/*.html")
	if err != nil {
		return fmt.Errorf("failed to glob partials: %w", err)
	}

	// All partials share one set so a partial can include another
	partials := template.New("partials").Funcs(TemplateFuncs())
	if len(partialFiles) > 0 {
		partials, err = partials.ParseFS(r.fsys, partialFiles...)
		if err != nil {
			return fmt.Errorf("failed to parse partials: %w", err)
		}
	}

	layout := func(name string) (*template.Template, error) {
		tmpl, err := template.New(name).Funcs(TemplateFuncs()).ParseFS(r.fsys, path.Join("layouts", name+".html"))
		if err != nil {
			return nil, fmt.Errorf("failed to parse %s layout: %w", name, err)
		}
		if len(partialFiles) > 0 {
			tmpl, err = tmpl.ParseFS(r.fsys, partialFiles...)
			if err != nil {
				return nil, fmt.Errorf("failed to parse partials into %s layout: %w", name, err)
			}
		}
		return tmpl, nil
	}

	authBase, err := layout("auth")
	if err != nil {
		return err
	}
	appBase, err := layout("app")
	if err != nil {
		return err
	}

	addPages := func(base *template.Template, pattern, prefix string) error {
		pages, err := fs.Glob(r.fsys, pattern)
		if err != nil {
			return fmt.Errorf("failed to glob %s: %w", pattern, err)
		}
		for _, page := range pages {
			pageTmpl, err := base.Clone()
			if err != nil {
				return fmt.Errorf("failed to clone template for %s: %w", page, err)
			}
			pageTmpl, err = pageTmpl.ParseFS(r.fsys, page)
			if err != nil {
				return fmt.Errorf("failed to parse page %s: %w", page, err)
			}
			// Store as "auth/login", "dashboard", "attendants/new", etc.
			templates[prefix+strings.TrimSuffix(path.Base(page), ".html")] = pageTmpl
		}
		return nil
	}

	if err := addPages(authBase, "pages/auth/*.html", "auth/"); err != nil {
		return err
	}
	if err := addPages(appBase, "pages/*.html", ""); err != nil {
		return err
	}
	for _, dir := range nestedPageDirs {
		if err := addPages(appBase, path.Join("pages", dir, "*.html"), dir+"/"); err != nil {
			return err
		}
	}

	r.mu.Lock()
	r.templates = templates
	r.partials = partials
	r.mu.Unlock()

	r.logger.Debug("templates loaded", "pages", len(templates), "partials", len(partialFiles))
	return nil
}

// Reload reloads all templates. Useful for development.
func (r *Renderer) Reload() error {
	return r.loadTemplates()
}

func (r *Renderer) reloadIfDev() error {
	if !r.isDev {
		return nil
	}
	if err := r.Reload(); err != nil {
		return fmt.Errorf("template reload failed: %w", err)
	}
	return nil
}

// Render renders a page to an io.Writer.
func (r *Renderer) Render(w io.Writer, name string, data interface{}) error {
	if err := r.reloadIfDev(); err != nil {
		return err
	}

	r.mu.RLock()
	tmpl, ok := r.templates[name]
	r.mu.RUnlock()

	if !ok {
		return fmt.Errorf("template %q not found", name)
	}

	return tmpl.ExecuteTemplate(w, getBaseTemplateName(name), data)
}

// Component returns the named partial as a templ component, so partials can
// be composed with other components in one response.
func (r *Renderer) Component(name string, data interface{}) (templ.Component, error) {
	r.mu.RLock()
	tmpl := r.partials.Lookup(name)
	r.mu.RUnlock()

	if tmpl == nil {
		return nil, fmt.Errorf("partial %q not found", name)
	}
	return templ.FromGoHTML(tmpl, data), nil
}

// RenderHTTP renders a page directly to an http.ResponseWriter.
func (r *Renderer) RenderHTTP(w http.ResponseWriter, name string, data interface{}) {
	r.RenderHTTPStatus(w, http.StatusOK, name, data)
}

// RenderHTTPStatus renders a page with the given status code.
func (r *Renderer) RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{}) {
	// Render to buffer first to catch errors before writing headers
	var buf bytes.Buffer
	if err := r.Render(&buf, name, data); err != nil {
		r.logger.Error("template execution failed", "name", name, "error", err)
		http.Error(w, "Template execution failed", http.StatusInternalServerError)
		return
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)
	buf.WriteTo(w)
}

// RenderPartial renders a partial template (for htmx responses).
// The partial file should contain {{define "name"}}...{{end}} where name matches the file name.
func (r *Renderer) RenderPartial(w http.ResponseWriter, name string, data interface{}) {
	r.renderComponents(w, name, data)
}

// RenderPartialWithToast renders a partial and appends an OOB toast
// notification.
func (r *Renderer) RenderPartialWithToast(w http.ResponseWriter, name string, data interface{}, t ToastData) {
	r.renderComponents(w, name, data, toast.OOB(t))
}

func (r *Renderer) renderComponents(w http.ResponseWriter, name string, data interface{}, extra ...templ.Component) {
	if err := r.reloadIfDev(); err != nil {
		r.logger.Error("template reload failed", "error", err)
		http.Error(w, "Template reload failed", http.StatusInternalServerError)
		return
	}

	partial, err := r.Component(name, data)
	if err != nil {
		r.logger.Error("partial template not found", "name", name)
		http.Error(w, "Partial not found", http.StatusInternalServerError)
		return
	}

	var buf bytes.Buffer
	for _, c := range append([]templ.Component{partial}, extra...) {
		if err := c.Render(context.Background(), &buf); err != nil {
			r.logger.Error("partial execution failed", "name", name, "error", err)
			http.Error(w, "Template execution failed", http.StatusInternalServerError)
			return
		}
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	buf.WriteTo(w)
}

// getBaseTemplateName determines which base template to execute.
func getBaseTemplateName(name string) string {
	if strings.HasPrefix(name, "auth/") {
		return "auth"
	}
	return "app"
}
