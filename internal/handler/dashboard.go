package handler

import (
	"log/slog"
	"net/http"

	"github.com/DukeRupert/parkiez/internal/auth"
	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/templ/pages/dashboard"
)

// DashboardHandler serves the operator landing page.
type DashboardHandler struct {
	renderer TemplateRenderer
	logger   *slog.Logger
	isSecure bool
}

// NewDashboardHandler creates a new DashboardHandler.
func NewDashboardHandler(renderer TemplateRenderer, logger *slog.Logger, isSecure bool) *DashboardHandler {
	return &DashboardHandler{
		renderer: renderer,
		logger:   logger,
		isSecure: isSecure,
	}
}

// Show renders the dashboard with any pending flash message.
func (h *DashboardHandler) Show(w http.ResponseWriter, r *http.Request) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	data := dashboard.PageData{
		CurrentPath: r.URL.Path,
		CSRFToken:   token,
		Flash:       popFlash(w, r, h.isSecure),
	}
	if op := auth.GetOperatorFromRequest(r); op != nil {
		data.Operator = op.Username
	}

	h.renderer.RenderHTTP(w, "dashboard", data)
}

// Root redirects to the dashboard.
func (h *DashboardHandler) Root(w http.ResponseWriter, r *http.Request) {
	http.Redirect(w, r, DashboardPath, http.StatusSeeOther)
}

// RegisterRoutes registers the dashboard routes behind requireOperator.
func (h *DashboardHandler) RegisterRoutes(mux *http.ServeMux, requireOperator func(http.Handler) http.Handler) {
	mux.Handle("GET /{$}", requireOperator(http.HandlerFunc(h.Root)))
	mux.Handle("GET "+DashboardPath, requireOperator(http.HandlerFunc(h.Show)))
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}
