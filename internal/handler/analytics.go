// Package handler contains HTTP handlers for the Parkiez operator console.
//
// This file implements the analytics screen: the page, the chart partial
// re-requested on selection change and window resize, and the JSON
// chart-spec endpoint.
package handler

import (
	"log/slog"
	"net/http"
	"strconv"

	"github.com/DukeRupert/parkiez/internal/analytics"
	"github.com/DukeRupert/parkiez/internal/auth"
	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/metrics"
	analyticspages "github.com/DukeRupert/parkiez/internal/templ/pages/analytics"
)

// AnalyticsHandler serves the attendant analytics screen.
//
// Routes handled (all require a signed-in operator):
// - GET /analytics        -> Show
// - GET /analytics/charts -> Charts (htmx partial)
// - GET /api/analytics    -> API (JSON)
//
// Query Parameters:
// - subject (optional): attendant name; empty selects the first record
// - vw (optional): viewport width in CSS pixels; missing means unknown
type AnalyticsHandler struct {
	dataset  *analytics.Dataset
	layout   analytics.LayoutConfig
	renderer TemplateRenderer
	logger   *slog.Logger
	isSecure bool
}

// NewAnalyticsHandler creates a new AnalyticsHandler.
func NewAnalyticsHandler(
	dataset *analytics.Dataset,
	layout analytics.LayoutConfig,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
) *AnalyticsHandler {
	return &AnalyticsHandler{
		dataset:  dataset,
		layout:   layout,
		renderer: renderer,
		logger:   logger,
		isSecure: isSecure,
	}
}

// Show renders the analytics page. The charts are rendered for an unknown
// viewport and re-requested by the browser once it knows its width.
func (h *AnalyticsHandler) Show(w http.ResponseWriter, r *http.Request) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	view := h.view(r, h.dataset.SelectOrFirst(r.URL.Query().Get("subject")))
	data := analyticspages.PageData{
		CurrentPath: r.URL.Path,
		CSRFToken:   token,
		Flash:       popFlash(w, r, h.isSecure),
		Subjects:    view.Subjects,
		Charts:      analyticspages.NewChartsData(view),
	}
	if op := auth.GetOperatorFromRequest(r); op != nil {
		data.Operator = op.Username
	}

	h.renderer.RenderHTTP(w, "analytics", data)
}

// Charts renders the chart partial for the selected subject and viewport.
// Unknown subjects fall back to the first record.
func (h *AnalyticsHandler) Charts(w http.ResponseWriter, r *http.Request) {
	view := h.view(r, h.dataset.SelectOrFirst(r.URL.Query().Get("subject")))
	metrics.AnalyticsViewed(view.Dimensions.Layout())

	h.renderer.RenderPartial(w, "analytics_charts", analyticspages.NewChartsData(view))
}

// analyticsResponse is the JSON body of GET /api/analytics.
type analyticsResponse struct {
	analytics.View
	Charts analytics.Charts `json:"charts"`
}

// API returns the view and its chart specs as JSON. Unlike the HTML views,
// an unknown subject is a 404.
func (h *AnalyticsHandler) API(w http.ResponseWriter, r *http.Request) {
	rec := h.dataset.First()
	if name := r.URL.Query().Get("subject"); name != "" {
		var err error
		rec, err = h.dataset.Select(name)
		if err != nil {
			ErrorResponse(w, r, h.logger, err)
			return
		}
	}

	view := h.view(r, rec)
	metrics.AnalyticsViewed(view.Dimensions.Layout())

	writeJSON(w, http.StatusOK, analyticsResponse{View: view, Charts: view.Charts()})
}

func (h *AnalyticsHandler) view(r *http.Request, selected domain.AttendantRecord) analytics.View {
	return h.dataset.View(selected, viewportWidth(r), h.layout)
}

// viewportWidth parses the vw query parameter. Missing or malformed values
// yield 0, the unknown viewport.
func viewportWidth(r *http.Request) int {
	vw, err := strconv.Atoi(r.URL.Query().Get("vw"))
	if err != nil {
		return 0
	}
	return vw
}

// RegisterRoutes registers the analytics routes behind requireOperator.
func (h *AnalyticsHandler) RegisterRoutes(mux *http.ServeMux, requireOperator func(http.Handler) http.Handler) {
	mux.Handle("GET /analytics", requireOperator(http.HandlerFunc(h.Show)))
	mux.Handle("GET /analytics/charts", requireOperator(http.HandlerFunc(h.Charts)))
	mux.Handle("GET /api/analytics", requireOperator(http.HandlerFunc(h.API)))
}
