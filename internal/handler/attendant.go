// Package handler contains HTTP handlers for the Parkiez operator console.
//
// This file implements the add-attendant screen: the registration form,
// per-field validation as the operator types, and the submission.
package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/DukeRupert/parkiez/internal/auth"
	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/service"
	"github.com/DukeRupert/parkiez/internal/templ/pages/attendants"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// NewAttendantPath is the add-attendant page.
const NewAttendantPath = "/operator/attendants/new"

// AttendantHandler handles the add-attendant screen.
//
// Routes handled (all require a signed-in operator):
// - GET  /operator/attendants/new      -> New
// - POST /operator/attendants/validate -> Validate (htmx field partial)
// - POST /operator/attendants          -> Create
type AttendantHandler struct {
	attendants service.AttendantService
	renderer   TemplateRenderer
	logger     *slog.Logger
	isSecure   bool
}

// NewAttendantHandler creates a new AttendantHandler.
func NewAttendantHandler(
	attendants service.AttendantService,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
) *AttendantHandler {
	return &AttendantHandler{
		attendants: attendants,
		renderer:   renderer,
		logger:     logger,
		isSecure:   isSecure,
	}
}

// =============================================================================
// GET /operator/attendants/new - Show Form
// =============================================================================

// New renders an empty registration form. The operator's parking areas are
// fetched once here; a failed fetch leaves the parking select empty.
func (h *AttendantHandler) New(w http.ResponseWriter, r *http.Request) {
	h.renderPage(w, r, http.StatusOK, domain.NewAttendantForm(), popFlash(w, r, h.isSecure))
}

// =============================================================================
// POST /operator/attendants/validate - Validate One Field
// =============================================================================

// Validate re-validates the field that changed and returns its partial.
//
// The field is named by the HX-Trigger-Name header, or the "field" form
// value for non-htmx callers. Only that field is checked.
func (h *AttendantHandler) Validate(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		ErrorResponse(w, r, h.logger, domain.Invalid("AttendantHandler.Validate", "Invalid form submission."))
		return
	}

	name := r.Header.Get("HX-Trigger-Name")
	if name == "" {
		name = r.FormValue("field")
	}
	field, ok := domain.ParseField(name)
	if !ok {
		ErrorResponse(w, r, h.logger, domain.Invalid("AttendantHandler.Validate", "Unknown field."))
		return
	}

	form := h.attendants.Check(domain.AttendantForm{Input: formInput(r)}, field, r.FormValue(string(field)))

	var parkings []domain.ParkingOption
	if field == domain.FieldParkingID {
		parkings = h.attendants.ParkingOptions(r.Context(), auth.GetOperatorFromRequest(r))
	}

	h.renderer.RenderPartial(w, "attendant_field", attendants.NewFieldView(form, field, parkings))
}

// =============================================================================
// POST /operator/attendants - Create Attendant
// =============================================================================

// Create validates every field and, when all pass, sends exactly one
// creation request to the backend.
//
// Success: a one-shot "Attendant Added Successfully" flash and a redirect to
// the dashboard (HX-Redirect for htmx, 303 otherwise).
//
// Failure:
// - validation errors re-render the form with every field message
// - an expired backend session clears the session and goes to login
// - any other failure re-renders the form with an error toast
func (h *AttendantHandler) Create(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.renderForm(w, r, http.StatusBadRequest, domain.NewAttendantForm(),
			shared.Error("Invalid form submission. Please try again."))
		return
	}

	operator := auth.GetOperatorFromRequest(r)
	form, err := h.attendants.Create(r.Context(), operator, domain.AttendantForm{Input: formInput(r)})
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			h.renderForm(w, r, http.StatusUnprocessableEntity, form, nil)
		case domain.ErrorCode(err) == domain.EUNAUTHORIZED:
			endSession(w, r, NewAttendantPath, h.isSecure)
		default:
			h.renderForm(w, r, ErrorCodeToHTTPStatus(domain.ErrorCode(err)), form,
				shared.Error(service.FailureMessage(err)))
		}
		return
	}

	setFlash(w, shared.Success(service.AttendantAdded), h.isSecure)
	redirect(w, r, DashboardPath)
}

// renderForm re-renders the form after a submission. htmx requests get the
// form partial, with the flash as an out-of-band toast; others get the page.
func (h *AttendantHandler) renderForm(w http.ResponseWriter, r *http.Request, status int, form domain.AttendantForm, flash *shared.Flash) {
	if !isHTMX(r) {
		h.renderPage(w, r, status, form, flash)
		return
	}

	data, err := h.pageData(w, r, form)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	if flash == nil {
		h.renderer.RenderPartial(w, "attendant_form", data)
		return
	}
	h.renderer.RenderPartialWithToast(w, "attendant_form", data, ToastData{
		Type:    flash.Type,
		Message: flash.Message,
	})
}

func (h *AttendantHandler) renderPage(w http.ResponseWriter, r *http.Request, status int, form domain.AttendantForm, flash *shared.Flash) {
	data, err := h.pageData(w, r, form)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	data.Flash = flash
	h.renderer.RenderHTTPStatus(w, status, "attendants/new", data)
}

func (h *AttendantHandler) pageData(w http.ResponseWriter, r *http.Request, form domain.AttendantForm) (attendants.NewPageData, error) {
	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		return attendants.NewPageData{}, err
	}

	operator := auth.GetOperatorFromRequest(r)
	data := attendants.NewPageData{
		CurrentPath: NewAttendantPath,
		CSRFToken:   token,
		Form:        attendants.NewFormView(form, h.attendants.ParkingOptions(r.Context(), operator)),
	}
	if operator != nil {
		data.Operator = operator.Username
	}
	return data, nil
}

// formInput reads the attendant fields from a parsed form.
func formInput(r *http.Request) domain.AttendantInput {
	var in domain.AttendantInput
	for _, f := range domain.AttendantFields {
		in = in.With(f, r.PostFormValue(string(f)))
	}
	return in
}

// RegisterRoutes registers the attendant routes. Every route requires an
// operator; POST routes are CSRF protected and submissions are rate limited.
func (h *AttendantHandler) RegisterRoutes(
	mux *http.ServeMux,
	requireOperator, csrfProtect, limitSubmission func(http.Handler) http.Handler,
) {
	mux.Handle("GET "+NewAttendantPath, requireOperator(http.HandlerFunc(h.New)))
	mux.Handle("POST /operator/attendants/validate", requireOperator(csrfProtect(http.HandlerFunc(h.Validate))))
	mux.Handle("POST /operator/attendants", requireOperator(csrfProtect(limitSubmission(http.HandlerFunc(h.Create)))))
}
