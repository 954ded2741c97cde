// Package handler contains HTTP handlers for the Parkiez operator console.
//
// This file implements operator login and logout against the Parkiez
// backend sign-in endpoint.
package handler

import (
	"errors"
	"log/slog"
	"net/http"
	"strings"

	"github.com/DukeRupert/parkiez/internal/auth"
	"github.com/DukeRupert/parkiez/internal/csrf"
	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/service"
	authpages "github.com/DukeRupert/parkiez/internal/templ/pages/auth"
	"github.com/DukeRupert/parkiez/internal/templ/shared"
)

// DashboardPath is where operators land after sign-in and after adding an
// attendant.
const DashboardPath = "/operatordashboard"

// =============================================================================
// Handler Configuration
// =============================================================================

// TemplateRenderer is the interface for rendering HTML templates.
// This interface allows for mocking in tests.
type TemplateRenderer interface {
	RenderHTTP(w http.ResponseWriter, name string, data interface{})
	RenderHTTPStatus(w http.ResponseWriter, status int, name string, data interface{})
	RenderPartial(w http.ResponseWriter, name string, data interface{})
	RenderPartialWithToast(w http.ResponseWriter, name string, data interface{}, toast ToastData)
}

// SessionIssuer signs operator sessions and writes the session cookie.
type SessionIssuer interface {
	Issue(op *domain.Operator) (string, error)
	SetCookie(w http.ResponseWriter, token string, secure bool)
}

// LoginAttempts tracks failed sign-ins for rate limiting.
type LoginAttempts interface {
	RecordFailedLogin(r *http.Request)
	ResetLogin(r *http.Request)
}

// AuthHandler handles operator authentication.
//
// Routes handled:
// - GET  /login  -> ShowLogin
// - POST /login  -> Login
// - POST /logout -> Logout
type AuthHandler struct {
	authService service.AuthService
	sessions    SessionIssuer
	attempts    LoginAttempts
	renderer    TemplateRenderer
	logger      *slog.Logger
	isSecure    bool
}

// NewAuthHandler creates a new AuthHandler with the required dependencies.
//
// Example usage in main.go:
//
//	authHandler := handler.NewAuthHandler(authService, sessions, limiter, renderer, logger, !cfg.IsDevelopment())
func NewAuthHandler(
	authService service.AuthService,
	sessions SessionIssuer,
	attempts LoginAttempts,
	renderer TemplateRenderer,
	logger *slog.Logger,
	isSecure bool,
) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		sessions:    sessions,
		attempts:    attempts,
		renderer:    renderer,
		logger:      logger,
		isSecure:    isSecure,
	}
}

// =============================================================================
// GET /login - Show Login Form
// =============================================================================

// ShowLogin renders the login form.
//
// Template: auth/login
//
// Query Parameters:
// - return_to (optional): URL to redirect to after successful login
//
// An operator who is already signed in goes straight to return_to or the
// dashboard.
func (h *AuthHandler) ShowLogin(w http.ResponseWriter, r *http.Request) {
	returnTo := r.URL.Query().Get("return_to")

	if auth.GetOperatorFromRequest(r) != nil {
		http.Redirect(w, r, safeReturnTo(returnTo), http.StatusSeeOther)
		return
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	data := authpages.LoginPageData{
		CurrentPath: r.URL.Path,
		CSRFToken:   token,
		Errors:      make(map[string]string),
		Flash:       popFlash(w, r, h.isSecure),
		ReturnTo:    returnTo,
	}

	h.renderer.RenderHTTP(w, "auth/login", data)
}

// =============================================================================
// POST /login - Process Login
// =============================================================================

// Login processes the login form submission.
//
// Form Fields:
// - username (required): operator phone number
// - password (required)
// - return_to (optional): URL to redirect to after successful login
//
// Rejected credentials count against the login rate limit; a successful
// sign-in resets it.
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	if err := r.ParseForm(); err != nil {
		h.logger.WarnContext(r.Context(), "failed to parse form", "error", err)
		h.renderLoginError(w, r, http.StatusBadRequest, authpages.FormData{}, nil,
			shared.Error("Invalid form submission. Please try again."))
		return
	}

	username := strings.TrimSpace(r.FormValue("username"))
	password := r.FormValue("password")
	form := authpages.FormData{Username: username}

	operator, err := h.authService.Login(r.Context(), username, password)
	if err != nil {
		var ve *domain.ValidationError
		switch {
		case errors.As(err, &ve):
			h.renderLoginError(w, r, http.StatusUnprocessableEntity, form, ve.Fields, nil)
		case domain.ErrorCode(err) == domain.EUNAUTHORIZED:
			h.attempts.RecordFailedLogin(r)
			h.renderLoginError(w, r, http.StatusUnauthorized, form, nil, shared.Error(domain.ErrorMessage(err)))
		default:
			h.logger.ErrorContext(r.Context(), "login failed", "error", err, "username", username)
			h.renderLoginError(w, r, ErrorCodeToHTTPStatus(domain.ErrorCode(err)), form, nil,
				shared.Error(domain.ErrorMessage(err)))
		}
		return
	}

	token, err := h.sessions.Issue(operator)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}
	h.sessions.SetCookie(w, token, h.isSecure)
	h.attempts.ResetLogin(r)

	http.Redirect(w, r, safeReturnTo(r.FormValue("return_to")), http.StatusSeeOther)
}

// renderLoginError re-renders the login form with errors.
func (h *AuthHandler) renderLoginError(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	form authpages.FormData,
	errs map[string]string,
	flash *shared.Flash,
) {
	if errs == nil {
		errs = make(map[string]string)
	}

	token, err := csrf.EnsureToken(w, r, h.isSecure)
	if err != nil {
		InternalErrorResponse(w, r, h.logger, err)
		return
	}

	data := authpages.LoginPageData{
		CurrentPath: "/login",
		CSRFToken:   token,
		Form:        form,
		Errors:      errs,
		Flash:       flash,
		ReturnTo:    r.FormValue("return_to"),
	}

	h.renderer.RenderHTTPStatus(w, status, "auth/login", data)
}

// =============================================================================
// POST /logout - Process Logout
// =============================================================================

// Logout clears the session cookie and returns to the login page. Sessions
// are stateless, so this is idempotent.
func (h *AuthHandler) Logout(w http.ResponseWriter, r *http.Request) {
	if op := auth.GetOperatorFromRequest(r); op != nil {
		h.logger.InfoContext(r.Context(), "operator signed out", "username", op.Username)
	}
	setFlash(w, shared.Success("You have been signed out."), h.isSecure)
	endSession(w, r, DashboardPath, h.isSecure)
}

// safeReturnTo returns returnTo when it is a same-origin path, otherwise
// the dashboard.
func safeReturnTo(returnTo string) string {
	if returnTo != "" && isSafeRedirectURL(returnTo) {
		return returnTo
	}
	return DashboardPath
}

// =============================================================================
// Route Registration Helper
// =============================================================================

// RegisterRoutes registers the auth routes. limitLogin guards POST /login
// and csrfProtect guards both POST routes.
func (h *AuthHandler) RegisterRoutes(mux *http.ServeMux, limitLogin, csrfProtect func(http.Handler) http.Handler) {
	mux.HandleFunc("GET /login", h.ShowLogin)
	mux.Handle("POST /login", csrfProtect(limitLogin(http.HandlerFunc(h.Login))))
	mux.Handle("POST /logout", csrfProtect(http.HandlerFunc(h.Logout)))
}
