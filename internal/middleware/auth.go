// Package middleware contains HTTP middleware for the Parkiez operator console.
//
// Middleware functions follow the standard Go pattern of wrapping http.Handler.
// They are designed to be composed using a middleware stack approach.
package middleware

import (
	"log/slog"
	"net/http"
	"net/url"
	"strings"

	"github.com/DukeRupert/parkiez/internal/auth"
	"github.com/DukeRupert/parkiez/internal/domain"
	"github.com/DukeRupert/parkiez/internal/handler"
	"github.com/DukeRupert/parkiez/internal/session"
)

// SessionParser verifies a session token and returns its operator.
type SessionParser interface {
	Parse(token string) (*domain.Operator, error)
}

// =============================================================================
// Auth Middleware Configuration
// =============================================================================

// AuthMiddleware loads the operator session and guards protected routes.
type AuthMiddleware struct {
	sessions SessionParser
	logger   *slog.Logger
	isSecure bool // Whether to set Secure flag on cookies (true in production)
}

// NewAuthMiddleware creates a new AuthMiddleware instance.
func NewAuthMiddleware(sessions SessionParser, logger *slog.Logger, isSecure bool) *AuthMiddleware {
	return &AuthMiddleware{
		sessions: sessions,
		logger:   logger,
		isSecure: isSecure,
	}
}

// =============================================================================
// WithOperator Middleware
// =============================================================================

// WithOperator loads the operator from the session cookie when one is present
// and always continues to the next handler. An invalid or expired cookie is
// cleared.
//
// The operator can be retrieved in handlers using:
//
//	op := auth.GetOperatorFromRequest(r)
func (m *AuthMiddleware) WithOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		cookie, err := r.Cookie(session.CookieName)
		if err != nil {
			next.ServeHTTP(w, r)
			return
		}

		op, err := m.sessions.Parse(cookie.Value)
		if err != nil {
			m.logger.DebugContext(r.Context(), "discarding session cookie", "error", err)
			session.ClearCookie(w, m.isSecure)
			next.ServeHTTP(w, r)
			return
		}

		next.ServeHTTP(w, r.WithContext(auth.SetOperator(r.Context(), op)))
	})
}

// =============================================================================
// RequireOperator Middleware
// =============================================================================

// RequireOperator rejects requests without a signed-in operator before the
// handler runs, so no backend data is fetched for anonymous visitors.
//
// HTML requests are redirected to /login?return_to=<path>; htmx requests get
// an HX-Redirect to the same place; API requests get a JSON 401.
//
// IMPORTANT: This middleware must be used AFTER WithOperator in the chain.
func (m *AuthMiddleware) RequireOperator(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if auth.GetOperatorFromRequest(r) != nil {
			next.ServeHTTP(w, r)
			return
		}

		if isAPIRequest(r) {
			handler.UnauthorizedResponse(w, r, m.logger)
			return
		}

		loginURL := LoginURL(r)
		if r.Header.Get("HX-Request") == "true" {
			w.Header().Set("HX-Redirect", loginURL)
			w.WriteHeader(http.StatusUnauthorized)
			return
		}
		http.Redirect(w, r, loginURL, http.StatusSeeOther)
	})
}

// LoginURL returns the login page URL that returns to the current page.
// htmx partial requests return to the page that issued them.
func LoginURL(r *http.Request) string {
	returnTo := r.URL.Path
	if r.URL.RawQuery != "" {
		returnTo += "?" + r.URL.RawQuery
	}
	if current := r.Header.Get("HX-Current-URL"); current != "" {
		if u, err := url.Parse(current); err == nil && u.Path != "" {
			returnTo = u.Path
			if u.RawQuery != "" {
				returnTo += "?" + u.RawQuery
			}
		}
	}
	return "/login?return_to=" + url.QueryEscape(returnTo)
}

// =============================================================================
// Request Helpers
// =============================================================================

// isAPIRequest determines if the request expects a JSON response.
//
// Checks:
// 1. HX-Request header is NOT present (htmx wants HTML)
// 2. Accept header contains application/json
// 3. URL path starts with /api/
func isAPIRequest(r *http.Request) bool {
	// htmx requests want HTML fragments
	if r.Header.Get("HX-Request") == "true" {
		return false
	}

	if strings.Contains(r.Header.Get("Accept"), "application/json") {
		return true
	}

	return strings.HasPrefix(r.URL.Path, "/api/")
}

// =============================================================================
// Middleware Stack Helpers
// =============================================================================

// Stack composes multiple middleware functions into a single middleware.
//
// Middleware is applied in the order provided, meaning the first middleware
// in the slice is the outermost (runs first on request, last on response).
//
// Example:
//
//	stack := Stack(authMw.WithOperator, authMw.RequireOperator)
//	mux.Handle("GET /operatordashboard", stack(dashboardHandler))
func Stack(middlewares ...func(http.Handler) http.Handler) func(http.Handler) http.Handler {
	return func(final http.Handler) http.Handler {
		for i := len(middlewares) - 1; i >= 0; i-- {
			final = middlewares[i](final)
		}
		return final
	}
}

// Ensure middleware functions have correct signature
var (
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).WithOperator
	_ func(http.Handler) http.Handler = (&AuthMiddleware{}).RequireOperator
)
