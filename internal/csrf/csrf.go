// Package csrf provides CSRF protection using the double-submit cookie pattern.
//
// A random token is set in a cookie and echoed by every state-changing
// request, either as the csrf_token form field (plain forms) or the
// X-CSRF-Token header (htmx requests, configured once on <body> via
// hx-headers). Protect rejects unsafe requests whose echoed token does not
// match the cookie.
package csrf

import (
	"crypto/rand"
	"crypto/subtle"
	"encoding/base64"
	"log/slog"
	"net/http"
)

// =============================================================================
// Configuration Constants
// =============================================================================

const (
	// CookieName is the name of the CSRF token cookie.
	CookieName = "parkiez_csrf"

	// FormFieldName is the name of the CSRF token form field.
	FormFieldName = "csrf_token"

	// HeaderName carries the token on htmx requests.
	HeaderName = "X-CSRF-Token"

	// TokenLength is the number of random bytes for the token (32 bytes = 256 bits).
	TokenLength = 32

	// CookieMaxAge is the lifetime of the CSRF cookie (12 hours).
	CookieMaxAge = 12 * 3600
)

// =============================================================================
// Token Generation
// =============================================================================

// GenerateToken generates a cryptographically secure random token.
//
// The token is 32 bytes of random data, base64 URL-encoded.
func GenerateToken() (string, error) {
	b := make([]byte, TokenLength)
	if _, err := rand.Read(b); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(b), nil
}

// =============================================================================
// Token Validation
// =============================================================================

// ValidateToken compares the cookie token with the submitted token.
//
// Uses constant-time comparison to prevent timing attacks.
func ValidateToken(cookieToken, submitted string) bool {
	if cookieToken == "" || submitted == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(cookieToken), []byte(submitted)) == 1
}

// ValidateRequest validates the CSRF token from a request. The submitted
// token is read from the X-CSRF-Token header, falling back to the
// csrf_token form field.
func ValidateRequest(r *http.Request) bool {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return false
	}

	submitted := r.Header.Get(HeaderName)
	if submitted == "" {
		submitted = r.FormValue(FormFieldName)
	}

	return ValidateToken(cookie.Value, submitted)
}

// =============================================================================
// Cookie Management
// =============================================================================

// SetCookie sets the CSRF token cookie on the response.
func SetCookie(w http.ResponseWriter, token string, isSecure bool) {
	http.SetCookie(w, &http.Cookie{
		Name:     CookieName,
		Value:    token,
		Path:     "/",
		MaxAge:   CookieMaxAge,
		HttpOnly: true,
		Secure:   isSecure,
		SameSite: http.SameSiteStrictMode,
	})
}

// GetTokenFromRequest retrieves the CSRF token from the request cookie.
// Returns empty string if cookie doesn't exist.
func GetTokenFromRequest(r *http.Request) string {
	cookie, err := r.Cookie(CookieName)
	if err != nil {
		return ""
	}
	return cookie.Value
}

// =============================================================================
// Handler Helpers
// =============================================================================

// EnsureToken ensures a CSRF token exists for the request.
// If a token cookie exists, it returns that token. Otherwise, it generates a
// new token, sets the cookie, and returns it.
//
// Handlers call this when rendering pages that contain forms.
func EnsureToken(w http.ResponseWriter, r *http.Request, isSecure bool) (string, error) {
	if existing := GetTokenFromRequest(r); existing != "" {
		return existing, nil
	}

	token, err := GenerateToken()
	if err != nil {
		return "", err
	}
	SetCookie(w, token, isSecure)
	return token, nil
}

// =============================================================================
// Middleware
// =============================================================================

// Protect rejects POST, PUT, PATCH and DELETE requests that fail
// ValidateRequest with 403 Forbidden.
func Protect(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			switch r.Method {
			case http.MethodGet, http.MethodHead, http.MethodOptions:
				next.ServeHTTP(w, r)
				return
			}

			if ValidateRequest(r) {
				next.ServeHTTP(w, r)
				return
			}

			logger.WarnContext(r.Context(), "csrf validation failed",
				"path", r.URL.Path,
				"method", r.Method,
			)

			const message = "Your form has expired. Please reload the page and try again."
			if r.Header.Get("HX-Request") == "true" {
				w.Header().Set("HX-Reswap", "none")
			}
			http.Error(w, message, http.StatusForbidden)
		})
	}
}
