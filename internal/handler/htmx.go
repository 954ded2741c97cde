package handler

import (
	"net/http"
	"net/url"
	"strings"

	"github.com/DukeRupert/parkiez/internal/session"
)

// isHTMX reports whether the request was issued by htmx.
func isHTMX(r *http.Request) bool {
	return r.Header.Get("HX-Request") == "true"
}

// redirect sends the client to target: an HX-Redirect header for htmx
// requests, a 303 otherwise.
func redirect(w http.ResponseWriter, r *http.Request, target string) {
	if isHTMX(r) {
		w.Header().Set("HX-Redirect", target)
		w.WriteHeader(http.StatusOK)
		return
	}
	http.Redirect(w, r, target, http.StatusSeeOther)
}

// endSession clears the session cookie and sends the client to the login
// page, returning to returnTo after sign-in.
func endSession(w http.ResponseWriter, r *http.Request, returnTo string, isSecure bool) {
	session.ClearCookie(w, isSecure)
	redirect(w, r, "/login?return_to="+url.QueryEscape(returnTo))
}

// isSafeRedirectURL validates that a redirect URL is safe (relative, same-origin).
//
// Examples:
// - "/operatordashboard"       -> true (relative URL)
// - "/analytics?subject=x"     -> true (relative URL with query)
// - "//evil.com"               -> false (protocol-relative, could be external)
// - "https://evil.com"         -> false (absolute URL to external domain)
// - "javascript:alert(1)"      -> false (javascript URL)
func isSafeRedirectURL(rawURL string) bool {
	// Must start with /
	if !strings.HasPrefix(rawURL, "/") {
		return false
	}

	// Must not start with // or /\ (browsers treat both as protocol-relative)
	if strings.HasPrefix(rawURL, "//") || strings.HasPrefix(rawURL, "/\\") {
		return false
	}

	parsed, err := url.Parse(rawURL)
	if err != nil {
		return false
	}

	// Must not have a scheme or host
	if parsed.Scheme != "" || parsed.Host != "" {
		return false
	}

	return true
}
