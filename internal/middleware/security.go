package middleware

import (
	"net/http"
	"strings"
)

// scriptHosts are the CDNs the console loads scripts from: htmx (unpkg),
// Chart.js (jsDelivr) and the Tailwind browser build.
var scriptHosts = []string{
	"https://unpkg.com",
	"https://cdn.jsdelivr.net",
	"https://cdn.tailwindcss.com",
}

// contentSecurityPolicy is built once. Page behaviour lives in /static
// scripts, so script-src allows no inline code. Tailwind's browser build
// injects a <style> element and Chart.js sizes canvases inline, hence the
// inline style allowance.
var contentSecurityPolicy = strings.Join([]string{
	"default-src 'self'",
	"script-src 'self' " + strings.Join(scriptHosts, " "),
	"style-src 'self' 'unsafe-inline'",
	"img-src 'self' data:",
	"font-src 'self'",
	"connect-src 'self'",
	"frame-ancestors 'none'",
	"base-uri 'self'",
	"form-action 'self'",
}, "; ")

// staticHeaders are sent on every response regardless of environment.
var staticHeaders = [][2]string{
	{"Content-Security-Policy", contentSecurityPolicy},
	{"X-Frame-Options", "DENY"},
	{"X-Content-Type-Options", "nosniff"},
	{"Referrer-Policy", "same-origin"},
	{"Permissions-Policy", "geolocation=(), microphone=(), camera=(), payment=()"},
}

// SecurityHeadersMiddleware adds HTTP security headers to all responses.
type SecurityHeadersMiddleware struct {
	hsts bool
}

// NewSecurityHeadersMiddleware creates the middleware. isSecure turns on
// HSTS and should only be set when the console is served over HTTPS.
func NewSecurityHeadersMiddleware(isSecure bool) *SecurityHeadersMiddleware {
	return &SecurityHeadersMiddleware{hsts: isSecure}
}

// Handler sets the headers before the wrapped handler writes anything.
func (m *SecurityHeadersMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		h := w.Header()
		for _, kv := range staticHeaders {
			h.Set(kv[0], kv[1])
		}
		if m.hsts {
			h.Set("Strict-Transport-Security", "max-age=31536000; includeSubDomains")
		}
		next.ServeHTTP(w, r)
	})
}
