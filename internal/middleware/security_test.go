package middleware

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
)

// cspDirectives splits a Content-Security-Policy into directive name -> sources.
func cspDirectives(t *testing.T, csp string) map[string][]string {
	t.Helper()
	out := make(map[string][]string)
	for _, d := range strings.Split(csp, ";") {
		fields := strings.Fields(d)
		if len(fields) == 0 {
			continue
		}
		out[fields[0]] = fields[1:]
	}
	return out
}

func serveWithSecurityHeaders(isSecure bool, status int) *httptest.ResponseRecorder {
	mw := NewSecurityHeadersMiddleware(isSecure)
	rec := httptest.NewRecorder()
	mw.Handler(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.WriteHeader(status)
	})).ServeHTTP(rec, httptest.NewRequest("GET", "/analytics", nil))
	return rec
}

func contains(list []string, s string) bool {
	for _, v := range list {
		if v == s {
			return true
		}
	}
	return false
}

func TestSecurityHeaders_ScriptSourcesMatchConsolePages(t *testing.T) {
	rec := serveWithSecurityHeaders(false, http.StatusOK)
	csp := cspDirectives(t, rec.Header().Get("Content-Security-Policy"))

	script := csp["script-src"]
	for _, host := range []string{"'self'", "https://unpkg.com", "https://cdn.jsdelivr.net", "https://cdn.tailwindcss.com"} {
		if !contains(script, host) {
			t.Errorf("script-src %v missing %s", script, host)
		}
	}
	if contains(script, "'unsafe-inline'") || contains(script, "'unsafe-eval'") {
		t.Errorf("script-src allows inline code: %v", script)
	}
	if len(script) != 4 {
		t.Errorf("script-src has unexpected sources: %v", script)
	}
}

func TestSecurityHeaders_OtherDirectives(t *testing.T) {
	rec := serveWithSecurityHeaders(false, http.StatusOK)
	csp := cspDirectives(t, rec.Header().Get("Content-Security-Policy"))

	tests := map[string][]string{
		"default-src":     {"'self'"},
		"style-src":       {"'self'", "'unsafe-inline'"},
		"img-src":         {"'self'", "data:"},
		"connect-src":     {"'self'"},
		"frame-ancestors": {"'none'"},
		"form-action":     {"'self'"},
	}
	for directive, want := range tests {
		got := csp[directive]
		if strings.Join(got, " ") != strings.Join(want, " ") {
			t.Errorf("%s = %v, want %v", directive, got, want)
		}
	}
}

func TestSecurityHeaders_HSTSOnlyWhenSecure(t *testing.T) {
	if got := serveWithSecurityHeaders(true, http.StatusOK).Header().Get("Strict-Transport-Security"); got != "max-age=31536000; includeSubDomains" {
		t.Errorf("secure HSTS = %q", got)
	}
	if got := serveWithSecurityHeaders(false, http.StatusOK).Header().Get("Strict-Transport-Security"); got != "" {
		t.Errorf("development HSTS = %q, want none", got)
	}
}

func TestSecurityHeaders_PresentOnErrorResponses(t *testing.T) {
	rec := serveWithSecurityHeaders(false, http.StatusBadGateway)

	if rec.Code != http.StatusBadGateway {
		t.Fatalf("status = %d", rec.Code)
	}
	for _, h := range []string{"Content-Security-Policy", "X-Frame-Options", "X-Content-Type-Options", "Referrer-Policy", "Permissions-Policy"} {
		if rec.Header().Get(h) == "" {
			t.Errorf("%s missing on error response", h)
		}
	}
	if got := rec.Header().Get("Referrer-Policy"); got != "same-origin" {
		t.Errorf("Referrer-Policy = %q", got)
	}
}
