package middleware

import (
	"crypto/subtle"
	"log/slog"
	"net/http"
)

// MetricsAuthMiddleware guards the Prometheus scrape endpoint with basic auth.
type MetricsAuthMiddleware struct {
	username []byte
	password []byte
	logger   *slog.Logger
}

// NewMetricsAuthMiddleware creates the scrape guard. With no username and
// no password configured the endpoint is left open; see Enabled.
func NewMetricsAuthMiddleware(username, password string, logger *slog.Logger) *MetricsAuthMiddleware {
	return &MetricsAuthMiddleware{
		username: []byte(username),
		password: []byte(password),
		logger:   logger,
	}
}

// Enabled reports whether scrapes must present credentials.
func (m *MetricsAuthMiddleware) Enabled() bool {
	return len(m.username) > 0 || len(m.password) > 0
}

// Handler rejects scrapes without matching credentials.
func (m *MetricsAuthMiddleware) Handler(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		if !m.Enabled() {
			next.ServeHTTP(w, r)
			return
		}
		if reason := m.reject(r); reason != "" {
			m.logger.WarnContext(r.Context(), "metrics scrape rejected",
				"reason", reason,
				"ip", getClientIP(r),
			)
			w.Header().Set("WWW-Authenticate", `Basic realm="parkiez metrics"`)
			http.Error(w, "Unauthorized", http.StatusUnauthorized)
			return
		}
		next.ServeHTTP(w, r)
	})
}

// reject returns why r may not scrape, or "" when it may.
func (m *MetricsAuthMiddleware) reject(r *http.Request) string {
	user, pass, ok := r.BasicAuth()
	if !ok {
		return "missing credentials"
	}
	// Both comparisons always run.
	userOK := subtle.ConstantTimeCompare([]byte(user), m.username)
	passOK := subtle.ConstantTimeCompare([]byte(pass), m.password)
	if userOK&passOK != 1 {
		return "bad credentials"
	}
	return ""
}
