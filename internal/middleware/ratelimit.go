package middleware

import (
	"context"
	"encoding/json"
	"log/slog"
	"net"
	"net/http"
	"strconv"
	"strings"
	"sync"
	"time"

	"github.com/DukeRupert/parkiez/internal/auth"
)

// =============================================================================
// Rate Limiter
// =============================================================================

// RateLimiter tracks request counts per key with a fixed window.
type RateLimiter struct {
	maxAttempts int
	window      time.Duration
	logger      *slog.Logger
	now         func() time.Time

	mu      sync.RWMutex
	entries map[string]*rateLimitEntry
}

type rateLimitEntry struct {
	count       int
	windowStart time.Time
}

// NewRateLimiter creates a new rate limiter.
func NewRateLimiter(maxAttempts int, window time.Duration, logger *slog.Logger) *RateLimiter {
	return &RateLimiter{
		maxAttempts: maxAttempts,
		window:      window,
		logger:      logger,
		now:         time.Now,
		entries:     make(map[string]*rateLimitEntry),
	}
}

// Allow counts a request from key and reports whether it is within the limit.
func (rl *RateLimiter) Allow(key string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	entry := rl.current(key)
	if entry.count < rl.maxAttempts {
		entry.count++
		return true
	}
	return false
}

// Blocked reports whether key has used up its attempts, without counting.
func (rl *RateLimiter) Blocked(key string) bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	entry, ok := rl.entries[key]
	if !ok || rl.now().Sub(entry.windowStart) > rl.window {
		return false
	}
	return entry.count >= rl.maxAttempts
}

// RecordFailure counts a failed attempt without checking the limit.
func (rl *RateLimiter) RecordFailure(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.current(key).count++
}

// Reset clears the rate limit for a key (e.g., after successful login).
func (rl *RateLimiter) Reset(key string) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	delete(rl.entries, key)
}

// TimeUntilReset returns how long until the rate limit resets for a key.
func (rl *RateLimiter) TimeUntilReset(key string) time.Duration {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	entry, exists := rl.entries[key]
	if !exists {
		return 0
	}

	elapsed := rl.now().Sub(entry.windowStart)
	if elapsed >= rl.window {
		return 0
	}

	return rl.window - elapsed
}

// current returns the live entry for key, starting a new window when the
// previous one has expired. Callers must hold the write lock.
func (rl *RateLimiter) current(key string) *rateLimitEntry {
	now := rl.now()
	entry, ok := rl.entries[key]
	if !ok || now.Sub(entry.windowStart) > rl.window {
		entry = &rateLimitEntry{windowStart: now}
		rl.entries[key] = entry
	}
	return entry
}

// Run removes expired entries every window until ctx is cancelled.
func (rl *RateLimiter) Run(ctx context.Context) {
	ticker := time.NewTicker(rl.window)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			rl.sweep()
		}
	}
}

func (rl *RateLimiter) sweep() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := rl.now()
	for key, entry := range rl.entries {
		if now.Sub(entry.windowStart) > rl.window {
			delete(rl.entries, key)
		}
	}
}

// =============================================================================
// Rate Limit Middleware
// =============================================================================

// KeyFunc derives the rate limit key for a request.
type KeyFunc func(r *http.Request) string

// ClientIPKey keys requests by client IP.
func ClientIPKey(r *http.Request) string {
	return getClientIP(r)
}

// OperatorKey keys requests by signed-in operator, falling back to client IP.
func OperatorKey(r *http.Request) string {
	if op := auth.GetOperatorFromRequest(r); op != nil {
		return "operator:" + op.Username
	}
	return getClientIP(r)
}

// RateLimitMiddleware wraps a rate limiter for use as HTTP middleware.
type RateLimitMiddleware struct {
	limiter *RateLimiter
	key     KeyFunc
	count   bool
	logger  *slog.Logger
}

// NewRateLimitMiddleware creates middleware that counts every request
// against limiter, keyed by key.
func NewRateLimitMiddleware(limiter *RateLimiter, key KeyFunc, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		key:     key,
		count:   true,
		logger:  logger,
	}
}

// NewRateLimitGuard creates middleware that only rejects keys that are
// already blocked. Attempts are counted elsewhere through RecordFailure.
func NewRateLimitGuard(limiter *RateLimiter, key KeyFunc, logger *slog.Logger) *RateLimitMiddleware {
	return &RateLimitMiddleware{
		limiter: limiter,
		key:     key,
		logger:  logger,
	}
}

// Limit returns middleware that rate limits requests.
func (m *RateLimitMiddleware) Limit(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		key := m.key(r)

		allowed := !m.limiter.Blocked(key)
		if m.count {
			allowed = m.limiter.Allow(key)
		}
		if allowed {
			next.ServeHTTP(w, r)
			return
		}

		m.logger.WarnContext(r.Context(), "rate limit exceeded",
			"key", key,
			"path", r.URL.Path,
			"method", r.Method,
		)

		retryAfter := int(m.limiter.TimeUntilReset(key).Seconds())
		if retryAfter < 1 {
			retryAfter = 1
		}
		w.Header().Set("Retry-After", strconv.Itoa(retryAfter))

		const message = "Too many requests. Please try again later."
		switch {
		case r.Header.Get("HX-Request") == "true":
			// Nothing to swap; the page script turns the body into a toast.
			w.Header().Set("HX-Reswap", "none")
			w.Header().Set("Content-Type", "text/plain; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(message))
		case isAPIRequest(r):
			w.Header().Set("Content-Type", "application/json")
			w.WriteHeader(http.StatusTooManyRequests)
			_ = json.NewEncoder(w).Encode(map[string]string{
				"error":   "rate_limit_exceeded",
				"message": message,
			})
		default:
			w.Header().Set("Content-Type", "text/html; charset=utf-8")
			w.WriteHeader(http.StatusTooManyRequests)
			_, _ = w.Write([]byte(`<!DOCTYPE html>
<html>
<head><title>Too Many Requests</title></head>
<body>
<h1>Too Many Requests</h1>
<p>You have made too many requests. Please wait a moment and try again.</p>
</body>
</html>`))
		}
	})
}

// =============================================================================
// Console Rate Limiter
// =============================================================================

// ConsoleRateLimiter groups the limiters guarding sign-in and attendant
// submission.
type ConsoleRateLimiter struct {
	loginLimiter     *RateLimiter
	attendantLimiter *RateLimiter
	logger           *slog.Logger
}

// NewConsoleRateLimiter creates the console limiters. Login failures are
// limited per client IP; attendant submissions per operator.
func NewConsoleRateLimiter(loginMax int, loginWindow time.Duration, attendantMax int, attendantWindow time.Duration, logger *slog.Logger) *ConsoleRateLimiter {
	return &ConsoleRateLimiter{
		loginLimiter:     NewRateLimiter(loginMax, loginWindow, logger),
		attendantLimiter: NewRateLimiter(attendantMax, attendantWindow, logger),
		logger:           logger,
	}
}

// Run sweeps expired entries from both limiters until ctx is cancelled.
func (c *ConsoleRateLimiter) Run(ctx context.Context) {
	go c.loginLimiter.Run(ctx)
	c.attendantLimiter.Run(ctx)
}

// LimitLogin rejects sign-in attempts from clients with too many failures.
func (c *ConsoleRateLimiter) LimitLogin(next http.Handler) http.Handler {
	return NewRateLimitGuard(c.loginLimiter, ClientIPKey, c.logger).Limit(next)
}

// LimitAttendantSubmission limits add-attendant submissions per operator.
func (c *ConsoleRateLimiter) LimitAttendantSubmission(next http.Handler) http.Handler {
	return NewRateLimitMiddleware(c.attendantLimiter, OperatorKey, c.logger).Limit(next)
}

// RecordFailedLogin counts a failed sign-in for the request's client.
func (c *ConsoleRateLimiter) RecordFailedLogin(r *http.Request) {
	c.loginLimiter.RecordFailure(ClientIPKey(r))
}

// ResetLogin clears the sign-in failures for the request's client.
func (c *ConsoleRateLimiter) ResetLogin(r *http.Request) {
	c.loginLimiter.Reset(ClientIPKey(r))
}

// =============================================================================
// Helpers
// =============================================================================

// getClientIP extracts the client IP from the request, considering proxy headers.
func getClientIP(r *http.Request) string {
	// Check X-Forwarded-For first (most common proxy header)
	if xff := r.Header.Get("X-Forwarded-For"); xff != "" {
		// X-Forwarded-For can contain multiple IPs: client, proxy1, proxy2
		// The first one is the original client
		ips := strings.Split(xff, ",")
		if len(ips) > 0 {
			clientIP := strings.TrimSpace(ips[0])
			if clientIP != "" {
				return clientIP
			}
		}
	}

	// Check X-Real-IP (nginx)
	if xri := r.Header.Get("X-Real-IP"); xri != "" {
		return strings.TrimSpace(xri)
	}

	// Fall back to RemoteAddr
	ip, _, err := net.SplitHostPort(r.RemoteAddr)
	if err != nil {
		// RemoteAddr might not have a port
		return r.RemoteAddr
	}

	return ip
}
