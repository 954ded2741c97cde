// Package requestid carries a per-request correlation ID through the context.
package requestid

import (
	"context"

	"github.com/google/uuid"
)

// Header is the HTTP header used to propagate request IDs.
const Header = "X-Request-ID"

type contextKey struct{}

// New generates a fresh request ID.
func New() string {
	return uuid.NewString()
}

// WithID returns a copy of ctx carrying id.
func WithID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, contextKey{}, id)
}

// FromContext returns the request ID stored in ctx, or "".
func FromContext(ctx context.Context) string {
	id, _ := ctx.Value(contextKey{}).(string)
	return id
}
