// Package auth provides authentication context helpers.
//
// This package is designed to be imported by both middleware and handler
// packages without causing import cycles.
package auth

import (
	"context"
	"net/http"

	"github.com/DukeRupert/parkiez/internal/domain"
)

// contextKey is a custom type for context keys to avoid collisions.
type contextKey string

const (
	// operatorContextKey is the key used to store the signed-in operator in context.
	operatorContextKey contextKey = "operator"
)

// GetOperator retrieves the signed-in operator from the context.
//
// Returns nil if no operator is authenticated.
//
// Usage:
//
//	op := auth.GetOperator(r.Context())
//	if op == nil {
//	    // Handle unauthenticated request
//	}
func GetOperator(ctx context.Context) *domain.Operator {
	op, ok := ctx.Value(operatorContextKey).(*domain.Operator)
	if !ok {
		return nil
	}
	return op
}

// GetOperatorFromRequest retrieves the operator from the request context.
func GetOperatorFromRequest(r *http.Request) *domain.Operator {
	return GetOperator(r.Context())
}

// SetOperator stores an operator in the context.
//
// This is called by the session middleware after verifying the session cookie.
func SetOperator(ctx context.Context, op *domain.Operator) context.Context {
	return context.WithValue(ctx, operatorContextKey, op)
}
