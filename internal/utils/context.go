// Package utils provides general-purpose helper utilities
// used across different parts of the portal runtime.
// Includes tools for working with context, type-safe keys, HTTP response
// writing, HTTP client initialization, JWT token generation and validation,
// identifier generation and navigation URL parsing.
package utils

import (
	"context"

	"github.com/MKhiriev/go-tech-support/models"
)

// contextKey is a private type for context keys.
// Using a dedicated type instead of a plain string prevents key collisions
// with other packages that may use string-based keys in the context.
type contextKey string

// String returns the string representation of the context key.
func (c contextKey) String() string {
	return string(c)
}

// UserCtxKey is the key under which the route guard stores the signed-in
// profile.
var UserCtxKey = contextKey("user")

// WithUser returns a copy of ctx carrying user.
func WithUser(ctx context.Context, user models.User) context.Context {
	return context.WithValue(ctx, UserCtxKey, user)
}

// GetUserFromContext retrieves the signed-in profile from the context.
//
// ok is false when the value is missing or has an unexpected type.
func GetUserFromContext(ctx context.Context) (models.User, bool) {
	user, ok := ctx.Value(UserCtxKey).(models.User)
	return user, ok
}
