// Package requestcontext provides HTTP-independent context accessors for
// request-scoped values.
//
// This package defines context keys and getter/setter functions for values
// that are typically set by middleware but consumed by services. Caller
// identity is always passed explicitly through context rather than read from
// ambient state, so services can be exercised in tests without the HTTP
// middleware chain.
//
// Usage in services (read values):
//
//	userID := requestcontext.UserID(ctx)
//	now := requestcontext.Now(ctx)
//
// Usage in middleware (set values):
//
//	ctx = requestcontext.WithUser(ctx, requestcontext.User{ID: userID})
//
// Usage in tests (inject values):
//
//	ctx = requestcontext.WithTime(ctx, fixedTime)
package requestcontext

import (
	"context"
	"time"
)

// User identifies the authenticated caller. ID is the stable user
// identifier used for create_user_id; Username and DisplayName feed
// author fields on notes and amendments.
type User struct {
	ID          string
	Username    string
	DisplayName string
}

// Context key types (unexported for encapsulation).
type (
	userKey        struct{}
	requestIDKey   struct{}
	requestTimeKey struct{}
)

// Exported context keys for direct use in tests that need context.WithValue.
var (
	ContextKeyUser        = userKey{}
	ContextKeyRequestID   = requestIDKey{}
	ContextKeyRequestTime = requestTimeKey{}
)

// CurrentUser retrieves the authenticated caller from the context.
// Returns the zero value if no identity was established.
func CurrentUser(ctx context.Context) User {
	if user, ok := ctx.Value(ContextKeyUser).(User); ok {
		return user
	}
	return User{}
}

// UserID retrieves the authenticated caller's identifier, or "" if absent.
func UserID(ctx context.Context) string {
	return CurrentUser(ctx).ID
}

// WithUser injects a caller identity into the context.
func WithUser(ctx context.Context, user User) context.Context {
	return context.WithValue(ctx, ContextKeyUser, user)
}

// RequestID retrieves the request ID from the context.
func RequestID(ctx context.Context) string {
	if reqID, ok := ctx.Value(ContextKeyRequestID).(string); ok {
		return reqID
	}
	return ""
}

// WithRequestID injects a request ID into the context.
func WithRequestID(ctx context.Context, requestID string) context.Context {
	return context.WithValue(ctx, ContextKeyRequestID, requestID)
}

// Now retrieves the request-scoped time from context.
// Falls back to time.Now() for non-HTTP contexts like workers and tests.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ContextKeyRequestTime).(time.Time); ok {
		return t
	}
	return time.Now()
}

// WithTime injects a specific time into a context. Useful for service unit
// tests and for batch operations that need one consistent timestamp.
func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ContextKeyRequestTime, t)
}
