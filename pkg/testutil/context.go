package testutil

import (
	"net/http"
	"time"

	"casenotes/pkg/requestcontext"
)

// WithUser attaches a caller identity to the request context, simulating
// what the auth middleware does for an authenticated request.
func WithUser(req *http.Request, user requestcontext.User) *http.Request {
	return req.WithContext(requestcontext.WithUser(req.Context(), user))
}

// WithTime pins the request-scoped clock so timestamp assertions are exact.
func WithTime(req *http.Request, t time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), t))
}
