package testutil

import (
	"context"
	"net/http"
	"time"

	id "hemotrace/pkg/domain"
	"hemotrace/pkg/requestcontext"
)

// WithCaller adds a caller identity to the request context.
// This simulates what the auth middleware does for authenticated requests.
func WithCaller(req *http.Request, caller string) *http.Request {
	identity, err := id.ParseIdentity(caller)
	if err != nil {
		return req
	}
	return req.WithContext(requestcontext.WithCaller(req.Context(), identity))
}

// WithRequestTime pins the request-scoped clock on the request context.
func WithRequestTime(req *http.Request, now time.Time) *http.Request {
	return req.WithContext(requestcontext.WithTime(req.Context(), now))
}

// ContextWithCaller returns a context carrying the caller identity. For
// service-level tests that skip the HTTP layer.
func ContextWithCaller(caller string) context.Context {
	return requestcontext.WithCaller(context.Background(), id.Identity(caller))
}

// ContextWithCallerAt carries both the caller and a pinned clock.
func ContextWithCallerAt(caller string, now time.Time) context.Context {
	return requestcontext.WithTime(ContextWithCaller(caller), now)
}

// WithContextValue adds an arbitrary key-value pair to the request context.
func WithContextValue(req *http.Request, key, value any) *http.Request {
	ctx := context.WithValue(req.Context(), key, value)
	return req.WithContext(ctx)
}
