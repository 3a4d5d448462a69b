// Package requesttime gives each request one fixed "now", so a filing's
// created_at and updated_at and the future-date checks read the same instant.
package requesttime

import (
	"context"
	"net/http"
	"time"
)

type ctxKey struct{}

// Clock supplies the instant pinned to each request.
type Clock func() time.Time

// Middleware pins time.Now to every request.
func Middleware(next http.Handler) http.Handler {
	return WithClock(time.Now)(next)
}

// WithClock pins clock() in UTC to every request.
func WithClock(clock Clock) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			next.ServeHTTP(w, r.WithContext(WithTime(r.Context(), clock())))
		})
	}
}

// Now returns the pinned instant, falling back to the wall clock.
func Now(ctx context.Context) time.Time {
	if t, ok := ctx.Value(ctxKey{}).(time.Time); ok {
		return t
	}
	return time.Now().UTC()
}

func WithTime(ctx context.Context, t time.Time) context.Context {
	return context.WithValue(ctx, ctxKey{}, t.UTC())
}
