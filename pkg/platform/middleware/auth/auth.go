package auth

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"

	request "pscfiling/pkg/platform/middleware/request"
)

// Header names the upstream gateway populates. The access token is forwarded
// verbatim to the transaction, PSC and company profile APIs.
const (
	HeaderAccessToken   = "ERIC-Access-Token"
	HeaderAuthorization = "Authorization"
)

type tokenKey struct{}

// WithToken stores the passthrough token in ctx.
func WithToken(ctx context.Context, token string) context.Context {
	return context.WithValue(ctx, tokenKey{}, token)
}

// GetToken returns the passthrough token, or "" when none was attached.
func GetToken(ctx context.Context) string {
	if token, ok := ctx.Value(tokenKey{}).(string); ok {
		return token
	}
	return ""
}

// writeJSONError writes a JSON error response with the given status code and error details.
func writeJSONError(w http.ResponseWriter, status int, errCode, errDesc string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_, _ = w.Write(fmt.Appendf(nil, `{"error":"%s","error_description":"%s"}`, errCode, errDesc))
}

// RequirePassthroughToken rejects requests that arrive without a token the
// downstream APIs can be called with.
func RequirePassthroughToken(logger *slog.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			ctx := r.Context()
			token := extractToken(r)
			if token == "" {
				logger.WarnContext(ctx, "unauthorized access - missing passthrough token",
					"request_id", request.GetRequestID(ctx),
					"path", r.URL.Path,
				)
				writeJSONError(w, http.StatusUnauthorized, "unauthorized", "missing access token")
				return
			}
			next.ServeHTTP(w, r.WithContext(WithToken(ctx, token)))
		})
	}
}

func extractToken(r *http.Request) string {
	if token := strings.TrimSpace(r.Header.Get(HeaderAccessToken)); token != "" {
		return token
	}
	return strings.TrimSpace(r.Header.Get(HeaderAuthorization))
}
