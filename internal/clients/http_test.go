package clients

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"pscfiling/pkg/platform/circuit"
	request "pscfiling/pkg/platform/middleware/request"
)

func TestBaseDo(t *testing.T) {
	tests := []struct {
		name     string
		status   int
		body     string
		category ErrorCategory
	}{
		{"not found", http.StatusNotFound, `{}`, ErrorNotFound},
		{"unauthorized", http.StatusUnauthorized, `{}`, ErrorAuthentication},
		{"forbidden", http.StatusForbidden, `{}`, ErrorAuthentication},
		{"gateway timeout", http.StatusGatewayTimeout, ``, ErrorTimeout},
		{"server error", http.StatusInternalServerError, ``, ErrorUnavailable},
		{"bad request", http.StatusBadRequest, `{}`, ErrorBadData},
		{"malformed body", http.StatusOK, `{"etag":`, ErrorBadData},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
				w.WriteHeader(tt.status)
				_, _ = w.Write([]byte(tt.body))
			}))
			defer srv.Close()

			base := NewBase(Config{Service: "psc-api", BaseURL: srv.URL, Timeout: time.Second})
			var out map[string]any
			err := base.Do(context.Background(), http.MethodGet, "/x", "tok", nil, &out)

			require.Error(t, err)
			var se *ServiceError
			require.True(t, errors.As(err, &se))
			assert.Equal(t, tt.category, se.Category)
			assert.Equal(t, "psc-api", se.Service)
			assert.Equal(t, tt.category == ErrorNotFound, IsNotFound(err))
		})
	}
}

func TestBaseDoForwardsHeadersAndDecodes(t *testing.T) {
	var gotAuth, gotRequestID, gotContentType string
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		gotAuth = r.Header.Get("Authorization")
		gotRequestID = r.Header.Get("X-Request-Id")
		gotContentType = r.Header.Get("Content-Type")
		_, _ = w.Write([]byte(`{"etag":"6789"}`))
	}))
	defer srv.Close()

	base := NewBase(Config{Service: "psc-api", BaseURL: srv.URL})
	ctx := request.WithRequestID(context.Background(), "req-1")

	var out struct {
		Etag string `json:"etag"`
	}
	require.NoError(t, base.Do(ctx, http.MethodPut, "/x", "Bearer abc", map[string]string{"a": "b"}, &out))

	assert.Equal(t, "6789", out.Etag)
	assert.Equal(t, "Bearer abc", gotAuth)
	assert.Equal(t, "req-1", gotRequestID)
	assert.Equal(t, "application/json", gotContentType)
}

func TestBaseDoOpensCircuitOnOutages(t *testing.T) {
	calls := 0
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		calls++
		w.WriteHeader(http.StatusServiceUnavailable)
	}))
	defer srv.Close()

	breaker := circuit.New("psc-api", circuit.WithFailureThreshold(2), circuit.WithCooldown(time.Hour))
	base := NewBase(Config{Service: "psc-api", BaseURL: srv.URL, Breaker: breaker})

	for range 2 {
		_ = base.Do(context.Background(), http.MethodGet, "/x", "", nil, nil)
	}
	err := base.Do(context.Background(), http.MethodGet, "/x", "", nil, nil)

	assert.Equal(t, 2, calls, "third call fails fast")
	assert.Equal(t, ErrorUnavailable, CategoryOf(err))
	assert.Contains(t, err.Error(), "circuit open")
}

func TestBaseDoNotFoundDoesNotTripCircuit(t *testing.T) {
	srv := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusNotFound)
	}))
	defer srv.Close()

	breaker := circuit.New("psc-api", circuit.WithFailureThreshold(1))
	base := NewBase(Config{Service: "psc-api", BaseURL: srv.URL, Breaker: breaker})

	for range 3 {
		assert.True(t, IsNotFound(base.Do(context.Background(), http.MethodGet, "/x", "", nil, nil)))
	}
	assert.Equal(t, circuit.StateClosed, breaker.State())
}

func TestCategoryOfPlainError(t *testing.T) {
	assert.Equal(t, ErrorInternal, CategoryOf(errors.New("plain")))
	assert.False(t, IsNotFound(nil))
}
