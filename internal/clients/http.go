package clients

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"pscfiling/internal/platform/tracer"
	"pscfiling/pkg/platform/circuit"
	request "pscfiling/pkg/platform/middleware/request"
)

// HTTPDoer is the minimal interface needed from an HTTP client.
type HTTPDoer interface {
	Do(req *http.Request) (*http.Response, error)
}

// Config configures one API client.
type Config struct {
	Service    string
	BaseURL    string
	Timeout    time.Duration
	HTTPClient HTTPDoer
	Breaker    *circuit.Breaker
	Tracer     tracer.Tracer
	Logger     *slog.Logger
}

// Base performs JSON calls against one API and classifies failures.
type Base struct {
	service string
	baseURL string
	client  HTTPDoer
	breaker *circuit.Breaker
	tracer  tracer.Tracer
	logger  *slog.Logger
}

// NewBase builds a Base, filling in a timed http.Client, a breaker and a
// no-op tracer when they are not supplied.
func NewBase(cfg Config) *Base {
	if cfg.Timeout == 0 {
		cfg.Timeout = 10 * time.Second
	}
	b := &Base{
		service: cfg.Service,
		baseURL: cfg.BaseURL,
		client:  cfg.HTTPClient,
		breaker: cfg.Breaker,
		tracer:  cfg.Tracer,
		logger:  cfg.Logger,
	}
	if b.client == nil {
		b.client = &http.Client{Timeout: cfg.Timeout}
	}
	if b.breaker == nil {
		b.breaker = circuit.New(cfg.Service)
	}
	if b.tracer == nil {
		b.tracer = tracer.NewNoop()
	}
	if b.logger == nil {
		b.logger = slog.New(slog.DiscardHandler)
	}
	return b
}

// Tracer returns the tracer used for this API.
func (b *Base) Tracer() tracer.Tracer {
	return b.tracer
}

// Do sends a request and decodes a 2xx JSON body into out (when non-nil).
// Not-found, auth and outage answers come back as *ServiceError. Only outage
// classes count against the circuit breaker.
func (b *Base) Do(ctx context.Context, method, path, token string, body, out any) error {
	if !b.breaker.Allow() {
		return NewServiceError(ErrorUnavailable, b.service, "circuit open", 0, nil)
	}

	err := b.do(ctx, method, path, token, body, out)
	category := CategoryOf(err)
	from, to := b.breaker.Record(category == ErrorTimeout || category == ErrorUnavailable)
	if from != to {
		b.logger.WarnContext(ctx, "circuit state changed",
			"service", b.service,
			"from", from.String(),
			"to", to.String(),
		)
	}
	return err
}

func (b *Base) do(ctx context.Context, method, path, token string, body, out any) error {
	var reader io.Reader
	if body != nil {
		payload, err := json.Marshal(body)
		if err != nil {
			return NewServiceError(ErrorInternal, b.service, "failed to marshal request", 0, err)
		}
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, b.baseURL+path, reader)
	if err != nil {
		return NewServiceError(ErrorInternal, b.service, "failed to create request", 0, err)
	}
	req.Header.Set("Accept", "application/json")
	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if token != "" {
		req.Header.Set("Authorization", token)
	}
	if id := request.GetRequestID(ctx); id != "" {
		req.Header.Set("X-Request-Id", id)
	}

	resp, err := b.client.Do(req)
	if err != nil {
		if errors.Is(err, context.DeadlineExceeded) || isTimeout(err) {
			return NewServiceError(ErrorTimeout, b.service, "request timeout", 0, err)
		}
		return NewServiceError(ErrorUnavailable, b.service, "failed to execute request", 0, err)
	}
	defer resp.Body.Close()

	respBody, err := io.ReadAll(resp.Body)
	if err != nil {
		return NewServiceError(ErrorBadData, b.service, "failed to read response", resp.StatusCode, err)
	}

	switch {
	case resp.StatusCode == http.StatusNotFound:
		return NewServiceError(ErrorNotFound, b.service, "resource not found", resp.StatusCode, nil)
	case resp.StatusCode == http.StatusUnauthorized, resp.StatusCode == http.StatusForbidden:
		return NewServiceError(ErrorAuthentication, b.service,
			fmt.Sprintf("authentication failed: %d", resp.StatusCode), resp.StatusCode, nil)
	case resp.StatusCode == http.StatusGatewayTimeout:
		return NewServiceError(ErrorTimeout, b.service, "upstream timeout", resp.StatusCode, nil)
	case resp.StatusCode >= 500:
		return NewServiceError(ErrorUnavailable, b.service,
			fmt.Sprintf("service unavailable: %d", resp.StatusCode), resp.StatusCode, nil)
	case resp.StatusCode < 200 || resp.StatusCode > 299:
		return NewServiceError(ErrorBadData, b.service,
			fmt.Sprintf("unexpected status: %d", resp.StatusCode), resp.StatusCode, nil)
	}

	if out == nil || len(bytes.TrimSpace(respBody)) == 0 {
		return nil
	}
	if err := json.Unmarshal(respBody, out); err != nil {
		return NewServiceError(ErrorBadData, b.service, "failed to parse response", resp.StatusCode, err)
	}
	return nil
}

func isTimeout(err error) bool {
	var te interface{ Timeout() bool }
	return errors.As(err, &te) && te.Timeout()
}
