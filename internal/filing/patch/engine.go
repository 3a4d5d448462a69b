package patch

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	jsonpatch "github.com/evanphx/json-patch/v5"

	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/filing/validation"
	"pscfiling/pkg/platform/middleware/requesttime"
	"pscfiling/pkg/platform/sentinel"
)

// Repository is the slice of the filing store the engine needs.
type Repository interface {
	FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error)
	Update(ctx context.Context, f models.Filing, expectedEtag string) error
}

// Target identifies the filing a patch applies to.
type Target struct {
	TransactionID string
	PscType       models.PscType
	FilingID      string
}

// Engine merges patch documents into stored filings and persists them with
// etag-conditional updates.
type Engine struct {
	repo       Repository
	validators *validation.PatchValidators
	maxRetries int
	now        func() time.Time
	metrics    *metrics.Metrics
	logger     *slog.Logger
}

// Option configures an Engine.
type Option func(*Engine)

func WithClock(now func() time.Time) Option {
	return func(e *Engine) {
		e.now = now
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(e *Engine) {
		e.metrics = m
	}
}

func WithLogger(l *slog.Logger) Option {
	return func(e *Engine) {
		e.logger = l
	}
}

func New(repo Repository, validators *validation.PatchValidators, maxRetries int, opts ...Option) *Engine {
	e := &Engine{
		repo:       repo,
		validators: validators,
		maxRetries: maxRetries,
		logger:     slog.Default(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// Apply merges doc into the target filing. Business outcomes are reported in
// the Result; the error is reserved for ErrMergeFailed, ErrRetriesExhausted
// and store failures.
func (e *Engine) Apply(ctx context.Context, target Target, doc []byte) (Result, error) {
	attempts := 0
	res, err := Retry(e.maxRetries, func(n int) (Result, error) {
		attempts = n
		return e.attempt(ctx, target, doc)
	})
	e.observe(target, attempts, res, err)
	return res, err
}

func (e *Engine) attempt(ctx context.Context, target Target, doc []byte) (Result, error) {
	stored, err := e.repo.FindByID(ctx, target.PscType.Variant(), target.FilingID)
	if errors.Is(err, sentinel.ErrNotFound) {
		return RetrievalFailure(notFound(target)), nil
	}
	if err != nil {
		return Result{}, fmt.Errorf("load filing %s: %w", target.FilingID, err)
	}
	c := stored.Common()
	if c.TransactionID != target.TransactionID || c.PscType != target.PscType {
		return RetrievalFailure(notFound(target)), nil
	}

	merged, err := Merge(stored, doc)
	if err != nil {
		return Result{}, err
	}
	now := e.clock(ctx)
	merged.Common().UpdatedAt = now

	if errs := e.validators.For(merged).Validate(stored, merged, now); len(errs) > 0 {
		return ValidationFailure(errs), nil
	}

	prev := c.Etag
	merged.Common().Etag = models.NextEtag(prev)
	err = e.repo.Update(ctx, merged, prev)
	switch {
	case errors.Is(err, sentinel.ErrConflict):
		e.logger.DebugContext(ctx, "patch lost etag race, retrying",
			"filing_id", target.FilingID,
		)
		return Result{}, err
	case errors.Is(err, sentinel.ErrNotFound):
		return RetrievalFailure(notFound(target)), nil
	case err != nil:
		return Result{}, fmt.Errorf("update filing %s: %w", target.FilingID, err)
	}
	return Success(merged), nil
}

// clock prefers an explicit clock, then the request time.
func (e *Engine) clock(ctx context.Context) time.Time {
	if e.now != nil {
		return e.now().UTC()
	}
	return requesttime.Now(ctx)
}

func (e *Engine) observe(target Target, attempts int, res Result, err error) {
	if e.metrics == nil {
		return
	}
	outcome := res.Outcome.String()
	switch {
	case errors.Is(err, ErrRetriesExhausted):
		outcome = "retries_exhausted"
	case errors.Is(err, ErrMergeFailed):
		outcome = "merge_failed"
	case err != nil:
		outcome = "error"
	}
	if attempts > 1 {
		e.metrics.PatchConflicts.Add(float64(attempts - 1))
	}
	e.metrics.PatchAttempts.Observe(float64(attempts))
	e.metrics.FilingsPatched.WithLabelValues(target.PscType.String(), outcome).Inc()
}

func notFound(target Target) string {
	return fmt.Sprintf("filing %s not found in transaction %s", target.FilingID, target.TransactionID)
}

// Merge applies an RFC 7396 merge patch to a copy of stored. System-managed
// fields always keep their stored values.
func Merge(stored models.Filing, doc []byte) (models.Filing, error) {
	original, err := models.Encode(stored)
	if err != nil {
		return nil, fmt.Errorf("%w: encode stored filing: %w", ErrMergeFailed, err)
	}
	patched, err := jsonpatch.MergePatch(original, doc)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}
	merged, err := models.NewFiling(stored.Common().PscType)
	if err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}
	if err := json.Unmarshal(patched, merged); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrMergeFailed, err)
	}
	restoreSystemFields(merged.Common(), stored.Common())
	return merged, nil
}

func restoreSystemFields(dst, src *models.Communal) {
	dst.ID = src.ID
	dst.Kind = src.Kind
	dst.PscType = src.PscType
	dst.TransactionID = src.TransactionID
	dst.Links = src.Links
	dst.CreatedAt = src.CreatedAt
	dst.Etag = src.Etag
	dst.UpdatedAt = src.UpdatedAt
}
