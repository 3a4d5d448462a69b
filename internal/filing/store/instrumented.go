package store

import (
	"context"
	"time"

	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
)

// Instrumented records the latency of every call to the wrapped store.
type Instrumented struct {
	next    Store
	backend string
	metrics *metrics.Metrics
}

func NewInstrumented(next Store, backend string, m *metrics.Metrics) *Instrumented {
	return &Instrumented{next: next, backend: backend, metrics: m}
}

func (s *Instrumented) observe(op string, start time.Time) {
	s.metrics.StoreOperationLatency.WithLabelValues(s.backend, op).Observe(time.Since(start).Seconds())
}

func (s *Instrumented) Create(ctx context.Context, f models.Filing) error {
	defer s.observe("create", time.Now())
	return s.next.Create(ctx, f)
}

func (s *Instrumented) FindByID(ctx context.Context, variant models.Variant, id string) (models.Filing, error) {
	defer s.observe("find_by_id", time.Now())
	return s.next.FindByID(ctx, variant, id)
}

func (s *Instrumented) Update(ctx context.Context, f models.Filing, expectedEtag string) error {
	defer s.observe("update", time.Now())
	return s.next.Update(ctx, f, expectedEtag)
}
