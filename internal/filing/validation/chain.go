package validation

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"

	"pscfiling/internal/clients"
	"pscfiling/internal/filing/metrics"
	"pscfiling/internal/filing/models"
	"pscfiling/internal/platform/config"
	"pscfiling/internal/platform/tracer"
)

// ErrUnsupportedPscType means no chain is registered for a PSC type. It is a
// wiring defect, not bad input.
var ErrUnsupportedPscType = errors.New("unsupported psc type")

// Chains maps each PSC type to its ordered rules. Build it once with
// NewChains; it must not be modified afterwards.
type Chains map[models.PscType][]Rule

// NewChains builds the rule table. Every PSC type currently runs the same
// sequence.
func NewChains(lookup PscLookup, msgs config.Messages) Chains {
	cessation := []Rule{
		NewRequiredFields(msgs),
		NewPscExists(lookup, msgs),
		NewEtagMatch(lookup, msgs),
		NewCeasedOnAfterNotified(lookup, msgs),
		NewRegisterEntryDate(msgs),
		NewPscIsActive(lookup, msgs),
	}
	chains := make(Chains, len(models.PscTypes))
	for _, t := range models.PscTypes {
		chains[t] = cessation
	}
	return chains
}

// Dispatcher resolves and runs the chain for a context's PSC type. It holds
// no per-request state and is safe for concurrent use.
type Dispatcher struct {
	chains  Chains
	tracer  tracer.Tracer
	metrics *metrics.Metrics
}

// Option configures a Dispatcher.
type Option func(*Dispatcher)

func WithTracer(t tracer.Tracer) Option {
	return func(d *Dispatcher) {
		d.tracer = t
	}
}

func WithMetrics(m *metrics.Metrics) Option {
	return func(d *Dispatcher) {
		d.metrics = m
	}
}

// NewDispatcher wraps an immutable chain table.
func NewDispatcher(chains Chains, opts ...Option) *Dispatcher {
	d := &Dispatcher{chains: chains, tracer: tracer.NewNoop()}
	for _, opt := range opts {
		opt(d)
	}
	return d
}

// Validate runs the chain for vctx.PscType. Field errors accumulate on vctx;
// the returned error is non-nil only for ErrUnsupportedPscType or an
// infrastructure failure inside a rule.
func (d *Dispatcher) Validate(ctx context.Context, vctx *Context) (err error) {
	rules, ok := d.chains[vctx.PscType]
	if !ok {
		return fmt.Errorf("%w: %q", ErrUnsupportedPscType, vctx.PscType)
	}

	ctx, span := d.tracer.Start(ctx, tracer.SpanValidationChain,
		tracer.String(tracer.AttrPscType, vctx.PscType.String()),
		tracer.String(tracer.AttrTransactionID, vctx.Transaction.ID),
	)
	defer func() {
		span.SetAttributes(tracer.Int(tracer.AttrFieldErrors, len(vctx.Errors())))
		span.End(err)
	}()

	var lookups atomic.Int32
	ctx = withLookupCounter(ctx, &lookups)

	for _, rule := range rules {
		verdict, err := rule.Validate(ctx, vctx)
		if err != nil {
			return fmt.Errorf("rule %s: %w", rule.Name(), err)
		}
		if verdict == Stop {
			span.AddEvent("chain.stopped", tracer.String("rule", rule.Name()))
			break
		}
	}

	d.observe(vctx, int(lookups.Load()))
	return nil
}

func (d *Dispatcher) observe(vctx *Context, lookups int) {
	if d.metrics == nil {
		return
	}
	d.metrics.ValidationRuns.WithLabelValues(vctx.PscType.String(), fmt.Sprint(vctx.Valid())).Inc()
	d.metrics.PscLookupsPerRun.Observe(float64(lookups))
	for _, fe := range vctx.Errors() {
		d.metrics.FieldErrors.WithLabelValues(fe.Field).Inc()
	}
}

type lookupCounterKey struct{}

func withLookupCounter(ctx context.Context, n *atomic.Int32) context.Context {
	return context.WithValue(ctx, lookupCounterKey{}, n)
}

// CountingLookup decorates a PscLookup so every call is counted per run and
// by outcome.
type CountingLookup struct {
	next    PscLookup
	metrics *metrics.Metrics
}

func NewCountingLookup(next PscLookup, m *metrics.Metrics) *CountingLookup {
	return &CountingLookup{next: next, metrics: m}
}

func (l *CountingLookup) GetPscDetails(ctx context.Context, tx models.Transaction, pscID string, pscType models.PscType, token string) (*models.PscDetails, error) {
	if n, ok := ctx.Value(lookupCounterKey{}).(*atomic.Int32); ok {
		n.Add(1)
	}
	details, err := l.next.GetPscDetails(ctx, tx, pscID, pscType, token)
	if l.metrics != nil {
		outcome := "found"
		switch {
		case clients.IsNotFound(err):
			outcome = "not_found"
		case err != nil:
			outcome = "error"
		}
		l.metrics.PscLookups.WithLabelValues(outcome).Inc()
	}
	return details, err
}
