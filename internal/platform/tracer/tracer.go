// Package tracer wraps OpenTelemetry spans for the outbound API clients and
// the validation dispatcher, so those packages only see Start/End.
package tracer

import (
	"context"
	"time"

	"go.opentelemetry.io/otel"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/codes"
	"go.opentelemetry.io/otel/trace"
	"go.opentelemetry.io/otel/trace/noop"
)

const instrumentationName = "pscfiling"

// Span names.
const (
	SpanTransactionGet    = "transactions_api.get"
	SpanTransactionUpdate = "transactions_api.update"
	SpanPscDetails        = "psc_api.get_details"
	SpanCompanyProfile    = "company_profile_api.get"
	SpanValidationChain   = "filing.validation_chain"
)

// Attribute keys.
const (
	AttrTransactionID  = "transaction_id"
	AttrCompanyNumber  = "company_number"
	AttrPscType        = "psc_type"
	AttrPscID          = "psc_id"
	AttrHTTPStatusCode = "http.status_code"
	AttrBreakerState   = "circuit.state"
	AttrFieldErrors    = "validation.field_errors"
)

// Attribute is a key/value recorded on a span.
type Attribute struct {
	kv attribute.KeyValue
}

func String(key, value string) Attribute { return Attribute{attribute.String(key, value)} }
func Bool(key string, value bool) Attribute { return Attribute{attribute.Bool(key, value)} }
func Int(key string, value int) Attribute { return Attribute{attribute.Int(key, value)} }

// Duration records value in whole milliseconds.
func Duration(key string, value time.Duration) Attribute {
	return Attribute{attribute.Int64(key, value.Milliseconds())}
}

// Span is an in-flight span. End must be called exactly once.
type Span interface {
	End(err error)
	SetAttributes(attrs ...Attribute)
	AddEvent(name string, attrs ...Attribute)
}

// Tracer starts spans. Implementations are safe for concurrent use.
type Tracer interface {
	Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span)
}

// OTel starts spans on an OpenTelemetry tracer.
type OTel struct {
	tracer trace.Tracer
}

type Option func(*OTel)

// WithProvider takes spans from p instead of the global provider.
func WithProvider(p trace.TracerProvider) Option {
	return func(o *OTel) { o.tracer = p.Tracer(instrumentationName) }
}

func NewOTel(opts ...Option) *OTel {
	t := &OTel{}
	for _, opt := range opts {
		opt(t)
	}
	if t.tracer == nil {
		t.tracer = otel.Tracer(instrumentationName)
	}
	return t
}

// NewNoop returns a tracer whose spans record nothing.
func NewNoop() *OTel {
	return NewOTel(WithProvider(noop.NewTracerProvider()))
}

func (t *OTel) Start(ctx context.Context, name string, attrs ...Attribute) (context.Context, Span) {
	ctx, span := t.tracer.Start(ctx, name, trace.WithAttributes(keyValues(attrs)...))
	return ctx, otelSpan{span}
}

type otelSpan struct {
	span trace.Span
}

func (s otelSpan) End(err error) {
	if err != nil {
		s.span.RecordError(err)
		s.span.SetStatus(codes.Error, err.Error())
	}
	s.span.End()
}

func (s otelSpan) SetAttributes(attrs ...Attribute) {
	s.span.SetAttributes(keyValues(attrs)...)
}

func (s otelSpan) AddEvent(name string, attrs ...Attribute) {
	s.span.AddEvent(name, trace.WithAttributes(keyValues(attrs)...))
}

func keyValues(attrs []Attribute) []attribute.KeyValue {
	if len(attrs) == 0 {
		return nil
	}
	kvs := make([]attribute.KeyValue, len(attrs))
	for i, a := range attrs {
		kvs[i] = a.kv
	}
	return kvs
}

var _ Tracer = (*OTel)(nil)
