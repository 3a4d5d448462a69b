// Package publisher moves audit events from request handlers to a Sink,
// either inline or through a bounded queue.
package publisher

import (
	"context"
	"log/slog"
	"sync"
	"time"

	dErrors "pscfiling/pkg/domain-errors"
	audit "pscfiling/pkg/platform/audit"
	"pscfiling/pkg/platform/audit/metrics"
)

// Sink delivers one event, e.g. to the filing topic.
type Sink interface {
	Append(ctx context.Context, event audit.Event) error
}

var ErrBufferFull = dErrors.New(dErrors.CodeUnavailable, "audit buffer full")

type Publisher struct {
	sink    Sink
	logger  *slog.Logger
	metrics *metrics.Metrics

	queue     chan audit.Event
	done      chan struct{}
	closeOnce sync.Once
}

type PublisherOption func(*Publisher)

// WithAsyncBuffer queues up to size events for a background worker. Emit then
// never waits on the sink and drops events once the queue is full.
func WithAsyncBuffer(size int) PublisherOption {
	return func(p *Publisher) {
		if size > 0 {
			p.queue = make(chan audit.Event, size)
		}
	}
}

func WithPublisherLogger(logger *slog.Logger) PublisherOption {
	return func(p *Publisher) { p.logger = logger }
}

func WithMetrics(m *metrics.Metrics) PublisherOption {
	return func(p *Publisher) { p.metrics = m }
}

func NewPublisher(sink Sink, opts ...PublisherOption) *Publisher {
	p := &Publisher{sink: sink, logger: slog.New(slog.DiscardHandler)}
	for _, opt := range opts {
		opt(p)
	}
	if p.queue != nil {
		p.done = make(chan struct{})
		go p.drain()
	}
	return p
}

// Emit stamps the event time if unset and delivers or queues it.
func (p *Publisher) Emit(ctx context.Context, event audit.Event) error {
	if event.Timestamp.IsZero() {
		event.Timestamp = time.Now().UTC()
	}
	if p.queue == nil {
		return p.deliver(ctx, event)
	}
	select {
	case p.queue <- event:
		p.metrics.Enqueued()
		return nil
	case <-ctx.Done():
		return ctx.Err()
	default:
		p.metrics.Dropped()
		p.logger.WarnContext(ctx, "audit buffer full, event dropped",
			"action", event.Action,
			"filing_id", event.FilingID,
		)
		return ErrBufferFull
	}
}

func (p *Publisher) drain() {
	defer close(p.done)
	for event := range p.queue {
		p.metrics.Dequeued()
		if err := p.deliver(context.Background(), event); err != nil {
			p.logger.Error("failed to forward audit event",
				"error", err,
				"action", event.Action,
				"filing_id", event.FilingID,
			)
		}
	}
}

func (p *Publisher) deliver(ctx context.Context, event audit.Event) error {
	start := time.Now()
	err := p.sink.Append(ctx, event)
	p.metrics.Delivered(start, err)
	return err
}

// Close stops accepting queued events and waits until the queue is empty.
// Emit must not be called after Close.
func (p *Publisher) Close() {
	if p.queue == nil {
		return
	}
	p.closeOnce.Do(func() {
		close(p.queue)
		<-p.done
	})
}
