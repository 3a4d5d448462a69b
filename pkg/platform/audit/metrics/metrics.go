// Package metrics instruments the audit publisher queue and its sink.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics is safe to use as a nil pointer; every method is then a no-op.
type Metrics struct {
	queueDepth   prometheus.Gauge
	events       *prometheus.CounterVec
	sinkDuration prometheus.Histogram
}

// Outcome labels for psc_filing_audit_events_total.
const (
	OutcomeEnqueued  = "enqueued"
	OutcomeDropped   = "dropped"
	OutcomeDelivered = "delivered"
	OutcomeFailed    = "failed"
)

func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		queueDepth: f.NewGauge(prometheus.GaugeOpts{
			Name: "psc_filing_audit_queue_depth",
			Help: "Filing events waiting in the publisher queue",
		}),
		events: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_audit_events_total",
			Help: "Filing events seen by the publisher, by outcome",
		}, []string{"outcome"}),
		sinkDuration: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "psc_filing_audit_sink_duration_seconds",
			Help:    "Time taken to hand one filing event to the sink",
			Buckets: []float64{0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1, 5},
		}),
	}
}

func (m *Metrics) Enqueued() {
	if m == nil {
		return
	}
	m.queueDepth.Inc()
	m.events.WithLabelValues(OutcomeEnqueued).Inc()
}

func (m *Metrics) Dequeued() {
	if m != nil {
		m.queueDepth.Dec()
	}
}

func (m *Metrics) Dropped() {
	if m != nil {
		m.events.WithLabelValues(OutcomeDropped).Inc()
	}
}

// Delivered records one sink call that started at start.
func (m *Metrics) Delivered(start time.Time, err error) {
	if m == nil {
		return
	}
	m.sinkDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.events.WithLabelValues(OutcomeFailed).Inc()
		return
	}
	m.events.WithLabelValues(OutcomeDelivered).Inc()
}
