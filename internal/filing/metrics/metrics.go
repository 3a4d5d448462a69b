package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds Prometheus collectors for filing operations.
type Metrics struct {
	FilingsCreated    *prometheus.CounterVec
	FilingsPatched    *prometheus.CounterVec
	ValidationRuns    *prometheus.CounterVec
	FieldErrors       *prometheus.CounterVec
	PscLookups        *prometheus.CounterVec
	PscLookupsPerRun  prometheus.Histogram
	PatchAttempts     prometheus.Histogram
	PatchConflicts    prometheus.Counter
	GateRejections    *prometheus.CounterVec
	ProjectionsServed *prometheus.CounterVec

	StoreOperationLatency *prometheus.HistogramVec
}

// New registers filing metrics on the default registry. Call once per process.
func New() *Metrics {
	return NewWithRegistry(prometheus.DefaultRegisterer)
}

// NewWithRegistry registers filing metrics on reg.
func NewWithRegistry(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		FilingsCreated: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_created_total",
			Help: "Total number of filings created, labeled by psc type",
		}, []string{"psc_type"}),
		FilingsPatched: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_patched_total",
			Help: "Total number of patch requests, labeled by psc type and outcome",
		}, []string{"psc_type", "outcome"}),
		ValidationRuns: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_validation_runs_total",
			Help: "Total number of validation chain runs, labeled by psc type and result",
		}, []string{"psc_type", "valid"}),
		FieldErrors: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_field_errors_total",
			Help: "Total number of field errors reported, labeled by field",
		}, []string{"field"}),
		PscLookups: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_psc_lookups_total",
			Help: "Total number of PSC API lookups made by validation rules, labeled by outcome",
		}, []string{"outcome"}),
		PscLookupsPerRun: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "psc_filing_psc_lookups_per_validation",
			Help:    "Distribution of PSC API lookups per validation chain run",
			Buckets: []float64{0, 1, 2, 3, 4, 5},
		}),
		PatchAttempts: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "psc_filing_patch_attempts",
			Help:    "Distribution of attempts needed per patch request",
			Buckets: []float64{1, 2, 3, 5, 8},
		}),
		PatchConflicts: f.NewCounter(prometheus.CounterOpts{
			Name: "psc_filing_patch_conflicts_total",
			Help: "Total number of etag conflicts hit while persisting patches",
		}),
		GateRejections: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_gate_rejections_total",
			Help: "Total number of requests rejected by admissibility gates, labeled by reason",
		}, []string{"reason"}),
		ProjectionsServed: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_projections_served_total",
			Help: "Total number of filing data documents served, labeled by psc type",
		}, []string{"psc_type"}),

		StoreOperationLatency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "psc_filing_store_operation_latency_seconds",
			Help:    "Latency of filing store operations in seconds",
			Buckets: []float64{0.0001, 0.0005, 0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1},
		}, []string{"backend", "operation"}),
	}
}
