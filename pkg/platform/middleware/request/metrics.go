package request

import (
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds per-route HTTP instruments.
type Metrics struct {
	latency   *prometheus.HistogramVec
	responses *prometheus.CounterVec
}

func NewMetrics(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		latency: f.NewHistogramVec(prometheus.HistogramOpts{
			Name:    "psc_filing_endpoint_latency_seconds",
			Help:    "Latency of filing API endpoints in seconds",
			Buckets: prometheus.DefBuckets,
		}, []string{"method", "route"}),
		responses: f.NewCounterVec(prometheus.CounterOpts{
			Name: "psc_filing_http_responses_total",
			Help: "Filing API responses by route and status code",
		}, []string{"method", "route", "status"}),
	}
}

// LatencyMiddleware labels by chi route pattern, never by raw path, so
// transaction and filing ids stay out of the label set.
func LatencyMiddleware(m *Metrics) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			start := time.Now()
			rec := record(w)
			next.ServeHTTP(rec, r)

			route := "unmatched"
			if rctx := chi.RouteContext(r.Context()); rctx != nil && rctx.RoutePattern() != "" {
				route = rctx.RoutePattern()
			}
			m.latency.WithLabelValues(r.Method, route).Observe(time.Since(start).Seconds())
			m.responses.WithLabelValues(r.Method, route, strconv.Itoa(rec.status)).Inc()
		})
	}
}
