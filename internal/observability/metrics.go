// Package observability defines the Prometheus metrics for the dashboard
// service: pipeline stage recomputation, provider fetches, and HTTP traffic.
package observability

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the Prometheus counters, histograms, and gauges for the
// observation pipeline and the HTTP surface.
type Metrics struct {
	// Pipeline metrics.
	StageRecomputes *prometheus.CounterVec // labels: stage={request,fetch,table,plan}
	MemoHits        *prometheus.CounterVec // labels: stage={request,fetch,table}
	FetchDuration   prometheus.Histogram
	FetchErrors     prometheus.Counter

	// Feedback metrics.
	FeedbackSubmissions *prometheus.CounterVec // labels: outcome={succeeded,failed,empty}

	// Session metrics.
	ActiveSessions prometheus.Gauge

	// HTTP metrics.
	RequestDuration *prometheus.HistogramVec // labels: method, path, status
}

// NewMetrics creates and registers all metrics with the default registry.
func NewMetrics() *Metrics {
	m := newMetrics()
	prometheus.MustRegister(
		m.StageRecomputes,
		m.MemoHits,
		m.FetchDuration,
		m.FetchErrors,
		m.FeedbackSubmissions,
		m.ActiveSessions,
		m.RequestDuration,
	)
	return m
}

// NewMetricsForTesting creates Metrics without registering them, so tests
// can construct services repeatedly without "already registered" panics.
func NewMetricsForTesting() *Metrics {
	return newMetrics()
}

func newMetrics() *Metrics {
	return &Metrics{
		StageRecomputes: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irondash",
			Name:      "pipeline_stage_recomputes_total",
			Help:      "Pipeline stage recomputations by stage.",
		}, []string{"stage"}),
		MemoHits: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irondash",
			Name:      "pipeline_memo_hits_total",
			Help:      "Pipeline stage results served from the memo cache.",
		}, []string{"stage"}),
		FetchDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Namespace: "irondash",
			Name:      "provider_fetch_duration_seconds",
			Help:      "Duration of observation API fetches.",
			Buckets:   []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
		}),
		FetchErrors: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: "irondash",
			Name:      "provider_fetch_errors_total",
			Help:      "Observation API fetches that failed.",
		}),
		FeedbackSubmissions: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "irondash",
			Name:      "feedback_submissions_total",
			Help:      "Feedback submissions by outcome.",
		}, []string{"outcome"}),
		ActiveSessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: "irondash",
			Name:      "active_sessions",
			Help:      "Dashboard sessions currently alive.",
		}),
		RequestDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: "irondash",
			Name:      "http_request_duration_seconds",
			Help:      "HTTP request duration by method, path, and status.",
			Buckets:   []float64{0.005, 0.01, 0.05, 0.1, 0.5, 1, 2.5, 5},
		}, []string{"method", "path", "status"}),
	}
}

// ObserveRequest records one completed HTTP request.
func (m *Metrics) ObserveRequest(method, path string, status int, d time.Duration) {
	m.RequestDuration.WithLabelValues(method, path, strconv.Itoa(status)).Observe(d.Seconds())
}

// Handler returns the /metrics endpoint for the default registry.
func Handler() http.Handler {
	return promhttp.Handler()
}
