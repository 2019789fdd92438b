package observability

import (
	"net/http"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

const metricsNamespace = "storefront"

// Metrics owns a private registry. A nil *Metrics is valid and records nothing.
type Metrics struct {
	registry *prometheus.Registry

	apiRequests *prometheus.CounterVec
	apiLatency  *prometheus.HistogramVec
	apiInflight prometheus.Gauge

	reportRuns    *prometheus.CounterVec
	reportLatency *prometheus.HistogramVec
	reportRows    *prometheus.HistogramVec
	cacheLookups  *prometheus.CounterVec
}

func NewMetrics() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		apiRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "requests_total",
			Help:      "Total API requests by method/route/status.",
		}, []string{"method", "route", "status"}),
		apiLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "request_duration_seconds",
			Help:      "API request latency in seconds by method/route.",
			Buckets:   []float64{0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2, 5, 10, 30},
		}, []string{"method", "route"}),
		apiInflight: prometheus.NewGauge(prometheus.GaugeOpts{
			Namespace: metricsNamespace,
			Subsystem: "api",
			Name:      "inflight_requests",
			Help:      "In-flight API requests.",
		}),
		reportRuns: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reports",
			Name:      "runs_total",
			Help:      "Report runs by report and outcome (ok, cached, or an error code).",
		}, []string{"report", "outcome"}),
		reportLatency: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "reports",
			Name:      "run_duration_seconds",
			Help:      "Report latency in seconds.",
			Buckets:   prometheus.ExponentialBuckets(0.001, 2, 14),
		}, []string{"report"}),
		reportRows: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: metricsNamespace,
			Subsystem: "reports",
			Name:      "rows",
			Help:      "Rows returned per successful report run.",
			Buckets:   prometheus.ExponentialBuckets(1, 4, 8),
		}, []string{"report"}),
		cacheLookups: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: metricsNamespace,
			Subsystem: "reports",
			Name:      "cache_lookups_total",
			Help:      "Report cache lookups by result (hit, miss, error).",
		}, []string{"report", "result"}),
	}
	m.registry.MustRegister(
		m.apiRequests,
		m.apiLatency,
		m.apiInflight,
		m.reportRuns,
		m.reportLatency,
		m.reportRows,
		m.cacheLookups,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	if m == nil {
		return http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
			w.WriteHeader(http.StatusServiceUnavailable)
		})
	}
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}

func (m *Metrics) ObserveAPI(method, route, status string, dur time.Duration) {
	if m == nil {
		return
	}
	if method == "" {
		method = "UNKNOWN"
	}
	if route == "" {
		route = "unmatched"
	}
	method = strings.ToUpper(method)
	m.apiRequests.WithLabelValues(method, route, status).Inc()
	m.apiLatency.WithLabelValues(method, route).Observe(dur.Seconds())
}

func (m *Metrics) APIInflightInc() {
	if m == nil {
		return
	}
	m.apiInflight.Inc()
}

func (m *Metrics) APIInflightDec() {
	if m == nil {
		return
	}
	m.apiInflight.Dec()
}

func (m *Metrics) ObserveReport(report, outcome string, rows int, dur time.Duration) {
	if m == nil {
		return
	}
	m.reportRuns.WithLabelValues(report, outcome).Inc()
	m.reportLatency.WithLabelValues(report).Observe(dur.Seconds())
	if outcome == "ok" || outcome == "cached" {
		m.reportRows.WithLabelValues(report).Observe(float64(rows))
	}
}

func (m *Metrics) ObserveCacheLookup(report, result string) {
	if m == nil {
		return
	}
	m.cacheLookups.WithLabelValues(report, result).Inc()
}
