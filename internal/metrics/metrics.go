package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// MetricsRegistry holds all Prometheus metrics for the call list service
type MetricsRegistry struct {
	// HTTP Metrics
	HTTPRequestsTotal    *prometheus.CounterVec
	HTTPRequestDuration  *prometheus.HistogramVec
	HTTPRequestsInFlight *prometheus.GaugeVec

	// Cache Metrics
	CacheHitsTotal   *prometheus.CounterVec
	CacheMissesTotal *prometheus.CounterVec

	// Directory Metrics
	ImportRowsTotal    *prometheus.CounterVec
	ImportDuration     prometheus.Histogram
	EditLogEntries     *prometheus.CounterVec
	PhoneMutations     *prometheus.CounterVec
	CallsLoggedTotal   prometheus.Counter
	LedgerClearedTotal *prometheus.CounterVec
	JobDuration        *prometheus.HistogramVec
}

// NewMetricsRegistry registers every metric against reg. Tests pass a fresh
// prometheus.NewRegistry(); the server passes prometheus.DefaultRegisterer.
func NewMetricsRegistry(reg prometheus.Registerer) *MetricsRegistry {
	f := promauto.With(reg)
	return &MetricsRegistry{
		HTTPRequestsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_http_requests_total",
				Help: "Total HTTP requests processed by endpoint, method, and status code",
			},
			[]string{"endpoint", "method", "status_code"},
		),
		HTTPRequestDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calllist_http_request_duration_seconds",
				Help:    "HTTP request latency distribution in seconds",
				Buckets: []float64{0.005, 0.01, 0.025, 0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10},
			},
			[]string{"endpoint", "method"},
		),
		HTTPRequestsInFlight: f.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "calllist_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"endpoint"},
		),

		CacheHitsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_cache_hits_total",
				Help: "Total cache hits by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),
		CacheMissesTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_cache_misses_total",
				Help: "Total cache misses by cache key pattern",
			},
			[]string{"cache_key_pattern"},
		),

		ImportRowsTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_import_rows_total",
				Help: "Feed import rows by outcome (created, updated, error)",
			},
			[]string{"outcome"},
		),
		ImportDuration: f.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "calllist_import_duration_seconds",
				Help:    "Feed import execution time in seconds",
				Buckets: []float64{0.1, 0.5, 1, 5, 10, 30, 60, 120},
			},
		),
		EditLogEntries: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_edit_log_entries_total",
				Help: "Audit entries written by field",
			},
			[]string{"field"},
		),
		PhoneMutations: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_phone_mutations_total",
				Help: "Phone add/update/delete/primary operations by outcome",
			},
			[]string{"operation", "outcome"},
		),
		CallsLoggedTotal: f.NewCounter(
			prometheus.CounterOpts{
				Name: "calllist_calls_logged_total",
				Help: "Total call actions recorded",
			},
		),
		LedgerClearedTotal: f.NewCounterVec(
			prometheus.CounterOpts{
				Name: "calllist_ledger_rows_cleared_total",
				Help: "Recent call rows removed, by reset or prune",
			},
			[]string{"source"},
		),
		JobDuration: f.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "calllist_job_duration_seconds",
				Help:    "Scheduled job execution time in seconds",
				Buckets: []float64{0.01, 0.05, 0.1, 0.5, 1, 5, 10, 30},
			},
			[]string{"job_name"},
		),
	}
}

// The helpers below accept a nil registry so services can run without metrics.

func (m *MetricsRegistry) ImportRow(outcome string) {
	if m != nil {
		m.ImportRowsTotal.WithLabelValues(outcome).Inc()
	}
}

func (m *MetricsRegistry) ObserveImport(seconds float64) {
	if m != nil {
		m.ImportDuration.Observe(seconds)
	}
}

func (m *MetricsRegistry) EditLogged(field string, n int) {
	if m != nil && n > 0 {
		m.EditLogEntries.WithLabelValues(field).Add(float64(n))
	}
}

func (m *MetricsRegistry) PhoneMutation(operation string, err error) {
	if m == nil {
		return
	}
	outcome := "ok"
	if err != nil {
		outcome = "rejected"
	}
	m.PhoneMutations.WithLabelValues(operation, outcome).Inc()
}

func (m *MetricsRegistry) CallLogged() {
	if m != nil {
		m.CallsLoggedTotal.Inc()
	}
}

func (m *MetricsRegistry) LedgerCleared(source string, n int64) {
	if m != nil && n > 0 {
		m.LedgerClearedTotal.WithLabelValues(source).Add(float64(n))
	}
}

func (m *MetricsRegistry) CacheLookup(pattern string, hit bool) {
	if m == nil {
		return
	}
	if hit {
		m.CacheHitsTotal.WithLabelValues(pattern).Inc()
	} else {
		m.CacheMissesTotal.WithLabelValues(pattern).Inc()
	}
}

func (m *MetricsRegistry) ObserveJob(name string, seconds float64) {
	if m != nil {
		m.JobDuration.WithLabelValues(name).Observe(seconds)
	}
}
