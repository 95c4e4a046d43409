// Package metrics exposes Prometheus metrics for parse activity and the
// inspection server.
package metrics

import (
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"

	"github.com/ssargent/dbnread/pkg/dbn"
	"github.com/ssargent/dbnread/pkg/reader"
)

// Metrics holds all Prometheus metrics for dbnread
type Metrics struct {
	// Parse metrics
	recordsTotal     *prometheus.CounterVec
	sessionsTotal    *prometheus.CounterVec
	sessionDuration  *prometheus.HistogramVec
	sessionBytes     *prometheus.CounterVec
	parseErrorsTotal *prometheus.CounterVec

	// HTTP request metrics
	httpRequestsTotal    *prometheus.CounterVec
	httpRequestDuration  *prometheus.HistogramVec
	httpRequestsInFlight *prometheus.GaugeVec
}

// New creates the metrics and registers them with the default registerer.
func New() *Metrics {
	return NewWithRegisterer(prometheus.DefaultRegisterer)
}

// NewWithRegisterer creates the metrics on reg. Tests pass a fresh
// prometheus.NewRegistry so repeated construction does not collide.
func NewWithRegisterer(reg prometheus.Registerer) *Metrics {
	factory := promauto.With(reg)

	return &Metrics{
		recordsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbnread_records_total",
				Help: "Total number of records decoded",
			},
			[]string{"method"},
		),

		sessionsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbnread_parse_sessions_total",
				Help: "Total number of parse sessions completed without error",
			},
			[]string{"method"},
		),

		sessionDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dbnread_parse_duration_seconds",
				Help:    "Wall time of completed parse sessions in seconds",
				Buckets: prometheus.ExponentialBuckets(0.0005, 4, 10),
			},
			[]string{"method"},
		),

		sessionBytes: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbnread_bytes_processed_total",
				Help: "Total number of record bytes consumed by completed sessions",
			},
			[]string{"method"},
		),

		parseErrorsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbnread_parse_errors_total",
				Help: "Total number of parse sessions that failed, by error kind",
			},
			[]string{"method", "kind"},
		),

		httpRequestsTotal: factory.NewCounterVec(
			prometheus.CounterOpts{
				Name: "dbnread_http_requests_total",
				Help: "Total number of HTTP requests",
			},
			[]string{"method", "endpoint", "status_code"},
		),

		httpRequestDuration: factory.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "dbnread_http_request_duration_seconds",
				Help:    "HTTP request duration in seconds",
				Buckets: prometheus.DefBuckets,
			},
			[]string{"method", "endpoint"},
		),

		httpRequestsInFlight: factory.NewGaugeVec(
			prometheus.GaugeOpts{
				Name: "dbnread_http_requests_in_flight",
				Help: "Number of HTTP requests currently being processed",
			},
			[]string{"method", "endpoint"},
		),
	}
}

var _ reader.Observer = (*Metrics)(nil)

// ObserveRecords implements reader.Observer.
func (m *Metrics) ObserveRecords(method reader.Method, n int) {
	m.recordsTotal.WithLabelValues(string(method)).Add(float64(n))
}

// ObserveSession implements reader.Observer.
func (m *Metrics) ObserveSession(method reader.Method, stats reader.ParseStats) {
	label := string(method)
	m.sessionsTotal.WithLabelValues(label).Inc()
	m.sessionDuration.WithLabelValues(label).Observe(stats.Elapsed.Seconds())
	m.sessionBytes.WithLabelValues(label).Add(float64(stats.BytesProcessed))
}

// ObserveError implements reader.Observer.
func (m *Metrics) ObserveError(method reader.Method, kind dbn.ErrorKind) {
	m.parseErrorsTotal.WithLabelValues(string(method), kindLabel(kind)).Inc()
}

// kindLabel turns "truncated record" into "truncated_record".
func kindLabel(kind dbn.ErrorKind) string {
	return strings.ReplaceAll(kind.String(), " ", "_")
}

// RecordHTTPRequest records an HTTP request
func (m *Metrics) RecordHTTPRequest(method, endpoint string, statusCode int, duration time.Duration) {
	statusCodeStr := strconv.Itoa(statusCode)

	m.httpRequestsTotal.WithLabelValues(method, endpoint, statusCodeStr).Inc()
	m.httpRequestDuration.WithLabelValues(method, endpoint).Observe(duration.Seconds())
}

// InstrumentHandler instruments an HTTP handler with metrics
func (m *Metrics) InstrumentHandler(method, endpoint string, handler http.HandlerFunc) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		start := time.Now()

		gauge := m.httpRequestsInFlight.WithLabelValues(method, endpoint)
		gauge.Inc()
		defer gauge.Dec()

		rw := &responseWriter{ResponseWriter: w, statusCode: http.StatusOK}
		handler(rw, r)

		m.RecordHTTPRequest(method, endpoint, rw.statusCode, time.Since(start))
	}
}

// responseWriter wraps http.ResponseWriter to capture status code
type responseWriter struct {
	http.ResponseWriter
	statusCode int
}

func (rw *responseWriter) WriteHeader(code int) {
	rw.statusCode = code
	rw.ResponseWriter.WriteHeader(code)
}
