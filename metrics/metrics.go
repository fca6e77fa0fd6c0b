// Package metrics holds the Prometheus collectors of the service: SQL
// statement latency fed by the db metrics hook, and HTTP request latency
// fed by the api middleware.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/Skryldev/hiring-api/db"
)

const namespace = "hiring"

// Metrics owns a private registry so tests can build as many as they like.
type Metrics struct {
	registry      *prometheus.Registry
	queryDuration *prometheus.HistogramVec
	httpDuration  *prometheus.HistogramVec
	uploadedRows  *prometheus.CounterVec
}

// New registers every collector, plus the Go runtime and process
// collectors, on a fresh registry.
func New() *Metrics {
	m := &Metrics{
		registry: prometheus.NewRegistry(),
		queryDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "db",
			Name:      "query_duration_seconds",
			Help:      "SQL statement latency by leading keyword and outcome.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"operation", "outcome"}),
		httpDuration: prometheus.NewHistogramVec(prometheus.HistogramOpts{
			Namespace: namespace,
			Subsystem: "http",
			Name:      "request_duration_seconds",
			Help:      "HTTP request latency by route, method and status code.",
			Buckets:   prometheus.DefBuckets,
		}, []string{"route", "method", "status"}),
		uploadedRows: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Subsystem: "ingest",
			Name:      "rows_total",
			Help:      "Rows written by CSV uploads.",
		}, []string{"entity"}),
	}
	m.registry.MustRegister(
		m.queryDuration,
		m.httpDuration,
		m.uploadedRows,
		collectors.NewGoCollector(),
		collectors.NewProcessCollector(collectors.ProcessCollectorOpts{}),
	)
	return m
}

// RecordQuery implements db.MetricsCollector.
func (m *Metrics) RecordQuery(query string, d time.Duration, ok bool) {
	outcome := "success"
	if !ok {
		outcome = "error"
	}
	m.queryDuration.WithLabelValues(db.Operation(query), outcome).Observe(d.Seconds())
}

// ObserveRequest records one served HTTP request.
func (m *Metrics) ObserveRequest(route, method string, status int, d time.Duration) {
	m.httpDuration.WithLabelValues(route, method, strconv.Itoa(status)).Observe(d.Seconds())
}

// AddUploadedRows counts rows written for entity.
func (m *Metrics) AddUploadedRows(entity string, n int) {
	if n > 0 {
		m.uploadedRows.WithLabelValues(entity).Add(float64(n))
	}
}

// Handler serves the registry in the Prometheus exposition format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{Registry: m.registry})
}

var _ db.MetricsCollector = (*Metrics)(nil)
