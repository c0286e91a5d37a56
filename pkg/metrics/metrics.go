// Package metrics provides Prometheus metrics for the HTTP API and batch jobs.
package metrics

import (
	"strconv"

	"github.com/prometheus/client_golang/prometheus"
)

// Metrics contains the Prometheus collectors exported on /metrics.
type Metrics struct {
	registry *prometheus.Registry

	httpRequestsTotal   *prometheus.CounterVec
	httpRequestDuration *prometheus.HistogramVec

	// Batch jobs
	batchRecordsTotal *prometheus.CounterVec
	repairRowsTotal   *prometheus.CounterVec

	// Search screening
	injectionDetections *prometheus.CounterVec
}

// New creates the collectors and registers them on registry.
func New(registry *prometheus.Registry) (*Metrics, error) {
	m := &Metrics{registry: registry}
	m.initMetrics()
	if err := registry.Register(m); err != nil {
		return nil, err
	}
	return m, nil
}

func (m *Metrics) initMetrics() {
	m.httpRequestsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_http_requests_total",
			Help: "Total number of HTTP requests",
		},
		[]string{"method", "route", "status_code"}, // route is the mux pattern, not the raw path
	)

	m.httpRequestDuration = prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:    "crm_http_request_duration_seconds",
			Help:    "Time taken for HTTP requests",
			Buckets: prometheus.DefBuckets,
		},
		[]string{"method", "route"},
	)

	m.batchRecordsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_batch_records_total",
			Help: "Records processed by batch jobs, by outcome",
		},
		[]string{"job", "outcome"}, // job: repair_industries, migrate_prospects; outcome: migrated, skipped, failed, resolved, unresolved
	)

	m.repairRowsTotal = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_industry_repair_rows_total",
			Help: "Rows whose industry was rewritten by the repair job",
		},
		[]string{"target"},
	)

	m.injectionDetections = prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name: "crm_search_injection_detections_total",
			Help: "Search parameters flagged by libinjection",
		},
		[]string{"param"},
	)
}

func (m *Metrics) getCollectors() []prometheus.Collector {
	return []prometheus.Collector{
		m.httpRequestsTotal,
		m.httpRequestDuration,
		m.batchRecordsTotal,
		m.repairRowsTotal,
		m.injectionDetections,
	}
}

// Describe implements the Collector interface
func (m *Metrics) Describe(ch chan<- *prometheus.Desc) {
	for _, collector := range m.getCollectors() {
		collector.Describe(ch)
	}
}

// Collect implements the Collector interface
func (m *Metrics) Collect(ch chan<- prometheus.Metric) {
	for _, collector := range m.getCollectors() {
		collector.Collect(ch)
	}
}

// Registry returns the registry the collectors are registered on.
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// RecordHTTPRequest records an HTTP request. Safe on a nil receiver.
func (m *Metrics) RecordHTTPRequest(method, route string, statusCode int, seconds float64) {
	if m == nil {
		return
	}
	m.httpRequestsTotal.WithLabelValues(method, route, strconv.Itoa(statusCode)).Inc()
	m.httpRequestDuration.WithLabelValues(method, route).Observe(seconds)
}

// RecordBatchRecord counts one batch record outcome. Safe on a nil receiver.
func (m *Metrics) RecordBatchRecord(job, outcome string) {
	if m == nil {
		return
	}
	m.batchRecordsTotal.WithLabelValues(job, outcome).Inc()
}

// RecordRepairedRows adds rewritten rows for a repair target. Safe on a nil receiver.
func (m *Metrics) RecordRepairedRows(target string, rows int64) {
	if m == nil || rows <= 0 {
		return
	}
	m.repairRowsTotal.WithLabelValues(target).Add(float64(rows))
}

// RecordInjectionDetection counts a flagged search parameter. Safe on a nil receiver.
func (m *Metrics) RecordInjectionDetection(param string) {
	if m == nil {
		return
	}
	m.injectionDetections.WithLabelValues(param).Inc()
}
