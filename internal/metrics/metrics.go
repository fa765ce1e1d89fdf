// Package metrics holds the Prometheus collectors for the docs server and
// exporter.
package metrics

import (
	"net/http"
	"strconv"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics uses its own registry so instances never collide, one per test.
type Metrics struct {
	Registry *prometheus.Registry

	RequestsTotal          *prometheus.CounterVec
	RequestDurationSeconds *prometheus.HistogramVec
	ReloadsTotal           *prometheus.CounterVec
	PagesRenderedTotal     *prometheus.CounterVec
	ExportDurationSeconds  prometheus.Histogram
	Documents              prometheus.Gauge
}

// New registers every collector plus the Go runtime and process collectors.
func New() *Metrics {
	reg := prometheus.NewRegistry()
	reg.MustRegister(prometheus.NewGoCollector())
	reg.MustRegister(prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}))

	m := &Metrics{
		Registry: reg,

		RequestsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_requests_total",
				Help: "HTTP requests served, by route pattern and status code.",
			},
			[]string{"route", "status"},
		),
		RequestDurationSeconds: prometheus.NewHistogramVec(
			prometheus.HistogramOpts{
				Name:    "docsite_request_duration_seconds",
				Help:    "HTTP request latency by route pattern.",
				Buckets: prometheus.ExponentialBuckets(0.0005, 2, 14), // 0.5ms to ~4s
			},
			[]string{"route"},
		),
		ReloadsTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_reloads_total",
				Help: "Site rebuilds, by result.",
			},
			[]string{"result"},
		),
		PagesRenderedTotal: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "docsite_pages_rendered_total",
				Help: "Pages rendered, by kind (home, doc, not_found).",
			},
			[]string{"kind"},
		),
		ExportDurationSeconds: prometheus.NewHistogram(
			prometheus.HistogramOpts{
				Name:    "docsite_export_duration_seconds",
				Help:    "Wall time of static exports.",
				Buckets: prometheus.ExponentialBuckets(0.01, 2, 12),
			},
		),
		Documents: prometheus.NewGauge(
			prometheus.GaugeOpts{
				Name: "docsite_documents",
				Help: "Documents in the live site snapshot.",
			},
		),
	}

	reg.MustRegister(
		m.RequestsTotal,
		m.RequestDurationSeconds,
		m.ReloadsTotal,
		m.PagesRenderedTotal,
		m.ExportDurationSeconds,
		m.Documents,
	)
	return m
}

// Handler serves the registry in the Prometheus text format.
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.Registry, promhttp.HandlerOpts{})
}

// ObserveRequest records one finished request.
func (m *Metrics) ObserveRequest(route string, status int, d time.Duration) {
	m.RequestsTotal.WithLabelValues(route, strconv.Itoa(status)).Inc()
	m.RequestDurationSeconds.WithLabelValues(route).Observe(d.Seconds())
}

// ObserveReload records a rebuild result.
func (m *Metrics) ObserveReload(err error) {
	result := "success"
	if err != nil {
		result = "failure"
	}
	m.ReloadsTotal.WithLabelValues(result).Inc()
}

// PageRendered counts one rendered page of kind.
func (m *Metrics) PageRendered(kind string) {
	m.PagesRenderedTotal.WithLabelValues(kind).Inc()
}
