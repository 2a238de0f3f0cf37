package metrics

import (
	"net/http"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Metrics holds the collectors exported by csvchart
type Metrics struct {
	registry *prometheus.Registry

	LoadsTotal     *prometheus.CounterVec
	LoadDuration   prometheus.Histogram
	RecordsLoaded  prometheus.Gauge
	HTTPRequests   *prometheus.CounterVec
	RenderedCharts *prometheus.CounterVec
}

// New registers all collectors on a fresh registry
func New() *Metrics {
	m := &Metrics{
		LoadsTotal: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvchart_loads_total",
			Help: "Total number of series loads by result",
		}, []string{"result"}),
		LoadDuration: prometheus.NewHistogram(prometheus.HistogramOpts{
			Name:    "csvchart_load_duration_seconds",
			Help:    "Duration of fetching and parsing a series in seconds",
			Buckets: prometheus.DefBuckets,
		}),
		RecordsLoaded: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "csvchart_records_loaded",
			Help: "Number of records in the most recently loaded series",
		}),
		HTTPRequests: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvchart_http_requests_total",
			Help: "Total number of HTTP requests by route and status code",
		}, []string{"route", "code"}),
		RenderedCharts: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "csvchart_rendered_charts_total",
			Help: "Total number of charts written by output format",
		}, []string{"format"}),
	}

	m.registry = prometheus.NewRegistry()
	m.registry.MustRegister(
		m.LoadsTotal,
		m.LoadDuration,
		m.RecordsLoaded,
		m.HTTPRequests,
		m.RenderedCharts,
		collectors.NewGoCollector(),
	)

	return m
}

// ObserveLoad records the outcome of one series load; nil receivers are ignored
func (m *Metrics) ObserveLoad(start time.Time, records int, err error) {
	if m == nil {
		return
	}
	m.LoadDuration.Observe(time.Since(start).Seconds())
	if err != nil {
		m.LoadsTotal.WithLabelValues("failure").Inc()
		return
	}
	m.LoadsTotal.WithLabelValues("success").Inc()
	m.RecordsLoaded.Set(float64(records))
}

// ObserveRender counts a chart written in the given format
func (m *Metrics) ObserveRender(format string) {
	if m == nil {
		return
	}
	m.RenderedCharts.WithLabelValues(format).Inc()
}

// Registry exposes the underlying registry for tests and custom collectors
func (m *Metrics) Registry() *prometheus.Registry {
	return m.registry
}

// Handler serves the registry in the Prometheus exposition format
func (m *Metrics) Handler() http.Handler {
	return promhttp.HandlerFor(m.registry, promhttp.HandlerOpts{})
}
