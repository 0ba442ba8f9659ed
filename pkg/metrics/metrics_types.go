package metrics

import (
	"net/http"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/collectors"
	"github.com/prometheus/client_golang/prometheus/promhttp"
)

// Registry holds all metrics for the application
type Registry struct {
	// Gateway Metrics
	GatewayRequestsTotal     *prometheus.CounterVec
	GatewayRequestDuration   *prometheus.HistogramVec
	GatewayRequestsInFlight  prometheus.Gauge
	GatewayResponseSizeBytes *prometheus.HistogramVec

	// Graph Metrics
	GraphNodesTotal   *prometheus.GaugeVec
	GraphEdgesTotal   prometheus.Gauge
	GraphVisibleNodes prometheus.Gauge

	// Explorer Metrics
	ExpansionsTotal    *prometheus.CounterVec
	NavigationsTotal   *prometheus.CounterVec
	FilterAppliesTotal *prometheus.CounterVec
	LayoutDuration     prometheus.Histogram

	registry *prometheus.Registry
}

// NewRegistry creates a new metrics registry with all metrics initialized
func NewRegistry() *Registry {
	reg := prometheus.NewRegistry()
	reg.MustRegister(collectors.NewGoCollector())

	r := &Registry{
		registry: reg,
	}

	// Initialize all metrics
	r.initGatewayMetrics()
	r.initGraphMetrics()
	r.initExplorerMetrics()

	return r
}

// GetPrometheusRegistry returns the underlying Prometheus registry
func (r *Registry) GetPrometheusRegistry() *prometheus.Registry {
	return r.registry
}

// Handler serves the registry in the Prometheus exposition format.
func (r *Registry) Handler() http.Handler {
	return promhttp.HandlerFor(r.registry, promhttp.HandlerOpts{Registry: r.registry})
}
