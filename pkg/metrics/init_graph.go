package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

func (r *Registry) initGraphMetrics() {
	r.GraphNodesTotal = promauto.With(r.registry).NewGaugeVec(
		prometheus.GaugeOpts{
			Name: "phewas_graph_nodes",
			Help: "Number of nodes in the explorer graph by kind",
		},
		[]string{"kind"},
	)

	r.GraphEdgesTotal = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "phewas_graph_edges",
			Help: "Number of edges in the explorer graph",
		},
	)

	r.GraphVisibleNodes = promauto.With(r.registry).NewGauge(
		prometheus.GaugeOpts{
			Name: "phewas_graph_visible_nodes",
			Help: "Size of the accumulated visible set",
		},
	)
}

func (r *Registry) initExplorerMetrics() {
	r.ExpansionsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "phewas_expansions_total",
			Help: "Expand and collapse transitions by node kind and result",
		},
		[]string{"kind", "result"},
	)

	r.NavigationsTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "phewas_navigations_total",
			Help: "Click-path navigations by result",
		},
		[]string{"result"},
	)

	r.FilterAppliesTotal = promauto.With(r.registry).NewCounterVec(
		prometheus.CounterOpts{
			Name: "phewas_filter_applies_total",
			Help: "Filter applications by source",
		},
		[]string{"source"},
	)

	r.LayoutDuration = promauto.With(r.registry).NewHistogram(
		prometheus.HistogramOpts{
			Name:    "phewas_layout_duration_seconds",
			Help:    "Time spent in one layout pass",
			Buckets: []float64{0.001, 0.005, 0.01, 0.05, 0.1, 0.5, 1.0},
		},
	)
}
