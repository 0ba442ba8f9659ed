package metrics

import (
	"strconv"
	"time"
)

// RecordGatewayRequest records a backend request with its duration.
// A status of 0 means the request failed before a response arrived.
func (r *Registry) RecordGatewayRequest(endpoint string, status int, duration time.Duration, size int64) {
	label := "error"
	if status > 0 {
		label = strconv.Itoa(status)
	}
	r.GatewayRequestsTotal.WithLabelValues(endpoint, label).Inc()
	r.GatewayRequestDuration.WithLabelValues(endpoint).Observe(duration.Seconds())
	if size >= 0 {
		r.GatewayResponseSizeBytes.WithLabelValues(endpoint).Observe(float64(size))
	}
}

// UpdateGraphMetrics sets the graph size gauges.
func (r *Registry) UpdateGraphMetrics(byKind map[string]int, edges, visible int) {
	for kind, n := range byKind {
		r.GraphNodesTotal.WithLabelValues(kind).Set(float64(n))
	}
	r.GraphEdgesTotal.Set(float64(edges))
	r.GraphVisibleNodes.Set(float64(visible))
}

// RecordExpansion records an expansion state transition.
func (r *Registry) RecordExpansion(kind, result string) {
	r.ExpansionsTotal.WithLabelValues(kind, result).Inc()
}

// RecordNavigation records the outcome of a click-path navigation.
func (r *Registry) RecordNavigation(result string) {
	r.NavigationsTotal.WithLabelValues(result).Inc()
}

// RecordFilterApply records a filter application.
func (r *Registry) RecordFilterApply(source string) {
	r.FilterAppliesTotal.WithLabelValues(source).Inc()
}

// RecordLayout records the duration of one layout pass.
func (r *Registry) RecordLayout(duration time.Duration) {
	r.LayoutDuration.Observe(duration.Seconds())
}
