package visualization

import (
	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// LayoutConfig configures layout parameters
type LayoutConfig struct {
	Width          float64 // Canvas width
	Height         float64 // Canvas height
	CategoryRadius float64 // Radius of the category circle around the canvas center
	DiseaseRadius  float64 // Radius of the disease circle around each category
	AlleleRadius   float64 // Base offset of alleles around their disease
	Iterations     int     // Force relaxation iterations
	Gravity        float64 // Pull towards the canvas center
	ScalingRatio   float64 // Repulsion strength
	SlowDown       float64 // Step damping; larger values move nodes less per iteration
}

// DefaultLayoutConfig returns the canvas and solver settings used by the
// web front end.
func DefaultLayoutConfig() LayoutConfig {
	return LayoutConfig{
		Width:          1000,
		Height:         1000,
		CategoryRadius: 400,
		DiseaseRadius:  50,
		AlleleRadius:   20,
		Iterations:     100,
		Gravity:        0.005,
		ScalingRatio:   5,
		SlowDown:       10,
	}
}

// Center returns the canvas center.
func (c LayoutConfig) Center() graph.Point {
	return graph.Point{X: c.Width / 2, Y: c.Height / 2}
}

// Placement is a computed position for one node.
type Placement struct {
	Position graph.Point
	Fixed    bool
}

// Layout interface for the layout phases
type Layout interface {
	ComputeLayout(s *graph.Store) (map[string]Placement, error)
}
