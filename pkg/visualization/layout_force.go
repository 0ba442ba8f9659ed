package visualization

import (
	"math"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// ForceDirectedLayout relaxes the positions of unpinned nodes. Pinned nodes
// take part in the force computation as anchors but are never displaced.
// The solver starts from the current positions and is deterministic.
type ForceDirectedLayout struct {
	config *LayoutConfig
}

// NewForceDirectedLayout creates a new force-directed layout
func NewForceDirectedLayout(config *LayoutConfig) *ForceDirectedLayout {
	if config.Iterations == 0 {
		config.Iterations = 100
	}
	if config.ScalingRatio == 0 {
		config.ScalingRatio = 5
	}
	if config.SlowDown < 1 {
		config.SlowDown = 1
	}
	return &ForceDirectedLayout{config: config}
}

// ComputeLayout returns new positions for every visible unpinned node.
// Positions of pinned nodes are read from pinned when present (the output
// of an earlier phase) and otherwise from the store.
func (fdl *ForceDirectedLayout) ComputeLayout(s *graph.Store) (map[string]Placement, error) {
	return fdl.Relax(s, nil)
}

// Relax runs the solver with the given overrides applied on top of the
// stored positions and pinned flags.
func (fdl *ForceDirectedLayout) Relax(s *graph.Store, overrides map[string]Placement) (map[string]Placement, error) {
	var ids []string
	positions := make(map[string]graph.Point)
	fixed := make(map[string]bool)
	for _, n := range s.Nodes() {
		if n.Hidden {
			continue
		}
		ids = append(ids, n.ID)
		pos, pinned := n.Position, n.Fixed
		if o, ok := overrides[n.ID]; ok {
			pos, pinned = o.Position, o.Fixed
		}
		positions[n.ID] = pos
		fixed[n.ID] = pinned
	}

	var movable []string
	for _, id := range ids {
		if !fixed[id] {
			movable = append(movable, id)
		}
	}

	result := make(map[string]Placement)
	if len(movable) == 0 {
		return result, nil
	}

	// Build neighbour map for fast lookup
	neighbours := make(map[string][]string, len(movable))
	for _, id := range movable {
		for _, other := range s.Neighbors(id) {
			if _, visible := positions[other]; visible {
				neighbours[id] = append(neighbours[id], other)
			}
		}
	}

	center := fdl.config.Center()
	k := math.Sqrt((fdl.config.Width*fdl.config.Height)/float64(len(ids))) / fdl.config.ScalingRatio // Optimal distance
	temperature := fdl.config.Width / (10.0 * fdl.config.SlowDown)

	for iter := 0; iter < fdl.config.Iterations; iter++ {
		forces := make(map[string]graph.Point, len(movable))

		for i, id := range movable {
			var f graph.Point
			p := positions[id]

			// Repulsion from every visible node
			for j, other := range ids {
				if other == id {
					continue
				}
				dx, dy := p.X-positions[other].X, p.Y-positions[other].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					// Coincident nodes are pushed apart along a fixed
					// direction derived from their order.
					angle := float64(i+j) * 0.618 * 2 * math.Pi
					dx, dy, dist = math.Cos(angle)*0.01, math.Sin(angle)*0.01, 0.01
				}
				force := (k * k) / dist
				f.X += (dx / dist) * force
				f.Y += (dy / dist) * force
			}

			// Attraction towards connected nodes
			for _, other := range neighbours[id] {
				dx, dy := p.X-positions[other].X, p.Y-positions[other].Y
				dist := math.Sqrt(dx*dx + dy*dy)
				if dist < 0.01 {
					continue
				}
				force := (dist * dist) / k
				f.X -= (dx / dist) * force
				f.Y -= (dy / dist) * force
			}

			// Strong gravity: proportional to the distance from the center
			f.X -= fdl.config.Gravity * (p.X - center.X) * k
			f.Y -= fdl.config.Gravity * (p.Y - center.Y) * k

			forces[id] = f
		}

		// Apply forces with cooling
		cool := 1.0 - float64(iter)/float64(fdl.config.Iterations)
		for _, id := range movable {
			fx, fy := forces[id].X, forces[id].Y
			force := math.Sqrt(fx*fx + fy*fy)
			if force == 0 || math.IsNaN(force) || math.IsInf(force, 0) {
				continue
			}
			step := math.Min(force, temperature) * cool
			positions[id] = graph.Point{
				X: positions[id].X + (fx/force)*step,
				Y: positions[id].Y + (fy/force)*step,
			}
		}

		temperature *= 0.95
	}

	for _, id := range movable {
		result[id] = Placement{Position: positions[id], Fixed: false}
	}
	return result, nil
}
