package visualization

import (
	"math"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// RadialLayout places the hierarchy deterministically: categories evenly
// on a circle, diseases on a smaller circle around their category and
// alleles staggered around their disease. Everything it places is pinned
// except alleles shared by several diseases.
type RadialLayout struct {
	config *LayoutConfig
}

// NewRadialLayout creates a new radial layout
func NewRadialLayout(config *LayoutConfig) *RadialLayout {
	if config.CategoryRadius == 0 {
		config.CategoryRadius = math.Min(config.Width, config.Height)/2 - 100
	}
	if config.DiseaseRadius == 0 {
		config.DiseaseRadius = 50
	}
	if config.AlleleRadius == 0 {
		config.AlleleRadius = 20
	}
	return &RadialLayout{config: config}
}

// ComputeLayout assigns positions to every category, disease and allele.
func (rl *RadialLayout) ComputeLayout(s *graph.Store) (map[string]Placement, error) {
	placements := make(map[string]Placement)

	categories := s.NodesOfKind(graph.KindCategory)
	if len(categories) == 0 {
		return placements, nil
	}

	center := rl.config.Center()
	for i, p := range circle(center, rl.config.CategoryRadius, len(categories)) {
		placements[categories[i].ID] = Placement{Position: p, Fixed: true}
	}

	// Diseases are grouped under the category whose label matches their
	// category attribute, not by edges: a disease may arrive before the
	// category edge in a partial update.
	byCategory := make(map[string][]string)
	for _, d := range s.NodesOfKind(graph.KindDisease) {
		byCategory[d.Disease.Category] = append(byCategory[d.Disease.Category], d.ID)
	}
	for _, c := range categories {
		diseases := byCategory[c.FullLabel]
		origin := placements[c.ID].Position
		for i, p := range circle(origin, rl.config.DiseaseRadius, len(diseases)) {
			placements[diseases[i]] = Placement{Position: p, Fixed: true}
		}
	}

	for _, d := range s.NodesOfKind(graph.KindDisease) {
		origin, ok := placements[d.ID]
		if !ok {
			continue
		}
		rl.placeAlleles(s, d.ID, origin.Position, placements)
	}

	return placements, nil
}

// placeAlleles staggers the allele children of a disease on two rings so
// that neighbouring labels do not overlap.
func (rl *RadialLayout) placeAlleles(s *graph.Store, diseaseID string, origin graph.Point, placements map[string]Placement) {
	children := s.OutNeighbors(diseaseID)
	if len(children) == 0 {
		return
	}
	step := 2 * math.Pi / float64(len(children))
	for i, id := range children {
		if _, done := placements[id]; done {
			continue
		}
		n, err := s.Node(id)
		if err != nil || n.Kind != graph.KindAllele {
			continue
		}
		if diseaseParents(s, id) > 1 {
			placements[id] = Placement{Position: sharedSeed(s, n, placements), Fixed: false}
			continue
		}
		r := rl.config.AlleleRadius
		if i%2 == 1 {
			r *= 1.5
		}
		angle := step * float64(i)
		placements[id] = Placement{
			Position: graph.Point{X: origin.X + r*math.Sin(angle), Y: origin.Y + r*math.Cos(angle)},
			Fixed:    true,
		}
	}
}

// sharedSeed keeps the current position of an already unpinned shared
// allele and otherwise starts it at the centroid of its placed parents.
func sharedSeed(s *graph.Store, n graph.Node, placements map[string]Placement) graph.Point {
	if !n.Fixed && n.Position != (graph.Point{}) {
		return n.Position
	}
	var sum graph.Point
	count := 0
	for _, parent := range s.InNeighbors(n.ID) {
		if p, ok := placements[parent]; ok {
			sum.X += p.Position.X
			sum.Y += p.Position.Y
			count++
		}
	}
	if count == 0 {
		return n.Position
	}
	return graph.Point{X: sum.X / float64(count), Y: sum.Y / float64(count)}
}

func diseaseParents(s *graph.Store, id string) int {
	count := 0
	for _, parent := range s.InNeighbors(id) {
		if p, err := s.Node(parent); err == nil && p.Kind == graph.KindDisease {
			count++
		}
	}
	return count
}

// circle returns n points evenly spaced on a circle, starting at the
// bottom (angle 0 on the sine/cosine convention of the front end).
func circle(center graph.Point, radius float64, n int) []graph.Point {
	if n == 0 {
		return nil
	}
	points := make([]graph.Point, n)
	step := 2 * math.Pi / float64(n)
	for i := range points {
		angle := step * float64(i)
		points[i] = graph.Point{
			X: center.X + radius*math.Sin(angle),
			Y: center.Y + radius*math.Cos(angle),
		}
	}
	return points
}
