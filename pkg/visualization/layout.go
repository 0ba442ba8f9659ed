package visualization

import (
	"fmt"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// Engine runs the two layout phases and styles every node.
type Engine struct {
	config  LayoutConfig
	radial  *RadialLayout
	force   *ForceDirectedLayout
	encoder *Encoder
}

// NewEngine creates a layout engine. A nil encoder uses simple coloring.
func NewEngine(config LayoutConfig, encoder *Encoder) *Engine {
	if encoder == nil {
		encoder = NewEncoder(ColoringSimple)
	}
	e := &Engine{config: config, encoder: encoder}
	e.radial = NewRadialLayout(&e.config)
	e.force = NewForceDirectedLayout(&e.config)
	return e
}

// Config returns the effective configuration after defaults.
func (e *Engine) Config() LayoutConfig {
	return e.config
}

// Encoder returns the visual encoder used by Restyle.
func (e *Engine) Encoder() *Encoder {
	return e.encoder
}

// Apply places the hierarchy, relaxes unpinned nodes and writes the
// resulting positions and pinned flags back to the store.
func (e *Engine) Apply(s *graph.Store) error {
	placed, err := e.radial.ComputeLayout(s)
	if err != nil {
		return fmt.Errorf("radial placement: %w", err)
	}
	relaxed, err := e.force.Relax(s, placed)
	if err != nil {
		return fmt.Errorf("force relaxation: %w", err)
	}
	for id, p := range relaxed {
		placed[id] = p
	}
	for id, p := range placed {
		if err := s.Update(id, func(n *graph.Node) {
			n.Position = p.Position
			n.Fixed = p.Fixed
		}); err != nil {
			return err
		}
	}
	return nil
}

// Restyle recomputes the style of every node.
func (e *Engine) Restyle(s *graph.Store) {
	for _, n := range s.Nodes() {
		style := e.encoder.Style(n)
		_ = s.Update(n.ID, func(n *graph.Node) { n.Style = style })
	}
}
