package visualization

import (
	"encoding/json"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

// Visualization represents a graph visualization with layout
type Visualization struct {
	Nodes  []graph.Node
	Edges  []graph.Edge
	Camera Camera
}

// Snapshot captures the current store contents.
func Snapshot(s *graph.Store, camera Camera) *Visualization {
	return &Visualization{Nodes: s.Nodes(), Edges: s.Edges(), Camera: camera}
}

// ExportJSON exports the visualization to JSON
func (v *Visualization) ExportJSON() ([]byte, error) {
	type NodeViz struct {
		ID          string  `json:"id"`
		Label       string  `json:"label"`
		FullLabel   string  `json:"full_label"`
		Type        string  `json:"node_type"`
		X           float64 `json:"x"`
		Y           float64 `json:"y"`
		Fixed       bool    `json:"fixed"`
		Hidden      bool    `json:"hidden"`
		Size        float64 `json:"size"`
		Color       string  `json:"color"`
		BorderSize  float64 `json:"borderSize"`
		BorderColor string  `json:"borderColor"`
		ForceLabel  bool    `json:"forceLabel"`
		Expanded    bool    `json:"expanded,omitempty"`
	}

	type EdgeViz struct {
		ID     string `json:"id"`
		Source string `json:"source"`
		Target string `json:"target"`
		Color  string `json:"color"`
		Hidden bool   `json:"hidden"`
	}

	type VizData struct {
		Nodes  []NodeViz `json:"nodes"`
		Edges  []EdgeViz `json:"edges"`
		Camera Camera    `json:"camera"`
	}

	data := VizData{
		Nodes:  make([]NodeViz, 0, len(v.Nodes)),
		Edges:  make([]EdgeViz, 0, len(v.Edges)),
		Camera: v.Camera,
	}

	// Convert nodes
	for _, node := range v.Nodes {
		data.Nodes = append(data.Nodes, NodeViz{
			ID:          node.ID,
			Label:       node.Label,
			FullLabel:   node.FullLabel,
			Type:        string(node.Kind),
			X:           node.Position.X,
			Y:           node.Position.Y,
			Fixed:       node.Fixed,
			Hidden:      node.Hidden,
			Size:        node.Style.Size,
			Color:       node.Style.Color,
			BorderSize:  node.Style.BorderSize,
			BorderColor: node.Style.BorderColor,
			ForceLabel:  node.ForceLabel,
			Expanded:    node.Expanded,
		})
	}

	// Convert edges
	for _, edge := range v.Edges {
		data.Edges = append(data.Edges, EdgeViz{
			ID:     edge.Key(),
			Source: edge.Source,
			Target: edge.Target,
			Color:  edge.Color,
			Hidden: edge.Hidden,
		})
	}

	return json.MarshalIndent(data, "", "  ")
}
