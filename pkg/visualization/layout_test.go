package visualization

import (
	"encoding/json"
	"math"
	"strings"
	"testing"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
)

func addNodes(t *testing.T, s *graph.Store, nodes ...graph.Node) {
	t.Helper()
	for _, n := range nodes {
		if _, err := s.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", n.ID, err)
		}
	}
}

func addEdges(t *testing.T, s *graph.Store, pairs ...[2]string) {
	t.Helper()
	for _, p := range pairs {
		if _, err := s.AddEdge(p[0], p[1], graph.Edge{}); err != nil {
			t.Fatalf("AddEdge(%s, %s) failed: %v", p[0], p[1], err)
		}
	}
}

func categoryNode(label string) graph.Node {
	return graph.Node{ID: graph.NodeID(graph.KindCategory, label), Kind: graph.KindCategory, Label: label, FullLabel: label}
}

func diseaseNode(label, category string) graph.Node {
	return graph.Node{
		ID: graph.NodeID(graph.KindDisease, label), Kind: graph.KindDisease, Label: label, FullLabel: label,
		Disease: graph.Disease{Category: category, AlleleCount: 3},
	}
}

func alleleNode(full string) graph.Node {
	return graph.Node{
		ID: graph.NodeID(graph.KindAllele, full), Kind: graph.KindAllele, Label: graph.DisplayLabel(full), FullLabel: full,
		Allele: graph.Allele{OddsRatio: 1.5, PValue: 0.001},
	}
}

// sampleGraph has two categories, three diseases and an allele shared by
// two diseases.
func sampleGraph(t *testing.T) *graph.Store {
	s := graph.NewStore()
	addNodes(t, s,
		categoryNode("infections"), categoryNode("autoimmune"),
		diseaseNode("sepsis", "infections"), diseaseNode("influenza", "infections"), diseaseNode("lupus", "autoimmune"),
		alleleNode("HLA_A_01"), alleleNode("HLA_B_27"),
	)
	addEdges(t, s,
		[2]string{"category-infections", "disease-sepsis"},
		[2]string{"category-infections", "disease-influenza"},
		[2]string{"category-autoimmune", "disease-lupus"},
		[2]string{"disease-sepsis", "allele-HLA_A_01"},
		[2]string{"disease-sepsis", "allele-HLA_B_27"},
		[2]string{"disease-lupus", "allele-HLA_B_27"},
	)
	return s
}

// TestRadialLayout tests deterministic placement of the hierarchy
func TestRadialLayout(t *testing.T) {
	s := sampleGraph(t)
	config := DefaultLayoutConfig()
	placements, err := NewRadialLayout(&config).ComputeLayout(s)
	if err != nil {
		t.Fatalf("Layout computation failed: %v", err)
	}

	center := config.Center()
	for _, id := range []string{"category-infections", "category-autoimmune"} {
		p := placements[id]
		if !p.Fixed {
			t.Errorf("%s not pinned", id)
		}
		if d := distance(p.Position, center); math.Abs(d-config.CategoryRadius) > 1e-6 {
			t.Errorf("%s at distance %f from center, want %f", id, d, config.CategoryRadius)
		}
	}

	// Two categories sit opposite each other
	a, b := placements["category-infections"].Position, placements["category-autoimmune"].Position
	if d := distance(a, b); math.Abs(d-2*config.CategoryRadius) > 1e-6 {
		t.Errorf("categories %f apart, want %f", d, 2*config.CategoryRadius)
	}

	for _, id := range []string{"disease-sepsis", "disease-influenza"} {
		p := placements[id]
		if !p.Fixed {
			t.Errorf("%s not pinned", id)
		}
		if d := distance(p.Position, a); math.Abs(d-config.DiseaseRadius) > 1e-6 {
			t.Errorf("%s at distance %f from its category, want %f", id, d, config.DiseaseRadius)
		}
	}

	if p := placements["allele-HLA_A_01"]; !p.Fixed {
		t.Error("single-parent allele should be pinned")
	}
	if p := placements["allele-HLA_B_27"]; p.Fixed {
		t.Error("shared allele should be left unpinned")
	}
}

func TestRadialLayoutEmpty(t *testing.T) {
	config := DefaultLayoutConfig()
	placements, err := NewRadialLayout(&config).ComputeLayout(graph.NewStore())
	if err != nil || len(placements) != 0 {
		t.Errorf("ComputeLayout() = %v, %v; want empty", placements, err)
	}
}

// TestEngineKeepsPinnedNodes verifies that relaxation only moves unpinned nodes
func TestEngineKeepsPinnedNodes(t *testing.T) {
	s := sampleGraph(t)
	engine := NewEngine(DefaultLayoutConfig(), nil)

	config := engine.Config()
	placements, _ := NewRadialLayout(&config).ComputeLayout(s)

	if err := engine.Apply(s); err != nil {
		t.Fatalf("Apply() failed: %v", err)
	}

	for id, want := range placements {
		if !want.Fixed {
			continue
		}
		got, _ := s.Node(id)
		if !got.Fixed || got.Position != want.Position {
			t.Errorf("%s moved from %+v to %+v", id, want.Position, got.Position)
		}
	}

	shared, _ := s.Node("allele-HLA_B_27")
	if shared.Fixed {
		t.Error("shared allele pinned after Apply")
	}
	for _, v := range []float64{shared.Position.X, shared.Position.Y} {
		if math.IsNaN(v) || math.IsInf(v, 0) {
			t.Fatalf("shared allele has invalid position %+v", shared.Position)
		}
	}
}

func TestEngineDeterministic(t *testing.T) {
	first, second := sampleGraph(t), sampleGraph(t)
	if err := NewEngine(DefaultLayoutConfig(), nil).Apply(first); err != nil {
		t.Fatal(err)
	}
	if err := NewEngine(DefaultLayoutConfig(), nil).Apply(second); err != nil {
		t.Fatal(err)
	}
	a, _ := first.Node("allele-HLA_B_27")
	b, _ := second.Node("allele-HLA_B_27")
	if a.Position != b.Position {
		t.Errorf("layout not deterministic: %+v vs %+v", a.Position, b.Position)
	}
}

func TestForceLayoutSkipsHidden(t *testing.T) {
	s := sampleGraph(t)
	_ = s.SetHidden("allele-HLA_B_27", true)

	config := DefaultLayoutConfig()
	placements, err := NewForceDirectedLayout(&config).ComputeLayout(s)
	if err != nil {
		t.Fatal(err)
	}
	if _, ok := placements["allele-HLA_B_27"]; ok {
		t.Error("hidden node was relaxed")
	}
}

func TestEngineRestyle(t *testing.T) {
	s := sampleGraph(t)
	NewEngine(DefaultLayoutConfig(), NewEncoder(ColoringSimple)).Restyle(s)

	c, _ := s.Node("category-infections")
	if c.Style.Color != ColorCategory || c.Style.Size != DefaultBaseSize {
		t.Errorf("category style = %+v", c.Style)
	}
	a, _ := s.Node("allele-HLA_A_01")
	if a.Style.BorderColor != BorderRisk || a.Style.Color != ColorAllele {
		t.Errorf("allele style = %+v", a.Style)
	}
}

func TestCamera(t *testing.T) {
	cam := NewCamera(DefaultLayoutConfig())
	if cam.X != 500 || cam.Y != 500 || cam.Ratio != 1 {
		t.Fatalf("NewCamera() = %+v", cam)
	}

	zoomed := cam.Zoom(0.5).Pan(10, 0)
	if zoomed.Ratio != 0.5 || zoomed.X != 505 {
		t.Errorf("Zoom/Pan = %+v", zoomed)
	}
	if cam.Ratio != 1 {
		t.Error("Zoom mutated the receiver")
	}
	if got := cam.Zoom(1e-9).Ratio; got != MinRatio {
		t.Errorf("Zoom floor = %v, want %v", got, MinRatio)
	}
	if got := cam.Zoom(-1); got != cam {
		t.Errorf("negative zoom changed camera: %+v", got)
	}
}

func TestViewportProject(t *testing.T) {
	cam := NewCamera(DefaultLayoutConfig())
	vp := Viewport{Cols: 100, Rows: 50, Extent: 1000}

	col, row, ok := vp.Project(cam, graph.Point{X: 500, Y: 500})
	if !ok || col != 50 || row != 25 {
		t.Errorf("center projected to (%d, %d, %v)", col, row, ok)
	}
	if _, _, ok := vp.Project(cam, graph.Point{X: 5000, Y: 500}); ok {
		t.Error("far point reported inside the viewport")
	}
	if _, _, ok := (Viewport{}).Project(cam, graph.Point{}); ok {
		t.Error("empty viewport reported a visible point")
	}
}

// TestVisualizationExport tests exporting layout to JSON
func TestVisualizationExport(t *testing.T) {
	s := sampleGraph(t)
	engine := NewEngine(DefaultLayoutConfig(), nil)
	if err := engine.Apply(s); err != nil {
		t.Fatal(err)
	}
	engine.Restyle(s)

	jsonData, err := Snapshot(s, NewCamera(engine.Config())).ExportJSON()
	if err != nil {
		t.Fatalf("JSON export failed: %v", err)
	}

	var decoded struct {
		Nodes []struct {
			ID    string  `json:"id"`
			Label string  `json:"label"`
			X     float64 `json:"x"`
			Color string  `json:"color"`
		} `json:"nodes"`
		Edges []struct {
			Source string `json:"source"`
		} `json:"edges"`
		Camera Camera `json:"camera"`
	}
	if err := json.Unmarshal(jsonData, &decoded); err != nil {
		t.Fatalf("export is not valid JSON: %v", err)
	}
	if len(decoded.Nodes) != 7 || len(decoded.Edges) != 6 {
		t.Errorf("exported %d nodes and %d edges", len(decoded.Nodes), len(decoded.Edges))
	}
	if !strings.Contains(string(jsonData), "A_01") {
		t.Error("JSON export missing display label")
	}
	if decoded.Camera.Ratio != 1 {
		t.Errorf("camera ratio = %v", decoded.Camera.Ratio)
	}
}

// Helper function to calculate distance between two positions
func distance(p1, p2 graph.Point) float64 {
	dx := p1.X - p2.X
	dy := p1.Y - p2.Y
	return math.Sqrt(dx*dx + dy*dy)
}
