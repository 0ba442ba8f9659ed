package graph

import (
	"errors"
	"testing"
)

func category(label string) Node {
	return Node{ID: NodeID(KindCategory, label), Kind: KindCategory, Label: label, FullLabel: label, ForceLabel: true}
}

func disease(label, cat string, alleles int) Node {
	return Node{
		ID: NodeID(KindDisease, label), Kind: KindDisease, Label: label, FullLabel: label,
		Disease: Disease{Category: cat, AlleleCount: alleles},
	}
}

func allele(full string, or, p float64) Node {
	return Node{
		ID: NodeID(KindAllele, full), Kind: KindAllele, Label: DisplayLabel(full), FullLabel: full,
		ForceLabel: true, Allele: Allele{GeneName: "A", Serotype: "01", OddsRatio: or, PValue: p},
	}
}

func mustAdd(t *testing.T, s *Store, nodes ...Node) {
	t.Helper()
	for _, n := range nodes {
		if _, err := s.AddNode(n); err != nil {
			t.Fatalf("AddNode(%s) failed: %v", n.ID, err)
		}
	}
}

func mustEdge(t *testing.T, s *Store, source, target string) {
	t.Helper()
	if _, err := s.AddEdge(source, target, Edge{}); err != nil {
		t.Fatalf("AddEdge(%s, %s) failed: %v", source, target, err)
	}
}

func TestNodeID(t *testing.T) {
	tests := []struct {
		kind Kind
		full string
		want string
	}{
		{KindAllele, "HLA_A_01", "allele-HLA_A_01"},
		{KindDisease, "Type 1 diabetes", "disease-Type_1_diabetes"},
		{KindCategory, "infectious diseases", "category-infectious_diseases"},
	}

	for _, tt := range tests {
		if got := NodeID(tt.kind, tt.full); got != tt.want {
			t.Errorf("NodeID(%s, %q) = %q, want %q", tt.kind, tt.full, got, tt.want)
		}
	}
}

func TestDisplayLabel(t *testing.T) {
	if got := DisplayLabel("HLA_DRB1_1501"); got != "DRB1_1501" {
		t.Errorf("DisplayLabel() = %q, want DRB1_1501", got)
	}
	if got := DisplayLabel("Asthma"); got != "Asthma" {
		t.Errorf("DisplayLabel() = %q, want Asthma", got)
	}
}

func TestAddNodeIdempotent(t *testing.T) {
	s := NewStore()
	first := disease("Asthma", "respiratory", 4)

	added, err := s.AddNode(first)
	if err != nil || !added {
		t.Fatalf("first AddNode() = %v, %v; want true, nil", added, err)
	}

	second := first
	second.Disease.AlleleCount = 99
	second.Label = "changed"
	added, err = s.AddNode(second)
	if err != nil || added {
		t.Fatalf("second AddNode() = %v, %v; want false, nil", added, err)
	}

	if s.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", s.Len())
	}
	got, _ := s.Node(first.ID)
	if got.Disease.AlleleCount != 4 || got.Label != "Asthma" {
		t.Errorf("attributes overwritten: %+v", got)
	}
}

func TestAddNodeIncomplete(t *testing.T) {
	tests := []struct {
		name string
		node Node
	}{
		{"missing id", Node{Kind: KindCategory, Label: "x", FullLabel: "x"}},
		{"missing label", Node{ID: "category-x", Kind: KindCategory, FullLabel: "x"}},
		{"unknown kind", Node{ID: "gene-x", Kind: "gene", Label: "x", FullLabel: "x"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := NewStore()
			_, err := s.AddNode(tt.node)
			if !errors.Is(err, ErrIncompleteNode) {
				t.Errorf("AddNode() error = %v, want ErrIncompleteNode", err)
			}
			if s.Len() != 0 {
				t.Errorf("incomplete node was stored")
			}
		})
	}
}

func TestMissingNodeOperations(t *testing.T) {
	s := NewStore()

	if err := s.SetHidden("allele-HLA_A_01", true); !IsNotFound(err) {
		t.Errorf("SetHidden() error = %v, want not found", err)
	}
	if err := s.Update("allele-HLA_A_01", func(n *Node) { n.ForceLabel = true }); !errors.Is(err, ErrNodeNotFound) {
		t.Errorf("Update() error = %v, want ErrNodeNotFound", err)
	}
	if _, err := s.Node("allele-HLA_A_01"); !IsNotFound(err) {
		t.Errorf("Node() error = %v, want not found", err)
	}
	if _, err := s.RemoveSubtree("category-x"); !IsNotFound(err) {
		t.Errorf("RemoveSubtree() error = %v, want not found", err)
	}

	var gerr *GraphError
	err := s.SetHidden("disease-Asthma", false)
	if !errors.As(err, &gerr) || gerr.Op != "SetHidden" || gerr.ID != "disease-Asthma" {
		t.Errorf("expected structured GraphError, got %v", err)
	}
}

func TestUpdateKeepsIdentity(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, disease("Asthma", "respiratory", 4))

	err := s.Update("disease-Asthma", func(n *Node) {
		n.ID = "other"
		n.Kind = KindAllele
		n.Expanded = true
	})
	if err != nil {
		t.Fatalf("Update() error = %v", err)
	}

	got, err := s.Node("disease-Asthma")
	if err != nil {
		t.Fatalf("node lost after Update: %v", err)
	}
	if got.Kind != KindDisease || !got.Expanded {
		t.Errorf("Update() result = %+v", got)
	}
}

func TestAddEdge(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, disease("Asthma", "respiratory", 1), disease("Eczema", "dermatologic", 1), allele("HLA_A_01", 1.5, 0.01))

	added, err := s.AddEdge("disease-Asthma", "allele-HLA_A_01", Edge{})
	if err != nil || !added {
		t.Fatalf("AddEdge() = %v, %v", added, err)
	}

	// Same pair is not duplicated
	added, err = s.AddEdge("disease-Asthma", "allele-HLA_A_01", Edge{Color: "red"})
	if err != nil || added {
		t.Fatalf("duplicate AddEdge() = %v, %v; want false, nil", added, err)
	}

	// Different pair sharing the target is supported
	mustEdge(t, s, "disease-Eczema", "allele-HLA_A_01")

	if s.EdgeCount() != 2 {
		t.Errorf("EdgeCount() = %d, want 2", s.EdgeCount())
	}
	if got := s.ParentCount("allele-HLA_A_01"); got != 2 {
		t.Errorf("ParentCount() = %d, want 2", got)
	}
	e, _ := s.Edge("disease-Asthma", "allele-HLA_A_01")
	if e.Color != EdgeColorDefault {
		t.Errorf("default edge color = %q, want %q", e.Color, EdgeColorDefault)
	}

	if _, err := s.AddEdge("disease-Asthma", "allele-missing", Edge{}); !IsNotFound(err) {
		t.Errorf("AddEdge() to missing target error = %v, want not found", err)
	}
	if _, err := s.AddEdge("disease-Asthma", "disease-Asthma", Edge{}); !errors.Is(err, ErrInvalidEndpoint) {
		t.Errorf("self loop error = %v, want ErrInvalidEndpoint", err)
	}
}

func TestDropNodeRemovesIncidentEdges(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, category("respiratory"), disease("Asthma", "respiratory", 1), allele("HLA_A_01", 2, 0.01))
	mustEdge(t, s, "category-respiratory", "disease-Asthma")
	mustEdge(t, s, "disease-Asthma", "allele-HLA_A_01")

	if err := s.DropNode("disease-Asthma"); err != nil {
		t.Fatalf("DropNode() error = %v", err)
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", s.EdgeCount())
	}
	if len(s.OutNeighbors("category-respiratory")) != 0 || s.ParentCount("allele-HLA_A_01") != 0 {
		t.Error("adjacency index still references dropped node")
	}
}

func TestHideAllAndVisibleSet(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, category("respiratory"), disease("Asthma", "respiratory", 1))
	mustEdge(t, s, "category-respiratory", "disease-Asthma")

	s.HideAll()
	for _, n := range s.Nodes() {
		if !n.Hidden {
			t.Errorf("node %s not hidden", n.ID)
		}
	}
	for _, e := range s.Edges() {
		if !e.Hidden {
			t.Errorf("edge %s not hidden", e.Key())
		}
	}

	s.Visible().Add("category-respiratory")
	s.Visible().Add("disease-Asthma", "category-respiratory")
	if s.Visible().Len() != 2 {
		t.Errorf("Visible().Len() = %d, want 2", s.Visible().Len())
	}

	s.Clear()
	if s.Len() != 0 || s.EdgeCount() != 0 || s.Visible().Len() != 0 {
		t.Error("Clear() left state behind")
	}
}

func TestNodesOfKindOrder(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, category("b"), disease("x", "b", 1), category("a"), category("c"))

	cats := s.NodesOfKind(KindCategory)
	want := []string{"category-b", "category-a", "category-c"}
	if len(cats) != len(want) {
		t.Fatalf("NodesOfKind() returned %d nodes, want %d", len(cats), len(want))
	}
	for i, n := range cats {
		if n.ID != want[i] {
			t.Errorf("NodesOfKind()[%d] = %s, want %s", i, n.ID, want[i])
		}
	}
}
