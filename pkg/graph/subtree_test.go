package graph

import (
	"slices"
	"testing"
)

// diamond builds A→B, A→C, B→D, C→D
func diamond(t *testing.T) *Store {
	t.Helper()
	s := NewStore()
	mustAdd(t, s, category("A"), disease("B", "A", 1), disease("C", "A", 1), allele("D", 1.2, 0.01))
	mustEdge(t, s, "category-A", "disease-B")
	mustEdge(t, s, "category-A", "disease-C")
	mustEdge(t, s, "disease-B", "allele-D")
	mustEdge(t, s, "disease-C", "allele-D")
	return s
}

func TestRemoveSubtreeDiamond(t *testing.T) {
	s := diamond(t)

	removed, err := s.RemoveSubtree("category-A")
	if err != nil {
		t.Fatalf("RemoveSubtree() error = %v", err)
	}

	// Both paths to D are gone, so D goes as well
	for _, id := range []string{"disease-B", "disease-C", "allele-D"} {
		if s.Has(id) {
			t.Errorf("%s survived collapse", id)
		}
		if !slices.Contains(removed, id) {
			t.Errorf("%s missing from removed list %v", id, removed)
		}
	}
	if !s.Has("category-A") {
		t.Error("root was removed")
	}
	if s.EdgeCount() != 0 {
		t.Errorf("EdgeCount() = %d, want 0", s.EdgeCount())
	}
}

func TestRemoveSubtreeKeepsSharedChild(t *testing.T) {
	s := diamond(t)

	// Collapse only one of D's parents
	removed, err := s.RemoveSubtree("disease-B")
	if err != nil {
		t.Fatalf("RemoveSubtree() error = %v", err)
	}
	if len(removed) != 0 {
		t.Errorf("removed = %v, want none", removed)
	}
	if !s.Has("allele-D") {
		t.Fatal("shared child removed while still referenced")
	}
	if s.HasEdge("disease-B", "allele-D") {
		t.Error("edge from collapsed parent still present")
	}
	if !s.HasEdge("disease-C", "allele-D") {
		t.Error("edge from remaining parent dropped")
	}
	if got := s.ParentCount("allele-D"); got != 1 {
		t.Errorf("ParentCount() = %d, want 1", got)
	}
}

func TestRemoveSubtreeSharedDiseaseAcrossCategories(t *testing.T) {
	s := NewStore()
	mustAdd(t, s,
		category("Infections"), category("Autoimmune"),
		disease("Sepsis", "Infections", 2), disease("Lupus", "Autoimmune", 1),
		allele("HLA_B_27", 3, 0.001), allele("HLA_A_02", 0.5, 0.02),
	)
	mustEdge(t, s, "category-Infections", "disease-Sepsis")
	mustEdge(t, s, "category-Autoimmune", "disease-Sepsis")
	mustEdge(t, s, "category-Autoimmune", "disease-Lupus")
	mustEdge(t, s, "disease-Sepsis", "allele-HLA_B_27")
	mustEdge(t, s, "disease-Lupus", "allele-HLA_A_02")

	if _, err := s.RemoveSubtree("category-Infections"); err != nil {
		t.Fatalf("RemoveSubtree() error = %v", err)
	}

	// Sepsis is still a child of Autoimmune and keeps its alleles
	if !s.Has("disease-Sepsis") || !s.Has("allele-HLA_B_27") {
		t.Error("shared disease subtree was pruned")
	}

	if _, err := s.RemoveSubtree("category-Autoimmune"); err != nil {
		t.Fatalf("RemoveSubtree() error = %v", err)
	}
	for _, id := range []string{"disease-Sepsis", "disease-Lupus", "allele-HLA_B_27", "allele-HLA_A_02"} {
		if s.Has(id) {
			t.Errorf("%s survived second collapse", id)
		}
	}
	if s.Len() != 2 {
		t.Errorf("Len() = %d, want the two categories", s.Len())
	}
}

func TestRemoveSubtreeCycle(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, disease("X", "c", 1), disease("Y", "c", 1))
	mustEdge(t, s, "disease-X", "disease-Y")
	mustEdge(t, s, "disease-Y", "disease-X")

	removed, err := s.RemoveSubtree("disease-X")
	if err != nil {
		t.Fatalf("RemoveSubtree() error = %v", err)
	}
	if !slices.Equal(removed, []string{"disease-Y"}) {
		t.Errorf("removed = %v, want [disease-Y]", removed)
	}
	if !s.Has("disease-X") {
		t.Error("root removed through cycle")
	}
}

func TestRemoveSubtreeDeepChain(t *testing.T) {
	s := NewStore()
	mustAdd(t, s, category("respiratory"), disease("Asthma", "respiratory", 2),
		allele("HLA_A_01", 2, 0.01), allele("HLA_B_08", 0.4, 0.03))
	mustEdge(t, s, "category-respiratory", "disease-Asthma")
	mustEdge(t, s, "disease-Asthma", "allele-HLA_A_01")
	mustEdge(t, s, "disease-Asthma", "allele-HLA_B_08")

	removed, _ := s.RemoveSubtree("category-respiratory")

	// Post-order: descendants before the disease
	want := []string{"allele-HLA_A_01", "allele-HLA_B_08", "disease-Asthma"}
	if !slices.Equal(removed, want) {
		t.Errorf("removed = %v, want %v", removed, want)
	}
}
