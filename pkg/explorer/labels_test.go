package explorer

import (
	"testing"

	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/leanovate/gopter"
	"github.com/leanovate/gopter/gen"
	"github.com/leanovate/gopter/prop"
)

func labelStore(t *testing.T) *graph.Store {
	t.Helper()
	s := graph.NewStore()
	nodes := []graph.Node{
		{ID: "category-c", Kind: graph.KindCategory, Label: "c", FullLabel: "c", ForceLabel: true},
		{ID: "disease-d1", Kind: graph.KindDisease, Label: "d1", FullLabel: "d1", Expanded: true},
		{ID: "disease-d2", Kind: graph.KindDisease, Label: "d2", FullLabel: "d2"},
		{ID: "allele-HLA_A_01", Kind: graph.KindAllele, Label: "A_01", FullLabel: "HLA_A_01", ForceLabel: true},
		{ID: "allele-HLA_B_08", Kind: graph.KindAllele, Label: "B_08", FullLabel: "HLA_B_08", ForceLabel: true},
		{ID: "allele-HLA_C_06", Kind: graph.KindAllele, Label: "C_06", FullLabel: "HLA_C_06", ForceLabel: true},
	}
	for _, n := range nodes {
		if _, err := s.AddNode(n); err != nil {
			t.Fatal(err)
		}
	}
	return s
}

func forced(t *testing.T, s *graph.Store, id string) bool {
	t.Helper()
	n, err := s.Node(id)
	if err != nil {
		t.Fatal(err)
	}
	return n.ForceLabel
}

func TestSelectAlleleKeepsUserLabels(t *testing.T) {
	s := labelStore(t)
	x, y := "allele-HLA_A_01", "allele-HLA_B_08"

	// X loses its automatic label when Y is selected first.
	if err := applyLabels(s, labelSelectAllele, labelTarget{Node: y}); err != nil {
		t.Fatal(err)
	}
	if forced(t, s, x) {
		t.Fatal("unselected allele kept its label")
	}

	// The user turns X on, then selects Y again.
	if err := applyLabels(s, labelToggle, labelTarget{Node: x}); err != nil {
		t.Fatal(err)
	}
	if err := applyLabels(s, labelSelectAllele, labelTarget{Node: y}); err != nil {
		t.Fatal(err)
	}
	if !forced(t, s, x) {
		t.Error("user-forced label was cleared by selection")
	}
	if !forced(t, s, y) || !forced(t, s, "category-c") {
		t.Error("selected allele and categories must keep labels")
	}
	if forced(t, s, "allele-HLA_C_06") || forced(t, s, "disease-d1") {
		t.Error("other nodes should lose automatic labels")
	}
}

func TestToggleTwiceClearsUserFlag(t *testing.T) {
	s := labelStore(t)
	id := "allele-HLA_C_06"
	_ = applyLabels(s, labelToggle, labelTarget{Node: id})
	n, _ := s.Node(id)
	if n.ForceLabel || n.UserForceLabel {
		t.Errorf("after one toggle: force=%v user=%v", n.ForceLabel, n.UserForceLabel)
	}
	_ = applyLabels(s, labelToggle, labelTarget{Node: id})
	n, _ = s.Node(id)
	if !n.ForceLabel || !n.UserForceLabel {
		t.Errorf("after two toggles: force=%v user=%v", n.ForceLabel, n.UserForceLabel)
	}
}

func TestPanelClosedRestoresLabels(t *testing.T) {
	s := labelStore(t)
	_ = applyLabels(s, labelSelectAllele, labelTarget{Node: "allele-HLA_A_01"})
	_ = applyLabels(s, labelPairwise, labelTarget{Node: "allele-HLA_A_01", Disease: "disease-d1"})

	d1, _ := s.Node("disease-d1")
	if d1.Style.BorderColor != selectedBorderColor || d1.Style.BorderSize != selectedBorderSize || !d1.ForceLabel {
		t.Fatalf("selected disease style = %+v force=%v", d1.Style, d1.ForceLabel)
	}

	if err := applyLabels(s, labelPanelClosed, labelTarget{}); err != nil {
		t.Fatal(err)
	}
	for _, id := range []string{"allele-HLA_A_01", "allele-HLA_B_08", "allele-HLA_C_06", "disease-d1"} {
		if !forced(t, s, id) {
			t.Errorf("%s label not restored", id)
		}
	}
	if forced(t, s, "disease-d2") {
		t.Error("collapsed disease should not get a forced label")
	}
	d1, _ = s.Node("disease-d1")
	if d1.Style.BorderSize != 0 {
		t.Errorf("disease border not reset: %+v", d1.Style)
	}
}

func TestMissingTarget(t *testing.T) {
	s := labelStore(t)
	if err := applyLabels(s, labelToggle, labelTarget{Node: "allele-nope"}); !graph.IsNotFound(err) {
		t.Errorf("err = %v, want not found", err)
	}
}

// TestUserLabelSurvivesAutomaticEvents checks that no sequence of automatic
// label events clears a label the user forced on.
func TestUserLabelSurvivesAutomaticEvents(t *testing.T) {
	parameters := gopter.DefaultTestParameters()
	parameters.MinSuccessfulTests = 200
	properties := gopter.NewProperties(parameters)

	automatic := []labelEvent{labelSelectAllele, labelPanelClosed, labelPairwise, labelDiseaseExpanded, labelDiseaseCollapsed, labelAllDiseases}
	alleles := []string{"allele-HLA_A_01", "allele-HLA_B_08", "allele-HLA_C_06"}
	diseases := []string{"disease-d1", "disease-d2"}

	properties.Property("user-forced allele keeps its label", prop.ForAll(
		func(events []int, pinned int) bool {
			s := labelStore(t)
			x := alleles[pinned]
			_ = applyLabels(s, labelSelectAllele, labelTarget{Node: alleles[(pinned+1)%len(alleles)]})
			_ = applyLabels(s, labelToggle, labelTarget{Node: x})
			if n, _ := s.Node(x); !n.UserForceLabel {
				return false
			}
			for i, ev := range events {
				_ = applyLabels(s, automatic[ev], labelTarget{
					Node:    alleles[i%len(alleles)],
					Disease: diseases[i%len(diseases)],
				})
				if n, _ := s.Node(x); !n.ForceLabel {
					return false
				}
			}
			return true
		},
		gen.SliceOf(gen.IntRange(0, len(automatic)-1)),
		gen.IntRange(0, len(alleles)-1),
	))

	properties.TestingRun(t)
}
