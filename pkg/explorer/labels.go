package explorer

import "github.com/dd0wney/phewas-explorer/pkg/graph"

// labelEvent is something that changes which labels are forced visible.
type labelEvent int

const (
	labelSelectAllele    labelEvent = iota // an allele was clicked
	labelToggle                            // manual right-click toggle
	labelPanelClosed                       // the detail panel closed
	labelPairwise                          // pairwise statistics arrived
	labelDiseaseExpanded                   // a disease's alleles arrived
	labelDiseaseCollapsed                  // a disease was collapsed
	labelAllDiseases                       // expand-all finished
)

// labelTarget names the nodes an event is about. Empty fields are unused.
type labelTarget struct {
	Node    string
	Disease string
}

// applyLabels is the single place where forceLabel and userForceLabel
// change. Automatic events never clear forceLabel on a node whose
// userForceLabel is set.
func applyLabels(s *graph.Store, ev labelEvent, t labelTarget) error {
	switch ev {
	case labelSelectAllele:
		for _, n := range s.Nodes() {
			if n.Kind == graph.KindCategory || n.UserForceLabel || n.ID == t.Node {
				continue
			}
			_ = s.Update(n.ID, func(n *graph.Node) { n.ForceLabel = false })
		}
		return s.Update(t.Node, func(n *graph.Node) { n.ForceLabel = true })

	case labelToggle:
		return s.Update(t.Node, func(n *graph.Node) {
			n.ForceLabel = !n.ForceLabel
			n.UserForceLabel = n.ForceLabel
		})

	case labelPanelClosed:
		for _, n := range s.Nodes() {
			switch n.Kind {
			case graph.KindAllele:
				if !n.UserForceLabel {
					_ = s.Update(n.ID, func(n *graph.Node) { n.ForceLabel = true })
				}
			case graph.KindDisease:
				_ = s.Update(n.ID, func(n *graph.Node) {
					if n.Expanded {
						n.ForceLabel = true
					}
					resetBorder(n)
				})
			}
		}
		return nil

	case labelPairwise:
		for _, n := range s.Nodes() {
			switch {
			case n.Kind == graph.KindDisease && n.ID != t.Disease:
				_ = s.Update(n.ID, func(n *graph.Node) {
					resetBorder(n)
					if !n.UserForceLabel {
						n.ForceLabel = false
					}
				})
			case n.Kind == graph.KindAllele && n.ID != t.Node:
				_ = s.Update(n.ID, func(n *graph.Node) { n.ForceLabel = n.UserForceLabel })
			}
		}
		return s.Update(t.Disease, func(n *graph.Node) {
			n.Style.BorderColor = selectedBorderColor
			n.Style.BorderSize = selectedBorderSize
			n.ForceLabel = true
		})

	case labelDiseaseExpanded:
		return s.Update(t.Node, func(n *graph.Node) { n.ForceLabel = true })

	case labelDiseaseCollapsed:
		return s.Update(t.Node, func(n *graph.Node) {
			if !n.UserForceLabel {
				n.ForceLabel = false
			}
		})

	case labelAllDiseases:
		for _, n := range s.NodesOfKind(graph.KindDisease) {
			_ = s.Update(n.ID, func(n *graph.Node) { n.ForceLabel = true })
		}
		return nil
	}
	return nil
}

// Selected disease highlight
const (
	selectedBorderColor = "black"
	selectedBorderSize  = 0.1
)

func resetBorder(n *graph.Node) {
	n.Style.BorderSize = 0
	n.Style.BorderColor = n.Style.Color
}
