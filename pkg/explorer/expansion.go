package explorer

import (
	"context"
	"fmt"
	"slices"

	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
)

// State is the expansion state of a category or disease node.
type State int

const (
	Collapsed State = iota
	Expanding       // fetch in flight
	Expanded
	Collapsing // subtree removal in progress
)

func (s State) String() string {
	switch s {
	case Collapsed:
		return "collapsed"
	case Expanding:
		return "expanding"
	case Expanded:
		return "expanded"
	case Collapsing:
		return "collapsing"
	}
	return fmt.Sprintf("State(%d)", int(s))
}

// State returns the expansion state of id. Unknown nodes are Collapsed.
func (e *Explorer) State(id string) State {
	return e.states[id]
}

// Activate handles a click on a node: categories and diseases toggle
// between expanded and collapsed, alleles open the detail panel.
func (e *Explorer) Activate(id string) ([]Effect, error) {
	n, err := e.store.Node(id)
	if err != nil {
		return nil, e.missing("activate", err)
	}
	if n.Kind == graph.KindAllele {
		return e.selectAllele(n)
	}
	return e.toggle(n, true)
}

// Expand expands a collapsed node; expanded nodes are left alone.
func (e *Explorer) Expand(id string) ([]Effect, error) {
	n, err := e.store.Node(id)
	if err != nil {
		return nil, e.missing("expand", err)
	}
	if !n.Kind.Expandable() {
		return nil, fmt.Errorf("expand %s: %w", id, ErrNotExpandable)
	}
	switch e.states[id] {
	case Expanding:
		return nil, ErrBusy
	case Expanded:
		return nil, nil
	}
	return e.expand(n, true), nil
}

// Collapse collapses an expanded node; collapsed nodes are left alone.
func (e *Explorer) Collapse(id string) error {
	n, err := e.store.Node(id)
	if err != nil {
		return e.missing("collapse", err)
	}
	if !n.Kind.Expandable() {
		return fmt.Errorf("collapse %s: %w", id, ErrNotExpandable)
	}
	switch e.states[id] {
	case Expanding:
		return ErrBusy
	case Collapsed:
		return nil
	}
	return e.collapse(n)
}

// RightClick toggles the node's label and records it as a user choice.
func (e *Explorer) RightClick(id string) error {
	return e.missing("right-click", applyLabels(e.store, labelToggle, labelTarget{Node: id}))
}

func (e *Explorer) toggle(n graph.Node, panel bool) ([]Effect, error) {
	switch e.states[n.ID] {
	case Expanding:
		return nil, ErrBusy
	case Expanded:
		return nil, e.collapse(n)
	}
	return e.expand(n, panel), nil
}

// expansionOutcome carries the children of one node.
type expansionOutcome struct {
	id    string
	kind  graph.Kind
	token uint64
	epoch uint64
	panel bool
	graph *gateway.Graph
	err   error
}

// expand marks n Expanding and returns the fetch of its children. The
// graph is not touched until the response is applied. panel requests the
// disease list panel for categories.
func (e *Explorer) expand(n graph.Node, panel bool) []Effect {
	q := gateway.GraphQuery{
		Filters:      e.filters,
		Clicked:      true,
		ShowSubtypes: e.showSubtypes,
	}
	if n.Kind == graph.KindCategory {
		q.Type, q.CategoryID = gateway.TypeDiseases, n.ID
	} else {
		q.Type, q.DiseaseID = gateway.TypeAlleles, n.ID
	}

	token := e.nextToken()
	e.states[n.ID] = Expanding
	e.pending[n.ID] = token
	e.logger.Debug("expanding", logging.NodeKey(n.ID), logging.Kind(string(n.Kind)))

	out := expansionOutcome{id: n.ID, kind: n.Kind, token: token, epoch: e.epoch, panel: panel}
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		o := out
		o.graph, o.err = gw.GraphData(ctx, q)
		return &o
	}}
}

func (o *expansionOutcome) apply(e *Explorer) ([]Effect, error) {
	if o.epoch != e.epoch || e.states[o.id] != Expanding || e.pending[o.id] != o.token || !e.store.Has(o.id) {
		e.logger.Debug("discarding stale expansion", logging.NodeKey(o.id))
		e.recordExpansion(o.kind, "stale")
		if t := e.task; t != nil && t.waiting == o.id && e.states[o.id] != Expanding {
			e.failTask(fmt.Errorf("%s was removed before its expansion completed", o.id))
		}
		return nil, nil
	}
	delete(e.pending, o.id)

	if o.err != nil {
		e.states[o.id] = Collapsed
		e.logger.Error("expansion failed", logging.NodeKey(o.id), logging.Error(o.err))
		e.recordExpansion(o.kind, "failed")
		return e.taskStepDone(o.id, false)
	}

	if _, err := e.merge(o.graph); err != nil {
		e.states[o.id] = Collapsed
		e.recordExpansion(o.kind, "failed")
		if t := e.task; t != nil && t.waiting == o.id {
			e.failTask(err)
		}
		return nil, err
	}
	e.states[o.id] = Expanded
	_ = e.store.Update(o.id, func(n *graph.Node) { n.Expanded = true })
	if o.kind == graph.KindDisease {
		_ = applyLabels(e.store, labelDiseaseExpanded, labelTarget{Node: o.id})
	}
	e.runLayout()
	e.recordExpansion(o.kind, "expanded")

	var effects []Effect
	if o.kind == graph.KindCategory && o.panel {
		effects = append(effects, e.openCategoryPanel(o.id)...)
	}
	more, err := e.taskStepDone(o.id, true)
	return append(effects, more...), err
}

// collapse removes the subtree of n. Children shared with another parent
// survive.
func (e *Explorer) collapse(n graph.Node) error {
	e.states[n.ID] = Collapsing
	removed, err := e.store.RemoveSubtree(n.ID)
	if err != nil {
		e.states[n.ID] = Expanded
		return e.missing("collapse", err)
	}
	delete(e.states, n.ID)
	for _, id := range removed {
		delete(e.states, id)
		delete(e.pending, id)
	}
	if t := e.task; t != nil && slices.Contains(removed, t.waiting) {
		e.failTask(fmt.Errorf("%s was collapsed away while expanding", t.waiting))
	}
	_ = e.store.Update(n.ID, func(n *graph.Node) { n.Expanded = false })
	if n.Kind == graph.KindDisease {
		_ = applyLabels(e.store, labelDiseaseCollapsed, labelTarget{Node: n.ID})
	}

	if slices.Contains(removed, e.selection.Allele) || slices.Contains(removed, e.selection.Disease) {
		e.selection = Selection{}
	}
	if e.panel != nil && (e.panel.NodeID == n.ID || slices.Contains(removed, e.panel.NodeID)) {
		e.ClosePanel()
	}

	e.logger.Debug("collapsed", logging.NodeKey(n.ID), logging.Count(len(removed)))
	e.recordExpansion(n.Kind, "collapsed")
	e.recordGraph()
	return nil
}

func (e *Explorer) recordExpansion(kind graph.Kind, result string) {
	if e.metrics != nil {
		e.metrics.RecordExpansion(string(kind), result)
	}
}
