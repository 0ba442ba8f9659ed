package explorer

import (
	"context"
	"fmt"
	"time"

	"github.com/dd0wney/phewas-explorer/pkg/gateway"
	"github.com/dd0wney/phewas-explorer/pkg/graph"
	"github.com/dd0wney/phewas-explorer/pkg/logging"
	"github.com/dd0wney/phewas-explorer/pkg/visualization"
)

// followUp is work chained after a full re-initialization.
type followUp int

const (
	followNone followUp = iota
	followExpandAll
)

// rootOutcome carries a root or filtered categories fetch.
type rootOutcome struct {
	seq    uint64
	query  gateway.GraphQuery
	graph  *gateway.Graph
	err    error
	follow followUp
}

// reload issues a fetch that re-initializes the whole graph. Only the most
// recent reload is applied.
func (e *Explorer) reload(q gateway.GraphQuery, follow followUp) []Effect {
	e.rootSeq++
	seq := e.rootSeq
	q.ShowSubtypes = e.showSubtypes
	gw := e.gw
	return []Effect{func(ctx context.Context) Outcome {
		g, err := gw.GraphData(ctx, q)
		return &rootOutcome{seq: seq, query: q, graph: g, err: err, follow: follow}
	}}
}

func (o *rootOutcome) apply(e *Explorer) ([]Effect, error) {
	if o.seq != e.rootSeq {
		e.logger.Debug("discarding superseded graph load", logging.Filters(o.query.Filters))
		return nil, nil
	}
	if o.err != nil {
		e.logger.Error("graph load failed", logging.Filters(o.query.Filters), logging.Error(o.err))
		e.setNotice(NoticeError, "Could not load graph data.")
		return nil, nil
	}

	if err := e.initialize(o.graph, o.query.Filters); err != nil {
		return nil, err
	}
	if o.follow == followExpandAll {
		return e.startExpandAll()
	}
	return nil, nil
}

// initialize replaces the graph with g. The camera is centered on the
// first initialization and restored unchanged on every later one.
func (e *Explorer) initialize(g *gateway.Graph, filters string) error {
	if !e.initialized {
		e.camera = visualization.NewCamera(e.layout.Config())
		e.initialized = true
	}
	saved := e.camera

	e.store.Clear()
	e.epoch++
	clear(e.states)
	clear(e.pending)
	e.selection = Selection{}
	e.panel = nil
	e.associations = nil
	e.cancelTask("reinitialized")
	e.filters = filters

	if _, err := e.merge(g); err != nil {
		return err
	}
	e.layout.Restyle(e.store)
	e.runLayout()
	e.camera = saved

	e.logger.Info("graph initialized",
		logging.Count(e.store.Len()), logging.Filters(filters))
	return nil
}

// merge adds the nodes and edges of g, extends the visible set and
// recomputes hidden flags for every node in the response. It returns the
// ids of newly added nodes.
func (e *Explorer) merge(g *gateway.Graph) ([]string, error) {
	if e.strict {
		if err := e.checkGraph(g); err != nil {
			return nil, fmt.Errorf("merge: %w", err)
		}
	}
	visible := e.store.Visible()
	visible.Add(g.Visible...)

	enc := e.layout.Encoder()
	var added []string
	for _, n := range g.Nodes {
		n.Hidden = !visible.Contains(n.ID)
		ok, err := e.store.AddNode(n)
		if err != nil {
			if err := e.missing("merge", err); err != nil {
				return added, err
			}
			continue
		}
		if ok {
			added = append(added, n.ID)
			style := enc.Style(n)
			_ = e.store.Update(n.ID, func(n *graph.Node) { n.Style = style })
			continue
		}

		hidden := n.Hidden
		_ = e.store.Update(n.ID, func(n *graph.Node) {
			if n.Hidden != hidden {
				n.Hidden = hidden
				n.Style.Color = enc.Color(*n)
			}
		})
	}

	for _, edge := range g.Edges {
		if _, err := e.store.AddEdge(edge.Source, edge.Target, edge); err != nil {
			if err := e.missing("merge", err); err != nil {
				return added, err
			}
		}
	}
	return added, nil
}

// checkGraph rejects a response that merge could only apply in part: an
// incomplete node, or an edge whose endpoints are neither stored nor in
// the response.
func (e *Explorer) checkGraph(g *gateway.Graph) error {
	incoming := make(map[string]bool, len(g.Nodes))
	for _, n := range g.Nodes {
		if err := graph.ValidateNode(n); err != nil {
			return err
		}
		incoming[n.ID] = true
	}
	known := func(id string) bool { return incoming[id] || e.store.Has(id) }
	for _, ed := range g.Edges {
		for _, id := range []string{ed.Source, ed.Target} {
			if !known(id) {
				return &graph.GraphError{Op: "AddEdge", Entity: "node", ID: id, Cause: graph.ErrNodeNotFound}
			}
		}
		if ed.Source == ed.Target {
			return &graph.GraphError{Op: "AddEdge", Entity: "edge", ID: graph.EdgeKey(ed.Source, ed.Target), Cause: graph.ErrInvalidEndpoint}
		}
	}
	return nil
}

// runLayout positions the graph and refreshes the gauges.
func (e *Explorer) runLayout() {
	op := logging.StartTimer(e.logger, "layout")
	start := time.Now()
	if err := e.layout.Apply(e.store); err != nil {
		op.EndError(err)
	} else {
		op.End(logging.Count(e.store.Len()))
	}
	if e.metrics != nil {
		e.metrics.RecordLayout(time.Since(start))
	}
	e.recordGraph()
}
