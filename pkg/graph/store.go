package graph

import (
	"fmt"
	"slices"

	"github.com/dd0wney/phewas-explorer/pkg/validation"
)

// Store owns the explorer graph: nodes, directed edges, the adjacency
// index and the visible set.
//
// A Store has a single owner (the explorer's event loop) and performs no
// locking. Iteration order is insertion order so that layout and
// rendering are deterministic.
type Store struct {
	nodes map[string]*Node
	order []string

	edges     map[string]*Edge
	edgeOrder []string
	outgoing  map[string][]string // node id -> child ids
	incoming  map[string][]string // node id -> parent ids

	visible *VisibleSet
}

// NewStore creates an empty store.
func NewStore() *Store {
	s := &Store{visible: NewVisibleSet()}
	s.reset()
	return s
}

func (s *Store) reset() {
	s.nodes = make(map[string]*Node)
	s.order = nil
	s.edges = make(map[string]*Edge)
	s.edgeOrder = nil
	s.outgoing = make(map[string][]string)
	s.incoming = make(map[string][]string)
}

// Clear drops every node, edge and visible-set member.
func (s *Store) Clear() {
	s.reset()
	s.visible.Reset()
}

// Visible returns the accumulated visible set.
func (s *Store) Visible() *VisibleSet {
	return s.visible
}

// Len returns the number of nodes.
func (s *Store) Len() int {
	return len(s.nodes)
}

// EdgeCount returns the number of edges.
func (s *Store) EdgeCount() int {
	return len(s.edges)
}

// AddNode inserts n unless a node with the same id exists, in which case
// the stored node is left untouched and false is returned. The record
// must be complete; partial records are rejected with ErrIncompleteNode.
func (s *Store) AddNode(n Node) (bool, error) {
	if err := ValidateNode(n); err != nil {
		return false, err
	}
	if _, exists := s.nodes[n.ID]; exists {
		return false, nil
	}
	stored := n
	s.nodes[n.ID] = &stored
	s.order = append(s.order, n.ID)
	return true, nil
}

// ValidateNode reports whether n is complete enough to be stored.
func ValidateNode(n Node) error {
	if err := validation.Struct(n); err != nil {
		return &GraphError{Op: "AddNode", Entity: "node", ID: n.ID, Cause: fmt.Errorf("%w: %v", ErrIncompleteNode, err)}
	}
	return nil
}

// Has reports whether id is in the store.
func (s *Store) Has(id string) bool {
	_, ok := s.nodes[id]
	return ok
}

// Node returns a copy of the node with the given id.
func (s *Store) Node(id string) (Node, error) {
	n, ok := s.nodes[id]
	if !ok {
		return Node{}, nodeNotFound("Node", id)
	}
	return *n, nil
}

// Nodes returns copies of all nodes in insertion order.
func (s *Store) Nodes() []Node {
	out := make([]Node, 0, len(s.order))
	for _, id := range s.order {
		out = append(out, *s.nodes[id])
	}
	return out
}

// NodesOfKind returns copies of all nodes of kind k in insertion order.
func (s *Store) NodesOfKind(k Kind) []Node {
	var out []Node
	for _, id := range s.order {
		if n := s.nodes[id]; n.Kind == k {
			out = append(out, *n)
		}
	}
	return out
}

// Update patches the attributes of an existing node. The id and kind
// cannot be changed through Update.
func (s *Store) Update(id string, fn func(n *Node)) error {
	n, ok := s.nodes[id]
	if !ok {
		return nodeNotFound("Update", id)
	}
	kind := n.Kind
	fn(n)
	n.ID, n.Kind = id, kind
	return nil
}

// SetHidden sets the hidden flag of a node.
func (s *Store) SetHidden(id string, hidden bool) error {
	n, ok := s.nodes[id]
	if !ok {
		return nodeNotFound("SetHidden", id)
	}
	n.Hidden = hidden
	return nil
}

// HideAll hides every node and edge.
func (s *Store) HideAll() {
	for _, n := range s.nodes {
		n.Hidden = true
	}
	for _, e := range s.edges {
		e.Hidden = true
	}
}

// AddEdge inserts a source→target edge. An existing edge between the same
// pair is left untouched and false is returned. Both endpoints must exist.
func (s *Store) AddEdge(source, target string, attrs Edge) (bool, error) {
	if !s.Has(source) {
		return false, &GraphError{Op: "AddEdge", Entity: "node", ID: source, Cause: fmt.Errorf("%w: source", ErrNodeNotFound)}
	}
	if !s.Has(target) {
		return false, &GraphError{Op: "AddEdge", Entity: "node", ID: target, Cause: fmt.Errorf("%w: target", ErrNodeNotFound)}
	}
	if source == target {
		return false, &GraphError{Op: "AddEdge", Entity: "edge", ID: EdgeKey(source, target), Cause: ErrInvalidEndpoint}
	}
	key := EdgeKey(source, target)
	if _, exists := s.edges[key]; exists {
		return false, nil
	}
	e := attrs
	e.Source, e.Target = source, target
	if e.Color == "" {
		e.Color = EdgeColorDefault
	}
	s.edges[key] = &e
	s.edgeOrder = append(s.edgeOrder, key)
	s.outgoing[source] = append(s.outgoing[source], target)
	s.incoming[target] = append(s.incoming[target], source)
	return true, nil
}

// HasEdge reports whether the source→target edge exists.
func (s *Store) HasEdge(source, target string) bool {
	_, ok := s.edges[EdgeKey(source, target)]
	return ok
}

// Edge returns a copy of the source→target edge.
func (s *Store) Edge(source, target string) (Edge, error) {
	e, ok := s.edges[EdgeKey(source, target)]
	if !ok {
		return Edge{}, edgeNotFound("Edge", EdgeKey(source, target))
	}
	return *e, nil
}

// Edges returns copies of all edges in insertion order.
func (s *Store) Edges() []Edge {
	out := make([]Edge, 0, len(s.edgeOrder))
	for _, key := range s.edgeOrder {
		out = append(out, *s.edges[key])
	}
	return out
}

// UpdateEdge patches the attributes of an existing edge. Endpoints cannot
// be changed.
func (s *Store) UpdateEdge(source, target string, fn func(e *Edge)) error {
	e, ok := s.edges[EdgeKey(source, target)]
	if !ok {
		return edgeNotFound("UpdateEdge", EdgeKey(source, target))
	}
	fn(e)
	e.Source, e.Target = source, target
	return nil
}

// IncidentEdges returns copies of every edge touching id.
func (s *Store) IncidentEdges(id string) []Edge {
	var out []Edge
	for _, child := range s.outgoing[id] {
		out = append(out, *s.edges[EdgeKey(id, child)])
	}
	for _, parent := range s.incoming[id] {
		out = append(out, *s.edges[EdgeKey(parent, id)])
	}
	return out
}

// OutNeighbors returns the children of id.
func (s *Store) OutNeighbors(id string) []string {
	return slices.Clone(s.outgoing[id])
}

// InNeighbors returns the parents of id.
func (s *Store) InNeighbors(id string) []string {
	return slices.Clone(s.incoming[id])
}

// ParentCount returns the number of incoming edges of id.
func (s *Store) ParentCount(id string) int {
	return len(s.incoming[id])
}

// Neighbors returns parents and children of id without duplicates.
func (s *Store) Neighbors(id string) []string {
	out := slices.Clone(s.incoming[id])
	for _, c := range s.outgoing[id] {
		if !slices.Contains(out, c) {
			out = append(out, c)
		}
	}
	return out
}

// DropEdge removes the source→target edge and its adjacency entries.
func (s *Store) DropEdge(source, target string) error {
	key := EdgeKey(source, target)
	if _, ok := s.edges[key]; !ok {
		return edgeNotFound("DropEdge", key)
	}
	delete(s.edges, key)
	s.edgeOrder = removeFromList(s.edgeOrder, key)
	s.outgoing[source] = removeFromList(s.outgoing[source], target)
	s.incoming[target] = removeFromList(s.incoming[target], source)
	return nil
}

// DropNode removes a node and every edge touching it.
func (s *Store) DropNode(id string) error {
	if !s.Has(id) {
		return nodeNotFound("DropNode", id)
	}
	for _, child := range s.OutNeighbors(id) {
		_ = s.DropEdge(id, child)
	}
	for _, parent := range s.InNeighbors(id) {
		_ = s.DropEdge(parent, id)
	}
	delete(s.nodes, id)
	delete(s.outgoing, id)
	delete(s.incoming, id)
	s.order = removeFromList(s.order, id)
	return nil
}

func removeFromList(list []string, v string) []string {
	if i := slices.Index(list, v); i >= 0 {
		return slices.Delete(list, i, i+1)
	}
	return list
}
