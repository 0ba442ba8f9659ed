package graph

// RemoveSubtree collapses rootID: every edge from rootID to a child is
// dropped, and a child is deleted (together with its own subtree) once no
// parent references it any more. Children still referenced by another
// parent survive with their descendants. rootID itself stays in the store.
//
// The walk is depth-first post-order; a dropped set guards against
// revisiting nodes in diamond or cyclic configurations. The ids of the
// deleted nodes are returned in deletion order.
func (s *Store) RemoveSubtree(rootID string) ([]string, error) {
	if !s.Has(rootID) {
		return nil, nodeNotFound("RemoveSubtree", rootID)
	}
	dropped := map[string]bool{rootID: true}
	var removed []string
	s.removeChildren(rootID, dropped, &removed)
	return removed, nil
}

func (s *Store) removeChildren(parent string, dropped map[string]bool, removed *[]string) {
	for _, child := range s.OutNeighbors(parent) {
		_ = s.DropEdge(parent, child)
		if dropped[child] || s.ParentCount(child) > 0 {
			continue
		}
		dropped[child] = true
		s.removeChildren(child, dropped, removed)
		_ = s.DropNode(child)
		*removed = append(*removed, child)
	}
}
