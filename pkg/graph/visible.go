package graph

// VisibleSet accumulates the node ids the backend declared visible.
// Fetches only add members; the set is emptied by Reset on a full
// re-initialization.
type VisibleSet struct {
	ids map[string]struct{}
}

// NewVisibleSet returns an empty set.
func NewVisibleSet() *VisibleSet {
	return &VisibleSet{ids: make(map[string]struct{})}
}

// Add merges ids into the set.
func (v *VisibleSet) Add(ids ...string) {
	for _, id := range ids {
		v.ids[id] = struct{}{}
	}
}

// Contains reports membership.
func (v *VisibleSet) Contains(id string) bool {
	_, ok := v.ids[id]
	return ok
}

// Len returns the number of members.
func (v *VisibleSet) Len() int {
	return len(v.ids)
}

// Reset empties the set.
func (v *VisibleSet) Reset() {
	v.ids = make(map[string]struct{})
}
