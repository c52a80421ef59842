package graph

// EdgeSet is the owned store for semantic edges. All mutation goes through
// ReplaceBySources, keyed by the touched-source-id set of one file analysis,
// so concurrent per-file refreshes commute: each completion only ever
// replaces edges whose source it owns.
type EdgeSet struct {
	edges []Edge
}

// NewEdgeSet creates an empty edge set
func NewEdgeSet() *EdgeSet {
	return &EdgeSet{}
}

// Edges returns a copy of the current edge list in registration order
func (s *EdgeSet) Edges() []Edge {
	out := make([]Edge, len(s.edges))
	copy(out, s.edges)
	return out
}

// Len returns the number of edges
func (s *EdgeSet) Len() int {
	return len(s.edges)
}

// ReplaceBySources drops every edge whose source is in touched, then appends
// the replacement edges. Edges contributed by other sources are untouched.
// Duplicate edge identities within the replacement batch are collapsed.
func (s *EdgeSet) ReplaceBySources(touched []string, edges []Edge) {
	if len(touched) == 0 && len(edges) == 0 {
		return
	}

	touchedSet := make(map[string]struct{}, len(touched))
	for _, id := range touched {
		touchedSet[id] = struct{}{}
	}

	kept := s.edges[:0]
	for _, e := range s.edges {
		if _, ok := touchedSet[e.Source]; !ok {
			kept = append(kept, e)
		}
	}

	seen := make(map[string]struct{}, len(edges))
	for _, e := range edges {
		id := e.ID()
		if _, dup := seen[id]; dup {
			continue
		}
		seen[id] = struct{}{}
		kept = append(kept, e)
	}

	s.edges = kept
}

// Reset replaces the whole edge list, used by session restore
func (s *EdgeSet) Reset(edges []Edge) {
	s.edges = make([]Edge, len(edges))
	copy(s.edges, edges)
}
