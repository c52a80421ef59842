// Package flowpath answers shortest-path queries over the exploration graph.
// Edges are traversed undirected: a flow path answers "how are these two
// nodes connected", not directed call order.
package flowpath

import (
	"repolens/internal/graph"
)

// Path is a flow path between two node ids. A query between a node and
// itself yields the distinguished trivial path with empty (non-nil) slices.
type Path struct {
	NodeIDs []string `json:"nodeIds"`
	LinkIDs []string `json:"linkIds"`
}

type adjEntry struct {
	neighbor string
	linkID   string
}

type parentLink struct {
	node   string
	linkID string
}

// BuildFlowPath runs an unweighted BFS from sourceID to targetID over the
// given edges and reconstructs the hop-minimal path. Returns nil when either
// id is unknown or the nodes are disconnected.
//
// Neighbors are visited in edge-registration order, so for a fixed edge list
// the result is deterministic; among equal-length paths no other preference
// is implied.
func BuildFlowPath(sourceID, targetID string, edges []graph.Edge, knownIDs map[string]struct{}) *Path {
	if _, ok := knownIDs[sourceID]; !ok {
		return nil
	}
	if _, ok := knownIDs[targetID]; !ok {
		return nil
	}
	if sourceID == targetID {
		return &Path{NodeIDs: []string{}, LinkIDs: []string{}}
	}

	// Undirected adjacency; the link id is computed once from the original
	// directed edge regardless of traversal direction.
	adj := make(map[string][]adjEntry)
	for _, e := range edges {
		id := e.ID()
		adj[e.Source] = append(adj[e.Source], adjEntry{neighbor: e.Target, linkID: id})
		adj[e.Target] = append(adj[e.Target], adjEntry{neighbor: e.Source, linkID: id})
	}

	parents := map[string]parentLink{sourceID: {}}
	queue := []string{sourceID}

	for len(queue) > 0 {
		current := queue[0]
		queue = queue[1:]

		for _, entry := range adj[current] {
			if _, visited := parents[entry.neighbor]; visited {
				continue
			}
			parents[entry.neighbor] = parentLink{node: current, linkID: entry.linkID}
			if entry.neighbor == targetID {
				return reconstruct(sourceID, targetID, parents)
			}
			queue = append(queue, entry.neighbor)
		}
	}

	return nil
}

// reconstruct walks parent pointers from target back to source and reverses
// the chains into forward order.
func reconstruct(sourceID, targetID string, parents map[string]parentLink) *Path {
	var nodes []string
	var links []string

	for at := targetID; at != sourceID; {
		p := parents[at]
		nodes = append(nodes, at)
		links = append(links, p.linkID)
		at = p.node
	}
	nodes = append(nodes, sourceID)

	reverse(nodes)
	reverse(links)
	return &Path{NodeIDs: nodes, LinkIDs: links}
}

func reverse(s []string) {
	for i, j := 0, len(s)-1; i < j; i, j = i+1, j-1 {
		s[i], s[j] = s[j], s[i]
	}
}
