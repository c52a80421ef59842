package explorer

import (
	"sort"
	"strings"

	"repolens/internal/cache"
	"repolens/internal/errors"
	"repolens/internal/graph"
	"repolens/internal/session"
)

// shapeHash fingerprints the current graph shape. Cached layout positions are
// only valid while the shape is unchanged. Writer goroutine only.
func (e *Explorer) shapeHash() string {
	ids := make([]string, 0, e.edges.Len())
	for _, edge := range e.edges.Edges() {
		ids = append(ids, edge.ID())
	}
	sort.Strings(ids)
	return cache.FastHash(strings.Join(ids, "|"))
}

// SetLayout stores client-computed node positions, stamped with the current
// shape hash
func (e *Explorer) SetLayout(positions map[string][2]float64) {
	e.do(func() {
		e.layout = &session.Layout{
			ShapeHash: e.shapeHash(),
			Positions: positions,
		}
	})
}

// Layout returns the stored layout if it still matches the graph shape
func (e *Explorer) Layout() *session.Layout {
	var layout *session.Layout
	e.do(func() {
		if e.layout != nil && e.layout.ShapeHash == e.shapeHash() {
			layout = e.layout
		}
	})
	return layout
}

// Snapshot captures the full exploration state for persistence
func (e *Explorer) Snapshot() *session.Snapshot {
	var snap *session.Snapshot
	e.do(func() {
		expanded := make([]string, 0, len(e.expanded))
		for p := range e.expanded {
			expanded = append(expanded, p)
		}
		sort.Strings(expanded)

		identifier := ""
		if e.source != nil {
			identifier = e.source.Identifier()
		}

		snap = &session.Snapshot{
			SchemaVersion:    session.SchemaVersion,
			SourceIdentifier: identifier,
			Tree:             e.roots,
			HighlightedPaths: append([]string(nil), e.highlighted...),
			ExpandedDirs:     expanded,
			Edges:            e.edges.Edges(),
			ViewMode:         e.viewMode,
			Selection:        e.selection,
			PromptItems:      append([]session.PromptItem(nil), e.promptItems...),
			Layout:           e.layout,
		}
	})
	return snap
}

// SaveSession snapshots the current state and persists it. An empty sessionID
// allocates a new one. The project signature is recorded so the next load of
// the same project can offer this session for auto-restore.
func (e *Explorer) SaveSession(sessionID string) (string, error) {
	if e.sessions == nil {
		return "", errors.New(errors.Internal, "no session store configured")
	}

	snap := e.Snapshot()
	id, err := e.sessions.Save(snap, sessionID)
	if err != nil {
		return "", err
	}

	var sig string
	e.do(func() { sig = e.signature })
	if sig != "" {
		e.sessions.RecordSignature(sig, id)
	}
	return id, nil
}

// OpenSession loads a stored session and replaces the entire exploration
// state with it
func (e *Explorer) OpenSession(sessionID string) error {
	if e.sessions == nil {
		return errors.New(errors.Internal, "no session store configured")
	}

	snap, err := e.sessions.Open(sessionID)
	if err != nil {
		return err
	}

	e.Restore(snap)
	return nil
}

// Restore replaces the entire exploration state with a snapshot. There is no
// partial restore; the tree, edges and view state all come from the snapshot.
func (e *Explorer) Restore(snap *session.Snapshot) {
	e.do(func() { e.applySnapshot(snap) })
}

// applySnapshot replaces all exploration state with a snapshot's contents.
// Writer goroutine only. Expansion states are derived from the expanded
// directory set; they are not serialized.
func (e *Explorer) applySnapshot(snap *session.Snapshot) {
	e.resetState()

	e.roots = snap.Tree
	e.edges.Reset(snap.Edges)
	e.highlighted = append([]string(nil), snap.HighlightedPaths...)
	e.viewMode = snap.ViewMode
	e.selection = snap.Selection
	e.promptItems = append([]session.PromptItem(nil), snap.PromptItems...)

	// A layout saved against a different graph shape is useless; drop it.
	e.layout = snap.Layout
	if e.layout != nil && e.layout.ShapeHash != e.shapeHash() {
		e.layout = nil
	}

	for _, dir := range snap.ExpandedDirs {
		e.expanded[dir] = struct{}{}
	}

	var walk func(nodes []*graph.TreeNode)
	walk = func(nodes []*graph.TreeNode) {
		for _, n := range nodes {
			e.nodesByPath[n.Path] = n
			if len(n.SymbolTree) > 0 {
				e.symbolTrees[n.Path] = n.SymbolTree
			}
			if _, ok := e.expanded[n.Path]; ok {
				n.State = graph.Expanded
			}
			walk(n.Children)
		}
	}
	walk(e.roots)
}
