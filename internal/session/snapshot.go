// Package session serializes and restores the full exploration state and
// matches reloaded projects to saved sessions via content signatures.
package session

import (
	"repolens/internal/graph"
)

// SchemaVersion is the current snapshot schema. Restoring a snapshot with
// any other version is an explicit error, never a silent partial restore.
const SchemaVersion = 2

// ViewMode selects which edge overlay a client renders
type ViewMode string

const (
	// StructuralView shows only the file tree
	StructuralView ViewMode = "structural"
	// SemanticView overlays import/call edges
	SemanticView ViewMode = "semantic"
)

// PromptItem is an arbitrary user note or prompt attached to the session
type PromptItem struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Text string `json:"text"`
}

// Layout caches client-side node positions, keyed by a graph-shape hash so
// a changed graph invalidates the cached positions.
type Layout struct {
	ShapeHash string                `json:"shapeHash"`
	Positions map[string][2]float64 `json:"positions"`
}

// Snapshot captures the entire exploration state: the structural tree with
// any attached symbol trees and expanded subtrees, the semantic edges
// flattened to plain ids, and the view state around them.
type Snapshot struct {
	SchemaVersion    int               `json:"schemaVersion"`
	SourceIdentifier string            `json:"sourceIdentifier"`
	Tree             []*graph.TreeNode `json:"tree"`
	HighlightedPaths []string          `json:"highlightedPaths,omitempty"`
	ExpandedDirs     []string          `json:"expandedDirectories,omitempty"`
	Edges            []graph.Edge      `json:"edges,omitempty"`
	ViewMode         ViewMode          `json:"viewMode"`
	Selection        string            `json:"selection,omitempty"`
	PromptItems      []PromptItem      `json:"promptItems,omitempty"`
	Layout           *Layout           `json:"layout,omitempty"`
}
