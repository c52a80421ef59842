// Package graph defines the shared node and edge model for the exploration
// graph, plus the edge store every semantic update flows through.
package graph

// NodeKind classifies a tree node
type NodeKind string

const (
	// FileNode is a leaf file entry
	FileNode NodeKind = "file"
	// DirectoryNode is a directory entry
	DirectoryNode NodeKind = "directory"
)

// SymbolKind classifies a symbol extracted from a file
type SymbolKind string

const (
	// FunctionSymbol is a free function or method
	FunctionSymbol SymbolKind = "function"
	// ClassSymbol is a class or type declaration
	ClassSymbol SymbolKind = "class"
	// VariableSymbol is a module-level variable or constant
	VariableSymbol SymbolKind = "variable"
	// EndpointSymbol is an HTTP route or RPC handler
	EndpointSymbol SymbolKind = "endpoint"
)

// SymbolNode is one entry of a file's symbol tree. The id is deterministic:
// "<filePath>#<name>".
type SymbolNode struct {
	ID          string       `json:"id"`
	Name        string       `json:"name"`
	Kind        SymbolKind   `json:"kind"`
	Description string       `json:"description,omitempty"`
	Snippet     string       `json:"snippet,omitempty"`
	Children    []SymbolNode `json:"children,omitempty"`
}

// SymbolID builds the deterministic id for a symbol in a file
func SymbolID(filePath, name string) string {
	return filePath + "#" + name
}

// ExpandState is the lifecycle of a directory node's children
type ExpandState int

const (
	// Unexpanded means children have not been materialized
	Unexpanded ExpandState = iota
	// Expanding means a child materialization is in flight
	Expanding
	// Expanded means children are materialized
	Expanded
)

// TreeNode is one node of the exploration tree. Owned by the explorer;
// Children stays nil until the node is expanded.
type TreeNode struct {
	ID              string       `json:"id"`
	Name            string       `json:"name"`
	Kind            NodeKind     `json:"kind"`
	Path            string       `json:"path"`
	Children        []*TreeNode  `json:"children,omitempty"`
	HasChildren     bool         `json:"hasChildren"`
	DescendantCount int          `json:"descendantCount"`
	SymbolTree      []SymbolNode `json:"symbolTree,omitempty"`

	// State tracks lazy expansion; not serialized, the snapshot derives it
	// from the expanded-directory set instead.
	State ExpandState `json:"-"`
}

// EdgeKind classifies a semantic edge
type EdgeKind string

const (
	// ImportEdge links a file to a file it imports
	ImportEdge EdgeKind = "import"
	// CallEdge links a caller (file or symbol) to a called symbol or file
	CallEdge EdgeKind = "call"
)

// Edge is a directed semantic relationship between two node ids
type Edge struct {
	Source string   `json:"source"`
	Target string   `json:"target"`
	Kind   EdgeKind `json:"kind"`
}

// ID returns the stable edge identity used by the UI and by path results.
// It is computed from the original directed edge regardless of the direction
// a path query traversed it in.
func (e Edge) ID() string {
	return string(e.Kind) + ":" + e.Source + "-->" + e.Target
}
