// Package analysis defines the code analysis collaborator contract and its
// implementations: an OpenAI-backed analyzer, a tree-sitter local fallback,
// and a caching decorator over either.
package analysis

import (
	"context"

	"repolens/internal/graph"
)

// Service analyzes file content into a symbol tree and answers relevance
// queries over a path set. Implementations must return explicit errors;
// a failed analysis is never masked as an empty successful result.
type Service interface {
	// Analyze extracts the symbol tree of one file
	Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error)

	// FindRelevant selects the paths most relevant to a freeform query
	FindRelevant(ctx context.Context, query string, paths []string) ([]string, error)
}

// AssignSymbolIDs fills deterministic ids ("path#name") into a symbol tree
// in place, recursing through nested children. Providers return name/kind
// structure; id assignment is the caller's responsibility so ids are stable
// regardless of provider.
func AssignSymbolIDs(filePath string, nodes []graph.SymbolNode) {
	for i := range nodes {
		nodes[i].ID = graph.SymbolID(filePath, nodes[i].Name)
		if len(nodes[i].Children) > 0 {
			AssignSymbolIDs(filePath, nodes[i].Children)
		}
	}
}
