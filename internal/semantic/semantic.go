// Package semantic composes import resolution and call extraction for one
// file into typed graph edges, scoped by the touched-source-id set that makes
// per-file re-analysis safe to merge concurrently.
package semantic

import (
	"repolens/internal/callgraph"
	"repolens/internal/graph"
	"repolens/internal/resolve"
)

// LinkResult is the outcome of linking one file. TouchedSourceIDs is the file
// id plus every symbol id that contributed edges; callers must replace only
// edges whose source is in this set when merging into the shared graph.
type LinkResult struct {
	Edges            []graph.Edge
	TouchedSourceIDs []string
}

// BuildFileLinks derives import and call edges for a single file.
//
// Import specifiers are resolved against the known path set and deduplicated
// by resolved target. When a symbol tree is present, call edges originate
// from the owning symbol id and are attributed per snippet; without one, the
// whole file content is scanned and edges originate from the bare file id.
func BuildFileLinks(sourcePath, content string, symbolTree []graph.SymbolNode, knownPaths map[string]struct{}, symbolIndex callgraph.SymbolIndex) LinkResult {
	result := LinkResult{
		TouchedSourceIDs: []string{sourcePath},
	}

	// Import edges, deduplicated by resolved target rather than raw
	// specifier text: './a' and './a.ts' are one edge.
	importTargets := make(map[string]struct{})
	for _, spec := range resolve.ExtractImportSpecifiers(content) {
		target, ok := resolve.ResolveImportTarget(sourcePath, spec, knownPaths)
		if !ok || target == sourcePath {
			continue
		}
		if _, dup := importTargets[target]; dup {
			continue
		}
		importTargets[target] = struct{}{}
		result.Edges = append(result.Edges, graph.Edge{
			Source: sourcePath,
			Target: target,
			Kind:   graph.ImportEdge,
		})
	}

	if len(symbolTree) > 0 {
		for _, sym := range flatten(symbolTree) {
			if sym.Snippet == "" {
				continue
			}
			callerID := sym.ID
			if callerID == "" {
				callerID = graph.SymbolID(sourcePath, sym.Name)
			}
			edges := callEdges(callerID, sym.Snippet, symbolIndex)
			if len(edges) > 0 {
				result.Edges = append(result.Edges, edges...)
				result.TouchedSourceIDs = append(result.TouchedSourceIDs, callerID)
			}
		}
		return result
	}

	// No symbol structure yet: attribute calls to the file itself.
	result.Edges = append(result.Edges, callEdges(sourcePath, content, symbolIndex)...)
	return result
}

// callEdges extracts call identifiers from text and resolves each to every
// known target, deduplicated per target, excluding self-loops.
func callEdges(callerID, text string, index callgraph.SymbolIndex) []graph.Edge {
	var edges []graph.Edge
	seen := make(map[string]struct{})

	for _, name := range callgraph.ExtractCallIdentifiers(text) {
		for _, target := range callgraph.ResolveCallTargets(name, callerID, index) {
			if _, dup := seen[target]; dup {
				continue
			}
			seen[target] = struct{}{}
			edges = append(edges, graph.Edge{
				Source: callerID,
				Target: target,
				Kind:   graph.CallEdge,
			})
		}
	}
	return edges
}

// flatten walks a symbol tree depth-first including nested children
func flatten(tree []graph.SymbolNode) []graph.SymbolNode {
	var out []graph.SymbolNode
	var walk func(nodes []graph.SymbolNode)
	walk = func(nodes []graph.SymbolNode) {
		for _, n := range nodes {
			out = append(out, n)
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}
	walk(tree)
	return out
}
