package semantic

import (
	"testing"

	"repolens/internal/callgraph"
	"repolens/internal/graph"
)

func knownSet(paths ...string) map[string]struct{} {
	set := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		set[p] = struct{}{}
	}
	return set
}

func TestImportEdgesDedupedByTarget(t *testing.T) {
	known := knownSet("src/index.ts", "src/utils/helpers.ts")
	content := `
import { a } from './utils/helpers';
const again = require('./utils/helpers.ts');
`
	result := BuildFileLinks("src/index.ts", content, nil, known, nil)

	var importEdges []graph.Edge
	for _, e := range result.Edges {
		if e.Kind == graph.ImportEdge {
			importEdges = append(importEdges, e)
		}
	}
	if len(importEdges) != 1 {
		t.Fatalf("expected 1 deduped import edge, got %v", importEdges)
	}
	if importEdges[0].Target != "src/utils/helpers.ts" {
		t.Errorf("edge target = %q", importEdges[0].Target)
	}
}

func TestCallEdgesFromSymbols(t *testing.T) {
	trees := map[string][]graph.SymbolNode{
		"src/b.ts": {
			{ID: graph.SymbolID("src/b.ts", "helper"), Name: "helper", Kind: graph.FunctionSymbol},
		},
	}
	index := callgraph.BuildSymbolIndex(trees)

	symbolTree := []graph.SymbolNode{
		{
			ID:      graph.SymbolID("src/a.ts", "run"),
			Name:    "run",
			Kind:    graph.FunctionSymbol,
			Snippet: "function run() { return helper(); }",
		},
		{
			ID:   graph.SymbolID("src/a.ts", "idle"),
			Name: "idle",
			Kind: graph.FunctionSymbol,
			// No snippet: contributes nothing and is not touched.
		},
	}

	result := BuildFileLinks("src/a.ts", "irrelevant", symbolTree, knownSet("src/a.ts", "src/b.ts"), index)

	wantEdge := graph.Edge{
		Source: graph.SymbolID("src/a.ts", "run"),
		Target: graph.SymbolID("src/b.ts", "helper"),
		Kind:   graph.CallEdge,
	}
	found := false
	for _, e := range result.Edges {
		if e == wantEdge {
			found = true
		}
	}
	if !found {
		t.Errorf("expected call edge %v in %v", wantEdge, result.Edges)
	}

	// Touched ids: the file plus only the contributing symbol.
	wantTouched := map[string]bool{"src/a.ts": false, "src/a.ts#run": false}
	for _, id := range result.TouchedSourceIDs {
		if _, ok := wantTouched[id]; !ok {
			t.Errorf("unexpected touched id %q", id)
		} else {
			wantTouched[id] = true
		}
	}
	for id, seen := range wantTouched {
		if !seen {
			t.Errorf("missing touched id %q", id)
		}
	}
}

func TestCallEdgesFromWholeFileWithoutSymbols(t *testing.T) {
	trees := map[string][]graph.SymbolNode{
		"src/b.ts": {
			{ID: graph.SymbolID("src/b.ts", "helper"), Name: "helper", Kind: graph.FunctionSymbol},
		},
	}
	index := callgraph.BuildSymbolIndex(trees)

	result := BuildFileLinks("src/a.ts", "helper();", nil, knownSet("src/a.ts", "src/b.ts"), index)

	if len(result.Edges) != 1 {
		t.Fatalf("expected 1 edge, got %v", result.Edges)
	}
	if result.Edges[0].Source != "src/a.ts" {
		t.Errorf("edge should originate from the bare file id, got %q", result.Edges[0].Source)
	}
	if len(result.TouchedSourceIDs) != 1 || result.TouchedSourceIDs[0] != "src/a.ts" {
		t.Errorf("touched = %v, want only the file id", result.TouchedSourceIDs)
	}
}

func TestNoSelfLoops(t *testing.T) {
	trees := map[string][]graph.SymbolNode{
		"src/a.ts": {
			{ID: graph.SymbolID("src/a.ts", "recurse"), Name: "recurse", Kind: graph.FunctionSymbol},
		},
	}
	index := callgraph.BuildSymbolIndex(trees)

	symbolTree := []graph.SymbolNode{
		{
			ID:      graph.SymbolID("src/a.ts", "recurse"),
			Name:    "recurse",
			Kind:    graph.FunctionSymbol,
			Snippet: "function recurse(n) { return recurse(n - 1); }",
		},
	}

	result := BuildFileLinks("src/a.ts", "", symbolTree, knownSet("src/a.ts"), index)
	for _, e := range result.Edges {
		if e.Source == e.Target {
			t.Errorf("self-loop edge produced: %v", e)
		}
	}
}

func TestIncrementalReplaceInvariant(t *testing.T) {
	// End-to-end check of the before/after edge-set diff when one file is
	// re-analyzed: edges contributed by other files stay untouched.
	known := knownSet("a.ts", "b.ts", "c.ts")
	set := graph.NewEdgeSet()

	ra := BuildFileLinks("a.ts", "import x from './b';", nil, known, nil)
	set.ReplaceBySources(ra.TouchedSourceIDs, ra.Edges)

	rc := BuildFileLinks("c.ts", "import y from './b';", nil, known, nil)
	set.ReplaceBySources(rc.TouchedSourceIDs, rc.Edges)

	before := map[string]struct{}{}
	for _, e := range set.Edges() {
		before[e.ID()] = struct{}{}
	}

	// Re-analyze a.ts with different content.
	ra2 := BuildFileLinks("a.ts", "import z from './c';", nil, known, nil)
	set.ReplaceBySources(ra2.TouchedSourceIDs, ra2.Edges)

	after := set.Edges()
	var cEdges int
	for _, e := range after {
		if e.Source == "c.ts" {
			cEdges++
			if _, ok := before[e.ID()]; !ok {
				t.Errorf("c.ts edge changed identity: %v", e)
			}
		}
		if e.Source == "a.ts" && e.Target == "b.ts" {
			t.Error("stale a.ts edge survived re-analysis")
		}
	}
	if cEdges != 1 {
		t.Errorf("expected c.ts edge untouched, got %d", cEdges)
	}
}
