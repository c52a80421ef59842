package graph

import (
	"testing"
)

func edgeIDs(edges []Edge) []string {
	ids := make([]string, len(edges))
	for i, e := range edges {
		ids[i] = e.ID()
	}
	return ids
}

func TestEdgeID(t *testing.T) {
	e := Edge{Source: "src/a.ts", Target: "src/b.ts", Kind: ImportEdge}
	want := "import:src/a.ts-->src/b.ts"
	if e.ID() != want {
		t.Errorf("ID() = %q, want %q", e.ID(), want)
	}
}

func TestReplaceBySourcesScoped(t *testing.T) {
	s := NewEdgeSet()
	s.ReplaceBySources([]string{"a.ts"}, []Edge{
		{Source: "a.ts", Target: "b.ts", Kind: ImportEdge},
		{Source: "a.ts#run", Target: "b.ts#helper", Kind: CallEdge},
	})
	s.ReplaceBySources([]string{"c.ts"}, []Edge{
		{Source: "c.ts", Target: "b.ts", Kind: ImportEdge},
	})

	if s.Len() != 3 {
		t.Fatalf("expected 3 edges, got %d", s.Len())
	}

	// Re-analysis of a.ts replaces only a.ts-sourced edges; the symbol id
	// a.ts#run is part of the touched set for that file.
	s.ReplaceBySources([]string{"a.ts", "a.ts#run"}, []Edge{
		{Source: "a.ts", Target: "d.ts", Kind: ImportEdge},
	})

	got := edgeIDs(s.Edges())
	want := []string{"import:c.ts-->b.ts", "import:a.ts-->d.ts"}
	if len(got) != len(want) {
		t.Fatalf("edges = %v, want %v", got, want)
	}
	for i := range want {
		if got[i] != want[i] {
			t.Errorf("edge[%d] = %q, want %q", i, got[i], want[i])
		}
	}
}

func TestReplaceBySourcesDeduplicates(t *testing.T) {
	s := NewEdgeSet()
	e := Edge{Source: "a.ts", Target: "b.ts", Kind: ImportEdge}
	s.ReplaceBySources([]string{"a.ts"}, []Edge{e, e, e})

	if s.Len() != 1 {
		t.Errorf("expected duplicates collapsed, got %d edges", s.Len())
	}
}

func TestResetReplacesEverything(t *testing.T) {
	s := NewEdgeSet()
	s.ReplaceBySources([]string{"a.ts"}, []Edge{{Source: "a.ts", Target: "b.ts", Kind: ImportEdge}})

	restored := []Edge{{Source: "x.ts", Target: "y.ts", Kind: CallEdge}}
	s.Reset(restored)

	got := s.Edges()
	if len(got) != 1 || got[0].Source != "x.ts" {
		t.Errorf("Reset did not replace edge list: %v", got)
	}
}
