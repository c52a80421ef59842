package callgraph

import (
	"reflect"
	"sort"
	"testing"

	"repolens/internal/graph"
)

func TestExtractCallIdentifiers(t *testing.T) {
	content := `
function main() {
  const data = loadData();
  if (data) {
    processItems(data);
    logger.write(data);
    setTimeout(() => retry(), 100);
  }
  return formatOutput(data);
}
`
	got := ExtractCallIdentifiers(content)

	for _, want := range []string{"loadData", "processItems", "retry", "formatOutput"} {
		found := false
		for _, id := range got {
			if id == want {
				found = true
			}
		}
		if !found {
			t.Errorf("expected identifier %q in %v", want, got)
		}
	}

	// The declaration name "main" is extracted too: a known false positive
	// of the lexical scan, accepted by design.
	for _, banned := range []string{"if", "function", "setTimeout", "write"} {
		for _, id := range got {
			if id == banned {
				t.Errorf("identifier %q should have been excluded", banned)
			}
		}
	}
}

func TestExtractMemberAccessExcluded(t *testing.T) {
	got := ExtractCallIdentifiers(`obj.method(); plain(); a.b.deep();`)

	sort.Strings(got)
	if !reflect.DeepEqual(got, []string{"plain"}) {
		t.Errorf("got %v, want only [plain]", got)
	}
}

func TestExtractWhitespaceBeforeParen(t *testing.T) {
	got := ExtractCallIdentifiers("compute ()")
	if len(got) != 1 || got[0] != "compute" {
		t.Errorf("got %v, want [compute]", got)
	}
}

func testSymbolTrees() map[string][]graph.SymbolNode {
	return map[string][]graph.SymbolNode{
		"src/a.ts": {
			{
				ID:   graph.SymbolID("src/a.ts", "Widget"),
				Name: "Widget",
				Kind: graph.ClassSymbol,
				Children: []graph.SymbolNode{
					{ID: graph.SymbolID("src/a.ts", "render"), Name: "render", Kind: graph.FunctionSymbol},
				},
			},
		},
		"src/b.ts": {
			{ID: graph.SymbolID("src/b.ts", "render"), Name: "render", Kind: graph.FunctionSymbol},
		},
	}
}

func TestBuildSymbolIndexIncludesNested(t *testing.T) {
	index := BuildSymbolIndex(testSymbolTrees())

	if len(index["Widget"]) != 1 {
		t.Errorf("expected Widget indexed once, got %v", index["Widget"])
	}
	if len(index["render"]) != 2 {
		t.Errorf("expected render indexed for both files, got %v", index["render"])
	}
}

func TestResolveCallTargets(t *testing.T) {
	index := BuildSymbolIndex(testSymbolTrees())

	t.Run("exact name only", func(t *testing.T) {
		if got := ResolveCallTargets("rend", "", index); got != nil {
			t.Errorf("partial name must not resolve, got %v", got)
		}
	})

	t.Run("excludes self", func(t *testing.T) {
		self := graph.SymbolID("src/a.ts", "render")
		got := ResolveCallTargets("render", self, index)
		if len(got) != 1 || got[0] != graph.SymbolID("src/b.ts", "render") {
			t.Errorf("got %v, want only the other file's render", got)
		}
	})

	t.Run("unknown name", func(t *testing.T) {
		if got := ResolveCallTargets("missing", "", index); got != nil {
			t.Errorf("got %v, want nil", got)
		}
	})
}
