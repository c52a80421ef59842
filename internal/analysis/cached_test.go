package analysis

import (
	"context"
	"testing"
	"time"

	"repolens/internal/cache"
	"repolens/internal/graph"
	"repolens/internal/logging"
)

type countingService struct {
	analyzeCalls  int
	relevantCalls int
	symbols       []graph.SymbolNode
	relevant      []string
}

func (f *countingService) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	f.analyzeCalls++
	out := make([]graph.SymbolNode, len(f.symbols))
	copy(out, f.symbols)
	AssignSymbolIDs(filename, out)
	return out, nil
}

func (f *countingService) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	f.relevantCalls++
	return f.relevant, nil
}

func testCached(t *testing.T, inner Service, repoHash string) *Cached {
	t.Helper()
	logger := logging.New(logging.Config{Level: logging.ErrorLevel})
	db, err := cache.Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("cache open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })

	return NewCached(inner, cache.New(db), logger, CachedOptions{
		AnalysisTTL:  time.Hour,
		RelevanceTTL: time.Hour,
		RepoHash:     repoHash,
	})
}

func TestCachedAnalyzeHitsByContent(t *testing.T) {
	inner := &countingService{symbols: []graph.SymbolNode{{Name: "run", Kind: graph.FunctionSymbol}}}
	c := testCached(t, inner, cache.Hash("set-a"))
	ctx := context.Background()

	first, err := c.Analyze(ctx, "function run() {}", "src/a.ts")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	second, err := c.Analyze(ctx, "function run() {}", "src/a.ts")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}

	if inner.analyzeCalls != 1 {
		t.Errorf("expected 1 upstream call, got %d", inner.analyzeCalls)
	}
	if len(first) != 1 || len(second) != 1 || second[0].ID != "src/a.ts#run" {
		t.Errorf("cached result mismatch: %v vs %v", first, second)
	}

	// Different content misses.
	if _, err := c.Analyze(ctx, "function other() {}", "src/a.ts"); err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if inner.analyzeCalls != 2 {
		t.Errorf("expected miss for new content, got %d calls", inner.analyzeCalls)
	}
}

func TestCachedAnalyzeReassignsIDsForNewPath(t *testing.T) {
	inner := &countingService{symbols: []graph.SymbolNode{{Name: "run", Kind: graph.FunctionSymbol}}}
	c := testCached(t, inner, cache.Hash("set-a"))
	ctx := context.Background()

	if _, err := c.Analyze(ctx, "function run() {}", "src/a.ts"); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	// Same content under another path: cache hit, but ids follow the path.
	moved, err := c.Analyze(ctx, "function run() {}", "src/b.ts")
	if err != nil {
		t.Fatalf("analyze: %v", err)
	}
	if inner.analyzeCalls != 1 {
		t.Errorf("expected content-addressed hit, got %d calls", inner.analyzeCalls)
	}
	if moved[0].ID != "src/b.ts#run" {
		t.Errorf("id = %q, want src/b.ts#run", moved[0].ID)
	}
}

func TestCachedRelevanceIsolatedByRepoHash(t *testing.T) {
	logger := logging.New(logging.Config{Level: logging.ErrorLevel})
	db, err := cache.Open(t.TempDir(), logger)
	if err != nil {
		t.Fatalf("cache open: %v", err)
	}
	t.Cleanup(func() { _ = db.Close() })
	shared := cache.New(db)

	innerA := &countingService{relevant: []string{"src/auth.ts"}}
	innerB := &countingService{relevant: []string{"lib/auth.ts"}}

	cachedA := NewCached(innerA, shared, logger, CachedOptions{RelevanceTTL: time.Hour, RepoHash: cache.Hash("set-a")})
	cachedB := NewCached(innerB, shared, logger, CachedOptions{RelevanceTTL: time.Hour, RepoHash: cache.Hash("set-b")})

	ctx := context.Background()
	if _, err := cachedA.FindRelevant(ctx, "where is auth", nil); err != nil {
		t.Fatalf("relevance: %v", err)
	}

	// Same query text against a different file set must not reuse the entry.
	got, err := cachedB.FindRelevant(ctx, "where is auth", nil)
	if err != nil {
		t.Fatalf("relevance: %v", err)
	}
	if innerB.relevantCalls != 1 {
		t.Error("expected upstream call despite identical query text")
	}
	if len(got) != 1 || got[0] != "lib/auth.ts" {
		t.Errorf("got %v, want lib/auth.ts", got)
	}
}

func TestAssignSymbolIDsNested(t *testing.T) {
	tree := []graph.SymbolNode{
		{
			Name: "Widget",
			Kind: graph.ClassSymbol,
			Children: []graph.SymbolNode{
				{Name: "render", Kind: graph.FunctionSymbol},
			},
		},
	}
	AssignSymbolIDs("src/w.tsx", tree)

	if tree[0].ID != "src/w.tsx#Widget" {
		t.Errorf("root id = %q", tree[0].ID)
	}
	if tree[0].Children[0].ID != "src/w.tsx#render" {
		t.Errorf("child id = %q", tree[0].Children[0].ID)
	}
}

func TestStripFence(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"[1,2]", "[1,2]"},
		{"```json\n[1,2]\n```", "[1,2]"},
		{"```\n[1,2]\n```", "[1,2]"},
	}
	for _, tt := range tests {
		if got := stripFence(tt.in); got != tt.want {
			t.Errorf("stripFence(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}
