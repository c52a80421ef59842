package explorer

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"repolens/internal/errors"
	"repolens/internal/fetch"
	"repolens/internal/graph"
	"repolens/internal/logging"
	"repolens/internal/session"
)

// fakeAnalyzer returns canned symbol trees keyed by filename, with snippets
// that exercise the lexical call extractor.
type fakeAnalyzer struct {
	analyzeCalls int
}

func (f *fakeAnalyzer) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	f.analyzeCalls++
	switch filename {
	case "src/a.ts":
		return []graph.SymbolNode{
			{Name: "main", Kind: graph.FunctionSymbol, Snippet: "function main() { helper() }"},
		}, nil
	case "src/b.ts":
		return []graph.SymbolNode{
			{Name: "helper", Kind: graph.FunctionSymbol, Snippet: "function helper() {}"},
		}, nil
	}
	return nil, nil
}

func (f *fakeAnalyzer) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	var out []string
	for _, p := range paths {
		if strings.Contains(p, query) {
			out = append(out, p)
		}
	}
	return out, nil
}

func writeProject(t *testing.T) string {
	t.Helper()
	root := t.TempDir()
	files := map[string]string{
		"src/a.ts":  "import { helper } from './b'\n\nexport function main() {\n  helper()\n}\n",
		"src/b.ts":  "export function helper() {}\n",
		"readme.md": "# demo\n",
	}
	for path, content := range files {
		full := filepath.Join(root, filepath.FromSlash(path))
		if err := os.MkdirAll(filepath.Dir(full), 0755); err != nil {
			t.Fatal(err)
		}
		if err := os.WriteFile(full, []byte(content), 0644); err != nil {
			t.Fatal(err)
		}
	}
	return root
}

func newTestExplorer(t *testing.T, sessions SessionStore, tracker *session.RestoreTracker) *Explorer {
	t.Helper()
	e := New(Options{
		Analyzer: &fakeAnalyzer{},
		Sessions: sessions,
		Tracker:  tracker,
		Logger:   logging.New(logging.Config{Level: logging.ErrorLevel}),
	})
	t.Cleanup(e.Close)
	return e
}

func loadLocal(t *testing.T, e *Explorer, root string) {
	t.Helper()
	if err := e.Load(context.Background(), NewLocalSource(fetch.NewLocal(root))); err != nil {
		t.Fatalf("load: %v", err)
	}
}

func TestLoadAndExpand(t *testing.T) {
	e := newTestExplorer(t, nil, nil)
	loadLocal(t, e, writeProject(t))

	roots := e.Tree()
	if len(roots) != 2 {
		t.Fatalf("roots = %d, want 2", len(roots))
	}
	// Directories sort before files.
	if roots[0].Path != "src" || roots[0].Kind != graph.DirectoryNode {
		t.Errorf("first root = %+v", roots[0])
	}
	if roots[1].Path != "readme.md" {
		t.Errorf("second root = %+v", roots[1])
	}
	if roots[0].DescendantCount != 2 {
		t.Errorf("src descendants = %d, want 2", roots[0].DescendantCount)
	}

	children, err := e.Expand("src")
	if err != nil {
		t.Fatalf("expand: %v", err)
	}
	if len(children) != 2 || children[0].Path != "src/a.ts" || children[1].Path != "src/b.ts" {
		t.Fatalf("children = %+v", children)
	}

	again, err := e.Expand("src")
	if err != nil {
		t.Fatalf("re-expand: %v", err)
	}
	if len(again) != 2 || again[0] != children[0] {
		t.Error("re-expansion must return the existing children")
	}

	if _, err := e.Expand("readme.md"); !errors.Is(err, errors.PathNotIndexed) {
		t.Errorf("expanding a file: err = %v", err)
	}
	if _, err := e.Expand("nope"); !errors.Is(err, errors.PathNotIndexed) {
		t.Errorf("expanding unknown path: err = %v", err)
	}
}

func TestAnalyzeBuildsEdges(t *testing.T) {
	e := newTestExplorer(t, nil, nil)
	loadLocal(t, e, writeProject(t))

	if _, err := e.Expand("src"); err != nil {
		t.Fatal(err)
	}
	if err := e.AnalyzeSelected(context.Background(), []string{"src/a.ts", "src/b.ts"}); err != nil {
		t.Fatalf("analyze: %v", err)
	}

	edges := e.Edges()
	want := map[string]bool{
		"import:src/a.ts-->src/b.ts":           false,
		"call:src/a.ts#main-->src/b.ts#helper": false,
	}
	for _, edge := range edges {
		if _, ok := want[edge.ID()]; ok {
			want[edge.ID()] = true
		}
	}
	for id, found := range want {
		if !found {
			t.Errorf("missing edge %s in %v", id, edges)
		}
	}
	if len(edges) != 2 {
		t.Errorf("edges = %d, want 2: %v", len(edges), edges)
	}

	// Re-analysis replaces, never duplicates.
	if err := e.AnalyzeSelected(context.Background(), []string{"src/a.ts"}); err != nil {
		t.Fatalf("re-analyze: %v", err)
	}
	if got := len(e.Edges()); got != 2 {
		t.Errorf("edges after re-analysis = %d, want 2", got)
	}

	if got := e.Highlighted(); len(got) != 1 || got[0] != "src/a.ts" {
		t.Errorf("highlighted = %v", got)
	}

	if err := e.AnalyzeSelected(context.Background(), []string{"missing.ts"}); !errors.Is(err, errors.PathNotIndexed) {
		t.Errorf("analyzing unknown path: err = %v", err)
	}
}

func TestQuery(t *testing.T) {
	e := newTestExplorer(t, nil, nil)
	loadLocal(t, e, writeProject(t))
	if _, err := e.Expand("src"); err != nil {
		t.Fatal(err)
	}
	if err := e.AnalyzeSelected(context.Background(), []string{"src/a.ts", "src/b.ts"}); err != nil {
		t.Fatal(err)
	}

	path, err := e.Query("src/a.ts", "src/b.ts")
	if err != nil {
		t.Fatalf("query: %v", err)
	}
	if path == nil || len(path.LinkIDs) != 1 || path.LinkIDs[0] != "import:src/a.ts-->src/b.ts" {
		t.Errorf("path = %+v", path)
	}

	symPath, err := e.Query("src/a.ts#main", "src/b.ts#helper")
	if err != nil {
		t.Fatalf("symbol query: %v", err)
	}
	if symPath == nil || len(symPath.NodeIDs) != 2 {
		t.Errorf("symbol path = %+v", symPath)
	}

	// Known but disconnected nodes yield a nil path, not an error.
	disconnected, err := e.Query("readme.md", "src/a.ts")
	if err != nil {
		t.Fatalf("disconnected query: %v", err)
	}
	if disconnected != nil {
		t.Errorf("expected nil path, got %+v", disconnected)
	}

	if _, err := e.Query("ghost.ts", "src/a.ts"); !errors.Is(err, errors.NodeUnknown) {
		t.Errorf("unknown source: err = %v", err)
	}
	if _, err := e.Query("src/a.ts", "ghost.ts"); !errors.Is(err, errors.NodeUnknown) {
		t.Errorf("unknown target: err = %v", err)
	}
}

func TestFindRelevantHighlights(t *testing.T) {
	e := newTestExplorer(t, nil, nil)
	loadLocal(t, e, writeProject(t))

	relevant, err := e.FindRelevant(context.Background(), "a.ts")
	if err != nil {
		t.Fatalf("find relevant: %v", err)
	}
	if len(relevant) != 1 || relevant[0] != "src/a.ts" {
		t.Errorf("relevant = %v", relevant)
	}
	if got := e.Highlighted(); len(got) != 1 || got[0] != "src/a.ts" {
		t.Errorf("highlighted = %v", got)
	}
}

func TestSessionSaveAndAutoRestore(t *testing.T) {
	root := writeProject(t)
	logger := logging.New(logging.Config{Level: logging.ErrorLevel})
	store, err := session.NewFileStore(t.TempDir(), logger)
	if err != nil {
		t.Fatal(err)
	}

	first := newTestExplorer(t, store, session.NewRestoreTracker())
	loadLocal(t, first, root)
	if _, err := first.Expand("src"); err != nil {
		t.Fatal(err)
	}
	if err := first.AnalyzeSelected(context.Background(), []string{"src/a.ts", "src/b.ts"}); err != nil {
		t.Fatal(err)
	}
	first.SetViewMode(session.SemanticView)
	first.Select("src/a.ts")

	id, err := first.SaveSession("")
	if err != nil {
		t.Fatalf("save: %v", err)
	}

	tracker := session.NewRestoreTracker()
	second := newTestExplorer(t, store, tracker)
	loadLocal(t, second, root)

	if got := second.RestoredSessionID(); got != id {
		t.Fatalf("restored session = %q, want %q", got, id)
	}
	snap := second.Snapshot()
	if snap.ViewMode != session.SemanticView || snap.Selection != "src/a.ts" {
		t.Errorf("view state not restored: %+v", snap)
	}
	if len(second.Edges()) != 2 {
		t.Errorf("edges not restored: %v", second.Edges())
	}

	// The restored tree is expanded; expanding again is a no-op returning
	// the existing children.
	children, err := second.Expand("src")
	if err != nil {
		t.Fatalf("expand after restore: %v", err)
	}
	if len(children) != 2 || len(children[0].SymbolTree) == 0 {
		t.Errorf("restored children = %+v", children)
	}

	// Same tracker, same project: restore attempted at most once per process.
	third := newTestExplorer(t, store, tracker)
	loadLocal(t, third, root)
	if got := third.RestoredSessionID(); got != "" {
		t.Errorf("second restore attempt should be skipped, got %q", got)
	}
}

func TestLayoutInvalidatedByShapeChange(t *testing.T) {
	e := newTestExplorer(t, nil, nil)
	loadLocal(t, e, writeProject(t))
	if _, err := e.Expand("src"); err != nil {
		t.Fatal(err)
	}

	e.SetLayout(map[string][2]float64{"src/a.ts": {1, 2}})
	if e.Layout() == nil {
		t.Fatal("layout must be served while the shape is unchanged")
	}

	// Analysis adds edges, changing the graph shape.
	if err := e.AnalyzeSelected(context.Background(), []string{"src/a.ts", "src/b.ts"}); err != nil {
		t.Fatal(err)
	}
	if e.Layout() != nil {
		t.Error("stale layout must not be served after the shape changed")
	}
}

func TestOpenSessionReplacesState(t *testing.T) {
	root := writeProject(t)
	logger := logging.New(logging.Config{Level: logging.ErrorLevel})
	store, err := session.NewFileStore(t.TempDir(), logger)
	if err != nil {
		t.Fatal(err)
	}

	e := newTestExplorer(t, store, nil)
	loadLocal(t, e, root)
	if _, err := e.Expand("src"); err != nil {
		t.Fatal(err)
	}
	e.Select("src/b.ts")
	id, err := e.SaveSession("")
	if err != nil {
		t.Fatal(err)
	}

	e.Select("readme.md")
	if err := e.OpenSession(id); err != nil {
		t.Fatalf("open session: %v", err)
	}
	if got := e.Snapshot().Selection; got != "src/b.ts" {
		t.Errorf("selection after open = %q", got)
	}

	if err := e.OpenSession("missing"); !errors.Is(err, errors.SessionNotFound) {
		t.Errorf("opening missing session: err = %v", err)
	}
}
