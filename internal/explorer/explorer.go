// Package explorer is the facade over the exploration engine. It owns all
// mutable graph state and funnels every mutation through one writer goroutine,
// so fetches and analyses can run concurrently while state transitions stay
// serialized.
package explorer

import (
	"context"
	"sort"

	"repolens/internal/analysis"
	"repolens/internal/callgraph"
	"repolens/internal/errors"
	"repolens/internal/flowpath"
	"repolens/internal/graph"
	"repolens/internal/logging"
	"repolens/internal/pathindex"
	"repolens/internal/semantic"
	"repolens/internal/session"
)

// SessionStore is what the explorer needs from session persistence: saving,
// opening, and the signature index behind auto-restore.
type SessionStore interface {
	session.Store
	RecordSignature(signature, sessionID string)
	LookupBySignature(signature string) (string, bool)
}

// Explorer holds one loaded project and answers all exploration operations.
// Construct with New, release with Close.
type Explorer struct {
	analyzer analysis.Service
	sessions SessionStore
	tracker  *session.RestoreTracker
	logger   *logging.Logger

	tasks chan task

	// State below is owned by the writer goroutine. Blocking work (fetch,
	// analysis) happens outside it; only merges run inside.
	source      Source
	index       *pathindex.Index
	roots       []*graph.TreeNode
	nodesByPath map[string]*graph.TreeNode
	symbolTrees map[string][]graph.SymbolNode
	edges       *graph.EdgeSet
	expanded    map[string]struct{}
	highlighted []string
	viewMode    session.ViewMode
	selection   string
	promptItems []session.PromptItem
	layout      *session.Layout
	signature   string
	restoredID  string
}

type task struct {
	fn   func()
	done chan struct{}
}

// Options configures a new Explorer
type Options struct {
	Analyzer analysis.Service
	Sessions SessionStore
	Tracker  *session.RestoreTracker
	Logger   *logging.Logger
}

// New creates an Explorer and starts its writer goroutine
func New(opts Options) *Explorer {
	e := &Explorer{
		analyzer:    opts.Analyzer,
		sessions:    opts.Sessions,
		tracker:     opts.Tracker,
		logger:      opts.Logger,
		tasks:       make(chan task),
		nodesByPath: make(map[string]*graph.TreeNode),
		symbolTrees: make(map[string][]graph.SymbolNode),
		edges:       graph.NewEdgeSet(),
		expanded:    make(map[string]struct{}),
		viewMode:    session.StructuralView,
	}
	go e.run()
	return e
}

func (e *Explorer) run() {
	for t := range e.tasks {
		t.fn()
		close(t.done)
	}
}

// do runs fn on the writer goroutine and waits for it. Every read and write
// of explorer state goes through here.
func (e *Explorer) do(fn func()) {
	t := task{fn: fn, done: make(chan struct{})}
	e.tasks <- t
	<-t.done
}

// Close stops the writer goroutine. The explorer is unusable afterwards.
func (e *Explorer) Close() {
	close(e.tasks)
}

// Load lists the source's paths, builds the path index, and resets all
// exploration state. When a saved session matches the project signature and
// no restore has been attempted for it yet this process, the session is
// restored instead of starting fresh; a failed restore degrades to a fresh
// load with a warning.
func (e *Explorer) Load(ctx context.Context, source Source) error {
	paths, err := source.ListPaths(ctx)
	if err != nil {
		return err
	}

	index := pathindex.New(paths)
	sig := session.Signature(paths, source.Identifier())

	var restored *session.Snapshot
	restoredID := ""
	if e.sessions != nil && e.tracker != nil && e.tracker.ShouldAttempt(sig) {
		if id, ok := e.sessions.LookupBySignature(sig); ok {
			snap, openErr := e.sessions.Open(id)
			if openErr != nil {
				e.logger.Warn("auto-restore failed, loading fresh", logging.Fields{
					"session": id,
					"error":   openErr.Error(),
				})
			} else {
				restored = snap
				restoredID = id
			}
		}
	}

	e.do(func() {
		e.source = source
		e.index = index
		e.signature = sig
		e.restoredID = restoredID

		if restored != nil {
			e.applySnapshot(restored)
			return
		}
		e.resetState()
		e.roots = index.ChildNodes("")
		for _, n := range e.roots {
			e.nodesByPath[n.Path] = n
		}
	})

	if restored != nil {
		e.logger.Info("session restored", logging.Fields{"session": restoredID})
	}
	return nil
}

func (e *Explorer) resetState() {
	e.roots = nil
	e.nodesByPath = make(map[string]*graph.TreeNode)
	e.symbolTrees = make(map[string][]graph.SymbolNode)
	e.edges.Reset(nil)
	e.expanded = make(map[string]struct{})
	e.highlighted = nil
	e.viewMode = session.StructuralView
	e.selection = ""
	e.promptItems = nil
	e.layout = nil
}

// Tree returns the current root nodes. The tree is shared, not copied;
// callers must not mutate it.
func (e *Explorer) Tree() []*graph.TreeNode {
	var roots []*graph.TreeNode
	e.do(func() { roots = e.roots })
	return roots
}

// Edges returns a copy of the current semantic edge list
func (e *Explorer) Edges() []graph.Edge {
	var edges []graph.Edge
	e.do(func() { edges = e.edges.Edges() })
	return edges
}

// ProjectSignature returns the signature of the loaded project
func (e *Explorer) ProjectSignature() string {
	var sig string
	e.do(func() { sig = e.signature })
	return sig
}

// RestoredSessionID returns the session id auto-restored on the last Load,
// or "" when the load started fresh
func (e *Explorer) RestoredSessionID() string {
	var id string
	e.do(func() { id = e.restoredID })
	return id
}

// Expand materializes the children of a directory node and returns them.
// Expanding an already expanded or in-flight directory returns the existing
// children without re-materializing. Unknown paths and file paths are
// rejected with PATH_NOT_INDEXED.
func (e *Explorer) Expand(path string) ([]*graph.TreeNode, error) {
	var children []*graph.TreeNode
	var err error

	e.do(func() {
		if e.index == nil {
			err = errors.New(errors.PathNotIndexed, "no project loaded")
			return
		}
		node, ok := e.nodesByPath[path]
		if !ok || node.Kind != graph.DirectoryNode {
			err = errors.New(errors.PathNotIndexed, "not an expandable directory: "+path)
			return
		}

		if node.State != graph.Unexpanded {
			children = node.Children
			return
		}

		node.State = graph.Expanding
		node.Children = e.index.ChildNodes(path)
		for _, child := range node.Children {
			e.nodesByPath[child.Path] = child
		}
		node.State = graph.Expanded
		e.expanded[path] = struct{}{}
		children = node.Children
	})

	return children, err
}

// AnalyzeSelected analyzes the given files, attaches their symbol trees, and
// relinks their semantic edges. All paths must be indexed files. Symbol trees
// from the whole batch are merged before linking, so calls between files in
// one batch resolve. The analyzed paths become the highlighted set.
func (e *Explorer) AnalyzeSelected(ctx context.Context, paths []string) error {
	var badPath string
	e.do(func() {
		if e.index == nil {
			badPath = "(no project loaded)"
			return
		}
		for _, p := range paths {
			if !e.index.HasFile(p) {
				badPath = p
				return
			}
		}
	})
	if badPath != "" {
		return errors.New(errors.PathNotIndexed, "cannot analyze "+badPath)
	}

	// Fetch and analyze outside the writer; only the merge is serialized.
	contents := make(map[string]string, len(paths))
	trees := make(map[string][]graph.SymbolNode, len(paths))
	for _, p := range paths {
		content, err := e.source.ReadFile(ctx, p)
		if err != nil {
			return err
		}
		tree, err := e.analyzer.Analyze(ctx, content, p)
		if err != nil {
			return err
		}
		analysis.AssignSymbolIDs(p, tree)
		contents[p] = content
		trees[p] = tree
	}

	e.do(func() {
		for p, tree := range trees {
			e.symbolTrees[p] = tree
			if node, ok := e.nodesByPath[p]; ok {
				node.SymbolTree = tree
			}
		}

		symbolIndex := callgraph.BuildSymbolIndex(e.symbolTrees)
		known := e.index.KnownPaths()

		for _, p := range paths {
			result := semantic.BuildFileLinks(p, contents[p], e.symbolTrees[p], known, symbolIndex)
			e.edges.ReplaceBySources(result.TouchedSourceIDs, result.Edges)
		}

		e.highlighted = append([]string(nil), paths...)
	})
	return nil
}

// FindRelevant asks the analyzer which files match a freeform query and
// highlights them
func (e *Explorer) FindRelevant(ctx context.Context, query string) ([]string, error) {
	var all []string
	e.do(func() {
		if e.index != nil {
			all = e.index.FilePaths()
		}
	})
	sort.Strings(all)

	relevant, err := e.analyzer.FindRelevant(ctx, query, all)
	if err != nil {
		return nil, err
	}

	e.do(func() { e.highlighted = relevant })
	return relevant, nil
}

// Query finds the shortest flow path between two node ids over the current
// semantic edges. Unknown ids are an explicit error; known but disconnected
// ids return a nil path.
func (e *Explorer) Query(sourceID, targetID string) (*flowpath.Path, error) {
	var path *flowpath.Path
	var err error

	e.do(func() {
		known := e.knownNodeIDs()
		if _, ok := known[sourceID]; !ok {
			err = errors.New(errors.NodeUnknown, "unknown node "+sourceID)
			return
		}
		if _, ok := known[targetID]; !ok {
			err = errors.New(errors.NodeUnknown, "unknown node "+targetID)
			return
		}
		path = flowpath.BuildFlowPath(sourceID, targetID, e.edges.Edges(), known)
	})

	return path, err
}

// knownNodeIDs collects every id a path query may name: all indexed paths
// plus every symbol id from attached symbol trees. Writer goroutine only.
func (e *Explorer) knownNodeIDs() map[string]struct{} {
	known := make(map[string]struct{})
	if e.index != nil {
		for p := range e.index.KnownPaths() {
			known[p] = struct{}{}
		}
	}
	for path := range e.nodesByPath {
		known[path] = struct{}{}
	}

	var walk func(nodes []graph.SymbolNode)
	walk = func(nodes []graph.SymbolNode) {
		for _, n := range nodes {
			if n.ID != "" {
				known[n.ID] = struct{}{}
			}
			walk(n.Children)
		}
	}
	for _, tree := range e.symbolTrees {
		walk(tree)
	}
	return known
}

// SetViewMode switches between the structural and semantic overlays
func (e *Explorer) SetViewMode(mode session.ViewMode) {
	e.do(func() { e.viewMode = mode })
}

// Select records the currently selected node id
func (e *Explorer) Select(nodeID string) {
	e.do(func() { e.selection = nodeID })
}

// AddPromptItems appends user notes to the session state
func (e *Explorer) AddPromptItems(items []session.PromptItem) {
	e.do(func() { e.promptItems = append(e.promptItems, items...) })
}

// Highlighted returns the currently highlighted paths
func (e *Explorer) Highlighted() []string {
	var out []string
	e.do(func() { out = append([]string(nil), e.highlighted...) })
	return out
}
