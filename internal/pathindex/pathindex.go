// Package pathindex turns a flat list of file paths into a navigable
// parent-to-children index with memoized descendant counts. The index is
// immutable for the lifetime of one project load; lazy tree expansion reads
// from it but never writes back.
package pathindex

import (
	"sort"
	"strings"

	"repolens/internal/graph"
)

// Entry is one direct child of a directory
type Entry struct {
	Path string         `json:"path"`
	Name string         `json:"name"`
	Kind graph.NodeKind `json:"kind"`
}

// ChildrenIndex maps a parent path ("" = root) to its direct children
type ChildrenIndex map[string][]Entry

// BuildChildrenIndex derives the children index from a flat path list.
// Every prefix of every path is registered under its immediate parent;
// only the full path itself is a file, every shorter prefix is a directory.
// Repeated prefixes across files sharing directories are deduplicated, so
// the result is independent of input order.
func BuildChildrenIndex(paths []string) ChildrenIndex {
	index := make(ChildrenIndex)
	seen := make(map[string]struct{})

	for _, path := range paths {
		if path == "" {
			continue
		}
		parts := strings.Split(path, "/")
		for i := range parts {
			childPath := strings.Join(parts[:i+1], "/")
			if _, dup := seen[childPath]; dup {
				continue
			}
			seen[childPath] = struct{}{}

			parent := ""
			if i > 0 {
				parent = strings.Join(parts[:i], "/")
			}

			kind := graph.DirectoryNode
			if i == len(parts)-1 {
				kind = graph.FileNode
			}

			index[parent] = append(index[parent], Entry{
				Path: childPath,
				Name: parts[i],
				Kind: kind,
			})
		}
	}

	return index
}

// ComputeDescendantCounts returns, for every path in the index, the total
// number of entries strictly beneath it at any depth. Counts are memoized
// across repeated directory prefixes; the tree is acyclic by construction
// so the recursion terminates.
func ComputeDescendantCounts(index ChildrenIndex) map[string]int {
	counts := make(map[string]int)

	var count func(path string) int
	count = func(path string) int {
		if c, ok := counts[path]; ok {
			return c
		}
		total := 0
		for _, child := range index[path] {
			if child.Kind == graph.DirectoryNode {
				total += 1 + count(child.Path)
			} else {
				total++
			}
		}
		counts[path] = total
		return total
	}

	count("")
	for parent := range index {
		count(parent)
	}

	return counts
}

// Index is a built path index ready to serve child-node queries
type Index struct {
	children ChildrenIndex
	counts   map[string]int
	paths    map[string]struct{}
}

// New builds an Index from a flat path list
func New(paths []string) *Index {
	children := BuildChildrenIndex(paths)
	known := make(map[string]struct{}, len(paths))
	for _, p := range paths {
		known[p] = struct{}{}
	}
	return &Index{
		children: children,
		counts:   ComputeDescendantCounts(children),
		paths:    known,
	}
}

// HasFile reports whether path was in the original flat path list
func (ix *Index) HasFile(path string) bool {
	_, ok := ix.paths[path]
	return ok
}

// HasEntry reports whether path is a file or directory known to the index
func (ix *Index) HasEntry(path string) bool {
	if ix.HasFile(path) {
		return true
	}
	_, ok := ix.children[path]
	return ok
}

// FilePaths returns the original flat path set (unordered)
func (ix *Index) FilePaths() []string {
	out := make([]string, 0, len(ix.paths))
	for p := range ix.paths {
		out = append(out, p)
	}
	return out
}

// KnownPaths returns the path set as a membership map for resolvers
func (ix *Index) KnownPaths() map[string]struct{} {
	return ix.paths
}

// DescendantCount returns the memoized descendant count for path
func (ix *Index) DescendantCount(path string) int {
	return ix.counts[path]
}

// ChildNodes materializes the direct children of parent as unexpanded tree
// nodes: directories first, then name ascending within each group. Children
// stays nil; expansion fills it in later.
func (ix *Index) ChildNodes(parent string) []*graph.TreeNode {
	entries, ok := ix.children[parent]
	if !ok {
		return nil
	}

	sorted := make([]Entry, len(entries))
	copy(sorted, entries)
	sort.SliceStable(sorted, func(i, j int) bool {
		if sorted[i].Kind != sorted[j].Kind {
			return sorted[i].Kind == graph.DirectoryNode
		}
		return sorted[i].Name < sorted[j].Name
	})

	nodes := make([]*graph.TreeNode, 0, len(sorted))
	for _, e := range sorted {
		_, hasChildren := ix.children[e.Path]
		nodes = append(nodes, &graph.TreeNode{
			ID:              e.Path,
			Name:            e.Name,
			Kind:            e.Kind,
			Path:            e.Path,
			HasChildren:     hasChildren,
			DescendantCount: ix.counts[e.Path],
		})
	}
	return nodes
}
