// Package callgraph lexically extracts call identifiers from source text and
// attributes them to known symbols. This is a deliberate heuristic: it scans
// for identifier( occurrences rather than parsing, and accepts the false
// positives and negatives that come with that. Upgrading it to a real parser
// would change edge cardinality and identity everywhere downstream.
package callgraph

import (
	"regexp"

	"repolens/internal/graph"
)

// ignoredIdentifiers is the fixed set of control-flow keywords and ambient
// globals that look like calls but never produce edges.
var ignoredIdentifiers = map[string]struct{}{
	"if": {}, "for": {}, "while": {}, "switch": {}, "catch": {},
	"function": {}, "class": {}, "return": {}, "import": {}, "export": {},
	"await": {}, "new": {}, "super": {}, "this": {}, "typeof": {},
	"console": {}, "setTimeout": {}, "setInterval": {},
	"clearTimeout": {}, "clearInterval": {},
}

var callSiteRe = regexp.MustCompile(`[A-Za-z_$][\w$]*\s*\(`)

func isIdentByte(b byte) bool {
	return b == '_' || b == '$' ||
		(b >= 'a' && b <= 'z') || (b >= 'A' && b <= 'Z') || (b >= '0' && b <= '9')
}

// ExtractCallIdentifiers scans content for free call sites. Occurrences
// immediately preceded by "." are member accesses, not free calls, and are
// skipped along with the ignore list. Duplicates are preserved; resolution
// deduplicates per target.
func ExtractCallIdentifiers(content string) []string {
	var idents []string
	for _, loc := range callSiteRe.FindAllStringIndex(content, -1) {
		start := loc[0]
		if start > 0 {
			prev := content[start-1]
			if prev == '.' || isIdentByte(prev) {
				continue
			}
		}

		// Trim the trailing "(" and whitespace off the match.
		name := content[start : loc[1]-1]
		for len(name) > 0 && (name[len(name)-1] == ' ' || name[len(name)-1] == '\t' || name[len(name)-1] == '\n') {
			name = name[:len(name)-1]
		}

		if _, skip := ignoredIdentifiers[name]; skip {
			continue
		}
		idents = append(idents, name)
	}
	return idents
}

// SymbolIndex maps a symbol name to the ids of every node that declares it.
// It is derived state, rebuilt on demand from the currently known symbol
// trees; it is never persisted.
type SymbolIndex map[string][]string

// BuildSymbolIndex flattens every file's symbol tree (depth-first, nested
// children included) into a name-to-ids index.
func BuildSymbolIndex(symbolTrees map[string][]graph.SymbolNode) SymbolIndex {
	index := make(SymbolIndex)

	var walk func(nodes []graph.SymbolNode)
	walk = func(nodes []graph.SymbolNode) {
		for _, n := range nodes {
			if n.Name != "" {
				index[n.Name] = append(index[n.Name], n.ID)
			}
			if len(n.Children) > 0 {
				walk(n.Children)
			}
		}
	}

	for _, tree := range symbolTrees {
		walk(tree)
	}

	return index
}

// ResolveCallTargets returns the ids owning name, excluding callerID so a
// symbol calling itself by name never produces a self-edge. Lookup is exact;
// there is no fuzzy or partial matching.
func ResolveCallTargets(name, callerID string, index SymbolIndex) []string {
	ids, ok := index[name]
	if !ok {
		return nil
	}

	var targets []string
	for _, id := range ids {
		if id != callerID {
			targets = append(targets, id)
		}
	}
	return targets
}
