// Package resolve statically resolves import specifiers against the known
// path set of a loaded project. Resolution is purely lexical: it normalizes
// the specifier against the importing file's directory and probes a fixed
// extension order. Bare package names are external dependencies and never
// resolve.
package resolve

import (
	"regexp"
	"strings"
)

// extensionProbeOrder is the fixed candidate order for resolution. Two files
// differing only by extension must resolve predictably, so this order is part
// of the resolver's contract and must not change.
var extensionProbeOrder = []string{
	"", ".ts", ".tsx", ".js", ".jsx", ".mjs", ".cjs", ".mts", ".cts", ".json",
}

var (
	importFromRe  = regexp.MustCompile(`import\s+[\w*{}$,\s]+?\s*from\s*['"]([^'"]+)['"]`)
	importBareRe  = regexp.MustCompile(`import\s*['"]([^'"]+)['"]`)
	importCallRe  = regexp.MustCompile(`import\(\s*['"]([^'"]+)['"]\s*\)`)
	requireCallRe = regexp.MustCompile(`require\(\s*['"]([^'"]+)['"]\s*\)`)
)

// ExtractImportSpecifiers pulls raw import specifiers out of file content.
// Four syntactic forms are recognized: named/default import-from, bare
// side-effect import, dynamic import call, and synchronous require call.
// The result may contain duplicates; callers deduplicate by resolved target.
func ExtractImportSpecifiers(content string) []string {
	var specs []string
	for _, re := range []*regexp.Regexp{importFromRe, importBareRe, importCallRe, requireCallRe} {
		for _, m := range re.FindAllStringSubmatch(content, -1) {
			specs = append(specs, m[1])
		}
	}
	return specs
}

// ResolveImportTarget resolves one specifier from sourcePath against the
// known path set. Returns the matched path and true, or "" and false when
// the specifier is external or nothing matches.
//
// Rules: http(s) URLs are never resolved; a leading "/" means root-relative;
// a leading "." resolves against dir(sourcePath); anything else is a bare
// package name and stays unresolved.
func ResolveImportTarget(sourcePath, specifier string, knownPaths map[string]struct{}) (string, bool) {
	if specifier == "" || strings.HasPrefix(specifier, "http") {
		return "", false
	}

	var normalized string
	switch {
	case strings.HasPrefix(specifier, "/"):
		normalized = normalizeSegments(nil, strings.TrimPrefix(specifier, "/"))
	case strings.HasPrefix(specifier, "."):
		normalized = normalizeSegments(dirSegments(sourcePath), specifier)
	default:
		return "", false
	}

	return probe(normalized, knownPaths)
}

// probe tries the fixed extension order against candidate, then against
// candidate/index. First match wins.
func probe(candidate string, knownPaths map[string]struct{}) (string, bool) {
	for _, base := range []string{candidate, candidate + "/index"} {
		for _, ext := range extensionProbeOrder {
			p := base + ext
			if _, ok := knownPaths[p]; ok {
				return p, true
			}
		}
	}
	return "", false
}

// dirSegments returns the directory components of a slash path
func dirSegments(path string) []string {
	parts := strings.Split(path, "/")
	if len(parts) <= 1 {
		return nil
	}
	return parts[:len(parts)-1]
}

// normalizeSegments resolves a relative specifier against base segments with
// a stack: ".." pops, "." and empty segments are skipped.
func normalizeSegments(base []string, specifier string) string {
	stack := make([]string, len(base))
	copy(stack, base)

	for _, seg := range strings.Split(specifier, "/") {
		switch seg {
		case "", ".":
			// skip
		case "..":
			if len(stack) > 0 {
				stack = stack[:len(stack)-1]
			}
		default:
			stack = append(stack, seg)
		}
	}

	return strings.Join(stack, "/")
}
