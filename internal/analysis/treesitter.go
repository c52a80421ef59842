//go:build cgo

package analysis

import (
	"context"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"repolens/internal/errors"
	"repolens/internal/graph"
)

// Sitter is a local, network-free Service implementation backed by
// tree-sitter grammars. It covers the JS/TS family only and produces no
// descriptions; it exists so exploration works without an API key.
type Sitter struct {
	parser *sitter.Parser
}

// NewSitter creates a tree-sitter analyzer
func NewSitter() *Sitter {
	return &Sitter{parser: sitter.NewParser()}
}

// SitterAvailable reports whether local extraction is compiled in
func SitterAvailable() bool {
	return true
}

func sitterLanguage(filename string) *sitter.Language {
	switch {
	case strings.HasSuffix(filename, ".tsx"):
		return tsx.GetLanguage()
	case strings.HasSuffix(filename, ".ts"), strings.HasSuffix(filename, ".mts"), strings.HasSuffix(filename, ".cts"):
		return typescript.GetLanguage()
	case strings.HasSuffix(filename, ".js"), strings.HasSuffix(filename, ".jsx"),
		strings.HasSuffix(filename, ".mjs"), strings.HasSuffix(filename, ".cjs"):
		return javascript.GetLanguage()
	default:
		return nil
	}
}

// Analyze parses the file and extracts top-level functions, classes with
// their methods as children, and module-level variable declarations.
func (s *Sitter) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	lang := sitterLanguage(filename)
	if lang == nil {
		return nil, nil // unsupported language, no symbol structure
	}

	source := []byte(content)
	s.parser.SetLanguage(lang)
	tree, err := s.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, errors.Wrap(errors.AnalysisFailed, "parsing "+filename, err)
	}
	defer tree.Close()

	symbols := extractScope(tree.RootNode(), source)
	AssignSymbolIDs(filename, symbols)
	return symbols, nil
}

// FindRelevant does a plain substring rank over paths. Local fallback only;
// real relevance needs the AI service.
func (s *Sitter) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	terms := strings.Fields(strings.ToLower(query))
	var relevant []string
	for _, p := range paths {
		lower := strings.ToLower(p)
		for _, term := range terms {
			if strings.Contains(lower, term) {
				relevant = append(relevant, p)
				break
			}
		}
	}
	return relevant, nil
}

func extractScope(root *sitter.Node, source []byte) []graph.SymbolNode {
	var symbols []graph.SymbolNode

	for i := 0; i < int(root.NamedChildCount()); i++ {
		node := root.NamedChild(i)
		if node == nil {
			continue
		}

		// Unwrap export statements to the declaration they carry.
		if node.Type() == "export_statement" {
			if decl := node.NamedChild(0); decl != nil {
				node = decl
			}
		}

		switch node.Type() {
		case "function_declaration", "generator_function_declaration":
			if sym := functionSymbol(node, source); sym != nil {
				symbols = append(symbols, *sym)
			}
		case "class_declaration":
			if sym := classSymbol(node, source); sym != nil {
				symbols = append(symbols, *sym)
			}
		case "lexical_declaration", "variable_declaration":
			symbols = append(symbols, variableSymbols(node, source)...)
		}
	}

	return symbols
}

func functionSymbol(node *sitter.Node, source []byte) *graph.SymbolNode {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}
	return &graph.SymbolNode{
		Name:    name,
		Kind:    graph.FunctionSymbol,
		Snippet: nodeText(node, source),
	}
}

func classSymbol(node *sitter.Node, source []byte) *graph.SymbolNode {
	name := fieldText(node, "name", source)
	if name == "" {
		return nil
	}

	sym := graph.SymbolNode{
		Name:    name,
		Kind:    graph.ClassSymbol,
		Snippet: nodeText(node, source),
	}

	if body := node.ChildByFieldName("body"); body != nil {
		for i := 0; i < int(body.NamedChildCount()); i++ {
			member := body.NamedChild(i)
			if member == nil || member.Type() != "method_definition" {
				continue
			}
			methodName := fieldText(member, "name", source)
			if methodName == "" {
				continue
			}
			sym.Children = append(sym.Children, graph.SymbolNode{
				Name:    methodName,
				Kind:    graph.FunctionSymbol,
				Snippet: nodeText(member, source),
			})
		}
	}

	return &sym
}

func variableSymbols(node *sitter.Node, source []byte) []graph.SymbolNode {
	var out []graph.SymbolNode
	for i := 0; i < int(node.NamedChildCount()); i++ {
		declarator := node.NamedChild(i)
		if declarator == nil || declarator.Type() != "variable_declarator" {
			continue
		}
		name := fieldText(declarator, "name", source)
		if name == "" {
			continue
		}

		kind := graph.VariableSymbol
		if value := declarator.ChildByFieldName("value"); value != nil {
			if t := value.Type(); t == "arrow_function" || t == "function_expression" || t == "function" {
				kind = graph.FunctionSymbol
			}
		}

		out = append(out, graph.SymbolNode{
			Name:    name,
			Kind:    kind,
			Snippet: nodeText(node, source),
		})
	}
	return out
}

func fieldText(node *sitter.Node, field string, source []byte) string {
	child := node.ChildByFieldName(field)
	if child == nil {
		return ""
	}
	return string(source[child.StartByte():child.EndByte()])
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}
