//go:build !cgo

package analysis

import (
	"context"

	"repolens/internal/errors"
	"repolens/internal/graph"
)

// Sitter is the local tree-sitter analyzer. This stub is used when CGO is
// not available; every call reports that local extraction is unsupported.
type Sitter struct{}

// NewSitter creates a tree-sitter analyzer stub
func NewSitter() *Sitter {
	return &Sitter{}
}

// SitterAvailable reports whether local extraction is compiled in
func SitterAvailable() bool {
	return false
}

// Analyze is unavailable without CGO
func (s *Sitter) Analyze(ctx context.Context, content, filename string) ([]graph.SymbolNode, error) {
	return nil, errors.New(errors.AnalysisFailed, "local symbol extraction requires a CGO build")
}

// FindRelevant is unavailable without CGO
func (s *Sitter) FindRelevant(ctx context.Context, query string, paths []string) ([]string, error) {
	return nil, errors.New(errors.AnalysisFailed, "local relevance requires a CGO build")
}
