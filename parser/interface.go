package parser

import (
	"context"
	"fmt"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/structural-analysis/model"
)

// Parser defines the interface for language-specific structural parsers
type Parser interface {
	GetLanguage() string
	Close()
	Parse(ctx context.Context, source []byte) (*ParseResult, error)
	ExtractExports(node *sitter.Node, source []byte) []model.ExportRecord
	ExtractImports(node *sitter.Node, source []byte) []model.DependencyReference
}

// BaseParser provides common functionality for all language parsers
type BaseParser struct {
	parser   *sitter.Parser
	language *sitter.Language
	langName string
}

// ParseResult contains a syntax tree free of error nodes
type ParseResult struct {
	Tree     *sitter.Tree
	Source   []byte
	Language string
}

// SyntaxError is returned when the tree contains error or missing nodes.
// Callers treat it as the signal to fall back to pattern scanning.
type SyntaxError struct {
	Language string
	Line     int
}

func (e *SyntaxError) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("%s syntax error near line %d", e.Language, e.Line)
	}
	return fmt.Sprintf("%s syntax error", e.Language)
}
