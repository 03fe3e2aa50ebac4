package parser

import (
	"context"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/hannajonsd/structural-analysis/model"
)

// WalkAST recursively traverses an AST and applies a visitor function to each node
func WalkAST(node *sitter.Node, source []byte, visitor func(*sitter.Node)) {
	visitor(node)

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		WalkAST(child, source, visitor)
	}
}

// ExtractStringValue removes quotes and string prefixes from string literals in AST nodes
func ExtractStringValue(node *sitter.Node, source []byte) string {
	return unquote(nodeText(node, source))
}

func unquote(text string) string {
	// string prefixes only count when a quote follows them
	if trimmed := strings.TrimLeft(text, "rRbBuUfF"); trimmed != text && strings.IndexAny(trimmed, "\"'") == 0 {
		text = trimmed
	}
	for _, q := range []string{`"""`, `'''`, `"`, `'`, "`"} {
		if len(text) >= 2*len(q) && strings.HasPrefix(text, q) && strings.HasSuffix(text, q) {
			return text[len(q) : len(text)-len(q)]
		}
	}
	return text
}

func nodeText(node *sitter.Node, source []byte) string {
	return string(source[node.StartByte():node.EndByte()])
}

// lineOf converts tree-sitter's zero-based row into a one-based line number
func lineOf(node *sitter.Node) int {
	return int(node.StartPoint().Row) + 1
}

func hasChildType(node *sitter.Node, nodeType string) bool {
	for i := 0; i < int(node.ChildCount()); i++ {
		if node.Child(i).Type() == nodeType {
			return true
		}
	}
	return false
}

// newReference builds a reference for a literal module text; File and Path are filled by the caller
func newReference(moduleText string, line int, names []string) model.DependencyReference {
	return model.DependencyReference{
		Source:   moduleText,
		Names:    names,
		Line:     line,
		Relative: model.IsRelativeSource(moduleText),
	}
}

// Parse builds a syntax tree and rejects trees that tree-sitter had to repair
func (bp *BaseParser) Parse(ctx context.Context, source []byte) (*ParseResult, error) {
	tree, err := bp.parser.ParseCtx(ctx, nil, source)
	if err != nil {
		return nil, fmt.Errorf("failed to parse %s source: %w", bp.langName, err)
	}
	if tree == nil {
		return nil, fmt.Errorf("failed to parse %s source", bp.langName)
	}

	root := tree.RootNode()
	if root.HasError() {
		line := firstErrorLine(root)
		tree.Close()
		return nil, &SyntaxError{Language: bp.langName, Line: line}
	}

	return &ParseResult{
		Tree:     tree,
		Source:   source,
		Language: bp.langName,
	}, nil
}

func firstErrorLine(node *sitter.Node) int {
	if node.IsMissing() || node.Type() == "ERROR" {
		return lineOf(node)
	}
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.HasError() || child.IsMissing() {
			if line := firstErrorLine(child); line > 0 {
				return line
			}
		}
	}
	return 0
}

// GetLanguage returns the language name for this parser
func (bp *BaseParser) GetLanguage() string {
	return bp.langName
}

func (bp *BaseParser) Close() {
	if bp.parser != nil {
		bp.parser.Close()
	}
}
