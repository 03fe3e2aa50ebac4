package parser

import (
	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/typescript/tsx"
	"github.com/smacker/go-tree-sitter/typescript/typescript"

	"github.com/hannajonsd/structural-analysis/model"
)

// JavaScriptParser walks ES module and CommonJS declarations.
// The TypeScript grammars share the node shapes, so the same walker serves both.
type JavaScriptParser struct {
	BaseParser
}

func NewJavaScriptParser() (*JavaScriptParser, error) {
	return newScriptParser(javascript.GetLanguage(), LanguageJavaScript), nil
}

// NewTypeScriptParser uses the TSX grammar when jsx is set
func NewTypeScriptParser(jsx bool) (*JavaScriptParser, error) {
	language := typescript.GetLanguage()
	if jsx {
		language = tsx.GetLanguage()
	}
	return newScriptParser(language, LanguageTypeScript), nil
}

func newScriptParser(language *sitter.Language, name string) *JavaScriptParser {
	parser := sitter.NewParser()
	parser.SetLanguage(language)

	return &JavaScriptParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: name,
		},
	}
}

func (p *JavaScriptParser) ExtractExports(node *sitter.Node, source []byte) []model.ExportRecord {
	var exports []model.ExportRecord

	WalkAST(node, source, func(n *sitter.Node) {
		switch n.Type() {
		case "export_statement":
			exports = append(exports, p.processExportStatement(n, source)...)
		case "assignment_expression":
			exports = append(exports, p.processCommonJSExport(n, source)...)
		}
	})

	return exports
}

func (p *JavaScriptParser) processExportStatement(node *sitter.Node, source []byte) []model.ExportRecord {
	line := lineOf(node)

	// export default <anything>
	if hasChildType(node, "default") {
		return []model.ExportRecord{{Name: model.DefaultExportName, Line: line, Kind: model.ExportDefault}}
	}

	if decl := node.ChildByFieldName("declaration"); decl != nil {
		return p.processDeclaration(decl, source)
	}

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "export_clause" {
			return p.processExportClause(child, source)
		}
	}

	return nil
}

func (p *JavaScriptParser) processDeclaration(node *sitter.Node, source []byte) []model.ExportRecord {
	var kind model.ExportKind

	switch node.Type() {
	case "function_declaration", "generator_function_declaration", "function_signature":
		kind = model.ExportFunction
	case "class_declaration", "abstract_class_declaration":
		kind = model.ExportClass
	case "interface_declaration", "type_alias_declaration", "enum_declaration":
		kind = model.ExportType
	case "lexical_declaration", "variable_declaration":
		return p.processVariableDeclaration(node, source)
	case "ambient_declaration":
		// export declare function f(): void
		var exports []model.ExportRecord
		for i := 0; i < int(node.NamedChildCount()); i++ {
			exports = append(exports, p.processDeclaration(node.NamedChild(i), source)...)
		}
		return exports
	default:
		return nil
	}

	name := node.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	return []model.ExportRecord{{
		Name: nodeText(name, source),
		Line: lineOf(node),
		Kind: kind,
	}}
}

func (p *JavaScriptParser) processVariableDeclaration(node *sitter.Node, source []byte) []model.ExportRecord {
	var exports []model.ExportRecord

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "variable_declarator" {
			continue
		}

		name := child.ChildByFieldName("name")
		if name == nil || name.Type() != "identifier" {
			continue
		}

		exports = append(exports, model.ExportRecord{
			Name: nodeText(name, source),
			Line: lineOf(child),
			Kind: model.ExportVariable,
		})
	}

	return exports
}

// processExportClause handles export { a, b as c } and records the exported names
func (p *JavaScriptParser) processExportClause(node *sitter.Node, source []byte) []model.ExportRecord {
	var exports []model.ExportRecord

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "export_specifier" {
			continue
		}

		exported := child.ChildByFieldName("alias")
		if exported == nil {
			exported = child.ChildByFieldName("name")
		}
		if exported == nil {
			continue
		}

		name := ExtractStringValue(exported, source)
		if name == "" {
			continue
		}
		if name == model.DefaultExportName {
			exports = append(exports, model.ExportRecord{Name: name, Line: lineOf(child), Kind: model.ExportDefault})
			continue
		}

		exports = append(exports, model.ExportRecord{
			Name: name,
			Line: lineOf(child),
			Kind: model.ExportReexport,
		})
	}

	return exports
}

// processCommonJSExport handles exports.x = ..., module.exports.x = ... and module.exports = {...}
func (p *JavaScriptParser) processCommonJSExport(node *sitter.Node, source []byte) []model.ExportRecord {
	left := node.ChildByFieldName("left")
	right := node.ChildByFieldName("right")
	if left == nil || right == nil || left.Type() != "member_expression" {
		return nil
	}

	line := lineOf(node)

	if nodeText(left, source) == "module.exports" {
		if right.Type() != "object" {
			return []model.ExportRecord{{Name: model.DefaultExportName, Line: line, Kind: model.ExportDefault}}
		}
		return p.processExportsObject(right, source)
	}

	object := left.ChildByFieldName("object")
	property := left.ChildByFieldName("property")
	if object == nil || property == nil {
		return nil
	}

	switch nodeText(object, source) {
	case "exports", "module.exports":
		return []model.ExportRecord{{
			Name: nodeText(property, source),
			Line: line,
			Kind: model.ExportVariable,
		}}
	}

	return nil
}

func (p *JavaScriptParser) processExportsObject(node *sitter.Node, source []byte) []model.ExportRecord {
	var exports []model.ExportRecord

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		var name string
		switch child.Type() {
		case "shorthand_property_identifier":
			name = nodeText(child, source)
		case "pair", "method_definition":
			field := "key"
			if child.Type() == "method_definition" {
				field = "name"
			}
			if key := child.ChildByFieldName(field); key != nil {
				name = ExtractStringValue(key, source)
			}
		}

		if name != "" {
			exports = append(exports, model.ExportRecord{
				Name: name,
				Line: lineOf(child),
				Kind: model.ExportVariable,
			})
		}
	}

	return exports
}

func (p *JavaScriptParser) ExtractImports(node *sitter.Node, source []byte) []model.DependencyReference {
	var refs []model.DependencyReference

	WalkAST(node, source, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			if ref, ok := p.processImportStatement(n, source); ok {
				refs = append(refs, ref)
			}
		case "export_statement":
			if ref, ok := p.processReexport(n, source); ok {
				refs = append(refs, ref)
			}
		case "call_expression":
			if ref, ok := p.processCallExpression(n, source); ok {
				refs = append(refs, ref)
			}
		}
	})

	return model.MergeReferences(refs)
}

func (p *JavaScriptParser) processImportStatement(node *sitter.Node, source []byte) (model.DependencyReference, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return model.DependencyReference{}, false
	}

	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "import_clause" {
			names = p.processImportClause(child, source)
		}
	}

	return newReference(ExtractStringValue(sourceNode, source), lineOf(node), names), true
}

func (p *JavaScriptParser) processImportClause(node *sitter.Node, source []byte) []string {
	var names []string

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "identifier":
			// Default import: import foo from "module"
			names = append(names, nodeText(child, source))
		case "namespace_import":
			// Namespace import: import * as foo from "module"
			names = append(names, p.processNamespaceImport(child, source))
		case "named_imports":
			// Named imports: import { a, b as c } from "module"
			names = append(names, p.processNamedImports(child, source)...)
		}
	}

	return names
}

func (p *JavaScriptParser) processNamespaceImport(node *sitter.Node, source []byte) string {
	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)
		if child.Type() == "identifier" {
			return nodeText(child, source)
		}
	}
	return ""
}

// processNamedImports returns the imported (not the local) names, since those are what the exporting file declared
func (p *JavaScriptParser) processNamedImports(node *sitter.Node, source []byte) []string {
	var symbols []string

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)
		if child.Type() != "import_specifier" {
			continue
		}
		if name := child.ChildByFieldName("name"); name != nil {
			symbols = append(symbols, ExtractStringValue(name, source))
		}
	}

	return symbols
}

// processReexport handles export { a } from "module" and export * from "module"
func (p *JavaScriptParser) processReexport(node *sitter.Node, source []byte) (model.DependencyReference, bool) {
	sourceNode := node.ChildByFieldName("source")
	if sourceNode == nil {
		return model.DependencyReference{}, false
	}

	var names []string
	for i := 0; i < int(node.ChildCount()); i++ {
		clause := node.Child(i)
		if clause.Type() != "export_clause" {
			continue
		}
		for j := 0; j < int(clause.NamedChildCount()); j++ {
			spec := clause.NamedChild(j)
			if spec.Type() != "export_specifier" {
				continue
			}
			if name := spec.ChildByFieldName("name"); name != nil {
				names = append(names, ExtractStringValue(name, source))
			}
		}
	}

	return newReference(ExtractStringValue(sourceNode, source), lineOf(node), names), true
}

// processCallExpression recognises require("x") and import("x") with a single literal argument
func (p *JavaScriptParser) processCallExpression(node *sitter.Node, source []byte) (model.DependencyReference, bool) {
	function := node.ChildByFieldName("function")
	arguments := node.ChildByFieldName("arguments")
	if function == nil || arguments == nil {
		return model.DependencyReference{}, false
	}

	isRequire := function.Type() == "identifier" && nodeText(function, source) == "require"
	isImport := function.Type() == "import"
	if !isRequire && !isImport {
		return model.DependencyReference{}, false
	}

	if arguments.NamedChildCount() != 1 || arguments.NamedChild(0).Type() != "string" {
		return model.DependencyReference{}, false
	}

	moduleText := ExtractStringValue(arguments.NamedChild(0), source)
	return newReference(moduleText, lineOf(node), p.processBinding(node, source)), true
}

// processBinding finds the names a require/import call is assigned to
func (p *JavaScriptParser) processBinding(call *sitter.Node, source []byte) []string {
	parent := call.Parent()
	if parent != nil && parent.Type() == "await_expression" {
		parent = parent.Parent()
	}
	if parent == nil || parent.Type() != "variable_declarator" {
		return nil
	}

	name := parent.ChildByFieldName("name")
	if name == nil {
		return nil
	}

	switch name.Type() {
	case "identifier":
		return []string{nodeText(name, source)}
	case "object_pattern":
		return p.processObjectPattern(name, source)
	}
	return nil
}

func (p *JavaScriptParser) processObjectPattern(node *sitter.Node, source []byte) []string {
	var symbols []string

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "shorthand_property_identifier_pattern", "shorthand_property_identifier":
			symbols = append(symbols, nodeText(child, source))
		case "pair_pattern", "pair":
			// { original: local } binds the original export
			if key := child.ChildByFieldName("key"); key != nil {
				symbols = append(symbols, ExtractStringValue(key, source))
			}
		case "object_assignment_pattern":
			// { name = fallback }
			if left := child.ChildByFieldName("left"); left != nil {
				symbols = append(symbols, nodeText(left, source))
			}
		}
	}

	return symbols
}
