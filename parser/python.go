package parser

import (
	"strings"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/python"

	"github.com/hannajonsd/structural-analysis/model"
)

// publicListName is the module attribute that lists a Python module's public surface
const publicListName = "__all__"

type PythonParser struct {
	BaseParser
}

func NewPythonParser() (*PythonParser, error) {
	parser := sitter.NewParser()
	language := python.GetLanguage()
	parser.SetLanguage(language)

	return &PythonParser{
		BaseParser: BaseParser{
			parser:   parser,
			language: language,
			langName: LanguagePython,
		},
	}, nil
}

// ExtractExports returns the __all__ entries when the module declares them,
// otherwise every top-level function or class whose name has no leading underscore.
func (p *PythonParser) ExtractExports(node *sitter.Node, source []byte) []model.ExportRecord {
	var public, definitions []model.ExportRecord
	hasPublicList := false

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "function_definition", "class_definition":
			if exp, ok := p.processDefinition(child, source); ok {
				definitions = append(definitions, exp)
			}
		case "decorated_definition":
			if def := child.ChildByFieldName("definition"); def != nil {
				if exp, ok := p.processDefinition(def, source); ok {
					definitions = append(definitions, exp)
				}
			}
		case "expression_statement":
			if names, ok := p.processPublicList(child, source); ok {
				hasPublicList = true
				public = append(public, names...)
			}
		}
	}

	if hasPublicList {
		return public
	}
	return definitions
}

func (p *PythonParser) processDefinition(node *sitter.Node, source []byte) (model.ExportRecord, bool) {
	name := node.ChildByFieldName("name")
	if name == nil {
		return model.ExportRecord{}, false
	}

	symbol := nodeText(name, source)
	if strings.HasPrefix(symbol, "_") {
		return model.ExportRecord{}, false
	}

	kind := model.ExportFunction
	if node.Type() == "class_definition" {
		kind = model.ExportClass
	}

	return model.ExportRecord{Name: symbol, Line: lineOf(node), Kind: kind}, true
}

// processPublicList reads __all__ = [...] and __all__ += [...]
func (p *PythonParser) processPublicList(node *sitter.Node, source []byte) ([]model.ExportRecord, bool) {
	var exports []model.ExportRecord
	found := false

	for i := 0; i < int(node.NamedChildCount()); i++ {
		assignment := node.NamedChild(i)
		if assignment.Type() != "assignment" && assignment.Type() != "augmented_assignment" {
			continue
		}

		left := assignment.ChildByFieldName("left")
		right := assignment.ChildByFieldName("right")
		if left == nil || right == nil || nodeText(left, source) != publicListName {
			continue
		}
		found = true

		for j := 0; j < int(right.NamedChildCount()); j++ {
			item := right.NamedChild(j)
			if item.Type() != "string" {
				continue
			}
			if name := ExtractStringValue(item, source); name != "" {
				exports = append(exports, model.ExportRecord{Name: name, Line: lineOf(item), Kind: model.ExportPublic})
			}
		}
	}

	return exports, found
}

func (p *PythonParser) ExtractImports(node *sitter.Node, source []byte) []model.DependencyReference {
	var refs []model.DependencyReference

	WalkAST(node, source, func(n *sitter.Node) {
		switch n.Type() {
		case "import_statement":
			refs = append(refs, p.processImportStatement(n, source)...)
		case "import_from_statement":
			if ref, ok := p.processImportFromStatement(n, source); ok {
				refs = append(refs, ref)
			}
		}
	})

	return model.MergeReferences(refs)
}

// processImportStatement handles import a.b and import a.b as c; the bound name is the local one
func (p *PythonParser) processImportStatement(node *sitter.Node, source []byte) []model.DependencyReference {
	var refs []model.DependencyReference
	line := lineOf(node)

	for i := 0; i < int(node.NamedChildCount()); i++ {
		child := node.NamedChild(i)

		switch child.Type() {
		case "dotted_name":
			moduleName := nodeText(child, source)
			head := strings.SplitN(moduleName, ".", 2)[0]
			refs = append(refs, newReference(moduleName, line, []string{head}))
		case "aliased_import":
			name := child.ChildByFieldName("name")
			alias := child.ChildByFieldName("alias")
			if name == nil {
				continue
			}
			var names []string
			if alias != nil {
				names = append(names, nodeText(alias, source))
			}
			refs = append(refs, newReference(nodeText(name, source), line, names))
		}
	}

	return refs
}

// processImportFromStatement handles from .mod import a, b as c; the bound names are the imported ones
func (p *PythonParser) processImportFromStatement(node *sitter.Node, source []byte) (model.DependencyReference, bool) {
	var moduleName string
	var symbols []string
	afterImport := false

	for i := 0; i < int(node.ChildCount()); i++ {
		child := node.Child(i)

		switch child.Type() {
		case "import":
			afterImport = true
		case "relative_import", "dotted_name":
			if !afterImport {
				moduleName = nodeText(child, source)
			} else {
				symbols = append(symbols, nodeText(child, source))
			}
		case "aliased_import":
			if name := child.ChildByFieldName("name"); name != nil {
				symbols = append(symbols, nodeText(name, source))
			}
		}
	}

	if moduleName == "" {
		return model.DependencyReference{}, false
	}

	return newReference(moduleName, lineOf(node), symbols), true
}
