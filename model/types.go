package model

import (
	"sort"
	"strings"
)

// SourceFile is one project file handed to the analyzer
type SourceFile struct {
	Path     string `json:"absolutePath"`
	Text     string `json:"text"`
	Language string `json:"language"`
}

// ExportKind classifies how a symbol is exported
type ExportKind string

const (
	ExportFunction ExportKind = "function"
	ExportClass    ExportKind = "class"
	ExportVariable ExportKind = "variable"
	ExportType     ExportKind = "type"     // interface, type alias, enum
	ExportReexport ExportKind = "reexport" // export { a, b } lists
	ExportDefault  ExportKind = "default"
	ExportPublic   ExportKind = "public" // explicit public-surface list, e.g. __all__
)

// DefaultExportName is the sentinel name recorded for unnamed default exports
const DefaultExportName = "default"

// ExportRecord is one declared export of a file
type ExportRecord struct {
	File string
	Name string
	Line int
	Kind ExportKind
}

// DependencyReference is one module reference found in a file
type DependencyReference struct {
	File     string
	Source   string   // module text as written: "./util", "..pkg.mod", "lodash"
	Path     string   // filesystem-style form of Source used for resolution
	Names    []string // names bound locally by the reference; empty for side-effect imports
	Line     int
	Relative bool
}

// Declarations holds what the extractor found in one file
type Declarations struct {
	Exports    []ExportRecord
	References []DependencyReference
}

// Empty reports whether nothing was extracted
func (d Declarations) Empty() bool {
	return len(d.Exports) == 0 && len(d.References) == 0
}

// IsRelativeSource reports whether a module reference points inside the project
func IsRelativeSource(source string) bool {
	return strings.HasPrefix(source, ".")
}

// ResolvedEdge is a dependency reference after path resolution
type ResolvedEdge struct {
	From     string
	To       string
	Source   string
	Line     int
	Resolved bool
}

// Cycle is a closed walk v0 -> v1 -> ... -> v0 in the dependency graph
type Cycle struct {
	Path      []string
	Signature string
}

// Nodes returns the distinct files of the cycle in walk order
func (c Cycle) Nodes() []string {
	if len(c.Path) < 2 {
		return c.Path
	}
	return c.Path[:len(c.Path)-1]
}

// String renders the walk as "a → b → a"
func (c Cycle) String() string {
	return strings.Join(c.Path, " → ")
}

// NewCycle builds a Cycle from a closed walk and computes its signature
func NewCycle(path []string) Cycle {
	walk := make([]string, len(path))
	copy(walk, path)
	return Cycle{Path: walk, Signature: CycleSignature(walk)}
}

// CycleSignature is the sorted, de-duplicated node set of a walk. Two walks
// over the same files share a signature whatever their order.
func CycleSignature(path []string) string {
	nodes := DeduplicateStrings(path)
	sort.Strings(nodes)
	return strings.Join(nodes, "\x00")
}
