package scan

import (
	"embed"
	"fmt"
	"regexp"

	"gopkg.in/yaml.v3"

	"github.com/hannajonsd/structural-analysis/model"
)

// patternFS holds one YAML pattern set per language.
// Adding a *.yaml file here is enough to give a new language a fallback scanner.
//
//go:embed patterns/*.yaml
var patternFS embed.FS

// Mode controls how a matched group is turned into names
type Mode string

const (
	ModeSingle     Mode = "single"      // the group is one identifier
	ModeList       Mode = "list"        // comma separated names, "a as b" and "a: b" aware
	ModeQuotedList Mode = "quoted_list" // quoted string literals, e.g. __all__ = ["a", "b"]
	ModeFixed      Mode = "fixed"       // no group; the export is the default export
	ModeHead       Mode = "head"        // first segment of a dotted name
)

// PatternSet holds the compiled line patterns for one language
type PatternSet struct {
	Name          string
	StripComments bool
	Exports       []ExportRule
	Imports       []ImportRule
}

// ExportRule turns a matching line into export records
type ExportRule struct {
	Kind          model.ExportKind
	Regex         *regexp.Regexp
	Group         int
	Mode          Mode
	TakeAlias     bool // in list mode, "a as b" exports b
	SkipPrivate   bool // drop names with a leading underscore
	Authoritative bool // when any line matches, only authoritative exports are kept
}

// ImportRule turns a matching line into a dependency reference
type ImportRule struct {
	Regex  *regexp.Regexp
	Source int
	Names  int
	Mode   Mode
}

// rawPatternSet mirrors the YAML structure before regexes are compiled.
type rawPatternSet struct {
	Name     string          `yaml:"name"`
	Comments string          `yaml:"comments"`
	Exports  []rawExportRule `yaml:"exports"`
	Imports  []rawImportRule `yaml:"imports"`
}

type rawExportRule struct {
	Kind          string `yaml:"kind"`
	Pattern       string `yaml:"pattern"`
	Group         int    `yaml:"group"`
	Mode          string `yaml:"mode"`
	Take          string `yaml:"take"`
	SkipPrivate   bool   `yaml:"skip_private"`
	Authoritative bool   `yaml:"authoritative"`
}

type rawImportRule struct {
	Pattern string `yaml:"pattern"`
	Source  int    `yaml:"source"`
	Names   int    `yaml:"names"`
	Mode    string `yaml:"mode"`
}

var exportKinds = map[string]model.ExportKind{
	string(model.ExportFunction): model.ExportFunction,
	string(model.ExportClass):    model.ExportClass,
	string(model.ExportVariable): model.ExportVariable,
	string(model.ExportType):     model.ExportType,
	string(model.ExportReexport): model.ExportReexport,
	string(model.ExportDefault):  model.ExportDefault,
	string(model.ExportPublic):   model.ExportPublic,
}

// LoadPatterns reads and compiles patterns/<lang>.yaml from the embedded FS.
func LoadPatterns(lang string) (*PatternSet, error) {
	data, err := patternFS.ReadFile("patterns/" + lang + ".yaml")
	if err != nil {
		return nil, fmt.Errorf("load patterns for %q: %w", lang, err)
	}

	ps, err := ParsePatterns(data)
	if err != nil {
		return nil, fmt.Errorf("parse %s.yaml: %w", lang, err)
	}
	return ps, nil
}

// MustLoadPatterns is like LoadPatterns but panics on error.
// Safe to call at package-init time since the YAML is embedded at compile time.
func MustLoadPatterns(lang string) *PatternSet {
	ps, err := LoadPatterns(lang)
	if err != nil {
		panic(fmt.Sprintf("scan: %v", err))
	}
	return ps
}

// ParsePatterns compiles a pattern set from a YAML document
func ParsePatterns(data []byte) (*PatternSet, error) {
	var raw rawPatternSet
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return nil, err
	}
	if raw.Name == "" {
		return nil, fmt.Errorf("pattern set has no name")
	}

	ps := &PatternSet{
		Name:          raw.Name,
		StripComments: raw.Comments == "c",
		Exports:       make([]ExportRule, 0, len(raw.Exports)),
		Imports:       make([]ImportRule, 0, len(raw.Imports)),
	}

	for i, r := range raw.Exports {
		rule, err := compileExportRule(r)
		if err != nil {
			return nil, fmt.Errorf("exports[%d]: %w", i, err)
		}
		ps.Exports = append(ps.Exports, rule)
	}

	for i, r := range raw.Imports {
		rule, err := compileImportRule(r)
		if err != nil {
			return nil, fmt.Errorf("imports[%d]: %w", i, err)
		}
		ps.Imports = append(ps.Imports, rule)
	}

	return ps, nil
}

func compileExportRule(r rawExportRule) (ExportRule, error) {
	kind, ok := exportKinds[r.Kind]
	if !ok {
		return ExportRule{}, fmt.Errorf("unknown export kind %q", r.Kind)
	}

	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return ExportRule{}, fmt.Errorf("compile %q: %w", r.Pattern, err)
	}

	mode := Mode(r.Mode)
	if mode == "" {
		mode = ModeSingle
	}
	switch mode {
	case ModeSingle, ModeList, ModeQuotedList, ModeHead:
		if r.Group < 1 || r.Group > re.NumSubexp() {
			return ExportRule{}, fmt.Errorf("group %d out of range for %q", r.Group, r.Pattern)
		}
	case ModeFixed:
	default:
		return ExportRule{}, fmt.Errorf("unknown mode %q", r.Mode)
	}

	switch r.Take {
	case "", "name", "alias":
	default:
		return ExportRule{}, fmt.Errorf("unknown take %q", r.Take)
	}

	return ExportRule{
		Kind:          kind,
		Regex:         re,
		Group:         r.Group,
		Mode:          mode,
		TakeAlias:     r.Take == "alias",
		SkipPrivate:   r.SkipPrivate,
		Authoritative: r.Authoritative,
	}, nil
}

func compileImportRule(r rawImportRule) (ImportRule, error) {
	re, err := regexp.Compile(r.Pattern)
	if err != nil {
		return ImportRule{}, fmt.Errorf("compile %q: %w", r.Pattern, err)
	}
	if r.Source < 1 || r.Source > re.NumSubexp() {
		return ImportRule{}, fmt.Errorf("source group %d out of range for %q", r.Source, r.Pattern)
	}
	if r.Names < 0 || r.Names > re.NumSubexp() {
		return ImportRule{}, fmt.Errorf("names group %d out of range for %q", r.Names, r.Pattern)
	}

	mode := Mode(r.Mode)
	if mode == "" {
		mode = ModeSingle
	}
	switch mode {
	case ModeSingle, ModeList, ModeHead:
	default:
		return ImportRule{}, fmt.Errorf("unknown mode %q", r.Mode)
	}

	return ImportRule{
		Regex:  re,
		Source: r.Source,
		Names:  r.Names,
		Mode:   mode,
	}, nil
}
