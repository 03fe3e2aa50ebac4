package extract

import (
	"context"
	"errors"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
	"github.com/hannajonsd/structural-analysis/parser"
	"github.com/hannajonsd/structural-analysis/scan"
)

// ErrNoParser is returned by Structural for strategies built from patterns only
var ErrNoParser = errors.New("no structural parser for language")

// Strategy extracts declarations for one language.
// Structural is always tried first; Fallback runs when it returns an error.
type Strategy interface {
	Language() string
	Structural(ctx context.Context, file model.SourceFile) (model.Declarations, error)
	Fallback(file model.SourceFile) (model.Declarations, bool)
	ModulePath(source string) string
}

// ParserFactory creates a fresh structural parser; parsers are not shared between goroutines
type ParserFactory func(filePath string) (parser.Parser, error)

type strategy struct {
	language   string
	newParser  ParserFactory
	patterns   *scan.PatternSet
	modulePath func(string) string
}

// NewStrategy builds a Strategy from a parser factory, a pattern set, or both.
// A nil modulePath keeps module texts as written.
func NewStrategy(language string, newParser ParserFactory, patterns *scan.PatternSet, modulePath func(string) string) Strategy {
	if modulePath == nil {
		modulePath = ScriptModulePath
	}
	return &strategy{
		language:   language,
		newParser:  newParser,
		patterns:   patterns,
		modulePath: modulePath,
	}
}

func (s *strategy) Language() string {
	return s.language
}

func (s *strategy) Structural(ctx context.Context, file model.SourceFile) (model.Declarations, error) {
	if s.newParser == nil {
		return model.Declarations{}, ErrNoParser
	}

	p, err := s.newParser(file.Path)
	if err != nil {
		return model.Declarations{}, err
	}
	defer p.Close()

	result, err := p.Parse(ctx, []byte(file.Text))
	if err != nil {
		return model.Declarations{}, err
	}
	defer result.Tree.Close()

	root := result.Tree.RootNode()
	return model.Declarations{
		Exports:    p.ExtractExports(root, result.Source),
		References: p.ExtractImports(root, result.Source),
	}, nil
}

func (s *strategy) Fallback(file model.SourceFile) (model.Declarations, bool) {
	if s.patterns == nil {
		return model.Declarations{}, false
	}
	return s.patterns.Scan(file.Text), true
}

func (s *strategy) ModulePath(source string) string {
	return s.modulePath(source)
}

// ScriptModulePath keeps ECMAScript module specifiers as written
func ScriptModulePath(source string) string {
	return source
}

// PythonModulePath converts a dotted module reference into a relative path:
// ".mod" -> "./mod", "..pkg.mod" -> "../pkg/mod", "." -> "./__init__".
func PythonModulePath(source string) string {
	dots := len(source) - len(strings.TrimLeft(source, "."))
	rest := strings.ReplaceAll(source[dots:], ".", "/")
	if dots == 0 {
		return rest
	}

	prefix := "./"
	if dots > 1 {
		prefix = strings.Repeat("../", dots-1)
	}
	if rest == "" {
		return prefix + "__init__"
	}
	return prefix + rest
}

// DefaultStrategies returns the built-in JavaScript, TypeScript and Python strategies
func DefaultStrategies() []Strategy {
	return []Strategy{
		NewStrategy(parser.LanguageJavaScript, factoryFor(parser.LanguageJavaScript),
			scan.MustLoadPatterns(parser.LanguageJavaScript), ScriptModulePath),
		NewStrategy(parser.LanguageTypeScript, factoryFor(parser.LanguageTypeScript),
			scan.MustLoadPatterns(parser.LanguageTypeScript), ScriptModulePath),
		NewStrategy(parser.LanguagePython, factoryFor(parser.LanguagePython),
			scan.MustLoadPatterns(parser.LanguagePython), PythonModulePath),
	}
}

func factoryFor(language string) ParserFactory {
	return func(filePath string) (parser.Parser, error) {
		return parser.CreateParser(language, filePath)
	}
}
