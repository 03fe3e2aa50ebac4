package extract

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
)

// Stage records which extraction path produced a Result
type Stage int

const (
	StageNone Stage = iota
	StageStructural
	StageFallback
)

func (s Stage) String() string {
	switch s {
	case StageStructural:
		return "structural"
	case StageFallback:
		return "fallback"
	default:
		return "none"
	}
}

// Result is the outcome of extracting one file.
// ParseErr is set when the structural stage was attempted and rejected.
type Result struct {
	File         string
	Language     string
	Stage        Stage
	Declarations model.Declarations
	ParseErr     error
}

// languageAliases maps tags an external detector may emit onto strategy names
var languageAliases = map[string]string{
	"js":         "javascript",
	"jsx":        "javascript",
	"mjs":        "javascript",
	"cjs":        "javascript",
	"node":       "javascript",
	"ts":         "typescript",
	"tsx":        "typescript",
	"py":         "python",
	"python3":    "python",
	"javascript": "javascript",
	"typescript": "typescript",
	"python":     "python",
}

// Extractor selects a Strategy per file by language tag
type Extractor struct {
	strategies map[string]Strategy
}

// New creates an Extractor; with no strategies the built-in ones are registered
func New(strategies ...Strategy) *Extractor {
	if len(strategies) == 0 {
		strategies = DefaultStrategies()
	}

	e := &Extractor{strategies: make(map[string]Strategy, len(strategies))}
	for _, s := range strategies {
		e.Register(s)
	}
	return e
}

// Register adds or replaces the strategy for s.Language()
func (e *Extractor) Register(s Strategy) {
	e.strategies[strings.ToLower(s.Language())] = s
}

// Languages lists the registered language tags in sorted order
func (e *Extractor) Languages() []string {
	langs := make([]string, 0, len(e.strategies))
	for lang := range e.strategies {
		langs = append(langs, lang)
	}
	sort.Strings(langs)
	return langs
}

func (e *Extractor) strategyFor(language string) (Strategy, bool) {
	tag := strings.ToLower(strings.TrimSpace(language))
	if s, ok := e.strategies[tag]; ok {
		return s, true
	}
	if canonical, ok := languageAliases[tag]; ok {
		s, ok := e.strategies[canonical]
		return s, ok
	}
	return nil, false
}

// Extract never fails: an unknown language yields StageNone and a structural
// failure degrades to the strategy's pattern scan.
func (e *Extractor) Extract(ctx context.Context, file model.SourceFile) Result {
	result := Result{File: file.Path, Language: file.Language}

	s, ok := e.strategyFor(file.Language)
	if !ok {
		return result
	}
	result.Language = s.Language()

	decls, err := structural(ctx, s, file)
	if err == nil {
		result.Stage = StageStructural
		result.Declarations = finish(s, file.Path, decls)
		return result
	}

	if !errors.Is(err, ErrNoParser) {
		result.ParseErr = err
	}

	if decls, ok := s.Fallback(file); ok {
		result.Stage = StageFallback
		result.Declarations = finish(s, file.Path, decls)
	}
	return result
}

// structural turns a panicking walker into an ordinary parse failure
func structural(ctx context.Context, s Strategy, file model.SourceFile) (decls model.Declarations, err error) {
	defer func() {
		if r := recover(); r != nil {
			decls = model.Declarations{}
			err = fmt.Errorf("%s walker panicked: %v", s.Language(), r)
		}
	}()
	return s.Structural(ctx, file)
}

func finish(s Strategy, path string, decls model.Declarations) model.Declarations {
	for i := range decls.Exports {
		decls.Exports[i].File = path
	}
	for i := range decls.References {
		ref := &decls.References[i]
		ref.File = path
		ref.Relative = model.IsRelativeSource(ref.Source)
		ref.Path = s.ModulePath(ref.Source)
	}
	return decls
}
