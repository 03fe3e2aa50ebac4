// Package analyzer runs the cross-file structural analysis over a set of
// source files and produces a report of unused exports and import cycles.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"runtime"
	"sort"

	"golang.org/x/sync/errgroup"

	"github.com/hannajonsd/structural-analysis/extract"
	"github.com/hannajonsd/structural-analysis/graph"
	"github.com/hannajonsd/structural-analysis/model"
	"github.com/hannajonsd/structural-analysis/resolve"
	"github.com/hannajonsd/structural-analysis/unused"
)

// ErrInvalidInput is returned when the file list is malformed
var ErrInvalidInput = errors.New("invalid analysis input")

// StructuralAnalyzer extracts declarations from every file in parallel, then
// builds the dependency graph and runs the detectors on a single goroutine.
type StructuralAnalyzer struct {
	extractor *extract.Extractor
	logger    *slog.Logger
	workers   int
	cacheSize int
}

type Option func(*StructuralAnalyzer)

func WithLogger(logger *slog.Logger) Option {
	return func(a *StructuralAnalyzer) {
		if logger != nil {
			a.logger = logger
		}
	}
}

// WithWorkers bounds parallel extraction; values below one mean runtime.NumCPU()
func WithWorkers(n int) Option {
	return func(a *StructuralAnalyzer) {
		if n > 0 {
			a.workers = n
		}
	}
}

func WithExtractor(e *extract.Extractor) Option {
	return func(a *StructuralAnalyzer) {
		if e != nil {
			a.extractor = e
		}
	}
}

func WithResolverCacheSize(n int) Option {
	return func(a *StructuralAnalyzer) {
		a.cacheSize = n
	}
}

// New creates a new structural analyzer instance
func New(opts ...Option) *StructuralAnalyzer {
	a := &StructuralAnalyzer{
		logger:    slog.New(slog.NewTextHandler(io.Discard, nil)),
		workers:   runtime.NumCPU(),
		cacheSize: resolve.DefaultCacheSize,
	}
	for _, opt := range opts {
		opt(a)
	}
	if a.extractor == nil {
		a.extractor = extract.New()
	}
	return a
}

// Analyze runs both phases over files. It fails only on malformed input or a
// cancelled context; per-file parse problems degrade to pattern scanning.
func (a *StructuralAnalyzer) Analyze(ctx context.Context, files []model.SourceFile) (*model.Report, error) {
	if err := validate(files); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	a.logger.Debug("extracting declarations", "files", len(files), "workers", a.workers)
	results, err := a.extractAll(ctx, files)
	if err != nil {
		return nil, err
	}

	var (
		paths     = make([]string, 0, len(files))
		exports   []model.ExportRecord
		refs      []model.DependencyReference
		fallbacks []string
	)
	for i, res := range results {
		paths = append(paths, files[i].Path)
		exports = append(exports, res.Declarations.Exports...)
		refs = append(refs, res.Declarations.References...)

		switch {
		case res.ParseErr != nil:
			fallbacks = append(fallbacks, res.File)
			a.logger.Warn("structural parse failed, using pattern scan",
				"file", res.File, "language", res.Language, "error", res.ParseErr)
		case res.Stage == extract.StageNone:
			a.logger.Debug("no extractor for language", "file", res.File, "language", res.Language)
		}
	}
	sort.Strings(fallbacks)

	resolver := resolve.New(paths, resolve.WithCacheSize(a.cacheSize))
	g := graph.Build(paths, refs, resolver)
	if a.logger.Enabled(ctx, slog.LevelDebug) {
		a.logGraph(ctx, g)
	}

	issues := graph.DetectCircularDependencies(g)
	issues = append(issues, unused.Detect(exports, refs)...)
	SortIssues(issues)

	return &model.Report{
		FilesAnalyzed:  len(files),
		Structural:     issues,
		Summary:        model.Summarize(issues),
		ParseFallbacks: fallbacks,
	}, nil
}

// extractAll is the parallel phase; each task writes only its own slot
func (a *StructuralAnalyzer) extractAll(ctx context.Context, files []model.SourceFile) ([]extract.Result, error) {
	results := make([]extract.Result, len(files))

	g, gctx := errgroup.WithContext(ctx)
	g.SetLimit(a.workers)
	for i := range files {
		i := i // per-iteration copy (go directive < 1.22)
		g.Go(func() error {
			if err := gctx.Err(); err != nil {
				return err
			}
			results[i] = a.extractor.Extract(gctx, files[i])
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

func (a *StructuralAnalyzer) logGraph(ctx context.Context, g *graph.Graph) {
	unresolved := 0
	for _, edge := range g.Edges() {
		if !edge.Resolved {
			unresolved++
			a.logger.DebugContext(ctx, "unresolved relative import",
				"file", edge.From, "source", edge.Source, "line", edge.Line)
		}
	}
	a.logger.DebugContext(ctx, "dependency graph built",
		"files", g.Len(), "edges", len(g.Edges()), "unresolved", unresolved)

	for _, cluster := range g.StronglyConnected() {
		a.logger.DebugContext(ctx, "strongly connected files", "size", len(cluster), "files", cluster)
	}
}

func validate(files []model.SourceFile) error {
	seen := make(map[string]int, len(files))
	for i, f := range files {
		if f.Path == "" {
			return fmt.Errorf("%w: file %d has an empty path", ErrInvalidInput, i)
		}
		if first, dup := seen[f.Path]; dup {
			return fmt.Errorf("%w: file %d repeats path %q of file %d", ErrInvalidInput, i, f.Path, first)
		}
		seen[f.Path] = i
	}
	return nil
}

// SortIssues orders errors before warnings, then by file. The sort is stable
// so each detector's own ordering survives within a file.
func SortIssues(issues []model.StructuralIssue) {
	sort.SliceStable(issues, func(i, j int) bool {
		a, b := issues[i], issues[j]
		if a.Severity.Rank() != b.Severity.Rank() {
			return a.Severity.Rank() < b.Severity.Rank()
		}
		return a.File < b.File
	})
}
