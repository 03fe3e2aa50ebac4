package analyzer

import (
	"bytes"
	"context"
	"log/slog"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hannajonsd/structural-analysis/model"
)

func js(path, text string) model.SourceFile {
	return model.SourceFile{Path: path, Text: text, Language: "javascript"}
}

func analyze(t *testing.T, files ...model.SourceFile) *model.Report {
	t.Helper()
	report, err := New(WithWorkers(2)).Analyze(context.Background(), files)
	require.NoError(t, err)
	return report
}

func unusedNames(r *model.Report) []string {
	var names []string
	for _, issue := range r.Structural {
		if issue.Rule == model.RuleUnusedExport {
			names = append(names, issue.ExportName)
		}
	}
	return names
}

func TestAnalyzeUnusedExports(t *testing.T) {
	report := analyze(t,
		js("/p/a.js", "export function used() {}\nexport function unused() {}\n"),
		js("/p/b.js", "import { used } from './a';\nexport const helperB = 1;\n"),
		js("/p/c.js", "export class orphaned {}\n"),
	)

	assert.Equal(t, 3, report.FilesAnalyzed)
	assert.Equal(t, []string{"unused", "helperB", "orphaned"}, unusedNames(report))
	assert.Equal(t, model.Summary{UnusedExports: 3, CircularDependencies: 0, TotalIssues: 3}, report.Summary)
	assert.Empty(t, report.ParseFallbacks)
}

func TestAnalyzeTwoFileCycle(t *testing.T) {
	report := analyze(t,
		js("/p/a.js", "import { b } from './b';\nexport function a() {}\n"),
		js("/p/b.js", "import { a } from './a';\nexport function b() {}\n"),
	)

	require.Equal(t, 1, report.Summary.CircularDependencies)
	require.Equal(t, 1, report.Summary.TotalIssues)

	issue := report.Structural[0]
	assert.Equal(t, model.RuleCircularDependency, issue.Rule)
	assert.Equal(t, model.SeverityError, issue.Severity)
	assert.Equal(t, []string{"/p/a.js", "/p/b.js", "/p/a.js"}, issue.Cycle)
	assert.Equal(t, "/p/a.js", issue.File)
	assert.Equal(t, 1, issue.Line)
	assert.Equal(t, 1, issue.CycleIndex)
	assert.True(t, report.HasErrors())
}

func TestAnalyzeEmpty(t *testing.T) {
	for _, files := range [][]model.SourceFile{nil, {}} {
		report := analyze(t, files...)

		assert.Equal(t, 0, report.FilesAnalyzed)
		assert.NotNil(t, report.Structural)
		assert.Empty(t, report.Structural)
		assert.Equal(t, model.Summary{}, report.Summary)
	}
}

func TestAnalyzeSyntaxErrorFallsBack(t *testing.T) {
	var logs bytes.Buffer
	logger := slog.New(slog.NewTextHandler(&logs, nil))

	files := []model.SourceFile{
		js("/p/broken.js", "import { helper } from './util';\nexport function broken() {\n  if (\n}\n"),
		js("/p/util.js", "export function helper() {}\nexport function spare() {}\n"),
	}
	report, err := New(WithLogger(logger)).Analyze(context.Background(), files)
	require.NoError(t, err)

	assert.Equal(t, 2, report.FilesAnalyzed)
	assert.Equal(t, []string{"/p/broken.js"}, report.ParseFallbacks)
	assert.Equal(t, []string{"broken", "spare"}, unusedNames(report), "helper is bound by the recovered import")
	assert.Contains(t, logs.String(), "structural parse failed")
	assert.Contains(t, logs.String(), "/p/broken.js")
}

func TestAnalyzeDefaultExportNeverUnused(t *testing.T) {
	report := analyze(t,
		js("/p/a.js", "export default function () {}\n"),
		js("/p/b.js", "const x = 1;\nexport { x as default };\n"),
		model.SourceFile{Path: "/p/c.py", Language: "python", Text: "x = 1\n"},
	)

	assert.Empty(t, report.Structural)
}

func TestAnalyzeSelfImport(t *testing.T) {
	report := analyze(t,
		js("/p/self.js", "import { me } from './self';\nexport function me() {}\n"),
	)

	require.Equal(t, 1, report.Summary.CircularDependencies)
	assert.Equal(t, 0, report.Summary.UnusedExports)
	assert.Equal(t, []string{"/p/self.js", "/p/self.js"}, report.Structural[0].Cycle)
}

func TestAnalyzeSortsErrorsFirst(t *testing.T) {
	report := analyze(t,
		js("/p/a.js", "export const lonely = 1;\n"),
		js("/p/x.js", "import './y';\n"),
		js("/p/y.js", "import './x';\n"),
	)

	require.Len(t, report.Structural, 2)
	assert.Equal(t, model.SeverityError, report.Structural[0].Severity)
	assert.Equal(t, "/p/x.js", report.Structural[0].File)
	assert.Equal(t, model.SeverityWarning, report.Structural[1].Severity)
	assert.Equal(t, "/p/a.js", report.Structural[1].File)
}

func TestAnalyzeMixedLanguages(t *testing.T) {
	report := analyze(t,
		model.SourceFile{Path: "/p/pkg/__init__.py", Language: "python", Text: "from .core import run\n"},
		model.SourceFile{Path: "/p/pkg/core.py", Language: "python", Text: "from . import helpers\n\ndef run():\n    pass\n"},
		model.SourceFile{Path: "/p/pkg/helpers.py", Language: "python", Text: "def helpers():\n    pass\n\ndef stale():\n    pass\n"},
		model.SourceFile{Path: "/p/web/app.ts", Language: "typescript", Text: "import { Props } from './types';\n"},
		model.SourceFile{Path: "/p/web/types.ts", Language: "typescript", Text: "export interface Props {}\nexport type Unused = string;\n"},
		model.SourceFile{Path: "/p/README.md", Language: "markdown", Text: "# readme\n"},
	)

	assert.Equal(t, 6, report.FilesAnalyzed)
	assert.Equal(t, []string{"stale", "Unused"}, unusedNames(report))
	assert.Equal(t, 1, report.Summary.CircularDependencies, "__init__ and core import each other")
	assert.Equal(t, []string{"/p/pkg/__init__.py", "/p/pkg/core.py", "/p/pkg/__init__.py"}, report.Structural[0].Cycle)
}

func TestAnalyzeIdempotent(t *testing.T) {
	files := []model.SourceFile{
		js("/p/a.js", "import { b } from './b';\nexport const a = 1;\nexport const extra = 2;\n"),
		js("/p/b.js", "import { c } from './c';\nexport const b = 1;\n"),
		js("/p/c.js", "import { a } from './a';\nexport const c = 1;\nexport const more = 2;\n"),
		js("/p/d.js", "import { d } from './d';\nexport const d = 1;\n"),
	}

	first := analyze(t, files...)
	for i := 0; i < 5; i++ {
		again, err := New(WithWorkers(i + 1)).Analyze(context.Background(), files)
		require.NoError(t, err)
		assert.Equal(t, first, again)
	}
}

func TestAnalyzeInvalidInput(t *testing.T) {
	tests := map[string][]model.SourceFile{
		"empty path":     {js("/p/a.js", ""), js("", "")},
		"duplicate path": {js("/p/a.js", ""), js("/p/a.js", "")},
	}

	for name, files := range tests {
		t.Run(name, func(t *testing.T) {
			report, err := New().Analyze(context.Background(), files)
			assert.ErrorIs(t, err, ErrInvalidInput)
			assert.Nil(t, report)
		})
	}
}

func TestAnalyzeCancelled(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	report, err := New().Analyze(ctx, []model.SourceFile{js("/p/a.js", "export const a = 1;\n")})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Nil(t, report)
}
