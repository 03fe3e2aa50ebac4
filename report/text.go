package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
)

// WriteText prints findings grouped by file, followed by a summary
func WriteText(w io.Writer, r *model.Report) error {
	ew := &errWriter{w: w}

	ew.printf("%s\n", strings.Repeat("-", 60))
	ew.printf("STRUCTURAL ANALYSIS\n")

	if len(r.Structural) == 0 {
		if r.FilesAnalyzed == 0 {
			ew.printf("  No source files found to analyze\n")
		} else {
			ew.printf("✅ No structural issues found!\n")
			ew.printf("   Analyzed %d source files\n", r.FilesAnalyzed)
		}
	} else {
		ew.printf("\nFound issues in %d files:\n", countFiles(r.Structural))

		currentFile := ""
		for _, issue := range r.Structural {
			if issue.File != currentFile {
				currentFile = issue.File
				ew.printf("\n %s\n", currentFile)
			}

			switch issue.Rule {
			case model.RuleCircularDependency:
				ew.printf("  ❌ line %d: circular dependency #%d\n", issue.Line, issue.CycleIndex)
				ew.printf("     %s\n", strings.Join(issue.Cycle, " → "))
			default:
				ew.printf("  ⚠️  line %d: unused %s export '%s'\n", issue.Line, issue.ExportType, issue.ExportName)
			}
			ew.printf("       %s\n", issue.Suggestion)
		}
	}

	if len(r.ParseFallbacks) > 0 {
		ew.printf("\nScanned with line patterns after a parse error (%d):\n", len(r.ParseFallbacks))
		for _, file := range r.ParseFallbacks {
			ew.printf("     %s\n", file)
		}
	}

	ew.printf("\n%s\n", strings.Repeat("-", 60))
	ew.printf("SUMMARY\n")
	ew.printf("Files analyzed: %d\n", r.FilesAnalyzed)
	ew.printf("  - Circular dependencies: %d\n", r.Summary.CircularDependencies)
	ew.printf("  - Unused exports: %d\n", r.Summary.UnusedExports)
	ew.printf("Total issues: %d\n", r.Summary.TotalIssues)

	return ew.err
}

func countFiles(issues []model.StructuralIssue) int {
	files := make(map[string]bool)
	for _, issue := range issues {
		files[issue.File] = true
	}
	return len(files)
}

// errWriter keeps the first write error so printing code stays linear
type errWriter struct {
	w   io.Writer
	err error
}

func (ew *errWriter) printf(format string, args ...any) {
	if ew.err != nil {
		return
	}
	_, ew.err = fmt.Fprintf(ew.w, format, args...)
}
