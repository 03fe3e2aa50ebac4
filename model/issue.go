package model

import (
	"fmt"
	"strings"

	"github.com/zeebo/xxh3"
)

// Severity of a structural finding
type Severity string

const (
	SeverityError   Severity = "error"
	SeverityWarning Severity = "warning"
)

// Rank orders severities so that errors sort first
func (s Severity) Rank() int {
	switch s {
	case SeverityError:
		return 0
	case SeverityWarning:
		return 1
	default:
		return 2
	}
}

const (
	RuleUnusedExport       = "unused-export"
	RuleCircularDependency = "circular-dependency"

	issueType = "structural"
)

// StructuralIssue is the diagnostic record produced by the detectors
type StructuralIssue struct {
	Type        string   `json:"type"`
	Severity    Severity `json:"severity"`
	Rule        string   `json:"rule"`
	File        string   `json:"file"`
	Line        int      `json:"line"`
	Message     string   `json:"message"`
	Suggestion  string   `json:"suggestion"`
	ExportName  string   `json:"exportName,omitempty"`
	ExportType  string   `json:"exportType,omitempty"`
	Cycle       []string `json:"cycle,omitempty"`
	CycleIndex  int      `json:"cycleIndex,omitempty"`
	Fingerprint string   `json:"fingerprint"`
}

// NewUnusedExportIssue builds the warning for an export no file binds
func NewUnusedExportIssue(exp ExportRecord) StructuralIssue {
	issue := StructuralIssue{
		Type:       issueType,
		Severity:   SeverityWarning,
		Rule:       RuleUnusedExport,
		File:       exp.File,
		Line:       exp.Line,
		Message:    fmt.Sprintf("Export '%s' is never imported by any file in the project", exp.Name),
		Suggestion: fmt.Sprintf("Remove the export of '%s' or delete it if the symbol is no longer needed", exp.Name),
		ExportName: exp.Name,
		ExportType: string(exp.Kind),
	}
	issue.Fingerprint = fingerprint(issue.Rule, issue.File, exp.Name, string(exp.Kind))
	return issue
}

// NewCircularDependencyIssue builds the error for the index-th (1-based) unique cycle
func NewCircularDependencyIssue(c Cycle, index, line int) StructuralIssue {
	path := make([]string, len(c.Path))
	copy(path, c.Path)

	var file string
	if len(path) > 0 {
		file = path[0]
	}
	if line < 1 {
		line = 1
	}

	issue := StructuralIssue{
		Type:       issueType,
		Severity:   SeverityError,
		Rule:       RuleCircularDependency,
		File:       file,
		Line:       line,
		Message:    fmt.Sprintf("Circular dependency detected: %s", c.String()),
		Suggestion: "Break the cycle by moving the shared code into a separate module or inverting one of the imports",
		Cycle:      path,
		CycleIndex: index,
	}
	issue.Fingerprint = fingerprint(issue.Rule, c.Signature)
	return issue
}

// fingerprint is stable across runs so findings can be matched against a baseline
func fingerprint(parts ...string) string {
	return fmt.Sprintf("%016x", xxh3.HashString(strings.Join(parts, "\x00")))
}
