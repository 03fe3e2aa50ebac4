package model

// Summary counts findings per rule
type Summary struct {
	UnusedExports        int `json:"unusedExports"`
	CircularDependencies int `json:"circularDependencies"`
	TotalIssues          int `json:"totalIssues"`
}

// Report is the result of one analysis run
type Report struct {
	FilesAnalyzed  int               `json:"filesAnalyzed"`
	Structural     []StructuralIssue `json:"structural"`
	Summary        Summary           `json:"summary"`
	ParseFallbacks []string          `json:"parseFallbacks,omitempty"`
}

// Summarize counts the issues of a sorted issue list
func Summarize(issues []StructuralIssue) Summary {
	var s Summary
	for _, issue := range issues {
		switch issue.Rule {
		case RuleUnusedExport:
			s.UnusedExports++
		case RuleCircularDependency:
			s.CircularDependencies++
		}
	}
	s.TotalIssues = len(issues)
	return s
}

// HasErrors reports whether any finding is error severity
func (r *Report) HasErrors() bool {
	for _, issue := range r.Structural {
		if issue.Severity == SeverityError {
			return true
		}
	}
	return false
}
