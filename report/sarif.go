package report

import (
	"encoding/json"
	"io"
	"net/url"
	"path/filepath"

	"github.com/hannajonsd/structural-analysis/model"
)

const (
	ToolName    = "structcheck"
	ToolVersion = "0.1.0"

	sarifSchema = "https://raw.githubusercontent.com/oasis-tcs/sarif-spec/master/Schemata/sarif-schema-2.1.0.json"
)

type sarifOutput struct {
	Version string     `json:"version"`
	Schema  string     `json:"$schema"`
	Runs    []sarifRun `json:"runs"`
}

type sarifRun struct {
	Tool    sarifTool     `json:"tool"`
	Results []sarifResult `json:"results"`
}

type sarifTool struct {
	Driver sarifDriver `json:"driver"`
}

type sarifDriver struct {
	Name    string      `json:"name"`
	Version string      `json:"version"`
	Rules   []sarifRule `json:"rules"`
}

type sarifRule struct {
	ID                   string             `json:"id"`
	Name                 string             `json:"name"`
	ShortDescription     sarifMessage       `json:"shortDescription"`
	DefaultConfiguration sarifConfiguration `json:"defaultConfiguration"`
}

type sarifConfiguration struct {
	Level string `json:"level"`
}

type sarifResult struct {
	RuleID              string            `json:"ruleId"`
	Level               string            `json:"level"`
	Message             sarifMessage      `json:"message"`
	Locations           []sarifLocation   `json:"locations,omitempty"`
	PartialFingerprints map[string]string `json:"partialFingerprints,omitempty"`
}

type sarifLocation struct {
	PhysicalLocation sarifPhysicalLocation `json:"physicalLocation"`
}

type sarifPhysicalLocation struct {
	ArtifactLocation sarifArtifactLocation `json:"artifactLocation"`
	Region           *sarifRegion          `json:"region,omitempty"`
}

type sarifArtifactLocation struct {
	URI string `json:"uri"`
}

type sarifRegion struct {
	StartLine int `json:"startLine"`
}

type sarifMessage struct {
	Text string `json:"text"`
}

var ruleIDs = map[string]string{
	model.RuleCircularDependency: "STRUCT001",
	model.RuleUnusedExport:       "STRUCT002",
}

func WriteSARIF(w io.Writer, r *model.Report) error {
	rules := []sarifRule{
		{
			ID:                   "STRUCT001",
			Name:                 "CircularDependency",
			ShortDescription:     sarifMessage{Text: "Files import each other in a cycle"},
			DefaultConfiguration: sarifConfiguration{Level: "error"},
		},
		{
			ID:                   "STRUCT002",
			Name:                 "UnusedExport",
			ShortDescription:     sarifMessage{Text: "Exported symbol is never imported"},
			DefaultConfiguration: sarifConfiguration{Level: "warning"},
		},
	}

	results := make([]sarifResult, 0, len(r.Structural))
	for _, issue := range r.Structural {
		result := sarifResult{
			RuleID:  ruleIDs[issue.Rule],
			Level:   string(issue.Severity),
			Message: sarifMessage{Text: issue.Message},
		}
		if issue.File != "" {
			loc := sarifLocation{
				PhysicalLocation: sarifPhysicalLocation{
					ArtifactLocation: sarifArtifactLocation{URI: fileURI(issue.File)},
				},
			}
			if issue.Line > 0 {
				loc.PhysicalLocation.Region = &sarifRegion{StartLine: issue.Line}
			}
			result.Locations = []sarifLocation{loc}
		}
		if issue.Fingerprint != "" {
			result.PartialFingerprints = map[string]string{"structuralFingerprint/v1": issue.Fingerprint}
		}
		results = append(results, result)
	}

	out := sarifOutput{
		Version: "2.1.0",
		Schema:  sarifSchema,
		Runs: []sarifRun{
			{
				Tool: sarifTool{
					Driver: sarifDriver{
						Name:    ToolName,
						Version: ToolVersion,
						Rules:   rules,
					},
				},
				Results: results,
			},
		},
	}

	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(out)
}

func fileURI(path string) string {
	if !filepath.IsAbs(path) {
		return filepath.ToSlash(path)
	}
	u := url.URL{Scheme: "file", Path: filepath.ToSlash(path)}
	return u.String()
}
