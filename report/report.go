// Package report renders an analysis report as JSON, text or SARIF.
package report

import (
	"fmt"
	"io"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
)

type Format string

const (
	FormatText  Format = "text"
	FormatJSON  Format = "json"
	FormatSARIF Format = "sarif"
)

// ParseFormat accepts a format name case-insensitively
func ParseFormat(name string) (Format, error) {
	switch f := Format(strings.ToLower(strings.TrimSpace(name))); f {
	case FormatText, FormatJSON, FormatSARIF:
		return f, nil
	default:
		return "", fmt.Errorf("unknown output format %q (want text, json or sarif)", name)
	}
}

// Write renders r in the given format
func Write(w io.Writer, format Format, r *model.Report) error {
	switch format {
	case FormatJSON:
		return WriteJSON(w, r)
	case FormatSARIF:
		return WriteSARIF(w, r)
	case FormatText:
		return WriteText(w, r)
	default:
		return fmt.Errorf("unknown output format %q", format)
	}
}
