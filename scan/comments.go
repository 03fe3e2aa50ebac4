package scan

import (
	"regexp"
	"strings"
)

var (
	blockCommentPattern = regexp.MustCompile(`/\*[\s\S]*?\*/`)
	lineCommentPattern  = regexp.MustCompile(`(?m)(^|[ \t])//.*$`)
)

// removeCComments blanks /* */ and // comments while keeping every newline,
// so line numbers reported by the scan still match the original text.
func removeCComments(content string) string {
	content = blockCommentPattern.ReplaceAllStringFunc(content, func(comment string) string {
		return strings.Repeat("\n", strings.Count(comment, "\n"))
	})

	return lineCommentPattern.ReplaceAllString(content, "$1")
}
