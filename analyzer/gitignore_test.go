package analyzer

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGitignoreParser(t *testing.T) {
	root := t.TempDir()
	ignore := "# comment\n\nbuild/\n*.log\n!important.log\n/top.js\ndocs/*.js\n"
	require.NoError(t, os.WriteFile(filepath.Join(root, ".gitignore"), []byte(ignore), 0o644))

	gp := NewGitignoreParser(root)

	tests := []struct {
		path  string
		isDir bool
		want  bool
	}{
		{"build", true, true},
		{"src/build", true, true},
		{"build", false, false},
		{"debug.log", false, true},
		{"logs/debug.log", false, true},
		{"important.log", false, false},
		{"top.js", false, true},
		{"src/top.js", false, false},
		{"docs/a.js", false, true},
		{"docs/deep/a.js", false, false},
		{"src/a.js", false, false},
		{".", true, false},
	}

	for _, tt := range tests {
		t.Run(tt.path, func(t *testing.T) {
			assert.Equal(t, tt.want, gp.ShouldIgnore(filepath.Join(root, tt.path), tt.isDir))
		})
	}
}

func TestGitignoreParserMissingFile(t *testing.T) {
	gp := NewGitignoreParser(t.TempDir())
	assert.False(t, gp.ShouldIgnore(filepath.Join(t.TempDir(), "anything.js"), false))
}
