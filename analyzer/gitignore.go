package analyzer

import (
	"bufio"
	"os"
	"path"
	"path/filepath"
	"strings"
)

type ignoreRule struct {
	pattern  string
	negate   bool
	dirOnly  bool
	anchored bool
}

// GitignoreParser applies the root .gitignore of a repository
type GitignoreParser struct {
	rootDir string
	rules   []ignoreRule
}

// NewGitignoreParser creates a new gitignore parser for the given directory
func NewGitignoreParser(rootDir string) *GitignoreParser {
	parser := &GitignoreParser{
		rootDir: rootDir,
	}
	parser.loadGitignore()
	return parser
}

// loadGitignore reads and parses the .gitignore file
func (gp *GitignoreParser) loadGitignore() {
	file, err := os.Open(filepath.Join(gp.rootDir, ".gitignore"))
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}

		var rule ignoreRule
		if strings.HasPrefix(line, "!") {
			rule.negate = true
			line = line[1:]
		}
		if strings.HasSuffix(line, "/") {
			rule.dirOnly = true
			line = strings.TrimSuffix(line, "/")
		}
		if strings.HasPrefix(line, "/") {
			rule.anchored = true
			line = strings.TrimPrefix(line, "/")
		} else if strings.Contains(line, "/") {
			rule.anchored = true
		}
		if line == "" {
			continue
		}

		rule.pattern = line
		gp.rules = append(gp.rules, rule)
	}
}

// ShouldIgnore reports whether path is excluded; the last matching rule wins
func (gp *GitignoreParser) ShouldIgnore(fullPath string, isDir bool) bool {
	relPath, err := filepath.Rel(gp.rootDir, fullPath)
	if err != nil || relPath == "." {
		return false
	}
	relPath = filepath.ToSlash(relPath)

	ignored := false
	for _, rule := range gp.rules {
		if rule.matches(relPath, isDir) {
			ignored = !rule.negate
		}
	}
	return ignored
}

func (r ignoreRule) matches(relPath string, isDir bool) bool {
	if r.dirOnly && !isDir {
		return false
	}

	if r.anchored {
		ok, _ := path.Match(r.pattern, relPath)
		return ok
	}

	// unanchored patterns match the final path element at any depth
	ok, _ := path.Match(r.pattern, path.Base(relPath))
	return ok
}
