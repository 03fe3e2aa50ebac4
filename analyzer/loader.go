package analyzer

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/hannajonsd/structural-analysis/model"
	"github.com/hannajonsd/structural-analysis/parser"
)

// skippedDirs are dependency and build output directories never analyzed
var skippedDirs = map[string]bool{
	"node_modules": true,
	"__pycache__":  true,
	"vendor":       true,
	"build":        true,
	"dist":         true,
	"coverage":     true,
	"venv":         true,
	"env":          true,
}

// DetectLanguage determines the language tag based on file extension
func DetectLanguage(filePath string) string {
	switch strings.ToLower(filepath.Ext(filePath)) {
	case ".js", ".jsx", ".mjs", ".cjs":
		return parser.LanguageJavaScript
	case ".ts", ".tsx", ".mts", ".cts":
		if strings.HasSuffix(strings.ToLower(filePath), ".d.ts") {
			return ""
		}
		return parser.LanguageTypeScript
	case ".py":
		return parser.LanguagePython
	default:
		return ""
	}
}

// LoadRepository reads every supported source file under root. Paths are
// absolute and come back in lexical order.
func LoadRepository(root string) ([]model.SourceFile, error) {
	root, err := filepath.Abs(root)
	if err != nil {
		return nil, fmt.Errorf("failed to resolve %s: %w", root, err)
	}

	info, err := os.Stat(root)
	if err != nil {
		return nil, fmt.Errorf("failed to open repository: %w", err)
	}
	if !info.IsDir() {
		return nil, fmt.Errorf("%s is not a directory", root)
	}

	var files []model.SourceFile
	gitignoreParser := NewGitignoreParser(root)

	err = filepath.WalkDir(root, func(path string, d os.DirEntry, err error) error {
		if err != nil {
			return err
		}
		if path == root {
			return nil
		}

		if d.IsDir() {
			name := d.Name()
			if strings.HasPrefix(name, ".") || skippedDirs[name] || strings.HasSuffix(name, ".egg-info") ||
				gitignoreParser.ShouldIgnore(path, true) {
				return filepath.SkipDir
			}
			return nil
		}

		language := DetectLanguage(path)
		if language == "" || gitignoreParser.ShouldIgnore(path, false) {
			return nil
		}

		content, err := os.ReadFile(path)
		if err != nil {
			return fmt.Errorf("failed to read %s: %w", path, err)
		}
		files = append(files, model.SourceFile{Path: path, Text: string(content), Language: language})
		return nil
	})
	if err != nil {
		return nil, fmt.Errorf("failed to find source files: %w", err)
	}

	return files, nil
}
