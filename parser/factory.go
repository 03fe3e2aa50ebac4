package parser

import (
	"errors"
	"fmt"
	"path/filepath"
	"strings"
)

const (
	LanguageJavaScript = "javascript"
	LanguageTypeScript = "typescript"
	LanguagePython     = "python"
)

// ErrUnsupportedLanguage is returned for language tags without a structural parser
var ErrUnsupportedLanguage = errors.New("unsupported language")

// CreateParser creates the structural parser for a language tag.
// The path only selects grammar variants such as TSX.
func CreateParser(language, filePath string) (Parser, error) {
	switch language {
	case LanguageJavaScript:
		return NewJavaScriptParser()
	case LanguageTypeScript:
		return NewTypeScriptParser(strings.EqualFold(filepath.Ext(filePath), ".tsx"))
	case LanguagePython:
		return NewPythonParser()
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnsupportedLanguage, language)
	}
}
