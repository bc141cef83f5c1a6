package runtime

import (
	"path/filepath"
	"slices"
	"strings"
	"sync"

	sitter "github.com/smacker/go-tree-sitter"
	"github.com/smacker/go-tree-sitter/golang"
	"github.com/smacker/go-tree-sitter/javascript"
	"github.com/smacker/go-tree-sitter/python"
	"github.com/smacker/go-tree-sitter/rust"
)

// grammar is one language the analyzer can parse. Languages without a
// classify/<name>.risor script fall back to DefaultClassifyScript.
type grammar struct {
	name       string
	extensions []string
	language   func() *sitter.Language
}

func lazy(get func() *sitter.Language) func() *sitter.Language {
	return sync.OnceValue(get)
}

// grammars is kept sorted by name.
var grammars = []grammar{
	{name: "go", extensions: []string{".go"}, language: lazy(golang.GetLanguage)},
	{name: "javascript", extensions: []string{".js", ".jsx", ".mjs", ".cjs"}, language: lazy(javascript.GetLanguage)},
	{name: "python", extensions: []string{".py", ".pyi"}, language: lazy(python.GetLanguage)},
	{name: "rust", extensions: []string{".rs"}, language: lazy(rust.GetLanguage)},
}

func lookupGrammar(match func(grammar) bool) (grammar, bool) {
	i := slices.IndexFunc(grammars, match)
	if i < 0 {
		return grammar{}, false
	}
	return grammars[i], true
}

// LanguageForFile names the language of path by its extension, ignoring case.
func LanguageForFile(path string) (string, bool) {
	ext := strings.ToLower(filepath.Ext(path))
	if ext == "" {
		return "", false
	}
	g, ok := lookupGrammar(func(g grammar) bool { return slices.Contains(g.extensions, ext) })
	return g.name, ok
}

// ParserForLanguage returns the tree-sitter grammar for a language name.
func ParserForLanguage(lang string) (*sitter.Language, bool) {
	g, ok := lookupGrammar(func(g grammar) bool { return g.name == lang })
	if !ok {
		return nil, false
	}
	return g.language(), true
}

// Languages returns the supported language names in sorted order.
func Languages() []string {
	names := make([]string, len(grammars))
	for i, g := range grammars {
		names[i] = g.name
	}
	return names
}
