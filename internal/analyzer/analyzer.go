// Package analyzer is a reference analyzer service. It parses source with
// tree-sitter, classifies tokens with the embedded Risor rule scripts, and
// answers POST /analyze with the analysis result wire shape.
//
// It performs no semantic analysis: semanticErrors and symbolTable are
// always absent from its responses.
package analyzer

import (
	"context"
	"errors"
	"fmt"
	"strings"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/runtime"
)

// DefaultLanguage is used when a request names no language.
const DefaultLanguage = "python"

// ErrUnsupportedLanguage is returned for languages without a grammar.
var ErrUnsupportedLanguage = errors.New("unsupported language")

// Service analyzes source code.
type Service struct {
	rt       *runtime.Runtime
	language string
	maxBody  int64
}

// Option configures a Service.
type Option func(*Service)

// WithLanguage sets the language used when a request names none.
func WithLanguage(lang string) Option {
	return func(s *Service) {
		if lang != "" {
			s.language = lang
		}
	}
}

// WithMaxBodyBytes limits the size of request bodies.
func WithMaxBodyBytes(n int64) Option {
	return func(s *Service) {
		s.maxBody = n
	}
}

// New creates a Service that classifies tokens with rt.
func New(rt *runtime.Runtime, opts ...Option) *Service {
	s := &Service{
		rt:       rt,
		language: DefaultLanguage,
		maxBody:  1 << 20,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// Language returns the default language.
func (s *Service) Language() string {
	return s.language
}

// bucket maps token categories to the flat result lists.
var bucket = map[string]func(*prism.Result) *[]string{
	"KEYWORD":     func(r *prism.Result) *[]string { return &r.ReservedWords },
	"OPERATOR":    func(r *prism.Result) *[]string { return &r.Operators },
	"NUMBER":      func(r *prism.Result) *[]string { return &r.Numbers },
	"STRING":      func(r *prism.Result) *[]string { return &r.Strings },
	"COMMENT":     func(r *prism.Result) *[]string { return &r.Comments },
	"PARENTHESIS": func(r *prism.Result) *[]string { return &r.Symbols },
	"BRACKET":     func(r *prism.Result) *[]string { return &r.Symbols },
	"BRACE":       func(r *prism.Result) *[]string { return &r.Symbols },
	"COMMA":       func(r *prism.Result) *[]string { return &r.Symbols },
	"COLON":       func(r *prism.Result) *[]string { return &r.Symbols },
	"SEMICOLON":   func(r *prism.Result) *[]string { return &r.Symbols },
	"DOT":         func(r *prism.Result) *[]string { return &r.Symbols },
	"DELIMITER":   func(r *prism.Result) *[]string { return &r.Symbols },
}

// Analyze parses code as language (the default language when empty) and
// returns the analysis result.
func (s *Service) Analyze(ctx context.Context, code, language string) (*prism.Result, error) {
	if language == "" {
		language = s.language
	}
	language = strings.ToLower(strings.TrimSpace(language))
	lang, ok := runtime.ParserForLanguage(language)
	if !ok {
		return nil, fmt.Errorf("analyzer: %w %q", ErrUnsupportedLanguage, language)
	}

	src := []byte(code)
	parser := sitter.NewParser()
	defer parser.Close()
	parser.SetLanguage(lang)

	tree, err := parser.ParseCtx(ctx, nil, src)
	if err != nil {
		return nil, fmt.Errorf("analyzer: parse: %w", err)
	}
	defer tree.Close()
	root := tree.RootNode()

	w := &walker{src: src, errors: []prism.Diagnostic{}, suggestions: []string{}}
	w.visit(root, "", false)

	categories, err := s.rt.Classify(ctx, language, w.runtimeLeaves())
	if err != nil {
		return nil, fmt.Errorf("analyzer: classify: %w", err)
	}

	valid := len(w.errors) == 0
	res := &prism.Result{
		Tokens:        []prism.Token{},
		SyntaxTree:    buildForest(root, src),
		SyntaxErrors:  w.errors,
		ReservedWords: []string{},
		Operators:     []string{},
		Numbers:       []string{},
		Symbols:       []string{},
		Strings:       []string{},
		Comments:      []string{},
		Suggestions:   w.suggestions,
		SyntaxValid:   &valid,
	}

	li := newLineIndex(src)
	seen := map[string]map[string]bool{}
	identifiers, prev := 0, 0
	for i, l := range w.leaves {
		cat := categories[i]
		res.Tokens = append(res.Tokens, newlines(src, li, prev, l.start)...)
		pos := l.start
		res.Tokens = append(res.Tokens, prism.Token{
			Type:     cat,
			Value:    l.Text,
			Line:     l.Line,
			Column:   l.Column,
			Position: &pos,
		})
		prev = l.end

		if cat == "IDENTIFIER" {
			identifiers++
		}
		if field, ok := bucket[cat]; ok {
			if seen[cat] == nil {
				seen[cat] = map[string]bool{}
			}
			if !seen[cat][l.Text] {
				seen[cat][l.Text] = true
				list := field(res)
				*list = append(*list, l.Text)
			}
		}
	}
	res.Tokens = append(res.Tokens, newlines(src, li, prev, len(src))...)

	res.Totals = map[string]int{
		"identifiers": identifiers,
		"lines":       lineCount(code),
	}
	return res, nil
}

func lineCount(code string) int {
	if code == "" {
		return 0
	}
	return strings.Count(strings.TrimSuffix(code, "\n"), "\n") + 1
}
