package analyzer

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/runtime"
	"github.com/jward/prism/scripts"
)

func newTestService(t *testing.T, opts ...Option) *Service {
	t.Helper()
	rt := runtime.NewRuntime("", runtime.WithRuntimeFS(scripts.FS))
	return New(rt, opts...)
}

type tokenKey struct{ typ, value string }

func tokenKeys(tokens []prism.Token) []tokenKey {
	out := make([]tokenKey, len(tokens))
	for i, tok := range tokens {
		out[i] = tokenKey{tok.Type, tok.Value}
	}
	return out
}

// ===== Python =====

func TestAnalyze_PythonFunction(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "def area(r):\n    return r * 2\n", "")
	require.NoError(t, err)

	assert.Equal(t, []tokenKey{
		{"KEYWORD", "def"},
		{"IDENTIFIER", "area"},
		{"PARENTHESIS", "("},
		{"IDENTIFIER", "r"},
		{"PARENTHESIS", ")"},
		{"COLON", ":"},
		{"NEWLINE", `\n`},
		{"KEYWORD", "return"},
		{"IDENTIFIER", "r"},
		{"OPERATOR", "*"},
		{"NUMBER", "2"},
		{"NEWLINE", `\n`},
	}, tokenKeys(res.Tokens))

	ret := res.Tokens[7]
	assert.Equal(t, 2, ret.Line)
	assert.Equal(t, 5, ret.Column)
	require.NotNil(t, ret.Position)
	assert.Equal(t, 17, *ret.Position)

	nl := res.Tokens[6]
	assert.Equal(t, 1, nl.Line)
	assert.Equal(t, 13, nl.Column)

	assert.Equal(t, []string{"def", "return"}, res.ReservedWords)
	assert.Equal(t, []string{"(", ")", ":"}, res.Symbols)
	assert.Equal(t, []string{"*"}, res.Operators)
	assert.Equal(t, []string{"2"}, res.Numbers)
	assert.Empty(t, res.Strings)
	assert.NotNil(t, res.Comments)

	assert.Equal(t, 3, res.Totals["identifiers"])
	assert.Equal(t, 2, res.Totals["lines"])
}

func TestAnalyze_PythonTree(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "x = 1\nprint(x)\n", "python")
	require.NoError(t, err)
	require.Len(t, res.SyntaxTree, 2)

	first := res.SyntaxTree[0]
	assert.Equal(t, "expression_statement", first.Type)
	assert.Equal(t, 1, first.Line)
	assert.Nil(t, first.Value)

	second := res.SyntaxTree[1]
	assert.Equal(t, 2, second.Line)

	// leaves carry their source text
	var leaf *prism.TreeNode
	for n := first; n != nil; {
		if len(n.Children) == 0 {
			leaf = n
			break
		}
		n = n.Children[0]
	}
	require.NotNil(t, leaf)
	require.NotNil(t, leaf.Value)
	assert.Equal(t, "x", *leaf.Value)
}

func TestAnalyze_ValidSourceHasEmptyDiagnostics(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "y = 'hi'  # greet\n", "python")
	require.NoError(t, err)

	require.NotNil(t, res.SyntaxErrors, "present and empty")
	assert.Empty(t, res.SyntaxErrors)
	require.NotNil(t, res.SyntaxValid)
	assert.True(t, *res.SyntaxValid)
	assert.Empty(t, res.Suggestions)

	assert.Nil(t, res.SemanticErrors, "no semantic analysis")
	assert.Nil(t, res.SymbolTable)
	assert.Nil(t, res.SemanticValid)

	assert.Equal(t, []string{"'hi'"}, res.Strings)
	assert.Equal(t, []string{"# greet"}, res.Comments)
}

func TestAnalyze_SyntaxErrors(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "def broken(:\n    pass\n", "python")
	require.NoError(t, err)

	assert.NotEmpty(t, res.SyntaxErrors)
	require.NotNil(t, res.SyntaxValid)
	assert.False(t, *res.SyntaxValid)
	assert.Len(t, res.Suggestions, len(res.SyntaxErrors))
	for _, d := range res.SyntaxErrors {
		assert.Equal(t, "syntax_error", d.Type)
		assert.Positive(t, d.Line)
		assert.NotEmpty(t, d.Message)
	}
}

func TestAnalyze_EmptySource(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "", "")
	require.NoError(t, err)
	assert.NotNil(t, res.Tokens)
	assert.Empty(t, res.Tokens)
	assert.NotNil(t, res.SyntaxTree)
	assert.Empty(t, res.SyntaxTree)
	assert.Equal(t, 0, res.Totals["lines"])
	assert.Equal(t, 0, res.Totals["identifiers"])
}

func TestAnalyze_DuplicateWordsListedOnce(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "if a:\n    pass\nif b:\n    pass\n", "python")
	require.NoError(t, err)
	assert.Equal(t, []string{"if", "pass"}, res.ReservedWords)
	assert.Equal(t, 2, res.Totals["identifiers"])
}

// ===== Go =====

func TestAnalyze_Go(t *testing.T) {
	t.Parallel()
	s := newTestService(t, WithLanguage("go"))
	assert.Equal(t, "go", s.Language())

	src := "package main\n\nfunc main() {\n\tn := len(\"hi\")\n\tvar p *int = nil\n\t_, _ = n, p\n}\n"
	res, err := s.Analyze(context.Background(), src, "")
	require.NoError(t, err)

	keys := tokenKeys(res.Tokens)
	assert.Contains(t, keys, tokenKey{"KEYWORD", "package"})
	assert.Contains(t, keys, tokenKey{"KEYWORD", "func"})
	assert.Contains(t, keys, tokenKey{"KEYWORD", "len"})
	assert.Contains(t, keys, tokenKey{"KEYWORD", "int"})
	assert.Contains(t, keys, tokenKey{"STRING", `"hi"`})
	assert.Contains(t, keys, tokenKey{"OPERATOR", ":="})
	assert.Contains(t, keys, tokenKey{"LITERAL", "nil"})
	assert.Contains(t, keys, tokenKey{"BRACE", "{"})

	require.NotEmpty(t, res.SyntaxTree)
	assert.Equal(t, "package_clause", res.SyntaxTree[0].Type)
	assert.True(t, *res.SyntaxValid)
}

func TestAnalyze_LanguageWithoutScriptUsesDefault(t *testing.T) {
	t.Parallel()
	s := newTestService(t)

	res, err := s.Analyze(context.Background(), "fn main() { let x = 5; }\n", "rust")
	require.NoError(t, err)
	keys := tokenKeys(res.Tokens)
	assert.Contains(t, keys, tokenKey{"KEYWORD", "fn"})
	assert.Contains(t, keys, tokenKey{"NUMBER", "5"})
	assert.Contains(t, keys, tokenKey{"SEMICOLON", ";"})
}

func TestAnalyze_UnsupportedLanguage(t *testing.T) {
	t.Parallel()
	s := newTestService(t)
	_, err := s.Analyze(context.Background(), "x", "cobol")
	require.ErrorIs(t, err, ErrUnsupportedLanguage)
}

// ===== Helpers =====

func TestLineIndex(t *testing.T) {
	t.Parallel()
	li := newLineIndex([]byte("ab\ncd\n\nx"))
	tests := []struct{ offset, line, col int }{
		{0, 1, 1},
		{2, 1, 3},
		{3, 2, 1},
		{6, 3, 1},
		{7, 4, 1},
	}
	for _, tt := range tests {
		line, col := li.position(tt.offset)
		assert.Equal(t, tt.line, line, "offset %d", tt.offset)
		assert.Equal(t, tt.col, col, "offset %d", tt.offset)
	}
}

func TestSnippet(t *testing.T) {
	t.Parallel()
	assert.Equal(t, `"(:"`, snippet("  (:\n  more"))
	assert.Equal(t, "end of input", snippet(""))
	assert.Equal(t, `"abcdefghijklmnopqrstuvwx..."`, snippet("abcdefghijklmnopqrstuvwxyz"))
}

func TestAtomic(t *testing.T) {
	t.Parallel()
	for _, typ := range []string{"string", "interpreted_string_literal", "line_comment", "char_literal", "rune_literal", "heredoc_body"} {
		assert.True(t, atomic(typ), typ)
	}
	for _, typ := range []string{"identifier", "call", "interpolation"} {
		assert.False(t, atomic(typ), typ)
	}
}
