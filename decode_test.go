package prism

import (
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDecode_InvalidJSON(t *testing.T) {
	t.Parallel()
	_, err := Decode([]byte(`{"tokens": [`))
	require.ErrorIs(t, err, ErrInvalidJSON)

	_, err = Decode([]byte(`<html>oops</html>`))
	require.ErrorIs(t, err, ErrInvalidJSON)
}

func TestDecode_NonObjectIsEmptyResult(t *testing.T) {
	t.Parallel()
	for _, body := range []string{`null`, `[]`, `"text"`, `42`} {
		r, err := Decode([]byte(body))
		require.NoError(t, err, body)
		assert.Nil(t, r.Tokens, body)
		assert.Nil(t, r.SyntaxErrors, body)
		assert.Nil(t, r.Totals, body)
	}
}

func TestDecode_AbsentVersusEmpty(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{"syntaxErrors": [], "semanticErrors": null}`))
	require.NoError(t, err)

	assert.NotNil(t, r.SyntaxErrors, "empty list must stay present")
	assert.Len(t, r.SyntaxErrors, 0)
	assert.Nil(t, r.SemanticErrors, "null means absent")
	assert.Nil(t, r.Tokens, "missing means absent")
}

func TestDecode_Tokens(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{"tokens": [
		{"type": "KEYWORD", "value": "def", "line": 1, "column": 1, "position": 0},
		{"type": "IDENTIFIER", "value": "foo", "line": 1, "col": 5},
		{"type": "NUMBER", "value": 42, "line": "2", "column": 3.0},
		"garbage",
		{"type": "OPERATOR", "value": "=", "line": 3, "column": 7, "col": 99}
	]}`))
	require.NoError(t, err)
	require.Len(t, r.Tokens, 4, "non-object element is skipped")

	assert.Equal(t, "def", r.Tokens[0].Value)
	require.NotNil(t, r.Tokens[0].Position)
	assert.Equal(t, 0, *r.Tokens[0].Position)

	assert.Equal(t, 5, r.Tokens[1].Column, "col is accepted for column")
	assert.Nil(t, r.Tokens[1].Position)

	assert.Equal(t, "42", r.Tokens[2].Value, "numeric value becomes a string")
	assert.Equal(t, 2, r.Tokens[2].Line, "numeric string becomes an int")
	assert.Equal(t, 3, r.Tokens[2].Column)

	assert.Equal(t, 7, r.Tokens[3].Column, "column wins over col")
}

func TestDecode_WrongShapeFieldIsAbsent(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{
		"tokens": "not a list",
		"symbolTable": {"name": "x"},
		"totals": [1, 2],
		"syntaxValid": "yes",
		"reservedWords": ["if", "else"]
	}`))
	require.NoError(t, err)

	assert.Nil(t, r.Tokens)
	assert.Nil(t, r.SymbolTable)
	assert.Nil(t, r.Totals)
	assert.Nil(t, r.SyntaxValid)
	assert.Equal(t, []string{"if", "else"}, r.ReservedWords, "other fields still decode")
}

func TestDecode_SyntaxTree(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{"syntaxTree": [
		{"type": "FunctionDef", "value": "main", "line": 1, "children": [
			{"type": "Parameters", "line": 1, "children": null},
			{"type": "Body", "line": 2, "children": [
				{"type": "Return", "line": 3, "value": null}
			]}
		]},
		{"type": "Print", "line": 5}
	]}`))
	require.NoError(t, err)
	require.Len(t, r.SyntaxTree, 2)

	root := r.SyntaxTree[0]
	require.NotNil(t, root.Value)
	assert.Equal(t, "main", *root.Value)
	require.Len(t, root.Children, 2)
	assert.Nil(t, root.Children[0].Children)
	assert.Nil(t, root.Children[1].Children[0].Value)
	assert.Equal(t, 5, NodeCount(r.SyntaxTree))
}

func TestDecode_Diagnostics(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{
		"semanticErrors": [
			{"type": "type_mismatch", "message": "cannot add", "line": 4, "variable": "x", "expectedType": "int", "actualType": "string", "severity": "error"},
			"Variable 'y' is not defined",
			null,
			7
		]
	}`))
	require.NoError(t, err)
	require.Len(t, r.SemanticErrors, 2)

	d := r.SemanticErrors[0]
	assert.False(t, d.Flat)
	assert.Equal(t, "int", d.ExpectedType)
	assert.Equal(t, "Line 4: cannot add", d.Text())

	flat := r.SemanticErrors[1]
	assert.True(t, flat.Flat)
	assert.Equal(t, "Variable 'y' is not defined", flat.Text())
}

func TestDecode_SymbolsAndTotals(t *testing.T) {
	t.Parallel()
	r, err := Decode([]byte(`{
		"symbolTable": [{"name": "x", "type": "int", "value": "1", "line": 1, "scope": "global", "used": true},
		                {"name": "f", "type": "function", "used": "nope"}],
		"totals": {"identifiers": 7, "bogus": "many", "floats": 2.9},
		"syntaxValid": true
	}`))
	require.NoError(t, err)

	require.Len(t, r.SymbolTable, 2)
	assert.True(t, r.SymbolTable[0].Used)
	assert.False(t, r.SymbolTable[1].Used, "non-boolean used is false")

	assert.Equal(t, map[string]int{"identifiers": 7, "floats": 2}, r.Totals)
	require.NotNil(t, r.SyntaxValid)
	assert.True(t, *r.SyntaxValid)
	assert.Nil(t, r.SemanticValid)
}

// chainPayload returns a syntaxTree holding one linear chain of depth nodes.
func chainPayload(depth int) []byte {
	var b strings.Builder
	b.WriteString(`{"syntaxTree": [`)
	for i := range depth {
		if i > 0 {
			b.WriteString(`, "children": [`)
		}
		b.WriteString(`{"type": "Block", "line": 1`)
	}
	for i := range depth {
		b.WriteString(`}`)
		if i < depth-1 {
			b.WriteString(`]`)
		}
	}
	b.WriteString(`]}`)
	return []byte(b.String())
}

func TestDecode_DeepTreeIsLinear(t *testing.T) {
	t.Parallel()
	const depth = 4000

	start := time.Now()
	r, err := Decode(chainPayload(depth))
	require.NoError(t, err)
	v := NewPresenter().Present(r)
	elapsed := time.Since(start)

	assert.Equal(t, depth, NodeCount(r.SyntaxTree))
	assert.Len(t, v.Tree.Rows, depth)
	assert.Equal(t, depth-1, v.Tree.Rows[depth-1].Depth)
	assert.Less(t, elapsed, 2*time.Second, "decode of a %d-deep chain took %s", depth, elapsed)
}

func TestDecode_TreeBeyondNestingLimitIsMalformed(t *testing.T) {
	t.Parallel()
	// encoding/json stops at 10000 nested values; each tree level uses two.
	_, err := Decode(chainPayload(6000))
	require.ErrorIs(t, err, ErrInvalidJSON)
}
