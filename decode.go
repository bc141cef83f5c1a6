package prism

import (
	"bytes"
	"encoding/json"
	"errors"
	"math"
	"strconv"
)

// ErrInvalidJSON is returned by Decode when the payload is not JSON at all.
var ErrInvalidJSON = errors.New("prism: response body is not valid JSON")

// Decode normalises an analyzer payload into a Result. The producing service
// guarantees nothing field by field, so Decode only fails when the body is
// not JSON. Fields with an unexpected shape are treated as absent, and
// collection elements with an unexpected shape are skipped.
//
// The body is parsed once into generic values and then walked, so decode
// time stays linear in the payload size however deep the syntax tree is.
func Decode(data []byte) (*Result, error) {
	if !json.Valid(data) {
		return nil, ErrInvalidJSON
	}

	dec := json.NewDecoder(bytes.NewReader(data))
	dec.UseNumber()
	var doc any
	if err := dec.Decode(&doc); err != nil {
		return nil, ErrInvalidJSON
	}

	fields, ok := doc.(map[string]any)
	if !ok {
		// Valid JSON that is not an object (null, array, scalar).
		return &Result{}, nil
	}

	r := &Result{
		Tokens:         decodeList(fields["tokens"], decodeToken),
		SyntaxTree:     decodeList(fields["syntaxTree"], decodeTreeNode),
		SymbolTable:    decodeList(fields["symbolTable"], decodeSymbol),
		SemanticErrors: decodeList(fields["semanticErrors"], decodeDiagnostic),
		SyntaxErrors:   decodeList(fields["syntaxErrors"], decodeDiagnostic),
		ReservedWords:  decodeList(fields["reservedWords"], decodeString),
		Operators:      decodeList(fields["operators"], decodeString),
		Numbers:        decodeList(fields["numbers"], decodeString),
		Symbols:        decodeList(fields["symbols"], decodeString),
		Strings:        decodeList(fields["strings"], decodeString),
		Comments:       decodeList(fields["comments"], decodeString),
		Suggestions:    decodeList(fields["suggestions"], decodeString),
		Totals:         decodeTotals(fields["totals"]),
		SyntaxValid:    decodeBool(fields["syntaxValid"]),
		SemanticValid:  decodeBool(fields["semanticValid"]),
	}
	return r, nil
}

// decodeList converts a JSON array element by element. It returns nil when
// v is missing, null, or not an array, and a non-nil slice otherwise.
func decodeList[T any](v any, elem func(any) (T, bool)) []T {
	items, ok := v.([]any)
	if !ok {
		return nil
	}
	out := make([]T, 0, len(items))
	for _, item := range items {
		if x, ok := elem(item); ok {
			out = append(out, x)
		}
	}
	return out
}

func decodeToken(v any) (Token, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Token{}, false
	}
	tok := Token{
		Type:  scalarString(m["type"]),
		Value: scalarString(m["value"]),
		Line:  scalarInt(m["line"]),
	}
	if col := m["column"]; col != nil {
		tok.Column = scalarInt(col)
	} else {
		tok.Column = scalarInt(m["col"])
	}
	if pos := m["position"]; pos != nil {
		p := scalarInt(pos)
		tok.Position = &p
	}
	return tok, true
}

func decodeTreeNode(v any) (*TreeNode, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return nil, false
	}
	node := &TreeNode{
		Type: scalarString(m["type"]),
		Line: scalarInt(m["line"]),
	}
	if val := m["value"]; val != nil {
		s := scalarString(val)
		node.Value = &s
	}
	node.Children = decodeList(m["children"], decodeTreeNode)
	return node, true
}

func decodeSymbol(v any) (Symbol, bool) {
	m, ok := v.(map[string]any)
	if !ok {
		return Symbol{}, false
	}
	used, _ := m["used"].(bool)
	return Symbol{
		Name:  scalarString(m["name"]),
		Type:  scalarString(m["type"]),
		Value: scalarString(m["value"]),
		Line:  scalarInt(m["line"]),
		Scope: scalarString(m["scope"]),
		Used:  used,
	}, true
}

func decodeDiagnostic(v any) (Diagnostic, bool) {
	switch d := v.(type) {
	case string:
		return Diagnostic{Message: d, Flat: true}, true
	case map[string]any:
		return Diagnostic{
			Line:         scalarInt(d["line"]),
			Message:      scalarString(d["message"]),
			Type:         scalarString(d["type"]),
			Severity:     scalarString(d["severity"]),
			Variable:     scalarString(d["variable"]),
			ExpectedType: scalarString(d["expectedType"]),
			ActualType:   scalarString(d["actualType"]),
		}, true
	}
	return Diagnostic{}, false
}

func decodeString(v any) (string, bool) {
	switch s := v.(type) {
	case string:
		return s, true
	case json.Number:
		return s.String(), true
	}
	return "", false
}

func decodeTotals(v any) map[string]int {
	m, ok := v.(map[string]any)
	if !ok {
		return nil
	}
	totals := make(map[string]int, len(m))
	for k, x := range m {
		if n, ok := parseInt(x); ok {
			totals[k] = n
		}
	}
	return totals
}

func decodeBool(v any) *bool {
	b, ok := v.(bool)
	if !ok {
		return nil
	}
	return &b
}

// scalarString renders strings as-is and other scalars in their JSON form.
// Objects, arrays, and null yield "".
func scalarString(v any) string {
	switch s := v.(type) {
	case string:
		return s
	case json.Number:
		return s.String()
	case bool:
		return strconv.FormatBool(s)
	}
	return ""
}

// scalarInt accepts integers, floats (truncated), and numeric strings.
func scalarInt(v any) int {
	n, _ := parseInt(v)
	return n
}

func parseInt(v any) (int, bool) {
	var text string
	switch n := v.(type) {
	case json.Number:
		text = n.String()
	case string:
		text = n
	default:
		return 0, false
	}
	f, err := strconv.ParseFloat(text, 64)
	if err != nil {
		return 0, false
	}
	return clampInt(f), true
}

func clampInt(f float64) int {
	switch {
	case math.IsNaN(f):
		return 0
	case f > math.MaxInt32:
		return math.MaxInt32
	case f < math.MinInt32:
		return math.MinInt32
	}
	return int(f)
}
