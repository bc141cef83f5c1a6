package prism

import "fmt"

// Result is one analyzer response, normalised by Decode. Every field is
// optional because different analyzer variants populate different subsets.
//
// For collection fields nil means the analyzer did not send the field and a
// non-nil empty slice means it sent an empty collection. Only the
// diagnostics sections distinguish the two when rendering.
type Result struct {
	Tokens      []Token     `json:"tokens"`
	SyntaxTree  []*TreeNode `json:"syntaxTree"`
	SymbolTable []Symbol    `json:"symbolTable"`

	SemanticErrors []Diagnostic `json:"semanticErrors"`
	SyntaxErrors   []Diagnostic `json:"syntaxErrors"`

	// Flat category buckets, sent by variants that classify lexemes into
	// plain string lists instead of a token stream.
	ReservedWords []string `json:"reservedWords"`
	Operators     []string `json:"operators"`
	Numbers       []string `json:"numbers"`
	Symbols       []string `json:"symbols"`
	Strings       []string `json:"strings"`
	Comments      []string `json:"comments"`
	Suggestions   []string `json:"suggestions"`

	// Totals overrides derived counts per category for display only.
	Totals map[string]int `json:"totals"`

	SyntaxValid   *bool `json:"syntaxValid"`
	SemanticValid *bool `json:"semanticValid"`
}

// Token is a classified lexical unit. Type is an open set; see TokenStyleFor.
type Token struct {
	Type     string `json:"type"`
	Value    string `json:"value"`
	Line     int    `json:"line"`
	Column   int    `json:"column"`
	Position *int   `json:"position,omitempty"`
}

// TreeNode is one node of the syntax forest. Each node is owned by exactly
// one parent, so traversal never revisits a node.
type TreeNode struct {
	Type     string      `json:"type"`
	Value    *string     `json:"value,omitempty"`
	Line     int         `json:"line"`
	Children []*TreeNode `json:"children,omitempty"`
}

// Symbol is one symbol table entry.
type Symbol struct {
	Name  string `json:"name"`
	Type  string `json:"type"`
	Value string `json:"value"`
	Line  int    `json:"line"`
	Scope string `json:"scope"`
	Used  bool   `json:"used"`
}

// Diagnostic is a syntax or semantic problem reported by the analyzer.
// Flat diagnostics arrived as plain strings and carry only Message.
type Diagnostic struct {
	Line         int    `json:"line"`
	Message      string `json:"message"`
	Type         string `json:"type,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Variable     string `json:"variable,omitempty"`
	ExpectedType string `json:"expectedType,omitempty"`
	ActualType   string `json:"actualType,omitempty"`
	Flat         bool   `json:"-"`
}

// Text projects the diagnostic to the single string used by category tables.
func (d Diagnostic) Text() string {
	if d.Flat {
		return d.Message
	}
	return fmt.Sprintf("Line %d: %s", d.Line, d.Message)
}

// NodeCount returns the number of nodes in the forest, roots included.
func NodeCount(forest []*TreeNode) int {
	n := 0
	for _, node := range forest {
		if node == nil {
			continue
		}
		n += 1 + NodeCount(node.Children)
	}
	return n
}
