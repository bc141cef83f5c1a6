package analyzer

import (
	"fmt"
	"sort"
	"strings"
	"unicode/utf8"

	sitter "github.com/smacker/go-tree-sitter"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/runtime"
)

// atomic reports whether a node is emitted as a single token even though
// tree-sitter gives it children (string pieces, comment markers).
func atomic(nodeType string) bool {
	return strings.Contains(nodeType, "string") ||
		strings.Contains(nodeType, "comment") ||
		strings.Contains(nodeType, "char") ||
		strings.Contains(nodeType, "heredoc") ||
		nodeType == "rune_literal"
}

// leafNode is a token-producing node with its byte span.
type leafNode struct {
	runtime.Leaf
	start, end int
}

// walker collects leaves and syntax errors from a parse tree.
type walker struct {
	src         []byte
	leaves      []leafNode
	errors      []prism.Diagnostic
	suggestions []string
}

func (w *walker) visit(n *sitter.Node, parent string, inError bool) {
	if n.IsMissing() {
		line := int(n.StartPoint().Row) + 1
		w.errors = append(w.errors, prism.Diagnostic{
			Line:     line,
			Message:  fmt.Sprintf("missing %q", n.Type()),
			Type:     "syntax_error",
			Severity: "error",
		})
		w.suggestions = append(w.suggestions, fmt.Sprintf("Insert %q on line %d", n.Type(), line))
		return
	}

	typ := n.Type()
	if typ == "ERROR" && !inError {
		line := int(n.StartPoint().Row) + 1
		w.errors = append(w.errors, prism.Diagnostic{
			Line:     line,
			Message:  fmt.Sprintf("unexpected %s", snippet(n.Content(w.src))),
			Type:     "syntax_error",
			Severity: "error",
		})
		w.suggestions = append(w.suggestions, fmt.Sprintf("Check the syntax near line %d", line))
		inError = true
	}

	count := int(n.ChildCount())
	if count == 0 || atomic(typ) {
		w.leaf(n, parent)
		return
	}
	for i := 0; i < count; i++ {
		w.visit(n.Child(i), typ, inError)
	}
}

func (w *walker) leaf(n *sitter.Node, parent string) {
	text := n.Content(w.src)
	if strings.TrimSpace(text) == "" {
		return
	}
	sp := n.StartPoint()
	w.leaves = append(w.leaves, leafNode{
		Leaf: runtime.Leaf{
			Index:  len(w.leaves),
			Type:   n.Type(),
			Text:   text,
			Parent: parent,
			Named:  n.IsNamed(),
			Line:   int(sp.Row) + 1,
			Column: int(sp.Column) + 1,
		},
		start: int(n.StartByte()),
		end:   int(n.EndByte()),
	})
}

func (w *walker) runtimeLeaves() []runtime.Leaf {
	out := make([]runtime.Leaf, len(w.leaves))
	for i, l := range w.leaves {
		out[i] = l.Leaf
	}
	return out
}

// snippet quotes the first line of s, shortened to 24 runes.
func snippet(s string) string {
	s = strings.TrimSpace(s)
	if i := strings.IndexByte(s, '\n'); i >= 0 {
		s = s[:i]
	}
	if utf8.RuneCountInString(s) > 24 {
		s = string([]rune(s)[:24]) + "..."
	}
	if s == "" {
		return "end of input"
	}
	return fmt.Sprintf("%q", s)
}

// buildForest converts the named children of root into the syntax forest.
// Nodes without named children, and atomic nodes, carry their source text.
func buildForest(root *sitter.Node, src []byte) []*prism.TreeNode {
	forest := []*prism.TreeNode{}
	for i := 0; i < int(root.NamedChildCount()); i++ {
		if c := root.NamedChild(i); !c.IsMissing() {
			forest = append(forest, buildNode(c, src))
		}
	}
	return forest
}

func buildNode(n *sitter.Node, src []byte) *prism.TreeNode {
	tn := &prism.TreeNode{Type: n.Type(), Line: int(n.StartPoint().Row) + 1}
	count := int(n.NamedChildCount())
	if count == 0 || atomic(n.Type()) {
		v := n.Content(src)
		tn.Value = &v
		return tn
	}
	for i := 0; i < count; i++ {
		c := n.NamedChild(i)
		if c.IsMissing() {
			continue
		}
		tn.Children = append(tn.Children, buildNode(c, src))
	}
	return tn
}

// lineIndex maps byte offsets to 1-based line and column.
type lineIndex []int

func newLineIndex(src []byte) lineIndex {
	starts := lineIndex{0}
	for i, b := range src {
		if b == '\n' {
			starts = append(starts, i+1)
		}
	}
	return starts
}

func (li lineIndex) position(offset int) (line, column int) {
	i := sort.Search(len(li), func(i int) bool { return li[i] > offset }) - 1
	return i + 1, offset - li[i] + 1
}

// newlines returns a NEWLINE token for every line break in src[from:to].
func newlines(src []byte, li lineIndex, from, to int) []prism.Token {
	var out []prism.Token
	for i := from; i < to && i < len(src); i++ {
		if src[i] != '\n' {
			continue
		}
		line, col := li.position(i)
		pos := i
		out = append(out, prism.Token{Type: "NEWLINE", Value: `\n`, Line: line, Column: col, Position: &pos})
	}
	return out
}
