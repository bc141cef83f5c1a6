package runtime

import (
	"context"
	"strings"
	"unicode"

	"github.com/risor-io/risor/object"
)

// Leaf is one lexeme handed to a classification script.
type Leaf struct {
	Index  int
	Type   string // tree-sitter node type
	Text   string
	Parent string // node type of the enclosing node
	Named  bool
	Line   int
	Column int
}

func (l Leaf) object() object.Object {
	return object.NewMap(map[string]object.Object{
		"index":  object.NewInt(int64(l.Index)),
		"type":   object.NewString(l.Type),
		"text":   object.NewString(l.Text),
		"parent": object.NewString(l.Parent),
		"named":  object.NewBool(l.Named),
		"word":   object.NewBool(isWord(l.Text)),
		"line":   object.NewInt(int64(l.Line)),
		"column": object.NewInt(int64(l.Column)),
	})
}

// Unclassified is the category of leaves a script did not emit.
const Unclassified = "UNKNOWN"

// Classify runs the classification script for language over leaves and
// returns one token category per leaf. Languages without a script of
// their own use DefaultClassifyScript.
//
// Scripts see the globals leaves (a list of maps), language, and
// emit(index, category).
func (r *Runtime) Classify(ctx context.Context, language string, leaves []Leaf) ([]string, error) {
	path := ClassifyScriptPath(language)
	if !r.HasScript(path) {
		path = DefaultClassifyScript
	}

	categories := make([]string, len(leaves))
	emit := object.NewBuiltin("emit", func(ctx context.Context, args ...object.Object) object.Object {
		if len(args) != 2 {
			return object.NewArgsError("emit", 2, len(args))
		}
		idx, ok := args[0].(*object.Int)
		if !ok {
			return object.Errorf("emit: index must be an int, got %s", args[0].Type())
		}
		cat, ok := args[1].(*object.String)
		if !ok {
			return object.Errorf("emit: category must be a string, got %s", args[1].Type())
		}
		i := int(idx.Value())
		if i < 0 || i >= len(categories) {
			return object.Errorf("emit: index %d out of range [0, %d)", i, len(categories))
		}
		categories[i] = strings.ToUpper(strings.TrimSpace(cat.Value()))
		return object.Nil
	})

	items := make([]object.Object, len(leaves))
	for i, l := range leaves {
		items[i] = l.object()
	}

	err := r.RunScript(ctx, path, map[string]any{
		"leaves":   object.NewList(items),
		"language": language,
		"emit":     emit,
	})
	if err != nil {
		return nil, err
	}

	for i, c := range categories {
		if c == "" {
			categories[i] = Unclassified
		}
	}
	return categories, nil
}

// isWord reports whether s looks like an identifier or keyword.
func isWord(s string) bool {
	if s == "" {
		return false
	}
	for i, r := range s {
		switch {
		case r == '_' || unicode.IsLetter(r):
		case i > 0 && unicode.IsDigit(r):
		default:
			return false
		}
	}
	return true
}
