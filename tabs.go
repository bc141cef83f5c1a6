package prism

import (
	"fmt"
	"strings"
)

// Tab identifies one of the result views. The set is closed.
type Tab string

const (
	TabLexical  Tab = "lexical"
	TabSyntax   Tab = "syntax"
	TabSemantic Tab = "semantic"
	TabSymbols  Tab = "symbols"
)

// Tabs lists every tab in display order.
var Tabs = []Tab{TabLexical, TabSyntax, TabSemantic, TabSymbols}

// DefaultTab is active when a session starts.
const DefaultTab = TabLexical

// Section names a block of the View.
type Section string

const (
	SectionCategories   Section = "categories"
	SectionTokens       Section = "tokens"
	SectionSummary      Section = "summary"
	SectionTree         Section = "tree"
	SectionSyntaxDiag   Section = "syntax_diagnostics"
	SectionSemanticDiag Section = "semantic_diagnostics"
	SectionSymbols      Section = "symbols"
)

var tabSections = map[Tab][]Section{
	TabLexical:  {SectionCategories, SectionTokens, SectionSummary},
	TabSyntax:   {SectionTree, SectionSyntaxDiag},
	TabSemantic: {SectionSemanticDiag},
	TabSymbols:  {SectionSymbols},
}

// ParseTab converts a tab id to a Tab.
func ParseTab(s string) (Tab, error) {
	t := Tab(strings.ToLower(strings.TrimSpace(s)))
	if _, ok := tabSections[t]; !ok {
		return "", fmt.Errorf("invalid tab %q: must be one of lexical, syntax, semantic, symbols", s)
	}
	return t, nil
}

// Sections returns the sections shown by the tab, in display order.
func (t Tab) Sections() []Section {
	return tabSections[t]
}

// Valid reports whether t belongs to the closed tab set.
func (t Tab) Valid() bool {
	_, ok := tabSections[t]
	return ok
}
