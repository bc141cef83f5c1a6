package prism

import (
	"fmt"
	"sort"
	"strings"
)

// View is the display model of one Result. Every section is independent:
// an absent field only affects its own section.
type View struct {
	Categories          []CategoryRow     `json:"categories"`
	Tokens              TokenSection      `json:"tokens"`
	Tree                TreeSection       `json:"tree"`
	Symbols             SymbolSection     `json:"symbols"`
	SyntaxDiagnostics   DiagnosticSection `json:"syntax_diagnostics"`
	SemanticDiagnostics DiagnosticSection `json:"semantic_diagnostics"`
	Summary             []SummaryRow      `json:"summary"`
	Labels              Labels            `json:"-"`
}

// CategoryRow is one labeled line of the category table.
type CategoryRow struct {
	Key         string   `json:"key"`
	Label       string   `json:"label"`
	Items       []string `json:"items"`
	Count       int      `json:"count"`
	Placeholder string   `json:"placeholder,omitempty"` // set when Items is empty
}

// Chip is one styled token of the token stream.
type Chip struct {
	Type   string `json:"type"`
	Label  string `json:"label"`
	Line   int    `json:"line"`
	Column int    `json:"column"`
	Style  Style  `json:"style"`
}

// TokenSection is the flat token stream.
type TokenSection struct {
	Chips       []Chip `json:"chips"`
	Placeholder string `json:"placeholder,omitempty"`
}

// TreeRow is one node of the syntax forest in depth-first pre-order.
type TreeRow struct {
	Type     string `json:"type"`
	Value    string `json:"value,omitempty"`
	HasValue bool   `json:"has_value"`
	Line     int    `json:"line"`
	Depth    int    `json:"depth"`
}

// TreeSection is the flattened syntax forest.
type TreeSection struct {
	Rows        []TreeRow `json:"rows"`
	Placeholder string    `json:"placeholder,omitempty"`
}

// SymbolRow is one symbol table row.
type SymbolRow struct {
	Name      string `json:"name"`
	Type      string `json:"type"`
	Value     string `json:"value"`
	Line      int    `json:"line"`
	Scope     string `json:"scope"`
	Used      bool   `json:"used"`
	UsedLabel string `json:"used_label"`
	Style     Style  `json:"style"`
}

// SymbolSection is the symbol table.
type SymbolSection struct {
	Rows        []SymbolRow `json:"rows"`
	Placeholder string      `json:"placeholder,omitempty"`
}

// DiagnosticState distinguishes a missing diagnostics list from an empty one.
type DiagnosticState string

const (
	// DiagnosticsAbsent means the analyzer did not report this kind of check.
	DiagnosticsAbsent DiagnosticState = "absent"
	// DiagnosticsClean means the check ran and found nothing.
	DiagnosticsClean DiagnosticState = "clean"
	// DiagnosticsFailing means at least one diagnostic was reported.
	DiagnosticsFailing DiagnosticState = "failing"
)

// DiagnosticRow is one rendered diagnostic.
type DiagnosticRow struct {
	Line         int    `json:"line"`
	Message      string `json:"message"`
	Text         string `json:"text"`
	Type         string `json:"type,omitempty"`
	Severity     string `json:"severity,omitempty"`
	Variable     string `json:"variable,omitempty"`
	ExpectedType string `json:"expected_type,omitempty"`
	ActualType   string `json:"actual_type,omitempty"`
}

// DiagnosticSection is the syntax or semantic error list.
type DiagnosticSection struct {
	State   DiagnosticState `json:"state"`
	Rows    []DiagnosticRow `json:"rows"`
	Valid   *bool           `json:"valid,omitempty"`
	Message string          `json:"message,omitempty"` // no-errors or no-data text
}

// SummaryRow is one count of the totals panel.
type SummaryRow struct {
	Key        string `json:"key"`
	Label      string `json:"label"`
	Count      int    `json:"count"`
	Overridden bool   `json:"overridden,omitempty"`
}

// Presenter turns Results into Views. It holds no per-result state and is
// safe for concurrent use.
type Presenter struct {
	labels Labels
}

// PresenterOption configures a Presenter.
type PresenterOption func(*Presenter)

// WithLabels selects the locale used for labels.
func WithLabels(l Labels) PresenterOption {
	return func(p *Presenter) {
		p.labels = l
	}
}

// NewPresenter creates a Presenter with English labels unless overridden.
func NewPresenter(opts ...PresenterOption) *Presenter {
	p := &Presenter{labels: English}
	for _, opt := range opts {
		opt(p)
	}
	return p
}

// Labels returns the presenter's locale labels.
func (p *Presenter) Labels() Labels {
	return p.labels
}

// Present builds the View for r. r is never modified; a nil r yields a View
// with every section absent.
func (p *Presenter) Present(r *Result) *View {
	if r == nil {
		r = &Result{}
	}
	return &View{
		Categories:          p.categories(r),
		Tokens:              p.tokens(r.Tokens),
		Tree:                p.tree(r.SyntaxTree),
		Symbols:             p.symbols(r.SymbolTable),
		SyntaxDiagnostics:   p.diagnostics(r.SyntaxErrors, r.SyntaxValid),
		SemanticDiagnostics: p.diagnostics(r.SemanticErrors, r.SemanticValid),
		Summary:             p.summary(r),
		Labels:              p.labels,
	}
}

func (p *Presenter) categories(r *Result) []CategoryRow {
	l := p.labels
	rows := []CategoryRow{
		p.categoryRow("reservedWords", l.ReservedWords, r.ReservedWords),
		p.categoryRow("operators", l.Operators, r.Operators),
		p.categoryRow("numbers", l.Numbers, r.Numbers),
		p.categoryRow("symbols", l.Symbols, r.Symbols),
		p.categoryRow("strings", l.Strings, quoteAll(r.Strings)),
		p.categoryRow("comments", l.Comments, r.Comments),
		p.categoryRow("suggestions", l.Suggestions, r.Suggestions),
		p.categoryRow("syntaxErrors", l.SyntaxErrors, projectDiagnostics(r.SyntaxErrors)),
		p.categoryRow("semanticErrors", l.SemanticErrors, projectDiagnostics(r.SemanticErrors)),
	}
	// Identifiers are only ever counted, never listed.
	rows = append(rows, CategoryRow{
		Key:         "identifiers",
		Label:       l.Identifiers,
		Count:       identifierCount(r),
		Placeholder: l.Placeholder,
	})
	return rows
}

func (p *Presenter) categoryRow(key, label string, items []string) CategoryRow {
	row := CategoryRow{Key: key, Label: label, Count: len(items)}
	if len(items) == 0 {
		row.Placeholder = p.labels.Placeholder
		return row
	}
	row.Items = append([]string(nil), items...)
	return row
}

func quoteAll(items []string) []string {
	if items == nil {
		return nil
	}
	out := make([]string, len(items))
	for i, s := range items {
		out[i] = `"` + s + `"`
	}
	return out
}

func projectDiagnostics(diags []Diagnostic) []string {
	if diags == nil {
		return nil
	}
	out := make([]string, len(diags))
	for i, d := range diags {
		out[i] = d.Text()
	}
	return out
}

// identifierCount prefers totals.identifiers, then counts IDENTIFIER tokens.
func identifierCount(r *Result) int {
	if n, ok := r.Totals["identifiers"]; ok {
		return n
	}
	return countType(r.Tokens, "IDENTIFIER")
}

func (p *Presenter) tokens(tokens []Token) TokenSection {
	if len(tokens) == 0 {
		return TokenSection{Placeholder: p.labels.NoData}
	}
	chips := make([]Chip, len(tokens))
	for i, tok := range tokens {
		chips[i] = Chip{
			Type:   tok.Type,
			Label:  EscapeValue(tok.Value),
			Line:   tok.Line,
			Column: tok.Column,
			Style:  TokenStyleFor(tok.Type),
		}
	}
	return TokenSection{Chips: chips}
}

var controlEscaper = strings.NewReplacer("\n", `\n`, "\r", `\r`, "\t", `\t`)

// EscapeValue makes whitespace and other control characters visible, so a
// newline token renders as a literal backslash-n.
func EscapeValue(s string) string {
	s = controlEscaper.Replace(s)
	if !strings.ContainsFunc(s, isControl) {
		return s
	}
	var b strings.Builder
	for _, r := range s {
		if isControl(r) {
			fmt.Fprintf(&b, `\u%04x`, r)
			continue
		}
		b.WriteRune(r)
	}
	return b.String()
}

func isControl(r rune) bool {
	return r < 0x20 || r == 0x7f
}

func (p *Presenter) tree(forest []*TreeNode) TreeSection {
	rows := make([]TreeRow, 0, NodeCount(forest))
	rows = appendTreeRows(rows, forest, 0)
	if len(rows) == 0 {
		return TreeSection{Placeholder: p.labels.NoData}
	}
	return TreeSection{Rows: rows}
}

// appendTreeRows walks the forest depth-first, pre-order. Depth grows by one
// per level and is bounded by the tree's own depth.
func appendTreeRows(rows []TreeRow, nodes []*TreeNode, depth int) []TreeRow {
	for _, node := range nodes {
		if node == nil {
			continue
		}
		row := TreeRow{Type: node.Type, Line: node.Line, Depth: depth}
		if node.Value != nil {
			row.Value = EscapeValue(*node.Value)
			row.HasValue = true
		}
		rows = append(rows, row)
		rows = appendTreeRows(rows, node.Children, depth+1)
	}
	return rows
}

func (p *Presenter) symbols(syms []Symbol) SymbolSection {
	if len(syms) == 0 {
		return SymbolSection{Placeholder: p.labels.NoData}
	}
	rows := make([]SymbolRow, len(syms))
	for i, s := range syms {
		rows[i] = SymbolRow{
			Name:      s.Name,
			Type:      s.Type,
			Value:     s.Value,
			Line:      s.Line,
			Scope:     s.Scope,
			Used:      s.Used,
			UsedLabel: p.labels.YesNo(s.Used),
			Style:     SymbolStyleFor(s.Type),
		}
	}
	return SymbolSection{Rows: rows}
}

func (p *Presenter) diagnostics(diags []Diagnostic, valid *bool) DiagnosticSection {
	sec := DiagnosticSection{Valid: valid}
	switch {
	case len(diags) > 0:
		sec.State = DiagnosticsFailing
	case diags != nil:
		sec.State = DiagnosticsClean
	case valid != nil && *valid:
		sec.State = DiagnosticsClean
	case valid != nil:
		sec.State = DiagnosticsFailing
	default:
		sec.State = DiagnosticsAbsent
	}

	switch sec.State {
	case DiagnosticsClean:
		sec.Message = p.labels.NoErrors
	case DiagnosticsAbsent:
		sec.Message = p.labels.NoData
	}

	for _, d := range diags {
		sec.Rows = append(sec.Rows, DiagnosticRow{
			Line:         d.Line,
			Message:      d.Message,
			Text:         d.Text(),
			Type:         d.Type,
			Severity:     d.Severity,
			Variable:     d.Variable,
			ExpectedType: d.ExpectedType,
			ActualType:   d.ActualType,
		})
	}
	return sec
}

func (p *Presenter) summary(r *Result) []SummaryRow {
	l := p.labels
	derived := []SummaryRow{
		{Key: "tokens", Label: l.Tokens, Count: len(r.Tokens)},
		{Key: "treeNodes", Label: l.TreeNodes, Count: NodeCount(r.SyntaxTree)},
		{Key: "symbolTable", Label: l.SymbolTable, Count: len(r.SymbolTable)},
		{Key: "identifiers", Label: l.Identifiers, Count: countType(r.Tokens, "IDENTIFIER")},
		{Key: "syntaxErrors", Label: l.SyntaxErrors, Count: len(r.SyntaxErrors)},
		{Key: "semanticErrors", Label: l.SemanticErrors, Count: len(r.SemanticErrors)},
		{Key: "errors", Label: l.Errors, Count: len(r.SyntaxErrors) + len(r.SemanticErrors)},
		{Key: "reservedWords", Label: l.ReservedWords, Count: len(r.ReservedWords)},
		{Key: "operators", Label: l.Operators, Count: len(r.Operators)},
		{Key: "numbers", Label: l.Numbers, Count: len(r.Numbers)},
		{Key: "symbols", Label: l.Symbols, Count: len(r.Symbols)},
		{Key: "strings", Label: l.Strings, Count: len(r.Strings)},
		{Key: "comments", Label: l.Comments, Count: len(r.Comments)},
		{Key: "suggestions", Label: l.Suggestions, Count: len(r.Suggestions)},
	}

	known := make(map[string]bool, len(derived))
	for i := range derived {
		known[derived[i].Key] = true
		if n, ok := r.Totals[derived[i].Key]; ok {
			derived[i].Count = n
			derived[i].Overridden = true
		}
	}

	var extra []string
	for k := range r.Totals {
		if !known[k] {
			extra = append(extra, k)
		}
	}
	sort.Strings(extra)
	for _, k := range extra {
		derived = append(derived, SummaryRow{Key: k, Label: k, Count: r.Totals[k], Overridden: true})
	}
	return derived
}

func countType(tokens []Token, typ string) int {
	n := 0
	for _, tok := range tokens {
		if strings.EqualFold(tok.Type, typ) {
			n++
		}
	}
	return n
}

// Count returns the summary count for key and whether the row exists.
func (v *View) Count(key string) (int, bool) {
	for _, row := range v.Summary {
		if row.Key == key {
			return row.Count, true
		}
	}
	return 0, false
}
