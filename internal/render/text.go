// Package render writes prism Views as terminal text or HTML pages.
package render

import (
	"fmt"
	"io"
	"strings"
	"text/tabwriter"
	"unicode/utf8"

	"github.com/jward/prism"
)

// AllSections lists every section in tab order.
func AllSections() []prism.Section {
	var out []prism.Section
	for _, t := range prism.Tabs {
		out = append(out, t.Sections()...)
	}
	return out
}

// Text writes the given sections of v to w. With no sections, every
// section is written.
func Text(w io.Writer, v *prism.View, sections ...prism.Section) error {
	if v == nil {
		return nil
	}
	if len(sections) == 0 {
		sections = AllSections()
	}
	for i, s := range sections {
		if i > 0 {
			fmt.Fprintln(w)
		}
		if err := textSection(w, v, s); err != nil {
			return err
		}
	}
	return nil
}

func textSection(w io.Writer, v *prism.View, s prism.Section) error {
	l := v.Labels
	switch s {
	case prism.SectionCategories:
		formatCategoriesText(w, l, v.Categories)
	case prism.SectionTokens:
		heading(w, l.Tokens)
		formatChipsText(w, v.Tokens)
	case prism.SectionSummary:
		heading(w, l.Total)
		formatSummaryText(w, v.Summary)
	case prism.SectionTree:
		heading(w, l.TreeNodes)
		formatTreeText(w, v.Tree)
	case prism.SectionSyntaxDiag:
		heading(w, l.SyntaxErrors)
		formatDiagnosticsText(w, v.SyntaxDiagnostics)
	case prism.SectionSemanticDiag:
		heading(w, l.SemanticErrors)
		formatDiagnosticsText(w, v.SemanticDiagnostics)
	case prism.SectionSymbols:
		heading(w, l.SymbolTable)
		formatSymbolsText(w, l, v.Symbols)
	default:
		return fmt.Errorf("render: unknown section %q", s)
	}
	return nil
}

func heading(w io.Writer, title string) {
	fmt.Fprintln(w, title)
	fmt.Fprintln(w, strings.Repeat("=", utf8.RuneCountInString(title)))
}

// formatCategoriesText writes the category table as aligned columns.
func formatCategoriesText(w io.Writer, l prism.Labels, rows []prism.CategoryRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\n", strings.ToUpper(l.Category), strings.ToUpper(l.Tokens), strings.ToUpper(l.Total))
	for _, r := range rows {
		items := r.Placeholder
		if len(r.Items) > 0 {
			items = prism.EscapeValue(strings.Join(r.Items, ", "))
		}
		fmt.Fprintf(tw, "%s\t%s\t%d\n", r.Label, items, r.Count)
	}
	tw.Flush()
}

func formatChipsText(w io.Writer, t prism.TokenSection) {
	if len(t.Chips) == 0 {
		fmt.Fprintln(w, t.Placeholder)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, c := range t.Chips {
		fmt.Fprintf(tw, "%d:%d\t%s\t%s\n", c.Line, c.Column, prism.EscapeValue(c.Type), c.Label)
	}
	tw.Flush()
}

func formatSummaryText(w io.Writer, rows []prism.SummaryRow) {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	for _, r := range rows {
		fmt.Fprintf(tw, "%s\t%d\n", r.Label, r.Count)
	}
	tw.Flush()
}

// formatTreeText writes one line per node, indented two spaces per level.
func formatTreeText(w io.Writer, t prism.TreeSection) {
	if len(t.Rows) == 0 {
		fmt.Fprintln(w, t.Placeholder)
		return
	}
	for _, r := range t.Rows {
		indent := strings.Repeat("  ", r.Depth)
		if r.HasValue {
			fmt.Fprintf(w, "%s%s: %s (line %d)\n", indent, r.Type, r.Value, r.Line)
		} else {
			fmt.Fprintf(w, "%s%s (line %d)\n", indent, r.Type, r.Line)
		}
	}
}

func formatDiagnosticsText(w io.Writer, d prism.DiagnosticSection) {
	if d.State != prism.DiagnosticsFailing {
		fmt.Fprintln(w, d.Message)
		return
	}
	for _, r := range d.Rows {
		fmt.Fprintln(w, prism.EscapeValue(r.Text))
	}
}

// formatSymbolsText writes the symbol table as aligned columns.
func formatSymbolsText(w io.Writer, l prism.Labels, s prism.SymbolSection) {
	if len(s.Rows) == 0 {
		fmt.Fprintln(w, s.Placeholder)
		return
	}
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%s\t%s\n",
		strings.ToUpper(l.Name), strings.ToUpper(l.Type), strings.ToUpper(l.Value),
		strings.ToUpper(l.Line), strings.ToUpper(l.Scope), strings.ToUpper(l.Used))
	for _, r := range s.Rows {
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%s\t%s\n",
			prism.EscapeValue(r.Name), prism.EscapeValue(r.Type), prism.EscapeValue(r.Value),
			r.Line, prism.EscapeValue(r.Scope), r.UsedLabel)
	}
	tw.Flush()
}
