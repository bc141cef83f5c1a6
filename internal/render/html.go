package render

import (
	"embed"
	"fmt"
	"html/template"
	"io"

	"github.com/jward/prism"
)

//go:embed templates/*.html.tmpl
var templateFS embed.FS

var pageTemplate = template.Must(template.New("page.html.tmpl").
	Funcs(template.FuncMap{
		"tabLabel": func(l prism.Labels, t prism.Tab) string { return l.TabLabel(t) },
		"diag": func(id, title string, s prism.DiagnosticSection) diagBlock {
			return diagBlock{ID: id, Title: title, Section: s}
		},
	}).
	ParseFS(templateFS, "templates/page.html.tmpl"))

// Page is everything the browser page shows.
type Page struct {
	Title  string
	Action string // form target, e.g. "/submit"
	Source string
	Labels prism.Labels
	Tab    prism.Tab
	Busy   bool   // a submission is in flight; the submit button is disabled
	Error  string // user-facing failure message, empty on success
	Notice string
	View   *prism.View // nil before the first successful analysis
}

// TreeItem is a syntax tree node with its children nested for HTML lists.
type TreeItem struct {
	prism.TreeRow
	Children []*TreeItem
}

// pageData is the template input; it adds derived fields to Page.
type pageData struct {
	Page
	Tabs     []prism.Tab
	Sections map[string]bool // sections shown by the active tab
	Tree     []*TreeItem
}

type diagBlock struct {
	ID      string
	Title   string
	Section prism.DiagnosticSection
}

// HTML writes p as a complete HTML document.
func HTML(w io.Writer, p Page) error {
	if p.Labels.Locale == "" {
		p.Labels = prism.English
	}
	if !p.Tab.Valid() {
		p.Tab = prism.DefaultTab
	}
	if p.Action == "" {
		p.Action = "/submit"
	}
	data := pageData{
		Page:     p,
		Tabs:     prism.Tabs,
		Sections: map[string]bool{},
	}
	for _, s := range p.Tab.Sections() {
		data.Sections[string(s)] = true
	}
	if p.View != nil {
		data.Tree = NestTree(p.View.Tree.Rows)
	}
	if err := pageTemplate.Execute(w, data); err != nil {
		return fmt.Errorf("render: html: %w", err)
	}
	return nil
}

// NestTree rebuilds the hierarchy of pre-order rows from their depths.
func NestTree(rows []prism.TreeRow) []*TreeItem {
	var roots []*TreeItem
	var stack []*TreeItem
	for _, r := range rows {
		item := &TreeItem{TreeRow: r}
		depth := r.Depth
		if depth > len(stack) {
			depth = len(stack)
		}
		stack = stack[:depth]
		if depth == 0 {
			roots = append(roots, item)
		} else {
			parent := stack[depth-1]
			parent.Children = append(parent.Children, item)
		}
		stack = append(stack, item)
	}
	return roots
}
