package prism

import "strings"

// Style is a display style: a CSS class for HTML and a colour for
// terminals and inline styles.
type Style struct {
	Class      string `json:"class"`
	Color      string `json:"color"`
	Background string `json:"background,omitempty"`
}

// FallbackTokenStyle applies to token types missing from the style table.
var FallbackTokenStyle = Style{Class: "tok-default", Color: "#374151", Background: "#f3f4f6"}

// tokenStyles maps upper-case token types to styles.
var tokenStyles = map[string]Style{
	"KEYWORD":     {Class: "tok-keyword", Color: "#7c3aed", Background: "#ede9fe"},
	"IDENTIFIER":  {Class: "tok-identifier", Color: "#1d4ed8", Background: "#dbeafe"},
	"NUMBER":      {Class: "tok-number", Color: "#b45309", Background: "#fef3c7"},
	"STRING":      {Class: "tok-string", Color: "#15803d", Background: "#dcfce7"},
	"LITERAL":     {Class: "tok-string", Color: "#15803d", Background: "#dcfce7"},
	"BOOLEAN":     {Class: "tok-boolean", Color: "#be185d", Background: "#fce7f3"},
	"OPERATOR":    {Class: "tok-operator", Color: "#b91c1c", Background: "#fee2e2"},
	"DELIMITER":   {Class: "tok-delimiter", Color: "#4b5563", Background: "#e5e7eb"},
	"PARENTHESIS": {Class: "tok-delimiter", Color: "#4b5563", Background: "#e5e7eb"},
	"BRACKET":     {Class: "tok-delimiter", Color: "#4b5563", Background: "#e5e7eb"},
	"BRACE":       {Class: "tok-delimiter", Color: "#4b5563", Background: "#e5e7eb"},
	"COMMA":       {Class: "tok-punct", Color: "#6b7280", Background: "#f9fafb"},
	"COLON":       {Class: "tok-punct", Color: "#6b7280", Background: "#f9fafb"},
	"SEMICOLON":   {Class: "tok-punct", Color: "#6b7280", Background: "#f9fafb"},
	"DOT":         {Class: "tok-punct", Color: "#6b7280", Background: "#f9fafb"},
	"NEWLINE":     {Class: "tok-layout", Color: "#9ca3af", Background: "#ffffff"},
	"INDENT":      {Class: "tok-layout", Color: "#9ca3af", Background: "#ffffff"},
	"DEDENT":      {Class: "tok-layout", Color: "#9ca3af", Background: "#ffffff"},
	"WHITESPACE":  {Class: "tok-layout", Color: "#9ca3af", Background: "#ffffff"},
	"COMMENT":     {Class: "tok-comment", Color: "#6b7280", Background: "#f3f4f6"},
	"UNKNOWN":     {Class: "tok-unknown", Color: "#ffffff", Background: "#dc2626"},
}

// TokenStyleFor returns the style for a token type. Lookup ignores case and
// surrounding space; unknown types get FallbackTokenStyle.
func TokenStyleFor(tokenType string) Style {
	if s, ok := tokenStyles[strings.ToUpper(strings.TrimSpace(tokenType))]; ok {
		return s
	}
	return FallbackTokenStyle
}

// FallbackSymbolStyle applies to symbol types missing from the table.
var FallbackSymbolStyle = Style{Class: "sym-other", Color: "#4b5563"}

var symbolStyles = map[string]Style{
	"int":      {Class: "sym-int", Color: "#b45309"},
	"float":    {Class: "sym-float", Color: "#c2410c"},
	"string":   {Class: "sym-string", Color: "#15803d"},
	"bool":     {Class: "sym-bool", Color: "#be185d"},
	"function": {Class: "sym-function", Color: "#7c3aed"},
	"class":    {Class: "sym-class", Color: "#1d4ed8"},
	"list":     {Class: "sym-list", Color: "#0e7490"},
	"dict":     {Class: "sym-dict", Color: "#0f766e"},
}

// SymbolStyleFor returns the style for a symbol type, ignoring case.
func SymbolStyleFor(symbolType string) Style {
	if s, ok := symbolStyles[strings.ToLower(strings.TrimSpace(symbolType))]; ok {
		return s
	}
	return FallbackSymbolStyle
}
