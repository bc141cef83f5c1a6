package prism

import "strings"

// Labels holds the user-visible strings of a locale.
type Labels struct {
	Locale string

	ReservedWords  string
	Operators      string
	Numbers        string
	Symbols        string
	Strings        string
	Comments       string
	Suggestions    string
	SyntaxErrors   string
	SemanticErrors string
	Identifiers    string

	Tokens      string
	TreeNodes   string
	SymbolTable string
	Errors      string

	Yes         string
	No          string
	Placeholder string
	NoErrors    string
	NoData      string

	AnalysisFailed    string
	Unreachable       string
	ServerRejected    string
	MalformedResponse string
	Submitting        string
	InProgress        string
	Analyze           string

	Category string
	Total    string

	LexicalTab  string
	SyntaxTab   string
	SemanticTab string
	SymbolsTab  string

	Name  string
	Type  string
	Value string
	Line  string
	Scope string
	Used  string
}

// English is the default locale.
var English = Labels{
	Locale:         "en",
	ReservedWords:  "Reserved words",
	Operators:      "Operators",
	Numbers:        "Numbers",
	Symbols:        "Symbols",
	Strings:        "Strings",
	Comments:       "Comments",
	Suggestions:    "Suggestions",
	SyntaxErrors:   "Syntax errors",
	SemanticErrors: "Semantic errors",
	Identifiers:    "Identifiers (approx.)",

	Tokens:      "Tokens",
	TreeNodes:   "Tree nodes",
	SymbolTable: "Symbol table",
	Errors:      "Errors",

	Yes:         "Yes",
	No:          "No",
	Placeholder: "-",
	NoErrors:    "No errors",
	NoData:      "No data",

	AnalysisFailed:    "Error analyzing the code",
	Unreachable:       "the analyzer could not be reached",
	ServerRejected:    "the analyzer rejected the request",
	MalformedResponse: "the analyzer returned an unreadable response",
	Submitting:        "Analyzing...",
	InProgress:        "An analysis is already in progress.",
	Analyze:           "Analyze",

	Category: "Category",
	Total:    "Total",

	LexicalTab:  "Lexical",
	SyntaxTab:   "Syntax",
	SemanticTab: "Semantic",
	SymbolsTab:  "Symbols",

	Name:  "Name",
	Type:  "Type",
	Value: "Value",
	Line:  "Line",
	Scope: "Scope",
	Used:  "Used",
}

// Spanish is the locale of the analyzer web pages.
var Spanish = Labels{
	Locale:         "es",
	ReservedWords:  "Palabras Reservadas",
	Operators:      "Operadores",
	Numbers:        "Números",
	Symbols:        "Símbolos",
	Strings:        "Cadenas",
	Comments:       "Comentarios",
	Suggestions:    "Sugerencias",
	SyntaxErrors:   "Errores sintácticos",
	SemanticErrors: "Errores semánticos",
	Identifiers:    "Identificadores (aprox.)",

	Tokens:      "Tokens",
	TreeNodes:   "Nodos del árbol",
	SymbolTable: "Tabla de símbolos",
	Errors:      "Errores",

	Yes:         "Sí",
	No:          "No",
	Placeholder: "-",
	NoErrors:    "Sin errores",
	NoData:      "Sin datos",

	AnalysisFailed:    "Error al analizar el código",
	Unreachable:       "no se pudo contactar al analizador",
	ServerRejected:    "el analizador rechazó la petición",
	MalformedResponse: "el analizador devolvió una respuesta ilegible",
	Submitting:        "Analizando...",
	InProgress:        "Ya hay un análisis en curso.",
	Analyze:           "Analizar",

	Category: "Categoría",
	Total:    "Total",

	LexicalTab:  "Léxico",
	SyntaxTab:   "Sintáctico",
	SemanticTab: "Semántico",
	SymbolsTab:  "Símbolos",

	Name:  "Nombre",
	Type:  "Tipo",
	Value: "Valor",
	Line:  "Línea",
	Scope: "Ámbito",
	Used:  "Usado",
}

// LabelsFor returns the labels for a locale tag such as "es" or "es-MX".
// Unknown locales get English.
func LabelsFor(locale string) Labels {
	tag := strings.ToLower(locale)
	if i := strings.IndexAny(tag, "-_"); i >= 0 {
		tag = tag[:i]
	}
	switch tag {
	case "es":
		return Spanish
	default:
		return English
	}
}

// YesNo renders a boolean with the locale's labels.
func (l Labels) YesNo(b bool) string {
	if b {
		return l.Yes
	}
	return l.No
}

// TabLabel returns the display name of a tab.
func (l Labels) TabLabel(t Tab) string {
	switch t {
	case TabLexical:
		return l.LexicalTab
	case TabSyntax:
		return l.SyntaxTab
	case TabSemantic:
		return l.SemanticTab
	case TabSymbols:
		return l.SymbolsTab
	}
	return string(t)
}
