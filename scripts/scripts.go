// Package scripts embeds the Risor token classification rules used by the
// reference analyzer.
//
// Each classify/<language>.risor script receives the leaves of one parse
// tree and calls emit(index, category) for every leaf it recognises.
// Languages without a script of their own fall back to
// classify/default.risor. Shared rules live in rules.risor and are loaded
// with `import rules`.
package scripts

import "embed"

// FS holds rules.risor and the classify/ scripts.
//
//go:embed rules.risor classify/*.risor
var FS embed.FS
