// Package prism is a front end for code analyzer services. It submits source
// text to an analyzer over HTTP and turns the loosely-typed analysis payload
// into display sections: category tables, a styled token stream, a nested
// syntax tree, a symbol table, syntax and semantic diagnostics, and a totals
// summary.
//
// # Pipeline
//
// One analysis cycle has three steps:
//
//  1. Submit: [Client.Submit] POSTs {"code": source} to the analyzer and
//     classifies failures as [Unreachable], [ServerRejected], or
//     [MalformedResponse].
//
//  2. Decode: [Decode] normalises the payload once at the boundary. Fields
//     of the wrong shape are treated as absent; nothing downstream checks
//     shapes again.
//
//  3. Present: [Presenter.Present] builds a [View]. It is pure and never
//     fails; each section degrades to a placeholder on its own.
//
// # Usage
//
//	client := prism.NewClient("http://localhost:8080/analyze")
//	session := prism.NewSession()
//
//	snap, err := session.Run(ctx, client, source)
//	if err != nil { ... } // another cycle is in flight
//
//	view := prism.NewPresenter().Present(snap.Result)
//	for _, sec := range snap.Tab.Sections() { ... }
//
// # Sessions
//
// A [Session] owns the cycle state machine (Idle, Submitting, Succeeded,
// Failed), the active [Tab], and the latest outcome. Each cycle has a
// sequence number; a completion for an older cycle is discarded, so the last
// submission wins. Whether a new submission is refused or supersedes the
// in-flight one is set by [WithPolicy]. [WithObserver] receives every
// completion, stale ones included, and is how history gets recorded.
//
// [AnalyzeFiles] runs one session per file over a worker pool.
//
// # Diagnostics
//
// Diagnostics are the one place where "absent" and "empty" differ: an empty
// list renders as an explicit "no errors" state ([DiagnosticsClean]),
// while a missing list renders as no data ([DiagnosticsAbsent]).
package prism
