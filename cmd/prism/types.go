package main

import (
	"time"

	"github.com/jward/prism"
)

// CLIResult is the top-level JSON envelope for all commands.
type CLIResult struct {
	Command    string `json:"command"`
	Results    any    `json:"results"`
	TotalCount *int   `json:"total_count,omitempty"`
	Error      string `json:"error,omitempty"`
}

// CLIAnalysis is the outcome of one analyze run.
type CLIAnalysis struct {
	Cycle    CLICycleRef     `json:"cycle"`
	Tab      string          `json:"tab,omitempty"`
	View     *prism.View     `json:"view"`
	Sections []prism.Section `json:"-"`
}

// CLICycleRef identifies the cycle that produced an analysis.
type CLICycleRef struct {
	ID         string    `json:"id"`
	Seq        uint64    `json:"seq"`
	StartedAt  time.Time `json:"started_at"`
	FinishedAt time.Time `json:"finished_at"`
}

// CLICycle is a JSON-friendly history row.
type CLICycle struct {
	ID           string     `json:"id"`
	Seq          uint64     `json:"seq"`
	SessionID    string     `json:"session_id,omitempty"`
	StartedAt    time.Time  `json:"started_at"`
	FinishedAt   *time.Time `json:"finished_at,omitempty"`
	SourceHash   string     `json:"source_hash"`
	SourceLen    int        `json:"source_len"`
	State        string     `json:"state"`
	ErrorKind    string     `json:"error_kind,omitempty"`
	ErrorMessage string     `json:"error_message,omitempty"`
	TokenCount   int        `json:"token_count"`
	NodeCount    int        `json:"node_count"`
	ErrorCount   int        `json:"error_count"`
}

// CLIFileSummary is one row of a batch run.
type CLIFileSummary struct {
	Path     string `json:"path"`
	Language string `json:"language,omitempty"`
	State    string `json:"state"`
	CycleID  string `json:"cycle_id"`
	Tokens   int    `json:"tokens"`
	Nodes    int    `json:"nodes"`
	Errors   int    `json:"errors"`
	Error    string `json:"error,omitempty"`
}
