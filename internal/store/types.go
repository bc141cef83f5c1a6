package store

import "time"

// Cycle is one recorded submission and its outcome.
type Cycle struct {
	ID           string
	Seq          uint64
	SessionID    string
	StartedAt    time.Time
	FinishedAt   *time.Time
	SourceHash   string
	SourceLen    int
	State        string
	ErrorKind    string
	ErrorMessage string
	TokenCount   int
	NodeCount    int
	ErrorCount   int
}

// Failed reports whether the cycle ended in an error.
func (c *Cycle) Failed() bool {
	return c.ErrorKind != "" || c.ErrorMessage != ""
}
