// Package history records completed analysis cycles in the SQLite store.
package history

import (
	"log"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/store"
)

// StateSuperseded marks a cycle whose response arrived after a newer cycle
// had started.
const StateSuperseded = "superseded"

// Recorder writes session outcomes to a store. Register Observe with
// prism.WithObserver.
type Recorder struct {
	store     *store.Store
	sessionID string
}

// NewRecorder creates a Recorder tagging every row with sessionID.
func NewRecorder(s *store.Store, sessionID string) *Recorder {
	return &Recorder{store: s, sessionID: sessionID}
}

// Observe records o and logs failures. History is best effort and never
// affects the session.
func (r *Recorder) Observe(o prism.Outcome) {
	if err := r.Record(o); err != nil {
		log.Printf("warning: history: %v", err)
	}
}

// Record inserts the row for o.
func (r *Recorder) Record(o prism.Outcome) error {
	return r.store.InsertCycle(CycleRecord(r.sessionID, o))
}

// CycleRecord converts an outcome into a history row.
func CycleRecord(sessionID string, o prism.Outcome) *store.Cycle {
	finished := o.FinishedAt
	c := &store.Cycle{
		ID:         o.Cycle.ID,
		Seq:        o.Cycle.Seq,
		SessionID:  sessionID,
		StartedAt:  o.Cycle.StartedAt,
		FinishedAt: &finished,
		SourceHash: store.SourceHash(o.Cycle.Source),
		SourceLen:  len(o.Cycle.Source),
		State:      o.State.String(),
	}
	if o.Stale {
		c.State = StateSuperseded
	}
	if o.Err != nil {
		c.ErrorKind = prism.KindOf(o.Err).String()
		c.ErrorMessage = o.Err.Error()
	}
	if res := o.Result; res != nil {
		c.TokenCount = len(res.Tokens)
		c.NodeCount = prism.NodeCount(res.SyntaxTree)
		c.ErrorCount = len(res.SyntaxErrors) + len(res.SemanticErrors)
	}
	return c
}
