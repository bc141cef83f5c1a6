package prism

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
)

// State is the phase of the current analysis cycle.
type State int

const (
	Idle State = iota
	Submitting
	Succeeded
	Failed
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Submitting:
		return "submitting"
	case Succeeded:
		return "succeeded"
	case Failed:
		return "failed"
	default:
		return "unknown"
	}
}

// MarshalText encodes the state by name.
func (s State) MarshalText() ([]byte, error) {
	return []byte(s.String()), nil
}

// Policy decides what Begin does while a cycle is in flight.
type Policy int

const (
	// RejectWhileSubmitting refuses a new cycle until the current one
	// completes.
	RejectWhileSubmitting Policy = iota
	// SupersedeInFlight starts a new cycle immediately. The in-flight
	// cycle's response becomes stale and is discarded on arrival.
	SupersedeInFlight
)

// ParsePolicy converts "reject" or "supersede" to a Policy.
func ParsePolicy(s string) (Policy, error) {
	switch s {
	case "", "reject":
		return RejectWhileSubmitting, nil
	case "supersede":
		return SupersedeInFlight, nil
	}
	return 0, errors.New(`invalid policy: must be "reject" or "supersede"`)
}

// ErrSubmitting is returned by Begin when a cycle is already in flight under
// RejectWhileSubmitting.
var ErrSubmitting = errors.New("prism: an analysis is already in progress")

// Cycle identifies one submit-to-result round trip.
type Cycle struct {
	Seq       uint64    `json:"seq"`
	ID        string    `json:"id"`
	Source    string    `json:"-"`
	StartedAt time.Time `json:"started_at"`
}

// Snapshot is a consistent copy of the session's observable state.
type Snapshot struct {
	State      State     `json:"state"`
	Cycle      Cycle     `json:"cycle"`
	Source     string    `json:"source"`
	Result     *Result   `json:"-"`
	Err        error     `json:"-"`
	Tab        Tab       `json:"tab"`
	FinishedAt time.Time `json:"finished_at,omitzero"`
}

// Session is the state container for one analysis session: the source text,
// the cycle state machine, the active tab, and the latest outcome. The
// caller owns it; the mutex only matters for concurrent front ends such as
// the web server.
type Session struct {
	mu       sync.Mutex
	policy   Policy
	now      func() time.Time
	source   string
	state    State
	seq      uint64
	cycle    Cycle
	result   *Result
	err      error
	tab      Tab
	finished time.Time
	observer func(Outcome)
}

// Outcome describes one completed cycle as delivered to an observer.
type Outcome struct {
	Cycle      Cycle
	State      State // Succeeded or Failed
	Result     *Result
	Err        error
	FinishedAt time.Time
	Stale      bool // a newer cycle had started; the session ignored this one
}

// SessionOption configures a Session.
type SessionOption func(*Session)

// WithPolicy sets the in-flight submission policy.
func WithPolicy(p Policy) SessionOption {
	return func(s *Session) {
		s.policy = p
	}
}

// WithClock overrides the time source used for cycle timestamps.
func WithClock(now func() time.Time) SessionOption {
	return func(s *Session) {
		s.now = now
	}
}

// WithObserver registers fn to be called after every completion,
// including stale ones. fn runs outside the session lock.
func WithObserver(fn func(Outcome)) SessionOption {
	return func(s *Session) {
		s.observer = fn
	}
}

// NewSession creates an Idle session showing DefaultTab.
func NewSession(opts ...SessionOption) *Session {
	s := &Session{
		policy: RejectWhileSubmitting,
		now:    time.Now,
		tab:    DefaultTab,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

// SetSource replaces the edited source text without starting a cycle.
func (s *Session) SetSource(source string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.source = source
}

// Source returns the current source text.
func (s *Session) Source() string {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.source
}

// Begin starts a new cycle for source. The previous result or error is
// cleared, so a failed or in-flight cycle never shows a stale result.
func (s *Session) Begin(source string) (Cycle, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if s.state == Submitting && s.policy == RejectWhileSubmitting {
		return Cycle{}, ErrSubmitting
	}

	s.seq++
	s.source = source
	s.cycle = Cycle{
		Seq:       s.seq,
		ID:        uuid.NewString(),
		Source:    source,
		StartedAt: s.now(),
	}
	s.state = Submitting
	s.result = nil
	s.err = nil
	s.finished = time.Time{}
	return s.cycle, nil
}

// Complete records the outcome of cycle c. It reports false and changes
// nothing when c is not the most recent cycle or has already completed.
func (s *Session) Complete(c Cycle, result *Result, err error) bool {
	out, notify, accepted := s.complete(c, result, err)
	if notify && s.observer != nil {
		s.observer(out)
	}
	return accepted
}

func (s *Session) complete(c Cycle, result *Result, err error) (out Outcome, notify, accepted bool) {
	s.mu.Lock()
	defer s.mu.Unlock()

	out = Outcome{Cycle: c, State: Succeeded, Result: result, Err: err, FinishedAt: s.now()}
	if err != nil {
		out.State = Failed
		out.Result = nil
	} else if out.Result == nil {
		out.Result = &Result{}
	}

	if c.Seq != s.seq {
		out.Stale = true
		return out, true, false
	}
	if s.state != Submitting {
		return out, false, false
	}

	s.finished = out.FinishedAt
	s.state = out.State
	s.result = out.Result
	s.err = out.Err
	return out, true, true
}

// SelectTab makes t the visible tab. Invalid tabs are ignored. Selecting
// the active tab again is a no-op.
func (s *Session) SelectTab(t Tab) {
	if !t.Valid() {
		return
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.tab = t
}

// Snapshot returns the current state.
func (s *Session) Snapshot() Snapshot {
	s.mu.Lock()
	defer s.mu.Unlock()
	return Snapshot{
		State:      s.state,
		Cycle:      s.cycle,
		Source:     s.source,
		Result:     s.result,
		Err:        s.err,
		Tab:        s.tab,
		FinishedAt: s.finished,
	}
}

// Run drives one full cycle: Begin, Submit, Complete. The returned error is
// ErrSubmitting when the cycle could not start; analysis failures are
// reported in the snapshot, not as an error. A superseded cycle returns the
// snapshot of the newer cycle.
func (s *Session) Run(ctx context.Context, a Analyzer, source string) (Snapshot, error) {
	c, err := s.Begin(source)
	if err != nil {
		return s.Snapshot(), err
	}
	result, err := a.Submit(ctx, source)
	s.Complete(c, result, err)
	return s.Snapshot(), nil
}
