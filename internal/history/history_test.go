package history

import (
	"context"
	"errors"
	"path/filepath"
	"testing"
	"time"

	"github.com/jward/prism"
	"github.com/jward/prism/internal/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *store.Store {
	t.Helper()
	s, err := store.NewStore(filepath.Join(t.TempDir(), "history.db"))
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

type fixedAnalyzer struct {
	result *prism.Result
	err    error
}

func (f fixedAnalyzer) Submit(ctx context.Context, source string) (*prism.Result, error) {
	return f.result, f.err
}

func sampleResult() *prism.Result {
	v := "f"
	return &prism.Result{
		Tokens: []prism.Token{{Type: "KEYWORD", Value: "def"}, {Type: "IDENTIFIER", Value: "f"}},
		SyntaxTree: []*prism.TreeNode{
			{Type: "function_definition", Children: []*prism.TreeNode{{Type: "identifier", Value: &v}}},
		},
		SyntaxErrors:   []prism.Diagnostic{{Message: "missing ':'", Line: 1}},
		SemanticErrors: []prism.Diagnostic{},
	}
}

func TestCycleRecord_Success(t *testing.T) {
	t.Parallel()
	started := time.Date(2024, 6, 1, 10, 0, 0, 0, time.UTC)
	o := prism.Outcome{
		Cycle:      prism.Cycle{Seq: 3, ID: "c-3", Source: "def f", StartedAt: started},
		State:      prism.Succeeded,
		Result:     sampleResult(),
		FinishedAt: started.Add(time.Second),
	}

	c := CycleRecord("sess", o)
	assert.Equal(t, "c-3", c.ID)
	assert.Equal(t, uint64(3), c.Seq)
	assert.Equal(t, "sess", c.SessionID)
	assert.Equal(t, "succeeded", c.State)
	assert.Equal(t, store.SourceHash("def f"), c.SourceHash)
	assert.Equal(t, 5, c.SourceLen)
	assert.Equal(t, 2, c.TokenCount)
	assert.Equal(t, 2, c.NodeCount)
	assert.Equal(t, 1, c.ErrorCount)
	require.NotNil(t, c.FinishedAt)
	assert.Equal(t, started.Add(time.Second), *c.FinishedAt)
	assert.False(t, c.Failed())
}

func TestCycleRecord_Failure(t *testing.T) {
	t.Parallel()
	o := prism.Outcome{
		Cycle: prism.Cycle{Seq: 1, ID: "c-1", Source: "x"},
		State: prism.Failed,
		Err:   &prism.AnalysisError{Kind: prism.ServerRejected, Status: 502, StatusText: "Bad Gateway"},
	}
	c := CycleRecord("sess", o)
	assert.Equal(t, "failed", c.State)
	assert.Equal(t, "server_rejected", c.ErrorKind)
	assert.Contains(t, c.ErrorMessage, "502 Bad Gateway")
	assert.Zero(t, c.TokenCount)
	assert.True(t, c.Failed())
}

func TestCycleRecord_Stale(t *testing.T) {
	t.Parallel()
	o := prism.Outcome{Cycle: prism.Cycle{ID: "old"}, State: prism.Failed, Err: errors.New("late"), Stale: true}
	c := CycleRecord("", o)
	assert.Equal(t, StateSuperseded, c.State)
	assert.Equal(t, "unknown", c.ErrorKind)
}

func TestRecorder_ObservesSessionCycles(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	rec := NewRecorder(st, "sess-42")
	s := prism.NewSession(prism.WithObserver(rec.Observe))

	_, err := s.Run(context.Background(), fixedAnalyzer{result: sampleResult()}, "def f")
	require.NoError(t, err)
	_, err = s.Run(context.Background(), fixedAnalyzer{err: &prism.AnalysisError{Kind: prism.Unreachable, Err: errors.New("refused")}}, "y")
	require.NoError(t, err)

	rows, err := st.CyclesBySession("sess-42")
	require.NoError(t, err)
	require.Len(t, rows, 2)

	n, err := st.CountCycles()
	require.NoError(t, err)
	assert.Equal(t, 2, n)

	latest, err := st.ListCycles(1)
	require.NoError(t, err)
	require.Len(t, latest, 1)
	assert.Equal(t, "failed", latest[0].State)
	assert.Equal(t, "unreachable", latest[0].ErrorKind)
}

func TestRecorder_ObserveLogsStoreErrors(t *testing.T) {
	t.Parallel()
	st := newTestStore(t)
	rec := NewRecorder(st, "sess")
	require.NoError(t, st.Close())

	err := rec.Record(prism.Outcome{Cycle: prism.Cycle{ID: "x"}, State: prism.Succeeded})
	assert.Error(t, err)
	assert.NotPanics(t, func() { rec.Observe(prism.Outcome{Cycle: prism.Cycle{ID: "y"}}) })
}
