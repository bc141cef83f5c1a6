package store

import (
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	dbPath := filepath.Join(t.TempDir(), "test.db")
	s, err := NewStore(dbPath)
	require.NoError(t, err)
	require.NoError(t, s.Migrate())
	t.Cleanup(func() { s.Close() })
	return s
}

func ptr[T any](v T) *T { return &v }

// insertTestCycle inserts a succeeded cycle started at the given offset
// from a fixed base time.
func insertTestCycle(t *testing.T, s *Store, id string, seq uint64, offset time.Duration) *Cycle {
	t.Helper()
	base := time.Date(2024, 3, 1, 12, 0, 0, 0, time.UTC)
	c := &Cycle{
		ID:         id,
		Seq:        seq,
		SessionID:  "sess-1",
		StartedAt:  base.Add(offset),
		FinishedAt: ptr(base.Add(offset + time.Second)),
		SourceHash: SourceHash(id),
		SourceLen:  len(id),
		State:      "succeeded",
		TokenCount: 3,
		NodeCount:  2,
	}
	require.NoError(t, s.InsertCycle(c))
	return c
}

// ===== Schema =====

func TestMigrate_Idempotent(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	require.NoError(t, s.Migrate())

	var name string
	err := s.DB().QueryRow(`SELECT name FROM sqlite_master WHERE type='table' AND name='cycles'`).Scan(&name)
	require.NoError(t, err)
	assert.Equal(t, "cycles", name)
}

func TestNewStore_BadPath(t *testing.T) {
	t.Parallel()
	_, err := NewStore(filepath.Join(t.TempDir(), "missing", "dir", "x.db"))
	assert.Error(t, err)
}

// ===== Cycles =====

func TestInsertCycle_RoundTrip(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	want := insertTestCycle(t, s, "c-1", 1, 0)

	got, err := s.CycleByID("c-1")
	require.NoError(t, err)
	require.NotNil(t, got)

	assert.Equal(t, want.Seq, got.Seq)
	assert.Equal(t, "sess-1", got.SessionID)
	assert.True(t, want.StartedAt.Equal(got.StartedAt))
	require.NotNil(t, got.FinishedAt)
	assert.True(t, want.FinishedAt.Equal(*got.FinishedAt))
	assert.Equal(t, want.SourceHash, got.SourceHash)
	assert.Equal(t, 3, got.TokenCount)
	assert.Equal(t, 2, got.NodeCount)
	assert.False(t, got.Failed())
}

func TestInsertCycle_Failure(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := &Cycle{
		ID:           "c-err",
		Seq:          4,
		StartedAt:    time.Now().Truncate(time.Second),
		SourceHash:   SourceHash("x"),
		SourceLen:    1,
		State:        "failed",
		ErrorKind:    "ServerRejected",
		ErrorMessage: "Analysis failed: Internal Server Error",
	}
	require.NoError(t, s.InsertCycle(c))

	got, err := s.CycleByID("c-err")
	require.NoError(t, err)
	require.NotNil(t, got)
	assert.Nil(t, got.FinishedAt)
	assert.Empty(t, got.SessionID)
	assert.Equal(t, "ServerRejected", got.ErrorKind)
	assert.True(t, got.Failed())
}

func TestInsertCycle_EmptyID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	err := s.InsertCycle(&Cycle{})
	assert.Error(t, err)
}

func TestInsertCycle_ReplacesSameID(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	c := insertTestCycle(t, s, "c-1", 1, 0)
	c.TokenCount = 99
	require.NoError(t, s.InsertCycle(c))

	n, err := s.CountCycles()
	require.NoError(t, err)
	assert.Equal(t, 1, n)

	got, err := s.CycleByID("c-1")
	require.NoError(t, err)
	assert.Equal(t, 99, got.TokenCount)
}

func TestCycleByID_NotFound(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	got, err := s.CycleByID("nope")
	require.NoError(t, err)
	assert.Nil(t, got)
}

func TestListCycles_NewestFirstWithLimit(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestCycle(t, s, "a", 1, 0)
	insertTestCycle(t, s, "b", 2, time.Minute)
	insertTestCycle(t, s, "c", 3, 2*time.Minute)

	all, err := s.ListCycles(0)
	require.NoError(t, err)
	require.Len(t, all, 3)
	assert.Equal(t, "c", all[0].ID)
	assert.Equal(t, "a", all[2].ID)

	two, err := s.ListCycles(2)
	require.NoError(t, err)
	require.Len(t, two, 2)
	assert.Equal(t, []string{"c", "b"}, []string{two[0].ID, two[1].ID})
}

func TestCyclesBySession(t *testing.T) {
	t.Parallel()
	s := newTestStore(t)
	insertTestCycle(t, s, "b", 2, time.Minute)
	insertTestCycle(t, s, "a", 1, 0)
	other := &Cycle{ID: "z", Seq: 1, SessionID: "sess-2", StartedAt: time.Now(), SourceHash: "h", State: "succeeded"}
	require.NoError(t, s.InsertCycle(other))

	got, err := s.CyclesBySession("sess-1")
	require.NoError(t, err)
	require.Len(t, got, 2)
	assert.Equal(t, "a", got[0].ID)
	assert.Equal(t, "b", got[1].ID)
}

// ===== Hash =====

func TestSourceHash(t *testing.T) {
	t.Parallel()
	assert.Equal(t, SourceHash("x = 1"), SourceHash("x = 1"))
	assert.NotEqual(t, SourceHash("x = 1"), SourceHash("x = 2"))
	assert.Len(t, SourceHash(""), 64)
}
