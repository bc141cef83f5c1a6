package store

import (
	"database/sql"
	"errors"
	"fmt"
	"time"
)

// InsertCycle records a finished cycle. Recording the same ID twice
// replaces the earlier row.
func (s *Store) InsertCycle(c *Cycle) error {
	if c.ID == "" {
		return errors.New("store: insert cycle: empty id")
	}
	_, err := s.db.Exec(
		`INSERT OR REPLACE INTO cycles (id, seq, session_id, started_at, finished_at, source_hash, source_len,
		 state, error_kind, error_message, token_count, node_count, error_count)
		 VALUES (?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?, ?)`,
		c.ID, int64(c.Seq), nullString(c.SessionID), c.StartedAt.UTC(), nullTime(c.FinishedAt),
		c.SourceHash, c.SourceLen, c.State, nullString(c.ErrorKind), nullString(c.ErrorMessage),
		c.TokenCount, c.NodeCount, c.ErrorCount,
	)
	if err != nil {
		return fmt.Errorf("store: insert cycle: %w", err)
	}
	return nil
}

const cycleColumns = `id, seq, session_id, started_at, finished_at, source_hash, source_len,
	state, error_kind, error_message, token_count, node_count, error_count`

// CycleByID returns the cycle with the given ID, or nil if none exists.
func (s *Store) CycleByID(id string) (*Cycle, error) {
	row := s.db.QueryRow(`SELECT `+cycleColumns+` FROM cycles WHERE id = ?`, id)
	c, err := scanCycle(row)
	if errors.Is(err, sql.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("store: cycle by id: %w", err)
	}
	return c, nil
}

// ListCycles returns the most recent cycles, newest first. A limit of
// zero or less returns every row.
func (s *Store) ListCycles(limit int) ([]*Cycle, error) {
	q := `SELECT ` + cycleColumns + ` FROM cycles ORDER BY started_at DESC, seq DESC`
	var args []any
	if limit > 0 {
		q += ` LIMIT ?`
		args = append(args, limit)
	}
	return s.queryCycles(q, args...)
}

// CyclesBySession returns the cycles of one session in submission order.
func (s *Store) CyclesBySession(sessionID string) ([]*Cycle, error) {
	return s.queryCycles(`SELECT `+cycleColumns+` FROM cycles WHERE session_id = ? ORDER BY seq`, sessionID)
}

// CountCycles returns the number of recorded cycles.
func (s *Store) CountCycles() (int, error) {
	var n int
	if err := s.db.QueryRow(`SELECT COUNT(*) FROM cycles`).Scan(&n); err != nil {
		return 0, fmt.Errorf("store: count cycles: %w", err)
	}
	return n, nil
}

func (s *Store) queryCycles(q string, args ...any) ([]*Cycle, error) {
	rows, err := s.db.Query(q, args...)
	if err != nil {
		return nil, fmt.Errorf("store: query cycles: %w", err)
	}
	defer rows.Close()

	var out []*Cycle
	for rows.Next() {
		c, err := scanCycle(rows)
		if err != nil {
			return nil, fmt.Errorf("store: scan cycle: %w", err)
		}
		out = append(out, c)
	}
	return out, rows.Err()
}

type scanner interface {
	Scan(dest ...any) error
}

func scanCycle(sc scanner) (*Cycle, error) {
	var (
		c                          Cycle
		seq                        int64
		sessionID, errKind, errMsg sql.NullString
		finished                   sql.NullTime
	)
	err := sc.Scan(&c.ID, &seq, &sessionID, &c.StartedAt, &finished, &c.SourceHash, &c.SourceLen,
		&c.State, &errKind, &errMsg, &c.TokenCount, &c.NodeCount, &c.ErrorCount)
	if err != nil {
		return nil, err
	}
	c.Seq = uint64(seq)
	c.SessionID = sessionID.String
	c.ErrorKind = errKind.String
	c.ErrorMessage = errMsg.String
	if finished.Valid {
		t := finished.Time
		c.FinishedAt = &t
	}
	return &c, nil
}

func nullString(s string) sql.NullString {
	return sql.NullString{String: s, Valid: s != ""}
}

func nullTime(t *time.Time) sql.NullTime {
	if t == nil {
		return sql.NullTime{}
	}
	return sql.NullTime{Time: t.UTC(), Valid: true}
}
