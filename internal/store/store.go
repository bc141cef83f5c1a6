package store

import (
	"database/sql"
	"fmt"

	_ "github.com/mattn/go-sqlite3"
)

// Store is the SQLite history of analysis cycles.
type Store struct {
	db *sql.DB
}

// NewStore opens a SQLite database at dbPath with WAL mode enabled.
func NewStore(dbPath string) (*Store, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_foreign_keys=ON&_busy_timeout=30000")
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}
	if err := db.Ping(); err != nil {
		db.Close()
		return nil, fmt.Errorf("ping database: %w", err)
	}
	return &Store{db: db}, nil
}

// Close closes the underlying database connection.
func (s *Store) Close() error {
	return s.db.Close()
}

// Shutdown closes the store when the owning injector shuts down.
func (s *Store) Shutdown() error {
	return s.Close()
}

// DB returns the underlying *sql.DB for use in transactions.
func (s *Store) DB() *sql.DB {
	return s.db
}

// Migrate creates the history tables and indexes. Idempotent.
func (s *Store) Migrate() error {
	_, err := s.db.Exec(schemaDDL)
	if err != nil {
		return fmt.Errorf("migrate: %w", err)
	}
	return nil
}

const schemaDDL = `
CREATE TABLE IF NOT EXISTS cycles (
  id              TEXT PRIMARY KEY,
  seq             INTEGER NOT NULL,
  session_id      TEXT,
  started_at      TIMESTAMP NOT NULL,
  finished_at     TIMESTAMP,
  source_hash     TEXT NOT NULL,
  source_len      INTEGER NOT NULL,
  state           TEXT NOT NULL,
  error_kind      TEXT,
  error_message   TEXT,
  token_count     INTEGER NOT NULL DEFAULT 0,
  node_count      INTEGER NOT NULL DEFAULT 0,
  error_count     INTEGER NOT NULL DEFAULT 0
);

CREATE INDEX IF NOT EXISTS idx_cycles_started ON cycles(started_at);
CREATE INDEX IF NOT EXISTS idx_cycles_session ON cycles(session_id);
CREATE INDEX IF NOT EXISTS idx_cycles_hash ON cycles(source_hash);
`
