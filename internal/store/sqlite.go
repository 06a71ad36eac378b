// internal/store/sqlite.go
//
// SQLite-backed implementation of the Store interface.
// Responsibilities:
//   - Opening the database with safe defaults (WAL, busy timeout).
//   - Creating the game_sessions table idempotently.
//   - Append/Query over the flat record shape, wrapping failures in
//     ErrPersistence.
//
// Timestamps are stored as RFC3339 strings; queries order and range-filter
// on them directly, which sorts correctly for RFC3339 in UTC.

package store

import (
	"context"
	"database/sql"
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"cupgame/internal/game"
)

const schema = `
CREATE TABLE IF NOT EXISTS game_sessions (
    id               TEXT PRIMARY KEY,
    player_id        TEXT NOT NULL DEFAULT '',
    timestamp        TEXT NOT NULL,
    difficulty       TEXT NOT NULL,
    game_mode        TEXT NOT NULL,
    wins             INTEGER NOT NULL,
    losses           INTEGER NOT NULL,
    duration_seconds REAL NOT NULL DEFAULT 0,
    CHECK (wins + losses >= 1)
);
CREATE INDEX IF NOT EXISTS idx_game_sessions_timestamp ON game_sessions(timestamp);
`

// SQLite persists session records in a single SQLite database.
type SQLite struct {
	db *sql.DB
}

// OpenSQLite opens (creating if missing) the database file at dsn and
// ensures the schema exists.
func OpenSQLite(dsn string) (*SQLite, error) {
	// Ensure directory exists for ./data/cupgame.db, etc.
	dir := filepath.Dir(dsn)
	if dir != "." && dir != "" {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return nil, fmt.Errorf("%w: mkdir %s: %v", ErrPersistence, dir, err)
		}
	}
	db, err := sql.Open("sqlite3", dsn+"?_busy_timeout=5000&_journal_mode=WAL")
	if err != nil {
		return nil, fmt.Errorf("%w: open %s: %v", ErrPersistence, dsn, err)
	}
	if _, err := db.Exec(`PRAGMA foreign_keys = ON; PRAGMA journal_mode = WAL;`); err != nil {
		return nil, fmt.Errorf("%w: set pragmas: %v", ErrPersistence, err)
	}
	return NewSQLite(db)
}

// NewSQLite wraps an existing handle (tests pass :memory:) and ensures the
// schema exists.
func NewSQLite(db *sql.DB) (*SQLite, error) {
	if _, err := db.Exec(schema); err != nil {
		return nil, fmt.Errorf("%w: ensure schema: %v", ErrPersistence, err)
	}
	return &SQLite{db: db}, nil
}

// Close releases the underlying handle.
func (s *SQLite) Close() error { return s.db.Close() }

// Append inserts one completed session row. Rows are never updated or
// deleted afterwards.
func (s *SQLite) Append(ctx context.Context, rec game.Record) error {
	_, err := s.db.ExecContext(ctx, `
        INSERT INTO game_sessions
            (id, player_id, timestamp, difficulty, game_mode, wins, losses, duration_seconds)
        VALUES (?,?,?,?,?,?,?,?)`,
		rec.ID, rec.PlayerID, rec.Timestamp.UTC().Format(time.RFC3339),
		string(rec.Difficulty), string(rec.Mode), rec.Wins, rec.Losses, rec.DurationSeconds,
	)
	if err != nil {
		return fmt.Errorf("%w: append session %s: %v", ErrPersistence, rec.ID, err)
	}
	return nil
}

// Query returns matching rows ordered by timestamp ascending.
func (s *SQLite) Query(ctx context.Context, f Filter) ([]game.Record, error) {
	q := `SELECT id, player_id, timestamp, difficulty, game_mode, wins, losses, duration_seconds
	      FROM game_sessions`
	var conds []string
	var args []any
	if f.Difficulty != "" {
		conds = append(conds, "difficulty = ?")
		args = append(args, string(f.Difficulty))
	}
	if f.Mode != "" {
		conds = append(conds, "game_mode = ?")
		args = append(args, string(f.Mode))
	}
	if !f.From.IsZero() {
		conds = append(conds, "timestamp >= ?")
		args = append(args, f.From.UTC().Format(time.RFC3339))
	}
	if !f.To.IsZero() {
		conds = append(conds, "timestamp < ?")
		args = append(args, f.To.UTC().Format(time.RFC3339))
	}
	if len(conds) > 0 {
		q += " WHERE " + strings.Join(conds, " AND ")
	}
	q += " ORDER BY timestamp ASC"

	rows, err := s.db.QueryContext(ctx, q, args...)
	if err != nil {
		return nil, fmt.Errorf("%w: query sessions: %v", ErrPersistence, err)
	}
	defer rows.Close()

	var out []game.Record
	for rows.Next() {
		var rec game.Record
		var ts, diff, mode string
		if err := rows.Scan(&rec.ID, &rec.PlayerID, &ts, &diff, &mode,
			&rec.Wins, &rec.Losses, &rec.DurationSeconds); err != nil {
			return nil, fmt.Errorf("%w: scan session row: %v", ErrPersistence, err)
		}
		rec.Timestamp, _ = time.Parse(time.RFC3339, ts)
		rec.Difficulty = game.Difficulty(diff)
		rec.Mode = game.Mode(mode)
		out = append(out, rec)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: iterate session rows: %v", ErrPersistence, err)
	}
	return out, nil
}
