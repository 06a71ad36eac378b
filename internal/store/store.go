// internal/store/store.go
//
// Statistics store contract: an append-only log of completed session
// records. Implementations may be backed by memory (development, tests) or
// SQLite (the default). No update or delete is exposed anywhere.

package store

import (
	"context"
	"errors"
	"time"

	"cupgame/internal/game"
)

// ErrPersistence wraps any storage failure (unreachable database, failed
// write, timeout). The caller owns retry policy; the store never retries.
var ErrPersistence = errors.New("persistence failure")

// Filter narrows a Query. Zero-value fields match everything; results are
// always ordered by timestamp ascending.
type Filter struct {
	Difficulty game.Difficulty
	Mode       game.Mode
	From       time.Time // inclusive
	To         time.Time // exclusive
}

// Matches reports whether rec passes the filter.
func (f Filter) Matches(rec game.Record) bool {
	if f.Difficulty != "" && rec.Difficulty != f.Difficulty {
		return false
	}
	if f.Mode != "" && rec.Mode != f.Mode {
		return false
	}
	if !f.From.IsZero() && rec.Timestamp.Before(f.From) {
		return false
	}
	if !f.To.IsZero() && !rec.Timestamp.Before(f.To) {
		return false
	}
	return true
}

// Store persists completed session records.
type Store interface {
	// Append records a completed session. Fails with ErrPersistence if the
	// underlying storage is unreachable.
	Append(ctx context.Context, rec game.Record) error

	// Query returns matching records ordered by timestamp ascending. An
	// empty filter returns all records.
	Query(ctx context.Context, f Filter) ([]game.Record, error)
}
