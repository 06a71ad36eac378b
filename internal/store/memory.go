// internal/store/memory.go
//
// In-memory implementation of the Store interface.
// Used for development and tests, or when durability is not required.
//
// Characteristics:
//   - Records held in a slice sorted by timestamp.
//   - Concurrency-safe via RWMutex (concurrent reads, exclusive writes).
//   - State is lost when the process restarts.

package store

import (
	"context"
	"sort"
	"sync"

	"cupgame/internal/game"
)

type memory struct {
	mu      sync.RWMutex
	records []game.Record
}

// NewMemory constructs an empty in-memory Store.
func NewMemory() Store {
	return &memory{}
}

// Append inserts the record, keeping the slice ordered by timestamp.
func (m *memory) Append(ctx context.Context, rec game.Record) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	i := sort.Search(len(m.records), func(i int) bool {
		return m.records[i].Timestamp.After(rec.Timestamp)
	})
	m.records = append(m.records, game.Record{})
	copy(m.records[i+1:], m.records[i:])
	m.records[i] = rec
	return nil
}

// Query returns a copy of matching records in timestamp order.
func (m *memory) Query(ctx context.Context, f Filter) ([]game.Record, error) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	out := make([]game.Record, 0, len(m.records))
	for _, rec := range m.records {
		if f.Matches(rec) {
			out = append(out, rec)
		}
	}
	return out, nil
}
