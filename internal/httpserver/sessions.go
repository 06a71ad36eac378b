// internal/httpserver/sessions.go
//
// In-memory registry of active game sessions, keyed by session id.
// Sessions are held here for the duration of play and removed once their
// record is persisted. Abandoned sessions simply stay until process exit;
// they are never summarized or persisted.

package httpserver

import (
	"sync"

	"cupgame/internal/game"
)

type registry struct {
	mu       sync.RWMutex
	sessions map[string]*game.Session
}

func newRegistry() *registry {
	return &registry{sessions: make(map[string]*game.Session)}
}

func (r *registry) put(s *game.Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[s.ID()] = s
}

func (r *registry) get(id string) (*game.Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[id]
	return s, ok
}

func (r *registry) drop(id string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	delete(r.sessions, id)
}
