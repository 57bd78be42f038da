package server

import (
	"sort"
	"sync"
	"time"

	"github.com/slatelisp/nrepld/internal/repl"
)

// Registry maps session identifiers to their evaluator instances. One
// registry is owned per Service and shared by its connection handlers.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*repl.Repl
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*repl.Repl)}
}

// Upsert installs r under id, replacing any session already there.
func (s *Registry) Upsert(id string, r *repl.Repl) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = r
}

// Get returns the session registered under id.
func (s *Registry) Get(id string) (*repl.Repl, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	r, ok := s.sessions[id]
	return r, ok
}

// Len reports the number of registered sessions.
func (s *Registry) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.sessions)
}

// SessionInfo is one registry entry snapshot.
type SessionInfo struct {
	ID      string    `json:"id"`
	Created time.Time `json:"created"`
}

// Sessions returns a snapshot of registered sessions sorted by id.
func (s *Registry) Sessions() []SessionInfo {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]SessionInfo, 0, len(s.sessions))
	for id, r := range s.sessions {
		out = append(out, SessionInfo{ID: id, Created: r.CreatedAt()})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].ID < out[j].ID })
	return out
}
