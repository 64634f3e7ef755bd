package sessionstore

import (
	"sync"

	"github.com/josephheron/devlens/internal/domain/session"
)

// Memory keeps sessions in process memory for the lifetime of the
// server. Sessions are keyed by caller-supplied identity; there is no
// eviction, matching the reset-on-restart lifecycle.
type Memory struct {
	mu       sync.RWMutex
	sessions map[string]*session.Session
}

func NewMemory() *Memory {
	return &Memory{sessions: make(map[string]*session.Session)}
}

// Snapshot returns a copy of the session for id. The copy shares the
// Result pointer; results are treated as immutable once stored.
func (m *Memory) Snapshot(id string) (session.Session, bool) {
	m.mu.RLock()
	defer m.mu.RUnlock()
	s, ok := m.sessions[id]
	if !ok {
		return session.Session{ID: id}, false
	}
	return *s, true
}

// Update runs fn against the session for id under the write lock,
// creating the session if it does not exist yet.
func (m *Memory) Update(id string, fn func(*session.Session)) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		s = &session.Session{ID: id}
		m.sessions[id] = s
	}
	fn(s)
}

// Len reports the number of live sessions.
func (m *Memory) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}
