package stream

import "sync"

// Registry maps a rider to the session currently streaming for it. A
// newer connection for the same rider overwrites the mapping; the older
// session is left running and simply loses its entry.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewRegistry() *Registry {
	return &Registry{sessions: make(map[string]*Session)}
}

func (r *Registry) Put(riderID string, s *Session) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.sessions[riderID] = s
}

func (r *Registry) Get(riderID string) (*Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()
	s, ok := r.sessions[riderID]
	return s, ok
}

// RemoveIfCurrent deletes the entry only if it still points at s, so a
// stale session's disconnect can never evict a newer session's mapping.
func (r *Registry) RemoveIfCurrent(riderID string, s *Session) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if current, ok := r.sessions[riderID]; ok && current == s {
		delete(r.sessions, riderID)
		return true
	}
	return false
}

func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
