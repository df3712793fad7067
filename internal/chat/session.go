package chat

import (
	"fmt"
	"sync"
)

// Session binds a connection to the username and room it joined with.
type Session struct {
	ConnectionID string
	Username     string
	Room         string
}

// Registry maps connection IDs to their active session.
type Registry interface {
	// Register stores a session. It fails with ErrAlreadyJoined if the
	// connection already has one; existing sessions are never overwritten.
	Register(s Session) error
	Lookup(connID string) (Session, bool)
	// Remove deletes the session for connID. Removing an unknown ID is a no-op.
	Remove(connID string) (Session, bool)
	Len() int
}

// MemoryRegistry is an in-process Registry.
type MemoryRegistry struct {
	mu       sync.RWMutex
	sessions map[string]Session
}

// NewMemoryRegistry returns an empty registry.
func NewMemoryRegistry() *MemoryRegistry {
	return &MemoryRegistry{
		sessions: make(map[string]Session),
	}
}

// Register implements Registry.
func (r *MemoryRegistry) Register(s Session) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.sessions[s.ConnectionID]; ok {
		return fmt.Errorf("connection %s in room %q: %w", s.ConnectionID, existing.Room, ErrAlreadyJoined)
	}
	r.sessions[s.ConnectionID] = s
	return nil
}

// Lookup implements Registry.
func (r *MemoryRegistry) Lookup(connID string) (Session, bool) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	s, ok := r.sessions[connID]
	return s, ok
}

// Remove implements Registry.
func (r *MemoryRegistry) Remove(connID string) (Session, bool) {
	r.mu.Lock()
	defer r.mu.Unlock()

	s, ok := r.sessions[connID]
	if ok {
		delete(r.sessions, connID)
	}
	return s, ok
}

// Len returns the number of active sessions.
func (r *MemoryRegistry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}
