// Package session manages plan preview sessions, one per websocket
// connection.
package session

import (
	"context"
	"slices"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MaxHistory bounds the entries a session keeps; the oldest are dropped.
const MaxHistory = 100

// Entry records one plan made in a session.
type Entry struct {
	Project  string    `json:"project"`
	Actions  int       `json:"actions"`
	Warnings int       `json:"warnings"`
	At       time.Time `json:"at"`
}

// Session holds per-connection preview state.
type Session struct {
	ID        string    `json:"id"`
	CreatedAt time.Time `json:"created_at"`

	mu           sync.Mutex
	history      []Entry
	lastActiveAt time.Time
}

// NewSession creates a new session.
func NewSession() *Session {
	now := time.Now()
	return &Session{
		ID:           uuid.New().String(),
		CreatedAt:    now,
		lastActiveAt: now,
	}
}

// Touch updates the last activity timestamp.
func (s *Session) Touch() {
	s.mu.Lock()
	s.lastActiveAt = time.Now()
	s.mu.Unlock()
}

// AddHistory appends e to the session history.
func (s *Session) AddHistory(e Entry) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if e.At.IsZero() {
		e.At = time.Now()
	}
	s.history = append(s.history, e)
	if n := len(s.history) - MaxHistory; n > 0 {
		s.history = slices.Delete(s.history, 0, n)
	}
	s.lastActiveAt = time.Now()
}

// History returns a copy of the history, oldest first.
func (s *Session) History() []Entry {
	s.mu.Lock()
	defer s.mu.Unlock()
	return append([]Entry{}, s.history...)
}

// IsExpired returns true if the session has exceeded the given max age.
func (s *Session) IsExpired(maxAge time.Duration) bool {
	return time.Since(s.CreatedAt) > maxAge
}

// IsIdle returns true if the session has been idle longer than the timeout.
func (s *Session) IsIdle(timeout time.Duration) bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return time.Since(s.lastActiveAt) > timeout
}

// Manager handles session creation, lookup, and cleanup.
type Manager struct {
	mu          sync.RWMutex
	sessions    map[string]*Session
	maxAge      time.Duration
	idleTimeout time.Duration
}

// NewManager creates a session manager with the given timeouts.
func NewManager(maxAge, idleTimeout time.Duration) *Manager {
	return &Manager{
		sessions:    make(map[string]*Session),
		maxAge:      maxAge,
		idleTimeout: idleTimeout,
	}
}

// Create creates a new session and returns it.
func (m *Manager) Create() *Session {
	s := NewSession()
	m.mu.Lock()
	m.sessions[s.ID] = s
	m.mu.Unlock()
	return s
}

// Get retrieves a session by ID. Returns nil if not found or expired.
func (m *Manager) Get(id string) *Session {
	m.mu.RLock()
	s, ok := m.sessions[id]
	m.mu.RUnlock()
	if !ok {
		return nil
	}
	if m.stale(s) {
		m.Remove(id)
		return nil
	}
	return s
}

// Remove deletes a session.
func (m *Manager) Remove(id string) {
	m.mu.Lock()
	delete(m.sessions, id)
	m.mu.Unlock()
}

// Len returns the number of live sessions.
func (m *Manager) Len() int {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return len(m.sessions)
}

// Cleanup removes all expired and idle sessions and returns how many it
// removed.
func (m *Manager) Cleanup() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	n := 0
	for id, s := range m.sessions {
		if m.stale(s) {
			delete(m.sessions, id)
			n++
		}
	}
	return n
}

// Run calls Cleanup every interval until ctx is done.
func (m *Manager) Run(ctx context.Context, interval time.Duration) {
	t := time.NewTicker(interval)
	defer t.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-t.C:
			m.Cleanup()
		}
	}
}

func (m *Manager) stale(s *Session) bool {
	return s.IsExpired(m.maxAge) || s.IsIdle(m.idleTimeout)
}
