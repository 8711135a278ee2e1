package auth

import (
	"crypto/subtle"
	"sync"
	"time"
)

// Session is the server-side record behind an issued credential pair.
type Session struct {
	UserID     string
	CSRFToken  string
	CreatedAt  time.Time
	LastAccess time.Time
	UserAgent  string
	IP         string
}

// SessionStore is the session abstraction injected into handlers. The
// in-memory implementation below is the default; a Redis- or DB-backed
// store can be swapped in without touching the handlers.
type SessionStore interface {
	Put(id string, s Session)
	// Get returns false for unknown sessions and for sessions past the
	// absolute age ceiling, regardless of refresh activity.
	Get(id string) (Session, bool)
	Touch(id, userAgent, ip string)
	Delete(id string)
	// Sweep evicts expired sessions. Called opportunistically from the
	// login and refresh paths, not from a scheduler.
	Sweep()
}

type MemorySessionStore struct {
	mu       sync.Mutex
	sessions map[string]Session
	maxAge   time.Duration
	now      func() time.Time
}

func NewMemorySessionStore() *MemorySessionStore {
	return &MemorySessionStore{
		sessions: make(map[string]Session),
		maxAge:   SessionAbsoluteTTL,
		now:      time.Now,
	}
}

func (m *MemorySessionStore) Put(id string, s Session) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.sessions[id] = s
}

func (m *MemorySessionStore) Get(id string) (Session, bool) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return Session{}, false
	}
	if m.now().Sub(s.CreatedAt) > m.maxAge {
		delete(m.sessions, id)
		return Session{}, false
	}
	return s, true
}

func (m *MemorySessionStore) Touch(id, userAgent, ip string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s, ok := m.sessions[id]
	if !ok {
		return
	}
	s.LastAccess = m.now()
	s.UserAgent = userAgent
	s.IP = ip
	m.sessions[id] = s
}

func (m *MemorySessionStore) Delete(id string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	delete(m.sessions, id)
}

func (m *MemorySessionStore) Sweep() {
	m.mu.Lock()
	defer m.mu.Unlock()
	now := m.now()
	for id, s := range m.sessions {
		if now.Sub(s.CreatedAt) > m.maxAge {
			delete(m.sessions, id)
		}
	}
}

// VerifyCSRF compares a submitted CSRF token against the one bound to
// the session at login. Constant-time compare, empty never matches.
func VerifyCSRF(store SessionStore, sessionID, token string) bool {
	if sessionID == "" || token == "" {
		return false
	}
	s, ok := store.Get(sessionID)
	if !ok || s.CSRFToken == "" {
		return false
	}
	return subtle.ConstantTimeCompare([]byte(s.CSRFToken), []byte(token)) == 1
}
