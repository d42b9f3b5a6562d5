package auth

import (
	"sync"
	"time"
)

// Session is the server-side record of a logged-in user.
type Session struct {
	Token     string
	UserID    int64
	Username  string
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired is a pure function of the session and a clock reading.
func (s Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore keeps active sessions in memory with an injected
// clock, replacing ambient browser-storage style session state. It is
// created at startup and torn down with Close.
type SessionStore struct {
	mu       sync.RWMutex
	sessions map[string]Session
	ttl      time.Duration
	now      func() time.Time
}

// NewSessionStore builds a store. A nil clock falls back to time.Now.
func NewSessionStore(ttl time.Duration, now func() time.Time) *SessionStore {
	if now == nil {
		now = time.Now
	}
	if ttl <= 0 {
		ttl = 8 * time.Hour
	}
	return &SessionStore{
		sessions: make(map[string]Session),
		ttl:      ttl,
		now:      now,
	}
}

// Put registers a session for the token.
func (s *SessionStore) Put(token string, userID int64, username string) Session {
	now := s.now()
	session := Session{
		Token:     token,
		UserID:    userID,
		Username:  username,
		CreatedAt: now,
		ExpiresAt: now.Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[token] = session
	s.mu.Unlock()
	return session
}

// Get returns the live session for the token. Expired sessions are
// dropped on access.
func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.RLock()
	session, ok := s.sessions[token]
	s.mu.RUnlock()
	if !ok {
		return Session{}, false
	}
	if session.Expired(s.now()) {
		s.Delete(token)
		return Session{}, false
	}
	return session, true
}

// Delete removes a session, as logout does.
func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Close drops every session.
func (s *SessionStore) Close() {
	s.mu.Lock()
	s.sessions = make(map[string]Session)
	s.mu.Unlock()
}
