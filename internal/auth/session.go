// Package auth holds the explicit session model: sessions are objects with
// a clear init (sign-in or trusted-token exchange) and teardown (sign-out),
// never ambient mutable state.
package auth

import (
	"crypto/rand"
	"encoding/hex"
	"sync"
	"time"

	"laundry-system/internal/domain"
)

type Session struct {
	Token     string
	UID       string
	Name      string
	Role      string
	ExpiresAt time.Time
}

// SessionStore keeps live sessions in memory with a TTL. Expired entries
// are dropped on access.
type SessionStore struct {
	mu       sync.Mutex
	ttl      time.Duration
	sessions map[string]Session
	now      func() time.Time
}

func NewSessionStore(ttl time.Duration) *SessionStore {
	return &SessionStore{
		ttl:      ttl,
		sessions: make(map[string]Session),
		now:      func() time.Time { return time.Now().UTC() },
	}
}

func newToken() string {
	var b [16]byte
	_, _ = rand.Read(b[:])
	return hex.EncodeToString(b[:])
}

func (s *SessionStore) Create(u *domain.User) Session {
	sess := Session{
		Token:     newToken(),
		UID:       u.UID,
		Name:      u.Name,
		Role:      u.Role,
		ExpiresAt: s.now().Add(s.ttl),
	}
	s.mu.Lock()
	s.sessions[sess.Token] = sess
	s.mu.Unlock()
	return sess
}

func (s *SessionStore) Get(token string) (Session, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[token]
	if !ok {
		return Session{}, false
	}
	if s.now().After(sess.ExpiresAt) {
		delete(s.sessions, token)
		return Session{}, false
	}
	return sess, true
}

func (s *SessionStore) Delete(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}
