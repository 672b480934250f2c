package services

import (
	"fmt"
	"log"
	"sync"
	"time"

	"github.com/google/uuid"
)

// SessionService tracks admin bearer tokens in memory. Tokens expire after
// the configured TTL; each successful validation slides the expiry forward.
type SessionService struct {
	mu       sync.Mutex
	sessions map[string]time.Time
	ttl      time.Duration
	password string
	now      func() time.Time
}

// NewSessionService creates a session store checking logins against password.
func NewSessionService(password string, ttl time.Duration) *SessionService {
	return &SessionService{
		sessions: make(map[string]time.Time),
		ttl:      ttl,
		password: password,
		now:      time.Now,
	}
}

// Login exchanges the admin password for a fresh bearer token.
func (s *SessionService) Login(password string) (string, error) {
	if password != s.password {
		return "", fmt.Errorf("invalid password")
	}

	token := uuid.NewString()
	s.mu.Lock()
	s.sessions[token] = s.now().Add(s.ttl)
	s.mu.Unlock()
	return token, nil
}

// Validate reports whether token belongs to a live session and, if so,
// extends the session.
func (s *SessionService) Validate(token string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	expiry, ok := s.sessions[token]
	if !ok {
		return false
	}
	if s.now().After(expiry) {
		delete(s.sessions, token)
		return false
	}
	s.sessions[token] = s.now().Add(s.ttl)
	return true
}

// Logout forgets the token. Unknown tokens are ignored.
func (s *SessionService) Logout(token string) {
	s.mu.Lock()
	delete(s.sessions, token)
	s.mu.Unlock()
}

// Sweep drops expired sessions and returns how many were removed.
func (s *SessionService) Sweep() int {
	s.mu.Lock()
	defer s.mu.Unlock()

	removed := 0
	now := s.now()
	for token, expiry := range s.sessions {
		if now.After(expiry) {
			delete(s.sessions, token)
			removed++
		}
	}
	return removed
}

// StartSweeper sweeps expired sessions on the given interval until stop is
// closed.
func (s *SessionService) StartSweeper(interval time.Duration, stop <-chan struct{}) {
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ticker.C:
				if n := s.Sweep(); n > 0 {
					log.Printf("Swept %d expired admin sessions", n)
				}
			case <-stop:
				return
			}
		}
	}()
}
