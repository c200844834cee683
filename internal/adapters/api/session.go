package api

import (
	"sync"

	"github.com/dkeye/CounselCall/internal/domain"
)

// Session is the explicit auth state of one client: the bearer token and the
// user it resolved to. The zero value is logged out.
type Session struct {
	mu    sync.RWMutex
	token string
	user  *domain.User
}

func (s *Session) Token() string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

// User returns a copy of the logged-in user.
func (s *Session) User() (domain.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.user == nil {
		return domain.User{}, false
	}
	return *s.user, true
}

func (s *Session) Authenticated() bool {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user != nil
}

func (s *Session) set(token string, u *domain.User) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.token = token
	s.user = u
}

func (s *Session) Clear() {
	s.set("", nil)
}
