package collection

import (
	"sync"

	"github.com/taskboard/core/internal/domain/entities"
	"github.com/taskboard/core/internal/ports"
)

// MemorySession holds the bearer credential for the remote variant. It is
// the process-wide session state: established on login, cleared on logout or
// on any 401 response from the API.
type MemorySession struct {
	mu    sync.RWMutex
	token string
	user  *entities.User
}

// NewMemorySession creates an empty, unauthenticated session.
func NewMemorySession() *MemorySession {
	return &MemorySession{}
}

var _ ports.Session = (*MemorySession)(nil)

// Token returns the bearer credential, if a session is established.
func (s *MemorySession) Token() (string, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token, s.token != ""
}

// Establish stores the credential and the authenticated user.
func (s *MemorySession) Establish(token string, user *entities.User) {
	s.mu.Lock()
	s.token = token
	s.user = user
	s.mu.Unlock()
}

// CurrentUser returns the authenticated user, if any.
func (s *MemorySession) CurrentUser() (*entities.User, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.user, s.user != nil
}

// Clear invalidates the session.
func (s *MemorySession) Clear() {
	s.mu.Lock()
	s.token = ""
	s.user = nil
	s.mu.Unlock()
}
