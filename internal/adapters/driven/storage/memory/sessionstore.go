package memory

import (
	"context"
	"sync"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionStore is an in-memory implementation of driven.SessionStore.
type SessionStore struct {
	mu      sync.RWMutex
	session *domain.StoredSession
}

// NewSessionStore creates a new in-memory session store.
func NewSessionStore() *SessionStore {
	return &SessionStore{}
}

// Load returns a copy of the saved session.
func (s *SessionStore) Load(_ context.Context) (*domain.StoredSession, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if s.session == nil {
		return nil, domain.ErrNotFound
	}
	session := *s.session
	return &session, nil
}

// Save replaces the saved session.
func (s *SessionStore) Save(_ context.Context, session *domain.StoredSession) error {
	if session == nil {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	stored := *session
	s.session = &stored
	return nil
}

// Clear removes the saved session.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.session = nil
	return nil
}
