package file

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sync"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
)

// Ensure SessionStore implements the interface.
var _ driven.SessionStore = (*SessionStore)(nil)

// SessionFileName is the session file inside the config directory.
const SessionFileName = "session.json"

// SessionStore keeps the signed-in session in a JSON file readable only by
// the owner. Writes go through a temp file and rename so readers never see
// a partial file.
type SessionStore struct {
	mu       sync.Mutex
	filePath string
}

// NewSessionStore creates a store in configDir (default ~/.fatawa).
func NewSessionStore(configDir string) (*SessionStore, error) {
	if configDir == "" {
		dir, err := DefaultDir()
		if err != nil {
			return nil, err
		}
		configDir = dir
	}

	if err := os.MkdirAll(configDir, 0700); err != nil {
		return nil, err
	}

	return &SessionStore{filePath: filepath.Join(configDir, SessionFileName)}, nil
}

// Path returns the session file path.
func (s *SessionStore) Path() string {
	return s.filePath
}

// Load reads the saved session.
func (s *SessionStore) Load(_ context.Context) (*domain.StoredSession, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	data, err := os.ReadFile(s.filePath)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, domain.ErrNotFound
		}
		return nil, err
	}
	if len(data) == 0 {
		return nil, domain.ErrNotFound
	}

	var session domain.StoredSession
	if err := json.Unmarshal(data, &session); err != nil {
		return nil, fmt.Errorf("parse %s: %w", SessionFileName, err)
	}
	if session.UID == "" {
		return nil, domain.ErrNotFound
	}
	return &session, nil
}

// Save replaces the saved session.
func (s *SessionStore) Save(_ context.Context, session *domain.StoredSession) error {
	if session == nil {
		return domain.ErrInvalidInput
	}

	data, err := json.MarshalIndent(session, "", "  ")
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	tmp, err := os.CreateTemp(filepath.Dir(s.filePath), ".session-*.json")
	if err != nil {
		return err
	}
	tmpName := tmp.Name()

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpName)
		return err
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpName)
		return err
	}
	if err := os.Chmod(tmpName, 0600); err != nil {
		os.Remove(tmpName)
		return err
	}
	return os.Rename(tmpName, s.filePath)
}

// Clear removes the session file.
func (s *SessionStore) Clear(_ context.Context) error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := os.Remove(s.filePath); err != nil && !errors.Is(err, os.ErrNotExist) {
		return err
	}
	return nil
}
