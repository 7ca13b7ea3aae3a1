package driven

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// SessionStore persists a credential provider's session between runs.
type SessionStore interface {
	// Load returns the saved session, or domain.ErrNotFound if there is none.
	Load(ctx context.Context) (*domain.StoredSession, error)

	// Save replaces the saved session.
	Save(ctx context.Context, session *domain.StoredSession) error

	// Clear removes the saved session. Clearing an absent session is not an error.
	Clear(ctx context.Context) error
}
