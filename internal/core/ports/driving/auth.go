package driving

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// AuthService manages sign-in for the configured credential provider.
type AuthService interface {
	// SignIn authenticates with email and password.
	// Returns domain.ErrUnsupportedType when the provider has no interactive sign-in.
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)

	// SignOut discards the current session.
	SignOut(ctx context.Context) error

	// Status returns the current session state.
	Status() domain.SessionState

	// SupportsSignIn returns true if the provider accepts email and password.
	SupportsSignIn() bool

	// Verify asks the document service to validate a fresh token
	// and returns the identity it was issued for.
	Verify(ctx context.Context) domain.Outcome[domain.Identity]
}
