package driving

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// SessionGuard tracks whether someone is signed in and hands out fresh
// bearer tokens. Document operations consult it before every request.
type SessionGuard interface {
	// CurrentIdentity returns a snapshot of the signed-in identity, or nil.
	CurrentIdentity() *domain.Identity

	// State returns the tri-state session snapshot.
	State() domain.SessionState

	// OnChange registers a handler called once per state transition.
	// Calling the returned function more than once is safe.
	OnChange(handler func(domain.SessionState)) (unsubscribe func())

	// FreshToken obtains a bearer token for the identity signed in at call time.
	FreshToken(ctx context.Context) domain.Outcome[domain.BearerToken]

	// Credential is FreshToken that also reports which identity the token
	// was issued for. The identity is read once.
	Credential(ctx context.Context) domain.Outcome[domain.Credential]

	// Close detaches the guard from its credential provider.
	Close()
}
