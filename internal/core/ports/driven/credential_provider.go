package driven

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// CredentialProvider is the external authority that knows who is signed in
// and can mint short-lived bearer tokens for them.
//
// The core never caches tokens; any caching is the provider's business.
type CredentialProvider interface {
	// CurrentIdentity returns the signed-in identity, or nil.
	// It must not block on the network.
	CurrentIdentity() *domain.Identity

	// Subscribe registers a handler that is called with the new identity
	// (nil when signed out) whenever the provider's state changes.
	// Providers may report the same identity more than once.
	// The returned function removes the handler.
	Subscribe(handler func(*domain.Identity)) (unsubscribe func())

	// FreshToken returns a valid bearer token for the given identity.
	// Implementations should fail if identity is no longer the signed-in one.
	FreshToken(ctx context.Context, identity domain.Identity) (string, error)
}

// Authenticator is implemented by providers that support interactive sign-in.
type Authenticator interface {
	// SignIn authenticates with email and password and returns the identity.
	SignIn(ctx context.Context, email, password string) (*domain.Identity, error)

	// SignOut discards the current session.
	SignOut(ctx context.Context) error
}
