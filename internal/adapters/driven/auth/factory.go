package auth

import (
	"fmt"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/oauth"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
)

// Provider bundles what the configured credential provider offers.
type Provider struct {
	// Credentials is always set.
	Credentials driven.CredentialProvider

	// Authenticator is nil for providers without interactive sign-in.
	Authenticator driven.Authenticator

	// Firebase is set when the firebase provider is selected, so callers
	// can restore and watch its session.
	Firebase *FirebaseProvider
}

// NewProvider creates the credential provider selected in settings.
// The session store is only used by the firebase provider.
func NewProvider(settings domain.AuthSettings, store driven.SessionStore) (*Provider, error) {
	switch settings.Provider {
	case domain.ProviderStatic:
		return &Provider{Credentials: NewStaticProvider(TokenFromEnv(settings.Token))}, nil

	case domain.ProviderFirebase:
		if settings.FirebaseAPIKey == "" {
			return nil, fmt.Errorf("%w: auth.firebase_api_key is not set", domain.ErrInvalidInput)
		}
		fb := NewFirebaseProvider(oauth.NewExchanger(settings.FirebaseAPIKey), store)
		return &Provider{Credentials: fb, Authenticator: fb, Firebase: fb}, nil

	default:
		return nil, fmt.Errorf("%w: credential provider %q", domain.ErrUnsupportedType, settings.Provider)
	}
}
