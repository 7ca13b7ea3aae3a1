package services

import (
	"context"
	"fmt"
	"strings"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// Ensure AuthService implements the interface.
var _ driving.AuthService = (*AuthService)(nil)

// AuthService manages sign-in for the configured credential provider.
type AuthService struct {
	guard         driving.SessionGuard
	authenticator driven.Authenticator
	remote        driven.DocumentRemote
	gate          gate
}

// NewAuthService creates a new auth service.
// The authenticator is optional (nil for providers without interactive sign-in).
func NewAuthService(
	guard driving.SessionGuard,
	authenticator driven.Authenticator,
	remote driven.DocumentRemote,
) *AuthService {
	return &AuthService{
		guard:         guard,
		authenticator: authenticator,
		remote:        remote,
		gate:          gate{guard: guard},
	}
}

// SetRecorder sets the outcome recorder used for metrics. Optional.
func (s *AuthService) SetRecorder(recorder driven.OutcomeRecorder) {
	s.gate.recorder = recorder
}

// SupportsSignIn returns true if the provider accepts email and password.
func (s *AuthService) SupportsSignIn() bool {
	return s.authenticator != nil
}

// SignIn authenticates with email and password.
// The guard learns about the new identity from the provider.
func (s *AuthService) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	if s.authenticator == nil {
		return nil, domain.ErrUnsupportedType
	}

	email = strings.TrimSpace(email)
	if email == "" || password == "" {
		return nil, fmt.Errorf("%w: email and password are required", domain.ErrInvalidInput)
	}

	logger.Debug("Signing in as %s", email)
	identity, err := s.authenticator.SignIn(ctx, email, password)
	if err != nil {
		return nil, fmt.Errorf("sign in: %w", err)
	}
	return identity, nil
}

// SignOut discards the current session.
func (s *AuthService) SignOut(ctx context.Context) error {
	if s.authenticator == nil {
		return domain.ErrUnsupportedType
	}
	if err := s.authenticator.SignOut(ctx); err != nil {
		return fmt.Errorf("sign out: %w", err)
	}
	return nil
}

// Status returns the current session state.
func (s *AuthService) Status() domain.SessionState {
	return s.guard.State()
}

// Verify asks the service to validate a fresh token and returns the
// identity that token was issued for.
func (s *AuthService) Verify(ctx context.Context) domain.Outcome[domain.Identity] {
	logger.Section("Verify Token")

	return authorizedAs(ctx, s.gate, OpVerify, func(ctx context.Context, cred domain.Credential) (domain.Identity, error) {
		if err := s.remote.VerifyToken(ctx, cred.Token.String()); err != nil {
			return domain.Identity{}, err
		}
		return cred.Identity, nil
	})
}
