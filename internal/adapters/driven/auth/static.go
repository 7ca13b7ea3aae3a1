package auth

import (
	"context"
	"encoding/base64"
	"encoding/json"
	"os"
	"strings"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
)

// Ensure StaticProvider implements the interface.
var _ driven.CredentialProvider = (*StaticProvider)(nil)

// Environment variables consulted for a static token, in order.
const (
	EnvToken       = "FATAWA_AUTH_TOKEN"
	EnvLegacyToken = "AUTH_TOKEN"
)

// staticUID is used when the token carries no readable subject.
const staticUID = "static-token"

// StaticProvider serves a pre-issued bearer token. An identity is present
// exactly when a token is configured. It never changes after creation.
type StaticProvider struct {
	token    string
	identity *domain.Identity
}

// NewStaticProvider creates a provider for token. An empty token means
// no one is signed in.
func NewStaticProvider(token string) *StaticProvider {
	token = strings.TrimSpace(token)
	p := &StaticProvider{token: token}
	if token != "" {
		p.identity = identityFromToken(token)
	}
	return p
}

// TokenFromEnv returns configured if set, otherwise the first non-empty
// token environment variable.
func TokenFromEnv(configured string) string {
	if configured != "" {
		return configured
	}
	if v := os.Getenv(EnvToken); v != "" {
		return v
	}
	return os.Getenv(EnvLegacyToken)
}

// CurrentIdentity returns the token's identity, or nil.
func (p *StaticProvider) CurrentIdentity() *domain.Identity {
	if p.identity == nil {
		return nil
	}
	id := *p.identity
	return &id
}

// Subscribe reports the fixed identity immediately. The state never
// changes, so the returned function does nothing.
func (p *StaticProvider) Subscribe(handler func(*domain.Identity)) func() {
	handler(p.CurrentIdentity())
	return func() {}
}

// FreshToken returns the configured token.
func (p *StaticProvider) FreshToken(_ context.Context, identity domain.Identity) (string, error) {
	if p.identity == nil {
		return "", domain.ErrAuthRequired
	}
	if identity.UID != p.identity.UID {
		return "", domain.ErrIdentityChanged
	}
	return p.token, nil
}

// identityFromToken reads the subject and email from a JWT payload
// without verifying it. Opaque tokens get a fixed identity.
func identityFromToken(token string) *domain.Identity {
	parts := strings.Split(token, ".")
	if len(parts) != 3 {
		return &domain.Identity{UID: staticUID}
	}

	payload, err := base64.RawURLEncoding.DecodeString(parts[1])
	if err != nil {
		return &domain.Identity{UID: staticUID}
	}

	var claims struct {
		Sub    string `json:"sub"`
		UserID string `json:"user_id"`
		Email  string `json:"email"`
	}
	if err := json.Unmarshal(payload, &claims); err != nil {
		return &domain.Identity{UID: staticUID}
	}

	uid := claims.UserID
	if uid == "" {
		uid = claims.Sub
	}
	if uid == "" {
		uid = staticUID
	}
	return &domain.Identity{UID: uid, Email: claims.Email}
}
