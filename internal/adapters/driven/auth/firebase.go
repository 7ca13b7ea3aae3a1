package auth

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"time"

	"golang.org/x/oauth2"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driven/oauth"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// Ensure FirebaseProvider implements the interfaces.
var (
	_ driven.CredentialProvider = (*FirebaseProvider)(nil)
	_ driven.Authenticator      = (*FirebaseProvider)(nil)
)

// refreshBuffer is how long before expiry an ID token is refreshed.
const refreshBuffer = 5 * time.Minute

// FirebaseProvider signs in with email and password and keeps the
// resulting ID token fresh using the refresh token.
//
// The session is persisted through a SessionStore so that later runs
// start signed in. Nothing is reported to subscribers until Restore,
// SignIn or SignOut has run once.
type FirebaseProvider struct {
	exchanger *oauth.Exchanger
	store     driven.SessionStore

	mu       sync.RWMutex
	session  *domain.StoredSession
	source   oauth2.TokenSource
	reported bool
	subs     []subscriber
	nextID   int
}

type subscriber struct {
	id int
	fn func(*domain.Identity)
}

// NewFirebaseProvider creates a provider. Call Restore to load any saved session.
func NewFirebaseProvider(exchanger *oauth.Exchanger, store driven.SessionStore) *FirebaseProvider {
	return &FirebaseProvider{
		exchanger: exchanger,
		store:     store,
	}
}

// CurrentIdentity returns the signed-in identity, or nil.
func (p *FirebaseProvider) CurrentIdentity() *domain.Identity {
	p.mu.RLock()
	defer p.mu.RUnlock()
	return p.session.Identity()
}

// Subscribe registers handler. If the provider has already reported, the
// handler is called immediately with the current identity.
func (p *FirebaseProvider) Subscribe(handler func(*domain.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.subs = append(p.subs, subscriber{id: id, fn: handler})
	reported := p.reported
	identity := p.session.Identity()
	p.mu.Unlock()

	if reported {
		handler(identity)
	}

	var once sync.Once
	return func() {
		once.Do(func() {
			p.mu.Lock()
			defer p.mu.Unlock()
			for i, s := range p.subs {
				if s.id == id {
					p.subs = append(p.subs[:i:i], p.subs[i+1:]...)
					return
				}
			}
		})
	}
}

// FreshToken returns a valid ID token for identity, refreshing it when it
// is close to expiry.
func (p *FirebaseProvider) FreshToken(ctx context.Context, identity domain.Identity) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	p.mu.RLock()
	session := p.session
	source := p.source
	p.mu.RUnlock()

	if session == nil || source == nil {
		return "", domain.ErrAuthRequired
	}
	if session.UID != identity.UID {
		return "", domain.ErrIdentityChanged
	}

	token, err := source.Token()
	if err != nil {
		return "", fmt.Errorf("%w: %w", domain.ErrTokenRefreshFailed, err)
	}
	return token.AccessToken, nil
}

// SignIn exchanges email and password for a session and persists it.
func (p *FirebaseProvider) SignIn(ctx context.Context, email, password string) (*domain.Identity, error) {
	resp, err := p.exchanger.SignInWithPassword(ctx, email, password)
	if err != nil {
		if errors.Is(err, oauth.ErrInvalidCredentials) {
			return nil, fmt.Errorf("%w: %w", domain.ErrAuthInvalid, err)
		}
		return nil, err
	}

	session := &domain.StoredSession{
		UID:          resp.UserID,
		Email:        resp.Email,
		RefreshToken: resp.RefreshToken,
		IDToken:      resp.IDToken,
		Expiry:       resp.Expiry,
	}
	if session.Email == "" {
		session.Email = email
	}
	if err := p.store.Save(ctx, session); err != nil {
		return nil, fmt.Errorf("save session: %w", err)
	}

	logger.Info("Signed in as %s", session.Email)
	p.apply(session)
	return session.Identity(), nil
}

// SignOut clears the saved session.
func (p *FirebaseProvider) SignOut(ctx context.Context) error {
	if err := p.store.Clear(ctx); err != nil {
		return fmt.Errorf("clear session: %w", err)
	}
	logger.Info("Signed out")
	p.apply(nil)
	return nil
}

// Restore loads the saved session and reports it. It is also called when
// another process changes the saved session.
func (p *FirebaseProvider) Restore(ctx context.Context) error {
	session, err := p.store.Load(ctx)
	switch {
	case errors.Is(err, domain.ErrNotFound):
		session = nil
		err = nil
	case err != nil:
		logger.Warn("Could not load session: %v", err)
		session = nil
		err = fmt.Errorf("load session: %w", err)
	}

	p.apply(session)
	return err
}

// apply installs session and notifies subscribers.
func (p *FirebaseProvider) apply(session *domain.StoredSession) {
	p.mu.Lock()
	p.session = session
	p.source = nil
	if session != nil {
		var initial *oauth2.Token
		if session.IDToken != "" && !session.Expiry.IsZero() {
			initial = &oauth2.Token{AccessToken: session.IDToken, Expiry: session.Expiry}
		}
		p.source = oauth2.ReuseTokenSourceWithExpiry(initial, &refreshSource{provider: p, session: session}, refreshBuffer)
	}
	p.reported = true
	subs := make([]subscriber, len(p.subs))
	copy(subs, p.subs)
	identity := session.Identity()
	p.mu.Unlock()

	for _, s := range subs {
		s.fn(identity)
	}
}

// refreshSource is the oauth2.TokenSource behind the reuse cache. It
// exchanges the session's refresh token and persists the result.
type refreshSource struct {
	provider *FirebaseProvider
	session  *domain.StoredSession
}

// Token implements oauth2.TokenSource.
func (r *refreshSource) Token() (*oauth2.Token, error) {
	p := r.provider
	ctx := context.Background()

	p.mu.RLock()
	refreshToken := r.session.RefreshToken
	p.mu.RUnlock()

	if refreshToken == "" {
		return nil, domain.ErrAuthRequired
	}

	logger.Debug("Refreshing ID token")
	resp, err := p.exchanger.Refresh(ctx, refreshToken)
	if err != nil {
		return nil, err
	}

	p.mu.Lock()
	r.session.IDToken = resp.IDToken
	r.session.Expiry = resp.Expiry
	if resp.RefreshToken != "" {
		r.session.RefreshToken = resp.RefreshToken
	}
	saved := *r.session
	current := p.session == r.session
	p.mu.Unlock()

	if current {
		if err := p.store.Save(ctx, &saved); err != nil {
			logger.Warn("Could not persist refreshed session: %v", err)
		}
	}

	return &oauth2.Token{AccessToken: resp.IDToken, TokenType: "Bearer", Expiry: resp.Expiry}, nil
}
