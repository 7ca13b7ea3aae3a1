package services

import (
	"context"
	"sync"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// Ensure SessionGuard implements the interface.
var _ driving.SessionGuard = (*SessionGuard)(nil)

// SessionGuard mirrors the credential provider's state and gates every
// document operation on it.
//
// The state starts as SessionUnknown and only moves when the provider
// reports. Handlers are notified once per transition and never while the
// guard's lock is held, so a handler may call back into the guard.
// Transitions are delivered one at a time in the order they were applied;
// a report made while another is being delivered is queued behind it.
type SessionGuard struct {
	provider driven.CredentialProvider

	mu          sync.RWMutex
	state       domain.SessionState
	handlers    []subscription
	nextID      int
	pending     []domain.SessionState
	dispatching bool

	detach    func()
	closeOnce sync.Once
}

type subscription struct {
	id int
	fn func(domain.SessionState)
}

// NewSessionGuard creates a guard and subscribes it to provider.
// Providers that report synchronously on Subscribe move the guard out of
// SessionUnknown before this returns.
func NewSessionGuard(provider driven.CredentialProvider) *SessionGuard {
	g := &SessionGuard{provider: provider}
	g.detach = provider.Subscribe(g.report)
	return g
}

// report receives provider callbacks.
func (g *SessionGuard) report(identity *domain.Identity) {
	next := domain.StateFor(identity)

	g.mu.Lock()
	prev := g.state
	if prev.Status == next.Status && prev.Identity.Same(next.Identity) {
		g.mu.Unlock()
		logger.Debug("Session report unchanged (%s), not notifying", next.Status)
		return
	}
	g.state = next
	g.pending = append(g.pending, next)
	logger.Info("Session %s -> %s", prev.Status, next.Status)
	if g.dispatching {
		g.mu.Unlock()
		return
	}
	g.dispatching = true
	g.mu.Unlock()

	g.dispatch()
}

// dispatch drains the pending transitions in order. Only one goroutine
// dispatches at a time.
func (g *SessionGuard) dispatch() {
	for {
		g.mu.Lock()
		if len(g.pending) == 0 {
			g.dispatching = false
			g.mu.Unlock()
			return
		}
		next := g.pending[0]
		g.pending = g.pending[1:]
		handlers := make([]subscription, len(g.handlers))
		copy(handlers, g.handlers)
		g.mu.Unlock()

		for _, h := range handlers {
			h.fn(next)
		}
	}
}

// CurrentIdentity returns a copy of the signed-in identity, or nil.
func (g *SessionGuard) CurrentIdentity() *domain.Identity {
	g.mu.RLock()
	defer g.mu.RUnlock()
	if g.state.Identity == nil {
		return nil
	}
	id := *g.state.Identity
	return &id
}

// State returns the current session snapshot.
func (g *SessionGuard) State() domain.SessionState {
	g.mu.RLock()
	defer g.mu.RUnlock()
	state := g.state
	if state.Identity != nil {
		id := *state.Identity
		state.Identity = &id
	}
	return state
}

// OnChange registers handler for state transitions.
func (g *SessionGuard) OnChange(handler func(domain.SessionState)) func() {
	g.mu.Lock()
	id := g.nextID
	g.nextID++
	g.handlers = append(g.handlers, subscription{id: id, fn: handler})
	g.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			g.mu.Lock()
			defer g.mu.Unlock()
			for i, h := range g.handlers {
				if h.id == id {
					g.handlers = append(g.handlers[:i:i], g.handlers[i+1:]...)
					return
				}
			}
		})
	}
}

// FreshToken snapshots the identity once and asks the provider for a
// token bound to that identity.
func (g *SessionGuard) FreshToken(ctx context.Context) domain.Outcome[domain.BearerToken] {
	return domain.MapOutcome(g.Credential(ctx), func(c domain.Credential) domain.BearerToken {
		return c.Token
	})
}

// Credential snapshots the identity once, asks the provider for a token
// bound to it, and returns both. A sign-in change after the snapshot does
// not alter the returned identity.
func (g *SessionGuard) Credential(ctx context.Context) domain.Outcome[domain.Credential] {
	identity := g.CurrentIdentity()
	if identity == nil {
		logger.Debug("No identity, refusing token request")
		return domain.Failure[domain.Credential](domain.NewAuthError(domain.AuthUnauthenticated, domain.ErrAuthRequired))
	}

	token, err := g.provider.FreshToken(ctx, *identity)
	if err != nil {
		logger.Warn("Token fetch failed for %s: %v", identity, err)
		return domain.Failure[domain.Credential](domain.NewAuthError(domain.AuthTokenFetchFailed, err))
	}
	if token == "" {
		logger.Warn("Provider returned an empty token for %s", identity)
		return domain.Failure[domain.Credential](
			domain.NewAuthError(domain.AuthTokenFetchFailed, domain.ErrTokenRefreshFailed))
	}

	logger.Debug("Fetched token %s for %s", logger.Redact(token), identity)
	return domain.Success(domain.Credential{Identity: *identity, Token: domain.BearerToken(token)})
}

// Close detaches from the provider. Handlers are dropped.
func (g *SessionGuard) Close() {
	g.closeOnce.Do(func() {
		if g.detach != nil {
			g.detach()
		}
		g.mu.Lock()
		g.handlers = nil
		g.mu.Unlock()
	})
}
