package services

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// mockProvider is a controllable driven.CredentialProvider.
type mockProvider struct {
	mu          sync.Mutex
	identity    *domain.Identity
	handlers    map[int]func(*domain.Identity)
	nextID      int
	unsubscribe int
	tokenCalls  []domain.Identity
	tokenErr    error
	emptyToken  bool

	// onToken runs after each token is issued, outside the lock.
	onToken func()
}

func newMockProvider() *mockProvider {
	return &mockProvider{handlers: make(map[int]func(*domain.Identity))}
}

func (p *mockProvider) CurrentIdentity() *domain.Identity {
	p.mu.Lock()
	defer p.mu.Unlock()
	return p.identity
}

func (p *mockProvider) Subscribe(handler func(*domain.Identity)) func() {
	p.mu.Lock()
	id := p.nextID
	p.nextID++
	p.handlers[id] = handler
	p.mu.Unlock()

	return func() {
		p.mu.Lock()
		defer p.mu.Unlock()
		if _, ok := p.handlers[id]; ok {
			delete(p.handlers, id)
			p.unsubscribe++
		}
	}
}

// report sets the identity and notifies subscribers, like a provider
// callback would.
func (p *mockProvider) report(identity *domain.Identity) {
	p.mu.Lock()
	p.identity = identity
	handlers := make([]func(*domain.Identity), 0, len(p.handlers))
	for _, h := range p.handlers {
		handlers = append(handlers, h)
	}
	p.mu.Unlock()

	for _, h := range handlers {
		h(identity)
	}
}

// FreshToken returns a new token value on every call.
func (p *mockProvider) FreshToken(_ context.Context, identity domain.Identity) (string, error) {
	token, err := p.issue(identity)
	if p.onToken != nil {
		p.onToken()
	}
	return token, err
}

func (p *mockProvider) issue(identity domain.Identity) (string, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.tokenCalls = append(p.tokenCalls, identity)
	if p.tokenErr != nil {
		return "", p.tokenErr
	}
	if p.emptyToken {
		return "", nil
	}
	return fmt.Sprintf("token-%s-%d", identity.UID, len(p.tokenCalls)), nil
}

func (p *mockProvider) tokenCallCount() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.tokenCalls)
}

// mockRemote is a driven.DocumentRemote that records the tokens it receives.
type mockRemote struct {
	mu     sync.Mutex
	tokens []string
	calls  int

	createID  string
	search    domain.SearchResult
	doc       *domain.Document
	docs      []domain.Document
	err       error
	verifyErr error
}

func (r *mockRemote) record(token string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls++
	r.tokens = append(r.tokens, token)
}

func (r *mockRemote) CreateDocument(_ context.Context, token string, _ domain.DocumentDraft) (string, error) {
	r.record(token)
	return r.createID, r.err
}

func (r *mockRemote) SearchDocuments(_ context.Context, token, _ string) (domain.SearchResult, error) {
	r.record(token)
	return r.search, r.err
}

func (r *mockRemote) GetDocument(_ context.Context, token, _ string) (*domain.Document, error) {
	r.record(token)
	return r.doc, r.err
}

func (r *mockRemote) ListDocuments(_ context.Context, token string) ([]domain.Document, error) {
	r.record(token)
	return r.docs, r.err
}

func (r *mockRemote) VerifyToken(_ context.Context, token string) error {
	r.record(token)
	return r.verifyErr
}

func (r *mockRemote) callCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.calls
}

// mockAuthenticator is a driven.Authenticator backed by a mockProvider.
type mockAuthenticator struct {
	provider *mockProvider
	err      error
	signOuts int
}

func (a *mockAuthenticator) SignIn(_ context.Context, email, _ string) (*domain.Identity, error) {
	if a.err != nil {
		return nil, a.err
	}
	id := &domain.Identity{UID: "uid-" + email, Email: email}
	a.provider.report(id)
	return id, nil
}

func (a *mockAuthenticator) SignOut(_ context.Context) error {
	a.signOuts++
	a.provider.report(nil)
	return a.err
}

// mockRecorder is a driven.OutcomeRecorder.
type mockRecorder struct {
	mu       sync.Mutex
	outcomes []string
}

func (m *mockRecorder) RecordOutcome(operation, kind string, _ time.Duration) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes = append(m.outcomes, operation+":"+kind)
}
