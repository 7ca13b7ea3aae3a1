package mcp

import (
	"context"
	"sync"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// mockDocumentService is a mock implementation of driving.DocumentService.
type mockDocumentService struct {
	mu        sync.Mutex
	documents []domain.Document
	document  *domain.Document
	createdID string
	err       *domain.DocumentError

	lastQuery string
	lastID    string
	lastDraft domain.DocumentDraft
}

func (m *mockDocumentService) Create(_ context.Context, draft domain.DocumentDraft) domain.Outcome[string] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastDraft = draft
	if m.err != nil {
		return domain.Failure[string](m.err)
	}
	return domain.Success(m.createdID)
}

func (m *mockDocumentService) SearchByQuery(_ context.Context, query string) domain.Outcome[domain.SearchResult] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastQuery = query
	if m.err != nil {
		return domain.Failure[domain.SearchResult](m.err)
	}
	return domain.Success(domain.SearchResult(m.documents))
}

func (m *mockDocumentService) GetByID(_ context.Context, id string) domain.Outcome[domain.Document] {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.lastID = id
	if m.err != nil {
		return domain.Failure[domain.Document](m.err)
	}
	if m.document == nil {
		return domain.Failure[domain.Document](domain.NewServiceError("document not found", 404, nil))
	}
	return domain.Success(*m.document)
}

func (m *mockDocumentService) ListAll(_ context.Context) domain.Outcome[[]domain.Document] {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return domain.Failure[[]domain.Document](m.err)
	}
	return domain.Success(m.documents)
}

// mockSessionGuard is a mock implementation of driving.SessionGuard.
type mockSessionGuard struct {
	state domain.SessionState
}

func (m *mockSessionGuard) CurrentIdentity() *domain.Identity {
	return m.state.Identity
}

func (m *mockSessionGuard) State() domain.SessionState {
	return m.state
}

func (m *mockSessionGuard) OnChange(_ func(domain.SessionState)) func() {
	return func() {}
}

func (m *mockSessionGuard) FreshToken(_ context.Context) domain.Outcome[domain.BearerToken] {
	if m.state.IsAuthenticated() {
		return domain.Success(domain.BearerToken("token"))
	}
	return domain.Failure[domain.BearerToken](domain.NewAuthError(domain.AuthUnauthenticated, nil))
}

func (m *mockSessionGuard) Credential(_ context.Context) domain.Outcome[domain.Credential] {
	if m.state.IsAuthenticated() {
		return domain.Success(domain.Credential{Identity: *m.state.Identity, Token: "token"})
	}
	return domain.Failure[domain.Credential](domain.NewAuthError(domain.AuthUnauthenticated, nil))
}

func (m *mockSessionGuard) Close() {}
