package cli

import (
	"context"
	"errors"
	"sync"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

var (
	testAlice = &domain.Identity{UID: "u1", Email: "alice@example.com"}

	testDocuments = []domain.Document{
		{
			ID:       "doc-1",
			Title:    "Wudu after sleep",
			Author:   "Ibn Baz",
			Question: "Does sleep break wudu?",
			Answer:   "Deep sleep does.",
			Topic:    "purification",
		},
		{
			ID:       "doc-2",
			Title:    "Zakat on gold",
			Author:   "Al-Uthaymeen",
			Question: "Is zakat due on worn jewellery?",
			Answer:   "Yes, once it reaches the nisab.",
		},
	}
)

// mockSessionGuard implements driving.SessionGuard for CLI tests.
type mockSessionGuard struct {
	state domain.SessionState
}

func (m *mockSessionGuard) CurrentIdentity() *domain.Identity { return m.state.Identity }

func (m *mockSessionGuard) State() domain.SessionState { return m.state }

func (m *mockSessionGuard) OnChange(func(domain.SessionState)) func() { return func() {} }

func (m *mockSessionGuard) FreshToken(context.Context) domain.Outcome[domain.BearerToken] {
	if !m.state.IsAuthenticated() {
		return domain.Failure[domain.BearerToken](domain.NewAuthError(domain.AuthUnauthenticated, nil))
	}
	return domain.Success(domain.BearerToken("token"))
}

func (m *mockSessionGuard) Credential(context.Context) domain.Outcome[domain.Credential] {
	if !m.state.IsAuthenticated() {
		return domain.Failure[domain.Credential](domain.NewAuthError(domain.AuthUnauthenticated, nil))
	}
	return domain.Success(domain.Credential{Identity: *m.state.Identity, Token: "token"})
}

func (m *mockSessionGuard) Close() {}

// mockDocumentService implements driving.DocumentService for CLI tests.
type mockDocumentService struct {
	docs    []domain.Document
	err     *domain.DocumentError
	queries []string
	drafts  []domain.DocumentDraft
}

func (m *mockDocumentService) Create(_ context.Context, draft domain.DocumentDraft) domain.Outcome[string] {
	m.drafts = append(m.drafts, draft)
	if m.err != nil {
		return domain.Failure[string](m.err)
	}
	return domain.Success("doc-new")
}

func (m *mockDocumentService) SearchByQuery(_ context.Context, query string) domain.Outcome[domain.SearchResult] {
	m.queries = append(m.queries, query)
	if m.err != nil {
		return domain.Failure[domain.SearchResult](m.err)
	}
	return domain.Success(domain.SearchResult(m.docs))
}

func (m *mockDocumentService) GetByID(_ context.Context, id string) domain.Outcome[domain.Document] {
	if m.err != nil {
		return domain.Failure[domain.Document](m.err)
	}
	for _, d := range m.docs {
		if d.ID == id {
			return domain.Success(d)
		}
	}
	return domain.Failure[domain.Document](domain.NewServiceError("document not found", 404, nil))
}

func (m *mockDocumentService) ListAll(context.Context) domain.Outcome[[]domain.Document] {
	if m.err != nil {
		return domain.Failure[[]domain.Document](m.err)
	}
	return domain.Success(m.docs)
}

// mockAuthService implements driving.AuthService for CLI tests.
type mockAuthService struct {
	state     domain.SessionState
	supports  bool
	signInErr error
	verify    domain.Outcome[domain.Identity]

	email    string
	password string
	signOuts int
}

func (m *mockAuthService) SignIn(_ context.Context, email, password string) (*domain.Identity, error) {
	m.email = email
	m.password = password
	if m.signInErr != nil {
		return nil, m.signInErr
	}
	id := &domain.Identity{UID: "uid-" + email, Email: email}
	m.state = domain.StateFor(id)
	return id, nil
}

func (m *mockAuthService) SignOut(context.Context) error {
	m.signOuts++
	m.state = domain.StateFor(nil)
	return nil
}

func (m *mockAuthService) Status() domain.SessionState { return m.state }

func (m *mockAuthService) SupportsSignIn() bool { return m.supports }

func (m *mockAuthService) Verify(context.Context) domain.Outcome[domain.Identity] {
	return m.verify
}

// mockSettingsService implements driving.SettingsService for CLI tests.
type mockSettingsService struct {
	mu       sync.Mutex
	settings domain.AppSettings
	invalid  error
}

func (m *mockSettingsService) Get() (*domain.AppSettings, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	s := m.settings
	return &s, nil
}

func (m *mockSettingsService) Save(settings *domain.AppSettings) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.settings = *settings
	return nil
}

func (m *mockSettingsService) Set(key, value string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	switch key {
	case "api.base_url":
		m.settings.API.BaseURL = value
	case "auth.token":
		m.settings.Auth.Token = value
	default:
		return errors.Join(domain.ErrInvalidInput, errors.New("unknown key "+key))
	}
	return nil
}

func (m *mockSettingsService) Validate() error { return m.invalid }

func (m *mockSettingsService) GetDefaults() domain.AppSettings { return domain.DefaultAppSettings() }

func (m *mockSettingsService) Path() string { return "/tmp/fatawa/config.toml" }

// testServices holds the mocks installed by setupTestServices.
type testServices struct {
	guard    *mockSessionGuard
	docs     *mockDocumentService
	auth     *mockAuthService
	settings *mockSettingsService
}

// setupTestServices installs signed-in mock services and returns a cleanup
// function that removes them and resets flag variables.
func setupTestServices() (*testServices, func()) {
	ts := &testServices{
		guard: &mockSessionGuard{state: domain.StateFor(testAlice)},
		docs:  &mockDocumentService{docs: testDocuments},
		auth: &mockAuthService{
			state:    domain.StateFor(testAlice),
			supports: true,
			verify:   domain.Success(*testAlice),
		},
		settings: &mockSettingsService{settings: domain.DefaultAppSettings()},
	}

	SetServices(&Services{
		Guard:     ts.guard,
		Documents: ts.docs,
		Auth:      ts.auth,
		Settings:  ts.settings,
	})

	return ts, func() {
		SetServices(nil)
		resetFlags()
	}
}

// resetFlags restores flag variables shared across test runs.
func resetFlags() {
	documentJSON = false
	searchJSON = false
	authEmail = ""
	authRemote = false
	documentDraft = domain.DocumentDraft{}
	rootCmd.SetArgs(nil)
	rootCmd.SetIn(nil)
}
