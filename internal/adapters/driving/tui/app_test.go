package tui

import (
	"context"
	"errors"
	"testing"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

var (
	alice = &domain.Identity{UID: "u1", Email: "alice@example.com"}
	bob   = &domain.Identity{UID: "u2", Email: "bob@example.com"}

	wudu = domain.Document{ID: "w1", Title: "Wudu after sleep", Author: "Ibn Baz", Answer: "Deep sleep breaks it."}
)

type testApp struct {
	*App
	guard *mockSessionGuard
	docs  *mockDocumentService
	auth  *mockAuthService
}

func newTestApp(t *testing.T, state domain.SessionState) *testApp {
	t.Helper()
	guard := newMockSessionGuard(state)
	docs := &mockDocumentService{docs: []domain.Document{wudu}, createID: "new-1"}
	auth := &mockAuthService{guard: guard}

	app, err := NewApp(NewPorts(guard, docs, auth))
	require.NoError(t, err)
	app.SetDimensions(100, 40)
	t.Cleanup(app.Close)

	return &testApp{App: app, guard: guard, docs: docs, auth: auth}
}

// deliverSession runs the pending session wait and feeds its result back.
func (ta *testApp) deliverSession() {
	ta.Update(ta.waitForSession()())
}

func keyRunes(s string) tea.KeyMsg {
	return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
}

func TestNewApp_InvalidPorts(t *testing.T) {
	_, err := NewApp(&Ports{})

	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingSessionGuard)
}

func TestNewApp_SubscribesToSession(t *testing.T) {
	guard := newMockSessionGuard(domain.SessionState{})
	app, err := NewApp(NewPorts(guard, &mockDocumentService{}, nil))
	require.NoError(t, err)

	assert.Equal(t, 1, guard.Subscribers())

	app.Close()
	assert.Equal(t, 0, guard.Subscribers())
}

func TestApp_Init(t *testing.T) {
	ta := newTestApp(t, domain.SessionState{})

	assert.NotNil(t, ta.Init())
}

func TestApp_View_NotReady(t *testing.T) {
	app, err := NewApp(NewPorts(newMockSessionGuard(domain.SessionState{}), &mockDocumentService{}, nil))
	require.NoError(t, err)
	defer app.Close()

	assert.Equal(t, "Initialising...", app.View())
}

func TestApp_SessionLoading(t *testing.T) {
	ta := newTestApp(t, domain.SessionState{})

	assert.True(t, ta.Session().IsLoading())
	assert.Contains(t, ta.View(), "Checking session")

	// Navigation is ignored until the session is known.
	_, cmd := ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	assert.Nil(t, cmd)

	_, cmd = ta.Update(keyRunes("q"))
	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_SessionResolvesToSignedOut(t *testing.T) {
	ta := newTestApp(t, domain.SessionState{})

	ta.guard.Set(domain.StateFor(nil))
	ta.deliverSession()

	assert.Equal(t, domain.SessionUnauthenticated, ta.Session().Status)
	assert.Contains(t, ta.View(), "Sign in")
}

func TestApp_SignIn(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(nil))
	require.Contains(t, ta.View(), "Sign in")

	ta.Update(keyRunes("carol@example.com"))
	ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	ta.Update(keyRunes("secret"))
	_, cmd := ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)

	ta.Update(cmd())
	ta.deliverSession()

	require.True(t, ta.Session().IsAuthenticated())
	assert.Equal(t, messages.ViewMenu, ta.CurrentView())
	assert.Contains(t, ta.View(), "carol@example.com")
}

func TestApp_SignOut(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	_, cmd := ta.Update(messages.SignOutRequested{})
	require.NotNil(t, cmd)
	msg := cmd()
	assert.Equal(t, messages.SignedOut{}, msg)
	assert.Equal(t, 1, ta.auth.signOuts)

	ta.Update(msg)
	ta.deliverSession()

	assert.False(t, ta.Session().IsAuthenticated())
	assert.Contains(t, ta.View(), "Sign in")
}

func TestApp_SignOut_Error(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))
	ta.auth.signOutErr = errors.New("disk full")

	_, cmd := ta.Update(messages.SignOutRequested{})
	ta.Update(cmd())

	assert.True(t, ta.Session().IsAuthenticated())
	require.Error(t, ta.Err())
	assert.Contains(t, ta.View(), "disk full")
}

func TestApp_SignOut_WithoutAuthService(t *testing.T) {
	guard := newMockSessionGuard(domain.StateFor(alice))
	app, err := NewApp(NewPorts(guard, &mockDocumentService{}, nil))
	require.NoError(t, err)
	defer app.Close()

	_, cmd := app.Update(messages.SignOutRequested{})

	assert.Nil(t, cmd)
}

func TestApp_IdentityChangeResetsViews(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	ta.Update(messages.ViewChanged{View: messages.ViewSearch})
	require.Equal(t, messages.ViewSearch, ta.CurrentView())

	_, pending := ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, pending)
	ta.Update(messages.SearchCompleted{Seq: ta.searchView.Seq(), Results: domain.SearchResult{wudu}})
	require.Len(t, ta.searchView.Results(), 1)

	ta.guard.Set(domain.StateFor(bob))
	ta.deliverSession()

	assert.Equal(t, messages.ViewMenu, ta.CurrentView())
	assert.Empty(t, ta.searchView.Results())
	assert.Contains(t, ta.View(), "bob@example.com")

	// A search started under the previous identity is dropped.
	ta.Update(pending())
	assert.Empty(t, ta.searchView.Results())
}

func TestApp_SameSessionKeepsViews(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))
	ta.Update(messages.ViewChanged{View: messages.ViewDocuments})

	_, cmd := ta.Update(messages.SessionChanged{State: domain.StateFor(&domain.Identity{UID: "u1"})})

	assert.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDocuments, ta.CurrentView())
}

func TestApp_ViewChanged_IgnoredWhenSignedOut(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(nil))

	ta.Update(messages.ViewChanged{View: messages.ViewSearch})

	assert.Equal(t, messages.ViewMenu, ta.CurrentView())
	assert.Contains(t, ta.View(), "Sign in")
}

func TestApp_BrowseAndOpenDocument(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	_, cmd := ta.Update(messages.ViewChanged{View: messages.ViewDocuments})
	require.NotNil(t, cmd)
	ta.Update(cmd())
	assert.Contains(t, ta.View(), "Wudu after sleep")

	_, cmd = ta.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	_, cmd = ta.Update(cmd())
	require.NotNil(t, cmd)
	assert.Equal(t, messages.ViewDocument, ta.CurrentView())

	ta.Update(cmd())
	assert.Contains(t, ta.View(), "Deep sleep breaks it.")

	_, cmd = ta.Update(tea.KeyMsg{Type: tea.KeyEsc})
	require.NotNil(t, cmd)
	ta.Update(cmd())
	assert.Equal(t, messages.ViewDocuments, ta.CurrentView())
}

func TestApp_DocumentCreatedOpensDocument(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))
	ta.docs.docs = append(ta.docs.docs, domain.Document{ID: "new-1", Title: "Fresh"})
	ta.Update(messages.ViewChanged{View: messages.ViewCreate})

	_, cmd := ta.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	require.NotNil(t, cmd)
	_, cmd = ta.Update(cmd())
	require.NotNil(t, cmd)

	assert.Equal(t, messages.ViewDocument, ta.CurrentView())
}

func TestApp_DocumentCreated_ErrorStaysOnForm(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))
	ta.docs.createErr = domain.NewValidationError("title is required", 400)
	ta.Update(messages.ViewChanged{View: messages.ViewCreate})

	_, cmd := ta.Update(tea.KeyMsg{Type: tea.KeyCtrlS})
	ta.Update(cmd())

	assert.Equal(t, messages.ViewCreate, ta.CurrentView())
	assert.Contains(t, ta.View(), "title is required")
}

func TestApp_HelpView(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	ta.Update(messages.ViewChanged{View: messages.ViewHelp})
	assert.Contains(t, ta.View(), "Help")

	ta.Update(tea.KeyMsg{Type: tea.KeyEsc})
	assert.Equal(t, messages.ViewMenu, ta.CurrentView())
}

func TestApp_CtrlCQuits(t *testing.T) {
	states := []domain.SessionState{
		{},
		domain.StateFor(nil),
		domain.StateFor(alice),
	}

	for _, state := range states {
		t.Run(state.Status.String(), func(t *testing.T) {
			ta := newTestApp(t, state)

			_, cmd := ta.Update(tea.KeyMsg{Type: tea.KeyCtrlC})

			require.NotNil(t, cmd)
			assert.IsType(t, tea.QuitMsg{}, cmd())
		})
	}
}

func TestApp_QuitMessage(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	_, cmd := ta.Update(messages.Quit{})

	require.NotNil(t, cmd)
	assert.IsType(t, tea.QuitMsg{}, cmd())
}

func TestApp_WaitForSession_StopsOnCancel(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))
	ctx, cancel := context.WithCancel(context.Background())
	ta.WithContext(ctx)
	cancel()

	assert.Nil(t, ta.waitForSession()())
}

func TestApp_WindowSize(t *testing.T) {
	ta := newTestApp(t, domain.StateFor(alice))

	ta.Update(tea.WindowSizeMsg{Width: 120, Height: 50})

	assert.True(t, ta.Ready())
	assert.Equal(t, 120, ta.width)
	assert.Equal(t, 50, ta.height)
}
