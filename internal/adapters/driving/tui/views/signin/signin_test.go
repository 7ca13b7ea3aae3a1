package signin

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

// mockAuthService implements driving.AuthService for sign-in view tests.
type mockAuthService struct {
	supports bool
	err      error
	email    string
	password string
}

func (m *mockAuthService) SignIn(_ context.Context, email, password string) (*domain.Identity, error) {
	m.email = email
	m.password = password
	if m.err != nil {
		return nil, m.err
	}
	return &domain.Identity{UID: "u1", Email: email}, nil
}

func (m *mockAuthService) SignOut(context.Context) error { return nil }

func (m *mockAuthService) Status() domain.SessionState { return domain.SessionState{} }

func (m *mockAuthService) SupportsSignIn() bool { return m.supports }

func (m *mockAuthService) Verify(context.Context) domain.Outcome[domain.Identity] {
	return domain.Success(domain.Identity{})
}

func newReadyView(auth *mockAuthService) *View {
	v := NewView(nil, nil, auth)
	v.SetDimensions(100, 30)
	return v
}

func typeText(v *View, text string) {
	v.Update(tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(text)})
}

func TestView_SignIn(t *testing.T) {
	auth := &mockAuthService{supports: true}
	v := newReadyView(auth)

	typeText(v, "a@b.c")
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	typeText(v, "secret")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	require.NotNil(t, cmd)
	assert.True(t, v.Pending())
	assert.Contains(t, v.View(), "Signing in")

	msg := cmd()
	assert.Equal(t, "a@b.c", auth.email)
	assert.Equal(t, "secret", auth.password)

	completed, ok := msg.(messages.SignInCompleted)
	require.True(t, ok)
	require.NoError(t, completed.Err)
	assert.Equal(t, "u1", completed.Identity.UID)

	v.Update(msg)
	assert.False(t, v.Pending())
}

func TestView_SignIn_Error(t *testing.T) {
	auth := &mockAuthService{supports: true, err: errors.New("INVALID_PASSWORD")}
	v := newReadyView(auth)

	typeText(v, "a@b.c")
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "wrong")
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})
	v.Update(cmd())

	require.Error(t, v.Err())
	assert.Contains(t, v.View(), "INVALID_PASSWORD")
}

func TestView_SignIn_MissingFields(t *testing.T) {
	v := newReadyView(&mockAuthService{supports: true})

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	assert.Nil(t, cmd)
	assert.ErrorIs(t, v.Err(), ErrMissingCredentials)
}

func TestView_PasswordMasked(t *testing.T) {
	v := newReadyView(&mockAuthService{supports: true})

	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	typeText(v, "hunter2")

	assert.NotContains(t, v.View(), "hunter2")
}

func TestView_StaticProviderShowsHint(t *testing.T) {
	tests := []struct {
		name string
		auth *mockAuthService
	}{
		{"static provider", &mockAuthService{supports: false}},
		{"no auth service", nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			var v *View
			if tt.auth == nil {
				v = NewView(nil, nil, nil)
			} else {
				v = NewView(nil, nil, tt.auth)
			}
			v.SetDimensions(100, 30)

			_, cmd := v.Update(tea.KeyMsg{Type: tea.KeyEnter})

			assert.Nil(t, cmd)
			assert.False(t, v.SupportsSignIn())
			assert.Contains(t, v.View(), "FATAWA_AUTH_TOKEN")
		})
	}
}

func TestView_Reset(t *testing.T) {
	v := newReadyView(&mockAuthService{supports: true})
	v.Update(tea.KeyMsg{Type: tea.KeyTab})
	v.Update(tea.KeyMsg{Type: tea.KeyEnter})

	v.Reset()

	assert.NoError(t, v.Err())
	assert.False(t, v.Pending())
}
