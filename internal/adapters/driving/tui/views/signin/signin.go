// Package signin provides the sign-in view shown while no session exists.
package signin

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/input"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// ErrMissingCredentials is returned when email or password is blank.
var ErrMissingCredentials = errors.New("email and password are required")

// View collects an email and password and signs in.
type View struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	email    *input.Field
	password *input.Field

	auth driving.AuthService
	ctx  context.Context

	pending bool
	err     error
	width   int
	height  int
	ready   bool
}

// NewView creates a new sign-in view. auth may be nil, in which case the
// view only explains how to configure a token.
func NewView(s *styles.Styles, km *keymap.KeyMap, auth driving.AuthService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	password := input.NewPasswordInput(s, "Password")
	password.Blur()

	return &View{
		styles:   s,
		keymap:   km,
		email:    input.NewField(s, "Email", "you@example.com"),
		password: password,
		auth:     auth,
		ctx:      context.Background(),
		width:    80,
		height:   24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.email.Init()
}

// SupportsSignIn reports whether a form is shown.
func (v *View) SupportsSignIn() bool {
	return v.auth != nil && v.auth.SupportsSignIn()
}

// Update handles messages for the sign-in view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SignInCompleted:
		v.pending = false
		v.err = msg.Err
		if msg.Err == nil {
			v.password.Reset()
		}
		return v, nil
	}

	var cmd tea.Cmd
	if v.email.Focused() {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	if !v.SupportsSignIn() || v.pending {
		return v, nil
	}

	key := msg.String()
	switch {
	case keymap.Matches(key, v.keymap.NextField), keymap.Matches(key, v.keymap.PrevField):
		return v, v.toggleFocus()
	case msg.Type == tea.KeyEnter:
		if v.email.Focused() {
			return v, v.toggleFocus()
		}
		return v, v.submit()
	}

	var cmd tea.Cmd
	if v.email.Focused() {
		v.email, cmd = v.email.Update(msg)
	} else {
		v.password, cmd = v.password.Update(msg)
	}
	return v, cmd
}

// toggleFocus moves the cursor between the two fields.
func (v *View) toggleFocus() tea.Cmd {
	if v.email.Focused() {
		v.email.Blur()
		return v.password.Focus()
	}
	v.password.Blur()
	return v.email.Focus()
}

// submit signs in with the entered credentials.
func (v *View) submit() tea.Cmd {
	email := strings.TrimSpace(v.email.Value())
	password := v.password.Value()
	if email == "" || password == "" {
		v.err = ErrMissingCredentials
		return nil
	}

	v.pending = true
	v.err = nil
	ctx := v.ctx
	auth := v.auth

	return func() tea.Msg {
		identity, err := auth.SignIn(ctx, email, password)
		return messages.SignInCompleted{Identity: identity, Err: err}
	}
}

// View renders the sign-in view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Sign in"), ""}

	if !v.SupportsSignIn() {
		sections = append(sections,
			v.styles.Normal.Render("No session. This profile signs in with a static token."),
			v.styles.Muted.Render("Set FATAWA_AUTH_TOKEN or run 'fatawa config set auth.token <token>', then restart."),
			"",
			v.styles.Help.Render("[q] quit"),
		)
		return lipgloss.JoinVertical(lipgloss.Left, sections...)
	}

	sections = append(sections, v.email.View(), v.password.View(), "")

	switch {
	case v.pending:
		sections = append(sections, v.styles.Muted.Render("Signing in..."), "")
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.styles.Help.Render("[tab] switch field  [enter] sign in  [ctrl+c] quit"))
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.email.SetWidth(width)
	v.password.SetWidth(width)
}

// Pending returns true while a sign-in is in flight.
func (v *View) Pending() bool {
	return v.pending
}

// Err returns the last sign-in error.
func (v *View) Err() error {
	return v.err
}

// Reset clears the password and any error. The email is kept.
func (v *View) Reset() {
	v.pending = false
	v.err = nil
	v.password.Reset()
	v.password.Blur()
	v.email.Focus()
}
