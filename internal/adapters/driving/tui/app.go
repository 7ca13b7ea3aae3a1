package tui

import (
	"context"
	"fmt"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/create"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/document"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/documents"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/menu"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/search"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/views/signin"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// App is the main TUI application following the Elm architecture.
// It implements tea.Model for use with Bubbletea.
//
// Which screen is shown follows the session guard: a placeholder while the
// session is unknown, the sign-in view while signed out, and the document
// views while signed in.
type App struct {
	// ports provides access to core services via driving ports.
	ports *Ports

	// ctx is the context for cancellation.
	ctx context.Context

	// styles holds the TUI styles.
	styles *styles.Styles

	menuView      *menu.View
	searchView    *search.View
	documentsView *documents.View
	documentView  *document.View
	createView    *create.View
	signinView    *signin.View

	// session is the last state seen from the guard.
	session domain.SessionState

	// changed is signalled by the guard callback. It holds at most one
	// pending wake-up; the state itself is always re-read from the guard.
	changed     chan struct{}
	unsubscribe func()

	// currentView tracks which view is active while signed in.
	currentView messages.ViewType

	// err holds the last error that occurred.
	err error

	// width and height are terminal dimensions.
	width  int
	height int

	// ready indicates if the app has initialised.
	ready bool
}

// Ensure App implements tea.Model.
var _ tea.Model = (*App)(nil)

// NewApp creates a new TUI application with the given ports.
// The app subscribes to the session guard; call Close when done.
func NewApp(ports *Ports) (*App, error) {
	if err := ports.Validate(); err != nil {
		return nil, fmt.Errorf("creating app: %w", err)
	}

	s := styles.DefaultStyles()
	km := keymap.DefaultKeyMap()
	canSignOut := ports.Auth != nil && ports.Auth.SupportsSignIn()

	a := &App{
		ports:         ports,
		ctx:           context.Background(),
		styles:        s,
		menuView:      menu.NewView(s, canSignOut),
		searchView:    search.NewView(s, km, ports.Documents),
		documentsView: documents.NewView(s, km, ports.Documents),
		documentView:  document.NewView(s, ports.Documents),
		createView:    create.NewView(s, km, ports.Documents),
		signinView:    signin.NewView(s, km, ports.Auth),
		changed:       make(chan struct{}, 1),
		currentView:   messages.ViewMenu,
	}

	// Subscribe before reading so no transition is missed.
	a.unsubscribe = ports.Session.OnChange(func(domain.SessionState) {
		select {
		case a.changed <- struct{}{}:
		default:
		}
	})
	a.applySession(ports.Session.State())

	return a, nil
}

// WithContext sets the context for the app and its views.
func (a *App) WithContext(ctx context.Context) *App {
	a.ctx = ctx
	a.searchView.WithContext(ctx)
	a.documentsView.WithContext(ctx)
	a.documentView.WithContext(ctx)
	a.createView.WithContext(ctx)
	a.signinView.WithContext(ctx)
	return a
}

// Close stops listening for session changes.
func (a *App) Close() {
	if a.unsubscribe != nil {
		a.unsubscribe()
	}
}

// Init implements tea.Model.
// It runs initial commands when the program starts.
func (a *App) Init() tea.Cmd {
	return tea.Batch(
		tea.SetWindowTitle("fatawa"),
		a.waitForSession(),
		a.signinView.Init(),
	)
}

// waitForSession blocks until the guard reports a transition and returns
// the state at that moment.
func (a *App) waitForSession() tea.Cmd {
	ctx := a.ctx
	changed := a.changed
	guard := a.ports.Session
	return func() tea.Msg {
		select {
		case <-changed:
			return messages.SessionChanged{State: guard.State()}
		case <-ctx.Done():
			return nil
		}
	}
}

// applySession switches screens for a new session state. It reports
// whether anything changed.
func (a *App) applySession(state domain.SessionState) bool {
	prev := a.session
	if prev.Status == state.Status && prev.Identity.Same(state.Identity) {
		return false
	}
	a.session = state

	// Anything loaded belongs to the previous identity.
	a.searchView.Reset()
	a.documentsView.Reset()
	a.documentView.Reset()
	a.createView.Reset()
	a.signinView.Reset()
	a.currentView = messages.ViewMenu
	a.err = nil

	identity := state.Identity.String()
	a.menuView.SetIdentity(identity)
	a.searchView.SetIdentity(identity)
	a.documentsView.SetIdentity(identity)
	a.createView.SetIdentity(identity)
	return true
}

// Update implements tea.Model.
// It handles messages and updates the model state.
//
//nolint:gocognit,gocyclo,funlen // central message handler requires complexity
func (a *App) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		a.SetDimensions(msg.Width, msg.Height)
		return a, nil

	case messages.SessionChanged:
		var cmds []tea.Cmd
		if a.applySession(msg.State) && !msg.State.IsAuthenticated() && !msg.State.IsLoading() {
			cmds = append(cmds, a.signinView.Init())
		}
		cmds = append(cmds, a.waitForSession())
		return a, tea.Batch(cmds...)

	case tea.KeyMsg:
		return a.handleKeyMsg(msg)

	case messages.SignInCompleted:
		// The guard announces the new session; the view only needs the outcome.
		a.signinView, cmd = a.signinView.Update(msg)
		return a, cmd

	case messages.SignOutRequested:
		auth := a.ports.Auth
		if auth == nil {
			return a, nil
		}
		ctx := a.ctx
		return a, func() tea.Msg {
			return messages.SignedOut{Err: auth.SignOut(ctx)}
		}

	case messages.SignedOut:
		a.err = msg.Err
		return a, nil

	case messages.ViewChanged:
		if !a.session.IsAuthenticated() {
			return a, nil
		}
		a.currentView = msg.View
		a.err = nil
		switch msg.View {
		case messages.ViewSearch:
			a.searchView.Reset()
			return a, a.searchView.Init()
		case messages.ViewDocuments:
			return a, a.documentsView.Init()
		case messages.ViewCreate:
			return a, a.createView.Init()
		case messages.ViewMenu, messages.ViewDocument, messages.ViewHelp:
			// No initialisation needed
		}
		return a, nil

	case messages.SearchCompleted:
		a.searchView, cmd = a.searchView.Update(msg)
		return a, cmd

	case messages.DocumentsLoaded:
		a.documentsView, cmd = a.documentsView.Update(msg)
		return a, cmd

	case messages.DocumentSelected:
		a.currentView = messages.ViewDocument
		return a, a.documentView.Open(msg.Document, msg.From)

	case messages.DocumentLoaded:
		a.documentView, cmd = a.documentView.Update(msg)
		return a, cmd

	case messages.DocumentCreated:
		a.createView, cmd = a.createView.Update(msg)
		if msg.Err != nil || msg.ID == "" {
			return a, cmd
		}
		a.currentView = messages.ViewDocument
		return a, tea.Batch(cmd, a.documentView.OpenByID(msg.ID, messages.ViewCreate))

	case messages.ErrorOccurred:
		a.err = msg.Err
		switch a.currentView {
		case messages.ViewSearch:
			a.searchView, cmd = a.searchView.Update(msg)
		case messages.ViewDocument:
			a.documentView, cmd = a.documentView.Update(msg)
		case messages.ViewMenu, messages.ViewDocuments, messages.ViewCreate, messages.ViewHelp:
			// Shown by the app
		}
		return a, cmd

	case messages.Quit:
		return a, tea.Quit
	}

	return a, a.forward(msg)
}

// handleKeyMsg routes a key press to the screen on display.
func (a *App) handleKeyMsg(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	var cmd tea.Cmd

	// Global quit with ctrl+c
	if msg.String() == "ctrl+c" {
		return a, tea.Quit
	}

	switch {
	case a.session.IsLoading():
		if msg.String() == "q" {
			return a, tea.Quit
		}
		return a, nil

	case !a.session.IsAuthenticated():
		if msg.String() == "q" && !a.signinView.SupportsSignIn() {
			return a, tea.Quit
		}
		a.signinView, cmd = a.signinView.Update(msg)
		return a, cmd
	}

	switch a.currentView {
	case messages.ViewMenu:
		a.menuView, cmd = a.menuView.Update(msg)
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewDocuments:
		a.documentsView, cmd = a.documentsView.Update(msg)
	case messages.ViewDocument:
		a.documentView, cmd = a.documentView.Update(msg)
	case messages.ViewCreate:
		a.createView, cmd = a.createView.Update(msg)
	case messages.ViewHelp:
		// Esc from help goes to menu
		if msg.Type == tea.KeyEsc {
			a.currentView = messages.ViewMenu
		}
	}
	return a, cmd
}

// forward passes other messages, such as cursor blinks, to the active view.
func (a *App) forward(msg tea.Msg) tea.Cmd {
	var cmd tea.Cmd
	if !a.session.IsAuthenticated() {
		a.signinView, cmd = a.signinView.Update(msg)
		return cmd
	}

	switch a.currentView {
	case messages.ViewSearch:
		a.searchView, cmd = a.searchView.Update(msg)
	case messages.ViewCreate:
		a.createView, cmd = a.createView.Update(msg)
	case messages.ViewMenu, messages.ViewDocuments, messages.ViewDocument, messages.ViewHelp:
		// No text inputs
	}
	return cmd
}

// View implements tea.Model.
// It renders the current view as a string.
func (a *App) View() string {
	if !a.ready {
		return "Initialising..."
	}

	switch {
	case a.session.IsLoading():
		return a.styles.Muted.Render("Checking session...")
	case !a.session.IsAuthenticated():
		return a.signinView.View()
	}

	switch a.currentView {
	case messages.ViewSearch:
		return a.searchView.View()
	case messages.ViewDocuments:
		return a.documentsView.View()
	case messages.ViewDocument:
		return a.documentView.View()
	case messages.ViewCreate:
		return a.createView.View()
	case messages.ViewHelp:
		return a.viewHelp()
	default:
		return a.viewMenu()
	}
}

// viewMenu renders the menu with the last app-level error, if any.
func (a *App) viewMenu() string {
	view := a.menuView.View()
	if a.err != nil {
		view += "\n\n" + a.styles.Error.Render("Error: "+a.err.Error())
	}
	return view
}

// viewHelp renders the help view.
func (a *App) viewHelp() string {
	return `Help

Navigation:
  esc         Back
  ctrl+c      Quit

Menu:
  j/k, ↑/↓    Navigate options
  enter       Select option
  q           Quit

Search:
  (type)      Enter search query
  enter       Submit search
  n           New search from results

Browse all:
  j/k, ↑/↓    Navigate fatawa
  enter       Open
  r           Reload

Reading:
  ↑/↓, PgUp/PgDn  Scroll
  g/G         Top / bottom
  r           Reload

New fatwa:
  tab         Next field
  shift+tab   Previous field
  ctrl+s      Submit

[esc] back to menu`
}

// Run starts the TUI application and unsubscribes when it exits.
func (a *App) Run() error {
	defer a.Close()
	p := tea.NewProgram(a, tea.WithAltScreen(), tea.WithContext(a.ctx))
	_, err := p.Run()
	return err
}

// Session returns the last session state the app acted on.
func (a *App) Session() domain.SessionState {
	return a.session
}

// CurrentView returns the current view type.
func (a *App) CurrentView() messages.ViewType {
	return a.currentView
}

// Err returns the last error that occurred.
func (a *App) Err() error {
	return a.err
}

// Ready returns whether the app has been initialised.
func (a *App) Ready() bool {
	return a.ready
}

// SetDimensions sets the terminal dimensions on the app and every view.
func (a *App) SetDimensions(width, height int) {
	a.width = width
	a.height = height
	a.ready = true
	a.menuView.SetDimensions(width, height)
	a.searchView.SetDimensions(width, height)
	a.documentsView.SetDimensions(width, height)
	a.documentView.SetDimensions(width, height)
	a.createView.SetDimensions(width, height)
	a.signinView.SetDimensions(width, height)
}
