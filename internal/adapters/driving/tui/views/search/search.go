// Package search provides the main search view for the TUI.
package search

import (
	"context"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/input"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/list"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/status"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// View represents the search view with input, results list, and status bar.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	input     *input.Field
	list      *list.DocumentList
	statusbar *status.Bar

	documents driving.DocumentService
	ctx       context.Context

	// seq numbers search requests; only the latest one is displayed.
	seq int

	width      int
	height     int
	ready      bool
	err        error
	focusInput bool // true = input mode (typing), false = results mode (navigating)
}

// NewView creates a new search view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	return &View{
		styles:     s,
		keymap:     km,
		input:      input.NewSearchInput(s),
		list:       list.NewDocumentList(s, "Results", "No results"),
		statusbar:  status.NewBar(s, km),
		documents:  documents,
		ctx:        context.Background(),
		width:      80,
		height:     24,
		focusInput: true, // Start in input mode
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.input.Init()
}

// Update handles messages for the search view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.SearchCompleted:
		v.handleSearchCompleted(msg)
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return v, nil
	}

	// Forward to input component (cursor blink)
	var cmd tea.Cmd
	v.input, cmd = v.input.Update(msg)
	return v, cmd
}

// handleKeyMsg processes keyboard input.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	// Esc always signals to go back to menu
	if msg.Type == tea.KeyEsc {
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	}

	// Enter in input mode submits the query exactly as typed, even when empty
	if msg.Type == tea.KeyEnter && v.focusInput {
		v.statusbar.SetState(status.StateSearching)
		v.statusbar.SetResultCount(0)
		return v, v.performSearch(v.input.Value())
	}

	// Input mode: all keys go to input
	if v.focusInput {
		var cmd tea.Cmd
		v.input, cmd = v.input.Update(msg)
		return v, cmd
	}

	// Results mode: Enter opens the selected document
	if msg.Type == tea.KeyEnter {
		doc := v.list.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		selected := *doc
		return v, func() tea.Msg {
			return messages.DocumentSelected{Document: selected, From: messages.ViewSearch}
		}
	}

	if keymap.Matches(msg.String(), v.keymap.NewSearch) {
		v.focusInput = true
		v.input.SetValue("")
		return v, v.input.Focus()
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// performSearch starts a search and returns its command. Results of any
// earlier search still in flight will be ignored.
func (v *View) performSearch(query string) tea.Cmd {
	v.seq++
	seq := v.seq
	ctx := v.ctx
	documents := v.documents

	return func() tea.Msg {
		if documents == nil {
			return messages.SearchCompleted{Seq: seq, Query: query, Err: ErrNoDocumentService}
		}

		results, err := documents.SearchByQuery(ctx, query).Unwrap()
		return messages.SearchCompleted{Seq: seq, Query: query, Results: results, Err: err}
	}
}

// handleSearchCompleted processes search results.
func (v *View) handleSearchCompleted(msg messages.SearchCompleted) {
	if msg.Seq != v.seq {
		return
	}

	if msg.Err != nil {
		v.err = msg.Err
		v.statusbar.SetState(status.StateError)
		v.statusbar.SetMessage(msg.Err.Error())
		return
	}

	v.err = nil
	v.list.SetDocuments(msg.Results)
	v.statusbar.SetState(status.StateResults)
	v.statusbar.SetMessage("")
	v.statusbar.SetResultCount(len(msg.Results))

	// Switch to results mode after a successful search
	if !msg.Results.IsEmpty() {
		v.focusInput = false
		v.input.Blur()
	}
}

// View renders the search view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := make([]string, 0, 10)

	sections = append(sections, v.styles.Title.Render("Search fatawa"), "")
	sections = append(sections, v.input.View(), "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()), "")
	}

	sections = append(sections, v.list.View())

	sections = append(sections, "", v.statusbar.View())

	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true

	// Allocate space to components
	v.input.SetWidth(width)
	v.list.SetDimensions(width, height-10) // Reserve space for header, input, status
	v.statusbar.SetWidth(width)
}

// SetIdentity shows the signed-in account in the status bar.
func (v *View) SetIdentity(identity string) {
	v.statusbar.SetIdentity(identity)
}

// Ready returns whether the view is ready to render.
func (v *View) Ready() bool {
	return v.ready
}

// Query returns the current search query.
func (v *View) Query() string {
	return v.input.Value()
}

// SetQuery sets the search query.
func (v *View) SetQuery(query string) {
	v.input.SetValue(query)
}

// Results returns the current search results.
func (v *View) Results() []domain.Document {
	return v.list.Documents()
}

// SelectedIndex returns the index of the selected result.
func (v *View) SelectedIndex() int {
	return v.list.Selected()
}

// Seq returns the sequence number of the latest search request.
func (v *View) Seq() int {
	return v.seq
}

// Err returns the current error, if any.
func (v *View) Err() error {
	return v.err
}

// Reset resets the view to initial input mode and discards any search in flight.
func (v *View) Reset() {
	v.seq++
	v.focusInput = true
	v.input.Focus()
	v.input.SetValue("")
	v.list.SetDocuments(nil)
	v.err = nil
	v.statusbar.Clear()
}

// InputFocused returns whether the input has focus.
func (v *View) InputFocused() bool {
	return v.focusInput
}
