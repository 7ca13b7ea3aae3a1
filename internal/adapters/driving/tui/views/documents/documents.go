// Package documents provides the full document list view for the TUI.
package documents

import (
	"context"
	"errors"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/list"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/status"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service is required")

// View is the list of every document.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	list      *list.DocumentList
	statusbar *status.Bar

	documents driving.DocumentService
	ctx       context.Context

	seq     int
	width   int
	height  int
	ready   bool
	loading bool
	err     error
}

// NewView creates a new documents view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.ListHelp())

	return &View{
		styles:    s,
		keymap:    km,
		list:      list.NewDocumentList(s, "All fatawa", "No fatawa yet"),
		statusbar: bar,
		documents: documents,
		ctx:       context.Background(),
		width:     80,
		height:    24,
	}
}

// WithContext sets the context for the view.
func (v *View) WithContext(ctx context.Context) *View {
	v.ctx = ctx
	return v
}

// Init loads the document list.
func (v *View) Init() tea.Cmd {
	return v.load()
}

// load starts a fetch of every document. Earlier fetches still in flight
// will be ignored.
func (v *View) load() tea.Cmd {
	v.seq++
	seq := v.seq
	ctx := v.ctx
	documents := v.documents

	v.loading = true
	v.err = nil
	v.statusbar.SetState(status.StateLoading)

	return func() tea.Msg {
		if documents == nil {
			return messages.DocumentsLoaded{Seq: seq, Err: ErrNoDocumentService}
		}
		docs, err := documents.ListAll(ctx).Unwrap()
		return messages.DocumentsLoaded{Seq: seq, Documents: docs, Err: err}
	}
}

// Update handles messages for the documents view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case messages.DocumentsLoaded:
		if msg.Seq != v.seq {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(msg.Err.Error())
			return v, nil
		}
		v.err = nil
		v.list.SetDocuments(msg.Documents)
		v.statusbar.SetState(status.StateResults)
		v.statusbar.SetMessage("")
		v.statusbar.SetResultCount(len(msg.Documents))
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(msg.String(), v.keymap.Reload):
		return v, v.load()
	case msg.Type == tea.KeyEnter:
		doc := v.list.SelectedDocument()
		if doc == nil {
			return v, nil
		}
		selected := *doc
		return v, func() tea.Msg {
			return messages.DocumentSelected{Document: selected, From: messages.ViewDocuments}
		}
	}

	v.list, _ = v.list.Update(msg)
	return v, nil
}

// View renders the documents view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("Browse fatawa"), ""}

	switch {
	case v.loading:
		sections = append(sections, v.styles.Muted.Render("Loading documents..."))
	case v.err != nil:
		sections = append(sections, v.styles.Error.Render("Error: "+v.err.Error()))
	default:
		sections = append(sections, v.list.View())
	}

	sections = append(sections, "", v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.list.SetDimensions(width, height-6)
	v.statusbar.SetWidth(width)
}

// SetIdentity shows the signed-in account in the status bar.
func (v *View) SetIdentity(identity string) {
	v.statusbar.SetIdentity(identity)
}

// Documents returns the loaded documents.
func (v *View) Documents() []domain.Document {
	return v.list.Documents()
}

// Loading returns true while a fetch is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset discards the loaded list and any fetch in flight.
func (v *View) Reset() {
	v.seq++
	v.loading = false
	v.err = nil
	v.list.SetDocuments(nil)
	v.statusbar.Clear()
}
