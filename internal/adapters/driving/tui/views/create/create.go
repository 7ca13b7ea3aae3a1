// Package create provides the new document form for the TUI.
package create

import (
	"context"
	"errors"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/input"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/components/status"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service is required")

// Field order in the form.
const (
	fieldTitle = iota
	fieldAuthor
	fieldTopic
	fieldQuestion
	fieldAnswer
	fieldCount
)

// View is the form for submitting a new fatwa.
type View struct {
	styles    *styles.Styles
	keymap    *keymap.KeyMap
	fields    []*input.Field
	focus     int
	statusbar *status.Bar

	documents driving.DocumentService
	ctx       context.Context

	submitting bool
	err        error
	width      int
	height     int
	ready      bool
}

// NewView creates a new create view.
func NewView(s *styles.Styles, km *keymap.KeyMap, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}

	fields := make([]*input.Field, fieldCount)
	fields[fieldTitle] = input.NewField(s, "Title", "Short title")
	fields[fieldAuthor] = input.NewField(s, "Author", "Scholar who gave the answer")
	fields[fieldTopic] = input.NewField(s, "Topic", "e.g. prayer, fasting")
	fields[fieldQuestion] = input.NewField(s, "Question", "The question asked")
	fields[fieldAnswer] = input.NewField(s, "Answer", "The answer given")
	for _, f := range fields[1:] {
		f.Blur()
	}

	bar := status.NewBar(s, km)
	bar.SetHints(km.FormHelp())

	return &View{
		styles:    s,
		keymap:    km,
		fields:    fields,
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

// Init initialises the view.
func (v *View) Init() tea.Cmd {
	return v.fields[v.focus].Init()
}

// Update handles messages for the create view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentCreated:
		v.submitting = false
		if msg.Err != nil {
			v.err = msg.Err
			v.statusbar.SetState(status.StateError)
			v.statusbar.SetMessage(describe(msg.Err))
			return v, nil
		}
		v.clear()
		v.statusbar.SetState(status.StateReady)
		v.statusbar.SetMessage("Created fatwa " + msg.ID)
		return v, nil
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	key := msg.String()
	switch {
	case msg.Type == tea.KeyEsc:
		return v, func() tea.Msg {
			return messages.ViewChanged{View: messages.ViewMenu}
		}
	case keymap.Matches(key, v.keymap.Submit):
		return v, v.submit()
	case keymap.Matches(key, v.keymap.NextField) || msg.Type == tea.KeyEnter:
		return v, v.setFocus((v.focus + 1) % fieldCount)
	case keymap.Matches(key, v.keymap.PrevField):
		return v, v.setFocus((v.focus + fieldCount - 1) % fieldCount)
	}

	var cmd tea.Cmd
	v.fields[v.focus], cmd = v.fields[v.focus].Update(msg)
	return v, cmd
}

// setFocus moves the cursor to field i.
func (v *View) setFocus(i int) tea.Cmd {
	v.fields[v.focus].Blur()
	v.focus = i
	return v.fields[i].Focus()
}

// Draft returns the form contents. Values are passed through untrimmed
// so the service decides what is acceptable.
func (v *View) Draft() domain.DocumentDraft {
	return domain.DocumentDraft{
		Title:    v.fields[fieldTitle].Value(),
		Author:   v.fields[fieldAuthor].Value(),
		Topic:    v.fields[fieldTopic].Value(),
		Question: v.fields[fieldQuestion].Value(),
		Answer:   v.fields[fieldAnswer].Value(),
	}
}

// submit sends the draft to the document service.
func (v *View) submit() tea.Cmd {
	if v.submitting {
		return nil
	}
	v.submitting = true
	v.err = nil
	v.statusbar.SetState(status.StateSubmitting)
	v.statusbar.SetMessage("")

	ctx := v.ctx
	documents := v.documents
	draft := v.Draft()

	return func() tea.Msg {
		if documents == nil {
			return messages.DocumentCreated{Err: ErrNoDocumentService}
		}
		id, err := documents.Create(ctx, draft).Unwrap()
		return messages.DocumentCreated{ID: id, Err: err}
	}
}

// describe returns the text shown for a failed submission. Validation
// messages from the service are shown as sent.
func describe(err error) string {
	var docErr *domain.DocumentError
	if errors.As(err, &docErr) && docErr.Kind == domain.ErrorKindValidation && docErr.Message != "" {
		return docErr.Message
	}
	return err.Error()
}

// clear empties every field and focuses the first.
func (v *View) clear() {
	for _, f := range v.fields {
		f.Reset()
		f.Blur()
	}
	v.focus = fieldTitle
	v.fields[fieldTitle].Focus()
	v.err = nil
}

// View renders the create view.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	sections := []string{v.styles.Title.Render("New fatwa"), ""}
	for _, f := range v.fields {
		sections = append(sections, f.View())
	}
	sections = append(sections, "")

	if v.err != nil {
		sections = append(sections, v.styles.Error.Render(describe(v.err)), "")
	} else if v.submitting {
		sections = append(sections, v.styles.Muted.Render("Submitting..."), "")
	}

	sections = append(sections, v.statusbar.View())
	return lipgloss.JoinVertical(lipgloss.Left, sections...)
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	for _, f := range v.fields {
		f.SetWidth(width)
	}
	v.statusbar.SetWidth(width)
}

// SetIdentity shows the signed-in account in the status bar.
func (v *View) SetIdentity(identity string) {
	v.statusbar.SetIdentity(identity)
}

// Focused returns the label of the focused field.
func (v *View) Focused() string {
	return strings.ToLower(v.fields[v.focus].Label())
}

// Submitting returns true while a submission is in flight.
func (v *View) Submitting() bool {
	return v.submitting
}

// Err returns the last submission error.
func (v *View) Err() error {
	return v.err
}

// Reset clears the form.
func (v *View) Reset() {
	v.clear()
	v.submitting = false
	v.statusbar.Clear()
}
