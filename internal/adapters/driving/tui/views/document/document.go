// Package document provides the single document view for the TUI.
package document

import (
	"context"
	"errors"
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// ErrNoDocumentService indicates that no document service was provided.
var ErrNoDocumentService = errors.New("document service is required")

// View shows a document's question and answer with scrolling.
type View struct {
	styles    *styles.Styles
	documents driving.DocumentService
	ctx       context.Context

	document     *domain.Document
	back         messages.ViewType
	seq          int
	lines        []string
	scrollOffset int
	width        int
	height       int
	ready        bool
	err          error
	loading      bool
}

// NewView creates a new document view.
func NewView(s *styles.Styles, documents driving.DocumentService) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}
	return &View{
		styles:    s,
		documents: documents,
		ctx:       context.Background(),
		back:      messages.ViewMenu,
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
	return nil
}

// Open shows doc straight away and fetches the stored copy by ID.
// Esc returns to back.
func (v *View) Open(doc domain.Document, back messages.ViewType) tea.Cmd {
	v.document = &doc
	v.back = back
	v.scrollOffset = 0
	v.err = nil
	v.wrapContent()
	return v.load(doc.ID)
}

// OpenByID fetches and shows a document known only by its ID.
func (v *View) OpenByID(id string, back messages.ViewType) tea.Cmd {
	v.document = &domain.Document{ID: id}
	v.back = back
	v.scrollOffset = 0
	v.err = nil
	v.lines = nil
	return v.load(id)
}

// load returns a command that fetches the document. Earlier fetches still
// in flight will be ignored.
func (v *View) load(id string) tea.Cmd {
	v.seq++
	seq := v.seq
	ctx := v.ctx
	documents := v.documents
	v.loading = true

	return func() tea.Msg {
		if documents == nil {
			return messages.DocumentLoaded{Seq: seq, Err: ErrNoDocumentService}
		}
		doc, err := documents.GetByID(ctx, id).Unwrap()
		return messages.DocumentLoaded{Seq: seq, Document: doc, Err: err}
	}
}

// Update handles messages for the document view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.SetDimensions(msg.Width, msg.Height)
		return v, nil

	case tea.KeyMsg:
		return v.handleKeyMsg(msg)

	case messages.DocumentLoaded:
		if msg.Seq != v.seq {
			return v, nil
		}
		v.loading = false
		if msg.Err != nil {
			v.err = msg.Err
			return v, nil
		}
		doc := msg.Document
		v.document = &doc
		v.err = nil
		v.wrapContent()
		return v, nil

	case messages.ErrorOccurred:
		v.err = msg.Err
		return v, nil
	}

	return v, nil
}

// handleKeyMsg handles key presses.
func (v *View) handleKeyMsg(msg tea.KeyMsg) (*View, tea.Cmd) {
	switch msg.String() {
	case "up", "k":
		if v.scrollOffset > 0 {
			v.scrollOffset--
		}
	case "down", "j":
		if v.scrollOffset < v.maxScrollOffset() {
			v.scrollOffset++
		}
	case "pgup", "ctrl+u":
		v.scrollOffset -= v.visibleLines()
		if v.scrollOffset < 0 {
			v.scrollOffset = 0
		}
	case "pgdown", "ctrl+d":
		v.scrollOffset += v.visibleLines()
		if v.scrollOffset > v.maxScrollOffset() {
			v.scrollOffset = v.maxScrollOffset()
		}
	case "home", "g":
		v.scrollOffset = 0
	case "end", "G":
		v.scrollOffset = v.maxScrollOffset()
	case "r":
		if v.document != nil {
			return v, v.load(v.document.ID)
		}
	case "esc":
		back := v.back
		v.seq++
		v.loading = false
		return v, func() tea.Msg {
			return messages.ViewChanged{View: back}
		}
	}

	return v, nil
}

// wrapContent lays out the document body to fit the view width.
func (v *View) wrapContent() {
	v.lines = nil
	if v.document == nil {
		return
	}

	contentWidth := v.width - 4
	if contentWidth < 20 {
		contentWidth = 20
	}

	doc := v.document
	var meta []string
	if doc.Author != "" {
		meta = append(meta, "Author: "+doc.Author)
	}
	if doc.Topic != "" {
		meta = append(meta, "Topic: "+doc.Topic)
	}
	if doc.Audio != "" {
		meta = append(meta, "Audio: "+doc.Audio)
	}
	meta = append(meta, "ID: "+doc.ID)

	v.lines = append(v.lines, meta...)
	v.lines = append(v.lines, "", "Question")
	v.lines = append(v.lines, wrap(doc.Question, contentWidth)...)
	v.lines = append(v.lines, "", "Answer")
	v.lines = append(v.lines, wrap(doc.Answer, contentWidth)...)

	if v.scrollOffset > v.maxScrollOffset() {
		v.scrollOffset = v.maxScrollOffset()
	}
}

// wrap breaks text into lines of at most width runes, preferring word boundaries.
func wrap(text string, width int) []string {
	var out []string
	for _, paragraph := range strings.Split(text, "\n") {
		words := strings.Fields(paragraph)
		if len(words) == 0 {
			out = append(out, "")
			continue
		}
		line := ""
		for _, word := range words {
			for len([]rune(word)) > width {
				if line != "" {
					out = append(out, line)
					line = ""
				}
				r := []rune(word)
				out = append(out, string(r[:width]))
				word = string(r[width:])
			}
			switch {
			case line == "":
				line = word
			case len([]rune(line))+1+len([]rune(word)) <= width:
				line += " " + word
			default:
				out = append(out, line)
				line = word
			}
		}
		if line != "" {
			out = append(out, line)
		}
	}
	return out
}

// visibleLines returns the number of lines that can be displayed.
func (v *View) visibleLines() int {
	// Reserve lines for title, separator, help, and padding
	available := v.height - 6
	if available < 1 {
		available = 1
	}
	return available
}

// maxScrollOffset returns the maximum scroll offset.
func (v *View) maxScrollOffset() int {
	maxOffset := len(v.lines) - v.visibleLines()
	if maxOffset < 0 {
		maxOffset = 0
	}
	return maxOffset
}

// View renders the document view.
func (v *View) View() string {
	var b strings.Builder

	title := "Fatwa"
	if v.document != nil {
		switch {
		case v.document.Title != "":
			title = v.document.Title
		case v.document.ID != "":
			title = v.document.ID
		}
	}
	b.WriteString(v.styles.Title.Render(title))
	b.WriteString("\n")
	b.WriteString(strings.Repeat("─", min(v.width-4, 60)))
	b.WriteString("\n\n")

	if v.err != nil {
		b.WriteString(v.styles.Error.Render(fmt.Sprintf("Error: %s", v.err.Error())))
		b.WriteString("\n\n")
	} else if v.loading && len(v.lines) == 0 {
		b.WriteString(v.styles.Muted.Render("Loading document..."))
		b.WriteString("\n\n")
		b.WriteString(v.renderHelp())
		return b.String()
	}

	visible := v.visibleLines()
	for i := v.scrollOffset; i < len(v.lines) && i < v.scrollOffset+visible; i++ {
		line := v.lines[i]
		if line == "Question" || line == "Answer" {
			b.WriteString(v.styles.Label.Render(line))
		} else {
			b.WriteString(v.styles.Normal.Render(line))
		}
		b.WriteString("\n")
	}

	// Scroll position indicator
	if len(v.lines) > visible {
		b.WriteString("\n")
		percentage := 0
		if v.maxScrollOffset() > 0 {
			percentage = v.scrollOffset * 100 / v.maxScrollOffset()
		}
		b.WriteString(v.styles.Muted.Render(fmt.Sprintf("  [%d%%] Line %d-%d of %d",
			percentage,
			v.scrollOffset+1,
			min(v.scrollOffset+visible, len(v.lines)),
			len(v.lines))))
	}

	b.WriteString("\n\n")
	b.WriteString(v.renderHelp())

	return b.String()
}

// renderHelp renders the help footer.
func (v *View) renderHelp() string {
	return v.styles.Help.Render("[↑/↓/PgUp/PgDn] scroll  [g/G] top/bottom  [r] reload  [esc] back")
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
	v.wrapContent()
}

// Document returns the current document.
func (v *View) Document() *domain.Document {
	return v.document
}

// Lines returns the laid-out body.
func (v *View) Lines() []string {
	return v.lines
}

// Loading returns true while a fetch is in flight.
func (v *View) Loading() bool {
	return v.loading
}

// Err returns the last error.
func (v *View) Err() error {
	return v.err
}

// Reset forgets the document and any fetch in flight.
func (v *View) Reset() {
	v.seq++
	v.document = nil
	v.lines = nil
	v.loading = false
	v.err = nil
	v.scrollOffset = 0
}
