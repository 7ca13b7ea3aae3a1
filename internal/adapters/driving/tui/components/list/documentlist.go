// Package list provides list display components for the TUI.
package list

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// DocumentList displays documents in a navigable list.
type DocumentList struct {
	documents []domain.Document
	selected  int
	styles    *styles.Styles
	heading   string
	empty     string
	width     int
	height    int
}

// NewDocumentList creates a new document list component.
func NewDocumentList(s *styles.Styles, heading, empty string) *DocumentList {
	if s == nil {
		s = styles.DefaultStyles()
	}

	return &DocumentList{
		documents: nil,
		selected:  0,
		styles:    s,
		heading:   heading,
		empty:     empty,
		width:     80,
		height:    10,
	}
}

// Init initialises the document list.
func (r *DocumentList) Init() tea.Cmd {
	return nil
}

// Update handles list navigation messages.
func (r *DocumentList) Update(msg tea.Msg) (*DocumentList, tea.Cmd) {
	if msg, ok := msg.(tea.KeyMsg); ok {
		switch msg.String() {
		case "up", "k":
			r.MoveUp()
		case "down", "j":
			r.MoveDown()
		}
	}
	return r, nil
}

// View renders the document list.
func (r *DocumentList) View() string {
	if len(r.documents) == 0 {
		return r.styles.Muted.Render(r.empty)
	}

	lines := make([]string, 0, len(r.documents)*2+2)

	// Header
	header := r.styles.Subtitle.Render(fmt.Sprintf("%s (%d)", r.heading, len(r.documents)))
	lines = append(lines, header, "")

	// Each document takes two lines plus a blank separator
	visibleCount := (r.height - 4) / 3
	if visibleCount < 1 {
		visibleCount = 1
	}

	start := 0
	if r.selected >= visibleCount {
		start = r.selected - visibleCount + 1
	}
	end := start + visibleCount
	if end > len(r.documents) {
		end = len(r.documents)
	}

	for i := start; i < end; i++ {
		lines = append(lines, r.renderDocument(i, &r.documents[i]))
	}

	return strings.Join(lines, "\n")
}

// renderDocument formats a single document with its author and a question preview.
func (r *DocumentList) renderDocument(index int, doc *domain.Document) string {
	indicator := "  "
	if index == r.selected {
		indicator = "> "
	}

	title := doc.Title
	if title == "" {
		title = "(Untitled)"
	}

	maxTitleLen := r.width - 24
	if maxTitleLen < 10 {
		maxTitleLen = 10
	}
	title = truncate(title, maxTitleLen)

	var titleLine string
	if index == r.selected {
		titleLine = r.styles.Selected.Render(fmt.Sprintf("%s%-*s  %s", indicator, maxTitleLen, title, doc.Author))
	} else {
		titleLine = r.styles.Normal.Render(fmt.Sprintf("%s%-*s  ", indicator, maxTitleLen, title)) +
			r.styles.Muted.Render(doc.Author)
	}

	preview := strings.Join(strings.Fields(doc.Question), " ")
	maxPreviewLen := r.width - 6
	if maxPreviewLen < 20 {
		maxPreviewLen = 20
	}
	previewLine := r.styles.Muted.Render("    " + truncate(preview, maxPreviewLen))

	var topicLine string
	if doc.Topic != "" {
		topicLine = "\n" + r.styles.Subtitle.Render("    "+doc.Topic)
	}

	return titleLine + topicLine + "\n" + previewLine
}

// truncate shortens s to at most n runes, marking the cut with an ellipsis.
func truncate(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	if n <= 3 {
		return string(runes[:n])
	}
	return string(runes[:n-3]) + "..."
}

// SetDocuments replaces the list contents.
func (r *DocumentList) SetDocuments(documents []domain.Document) {
	r.documents = documents
	r.selected = 0
}

// Documents returns the current documents.
func (r *DocumentList) Documents() []domain.Document {
	return r.documents
}

// Selected returns the index of the selected document.
func (r *DocumentList) Selected() int {
	return r.selected
}

// SetSelected sets the selected index.
func (r *DocumentList) SetSelected(index int) {
	if index >= 0 && index < len(r.documents) {
		r.selected = index
	}
}

// SelectedDocument returns the currently selected document, or nil if none.
func (r *DocumentList) SelectedDocument() *domain.Document {
	if len(r.documents) == 0 || r.selected < 0 || r.selected >= len(r.documents) {
		return nil
	}
	return &r.documents[r.selected]
}

// MoveUp moves selection up.
func (r *DocumentList) MoveUp() {
	if r.selected > 0 {
		r.selected--
	}
}

// MoveDown moves selection down.
func (r *DocumentList) MoveDown() {
	if r.selected < len(r.documents)-1 {
		r.selected++
	}
}

// SetDimensions sets the component dimensions.
func (r *DocumentList) SetDimensions(width, height int) {
	r.width = width
	r.height = height
}

// Width returns the current width.
func (r *DocumentList) Width() int {
	return r.width
}

// Height returns the current height.
func (r *DocumentList) Height() int {
	return r.height
}

// Count returns the number of documents.
func (r *DocumentList) Count() int {
	return len(r.documents)
}

// IsEmpty returns whether the list is empty.
func (r *DocumentList) IsEmpty() bool {
	return len(r.documents) == 0
}
