// Package menu provides the main navigation menu view for the TUI.
package menu

import (
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/messages"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
)

// Item represents a single menu option.
type Item struct {
	Label   string
	View    messages.ViewType
	SignOut bool // If true, selecting this item ends the session
	Quit    bool // If true, selecting this item quits the app
}

// View represents the main menu view.
type View struct {
	styles   *styles.Styles
	items    []Item
	selected int
	identity string
	width    int
	height   int
	ready    bool
}

// NewView creates a new menu view. Sign out is offered only when
// canSignOut is true.
func NewView(s *styles.Styles, canSignOut bool) *View {
	if s == nil {
		s = styles.DefaultStyles()
	}

	items := []Item{
		{Label: "Search", View: messages.ViewSearch},
		{Label: "Browse all", View: messages.ViewDocuments},
		{Label: "New fatwa", View: messages.ViewCreate},
		{Label: "Help", View: messages.ViewHelp},
	}
	if canSignOut {
		items = append(items, Item{Label: "Sign out", SignOut: true})
	}
	items = append(items, Item{Label: "Quit", Quit: true})

	return &View{
		styles:   s,
		items:    items,
		selected: 0,
		width:    80,
		height:   24,
	}
}

// Init initialises the menu view.
func (v *View) Init() tea.Cmd {
	return nil
}

// Update handles messages for the menu view.
func (v *View) Update(msg tea.Msg) (*View, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		v.width = msg.Width
		v.height = msg.Height
		v.ready = true
		return v, nil

	case tea.KeyMsg:
		switch msg.String() {
		case "up", "k":
			if v.selected > 0 {
				v.selected--
			}
			return v, nil

		case "down", "j":
			if v.selected < len(v.items)-1 {
				v.selected++
			}
			return v, nil

		case "enter":
			item := v.items[v.selected]
			switch {
			case item.Quit:
				return v, tea.Quit
			case item.SignOut:
				return v, func() tea.Msg {
					return messages.SignOutRequested{}
				}
			}
			return v, func() tea.Msg {
				return messages.ViewChanged{View: item.View}
			}

		case "q":
			return v, tea.Quit
		}
	}

	return v, nil
}

// View renders the menu.
func (v *View) View() string {
	if !v.ready {
		return "Initialising..."
	}

	var b strings.Builder

	b.WriteString(v.styles.Title.Render("Fatawa"))
	b.WriteString("\n\n")

	subtitle := "Questions and answers from the scholars"
	b.WriteString(v.styles.Muted.Render(subtitle))
	b.WriteString("\n")
	if v.identity != "" {
		b.WriteString(v.styles.Muted.Render("Signed in as ") + v.styles.Identity.Render(v.identity))
		b.WriteString("\n")
	}
	b.WriteString("\n")

	// Menu items
	for i, item := range v.items {
		cursor := "  "
		style := v.styles.Normal

		if i == v.selected {
			cursor = "> "
			style = lipgloss.NewStyle().
				Foreground(v.styles.Theme().Primary).
				Bold(true)
		}

		b.WriteString(cursor + style.Render(item.Label))
		b.WriteString("\n")
	}

	// Footer with keybindings
	b.WriteString("\n")
	b.WriteString(v.styles.Help.Render("[j/k] Navigate  [Enter] Select  [q] Quit"))

	return b.String()
}

// SetIdentity sets the account shown under the title.
func (v *View) SetIdentity(identity string) {
	v.identity = identity
}

// SetDimensions sets the view dimensions.
func (v *View) SetDimensions(width, height int) {
	v.width = width
	v.height = height
	v.ready = true
}

// Selected returns the currently selected index.
func (v *View) Selected() int {
	return v.selected
}

// Items returns the menu items.
func (v *View) Items() []Item {
	return v.items
}
