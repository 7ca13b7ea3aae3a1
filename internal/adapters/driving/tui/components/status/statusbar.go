// Package status provides the status line shown at the foot of each view.
package status

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/key"
	"github.com/charmbracelet/lipgloss"

	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/keymap"
	"github.com/salafifatawa/fatawa-cli/internal/adapters/driving/tui/styles"
)

// State is what the owning view is doing.
type State string

const (
	StateReady      State = "ready"
	StateLoading    State = "loading"
	StateSearching  State = "searching"
	StateSubmitting State = "submitting"
	StateResults    State = "results"
	StateError      State = "error"
)

// busyText is shown on the left while a request is in flight.
var busyText = map[State]string{
	StateLoading:    "Loading...",
	StateSearching:  "Searching...",
	StateSubmitting: "Submitting...",
}

// Bar shows request progress and the signed-in account on the left, and
// key hints on the right.
type Bar struct {
	styles   *styles.Styles
	keymap   *keymap.KeyMap
	state    State
	message  string
	count    int
	identity string
	hints    []key.Binding
	width    int
}

// NewBar creates a status bar in the ready state.
func NewBar(s *styles.Styles, km *keymap.KeyMap) *Bar {
	if s == nil {
		s = styles.DefaultStyles()
	}
	if km == nil {
		km = keymap.DefaultKeyMap()
	}
	return &Bar{styles: s, keymap: km, state: StateReady, width: 80}
}

// View renders the bar padded to its width.
func (s *Bar) View() string {
	left := s.left()
	right := s.right()

	gap := s.width - lipgloss.Width(left) - lipgloss.Width(right)
	if gap < 1 {
		gap = 1
	}
	return s.styles.StatusBar.Width(s.width).Render(left + strings.Repeat(" ", gap) + right)
}

func (s *Bar) left() string {
	if s.state == StateError {
		// Errors replace the account so the message has room.
		if s.message == "" {
			return s.styles.Error.Render("Error")
		}
		return s.styles.Error.Render("Error: " + s.message)
	}

	var text string
	switch {
	case busyText[s.state] != "":
		text = s.styles.Muted.Render(busyText[s.state])
	case s.state == StateResults:
		text = s.styles.Normal.Render(CountLabel(s.count))
	case s.message != "":
		text = s.styles.Success.Render(s.message)
	default:
		text = s.styles.Muted.Render("Ready")
	}

	if s.identity == "" {
		return text
	}
	return text + s.styles.Muted.Render(" · ") + s.styles.Identity.Render(s.identity)
}

func (s *Bar) right() string {
	bindings := s.hints
	if len(bindings) == 0 {
		bindings = s.keymap.ShortHelp()
		if s.state == StateResults && s.count > 0 {
			bindings = s.keymap.ResultsHelp()
		}
	}

	parts := make([]string, 0, len(bindings))
	for _, b := range bindings {
		h := b.Help()
		parts = append(parts, h.Key+": "+h.Desc)
	}
	return s.styles.Muted.Render(strings.Join(parts, " | "))
}

// CountLabel describes a number of fatawa, e.g. "1 fatwa" or "3 fatawa".
func CountLabel(n int) string {
	switch n {
	case 0:
		return "No fatawa"
	case 1:
		return "1 fatwa"
	default:
		return fmt.Sprintf("%d fatawa", n)
	}
}

// SetState sets the current state.
func (s *Bar) SetState(state State) {
	s.state = state
}

// State returns the current state.
func (s *Bar) State() State {
	return s.state
}

// SetMessage sets the text shown in the ready and error states.
func (s *Bar) SetMessage(message string) {
	s.message = message
}

// Message returns the current message.
func (s *Bar) Message() string {
	return s.message
}

// SetResultCount sets the count shown in the results state.
func (s *Bar) SetResultCount(count int) {
	s.count = count
}

// ResultCount returns the current result count.
func (s *Bar) ResultCount() int {
	return s.count
}

// SetIdentity sets the account shown next to the state. Empty hides it.
func (s *Bar) SetIdentity(identity string) {
	s.identity = identity
}

// Identity returns the displayed account.
func (s *Bar) Identity() string {
	return s.identity
}

// SetHints overrides the key hints. Nil restores the defaults.
func (s *Bar) SetHints(bindings []key.Binding) {
	s.hints = bindings
}

// SetWidth sets the bar width.
func (s *Bar) SetWidth(width int) {
	s.width = width
}

// Clear returns to the ready state. Identity and hints are kept.
func (s *Bar) Clear() {
	s.state = StateReady
	s.message = ""
	s.count = 0
}
