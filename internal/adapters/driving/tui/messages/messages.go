// Package messages defines Bubbletea message types for the TUI.
// Messages represent events and commands that flow through the Elm architecture.
package messages

import (
	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// SessionChanged is sent when the session guard reports a transition.
type SessionChanged struct {
	State domain.SessionState
}

// SearchCompleted carries search results back to the model.
// Seq identifies the request so superseded results can be dropped.
type SearchCompleted struct {
	Seq     int
	Query   string
	Results domain.SearchResult
	Err     error
}

// DocumentsLoaded carries the full document list.
type DocumentsLoaded struct {
	Seq       int
	Documents []domain.Document
	Err       error
}

// DocumentSelected signals a document was picked from a list.
type DocumentSelected struct {
	Document domain.Document
	// From is the view to return to.
	From ViewType
}

// DocumentLoaded carries a document fetched by ID.
type DocumentLoaded struct {
	Seq      int
	Document domain.Document
	Err      error
}

// DocumentCreated signals the create form was submitted.
type DocumentCreated struct {
	ID  string
	Err error
}

// SignInCompleted carries the result of an email and password sign-in.
type SignInCompleted struct {
	Identity *domain.Identity
	Err      error
}

// SignOutRequested asks the app to end the session.
type SignOutRequested struct{}

// SignedOut signals a sign-out attempt finished.
type SignedOut struct {
	Err error
}

// ViewChanged is sent when navigating between views.
type ViewChanged struct {
	View ViewType
}

// ViewType identifies which view is currently active.
type ViewType int

const (
	// ViewMenu is the main navigation menu.
	ViewMenu ViewType = iota
	// ViewSearch is the search input and results view.
	ViewSearch
	// ViewDocuments lists every document.
	ViewDocuments
	// ViewDocument shows a single document.
	ViewDocument
	// ViewCreate is the new document form.
	ViewCreate
	// ViewHelp is the help/keybindings view.
	ViewHelp
)

// String returns the string representation of the view type.
func (v ViewType) String() string {
	switch v {
	case ViewMenu:
		return "menu"
	case ViewSearch:
		return "search"
	case ViewDocuments:
		return "documents"
	case ViewDocument:
		return "document"
	case ViewCreate:
		return "create"
	case ViewHelp:
		return "help"
	default:
		return "unknown"
	}
}

// ErrorOccurred signals that an error happened.
type ErrorOccurred struct {
	Err error
}

// Quit signals the application should exit.
type Quit struct{}
