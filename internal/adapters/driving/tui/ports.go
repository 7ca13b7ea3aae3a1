// Package tui provides an interactive terminal user interface for fatawa.
// It implements a driving adapter following hexagonal architecture principles.
package tui

import (
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the TUI.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Session reports sign-in state and drives which screen is shown.
	Session driving.SessionGuard

	// Documents reads and creates fatawa.
	Documents driving.DocumentService

	// Auth signs in and out. Optional; without it the TUI cannot start a session.
	Auth driving.AuthService
}

// NewPorts creates a new Ports aggregate with the given services.
func NewPorts(
	session driving.SessionGuard,
	documents driving.DocumentService,
	auth driving.AuthService,
) *Ports {
	return &Ports{
		Session:   session,
		Documents: documents,
		Auth:      auth,
	}
}

// Validate ensures all required ports are set.
func (p *Ports) Validate() error {
	if p == nil {
		return ErrInvalidPorts
	}
	if p.Session == nil {
		return ErrMissingSessionGuard
	}
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	return nil
}
