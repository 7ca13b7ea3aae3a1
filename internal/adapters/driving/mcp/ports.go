package mcp

import (
	"net/http"

	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
)

// Ports aggregates all driving port interfaces required by the MCP server.
// This provides a single injection point for dependency injection.
type Ports struct {
	// Documents is the authenticated document access layer.
	Documents driving.DocumentService

	// Session reports who is signed in. Optional.
	Session driving.SessionGuard

	// Metrics is mounted at /metrics when serving over HTTP. Optional.
	Metrics http.Handler
}

// Validate ensures all required ports are set.
// Returns an error if any required port is nil.
func (p *Ports) Validate() error {
	if p.Documents == nil {
		return ErrMissingDocumentService
	}
	return nil
}
