// Package mcp provides an MCP (Model Context Protocol) server adapter for fatawa.
// It lets AI assistants search, read and publish fatawa through the
// authenticated document service.
package mcp

import "errors"

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("mcp: document service is required")
