package tui

import "errors"

// ErrMissingSessionGuard is returned when the session guard is not provided.
var ErrMissingSessionGuard = errors.New("tui: session guard is required")

// ErrMissingDocumentService is returned when the document service is not provided.
var ErrMissingDocumentService = errors.New("tui: document service is required")

// ErrInvalidPorts is returned when ports validation fails.
var ErrInvalidPorts = errors.New("tui: invalid ports configuration")
