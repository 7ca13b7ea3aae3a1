package search

import "errors"

// Error definitions for the search view.
var (
	// ErrNoDocumentService indicates that no document service was provided.
	ErrNoDocumentService = errors.New("document service is required")
)
