package driving

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// DocumentService is the authenticated document access layer.
// Every operation requires a signed-in identity and fetches a fresh token.
type DocumentService interface {
	// Create submits a new document and returns its ID.
	// Not idempotent: each call creates a new record.
	Create(ctx context.Context, draft domain.DocumentDraft) domain.Outcome[string]

	// SearchByQuery returns documents matching query. The query is sent as given.
	SearchByQuery(ctx context.Context, query string) domain.Outcome[domain.SearchResult]

	// GetByID retrieves a document by ID.
	GetByID(ctx context.Context, id string) domain.Outcome[domain.Document]

	// ListAll returns every document.
	ListAll(ctx context.Context) domain.Outcome[[]domain.Document]
}
