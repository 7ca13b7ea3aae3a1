package driven

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// DocumentRemote is the HTTP boundary to the document service.
//
// Every method takes the bearer token for exactly one request. Errors are
// *domain.DocumentError already classified by kind; a plain error is
// treated by callers as a transport failure.
type DocumentRemote interface {
	// CreateDocument submits a draft and returns the service-assigned ID.
	CreateDocument(ctx context.Context, token string, draft domain.DocumentDraft) (string, error)

	// SearchDocuments runs a free-text query. A 2xx body without a document
	// list yields an empty result, not an error.
	SearchDocuments(ctx context.Context, token, query string) (domain.SearchResult, error)

	// GetDocument fetches a single document.
	GetDocument(ctx context.Context, token, id string) (*domain.Document, error)

	// ListDocuments fetches every document in one request.
	ListDocuments(ctx context.Context, token string) ([]domain.Document, error)

	// VerifyToken asks the service to validate the token.
	VerifyToken(ctx context.Context, token string) error
}
