package services

import (
	"context"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driving"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// Ensure DocumentService implements the interface.
var _ driving.DocumentService = (*DocumentService)(nil)

// Operation names used for logging, tracing and metrics.
const (
	OpCreate = "create"
	OpSearch = "search"
	OpGet    = "get_by_id"
	OpList   = "list_all"
	OpVerify = "verify"
)

// DocumentService is the authenticated document access layer.
type DocumentService struct {
	gate   gate
	remote driven.DocumentRemote
}

// NewDocumentService creates a new document service.
func NewDocumentService(guard driving.SessionGuard, remote driven.DocumentRemote) *DocumentService {
	return &DocumentService{
		gate:   gate{guard: guard},
		remote: remote,
	}
}

// SetRecorder sets the outcome recorder used for metrics. Optional.
func (s *DocumentService) SetRecorder(recorder driven.OutcomeRecorder) {
	s.gate.recorder = recorder
}

// Create submits a new document and returns its service-assigned ID.
func (s *DocumentService) Create(ctx context.Context, draft domain.DocumentDraft) domain.Outcome[string] {
	logger.Section("Create Document")
	logger.Debug("Title: %q, author: %q", draft.Title, draft.Author)

	return authorized(ctx, s.gate, OpCreate, func(ctx context.Context, token string) (string, error) {
		return s.remote.CreateDocument(ctx, token, draft)
	})
}

// SearchByQuery returns documents matching query. The query is forwarded
// untouched, including when empty.
func (s *DocumentService) SearchByQuery(ctx context.Context, query string) domain.Outcome[domain.SearchResult] {
	logger.Section("Search Documents")
	logger.Debug("Query: %q", query)

	return authorized(ctx, s.gate, OpSearch, func(ctx context.Context, token string) (domain.SearchResult, error) {
		result, err := s.remote.SearchDocuments(ctx, token, query)
		if err != nil {
			return nil, err
		}
		if result == nil {
			result = domain.SearchResult{}
		}
		logger.Debug("Search returned %d documents", result.Len())
		return result, nil
	})
}

// GetByID retrieves a document. A missing document is reported by the
// service and surfaces as a service error.
func (s *DocumentService) GetByID(ctx context.Context, id string) domain.Outcome[domain.Document] {
	logger.Section("Get Document")
	logger.Debug("ID: %q", id)

	return authorized(ctx, s.gate, OpGet, func(ctx context.Context, token string) (domain.Document, error) {
		doc, err := s.remote.GetDocument(ctx, token, id)
		if err != nil {
			return domain.Document{}, err
		}
		if doc == nil {
			return domain.Document{}, domain.NewServiceError("empty document", 0, domain.ErrMalformedResponse)
		}
		return *doc, nil
	})
}

// ListAll returns every document in one request.
func (s *DocumentService) ListAll(ctx context.Context) domain.Outcome[[]domain.Document] {
	logger.Section("List Documents")

	return authorized(ctx, s.gate, OpList, func(ctx context.Context, token string) ([]domain.Document, error) {
		docs, err := s.remote.ListDocuments(ctx, token)
		if err != nil {
			return nil, err
		}
		if docs == nil {
			docs = []domain.Document{}
		}
		logger.Debug("Listed %d documents", len(docs))
		return docs, nil
	})
}
