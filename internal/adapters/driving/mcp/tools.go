package mcp

import (
	"context"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// SearchInput is the input schema for the search_fatawa tool.
type SearchInput struct {
	Query string `json:"query" jsonschema:"text to search for; sent to the service unchanged"`
}

// DocumentsOutput is the output schema for tools returning several fatawa.
type DocumentsOutput struct {
	Documents []DocumentOutput `json:"documents"`
	Count     int              `json:"count"`
}

// DocumentOutput represents a single fatwa.
type DocumentOutput struct {
	ID       string `json:"id"`
	Title    string `json:"title"`
	Author   string `json:"author"`
	Question string `json:"question"`
	Answer   string `json:"answer"`
	Topic    string `json:"topic,omitempty"`
	URI      string `json:"uri"`
}

// GetInput is the input schema for the get_fatwa tool.
type GetInput struct {
	ID string `json:"id" jsonschema:"identifier of the fatwa"`
}

// ListInput is the input schema for the list_fatawa tool.
type ListInput struct{}

// CreateInput is the input schema for the create_fatwa tool.
type CreateInput struct {
	Title    string `json:"title" jsonschema:"short title"`
	Author   string `json:"author" jsonschema:"scholar the answer is attributed to"`
	Question string `json:"question" jsonschema:"the question as asked"`
	Answer   string `json:"answer" jsonschema:"the answer text"`
	Topic    string `json:"topic,omitempty" jsonschema:"optional topic"`
}

// CreateOutput is the output schema for the create_fatwa tool.
type CreateOutput struct {
	ID  string `json:"id"`
	URI string `json:"uri"`
}

// registerTools registers all tool handlers with the MCP server.
func (s *Server) registerTools() {
	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "search_fatawa",
		Description: "Search fatawa by text",
	}, s.handleSearch)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "get_fatwa",
		Description: "Fetch a single fatwa by its identifier",
	}, s.handleGet)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "list_fatawa",
		Description: "List every fatwa",
	}, s.handleList)

	mcp.AddTool(s.server, &mcp.Tool{
		Name:        "create_fatwa",
		Description: "Publish a new fatwa. Each call creates a new record.",
	}, s.handleCreate)
}

// handleSearch handles the search_fatawa tool invocation.
func (s *Server) handleSearch(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input SearchInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	results, err := s.ports.Documents.SearchByQuery(ctx, input.Query).Unwrap()
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	return nil, toDocumentsOutput(results), nil
}

// handleGet handles the get_fatwa tool invocation.
func (s *Server) handleGet(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input GetInput,
) (*mcp.CallToolResult, DocumentOutput, error) {
	doc, err := s.ports.Documents.GetByID(ctx, input.ID).Unwrap()
	if err != nil {
		return nil, DocumentOutput{}, err
	}
	return nil, toDocumentOutput(&doc), nil
}

// handleList handles the list_fatawa tool invocation.
func (s *Server) handleList(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	_ ListInput,
) (*mcp.CallToolResult, DocumentsOutput, error) {
	docs, err := s.ports.Documents.ListAll(ctx).Unwrap()
	if err != nil {
		return nil, DocumentsOutput{}, err
	}
	return nil, toDocumentsOutput(docs), nil
}

// handleCreate handles the create_fatwa tool invocation.
func (s *Server) handleCreate(
	ctx context.Context,
	_ *mcp.CallToolRequest,
	input CreateInput,
) (*mcp.CallToolResult, CreateOutput, error) {
	draft := domain.DocumentDraft{
		Title:    input.Title,
		Author:   input.Author,
		Question: input.Question,
		Answer:   input.Answer,
		Topic:    input.Topic,
	}

	id, err := s.ports.Documents.Create(ctx, draft).Unwrap()
	if err != nil {
		return nil, CreateOutput{}, err
	}
	return nil, CreateOutput{ID: id, URI: documentURI(id)}, nil
}

func toDocumentsOutput(docs []domain.Document) DocumentsOutput {
	output := DocumentsOutput{
		Documents: make([]DocumentOutput, len(docs)),
		Count:     len(docs),
	}
	for i := range docs {
		output.Documents[i] = toDocumentOutput(&docs[i])
	}
	return output
}

func toDocumentOutput(doc *domain.Document) DocumentOutput {
	return DocumentOutput{
		ID:       doc.ID,
		Title:    doc.Title,
		Author:   doc.Author,
		Question: doc.Question,
		Answer:   doc.Answer,
		Topic:    doc.Topic,
		URI:      documentURI(doc.ID),
	}
}
