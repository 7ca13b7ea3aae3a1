package mcp

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/url"
	"strings"

	"github.com/modelcontextprotocol/go-sdk/mcp"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

const (
	// uriScheme is the custom URI scheme for fatawa resources.
	uriScheme = "fatawa://"
)

// registerResources registers all resource handlers with the MCP server.
func (s *Server) registerResources() {
	// Static resource describing the signed-in session.
	s.server.AddResource(&mcp.Resource{
		URI:         uriScheme + "session",
		Name:        "session",
		Description: "Who is signed in to the fatawa service",
		MIMEType:    "application/json",
	}, s.handleSessionResource)

	// Template for a single fatwa.
	s.server.AddResourceTemplate(&mcp.ResourceTemplate{
		URITemplate: uriScheme + "documents/{id}",
		Name:        "fatwa",
		Description: "A single fatwa with its question and answer",
		MIMEType:    "application/json",
	}, s.handleDocumentResource)
}

// handleSessionResource returns the current session state.
func (s *Server) handleSessionResource(
	_ context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	type sessionInfo struct {
		Status string `json:"status"`
		UID    string `json:"uid,omitempty"`
		Email  string `json:"email,omitempty"`
	}

	info := sessionInfo{Status: domain.SessionUnknown.String()}
	if s.ports.Session != nil {
		state := s.ports.Session.State()
		info.Status = state.Status.String()
		if state.IsAuthenticated() {
			info.UID = state.Identity.UID
			info.Email = state.Identity.Email
		}
	}

	return jsonResource(req.Params.URI, info)
}

// handleDocumentResource returns a fatwa as JSON.
func (s *Server) handleDocumentResource(
	ctx context.Context,
	req *mcp.ReadResourceRequest,
) (*mcp.ReadResourceResult, error) {
	// Extract id from URI: fatawa://documents/{id}
	docID := extractDocumentID(req.Params.URI)
	if docID == "" {
		return nil, mcp.ResourceNotFoundError(req.Params.URI)
	}

	outcome := s.ports.Documents.GetByID(ctx, docID)
	if !outcome.Ok() {
		if domain.IsServiceError(outcome.Err()) && outcome.Err().StatusCode == http.StatusNotFound {
			return nil, mcp.ResourceNotFoundError(req.Params.URI)
		}
		return nil, fmt.Errorf("getting document: %w", outcome.Err())
	}

	doc := outcome.Value()
	return jsonResource(req.Params.URI, toDocumentOutput(&doc))
}

func jsonResource(uri string, v any) (*mcp.ReadResourceResult, error) {
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return nil, fmt.Errorf("marshalling resource: %w", err)
	}

	return &mcp.ReadResourceResult{
		Contents: []*mcp.ResourceContents{{
			URI:      uri,
			MIMEType: "application/json",
			Text:     string(data),
		}},
	}, nil
}

// documentURI returns the resource URI of a fatwa. The id is path-escaped
// so extractDocumentID returns it unchanged.
func documentURI(id string) string {
	return uriScheme + "documents/" + url.PathEscape(id)
}

// extractDocumentID extracts the document ID from a URI like fatawa://documents/{id}.
// A malformed escape yields "".
func extractDocumentID(uri string) string {
	const prefix = uriScheme + "documents/"

	if !strings.HasPrefix(uri, prefix) {
		return ""
	}

	id, err := url.PathUnescape(strings.TrimPrefix(uri, prefix))
	if err != nil {
		return ""
	}
	return id
}
