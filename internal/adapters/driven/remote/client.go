package remote

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"

	"github.com/google/uuid"
	"go.opentelemetry.io/contrib/instrumentation/net/http/otelhttp"
	"golang.org/x/oauth2"
	"golang.org/x/time/rate"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
	"github.com/salafifatawa/fatawa-cli/internal/core/ports/driven"
	"github.com/salafifatawa/fatawa-cli/internal/logger"
)

// Ensure Client implements the interface.
var _ driven.DocumentRemote = (*Client)(nil)

// API paths, relative to the base URL.
const (
	PathDocuments = "/v1/documents"
	PathSearch    = "/v1/documents/search"
	PathAll       = "/v1/documents/all"
	PathVerify    = "/v1/verify"

	// HeaderRequestID carries a per-request UUID for correlating logs.
	HeaderRequestID = "X-Request-ID"

	// DefaultMaxBodySize caps how much of a response body is read.
	DefaultMaxBodySize = 10 << 20
)

// ErrBodyTooLarge is wrapped in the transport error returned when a
// response body exceeds the client's limit.
var ErrBodyTooLarge = errors.New("response body exceeds limit")

// Client talks to the document service.
type Client struct {
	baseURL    string
	httpClient *http.Client
	limiter    *rate.Limiter
	userAgent  string
	maxBody    int64
}

// Option configures a Client.
type Option func(*Client)

// WithHTTPClient replaces the HTTP client. Its transport is used as is.
func WithHTTPClient(c *http.Client) Option {
	return func(cl *Client) {
		cl.httpClient = c
	}
}

// WithRateLimit throttles outgoing requests to rps per second.
// Zero or a negative value disables throttling.
func WithRateLimit(rps float64) Option {
	return func(cl *Client) {
		cl.limiter = newLimiter(rps)
	}
}

// WithMaxBodySize sets the largest response body accepted. Larger bodies
// fail with ErrBodyTooLarge rather than being cut short.
func WithMaxBodySize(n int64) Option {
	return func(cl *Client) {
		if n > 0 {
			cl.maxBody = n
		}
	}
}

// WithUserAgent sets the User-Agent header.
func WithUserAgent(ua string) Option {
	return func(cl *Client) {
		cl.userAgent = ua
	}
}

// NewClient creates a client for the service at baseURL.
func NewClient(baseURL string, opts ...Option) *Client {
	c := &Client{
		baseURL: strings.TrimRight(baseURL, "/"),
		httpClient: &http.Client{
			Transport: otelhttp.NewTransport(http.DefaultTransport),
		},
		limiter:   newLimiter(0),
		userAgent: "fatawa-cli",
		maxBody:   DefaultMaxBodySize,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// createResponse is the body of a successful POST /v1/documents.
type createResponse struct {
	DocumentID string `json:"document_id"`
	ID         string `json:"id"`
}

// documentsResponse wraps a document list.
type documentsResponse struct {
	Documents []domain.Document `json:"documents"`
}

// CreateDocument submits a draft and returns the new document's ID.
func (c *Client) CreateDocument(ctx context.Context, token string, draft domain.DocumentDraft) (string, error) {
	payload, err := json.Marshal(draft)
	if err != nil {
		return "", domain.NewTransportError(0, fmt.Errorf("encode draft: %w", err))
	}

	status, body, err := c.do(ctx, http.MethodPost, PathDocuments, nil, token, payload)
	if err != nil {
		return "", err
	}
	if err := classify(status, body); err != nil {
		return "", err
	}

	var resp createResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		return "", malformed(status, err)
	}
	id := resp.DocumentID
	if id == "" {
		id = resp.ID
	}
	if id == "" {
		return "", malformed(status, fmt.Errorf("response has no document_id"))
	}
	return id, nil
}

// SearchDocuments runs a free-text query. The query is sent verbatim.
// A 2xx body without a usable document list is an empty result.
func (c *Client) SearchDocuments(ctx context.Context, token, query string) (domain.SearchResult, error) {
	params := url.Values{"query": {query}}

	status, body, err := c.do(ctx, http.MethodGet, PathSearch, params, token, nil)
	if err != nil {
		return nil, err
	}
	if err := classify(status, body); err != nil {
		return nil, err
	}

	var resp documentsResponse
	if err := json.Unmarshal(body, &resp); err != nil {
		logger.Warn("Search response not understood, treating as empty: %v", err)
		return domain.SearchResult{}, nil
	}
	if resp.Documents == nil {
		return domain.SearchResult{}, nil
	}
	return domain.SearchResult(resp.Documents), nil
}

// GetDocument fetches one document. The body must be a JSON object; a
// missing id is filled from the request.
func (c *Client) GetDocument(ctx context.Context, token, id string) (*domain.Document, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathDocuments+"/"+url.PathEscape(id), nil, token, nil)
	if err != nil {
		return nil, err
	}
	if err := classify(status, body); err != nil {
		return nil, err
	}

	if !isJSONObject(body) {
		return nil, malformed(status, fmt.Errorf("document body is not an object"))
	}
	var doc domain.Document
	if err := json.Unmarshal(body, &doc); err != nil {
		return nil, malformed(status, err)
	}
	if doc.ID == "" {
		doc.ID = id
	}
	return &doc, nil
}

// ListDocuments fetches every document. Both a bare array and an object
// with a documents field are accepted; anything else is an empty list.
func (c *Client) ListDocuments(ctx context.Context, token string) ([]domain.Document, error) {
	status, body, err := c.do(ctx, http.MethodGet, PathAll, nil, token, nil)
	if err != nil {
		return nil, err
	}
	if err := classify(status, body); err != nil {
		return nil, err
	}

	var docs []domain.Document
	if err := json.Unmarshal(body, &docs); err == nil {
		if docs == nil {
			docs = []domain.Document{}
		}
		return docs, nil
	}

	var resp documentsResponse
	if err := json.Unmarshal(body, &resp); err != nil || resp.Documents == nil {
		logger.Warn("List response not understood, treating as empty")
		return []domain.Document{}, nil
	}
	return resp.Documents, nil
}

// VerifyToken asks the service to validate token. Any 2xx is success.
func (c *Client) VerifyToken(ctx context.Context, token string) error {
	status, body, err := c.do(ctx, http.MethodPost, PathVerify, nil, token, nil)
	if err != nil {
		return err
	}
	return classify(status, body)
}

// do sends one request and reads the whole body. Errors returned are
// transport errors; HTTP status handling is left to classify.
func (c *Client) do(
	ctx context.Context, method, path string, params url.Values, token string, payload []byte,
) (int, []byte, error) {
	if err := c.limiter.Wait(ctx); err != nil {
		return 0, nil, domain.NewTransportError(0, fmt.Errorf("rate limit wait: %w", err))
	}

	endpoint := c.baseURL + path
	if params != nil {
		endpoint += "?" + params.Encode()
	}

	var reader io.Reader
	if payload != nil {
		reader = bytes.NewReader(payload)
	}

	req, err := http.NewRequestWithContext(ctx, method, endpoint, reader)
	if err != nil {
		return 0, nil, domain.NewTransportError(0, fmt.Errorf("build request: %w", err))
	}

	(&oauth2.Token{AccessToken: token, TokenType: "Bearer"}).SetAuthHeader(req)
	req.Header.Set("Accept", "application/json")
	req.Header.Set("User-Agent", c.userAgent)
	requestID := uuid.NewString()
	req.Header.Set(HeaderRequestID, requestID)
	if payload != nil {
		req.Header.Set("Content-Type", "application/json")
	}

	logger.Debug("%s %s (request %s)", method, path, requestID)

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return 0, nil, domain.NewTransportError(0, err)
	}
	defer resp.Body.Close()

	// One byte over the limit tells a full body from a truncated one.
	body, err := io.ReadAll(io.LimitReader(resp.Body, c.maxBody+1))
	if err != nil {
		return resp.StatusCode, nil, domain.NewTransportError(resp.StatusCode, fmt.Errorf("read body: %w", err))
	}
	if int64(len(body)) > c.maxBody {
		logger.Warn("%s %s -> %d body over %d bytes", method, path, resp.StatusCode, c.maxBody)
		return resp.StatusCode, nil, domain.NewTransportError(resp.StatusCode, ErrBodyTooLarge)
	}

	logger.Debug("%s %s -> %d (%d bytes)", method, path, resp.StatusCode, len(body))
	return resp.StatusCode, body, nil
}
