package remote

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// recordedRequest captures what the server saw.
type recordedRequest struct {
	Method string
	Path   string
	Query  string
	Auth   string
	ReqID  string
	Body   string
}

type testServer struct {
	*httptest.Server
	mu       sync.Mutex
	requests []recordedRequest
}

func newTestServer(t *testing.T, status int, body string) *testServer {
	t.Helper()
	ts := &testServer{}
	ts.Server = httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		data, _ := io.ReadAll(r.Body)
		ts.mu.Lock()
		ts.requests = append(ts.requests, recordedRequest{
			Method: r.Method,
			Path:   r.URL.Path,
			Query:  r.URL.RawQuery,
			Auth:   r.Header.Get("Authorization"),
			ReqID:  r.Header.Get(HeaderRequestID),
			Body:   string(data),
		})
		ts.mu.Unlock()
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(status)
		_, _ = io.WriteString(w, body)
	}))
	t.Cleanup(ts.Close)
	return ts
}

func (ts *testServer) all() []recordedRequest {
	ts.mu.Lock()
	defer ts.mu.Unlock()
	return append([]recordedRequest(nil), ts.requests...)
}

func (ts *testServer) last(t *testing.T) recordedRequest {
	t.Helper()
	ts.mu.Lock()
	defer ts.mu.Unlock()
	require.NotEmpty(t, ts.requests)
	return ts.requests[len(ts.requests)-1]
}

func TestClient_CreateDocument(t *testing.T) {
	draft := domain.DocumentDraft{Title: "T1", Author: "A1", Question: "Q1", Answer: "Ans1"}

	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t, http.StatusCreated, `{"document_id":"42"}`)
		client := NewClient(ts.URL)

		id, err := client.CreateDocument(context.Background(), "tok", draft)

		require.NoError(t, err)
		assert.Equal(t, "42", id)

		req := ts.last(t)
		assert.Equal(t, http.MethodPost, req.Method)
		assert.Equal(t, PathDocuments, req.Path)
		assert.Equal(t, "Bearer tok", req.Auth)
		assert.NotEmpty(t, req.ReqID)
		assert.JSONEq(t, `{"title":"T1","author":"A1","question":"Q1","answer":"Ans1"}`, req.Body)
	})

	t.Run("validation", func(t *testing.T) {
		ts := newTestServer(t, http.StatusBadRequest, `{"message":"title required"}`)

		_, err := NewClient(ts.URL).CreateDocument(context.Background(), "tok", draft)

		var docErr *domain.DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Equal(t, domain.ErrorKindValidation, docErr.Kind)
		assert.Equal(t, "title required", docErr.Message)
		assert.Equal(t, http.StatusBadRequest, docErr.StatusCode)
	})

	t.Run("2xx without id is a service error", func(t *testing.T) {
		ts := newTestServer(t, http.StatusCreated, `{"ok":true}`)

		_, err := NewClient(ts.URL).CreateDocument(context.Background(), "tok", draft)

		assert.True(t, domain.IsServiceError(err))
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("2xx unparseable is a service error", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `<html>ok</html>`)

		_, err := NewClient(ts.URL).CreateDocument(context.Background(), "tok", draft)

		assert.True(t, domain.IsServiceError(err))
	})
}

func TestClient_SearchDocuments(t *testing.T) {
	t.Run("results", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"documents":[{"id":"1","title":"Riba","author":"A","question":"Q","answer":"Ans"}]}`)

		result, err := NewClient(ts.URL).SearchDocuments(context.Background(), "tok", "riba")

		require.NoError(t, err)
		assert.Equal(t, domain.SearchResult{{ID: "1", Title: "Riba", Author: "A", Question: "Q", Answer: "Ans"}}, result)

		req := ts.last(t)
		assert.Equal(t, PathSearch, req.Path)
		assert.Equal(t, "query=riba", req.Query)
	})

	tests := []struct {
		name string
		body string
	}{
		{name: "missing documents key", body: `{}`},
		{name: "null documents", body: `{"documents":null}`},
		{name: "unparseable", body: `not json`},
		{name: "empty body", body: ``},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, tt.body)

			result, err := NewClient(ts.URL).SearchDocuments(context.Background(), "tok", "riba")

			require.NoError(t, err)
			assert.NotNil(t, result)
			assert.Empty(t, result)
		})
	}

	t.Run("query is sent untouched", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{}`)
		client := NewClient(ts.URL)

		_, err := client.SearchDocuments(context.Background(), "tok", "")
		require.NoError(t, err)
		assert.Equal(t, "query=", ts.last(t).Query)

		_, err = client.SearchDocuments(context.Background(), "tok", "  salah & zakat ")
		require.NoError(t, err)
		assert.Equal(t, "query=++salah+%26+zakat+", ts.last(t).Query)
	})
}

func TestClient_GetDocument(t *testing.T) {
	t.Run("success", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"id":"7","title":"Salah","author":"A","question":"Q","answer":"Ans","topic":"prayer"}`)

		doc, err := NewClient(ts.URL).GetDocument(context.Background(), "tok", "7")

		require.NoError(t, err)
		assert.Equal(t, &domain.Document{ID: "7", Title: "Salah", Author: "A", Question: "Q", Answer: "Ans", Topic: "prayer"}, doc)
		assert.Equal(t, PathDocuments+"/7", ts.last(t).Path)
	})

	t.Run("missing id is filled from the request", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"title":"Salah"}`)

		doc, err := NewClient(ts.URL).GetDocument(context.Background(), "tok", "7")

		require.NoError(t, err)
		assert.Equal(t, "7", doc.ID)
	})

	t.Run("not found", func(t *testing.T) {
		ts := newTestServer(t, http.StatusNotFound, `{"message":"not found"}`)

		_, err := NewClient(ts.URL).GetDocument(context.Background(), "tok", "999")

		var docErr *domain.DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Equal(t, domain.ErrorKindService, docErr.Kind)
		assert.Equal(t, "not found", docErr.Message)
		assert.Equal(t, http.StatusNotFound, docErr.StatusCode)
	})

	t.Run("array body is malformed", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `[{"id":"7"}]`)

		_, err := NewClient(ts.URL).GetDocument(context.Background(), "tok", "7")

		assert.True(t, domain.IsServiceError(err))
		assert.ErrorIs(t, err, domain.ErrMalformedResponse)
	})

	t.Run("identical payloads across calls", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, `{"id":"7","title":"Salah","author":"A","question":"Q","answer":"Ans"}`)
		client := NewClient(ts.URL)

		first, err := client.GetDocument(context.Background(), "tok", "7")
		require.NoError(t, err)
		second, err := client.GetDocument(context.Background(), "tok", "7")
		require.NoError(t, err)

		a, _ := json.Marshal(first)
		b, _ := json.Marshal(second)
		assert.Equal(t, a, b)
	})
}

func TestClient_ListDocuments(t *testing.T) {
	tests := []struct {
		name     string
		body     string
		expected []domain.Document
	}{
		{name: "bare array", body: `[{"id":"1"},{"id":"2"}]`, expected: []domain.Document{{ID: "1"}, {ID: "2"}}},
		{name: "wrapped", body: `{"documents":[{"id":"1"}]}`, expected: []domain.Document{{ID: "1"}}},
		{name: "null", body: `null`, expected: []domain.Document{}},
		{name: "object without documents", body: `{"count":0}`, expected: []domain.Document{}},
		{name: "garbage", body: `oops`, expected: []domain.Document{}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, tt.body)

			docs, err := NewClient(ts.URL).ListDocuments(context.Background(), "tok")

			require.NoError(t, err)
			assert.Equal(t, tt.expected, docs)
			assert.Equal(t, PathAll, ts.last(t).Path)
		})
	}
}

func TestClient_ListDocuments_ServerErrorIsNotEmptySuccess(t *testing.T) {
	ts := newTestServer(t, http.StatusInternalServerError, `{"code":500,"message":"Error getting documents"}`)

	docs, err := NewClient(ts.URL).ListDocuments(context.Background(), "tok")

	assert.Nil(t, docs)
	assert.True(t, domain.IsServiceError(err))
}

func TestClient_OversizedBodyIsTransportError(t *testing.T) {
	answer := strings.Repeat("a", 1<<20)
	docs := make([]domain.Document, 12)
	for i := range docs {
		docs[i] = domain.Document{ID: fmt.Sprintf("doc-%d", i), Answer: answer}
	}
	large, err := json.Marshal(docs)
	require.NoError(t, err)
	require.Greater(t, len(large), DefaultMaxBodySize)

	ts := newTestServer(t, http.StatusOK, string(large))

	got, err := NewClient(ts.URL).ListDocuments(context.Background(), "tok")

	assert.Nil(t, got)
	assert.True(t, domain.IsTransportError(err))
	assert.ErrorIs(t, err, ErrBodyTooLarge)
}

func TestClient_MaxBodySize(t *testing.T) {
	body := `[{"id":"1"},{"id":"2"}]`

	tests := []struct {
		name  string
		limit int64
		call  func(c *Client) error
		ok    bool
	}{
		{"list at limit", int64(len(body)), func(c *Client) error {
			_, err := c.ListDocuments(context.Background(), "tok")
			return err
		}, true},
		{"list over limit", int64(len(body)) - 1, func(c *Client) error {
			_, err := c.ListDocuments(context.Background(), "tok")
			return err
		}, false},
		{"search over limit", int64(len(body)) - 1, func(c *Client) error {
			_, err := c.SearchDocuments(context.Background(), "tok", "wudu")
			return err
		}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			ts := newTestServer(t, http.StatusOK, body)
			c := NewClient(ts.URL, WithMaxBodySize(tt.limit))

			err := tt.call(c)

			if tt.ok {
				require.NoError(t, err)
				return
			}
			assert.True(t, domain.IsTransportError(err))
			assert.ErrorIs(t, err, ErrBodyTooLarge)
		})
	}
}

func TestClient_NetworkFailure(t *testing.T) {
	t.Run("connection refused", func(t *testing.T) {
		ts := httptest.NewServer(http.NotFoundHandler())
		url := ts.URL
		ts.Close()

		docs, err := NewClient(url).ListDocuments(context.Background(), "tok")

		assert.Nil(t, docs)
		assert.True(t, domain.IsTransportError(err))
	})

	t.Run("timeout", func(t *testing.T) {
		release := make(chan struct{})
		ts := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			select {
			case <-release:
			case <-r.Context().Done():
			}
		}))
		defer ts.Close()
		defer close(release)

		client := NewClient(ts.URL, WithHTTPClient(&http.Client{Timeout: 50 * time.Millisecond}))
		docs, err := client.ListDocuments(context.Background(), "tok")

		assert.Nil(t, docs)
		var docErr *domain.DocumentError
		require.ErrorAs(t, err, &docErr)
		assert.Equal(t, domain.ErrorKindTransport, docErr.Kind)
		assert.Zero(t, docErr.StatusCode)
	})
}

func TestClient_VerifyToken(t *testing.T) {
	t.Run("accepted", func(t *testing.T) {
		ts := newTestServer(t, http.StatusOK, ``)

		require.NoError(t, NewClient(ts.URL).VerifyToken(context.Background(), "tok"))
		assert.Equal(t, PathVerify, ts.last(t).Path)
		assert.Equal(t, http.MethodPost, ts.last(t).Method)
	})

	t.Run("rejected", func(t *testing.T) {
		ts := newTestServer(t, http.StatusUnauthorized, `{"error":"unauthorized"}`)

		err := NewClient(ts.URL).VerifyToken(context.Background(), "bad")

		assert.True(t, domain.IsAuthError(err))
	})
}

func TestClient_TokenPerRequest(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `[]`)
	client := NewClient(ts.URL)

	_, err := client.ListDocuments(context.Background(), "first")
	require.NoError(t, err)
	_, err = client.ListDocuments(context.Background(), "second")
	require.NoError(t, err)

	requests := ts.all()
	require.Len(t, requests, 2)
	assert.Equal(t, "Bearer first", requests[0].Auth)
	assert.Equal(t, "Bearer second", requests[1].Auth)
	assert.NotEqual(t, requests[0].ReqID, requests[1].ReqID)
}

func TestClient_RateLimitRespectsContext(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `[]`)
	client := NewClient(ts.URL, WithRateLimit(0.001))

	_, err := client.ListDocuments(context.Background(), "tok")
	require.NoError(t, err)

	ctx, cancel := context.WithTimeout(context.Background(), 20*time.Millisecond)
	defer cancel()
	_, err = client.ListDocuments(ctx, "tok")

	assert.True(t, domain.IsTransportError(err))
	assert.Len(t, ts.all(), 1)
}

func TestNewClient_TrimsBaseURL(t *testing.T) {
	ts := newTestServer(t, http.StatusOK, `[]`)

	_, err := NewClient(ts.URL+"/").ListDocuments(context.Background(), "tok")

	require.NoError(t, err)
	assert.Equal(t, PathAll, ts.last(t).Path)
}
