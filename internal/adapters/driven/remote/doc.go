// Package remote implements driven.DocumentRemote over the document
// service's HTTP API (/v1/documents, /v1/verify).
//
// The client attaches the caller's bearer token to exactly one request and
// classifies every response into a *domain.DocumentError kind. It never
// retries and sets no timeout of its own; cancellation comes from the
// caller's context.
package remote
