package domain

import (
	"errors"
	"fmt"
)

// Domain errors represent business logic failures.
// These are distinct from infrastructure errors.
var (
	// ErrNotFound indicates a requested entity does not exist.
	ErrNotFound = errors.New("not found")

	// ErrInvalidInput indicates malformed or invalid input.
	ErrInvalidInput = errors.New("invalid input")

	// ErrUnsupportedType indicates an unknown credential provider type.
	ErrUnsupportedType = errors.New("unsupported type")

	// Authentication Errors.

	// ErrAuthRequired indicates no identity is signed in.
	ErrAuthRequired = errors.New("authentication required")

	// ErrAuthInvalid indicates the credentials were rejected.
	ErrAuthInvalid = errors.New("authentication invalid")

	// ErrIdentityChanged indicates a token was requested for an identity
	// that is no longer the signed-in one.
	ErrIdentityChanged = errors.New("identity changed")

	// ErrTokenRefreshFailed indicates token refresh operation failed.
	ErrTokenRefreshFailed = errors.New("token refresh failed")

	// ErrMalformedResponse indicates a 2xx body did not have the expected shape.
	ErrMalformedResponse = errors.New("malformed response")
)

// Reasons carried by an auth DocumentError.
const (
	// AuthUnauthenticated is used when no identity is present at call time.
	AuthUnauthenticated = "unauthenticated"

	// AuthTokenFetchFailed is used when the provider could not produce a token.
	AuthTokenFetchFailed = "token_fetch_failed"
)

// ErrorKind classifies a DocumentError.
type ErrorKind int

const (
	// ErrorKindAuth covers a missing identity, a failed token fetch or a
	// token the service rejected. Recoverable by re-authenticating.
	ErrorKindAuth ErrorKind = iota + 1

	// ErrorKindValidation means the service rejected the payload.
	ErrorKindValidation

	// ErrorKindTransport covers network failures and non-2xx responses
	// without a structured body. Recoverable by retry.
	ErrorKindTransport

	// ErrorKindService means the service returned a structured failure.
	ErrorKindService
)

// String returns the string representation of the kind.
func (k ErrorKind) String() string {
	switch k {
	case ErrorKindAuth:
		return "auth"
	case ErrorKindValidation:
		return "validation"
	case ErrorKindTransport:
		return "transport"
	case ErrorKindService:
		return "service"
	default:
		return unknownDescription
	}
}

// DocumentError is the failure half of an Outcome.
type DocumentError struct {
	Kind ErrorKind

	// Message is passed through verbatim from the service when it sent one.
	// For auth errors raised locally it is one of the Auth* reasons.
	Message string

	// StatusCode is the HTTP status, or 0 when no response was received.
	StatusCode int

	// Err is the underlying cause, if any.
	Err error
}

func (e *DocumentError) Error() string {
	switch {
	case e.Message != "" && e.Err != nil:
		return fmt.Sprintf("%s error: %s: %v", e.Kind, e.Message, e.Err)
	case e.Message != "":
		return fmt.Sprintf("%s error: %s", e.Kind, e.Message)
	case e.Err != nil:
		return fmt.Sprintf("%s error: %v", e.Kind, e.Err)
	default:
		return fmt.Sprintf("%s error", e.Kind)
	}
}

func (e *DocumentError) Unwrap() error {
	return e.Err
}

// NewAuthError creates an auth error with the given reason.
func NewAuthError(reason string, cause error) *DocumentError {
	return &DocumentError{Kind: ErrorKindAuth, Message: reason, Err: cause}
}

// NewValidationError creates a validation error carrying the service message.
func NewValidationError(message string, status int) *DocumentError {
	return &DocumentError{Kind: ErrorKindValidation, Message: message, StatusCode: status}
}

// NewTransportError creates a transport error.
func NewTransportError(status int, cause error) *DocumentError {
	return &DocumentError{Kind: ErrorKindTransport, StatusCode: status, Err: cause}
}

// NewServiceError creates a service error carrying the service message.
func NewServiceError(message string, status int, cause error) *DocumentError {
	return &DocumentError{Kind: ErrorKindService, Message: message, StatusCode: status, Err: cause}
}

// KindOf returns the kind of a DocumentError anywhere in err's chain,
// or 0 if there is none.
func KindOf(err error) ErrorKind {
	var docErr *DocumentError
	if errors.As(err, &docErr) {
		return docErr.Kind
	}
	return 0
}

// IsAuthError checks if the error is an auth failure.
func IsAuthError(err error) bool {
	return KindOf(err) == ErrorKindAuth
}

// IsValidationError checks if the error is a validation failure.
func IsValidationError(err error) bool {
	return KindOf(err) == ErrorKindValidation
}

// IsTransportError checks if the error is a transport failure.
func IsTransportError(err error) bool {
	return KindOf(err) == ErrorKindTransport
}

// IsServiceError checks if the error is a structured service failure.
func IsServiceError(err error) bool {
	return KindOf(err) == ErrorKindService
}
