package remote

import (
	"bytes"
	"encoding/json"
	"fmt"
	"net/http"

	"github.com/salafifatawa/fatawa-cli/internal/core/domain"
)

// defaultAuthMessage is used for 401/403 responses without a message.
const defaultAuthMessage = "unauthorized"

// errorBody covers the service's error shapes: {"message": ...} from
// handlers and {"error": ...} from the auth middleware.
type errorBody struct {
	Message string `json:"message"`
	Error   string `json:"error"`
}

// text returns the first non-empty message field.
func (b errorBody) text() string {
	if b.Message != "" {
		return b.Message
	}
	return b.Error
}

// parseErrorBody decodes a JSON object error body. ok is false when the
// body is empty or not an object.
func parseErrorBody(body []byte) (errorBody, bool) {
	var eb errorBody
	if !isJSONObject(body) {
		return eb, false
	}
	if err := json.Unmarshal(body, &eb); err != nil {
		return eb, false
	}
	return eb, true
}

// classify maps a non-2xx response to a DocumentError. It returns nil for 2xx.
//
//   - 401/403: auth, message from the body or "unauthorized"
//   - 400/422 with an object body: validation
//   - other statuses with an object body: service
//   - no parseable body: transport
func classify(status int, body []byte) error {
	if status >= 200 && status < 300 {
		return nil
	}

	eb, structured := parseErrorBody(body)

	if status == http.StatusUnauthorized || status == http.StatusForbidden {
		msg := defaultAuthMessage
		if structured && eb.text() != "" {
			msg = eb.text()
		}
		err := domain.NewAuthError(msg, domain.ErrAuthInvalid)
		err.StatusCode = status
		return err
	}

	if !structured {
		return domain.NewTransportError(status, fmt.Errorf("unexpected status %d", status))
	}

	msg := eb.text()
	if msg == "" {
		msg = http.StatusText(status)
	}

	switch status {
	case http.StatusBadRequest, http.StatusUnprocessableEntity:
		return domain.NewValidationError(msg, status)
	default:
		return domain.NewServiceError(msg, status, nil)
	}
}

// malformed reports a 2xx body that does not have the expected shape.
func malformed(status int, cause error) *domain.DocumentError {
	return domain.NewServiceError("malformed response", status, fmt.Errorf("%w: %w", domain.ErrMalformedResponse, cause))
}

func isJSONObject(body []byte) bool {
	trimmed := bytes.TrimSpace(body)
	return len(trimmed) > 0 && trimmed[0] == '{' && json.Valid(trimmed)
}
