package cryptoapi

import (
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

// APIError is a non-2xx response from the backend.
type APIError struct {
	StatusCode int
	// Message is the "error" field of the response body, if it had one.
	Message string
	Body    []byte
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("crypto api returned %d: %s", e.StatusCode, e.Message)
	}
	return fmt.Sprintf("crypto api returned %d: %s", e.StatusCode, strings.TrimSpace(string(e.Body)))
}

func newAPIError(status int, body []byte) *APIError {
	e := &APIError{StatusCode: status, Body: body}
	var payload ErrorResponse
	if json.Unmarshal(body, &payload) == nil {
		e.Message = payload.Error
	}
	return e
}

// ServerMessage returns the backend-supplied error text carried by err, or "".
func ServerMessage(err error) string {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr.Message
	}
	return ""
}
