package catalog

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"
)

var (
	ErrNoToken  = errors.New("login response carried no token")
	ErrNotFound = errors.New("product not found")
)

// APIError is a non-2xx answer from the catalog service.
type APIError struct {
	Status  int
	Message string // "message" field of a JSON error body, if any
	Body    string
}

func (e *APIError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("catalog: status %d: %s", e.Status, e.Message)
	}
	return fmt.Sprintf("catalog: status %d", e.Status)
}

func newAPIError(status int, raw []byte) *APIError {
	e := &APIError{Status: status, Body: strings.TrimSpace(string(raw))}
	var payload struct {
		Message string `json:"message"`
	}
	if json.Unmarshal(raw, &payload) == nil {
		e.Message = payload.Message
	}
	return e
}

// Message picks the text to show a user for a failed catalog read: the
// server's message field, then the error's own message, then fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return fallback
	}
	if msg := err.Error(); msg != "" {
		return msg
	}
	return fallback
}

// LoginMessage is the login form's variant: a plain-text error body wins,
// then the server's message field, then a fixed credentials hint.
func LoginMessage(err error) string {
	const fallback = "Username or password is incorrect"
	if errors.Is(err, ErrNoToken) {
		return "Invalid response from server. Please try again."
	}
	var apiErr *APIError
	if !errors.As(err, &apiErr) {
		return fallback
	}
	var s string
	if json.Unmarshal([]byte(apiErr.Body), &s) == nil && s != "" {
		return s
	}
	if apiErr.Body != "" && !strings.HasPrefix(apiErr.Body, "{") && !strings.HasPrefix(apiErr.Body, "<") {
		return apiErr.Body
	}
	if apiErr.Message != "" {
		return apiErr.Message
	}
	return fallback
}
