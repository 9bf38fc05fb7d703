package api

import (
	"errors"
	"fmt"
)

// ErrMalformedResponse is returned when a 2xx body lacks the fields the
// caller needs to render it.
var ErrMalformedResponse = errors.New("malformed response from server")

// APIError is a non-2xx answer from the backend.
type APIError struct {
	StatusCode int
	Message    string
}

func (e *APIError) Error() string {
	return e.Message
}

// Fallback messages used when the backend gives no error text.
const (
	FallbackSearch      = "Search failed"
	FallbackEvaluate    = "Failed to save evaluation"
	FallbackEvaluations = "Failed to load evaluations"
)

// Message returns the text shown to the user for err: the backend's error
// text when there is one, otherwise fallback.
func Message(err error, fallback string) string {
	if err == nil {
		return ""
	}
	var apiErr *APIError
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	if errors.Is(err, ErrMalformedResponse) {
		return fmt.Sprintf("%s: %v", fallback, ErrMalformedResponse)
	}
	return fallback
}
