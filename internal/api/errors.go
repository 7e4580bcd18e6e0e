package api

import "fmt"

// ValidationError reports a missing or malformed request parameter (400).
type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string { return e.Message }

// Validation builds a ValidationError.
func Validation(format string, args ...any) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

// NotFoundError reports that an upstream had no data for the request (404).
// Fields are merged into the response body next to the error message.
type NotFoundError struct {
	Message string
	Fields  map[string]any
}

func (e *NotFoundError) Error() string { return e.Message }

// NotFound builds a NotFoundError with optional context fields.
func NotFound(message string, fields map[string]any) error {
	return &NotFoundError{Message: message, Fields: fields}
}

// NotConfiguredError reports that a provider key is missing (503).
type NotConfiguredError struct {
	Key   string // environment variable name
	Setup string // where to obtain a key
}

func (e *NotConfiguredError) Error() string {
	return e.Key + " not configured"
}

// NotConfigured builds a NotConfiguredError.
func NotConfigured(key, setup string) error {
	return &NotConfiguredError{Key: key, Setup: setup}
}

// RateLimitedError reports that an upstream refused the call for quota reasons (429).
type RateLimitedError struct {
	Message string
}

func (e *RateLimitedError) Error() string { return e.Message }
