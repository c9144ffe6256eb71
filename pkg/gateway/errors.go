package gateway

import (
	"errors"
	"fmt"
	"net/http"
)

// ErrorClass represents a classification of gateway failures.
type ErrorClass string

const (
	// ErrorClassClient represents 4xx client errors.
	ErrorClassClient ErrorClass = "client"

	// ErrorClassServer represents 5xx server errors.
	ErrorClassServer ErrorClass = "server"

	// ErrorClassRateLimit represents 429 responses and locally blocked requests.
	ErrorClassRateLimit ErrorClass = "rate_limit"

	// ErrorClassNetwork represents transport, timeout and decode failures.
	ErrorClassNetwork ErrorClass = "network"
)

// Error is a failed gateway request.
type Error struct {
	// Status is the HTTP status code, or 0 when no response was received.
	Status int

	// Class is the failure classification used for metrics and logging.
	Class ErrorClass

	// Message is the human readable reason reported by the provider.
	Message string

	// Err is the underlying error, if any.
	Err error
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("gateway %s error (status %d): %s: %v",
			e.Class, e.Status, e.Message, e.Err)
	}
	return fmt.Sprintf("gateway %s error (status %d): %s",
		e.Class, e.Status, e.Message)
}

// Unwrap implements error unwrapping for errors.Is/As.
func (e *Error) Unwrap() error {
	return e.Err
}

// NewStatusError builds an Error for a non-success HTTP response.
// An empty message falls back to the status text.
func NewStatusError(status int, message string) *Error {
	if message == "" {
		message = http.StatusText(status)
	}
	return &Error{
		Status:  status,
		Class:   ClassifyStatus(status),
		Message: message,
	}
}

// NewNetworkError wraps a failure that produced no usable response.
func NewNetworkError(message string, err error) *Error {
	return &Error{
		Class:   ErrorClassNetwork,
		Message: message,
		Err:     err,
	}
}

// ClassifyStatus categorizes an HTTP status code.
func ClassifyStatus(status int) ErrorClass {
	switch {
	case status == http.StatusTooManyRequests:
		return ErrorClassRateLimit
	case status >= 400 && status < 500:
		return ErrorClassClient
	case status >= 500:
		return ErrorClassServer
	default:
		return ""
	}
}

// Message extracts the user-facing message from err. Errors that are not
// *Error are reported by their Error() text.
func Message(err error) string {
	if err == nil {
		return ""
	}
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Message != "" {
		return gwErr.Message
	}
	return err.Error()
}

// ClassOf returns the classification of err, defaulting to network.
func ClassOf(err error) ErrorClass {
	var gwErr *Error
	if errors.As(err, &gwErr) && gwErr.Class != "" {
		return gwErr.Class
	}
	return ErrorClassNetwork
}
