package client

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// Category classifies a failed backend call for metrics and messaging.
type Category string

const (
	CategoryNetwork      Category = "network_unreachable"
	CategoryTimeout      Category = "timeout"
	CategoryUnauthorized Category = "unauthorized"
	CategoryForbidden    Category = "forbidden"
	CategoryNotFound     Category = "not_found"
	CategoryConflict     Category = "conflict"
	CategoryRateLimited  Category = "rate_limited"
	CategoryServer       Category = "server_error"
	CategoryUnexpected   Category = "unexpected"
)

// APIError is the single error type surfaced by the backend client.
// Raw transport errors never escape past it.
type APIError struct {
	Operation  string
	StatusCode int // 0 when no response was received
	Category   Category
	Err        error
}

func (e *APIError) Error() string {
	if e.StatusCode > 0 {
		return fmt.Sprintf("%s: backend returned %d", e.Operation, e.StatusCode)
	}
	return fmt.Sprintf("%s: %v", e.Operation, e.Err)
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// newAPIError wraps a transport-level failure.
func newAPIError(operation string, err error) *APIError {
	category := CategoryUnexpected
	var netErr net.Error
	switch {
	case errors.Is(err, context.DeadlineExceeded):
		category = CategoryTimeout
	case errors.As(err, &netErr) && netErr.Timeout():
		category = CategoryTimeout
	case errors.As(err, new(*net.OpError)):
		category = CategoryNetwork
	case errors.As(err, new(*net.DNSError)):
		category = CategoryNetwork
	}
	return &APIError{Operation: operation, Category: category, Err: err}
}

// newStatusError wraps a non-2xx response.
func newStatusError(operation string, status int) *APIError {
	category := CategoryUnexpected
	switch {
	case status == http.StatusUnauthorized:
		category = CategoryUnauthorized
	case status == http.StatusForbidden:
		category = CategoryForbidden
	case status == http.StatusNotFound:
		category = CategoryNotFound
	case status == http.StatusConflict:
		category = CategoryConflict
	case status == http.StatusTooManyRequests:
		category = CategoryRateLimited
	case status >= 500 && status <= 599:
		category = CategoryServer
	}
	return &APIError{Operation: operation, StatusCode: status, Category: category, Err: fmt.Errorf("HTTP error: %d", status)}
}

// UserMessage converts the error into the short human-readable form shown
// to the user.
func (e *APIError) UserMessage() string {
	if e.StatusCode == http.StatusBadRequest {
		return "Invalid request. Please check your input."
	}
	switch e.Category {
	case CategoryNetwork:
		return "No internet connection. Please check your network settings."
	case CategoryTimeout:
		return "The request timed out. Please try again."
	case CategoryUnauthorized:
		return "Authentication failed. Please log in again."
	case CategoryForbidden:
		return "Access denied. You don't have permission to perform this action."
	case CategoryNotFound:
		return "Resource not found."
	case CategoryConflict:
		return "Conflict occurred. The item may already exist."
	case CategoryRateLimited:
		return "Too many requests. Please wait a moment and try again."
	case CategoryServer:
		return "Server error. Please try again later."
	default:
		return "An unexpected error occurred. Please try again."
	}
}

// OperationError renders a user-facing failure line for a named operation,
// e.g. "Failed to delete: Server error. Please try again later.".
func OperationError(operation string, err error) string {
	prefix := operationPrefix(operation)

	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return fmt.Sprintf("%s: %s", prefix, apiErr.UserMessage())
	}
	return fmt.Sprintf("%s: An unexpected error occurred. Please try again.", prefix)
}

func operationPrefix(operation string) string {
	switch operation {
	case "fetch", "load":
		return "Failed to load data"
	case "save":
		return "Failed to save"
	case "delete":
		return "Failed to delete"
	case "update":
		return "Failed to update"
	case "submit":
		return "Failed to submit"
	case "search":
		return "Search failed"
	default:
		return "Operation failed"
	}
}
