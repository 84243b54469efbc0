// Package errors provides explicit, human-readable error types for
// threadline. Every API-visible error carries an HTTP status, a stable
// error code, and a message a client can act on.
package errors

import (
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// ErrNotFound is the storage-layer sentinel for a missing document.
// Repositories return it (possibly wrapped); the HTTP layer maps it to 404.
var ErrNotFound = errors.New("not found")

// APIError is the base error type for all request-handling failures.
type APIError struct {
	Status  int                    `json:"-"`
	Code    string                 `json:"error"`
	Message string                 `json:"message"`
	Details map[string]interface{} `json:"details,omitempty"`
	Cause   error                  `json:"-"`
}

func (e *APIError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("%s: %s: %v", e.Code, e.Message, e.Cause)
	}
	return fmt.Sprintf("%s: %s", e.Code, e.Message)
}

func (e *APIError) Unwrap() error {
	return e.Cause
}

// AsAPIError extracts an *APIError from err, if there is one in its chain.
func AsAPIError(err error) (*APIError, bool) {
	var apiErr *APIError
	if errors.As(err, &apiErr) {
		return apiErr, true
	}
	return nil, false
}

// NewNotFound reports that a resource does not exist.
func NewNotFound(resourceType, resourceID string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NotFoundError",
		Message: fmt.Sprintf("%s with ID %s not found", resourceType, resourceID),
		Details: map[string]interface{}{
			"resource_type": resourceType,
			"resource_id":   resourceID,
		},
	}
}

// NewProductsMissing reports that an order referenced unknown products.
func NewProductsMissing(ids []string) *APIError {
	return &APIError{
		Status:  http.StatusNotFound,
		Code:    "NotFoundError",
		Message: fmt.Sprintf("products not found: %s", strings.Join(ids, ", ")),
		Details: map[string]interface{}{"missing_product_ids": ids},
	}
}

// NewInvalidID reports a malformed document ID.
func NewInvalidID(id string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "ValidationError",
		Message: fmt.Sprintf("invalid ID format: %s", id),
	}
}

// NewValidation reports a request payload that failed validation.
func NewValidation(message string, details map[string]interface{}) *APIError {
	return &APIError{
		Status:  http.StatusUnprocessableEntity,
		Code:    "ValidationError",
		Message: message,
		Details: details,
	}
}

// NewBadRequest reports a request that is well-formed but unacceptable.
func NewBadRequest(message string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "BadRequestError",
		Message: message,
	}
}

// NewInsufficientStock reports that a product size cannot cover the
// requested quantity.
func NewInsufficientStock(productName, size string, requested, available int) *APIError {
	return &APIError{
		Status:  http.StatusConflict,
		Code:    "InsufficientStockError",
		Message: fmt.Sprintf("insufficient stock for %q size %q: requested %d, available %d", productName, size, requested, available),
		Details: map[string]interface{}{
			"product":   productName,
			"size":      size,
			"requested": requested,
			"available": available,
		},
	}
}

// NewSizeUnavailable reports that a product does not carry the requested size.
func NewSizeUnavailable(productName, size string) *APIError {
	return &APIError{
		Status:  http.StatusBadRequest,
		Code:    "ValidationError",
		Message: fmt.Sprintf("size %q not available for product %q", size, productName),
	}
}

// NewDatabase reports a failed database operation.
func NewDatabase(operation string, cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "DatabaseError",
		Message: fmt.Sprintf("database %s failed", operation),
		Details: map[string]interface{}{"operation": operation},
		Cause:   cause,
	}
}

// NewInternal reports an unexpected failure.
func NewInternal(cause error) *APIError {
	return &APIError{
		Status:  http.StatusInternalServerError,
		Code:    "InternalServerError",
		Message: "an unexpected error occurred",
		Cause:   cause,
	}
}
