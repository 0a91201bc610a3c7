package dip

import (
	"errors"
	"fmt"
	"net/http"
)

// Validation errors. They are returned before any request is made.
var (
	ErrInvalidResource      = errors.New("invalid resource")
	ErrInvalidFormat        = errors.New("invalid format")
	ErrInvalidIDType        = errors.New("invalid id type")
	ErrUnknownInstitution   = errors.New("unknown institution")
	ErrIncompatibleFilter   = errors.New("incompatible filter")
	ErrConflictingSelectors = errors.New("conflicting selectors")
	ErrInvalidLimit         = errors.New("invalid limit")
	ErrInvalidTimestamp     = errors.New("invalid timestamp")
	ErrStringTooLong        = errors.New("string too long")
)

// Remote errors, classified by HTTP status.
var (
	ErrSyntax              = errors.New("syntax error")
	ErrAuthorization       = errors.New("authorization error")
	ErrEndpointUnreachable = errors.New("endpoint unreachable")
	ErrUnknownAPI          = errors.New("unknown API error")
)

var (
	// ErrMissingID indicates a record without a usable id field
	ErrMissingID = errors.New("record has no id")
	// ErrFormatNotImplemented is returned for FormatXML
	ErrFormatNotImplemented = errors.New("format not implemented")
	// ErrNoAPIKey indicates that no usable API key could be resolved
	ErrNoAPIKey = errors.New("no API key available")
	// ErrNotFound is returned by lookups of a single entity that yield no data
	ErrNotFound = errors.New("entity not found")
)

// ValidationError describes a rejected query parameter.
type ValidationError struct {
	Field   string
	Message string
	Err     error
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("%s: %s: %s", e.Err, e.Field, e.Message)
}

func (e *ValidationError) Unwrap() error {
	return e.Err
}

// APIError represents a failed request against the DIP API
type APIError struct {
	StatusCode int
	Reason     string
	Body       string
	Err        error
}

// newAPIError classifies a non-200 status.
func newAPIError(statusCode int, body string) *APIError {
	e := &APIError{
		StatusCode: statusCode,
		Reason:     http.StatusText(statusCode),
		Body:       body,
	}
	switch statusCode {
	case http.StatusBadRequest:
		e.Err = ErrSyntax
	case http.StatusUnauthorized:
		e.Err = ErrAuthorization
	case http.StatusNotFound:
		e.Err = ErrEndpointUnreachable
	default:
		e.Err = ErrUnknownAPI
	}
	return e
}

// Error implements the error interface
func (e *APIError) Error() string {
	switch e.Err {
	case ErrSyntax:
		return fmt.Sprintf("a syntax error occurred. Code %d: %s", e.StatusCode, e.Reason)
	case ErrAuthorization:
		return fmt.Sprintf("an authorization error occurred. Likely an error with your API key. Code %d: %s", e.StatusCode, e.Reason)
	case ErrEndpointUnreachable:
		return fmt.Sprintf("the API is not reachable. Code %d: %s", e.StatusCode, e.Reason)
	default:
		return fmt.Sprintf("an error occurred. Code %d: %s", e.StatusCode, e.Reason)
	}
}

func (e *APIError) Unwrap() error {
	return e.Err
}

// IsUnauthorized checks if the error indicates a rejected API key
func (e *APIError) IsUnauthorized() bool {
	return e.StatusCode == http.StatusUnauthorized
}

// IsNotFound checks if the error indicates an unknown endpoint
func (e *APIError) IsNotFound() bool {
	return e.StatusCode == http.StatusNotFound
}

// TransportError wraps a request that failed without an HTTP response,
// including one whose retries were exhausted.
type TransportError struct {
	Resource ResourceKind
	Err      error
}

func (e *TransportError) Error() string {
	return fmt.Sprintf("request to %s failed: %v", e.Resource.Path(), e.Err)
}

// Unwrap exposes both the cause and ErrUnknownAPI to errors.Is.
func (e *TransportError) Unwrap() []error {
	return []error{ErrUnknownAPI, e.Err}
}

// MappingError reports a record that could not be mapped to a domain record.
type MappingError struct {
	Resource ResourceKind
	Index    int
	Err      error
}

func (e *MappingError) Error() string {
	return fmt.Sprintf("mapping %s record %d: %v", e.Resource, e.Index, e.Err)
}

func (e *MappingError) Unwrap() error {
	return e.Err
}
