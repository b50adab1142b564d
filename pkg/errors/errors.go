// Package errors provides custom error types for the feedsync system.
// These errors enable programmatic error classification, in particular
// the split between fatal errors (abort the run) and recoverable errors
// (subject to the stop-on-error policy).
package errors

import (
	"errors"
	"fmt"
)

// New returns an error that formats as the given text.
// It's an alias for the standard library errors.New for convenience.
var New = errors.New

// Common sentinel errors for the feedsync system
var (
	// ErrEmptyToken indicates that the remote system returned no bearer token
	ErrEmptyToken = errors.New("empty token")

	// ErrInvalidInput indicates that provided input was invalid
	ErrInvalidInput = errors.New("invalid input")

	// ErrFeedUnavailable indicates that the product feed could not be fetched or parsed
	ErrFeedUnavailable = errors.New("feed unavailable")

	// ErrRemoteAPI indicates that a remote call returned an error envelope
	ErrRemoteAPI = errors.New("remote API error")

	// ErrTransport indicates a network-level failure (connection, timeout)
	ErrTransport = errors.New("transport failure")

	// ErrCategoryCreation indicates the remote system accepted a category
	// create but returned no usable ID
	ErrCategoryCreation = errors.New("category creation failed")
)

// AuthenticationError represents a failed or unusable login. Fatal: the
// run cannot proceed without a bearer token.
type AuthenticationError struct {
	Endpoint string
	Message  string
	Err      error
}

// Error implements the error interface
func (e *AuthenticationError) Error() string {
	if e.Endpoint != "" {
		return fmt.Sprintf("authentication failed at %s: %s", e.Endpoint, e.Message)
	}
	return fmt.Sprintf("authentication failed: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *AuthenticationError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *AuthenticationError) Is(target error) bool {
	return target == ErrEmptyToken && errors.Is(e.Err, ErrEmptyToken)
}

// NewAuthenticationError creates a new AuthenticationError
func NewAuthenticationError(endpoint, message string, err error) *AuthenticationError {
	return &AuthenticationError{Endpoint: endpoint, Message: message, Err: err}
}

// FetchError represents a failure to fetch or parse the product feed.
// Fatal: without feed rows there is nothing to reconcile.
type FetchError struct {
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *FetchError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("feed fetch failed for %s: %s", e.Source, e.Message)
	}
	return fmt.Sprintf("feed fetch failed: %s", e.Message)
}

// Unwrap implements errors.Unwrap
func (e *FetchError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *FetchError) Is(target error) bool {
	return target == ErrFeedUnavailable
}

// NewFetchError creates a new FetchError
func NewFetchError(source string, err error) *FetchError {
	message := ""
	if err != nil {
		message = err.Error()
	}
	return &FetchError{Source: source, Message: message, Err: err}
}

// APIError represents an error envelope returned by the remote catalog
// system in place of a success payload. Recoverable per stop-on-error.
type APIError struct {
	Endpoint   string
	StatusCode int
	Message    string
	Err        error
}

// Error implements the error interface
func (e *APIError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("API error from %s (status %d): %s", e.Endpoint, e.StatusCode, e.Message)
	}
	return fmt.Sprintf("API error from %s: %s", e.Endpoint, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *APIError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *APIError) Is(target error) bool {
	return target == ErrRemoteAPI
}

// NewAPIError creates a new APIError
func NewAPIError(endpoint string, statusCode int, message string) *APIError {
	return &APIError{Endpoint: endpoint, StatusCode: statusCode, Message: message}
}

// TransportError represents a network-level failure (connection refused,
// timeout) on a remote call. Recoverable per stop-on-error.
type TransportError struct {
	Endpoint string
	Err      error
}

// Error implements the error interface
func (e *TransportError) Error() string {
	return fmt.Sprintf("transport failure calling %s: %v", e.Endpoint, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *TransportError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *TransportError) Is(target error) bool {
	return target == ErrTransport
}

// NewTransportError creates a new TransportError
func NewTransportError(endpoint string, err error) *TransportError {
	return &TransportError{Endpoint: endpoint, Err: err}
}

// CategoryError represents a category creation that succeeded at the
// transport level but produced no usable category ID. Fatal to the record
// being processed, not to the whole run.
type CategoryError struct {
	Name     string
	ParentID int64
	Err      error
}

// Error implements the error interface
func (e *CategoryError) Error() string {
	if e.ParentID != 0 {
		return fmt.Sprintf("failed to create category %q under parent %d", e.Name, e.ParentID)
	}
	return fmt.Sprintf("failed to create category %q", e.Name)
}

// Unwrap implements errors.Unwrap
func (e *CategoryError) Unwrap() error {
	return e.Err
}

// Is implements errors.Is support
func (e *CategoryError) Is(target error) bool {
	return target == ErrCategoryCreation
}

// NewCategoryError creates a new CategoryError
func NewCategoryError(parentID int64, name string, err error) *CategoryError {
	return &CategoryError{Name: name, ParentID: parentID, Err: err}
}

// ParseError represents an error when parsing data formats
type ParseError struct {
	Format  string // "xml", "csv", "yaml", etc.
	Source  string
	Message string
	Err     error
}

// Error implements the error interface
func (e *ParseError) Error() string {
	if e.Source != "" {
		return fmt.Sprintf("parse error in %s from %s: %s", e.Format, e.Source, e.Message)
	}
	return fmt.Sprintf("%s parse error: %s", e.Format, e.Message)
}

// Unwrap implements errors.Unwrap
func (e *ParseError) Unwrap() error {
	return e.Err
}

// NewParseError creates a new ParseError
func NewParseError(format, source, message string, err error) *ParseError {
	return &ParseError{Format: format, Source: source, Message: message, Err: err}
}

// IOError represents an error during I/O operations
type IOError struct {
	Operation string // "read", "write", "open", "close"
	Path      string
	Err       error
}

// Error implements the error interface
func (e *IOError) Error() string {
	if e.Path != "" {
		return fmt.Sprintf("IO error during %s of %s: %v", e.Operation, e.Path, e.Err)
	}
	return fmt.Sprintf("IO error during %s: %v", e.Operation, e.Err)
}

// Unwrap implements errors.Unwrap
func (e *IOError) Unwrap() error {
	return e.Err
}

// Helper functions for error checking

// IsRecoverable reports whether an error may be skipped under
// stopOnError=false. Only remote error envelopes and transport failures
// qualify; everything else aborts the run regardless of policy. Fatal
// wrappers win over a recoverable cause: a feed fetch or login failure
// stays fatal even when the underlying error is a transport or API one.
func IsRecoverable(err error) bool {
	var fetchErr *FetchError
	var authErr *AuthenticationError
	if errors.As(err, &fetchErr) || errors.As(err, &authErr) {
		return false
	}
	return errors.Is(err, ErrRemoteAPI) || errors.Is(err, ErrTransport)
}

// IsAuthError checks if an error is an authentication error
func IsAuthError(err error) bool {
	var authErr *AuthenticationError
	return errors.As(err, &authErr)
}

// IsFeedError checks if an error is a feed fetch/parse error
func IsFeedError(err error) bool {
	return errors.Is(err, ErrFeedUnavailable)
}

// IsCategoryError checks if an error is a failed category creation
func IsCategoryError(err error) bool {
	return errors.Is(err, ErrCategoryCreation)
}

// Helper wrapping functions for common patterns

// WrapParse wraps an error as a ParseError
func WrapParse(format, source string, err error) error {
	if err == nil {
		return nil
	}
	return NewParseError(format, source, err.Error(), err)
}

// WrapIO wraps an error as an IOError
func WrapIO(operation, path string, err error) error {
	if err == nil {
		return nil
	}
	return &IOError{Operation: operation, Path: path, Err: err}
}

// WrapTransport wraps an error as a TransportError
func WrapTransport(endpoint string, err error) error {
	if err == nil {
		return nil
	}
	return NewTransportError(endpoint, err)
}
