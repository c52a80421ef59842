// Package errors defines stable error codes for all repolens failure modes.
//
// Unresolved graph edges and cache misses are not errors at all; they are
// expected soft-fail conditions and stay silent. Everything that reaches this
// package is something the caller has to see.
package errors

import (
	"errors"
	"fmt"
)

// Code is a stable machine-readable error code
type Code string

const (
	// NodeUnknown indicates a graph node id that is not part of the current load
	NodeUnknown Code = "NODE_UNKNOWN"
	// PathNotIndexed indicates a path that does not exist in the children index
	PathNotIndexed Code = "PATH_NOT_INDEXED"
	// FetchFailed indicates a local read or remote fetch failed
	FetchFailed Code = "FETCH_FAILED"
	// AnalysisFailed indicates the code analysis service returned an error
	AnalysisFailed Code = "ANALYSIS_FAILED"
	// SchemaMismatch indicates a session snapshot with an unknown schema version
	SchemaMismatch Code = "SCHEMA_MISMATCH"
	// NotModifiedConflict indicates a 304 response with no cached payload to serve
	NotModifiedConflict Code = "NOT_MODIFIED_CONFLICT"
	// SessionNotFound indicates a session id with no stored snapshot
	SessionNotFound Code = "SESSION_NOT_FOUND"
	// Internal indicates an unexpected error
	Internal Code = "INTERNAL_ERROR"
)

// Error is a repolens error with a stable code, message and optional cause
type Error struct {
	Code    Code        `json:"code"`
	Message string      `json:"message"`
	Details interface{} `json:"details,omitempty"`
	cause   error
}

// New creates an Error with the given code and message
func New(code Code, message string) *Error {
	return &Error{Code: code, Message: message}
}

// Wrap creates an Error that wraps an underlying cause
func Wrap(code Code, message string, cause error) *Error {
	return &Error{Code: code, Message: message, cause: cause}
}

// Error implements the error interface
func (e *Error) Error() string {
	if e.cause != nil {
		return fmt.Sprintf("[%s] %s: %v", e.Code, e.Message, e.cause)
	}
	return fmt.Sprintf("[%s] %s", e.Code, e.Message)
}

// Unwrap returns the underlying cause
func (e *Error) Unwrap() error {
	return e.cause
}

// WithDetails attaches structured details to the error
func (e *Error) WithDetails(details interface{}) *Error {
	e.Details = details
	return e
}

// CodeOf extracts the error code from err, or Internal if err is not an *Error
func CodeOf(err error) Code {
	var e *Error
	if errors.As(err, &e) {
		return e.Code
	}
	return Internal
}

// Is reports whether err carries the given code
func Is(err error, code Code) bool {
	return CodeOf(err) == code
}
