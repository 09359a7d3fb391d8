package errors

import (
	stderrors "errors"
	"fmt"
)

// ErrorType classifies failures of API operations
type ErrorType string

const (
	ErrorTypeNetwork    ErrorType = "network"
	ErrorTypeServer     ErrorType = "server_error"
	ErrorTypeParsing    ErrorType = "parsing"
	ErrorTypeNotFound   ErrorType = "not_found"
	ErrorTypeExtraction ErrorType = "extraction_format"
	ErrorTypeUnknown    ErrorType = "unknown"
)

// Error represents a typed API error. Context carries raw response or
// document text for diagnostics: the lookup response body for a
// not-found user, the offending excerpt for an extraction failure.
type Error struct {
	Type    ErrorType
	Message string
	Code    int
	Context string
}

func (e *Error) Error() string {
	if e.Code != 0 {
		return fmt.Sprintf("%s error (code %d): %s", e.Type, e.Code, e.Message)
	}
	return fmt.Sprintf("%s error: %s", e.Type, e.Message)
}

// New creates a typed error.
func New(t ErrorType, message string) *Error {
	return &Error{Type: t, Message: message}
}

// IsType reports whether err is (or wraps) an Error of the given type.
func IsType(err error, t ErrorType) bool {
	var e *Error
	return stderrors.As(err, &e) && e.Type == t
}

// IsTransient reports whether a failed page fetch should be skipped
// rather than ending the feed. Network hiccups, server errors and
// malformed page bodies are transient; a missing user or a broken
// extraction heuristic is not.
func IsTransient(err error) bool {
	var e *Error
	if !stderrors.As(err, &e) {
		return false
	}
	switch e.Type {
	case ErrorTypeNetwork, ErrorTypeServer, ErrorTypeParsing:
		return true
	default:
		return false
	}
}
