package errors

import (
	"errors"
	"fmt"
	"net/http"
)

// FieldViolation describes a single failed field constraint.
type FieldViolation struct {
	Field   string `json:"field"`
	Message string `json:"message"`
}

// Error represents a typed domain error with HTTP awareness.
type Error struct {
	Code    string           `json:"code"`
	Message string           `json:"message"`
	Status  int              `json:"status"`
	Key     string           `json:"key,omitempty"`
	Fields  []FieldViolation `json:"fields,omitempty"`
	Err     error            `json:"-"`
}

// Error implements the error interface.
func (e *Error) Error() string {
	if e == nil {
		return "<nil>"
	}
	if e.Err != nil {
		return fmt.Sprintf("%s: %v", e.Message, e.Err)
	}
	return e.Message
}

// Unwrap returns the wrapped error.
func (e *Error) Unwrap() error {
	if e == nil {
		return nil
	}
	return e.Err
}

// New creates a new Error instance.
func New(code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message}
}

// Wrap attaches context to an existing error.
func Wrap(err error, code string, status int, message string) *Error {
	return &Error{Code: code, Status: status, Message: message, Err: err}
}

// Predefined errors for common scenarios.
var (
	ErrNotFound   = New("NOT_FOUND", http.StatusNotFound, "resource not found")
	ErrConflict   = New("CONFLICT", http.StatusConflict, "conflict")
	ErrValidation = New("VALIDATION_ERROR", http.StatusBadRequest, "validation failed")
	ErrStore      = New("STORE_ERROR", http.StatusInternalServerError, "store failure")
	ErrInternal   = New("INTERNAL_ERROR", http.StatusInternalServerError, "internal server error")
	ErrCacheMiss  = New("CACHE_MISS", http.StatusNotFound, "cache miss")
)

// Validation builds a validation error carrying every failed field constraint.
func Validation(fields []FieldViolation) *Error {
	return &Error{
		Code:    ErrValidation.Code,
		Status:  ErrValidation.Status,
		Message: ErrValidation.Message,
		Fields:  fields,
	}
}

// Conflict builds a conflict error naming the offending key, e.g. "email" or
// "subject_code".
func Conflict(key, message string) *Error {
	return &Error{
		Code:    ErrConflict.Code,
		Status:  ErrConflict.Status,
		Message: message,
		Key:     key,
	}
}

// Store wraps an opaque store or transport failure. The caller may retry;
// the core never does.
func Store(err error, message string) *Error {
	return Wrap(err, ErrStore.Code, ErrStore.Status, message)
}

// IsValidation reports whether err is a validation error.
func IsValidation(err error) bool {
	e := FromError(err)
	return e != nil && e.Code == ErrValidation.Code
}

// IsConflict reports whether err is a conflict error.
func IsConflict(err error) bool {
	e := FromError(err)
	return e != nil && e.Code == ErrConflict.Code
}

// IsNotFound reports whether err is a not-found error.
func IsNotFound(err error) bool {
	e := FromError(err)
	return e != nil && e.Code == ErrNotFound.Code
}

// FromError normalises any error into an *Error.
func FromError(err error) *Error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return e
	}
	return Wrap(err, ErrInternal.Code, ErrInternal.Status, ErrInternal.Message)
}

// Clone returns a copy of the error allowing for message overrides.
func Clone(err *Error, message string) *Error {
	if err == nil {
		return nil
	}
	clone := *err
	if message != "" {
		clone.Message = message
	}
	return &clone
}
