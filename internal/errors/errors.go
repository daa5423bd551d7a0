// Package errors provides custom error types for domain-specific errors.
package errors

import (
	"errors"
	"fmt"
)

// Standard sentinel errors
var (
	ErrNotAuthenticated    = errors.New("not authenticated")
	ErrViewSessionRequired = errors.New("view session required: complete step-1 login first")
	ErrSessionExpired      = errors.New("session expired")
	ErrInvalidCredentials  = errors.New("invalid credentials")
	ErrInvalidMethod       = errors.New("cannot call the API with the provided HTTP method")
	ErrInvalidContentType  = errors.New("invalid Content-Type in the header parameters")
	ErrUnknownEndpoint     = errors.New("unknown endpoint")
	ErrSegmentNotFound     = errors.New("exchange segment not found")
	ErrConnectionFailed    = errors.New("connection failed")
	ErrTimeout             = errors.New("operation timed out")
	ErrConfigInvalid       = errors.New("invalid configuration")
	ErrDataNotFound        = errors.New("data not found")
	ErrDatabaseError       = errors.New("database error")
)

// TransportError represents a network, protocol, or request-construction
// failure inside the REST transport. It carries the Go type name of the
// original error so callers can see what actually went wrong on the wire.
type TransportError struct {
	Op     string // "request", "body", "url"
	Kind   string // type name of the underlying error, e.g. "*net.OpError"
	Reason string
	Err    error
}

func (e *TransportError) Error() string {
	if e.Err != nil {
		return fmt.Sprintf("transport error [%s] %s: %s", e.Op, e.Kind, e.Reason)
	}
	return fmt.Sprintf("transport error [%s]: %s", e.Op, e.Reason)
}

func (e *TransportError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps err into a TransportError, recording its type name.
func NewTransportError(op string, err error) *TransportError {
	return &TransportError{
		Op:     op,
		Kind:   fmt.Sprintf("%T", err),
		Reason: err.Error(),
		Err:    err,
	}
}

// AuthStateError reports an endpoint call attempted from the wrong
// authentication state.
type AuthStateError struct {
	Operation string
	State     string
	Err       error
}

func (e *AuthStateError) Error() string {
	return fmt.Sprintf("auth state error [%s] in state %s: %v", e.Operation, e.State, e.Err)
}

func (e *AuthStateError) Unwrap() error {
	return e.Err
}

// NewAuthStateError creates a new AuthStateError.
func NewAuthStateError(operation, state string, err error) *AuthStateError {
	return &AuthStateError{
		Operation: operation,
		State:     state,
		Err:       err,
	}
}

// ValidationError represents a validation error.
type ValidationError struct {
	Field   string
	Value   interface{}
	Message string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation error: %s (%v): %s", e.Field, e.Value, e.Message)
}

// NewValidationError creates a new ValidationError.
func NewValidationError(field string, value interface{}, message string) *ValidationError {
	return &ValidationError{
		Field:   field,
		Value:   value,
		Message: message,
	}
}

// Wrap wraps an error with additional context.
func Wrap(err error, message string) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", message, err)
}

// Wrapf wraps an error with formatted context.
func Wrapf(err error, format string, args ...interface{}) error {
	if err == nil {
		return nil
	}
	return fmt.Errorf("%s: %w", fmt.Sprintf(format, args...), err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return errors.Is(err, target)
}

// As finds the first error in err's chain that matches target.
func As(err error, target interface{}) bool {
	return errors.As(err, target)
}
