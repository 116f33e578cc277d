package models

import "fmt"

// Error taxonomy shared by services and handlers. Handlers map these to HTTP
// status codes with errors.As; repositories wrap driver errors with pkg/errors
// and services translate them into one of these before returning.

type ValidationError struct {
	Message string
}

func (e *ValidationError) Error() string {
	return e.Message
}

func NewValidationError(format string, args ...interface{}) error {
	return &ValidationError{Message: fmt.Sprintf(format, args...)}
}

type StateConflictError struct {
	Message string
}

func (e *StateConflictError) Error() string {
	return e.Message
}

func NewStateConflictError(format string, args ...interface{}) error {
	return &StateConflictError{Message: fmt.Sprintf(format, args...)}
}

type PermissionError struct {
	Message string
}

func (e *PermissionError) Error() string {
	return e.Message
}

func NewPermissionError(format string, args ...interface{}) error {
	return &PermissionError{Message: fmt.Sprintf(format, args...)}
}

type NotFoundError struct {
	Message string
}

func (e *NotFoundError) Error() string {
	return e.Message
}

func NewNotFoundError(format string, args ...interface{}) error {
	return &NotFoundError{Message: fmt.Sprintf(format, args...)}
}

// LedgerInconsistencyError means an append would have pushed a vehicle past
// 100% ownership. It is always fatal to the operation and never auto-corrected.
type LedgerInconsistencyError struct {
	Message string
}

func (e *LedgerInconsistencyError) Error() string {
	return e.Message
}

func NewLedgerInconsistencyError(format string, args ...interface{}) error {
	return &LedgerInconsistencyError{Message: fmt.Sprintf(format, args...)}
}

type ExternalServiceError struct {
	Service string
	Message string
}

func (e *ExternalServiceError) Error() string {
	return fmt.Sprintf("%s: %s", e.Service, e.Message)
}

func NewExternalServiceError(service, format string, args ...interface{}) error {
	return &ExternalServiceError{Service: service, Message: fmt.Sprintf(format, args...)}
}
