package domain

import "errors"

// Error kinds shared by every service. Handlers map them to HTTP statuses.
var (
	ErrValidation   = errors.New("validation error")   // Missing or malformed input (400)
	ErrConflict     = errors.New("conflict")           // Uniqueness or in-use violation (409)
	ErrUnauthorized = errors.New("unauthorized")       // Bad credentials or token (401)
	ErrNotFound     = errors.New("resource not found") // Absent or owned by someone else (404)
	ErrWriteFailure = errors.New("write failure")      // Unexpected persistence error (500)
)

// Error pairs an error kind with a message that is safe to show to the caller.
type Error struct {
	Kind    error  // One of the Err* kinds above
	Message string // Human readable message
}

func (e *Error) Error() string { return e.Message }

// Unwrap lets errors.Is match on the kind.
func (e *Error) Unwrap() error { return e.Kind }

// Validation returns an ErrValidation with msg.
func Validation(msg string) error { return &Error{Kind: ErrValidation, Message: msg} }

// Conflict returns an ErrConflict with msg.
func Conflict(msg string) error { return &Error{Kind: ErrConflict, Message: msg} }

// Unauthorized returns an ErrUnauthorized with msg.
func Unauthorized(msg string) error { return &Error{Kind: ErrUnauthorized, Message: msg} }

// NotFound returns an ErrNotFound with msg.
func NotFound(msg string) error { return &Error{Kind: ErrNotFound, Message: msg} }

// WriteFailure returns an ErrWriteFailure with msg.
func WriteFailure(msg string) error { return &Error{Kind: ErrWriteFailure, Message: msg} }
