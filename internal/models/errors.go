package models

import "errors"

// Sentinel errors shared by repositories, services and handlers.
// Handlers map them to HTTP status codes with errors.Is.
var (
	ErrNotFound           = errors.New("not found")
	ErrAlreadyExists      = errors.New("already exists")
	ErrInvalidInput       = errors.New("invalid input")
	ErrInvalidCredentials = errors.New("invalid credentials")
	ErrUnauthorized       = errors.New("unauthorized")
	ErrForbidden          = errors.New("forbidden")
	ErrUpstream           = errors.New("upstream service failure")
)

// Error is a message meant for the client, classified by one of the sentinel errors above
type Error struct {
	Kind    error
	Message string
}

// NewError creates an Error of the given kind
func NewError(kind error, message string) *Error {
	return &Error{Kind: kind, Message: message}
}

func (e *Error) Error() string { return e.Message }

func (e *Error) Unwrap() error { return e.Kind }
