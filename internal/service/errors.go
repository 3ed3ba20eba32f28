package service

import (
	"errors"
)

// Sentinel error kinds. Handlers map these to HTTP statuses and
// machine-readable codes; the wrapped message is what the client renders.
var (
	// ErrValidation indicates a missing or malformed input field
	ErrValidation = errors.New("validation failed")
	// ErrConflict indicates a duplicate unique field (email or username)
	ErrConflict = errors.New("conflict")
	// ErrInvalidCredentials is returned for every login failure. Unknown
	// email and wrong password deliberately share this one error so the
	// endpoint cannot be used to enumerate accounts.
	ErrInvalidCredentials = errors.New("invalid email or password")
	// ErrUnauthenticated indicates a missing, invalid or expired token
	ErrUnauthenticated = errors.New("not authenticated")
	// ErrForbidden indicates the authenticated user is not the owner
	ErrForbidden = errors.New("forbidden")
	// ErrNotFound indicates a missing post, comment or user
	ErrNotFound = errors.New("not found")
)

// Error pairs a sentinel kind with a caller-facing message
type Error struct {
	Kind    error
	Message string
}

func (e *Error) Error() string {
	return e.Message
}

func (e *Error) Unwrap() error {
	return e.Kind
}

func errf(kind error, message string) error {
	return &Error{Kind: kind, Message: message}
}
