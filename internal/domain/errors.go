package domain

import "errors"

// Sentinel errors shared by repositories and services.
var (
	// ErrNotFound is returned when an entity is required to exist and does not.
	ErrNotFound = errors.New("not found")
	// ErrForbidden is returned when the caller is authenticated but may not act on the resource.
	ErrForbidden = errors.New("forbidden")
	// ErrUnauthenticated is returned when a token or session is missing, invalid or expired.
	ErrUnauthenticated = errors.New("unauthenticated")
	// ErrInvalidInput is returned when the request is invalid.
	ErrInvalidInput = errors.New("invalid input")
	// ErrInvalidCredentials is returned by login when username or password do not match.
	ErrInvalidCredentials = errors.New("invalid credentials")

	ErrDuplicateUsername = errors.New("username already exists")
	ErrDuplicateEmail    = errors.New("email already exists")

	// ErrAlreadyRegistered is returned when the user already holds a registration for the event.
	ErrAlreadyRegistered = errors.New("already registered for this event")
	// ErrEventFull is returned when the event has reached its capacity.
	ErrEventFull = errors.New("event has reached its capacity")
)
