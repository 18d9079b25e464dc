package domain

import (
	"context"
	"time"
)

// EventRegistration represents an attendee's registration for an event.
// swagger:model EventRegistration
type EventRegistration struct {
	ID           int64     `json:"id"`
	EventID      int64     `json:"eventId"`
	UserID       int64     `json:"userId"`
	RegisteredAt time.Time `json:"registeredAt"`
}

// EventRegistrationRepository defines storage operations for event registrations.
// It enforces neither capacity nor uniqueness of (event, user); callers check both.
type EventRegistrationRepository interface {
	RegisterForEvent(ctx context.Context, eventID, userID int64) (*EventRegistration, error)
	ListEventRegistrations(ctx context.Context, eventID int64) ([]*EventRegistration, error)
	ListUserRegistrations(ctx context.Context, userID int64) ([]*EventRegistration, error)
	// CancelRegistration reports whether a matching registration existed and was removed.
	CancelRegistration(ctx context.Context, eventID, userID int64) (bool, error)
	IsUserRegistered(ctx context.Context, eventID, userID int64) (bool, error)
}

// AttendeeService defines attendee-facing operations such as event registration.
type AttendeeService interface {
	// RegisterForEvent returns ErrNotFound, ErrAlreadyRegistered or ErrEventFull when the registration is refused.
	RegisterForEvent(ctx context.Context, eventID, userID int64) (*EventRegistration, error)
	// CancelRegistration returns ErrNotFound when the user holds no registration for the event.
	CancelRegistration(ctx context.Context, eventID, userID int64) error
	IsRegistered(ctx context.Context, eventID, userID int64) (bool, error)
	ListMyRegisteredEvents(ctx context.Context, userID int64) ([]*Event, error)
}
