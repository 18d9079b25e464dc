package domain

import (
	"context"
	"time"
)

// Session is a server-side login session. Its ID is carried in the access token.
type Session struct {
	ID        string
	UserID    int64
	Role      Role
	CreatedAt time.Time
	ExpiresAt time.Time
}

// Expired reports whether the session is no longer valid at now.
func (s *Session) Expired(now time.Time) bool {
	return !now.Before(s.ExpiresAt)
}

// SessionStore keeps login sessions for the lifetime of the store that owns it.
type SessionStore interface {
	Create(ctx context.Context, s *Session) error
	// Get returns ErrNotFound for unknown or expired sessions.
	Get(ctx context.Context, id string) (*Session, error)
	Delete(ctx context.Context, id string) error
	// Prune removes sessions expired at now and returns how many were removed.
	Prune(now time.Time) int
}
