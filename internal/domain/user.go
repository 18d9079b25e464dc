package domain

import (
	"context"
	"time"
)

// Role is an application role.
type Role string

const (
	RoleAdmin     Role = "admin"
	RoleOrganizer Role = "organizer"
	RoleAttendee  Role = "attendee"
)

// Valid reports whether r is one of the known roles.
func (r Role) Valid() bool {
	switch r {
	case RoleAdmin, RoleOrganizer, RoleAttendee:
		return true
	}
	return false
}

// CanOrganize reports whether the role may create events.
func (r Role) CanOrganize() bool {
	return r == RoleAdmin || r == RoleOrganizer
}

// User represents a registered user. Password holds the credential as handed to
// the store; the auth service stores a bcrypt hash there, the store never hashes.
// swagger:model User
type User struct {
	ID        int64     `json:"id"`
	Username  string    `json:"username"`
	Email     string    `json:"email"`
	Password  string    `json:"-"`
	FirstName string    `json:"firstName"`
	LastName  string    `json:"lastName"`
	Role      Role      `json:"role"`
	CreatedAt time.Time `json:"createdAt"`
}

// NewUser returns a new User with the given fields. ID and CreatedAt are set by the store on create.
func NewUser(username, email, password, firstName, lastName string, role Role) *User {
	return &User{
		Username:  username,
		Email:     email,
		Password:  password,
		FirstName: firstName,
		LastName:  lastName,
		Role:      role,
	}
}

// Identity is the authenticated caller as seen by the route layer.
type Identity struct {
	UserID    int64
	Role      Role
	SessionID string
}

// CanManage reports whether the caller may modify an event owned by organizerID.
func (i *Identity) CanManage(organizerID int64) bool {
	return i.Role == RoleAdmin || i.UserID == organizerID
}

// PasswordHasher hashes and verifies passwords.
type PasswordHasher interface {
	Hash(password string) (string, error)
	Compare(hash, password string) error
}

// TokenClaims are the claims carried by an access token.
type TokenClaims struct {
	UserID    int64
	Role      Role
	SessionID string
}

// TokenIssuer issues tokens (e.g. JWT) for an authenticated user.
type TokenIssuer interface {
	Issue(claims TokenClaims, expiry time.Duration) (string, error)
}

// TokenVerifier verifies a token and returns its claims.
type TokenVerifier interface {
	Verify(token string) (*TokenClaims, error)
}

// UserRepository defines the interface for user storage.
type UserRepository interface {
	CreateUser(ctx context.Context, user *User) error
	GetUser(ctx context.Context, id int64) (*User, error)
	// GetUserByUsername matches case-insensitively.
	GetUserByUsername(ctx context.Context, username string) (*User, error)
	// GetUserByEmail matches case-insensitively.
	GetUserByEmail(ctx context.Context, email string) (*User, error)
	ListUsers(ctx context.Context) ([]*User, error)
}

// SignUpInput is the data required to create an account.
type SignUpInput struct {
	Username  string
	Email     string
	Password  string
	FirstName string
	LastName  string
	Role      Role
}

// AuthService defines sign up, login and session handling.
type AuthService interface {
	SignUp(ctx context.Context, in SignUpInput) (*User, error)
	Login(ctx context.Context, username, password string) (token string, user *User, err error)
	Logout(ctx context.Context, sessionID string) error
	Authenticate(ctx context.Context, token string) (*Identity, error)
	CurrentUser(ctx context.Context, userID int64) (*User, error)
}
