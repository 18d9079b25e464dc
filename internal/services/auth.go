package services

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"regexp"
	"strings"
	"time"

	"github.com/google/uuid"

	"eventhub/internal/domain"
)

const minPasswordLen = 6

var emailRegexp = regexp.MustCompile(`^[a-zA-Z0-9._%+-]+@[a-zA-Z0-9.-]+\.[a-zA-Z]{2,}$`)

type authService struct {
	users       domain.UserRepository
	sessions    domain.SessionStore
	hasher      domain.PasswordHasher
	issuer      domain.TokenIssuer
	verifier    domain.TokenVerifier
	tokenExpiry time.Duration
	email       domain.EmailService
	logger      *slog.Logger
	nowFunc     func() time.Time
}

// AuthServiceArgs are the collaborators of the auth service.
type AuthServiceArgs struct {
	Users       domain.UserRepository
	Sessions    domain.SessionStore
	Hasher      domain.PasswordHasher
	Issuer      domain.TokenIssuer
	Verifier    domain.TokenVerifier
	TokenExpiry time.Duration
	// Email is optional; when nil no welcome email is sent.
	Email  domain.EmailService
	Logger *slog.Logger
}

// NewAuthService creates an AuthService. Login sessions live in args.Sessions and
// the issued token carries the session id.
func NewAuthService(args AuthServiceArgs) domain.AuthService {
	return &authService{
		users:       args.Users,
		sessions:    args.Sessions,
		hasher:      args.Hasher,
		issuer:      args.Issuer,
		verifier:    args.Verifier,
		tokenExpiry: args.TokenExpiry,
		email:       args.Email,
		logger:      args.Logger,
		nowFunc:     time.Now,
	}
}

func (s *authService) SignUp(ctx context.Context, in domain.SignUpInput) (*domain.User, error) {
	username := strings.TrimSpace(in.Username)
	email := strings.TrimSpace(in.Email)
	if username == "" {
		return nil, fmt.Errorf("%w: username is required", domain.ErrInvalidInput)
	}
	if !emailRegexp.MatchString(email) {
		return nil, fmt.Errorf("%w: invalid email format", domain.ErrInvalidInput)
	}
	if len(in.Password) < minPasswordLen {
		return nil, fmt.Errorf("%w: password must be at least %d characters", domain.ErrInvalidInput, minPasswordLen)
	}
	role := in.Role
	if role == "" {
		role = domain.RoleAttendee
	}
	if role != domain.RoleAttendee && role != domain.RoleOrganizer {
		return nil, fmt.Errorf("%w: role must be attendee or organizer", domain.ErrInvalidInput)
	}

	// The store does not enforce uniqueness, so check both keys first.
	if _, err := s.users.GetUserByUsername(ctx, username); err == nil {
		return nil, domain.ErrDuplicateUsername
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by username: %w", err)
	}
	if _, err := s.users.GetUserByEmail(ctx, email); err == nil {
		return nil, domain.ErrDuplicateEmail
	} else if !errors.Is(err, domain.ErrNotFound) {
		return nil, fmt.Errorf("get user by email: %w", err)
	}

	hash, err := s.hasher.Hash(in.Password)
	if err != nil {
		return nil, err
	}
	user := domain.NewUser(username, email, hash, strings.TrimSpace(in.FirstName), strings.TrimSpace(in.LastName), role)
	if err := s.users.CreateUser(ctx, user); err != nil {
		if errors.Is(err, domain.ErrDuplicateUsername) || errors.Is(err, domain.ErrDuplicateEmail) {
			return nil, err
		}
		return nil, fmt.Errorf("failed to create user: %w", err)
	}

	if s.email != nil {
		err := s.email.SendWelcomeMessage(ctx, &domain.WelcomeMessageEmailData{
			Email:     user.Email,
			FirstName: user.FirstName,
			Username:  user.Username,
		})
		if err != nil {
			s.logger.Error("failed to send welcome email", "user_id", user.ID, "error", err)
		}
	}
	return user, nil
}

func (s *authService) Login(ctx context.Context, username, password string) (string, *domain.User, error) {
	user, err := s.users.GetUserByUsername(ctx, strings.TrimSpace(username))
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return "", nil, domain.ErrInvalidCredentials
		}
		return "", nil, fmt.Errorf("get user by username: %w", err)
	}
	if err := s.hasher.Compare(user.Password, password); err != nil {
		return "", nil, domain.ErrInvalidCredentials
	}

	now := s.nowFunc()
	session := &domain.Session{
		ID:        uuid.NewString(),
		UserID:    user.ID,
		Role:      user.Role,
		CreatedAt: now,
		ExpiresAt: now.Add(s.tokenExpiry),
	}
	if err := s.sessions.Create(ctx, session); err != nil {
		return "", nil, fmt.Errorf("create session: %w", err)
	}
	token, err := s.issuer.Issue(domain.TokenClaims{UserID: user.ID, Role: user.Role, SessionID: session.ID}, s.tokenExpiry)
	if err != nil {
		_ = s.sessions.Delete(ctx, session.ID)
		return "", nil, err
	}
	return token, user, nil
}

func (s *authService) Logout(ctx context.Context, sessionID string) error {
	return s.sessions.Delete(ctx, sessionID)
}

// Authenticate accepts a token only while its session is alive.
func (s *authService) Authenticate(ctx context.Context, token string) (*domain.Identity, error) {
	claims, err := s.verifier.Verify(token)
	if err != nil {
		return nil, err
	}
	session, err := s.sessions.Get(ctx, claims.SessionID)
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) {
			return nil, fmt.Errorf("%w: session expired or logged out", domain.ErrUnauthenticated)
		}
		return nil, fmt.Errorf("get session: %w", err)
	}
	if session.UserID != claims.UserID {
		return nil, fmt.Errorf("%w: session does not match token", domain.ErrUnauthenticated)
	}
	return &domain.Identity{UserID: session.UserID, Role: session.Role, SessionID: session.ID}, nil
}

func (s *authService) CurrentUser(ctx context.Context, userID int64) (*domain.User, error) {
	return s.users.GetUser(ctx, userID)
}
