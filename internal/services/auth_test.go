package services

import (
	"context"
	"errors"
	"testing"
	"time"

	"eventhub/internal/adapters/auth"
	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type authFixture struct {
	svc      *authService
	store    *memory.Store
	sessions *memory.SessionStore
	email    *fakeEmailService
	clock    *testClock
}

func newAuthFixture() *authFixture {
	clock := &testClock{now: time.Now()}
	sessions := memory.NewSessionStore(memory.WithSessionNowFunc(clock.Now))
	store := memory.NewStore(memory.WithSessionStore(sessions))
	email := &fakeEmailService{}
	jwt := auth.NewJWTIssuer("test-secret")
	svc := NewAuthService(AuthServiceArgs{
		Users:       store,
		Sessions:    store.SessionStore(),
		Hasher:      plainHasher{},
		Issuer:      jwt,
		Verifier:    jwt,
		TokenExpiry: time.Hour,
		Email:       email,
		Logger:      discardLogger(),
	}).(*authService)
	svc.nowFunc = clock.Now
	return &authFixture{svc: svc, store: store, sessions: sessions, email: email, clock: clock}
}

func validSignUp() domain.SignUpInput {
	return domain.SignUpInput{
		Username:  "alice",
		Email:     "alice@example.com",
		Password:  "secret123",
		FirstName: "Alice",
		LastName:  "Smith",
	}
}

func TestAuthService_SignUp(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()

	user, err := f.svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	assert.Equal(t, int64(1), user.ID)
	assert.Equal(t, domain.RoleAttendee, user.Role)
	assert.Equal(t, "hashed:secret123", user.Password)

	stored, err := f.store.GetUser(ctx, user.ID)
	require.NoError(t, err)
	assert.Equal(t, "hashed:secret123", stored.Password)

	require.Len(t, f.email.welcome, 1)
	assert.Equal(t, "alice@example.com", f.email.welcome[0].Email)
	assert.Equal(t, "alice", f.email.welcome[0].Username)
}

func TestAuthService_SignUp_duplicates(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	in := validSignUp()
	in.Username = "ALICE"
	in.Email = "other@example.com"
	_, err = f.svc.SignUp(ctx, in)
	require.ErrorIs(t, err, domain.ErrDuplicateUsername)

	in = validSignUp()
	in.Username = "bob"
	in.Email = "Alice@Example.com"
	_, err = f.svc.SignUp(ctx, in)
	require.ErrorIs(t, err, domain.ErrDuplicateEmail)

	users, err := f.store.ListUsers(ctx)
	require.NoError(t, err)
	assert.Len(t, users, 1)
}

func TestAuthService_SignUp_validation(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(in *domain.SignUpInput)
	}{
		{"blank username", func(in *domain.SignUpInput) { in.Username = "  " }},
		{"bad email", func(in *domain.SignUpInput) { in.Email = "not-an-email" }},
		{"short password", func(in *domain.SignUpInput) { in.Password = "abc" }},
		{"admin role", func(in *domain.SignUpInput) { in.Role = domain.RoleAdmin }},
		{"unknown role", func(in *domain.SignUpInput) { in.Role = "superuser" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			f := newAuthFixture()
			in := validSignUp()
			tt.mutate(&in)
			_, err := f.svc.SignUp(context.Background(), in)
			require.ErrorIs(t, err, domain.ErrInvalidInput)
			assert.Empty(t, f.email.welcome)
		})
	}
}

func TestAuthService_SignUp_organizer_and_email_failure(t *testing.T) {
	f := newAuthFixture()
	f.email.err = errors.New("smtp down")
	in := validSignUp()
	in.Role = domain.RoleOrganizer

	user, err := f.svc.SignUp(context.Background(), in)
	require.NoError(t, err)
	assert.Equal(t, domain.RoleOrganizer, user.Role)
}

func TestAuthService_Login_Authenticate_Logout(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	created, err := f.svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	token, user, err := f.svc.Login(ctx, "Alice", "secret123")
	require.NoError(t, err)
	require.NotEmpty(t, token)
	assert.Equal(t, created.ID, user.ID)
	assert.Equal(t, 1, f.sessions.Len())

	identity, err := f.svc.Authenticate(ctx, token)
	require.NoError(t, err)
	assert.Equal(t, created.ID, identity.UserID)
	assert.Equal(t, domain.RoleAttendee, identity.Role)
	require.NotEmpty(t, identity.SessionID)

	current, err := f.svc.CurrentUser(ctx, identity.UserID)
	require.NoError(t, err)
	assert.Equal(t, "alice", current.Username)

	require.NoError(t, f.svc.Logout(ctx, identity.SessionID))
	_, err = f.svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}

func TestAuthService_Login_invalid(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)

	_, _, err = f.svc.Login(ctx, "alice", "wrong-password")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	_, _, err = f.svc.Login(ctx, "nobody", "secret123")
	require.ErrorIs(t, err, domain.ErrInvalidCredentials)

	assert.Equal(t, 0, f.sessions.Len())
}

func TestAuthService_Authenticate_expired_session(t *testing.T) {
	ctx := context.Background()
	f := newAuthFixture()
	_, err := f.svc.SignUp(ctx, validSignUp())
	require.NoError(t, err)
	token, _, err := f.svc.Login(ctx, "alice", "secret123")
	require.NoError(t, err)

	// The JWT itself is still valid; only the session has lapsed.
	f.clock.Advance(2 * time.Hour)
	_, err = f.svc.Authenticate(ctx, token)
	require.ErrorIs(t, err, domain.ErrUnauthenticated)

	_, err = f.svc.Authenticate(ctx, "garbage")
	require.ErrorIs(t, err, domain.ErrUnauthenticated)
}
