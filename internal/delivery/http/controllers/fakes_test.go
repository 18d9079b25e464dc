package controllers

import (
	"context"
	"encoding/json"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"eventhub/internal/delivery/http/helpers"
	"eventhub/internal/delivery/http/middleware"
	"eventhub/internal/domain"

	"github.com/stretchr/testify/require"
)

// testLogger is a no-op logger for controller tests so we don't assert on log output.
var testLogger = slog.New(slog.NewTextHandler(io.Discard, &slog.HandlerOptions{Level: slog.LevelError}))

var (
	organizer = &domain.Identity{UserID: 2, Role: domain.RoleOrganizer, SessionID: "sess-org"}
	attendee  = &domain.Identity{UserID: 5, Role: domain.RoleAttendee, SessionID: "sess-att"}
)

// newRequest builds a request with an optional JSON body, path values and caller.
func newRequest(method, target, body string, caller *domain.Identity, pathValues ...string) *http.Request {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, target, r)
	if body != "" {
		req.Header.Set("Content-Type", "application/json")
	}
	for i := 0; i+1 < len(pathValues); i += 2 {
		req.SetPathValue(pathValues[i], pathValues[i+1])
	}
	if caller != nil {
		req = req.WithContext(middleware.SetIdentity(req.Context(), caller))
	}
	return req
}

// decodeData decodes the envelope and unmarshals data into dest.
func decodeData(t *testing.T, rr *httptest.ResponseRecorder, dest any) {
	t.Helper()
	var env struct {
		Data  json.RawMessage   `json:"data"`
		Error *helpers.APIError `json:"error"`
	}
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.Nil(t, env.Error)
	require.NoError(t, json.Unmarshal(env.Data, dest))
}

// decodeError decodes the envelope and returns its error.
func decodeError(t *testing.T, rr *httptest.ResponseRecorder) *helpers.APIError {
	t.Helper()
	var env helpers.APIResponse
	require.NoError(t, json.NewDecoder(rr.Body).Decode(&env))
	require.NotNil(t, env.Error)
	return env.Error
}

// fakeAuthService implements domain.AuthService for handler tests.
type fakeAuthService struct {
	signUpErr      error
	loginErr       error
	logoutErr      error
	currentUserErr error
	user           *domain.User
	token          string

	lastSignUp        domain.SignUpInput
	lastLoginUsername string
	lastLoginPassword string
	lastLogoutSession string
	lastCurrentUserID int64
}

func (f *fakeAuthService) SignUp(_ context.Context, in domain.SignUpInput) (*domain.User, error) {
	f.lastSignUp = in
	if f.signUpErr != nil {
		return nil, f.signUpErr
	}
	return f.user, nil
}

func (f *fakeAuthService) Login(_ context.Context, username, password string) (string, *domain.User, error) {
	f.lastLoginUsername, f.lastLoginPassword = username, password
	if f.loginErr != nil {
		return "", nil, f.loginErr
	}
	return f.token, f.user, nil
}

func (f *fakeAuthService) Logout(_ context.Context, sessionID string) error {
	f.lastLogoutSession = sessionID
	return f.logoutErr
}

func (f *fakeAuthService) Authenticate(_ context.Context, _ string) (*domain.Identity, error) {
	return nil, domain.ErrUnauthenticated
}

func (f *fakeAuthService) CurrentUser(_ context.Context, userID int64) (*domain.User, error) {
	f.lastCurrentUserID = userID
	if f.currentUserErr != nil {
		return nil, f.currentUserErr
	}
	return f.user, nil
}

// fakeEventService implements domain.EventService for handler tests.
type fakeEventService struct {
	err           error
	events        []*domain.Event
	event         *domain.Event
	registrations []*domain.EventRegistration

	lastFilter domain.EventFilter
	lastCaller *domain.Identity
	lastID     int64
	lastCreate domain.CreateEventInput
	lastUpdate domain.EventUpdate
}

func (f *fakeEventService) ListEvents(_ context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	f.lastFilter = filter
	return f.events, f.err
}

func (f *fakeEventService) GetEvent(_ context.Context, id int64) (*domain.Event, error) {
	f.lastID = id
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) CreateEvent(_ context.Context, caller *domain.Identity, in domain.CreateEventInput) (*domain.Event, error) {
	f.lastCaller, f.lastCreate = caller, in
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) UpdateEvent(_ context.Context, caller *domain.Identity, id int64, update domain.EventUpdate) (*domain.Event, error) {
	f.lastCaller, f.lastID, f.lastUpdate = caller, id, update
	if f.err != nil {
		return nil, f.err
	}
	return f.event, nil
}

func (f *fakeEventService) DeleteEvent(_ context.Context, caller *domain.Identity, id int64) error {
	f.lastCaller, f.lastID = caller, id
	return f.err
}

func (f *fakeEventService) ListEventRegistrations(_ context.Context, caller *domain.Identity, id int64) ([]*domain.EventRegistration, error) {
	f.lastCaller, f.lastID = caller, id
	return f.registrations, f.err
}

func (f *fakeEventService) ListOrganizedEvents(_ context.Context, caller *domain.Identity) ([]*domain.Event, error) {
	f.lastCaller = caller
	return f.events, f.err
}

// fakeAttendeeService implements domain.AttendeeService for handler tests.
type fakeAttendeeService struct {
	err          error
	registration *domain.EventRegistration
	registered   bool
	events       []*domain.Event

	calls       int
	lastEventID int64
	lastUserID  int64
}

func (f *fakeAttendeeService) RegisterForEvent(_ context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	if f.err != nil {
		return nil, f.err
	}
	return f.registration, nil
}

func (f *fakeAttendeeService) CancelRegistration(_ context.Context, eventID, userID int64) error {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	return f.err
}

func (f *fakeAttendeeService) IsRegistered(_ context.Context, eventID, userID int64) (bool, error) {
	f.calls++
	f.lastEventID, f.lastUserID = eventID, userID
	return f.registered, f.err
}

func (f *fakeAttendeeService) ListMyRegisteredEvents(_ context.Context, userID int64) ([]*domain.Event, error) {
	f.calls++
	f.lastUserID = userID
	return f.events, f.err
}

// fakeChatService implements domain.ChatService for handler tests.
type fakeChatService struct {
	err      error
	response string
	history  []*domain.ChatMessage

	lastUserID  *int64
	lastMessage string
	historyFor  int64
}

func (f *fakeChatService) Ask(_ context.Context, userID *int64, message string) (*domain.ChatMessage, error) {
	f.lastUserID, f.lastMessage = userID, message
	if f.err != nil {
		return nil, f.err
	}
	return &domain.ChatMessage{ID: 1, UserID: userID, Message: message, Response: f.response}, nil
}

func (f *fakeChatService) History(_ context.Context, userID int64) ([]*domain.ChatMessage, error) {
	f.historyFor = userID
	return f.history, f.err
}

func strPtr(s string) *string { return &s }
