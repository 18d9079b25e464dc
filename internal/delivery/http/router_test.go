package http

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/stretchr/testify/suite"
	"golang.org/x/crypto/bcrypt"

	"eventhub/internal/adapters/auth"
	"eventhub/internal/repository/memory"
	"eventhub/internal/services"
)

type stubCompleter struct {
	answer string
	err    error
}

func (s stubCompleter) Complete(_ context.Context, _ string) (string, error) {
	return s.answer, s.err
}

type envelope struct {
	Data  json.RawMessage `json:"data"`
	Error *struct {
		Code    string `json:"code"`
		Message string `json:"message"`
	} `json:"error"`
}

type RouterSuite struct {
	suite.Suite
	handler http.Handler
}

func (s *RouterSuite) SetupTest() {
	s.handler = newTestRouter(stubCompleter{answer: "Try the Go Workshop."})
}

func newTestRouter(completer stubCompleter) http.Handler {
	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	store := memory.NewStore()
	jwt := auth.NewJWTIssuer("test-secret")
	authSvc := services.NewAuthService(services.AuthServiceArgs{
		Users:       store,
		Sessions:    store.SessionStore(),
		Hasher:      auth.NewBcryptHasher(bcrypt.MinCost),
		Issuer:      jwt,
		Verifier:    jwt,
		TokenExpiry: time.Hour,
		Logger:      logger,
	})
	return NewRouter(RouterArgs{
		Logger:         logger,
		Auth:           authSvc,
		Events:         services.NewEventService(store, store),
		Attendees:      services.NewAttendeeService(store, store, store, nil, logger),
		Chat:           services.NewChatService(store, store, completer, logger),
		AllowedOrigins: []string{"http://localhost:5173"},
	})
}

func (s *RouterSuite) do(method, path, token, body string) (int, envelope) {
	var r io.Reader
	if body != "" {
		r = strings.NewReader(body)
	}
	req := httptest.NewRequest(method, path, r)
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	rr := httptest.NewRecorder()
	s.handler.ServeHTTP(rr, req)

	var env envelope
	if rr.Body.Len() > 0 {
		s.Require().NoError(json.Unmarshal(rr.Body.Bytes(), &env), rr.Body.String())
	}
	return rr.Code, env
}

func (s *RouterSuite) signUp(username, role string) string {
	body := fmt.Sprintf(`{"username":%q,"email":"%s@example.com","password":"secret1","confirmPassword":"secret1","firstName":"F","lastName":"L","role":%q}`,
		username, username, role)
	code, env := s.do(http.MethodPost, "/api/register", "", body)
	s.Require().Equal(http.StatusCreated, code)
	var got struct {
		Token string `json:"token"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &got))
	s.Require().NotEmpty(got.Token)
	return got.Token
}

func (s *RouterSuite) createEvent(token string, capacity int) int64 {
	body := fmt.Sprintf(`{"title":"Go Workshop","description":"Hands-on Go","category":"workshop","location":"Room 1",`+
		`"startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T17:00:00Z","capacity":%d}`, capacity)
	code, env := s.do(http.MethodPost, "/api/events", token, body)
	s.Require().Equal(http.StatusCreated, code)
	var ev struct {
		ID int64 `json:"id"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &ev))
	return ev.ID
}

func (s *RouterSuite) TestSignUpAndLogin() {
	s.signUp("jane", "organizer")

	code, env := s.do(http.MethodPost, "/api/register", "",
		`{"username":"JANE","email":"other@example.com","password":"secret1","confirmPassword":"secret1","firstName":"F","lastName":"L"}`)
	s.Equal(http.StatusConflict, code)
	s.Equal("conflict", env.Error.Code)

	code, env = s.do(http.MethodPost, "/api/login", "", `{"username":"jane","password":"secret1"}`)
	s.Require().Equal(http.StatusOK, code)
	var login struct {
		Token     string         `json:"token"`
		TokenType string         `json:"tokenType"`
		User      map[string]any `json:"user"`
	}
	s.Require().NoError(json.Unmarshal(env.Data, &login))
	s.Equal("Bearer", login.TokenType)
	s.Equal("organizer", login.User["role"])
	s.NotContains(login.User, "password")

	code, _ = s.do(http.MethodPost, "/api/login", "", `{"username":"jane","password":"wrong"}`)
	s.Equal(http.StatusUnauthorized, code)
}

func (s *RouterSuite) TestLogoutRevokesToken() {
	token := s.signUp("sam", "attendee")

	code, _ := s.do(http.MethodGet, "/api/user", token, "")
	s.Require().Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/logout", token, "")
	s.Require().Equal(http.StatusOK, code)

	code, env := s.do(http.MethodGet, "/api/user", token, "")
	s.Equal(http.StatusUnauthorized, code)
	s.Equal("unauthorized", env.Error.Code)
}

func (s *RouterSuite) TestEventLifecycle() {
	org := s.signUp("org", "organizer")
	att := s.signUp("att", "attendee")

	code, _ := s.do(http.MethodPost, "/api/events", "", `{}`)
	s.Equal(http.StatusUnauthorized, code)

	code, env := s.do(http.MethodPost, "/api/events", att,
		`{"title":"x","description":"x","category":"workshop","location":"x","startDate":"2026-11-02T09:00:00Z","endDate":"2026-11-02T10:00:00Z","capacity":1}`)
	s.Equal(http.StatusForbidden, code)
	s.Equal("forbidden", env.Error.Code)

	id := s.createEvent(org, 10)
	path := fmt.Sprintf("/api/events/%d", id)

	code, env = s.do(http.MethodGet, "/api/events?category=workshop&search=GO", "", "")
	s.Require().Equal(http.StatusOK, code)
	var listed []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &listed))
	s.Len(listed, 1)

	code, _ = s.do(http.MethodPut, path, att, `{"title":"Hijacked"}`)
	s.Equal(http.StatusForbidden, code)

	code, env = s.do(http.MethodPut, path, org, `{"title":"Advanced Go"}`)
	s.Require().Equal(http.StatusOK, code)
	var updated map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &updated))
	s.Equal("Advanced Go", updated["title"])
	s.Equal("Room 1", updated["location"])

	code, _ = s.do(http.MethodPut, path, org, `{"endDate":"2026-11-01T09:00:00Z"}`)
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodDelete, "/api/events/abc", org, "")
	s.Equal(http.StatusBadRequest, code)

	code, _ = s.do(http.MethodDelete, path, org, "")
	s.Require().Equal(http.StatusNoContent, code)

	code, env = s.do(http.MethodGet, path, "", "")
	s.Equal(http.StatusNotFound, code)
	s.Equal("not_found", env.Error.Code)

	code, _ = s.do(http.MethodDelete, path, org, "")
	s.Equal(http.StatusNotFound, code)
}

func (s *RouterSuite) TestRegistrationFlow() {
	org := s.signUp("host", "organizer")
	alice := s.signUp("alice", "attendee")
	bob := s.signUp("bob", "attendee")
	id := s.createEvent(org, 1)
	base := fmt.Sprintf("/api/events/%d", id)

	code, env := s.do(http.MethodGet, base+"/is-registered", "", "")
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`{"isRegistered":false}`, string(env.Data))

	code, _ = s.do(http.MethodPost, base+"/register", alice, "")
	s.Require().Equal(http.StatusCreated, code)

	code, env = s.do(http.MethodPost, base+"/register", alice, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("already_registered", env.Error.Code)

	code, env = s.do(http.MethodPost, base+"/register", bob, "")
	s.Equal(http.StatusBadRequest, code)
	s.Equal("event_full", env.Error.Code)

	code, _ = s.do(http.MethodPost, "/api/events/999/register", bob, "")
	s.Equal(http.StatusNotFound, code)

	_, env = s.do(http.MethodGet, base+"/is-registered", alice, "")
	s.JSONEq(`{"isRegistered":true}`, string(env.Data))

	code, env = s.do(http.MethodGet, "/api/user/events", alice, "")
	s.Require().Equal(http.StatusOK, code)
	var mine []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &mine))
	s.Len(mine, 1)

	code, _ = s.do(http.MethodGet, base+"/registrations", bob, "")
	s.Equal(http.StatusForbidden, code)
	code, env = s.do(http.MethodGet, base+"/registrations", org, "")
	s.Require().Equal(http.StatusOK, code)
	var regs []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &regs))
	s.Len(regs, 1)

	code, env = s.do(http.MethodGet, "/api/user/organized-events", org, "")
	s.Require().Equal(http.StatusOK, code)
	var organized []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &organized))
	s.Len(organized, 1)

	code, _ = s.do(http.MethodDelete, base+"/register", alice, "")
	s.Require().Equal(http.StatusNoContent, code)
	code, _ = s.do(http.MethodDelete, base+"/register", alice, "")
	s.Equal(http.StatusNotFound, code)

	code, _ = s.do(http.MethodPost, base+"/register", bob, "")
	s.Equal(http.StatusCreated, code)
}

func (s *RouterSuite) TestChat() {
	token := s.signUp("chatty", "attendee")

	code, env := s.do(http.MethodPost, "/api/chat", token, `{"message":"What's on?"}`)
	s.Require().Equal(http.StatusOK, code)
	s.JSONEq(`{"message":"What's on?","response":"Try the Go Workshop."}`, string(env.Data))

	code, _ = s.do(http.MethodPost, "/api/chat", "", `{"message":"anyone?"}`)
	s.Equal(http.StatusOK, code)

	code, _ = s.do(http.MethodPost, "/api/chat", "", `{"message":""}`)
	s.Equal(http.StatusBadRequest, code)

	code, env = s.do(http.MethodGet, "/api/chat/history", token, "")
	s.Require().Equal(http.StatusOK, code)
	var history []map[string]any
	s.Require().NoError(json.Unmarshal(env.Data, &history))
	s.Require().Len(history, 1)
	s.Equal("What's on?", history[0]["message"])
}

func TestRouterSuite(t *testing.T) {
	suite.Run(t, new(RouterSuite))
}

func TestRouter_ChatFallback(t *testing.T) {
	h := newTestRouter(stubCompleter{err: errors.New("quota exceeded")})
	req := httptest.NewRequest(http.MethodPost, "/api/chat", strings.NewReader(`{"message":"hello"}`))
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	var env envelope
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &env))
	var got struct {
		Response string `json:"response"`
	}
	require.NoError(t, json.Unmarshal(env.Data, &got))
	assert.Equal(t, services.ChatFallbackResponse, got.Response)
}

func TestRouter_CORSPreflight(t *testing.T) {
	h := newTestRouter(stubCompleter{})
	req := httptest.NewRequest(http.MethodOptions, "/api/events", nil)
	req.Header.Set("Origin", "http://localhost:5173")
	rr := httptest.NewRecorder()
	h.ServeHTTP(rr, req)

	assert.Equal(t, http.StatusNoContent, rr.Code)
	assert.Equal(t, "http://localhost:5173", rr.Header().Get("Access-Control-Allow-Origin"))
}
