package services

import (
	"context"
	"io"
	"log/slog"
	"sync"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"
)

func discardLogger() *slog.Logger {
	return slog.New(slog.NewTextHandler(io.Discard, nil))
}

// fakeEmailService records every email it is asked to send.
type fakeEmailService struct {
	mu            sync.Mutex
	welcome       []*domain.WelcomeMessageEmailData
	confirmations []*domain.RegistrationConfirmationEmailData
	err           error
}

func (f *fakeEmailService) SendWelcomeMessage(_ context.Context, data *domain.WelcomeMessageEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.welcome = append(f.welcome, data)
	return f.err
}

func (f *fakeEmailService) SendRegistrationConfirmation(_ context.Context, data *domain.RegistrationConfirmationEmailData) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.confirmations = append(f.confirmations, data)
	return f.err
}

func (f *fakeEmailService) confirmationCount() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.confirmations)
}

// plainHasher stores passwords with a prefix so tests stay fast.
type plainHasher struct{}

func (plainHasher) Hash(password string) (string, error) { return "hashed:" + password, nil }

func (plainHasher) Compare(hash, password string) error {
	if hash != "hashed:"+password {
		return domain.ErrInvalidCredentials
	}
	return nil
}

// testClock is a settable clock.
type testClock struct {
	mu  sync.Mutex
	now time.Time
}

func (c *testClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *testClock) Advance(d time.Duration) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.now = c.now.Add(d)
}

// Wednesday.
var testNow = time.Date(2026, 10, 14, 12, 0, 0, 0, time.UTC)

func newTestStore() *memory.Store {
	return memory.NewStore(memory.WithNowFunc(func() time.Time { return testNow }))
}

func mustCreateUser(store *memory.Store, username string, role domain.Role) *domain.User {
	u := domain.NewUser(username, username+"@example.com", "hashed:password", "First", "Last", role)
	if err := store.CreateUser(context.Background(), u); err != nil {
		panic(err)
	}
	return u
}

func mustCreateEvent(store *memory.Store, organizerID int64, capacity int) *domain.Event {
	e := &domain.Event{
		Title:       "Tech Innovation Hackathon",
		Description: "Build something",
		Category:    domain.CategoryHackathon,
		Location:    "New York, NY",
		StartDate:   testNow.Add(48 * time.Hour),
		EndDate:     testNow.Add(72 * time.Hour),
		OrganizerID: organizerID,
		Capacity:    capacity,
	}
	if err := store.CreateEvent(context.Background(), e); err != nil {
		panic(err)
	}
	return e
}
