package memory

import (
	"context"
	"sort"
	"strings"
	"sync"
	"sync/atomic"
	"time"

	"eventhub/internal/domain"
)

// Store is an in-process domain.EventStore. Each collection has its own id
// counter; ids start at 1 and are never reused.
type Store struct {
	mu            sync.RWMutex
	users         map[int64]*domain.User
	events        map[int64]*domain.Event
	registrations map[int64]*domain.EventRegistration
	chatMessages  map[int64]*domain.ChatMessage

	userSeq         atomic.Int64
	eventSeq        atomic.Int64
	registrationSeq atomic.Int64
	chatMessageSeq  atomic.Int64

	sessions *SessionStore
	nowFunc  func() time.Time
}

// Option configures a Store.
type Option func(*Store)

// WithNowFunc overrides the clock used for timestamps and date buckets. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) Option {
	return func(s *Store) {
		s.nowFunc = nowFunc
	}
}

// WithSessionStore replaces the default session store.
func WithSessionStore(sessions *SessionStore) Option {
	return func(s *Store) {
		s.sessions = sessions
	}
}

// NewStore returns an empty Store.
func NewStore(opts ...Option) *Store {
	s := &Store{
		users:         make(map[int64]*domain.User),
		events:        make(map[int64]*domain.Event),
		registrations: make(map[int64]*domain.EventRegistration),
		chatMessages:  make(map[int64]*domain.ChatMessage),
		nowFunc:       time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = NewSessionStore(WithSessionNowFunc(s.nowFunc))
	}
	return s
}

var _ domain.EventStore = (*Store)(nil)

// SessionStore returns the login session store owned by s.
func (s *Store) SessionStore() domain.SessionStore {
	return s.sessions
}

// sortedIDs returns the keys of m in ascending order, which is insertion order.
func sortedIDs[T any](m map[int64]T) []int64 {
	ids := make([]int64, 0, len(m))
	for id := range m {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// User operations

func (s *Store) CreateUser(_ context.Context, u *domain.User) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	u.ID = s.userSeq.Add(1)
	u.CreatedAt = s.nowFunc()
	cp := *u
	s.users[u.ID] = &cp
	return nil
}

func (s *Store) GetUser(_ context.Context, id int64) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	u, ok := s.users[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	cp := *u
	return &cp, nil
}

func (s *Store) GetUserByUsername(_ context.Context, username string) (*domain.User, error) {
	return s.findUser(func(u *domain.User) bool {
		return strings.EqualFold(u.Username, username)
	})
}

func (s *Store) GetUserByEmail(_ context.Context, email string) (*domain.User, error) {
	return s.findUser(func(u *domain.User) bool {
		return strings.EqualFold(u.Email, email)
	})
}

func (s *Store) findUser(match func(*domain.User) bool) (*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, id := range sortedIDs(s.users) {
		if u := s.users[id]; match(u) {
			cp := *u
			return &cp, nil
		}
	}
	return nil, domain.ErrNotFound
}

func (s *Store) ListUsers(_ context.Context) ([]*domain.User, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	users := make([]*domain.User, 0, len(s.users))
	for _, id := range sortedIDs(s.users) {
		cp := *s.users[id]
		users = append(users, &cp)
	}
	return users, nil
}

// Event operations

func copyEvent(e *domain.Event) *domain.Event {
	cp := *e
	if e.ImageURL != nil {
		img := *e.ImageURL
		cp.ImageURL = &img
	}
	return &cp
}

func (s *Store) CreateEvent(_ context.Context, e *domain.Event) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	e.ID = s.eventSeq.Add(1)
	e.CreatedAt = s.nowFunc()
	s.events[e.ID] = copyEvent(e)
	return nil
}

func (s *Store) GetEvent(_ context.Context, id int64) (*domain.Event, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	return copyEvent(e), nil
}

func (s *Store) ListEvents(_ context.Context, filter domain.EventFilter) ([]*domain.Event, error) {
	now := s.nowFunc()
	s.mu.RLock()
	defer s.mu.RUnlock()
	events := make([]*domain.Event, 0, len(s.events))
	for _, id := range sortedIDs(s.events) {
		if e := s.events[id]; filter.Matches(e, now) {
			events = append(events, copyEvent(e))
		}
	}
	return events, nil
}

func (s *Store) UpdateEvent(_ context.Context, id int64, update domain.EventUpdate) (*domain.Event, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	e, ok := s.events[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	updated := copyEvent(e)
	update.Apply(updated)
	s.events[id] = updated
	return copyEvent(updated), nil
}

func (s *Store) DeleteEvent(_ context.Context, id int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if _, ok := s.events[id]; !ok {
		return false, nil
	}
	delete(s.events, id)
	return true, nil
}

// Event registration operations

func (s *Store) RegisterForEvent(_ context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	reg := &domain.EventRegistration{
		ID:           s.registrationSeq.Add(1),
		EventID:      eventID,
		UserID:       userID,
		RegisteredAt: s.nowFunc(),
	}
	cp := *reg
	s.registrations[reg.ID] = &cp
	return reg, nil
}

func (s *Store) ListEventRegistrations(_ context.Context, eventID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(func(r *domain.EventRegistration) bool { return r.EventID == eventID }), nil
}

func (s *Store) ListUserRegistrations(_ context.Context, userID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(func(r *domain.EventRegistration) bool { return r.UserID == userID }), nil
}

func (s *Store) listRegistrations(match func(*domain.EventRegistration) bool) []*domain.EventRegistration {
	s.mu.RLock()
	defer s.mu.RUnlock()
	regs := make([]*domain.EventRegistration, 0)
	for _, id := range sortedIDs(s.registrations) {
		if r := s.registrations[id]; match(r) {
			cp := *r
			regs = append(regs, &cp)
		}
	}
	return regs
}

func (s *Store) CancelRegistration(_ context.Context, eventID, userID int64) (bool, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	for _, id := range sortedIDs(s.registrations) {
		if r := s.registrations[id]; r.EventID == eventID && r.UserID == userID {
			delete(s.registrations, id)
			return true, nil
		}
	}
	return false, nil
}

func (s *Store) IsUserRegistered(_ context.Context, eventID, userID int64) (bool, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	for _, r := range s.registrations {
		if r.EventID == eventID && r.UserID == userID {
			return true, nil
		}
	}
	return false, nil
}

// Chat operations

func (s *Store) CreateChatMessage(_ context.Context, m *domain.ChatMessage) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	m.ID = s.chatMessageSeq.Add(1)
	m.CreatedAt = s.nowFunc()
	cp := *m
	if m.UserID != nil {
		uid := *m.UserID
		cp.UserID = &uid
	}
	s.chatMessages[m.ID] = &cp
	return nil
}

func (s *Store) ListUserChatHistory(_ context.Context, userID int64) ([]*domain.ChatMessage, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	msgs := make([]*domain.ChatMessage, 0)
	for _, id := range sortedIDs(s.chatMessages) {
		m := s.chatMessages[id]
		if m.UserID == nil || *m.UserID != userID {
			continue
		}
		cp := *m
		uid := *m.UserID
		cp.UserID = &uid
		msgs = append(msgs, &cp)
	}
	sort.SliceStable(msgs, func(i, j int) bool {
		return msgs[i].CreatedAt.Before(msgs[j].CreatedAt)
	})
	return msgs, nil
}
