package memory

import (
	"context"
	"log/slog"
	"sync"
	"time"

	"eventhub/internal/domain"
)

// SessionStore keeps login sessions in memory until they expire.
type SessionStore struct {
	mu       sync.Mutex
	sessions map[string]*domain.Session
	nowFunc  func() time.Time
}

// SessionOption configures a SessionStore.
type SessionOption func(*SessionStore)

// WithSessionNowFunc overrides the clock used for expiry checks.
func WithSessionNowFunc(nowFunc func() time.Time) SessionOption {
	return func(s *SessionStore) {
		s.nowFunc = nowFunc
	}
}

// NewSessionStore returns an empty SessionStore.
func NewSessionStore(opts ...SessionOption) *SessionStore {
	s := &SessionStore{
		sessions: make(map[string]*domain.Session),
		nowFunc:  time.Now,
	}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

var _ domain.SessionStore = (*SessionStore)(nil)

func (s *SessionStore) Create(_ context.Context, sess *domain.Session) error {
	if sess == nil || sess.ID == "" {
		return domain.ErrInvalidInput
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	cp := *sess
	s.sessions[sess.ID] = &cp
	return nil
}

func (s *SessionStore) Get(_ context.Context, id string) (*domain.Session, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	sess, ok := s.sessions[id]
	if !ok {
		return nil, domain.ErrNotFound
	}
	if sess.Expired(s.nowFunc()) {
		delete(s.sessions, id)
		return nil, domain.ErrNotFound
	}
	cp := *sess
	return &cp, nil
}

func (s *SessionStore) Delete(_ context.Context, id string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.sessions, id)
	return nil
}

func (s *SessionStore) Prune(now time.Time) int {
	s.mu.Lock()
	defer s.mu.Unlock()
	n := 0
	for id, sess := range s.sessions {
		if sess.Expired(now) {
			delete(s.sessions, id)
			n++
		}
	}
	return n
}

// Len returns the number of stored sessions, expired ones included.
func (s *SessionStore) Len() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.sessions)
}

// RunPruner removes expired sessions every period until ctx is done.
func RunPruner(ctx context.Context, store domain.SessionStore, period time.Duration, logger *slog.Logger) {
	ticker := time.NewTicker(period)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case now := <-ticker.C:
			if n := store.Prune(now); n > 0 {
				logger.Debug("pruned expired sessions", "count", n)
			}
		}
	}
}
