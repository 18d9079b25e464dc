package postgres

import (
	"database/sql"
	"errors"
	"strings"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"

	"github.com/lib/pq"
)

// uniqueViolation is the SQLSTATE for unique_violation.
const uniqueViolation = "23505"

// Store is a domain.EventStore backed by PostgreSQL. Ids come from the SERIAL
// sequences of each table.
type Store struct {
	DB       *sql.DB
	sessions domain.SessionStore
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

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(sessions domain.SessionStore) Option {
	return func(s *Store) {
		s.sessions = sessions
	}
}

// NewStore returns a Store using db.
func NewStore(db *sql.DB, opts ...Option) *Store {
	s := &Store{DB: db, nowFunc: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	if s.sessions == nil {
		s.sessions = memory.NewSessionStore(memory.WithSessionNowFunc(s.nowFunc))
	}
	return s
}

var _ domain.EventStore = (*Store)(nil)

// SessionStore returns the login session store owned by s.
func (s *Store) SessionStore() domain.SessionStore {
	return s.sessions
}

// uniqueConstraint returns the violated constraint name if err is a unique violation.
func uniqueConstraint(err error) (string, bool) {
	var pqErr *pq.Error
	if errors.As(err, &pqErr) && pqErr.Code == uniqueViolation {
		return pqErr.Constraint, true
	}
	return "", false
}

var likeEscaper = strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)

// containsPattern builds an ILIKE pattern matching s as a literal substring.
func containsPattern(s string) string {
	return "%" + likeEscaper.Replace(s) + "%"
}
