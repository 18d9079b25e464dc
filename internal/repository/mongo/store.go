package mongo

import (
	"context"
	"errors"
	"fmt"
	"time"

	"eventhub/internal/domain"
	"eventhub/internal/repository/memory"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

// Collection names.
const (
	usersCollection         = "users"
	eventsCollection        = "events"
	registrationsCollection = "registrations"
	chatMessagesCollection  = "chat_messages"
	countersCollection      = "counters"
)

// caseInsensitive is the collation used for username and email lookups.
var caseInsensitive = &options.Collation{Locale: "en", Strength: 2}

// Store is a domain.EventStore backed by MongoDB. Integer ids come from one
// counter document per collection.
type Store struct {
	users         *mongo.Collection
	events        *mongo.Collection
	registrations *mongo.Collection
	chatMessages  *mongo.Collection
	counters      *mongo.Collection
	sessions      domain.SessionStore
	nowFunc       func() time.Time
}

// StoreArgs are the mandatory arguments for the creation of a Store.
type StoreArgs struct {
	// Database holds every collection of the store.
	Database *mongo.Database
}

// StoreOptArgs are the optional arguments for building a Store.
type StoreOptArgs = func(*Store)

// WithNowFunc can be used to override the nowFunc. Useful for testing.
func WithNowFunc(nowFunc func() time.Time) StoreOptArgs {
	return func(s *Store) {
		s.nowFunc = nowFunc
	}
}

// WithSessionStore replaces the default in-memory session store.
func WithSessionStore(sessions domain.SessionStore) StoreOptArgs {
	return func(s *Store) {
		s.sessions = sessions
	}
}

// NewStore creates a Store and ensures its indexes exist.
func NewStore(ctx context.Context, args StoreArgs, optArgs ...StoreOptArgs) (*Store, error) {
	if args.Database == nil {
		return nil, errors.New("mongo: nil database")
	}
	s := newStore(args.Database, optArgs...)
	if err := s.ensureIndexes(ctx); err != nil {
		return nil, err
	}
	return s, nil
}

// newStore builds the Store without touching the server. Date buckets are
// evaluated in the zone of nowFunc, which defaults to the local clock.
func newStore(db *mongo.Database, optArgs ...StoreOptArgs) *Store {
	s := &Store{
		users:         db.Collection(usersCollection),
		events:        db.Collection(eventsCollection),
		registrations: db.Collection(registrationsCollection),
		chatMessages:  db.Collection(chatMessagesCollection),
		counters:      db.Collection(countersCollection),
		nowFunc:       time.Now,
	}
	for _, opt := range optArgs {
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

func (s *Store) ensureIndexes(ctx context.Context) error {
	_, err := s.users.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "username", Value: 1}},
			Options: options.Index().SetName("users_username_ci").SetUnique(true).SetCollation(caseInsensitive),
		},
		{
			Keys:    bson.D{{Key: "email", Value: 1}},
			Options: options.Index().SetName("users_email_ci").SetUnique(true).SetCollation(caseInsensitive),
		},
	})
	if err != nil {
		return fmt.Errorf("create user indexes: %w", err)
	}
	_, err = s.registrations.Indexes().CreateMany(ctx, []mongo.IndexModel{
		{
			Keys:    bson.D{{Key: "event_id", Value: 1}, {Key: "user_id", Value: 1}},
			Options: options.Index().SetName("registrations_event_user").SetUnique(true),
		},
		{
			Keys: bson.D{{Key: "user_id", Value: 1}},
		},
	})
	if err != nil {
		return fmt.Errorf("create registration indexes: %w", err)
	}
	_, err = s.events.Indexes().CreateOne(ctx, mongo.IndexModel{Keys: bson.D{{Key: "start_date", Value: 1}}})
	if err != nil {
		return fmt.Errorf("create event indexes: %w", err)
	}
	_, err = s.chatMessages.Indexes().CreateOne(ctx, mongo.IndexModel{
		Keys: bson.D{{Key: "user_id", Value: 1}, {Key: "created_at", Value: 1}},
	})
	if err != nil {
		return fmt.Errorf("create chat message indexes: %w", err)
	}
	return nil
}

type counterDB struct {
	Name string `bson:"_id"`
	Seq  int64  `bson:"seq"`
}

// nextID atomically increments and returns the counter of collection.
func (s *Store) nextID(ctx context.Context, collection string) (int64, error) {
	opts := options.FindOneAndUpdate().SetUpsert(true).SetReturnDocument(options.After)
	var c counterDB
	err := s.counters.FindOneAndUpdate(ctx,
		bson.D{{Key: "_id", Value: collection}},
		bson.D{{Key: "$inc", Value: bson.D{{Key: "seq", Value: int64(1)}}}},
		opts,
	).Decode(&c)
	if err != nil {
		return 0, fmt.Errorf("next %s id: %w", collection, err)
	}
	return c.Seq, nil
}

// notFound maps mongo.ErrNoDocuments to domain.ErrNotFound.
func notFound(err error) error {
	if errors.Is(err, mongo.ErrNoDocuments) {
		return domain.ErrNotFound
	}
	return err
}
