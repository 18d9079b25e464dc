package mongo

import (
	"context"
	"fmt"
	"strings"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type userDB struct {
	ID        int64     `bson:"_id"`
	Username  string    `bson:"username"`
	Email     string    `bson:"email"`
	Password  string    `bson:"password"`
	FirstName string    `bson:"first_name"`
	LastName  string    `bson:"last_name"`
	Role      string    `bson:"role"`
	CreatedAt time.Time `bson:"created_at"`
}

func (d userDB) toModel() *domain.User {
	return &domain.User{
		ID:        d.ID,
		Username:  d.Username,
		Email:     d.Email,
		Password:  d.Password,
		FirstName: d.FirstName,
		LastName:  d.LastName,
		Role:      domain.Role(d.Role),
		CreatedAt: d.CreatedAt,
	}
}

// CreateUser inserts u. Duplicate usernames or emails (case-insensitive) are
// rejected by the collated unique indexes.
func (s *Store) CreateUser(ctx context.Context, u *domain.User) error {
	id, err := s.nextID(ctx, usersCollection)
	if err != nil {
		return err
	}
	doc := userDB{
		ID:        id,
		Username:  u.Username,
		Email:     u.Email,
		Password:  u.Password,
		FirstName: u.FirstName,
		LastName:  u.LastName,
		Role:      string(u.Role),
		CreatedAt: s.nowFunc(),
	}
	if _, err := s.users.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			if strings.Contains(err.Error(), "users_email_ci") {
				return domain.ErrDuplicateEmail
			}
			return domain.ErrDuplicateUsername
		}
		return fmt.Errorf("insert user: %w", err)
	}
	u.ID = doc.ID
	u.CreatedAt = doc.CreatedAt
	return nil
}

func (s *Store) GetUser(ctx context.Context, id int64) (*domain.User, error) {
	return s.findUser(ctx, bson.D{{Key: "_id", Value: id}})
}

func (s *Store) GetUserByUsername(ctx context.Context, username string) (*domain.User, error) {
	return s.findUser(ctx, bson.D{{Key: "username", Value: username}})
}

func (s *Store) GetUserByEmail(ctx context.Context, email string) (*domain.User, error) {
	return s.findUser(ctx, bson.D{{Key: "email", Value: email}})
}

func (s *Store) findUser(ctx context.Context, filter bson.D) (*domain.User, error) {
	opts := options.FindOne().SetCollation(caseInsensitive).SetSort(bson.D{{Key: "_id", Value: 1}})
	var doc userDB
	if err := s.users.FindOne(ctx, filter, opts).Decode(&doc); err != nil {
		return nil, notFound(err)
	}
	return doc.toModel(), nil
}

func (s *Store) ListUsers(ctx context.Context) ([]*domain.User, error) {
	cursor, err := s.users.Find(ctx, bson.D{}, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []userDB
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	users := make([]*domain.User, len(docs))
	for i, d := range docs {
		users[i] = d.toModel()
	}
	return users, nil
}
