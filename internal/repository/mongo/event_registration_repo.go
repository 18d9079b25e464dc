package mongo

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type registrationDB struct {
	ID           int64     `bson:"_id"`
	EventID      int64     `bson:"event_id"`
	UserID       int64     `bson:"user_id"`
	RegisteredAt time.Time `bson:"registered_at"`
}

func (d registrationDB) toModel() *domain.EventRegistration {
	return &domain.EventRegistration{ID: d.ID, EventID: d.EventID, UserID: d.UserID, RegisteredAt: d.RegisteredAt}
}

func (s *Store) RegisterForEvent(ctx context.Context, eventID, userID int64) (*domain.EventRegistration, error) {
	id, err := s.nextID(ctx, registrationsCollection)
	if err != nil {
		return nil, err
	}
	doc := registrationDB{ID: id, EventID: eventID, UserID: userID, RegisteredAt: s.nowFunc()}
	if _, err := s.registrations.InsertOne(ctx, doc); err != nil {
		if mongo.IsDuplicateKeyError(err) {
			return nil, domain.ErrAlreadyRegistered
		}
		return nil, fmt.Errorf("insert registration: %w", err)
	}
	return doc.toModel(), nil
}

func (s *Store) ListEventRegistrations(ctx context.Context, eventID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(ctx, bson.D{{Key: "event_id", Value: eventID}})
}

func (s *Store) ListUserRegistrations(ctx context.Context, userID int64) ([]*domain.EventRegistration, error) {
	return s.listRegistrations(ctx, bson.D{{Key: "user_id", Value: userID}})
}

func (s *Store) listRegistrations(ctx context.Context, filter bson.D) ([]*domain.EventRegistration, error) {
	cursor, err := s.registrations.Find(ctx, filter, options.Find().SetSort(bson.D{{Key: "_id", Value: 1}}))
	if err != nil {
		return nil, err
	}
	var docs []registrationDB
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	regs := make([]*domain.EventRegistration, len(docs))
	for i, d := range docs {
		regs[i] = d.toModel()
	}
	return regs, nil
}

func (s *Store) CancelRegistration(ctx context.Context, eventID, userID int64) (bool, error) {
	res, err := s.registrations.DeleteOne(ctx, bson.D{{Key: "event_id", Value: eventID}, {Key: "user_id", Value: userID}})
	if err != nil {
		return false, err
	}
	return res.DeletedCount > 0, nil
}

func (s *Store) IsUserRegistered(ctx context.Context, eventID, userID int64) (bool, error) {
	n, err := s.registrations.CountDocuments(ctx,
		bson.D{{Key: "event_id", Value: eventID}, {Key: "user_id", Value: userID}},
		options.Count().SetLimit(1),
	)
	if err != nil {
		return false, err
	}
	return n > 0, nil
}
