package mongo

import (
	"context"
	"fmt"
	"time"

	"eventhub/internal/domain"

	"go.mongodb.org/mongo-driver/bson"
	"go.mongodb.org/mongo-driver/mongo/options"
)

type chatMessageDB struct {
	ID        int64     `bson:"_id"`
	UserID    *int64    `bson:"user_id"`
	Message   string    `bson:"message"`
	Response  string    `bson:"response"`
	CreatedAt time.Time `bson:"created_at"`
}

func (s *Store) CreateChatMessage(ctx context.Context, m *domain.ChatMessage) error {
	id, err := s.nextID(ctx, chatMessagesCollection)
	if err != nil {
		return err
	}
	doc := chatMessageDB{ID: id, UserID: m.UserID, Message: m.Message, Response: m.Response, CreatedAt: s.nowFunc()}
	if _, err := s.chatMessages.InsertOne(ctx, doc); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	m.ID = doc.ID
	m.CreatedAt = doc.CreatedAt
	return nil
}

// ListUserChatHistory returns the messages of userID, oldest first.
func (s *Store) ListUserChatHistory(ctx context.Context, userID int64) ([]*domain.ChatMessage, error) {
	opts := options.Find().SetSort(bson.D{{Key: "created_at", Value: 1}, {Key: "_id", Value: 1}})
	cursor, err := s.chatMessages.Find(ctx, bson.D{{Key: "user_id", Value: userID}}, opts)
	if err != nil {
		return nil, err
	}
	var docs []chatMessageDB
	if err := cursor.All(ctx, &docs); err != nil {
		return nil, err
	}
	msgs := make([]*domain.ChatMessage, len(docs))
	for i, d := range docs {
		msgs[i] = &domain.ChatMessage{ID: d.ID, UserID: d.UserID, Message: d.Message, Response: d.Response, CreatedAt: d.CreatedAt}
	}
	return msgs, nil
}
