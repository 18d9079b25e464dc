package postgres

import (
	"context"
	"database/sql"
	"fmt"

	"eventhub/internal/domain"
)

func (s *Store) CreateChatMessage(ctx context.Context, m *domain.ChatMessage) error {
	query := `
		INSERT INTO chat_messages (user_id, message, response, created_at)
		VALUES ($1, $2, $3, $4)
		RETURNING id
	`
	var userID sql.NullInt64
	if m.UserID != nil {
		userID = sql.NullInt64{Int64: *m.UserID, Valid: true}
	}
	createdAt := s.nowFunc()
	if err := s.DB.QueryRowContext(ctx, query, userID, m.Message, m.Response, createdAt).Scan(&m.ID); err != nil {
		return fmt.Errorf("insert chat message: %w", err)
	}
	m.CreatedAt = createdAt
	return nil
}

func (s *Store) ListUserChatHistory(ctx context.Context, userID int64) ([]*domain.ChatMessage, error) {
	query := `
		SELECT id, user_id, message, response, created_at
		FROM chat_messages
		WHERE user_id = $1
		ORDER BY created_at ASC, id ASC
	`
	rows, err := s.DB.QueryContext(ctx, query, userID)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	msgs := make([]*domain.ChatMessage, 0)
	for rows.Next() {
		m := &domain.ChatMessage{}
		var uid sql.NullInt64
		var response sql.NullString
		if err := rows.Scan(&m.ID, &uid, &m.Message, &response, &m.CreatedAt); err != nil {
			return nil, err
		}
		if uid.Valid {
			v := uid.Int64
			m.UserID = &v
		}
		m.Response = response.String
		msgs = append(msgs, m)
	}
	return msgs, rows.Err()
}
