package domain

import (
	"context"
	"time"
)

// ChatMessage is one chat turn: the user's message and the assistant's response.
// UserID is nil for anonymous chats.
// swagger:model ChatMessage
type ChatMessage struct {
	ID        int64     `json:"id"`
	UserID    *int64    `json:"userId"`
	Message   string    `json:"message"`
	Response  string    `json:"response"`
	CreatedAt time.Time `json:"createdAt"`
}

// ChatMessageRepository defines storage for chat turns.
type ChatMessageRepository interface {
	CreateChatMessage(ctx context.Context, msg *ChatMessage) error
	// ListUserChatHistory returns the user's messages oldest first.
	ListUserChatHistory(ctx context.Context, userID int64) ([]*ChatMessage, error)
}

// ChatCompleter returns a free-text completion for a prompt.
type ChatCompleter interface {
	Complete(ctx context.Context, prompt string) (string, error)
}

// ChatService answers questions about the platform and its events.
type ChatService interface {
	Ask(ctx context.Context, userID *int64, message string) (*ChatMessage, error)
	History(ctx context.Context, userID int64) ([]*ChatMessage, error)
}
