package services

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"eventhub/internal/domain"
)

// ChatFallbackResponse is stored and returned when the completer fails.
const ChatFallbackResponse = "I'm sorry, I'm having trouble processing your request right now. Please try again later or contact support if you need immediate assistance."

const (
	chatDateLayout         = "1/2/2006"
	chatDescriptionPreview = 100
)

const chatAssistantContext = "You are an AI assistant for EventHub, an event management platform for hackathons, workshops, seminars, and conferences. " +
	"You help users with information about events, registration process, creating events, and general queries about the platform. " +
	"Keep your responses concise, helpful, and related to event management.\n\n"

type chatService struct {
	eventRepo   domain.EventRepository
	messageRepo domain.ChatMessageRepository
	completer   domain.ChatCompleter
	logger      *slog.Logger
}

// NewChatService creates a ChatService answering with completer.
func NewChatService(eventRepo domain.EventRepository, messageRepo domain.ChatMessageRepository, completer domain.ChatCompleter, logger *slog.Logger) domain.ChatService {
	return &chatService{eventRepo: eventRepo, messageRepo: messageRepo, completer: completer, logger: logger}
}

// Ask answers message and stores the exchange. A completer failure is never
// returned; ChatFallbackResponse is stored in its place.
func (s *chatService) Ask(ctx context.Context, userID *int64, message string) (*domain.ChatMessage, error) {
	if strings.TrimSpace(message) == "" {
		return nil, fmt.Errorf("%w: message is required", domain.ErrInvalidInput)
	}
	events, err := s.eventRepo.ListEvents(ctx, domain.EventFilter{})
	if err != nil {
		return nil, fmt.Errorf("list events: %w", err)
	}

	response, err := s.completer.Complete(ctx, buildChatPrompt(events, message))
	if err != nil {
		s.logger.Warn("chat completion failed, using fallback", "error", err)
		response = ChatFallbackResponse
	}

	msg := &domain.ChatMessage{UserID: userID, Message: message, Response: response}
	if err := s.messageRepo.CreateChatMessage(ctx, msg); err != nil {
		return nil, fmt.Errorf("save chat message: %w", err)
	}
	return msg, nil
}

func (s *chatService) History(ctx context.Context, userID int64) ([]*domain.ChatMessage, error) {
	return s.messageRepo.ListUserChatHistory(ctx, userID)
}

func buildChatPrompt(events []*domain.Event, message string) string {
	var b strings.Builder
	b.WriteString(chatAssistantContext)
	b.WriteString("Here are the current events on the platform:\n")
	for i, e := range events {
		fmt.Fprintf(&b, "%d. %s - A %s in %s (%s)\n", i+1, e.Title, e.Category, e.Location, chatDateInfo(e))
		fmt.Fprintf(&b, "   Description: %s...\n", preview(e.Description, chatDescriptionPreview))
	}
	b.WriteString("\n\nUser: ")
	b.WriteString(message)
	return b.String()
}

func chatDateInfo(e *domain.Event) string {
	start := e.StartDate.Format(chatDateLayout)
	end := e.EndDate.Format(chatDateLayout)
	if start == end {
		return start
	}
	return start + " - " + end
}

// preview returns the first n runes of s.
func preview(s string, n int) string {
	r := []rune(s)
	if len(r) <= n {
		return s
	}
	return string(r[:n])
}
