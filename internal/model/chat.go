package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/feed"
)

// ConversationStore defines persistence operations for conversations and
// their append-only message lists.
type ConversationStore interface {
	// GetOrCreate returns the stored conversation with conv.ID, creating it from conv if absent.
	GetOrCreate(ctx context.Context, conv Conversation) (Conversation, error)
	GetByID(ctx context.Context, id string) (Conversation, error)
	// AppendMessage stores msg and returns it with the store-assigned CreatedAt.
	AppendMessage(ctx context.Context, msg Message) (Message, error)
	ListMessages(ctx context.Context, conversationID string) ([]Message, error)
	// WatchMessages opens a live subscription delivering the full ordered
	// message list on every change, starting with the current list.
	WatchMessages(ctx context.Context, conversationID string) (*feed.Stream[Message], error)
}

// Conversation is the chat between an unordered pair of users.
type Conversation struct {
	ID           string
	Participants [2]string
	CreatedAt    time.Time
}

// HasParticipant reports whether userID takes part in the conversation.
func (c Conversation) HasParticipant(userID string) bool {
	return userID != "" && (c.Participants[0] == userID || c.Participants[1] == userID)
}

// Counterpart returns the participant that is not userID.
func (c Conversation) Counterpart(userID string) string {
	if c.Participants[0] == userID {
		return c.Participants[1]
	}
	return c.Participants[0]
}

// Message is a single immutable chat message.
type Message struct {
	ID             uuid.UUID
	ConversationID string
	SenderID       string
	Text           string
	CreatedAt      time.Time
}
