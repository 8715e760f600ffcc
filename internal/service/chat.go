package service

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/chatid"
	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/metrics"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// SendLimiter decides whether a user may send another message now.
type SendLimiter interface {
	Allow(key string) bool
}

// Chat is the conversation service: it derives conversation ids, opens live
// message subscriptions and appends messages.
type Chat struct {
	conversations model.ConversationStore
	users         model.UserStore
	limiter       SendLimiter
	metrics       *metrics.Metrics
	logger        *logger.Logger
}

// NewChat creates a Chat service. limiter and m may be nil.
func NewChat(
	conversations model.ConversationStore,
	users model.UserStore,
	limiter SendLimiter,
	m *metrics.Metrics,
	logger *logger.Logger,
) *Chat {
	return &Chat{
		conversations: conversations,
		users:         users,
		limiter:       limiter,
		metrics:       m,
		logger:        logger,
	}
}

// Conversation returns the conversation between the caller and counterpartID,
// creating it on first contact.
func (s *Chat) Conversation(ctx context.Context, session model.Session, counterpartID string) (model.Conversation, error) {
	if err := session.Validate(); err != nil {
		return model.Conversation{}, err
	}
	if counterpartID == "" {
		return model.Conversation{}, model.NewValidationError("counterpart_id", "is required")
	}
	if counterpartID == session.UserID {
		return model.Conversation{}, model.NewValidationError("counterpart_id", "must differ from the caller")
	}

	if _, err := s.users.GetByID(ctx, counterpartID); err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get counterpart: %w", err)
	}

	first, second := chatid.Participants(session.UserID, counterpartID)
	conv, err := s.conversations.GetOrCreate(ctx, model.Conversation{
		ID:           chatid.Canonical(first, second),
		Participants: [2]string{first, second},
	})
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get or create conversation: %w", err)
	}

	s.logger.Debug("Chat service: conversation resolved",
		"conversation_id", conv.ID,
		"user_id", session.UserID)

	return conv, nil
}

// Contacts lists the users the caller may chat with: therapists for clients
// and clients for therapists.
func (s *Chat) Contacts(ctx context.Context, session model.Session) ([]model.User, error) {
	if err := session.Validate(); err != nil {
		return nil, err
	}

	users, err := s.users.ListByRole(ctx, session.Role.Counterpart())
	if err != nil {
		return nil, fmt.Errorf("failed to list contacts: %w", err)
	}
	return users, nil
}

// Open starts a live subscription to the conversation's ordered message list.
// The caller must Close the returned stream; it also closes when ctx ends.
func (s *Chat) Open(ctx context.Context, session model.Session, conversationID string) (*feed.Stream[model.Message], error) {
	if _, err := s.authorize(ctx, session, conversationID); err != nil {
		return nil, err
	}

	stream, err := s.conversations.WatchMessages(ctx, conversationID)
	if err != nil {
		return nil, fmt.Errorf("failed to watch messages: %w", err)
	}
	stream.OnClose(s.metrics.SubscriptionOpened("chat"))

	s.logger.Info("Chat service: subscription opened",
		"conversation_id", conversationID,
		"user_id", session.UserID)

	return stream, nil
}

// Send appends text from the caller. Blank text returns model.ErrEmptyMessage
// and stores nothing. Sends are not deduplicated.
func (s *Chat) Send(ctx context.Context, session model.Session, conversationID, text string) (model.Message, error) {
	if strings.TrimSpace(text) == "" {
		return model.Message{}, model.ErrEmptyMessage
	}

	if _, err := s.authorize(ctx, session, conversationID); err != nil {
		return model.Message{}, err
	}

	if s.limiter != nil && !s.limiter.Allow(session.UserID) {
		return model.Message{}, model.ErrRateLimited
	}

	msg, err := s.conversations.AppendMessage(ctx, model.Message{
		ID:             uuid.New(),
		ConversationID: conversationID,
		SenderID:       session.UserID,
		Text:           text,
	})
	if err != nil {
		s.logger.Error("Chat service: failed to append message",
			"conversation_id", conversationID,
			"user_id", session.UserID,
			"retryable", model.IsRetryable(err),
			"error", err)
		return model.Message{}, fmt.Errorf("failed to append message: %w", err)
	}

	s.metrics.MessageSent()
	s.logger.Debug("Chat service: message sent",
		"conversation_id", conversationID,
		"message_id", msg.ID)

	return msg, nil
}

// authorize checks that the caller is a participant of the conversation.
func (s *Chat) authorize(ctx context.Context, session model.Session, conversationID string) (model.Conversation, error) {
	if err := session.Validate(); err != nil {
		return model.Conversation{}, err
	}
	if conversationID == "" {
		return model.Conversation{}, model.NewValidationError("conversation_id", "is required")
	}

	conv, err := s.conversations.GetByID(ctx, conversationID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.Conversation{}, err
		}
		return model.Conversation{}, fmt.Errorf("failed to get conversation: %w", err)
	}

	if !conv.HasParticipant(session.UserID) {
		s.logger.Warn("Chat service: access denied",
			"conversation_id", conversationID,
			"user_id", session.UserID)
		return model.Conversation{}, model.ErrPermissionDenied
	}

	return conv, nil
}
