package handler

import (
	"context"

	"google.golang.org/grpc"

	"github.com/dtroode/speechpractice-server/internal/api/grpc/wire"
	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// ChatService defines conversation operations.
type ChatService interface {
	Conversation(ctx context.Context, session model.Session, counterpartID string) (model.Conversation, error)
	Contacts(ctx context.Context, session model.Session) ([]model.User, error)
	Open(ctx context.Context, session model.Session, conversationID string) (*feed.Stream[model.Message], error)
	Send(ctx context.Context, session model.Session, conversationID, text string) (model.Message, error)
}

// Chat handles gRPC endpoints for conversations.
type Chat struct {
	chatService    ChatService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ wire.ChatServer = (*Chat)(nil)

// NewChat creates a new Chat handler.
func NewChat(chatService ChatService, contextManager model.ContextManager, logger *logger.Logger) *Chat {
	return &Chat{
		chatService:    chatService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Conversation resolves the conversation with a counterpart, creating it on first contact.
func (h *Chat) Conversation(ctx context.Context, req *wire.ConversationRequest) (*wire.Conversation, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	conv, err := h.chatService.Conversation(ctx, session, req.CounterpartID)
	if err != nil {
		h.logger.Error("Chat handler: resolve conversation failed",
			"user_id", session.UserID,
			"counterpart_id", req.CounterpartID,
			"error", err.Error())
		return nil, handleError(err)
	}

	return toWireConversation(conv), nil
}

// Contacts lists the users the caller can talk to.
func (h *Chat) Contacts(ctx context.Context, _ *wire.Empty) (*wire.Users, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	users, err := h.chatService.Contacts(ctx, session)
	if err != nil {
		return nil, handleError(err)
	}

	return toWireUsers(users), nil
}

// Send appends a message to a conversation.
func (h *Chat) Send(ctx context.Context, req *wire.SendRequest) (*wire.Message, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	msg, err := h.chatService.Send(ctx, session, req.ConversationID, req.Text)
	if err != nil {
		h.logger.Warn("Chat handler: send failed",
			"user_id", session.UserID,
			"conversation_id", req.ConversationID,
			"error", err.Error())
		return nil, handleError(err)
	}

	out := toWireMessage(msg)
	return &out, nil
}

// Watch streams the conversation's message list until the client cancels.
func (h *Chat) Watch(req *wire.WatchMessagesRequest, stream grpc.ServerStreamingServer[wire.MessagesSnapshot]) error {
	ctx := stream.Context()
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return err
	}

	sub, err := h.chatService.Open(ctx, session, req.ConversationID)
	if err != nil {
		return handleError(err)
	}

	h.logger.Debug("Chat handler: watching conversation",
		"user_id", session.UserID,
		"conversation_id", req.ConversationID)

	return forward(ctx, sub, toWireMessages, stream.Send)
}
