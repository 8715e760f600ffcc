package memory

import (
	"context"
	"sync"
	"time"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.ConversationStore = (*ConversationRepository)(nil)

// ConversationRepository is an in-memory ConversationStore.
// It is not persistent and is meant for development and tests.
type ConversationRepository struct {
	mu            sync.RWMutex
	conversations map[string]model.Conversation
	messages      map[string][]model.Message
	watchers      *hub[model.Message]
	now           func() time.Time
}

// NewConversationRepository creates an empty in-memory ConversationStore.
func NewConversationRepository() *ConversationRepository {
	return &ConversationRepository{
		conversations: make(map[string]model.Conversation),
		messages:      make(map[string][]model.Message),
		watchers:      newHub[model.Message](),
		now:           time.Now,
	}
}

// GetOrCreate returns the conversation with conv.ID, storing conv if it is new.
func (r *ConversationRepository) GetOrCreate(_ context.Context, conv model.Conversation) (model.Conversation, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.conversations[conv.ID]; ok {
		return existing, nil
	}

	conv.CreatedAt = r.now().UTC()
	r.conversations[conv.ID] = conv

	return conv, nil
}

// GetByID returns the conversation or model.ErrNotFound.
func (r *ConversationRepository) GetByID(_ context.Context, id string) (model.Conversation, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	conv, ok := r.conversations[id]
	if !ok {
		return model.Conversation{}, model.ErrNotFound
	}
	return conv, nil
}

// AppendMessage stores msg with a server timestamp strictly after the previous message.
func (r *ConversationRepository) AppendMessage(_ context.Context, msg model.Message) (model.Message, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, ok := r.conversations[msg.ConversationID]; !ok {
		return model.Message{}, model.ErrNotFound
	}

	list := r.messages[msg.ConversationID]
	msg.CreatedAt = r.now().UTC()
	if n := len(list); n > 0 && !msg.CreatedAt.After(list[n-1].CreatedAt) {
		msg.CreatedAt = list[n-1].CreatedAt.Add(time.Microsecond)
	}

	// append to a fresh slice so snapshots already handed out stay untouched
	next := make([]model.Message, len(list), len(list)+1)
	copy(next, list)
	next = append(next, msg)
	r.messages[msg.ConversationID] = next
	r.watchers.publish(msg.ConversationID, next)

	return msg, nil
}

// ListMessages returns the conversation's messages, oldest first.
func (r *ConversationRepository) ListMessages(_ context.Context, conversationID string) ([]model.Message, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	return cloneMessages(r.messages[conversationID]), nil
}

// WatchMessages subscribes to the conversation's message list.
func (r *ConversationRepository) WatchMessages(ctx context.Context, conversationID string) (*feed.Stream[model.Message], error) {
	r.mu.RLock()
	initial := r.messages[conversationID]
	if initial == nil {
		initial = []model.Message{}
	}
	stream := r.watchers.subscribe(conversationID, initial)
	r.mu.RUnlock()

	stream.CloseWhen(ctx)

	return stream, nil
}

// Watchers returns the number of open subscriptions on a conversation.
func (r *ConversationRepository) Watchers(conversationID string) int {
	return r.watchers.count(conversationID)
}

func cloneMessages(in []model.Message) []model.Message {
	out := make([]model.Message, len(in))
	copy(out, in)
	return out
}
