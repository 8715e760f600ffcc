package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.ConversationStore = (*ConversationRepository)(nil)

type ConversationRepository struct {
	store *Store
}

func NewConversationRepository(store *Store) *ConversationRepository {
	return &ConversationRepository{store: store}
}

type chatDoc struct {
	Participants []string  `firestore:"participants"`
	CreatedAt    time.Time `firestore:"createdAt,serverTimestamp"`
}

type messageDoc struct {
	SenderID  string    `firestore:"senderId"`
	Text      string    `firestore:"text"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

func decodeConversation(snap *firestore.DocumentSnapshot) (model.Conversation, error) {
	var doc chatDoc
	if err := snap.DataTo(&doc); err != nil {
		return model.Conversation{}, fmt.Errorf("decode chat %s: %w", snap.Ref.ID, err)
	}
	if len(doc.Participants) != 2 {
		return model.Conversation{}, fmt.Errorf("decode chat %s: expected 2 participants, got %d", snap.Ref.ID, len(doc.Participants))
	}
	return model.Conversation{
		ID:           snap.Ref.ID,
		Participants: [2]string{doc.Participants[0], doc.Participants[1]},
		CreatedAt:    doc.CreatedAt,
	}, nil
}

func decodeMessage(conversationID string) func(*firestore.DocumentSnapshot) (model.Message, error) {
	return func(snap *firestore.DocumentSnapshot) (model.Message, error) {
		var doc messageDoc
		if err := snap.DataTo(&doc); err != nil {
			return model.Message{}, fmt.Errorf("decode message %s: %w", snap.Ref.ID, err)
		}
		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			return model.Message{}, fmt.Errorf("decode message id %q: %w", snap.Ref.ID, err)
		}
		return model.Message{
			ID:             id,
			ConversationID: conversationID,
			SenderID:       doc.SenderID,
			Text:           doc.Text,
			CreatedAt:      doc.CreatedAt,
		}, nil
	}
}

func (r *ConversationRepository) GetOrCreate(ctx context.Context, conv model.Conversation) (model.Conversation, error) {
	_, err := r.store.chatDoc(conv.ID).Create(ctx, chatDoc{
		Participants: conv.Participants[:],
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return model.Conversation{}, fmt.Errorf("firestore CreateChat: %w", mapError(err))
	}
	return r.GetByID(ctx, conv.ID)
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (model.Conversation, error) {
	snap, err := r.store.chatDoc(id).Get(ctx)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("firestore GetChat: %w", mapError(err))
	}
	return decodeConversation(snap)
}

// AppendMessage writes the message document with a server timestamp. The
// returned CreatedAt is the commit time, which is the value the server stores.
// Conversations are never deleted, so checking the parent first is enough.
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	if _, err := r.store.chatDoc(msg.ConversationID).Get(ctx); err != nil {
		return model.Message{}, fmt.Errorf("firestore AppendMessage: %w", mapError(err))
	}

	wr, err := r.store.messagesCol(msg.ConversationID).Doc(msg.ID.String()).Create(ctx, messageDoc{
		SenderID: msg.SenderID,
		Text:     msg.Text,
	})
	if err != nil {
		return model.Message{}, fmt.Errorf("firestore AppendMessage: %w", mapError(err))
	}
	msg.CreatedAt = wr.UpdateTime
	return msg, nil
}

func (r *ConversationRepository) messagesQuery(conversationID string) firestore.Query {
	return r.store.messagesCol(conversationID).
		OrderBy("createdAt", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc)
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	docs, err := r.messagesQuery(conversationID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore ListMessages: %w", mapError(err))
	}

	decode := decodeMessage(conversationID)
	messages := make([]model.Message, 0, len(docs))
	for _, snap := range docs {
		m, err := decode(snap)
		if err != nil {
			return nil, err
		}
		messages = append(messages, m)
	}
	return messages, nil
}

func (r *ConversationRepository) WatchMessages(ctx context.Context, conversationID string) (*feed.Stream[model.Message], error) {
	stream, err := listen(ctx, r.messagesQuery(conversationID), decodeMessage(conversationID))
	if err != nil {
		return nil, fmt.Errorf("firestore WatchMessages: %w", err)
	}
	return stream, nil
}
