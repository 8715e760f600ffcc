package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/Masterminds/squirrel"
	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.ConversationStore = (*ConversationRepository)(nil)

type ConversationRepository struct {
	db       Querier
	notifier *Notifier
}

func NewConversationRepository(db Querier, notifier *Notifier) *ConversationRepository {
	return &ConversationRepository{
		db:       db,
		notifier: notifier,
	}
}

type messageRow struct {
	ID             uuid.UUID `db:"id"`
	ConversationID string    `db:"conversation_id"`
	SenderID       string    `db:"sender_id"`
	Text           string    `db:"text"`
	CreatedAt      time.Time `db:"created_at"`
}

func (r messageRow) toModel() model.Message {
	return model.Message{
		ID:             r.ID,
		ConversationID: r.ConversationID,
		SenderID:       r.SenderID,
		Text:           r.Text,
		CreatedAt:      r.CreatedAt,
	}
}

// GetOrCreate inserts the conversation if its id is new. Concurrent callers
// for the same pair all receive the single stored row.
func (r *ConversationRepository) GetOrCreate(ctx context.Context, conv model.Conversation) (model.Conversation, error) {
	query := `INSERT INTO conversations (id, participant_a, participant_b) VALUES ($1, $2, $3)
			  ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
			  RETURNING id, participant_a, participant_b, created_at`

	var saved model.Conversation
	err := r.db.QueryRow(ctx, query, conv.ID, conv.Participants[0], conv.Participants[1]).
		Scan(&saved.ID, &saved.Participants[0], &saved.Participants[1], &saved.CreatedAt)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get or create conversation: %w", mapError(err))
	}

	return saved, nil
}

func (r *ConversationRepository) GetByID(ctx context.Context, id string) (model.Conversation, error) {
	query := `SELECT id, participant_a, participant_b, created_at FROM conversations WHERE id = $1`

	var conv model.Conversation
	err := r.db.QueryRow(ctx, query, id).
		Scan(&conv.ID, &conv.Participants[0], &conv.Participants[1], &conv.CreatedAt)
	if err != nil {
		return model.Conversation{}, fmt.Errorf("failed to get conversation by id: %w", mapError(err))
	}

	return conv, nil
}

// AppendMessage stores msg with a database-assigned timestamp.
func (r *ConversationRepository) AppendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	query := `INSERT INTO messages (id, conversation_id, sender_id, text) VALUES ($1, $2, $3, $4)
			  RETURNING created_at`

	err := r.db.QueryRow(ctx, query, msg.ID, msg.ConversationID, msg.SenderID, msg.Text).Scan(&msg.CreatedAt)
	if err != nil {
		return model.Message{}, fmt.Errorf("failed to append message: %w", mapError(err))
	}

	return msg, nil
}

func (r *ConversationRepository) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	query, args, err := psql.
		Select("id", "conversation_id", "sender_id", "text", "created_at").
		From("messages").
		Where(squirrel.Eq{"conversation_id": conversationID}).
		OrderBy("created_at ASC", "seq ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build messages query: %w", err)
	}

	var rows []messageRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list messages: %w", mapError(err))
	}

	messages := make([]model.Message, 0, len(rows))
	for _, row := range rows {
		messages = append(messages, row.toModel())
	}
	return messages, nil
}

func (r *ConversationRepository) WatchMessages(ctx context.Context, conversationID string) (*feed.Stream[model.Message], error) {
	stream, err := watch(ctx, r.notifier, ChannelMessages, conversationID, func(ctx context.Context) ([]model.Message, error) {
		return r.ListMessages(ctx, conversationID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch messages: %w", err)
	}
	return stream, nil
}
