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

var _ model.AssignmentStore = (*AssignmentRepository)(nil)

type AssignmentRepository struct {
	db       Querier
	notifier *Notifier
}

func NewAssignmentRepository(db Querier, notifier *Notifier) *AssignmentRepository {
	return &AssignmentRepository{
		db:       db,
		notifier: notifier,
	}
}

var assignmentColumns = []string{
	"id", "owner_id", "created_by", "title", "description",
	"video_url", "feedback", "target_words", "created_at",
}

type assignmentRow struct {
	ID          uuid.UUID `db:"id"`
	OwnerID     string    `db:"owner_id"`
	CreatedBy   string    `db:"created_by"`
	Title       string    `db:"title"`
	Description string    `db:"description"`
	VideoURL    string    `db:"video_url"`
	Feedback    string    `db:"feedback"`
	TargetWords []string  `db:"target_words"`
	CreatedAt   time.Time `db:"created_at"`
}

func (r assignmentRow) toModel() model.Assignment {
	return model.Assignment{
		ID:          r.ID,
		OwnerID:     r.OwnerID,
		CreatedBy:   r.CreatedBy,
		Title:       r.Title,
		Description: r.Description,
		VideoURL:    r.VideoURL,
		Feedback:    r.Feedback,
		TargetWords: r.TargetWords,
		CreatedAt:   r.CreatedAt,
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	targetWords := a.TargetWords
	if targetWords == nil {
		targetWords = []string{}
	}

	query, args, err := psql.
		Insert("assignments").
		Columns("id", "owner_id", "created_by", "title", "description", "video_url", "feedback", "target_words").
		Values(a.ID, a.OwnerID, a.CreatedBy, a.Title, a.Description, a.VideoURL, a.Feedback, targetWords).
		Suffix("RETURNING created_at").
		ToSql()
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to build insert query: %w", err)
	}

	if err := r.db.QueryRow(ctx, query, args...).Scan(&a.CreatedAt); err != nil {
		return model.Assignment{}, fmt.Errorf("failed to create assignment: %w", mapError(err))
	}
	a.TargetWords = targetWords

	return a, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (model.Assignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("assignments").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to build select query: %w", err)
	}

	var row assignmentRow
	if err := pgxscan.Get(ctx, r.db, &row, query, args...); err != nil {
		return model.Assignment{}, fmt.Errorf("failed to get assignment: %w", mapError(err))
	}

	return row.toModel(), nil
}

func (r *AssignmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Assignment, error) {
	query, args, err := psql.
		Select(assignmentColumns...).
		From("assignments").
		Where(squirrel.Eq{"owner_id": ownerID}).
		OrderBy("created_at ASC", "id ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build select query: %w", err)
	}

	var rows []assignmentRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list assignments: %w", mapError(err))
	}

	assignments := make([]model.Assignment, 0, len(rows))
	for _, row := range rows {
		assignments = append(assignments, row.toModel())
	}
	return assignments, nil
}

func (r *AssignmentRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	query, args, err := psql.
		Delete("assignments").
		Where(squirrel.Eq{"owner_id": ownerID, "id": id}).
		ToSql()
	if err != nil {
		return fmt.Errorf("failed to build delete query: %w", err)
	}

	tag, err := r.db.Exec(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("failed to delete assignment: %w", mapError(err))
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("failed to delete assignment: %w", model.ErrNotFound)
	}

	return nil
}

func (r *AssignmentRepository) WatchByOwner(ctx context.Context, ownerID string) (*feed.Stream[model.Assignment], error) {
	stream, err := watch(ctx, r.notifier, ChannelAssignments, ownerID, func(ctx context.Context) ([]model.Assignment, error) {
		return r.ListByOwner(ctx, ownerID)
	})
	if err != nil {
		return nil, fmt.Errorf("failed to watch assignments: %w", err)
	}
	return stream, nil
}
