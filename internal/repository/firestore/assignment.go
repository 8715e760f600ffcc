package firestore

import (
	"context"
	"fmt"
	"time"

	"cloud.google.com/go/firestore"
	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.AssignmentStore = (*AssignmentRepository)(nil)

type AssignmentRepository struct {
	store *Store
}

func NewAssignmentRepository(store *Store) *AssignmentRepository {
	return &AssignmentRepository{store: store}
}

type assignmentDoc struct {
	CreatedBy   string    `firestore:"createdBy"`
	Title       string    `firestore:"title"`
	Description string    `firestore:"description"`
	VideoURL    string    `firestore:"videoUrl"`
	Feedback    string    `firestore:"feedback"`
	TargetWords []string  `firestore:"targetWords"`
	CreatedAt   time.Time `firestore:"createdAt,serverTimestamp"`
}

func decodeAssignment(ownerID string) func(*firestore.DocumentSnapshot) (model.Assignment, error) {
	return func(snap *firestore.DocumentSnapshot) (model.Assignment, error) {
		var doc assignmentDoc
		if err := snap.DataTo(&doc); err != nil {
			return model.Assignment{}, fmt.Errorf("decode assignment %s: %w", snap.Ref.ID, err)
		}
		id, err := uuid.Parse(snap.Ref.ID)
		if err != nil {
			return model.Assignment{}, fmt.Errorf("decode assignment id %q: %w", snap.Ref.ID, err)
		}
		targetWords := doc.TargetWords
		if targetWords == nil {
			targetWords = []string{}
		}
		return model.Assignment{
			ID:          id,
			OwnerID:     ownerID,
			CreatedBy:   doc.CreatedBy,
			Title:       doc.Title,
			Description: doc.Description,
			VideoURL:    doc.VideoURL,
			Feedback:    doc.Feedback,
			TargetWords: targetWords,
			CreatedAt:   doc.CreatedAt,
		}, nil
	}
}

func (r *AssignmentRepository) Create(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	if a.TargetWords == nil {
		a.TargetWords = []string{}
	}
	wr, err := r.store.assignmentsCol(a.OwnerID).Doc(a.ID.String()).Create(ctx, assignmentDoc{
		CreatedBy:   a.CreatedBy,
		Title:       a.Title,
		Description: a.Description,
		VideoURL:    a.VideoURL,
		Feedback:    a.Feedback,
		TargetWords: a.TargetWords,
	})
	if err != nil {
		return model.Assignment{}, fmt.Errorf("firestore CreateAssignment: %w", mapError(err))
	}
	a.CreatedAt = wr.UpdateTime
	return a, nil
}

func (r *AssignmentRepository) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (model.Assignment, error) {
	snap, err := r.store.assignmentsCol(ownerID).Doc(id.String()).Get(ctx)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("firestore GetAssignment: %w", mapError(err))
	}
	return decodeAssignment(ownerID)(snap)
}

func (r *AssignmentRepository) ownerQuery(ownerID string) firestore.Query {
	return r.store.assignmentsCol(ownerID).
		OrderBy("createdAt", firestore.Asc).
		OrderBy(firestore.DocumentID, firestore.Asc)
}

func (r *AssignmentRepository) ListByOwner(ctx context.Context, ownerID string) ([]model.Assignment, error) {
	docs, err := r.ownerQuery(ownerID).Documents(ctx).GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore ListAssignments: %w", mapError(err))
	}

	decode := decodeAssignment(ownerID)
	assignments := make([]model.Assignment, 0, len(docs))
	for _, snap := range docs {
		a, err := decode(snap)
		if err != nil {
			return nil, err
		}
		assignments = append(assignments, a)
	}
	return assignments, nil
}

// Delete removes the assignment. A missing document yields model.ErrNotFound.
func (r *AssignmentRepository) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	_, err := r.store.assignmentsCol(ownerID).Doc(id.String()).Delete(ctx, firestore.Exists)
	if err != nil {
		return fmt.Errorf("firestore DeleteAssignment: %w", mapError(err))
	}
	return nil
}

func (r *AssignmentRepository) WatchByOwner(ctx context.Context, ownerID string) (*feed.Stream[model.Assignment], error) {
	stream, err := listen(ctx, r.ownerQuery(ownerID), decodeAssignment(ownerID))
	if err != nil {
		return nil, fmt.Errorf("firestore WatchAssignments: %w", err)
	}
	return stream, nil
}
