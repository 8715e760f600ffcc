package memory

import (
	"context"
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.AssignmentStore = (*AssignmentRepository)(nil)

// AssignmentRepository is an in-memory AssignmentStore keyed by owner.
type AssignmentRepository struct {
	mu       sync.RWMutex
	byOwner  map[string][]model.Assignment
	watchers *hub[model.Assignment]
	now      func() time.Time
}

// NewAssignmentRepository creates an empty in-memory AssignmentStore.
func NewAssignmentRepository() *AssignmentRepository {
	return &AssignmentRepository{
		byOwner:  make(map[string][]model.Assignment),
		watchers: newHub[model.Assignment](),
		now:      time.Now,
	}
}

// Create stores the assignment under its owner.
func (r *AssignmentRepository) Create(_ context.Context, assignment model.Assignment) (model.Assignment, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if assignment.ID == uuid.Nil {
		assignment.ID = uuid.New()
	}
	assignment.CreatedAt = r.now().UTC()
	assignment.TargetWords = append([]string(nil), assignment.TargetWords...)

	list := r.byOwner[assignment.OwnerID]
	next := make([]model.Assignment, len(list), len(list)+1)
	copy(next, list)
	next = append(next, assignment)

	r.byOwner[assignment.OwnerID] = next
	r.watchers.publish(assignment.OwnerID, next)

	return assignment, nil
}

// GetByID returns one of the owner's assignments or model.ErrNotFound.
func (r *AssignmentRepository) GetByID(_ context.Context, ownerID string, id uuid.UUID) (model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	for _, a := range r.byOwner[ownerID] {
		if a.ID == id {
			return a, nil
		}
	}
	return model.Assignment{}, model.ErrNotFound
}

// ListByOwner returns the owner's assignments, oldest first.
func (r *AssignmentRepository) ListByOwner(_ context.Context, ownerID string) ([]model.Assignment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	list := r.byOwner[ownerID]
	out := make([]model.Assignment, len(list))
	copy(out, list)
	return out, nil
}

// Delete removes the assignment permanently.
func (r *AssignmentRepository) Delete(_ context.Context, ownerID string, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	list := r.byOwner[ownerID]
	next := make([]model.Assignment, 0, len(list))
	for _, a := range list {
		if a.ID != id {
			next = append(next, a)
		}
	}
	if len(next) == len(list) {
		return model.ErrNotFound
	}

	r.byOwner[ownerID] = next
	r.watchers.publish(ownerID, next)

	return nil
}

// WatchByOwner subscribes to the owner's assignment list.
func (r *AssignmentRepository) WatchByOwner(ctx context.Context, ownerID string) (*feed.Stream[model.Assignment], error) {
	r.mu.RLock()
	initial := r.byOwner[ownerID]
	if initial == nil {
		initial = []model.Assignment{}
	}
	stream := r.watchers.subscribe(ownerID, initial)
	r.mu.RUnlock()

	stream.CloseWhen(ctx)

	return stream, nil
}
