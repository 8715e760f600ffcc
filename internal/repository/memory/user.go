package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

// UserRepository is an in-memory UserStore.
type UserRepository struct {
	mu    sync.RWMutex
	users map[string]model.User
}

// NewUserRepository creates a UserStore holding the given users.
func NewUserRepository(users ...model.User) *UserRepository {
	r := &UserRepository{users: make(map[string]model.User, len(users))}
	for _, u := range users {
		r.users[u.ID] = u
	}
	return r
}

func (r *UserRepository) GetByID(_ context.Context, id string) (model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	u, ok := r.users[id]
	if !ok {
		return model.User{}, model.ErrNotFound
	}
	return u, nil
}

// Create stores a new user. An existing user is returned unchanged.
func (r *UserRepository) Create(_ context.Context, user model.User) (model.User, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	if existing, ok := r.users[user.ID]; ok {
		return existing, nil
	}
	if user.CreatedAt.IsZero() {
		user.CreatedAt = time.Now().UTC()
	}
	r.users[user.ID] = user

	return user, nil
}

// ListByRole returns users with role, ordered by email.
func (r *UserRepository) ListByRole(_ context.Context, role model.Role) ([]model.User, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	out := make([]model.User, 0)
	for _, u := range r.users {
		if u.Role == role {
			out = append(out, u)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Email < out[j].Email })

	return out, nil
}
