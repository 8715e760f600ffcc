package firestore

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"cloud.google.com/go/firestore"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	store *Store
}

func NewUserRepository(store *Store) *UserRepository {
	return &UserRepository{store: store}
}

type userDoc struct {
	Email     string    `firestore:"email"`
	Role      string    `firestore:"role"`
	CreatedAt time.Time `firestore:"createdAt,serverTimestamp"`
}

func decodeUser(snap *firestore.DocumentSnapshot) (model.User, error) {
	var doc userDoc
	if err := snap.DataTo(&doc); err != nil {
		return model.User{}, fmt.Errorf("decode user %s: %w", snap.Ref.ID, err)
	}
	return model.User{
		ID:        snap.Ref.ID,
		Email:     doc.Email,
		Role:      model.Role(doc.Role),
		CreatedAt: doc.CreatedAt,
	}, nil
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	snap, err := r.store.userDoc(id).Get(ctx)
	if err != nil {
		return model.User{}, fmt.Errorf("firestore GetUser: %w", mapError(err))
	}
	return decodeUser(snap)
}

// Create stores the user document unless it already exists and returns the
// stored profile.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	_, err := r.store.userDoc(user.ID).Create(ctx, userDoc{
		Email: user.Email,
		Role:  string(user.Role),
	})
	if err != nil && status.Code(err) != codes.AlreadyExists {
		return model.User{}, fmt.Errorf("firestore CreateUser: %w", mapError(err))
	}
	return r.GetByID(ctx, user.ID)
}

// ListByRole returns users with role ordered by email. Sorting happens here so
// the query needs no composite index.
func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	docs, err := r.store.client.Collection(usersCollection).
		Where("role", "==", string(role)).
		Documents(ctx).
		GetAll()
	if err != nil {
		return nil, fmt.Errorf("firestore ListUsers: %w", mapError(err))
	}

	users := make([]model.User, 0, len(docs))
	for _, snap := range docs {
		u, err := decodeUser(snap)
		if err != nil {
			return nil, err
		}
		users = append(users, u)
	}
	slices.SortFunc(users, func(a, b model.User) int {
		return strings.Compare(a.Email, b.Email)
	})
	return users, nil
}
