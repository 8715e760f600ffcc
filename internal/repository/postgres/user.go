package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/georgysavva/scany/v2/pgxscan"
	"github.com/Masterminds/squirrel"

	"github.com/dtroode/speechpractice-server/internal/model"
)

var _ model.UserStore = (*UserRepository)(nil)

type UserRepository struct {
	db Querier
}

func NewUserRepository(db Querier) *UserRepository {
	return &UserRepository{
		db: db,
	}
}

type userRow struct {
	ID        string    `db:"id"`
	Email     string    `db:"email"`
	Role      string    `db:"role"`
	CreatedAt time.Time `db:"created_at"`
}

func (r userRow) toModel() model.User {
	return model.User{ID: r.ID, Email: r.Email, Role: model.Role(r.Role), CreatedAt: r.CreatedAt}
}

func (r *UserRepository) GetByID(ctx context.Context, id string) (model.User, error) {
	var user model.User
	var role string
	query := `SELECT id, email, role, created_at FROM users WHERE id = $1`

	err := r.db.QueryRow(ctx, query, id).Scan(&user.ID, &user.Email, &role, &user.CreatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user by id: %w", mapError(err))
	}
	user.Role = model.Role(role)

	return user, nil
}

// Create inserts the user unless the id is taken and returns the stored row.
func (r *UserRepository) Create(ctx context.Context, user model.User) (model.User, error) {
	query := `INSERT INTO users (id, email, role) VALUES ($1, $2, $3)
			  ON CONFLICT (id) DO UPDATE SET id = EXCLUDED.id
			  RETURNING id, email, role, created_at`

	var saved model.User
	var role string
	err := r.db.QueryRow(ctx, query, user.ID, user.Email, string(user.Role)).
		Scan(&saved.ID, &saved.Email, &role, &saved.CreatedAt)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", mapError(err))
	}
	saved.Role = model.Role(role)

	return saved, nil
}

func (r *UserRepository) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	query, args, err := psql.
		Select("id", "email", "role", "created_at").
		From("users").
		Where(squirrel.Eq{"role": string(role)}).
		OrderBy("email ASC").
		ToSql()
	if err != nil {
		return nil, fmt.Errorf("failed to build users query: %w", err)
	}

	var rows []userRow
	if err := pgxscan.Select(ctx, r.db, &rows, query, args...); err != nil {
		return nil, fmt.Errorf("failed to list users: %w", mapError(err))
	}

	users := make([]model.User, 0, len(rows))
	for _, row := range rows {
		users = append(users, row.toModel())
	}
	return users, nil
}
