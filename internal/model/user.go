package model

import (
	"context"
	"time"
)

// UserStore defines persistence operations for user profiles.
type UserStore interface {
	GetByID(ctx context.Context, id string) (User, error)
	// Create stores user. If a user with the same ID exists, the stored one is returned unchanged.
	Create(ctx context.Context, user User) (User, error)
	ListByRole(ctx context.Context, role Role) ([]User, error)
}

// Role is the part a user plays in therapy.
type Role string

const (
	// RoleClient practices exercises assigned to them.
	RoleClient Role = "client"
	// RoleTherapist assigns exercises to clients.
	RoleTherapist Role = "therapist"
)

// Valid reports whether r is a known role.
func (r Role) Valid() bool {
	return r == RoleClient || r == RoleTherapist
}

// Counterpart returns the role a user of role r chats with.
func (r Role) Counterpart() Role {
	if r == RoleTherapist {
		return RoleClient
	}
	return RoleTherapist
}

// User represents a stored user profile. The ID is issued by the identity
// provider and is opaque to this service.
type User struct {
	ID        string
	Email     string
	Role      Role
	CreatedAt time.Time
}
