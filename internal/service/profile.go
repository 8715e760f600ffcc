package service

import (
	"context"
	"fmt"

	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// Profile manages the caller's user record.
type Profile struct {
	users  model.UserStore
	logger *logger.Logger
}

// NewProfile creates a Profile service.
func NewProfile(users model.UserStore, logger *logger.Logger) *Profile {
	return &Profile{users: users, logger: logger}
}

// Register stores the caller's profile from the session. Registering again is
// a no-op, but the role can never change.
func (s *Profile) Register(ctx context.Context, session model.Session) (model.User, error) {
	if err := session.Validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.users.Create(ctx, model.User{
		ID:    session.UserID,
		Email: session.Email,
		Role:  session.Role,
	})
	if err != nil {
		return model.User{}, fmt.Errorf("failed to create user: %w", err)
	}
	if user.Role != session.Role {
		s.logger.Warn("Profile service: role change rejected",
			"user_id", session.UserID,
			"stored_role", user.Role,
			"requested_role", session.Role)
		return model.User{}, model.ErrPermissionDenied
	}

	s.logger.Info("Profile service: user registered",
		"user_id", user.ID,
		"role", user.Role)

	return user, nil
}

// Me returns the caller's stored profile.
func (s *Profile) Me(ctx context.Context, session model.Session) (model.User, error) {
	if err := session.Validate(); err != nil {
		return model.User{}, err
	}

	user, err := s.users.GetByID(ctx, session.UserID)
	if err != nil {
		return model.User{}, fmt.Errorf("failed to get user: %w", err)
	}
	return user, nil
}
