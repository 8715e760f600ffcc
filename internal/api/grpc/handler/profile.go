package handler

import (
	"context"

	"github.com/dtroode/speechpractice-server/internal/api/grpc/wire"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// ProfileService defines operations on the caller's own user record.
type ProfileService interface {
	Register(ctx context.Context, session model.Session) (model.User, error)
	Me(ctx context.Context, session model.Session) (model.User, error)
}

// Profile handles gRPC endpoints for user profiles.
type Profile struct {
	profileService ProfileService
	contextManager model.ContextManager
	logger         *logger.Logger
}

var _ wire.ProfileServer = (*Profile)(nil)

// NewProfile creates a new Profile handler.
func NewProfile(profileService ProfileService, contextManager model.ContextManager, logger *logger.Logger) *Profile {
	return &Profile{
		profileService: profileService,
		contextManager: contextManager,
		logger:         logger,
	}
}

// Register creates the caller's user record from the token claims.
func (h *Profile) Register(ctx context.Context, _ *wire.Empty) (*wire.User, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	user, err := h.profileService.Register(ctx, session)
	if err != nil {
		h.logger.Error("Profile handler: register failed",
			"user_id", session.UserID,
			"error", err.Error())
		return nil, handleError(err)
	}

	out := toWireUser(user)
	return &out, nil
}

func (h *Profile) Me(ctx context.Context, _ *wire.Empty) (*wire.User, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	user, err := h.profileService.Me(ctx, session)
	if err != nil {
		return nil, handleError(err)
	}

	out := toWireUser(user)
	return &out, nil
}
