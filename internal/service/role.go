package service

import (
	"context"
	"errors"
	"fmt"

	"github.com/dtroode/speechpractice-server/internal/model"
)

// requireTherapist checks the caller's stored role. The role claim in the
// token is only a hint: a caller without a user record, or whose record
// says otherwise, is denied.
func requireTherapist(ctx context.Context, users model.UserStore, session model.Session) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if !session.IsTherapist() {
		return model.ErrPermissionDenied
	}

	user, err := users.GetByID(ctx, session.UserID)
	if err != nil {
		if errors.Is(err, model.ErrNotFound) {
			return model.ErrPermissionDenied
		}
		return fmt.Errorf("failed to get caller: %w", err)
	}
	if user.Role != model.RoleTherapist {
		return model.ErrPermissionDenied
	}
	return nil
}
