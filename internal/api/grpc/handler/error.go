package handler

import (
	"context"
	"errors"

	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/model"
)

// handleError maps service errors to gRPC statuses. Messages of internal
// failures are not exposed to clients. A status error is passed through only
// when no domain error wraps it, since stores wrap driver statuses.
func handleError(err error) error {
	if err == nil {
		return nil
	}
	var validationErr *model.ValidationError
	switch {
	case errors.As(err, &validationErr):
		return status.Error(codes.InvalidArgument, validationErr.Error())
	case errors.Is(err, model.ErrUnauthenticated):
		return status.Error(codes.Unauthenticated, "authentication required")
	case errors.Is(err, model.ErrPermissionDenied):
		return status.Error(codes.PermissionDenied, "permission denied")
	case errors.Is(err, model.ErrNotFound):
		return status.Error(codes.NotFound, "not found")
	case errors.Is(err, model.ErrEmptyMessage):
		return status.Error(codes.InvalidArgument, model.ErrEmptyMessage.Error())
	case errors.Is(err, model.ErrNoSpeech):
		return status.Error(codes.InvalidArgument, model.ErrNoSpeech.Error())
	case errors.Is(err, model.ErrRateLimited):
		return status.Error(codes.ResourceExhausted, "too many messages, slow down")
	case errors.Is(err, model.ErrStoreUnavailable):
		return status.Error(codes.Unavailable, "store unavailable, retry later")
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return status.FromContextError(err).Err()
	case errors.Is(err, model.ErrWriteFailed):
		return status.Error(codes.Internal, "write failed")
	default:
		if _, ok := status.FromError(err); ok {
			return err
		}
		return status.Error(codes.Internal, "internal server error")
	}
}
