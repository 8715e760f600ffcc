package handler

import (
	"context"

	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/feed"
)

// forward sends every snapshot of sub to the client until the subscription
// ends, then reports why it ended.
func forward[T any, W any](ctx context.Context, sub *feed.Stream[T], convert func([]T) *W, send func(*W) error) error {
	defer sub.Close()

	for snapshot := range sub.Updates() {
		if err := send(convert(snapshot)); err != nil {
			return err
		}
	}

	if err := sub.Err(); err != nil {
		return handleError(err)
	}
	if err := ctx.Err(); err != nil {
		return status.FromContextError(err).Err()
	}
	return nil
}
