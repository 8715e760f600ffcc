// Package firestore implements the stores on Cloud Firestore. Live
// subscriptions are backed by query snapshot listeners.
package firestore

import (
	"context"
	"errors"
	"fmt"

	"cloud.google.com/go/firestore"
	"google.golang.org/api/iterator"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

const (
	usersCollection       = "users"
	chatsCollection       = "chats"
	messagesCollection    = "messages"
	assignmentsCollection = "assignedExercises"
)

type Store struct {
	client *firestore.Client
}

// NewStore creates a Firestore client for projectID. An empty databaseID
// selects the default database. FIRESTORE_EMULATOR_HOST is honored by the client.
func NewStore(ctx context.Context, projectID, databaseID string) (*Store, error) {
	if projectID == "" {
		return nil, errors.New("projectID is required for firestore store")
	}

	var (
		client *firestore.Client
		err    error
	)
	if databaseID == "" {
		client, err = firestore.NewClient(ctx, projectID)
	} else {
		client, err = firestore.NewClientWithDatabase(ctx, projectID, databaseID)
	}
	if err != nil {
		return nil, fmt.Errorf("creating firestore client: %w", err)
	}

	return &Store{client: client}, nil
}

func (s *Store) Close() error {
	return s.client.Close()
}

func (s *Store) userDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(usersCollection).Doc(id)
}

func (s *Store) chatDoc(id string) *firestore.DocumentRef {
	return s.client.Collection(chatsCollection).Doc(id)
}

func (s *Store) messagesCol(conversationID string) *firestore.CollectionRef {
	return s.chatDoc(conversationID).Collection(messagesCollection)
}

func (s *Store) assignmentsCol(ownerID string) *firestore.CollectionRef {
	return s.userDoc(ownerID).Collection(assignmentsCollection)
}

// mapError translates gRPC status codes returned by Firestore into model errors.
func mapError(err error) error {
	if err == nil {
		return nil
	}

	switch status.Code(err) {
	case codes.NotFound:
		return fmt.Errorf("%w: %w", model.ErrNotFound, err)
	case codes.PermissionDenied, codes.Unauthenticated:
		return fmt.Errorf("%w: %w", model.ErrPermissionDenied, err)
	case codes.Unavailable, codes.DeadlineExceeded, codes.ResourceExhausted, codes.Aborted:
		return fmt.Errorf("%w: %w", model.ErrStoreUnavailable, err)
	case codes.InvalidArgument, codes.FailedPrecondition, codes.AlreadyExists, codes.OutOfRange:
		return fmt.Errorf("%w: %w", model.ErrWriteFailed, err)
	}
	return err
}

// listen runs query as a snapshot listener. The first snapshot is read before
// listen returns so the stream always starts with the current collection.
func listen[T any](
	ctx context.Context,
	query firestore.Query,
	decode func(*firestore.DocumentSnapshot) (T, error),
) (*feed.Stream[T], error) {
	listenCtx, cancel := context.WithCancel(ctx)
	it := query.Snapshots(listenCtx)

	next := func() ([]T, error) {
		snap, err := it.Next()
		if err != nil {
			return nil, err
		}
		docs, err := snap.Documents.GetAll()
		if err != nil {
			return nil, err
		}
		items := make([]T, 0, len(docs))
		for _, doc := range docs {
			item, err := decode(doc)
			if err != nil {
				return nil, err
			}
			items = append(items, item)
		}
		return items, nil
	}

	initial, err := next()
	if err != nil {
		it.Stop()
		cancel()
		return nil, mapError(err)
	}

	stream := feed.New[T](cancel)
	stream.Publish(initial)

	go func() {
		defer it.Stop()
		for {
			items, err := next()
			if err != nil {
				if listenCtx.Err() != nil || errors.Is(err, iterator.Done) || status.Code(err) == codes.Canceled {
					stream.Close()
					return
				}
				stream.Fail(mapError(err))
				return
			}
			if !stream.Publish(items) {
				return
			}
		}
	}()

	return stream, nil
}
