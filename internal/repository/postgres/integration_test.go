//go:build integration

package postgres_test

import (
	"context"
	"fmt"
	"os"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	tc "github.com/testcontainers/testcontainers-go"
	"github.com/testcontainers/testcontainers-go/wait"

	"github.com/dtroode/speechpractice-server/internal/chatid"
	"github.com/dtroode/speechpractice-server/internal/model"
	repo "github.com/dtroode/speechpractice-server/internal/repository/postgres"
	"github.com/dtroode/speechpractice-server/internal/testutil"
)

var dsn string

func TestMain(m *testing.M) {
	ctx := context.Background()
	container, err := tc.GenericContainer(ctx, tc.GenericContainerRequest{
		ContainerRequest: tc.ContainerRequest{
			Image:        "postgres:15-alpine",
			ExposedPorts: []string{"5432/tcp"},
			Env: map[string]string{
				"POSTGRES_USER":     "postgres",
				"POSTGRES_PASSWORD": "password",
				"POSTGRES_DB":       "speechpractice_test",
			},
			WaitingFor: wait.ForListeningPort("5432/tcp").WithStartupTimeout(2 * time.Minute),
		},
		Started: true,
	})
	if err != nil {
		panic(err)
	}
	host, err := container.Host(ctx)
	if err != nil {
		panic(err)
	}
	port, err := container.MappedPort(ctx, "5432")
	if err != nil {
		panic(err)
	}
	dsn = fmt.Sprintf("postgres://postgres:password@%s:%s/speechpractice_test?sslmode=disable", host, port.Port())

	code := m.Run()
	_ = container.Terminate(ctx)
	os.Exit(code)
}

func receive[T any](t *testing.T, updates <-chan []T, want int) []T {
	t.Helper()
	deadline := time.After(10 * time.Second)
	for {
		select {
		case got, ok := <-updates:
			require.True(t, ok, "stream closed")
			if len(got) == want {
				return got
			}
		case <-deadline:
			t.Fatalf("no snapshot with %d items", want)
		}
	}
}

func TestRepositories(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	t.Cleanup(cancel)

	conn, err := repo.NewConnection(ctx, dsn)
	require.NoError(t, err)
	t.Cleanup(func() { _ = conn.Close() })

	notifier := repo.NewNotifier(conn.Pool, testutil.MakeNoopLogger(), repo.ChannelMessages, repo.ChannelAssignments)
	go func() { _ = notifier.Run(ctx) }()

	users := repo.NewUserRepository(conn)
	conversations := repo.NewConversationRepository(conn, notifier)
	assignments := repo.NewAssignmentRepository(conn, notifier)

	client := model.User{ID: "client-1", Email: "client@example.com", Role: model.RoleClient}
	therapist := model.User{ID: "therapist-1", Email: "therapist@example.com", Role: model.RoleTherapist}

	t.Run("users", func(t *testing.T) {
		for _, u := range []model.User{client, therapist} {
			saved, err := users.Create(ctx, u)
			require.NoError(t, err)
			assert.Equal(t, u.ID, saved.ID)
		}

		again, err := users.Create(ctx, model.User{ID: client.ID, Email: "other@example.com", Role: model.RoleTherapist})
		require.NoError(t, err)
		assert.Equal(t, client.Email, again.Email)

		clients, err := users.ListByRole(ctx, model.RoleClient)
		require.NoError(t, err)
		require.Len(t, clients, 1)
		assert.Equal(t, client.ID, clients[0].ID)

		_, err = users.GetByID(ctx, "missing")
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("conversations", func(t *testing.T) {
		a, b := chatid.Participants(client.ID, therapist.ID)
		conv, err := conversations.GetOrCreate(ctx, model.Conversation{
			ID:           chatid.Canonical(client.ID, therapist.ID),
			Participants: [2]string{a, b},
		})
		require.NoError(t, err)

		stream, err := conversations.WatchMessages(ctx, conv.ID)
		require.NoError(t, err)
		defer stream.Close()
		receive(t, stream.Updates(), 0)

		for _, text := range []string{"hello", "world"} {
			_, err := conversations.AppendMessage(ctx, model.Message{
				ID:             uuid.New(),
				ConversationID: conv.ID,
				SenderID:       client.ID,
				Text:           text,
			})
			require.NoError(t, err)
		}

		got := receive(t, stream.Updates(), 2)
		assert.Equal(t, "hello", got[0].Text)
		assert.Equal(t, "world", got[1].Text)

		_, err = conversations.AppendMessage(ctx, model.Message{
			ID:             uuid.New(),
			ConversationID: "no_such",
			SenderID:       client.ID,
			Text:           "lost",
		})
		assert.ErrorIs(t, err, model.ErrNotFound)
	})

	t.Run("assignments", func(t *testing.T) {
		stream, err := assignments.WatchByOwner(ctx, client.ID)
		require.NoError(t, err)
		defer stream.Close()
		receive(t, stream.Updates(), 0)

		created, err := assignments.Create(ctx, model.Assignment{
			ID:          uuid.New(),
			OwnerID:     client.ID,
			CreatedBy:   therapist.ID,
			Title:       "R sound",
			Description: "rabbit, carrot",
			VideoURL:    "https://www.youtube.com/embed/abc",
			TargetWords: []string{"rabbit", "carrot"},
		})
		require.NoError(t, err)

		got := receive(t, stream.Updates(), 1)
		assert.Equal(t, []string{"rabbit", "carrot"}, got[0].TargetWords)

		require.NoError(t, assignments.Delete(ctx, client.ID, created.ID))
		receive(t, stream.Updates(), 0)

		err = assignments.Delete(ctx, client.ID, created.ID)
		assert.ErrorIs(t, err, model.ErrNotFound)
	})
}
