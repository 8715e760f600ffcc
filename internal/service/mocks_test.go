package service

import (
	"context"
	"io"

	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// MockConversationStore mocks the ConversationStore interface
type MockConversationStore struct {
	mock.Mock
}

func (m *MockConversationStore) GetOrCreate(ctx context.Context, conv model.Conversation) (model.Conversation, error) {
	args := m.Called(ctx, conv)
	return args.Get(0).(model.Conversation), args.Error(1)
}

func (m *MockConversationStore) GetByID(ctx context.Context, id string) (model.Conversation, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.Conversation), args.Error(1)
}

func (m *MockConversationStore) AppendMessage(ctx context.Context, msg model.Message) (model.Message, error) {
	args := m.Called(ctx, msg)
	return args.Get(0).(model.Message), args.Error(1)
}

func (m *MockConversationStore) ListMessages(ctx context.Context, conversationID string) ([]model.Message, error) {
	args := m.Called(ctx, conversationID)
	return args.Get(0).([]model.Message), args.Error(1)
}

func (m *MockConversationStore) WatchMessages(ctx context.Context, conversationID string) (*feed.Stream[model.Message], error) {
	args := m.Called(ctx, conversationID)
	s, _ := args.Get(0).(*feed.Stream[model.Message])
	return s, args.Error(1)
}

// MockAssignmentStore mocks the AssignmentStore interface
type MockAssignmentStore struct {
	mock.Mock
}

func (m *MockAssignmentStore) Create(ctx context.Context, a model.Assignment) (model.Assignment, error) {
	args := m.Called(ctx, a)
	return args.Get(0).(model.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) GetByID(ctx context.Context, ownerID string, id uuid.UUID) (model.Assignment, error) {
	args := m.Called(ctx, ownerID, id)
	return args.Get(0).(model.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) ListByOwner(ctx context.Context, ownerID string) ([]model.Assignment, error) {
	args := m.Called(ctx, ownerID)
	return args.Get(0).([]model.Assignment), args.Error(1)
}

func (m *MockAssignmentStore) Delete(ctx context.Context, ownerID string, id uuid.UUID) error {
	args := m.Called(ctx, ownerID, id)
	return args.Error(0)
}

func (m *MockAssignmentStore) WatchByOwner(ctx context.Context, ownerID string) (*feed.Stream[model.Assignment], error) {
	args := m.Called(ctx, ownerID)
	s, _ := args.Get(0).(*feed.Stream[model.Assignment])
	return s, args.Error(1)
}

// MockUserStore mocks the UserStore interface
type MockUserStore struct {
	mock.Mock
}

func (m *MockUserStore) GetByID(ctx context.Context, id string) (model.User, error) {
	args := m.Called(ctx, id)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) Create(ctx context.Context, user model.User) (model.User, error) {
	args := m.Called(ctx, user)
	return args.Get(0).(model.User), args.Error(1)
}

func (m *MockUserStore) ListByRole(ctx context.Context, role model.Role) ([]model.User, error) {
	args := m.Called(ctx, role)
	return args.Get(0).([]model.User), args.Error(1)
}

// MockStorage mocks the Storage interface
type MockStorage struct {
	mock.Mock
}

func (m *MockStorage) Upload(ctx context.Context, key string, reader io.Reader, contentType string) error {
	args := m.Called(ctx, key, reader, contentType)
	return args.Error(0)
}

func (m *MockStorage) Download(ctx context.Context, key string) (io.ReadCloser, error) {
	args := m.Called(ctx, key)
	rc, _ := args.Get(0).(io.ReadCloser)
	return rc, args.Error(1)
}

func (m *MockStorage) Delete(ctx context.Context, key string) error {
	args := m.Called(ctx, key)
	return args.Error(0)
}

func (m *MockStorage) Exists(ctx context.Context, key string) (bool, error) {
	args := m.Called(ctx, key)
	return args.Bool(0), args.Error(1)
}

type denyAll struct{}

func (denyAll) Allow(string) bool { return false }
