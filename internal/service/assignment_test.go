package service

import (
	"context"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/dtroode/speechpractice-server/internal/model"
	"github.com/dtroode/speechpractice-server/internal/repository/memory"
	"github.com/dtroode/speechpractice-server/internal/testutil"
)

func newMemoryAssignments(t *testing.T) *Assignment {
	t.Helper()
	users := memory.NewUserRepository(
		model.User{ID: alice.UserID, Email: alice.Email, Role: alice.Role},
		model.User{ID: bob.UserID, Email: bob.Email, Role: bob.Role},
		model.User{ID: "carol", Email: "carol@example.com", Role: model.RoleTherapist},
	)
	return NewAssignment(memory.NewAssignmentRepository(), users, nil, testutil.MakeNoopLogger())
}

func TestAssignmentService_Assign(t *testing.T) {
	valid := model.AssignParams{
		OwnerID:     "alice",
		Title:       "S Sounds",
		Description: "Snake, Sun Smile",
		VideoURL:    "https://youtu.be/abc123",
	}

	tests := []struct {
		name      string
		session   model.Session
		params    model.AssignParams
		mockSetup func(*MockAssignmentStore, *MockUserStore)
		wantErr   error
	}{
		{
			name:    "stores derived target words and feedback",
			session: bob,
			params:  valid,
			mockSetup: func(store *MockAssignmentStore, users *MockUserStore) {
				users.On("GetByID", mock.Anything, "alice").Return(model.User{ID: "alice", Role: model.RoleClient}, nil)
				store.On("Create", mock.Anything, mock.MatchedBy(func(a model.Assignment) bool {
					return a.OwnerID == "alice" &&
						a.CreatedBy == "bob" &&
						assert.ObjectsAreEqual([]string{"Snake", "Sun", "Smile"}, a.TargetWords) &&
						a.Feedback == "Let's practice the sound in: S Sounds. Focus on clear pronunciation."
				})).Return(model.Assignment{ID: uuid.New(), OwnerID: "alice", TargetWords: []string{"Snake", "Sun", "Smile"}}, nil)
			},
		},
		{
			name:    "therapist token for a stored client",
			session: model.Session{UserID: "mallory", Role: model.RoleTherapist},
			params:  valid,
			mockSetup: func(_ *MockAssignmentStore, users *MockUserStore) {
				users.On("GetByID", mock.Anything, "mallory").Return(model.User{ID: "mallory", Role: model.RoleClient}, nil)
			},
			wantErr: model.ErrPermissionDenied,
		},
		{
			name:    "therapist token without a user record",
			session: model.Session{UserID: "ghost", Role: model.RoleTherapist},
			params:  valid,
			mockSetup: func(_ *MockAssignmentStore, users *MockUserStore) {
				users.On("GetByID", mock.Anything, "ghost").Return(model.User{}, model.ErrNotFound)
			},
			wantErr: model.ErrPermissionDenied,
		},
		{
			name:      "client cannot assign",
			session:   alice,
			params:    valid,
			mockSetup: func(*MockAssignmentStore, *MockUserStore) {},
			wantErr:   model.ErrPermissionDenied,
		},
		{
			name:      "missing title",
			session:   bob,
			params:    model.AssignParams{OwnerID: "alice", Description: "sun", VideoURL: "x.mp4"},
			mockSetup: func(*MockAssignmentStore, *MockUserStore) {},
			wantErr:   model.ErrValidation,
		},
		{
			name:      "missing description",
			session:   bob,
			params:    model.AssignParams{OwnerID: "alice", Title: "t", Description: "  ", VideoURL: "x.mp4"},
			mockSetup: func(*MockAssignmentStore, *MockUserStore) {},
			wantErr:   model.ErrValidation,
		},
		{
			name:      "missing video",
			session:   bob,
			params:    model.AssignParams{OwnerID: "alice", Title: "t", Description: "sun"},
			mockSetup: func(*MockAssignmentStore, *MockUserStore) {},
			wantErr:   model.ErrValidation,
		},
		{
			name:    "target must be a client",
			session: bob,
			params:  model.AssignParams{OwnerID: "carol", Title: "t", Description: "sun", VideoURL: "x.mp4"},
			mockSetup: func(_ *MockAssignmentStore, users *MockUserStore) {
				users.On("GetByID", mock.Anything, "carol").Return(model.User{ID: "carol", Role: model.RoleTherapist}, nil)
			},
			wantErr: model.ErrValidation,
		},
		{
			name:    "store failure is surfaced",
			session: bob,
			params:  valid,
			mockSetup: func(store *MockAssignmentStore, users *MockUserStore) {
				users.On("GetByID", mock.Anything, "alice").Return(model.User{ID: "alice", Role: model.RoleClient}, nil)
				store.On("Create", mock.Anything, mock.Anything).Return(model.Assignment{}, model.ErrStoreUnavailable)
			},
			wantErr: model.ErrStoreUnavailable,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			store := &MockAssignmentStore{}
			users := &MockUserStore{}
			users.On("GetByID", mock.Anything, "bob").Return(model.User{ID: "bob", Role: model.RoleTherapist}, nil).Maybe()
			tt.mockSetup(store, users)

			svc := NewAssignment(store, users, nil, testutil.MakeNoopLogger())
			_, err := svc.Assign(context.Background(), tt.session, tt.params)

			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
			} else {
				require.NoError(t, err)
			}
			store.AssertExpectations(t)
			users.AssertExpectations(t)
		})
	}
}

func TestAssignmentService_SubscribeSeesAssignAndUnassign(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()

	feedView, err := svc.Subscribe(ctx, alice, alice.UserID)
	require.NoError(t, err)
	defer feedView.Close()
	latest(t, feedView, 0)

	x, err := svc.Assign(ctx, bob, model.AssignParams{
		OwnerID: "alice", Title: "S Sounds", Description: "Snake, Sun Smile", VideoURL: "https://youtu.be/abc123",
	})
	require.NoError(t, err)
	assert.Equal(t, []string{"Snake", "Sun", "Smile"}, x.TargetWords)

	y, err := svc.Assign(ctx, bob, model.AssignParams{
		OwnerID: "alice", Title: "R Sounds", Description: "red rabbit", VideoURL: "https://example.com/r.mp4",
	})
	require.NoError(t, err)

	snap := latest(t, feedView, 2)
	assert.Equal(t, x.ID, snap[0].ID)

	require.NoError(t, svc.Unassign(ctx, bob, alice.UserID, x.ID))

	snap = latest(t, feedView, 1)
	assert.Equal(t, y.ID, snap[0].ID)

	again, err := svc.Subscribe(ctx, bob, alice.UserID)
	require.NoError(t, err)
	defer again.Close()
	snap = latest(t, again, 1)
	assert.NotEqual(t, x.ID, snap[0].ID)
}

func TestAssignmentService_UnassignRules(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()
	carol := model.Session{UserID: "carol", Role: model.RoleTherapist}

	a, err := svc.Assign(ctx, bob, model.AssignParams{OwnerID: "alice", Title: "t", Description: "sun", VideoURL: "v.mp4"})
	require.NoError(t, err)

	assert.ErrorIs(t, svc.Unassign(ctx, alice, "alice", a.ID), model.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Unassign(ctx, carol, "alice", a.ID), model.ErrPermissionDenied)
	assert.ErrorIs(t, svc.Unassign(ctx, bob, "alice", uuid.New()), model.ErrNotFound)
	require.NoError(t, svc.Unassign(ctx, bob, "alice", a.ID))
}

func TestAssignmentService_SubscribeAccess(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()

	_, err := svc.Subscribe(ctx, eve, alice.UserID)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)

	_, err = svc.Subscribe(ctx, model.Session{}, alice.UserID)
	assert.ErrorIs(t, err, model.ErrUnauthenticated)
}

func TestAssignmentService_Check(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()

	a, err := svc.Assign(ctx, bob, model.AssignParams{OwnerID: "alice", Title: "S", Description: "snake, sun", VideoURL: "v.mp4"})
	require.NoError(t, err)

	tests := []struct {
		name       string
		transcript string
		wantScore  int
		wantErr    error
	}{
		{name: "hit", transcript: "I saw a Snake", wantScore: 100},
		{name: "miss", transcript: "nothing relevant", wantScore: 0},
		{name: "silence", transcript: "  ", wantErr: model.ErrNoSpeech},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			res, err := svc.Check(ctx, alice, "alice", a.ID, tt.transcript)
			if tt.wantErr != nil {
				assert.ErrorIs(t, err, tt.wantErr)
				return
			}
			require.NoError(t, err)
			assert.Equal(t, tt.wantScore, res.Score)
			assert.Equal(t, tt.wantScore == 100, res.Matched)
		})
	}

	_, err = svc.Check(ctx, eve, "alice", a.ID, "snake")
	assert.ErrorIs(t, err, model.ErrPermissionDenied)
}

func TestAssignmentService_Clients(t *testing.T) {
	svc := newMemoryAssignments(t)

	clients, err := svc.Clients(context.Background(), bob)
	require.NoError(t, err)
	require.Len(t, clients, 1)
	assert.Equal(t, "alice", clients[0].ID)

	_, err = svc.Clients(context.Background(), alice)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)
}

func TestAssignmentService_Get(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()

	a, err := svc.Assign(ctx, bob, model.AssignParams{OwnerID: "alice", Title: "S", Description: "sun", VideoURL: "https://youtu.be/abc"})
	require.NoError(t, err)

	got, err := svc.Get(ctx, alice, "alice", a.ID)
	require.NoError(t, err)
	assert.Equal(t, a.ID, got.ID)
	assert.Equal(t, "https://youtu.be/abc", got.VideoURL)

	_, err = svc.Get(ctx, bob, "alice", a.ID)
	assert.NoError(t, err)

	_, err = svc.Get(ctx, eve, "alice", a.ID)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)

	_, err = svc.Get(ctx, alice, "alice", uuid.New())
	assert.ErrorIs(t, err, model.ErrNotFound)
}

func TestAssignmentService_StoredRoleIsAuthoritative(t *testing.T) {
	svc := newMemoryAssignments(t)
	ctx := context.Background()
	forged := model.Session{UserID: "alice", Role: model.RoleTherapist}

	_, err := svc.Assign(ctx, forged, model.AssignParams{OwnerID: "alice", Title: "t", Description: "sun", VideoURL: "v.mp4"})
	assert.ErrorIs(t, err, model.ErrPermissionDenied)

	_, err = svc.Clients(ctx, forged)
	assert.ErrorIs(t, err, model.ErrPermissionDenied)

	_, err = svc.Subscribe(ctx, model.Session{UserID: "alice", Role: model.RoleTherapist}, "carol")
	assert.ErrorIs(t, err, model.ErrPermissionDenied)

	a, err := svc.Assign(ctx, bob, model.AssignParams{OwnerID: "alice", Title: "t", Description: "sun", VideoURL: "v.mp4"})
	require.NoError(t, err)
	assert.ErrorIs(t, svc.Unassign(ctx, model.Session{UserID: "bob2", Role: model.RoleTherapist}, "alice", a.ID), model.ErrPermissionDenied)
}
