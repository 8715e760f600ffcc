package service

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/exercise"
	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/metrics"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// Assignment is the exercise assignment feed service.
type Assignment struct {
	assignments model.AssignmentStore
	users       model.UserStore
	metrics     *metrics.Metrics
	logger      *logger.Logger
}

// NewAssignment creates an Assignment service. m may be nil.
func NewAssignment(assignments model.AssignmentStore, users model.UserStore, m *metrics.Metrics, logger *logger.Logger) *Assignment {
	return &Assignment{
		assignments: assignments,
		users:       users,
		metrics:     m,
		logger:      logger,
	}
}

// Clients lists client users for a therapist to pick from.
func (s *Assignment) Clients(ctx context.Context, session model.Session) ([]model.User, error) {
	if err := requireTherapist(ctx, s.users, session); err != nil {
		return nil, err
	}

	clients, err := s.users.ListByRole(ctx, model.RoleClient)
	if err != nil {
		return nil, fmt.Errorf("failed to list clients: %w", err)
	}
	return clients, nil
}

// Subscribe starts a live subscription to userID's assignments. The client
// may watch their own list; therapists may watch any client's list.
func (s *Assignment) Subscribe(ctx context.Context, session model.Session, userID string) (*feed.Stream[model.Assignment], error) {
	if err := s.canRead(ctx, session, userID); err != nil {
		return nil, err
	}

	stream, err := s.assignments.WatchByOwner(ctx, userID)
	if err != nil {
		return nil, fmt.Errorf("failed to watch assignments: %w", err)
	}
	stream.OnClose(s.metrics.SubscriptionOpened("assignments"))

	s.logger.Info("Assignment service: subscription opened",
		"owner_id", userID,
		"user_id", session.UserID)

	return stream, nil
}

// Assign creates an exercise for a client. Title, description and video URL
// are required. Target words are taken from the description.
func (s *Assignment) Assign(ctx context.Context, session model.Session, params model.AssignParams) (model.Assignment, error) {
	if err := requireTherapist(ctx, s.users, session); err != nil {
		return model.Assignment{}, err
	}
	if err := validateAssignParams(params); err != nil {
		return model.Assignment{}, err
	}

	owner, err := s.users.GetByID(ctx, params.OwnerID)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to get client: %w", err)
	}
	if owner.Role != model.RoleClient {
		return model.Assignment{}, model.NewValidationError("user_id", "exercises can only be assigned to clients")
	}

	created, err := s.assignments.Create(ctx, model.Assignment{
		ID:          uuid.New(),
		OwnerID:     owner.ID,
		CreatedBy:   session.UserID,
		Title:       params.Title,
		Description: params.Description,
		VideoURL:    strings.TrimSpace(params.VideoURL),
		Feedback:    exercise.Feedback(params.Title),
		TargetWords: exercise.TargetWords(params.Description),
	})
	if err != nil {
		s.logger.Error("Assignment service: failed to create assignment",
			"owner_id", params.OwnerID,
			"retryable", model.IsRetryable(err),
			"error", err)
		return model.Assignment{}, fmt.Errorf("failed to create assignment: %w", err)
	}

	s.metrics.AssignmentWritten("create")
	s.logger.Info("Assignment service: assignment created",
		"assignment_id", created.ID,
		"owner_id", created.OwnerID,
		"target_words", len(created.TargetWords))

	return created, nil
}

// Unassign permanently deletes an assignment. Only the therapist who created
// it may delete it.
func (s *Assignment) Unassign(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID) error {
	if err := requireTherapist(ctx, s.users, session); err != nil {
		return err
	}

	existing, err := s.assignments.GetByID(ctx, userID, assignmentID)
	if err != nil {
		return fmt.Errorf("failed to get assignment: %w", err)
	}
	if existing.CreatedBy != session.UserID {
		return model.ErrPermissionDenied
	}

	if err := s.assignments.Delete(ctx, userID, assignmentID); err != nil {
		return fmt.Errorf("failed to delete assignment: %w", err)
	}

	s.metrics.AssignmentWritten("delete")
	s.logger.Info("Assignment service: assignment deleted",
		"assignment_id", assignmentID,
		"owner_id", userID)

	return nil
}

// Get returns one assignment visible to the caller.
func (s *Assignment) Get(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID) (model.Assignment, error) {
	if err := s.canRead(ctx, session, userID); err != nil {
		return model.Assignment{}, err
	}

	a, err := s.assignments.GetByID(ctx, userID, assignmentID)
	if err != nil {
		return model.Assignment{}, fmt.Errorf("failed to get assignment: %w", err)
	}
	return a, nil
}

// Check scores a spoken attempt at the caller's assignment. Nothing is stored.
func (s *Assignment) Check(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID, transcript string) (model.PracticeResult, error) {
	if strings.TrimSpace(transcript) == "" {
		return model.PracticeResult{}, model.ErrNoSpeech
	}

	a, err := s.Get(ctx, session, userID, assignmentID)
	if err != nil {
		return model.PracticeResult{}, err
	}

	matched := exercise.Matches(transcript, a.TargetWords)
	s.metrics.PronunciationChecked(matched)

	return model.PracticeResult{
		AssignmentID: a.ID,
		Transcript:   transcript,
		Matched:      matched,
		Score:        exercise.Score(transcript, a.TargetWords),
		Verdict:      exercise.Verdict(matched),
	}, nil
}

func (s *Assignment) canRead(ctx context.Context, session model.Session, userID string) error {
	if err := session.Validate(); err != nil {
		return err
	}
	if userID == "" {
		return model.NewValidationError("user_id", "is required")
	}
	if session.UserID == userID {
		return nil
	}
	return requireTherapist(ctx, s.users, session)
}

func validateAssignParams(params model.AssignParams) error {
	switch {
	case params.OwnerID == "":
		return model.NewValidationError("user_id", "is required")
	case strings.TrimSpace(params.Title) == "":
		return model.NewValidationError("title", "is required")
	case strings.TrimSpace(params.Description) == "":
		return model.NewValidationError("description", "is required")
	case strings.TrimSpace(params.VideoURL) == "":
		return model.NewValidationError("video_url", "is required")
	}
	return nil
}
