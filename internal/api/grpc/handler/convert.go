package handler

import (
	"context"

	"github.com/google/uuid"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/api/grpc/wire"
	"github.com/dtroode/speechpractice-server/internal/exercise"
	"github.com/dtroode/speechpractice-server/internal/model"
)

func sessionFromContext(ctx context.Context, cm model.ContextManager) (model.Session, error) {
	session, ok := cm.GetSessionFromContext(ctx)
	if !ok {
		return model.Session{}, status.Error(codes.Unauthenticated, "authentication required")
	}
	return session, nil
}

func parseAssignmentID(raw string) (uuid.UUID, error) {
	id, err := uuid.Parse(raw)
	if err != nil {
		return uuid.Nil, status.Error(codes.InvalidArgument, "assignment_id: invalid id format")
	}
	return id, nil
}

func toWireUser(u model.User) wire.User {
	return wire.User{
		ID:        u.ID,
		Email:     u.Email,
		Role:      string(u.Role),
		CreatedAt: u.CreatedAt,
	}
}

func toWireUsers(users []model.User) *wire.Users {
	out := make([]wire.User, 0, len(users))
	for _, u := range users {
		out = append(out, toWireUser(u))
	}
	return &wire.Users{Users: out}
}

func toWireConversation(c model.Conversation) *wire.Conversation {
	return &wire.Conversation{
		ID:           c.ID,
		Participants: []string{c.Participants[0], c.Participants[1]},
		CreatedAt:    c.CreatedAt,
	}
}

func toWireMessage(m model.Message) wire.Message {
	return wire.Message{
		ID:             m.ID.String(),
		ConversationID: m.ConversationID,
		SenderID:       m.SenderID,
		Text:           m.Text,
		CreatedAt:      m.CreatedAt,
	}
}

func toWireMessages(messages []model.Message) *wire.MessagesSnapshot {
	out := make([]wire.Message, 0, len(messages))
	for _, m := range messages {
		out = append(out, toWireMessage(m))
	}
	return &wire.MessagesSnapshot{Messages: out}
}

func toWireAssignment(a model.Assignment) wire.Assignment {
	targetWords := a.TargetWords
	if targetWords == nil {
		targetWords = []string{}
	}
	return wire.Assignment{
		ID:          a.ID.String(),
		OwnerID:     a.OwnerID,
		CreatedBy:   a.CreatedBy,
		Title:       a.Title,
		Description: a.Description,
		VideoURL:    a.VideoURL,
		EmbedURL:    exercise.NormalizeVideoURL(a.VideoURL),
		Feedback:    a.Feedback,
		TargetWords: targetWords,
		CreatedAt:   a.CreatedAt,
	}
}

func toWireAssignments(assignments []model.Assignment) *wire.AssignmentsSnapshot {
	out := make([]wire.Assignment, 0, len(assignments))
	for _, a := range assignments {
		out = append(out, toWireAssignment(a))
	}
	return &wire.AssignmentsSnapshot{Assignments: out}
}

func toWireResult(r model.PracticeResult) *wire.PracticeResult {
	return &wire.PracticeResult{
		AssignmentID: r.AssignmentID.String(),
		Transcript:   r.Transcript,
		Matched:      r.Matched,
		Score:        r.Score,
		Verdict:      r.Verdict,
	}
}
