package model

import (
	"context"
	"time"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/feed"
)

// AssignmentStore defines persistence operations for the per-client
// collection of assigned exercises.
type AssignmentStore interface {
	Create(ctx context.Context, assignment Assignment) (Assignment, error)
	GetByID(ctx context.Context, ownerID string, id uuid.UUID) (Assignment, error)
	ListByOwner(ctx context.Context, ownerID string) ([]Assignment, error)
	Delete(ctx context.Context, ownerID string, id uuid.UUID) error
	// WatchByOwner opens a live subscription delivering the owner's full
	// assignment list on every change, starting with the current list.
	WatchByOwner(ctx context.Context, ownerID string) (*feed.Stream[Assignment], error)
}

// Assignment is a speech exercise attached to one client by a therapist.
type Assignment struct {
	ID          uuid.UUID
	OwnerID     string
	CreatedBy   string
	Title       string
	Description string
	VideoURL    string
	Feedback    string
	TargetWords []string
	CreatedAt   time.Time
}

// AssignParams contains parameters to create an assignment.
type AssignParams struct {
	OwnerID     string
	Title       string
	Description string
	VideoURL    string
}

// PracticeResult is the outcome of checking one spoken attempt.
type PracticeResult struct {
	AssignmentID uuid.UUID
	Transcript   string
	Matched      bool
	Score        int
	Verdict      string
}
