package handler

import (
	"context"
	"errors"
	"io"

	"github.com/google/uuid"
	"google.golang.org/grpc"
	"google.golang.org/grpc/codes"
	"google.golang.org/grpc/status"

	"github.com/dtroode/speechpractice-server/internal/api/grpc/wire"
	"github.com/dtroode/speechpractice-server/internal/feed"
	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

// AssignmentService defines exercise assignment operations.
type AssignmentService interface {
	Clients(ctx context.Context, session model.Session) ([]model.User, error)
	Subscribe(ctx context.Context, session model.Session, userID string) (*feed.Stream[model.Assignment], error)
	Assign(ctx context.Context, session model.Session, params model.AssignParams) (model.Assignment, error)
	Unassign(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID) error
	Get(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID) (model.Assignment, error)
	Check(ctx context.Context, session model.Session, userID string, assignmentID uuid.UUID, transcript string) (model.PracticeResult, error)
}

// MediaService stores uploaded exercise videos.
type MediaService interface {
	Upload(ctx context.Context, session model.Session, filename string, r io.Reader) (model.MediaObject, error)
}

// Assignment handles gRPC endpoints for exercise assignments.
type Assignment struct {
	assignmentService AssignmentService
	mediaService      MediaService
	contextManager    model.ContextManager
	logger            *logger.Logger
}

var _ wire.AssignmentsServer = (*Assignment)(nil)

// NewAssignment creates a new Assignment handler. mediaService may be nil,
// in which case video uploads are rejected.
func NewAssignment(
	assignmentService AssignmentService,
	mediaService MediaService,
	contextManager model.ContextManager,
	logger *logger.Logger,
) *Assignment {
	return &Assignment{
		assignmentService: assignmentService,
		mediaService:      mediaService,
		contextManager:    contextManager,
		logger:            logger,
	}
}

// Clients lists the users a therapist can assign exercises to.
func (h *Assignment) Clients(ctx context.Context, _ *wire.Empty) (*wire.Users, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	users, err := h.assignmentService.Clients(ctx, session)
	if err != nil {
		return nil, handleError(err)
	}

	return toWireUsers(users), nil
}

// Assign creates an assignment for a client.
func (h *Assignment) Assign(ctx context.Context, req *wire.AssignRequest) (*wire.Assignment, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}

	a, err := h.assignmentService.Assign(ctx, session, model.AssignParams{
		OwnerID:     req.UserID,
		Title:       req.Title,
		Description: req.Description,
		VideoURL:    req.VideoURL,
	})
	if err != nil {
		h.logger.Error("Assignment handler: assign failed",
			"user_id", session.UserID,
			"owner_id", req.UserID,
			"error", err.Error())
		return nil, handleError(err)
	}

	out := toWireAssignment(a)
	return &out, nil
}

// Unassign deletes an assignment.
func (h *Assignment) Unassign(ctx context.Context, req *wire.AssignmentRef) (*wire.Empty, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}
	id, err := parseAssignmentID(req.AssignmentID)
	if err != nil {
		return nil, err
	}

	if err := h.assignmentService.Unassign(ctx, session, req.UserID, id); err != nil {
		h.logger.Error("Assignment handler: unassign failed",
			"user_id", session.UserID,
			"owner_id", req.UserID,
			"assignment_id", id,
			"error", err.Error())
		return nil, handleError(err)
	}

	return &wire.Empty{}, nil
}

// Get returns one assignment with its embeddable video URL.
func (h *Assignment) Get(ctx context.Context, req *wire.AssignmentRef) (*wire.Assignment, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}
	id, err := parseAssignmentID(req.AssignmentID)
	if err != nil {
		return nil, err
	}

	a, err := h.assignmentService.Get(ctx, session, req.UserID, id)
	if err != nil {
		return nil, handleError(err)
	}

	out := toWireAssignment(a)
	return &out, nil
}

// Check scores a spoken attempt against the assignment's target words.
func (h *Assignment) Check(ctx context.Context, req *wire.CheckRequest) (*wire.PracticeResult, error) {
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return nil, err
	}
	id, err := parseAssignmentID(req.AssignmentID)
	if err != nil {
		return nil, err
	}

	result, err := h.assignmentService.Check(ctx, session, req.UserID, id, req.Transcript)
	if err != nil {
		return nil, handleError(err)
	}

	return toWireResult(result), nil
}

// Watch streams the user's assignment list until the client cancels.
func (h *Assignment) Watch(req *wire.WatchAssignmentsRequest, stream grpc.ServerStreamingServer[wire.AssignmentsSnapshot]) error {
	ctx := stream.Context()
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return err
	}

	sub, err := h.assignmentService.Subscribe(ctx, session, req.UserID)
	if err != nil {
		return handleError(err)
	}

	h.logger.Debug("Assignment handler: watching assignments",
		"user_id", session.UserID,
		"owner_id", req.UserID)

	return forward(ctx, sub, toWireAssignments, stream.Send)
}

// UploadVideo receives a video in chunks and stores it. The first chunk
// must carry the file name.
func (h *Assignment) UploadVideo(stream grpc.ClientStreamingServer[wire.VideoChunk, wire.MediaObject]) error {
	ctx := stream.Context()
	session, err := sessionFromContext(ctx, h.contextManager)
	if err != nil {
		return err
	}
	if h.mediaService == nil {
		return status.Error(codes.Unimplemented, "video upload is disabled")
	}

	first, err := stream.Recv()
	if errors.Is(err, io.EOF) {
		return status.Error(codes.InvalidArgument, "empty upload")
	}
	if err != nil {
		return err
	}
	if first.Filename == "" {
		return status.Error(codes.InvalidArgument, "filename: is required in the first chunk")
	}

	reader := &chunkReader{stream: stream, buf: first.Data}
	obj, err := h.mediaService.Upload(ctx, session, first.Filename, reader)
	if err != nil {
		h.logger.Error("Assignment handler: video upload failed",
			"user_id", session.UserID,
			"filename", first.Filename,
			"error", err.Error())
		return handleError(err)
	}

	return stream.SendAndClose(&wire.MediaObject{
		Key:         obj.Key,
		URL:         obj.URL,
		ContentType: obj.ContentType,
	})
}

type chunkReceiver interface {
	Recv() (*wire.VideoChunk, error)
}

// chunkReader exposes the data of a chunk stream as an io.Reader.
type chunkReader struct {
	stream chunkReceiver
	buf    []byte
}

func (r *chunkReader) Read(p []byte) (int, error) {
	for len(r.buf) == 0 {
		chunk, err := r.stream.Recv()
		if err != nil {
			return 0, err
		}
		r.buf = chunk.Data
	}

	n := copy(p, r.buf)
	r.buf = r.buf[n:]
	return n, nil
}
