package service

import (
	"context"
	"fmt"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"

	"github.com/dtroode/speechpractice-server/internal/logger"
	"github.com/dtroode/speechpractice-server/internal/model"
)

const mediaPrefix = "videos/"

var allowedVideoExt = map[string]string{
	".mp4":  "video/mp4",
	".webm": "video/webm",
	".mov":  "video/quicktime",
	".m4v":  "video/x-m4v",
}

// Media stores exercise videos uploaded by therapists.
type Media struct {
	storage model.Storage
	users   model.UserStore
	baseURL string
	logger  *logger.Logger
}

// NewMedia creates a Media service. baseURL is the public address of the ops
// HTTP server that serves /media/{key}.
func NewMedia(storage model.Storage, users model.UserStore, baseURL string, logger *logger.Logger) *Media {
	return &Media{
		storage: storage,
		users:   users,
		baseURL: strings.TrimRight(baseURL, "/"),
		logger:  logger,
	}
}

// Upload stores a video and returns a URL usable as an assignment video reference.
func (s *Media) Upload(ctx context.Context, session model.Session, filename string, r io.Reader) (model.MediaObject, error) {
	if err := requireTherapist(ctx, s.users, session); err != nil {
		return model.MediaObject{}, err
	}

	ext := strings.ToLower(path.Ext(filename))
	contentType, ok := allowedVideoExt[ext]
	if !ok {
		return model.MediaObject{}, model.NewValidationError("filename", "unsupported video type "+ext)
	}

	key := mediaPrefix + uuid.NewString() + ext
	if err := s.storage.Upload(ctx, key, r, contentType); err != nil {
		s.logger.Error("Media service: upload failed",
			"key", key,
			"user_id", session.UserID,
			"error", err)
		return model.MediaObject{}, fmt.Errorf("failed to upload video: %w", err)
	}

	s.logger.Info("Media service: video uploaded",
		"key", key,
		"user_id", session.UserID)

	return model.MediaObject{
		Key:         key,
		URL:         s.baseURL + "/media/" + key,
		ContentType: contentType,
	}, nil
}

// Open returns a stored video and its content type.
func (s *Media) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	if !strings.HasPrefix(key, mediaPrefix) || strings.Contains(key, "..") {
		return nil, "", model.ErrNotFound
	}

	exists, err := s.storage.Exists(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to stat video: %w", err)
	}
	if !exists {
		return nil, "", model.ErrNotFound
	}

	rc, err := s.storage.Download(ctx, key)
	if err != nil {
		return nil, "", fmt.Errorf("failed to download video: %w", err)
	}

	contentType := "application/octet-stream"
	if ct, ok := allowedVideoExt[path.Ext(key)]; ok {
		contentType = ct
	}

	return rc, contentType, nil
}
