package model

import (
	"context"
	"io"
)

// Storage is an object store for uploaded exercise media.
type Storage interface {
	Upload(ctx context.Context, key string, reader io.Reader, contentType string) error
	Download(ctx context.Context, key string) (io.ReadCloser, error)
	Delete(ctx context.Context, key string) error
	Exists(ctx context.Context, key string) (bool, error)
}

// MediaObject describes an uploaded media file.
type MediaObject struct {
	Key         string
	URL         string
	ContentType string
}
