package service

import (
	"context"
	"io"
)

// FileStorage stores uploaded files and serves them back.
type FileStorage interface {
	// Upload writes the content under key and returns its public URL.
	Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error)

	// Open returns a reader for a stored object and its content type.
	Open(ctx context.Context, key string) (io.ReadCloser, string, error)
}
