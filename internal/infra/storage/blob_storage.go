// Package storage keeps uploaded files in a gocloud blob bucket.
package storage

import (
	"context"
	"io"
	"log/slog"
	"strings"

	"carbonledger/config"
	domainerrors "carbonledger/internal/domain/errors"
	"carbonledger/internal/domain/service"
	"carbonledger/internal/errors"

	"go.uber.org/fx"
	"gocloud.dev/blob"
	_ "gocloud.dev/blob/fileblob"
	_ "gocloud.dev/blob/gcsblob"
	_ "gocloud.dev/blob/memblob"
	"gocloud.dev/gcerrors"
)

const (
	defaultBucketURL = "mem://"

	// FilesPath is where the API serves objects when no public base URL is set.
	FilesPath = "/files/"
)

type blobStorage struct {
	bucket        *blob.Bucket
	publicBaseURL string
}

// Params holds dependencies for FileStorage, injected by Fx
type Params struct {
	fx.In

	Lc     fx.Lifecycle
	Ctx    context.Context
	Config *config.Config
	Logger *slog.Logger
}

// New opens the configured bucket and closes it on shutdown.
func New(params Params) (service.FileStorage, error) {
	bucketURL, publicBaseURL := defaultBucketURL, ""
	if cfg := params.Config.Storage; cfg != nil {
		if cfg.BucketURL != "" {
			bucketURL = cfg.BucketURL
		}
		publicBaseURL = cfg.PublicBaseURL
	}

	if bucketURL == defaultBucketURL {
		params.Logger.Warn("Storage bucket not configured, uploads are kept in memory")
	}

	storage, err := Open(params.Ctx, bucketURL, publicBaseURL)
	if err != nil {
		return nil, err
	}

	params.Lc.Append(fx.Hook{
		OnStop: func(ctx context.Context) error {
			return storage.Close()
		},
	})

	return storage, nil
}

// Open opens a bucket by gocloud URL, e.g. file:///var/lib/carbonledger or gs://proofs.
func Open(ctx context.Context, bucketURL, publicBaseURL string) (*blobStorage, error) {
	bucket, err := blob.OpenBucket(ctx, bucketURL)
	if err != nil {
		return nil, errors.Wrapf(err, "open bucket %s", bucketURL)
	}

	return &blobStorage{
		bucket:        bucket,
		publicBaseURL: strings.TrimRight(publicBaseURL, "/"),
	}, nil
}

// Upload writes r under key and returns the URL clients use to fetch it.
func (s *blobStorage) Upload(ctx context.Context, key, contentType string, r io.Reader) (string, error) {
	w, err := s.bucket.NewWriter(ctx, key, &blob.WriterOptions{ContentType: contentType})
	if err != nil {
		return "", domainerrors.ErrFileUploadFailed.WrapMessage(err.Error())
	}

	if _, err := io.Copy(w, r); err != nil {
		_ = w.Close()

		return "", domainerrors.ErrFileUploadFailed.WrapMessage(err.Error())
	}

	if err := w.Close(); err != nil {
		return "", domainerrors.ErrFileUploadFailed.WrapMessage(err.Error())
	}

	return s.URL(key), nil
}

// Open returns the stored object and its content type.
func (s *blobStorage) Open(ctx context.Context, key string) (io.ReadCloser, string, error) {
	reader, err := s.bucket.NewReader(ctx, key, nil)
	if err != nil {
		if gcerrors.Code(err) == gcerrors.NotFound {
			return nil, "", domainerrors.ErrFileNotFound
		}

		return nil, "", errors.Wrapf(err, "open object %s", key)
	}

	return reader, reader.ContentType(), nil
}

// URL builds the public URL of key.
func (s *blobStorage) URL(key string) string {
	if s.publicBaseURL != "" {
		return s.publicBaseURL + "/" + key
	}

	return FilesPath + key
}

// Close closes the bucket.
func (s *blobStorage) Close() error {
	return errors.WithStack(s.bucket.Close())
}
