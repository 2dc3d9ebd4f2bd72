package storage

import (
	"context"
	"io"
	"os"
	"path/filepath"
	"strings"
	"testing"

	domainerrors "carbonledger/internal/domain/errors"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBlobStorage_UploadAndOpen(t *testing.T) {
	ctx := context.Background()
	storage, err := Open(ctx, "mem://", "")
	require.NoError(t, err)
	defer storage.Close()

	url, err := storage.Upload(ctx, "proofs/p1.pdf", "application/pdf", strings.NewReader("%PDF-1.7"))
	require.NoError(t, err)
	assert.Equal(t, "/files/proofs/p1.pdf", url)

	reader, contentType, err := storage.Open(ctx, "proofs/p1.pdf")
	require.NoError(t, err)
	defer reader.Close()

	body, err := io.ReadAll(reader)
	require.NoError(t, err)
	assert.Equal(t, "%PDF-1.7", string(body))
	assert.Equal(t, "application/pdf", contentType)
}

func TestBlobStorage_OpenMissing(t *testing.T) {
	ctx := context.Background()
	storage, err := Open(ctx, "mem://", "")
	require.NoError(t, err)
	defer storage.Close()

	_, _, err = storage.Open(ctx, "missing.png")
	assert.ErrorIs(t, err, domainerrors.ErrFileNotFound)
}

func TestBlobStorage_FileBucket(t *testing.T) {
	ctx := context.Background()
	dir := t.TempDir()

	storage, err := Open(ctx, "file://"+filepath.ToSlash(dir), "https://cdn.example/")
	require.NoError(t, err)
	defer storage.Close()

	url, err := storage.Upload(ctx, "receipt.png", "image/png", strings.NewReader("png"))
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example/receipt.png", url)

	_, err = os.Stat(filepath.Join(dir, "receipt.png"))
	assert.NoError(t, err)
}

func TestOpen_UnknownScheme(t *testing.T) {
	_, err := Open(context.Background(), "nosuch://bucket", "")
	assert.Error(t, err)
}
