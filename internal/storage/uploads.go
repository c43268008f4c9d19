package storage

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/google/uuid"
)

// ErrUnsupportedMediaType is returned when an upload's filename extension
// is not in the allowed image set.
var ErrUnsupportedMediaType = errors.New("unsupported media type")

var allowedExtensions = map[string]string{
	"png":  "image/png",
	"jpg":  "image/jpeg",
	"jpeg": "image/jpeg",
}

// UploadStore persists uploaded leaf images. Objects are addressed by a
// random name under a year/month partition; the client-supplied filename
// contributes nothing but its extension, so it can neither traverse paths
// nor overwrite existing objects.
type UploadStore struct {
	backend ObjectStorage
	now     func() time.Time
}

// NewUploadStore wraps an ObjectStorage backend.
func NewUploadStore(backend ObjectStorage) *UploadStore {
	return &UploadStore{backend: backend, now: time.Now}
}

// Save validates the extension and writes the content, returning the
// stored object key, e.g. "2026/08/9f2b7c....jpg".
func (u *UploadStore) Save(ctx context.Context, originalFilename string, r io.Reader, size int64) (string, error) {
	ext, contentType, err := imageExtension(originalFilename)
	if err != nil {
		return "", err
	}

	now := u.now()
	key := fmt.Sprintf("%d/%02d/%s.%s", now.Year(), int(now.Month()), uuid.NewString(), ext)
	if err := u.backend.Put(ctx, key, r, size, contentType); err != nil {
		return "", fmt.Errorf("store upload: %w", err)
	}
	return key, nil
}

// Open reads a previously stored object.
func (u *UploadStore) Open(ctx context.Context, key string) (io.ReadCloser, error) {
	return u.backend.Get(ctx, key)
}

func imageExtension(filename string) (ext, contentType string, err error) {
	idx := strings.LastIndexByte(filename, '.')
	if idx < 0 || idx == len(filename)-1 {
		return "", "", ErrUnsupportedMediaType
	}
	ext = strings.ToLower(filename[idx+1:])
	contentType, ok := allowedExtensions[ext]
	if !ok {
		return "", "", ErrUnsupportedMediaType
	}
	return ext, contentType, nil
}
