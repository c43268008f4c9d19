package storage

import (
	"bytes"
	"context"
	"io"
	"os"
	"path/filepath"
	"regexp"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/require"
)

func newTestUploadStore(t *testing.T) (*UploadStore, string) {
	t.Helper()

	dir := t.TempDir()
	local, err := NewLocalStorage(dir)
	require.NoError(t, err)

	store := NewUploadStore(local)
	store.now = func() time.Time {
		return time.Date(2026, time.August, 15, 12, 0, 0, 0, time.UTC)
	}
	return store, dir
}

func TestSaveRejectsUnsupportedExtension(t *testing.T) {
	store, _ := newTestUploadStore(t)

	for _, name := range []string{"notes.txt", "archive.tar.gz", "noextension", "trailingdot."} {
		_, err := store.Save(context.Background(), name, strings.NewReader("data"), 4)
		require.ErrorIs(t, err, ErrUnsupportedMediaType, "filename %q", name)
	}
}

func TestSaveAcceptsImageExtensions(t *testing.T) {
	store, dir := newTestUploadStore(t)

	keyPattern := regexp.MustCompile(`^2026/08/[0-9a-f-]{36}\.(png|jpg|jpeg)$`)
	for _, name := range []string{"leaf.png", "leaf.jpg", "leaf.jpeg", "LEAF.JPG"} {
		key, err := store.Save(context.Background(), name, strings.NewReader("imagebytes"), 10)
		require.NoError(t, err, "filename %q", name)
		require.Regexp(t, keyPattern, key)

		content, err := os.ReadFile(filepath.Join(dir, filepath.FromSlash(key)))
		require.NoError(t, err)
		require.Equal(t, "imagebytes", string(content))
	}
}

func TestSaveNeverReusesClientFilename(t *testing.T) {
	store, _ := newTestUploadStore(t)

	first, err := store.Save(context.Background(), "leaf.jpg", strings.NewReader("a"), 1)
	require.NoError(t, err)
	second, err := store.Save(context.Background(), "leaf.jpg", strings.NewReader("b"), 1)
	require.NoError(t, err)

	require.NotEqual(t, first, second)
	require.NotContains(t, first, "leaf")
}

func TestOpenRoundTrip(t *testing.T) {
	store, _ := newTestUploadStore(t)

	key, err := store.Save(context.Background(), "leaf.png", bytes.NewReader([]byte{0x89, 0x50, 0x4e, 0x47}), 4)
	require.NoError(t, err)

	reader, err := store.Open(context.Background(), key)
	require.NoError(t, err)
	defer reader.Close()

	content, err := io.ReadAll(reader)
	require.NoError(t, err)
	require.Equal(t, []byte{0x89, 0x50, 0x4e, 0x47}, content)
}

func TestLocalStorageRejectsTraversal(t *testing.T) {
	local, err := NewLocalStorage(t.TempDir())
	require.NoError(t, err)

	for _, key := range []string{"../escape.jpg", "/abs/path.jpg", "2026/../../escape.jpg", "."} {
		err := local.Put(context.Background(), key, strings.NewReader("x"), 1, "image/jpeg")
		require.Error(t, err, "key %q", key)
	}
}

func TestLocalStoragePutLeavesNoPartialFile(t *testing.T) {
	dir := t.TempDir()
	local, err := NewLocalStorage(dir)
	require.NoError(t, err)

	failing := io.MultiReader(strings.NewReader("partial"), errReader{})
	err = local.Put(context.Background(), "2026/08/broken.jpg", failing, 7, "image/jpeg")
	require.Error(t, err)

	_, statErr := os.Stat(filepath.Join(dir, "2026", "08", "broken.jpg"))
	require.True(t, os.IsNotExist(statErr), "failed write must not leave the object behind")
}

type errReader struct{}

func (errReader) Read([]byte) (int, error) {
	return 0, io.ErrUnexpectedEOF
}
