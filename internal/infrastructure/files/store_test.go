package files

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gims/internal/core/apperror"
)

func newTestStore(t *testing.T) *Store {
	t.Helper()
	store, err := NewStore(t.TempDir())
	require.NoError(t, err)
	return store
}

func TestSaveAndResolve(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	name, err := store.Save(ctx, "photo.JPG", 4, strings.NewReader("data"))
	require.NoError(t, err)
	assert.True(t, strings.HasSuffix(name, ".jpg"), "extension is lowercased: %s", name)
	assert.NotContains(t, name, "photo", "original name does not leak into storage")

	abs, contentType, err := store.Resolve(name)
	require.NoError(t, err)
	assert.Equal(t, "image/jpeg", contentType)

	data, err := os.ReadFile(abs)
	require.NoError(t, err)
	assert.Equal(t, "data", string(data))
}

func TestSave_RejectsUnknownExtension(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Save(ctx, "run.exe", 4, strings.NewReader("data"))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSave_RejectsOversized(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	_, err := store.Save(ctx, "big.png", MaxUploadSize+1, strings.NewReader(""))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)
}

func TestSave_RejectsOversizedStream(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	// Declared size is small but the stream keeps going past the cap.
	_, err := store.Save(ctx, "big.png", 4, bytes.NewReader(make([]byte, MaxUploadSize+1)))
	appErr, ok := apperror.AsAppError(err)
	require.True(t, ok)
	assert.Equal(t, apperror.CodeValidation, appErr.Code)

	entries, err := os.ReadDir(store.baseDir)
	require.NoError(t, err)
	assert.Empty(t, entries, "partial upload is cleaned up")
}

func TestResolve_RejectsTraversal(t *testing.T) {
	store := newTestStore(t)

	for _, path := range []string{
		"../etc/passwd.png",
		"..%2Fetc/passwd.png",
		"a/b.png",
		filepath.Join("..", "escape.pdf"),
	} {
		_, _, err := store.Resolve(path)
		assert.Error(t, err, "path %q must not resolve", path)
		assert.False(t, apperror.IsNotFound(err), "path %q must be rejected before stat", path)
	}
}

func TestResolve_MissingFile(t *testing.T) {
	store := newTestStore(t)

	_, _, err := store.Resolve("nonexistent.png")
	assert.True(t, apperror.IsNotFound(err))
}

func TestRemove_MissingIsNoError(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	assert.NoError(t, store.Remove(ctx, "gone.png"))
}

func TestRemove_DeletesFile(t *testing.T) {
	ctx := context.Background()
	store := newTestStore(t)

	name, err := store.Save(ctx, "doc.pdf", 3, strings.NewReader("pdf"))
	require.NoError(t, err)

	require.NoError(t, store.Remove(ctx, name))
	_, _, err = store.Resolve(name)
	assert.True(t, apperror.IsNotFound(err))
}
