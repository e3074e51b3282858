package storage

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newLocal(t *testing.T) (*LocalStorage, string) {
	t.Helper()
	base := filepath.Join(t.TempDir(), "uploads")
	s, err := NewLocalStorage(LocalStorageConfig{BasePath: base, BaseURL: "http://localhost:8080/files/"})
	require.NoError(t, err)
	return s.(*LocalStorage), base
}

func TestLocalStorageUploadAndDelete(t *testing.T) {
	ctx := context.Background()
	s, base := newLocal(t)

	url, err := s.UploadFile(ctx, strings.NewReader("jpeg bytes"), 10, "posts/abc/cover.jpg", "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/posts/abc/cover.jpg", url)

	data, err := os.ReadFile(filepath.Join(base, "posts", "abc", "cover.jpg"))
	require.NoError(t, err)
	assert.Equal(t, "jpeg bytes", string(data))

	require.NoError(t, s.DeleteFile(ctx, "posts/abc/cover.jpg"))
	_, err = os.Stat(filepath.Join(base, "posts"))
	assert.True(t, os.IsNotExist(err), "empty directories are removed")

	_, err = os.Stat(base)
	assert.NoError(t, err, "base directory stays")

	// ไม่มีไฟล์ก็ไม่ error
	assert.NoError(t, s.DeleteFile(ctx, "posts/abc/cover.jpg"))
}

func TestLocalStorageRejectsEscapingPaths(t *testing.T) {
	ctx := context.Background()
	s, _ := newLocal(t)

	for _, path := range []string{"../outside.txt", "posts/../../outside.txt", ""} {
		t.Run(path, func(t *testing.T) {
			_, err := s.UploadFile(ctx, strings.NewReader("x"), 1, path, "text/plain")
			assert.ErrorIs(t, err, ErrInvalidPath)
			assert.ErrorIs(t, s.DeleteFile(ctx, path), ErrInvalidPath)
		})
	}
}

func TestLocalStorageLeadingSlashStaysInside(t *testing.T) {
	s, base := newLocal(t)

	url, err := s.UploadFile(context.Background(), strings.NewReader("x"), 1, "/posts/a.txt", "text/plain")
	require.NoError(t, err)
	assert.Equal(t, "http://localhost:8080/files/posts/a.txt", url)
	assert.FileExists(t, filepath.Join(base, "posts", "a.txt"))
	assert.Equal(t, "local", s.GetProviderName())
}
