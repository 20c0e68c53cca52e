package storage

import (
	"bytes"
	"context"
	"net/http"
	"net/http/httptest"
	"os"
	"path/filepath"
	"strings"
	"sync"
	"testing"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/credentials"
	"github.com/aws/aws-sdk-go-v2/service/s3"
	"github.com/ikkim/wallhub-backend/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLocalStorage_PutAndDelete(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(dir, "/uploads/")
	require.NoError(t, err)

	ctx := context.Background()
	data := []byte("image-bytes")
	url, err := store.Put(ctx, "wallpapers/a.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "/uploads/wallpapers/a.jpg", url)

	got, err := os.ReadFile(filepath.Join(dir, "wallpapers", "a.jpg"))
	require.NoError(t, err)
	assert.Equal(t, data, got)

	require.NoError(t, store.Delete(ctx, "wallpapers/a.jpg"))
	require.NoError(t, store.Delete(ctx, "wallpapers/a.jpg"))
	_, err = os.Stat(filepath.Join(dir, "wallpapers", "a.jpg"))
	assert.True(t, os.IsNotExist(err))
}

func TestLocalStorage_KeyCannotEscapeRoot(t *testing.T) {
	dir := t.TempDir()
	store, err := NewLocalStorage(filepath.Join(dir, "root"), "/uploads")
	require.NoError(t, err)

	_, err = store.Put(context.Background(), "../../escape.txt", bytes.NewReader([]byte("x")), 1, "text/plain")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(dir, "root", "escape.txt"))
	assert.NoError(t, err)
	_, err = os.Stat(filepath.Join(dir, "escape.txt"))
	assert.True(t, os.IsNotExist(err))
}

func newTestS3(t *testing.T, handler http.HandlerFunc) *S3Storage {
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	client := s3.New(s3.Options{
		Region:       "ap-northeast-2",
		BaseEndpoint: aws.String(srv.URL),
		UsePathStyle: true,
		Credentials:  credentials.NewStaticCredentialsProvider("key", "secret", ""),
	})
	return NewS3StorageWithClient(client, "wallhub-test", "https://cdn.example.com")
}

func TestS3Storage_PutAndDelete(t *testing.T) {
	var mu sync.Mutex
	var calls []string
	store := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		mu.Lock()
		calls = append(calls, r.Method+" "+r.URL.Path)
		mu.Unlock()
		if r.Method == http.MethodDelete {
			w.WriteHeader(http.StatusNoContent)
			return
		}
		w.WriteHeader(http.StatusOK)
	})

	ctx := context.Background()
	data := []byte("image-bytes")
	url, err := store.Put(ctx, "wallpapers/a.jpg", bytes.NewReader(data), int64(len(data)), "image/jpeg")
	require.NoError(t, err)
	assert.Equal(t, "https://cdn.example.com/wallpapers/a.jpg", url)

	require.NoError(t, store.Delete(ctx, "wallpapers/a.jpg"))

	assert.Equal(t, []string{
		"PUT /wallhub-test/wallpapers/a.jpg",
		"DELETE /wallhub-test/wallpapers/a.jpg",
	}, calls)
}

func TestS3Storage_Presign(t *testing.T) {
	store := newTestS3(t, func(w http.ResponseWriter, r *http.Request) {
		t.Errorf("unexpected request %s %s", r.Method, r.URL.Path)
	})

	resp, err := store.GeneratePresignedURLWithFolder(context.Background(), "photo.png", "image/png", "wallpapers")
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(resp.Key, "wallpapers/"))
	assert.True(t, strings.HasSuffix(resp.Key, ".png"))
	assert.Contains(t, resp.Key, "__")
	assert.Contains(t, resp.UploadURL, "X-Amz-Signature")
	assert.Equal(t, "https://cdn.example.com/"+resp.Key, resp.FileURL)
}

func TestNew(t *testing.T) {
	store, err := New(config.StorageConfig{Driver: "local", LocalDir: t.TempDir(), BaseURL: "/uploads"}, config.S3Config{})
	require.NoError(t, err)
	assert.IsType(t, &LocalStorage{}, store)

	_, err = New(config.StorageConfig{Driver: "ftp"}, config.S3Config{})
	assert.Error(t, err)
}

func TestValidators(t *testing.T) {
	assert.NoError(t, ValidateFileSize(10, 10))
	assert.Error(t, ValidateFileSize(11, 10))
	assert.NoError(t, ValidateContentType("image/png", []string{"image/jpeg", "image/png"}))
	assert.Error(t, ValidateContentType("text/html", []string{"image/jpeg"}))
}
