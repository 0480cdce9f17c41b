package storage

import (
	"context"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/otion-app/otion/internal/config"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// fakeS3 records object writes made through the path-style API.
type fakeS3 struct {
	mu      sync.Mutex
	objects map[string]string
	types   map[string]string
}

func (f *fakeS3) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	f.mu.Lock()
	defer f.mu.Unlock()

	key := strings.TrimPrefix(r.URL.Path, "/")
	switch r.Method {
	case http.MethodHead:
		w.WriteHeader(http.StatusOK)
	case http.MethodPut:
		body, _ := io.ReadAll(r.Body)
		f.objects[key] = string(body)
		f.types[key] = r.Header.Get("Content-Type")
		w.WriteHeader(http.StatusOK)
	case http.MethodDelete:
		delete(f.objects, key)
		w.WriteHeader(http.StatusNoContent)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func newTestStorage(t *testing.T) (*S3Storage, *fakeS3) {
	t.Helper()
	fake := &fakeS3{objects: map[string]string{}, types: map[string]string{}}
	srv := httptest.NewServer(fake)
	t.Cleanup(srv.Close)

	s, err := NewS3Storage(context.Background(), S3Config{
		Region:    "us-east-1",
		Bucket:    "otion",
		AccessKey: "test",
		SecretKey: "test",
		Endpoint:  srv.URL,
	})
	require.NoError(t, err)
	return s, fake
}

func TestS3Storage_SaveDelete(t *testing.T) {
	s, fake := newTestStorage(t)
	ctx := context.Background()

	require.NoError(t, s.Save(ctx, "public/posts/a.png", "image/png", strings.NewReader("png-bytes")))
	fake.mu.Lock()
	assert.Contains(t, fake.objects["otion/public/posts/a.png"], "png-bytes")
	assert.Equal(t, "image/png", fake.types["otion/public/posts/a.png"])
	fake.mu.Unlock()

	require.NoError(t, s.Delete(ctx, "public/posts/a.png"))
	fake.mu.Lock()
	assert.NotContains(t, fake.objects, "otion/public/posts/a.png")
	fake.mu.Unlock()
}

func TestS3Storage_URLRoundTrip(t *testing.T) {
	s, _ := newTestStorage(t)

	url := s.URL("public/wardrobe/b.jpg")
	assert.True(t, strings.HasSuffix(url, "/otion/public/wardrobe/b.jpg"))

	path, ok := s.Path(url)
	assert.True(t, ok)
	assert.Equal(t, "public/wardrobe/b.jpg", path)

	_, ok = s.Path("data:image/png;base64,AA==")
	assert.False(t, ok)
	_, ok = s.Path("https://elsewhere.example.com/x.png")
	assert.False(t, ok)
}

func TestPublicURL(t *testing.T) {
	assert.Equal(t, "https://cdn.example.com", publicURL(S3Config{PublicURL: "https://cdn.example.com/", Bucket: "b"}))
	assert.Equal(t, "http://minio:9000/b", publicURL(S3Config{Endpoint: "http://minio:9000/", Bucket: "b"}))
	assert.Equal(t, "https://b.s3.eu-west-1.amazonaws.com", publicURL(S3Config{Bucket: "b", Region: "eu-west-1"}))
}

func TestNewWithoutBucket(t *testing.T) {
	s, err := New(context.Background(), &config.Config{})
	require.NoError(t, err)
	assert.Nil(t, s)
}
