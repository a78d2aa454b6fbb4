// Package blob stores uploaded statement files.
package blob

import (
	"context"
	"errors"
	"fmt"
	"io"
	"path"
	"strings"
	"sync"
	"time"

	gcsstorage "cloud.google.com/go/storage"
)

// ErrNotFound is returned when an object does not exist.
var ErrNotFound = errors.New("object not found")

// Store persists raw upload bytes by object path.
type Store interface {
	Put(ctx context.Context, objectPath, contentType string, data []byte) error
	Get(ctx context.Context, objectPath string) ([]byte, error)
}

// UploadPath builds the object path for a user's uploaded statement:
// csv-uploads/{uid}/{unix-millis}-{name}.
func UploadPath(userID, fileName string, now time.Time) string {
	name := path.Base(strings.ReplaceAll(fileName, "\\", "/"))
	if name == "." || name == "/" || name == "" {
		name = "statement"
	}
	return fmt.Sprintf("csv-uploads/%s/%d-%s", userID, now.UnixMilli(), name)
}

// GCSStore keeps objects in a Cloud Storage bucket.
type GCSStore struct {
	bucket *gcsstorage.BucketHandle
}

// NewGCSStore wraps a bucket handle.
func NewGCSStore(bucket *gcsstorage.BucketHandle) *GCSStore {
	return &GCSStore{bucket: bucket}
}

func (s *GCSStore) Put(ctx context.Context, objectPath, contentType string, data []byte) error {
	w := s.bucket.Object(objectPath).NewWriter(ctx)
	w.ContentType = contentType
	if _, err := w.Write(data); err != nil {
		w.Close()
		return fmt.Errorf("write %s: %w", objectPath, err)
	}
	if err := w.Close(); err != nil {
		return fmt.Errorf("close %s: %w", objectPath, err)
	}
	return nil
}

func (s *GCSStore) Get(ctx context.Context, objectPath string) ([]byte, error) {
	reader, err := s.bucket.Object(objectPath).NewReader(ctx)
	if err != nil {
		if errors.Is(err, gcsstorage.ErrObjectNotExist) {
			return nil, fmt.Errorf("%s: %w", objectPath, ErrNotFound)
		}
		return nil, fmt.Errorf("open %s: %w", objectPath, err)
	}
	defer reader.Close()

	data, err := io.ReadAll(reader)
	if err != nil {
		return nil, fmt.Errorf("read %s: %w", objectPath, err)
	}
	return data, nil
}

// MemoryStore keeps objects in process memory, for local development.
type MemoryStore struct {
	mu      sync.RWMutex
	objects map[string][]byte
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{objects: make(map[string][]byte)}
}

func (s *MemoryStore) Put(ctx context.Context, objectPath, contentType string, data []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[objectPath] = append([]byte(nil), data...)
	return nil
}

func (s *MemoryStore) Get(ctx context.Context, objectPath string) ([]byte, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	data, ok := s.objects[objectPath]
	if !ok {
		return nil, fmt.Errorf("%s: %w", objectPath, ErrNotFound)
	}
	return append([]byte(nil), data...), nil
}
