package objectstore

import (
	"context"
	"fmt"
	"io"
	"sync"
)

// Object is a blob held by MemoryStore.
type Object struct {
	ContentType string
	Data        []byte
}

// MemoryStore keeps uploads in process. Used for local development and tests.
type MemoryStore struct {
	baseURL string

	mu        sync.Mutex
	objects   map[string]Object
	uploadErr error
}

func NewMemoryStore(baseURL string) *MemoryStore {
	return &MemoryStore{baseURL: baseURL, objects: make(map[string]Object)}
}

// FailUploads makes every subsequent Upload return err.
func (s *MemoryStore) FailUploads(err error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.uploadErr = err
}

func (s *MemoryStore) Upload(ctx context.Context, path, contentType string, body io.Reader) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	s.mu.Lock()
	failErr := s.uploadErr
	s.mu.Unlock()
	if failErr != nil {
		return "", failErr
	}

	data, err := io.ReadAll(body)
	if err != nil {
		return "", fmt.Errorf("upload %s: %w", path, err)
	}

	s.mu.Lock()
	s.objects[path] = Object{ContentType: contentType, Data: data}
	s.mu.Unlock()

	return s.baseURL + "/" + path, nil
}

func (s *MemoryStore) Object(path string) (Object, bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	o, ok := s.objects[path]
	return o, ok
}
