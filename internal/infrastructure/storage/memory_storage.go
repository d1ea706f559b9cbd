package storage

import (
	"bytes"
	"context"
	"errors"
	"io"
	"net/url"
	"sync"
	"time"

	"github.com/google/uuid"
)

// MemoryObjectStorage keeps objects in process. It backs local development
// when S3 is disabled.
type MemoryObjectStorage struct {
	mu      sync.RWMutex
	objects map[string]memoryObject
	baseURL string
	expiry  time.Duration
}

type memoryObject struct {
	data        []byte
	contentType string
}

// NewMemoryObjectStorage creates an empty store whose download URLs start with baseURL
func NewMemoryObjectStorage(baseURL string) *MemoryObjectStorage {
	if baseURL == "" {
		baseURL = "http://localhost/storage"
	}
	return &MemoryObjectStorage{
		objects: make(map[string]memoryObject),
		baseURL: baseURL,
		expiry:  15 * time.Minute,
	}
}

// Key builds the object key of a document attachment
func (s *MemoryObjectStorage) Key(documentID uuid.UUID, fileName string) string {
	return ObjectKey("", documentID, fileName)
}

// Put stores body under key
func (s *MemoryObjectStorage) Put(_ context.Context, key string, body io.Reader, _ int64, contentType string) error {
	if key == "" {
		return errors.New("storage key is required")
	}
	data, err := io.ReadAll(body)
	if err != nil {
		return err
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.objects[key] = memoryObject{data: data, contentType: contentType}
	return nil
}

// Get returns a stored object
func (s *MemoryObjectStorage) Get(key string) (io.Reader, string, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	obj, ok := s.objects[key]
	if !ok {
		return nil, "", ErrObjectNotFound
	}
	return bytes.NewReader(obj.data), obj.contentType, nil
}

// PresignDownload returns a pseudo URL for key
func (s *MemoryObjectStorage) PresignDownload(_ context.Context, key, fileName string) (string, time.Time, error) {
	s.mu.RLock()
	_, ok := s.objects[key]
	s.mu.RUnlock()
	if !ok {
		return "", time.Time{}, ErrObjectNotFound
	}
	expiresAt := time.Now().Add(s.expiry)
	q := url.Values{}
	q.Set("expires", expiresAt.UTC().Format(time.RFC3339))
	if fileName != "" {
		q.Set("filename", fileName)
	}
	return s.baseURL + "/" + key + "?" + q.Encode(), expiresAt, nil
}

// Delete removes key
func (s *MemoryObjectStorage) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.objects, key)
	return nil
}

// Ping always succeeds
func (s *MemoryObjectStorage) Ping(context.Context) error {
	return nil
}
