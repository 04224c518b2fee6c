package storage

import (
	"context"
	"errors"
	"strings"
	"sync"
	"time"
)

// StubStorage is an in-memory ObjectStorage for development and tests.
// It tracks which keys have been "uploaded" so the confirmation flow
// behaves like the real thing.
type StubStorage struct {
	baseURL string

	mu   sync.RWMutex
	keys map[string]bool
}

func NewStubStorage(baseURL string) *StubStorage {
	if baseURL == "" {
		baseURL = "https://storage.invalid"
	}
	return &StubStorage{
		baseURL: strings.TrimSuffix(baseURL, "/"),
		keys:    make(map[string]bool),
	}
}

func (s *StubStorage) GenerateUploadURL(_ context.Context, storageKey, _ string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}

	s.mu.Lock()
	s.keys[storageKey] = true
	s.mu.Unlock()

	expiresAt := time.Now().Add(expiresIn)
	return s.baseURL + "/upload/" + storageKey, expiresAt, nil
}

func (s *StubStorage) GenerateDownloadURL(_ context.Context, storageKey string, expiresIn time.Duration) (string, time.Time, error) {
	if storageKey == "" {
		return "", time.Time{}, errors.New("storage key is required")
	}
	if expiresIn <= 0 {
		expiresIn = defaultPresignExpiration
	}
	return s.baseURL + "/download/" + storageKey, time.Now().Add(expiresIn), nil
}

func (s *StubStorage) PublicURL(storageKey string) string {
	return s.baseURL + "/" + storageKey
}

func (s *StubStorage) DeleteObject(_ context.Context, storageKey string) error {
	if storageKey == "" {
		return errors.New("storage key is required")
	}
	s.mu.Lock()
	delete(s.keys, storageKey)
	s.mu.Unlock()
	return nil
}

func (s *StubStorage) ObjectExists(_ context.Context, storageKey string) (bool, error) {
	if storageKey == "" {
		return false, errors.New("storage key is required")
	}
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.keys[storageKey], nil
}

var _ ObjectStorage = (*StubStorage)(nil)
