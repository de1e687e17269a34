// Package session holds the admin bearer token between requests.
//
// Every Store tolerates a broken backend: read failures mean "no token" and
// write failures are logged and dropped, so the API client keeps working
// unauthenticated instead of failing.
package session

import (
	"context"
	"sync"
)

// Store reads and writes the single current bearer token. An empty string
// means logged out.
type Store interface {
	Get(ctx context.Context) string
	Set(ctx context.Context, token string)
	Clear(ctx context.Context)
}

// MemoryStore keeps the token in process memory.
type MemoryStore struct {
	mu    sync.RWMutex
	token string
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{}
}

func (s *MemoryStore) Get(context.Context) string {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return s.token
}

func (s *MemoryStore) Set(_ context.Context, token string) {
	s.mu.Lock()
	s.token = token
	s.mu.Unlock()
}

func (s *MemoryStore) Clear(context.Context) {
	s.mu.Lock()
	s.token = ""
	s.mu.Unlock()
}
