package cache

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"

	"github.com/123shiju/ecommerce-client/internal/domain/shared"
)

// InMemoryLocalStore implements LocalStore in process memory.
// Values are JSON-encoded on Put so callers never share mutable state.
type InMemoryLocalStore struct {
	mu      sync.RWMutex
	entries map[string][]byte
}

// NewInMemoryLocalStore creates an empty store
func NewInMemoryLocalStore() *InMemoryLocalStore {
	return &InMemoryLocalStore{entries: make(map[string][]byte)}
}

// Get decodes the value under key into dst
func (s *InMemoryLocalStore) Get(_ context.Context, key string, dst any) error {
	s.mu.RLock()
	data, ok := s.entries[key]
	s.mu.RUnlock()
	if !ok {
		return shared.NewNotFoundError(fmt.Sprintf("no local value for %s", key))
	}
	if err := json.Unmarshal(data, dst); err != nil {
		return fmt.Errorf("failed to decode local value %s: %w", key, err)
	}
	return nil
}

// Put stores value under key
func (s *InMemoryLocalStore) Put(_ context.Context, key string, value any) error {
	data, err := json.Marshal(value)
	if err != nil {
		return fmt.Errorf("failed to encode local value %s: %w", key, err)
	}
	s.mu.Lock()
	s.entries[key] = data
	s.mu.Unlock()
	return nil
}

// Delete removes key
func (s *InMemoryLocalStore) Delete(_ context.Context, key string) error {
	s.mu.Lock()
	delete(s.entries, key)
	s.mu.Unlock()
	return nil
}

// Len returns the number of stored keys
func (s *InMemoryLocalStore) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.entries)
}

var _ shared.LocalStore = (*InMemoryLocalStore)(nil)
