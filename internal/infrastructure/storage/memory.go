package storage

import (
	"context"
	"encoding/json"
	"sync"

	"github.com/soldbyofficial/backend/internal/domain"
)

// MemoryStore is a thread-safe in-memory key-value store. Each call is
// atomic on its own; sequences of calls are not.
type MemoryStore struct {
	data  map[string]any
	mutex sync.RWMutex
}

// NewMemoryStore creates an empty in-memory store
func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		data: make(map[string]any),
	}
}

// Get retrieves the value under key, or fallback when the key is unset
func (s *MemoryStore) Get(ctx context.Context, key string, fallback any) (any, error) {
	value, err := s.Lookup(ctx, key)
	if err == domain.ErrKeyNotFound {
		return fallback, nil
	}
	return value, err
}

// Lookup retrieves the raw value under key
func (s *MemoryStore) Lookup(ctx context.Context, key string) (any, error) {
	s.mutex.RLock()
	defer s.mutex.RUnlock()

	value, exists := s.data[key]
	if !exists {
		return nil, domain.ErrKeyNotFound
	}

	return value, nil
}

// Set stores a value under key
func (s *MemoryStore) Set(ctx context.Context, key string, value any) error {
	// Serialize to JSON and back so readers see the same shapes the
	// SQLite store returns (map[string]any, []any, float64).
	storedValue, err := roundTrip(value)
	if err != nil {
		return err
	}

	s.mutex.Lock()
	defer s.mutex.Unlock()

	s.data[key] = storedValue
	return nil
}

// Delete removes a value from the store
func (s *MemoryStore) Delete(ctx context.Context, key string) error {
	s.mutex.Lock()
	defer s.mutex.Unlock()

	delete(s.data, key)
	return nil
}

func roundTrip(value any) (any, error) {
	jsonData, err := json.Marshal(value)
	if err != nil {
		return nil, err
	}

	var out any
	if err := json.Unmarshal(jsonData, &out); err != nil {
		return nil, err
	}
	return out, nil
}
