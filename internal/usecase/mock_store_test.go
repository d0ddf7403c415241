package usecase

import (
	"context"
	"encoding/json"

	"github.com/soldbyofficial/backend/internal/domain"
)

// MockKeyValueStore is a mock implementation of domain.KeyValueStore that
// behaves like the browser's local storage.
type MockKeyValueStore struct {
	data         map[string]any
	getError     error
	setError     error
	getCalls     int
	lookupCalls  int
	setCalls     int
	lastFallback any
}

func NewMockKeyValueStore() *MockKeyValueStore {
	return &MockKeyValueStore{
		data: make(map[string]any),
	}
}

// seed stores value after a JSON round trip, like a real backend would.
func (m *MockKeyValueStore) seed(key string, value any) {
	raw, err := json.Marshal(value)
	if err != nil {
		panic(err)
	}
	var decoded any
	if err := json.Unmarshal(raw, &decoded); err != nil {
		panic(err)
	}
	m.data[key] = decoded
}

func (m *MockKeyValueStore) Get(ctx context.Context, key string, fallback any) (any, error) {
	m.getCalls++
	m.lastFallback = fallback
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return fallback, nil
}

func (m *MockKeyValueStore) Lookup(ctx context.Context, key string) (any, error) {
	m.lookupCalls++
	if m.getError != nil {
		return nil, m.getError
	}
	if value, ok := m.data[key]; ok {
		return value, nil
	}
	return nil, domain.ErrKeyNotFound
}

func (m *MockKeyValueStore) Set(ctx context.Context, key string, value any) error {
	m.setCalls++
	if m.setError != nil {
		return m.setError
	}
	m.seed(key, value)
	return nil
}

func (m *MockKeyValueStore) Delete(ctx context.Context, key string) error {
	delete(m.data, key)
	return nil
}
