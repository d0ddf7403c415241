// Package storage provides the key-value backends behind the preference store.
package storage

import (
	"fmt"

	"github.com/soldbyofficial/backend/internal/domain"
)

// Store is a key-value backend that may hold resources.
type Store interface {
	domain.KeyValueStore
	Close() error
}

type memoryCloser struct {
	*MemoryStore
}

func (memoryCloser) Close() error { return nil }

// Open builds the backend named by storeType ("memory" or "sqlite").
func Open(storeType, path string) (Store, error) {
	switch storeType {
	case "memory":
		return memoryCloser{NewMemoryStore()}, nil
	case "sqlite":
		return NewSQLiteStore(path)
	default:
		return nil, fmt.Errorf("unknown storage type %q", storeType)
	}
}
