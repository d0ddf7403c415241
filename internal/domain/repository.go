package domain

import "context"

// KeyValueStore is the extension's private key-value storage.
// Values are JSON-like: map[string]any, []any, string, float64, bool or nil.
type KeyValueStore interface {
	// Get returns the value stored under key, or fallback when key is unset.
	// A key explicitly set to nil is not unset.
	Get(ctx context.Context, key string, fallback any) (any, error)
	// Lookup returns the raw value under key, or ErrKeyNotFound.
	Lookup(ctx context.Context, key string) (any, error)
	Set(ctx context.Context, key string, value any) error
	Delete(ctx context.Context, key string) error
}

// PreferenceRepository reads and flips the per-site on/off flags.
type PreferenceRepository interface {
	Enabled(ctx context.Context, siteID string) (bool, error)
	Toggle(ctx context.Context, siteID string) (bool, error)
}
