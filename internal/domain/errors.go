package domain

import "errors"

var (
	// ErrInvalidURL is returned when a string is not an absolute URL
	ErrInvalidURL = errors.New("not an absolute URL")

	// ErrCorruptedPreferenceState is returned when the stored on/off blob is not an object
	ErrCorruptedPreferenceState = errors.New("unexpected onOff options type")

	// ErrKeyNotFound is returned when a key is absent from the key-value store
	ErrKeyNotFound = errors.New("key not found")

	// ErrUnknownSite is returned when a site id is not in the registry
	ErrUnknownSite = errors.New("unknown site")

	// ErrRateLimited is returned when rate limit is exceeded
	ErrRateLimited = errors.New("rate limit exceeded")

	// ErrInvalidRequest is returned when request parameters are invalid
	ErrInvalidRequest = errors.New("invalid request parameters")

	// ErrStoreUnavailable is returned when the preference backend cannot be reached
	ErrStoreUnavailable = errors.New("preference store unavailable")
)
