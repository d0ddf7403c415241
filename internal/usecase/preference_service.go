package usecase

import (
	"context"
	"errors"
	"fmt"
	"math"

	"github.com/soldbyofficial/backend/internal/domain"
	"github.com/soldbyofficial/backend/internal/logging"
)

// OnOffKey is the store key holding the per-site on/off mapping.
const OnOffKey = "onOff"

// PreferenceService reads and toggles per-site on/off flags kept as one
// mapping under OnOffKey. Sites without an entry are on.
type PreferenceService struct {
	store domain.KeyValueStore
}

// NewPreferenceService creates a preference service backed by store
func NewPreferenceService(store domain.KeyValueStore) *PreferenceService {
	return &PreferenceService{store: store}
}

// Enabled reports whether the extension is on for siteID. The "on" default
// is handed to the store as the fallback of the read itself, so a site that
// was never toggled reads as on without a write.
//
// A stored value that is not an object fails with
// domain.ErrCorruptedPreferenceState.
func (s *PreferenceService) Enabled(ctx context.Context, siteID string) (bool, error) {
	raw, err := s.store.Get(ctx, OnOffKey, map[string]any{siteID: true})
	if err != nil {
		return false, err
	}

	options, ok := raw.(map[string]any)
	if !ok {
		return false, fmt.Errorf("%w: %T", domain.ErrCorruptedPreferenceState, raw)
	}

	value, present := options[siteID]
	if !present {
		return true, nil
	}
	return truthy(value), nil
}

// Toggle flips the flag for siteID and returns the new value.
//
// Unlike Enabled, a missing or malformed mapping is replaced by an empty
// one rather than reported. The read-modify-write is not atomic: two
// concurrent toggles of the same site may lose an update.
func (s *PreferenceService) Toggle(ctx context.Context, siteID string) (bool, error) {
	logger := logging.FromContext(logging.WithComponent(ctx, "preferences"))

	raw, err := s.store.Lookup(ctx, OnOffKey)
	if err != nil && !errors.Is(err, domain.ErrKeyNotFound) {
		return false, err
	}

	options, ok := raw.(map[string]any)
	if !ok {
		if err == nil {
			logger.Warn().
				Str("type", fmt.Sprintf("%T", raw)).
				Msg("replacing malformed onOff options")
		}
		options = map[string]any{}
	}

	current := true
	if value, present := options[siteID]; present {
		current = truthy(value)
	}
	next := !current

	merged := make(map[string]any, len(options)+1)
	for k, v := range options {
		merged[k] = v
	}
	merged[siteID] = next

	if err := s.store.Set(ctx, OnOffKey, merged); err != nil {
		return false, err
	}

	logger.Debug().Str("site_id", siteID).Bool("enabled", next).Msg("toggled site")
	return next, nil
}

// truthy mirrors the loose boolean conversion the extension applied to
// stored values: false, "", 0, NaN and null are off.
func truthy(v any) bool {
	switch t := v.(type) {
	case nil:
		return false
	case bool:
		return t
	case string:
		return t != ""
	case float64:
		return t != 0 && !math.IsNaN(t)
	case int:
		return t != 0
	case int64:
		return t != 0
	default:
		return true
	}
}
