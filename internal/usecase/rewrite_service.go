package usecase

import (
	"context"
	"fmt"

	"github.com/soldbyofficial/backend/internal/domain"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/sites"
)

// Badge texts shown on the toolbar icon
const (
	BadgeOn   = "ON"
	BadgeOff  = "OFF"
	BadgeNone = ""
)

// RewriteService decides how a page URL should be rewritten for a site
// registry and a set of per-site preferences.
type RewriteService struct {
	registry sites.Registry
	prefs    domain.PreferenceRepository
}

// NewRewriteService creates a rewrite service with dependencies
func NewRewriteService(registry sites.Registry, prefs domain.PreferenceRepository) *RewriteService {
	return &RewriteService{
		registry: registry,
		prefs:    prefs,
	}
}

// Match returns the registered site for rawURL, if any
func (s *RewriteService) Match(rawURL string) (domain.Site, bool) {
	return s.registry.FindMatch(rawURL)
}

// ActivationURL returns the URL with the seller filter applied when the
// matching site is enabled. ok is false when no site matches, the site is
// disabled, or the transform could not apply.
func (s *RewriteService) ActivationURL(ctx context.Context, rawURL string) (string, bool, error) {
	site, ok := s.registry.FindMatch(rawURL)
	if !ok {
		return "", false, nil
	}

	enabled, err := s.prefs.Enabled(ctx, site.ID)
	if err != nil {
		return "", false, fmt.Errorf("reading preference for %s: %w", site.ID, err)
	}
	if !enabled {
		return "", false, nil
	}

	out, ok := sites.Activate(ctx, site, rawURL)
	return out, ok, nil
}

// DeactivationURL returns the URL with the seller filter removed. The
// preference is not consulted.
func (s *RewriteService) DeactivationURL(ctx context.Context, rawURL string) (string, bool) {
	site, ok := s.registry.FindMatch(rawURL)
	if !ok {
		return "", false
	}
	return sites.Deactivate(ctx, site, rawURL)
}

// ToggleURL flips the matching site's preference and returns the URL for
// the new state: activated when now on, deactivated when now off.
func (s *RewriteService) ToggleURL(ctx context.Context, rawURL string) (string, bool, error) {
	site, ok := s.registry.FindMatch(rawURL)
	if !ok {
		return "", false, nil
	}

	enabled, err := s.prefs.Toggle(ctx, site.ID)
	if err != nil {
		return "", false, fmt.Errorf("toggling %s: %w", site.ID, err)
	}

	logger := logging.FromContext(logging.WithComponent(ctx, "rewrite"))
	logger.Info().Str("site_id", site.ID).Bool("enabled", enabled).Msg("site toggled")

	if enabled {
		out, ok := sites.Activate(ctx, site, rawURL)
		return out, ok, nil
	}
	out, ok := sites.Deactivate(ctx, site, rawURL)
	return out, ok, nil
}

// BadgeText returns "ON" or "OFF" for a matching site and "" otherwise
func (s *RewriteService) BadgeText(ctx context.Context, rawURL string) (string, error) {
	site, ok := s.registry.FindMatch(rawURL)
	if !ok {
		return BadgeNone, nil
	}

	enabled, err := s.prefs.Enabled(ctx, site.ID)
	if err != nil {
		return BadgeNone, fmt.Errorf("reading preference for %s: %w", site.ID, err)
	}
	if enabled {
		return BadgeOn, nil
	}
	return BadgeOff, nil
}

// Sites lists the registry in order with each site's current preference
func (s *RewriteService) Sites(ctx context.Context) ([]domain.SiteStatus, error) {
	out := make([]domain.SiteStatus, 0, len(s.registry))
	for _, site := range s.registry {
		enabled, err := s.prefs.Enabled(ctx, site.ID)
		if err != nil {
			return nil, fmt.Errorf("reading preference for %s: %w", site.ID, err)
		}
		out = append(out, domain.SiteStatus{Site: site, Enabled: enabled})
	}
	return out, nil
}

// ToggleSite flips the preference of a site addressed by id
func (s *RewriteService) ToggleSite(ctx context.Context, siteID string) (bool, error) {
	if _, ok := s.registry.Lookup(siteID); !ok {
		return false, fmt.Errorf("%w: %s", domain.ErrUnknownSite, siteID)
	}
	return s.prefs.Toggle(ctx, siteID)
}
