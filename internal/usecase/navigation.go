package usecase

import (
	"context"

	"github.com/soldbyofficial/backend/internal/urlparam"
)

// MainFrameID identifies the top-level frame of a tab.
const MainFrameID = 0

// NavigationEvent is a "before navigate", "committed" or history-state
// update reported by the browser.
type NavigationEvent struct {
	URL     string `json:"url" binding:"required"`
	FrameID int    `json:"frameId"`
	TabID   int    `json:"tabId"`
}

// NavigationResult tells the caller whether to redirect the tab and what
// badge to show.
type NavigationResult struct {
	TabID       int    `json:"tabId"`
	Redirect    bool   `json:"redirect"`
	RedirectURL string `json:"redirectUrl,omitempty"`
	Badge       string `json:"badge"`
	Skipped     bool   `json:"skipped,omitempty"`
}

// ClickResult is the outcome of the toolbar button being pressed on a tab.
type ClickResult struct {
	TabID    int    `json:"tabId"`
	Redirect bool   `json:"redirect"`
	URL      string `json:"url,omitempty"`
	Badge    string `json:"badge"`
}

// HandleNavigation processes a main-frame navigation. A redirect is only
// requested when the activated URL differs from the current one, so the
// follow-up navigation does not loop.
func (s *RewriteService) HandleNavigation(ctx context.Context, ev NavigationEvent) (NavigationResult, error) {
	result := NavigationResult{TabID: ev.TabID}
	if ev.FrameID != MainFrameID {
		result.Skipped = true
		return result, nil
	}

	target, ok, err := s.ActivationURL(ctx, ev.URL)
	if err != nil {
		return result, err
	}
	if ok && !urlparam.Equal(ev.URL, target) {
		result.Redirect = true
		result.RedirectURL = target
	}

	badge, err := s.BadgeText(ctx, ev.URL)
	if err != nil {
		return result, err
	}
	result.Badge = badge

	return result, nil
}

// HandleClick toggles the site of the active tab.
func (s *RewriteService) HandleClick(ctx context.Context, tabID int, rawURL string) (ClickResult, error) {
	result := ClickResult{TabID: tabID}

	target, ok, err := s.ToggleURL(ctx, rawURL)
	if err != nil {
		return result, err
	}
	if ok && !urlparam.Equal(rawURL, target) {
		result.Redirect = true
		result.URL = target
	}

	badge, err := s.BadgeText(ctx, rawURL)
	if err != nil {
		return result, err
	}
	result.Badge = badge

	return result, nil
}
