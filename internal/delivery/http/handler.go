package http

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/soldbyofficial/backend/internal/domain"
	"github.com/soldbyofficial/backend/internal/logging"
	"github.com/soldbyofficial/backend/internal/usecase"
)

// Version is reported by the health endpoint
var Version = "1.0.0"

// RewriteUsecase is the part of the rewrite service the HTTP layer drives
type RewriteUsecase interface {
	ActivationURL(ctx context.Context, rawURL string) (string, bool, error)
	DeactivationURL(ctx context.Context, rawURL string) (string, bool)
	BadgeText(ctx context.Context, rawURL string) (string, error)
	HandleNavigation(ctx context.Context, ev usecase.NavigationEvent) (usecase.NavigationResult, error)
	HandleClick(ctx context.Context, tabID int, rawURL string) (usecase.ClickResult, error)
	Sites(ctx context.Context) ([]domain.SiteStatus, error)
	ToggleSite(ctx context.Context, siteID string) (bool, error)
}

// Handler holds dependencies for HTTP handlers
type Handler struct {
	rewrite     RewriteUsecase
	infoPageURL string
}

// NewHandler creates a new HTTP handler
func NewHandler(rewrite RewriteUsecase, infoPageURL string) *Handler {
	return &Handler{
		rewrite:     rewrite,
		infoPageURL: infoPageURL,
	}
}

type urlRequest struct {
	URL string `json:"url" binding:"required"`
}

type clickRequest struct {
	URL   string `json:"url" binding:"required"`
	TabID int    `json:"tabId"`
}

type urlResponse struct {
	URL     string `json:"url,omitempty"`
	Matched bool   `json:"matched"`
}

type siteResponse struct {
	ID         string `json:"id"`
	Name       string `json:"name"`
	Pattern    string `json:"pattern"`
	ParamKey   string `json:"paramKey"`
	ParamValue string `json:"paramValue"`
	Policy     string `json:"policy"`
	Delimiter  string `json:"delimiter,omitempty"`
	Enabled    bool   `json:"enabled"`
}

// HealthCheck returns the health status of the API
func (h *Handler) HealthCheck(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"status":  "healthy",
		"service": "soldby-backend",
		"version": Version,
	})
}

// Navigation handles before-navigate, committed and history-state events
func (h *Handler) Navigation(c *gin.Context) {
	var ev usecase.NavigationEvent
	if err := c.ShouldBindJSON(&ev); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := logging.WithURL(c.Request.Context(), ev.URL)
	result, err := h.rewrite.HandleNavigation(ctx, ev)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Toggle handles a click on the toolbar button
func (h *Handler) Toggle(c *gin.Context) {
	var req clickRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	ctx := logging.WithURL(c.Request.Context(), req.URL)
	result, err := h.rewrite.HandleClick(ctx, req.TabID, req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// Activate returns the filtered URL for an enabled site
func (h *Handler) Activate(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, ok, err := h.rewrite.ActivationURL(c.Request.Context(), req.URL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, urlResponse{URL: out, Matched: ok})
}

// Deactivate returns the URL with the seller filter removed
func (h *Handler) Deactivate(c *gin.Context) {
	var req urlRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.badRequest(c, err)
		return
	}

	out, ok := h.rewrite.DeactivationURL(c.Request.Context(), req.URL)
	c.JSON(http.StatusOK, urlResponse{URL: out, Matched: ok})
}

// Badge returns the toolbar badge text for ?url=
func (h *Handler) Badge(c *gin.Context) {
	rawURL := c.Query("url")
	if rawURL == "" {
		h.badRequest(c, errors.New("url query parameter is required"))
		return
	}

	badge, err := h.rewrite.BadgeText(c.Request.Context(), rawURL)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"badge": badge})
}

// ListSites returns the registry with each site's preference
func (h *Handler) ListSites(c *gin.Context) {
	statuses, err := h.rewrite.Sites(c.Request.Context())
	if err != nil {
		h.handleError(c, err)
		return
	}

	out := make([]siteResponse, 0, len(statuses))
	for _, st := range statuses {
		resp := siteResponse{
			ID:         st.Site.ID,
			Name:       st.Site.Name,
			ParamKey:   st.Site.Param.Key,
			ParamValue: st.Site.Param.Value,
			Policy:     st.Site.Policy.String(),
			Delimiter:  st.Site.Delimiter,
			Enabled:    st.Enabled,
		}
		if st.Site.Pattern != nil {
			resp.Pattern = st.Site.Pattern.String()
		}
		out = append(out, resp)
	}

	c.JSON(http.StatusOK, gin.H{"sites": out})
}

// ToggleSite flips the preference of the site named in the path
func (h *Handler) ToggleSite(c *gin.Context) {
	siteID := c.Param("id")

	enabled, err := h.rewrite.ToggleSite(c.Request.Context(), siteID)
	if err != nil {
		h.handleError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"id": siteID, "enabled": enabled})
}

// Lifecycle returns the page to open after install or update
func (h *Handler) Lifecycle(c *gin.Context) {
	page, ok := usecase.LifecyclePage(h.infoPageURL, c.Param("reason"))
	if !ok {
		c.JSON(http.StatusNotFound, gin.H{"error": "no page for reason " + c.Param("reason")})
		return
	}

	c.JSON(http.StatusOK, gin.H{"url": page})
}

func (h *Handler) badRequest(c *gin.Context, err error) {
	c.JSON(http.StatusBadRequest, gin.H{
		"error":   domain.ErrInvalidRequest.Error(),
		"details": err.Error(),
	})
}

// handleError maps usecase errors to status codes
func (h *Handler) handleError(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	code := "internal_error"

	switch {
	case errors.Is(err, domain.ErrCorruptedPreferenceState):
		code = "corrupted_preference_state"
	case errors.Is(err, domain.ErrUnknownSite):
		status = http.StatusNotFound
		code = "unknown_site"
	case errors.Is(err, domain.ErrStoreUnavailable):
		status = http.StatusServiceUnavailable
		code = "store_unavailable"
	}

	logging.FromContext(c.Request.Context()).Error().Err(err).Int("status", status).Msg("request failed")

	c.JSON(status, gin.H{
		"error": err.Error(),
		"code":  code,
	})
}
