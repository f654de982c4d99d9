package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// SitesHandler lists curated job sites with an optional country filter.
type SitesHandler struct {
	renderer *Renderer
	client   *backend.Client
	sessions *session.Store
	logger   *zap.Logger
}

// NewSitesHandler constructs handler.
func NewSitesHandler(renderer *Renderer, client *backend.Client, sessions *session.Store, logger *zap.Logger) *SitesHandler {
	return &SitesHandler{renderer: renderer, client: client, sessions: sessions, logger: logger}
}

// sitesData is the site list plus the filter it was produced with.
type sitesData struct {
	Country string
	Sites   []domain.JobSite
}

// List handles GET /sites.
func (h *SitesHandler) List(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sess := CurrentSession(c, h.sessions)

	country := c.Query("country")
	sites, ok := h.client.JobSites(ctx, sess.AccessToken, country)
	if !ok {
		h.logger.Warn("job sites fetch failed", zap.String("country", country))
	}

	return h.renderer.Render(c, fiber.StatusOK, "sites", PageData{
		Title:   "Job Sites",
		NavAuth: true,
		User:    sess.User,
		Data:    sitesData{Country: country, Sites: sites},
	})
}
