package handlers

import (
	"time"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// DashboardHandler renders the subscriber's curated dashboard.
type DashboardHandler struct {
	renderer *Renderer
	client   *backend.Client
	sessions *session.Store
	logger   *zap.Logger
}

// NewDashboardHandler constructs handler.
func NewDashboardHandler(renderer *Renderer, client *backend.Client, sessions *session.Store, logger *zap.Logger) *DashboardHandler {
	return &DashboardHandler{renderer: renderer, client: client, sessions: sessions, logger: logger}
}

// dashboardData is everything the dashboard template shows.
type dashboardData struct {
	Country          string
	EndDate          *time.Time
	Sites            []domain.JobSite
	PopularCountries []domain.PopularCountry
	ShowAll          bool
}

// Show handles GET /dashboard. The subscriber guard already confirmed the
// subscription, so a fetch hiccup here degrades to an empty list rather than
// another redirect.
func (h *DashboardHandler) Show(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sess := CurrentSession(c, h.sessions)
	showAll := c.Query("all") == "1"

	res := h.client.Dashboard(ctx, sess.AccessToken)
	if !res.OK {
		h.logger.Warn("dashboard fetch failed after gate pass", zap.Int("status", res.Status))
	}

	data := dashboardData{
		Country: res.Subscription.Country,
		EndDate: res.Subscription.EndDate,
		Sites:   res.JobSites,
		ShowAll: showAll,
	}

	if showAll {
		if sites, ok := h.client.JobSites(ctx, sess.AccessToken, ""); ok {
			data.Sites = sites
		}
	}
	if popular, ok := h.client.PopularCountries(ctx, sess.AccessToken); ok {
		data.PopularCountries = popular
	}

	return h.renderer.Render(c, fiber.StatusOK, "dashboard", PageData{
		Title:   "Your Dashboard",
		NavAuth: true,
		User:    sess.User,
		Data:    data,
	})
}
