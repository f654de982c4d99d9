package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/content"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/gate"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// PagesHandler serves the public landing page, the staff page and the
// language switcher.
type PagesHandler struct {
	renderer *Renderer
	client   *backend.Client
	gate     *gate.Gate
	sessions *session.Store
	logger   *zap.Logger
}

// NewPagesHandler constructs handler.
func NewPagesHandler(renderer *Renderer, client *backend.Client, g *gate.Gate, sessions *session.Store, logger *zap.Logger) *PagesHandler {
	return &PagesHandler{renderer: renderer, client: client, gate: g, sessions: sessions, logger: logger}
}

// landingData feeds the hero and the popular-countries strip.
type landingData struct {
	PopularCountries []domain.PopularCountry
}

// Landing handles GET /. The authenticated navigation link only renders when
// the visitor's subscription is effectively active right now; a stale token
// alone is not enough.
func (h *PagesHandler) Landing(c *fiber.Ctx) error {
	ctx := c.UserContext()
	sess := CurrentSession(c, h.sessions)

	countries, ok := h.client.PopularCountries(ctx, sess.AccessToken)
	if !ok {
		h.logger.Debug("popular countries unavailable, rendering without them")
	}

	return h.renderer.Render(c, fiber.StatusOK, "landing", PageData{
		Title:   "Nova Educational Consultancy",
		NavAuth: h.gate.NavVisible(ctx, sess),
		User:    sess.User,
		Data:    landingData{PopularCountries: countries},
	})
}

// Admin handles GET /admin/. The admin guard has already vetted the token.
func (h *PagesHandler) Admin(c *fiber.Ctx) error {
	sess := CurrentSession(c, h.sessions)
	return h.renderer.Render(c, fiber.StatusOK, "admin", PageData{
		Title:   "Site Administration",
		NavAuth: true,
		User:    sess.User,
	})
}

// SwitchLanguage handles GET /lang/:code and bounces back to the referring
// page.
func (h *PagesHandler) SwitchLanguage(c *fiber.Ctx) error {
	code := c.Params("code")
	if content.Supported(code) {
		SetLanguage(c, code)
	}
	back := c.Get(fiber.HeaderReferer)
	if back == "" {
		back = "/"
	}
	return c.Redirect(back)
}
