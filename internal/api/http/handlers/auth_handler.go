package handlers

import (
	"errors"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/dto"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// AuthHandler serves the credential form and logout.
type AuthHandler struct {
	renderer *Renderer
	client   *backend.Client
	sessions *session.Store
	logger   *zap.Logger
}

// NewAuthHandler constructs handler.
func NewAuthHandler(renderer *Renderer, client *backend.Client, sessions *session.Store, logger *zap.Logger) *AuthHandler {
	return &AuthHandler{renderer: renderer, client: client, sessions: sessions, logger: logger}
}

// loginData carries the prefilled email back into the form.
type loginData struct {
	Email string
}

// Show handles GET /login.
func (h *AuthHandler) Show(c *fiber.Ctx) error {
	return h.renderer.Render(c, fiber.StatusOK, "login", PageData{
		Title: "Log In",
		Data:  loginData{Email: c.Query("email")},
	})
}

// Submit handles POST /login. On success the tokens land in the session and
// the subscriber gate decides whether the dashboard opens.
func (h *AuthHandler) Submit(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	ctx := c.UserContext()
	sid := SessionID(c)

	pair, err := h.client.Login(ctx, form.Email, form.Password)
	if err != nil {
		msg := "Unable to reach the server. Please try again."
		if errors.Is(err, backend.ErrInvalidCredentials) {
			msg = "Invalid email or password. Please try again."
		}
		return h.renderer.Render(c, fiber.StatusUnauthorized, "login", PageData{
			Title: "Log In",
			Error: msg,
			Data:  loginData{Email: form.Email},
		})
	}

	if err := h.sessions.SetTokens(ctx, sid, pair.Access, pair.Refresh); err != nil {
		h.logger.Warn("storing tokens failed", zap.Error(err))
	}
	return c.Redirect("/dashboard")
}

// Logout handles GET /logout.
func (h *AuthHandler) Logout(c *fiber.Ctx) error {
	if err := h.sessions.Logout(c.UserContext(), SessionID(c)); err != nil {
		h.logger.Warn("logout failed", zap.Error(err))
	}
	return c.Redirect("/")
}
