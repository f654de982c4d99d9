package handlers

import (
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/dto"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

const applyLastStep = 3

// ApplyHandler serves the multi-step application form.
type ApplyHandler struct {
	renderer *Renderer
	client   *backend.Client
	sessions *session.Store
	logger   *zap.Logger
}

// NewApplyHandler constructs handler.
func NewApplyHandler(renderer *Renderer, client *backend.Client, sessions *session.Store, logger *zap.Logger) *ApplyHandler {
	return &ApplyHandler{renderer: renderer, client: client, sessions: sessions, logger: logger}
}

// applyData carries the form state across step renders.
type applyData struct {
	Step int
	Form dto.ApplyForm
}

// Show handles GET /apply.
func (h *ApplyHandler) Show(c *fiber.Ctx) error {
	return h.renderer.Render(c, fiber.StatusOK, "apply", PageData{
		Title: "Application Form",
		Data:  applyData{Step: 1},
	})
}

// Submit handles POST /apply. Intermediate steps re-render the form with the
// collected fields travelling as hidden inputs; the final step registers the
// applicant and hands off to payment.
func (h *ApplyHandler) Submit(c *fiber.Ctx) error {
	var form dto.ApplyForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}
	if form.Step < 1 || form.Step > applyLastStep {
		form.Step = 1
	}

	if form.Step < applyLastStep {
		return h.renderer.Render(c, fiber.StatusOK, "apply", PageData{
			Title: "Application Form",
			Data:  applyData{Step: form.Step + 1, Form: form},
		})
	}

	if missing := form.MissingRequired(); len(missing) > 0 {
		return h.renderer.Render(c, fiber.StatusOK, "apply", PageData{
			Title: "Application Form",
			Error: "Please fill in: " + strings.Join(missing, ", "),
			Data:  applyData{Step: applyLastStep, Form: form},
		})
	}

	ctx := c.UserContext()
	sid := SessionID(c)

	// A signed-in applicant already has an account; their final submit
	// updates the application draft instead of registering again.
	if sess := CurrentSession(c, h.sessions); sess.Authenticated() {
		return h.submitDraft(c, sess.AccessToken, form)
	}

	res := h.client.Register(ctx, form.Draft())
	if !res.OK {
		msg := res.Error
		if msg == "" {
			msg = "Registration failed. Please check your details and try again."
		}
		return h.renderer.Render(c, fiber.StatusOK, "apply", PageData{
			Title: "Application Form",
			Error: msg,
			Data:  applyData{Step: applyLastStep, Form: form},
		})
	}

	// Tokens are optional here: some deployments only issue them after
	// payment. Whatever arrived is kept.
	if res.Token != "" {
		if err := h.sessions.SetTokens(ctx, sid, res.Token, res.Refresh); err != nil {
			h.logger.Warn("storing tokens failed", zap.Error(err))
		}
	}
	if res.User != nil {
		if err := h.sessions.SetUser(ctx, sid, res.User); err != nil {
			h.logger.Warn("storing user failed", zap.Error(err))
		}
	}
	if err := h.sessions.StashNavigation(ctx, sid, res.DraftID, ""); err != nil {
		h.logger.Warn("stashing draft id failed", zap.Error(err))
	}

	return c.Redirect(paymentTarget(res.DraftID, form.Email))
}

// submitDraft sends the application payload on behalf of an authenticated
// session and carries the resulting draft id into payment.
func (h *ApplyHandler) submitDraft(c *fiber.Ctx, token string, form dto.ApplyForm) error {
	ctx := c.UserContext()

	env := h.client.SubmitApplication(ctx, token, form.Draft())
	if !env.OK {
		msg := env.StringField("error")
		if msg == "" {
			msg = env.StringField("detail")
		}
		if msg == "" {
			msg = "Could not submit your application. Please try again."
		}
		return h.renderer.Render(c, fiber.StatusOK, "apply", PageData{
			Title: "Application Form",
			Error: msg,
			Data:  applyData{Step: applyLastStep, Form: form},
		})
	}

	draftID := env.StringField("draft_id")
	if err := h.sessions.StashNavigation(ctx, SessionID(c), draftID, ""); err != nil {
		h.logger.Warn("stashing draft id failed", zap.Error(err))
	}
	return c.Redirect(paymentTarget(draftID, form.Email))
}

func paymentTarget(draftID, email string) string {
	q := url.Values{}
	if draftID != "" {
		q.Set("draft_id", draftID)
	}
	if email != "" {
		q.Set("email", email)
	}
	target := "/payment"
	if enc := q.Encode(); enc != "" {
		target += "?" + enc
	}
	return target
}
