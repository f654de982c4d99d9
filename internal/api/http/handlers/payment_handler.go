package handlers

import (
	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/dto"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// PaymentHandler starts checkout with the payment provider.
type PaymentHandler struct {
	renderer *Renderer
	client   *backend.Client
	sessions *session.Store
	logger   *zap.Logger
}

// NewPaymentHandler constructs handler.
func NewPaymentHandler(renderer *Renderer, client *backend.Client, sessions *session.Store, logger *zap.Logger) *PaymentHandler {
	return &PaymentHandler{renderer: renderer, client: client, sessions: sessions, logger: logger}
}

// paymentData identifies the draft being paid for.
type paymentData struct {
	DraftID string
	Email   string
}

// resolveDraft finds a draft id wherever one may be: the URL, the session
// stash, then the backend itself. The placeholder keeps the page usable when
// all three come up empty so the backend can resolve the draft server-side.
func (h *PaymentHandler) resolveDraft(c *fiber.Ctx) paymentData {
	ctx := c.UserContext()
	sess := CurrentSession(c, h.sessions)

	data := paymentData{
		DraftID: c.Query("draft_id"),
		Email:   c.Query("email"),
	}

	if data.DraftID == "" {
		data.DraftID = sess.PendingDraftID
	}
	if data.DraftID == "" && sess.Authenticated() {
		res := h.client.Dashboard(ctx, sess.AccessToken)
		if res.OK {
			data.DraftID = res.Subscription.DraftID
			if data.Email == "" {
				data.Email = res.Subscription.Email
			}
		}
	}
	if data.DraftID == "" {
		data.DraftID = domain.DraftIDPlaceholder
	}

	if data.Email == "" && sess.User != nil {
		data.Email = sess.User.Email
	}
	return data
}

// Show handles GET /payment.
func (h *PaymentHandler) Show(c *fiber.Ctx) error {
	data := h.resolveDraft(c)

	if err := h.sessions.StashNavigation(c.UserContext(), SessionID(c), data.DraftID, ""); err != nil {
		h.logger.Warn("stashing draft id failed", zap.Error(err))
	}

	return h.renderer.Render(c, fiber.StatusOK, "payment", PageData{
		Title: "Complete Your Application",
		Data:  data,
	})
}

// Initialize handles POST /payment and redirects the browser to the
// provider's checkout page.
func (h *PaymentHandler) Initialize(c *fiber.Ctx) error {
	var form dto.PaymentForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	ctx := c.UserContext()
	sess := CurrentSession(c, h.sessions)

	if form.DraftID == "" {
		form.DraftID = domain.DraftIDPlaceholder
	}

	init := h.client.InitializePayment(ctx, sess.AccessToken, form.DraftID, form.Email)
	if !init.OK {
		msg := init.Message
		if msg == "" {
			msg = "Could not start the payment. Please try again."
		}
		h.logger.Warn("payment initialization failed", zap.String("draft_id", form.DraftID))
		return h.renderer.Render(c, fiber.StatusOK, "payment", PageData{
			Title: "Complete Your Application",
			Error: msg,
			Data:  paymentData{DraftID: form.DraftID, Email: form.Email},
		})
	}

	if err := h.sessions.StashNavigation(ctx, SessionID(c), form.DraftID, ""); err != nil {
		h.logger.Warn("stashing draft id failed", zap.Error(err))
	}
	return c.Redirect(init.CheckoutURL, fiber.StatusSeeOther)
}
