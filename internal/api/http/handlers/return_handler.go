package handlers

import (
	"context"
	"errors"
	"net/url"
	"strings"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/dto"
	"github.com/spec-kit/jobsabroad-web/internal/reconcile"
	"github.com/spec-kit/jobsabroad-web/internal/session"
	apperrors "github.com/spec-kit/jobsabroad-web/pkg/util"
)

// checkedFragmentParam marks that the browser already reflected its URL
// fragment into the query string, so the server can stop bouncing.
const checkedFragmentParam = "checked_fragment"

// ReturnHandler receives the browser coming back from the payment provider
// and drives the reconciliation flow.
type ReturnHandler struct {
	renderer *Renderer
	flow     *reconcile.Flow
	sessions *session.Store
	logger   *zap.Logger
}

// NewReturnHandler constructs handler.
func NewReturnHandler(renderer *Renderer, flow *reconcile.Flow, sessions *session.Store, logger *zap.Logger) *ReturnHandler {
	return &ReturnHandler{renderer: renderer, flow: flow, sessions: sessions, logger: logger}
}

// returnData feeds the manual login form on the result page.
type returnData struct {
	PrefillEmail string
}

// Landing handles GET /payment/success. Some providers put the payment
// reference behind a '#', which browsers never send to servers. The first
// visit therefore renders a bounce page whose script copies the fragment into
// the query string and reloads; the second visit carries everything the
// server needs.
func (h *ReturnHandler) Landing(c *fiber.Ctx) error {
	query := queryValues(c)

	if query.Get(checkedFragmentParam) == "" {
		return h.renderer.Render(c, fiber.StatusOK, "payment_bounce", PageData{
			Title: "Payment Successful",
		})
	}

	ctx := c.UserContext()
	sid := SessionID(c)
	sess := h.sessions.Get(ctx, sid)

	fragment := parseFragmentParam(query.Get("fragment"))
	ref := reconcile.ExtractReference(query, fragment, sess.PendingPaymentRef)
	if ref != "" && ref != sess.PendingPaymentRef {
		if err := h.sessions.StashNavigation(ctx, sid, "", ref); err != nil {
			h.logger.Warn("stashing payment reference failed", zap.Error(err))
		}
	}

	outcome, err := h.flow.Run(ctx, sid, ref)
	if err != nil {
		return flowAborted(err)
	}
	return h.respond(c, outcome)
}

// SubmitLogin handles POST /payment/success/login, the fallback when
// automatic sign-in after payment did not stick.
func (h *ReturnHandler) SubmitLogin(c *fiber.Ctx) error {
	var form dto.LoginForm
	if err := c.BodyParser(&form); err != nil {
		return fiber.NewError(fiber.StatusBadRequest, "invalid form")
	}

	ctx := c.UserContext()
	outcome, err := h.flow.SubmitLogin(ctx, SessionID(c), form.Email, form.Password)
	if err != nil {
		return flowAborted(err)
	}
	return h.respond(c, outcome)
}

// flowAborted maps a cancelled flow to a response: nothing for a
// disconnected browser, the error page for an expired request deadline.
func flowAborted(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewBadGateway("The server is taking too long to respond. Please try again.")
	}
	return nil
}

func (h *ReturnHandler) respond(c *fiber.Ctx, outcome reconcile.Outcome) error {
	if outcome.State == reconcile.StateDone {
		target := outcome.Redirect
		if target == "" {
			target = reconcile.DashboardRoute
		}
		return c.Redirect(target)
	}
	return h.renderer.Render(c, fiber.StatusOK, "payment_result", PageData{
		Title:   "Payment Successful",
		Message: outcome.Message,
		Data:    returnData{PrefillEmail: outcome.PrefillEmail},
	})
}

// queryValues exposes the raw query string as url.Values.
func queryValues(c *fiber.Ctx) url.Values {
	values, err := url.ParseQuery(string(c.Request().URI().QueryString()))
	if err != nil {
		return url.Values{}
	}
	return values
}

// parseFragmentParam decodes the reflected fragment, tolerating the
// "#/?key=value" shape some providers produce.
func parseFragmentParam(fragment string) url.Values {
	fragment = strings.TrimPrefix(fragment, "#")
	if i := strings.Index(fragment, "?"); i >= 0 {
		fragment = fragment[i+1:]
	}
	values, err := url.ParseQuery(fragment)
	if err != nil {
		return url.Values{}
	}
	return values
}
