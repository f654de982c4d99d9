package http

import (
	"context"
	"errors"
	"net/url"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/api/http/handlers"
	"github.com/spec-kit/jobsabroad-web/internal/gate"
	"github.com/spec-kit/jobsabroad-web/internal/observability"
	"github.com/spec-kit/jobsabroad-web/internal/session"
	apperrors "github.com/spec-kit/jobsabroad-web/pkg/util"
)

// Guards adapts gate decisions to HTTP navigation.
type Guards struct {
	gate     *gate.Gate
	sessions *session.Store
	metrics  *observability.Metrics
	logger   *zap.Logger
}

// NewGuards constructs the middleware set.
func NewGuards(g *gate.Gate, sessions *session.Store, metrics *observability.Metrics, logger *zap.Logger) *Guards {
	return &Guards{gate: g, sessions: sessions, metrics: metrics, logger: logger}
}

// RequireSubscriber gates pages behind an effectively-active subscription,
// polling the backend within the gate's budget before giving up.
func (g *Guards) RequireSubscriber() fiber.Handler {
	return func(c *fiber.Ctx) error {
		ctx := c.UserContext()
		sess := g.sessions.Get(ctx, handlers.SessionID(c))

		res, err := g.gate.EvaluateSubscriber(ctx, sess)
		if err != nil {
			return abortedRequest(err)
		}
		g.metrics.RecordGateDecision("subscriber", res.Decision.String())

		switch res.Decision {
		case gate.Allow:
			c.Locals(handlers.CurrentSessionKey, sess)
			return c.Next()
		case gate.RedirectPayment:
			return c.Redirect("/payment?draft_id=" + url.QueryEscape(res.DraftID))
		default:
			return c.Redirect("/login")
		}
	}
}

// RequireAdmin gates staff pages on token claims alone.
func (g *Guards) RequireAdmin() fiber.Handler {
	return func(c *fiber.Ctx) error {
		sess := g.sessions.Get(c.UserContext(), handlers.SessionID(c))

		decision := g.gate.EvaluateAdmin(sess)
		g.metrics.RecordGateDecision("admin", decision.String())
		if decision != gate.Allow {
			return c.Redirect("/login")
		}
		c.Locals(handlers.CurrentSessionKey, sess)
		return c.Next()
	}
}

// abortedRequest maps a cancelled evaluation to a response. A disconnected
// browser gets nothing; an expired request deadline still has a browser
// waiting, so it gets the error page.
func abortedRequest(err error) error {
	if errors.Is(err, context.DeadlineExceeded) {
		return apperrors.NewBadGateway("The server is taking too long to respond. Please try again.")
	}
	return nil
}
