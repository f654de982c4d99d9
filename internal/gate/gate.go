// Package gate decides whether a session may enter protected pages. Admin
// checks are synchronous claim inspections; subscriber checks poll the backend
// with a bounded budget to absorb the delay between a completed payment and
// the subscription becoming visible.
package gate

import (
	"context"

	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/auth"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/poll"
)

// Decision is the gate's verdict for one evaluation.
type Decision int

const (
	Allow Decision = iota
	RedirectLogin
	RedirectPayment
)

func (d Decision) String() string {
	switch d {
	case Allow:
		return "allow"
	case RedirectLogin:
		return "redirect_login"
	case RedirectPayment:
		return "redirect_payment"
	default:
		return "unknown"
	}
}

// Result carries the verdict plus the draft id forwarded to the payment page
// on a RedirectPayment.
type Result struct {
	Decision Decision
	DraftID  string
}

// SubscriptionChecker is the slice of the remote client the gate consumes.
type SubscriptionChecker interface {
	Dashboard(ctx context.Context, token string) backend.DashboardResult
}

// Gate evaluates access for protected views.
type Gate struct {
	checker SubscriptionChecker
	policy  poll.Policy
	logger  *zap.Logger
}

// New builds a gate with the configured retry budget.
func New(checker SubscriptionChecker, cfg config.GateConfig, logger *zap.Logger) *Gate {
	return &Gate{
		checker: checker,
		policy:  poll.Policy{MaxAttempts: cfg.MaxAttempts, Interval: cfg.RetryDelay},
		logger:  logger,
	}
}

// EvaluateAdmin inspects token claims only. Claims are self-contained, so
// there is nothing to retry and no remote call to make.
func (g *Gate) EvaluateAdmin(sess domain.Session) Decision {
	if !sess.Authenticated() || !auth.IsAdminToken(sess.AccessToken) {
		return RedirectLogin
	}
	return Allow
}

// EvaluateSubscriber polls the backend until the subscription is effectively
// active or the budget runs out. Fetch failures and not-yet-active snapshots
// are retried identically: from here they are indistinguishable from a payment
// the backend has not reflected yet. A cancelled ctx (the browser navigated
// away) aborts with ctx.Err() and the caller must discard the result.
func (g *Gate) EvaluateSubscriber(ctx context.Context, sess domain.Session) (Result, error) {
	if !sess.Authenticated() {
		return Result{Decision: RedirectLogin}, nil
	}

	lastDraft := sess.PendingDraftID
	err := poll.Until(ctx, g.policy, func(ctx context.Context, attempt int) (bool, error) {
		res := g.checker.Dashboard(ctx, sess.AccessToken)
		if res.Subscription.DraftID != "" {
			lastDraft = res.Subscription.DraftID
		}
		active := res.OK && res.Subscription.EffectivelyActive()
		if !active {
			g.logger.Debug("subscription not active yet",
				zap.Int("attempt", attempt),
				zap.Bool("fetch_ok", res.OK),
				zap.String("status", string(res.Subscription.Status)))
		}
		return active, nil
	})

	switch {
	case err == nil:
		return Result{Decision: Allow}, nil
	case ctx.Err() != nil:
		return Result{}, ctx.Err()
	default:
		if lastDraft == "" {
			lastDraft = domain.DraftIDPlaceholder
		}
		g.logger.Info("subscriber gate exhausted, routing to payment", zap.String("draft_id", lastDraft))
		return Result{Decision: RedirectPayment, DraftID: lastDraft}, nil
	}
}

// NavVisible is the presentation-side use of the same predicate: a single
// check with no retries, deciding whether authenticated navigation renders.
func (g *Gate) NavVisible(ctx context.Context, sess domain.Session) bool {
	if !sess.Authenticated() {
		return false
	}
	res := g.checker.Dashboard(ctx, sess.AccessToken)
	return res.OK && res.Subscription.EffectivelyActive()
}
