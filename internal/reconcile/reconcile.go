// Package reconcile runs the one-shot flow after the user returns from the
// external payment provider: confirm the payment server-side, adopt any newly
// issued credentials, then poll until the subscription becomes visible or the
// budget runs out. However it ends, the user lands on a navigable page; final
// enforcement always belongs to the access gate.
package reconcile

import (
	"context"
	"errors"
	"time"

	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/poll"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// State names where the flow ended up.
type State string

const (
	StateDone        State = "done"
	StateManualLogin State = "manual_login"
)

// User-facing messages. Deliberately calm: a confirmation failure does not
// mean the payment failed.
const (
	MsgMissingReference = "Payment reference not found. If you completed payment, please log in - your subscription will be activated automatically."
	MsgAutoSignInFailed = "Payment recorded but automatic sign-in failed. Please log in with your password."
	MsgBadCredentials   = "Invalid email or password. Please try again."
)

// Outcome tells the web layer what to render next.
type Outcome struct {
	State        State
	Redirect     string
	Message      string
	PrefillEmail string
}

// Backend is the slice of the remote client the flow consumes.
type Backend interface {
	ConfirmPayment(ctx context.Context, req backend.ConfirmRequest) backend.ConfirmResult
	Dashboard(ctx context.Context, token string) backend.DashboardResult
	Login(ctx context.Context, username, password string) (backend.TokenPair, error)
}

// DashboardRoute is where every successful path converges.
const DashboardRoute = "/dashboard"

// Flow is the reconciliation state machine.
type Flow struct {
	client   Backend
	sessions *session.Store
	cfg      config.ReconcileConfig
	logger   *zap.Logger

	// sleep is swapped in tests.
	sleep func(ctx context.Context, d time.Duration) error
}

// New builds a flow with the configured delays and budgets.
func New(client Backend, sessions *session.Store, cfg config.ReconcileConfig, logger *zap.Logger) *Flow {
	return &Flow{client: client, sessions: sessions, cfg: cfg, logger: logger}
}

// Run executes Init -> Confirming -> Verifying for one return from the
// payment provider. It only returns an error when ctx is cancelled; every
// other path terminates in a renderable Outcome.
func (f *Flow) Run(ctx context.Context, sid, paymentRef string) (Outcome, error) {
	sess := f.sessions.Get(ctx, sid)

	if paymentRef == "" {
		// Grace period for late navigation-state propagation, then re-check
		// the stash before deciding anything.
		if err := f.wait(ctx, f.cfg.GracePeriod); err != nil {
			return Outcome{}, err
		}
		sess = f.sessions.Get(ctx, sid)
		paymentRef = sess.PendingPaymentRef

		if paymentRef == "" {
			return f.withoutReference(ctx, sess)
		}
	}

	return f.confirm(ctx, sid, sess, paymentRef)
}

// withoutReference handles the no-reference branch: a single subscription
// check (no retries), then either the dashboard or manual login with the
// advisory message.
func (f *Flow) withoutReference(ctx context.Context, sess domain.Session) (Outcome, error) {
	if sess.Authenticated() {
		res := f.client.Dashboard(ctx, sess.AccessToken)
		if res.OK && res.Subscription.EffectivelyActive() {
			f.logger.Info("no payment reference but subscription already active")
			return Outcome{State: StateDone, Redirect: DashboardRoute}, nil
		}
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	return Outcome{
		State:        StateManualLogin,
		Message:      MsgMissingReference,
		PrefillEmail: f.cachedEmail(sess),
	}, nil
}

func (f *Flow) confirm(ctx context.Context, sid string, sess domain.Session, paymentRef string) (Outcome, error) {
	draftID := sess.PendingDraftID
	res := f.client.ConfirmPayment(ctx, backend.ConfirmRequest{
		PaymentRef: paymentRef,
		TxRef:      paymentRef,
		DraftID:    draftID,
	})
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}

	if !res.OK {
		f.logger.Warn("payment confirmation failed",
			zap.Int("status", res.Status),
			zap.String("error", res.Error))
		message := MsgAutoSignInFailed
		if res.Error != "" {
			message = res.Error
		} else if res.Message != "" {
			message = res.Message
		}
		prefill := f.cachedEmail(sess)
		if res.User != nil && res.User.Email != "" {
			prefill = res.User.Email
		}
		return Outcome{State: StateManualLogin, Message: message, PrefillEmail: prefill}, nil
	}

	// Adopt newly issued credentials; absent fields keep what we have.
	if res.Access != "" {
		if err := f.sessions.SetTokens(ctx, sid, res.Access, res.Refresh); err != nil {
			f.logger.Warn("persist confirmed tokens", zap.Error(err))
		}
	}
	if res.User != nil {
		if err := f.sessions.SetUser(ctx, sid, res.User); err != nil {
			f.logger.Warn("persist confirmed identity", zap.Error(err))
		}
	}

	return f.verify(ctx, sid)
}

// verify waits out the settle delay, then polls the subscription. Exhaustion
// still redirects to the dashboard: the gate runs its own budget there, and
// doubling the user's wait buys nothing.
func (f *Flow) verify(ctx context.Context, sid string) (Outcome, error) {
	if err := f.wait(ctx, f.cfg.SettleDelay); err != nil {
		return Outcome{}, err
	}

	sess := f.sessions.Get(ctx, sid)
	policy := poll.Policy{
		MaxAttempts: f.cfg.VerifyAttempts,
		Interval:    f.cfg.VerifyInterval,
		Sleep:       f.sleep,
	}
	err := poll.Until(ctx, policy, func(ctx context.Context, attempt int) (bool, error) {
		res := f.client.Dashboard(ctx, sess.AccessToken)
		active := res.OK && res.Subscription.EffectivelyActive()
		if !active {
			f.logger.Debug("subscription not visible yet", zap.Int("attempt", attempt))
		}
		return active, nil
	})
	switch {
	case err == nil:
		f.logger.Info("subscription verified after payment")
	case ctx.Err() != nil:
		return Outcome{}, ctx.Err()
	case errors.Is(err, poll.ErrBudgetExhausted):
		f.logger.Info("verification budget exhausted, deferring to access gate")
	}
	return Outcome{State: StateDone, Redirect: DashboardRoute}, nil
}

// SubmitLogin handles the ManualLogin state's form submission. Authentication
// failure keeps the user on the form; there is no automatic retry because the
// user controls resubmission.
func (f *Flow) SubmitLogin(ctx context.Context, sid, email, password string) (Outcome, error) {
	pair, err := f.client.Login(ctx, email, password)
	if err != nil {
		if ctxErr := ctx.Err(); ctxErr != nil {
			return Outcome{}, ctxErr
		}
		message := MsgBadCredentials
		if !errors.Is(err, backend.ErrInvalidCredentials) {
			message = "Login is temporarily unavailable. Please try again."
		}
		return Outcome{State: StateManualLogin, Message: message, PrefillEmail: email}, nil
	}

	if err := f.sessions.SetTokens(ctx, sid, pair.Access, pair.Refresh); err != nil {
		f.logger.Warn("persist login tokens", zap.Error(err))
	}
	if err := f.sessions.SetUser(ctx, sid, &domain.UserIdentity{Email: email}); err != nil {
		f.logger.Warn("persist login identity", zap.Error(err))
	}

	if err := f.wait(ctx, f.cfg.SettleDelay); err != nil {
		return Outcome{}, err
	}

	// Single check; whatever it says the gate takes over from the dashboard.
	res := f.client.Dashboard(ctx, pair.Access)
	if res.OK && res.Subscription.EffectivelyActive() {
		f.logger.Info("subscription active after manual login")
	}
	if err := ctx.Err(); err != nil {
		return Outcome{}, err
	}
	return Outcome{State: StateDone, Redirect: DashboardRoute}, nil
}

func (f *Flow) cachedEmail(sess domain.Session) string {
	if sess.User != nil {
		return sess.User.Email
	}
	return ""
}

func (f *Flow) wait(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	sleep := f.sleep
	if sleep == nil {
		sleep = func(ctx context.Context, d time.Duration) error {
			timer := time.NewTimer(d)
			defer timer.Stop()
			select {
			case <-timer.C:
				return nil
			case <-ctx.Done():
				return ctx.Err()
			}
		}
	}
	return sleep(ctx, d)
}
