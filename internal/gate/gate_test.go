package gate

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	jwt "github.com/golang-jwt/jwt/v5"

	"github.com/spec-kit/jobsabroad-web/internal/auth"
	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

// fakeChecker serves scripted dashboard responses in order, repeating the
// last one when the script runs out.
type fakeChecker struct {
	responses []backend.DashboardResult
	calls     int
}

func (f *fakeChecker) Dashboard(context.Context, string) backend.DashboardResult {
	idx := f.calls
	if idx >= len(f.responses) {
		idx = len(f.responses) - 1
	}
	f.calls++
	return f.responses[idx]
}

func inactive(draftID string) backend.DashboardResult {
	return backend.DashboardResult{
		OK:           true,
		Status:       200,
		Subscription: domain.SubscriptionSnapshot{Status: domain.SubscriptionStatusNone, DraftID: draftID},
	}
}

func active() backend.DashboardResult {
	return backend.DashboardResult{
		OK:           true,
		Status:       200,
		Subscription: domain.SubscriptionSnapshot{Status: domain.SubscriptionStatusActive},
	}
}

func testGateConfig() config.GateConfig {
	return config.GateConfig{MaxAttempts: 5, RetryDelay: 2 * time.Second}
}

func newTestGate(checker SubscriptionChecker, slept *[]time.Duration) *Gate {
	g := New(checker, testGateConfig(), zap.NewNop())
	g.policy.Sleep = func(ctx context.Context, d time.Duration) error {
		if slept != nil {
			*slept = append(*slept, d)
		}
		return ctx.Err()
	}
	return g
}

func TestSubscriberNoTokenRedirectsLogin(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{active()}}
	g := newTestGate(checker, nil)

	res, err := g.EvaluateSubscriber(context.Background(), domain.Session{})
	require.NoError(t, err)
	assert.Equal(t, RedirectLogin, res.Decision)
	assert.Zero(t, checker.calls, "no remote call without a token")
}

func TestSubscriberAllowsOnFifthAttempt(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{
		inactive(""), inactive(""), inactive(""), inactive(""), active(),
	}}
	var slept []time.Duration
	g := newTestGate(checker, &slept)

	res, err := g.EvaluateSubscriber(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, Allow, res.Decision)
	assert.Equal(t, 5, checker.calls)
	assert.Equal(t, []time.Duration{2 * time.Second, 2 * time.Second, 2 * time.Second, 2 * time.Second}, slept)
}

func TestSubscriberExhaustsToPaymentWithDraftID(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{inactive("draft-77")}}
	g := newTestGate(checker, nil)

	res, err := g.EvaluateSubscriber(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, RedirectPayment, res.Decision)
	assert.Equal(t, "draft-77", res.DraftID)
	assert.Equal(t, 5, checker.calls)
}

func TestSubscriberExhaustsToPaymentWithPlaceholder(t *testing.T) {
	// Fetch failures retry the same as not-active and no draft id surfaces.
	checker := &fakeChecker{responses: []backend.DashboardResult{{OK: false}}}
	g := newTestGate(checker, nil)

	res, err := g.EvaluateSubscriber(context.Background(), domain.Session{AccessToken: "tok"})
	require.NoError(t, err)
	assert.Equal(t, RedirectPayment, res.Decision)
	assert.Equal(t, domain.DraftIDPlaceholder, res.DraftID)
}

func TestSubscriberCancellationStopsPolling(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{inactive("")}}
	g := New(checker, testGateConfig(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	g.policy.Sleep = func(ctx context.Context, _ time.Duration) error {
		cancel() // the browser navigates away mid-wait
		return ctx.Err()
	}

	_, err := g.EvaluateSubscriber(ctx, domain.Session{AccessToken: "tok"})
	assert.ErrorIs(t, err, context.Canceled)
	assert.Equal(t, 1, checker.calls, "no attempt after teardown")
}

func staffToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{IsStaff: true}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func applicantToken(t *testing.T) string {
	t.Helper()
	token, err := jwt.NewWithClaims(jwt.SigningMethodHS256, &auth.Claims{Groups: []string{"applicants"}}).
		SignedString([]byte("secret"))
	require.NoError(t, err)
	return token
}

func TestEvaluateAdmin(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{active()}}
	g := newTestGate(checker, nil)

	assert.Equal(t, RedirectLogin, g.EvaluateAdmin(domain.Session{}))
	assert.Equal(t, RedirectLogin, g.EvaluateAdmin(domain.Session{AccessToken: applicantToken(t)}))
	assert.Equal(t, Allow, g.EvaluateAdmin(domain.Session{AccessToken: staffToken(t)}))
	assert.Zero(t, checker.calls, "admin check never calls the backend")
}

func TestNavVisibleIsSingleShot(t *testing.T) {
	checker := &fakeChecker{responses: []backend.DashboardResult{inactive("")}}
	g := newTestGate(checker, nil)

	assert.False(t, g.NavVisible(context.Background(), domain.Session{AccessToken: "tok"}))
	assert.Equal(t, 1, checker.calls, "nav visibility never retries")

	checker2 := &fakeChecker{responses: []backend.DashboardResult{active()}}
	g2 := newTestGate(checker2, nil)
	assert.True(t, g2.NavVisible(context.Background(), domain.Session{AccessToken: "tok"}))
	assert.False(t, g2.NavVisible(context.Background(), domain.Session{}))
}
