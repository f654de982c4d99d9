package reconcile

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/backend"
	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
	"github.com/spec-kit/jobsabroad-web/internal/session"
)

// fakeBackend scripts the three calls the flow makes.
type fakeBackend struct {
	confirmResult  backend.ConfirmResult
	confirmCalls   []backend.ConfirmRequest
	dashboards     []backend.DashboardResult
	dashboardCalls int
	loginPair      backend.TokenPair
	loginErr       error
}

func (f *fakeBackend) ConfirmPayment(_ context.Context, req backend.ConfirmRequest) backend.ConfirmResult {
	f.confirmCalls = append(f.confirmCalls, req)
	return f.confirmResult
}

func (f *fakeBackend) Dashboard(context.Context, string) backend.DashboardResult {
	idx := f.dashboardCalls
	if idx >= len(f.dashboards) {
		idx = len(f.dashboards) - 1
	}
	f.dashboardCalls++
	return f.dashboards[idx]
}

func (f *fakeBackend) Login(context.Context, string, string) (backend.TokenPair, error) {
	return f.loginPair, f.loginErr
}

func inactiveDashboard() backend.DashboardResult {
	return backend.DashboardResult{
		OK:           true,
		Subscription: domain.SubscriptionSnapshot{Status: domain.SubscriptionStatusNone},
	}
}

func activeDashboard() backend.DashboardResult {
	return backend.DashboardResult{
		OK:           true,
		Subscription: domain.SubscriptionSnapshot{Status: domain.SubscriptionStatusActive},
	}
}

func testFlowConfig() config.ReconcileConfig {
	return config.ReconcileConfig{
		GracePeriod:    3 * time.Second,
		SettleDelay:    time.Second,
		VerifyAttempts: 8,
		VerifyInterval: 1500 * time.Millisecond,
	}
}

func newTestFlow(t *testing.T, client Backend) (*Flow, *session.Store, *[]time.Duration) {
	t.Helper()
	store := session.NewStore(session.NewMemoryBackend())
	flow := New(client, store, testFlowConfig(), zap.NewNop())
	var slept []time.Duration
	flow.sleep = func(ctx context.Context, d time.Duration) error {
		slept = append(slept, d)
		return ctx.Err()
	}
	return flow, store, &slept
}

func TestRunHappyPathPersistsTokenAndLandsOnDashboard(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{
			OK:      true,
			Access:  "new-access",
			Refresh: "new-refresh",
			User:    &domain.UserIdentity{Name: "Abebe", Email: "abebe@example.com"},
		},
		dashboards: []backend.DashboardResult{inactiveDashboard(), inactiveDashboard(), activeDashboard()},
	}
	flow, store, slept := newTestFlow(t, client)
	ctx := context.Background()
	require.NoError(t, store.StashNavigation(ctx, "sid", "draft-1", ""))

	outcome, err := flow.Run(ctx, "sid", "tx-abc")
	require.NoError(t, err)

	assert.Equal(t, StateDone, outcome.State)
	assert.Equal(t, DashboardRoute, outcome.Redirect)

	require.Len(t, client.confirmCalls, 1)
	assert.Equal(t, "tx-abc", client.confirmCalls[0].PaymentRef)
	assert.Equal(t, "tx-abc", client.confirmCalls[0].TxRef)
	assert.Equal(t, "draft-1", client.confirmCalls[0].DraftID)

	assert.Equal(t, 3, client.dashboardCalls, "poll stops on first active snapshot")

	sess := store.Get(ctx, "sid")
	assert.Equal(t, "new-access", sess.AccessToken)
	assert.Equal(t, "new-refresh", sess.RefreshToken)
	require.NotNil(t, sess.User)
	assert.Equal(t, "abebe@example.com", sess.User.Email)

	// settle delay first, then the spacing between the two retried polls
	require.GreaterOrEqual(t, len(*slept), 3)
	assert.Equal(t, time.Second, (*slept)[0])
	assert.Equal(t, 1500*time.Millisecond, (*slept)[1])
}

func TestRunConfirmationSucceedsWithoutNewToken(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{OK: true},
		dashboards:    []backend.DashboardResult{activeDashboard()},
	}
	flow, store, _ := newTestFlow(t, client)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "sid", "old-access", "old-refresh"))

	outcome, err := flow.Run(ctx, "sid", "tx-abc")
	require.NoError(t, err)
	assert.Equal(t, StateDone, outcome.State)

	sess := store.Get(ctx, "sid")
	assert.Equal(t, "old-access", sess.AccessToken, "existing token kept when none issued")
	assert.Equal(t, "old-refresh", sess.RefreshToken)
}

func TestRunVerificationExhaustionStillRedirects(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{OK: true, Access: "acc"},
		dashboards:    []backend.DashboardResult{inactiveDashboard()},
	}
	flow, _, _ := newTestFlow(t, client)

	outcome, err := flow.Run(context.Background(), "sid", "tx-abc")
	require.NoError(t, err)
	assert.Equal(t, StateDone, outcome.State)
	assert.Equal(t, DashboardRoute, outcome.Redirect)
	assert.Equal(t, 8, client.dashboardCalls, "full verification budget spent before deferring to the gate")
}

func TestRunConfirmationFailurePrefillsEmail(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{OK: false, Status: 400},
	}
	flow, store, _ := newTestFlow(t, client)
	ctx := context.Background()
	require.NoError(t, store.SetUser(ctx, "sid", &domain.UserIdentity{Email: "cached@example.com"}))

	outcome, err := flow.Run(ctx, "sid", "tx-abc")
	require.NoError(t, err)

	assert.Equal(t, StateManualLogin, outcome.State)
	assert.Equal(t, "cached@example.com", outcome.PrefillEmail)
	assert.Equal(t, MsgAutoSignInFailed, outcome.Message)
	assert.Zero(t, client.dashboardCalls, "no verification after a failed confirmation")
}

func TestRunMissingReferenceWithActiveSubscription(t *testing.T) {
	client := &fakeBackend{dashboards: []backend.DashboardResult{activeDashboard()}}
	flow, store, slept := newTestFlow(t, client)
	ctx := context.Background()
	require.NoError(t, store.SetTokens(ctx, "sid", "tok", ""))

	outcome, err := flow.Run(ctx, "sid", "")
	require.NoError(t, err)
	assert.Equal(t, StateDone, outcome.State)
	assert.Equal(t, 1, client.dashboardCalls, "one-shot check, no retries")
	require.NotEmpty(t, *slept)
	assert.Equal(t, 3*time.Second, (*slept)[0], "grace period observed before giving up on the reference")
}

func TestRunMissingReferenceFallsBackToManualLogin(t *testing.T) {
	client := &fakeBackend{dashboards: []backend.DashboardResult{inactiveDashboard()}}
	flow, store, _ := newTestFlow(t, client)
	ctx := context.Background()
	require.NoError(t, store.SetUser(ctx, "sid", &domain.UserIdentity{Email: "cached@example.com"}))

	outcome, err := flow.Run(ctx, "sid", "")
	require.NoError(t, err)
	assert.Equal(t, StateManualLogin, outcome.State)
	assert.Equal(t, MsgMissingReference, outcome.Message)
	assert.Equal(t, "cached@example.com", outcome.PrefillEmail)
}

func TestRunLateStashedReferenceIsPickedUpAfterGrace(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{OK: true, Access: "acc"},
		dashboards:    []backend.DashboardResult{activeDashboard()},
	}
	store := session.NewStore(session.NewMemoryBackend())
	flow := New(client, store, testFlowConfig(), zap.NewNop())
	ctx := context.Background()
	flow.sleep = func(ctx context.Context, _ time.Duration) error {
		// The stash lands while the grace period elapses.
		_ = store.StashNavigation(ctx, "sid", "", "tx-late")
		return ctx.Err()
	}

	outcome, err := flow.Run(ctx, "sid", "")
	require.NoError(t, err)
	assert.Equal(t, StateDone, outcome.State)
	require.Len(t, client.confirmCalls, 1)
	assert.Equal(t, "tx-late", client.confirmCalls[0].PaymentRef)
}

func TestSubmitLoginBadCredentialsStaysOnForm(t *testing.T) {
	client := &fakeBackend{loginErr: backend.ErrInvalidCredentials}
	flow, _, _ := newTestFlow(t, client)

	outcome, err := flow.SubmitLogin(context.Background(), "sid", "abebe@example.com", "wrong")
	require.NoError(t, err)
	assert.Equal(t, StateManualLogin, outcome.State)
	assert.Equal(t, MsgBadCredentials, outcome.Message)
	assert.Equal(t, "abebe@example.com", outcome.PrefillEmail)
}

func TestSubmitLoginAdoptsTokenAndRedirects(t *testing.T) {
	client := &fakeBackend{
		loginPair:  backend.TokenPair{Access: "acc", Refresh: "ref"},
		dashboards: []backend.DashboardResult{inactiveDashboard()},
	}
	flow, store, _ := newTestFlow(t, client)
	ctx := context.Background()

	outcome, err := flow.SubmitLogin(ctx, "sid", "abebe@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, StateDone, outcome.State, "gate enforces from the dashboard even when not yet active")
	assert.Equal(t, 1, client.dashboardCalls)

	sess := store.Get(ctx, "sid")
	assert.Equal(t, "acc", sess.AccessToken)
	assert.Equal(t, "ref", sess.RefreshToken)
}

func TestRunCancelledContextMutatesNothing(t *testing.T) {
	client := &fakeBackend{
		confirmResult: backend.ConfirmResult{OK: true, Access: "acc"},
		dashboards:    []backend.DashboardResult{inactiveDashboard()},
	}
	store := session.NewStore(session.NewMemoryBackend())
	flow := New(client, store, testFlowConfig(), zap.NewNop())
	ctx, cancel := context.WithCancel(context.Background())
	cancel()
	flow.sleep = func(ctx context.Context, _ time.Duration) error { return ctx.Err() }

	_, err := flow.Run(ctx, "sid", "")
	assert.ErrorIs(t, err, context.Canceled)
	assert.Zero(t, client.dashboardCalls)
}
