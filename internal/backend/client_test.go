package backend

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

func testClient(t *testing.T, handler http.Handler) *Client {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)
	return NewClient(config.BackendConfig{BaseURL: server.URL, TimeoutSeconds: 5}, zap.NewNop())
}

func TestLoginSuccess(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/token/", r.URL.Path)
		var body map[string]string
		require.NoError(t, json.NewDecoder(r.Body).Decode(&body))
		assert.Equal(t, "abebe@example.com", body["username"])
		assert.Equal(t, "hunter2", body["password"])
		_ = json.NewEncoder(w).Encode(map[string]string{"access": "acc-token", "refresh": "ref-token"})
	}))

	pair, err := client.Login(context.Background(), "abebe@example.com", "hunter2")
	require.NoError(t, err)
	assert.Equal(t, "acc-token", pair.Access)
	assert.Equal(t, "ref-token", pair.Refresh)
}

func TestLoginBadCredentialsIsDistinguished(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusUnauthorized)
		_ = json.NewEncoder(w).Encode(map[string]string{"detail": "No active account"})
	}))

	_, err := client.Login(context.Background(), "abebe@example.com", "wrong")
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}

func TestLoginNetworkFailureIsNotCredentialError(t *testing.T) {
	client := NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, zap.NewNop())

	_, err := client.Login(context.Background(), "abebe@example.com", "hunter2")
	require.Error(t, err)
	assert.NotErrorIs(t, err, ErrInvalidCredentials)
}

func TestDashboardAttachesBearerAndParses(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "Bearer my-token", r.Header.Get("Authorization"))
		_ = json.NewEncoder(w).Encode(map[string]any{
			"subscription_status":   "active",
			"subscription_end_date": "2027-01-31",
			"country":               "Germany",
			"draft_id":              "d-42",
			"job_sites": []map[string]any{
				{"id": 1, "country": "Germany", "site_name": "StepStone", "site_url": "https://stepstone.de"},
			},
		})
	}))

	res := client.Dashboard(context.Background(), "my-token")
	require.True(t, res.OK)
	assert.Equal(t, domain.SubscriptionStatusActive, res.Subscription.Status)
	require.NotNil(t, res.Subscription.EndDate)
	assert.Equal(t, time.Date(2027, time.January, 31, 0, 0, 0, 0, time.Local), *res.Subscription.EndDate)
	assert.Equal(t, "d-42", res.Subscription.DraftID)
	require.Len(t, res.JobSites, 1)
	assert.Equal(t, "StepStone", res.JobSites[0].SiteName)
}

func TestDashboardFailsSoftOnUnreachableBackend(t *testing.T) {
	client := NewClient(config.BackendConfig{BaseURL: "http://127.0.0.1:1", TimeoutSeconds: 1}, zap.NewNop())

	res := client.Dashboard(context.Background(), "my-token")
	assert.False(t, res.OK)
	assert.Zero(t, res.Status)
}

func TestRegisterParsesTokenAliases(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		require.Equal(t, "/register/", r.URL.Path)
		w.WriteHeader(http.StatusCreated)
		_ = json.NewEncoder(w).Encode(map[string]any{
			"token":    "acc",
			"refresh":  "ref",
			"draft_id": "d-1",
			"user":     map[string]string{"first_name": "Abebe", "last_name": "Bikila", "email": "abebe@example.com"},
		})
	}))

	res := client.Register(context.Background(), domain.ApplicationDraft{Email: "abebe@example.com"})
	require.True(t, res.OK)
	assert.Equal(t, "acc", res.Token)
	assert.Equal(t, "ref", res.Refresh)
	assert.Equal(t, "d-1", res.DraftID)
	require.NotNil(t, res.User)
	assert.Equal(t, "Abebe Bikila", res.User.Name)
}

func TestConfirmPaymentFailure(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusBadRequest)
		_ = json.NewEncoder(w).Encode(map[string]string{"error": "unknown reference"})
	}))

	res := client.ConfirmPayment(context.Background(), ConfirmRequest{PaymentRef: "tx-1", TxRef: "tx-1"})
	assert.False(t, res.OK)
	assert.Equal(t, "unknown reference", res.Error)
}

func TestJobSitesHandlesAllThreeShapes(t *testing.T) {
	site := map[string]any{"id": 3, "country": "Canada", "site_name": "JobBank", "site_url": "https://jobbank.gc.ca"}
	raw, err := json.Marshal(site)
	require.NoError(t, err)

	bodies := []string{
		`[` + string(raw) + `]`,
		`{"results":[` + string(raw) + `]}`,
		`{"0":` + string(raw) + `}`,
	}
	for _, body := range bodies {
		client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			assert.Equal(t, "Canada", r.URL.Query().Get("country"))
			_, _ = w.Write([]byte(body))
		}))

		sites, ok := client.JobSites(context.Background(), "tok", "Canada")
		require.True(t, ok)
		require.Len(t, sites, 1)
		assert.Equal(t, "JobBank", sites[0].SiteName)
	}
}

func TestInitializePaymentRequiresCheckoutURL(t *testing.T) {
	client := testClient(t, http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		_ = json.NewEncoder(w).Encode(map[string]string{"status": "success", "message": "initialized"})
	}))

	init := client.InitializePayment(context.Background(), "tok", "d-1", "abebe@example.com")
	assert.False(t, init.OK)
	assert.Equal(t, "initialized", init.Message)
}
