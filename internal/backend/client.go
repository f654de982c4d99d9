// Package backend is the HTTP client for the jobs-abroad REST API. It owns
// bearer-token attachment, response-shape normalization, and the soft-failure
// contract: transport errors and malformed bodies come back as unsuccessful
// envelopes, never panics. The one deliberate exception is Login, which
// returns a distinguished error so callers can tell bad credentials apart
// from a network failure.
package backend

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"io"
	"net/http"
	"net/url"

	"go.uber.org/zap"

	"github.com/spec-kit/jobsabroad-web/internal/config"
	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

// ErrInvalidCredentials is returned by Login on a non-2xx token response.
var ErrInvalidCredentials = errors.New("invalid credentials")

// Client issues authenticated requests against the backend API.
type Client struct {
	baseURL    string
	httpClient *http.Client
	logger     *zap.Logger
}

// NewClient builds a client for the configured backend.
func NewClient(cfg config.BackendConfig, logger *zap.Logger) *Client {
	return &Client{
		baseURL:    cfg.BaseURL,
		httpClient: &http.Client{Timeout: cfg.Timeout()},
		logger:     logger,
	}
}

// do issues one request and normalizes whatever comes back. A transport error
// yields an envelope with OK false and status 0.
func (c *Client) do(ctx context.Context, method, path, token string, body any) Envelope {
	var buf bytes.Buffer
	if body != nil {
		if err := json.NewEncoder(&buf).Encode(body); err != nil {
			c.logger.Error("encode request body", zap.String("path", path), zap.Error(err))
			return Envelope{Fields: map[string]json.RawMessage{}}
		}
	}

	req, err := http.NewRequestWithContext(ctx, method, c.baseURL+path, &buf)
	if err != nil {
		c.logger.Error("build request", zap.String("path", path), zap.Error(err))
		return Envelope{Fields: map[string]json.RawMessage{}}
	}
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}

	resp, err := c.httpClient.Do(req)
	if err != nil {
		c.logger.Warn("backend request failed", zap.String("path", path), zap.Error(err))
		return Envelope{Fields: map[string]json.RawMessage{}}
	}
	defer resp.Body.Close()

	raw, err := io.ReadAll(resp.Body)
	if err != nil {
		c.logger.Warn("read backend response", zap.String("path", path), zap.Error(err))
		return Envelope{Status: resp.StatusCode, Fields: map[string]json.RawMessage{}}
	}
	return normalize(resp.StatusCode, raw)
}

// Register submits the signup form to POST /register/.
func (c *Client) Register(ctx context.Context, draft domain.ApplicationDraft) RegisterResult {
	env := c.do(ctx, http.MethodPost, "/register/", "", draft)

	res := RegisterResult{
		OK:      env.OK || env.Status == http.StatusCreated,
		Status:  env.Status,
		DraftID: env.StringField("draft_id"),
		Error:   env.StringField("error"),
	}
	res.Token = env.StringField("token")
	if res.Token == "" {
		res.Token = env.StringField("access")
	}
	res.Refresh = env.StringField("refresh")
	res.User = decodeUser(env.Fields["user"])
	return res
}

// Login exchanges credentials at POST /token/. A non-2xx status becomes
// ErrInvalidCredentials; transport failures surface as distinct errors.
func (c *Client) Login(ctx context.Context, username, password string) (TokenPair, error) {
	payload := map[string]string{"username": username, "password": password}
	env := c.do(ctx, http.MethodPost, "/token/", "", payload)
	if env.Status == 0 {
		return TokenPair{}, errors.New("backend unreachable")
	}
	if !env.OK {
		return TokenPair{}, ErrInvalidCredentials
	}

	pair := TokenPair{
		Access:  env.StringField("access"),
		Refresh: env.StringField("refresh"),
	}
	if pair.Access == "" {
		return TokenPair{}, errors.New("token response missing access token")
	}
	return pair, nil
}

// Dashboard fetches the subscription snapshot and curated sites from
// GET /dashboard/.
func (c *Client) Dashboard(ctx context.Context, token string) DashboardResult {
	env := c.do(ctx, http.MethodGet, "/dashboard/", token, nil)

	res := DashboardResult{OK: env.OK, Status: env.Status}
	res.Subscription = domain.SubscriptionSnapshot{
		Status:  domain.SubscriptionStatus(env.StringField("subscription_status")),
		EndDate: parseEndDate(env.StringField("subscription_end_date")),
		DraftID: env.StringField("draft_id"),
		Country: env.StringField("country"),
		Email:   env.StringField("email"),
	}
	env.DecodeField("job_sites", &res.JobSites)
	return res
}

// InitializePayment starts checkout at POST /initialize-payment/ and returns
// the provider redirect URL.
func (c *Client) InitializePayment(ctx context.Context, token, draftID, email string) PaymentInit {
	payload := map[string]string{"draft_id": draftID, "email": email}
	env := c.do(ctx, http.MethodPost, "/initialize-payment/", token, payload)

	init := PaymentInit{
		CheckoutURL: env.StringField("checkout_url"),
		Message:     firstNonEmpty(env.StringField("message"), env.StringField("error"), env.StringField("detail")),
	}
	// The provider wrapper reports success both ways.
	init.OK = init.CheckoutURL != "" && (env.OK || env.StringField("status") == "success")
	return init
}

// ConfirmPayment settles the returned payment reference at
// POST /payments/confirm/.
func (c *Client) ConfirmPayment(ctx context.Context, req ConfirmRequest) ConfirmResult {
	env := c.do(ctx, http.MethodPost, "/payments/confirm/", "", req)

	res := ConfirmResult{
		OK:      env.OK,
		Status:  env.Status,
		Refresh: env.StringField("refresh"),
		Error:   env.StringField("error"),
		Message: env.StringField("message"),
	}
	res.Access = env.StringField("access")
	if res.Access == "" {
		res.Access = env.StringField("token")
	}
	res.User = decodeUser(env.Fields["user"])
	return res
}

// JobSites lists curated sites from GET /job-sites/, optionally filtered by
// country.
func (c *Client) JobSites(ctx context.Context, token, country string) ([]domain.JobSite, bool) {
	path := "/job-sites/"
	if country != "" && country != "all" {
		path += "?country=" + url.QueryEscape(country)
	}
	env := c.do(ctx, http.MethodGet, path, token, nil)
	if !env.OK {
		return nil, false
	}

	sites := make([]domain.JobSite, 0, len(env.Data))
	for _, raw := range env.Data {
		var site domain.JobSite
		if err := json.Unmarshal(raw, &site); err != nil {
			continue
		}
		sites = append(sites, site)
	}
	return sites, true
}

// PopularCountries fetches GET /popular-countries/.
func (c *Client) PopularCountries(ctx context.Context, token string) ([]domain.PopularCountry, bool) {
	env := c.do(ctx, http.MethodGet, "/popular-countries/", token, nil)
	if !env.OK {
		return nil, false
	}

	var countries []domain.PopularCountry
	if env.DecodeField("popular_countries", &countries) {
		return countries, true
	}
	for _, raw := range env.Data {
		var country domain.PopularCountry
		if err := json.Unmarshal(raw, &country); err != nil {
			continue
		}
		countries = append(countries, country)
	}
	return countries, true
}

// SubmitApplication sends an authenticated application payload to
// POST /submit-application/. The backend expects it nested under
// "application_data".
func (c *Client) SubmitApplication(ctx context.Context, token string, draft domain.ApplicationDraft) Envelope {
	payload := map[string]domain.ApplicationDraft{"application_data": draft}
	return c.do(ctx, http.MethodPost, "/submit-application/", token, payload)
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
