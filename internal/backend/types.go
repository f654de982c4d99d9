package backend

import (
	"encoding/json"
	"time"

	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

// TokenPair is the response of POST /token/.
type TokenPair struct {
	Access  string `json:"access"`
	Refresh string `json:"refresh"`
}

// RegisterResult is the interpreted response of POST /register/.
type RegisterResult struct {
	OK      bool
	Status  int
	Token   string
	Refresh string
	User    *domain.UserIdentity
	DraftID string
	Error   string
}

// DashboardResult is the interpreted response of GET /dashboard/.
type DashboardResult struct {
	OK           bool
	Status       int
	Subscription domain.SubscriptionSnapshot
	JobSites     []domain.JobSite
}

// ConfirmRequest carries the payment reference to POST /payments/confirm/.
type ConfirmRequest struct {
	PaymentRef string `json:"payment_ref"`
	TxRef      string `json:"tx_ref"`
	DraftID    string `json:"draft_id,omitempty"`
}

// ConfirmResult is the interpreted response of POST /payments/confirm/.
type ConfirmResult struct {
	OK      bool
	Status  int
	Access  string
	Refresh string
	User    *domain.UserIdentity
	Error   string
	Message string
}

// PaymentInit is the interpreted response of POST /initialize-payment/.
type PaymentInit struct {
	OK          bool
	CheckoutURL string
	Message     string
}

// wireUser tolerates the several identity shapes the backend emits.
type wireUser struct {
	Name      string `json:"name"`
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Username  string `json:"username"`
	Email     string `json:"email"`
}

func (u wireUser) identity() *domain.UserIdentity {
	name := u.Name
	if name == "" {
		name = u.FirstName
		if u.LastName != "" {
			if name != "" {
				name += " "
			}
			name += u.LastName
		}
	}
	if name == "" {
		name = u.Username
	}
	if name == "" && u.Email == "" {
		return nil
	}
	return &domain.UserIdentity{Name: name, Email: u.Email}
}

func decodeUser(raw json.RawMessage) *domain.UserIdentity {
	if len(raw) == 0 {
		return nil
	}
	var u wireUser
	if err := json.Unmarshal(raw, &u); err != nil {
		return nil
	}
	return u.identity()
}

// parseEndDate accepts the date-only and timestamp forms the backend has been
// seen emitting.
func parseEndDate(value string) *time.Time {
	if value == "" {
		return nil
	}
	for _, layout := range []string{"2006-01-02", time.RFC3339} {
		if t, err := time.ParseInLocation(layout, value, time.Local); err == nil {
			return &t
		}
	}
	return nil
}
