package domain

import "time"

// SubscriptionStatus enumerates the backend's subscription states.
// Values other than "active" (e.g. "none", "pending") all deny access.
type SubscriptionStatus string

const (
	SubscriptionStatusActive SubscriptionStatus = "active"
	SubscriptionStatusNone   SubscriptionStatus = "none"
)

// SubscriptionSnapshot is the backend's view of a user's entitlement at one
// point in time. It is read-only from this application's perspective.
type SubscriptionSnapshot struct {
	Status  SubscriptionStatus
	EndDate *time.Time
	DraftID string
	Country string
	Email   string
}

// EffectivelyActive reports whether a subscription grants access as of now.
func (s SubscriptionSnapshot) EffectivelyActive() bool {
	return s.EffectivelyActiveAt(time.Now())
}

// EffectivelyActiveAt applies the single gating rule shared by the access
// gate, the reconciliation flow, and navigation rendering: the status must be
// "active" and any end date must not be before today, compared at day
// granularity in the local clock.
func (s SubscriptionSnapshot) EffectivelyActiveAt(now time.Time) bool {
	if s.Status != SubscriptionStatusActive {
		return false
	}
	if s.EndDate == nil {
		return true
	}
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, now.Location())
	return !s.EndDate.Before(today)
}
