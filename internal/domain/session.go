package domain

// UserIdentity is the cached identity of the signed-in applicant.
type UserIdentity struct {
	Name  string `json:"name,omitempty"`
	Email string `json:"email,omitempty"`
}

// Session holds the credentials and cached identity for one browser session.
// It is the only state this application owns; the backend remains the source
// of truth for subscription and payment facts.
type Session struct {
	AccessToken  string        `json:"access_token,omitempty"`
	RefreshToken string        `json:"refresh_token,omitempty"`
	User         *UserIdentity `json:"user,omitempty"`

	// Navigation state carried between the signup, payment, and
	// reconciliation pages.
	PendingDraftID    string `json:"pending_draft_id,omitempty"`
	PendingPaymentRef string `json:"pending_payment_ref,omitempty"`
}

// Authenticated reports whether the session carries an access token.
func (s Session) Authenticated() bool {
	return s.AccessToken != ""
}
