// Package session persists the browser session: bearer tokens, cached user
// identity, and the navigation state carried between signup, payment, and
// reconciliation. Every mutation is mirrored to the backing store immediately;
// reads always hydrate from it, so sessions survive process restarts.
package session

import (
	"context"

	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

// Backend is the durable key-value storage behind the store.
type Backend interface {
	Load(ctx context.Context, id string) (domain.Session, bool, error)
	Save(ctx context.Context, id string, sess domain.Session) error
	Delete(ctx context.Context, id string) error
	Ping(ctx context.Context) error
}

// Store mediates all session reads and writes. Mutations are read-modify-write
// against the backend; concurrent flows (the gate polling while reconciliation
// runs) converge on the same facts, so last-write-wins is acceptable.
type Store struct {
	backend Backend
}

// NewStore wraps a backend.
func NewStore(backend Backend) *Store {
	return &Store{backend: backend}
}

// Get returns the session for the given id, or an empty session if none is
// stored. Backend errors degrade to an empty session: an unreachable store
// means the gate denies, which is the safe direction.
func (s *Store) Get(ctx context.Context, id string) domain.Session {
	sess, ok, err := s.backend.Load(ctx, id)
	if err != nil || !ok {
		return domain.Session{}
	}
	return sess
}

// Update applies mutate to the stored session and mirrors the result back.
func (s *Store) Update(ctx context.Context, id string, mutate func(*domain.Session)) error {
	sess, _, err := s.backend.Load(ctx, id)
	if err != nil {
		return err
	}
	mutate(&sess)
	return s.backend.Save(ctx, id, sess)
}

// SetTokens stores a new access token, and a refresh token when one was
// issued. An empty refresh token keeps whatever is already stored.
func (s *Store) SetTokens(ctx context.Context, id, access, refresh string) error {
	return s.Update(ctx, id, func(sess *domain.Session) {
		sess.AccessToken = access
		if refresh != "" {
			sess.RefreshToken = refresh
		}
	})
}

// SetUser caches the signed-in identity.
func (s *Store) SetUser(ctx context.Context, id string, user *domain.UserIdentity) error {
	return s.Update(ctx, id, func(sess *domain.Session) {
		sess.User = user
	})
}

// StashNavigation records the draft id and payment reference carried between
// the signup, payment, and reconciliation pages. Empty values keep existing
// ones.
func (s *Store) StashNavigation(ctx context.Context, id, draftID, paymentRef string) error {
	return s.Update(ctx, id, func(sess *domain.Session) {
		if draftID != "" {
			sess.PendingDraftID = draftID
		}
		if paymentRef != "" {
			sess.PendingPaymentRef = paymentRef
		}
	})
}

// Logout clears credentials, identity, and navigation state.
func (s *Store) Logout(ctx context.Context, id string) error {
	return s.backend.Delete(ctx, id)
}

// Ping verifies backend connectivity for readiness probes.
func (s *Store) Ping(ctx context.Context) error {
	return s.backend.Ping(ctx)
}
