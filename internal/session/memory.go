package session

import (
	"context"
	"sync"

	"github.com/spec-kit/jobsabroad-web/internal/domain"
)

// MemoryBackend keeps sessions in process memory. Used in tests and as the
// dev fallback when no Redis address is configured; sessions then do not
// survive a restart.
type MemoryBackend struct {
	mu       sync.RWMutex
	sessions map[string]domain.Session
}

// NewMemoryBackend creates an empty in-memory backend.
func NewMemoryBackend() *MemoryBackend {
	return &MemoryBackend{sessions: make(map[string]domain.Session)}
}

// Load returns the stored session for id.
func (b *MemoryBackend) Load(_ context.Context, id string) (domain.Session, bool, error) {
	b.mu.RLock()
	defer b.mu.RUnlock()

	sess, ok := b.sessions[id]
	return sess, ok, nil
}

// Save stores the session.
func (b *MemoryBackend) Save(_ context.Context, id string, sess domain.Session) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.sessions[id] = sess
	return nil
}

// Delete removes the session.
func (b *MemoryBackend) Delete(_ context.Context, id string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	delete(b.sessions, id)
	return nil
}

// Ping always succeeds.
func (b *MemoryBackend) Ping(context.Context) error { return nil }
