// Package idempotency provides the per-order in-flight charge guard. The
// gateway offers no idempotency key, so the suppression of duplicate
// charge submissions has to live on this side of the wire.
package idempotency

import (
	"context"
	"sync"
	"time"
)

// Guard takes and releases short-lived exclusive marks keyed by order id.
// Acquire returns false when the mark is already held, meaning a charge
// for that order is in flight or was left unresolved.
type Guard interface {
	Acquire(ctx context.Context, key string) (bool, error)
	Release(ctx context.Context, key string) error
}

// memoryGuard is the single-process implementation, used when Redis is
// not configured and in tests.
type memoryGuard struct {
	mu    sync.Mutex
	ttl   time.Duration
	marks map[string]time.Time
}

// NewMemoryGuard creates an in-process guard with the given mark TTL.
func NewMemoryGuard(ttl time.Duration) Guard {
	return &memoryGuard{
		ttl:   ttl,
		marks: make(map[string]time.Time),
	}
}

func (g *memoryGuard) Acquire(ctx context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	if expiry, held := g.marks[key]; held && time.Now().Before(expiry) {
		return false, nil
	}
	g.marks[key] = time.Now().Add(g.ttl)
	return true, nil
}

func (g *memoryGuard) Release(ctx context.Context, key string) error {
	g.mu.Lock()
	defer g.mu.Unlock()
	delete(g.marks, key)
	return nil
}
