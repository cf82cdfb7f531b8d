package dedup

import (
	"context"
	"sync"
	"time"
)

// sweepInterval bounds how often expired claims are purged
const sweepInterval = time.Minute

// MemoryGuard remembers claimed keys in process for ttl
type MemoryGuard struct {
	mu        sync.Mutex
	ttl       time.Duration
	now       func() time.Time
	claims    map[string]time.Time
	lastSweep time.Time
}

func NewMemoryGuard(ttl time.Duration) *MemoryGuard {
	return &MemoryGuard{
		ttl:    ttl,
		now:    time.Now,
		claims: make(map[string]time.Time),
	}
}

func (g *MemoryGuard) Claim(_ context.Context, key string) (bool, error) {
	g.mu.Lock()
	defer g.mu.Unlock()

	now := g.now()
	if now.Sub(g.lastSweep) >= sweepInterval {
		g.sweep(now)
	}

	if expires, ok := g.claims[key]; ok && now.Before(expires) {
		return false, nil
	}
	g.claims[key] = now.Add(g.ttl)
	return true, nil
}

func (g *MemoryGuard) sweep(now time.Time) {
	for k, expires := range g.claims {
		if !now.Before(expires) {
			delete(g.claims, k)
		}
	}
	g.lastSweep = now
}

// NoopGuard lets every fire through
type NoopGuard struct{}

func (NoopGuard) Claim(context.Context, string) (bool, error) {
	return true, nil
}
