package cart

import (
	"context"
	"sync"
	"time"
)

// Registry hands out one in-memory cart store per shopping session and
// forgets carts that have been idle past the TTL. Nothing is persisted:
// a cart lives exactly as long as its session.
type Registry struct {
	mu      sync.Mutex
	ttl     time.Duration
	now     func() time.Time
	entries map[string]*registryEntry
	onNew   func(*Store)
}

type registryEntry struct {
	store    *Store
	lastSeen time.Time
}

// NewRegistry constructs a Registry. onNew, when set, is invoked for every
// freshly created store so callers can attach subscriptions.
func NewRegistry(ttl time.Duration, onNew func(*Store)) *Registry {
	if ttl <= 0 {
		ttl = 4 * time.Hour
	}
	return &Registry{
		ttl:     ttl,
		now:     time.Now,
		entries: make(map[string]*registryEntry),
		onNew:   onNew,
	}
}

// Get returns the store for the session, creating it on first use, and marks
// the session as recently active.
func (r *Registry) Get(sessionID string) *Store {
	r.mu.Lock()
	defer r.mu.Unlock()
	if entry, ok := r.entries[sessionID]; ok {
		entry.lastSeen = r.now()
		return entry.store
	}
	store := NewStore()
	r.entries[sessionID] = &registryEntry{store: store, lastSeen: r.now()}
	if r.onNew != nil {
		r.onNew(store)
	}
	return store
}

// Len reports the number of live sessions.
func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// SweepOnce drops sessions idle past the TTL and reports how many were removed.
func (r *Registry) SweepOnce() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	cutoff := r.now().Add(-r.ttl)
	removed := 0
	for id, entry := range r.entries {
		if entry.lastSeen.Before(cutoff) {
			delete(r.entries, id)
			removed++
		}
	}
	return removed
}

// Sweep runs SweepOnce on the given interval until the context is cancelled.
func (r *Registry) Sweep(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = time.Minute
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			r.SweepOnce()
		}
	}
}
