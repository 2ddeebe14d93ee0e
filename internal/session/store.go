package session

import (
	"context"
	"sync"
	"time"

	"github.com/kirill-demidov/gcp-cost-agent/internal/model"
)

// DefaultTTL is how long an idle session's context survives.
const DefaultTTL = 30 * time.Minute

// Context is the conversational state of one session. It is replaced
// wholesale on commit, never patched field by field.
type Context struct {
	LastIntent    model.IntentKind
	LastPeriod    *model.Period
	LastPeriodEnd *model.Period
	LastDimension model.Dimension
	UpdatedAt     time.Time
}

// Store is the session context store.
type Store interface {
	// Get returns the context for id, or nil if absent or expired.
	Get(id string) *Context
	// Commit atomically replaces the context for id.
	Commit(id string, ctx Context)
	// Reset drops the context for id.
	Reset(id string)
	// EvictExpired removes all contexts idle past the TTL and reports
	// how many were dropped.
	EvictExpired() int
}

// MemoryStore is the in-memory Store. The mutex guards only map access;
// it is never held across a turn's external work.
type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]Context
	ttl      time.Duration
	clock    Clock
}

// NewMemoryStore creates a store with the given TTL; ttl <= 0 means
// DefaultTTL.
func NewMemoryStore(ttl time.Duration, clock Clock) *MemoryStore {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	if clock == nil {
		clock = SystemClock{}
	}
	return &MemoryStore{
		sessions: make(map[string]Context),
		ttl:      ttl,
		clock:    clock,
	}
}

func (s *MemoryStore) Get(id string) *Context {
	s.mu.RLock()
	ctx, ok := s.sessions[id]
	s.mu.RUnlock()
	if !ok {
		return nil
	}
	if s.clock.Now().Sub(ctx.UpdatedAt) > s.ttl {
		return nil
	}
	c := ctx
	return &c
}

func (s *MemoryStore) Commit(id string, ctx Context) {
	ctx.UpdatedAt = s.clock.Now()
	s.mu.Lock()
	s.sessions[id] = ctx
	s.mu.Unlock()
}

func (s *MemoryStore) Reset(id string) {
	s.mu.Lock()
	delete(s.sessions, id)
	s.mu.Unlock()
}

func (s *MemoryStore) EvictExpired() int {
	now := s.clock.Now()
	s.mu.Lock()
	defer s.mu.Unlock()
	evicted := 0
	for id, ctx := range s.sessions {
		if now.Sub(ctx.UpdatedAt) > s.ttl {
			delete(s.sessions, id)
			evicted++
		}
	}
	return evicted
}

// RunEvictor periodically evicts expired sessions until ctx is done.
// Used by the chat command; one-shot commands evict inline.
func RunEvictor(ctx context.Context, store Store, interval time.Duration) {
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
			store.EvictExpired()
		}
	}
}
