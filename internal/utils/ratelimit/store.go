package ratelimit

import (
	"sync"
	"time"
)

// maxIdle is how long a client's bucket may sit unused before the
// cleanup pass drops it.
const maxIdle = 10 * time.Minute

// Store holds one limiter per client and category pair. Buckets are
// created on first use and evicted after sitting idle.
type Store struct {
	mu          sync.RWMutex
	limiters    map[string]*Limiter
	rates       map[string]Rate
	defaultRate Rate
}

// NewStore creates a limiter store with the given default budget. The
// cleanup pass runs every cleanupInterval.
func NewStore(defaultRate Rate, cleanupInterval time.Duration) *Store {
	store := &Store{
		limiters:    make(map[string]*Limiter),
		rates:       make(map[string]Rate),
		defaultRate: defaultRate,
	}

	go store.cleanupLoop(cleanupInterval)

	return store
}

// SetRate assigns a budget to a category. Categories without an
// explicit budget use the default.
func (s *Store) SetRate(category string, rate Rate) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.rates[category] = rate
}

// Allow reports whether the given client may make a request in the
// given category, creating the client's bucket on first sight.
func (s *Store) Allow(clientID, category string) bool {
	return s.limiter(clientID, category).Allow()
}

func (s *Store) limiter(clientID, category string) *Limiter {
	key := category + "|" + clientID

	s.mu.RLock()
	limiter, ok := s.limiters[key]
	s.mu.RUnlock()
	if ok {
		return limiter
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	// Another request may have created it between the locks
	if limiter, ok := s.limiters[key]; ok {
		return limiter
	}

	rate, ok := s.rates[category]
	if !ok {
		rate = s.defaultRate
	}

	limiter = NewLimiter(rate.RequestsPerSecond, rate.Burst)
	s.limiters[key] = limiter
	return limiter
}

func (s *Store) cleanupLoop(interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for range ticker.C {
		s.evictIdle()
	}
}

// evictIdle drops buckets that have not been touched within maxIdle,
// keeping the store bounded by the set of recently active clients.
func (s *Store) evictIdle() {
	now := time.Now()

	s.mu.Lock()
	defer s.mu.Unlock()

	for key, limiter := range s.limiters {
		if limiter.idleSince(now) > maxIdle {
			delete(s.limiters, key)
		}
	}
}
