package validation

import (
	"sync"
	"time"
)

// RateLimiter is a per-client token bucket. Buckets refill continuously
// at maxRequests per window.
type RateLimiter struct {
	maxRequests int
	window      time.Duration
	clients     map[string]*bucket
	mu          sync.Mutex
	cleanupTick *time.Ticker
	done        chan struct{}
	closeOnce   sync.Once
}

type bucket struct {
	tokens   float64
	lastSeen time.Time
}

// NewRateLimiter creates a new rate limiter with specified limits
func NewRateLimiter(maxRequests int, window time.Duration) *RateLimiter {
	rl := &RateLimiter{
		maxRequests: maxRequests,
		window:      window,
		clients:     make(map[string]*bucket),
		done:        make(chan struct{}),
	}

	rl.cleanupTick = time.NewTicker(window)
	go rl.cleanup()

	return rl
}

// Allow takes one token from the client's bucket
func (rl *RateLimiter) Allow(clientID string) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	b, ok := rl.clients[clientID]
	if !ok {
		b = &bucket{tokens: float64(rl.maxRequests), lastSeen: now}
		rl.clients[clientID] = b
	}

	elapsed := now.Sub(b.lastSeen)
	b.lastSeen = now
	b.tokens += float64(rl.maxRequests) * float64(elapsed) / float64(rl.window)
	if b.tokens > float64(rl.maxRequests) {
		b.tokens = float64(rl.maxRequests)
	}

	if b.tokens < 1 {
		return false
	}
	b.tokens--
	return true
}

// Remove forgets a client
func (rl *RateLimiter) Remove(clientID string) {
	rl.mu.Lock()
	delete(rl.clients, clientID)
	rl.mu.Unlock()
}

// Clients returns the number of tracked clients
func (rl *RateLimiter) Clients() int {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	return len(rl.clients)
}

func (rl *RateLimiter) cleanup() {
	for {
		select {
		case <-rl.cleanupTick.C:
			rl.removeIdle(time.Now().Add(-2 * rl.window))
		case <-rl.done:
			return
		}
	}
}

// removeIdle drops clients not seen since cutoff
func (rl *RateLimiter) removeIdle(cutoff time.Time) {
	rl.mu.Lock()
	defer rl.mu.Unlock()
	for clientID, b := range rl.clients {
		if b.lastSeen.Before(cutoff) {
			delete(rl.clients, clientID)
		}
	}
}

// Close stops the cleanup goroutine. It is safe to call more than once.
func (rl *RateLimiter) Close() {
	rl.closeOnce.Do(func() {
		close(rl.done)
		rl.cleanupTick.Stop()
	})
}
