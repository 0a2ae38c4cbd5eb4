package http

import (
	"sync"
	"sync/atomic"
	"time"
)

const (
	mutationsPerMinute = 60
	staleClientAfter   = 10 * time.Minute
)

// rateLimiter throttles mutating requests per owner. Reads are not limited;
// dashboard polling is expected to be frequent.
type rateLimiter struct {
	mu           sync.Mutex
	owners       map[string]*ownerWindow
	stopCleanup  chan struct{}
	shutdownOnce sync.Once
}

type ownerWindow struct {
	lastRequest time.Time
	requests    int
}

func newRateLimiter() *rateLimiter {
	rl := &rateLimiter{
		owners:      make(map[string]*ownerWindow),
		stopCleanup: make(chan struct{}),
	}
	go rl.startCleanup()
	return rl
}

func (rl *rateLimiter) startCleanup() {
	ticker := time.NewTicker(5 * time.Minute)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			rl.cleanupStaleEntries()
		case <-rl.stopCleanup:
			return
		}
	}
}

func (rl *rateLimiter) cleanupStaleEntries() {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	cutoff := time.Now().Add(-staleClientAfter)
	for owner, win := range rl.owners {
		if win.lastRequest.Before(cutoff) {
			delete(rl.owners, owner)
		}
	}
}

func (rl *rateLimiter) stop() {
	rl.shutdownOnce.Do(func() {
		close(rl.stopCleanup)
	})
}

// allow reports whether the owner may perform another mutation this minute.
func (rl *rateLimiter) allow(ownerID string, metrics *securityMetrics) bool {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	now := time.Now()
	win, exists := rl.owners[ownerID]

	if !exists || now.Sub(win.lastRequest) > time.Minute {
		rl.owners[ownerID] = &ownerWindow{lastRequest: now, requests: 1}
		return true
	}

	win.requests++
	win.lastRequest = now

	if win.requests > mutationsPerMinute {
		if metrics != nil {
			atomic.AddInt64(&metrics.rateLimitHits, 1)
		}
		return false
	}
	return true
}
