package usecase

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// LoginThrottle limits login attempts per key with a token bucket per key.
//
// A key refills its whole budget after one idle window, so entries idle for longer
// than the window are pruned lazily on later calls. No background goroutine is used.
type LoginThrottle struct {
	mu        sync.Mutex
	limit     rate.Limit
	burst     int
	window    time.Duration
	entries   map[string]*throttleEntry
	lastPrune time.Time
	now       func() time.Time
}

type throttleEntry struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// NewLoginThrottle allows maxAttempts attempts per key within window.
// Returns nil, which allows everything, when maxAttempts or window is not positive.
func NewLoginThrottle(maxAttempts int, window time.Duration) *LoginThrottle {
	if maxAttempts <= 0 || window <= 0 {
		return nil
	}
	return &LoginThrottle{
		limit:   rate.Every(window / time.Duration(maxAttempts)),
		burst:   maxAttempts,
		window:  window,
		entries: make(map[string]*throttleEntry),
		now:     time.Now,
	}
}

// Allow consumes one attempt for key and reports whether it was within budget.
func (t *LoginThrottle) Allow(key string) bool {
	if t == nil {
		return true
	}

	t.mu.Lock()
	defer t.mu.Unlock()

	now := t.now()
	t.pruneLocked(now)

	entry, ok := t.entries[key]
	if !ok {
		entry = &throttleEntry{limiter: rate.NewLimiter(t.limit, t.burst)}
		t.entries[key] = entry
	}
	entry.lastSeen = now

	return entry.limiter.AllowN(now, 1)
}

// Reset forgets key, restoring its full budget.
func (t *LoginThrottle) Reset(key string) {
	if t == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.entries, key)
}

// Len returns the number of tracked keys.
func (t *LoginThrottle) Len() int {
	if t == nil {
		return 0
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	return len(t.entries)
}

func (t *LoginThrottle) pruneLocked(now time.Time) {
	if now.Sub(t.lastPrune) < t.window {
		return
	}
	for key, entry := range t.entries {
		if now.Sub(entry.lastSeen) > t.window {
			delete(t.entries, key)
		}
	}
	t.lastPrune = now
}
