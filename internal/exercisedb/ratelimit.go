package exercisedb

import (
	"sync"
	"time"
)

// RateLimiter tracks the RapidAPI request quota
type RateLimiter struct {
	mu          sync.RWMutex
	limit       int
	remaining   int
	known       bool
	lastUpdated time.Time
}

// RateLimitStatus represents the current quota status
type RateLimitStatus struct {
	Limit       int
	Remaining   int
	UsagePct    float64
	LastUpdated time.Time
}

// NewRateLimiter creates a new rate limiter
func NewRateLimiter() *RateLimiter {
	return &RateLimiter{}
}

// Update records the quota reported by the last response
func (rl *RateLimiter) Update(limit, remaining int) {
	rl.mu.Lock()
	defer rl.mu.Unlock()

	rl.limit = limit
	rl.remaining = remaining
	rl.known = true
	rl.lastUpdated = time.Now()
}

// Status returns the current quota status
func (rl *RateLimiter) Status() RateLimitStatus {
	rl.mu.RLock()
	defer rl.mu.RUnlock()

	usagePct := 0.0
	if rl.limit > 0 {
		usagePct = float64(rl.limit-rl.remaining) / float64(rl.limit) * 100
	}

	return RateLimitStatus{
		Limit:       rl.limit,
		Remaining:   rl.remaining,
		UsagePct:    usagePct,
		LastUpdated: rl.lastUpdated,
	}
}

// Exhausted reports whether the last response said no requests remain
func (rl *RateLimiter) Exhausted() bool {
	rl.mu.RLock()
	defer rl.mu.RUnlock()
	return rl.known && rl.remaining <= 0
}

// IsNearLimit returns true if usage is at or above threshold percent
func (rl *RateLimiter) IsNearLimit(threshold float64) bool {
	return rl.Status().UsagePct >= threshold
}

// Circuit breaker states
const (
	stateClosed   = "closed"
	stateOpen     = "open"
	stateHalfOpen = "half_open"
)

// circuitBreaker suspends requests for a cooldown once the quota is gone.
// After the cooldown one probe request is let through; its success closes
// the breaker.
type circuitBreaker struct {
	mu       sync.Mutex
	state    string
	closesAt time.Time
	cooldown time.Duration
	now      func() time.Time
}

func newCircuitBreaker(cooldown time.Duration) *circuitBreaker {
	return &circuitBreaker{state: stateClosed, cooldown: cooldown, now: time.Now}
}

func (b *circuitBreaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()

	switch b.state {
	case stateOpen:
		if b.now().Before(b.closesAt) {
			return false
		}
		b.state = stateHalfOpen
		return true
	case stateHalfOpen:
		// a probe is already in flight
		return false
	default:
		return true
	}
}

func (b *circuitBreaker) open() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = stateOpen
	b.closesAt = b.now().Add(b.cooldown)
}

func (b *circuitBreaker) success() {
	b.mu.Lock()
	defer b.mu.Unlock()

	b.state = stateClosed
	b.closesAt = time.Time{}
}

// failure reopens a half-open breaker whose probe did not succeed
func (b *circuitBreaker) failure() {
	b.mu.Lock()
	defer b.mu.Unlock()

	if b.state == stateHalfOpen {
		b.state = stateOpen
		b.closesAt = b.now().Add(b.cooldown)
	}
}

func (b *circuitBreaker) currentState() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}
