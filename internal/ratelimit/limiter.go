// Package ratelimit throttles chat sends per user.
package ratelimit

import (
	"sync"
	"time"

	"golang.org/x/time/rate"
)

const (
	defaultRPS   = 5
	defaultBurst = 10

	// idleTTL is how long an unused bucket is kept. A recreated bucket starts
	// full, so a key idle that long gets its burst back.
	idleTTL = 10 * time.Minute
)

type bucket struct {
	limiter  *rate.Limiter
	lastSeen time.Time
}

// Pool keeps one token bucket per key. Buckets idle for longer than idleTTL
// are evicted, so the pool holds only recently active keys.
type Pool struct {
	mu        sync.Mutex
	m         map[string]*bucket
	rps       float64
	burst     int
	now       func() time.Time
	lastSweep time.Time
}

// NewPool creates a Pool. Non-positive values fall back to 5 rps and a burst of 10.
func NewPool(rps float64, burst int) *Pool {
	if rps <= 0 {
		rps = defaultRPS
	}
	if burst <= 0 {
		burst = defaultBurst
	}
	return &Pool{m: make(map[string]*bucket), rps: rps, burst: burst, now: time.Now}
}

func (p *Pool) get(key string, now time.Time) *rate.Limiter {
	p.mu.Lock()
	defer p.mu.Unlock()

	if now.Sub(p.lastSweep) >= idleTTL {
		p.sweep(now)
	}

	b, ok := p.m[key]
	if !ok {
		b = &bucket{limiter: rate.NewLimiter(rate.Limit(p.rps), p.burst)}
		p.m[key] = b
	}
	b.lastSeen = now
	return b.limiter
}

// sweep drops idle buckets. p.mu must be held.
func (p *Pool) sweep(now time.Time) {
	for key, b := range p.m {
		if now.Sub(b.lastSeen) >= idleTTL {
			delete(p.m, key)
		}
	}
	p.lastSweep = now
}

// Allow reports whether key may act now and consumes a token if so.
func (p *Pool) Allow(key string) bool {
	now := p.now()
	return p.get(key, now).AllowN(now, 1)
}

// Len returns the number of buckets currently held.
func (p *Pool) Len() int {
	p.mu.Lock()
	defer p.mu.Unlock()
	return len(p.m)
}
