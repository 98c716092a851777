// Package ratelimit paces outbound chat API calls. The rate adapts to
// what the platform tolerates: it creeps up while sends succeed and
// backs off sharply when the platform reports flood control.
package ratelimit

import (
	"context"
	"sync"
	"time"

	"golang.org/x/time/rate"
)

// cooldown is how long after a throttle the rate is held down before
// successes may raise it again.
const cooldown = 10 * time.Second

type Limiter struct {
	mu       sync.Mutex
	limiter  *rate.Limiter
	min, max rate.Limit
	stepUp   rate.Limit
	backoff  float64
	lastSlow time.Time
	clock    func() time.Time
}

// New creates a Limiter starting at initial requests per second, never
// adapting below min or above max.
func New(initial, min, max rate.Limit) *Limiter {
	if initial < min {
		initial = min
	}
	return &Limiter{
		limiter: rate.NewLimiter(initial, burstFor(initial)),
		min:     min,
		max:     max,
		stepUp:  1,
		backoff: 0.5,
		clock:   time.Now,
	}
}

// WithClock swaps the time source, for tests.
func (l *Limiter) WithClock(now func() time.Time) *Limiter {
	l.clock = now
	return l
}

// Wait blocks until a send slot is available or ctx is done.
func (l *Limiter) Wait(ctx context.Context) error {
	return l.limiter.Wait(ctx)
}

// Success nudges the rate up, unless a throttle happened recently.
func (l *Limiter) Success() {
	l.mu.Lock()
	defer l.mu.Unlock()
	if l.clock().Sub(l.lastSlow) < cooldown {
		return
	}
	l.set(l.limiter.Limit() + l.stepUp)
}

// Throttled cuts the rate after the platform reported flood control.
func (l *Limiter) Throttled() {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.lastSlow = l.clock()
	l.set(rate.Limit(float64(l.limiter.Limit()) * l.backoff))
}

// Limit returns the current requests per second.
func (l *Limiter) Limit() float64 {
	l.mu.Lock()
	defer l.mu.Unlock()
	return float64(l.limiter.Limit())
}

func (l *Limiter) set(next rate.Limit) {
	if next > l.max {
		next = l.max
	}
	if next < l.min {
		next = l.min
	}
	if next != l.limiter.Limit() {
		l.limiter.SetLimit(next)
		l.limiter.SetBurst(burstFor(next))
	}
}

func burstFor(limit rate.Limit) int {
	if limit < 1 {
		return 1
	}
	return int(limit)
}
