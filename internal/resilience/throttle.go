package resilience

import (
	"context"
	"sync"
	"time"
)

// Throttle enforces a minimum interval between successive operations.
// Unlike a token-bucket limiter it never accumulates burst credit: each
// Wait is released exactly minInterval after the previous release, no
// matter how long the gap between calls was.
//
// A single shared Throttle is the one synchronization point between
// concurrent pipeline chains.
type Throttle struct {
	mu       sync.Mutex
	interval time.Duration
	next     time.Time

	// now is swappable for tests.
	now   func() time.Time
	sleep func(ctx context.Context, d time.Duration) error
}

// NewThrottle creates a throttle with the given minimum spacing. A zero
// or negative interval disables throttling.
func NewThrottle(interval time.Duration) *Throttle {
	return &Throttle{
		interval: interval,
		now:      time.Now,
		sleep:    sleepCtx,
	}
}

// Wait blocks until at least the configured interval has elapsed since
// the previous Wait was released, or until ctx is cancelled. Callers are
// serialized: the throttle state is updated strictly before the guarded
// network call is issued.
func (t *Throttle) Wait(ctx context.Context) error {
	if t == nil || t.interval <= 0 {
		return nil
	}

	t.mu.Lock()
	now := t.now()
	wait := t.next.Sub(now)
	if wait < 0 {
		wait = 0
	}
	release := now.Add(wait)
	t.next = release.Add(t.interval)
	t.mu.Unlock()

	if wait > 0 {
		if err := t.sleep(ctx, wait); err != nil {
			return err
		}
	}
	return ctx.Err()
}

// Interval returns the configured minimum spacing.
func (t *Throttle) Interval() time.Duration {
	return t.interval
}

func sleepCtx(ctx context.Context, d time.Duration) error {
	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
