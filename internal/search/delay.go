package search

import (
	"context"
	"math/rand/v2"
	"time"
)

// Sleeper pauses between upstream requests. It is best-effort and never
// reports failure.
type Sleeper interface {
	Sleep(ctx context.Context, lo, hi time.Duration)
}

// JitterSleeper sleeps for a uniform random duration in [lo, hi]. A
// cancelled context cuts the sleep short.
type JitterSleeper struct{}

func (JitterSleeper) Sleep(ctx context.Context, lo, hi time.Duration) {
	d := Jitter(lo, hi)
	if d <= 0 {
		return
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Jitter picks a duration uniformly in [lo, hi]. Swapped bounds are
// reordered and negative bounds clamp to zero.
func Jitter(lo, hi time.Duration) time.Duration {
	if hi < lo {
		lo, hi = hi, lo
	}
	if lo < 0 {
		lo = 0
	}
	if hi <= lo {
		return lo
	}
	return lo + rand.N(hi-lo+1)
}

// NoSleep skips every delay.
type NoSleep struct{}

func (NoSleep) Sleep(context.Context, time.Duration, time.Duration) {}
