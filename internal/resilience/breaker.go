// Package resilience wraps calls to external contact providers with retry
// and circuit breaking.
package resilience

import (
	"context"
	"sync"
	"time"

	"github.com/rotisserie/eris"
)

// State is a breaker's position.
type State int

const (
	// Closed lets calls through.
	Closed State = iota
	// Open rejects calls until the cooldown elapses.
	Open
	// HalfOpen lets one probe through.
	HalfOpen
)

func (s State) String() string {
	switch s {
	case Closed:
		return "closed"
	case Open:
		return "open"
	case HalfOpen:
		return "half-open"
	}
	return "unknown"
}

// ErrCircuitOpen is returned without calling the provider while the breaker
// is open.
var ErrCircuitOpen = eris.New("resilience: circuit open")

// BreakerConfig configures a Breaker.
type BreakerConfig struct {
	// Threshold is the run of consecutive failures that opens the breaker.
	Threshold int
	Cooldown  time.Duration
	// OnStateChange observes transitions, e.g. for metrics.
	OnStateChange func(name string, from, to State)
}

// DefaultBreakerConfig returns the provider defaults.
func DefaultBreakerConfig() BreakerConfig {
	return BreakerConfig{Threshold: 5, Cooldown: 30 * time.Second}
}

// Breaker stops hammering a provider that keeps failing.
type Breaker struct {
	name string
	cfg  BreakerConfig

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time

	now func() time.Time
}

// NewBreaker creates a closed breaker for the named provider.
func NewBreaker(name string, cfg BreakerConfig) *Breaker {
	def := DefaultBreakerConfig()
	if cfg.Threshold <= 0 {
		cfg.Threshold = def.Threshold
	}
	if cfg.Cooldown <= 0 {
		cfg.Cooldown = def.Cooldown
	}
	return &Breaker{name: name, cfg: cfg, now: time.Now}
}

// Name returns the provider name.
func (b *Breaker) Name() string { return b.name }

// Call runs fn unless the breaker is open. Context cancellations are not
// counted against the provider.
func Call[T any](ctx context.Context, b *Breaker, fn func(ctx context.Context) (T, error)) (T, error) {
	var zero T
	if !b.allow() {
		return zero, ErrCircuitOpen
	}
	val, err := fn(ctx)
	b.record(err == nil || ctx.Err() != nil)
	return val, err
}

// State returns the current state, reporting HalfOpen once the cooldown has
// elapsed.
func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == Open && b.now().Sub(b.openedAt) >= b.cfg.Cooldown {
		return HalfOpen
	}
	return b.state
}

// Failures returns the current run of consecutive failures.
func (b *Breaker) Failures() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.failures
}

func (b *Breaker) allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state != Open {
		return true
	}
	if b.now().Sub(b.openedAt) < b.cfg.Cooldown {
		return false
	}
	b.moveTo(HalfOpen)
	return true
}

func (b *Breaker) record(ok bool) {
	b.mu.Lock()
	defer b.mu.Unlock()

	if ok {
		b.failures = 0
		if b.state != Closed {
			b.moveTo(Closed)
		}
		return
	}

	b.failures++
	if b.state == HalfOpen || b.failures >= b.cfg.Threshold {
		b.openedAt = b.now()
		if b.state != Open {
			b.moveTo(Open)
		}
	}
}

func (b *Breaker) moveTo(to State) {
	from := b.state
	b.state = to
	if b.cfg.OnStateChange != nil {
		b.cfg.OnStateChange(b.name, from, to)
	}
}
