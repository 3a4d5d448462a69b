// Package circuit trips outbound API clients after repeated outages so filing
// requests fail fast instead of queueing on a dead dependency.
package circuit

import (
	"sync"
	"time"
)

type State int

const (
	StateClosed State = iota
	StateOpen
	StateHalfOpen
)

func (s State) String() string {
	return [...]string{"closed", "open", "half_open"}[s]
}

const (
	defaultThreshold = 5
	defaultCooldown  = 10 * time.Second
)

// Breaker opens after threshold consecutive failures. Once cooldown has passed
// a single probe call is let through; its outcome closes or re-opens the
// circuit.
type Breaker struct {
	name      string
	threshold int
	cooldown  time.Duration
	now       func() time.Time

	mu       sync.Mutex
	state    State
	failures int
	openedAt time.Time
}

type Option func(*Breaker)

func WithFailureThreshold(n int) Option {
	return func(b *Breaker) {
		if n > 0 {
			b.threshold = n
		}
	}
}

func WithCooldown(d time.Duration) Option {
	return func(b *Breaker) {
		if d > 0 {
			b.cooldown = d
		}
	}
}

// WithClock replaces time.Now.
func WithClock(now func() time.Time) Option {
	return func(b *Breaker) {
		if now != nil {
			b.now = now
		}
	}
}

func New(name string, opts ...Option) *Breaker {
	b := &Breaker{name: name, threshold: defaultThreshold, cooldown: defaultCooldown, now: time.Now}
	for _, opt := range opts {
		opt(b)
	}
	return b
}

func (b *Breaker) Name() string { return b.name }

func (b *Breaker) State() State {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.state
}

// Allow reports whether a call may go out now.
func (b *Breaker) Allow() bool {
	b.mu.Lock()
	defer b.mu.Unlock()
	if b.state == StateOpen && b.now().Sub(b.openedAt) >= b.cooldown {
		b.state = StateHalfOpen
		return true
	}
	return b.state == StateClosed
}

// Record feeds the outcome of an allowed call into the breaker and returns
// the state before and after it.
func (b *Breaker) Record(failed bool) (from, to State) {
	b.mu.Lock()
	defer b.mu.Unlock()
	from = b.state

	switch {
	case !failed:
		b.failures = 0
		b.state = StateClosed
	case b.state == StateHalfOpen:
		b.open()
	default:
		b.failures++
		if b.state == StateClosed && b.failures >= b.threshold {
			b.open()
		}
	}
	return from, b.state
}

func (b *Breaker) open() {
	b.state = StateOpen
	b.openedAt = b.now()
}
