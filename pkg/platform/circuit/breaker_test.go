package circuit

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

type fakeClock struct{ t time.Time }

func (c *fakeClock) now() time.Time { return c.t }

func TestBreaker(t *testing.T) {
	clock := &fakeClock{t: time.Date(2022, 10, 10, 9, 0, 0, 0, time.UTC)}
	newBreaker := func() *Breaker {
		return New("psc-api", WithFailureThreshold(2), WithCooldown(time.Second), WithClock(clock.now))
	}
	trip := func(b *Breaker) {
		b.Record(true)
		b.Record(true)
	}

	t.Run("opens after consecutive failures", func(t *testing.T) {
		b := newBreaker()
		_, to := b.Record(true)
		assert.Equal(t, StateClosed, to)

		from, to := b.Record(true)
		assert.Equal(t, StateClosed, from)
		assert.Equal(t, StateOpen, to)
		assert.False(t, b.Allow())
	})

	t.Run("success resets the failure count", func(t *testing.T) {
		b := newBreaker()
		b.Record(true)
		b.Record(false)
		_, to := b.Record(true)
		assert.Equal(t, StateClosed, to)
	})

	t.Run("stays open during cooldown", func(t *testing.T) {
		b := newBreaker()
		trip(b)
		clock.t = clock.t.Add(999 * time.Millisecond)
		assert.False(t, b.Allow())
		clock.t = clock.t.Add(time.Millisecond)
	})

	t.Run("half-open probe closes on success", func(t *testing.T) {
		b := newBreaker()
		trip(b)
		clock.t = clock.t.Add(time.Second)

		assert.True(t, b.Allow())
		assert.Equal(t, StateHalfOpen, b.State())
		assert.False(t, b.Allow(), "only one probe at a time")

		from, to := b.Record(false)
		assert.Equal(t, StateHalfOpen, from)
		assert.Equal(t, StateClosed, to)
		assert.True(t, b.Allow())
	})

	t.Run("half-open probe failure re-opens", func(t *testing.T) {
		b := newBreaker()
		trip(b)
		clock.t = clock.t.Add(time.Second)

		assert.True(t, b.Allow())
		_, to := b.Record(true)
		assert.Equal(t, StateOpen, to)
		assert.False(t, b.Allow())
	})

	t.Run("state names", func(t *testing.T) {
		assert.Equal(t, "half_open", StateHalfOpen.String())
		assert.Equal(t, "open", StateOpen.String())
		assert.Equal(t, "closed", StateClosed.String())
	})
}
