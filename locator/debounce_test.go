package locator

import (
	"sync/atomic"
	"testing"
	"time"

	"github.com/jonboulle/clockwork"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDebouncerRunsLastCall(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDebouncer(clock, time.Second)

	var calls, last atomic.Int32
	for i := int32(1); i <= 3; i++ {
		i := i
		d.Trigger(func() {
			calls.Add(1)
			last.Store(i)
		})
		clock.Advance(500 * time.Millisecond)
	}
	assert.True(t, d.Pending())
	assert.Zero(t, calls.Load())

	clock.Advance(500 * time.Millisecond)

	require.Eventually(t, func() bool { return calls.Load() == 1 }, time.Second, 5*time.Millisecond)
	assert.Equal(t, int32(3), last.Load())
	assert.False(t, d.Pending())

	clock.Advance(5 * time.Second)
	assert.Never(t, func() bool { return calls.Load() > 1 }, 50*time.Millisecond, 5*time.Millisecond)
}

func TestDebouncerStop(t *testing.T) {
	clock := clockwork.NewFakeClock()
	d := NewDebouncer(clock, time.Second)

	var calls atomic.Int32
	d.Trigger(func() { calls.Add(1) })
	d.Stop()
	assert.False(t, d.Pending())

	d.Trigger(func() { calls.Add(1) })
	assert.False(t, d.Pending())

	clock.Advance(2 * time.Second)
	assert.Never(t, func() bool { return calls.Load() > 0 }, 50*time.Millisecond, 5*time.Millisecond)
}
