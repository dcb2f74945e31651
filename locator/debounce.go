package locator

import (
	"sync"
	"time"

	"github.com/jonboulle/clockwork"
)

// Debouncer runs only the last function passed to Trigger, once wait has
// elapsed without another Trigger.
type Debouncer struct {
	clock clockwork.Clock
	wait  time.Duration

	mu      sync.Mutex
	timer   clockwork.Timer
	fn      func()
	gen     uint64
	stopped bool
}

func NewDebouncer(clock clockwork.Clock, wait time.Duration) *Debouncer {
	if clock == nil {
		clock = clockwork.NewRealClock()
	}
	return &Debouncer{clock: clock, wait: wait}
}

func (d *Debouncer) Trigger(fn func()) {
	d.mu.Lock()
	defer d.mu.Unlock()

	if d.stopped {
		return
	}
	d.fn = fn
	d.gen++
	gen := d.gen
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.clock.AfterFunc(d.wait, func() { d.fire(gen) })
}

func (d *Debouncer) fire(gen uint64) {
	d.mu.Lock()
	if d.stopped || gen != d.gen {
		d.mu.Unlock()
		return
	}
	fn := d.fn
	d.fn = nil
	d.timer = nil
	d.mu.Unlock()

	if fn != nil {
		fn()
	}
}

// Pending reports whether a call is waiting for the quiet period.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.fn != nil
}

// Stop drops any pending call; later Triggers are ignored.
func (d *Debouncer) Stop() {
	d.mu.Lock()
	defer d.mu.Unlock()

	d.stopped = true
	d.fn = nil
	if d.timer != nil {
		d.timer.Stop()
		d.timer = nil
	}
}
