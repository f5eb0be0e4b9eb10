// Package debounce delays an action until its input has been quiet for a
// fixed window.
package debounce

import (
	"sync"
	"time"

	"github.com/bitfantasy/bws/internal/shared/clock"
)

// Debouncer holds at most one pending call. Scheduling a new call replaces
// the pending one and restarts the window.
type Debouncer struct {
	mu    sync.Mutex
	clock clock.Clock
	delay time.Duration
	timer *clock.Timer
	gen   uint64
}

// New returns a Debouncer with the given quiescence window.
func New(clk clock.Clock, delay time.Duration) *Debouncer {
	if clk == nil {
		clk = clock.Real()
	}
	return &Debouncer{clock: clk, delay: delay}
}

// Delay returns the quiescence window.
func (d *Debouncer) Delay() time.Duration { return d.delay }

// Schedule cancels any pending call and arms f to run once the window elapses
// without another Schedule or Cancel.
func (d *Debouncer) Schedule(f func()) {
	d.mu.Lock()
	if d.timer != nil {
		d.timer.Stop()
	}
	d.gen++
	gen := d.gen
	d.mu.Unlock()

	// AfterFunc on a fake clock may run f before returning when delay <= 0,
	// so the timer is stored outside the lock.
	t := d.clock.AfterFunc(d.delay, func() {
		d.mu.Lock()
		if gen != d.gen {
			// a newer Schedule or Cancel won the race with this timer
			d.mu.Unlock()
			return
		}
		d.timer = nil
		d.gen++
		d.mu.Unlock()
		f()
	})

	d.mu.Lock()
	if gen == d.gen {
		d.timer = t
	}
	d.mu.Unlock()
}

// Cancel drops the pending call. It reports whether one was pending.
func (d *Debouncer) Cancel() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	d.gen++
	return true
}

// Pending reports whether a call is armed.
func (d *Debouncer) Pending() bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.timer != nil
}
