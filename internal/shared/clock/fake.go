package clock

import (
	"sort"
	"sync"
	"time"
)

// FakeClock only moves when Advance is called. Callbacks run synchronously
// inside Advance, earliest deadline first, so tests observe timer effects
// without sleeping.
type FakeClock struct {
	mu      sync.Mutex
	now     time.Time
	pending []*fakeTimer
}

type fakeTimer struct {
	at      time.Time
	f       func()
	stopped bool
	fired   bool
}

// Fake returns a FakeClock set to start.
func Fake(start time.Time) *FakeClock {
	return &FakeClock{now: start}
}

func (c *FakeClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.now
}

func (c *FakeClock) AfterFunc(d time.Duration, f func()) *Timer {
	if d <= 0 {
		f()
		return &Timer{stop: func() bool { return false }}
	}

	c.mu.Lock()
	ft := &fakeTimer{at: c.now.Add(d), f: f}
	c.pending = append(c.pending, ft)
	c.mu.Unlock()

	return &Timer{stop: func() bool {
		c.mu.Lock()
		defer c.mu.Unlock()
		if ft.stopped || ft.fired {
			return false
		}
		ft.stopped = true
		return true
	}}
}

// Advance moves the clock forward by d and runs every callback whose deadline
// has been reached. Callbacks scheduled by other callbacks also run when
// their deadline falls inside the window. Do not call Advance from a callback.
func (c *FakeClock) Advance(d time.Duration) {
	c.mu.Lock()
	c.now = c.now.Add(d)
	target := c.now
	c.mu.Unlock()

	for {
		due := c.takeDue(target)
		if len(due) == 0 {
			return
		}
		for _, ft := range due {
			ft.f()
		}
	}
}

func (c *FakeClock) takeDue(target time.Time) []*fakeTimer {
	c.mu.Lock()
	defer c.mu.Unlock()

	var due, keep []*fakeTimer
	for _, ft := range c.pending {
		switch {
		case ft.stopped:
		case ft.at.After(target):
			keep = append(keep, ft)
		default:
			ft.fired = true
			due = append(due, ft)
		}
	}
	c.pending = keep

	sort.SliceStable(due, func(i, j int) bool { return due[i].at.Before(due[j].at) })
	return due
}

// Pending returns the number of scheduled callbacks that have neither run nor
// been stopped.
func (c *FakeClock) Pending() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	n := 0
	for _, ft := range c.pending {
		if !ft.stopped {
			n++
		}
	}
	return n
}
