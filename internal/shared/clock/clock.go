// Package clock lets time-dependent code run against a manually advanced
// clock in tests.
package clock

import "time"

// Clock is the subset of the time package used by timers in this module.
type Clock interface {
	Now() time.Time
	// AfterFunc calls f once d has elapsed. The returned Timer cancels the call.
	AfterFunc(d time.Duration, f func()) *Timer
}

// Timer is a pending AfterFunc call.
type Timer struct {
	stop func() bool
}

// Stop cancels the call. It reports false when the call already ran or was
// already stopped.
func (t *Timer) Stop() bool { return t.stop() }

// Real returns the wall clock.
func Real() Clock { return wallClock{} }

type wallClock struct{}

func (wallClock) Now() time.Time { return time.Now() }

func (wallClock) AfterFunc(d time.Duration, f func()) *Timer {
	t := time.AfterFunc(d, f)
	return &Timer{stop: t.Stop}
}
