// Package clock abstracts wall time and one-shot timers so timer-driven code
// can run against real time in production and virtual time in tests.
package clock

import (
	"sync"
	"time"
)

// Timer is a cancellable one-shot callback.
type Timer interface {
	// Stop prevents the callback from running. It reports false when the
	// callback already ran or the timer was already stopped.
	Stop() bool
}

type Clock interface {
	Now() time.Time
	AfterFunc(d time.Duration, f func()) Timer
}

type realClock struct{}

func Real() Clock { return realClock{} }

func (realClock) Now() time.Time { return time.Now() }

func (realClock) AfterFunc(d time.Duration, f func()) Timer {
	if d < 0 {
		d = 0
	}
	return time.AfterFunc(d, f)
}

// Repeating is a cancellable task that runs every interval until stopped.
type Repeating struct {
	mu       sync.Mutex
	clock    Clock
	interval time.Duration
	fn       func()
	timer    Timer
	stopped  bool
}

// Repeat runs fn every interval, starting one interval from now. Each run is
// armed as a fresh one-shot timer after the previous run returns, so a slow
// run never overlaps the next one.
func Repeat(c Clock, interval time.Duration, fn func()) *Repeating {
	if interval <= 0 {
		interval = time.Second
	}
	r := &Repeating{clock: c, interval: interval, fn: fn}
	r.mu.Lock()
	r.arm()
	r.mu.Unlock()
	return r
}

func (r *Repeating) arm() {
	r.timer = r.clock.AfterFunc(r.interval, r.tick)
}

func (r *Repeating) tick() {
	r.mu.Lock()
	if r.stopped {
		r.mu.Unlock()
		return
	}
	r.mu.Unlock()

	r.fn()

	r.mu.Lock()
	defer r.mu.Unlock()
	if !r.stopped {
		r.arm()
	}
}

func (r *Repeating) Stop() {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.stopped {
		return
	}
	r.stopped = true
	if r.timer != nil {
		r.timer.Stop()
	}
}

func (r *Repeating) Stopped() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.stopped
}
