package scheduler

import (
	"sync"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/clock"
)

type dedupKey struct {
	title string
	body  string
}

// Dedup suppresses a notification while an identical one is still active.
// A notification stays active for the configured window after it is shown.
type Dedup struct {
	clock  clock.Clock
	window time.Duration
	mu     sync.Mutex
	active map[dedupKey]clock.Timer
}

func NewDedup(c clock.Clock, window time.Duration) *Dedup {
	if window <= 0 {
		window = time.Minute
	}
	return &Dedup{clock: c, window: window, active: make(map[dedupKey]clock.Timer)}
}

// Acquire marks (title, body) active and reports true, or reports false when
// it is already active.
func (d *Dedup) Acquire(title, body string) bool {
	key := dedupKey{title: title, body: body}
	d.mu.Lock()
	defer d.mu.Unlock()
	if _, ok := d.active[key]; ok {
		return false
	}
	var timer clock.Timer
	timer = d.clock.AfterFunc(d.window, func() {
		d.mu.Lock()
		defer d.mu.Unlock()
		if d.active[key] == timer {
			delete(d.active, key)
		}
	})
	d.active[key] = timer
	return true
}

func (d *Dedup) Release(title, body string) {
	key := dedupKey{title: title, body: body}
	d.mu.Lock()
	defer d.mu.Unlock()
	if timer, ok := d.active[key]; ok {
		timer.Stop()
		delete(d.active, key)
	}
}

func (d *Dedup) Active(title, body string) bool {
	d.mu.Lock()
	defer d.mu.Unlock()
	_, ok := d.active[dedupKey{title: title, body: body}]
	return ok
}

func (d *Dedup) Clear() {
	d.mu.Lock()
	defer d.mu.Unlock()
	for key, timer := range d.active {
		timer.Stop()
		delete(d.active, key)
	}
}
