package scheduler

import (
	"strings"
	"sync"
	"time"

	"github.com/sandeepkv93/lifeboard/internal/clock"
)

type registryEntry struct {
	timer clock.Timer
}

// Registry owns keyed one-shot timers. Scheduling a key replaces its
// previous timer, and a timer whose entry was replaced or cancelled never
// runs its callback.
type Registry struct {
	clock   clock.Clock
	mu      sync.Mutex
	entries map[string]*registryEntry
}

func NewRegistry(c clock.Clock) *Registry {
	return &Registry{clock: c, entries: make(map[string]*registryEntry)}
}

func (r *Registry) Schedule(key string, d time.Duration, fn func()) {
	r.mu.Lock()
	defer r.mu.Unlock()
	if prev, ok := r.entries[key]; ok {
		prev.timer.Stop()
	}
	e := &registryEntry{}
	r.entries[key] = e
	e.timer = r.clock.AfterFunc(d, func() {
		if r.take(key, e) {
			fn()
		}
	})
}

// take removes e if it is still the live entry for key.
func (r *Registry) take(key string, e *registryEntry) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	if r.entries[key] != e {
		return false
	}
	delete(r.entries, key)
	return true
}

func (r *Registry) Cancel(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	e, ok := r.entries[key]
	if !ok {
		return false
	}
	e.timer.Stop()
	delete(r.entries, key)
	return true
}

// CancelPrefix cancels every timer whose key starts with prefix.
func (r *Registry) CancelPrefix(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key, e := range r.entries {
		if strings.HasPrefix(key, prefix) {
			e.timer.Stop()
			delete(r.entries, key)
			n++
		}
	}
	return n
}

func (r *Registry) Clear() {
	r.mu.Lock()
	defer r.mu.Unlock()
	for key, e := range r.entries {
		e.timer.Stop()
		delete(r.entries, key)
	}
}

func (r *Registry) Has(key string) bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	_, ok := r.entries[key]
	return ok
}

func (r *Registry) Len() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.entries)
}

// CountPrefix reports how many live timers have keys starting with prefix.
func (r *Registry) CountPrefix(prefix string) int {
	r.mu.Lock()
	defer r.mu.Unlock()
	n := 0
	for key := range r.entries {
		if strings.HasPrefix(key, prefix) {
			n++
		}
	}
	return n
}
