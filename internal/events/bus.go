// Package events carries typed in-process signals between the settings
// store, the claim workflow, the scheduler and the UI.
package events

import (
	"sort"
	"sync"
)

// Bus is a synchronous publish/subscribe channel for one event type.
// Publish calls every subscriber in subscription order on the caller's
// goroutine; subscribers must not block.
type Bus[T any] struct {
	mu   sync.Mutex
	next int
	subs map[int]func(T)
}

func NewBus[T any]() *Bus[T] {
	return &Bus[T]{subs: make(map[int]func(T))}
}

// Subscribe registers fn and returns a function that removes it. The
// returned function is safe to call more than once.
func (b *Bus[T]) Subscribe(fn func(T)) func() {
	b.mu.Lock()
	defer b.mu.Unlock()
	id := b.next
	b.next++
	b.subs[id] = fn
	return func() {
		b.mu.Lock()
		defer b.mu.Unlock()
		delete(b.subs, id)
	}
}

func (b *Bus[T]) Publish(v T) {
	for _, fn := range b.snapshot() {
		fn(v)
	}
}

func (b *Bus[T]) Len() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return len(b.subs)
}

func (b *Bus[T]) snapshot() []func(T) {
	b.mu.Lock()
	defer b.mu.Unlock()
	ids := make([]int, 0, len(b.subs))
	for id := range b.subs {
		ids = append(ids, id)
	}
	sort.Ints(ids)
	out := make([]func(T), 0, len(ids))
	for _, id := range ids {
		out = append(out, b.subs[id])
	}
	return out
}
