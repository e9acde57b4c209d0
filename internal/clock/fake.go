package clock

import (
	"container/heap"
	"sync"
	"time"
)

type fakeTimer struct {
	owner   *Fake
	at      time.Time
	seq     uint64
	fn      func()
	stopped bool
	fired   bool
}

func (t *fakeTimer) Stop() bool {
	t.owner.mu.Lock()
	defer t.owner.mu.Unlock()
	if t.stopped || t.fired {
		return false
	}
	t.stopped = true
	t.owner.live--
	return true
}

type timerQueue []*fakeTimer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
}

func (q *timerQueue) Push(x any) {
	*q = append(*q, x.(*fakeTimer))
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	item := old[n-1]
	*q = old[0 : n-1]
	return item
}

// Fake is a manually driven Clock. Callbacks run synchronously inside
// Advance, in trigger order, with Now() set to their trigger time.
type Fake struct {
	mu    sync.Mutex
	now   time.Time
	queue timerQueue
	seq   uint64
	live  int
}

func NewFake(now time.Time) *Fake {
	return &Fake{now: now, queue: make(timerQueue, 0)}
}

func (f *Fake) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.now
}

func (f *Fake) AfterFunc(d time.Duration, fn func()) Timer {
	if d < 0 {
		d = 0
	}
	f.mu.Lock()
	defer f.mu.Unlock()
	f.seq++
	t := &fakeTimer{owner: f, at: f.now.Add(d), seq: f.seq, fn: fn}
	heap.Push(&f.queue, t)
	f.live++
	return t
}

// Advance moves virtual time forward by d, firing every timer that comes due,
// including timers armed by callbacks during the advance.
func (f *Fake) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.now.Add(d)
	f.mu.Unlock()

	for {
		next := f.popDue(target)
		if next == nil {
			break
		}
		next.fn()
	}

	f.mu.Lock()
	if target.After(f.now) {
		f.now = target
	}
	f.mu.Unlock()
}

// Pending reports how many timers are armed and not stopped.
func (f *Fake) Pending() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.live
}

func (f *Fake) popDue(target time.Time) *fakeTimer {
	f.mu.Lock()
	defer f.mu.Unlock()
	for len(f.queue) > 0 {
		next := f.queue[0]
		if next.at.After(target) {
			return nil
		}
		heap.Pop(&f.queue)
		if next.stopped {
			continue
		}
		next.fired = true
		f.live--
		if next.at.After(f.now) {
			f.now = next.at
		}
		return next
	}
	return nil
}
