package core

import (
	"sort"
	"sync"
	"time"
)

// Clock provides time operations that can be mocked for testing.
// AfterFunc is the single scheduling primitive: every delay in the
// simulation (character pacing, pauses, tick intervals) goes through it
// so tests can drive the whole system with a virtual clock.
type Clock interface {
	Now() time.Time
	Since(t time.Time) time.Duration
	AfterFunc(d time.Duration, f func()) Timer
}

// Timer is a cancellable pending callback.
type Timer interface {
	// Stop cancels the timer. It reports whether the callback was
	// still pending.
	Stop() bool
}

// RealClock uses the standard time package.
type RealClock struct{}

func (RealClock) Now() time.Time                  { return time.Now() }
func (RealClock) Since(t time.Time) time.Duration { return time.Since(t) }
func (RealClock) AfterFunc(d time.Duration, f func()) Timer {
	return realTimer{time.AfterFunc(d, f)}
}

type realTimer struct{ t *time.Timer }

func (r realTimer) Stop() bool { return r.t.Stop() }

// FakeClock is a test clock that can be manually advanced. Callbacks
// scheduled with AfterFunc fire synchronously, in due order, during
// Advance.
type FakeClock struct {
	mu      sync.Mutex
	current time.Time
	pending []*fakeTimer
	nextSeq int
}

func NewFakeClock(start time.Time) *FakeClock {
	return &FakeClock{current: start}
}

func (f *FakeClock) Now() time.Time {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.current
}

func (f *FakeClock) Since(t time.Time) time.Duration {
	return f.Now().Sub(t)
}

func (f *FakeClock) AfterFunc(d time.Duration, fn func()) Timer {
	f.mu.Lock()
	defer f.mu.Unlock()
	t := &fakeTimer{
		clock: f,
		due:   f.current.Add(d),
		seq:   f.nextSeq,
		fn:    fn,
	}
	f.nextSeq++
	f.pending = append(f.pending, t)
	return t
}

// Advance moves the clock forward by d, firing due callbacks in order.
// Callbacks may schedule further timers; those fire too if they fall
// within the advanced window.
func (f *FakeClock) Advance(d time.Duration) {
	f.mu.Lock()
	target := f.current.Add(d)
	for {
		t := f.popDue(target)
		if t == nil {
			break
		}
		if t.due.After(f.current) {
			f.current = t.due
		}
		f.mu.Unlock()
		t.fn()
		f.mu.Lock()
	}
	f.current = target
	f.mu.Unlock()
}

// Set jumps the clock to t without firing callbacks.
func (f *FakeClock) Set(t time.Time) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.current = t
}

// PendingTimers reports how many callbacks are scheduled.
func (f *FakeClock) PendingTimers() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return len(f.pending)
}

// popDue removes and returns the earliest timer due at or before
// target, or nil. Caller holds f.mu.
func (f *FakeClock) popDue(target time.Time) *fakeTimer {
	sort.SliceStable(f.pending, func(i, j int) bool {
		if f.pending[i].due.Equal(f.pending[j].due) {
			return f.pending[i].seq < f.pending[j].seq
		}
		return f.pending[i].due.Before(f.pending[j].due)
	})
	if len(f.pending) == 0 || f.pending[0].due.After(target) {
		return nil
	}
	t := f.pending[0]
	f.pending = f.pending[1:]
	return t
}

type fakeTimer struct {
	clock *FakeClock
	due   time.Time
	seq   int
	fn    func()
}

func (t *fakeTimer) Stop() bool {
	t.clock.mu.Lock()
	defer t.clock.mu.Unlock()
	for i, p := range t.clock.pending {
		if p == t {
			t.clock.pending = append(t.clock.pending[:i], t.clock.pending[i+1:]...)
			return true
		}
	}
	return false
}
