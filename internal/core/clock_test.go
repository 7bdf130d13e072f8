package core

import (
	"testing"
	"time"
)

func TestFakeClockAdvance(t *testing.T) {
	start := time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	clock := NewFakeClock(start)

	var fired []int
	clock.AfterFunc(100*time.Millisecond, func() { fired = append(fired, 1) })
	clock.AfterFunc(50*time.Millisecond, func() { fired = append(fired, 2) })
	clock.AfterFunc(200*time.Millisecond, func() { fired = append(fired, 3) })

	clock.Advance(150 * time.Millisecond)

	if len(fired) != 2 || fired[0] != 2 || fired[1] != 1 {
		t.Fatalf("expected [2 1], got %v", fired)
	}
	if clock.PendingTimers() != 1 {
		t.Errorf("expected 1 pending timer, got %d", clock.PendingTimers())
	}

	clock.Advance(50 * time.Millisecond)
	if len(fired) != 3 || fired[2] != 3 {
		t.Fatalf("expected [2 1 3], got %v", fired)
	}
}

func TestFakeClockChainedTimers(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	var fired []string
	clock.AfterFunc(10*time.Millisecond, func() {
		fired = append(fired, "first")
		clock.AfterFunc(10*time.Millisecond, func() {
			fired = append(fired, "second")
		})
	})

	clock.Advance(30 * time.Millisecond)
	if len(fired) != 2 || fired[1] != "second" {
		t.Fatalf("chained timer did not fire within window: %v", fired)
	}
}

func TestFakeClockStop(t *testing.T) {
	clock := NewFakeClock(time.Unix(0, 0))
	fired := false
	timer := clock.AfterFunc(10*time.Millisecond, func() { fired = true })

	if !timer.Stop() {
		t.Error("Stop should report the callback was pending")
	}
	clock.Advance(time.Second)
	if fired {
		t.Error("stopped timer fired anyway")
	}
	if timer.Stop() {
		t.Error("second Stop should report not pending")
	}
}

func TestFakeClockNowDuringAdvance(t *testing.T) {
	start := time.Unix(0, 0)
	clock := NewFakeClock(start)
	var at time.Time
	clock.AfterFunc(40*time.Millisecond, func() { at = clock.Now() })

	clock.Advance(100 * time.Millisecond)
	if want := start.Add(40 * time.Millisecond); !at.Equal(want) {
		t.Errorf("callback saw Now=%v, want %v", at, want)
	}
	if want := start.Add(100 * time.Millisecond); !clock.Now().Equal(want) {
		t.Errorf("clock ended at %v, want %v", clock.Now(), want)
	}
}

func TestRealClockAfterFunc(t *testing.T) {
	done := make(chan struct{})
	RealClock{}.AfterFunc(time.Millisecond, func() { close(done) })
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("real timer never fired")
	}
}
