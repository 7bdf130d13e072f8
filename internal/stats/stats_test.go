package stats

import (
	"testing"
	"time"

	"claque/internal/core"
)

func TestRecorderCounts(t *testing.T) {
	r := NewRecorder()
	r.Event(core.Event{Type: core.EventStart})
	r.Event(core.Event{Type: core.EventProgress})
	r.Event(core.Event{Type: core.EventProgress})
	r.Event(core.Event{Type: core.EventSend})
	r.Event(core.Event{Type: core.EventAbandoned})
	r.Event(core.Event{Type: core.EventStop})
	r.Deliver(core.Message{}, true)
	r.Deliver(core.Message{}, true)
	r.Deliver(core.Message{}, false)

	s := r.Snapshot()
	if s.Delivered != 2 {
		t.Errorf("delivered = %d, want 2", s.Delivered)
	}
	if s.Backfilled != 1 {
		t.Errorf("backfilled = %d, want 1", s.Backfilled)
	}
	if s.Events[core.EventProgress] != 2 {
		t.Errorf("progress events = %d, want 2", s.Events[core.EventProgress])
	}
	if s.Sessions != 3 {
		t.Errorf("terminal sessions = %d, want 3", s.Sessions)
	}
	if s.Abandoned != 1 {
		t.Errorf("abandoned = %d, want 1", s.Abandoned)
	}
	if s.Uptime < 0 {
		t.Errorf("uptime went backwards: %v", s.Uptime)
	}
}

func TestSnapshotIsACopy(t *testing.T) {
	r := NewRecorder()
	r.Event(core.Event{Type: core.EventSend})
	s := r.Snapshot()
	s.Events[core.EventSend] = 99

	if r.Snapshot().Events[core.EventSend] != 1 {
		t.Error("mutating a snapshot leaked into the recorder")
	}
}

type countingSink struct {
	events, deliveries int
}

func (c *countingSink) Event(core.Event)           { c.events++ }
func (c *countingSink) Deliver(core.Message, bool) { c.deliveries++ }

func TestTeeFansOut(t *testing.T) {
	a := &countingSink{}
	b := &countingSink{}
	tee := Tee(a, b)

	tee.Event(core.Event{Type: core.EventStart, At: time.Now()})
	tee.Deliver(core.Message{}, true)
	tee.Deliver(core.Message{}, false)

	for i, sink := range []*countingSink{a, b} {
		if sink.events != 1 || sink.deliveries != 2 {
			t.Errorf("sink %d saw events=%d deliveries=%d", i, sink.events, sink.deliveries)
		}
	}
}

func TestTeeEmpty(t *testing.T) {
	tee := Tee()
	tee.Event(core.Event{Type: core.EventStart})
	tee.Deliver(core.Message{}, true)
}
