// Package stats aggregates lifecycle events and delivered messages for
// operator-facing progress output.
package stats

import (
	"sync"
	"time"

	"claque/internal/core"
)

// Recorder counts events and deliveries. It implements core.Renderer
// so it can sit in a render chain via Tee.
type Recorder struct {
	mu         sync.Mutex
	startTime  time.Time
	counts     map[core.EventType]int
	delivered  int
	backfilled int
}

func NewRecorder() *Recorder {
	return &Recorder{
		startTime: time.Now(),
		counts:    make(map[core.EventType]int),
	}
}

func (r *Recorder) Event(ev core.Event) {
	r.mu.Lock()
	r.counts[ev.Type]++
	r.mu.Unlock()
}

func (r *Recorder) Deliver(_ core.Message, isNew bool) {
	r.mu.Lock()
	if isNew {
		r.delivered++
	} else {
		r.backfilled++
	}
	r.mu.Unlock()
}

// Summary is a point-in-time view of the run.
type Summary struct {
	Uptime     time.Duration
	Events     map[core.EventType]int
	Delivered  int
	Backfilled int
	Sessions   int // sessions that reached a terminal event
	Abandoned  int
}

func (r *Recorder) Snapshot() Summary {
	r.mu.Lock()
	defer r.mu.Unlock()
	events := make(map[core.EventType]int, len(r.counts))
	for k, v := range r.counts {
		events[k] = v
	}
	return Summary{
		Uptime:     time.Since(r.startTime),
		Events:     events,
		Delivered:  r.delivered,
		Backfilled: r.backfilled,
		Sessions:   events[core.EventSend] + events[core.EventAbandoned] + events[core.EventStop],
		Abandoned:  events[core.EventAbandoned],
	}
}

// Tee fans out renderer calls to every sink in order.
func Tee(sinks ...core.Renderer) core.Renderer {
	return teeRenderer(sinks)
}

type teeRenderer []core.Renderer

func (t teeRenderer) Event(ev core.Event) {
	for _, s := range t {
		s.Event(ev)
	}
}

func (t teeRenderer) Deliver(msg core.Message, isNew bool) {
	for _, s := range t {
		s.Deliver(msg, isNew)
	}
}
