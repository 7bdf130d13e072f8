// Package typing turns a piece of text into a realistic sequence of
// timed lifecycle events: start, progress, pauses, corrections, and a
// single terminal send, abandonment or stop. Each session is an
// explicit state machine driven by one scheduler primitive, the
// clock's cancellable AfterFunc, so tests advance a virtual clock
// instead of sleeping.
package typing

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"claque/internal/actor"
	"claque/internal/core"
	"claque/internal/seq"
)

// Scheduler creates typing sessions. Session randomness derives from
// the base seed and a session counter, so a run's pacing is as
// reproducible as its content.
type Scheduler struct {
	cfg   Config
	dir   *actor.Directory
	clock core.Clock
	src   seq.Source
	log   *core.DebugLogger

	mu      sync.Mutex
	counter uint32
}

func NewScheduler(seed uint32, cfg Config, dir *actor.Directory, clock core.Clock, log *core.DebugLogger) *Scheduler {
	if clock == nil {
		clock = core.RealClock{}
	}
	return &Scheduler{
		cfg:   cfg,
		dir:   dir,
		clock: clock,
		src:   seq.NewSource(seed),
		log:   log,
	}
}

// Begin starts simulating the actor typing text. The start event is
// emitted synchronously before Begin returns; everything after arrives
// through sink from timer callbacks. The sink must not call back into
// the returned session.
func (s *Scheduler) Begin(a core.Actor, text string, sink func(core.Event)) *Session {
	s.mu.Lock()
	s.counter++
	st := s.src.Derive(seq.SaltTyping ^ s.counter*0x9E3779B1)
	s.mu.Unlock()

	if sink == nil {
		sink = func(core.Event) {}
	}

	now := s.clock.Now()
	fatigue := s.dir.Fatigue(a.ID, now)
	a.Fatigue = fatigue

	sess := &Session{
		id:    uuid.NewString(),
		actor: a,
		runes: []rune(text),
		full:  text,
		sink:  sink,
		clock: s.clock,
		cfg:   s.cfg,
		dir:   s.dir,
		st:    st,
		state: StateIdle,
		done:  make(chan struct{}),
	}
	sess.msPerChar = s.charMillis(a, fatigue, now, st)
	sess.expected = time.Duration(sess.msPerChar*float64(len(sess.runes))) * time.Millisecond

	sess.begin()
	return sess
}

// charMillis computes the base per-character delay for this session
// from role, personality, time of day, simulated device and fatigue.
func (s *Scheduler) charMillis(a core.Actor, fatigue float64, now time.Time, st *seq.Stream) float64 {
	wpm := s.cfg.BaseWPM * s.cfg.roleSpeed(a.Role) * a.SpeedFactor

	hour := now.Hour()
	if hour < s.cfg.DayStartHour || hour >= s.cfg.DayEndHour {
		wpm *= s.cfg.NightSlowdown
	}
	if st.Chance(s.cfg.MobileChance) {
		wpm *= s.cfg.MobileSlowdown
	}
	wpm *= 1 - s.cfg.FatigueMaxPenalty*fatigue

	if wpm < 1 {
		wpm = 1
	}
	return 60_000 / (wpm * s.cfg.CharsPerWord)
}
