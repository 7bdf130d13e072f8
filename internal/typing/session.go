package typing

import (
	"strings"
	"sync"
	"time"

	"claque/internal/actor"
	"claque/internal/core"
	"claque/internal/seq"
)

// State is a session's position in its lifecycle.
type State int

const (
	StateIdle State = iota
	StateTyping
	StateCorrecting // retyping deleted characters, still "typing" to observers
	StatePaused
	StateSent
	StateAbandoned
	StateCancelled
)

func (s State) String() string {
	switch s {
	case StateIdle:
		return "idle"
	case StateTyping:
		return "typing"
	case StateCorrecting:
		return "correcting"
	case StatePaused:
		return "paused"
	case StateSent:
		return "sent"
	case StateAbandoned:
		return "abandoned"
	case StateCancelled:
		return "cancelled"
	default:
		return "unknown"
	}
}

func (s State) terminal() bool {
	return s == StateSent || s == StateAbandoned || s == StateCancelled
}

// Session is one actor's act of producing one message. It is also the
// controller handed back to the caller: Cancel, Interrupt, ForceSend
// and Pause steer a live session.
type Session struct {
	id    string
	actor core.Actor
	runes []rune
	full  string
	sink  func(core.Event)
	clock core.Clock
	cfg   Config
	dir   *actor.Directory
	st    *seq.Stream

	msPerChar float64
	expected  time.Duration

	mu          sync.Mutex
	state       State
	prevState   State // state to restore on resume
	pos         int
	correcting  int // runes left to retype at the correction rate
	ghost       bool
	ghostStop   int
	interrupted bool
	pasted      bool
	timer       core.Timer
	done        chan struct{}
	outcome     core.EventType
}

// ID returns the session id.
func (s *Session) ID() string { return s.id }

// Actor returns the typing actor as captured at session start.
func (s *Session) Actor() core.Actor { return s.actor }

// ExpectedDuration is the naive length/speed estimate computed at
// session start, before jitter and pauses.
func (s *Session) ExpectedDuration() time.Duration { return s.expected }

// Done is closed when a terminal event has been emitted.
func (s *Session) Done() <-chan struct{} { return s.done }

// Outcome returns the terminal event type, or "" while running.
func (s *Session) Outcome() core.EventType {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.outcome
}

// State returns the current lifecycle state.
func (s *Session) State() State {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.state
}

// begin emits start and schedules the first step. Called once by the
// scheduler.
func (s *Session) begin() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.state = StateTyping
	s.emitLocked(core.EventStart, "", 0)

	if len(s.runes) == 0 {
		s.finishLocked(core.EventSend)
		return
	}

	// Pasted content: predicted time implausibly short for the length,
	// so skip character simulation and emit a start→send burst.
	if len(s.runes) >= s.cfg.CopyPasteMinLength && s.expected < s.cfg.CopyPasteThreshold {
		s.pasted = true
		delay := time.Duration(s.st.Between(300, 800)) * time.Millisecond
		s.timer = s.clock.AfterFunc(delay, s.pasteFire)
		return
	}

	// Ghost typing: a few characters, then a walk-away pause.
	if s.st.Chance(s.cfg.GhostChance) && len(s.runes) > 8 {
		s.ghost = true
		s.ghostStop = 3 + s.st.Intn(6)
	}

	s.scheduleNextLocked()
}

// step advances one rune. Every character delay lands here.
func (s *Session) step() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StateTyping && s.state != StateCorrecting {
		return // paused, cancelled or already terminal; timer was stale
	}

	if s.correcting > 0 {
		s.pos++
		s.correcting--
		if s.correcting == 0 {
			s.state = StateTyping
		}
	} else if s.canCorrectLocked() {
		back := 1 + s.st.Intn(2)
		if back > s.pos {
			back = s.pos
		}
		s.pos -= back
		s.correcting = back
		s.state = StateCorrecting
	} else {
		s.pos++
	}

	if s.ghost && s.pos >= s.ghostStop {
		s.ghost = false
		s.prevState = s.state
		s.state = StatePaused
		s.emitLocked(core.EventPause, s.typedLocked(), s.percentLocked())
		s.timer = s.clock.AfterFunc(s.cfg.GhostPause, s.ghostWake)
		return
	}

	if s.pos >= len(s.runes) {
		// Notionally finished typing; a fatigued actor sometimes
		// closes the box instead of sending.
		p := s.cfg.AbandonChance * (1 + 2*s.actor.Fatigue)
		if s.st.Chance(p) {
			s.finishLocked(core.EventAbandoned)
		} else {
			s.finishLocked(core.EventSend)
		}
		return
	}

	if s.pos > 0 && s.pos%s.cfg.ProgressEvery == 0 {
		s.emitLocked(core.EventProgress, s.typedLocked(), s.percentLocked())
	}

	s.scheduleNextLocked()
}

// canCorrectLocked draws the backspace decision. High punctuation-care
// profiles make fewer slips.
func (s *Session) canCorrectLocked() bool {
	if s.pos < 3 || s.pos >= len(s.runes)-1 {
		return false
	}
	p := s.cfg.CorrectionChance * (1 - 0.6*s.actor.PunctuationCare)
	return s.st.Chance(p)
}

// scheduleNextLocked computes the delay before the next rune and arms
// the timer.
func (s *Session) scheduleNextLocked() {
	next := s.runes[s.pos]
	delayMs := s.msPerChar * s.st.Jitter(s.cfg.roleJitter(s.actor.Role))
	d := time.Duration(delayMs * float64(time.Millisecond))

	if isPunctuation(next) {
		d += time.Duration(float64(s.cfg.PunctuationPause) * s.actor.PunctuationCare)
	}
	if isEmoji(next) {
		d = time.Duration(float64(d) * s.cfg.EmojiSlowdown)
	}
	if s.actor.EmotionalBaseline > 0 && s.st.Chance(s.cfg.MicroPauseChance*s.actor.EmotionalBaseline) {
		d += s.cfg.MicroPause
	}
	if s.correcting > 0 {
		d = time.Duration(float64(d) * s.cfg.CorrectionSlowdown)
	}

	s.timer = s.clock.AfterFunc(s.cfg.clampDelay(d), s.step)
}

// pasteFire completes a copy-paste burst.
func (s *Session) pasteFire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	s.pos = len(s.runes)
	s.finishLocked(core.EventSend)
}

// ghostWake decides whether the ghost comes back or walks away.
func (s *Session) ghostWake() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state != StatePaused {
		return
	}
	if s.st.Chance(s.cfg.GhostResumeChance) {
		s.state = s.prevState
		s.emitLocked(core.EventResume, s.typedLocked(), s.percentLocked())
		s.resumeScheduleLocked()
		return
	}
	s.finishLocked(core.EventAbandoned)
}

// resumeScheduleLocked re-arms the right timer for the current mode.
func (s *Session) resumeScheduleLocked() {
	if s.pasted {
		delay := time.Duration(s.st.Between(200, 500)) * time.Millisecond
		s.timer = s.clock.AfterFunc(delay, s.pasteFire)
		return
	}
	s.scheduleNextLocked()
}

// Cancel force-terminates the session and emits stop.
func (s *Session) Cancel() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	s.finishLocked(core.EventStop)
}

// ForceSend skips the remaining timing and sends immediately.
func (s *Session) ForceSend() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	s.pos = len(s.runes)
	s.finishLocked(core.EventSend)
}

// Pause suspends or resumes typing. Resuming clears a pending
// interrupt.
func (s *Session) Pause(flag bool) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	if flag && s.state != StatePaused {
		s.stopTimerLocked()
		s.prevState = s.state
		s.state = StatePaused
		s.emitLocked(core.EventPause, s.typedLocked(), s.percentLocked())
	} else if !flag && s.state == StatePaused {
		s.interrupted = false
		s.state = s.prevState
		if s.state == StateIdle {
			s.state = StateTyping
		}
		s.emitLocked(core.EventResume, s.typedLocked(), s.percentLocked())
		s.resumeScheduleLocked()
	}
}

// Interrupt models a perceived external disruption: pause now, and
// abandon unless resumed within the grace window.
func (s *Session) Interrupt() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() {
		return
	}
	if s.state != StatePaused {
		s.stopTimerLocked()
		s.prevState = s.state
		s.state = StatePaused
		s.emitLocked(core.EventPause, s.typedLocked(), s.percentLocked())
	}
	s.interrupted = true
	s.timer = s.clock.AfterFunc(s.cfg.InterruptGrace, s.interruptFire)
}

func (s *Session) interruptFire() {
	s.mu.Lock()
	defer s.mu.Unlock()
	if s.state.terminal() || !s.interrupted || s.state != StatePaused {
		return
	}
	s.finishLocked(core.EventAbandoned)
}

// finishLocked emits the terminal event exactly once and applies the
// send side effects.
func (s *Session) finishLocked(t core.EventType) {
	s.stopTimerLocked()
	switch t {
	case core.EventSend:
		s.state = StateSent
	case core.EventAbandoned:
		s.state = StateAbandoned
	default:
		s.state = StateCancelled
	}
	s.outcome = t

	typed := s.typedLocked()
	pct := s.percentLocked()
	if t == core.EventSend {
		typed = s.full
		pct = 100
		now := s.clock.Now()
		s.dir.AddFatigue(s.actor.ID, s.dir.FatigueIncrement(), now)
		s.dir.MarkActive(s.actor.ID, now)
	}
	s.emitLocked(t, typed, pct)
	close(s.done)
}

func (s *Session) stopTimerLocked() {
	if s.timer != nil {
		s.timer.Stop()
		s.timer = nil
	}
}

func (s *Session) typedLocked() string {
	return string(s.runes[:s.pos])
}

func (s *Session) percentLocked() float64 {
	if len(s.runes) == 0 {
		return 100
	}
	return 100 * float64(s.pos) / float64(len(s.runes))
}

func (s *Session) emitLocked(t core.EventType, typed string, pct float64) {
	s.sink(core.Event{
		Type:      t,
		SessionID: s.id,
		Actor:     s.actor,
		At:        s.clock.Now(),
		Typed:     typed,
		Percent:   pct,
	})
}

func isPunctuation(r rune) bool {
	return strings.ContainsRune(".,!?;:", r)
}

func isEmoji(r rune) bool {
	return r >= 0x1F300 || (r >= 0x2600 && r <= 0x27BF)
}
