// Package orchestrator drives the illusion of a living community: it
// decides when someone speaks, who it is, what they say, and feeds the
// typing scheduler. A single bad tick never stops the loop.
package orchestrator

import (
	"context"
	"fmt"
	"sync"
	"time"

	"golang.org/x/time/rate"

	"claque/internal/actor"
	"claque/internal/config"
	"claque/internal/content"
	"claque/internal/core"
	"claque/internal/seq"
	"claque/internal/typing"
)

const (
	// actorCooldown keeps one voice from dominating adjacent ticks.
	actorCooldown = 90 * time.Second
	// selectionSample is how many candidate actors one tick weighs.
	selectionSample = 16
	// actChance leaves some ticks silent so the cadence breathes.
	actChance = 0.9
	// hiddenThrottle divides the emission rate while the host surface
	// is not visible.
	hiddenThrottle = 6
)

// Orchestrator owns the emission loop and the in-flight sessions.
type Orchestrator struct {
	dir   *actor.Directory
	gen   *content.Generator
	sched *typing.Scheduler
	clock core.Clock
	log   *core.DebugLogger

	limiter *rate.Limiter

	mu       sync.Mutex
	cfg      config.Options
	renderer core.Renderer
	source   core.TextSource
	running  bool
	visible  bool
	cursor   int
	sessions map[string]*typing.Session
	cancel   context.CancelFunc
	wg       sync.WaitGroup
	rnd      *seq.Stream
}

// New wires the orchestrator. renderer may be nil; it defaults to the
// no-op port. The generator doubles as the default text source.
func New(cfg config.Options, dir *actor.Directory, gen *content.Generator, sched *typing.Scheduler, renderer core.Renderer, clock core.Clock, log *core.DebugLogger) *Orchestrator {
	cfg.Sanitize()
	if renderer == nil {
		renderer = core.NopRenderer
	}
	if clock == nil {
		clock = core.RealClock{}
	}
	return &Orchestrator{
		dir:      dir,
		gen:      gen,
		sched:    sched,
		clock:    clock,
		log:      log,
		cfg:      cfg,
		renderer: renderer,
		source:   gen,
		visible:  true,
		limiter:  rate.NewLimiter(rate.Limit(cfg.MessagesPerMinute/60), 1),
		sessions: make(map[string]*typing.Session),
		rnd:      seq.NewSource(cfg.Seed).Derive(seq.SaltTicks),
	}
}

// Configure replaces the recognized options. Unknown or malformed
// values were already corrected by the config layer; the emission rate
// takes effect immediately.
func (o *Orchestrator) Configure(cfg config.Options) {
	cfg.Sanitize()
	o.mu.Lock()
	o.cfg = cfg
	visible := o.visible
	o.mu.Unlock()
	o.applyRate(visible)
}

// SetTextSource swaps in an alternate content source. A nil source
// restores the built-in generator.
func (o *Orchestrator) SetTextSource(src core.TextSource) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if src == nil {
		o.source = o.gen
		return
	}
	o.source = src
}

// SetRenderer swaps the outbound surface. A nil renderer degrades to
// the no-op port rather than failing.
func (o *Orchestrator) SetRenderer(r core.Renderer) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if r == nil {
		r = core.NopRenderer
	}
	o.renderer = r
}

// SetActive throttles the loop while the host surface is hidden:
// reduced tick frequency, never a stall or a burst on resume.
func (o *Orchestrator) SetActive(visible bool) {
	o.mu.Lock()
	o.visible = visible
	o.mu.Unlock()
	o.applyRate(visible)
}

func (o *Orchestrator) applyRate(visible bool) {
	o.mu.Lock()
	perSecond := o.cfg.MessagesPerMinute / 60
	o.mu.Unlock()
	if !visible {
		perSecond /= hiddenThrottle
	}
	o.limiter.SetLimit(rate.Limit(perSecond))
}

// Start launches the emission loop. Calling Start on a running
// orchestrator is a no-op.
func (o *Orchestrator) Start() {
	o.mu.Lock()
	if o.running {
		o.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	o.cancel = cancel
	o.running = true
	o.wg.Add(1)
	o.mu.Unlock()

	go o.loop(ctx)
}

func (o *Orchestrator) loop(ctx context.Context) {
	defer o.wg.Done()
	for {
		if err := o.limiter.Wait(ctx); err != nil {
			return
		}
		o.tick()
	}
}

// Stop halts the loop and cancels every in-flight session together.
func (o *Orchestrator) Stop() {
	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	o.running = false
	cancel := o.cancel
	o.cancel = nil
	inflight := make([]*typing.Session, 0, len(o.sessions))
	for _, s := range o.sessions {
		inflight = append(inflight, s)
	}
	o.mu.Unlock()

	cancel()
	for _, s := range inflight {
		s.Cancel()
	}
	o.wg.Wait()
}

// IsRunning reports whether the loop is live.
func (o *Orchestrator) IsRunning() bool {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.running
}

// Cursor returns the next content index to draw.
func (o *Orchestrator) Cursor() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return o.cursor
}

// SeekTo resets the emission cursor. Out-of-range values clamp into
// the corpus.
func (o *Orchestrator) SeekTo(index int) {
	o.mu.Lock()
	defer o.mu.Unlock()
	if index < 0 {
		index = 0
	}
	if max := o.gen.Size(); index >= max {
		index = max - 1
	}
	o.cursor = index
}

// PreviewOnce returns the next count messages without side effects:
// no cursor advance, no fatigue, no delivery.
func (o *Orchestrator) PreviewOnce(count int) ([]core.Message, error) {
	o.mu.Lock()
	start := o.cursor
	o.mu.Unlock()
	if remaining := o.gen.Size() - start; count > remaining {
		count = remaining
	}
	return o.gen.Range(start, count)
}

// EmitOnce deterministically delivers the message at index, or at the
// cursor (advancing it) when index is negative. No typing simulation,
// no fatigue: a single-shot for testing and seeding surfaces.
func (o *Orchestrator) EmitOnce(index int) (core.Message, error) {
	o.mu.Lock()
	if index < 0 {
		index = o.cursor
		o.cursor++
	}
	renderer := o.renderer
	o.mu.Unlock()

	msg, err := o.gen.MessageAt(index)
	if err != nil {
		return core.Message{}, err
	}
	renderer.Deliver(msg, true)
	return msg, nil
}

// Backfill materializes the historical span and delivers it with
// isNew=false, oldest first.
func (o *Orchestrator) Backfill() []core.Message {
	o.mu.Lock()
	renderer := o.renderer
	o.mu.Unlock()

	msgs := o.gen.Materialize()
	for _, m := range msgs {
		renderer.Deliver(m, false)
	}
	o.mu.Lock()
	if o.cursor < len(msgs) {
		o.cursor = len(msgs)
	}
	o.mu.Unlock()
	return msgs
}

// tick is one decision point of the loop. Collaborator failures are
// contained here: log, skip, reschedule.
func (o *Orchestrator) tick() {
	defer func() {
		if r := recover(); r != nil {
			o.log.Logf("tick panic recovered: %v", r)
		}
	}()

	o.mu.Lock()
	if !o.running {
		o.mu.Unlock()
		return
	}
	act := o.rnd.Chance(actChance)
	burst := act && o.rnd.Chance(o.cfg.BurstChance)
	o.mu.Unlock()

	if !act {
		return
	}
	if burst {
		o.spike()
		return
	}

	a, ok := o.pickActor(false)
	if !ok {
		return
	}
	o.emitFor(a)
}

// spike simulates discussion triggered by an announcement: one
// high-authority message, then several quick replies inside a short
// window.
func (o *Orchestrator) spike() {
	staff, ok := o.pickActor(true)
	if !ok {
		return
	}
	o.emitFor(staff)

	o.mu.Lock()
	lo, hi := o.cfg.BurstSizeRange[0], o.cfg.BurstSizeRange[1]
	n := lo + o.rnd.Intn(hi-lo+1)
	delays := make([]time.Duration, n)
	for i := range delays {
		delays[i] = time.Duration(o.rnd.Between(800, 6000)) * time.Millisecond
	}
	o.mu.Unlock()

	for _, d := range delays {
		o.clock.AfterFunc(d, func() {
			defer func() {
				if r := recover(); r != nil {
					o.log.Logf("burst reply panic recovered: %v", r)
				}
			}()
			o.mu.Lock()
			running := o.running
			o.mu.Unlock()
			if !running {
				return
			}
			if a, ok := o.pickActor(false); ok {
				o.emitFor(a)
			}
		})
	}
}

// pickActor runs the weighted selection policy: higher authority and
// longer silence raise an actor's weight; a per-actor cooldown keeps
// recent speakers out unless nobody else qualifies.
func (o *Orchestrator) pickActor(staffOnly bool) (core.Actor, bool) {
	now := o.clock.Now()

	o.mu.Lock()
	size := o.dir.Size()
	candidates := make([]int, 0, selectionSample)
	for i := 0; i < selectionSample; i++ {
		candidates = append(candidates, o.rnd.Intn(size))
	}
	o.mu.Unlock()

	if staffOnly {
		// Reserved staff sit at the front of the population.
		candidates = append([]int{0, 1}, candidates...)
	}

	var pool []core.Actor
	var weights []float64
	var fallback core.Actor
	var fallbackIdle time.Duration = -1

	for _, idx := range candidates {
		a, err := o.dir.ActorAt(idx)
		if err != nil {
			o.log.Logf("actor %d unavailable, skipping: %v", idx, err)
			continue
		}
		if staffOnly && a.Role == core.RoleMember {
			continue
		}
		idle := now.Sub(a.LastActive)
		if a.LastActive.IsZero() {
			idle = 24 * time.Hour
		}
		if idle > fallbackIdle {
			fallback, fallbackIdle = a, idle
		}
		if idle < actorCooldown {
			continue
		}
		boost := 1 + idle.Hours()
		if boost > 5 {
			boost = 5
		}
		pool = append(pool, a)
		weights = append(weights, a.Role.AuthorityWeight()*boost)
	}

	if len(pool) == 0 {
		if fallbackIdle < 0 {
			return core.Actor{}, false
		}
		return fallback, true
	}

	o.mu.Lock()
	chosen := pool[seq.PickWeighted(o.rnd, weights)]
	o.mu.Unlock()
	return chosen, true
}

// emitFor produces the next message as the given actor and drives it
// through the scheduler (or delivers directly when typing simulation
// is off).
func (o *Orchestrator) emitFor(a core.Actor) {
	o.mu.Lock()
	index := o.cursor
	o.cursor++
	source := o.source
	renderer := o.renderer
	typingSim := o.cfg.TypingSim()
	o.mu.Unlock()

	text, err := source.TextFor(a, index)
	if err != nil {
		o.log.Logf("content source failed for index %d, skipping tick: %v", index, err)
		return
	}

	msg := core.Message{
		ID:        fmt.Sprintf("msg-%08d", index),
		Index:     index,
		Author:    a,
		Text:      text,
		ReplyTo:   -1,
		Timestamp: o.clock.Now(),
	}

	if !typingSim {
		now := o.clock.Now()
		o.dir.AddFatigue(a.ID, o.dir.FatigueIncrement(), now)
		o.dir.MarkActive(a.ID, now)
		renderer.Deliver(msg, true)
		return
	}

	var sess *typing.Session
	sess = o.sched.Begin(a, text, func(ev core.Event) {
		renderer.Event(ev)
		switch ev.Type {
		case core.EventSend:
			final := msg
			final.Text = ev.Typed
			final.Timestamp = ev.At
			renderer.Deliver(final, true)
			o.forgetSession(ev.SessionID)
		case core.EventAbandoned, core.EventStop:
			o.forgetSession(ev.SessionID)
		}
	})

	o.mu.Lock()
	o.sessions[sess.ID()] = sess
	stopped := !o.running
	o.mu.Unlock()
	// Stop may have copied the session map between the tick's running
	// check and this registration; cancel here so nothing outlives it.
	if stopped {
		sess.Cancel()
	}
	// The session may already have finished (its events fire from
	// timer callbacks that can land before registration); don't leak
	// the registry entry in that case.
	if terminalOutcome(sess) {
		o.forgetSession(sess.ID())
	}
}

func terminalOutcome(s *typing.Session) bool {
	select {
	case <-s.Done():
		return true
	default:
		return false
	}
}

func (o *Orchestrator) forgetSession(id string) {
	o.mu.Lock()
	delete(o.sessions, id)
	o.mu.Unlock()
}

// InFlight reports how many typing sessions are live.
func (o *Orchestrator) InFlight() int {
	o.mu.Lock()
	defer o.mu.Unlock()
	return len(o.sessions)
}
