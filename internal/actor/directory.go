// Package actor deterministically generates the simulated population
// and tracks the one mutable thing about it: fatigue.
//
// Everything except fatigue is a pure function of (index, seed). The
// fatigue overlay depends on wall-clock history by design: reads apply
// linear recovery since the last update, writes persist immediately.
package actor

import (
	"errors"
	"fmt"
	"strconv"
	"sync"
	"time"

	"claque/internal/core"
	"claque/internal/overlay"
	"claque/internal/seq"
)

// ErrNotFound is returned for out-of-range actor indices.
var ErrNotFound = errors.New("actor not found")

// Config controls population generation and fatigue dynamics.
type Config struct {
	PopulationSize int

	// Role weights; the remainder goes to ordinary members.
	AdminWeight     float64
	ModeratorWeight float64

	// ReserveStaff pins index 0 to an administrator and index 1 to a
	// moderator regardless of the weighted draw.
	ReserveStaff bool

	FatigueIncrement       float64 // added per successful send
	FatigueRecoveryPerHour float64 // linear decay toward zero
}

// DefaultConfig returns the weights the simulation ships with.
func DefaultConfig(size int) Config {
	return Config{
		PopulationSize:         size,
		AdminWeight:            0.015,
		ModeratorWeight:        0.07,
		ReserveStaff:           true,
		FatigueIncrement:       0.18,
		FatigueRecoveryPerHour: 0.25,
	}
}

// Directory generates actors by index and owns the fatigue overlay.
type Directory struct {
	src   seq.Source
	cfg   Config
	clock core.Clock
	store overlay.Store
	log   *core.DebugLogger

	mu         sync.Mutex
	fatigue    map[string]overlay.Entry
	lastActive map[string]time.Time
}

// New builds a Directory. The overlay store is read once here; a
// corrupted or unreadable store degrades to an empty overlay.
func New(seed uint32, cfg Config, store overlay.Store, clock core.Clock, log *core.DebugLogger) *Directory {
	if store == nil {
		store = overlay.NewMemoryStore()
	}
	if clock == nil {
		clock = core.RealClock{}
	}
	entries, err := store.Load()
	if err != nil {
		log.Logf("overlay load failed, starting empty: %v", err)
		entries = make(map[string]overlay.Entry)
	}
	return &Directory{
		src:        seq.NewSource(seed),
		cfg:        cfg,
		clock:      clock,
		store:      store,
		log:        log,
		fatigue:    entries,
		lastActive: make(map[string]time.Time),
	}
}

// Size returns the declared population size.
func (d *Directory) Size() int { return d.cfg.PopulationSize }

// ActorAt returns the actor for one absolute index, generated lazily.
// Deterministic per (index, seed); fatigue and last-active are stamped
// on from the mutable overlay.
func (d *Directory) ActorAt(index int) (core.Actor, error) {
	if index < 0 || index >= d.cfg.PopulationSize {
		return core.Actor{}, fmt.Errorf("index %d: %w", index, ErrNotFound)
	}
	a, _ := d.generate(index)
	d.stamp(&a)
	return a, nil
}

// Profile returns the pure part of an actor: no fatigue, no
// last-active stamp. The content generator embeds this in messages so
// regeneration stays byte-identical regardless of overlay state.
// Out-of-range indices wrap into the population instead of failing;
// callers that need strict bounds use ActorAt.
func (d *Directory) Profile(index int) core.Actor {
	if d.cfg.PopulationSize > 0 {
		index = ((index % d.cfg.PopulationSize) + d.cfg.PopulationSize) % d.cfg.PopulationSize
	}
	a, _ := d.generate(index)
	return a
}

// GeneratePopulation materializes the whole population. Display-name
// collisions are resolved with deterministic suffixes drawn from the
// colliding actor's own stream, so regeneration reproduces the same
// resolved names.
func (d *Directory) GeneratePopulation() []core.Actor {
	seen := make(map[string]int, d.cfg.PopulationSize)
	out := make([]core.Actor, 0, d.cfg.PopulationSize)
	for i := 0; i < d.cfg.PopulationSize; i++ {
		a, st := d.generate(i)
		for attempt := 0; seen[a.Name] > 0 && attempt < 8; attempt++ {
			a.Name = suffixName(st, a.Name)
		}
		if seen[a.Name] > 0 {
			// Suffix budget exhausted; a numeric tail always works.
			a.Name = a.Name + " " + strconv.Itoa(i)
		}
		seen[a.Name]++
		d.stamp(&a)
		out = append(out, a)
	}
	return out
}

// generate builds the pure part of an actor and returns the per-index
// stream positioned after the draws, for deterministic suffix retries.
func (d *Directory) generate(index int) (core.Actor, *seq.Stream) {
	st := d.src.DeriveIndexed(seq.SaltActors, index)

	role := d.rollRole(index, st)
	locale := seq.Pick(st, locales)

	var name string
	if st.Chance(0.32) {
		name = seq.Pick(st, handleAdjectives) + seq.Pick(st, handleNouns)
		if st.Chance(0.4) {
			name += strconv.Itoa(st.Intn(90) + 10)
		}
	} else {
		name = seq.Pick(st, firstNames) + " " + seq.Pick(st, surnames)
	}

	at := archetypes[seq.PickWeighted(st, archetypeWeights())]
	a := core.Actor{
		ID:                fmt.Sprintf("actor-%05d", index),
		Index:             index,
		Name:              name,
		Role:              role,
		Locale:            locale,
		Archetype:         at.name,
		SpeedFactor:       st.Between(at.speedLo, at.speedHi),
		PunctuationCare:   st.Between(at.punctLo, at.punctHi),
		EmojiAffinity:     st.Between(at.emojiLo, at.emojiHi),
		EmotionalBaseline: st.Between(at.emotionLo, at.emotionHi),
	}
	return a, st
}

func (d *Directory) rollRole(index int, st *seq.Stream) core.Role {
	if d.cfg.ReserveStaff {
		switch index {
		case 0:
			return core.RoleAdmin
		case 1:
			return core.RoleModerator
		}
	}
	roll := st.Float()
	switch {
	case roll < d.cfg.AdminWeight:
		return core.RoleAdmin
	case roll < d.cfg.AdminWeight+d.cfg.ModeratorWeight:
		return core.RoleModerator
	default:
		return core.RoleMember
	}
}

// suffixName appends one deterministic suffix drawn from st.
func suffixName(st *seq.Stream, name string) string {
	switch st.Intn(3) {
	case 0:
		return name + " " + strconv.Itoa(st.Intn(90)+10)
	case 1:
		return name + seq.Pick(st, emojiSuffixes)
	default:
		return name + seq.Pick(st, titleSuffixes)
	}
}

// stamp applies the mutable overlay onto a freshly generated actor.
func (d *Directory) stamp(a *core.Actor) {
	now := d.clock.Now()
	a.Fatigue = d.Fatigue(a.ID, now)
	d.mu.Lock()
	a.LastActive = d.lastActive[a.ID]
	d.mu.Unlock()
}

// Fatigue returns the actor's current fatigue with linear recovery
// applied for the real time elapsed since the last update. NOT a pure
// function of index: it depends on wall-clock history.
func (d *Directory) Fatigue(actorID string, now time.Time) float64 {
	d.mu.Lock()
	e, ok := d.fatigue[actorID]
	d.mu.Unlock()
	if !ok {
		return 0
	}
	elapsed := now.Sub(e.UpdatedAt)
	if elapsed <= 0 {
		return clamp01(e.Score)
	}
	recovered := e.Score - d.cfg.FatigueRecoveryPerHour*elapsed.Hours()
	return clamp01(recovered)
}

// SetFatigue overwrites the actor's fatigue and persists immediately.
func (d *Directory) SetFatigue(actorID string, score float64, now time.Time) {
	e := overlay.Entry{Score: clamp01(score), UpdatedAt: now}
	d.mu.Lock()
	d.fatigue[actorID] = e
	d.mu.Unlock()
	if err := d.store.Put(actorID, e); err != nil {
		d.log.Logf("overlay write for %s failed: %v", actorID, err)
	}
}

// AddFatigue raises fatigue by delta on top of the recovered value.
func (d *Directory) AddFatigue(actorID string, delta float64, now time.Time) {
	d.SetFatigue(actorID, d.Fatigue(actorID, now)+delta, now)
}

// FatigueIncrement is the configured per-send increase.
func (d *Directory) FatigueIncrement() float64 { return d.cfg.FatigueIncrement }

// MarkActive records that the actor just spoke.
func (d *Directory) MarkActive(actorID string, at time.Time) {
	d.mu.Lock()
	d.lastActive[actorID] = at
	d.mu.Unlock()
}

// LastActive returns when the actor last spoke, zero if never.
func (d *Directory) LastActive(actorID string) time.Time {
	d.mu.Lock()
	defer d.mu.Unlock()
	return d.lastActive[actorID]
}

func clamp01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
