package typing

import (
	"time"

	"claque/internal/core"
)

// Config tunes the pacing model. Every probability here is a named,
// single-purpose knob so calibration can be asserted in tests.
type Config struct {
	BaseWPM      float64 // words per minute before multipliers
	CharsPerWord float64 // average word length used for conversion

	// Per-character delay modulation.
	JitterSpread     float64       // base symmetric jitter, widened for low-authority roles
	PunctuationPause time.Duration // added before punctuation, scaled by the actor's care
	EmojiSlowdown    float64       // multiplicative on emoji runes
	MicroPauseChance float64       // per-char, scaled by emotional baseline
	MicroPause       time.Duration

	// Contextual slowdowns.
	DayStartHour  int     // local hour the fast window opens
	DayEndHour    int     // local hour it closes
	NightSlowdown float64 // WPM multiplier outside the window
	MobileChance  float64 // probability a session simulates a phone
	MobileSlowdown float64

	FatigueMaxPenalty float64 // speed loss at fatigue 1.0

	// Special cases.
	CopyPasteThreshold time.Duration // predicted time under this => paste burst
	CopyPasteMinLength int           // only for non-trivial text
	GhostChance        float64       // type a little, then walk away
	GhostResumeChance  float64       // chance the ghost comes back
	GhostPause         time.Duration
	CorrectionChance   float64 // per-char backspace probability
	CorrectionSlowdown float64 // retype rate multiplier
	AbandonChance      float64 // post-typing abandonment, scaled by fatigue

	MinCharDelay time.Duration
	MaxCharDelay time.Duration

	ProgressEvery  int           // chars between progress events
	InterruptGrace time.Duration // pause length before an interrupt abandons
}

// DefaultConfig returns the shipped pacing constants.
func DefaultConfig() Config {
	return Config{
		BaseWPM:            42,
		CharsPerWord:       5.1,
		JitterSpread:       0.3,
		PunctuationPause:   220 * time.Millisecond,
		EmojiSlowdown:      2.2,
		MicroPauseChance:   0.04,
		MicroPause:         350 * time.Millisecond,
		DayStartHour:       8,
		DayEndHour:         23,
		NightSlowdown:      0.7,
		MobileChance:       0.25,
		MobileSlowdown:     0.8,
		FatigueMaxPenalty:  0.38,
		CopyPasteThreshold: 1500 * time.Millisecond,
		CopyPasteMinLength: 60,
		GhostChance:        0.04,
		GhostResumeChance:  0.5,
		GhostPause:         2500 * time.Millisecond,
		CorrectionChance:   0.035,
		CorrectionSlowdown: 1.6,
		AbandonChance:      0.03,
		MinCharDelay:       35 * time.Millisecond,
		MaxCharDelay:       900 * time.Millisecond,
		ProgressEvery:      4,
		InterruptGrace:     1500 * time.Millisecond,
	}
}

// roleJitter widens per-character variance for ordinary members; staff
// type more evenly.
func (c Config) roleJitter(r core.Role) float64 {
	switch r {
	case core.RoleAdmin:
		return c.JitterSpread * 0.6
	case core.RoleModerator:
		return c.JitterSpread * 0.8
	default:
		return c.JitterSpread
	}
}

func (c Config) roleSpeed(r core.Role) float64 {
	switch r {
	case core.RoleAdmin:
		return 1.15
	case core.RoleModerator:
		return 1.1
	default:
		return 1.0
	}
}

func (c Config) clampDelay(d time.Duration) time.Duration {
	if d < c.MinCharDelay {
		return c.MinCharDelay
	}
	if c.MaxCharDelay > 0 && d > c.MaxCharDelay {
		return c.MaxCharDelay
	}
	return d
}
