// Package core defines the fundamental types and ports of the
// simulation: actors, messages, lifecycle events, the clock, and the
// boundary interfaces collaborators plug into.
package core

import "time"

// Role is an actor's standing in the simulated community.
type Role string

const (
	RoleMember    Role = "member"
	RoleModerator Role = "moderator"
	RoleAdmin     Role = "admin"
)

// AuthorityWeight maps a role to its selection weight in the
// orchestrator's speaker policy.
func (r Role) AuthorityWeight() float64 {
	switch r {
	case RoleAdmin:
		return 3.0
	case RoleModerator:
		return 1.8
	default:
		return 1.0
	}
}

// Actor is one synthetic participant. All fields except fatigue are a
// pure function of (index, seed); fatigue lives in the overlay store
// and is stamped on at read time.
type Actor struct {
	ID         string
	Index      int
	Name       string
	Role       Role
	Locale     string
	Archetype  string
	LastActive time.Time

	// Behavioral profile.
	SpeedFactor       float64 // base typing-speed multiplier
	PunctuationCare   float64 // 0..1, scales hesitation before punctuation
	EmojiAffinity     float64 // 0..1, likelihood and slowdown of emoji use
	EmotionalBaseline float64 // 0..1, drives micro-pauses

	// Mutable overlay state.
	Fatigue float64 // 0..1
}

// Attachment describes a fake file stapled to a message.
type Attachment struct {
	Kind string // "image", "chart", "document"
	Name string
	Size int64
}

// Message is one synthetic chat entry. For a given index, seed and
// generation options the whole struct is reproducible byte for byte.
type Message struct {
	ID        string
	Index     int
	Author    Actor
	Text      string
	ReplyTo   int // index of an earlier message, or -1
	Pinned    bool
	Timestamp time.Time

	Attachment *Attachment
}

// EventType identifies a typing-session lifecycle event.
type EventType string

const (
	EventStart     EventType = "start"
	EventProgress  EventType = "progress"
	EventPause     EventType = "pause"
	EventResume    EventType = "resume"
	EventSend      EventType = "send"
	EventAbandoned EventType = "abandoned"
	EventStop      EventType = "stop"
)

// Terminal reports whether the event ends its session.
func (t EventType) Terminal() bool {
	return t == EventSend || t == EventAbandoned || t == EventStop
}

// Event is one step in a typing session's timeline. Within a session
// events are strictly ordered: start first, then progress/pause/resume,
// then exactly one terminal event.
type Event struct {
	Type      EventType
	SessionID string
	Actor     Actor
	At        time.Time

	// Typed is the text produced so far; on a send event it carries
	// the final text.
	Typed   string
	Percent float64
}
