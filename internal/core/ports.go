package core

// Renderer is the outbound port consumed by whatever surface displays
// the community. Implementations must not block; the simulation calls
// them inline from timer callbacks.
type Renderer interface {
	// Event receives typing-session lifecycle events.
	Event(ev Event)
	// Deliver receives a finalized message. isNew distinguishes live
	// emission from historical backfill.
	Deliver(msg Message, isNew bool)
}

// NopRenderer discards everything. Used when no surface is attached so
// the simulation keeps running instead of probing for collaborators.
var NopRenderer Renderer = nopRenderer{}

type nopRenderer struct{}

func (nopRenderer) Event(Event)           {}
func (nopRenderer) Deliver(Message, bool) {}

// TextSource supplies message text for an actor. The built-in content
// generator satisfies this; callers may inject their own.
type TextSource interface {
	TextFor(actor Actor, index int) (string, error)
}

// TextSourceFunc adapts a function to the TextSource interface.
type TextSourceFunc func(actor Actor, index int) (string, error)

func (f TextSourceFunc) TextFor(actor Actor, index int) (string, error) {
	return f(actor, index)
}
