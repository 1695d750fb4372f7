package readterm

import (
	"fmt"
	"runtime"
	"unicode"
)

// Driver owns a live shell session and exposes it as a writable input
// sink and a pollable event source.
//
// Update and UpdateBlocking must be called from a single consumer
// goroutine. Input methods may be called from any goroutine. Drivers
// without a real terminal on the session side return *UnsupportedError
// from the input methods that need one.
type Driver interface {
	// WriteText sends plain text to the session.
	WriteText(text string) error
	// SendRaw sends bytes to the session verbatim.
	SendRaw(data string) error
	// Backspace sends a backspace keypress.
	Backspace() error
	// Escape sends an escape keypress.
	Escape() error
	// CursorLeft, CursorRight, CursorUp and CursorDown send the
	// corresponding arrow keypresses.
	CursorLeft() error
	CursorRight() error
	CursorUp() error
	CursorDown() error
	// ControlCode sends Ctrl combined with the given letter, for
	// example ControlCode('c') sends an interrupt.
	ControlCode(c rune) error

	// Update returns the events produced by the session since the last
	// call, without blocking. It returns nil when nothing happened.
	// After the session ends and its last output has been returned,
	// Update permanently returns nil.
	Update() []Event
	// UpdateBlocking waits until the session produces events, then
	// keeps draining until a poll comes back empty, so a burst split
	// across output chunks is returned whole. It returns nil once the
	// session has finished.
	UpdateBlocking() []Event

	// IsSessionFinished reports whether the session has ended and all
	// of its output has been consumed through Update.
	IsSessionFinished() bool

	// Close terminates the session if it is still running and releases
	// its resources.
	Close() error
}

// NewDriver starts a shell session using the best driver available on
// this platform.
func NewDriver(settings Settings) (Driver, error) {
	return newPlatformDriver(settings)
}

// UnsupportedError is returned when a driver cannot perform an
// operation because the session is not attached to a real terminal.
type UnsupportedError struct {
	Op string
}

func (e *UnsupportedError) Error() string {
	return fmt.Sprintf("operation not supported without a pseudo-terminal: %s", e.Op)
}

// Keypress byte sequences shared by the drivers that have a terminal to
// send them to.
const (
	seqBackspace   = "\x08"
	seqEscape      = "\x1b"
	seqCursorUp    = "\x1b[A"
	seqCursorDown  = "\x1b[B"
	seqCursorRight = "\x1b[C"
	seqCursorLeft  = "\x1b[D"
)

// controlByte maps a letter to the control character sent when Ctrl is
// held with it. Both cases are accepted.
func controlByte(c rune) (byte, error) {
	upper := unicode.ToUpper(c)
	if upper < 'A' || upper > 'Z' {
		return 0, fmt.Errorf("cannot make a control code from %q: not a letter", c)
	}
	return byte(upper) & 0x1F, nil
}

// translatePrimitive converts an interpreter primitive into the event
// the consumer sees, or nil for primitives with no event counterpart.
func translatePrimitive(p Primitive) Event {
	switch prim := p.(type) {
	case CharPrimitive:
		return PutCharacter{
			X:             prim.X,
			Y:             prim.Y,
			Character:     prim.Character,
			Bold:          prim.Bold,
			Italic:        prim.Italic,
			Underlined:    prim.Underlined,
			Strikethrough: prim.Strikethrough,
			Color:         prim.Color,
		}
	case ScreenBufferPrimitive:
		if prim.Clear {
			return ClearScreen{}
		}
		return nil
	default:
		// Cursor moves, bells and titles carry no screen content.
		return nil
	}
}

// updateBlocking polls Update until it yields events, then keeps
// polling and accumulating until an empty poll signals the burst has
// settled, and returns everything collected. The spin yields the
// processor between polls, trading CPU for not holding any blocking OS
// handle on the consumer goroutine.
func updateBlocking(d Driver) []Event {
	var events []Event
	for {
		batch := d.Update()
		if len(batch) > 0 {
			events = append(events, batch...)
			continue
		}
		if len(events) > 0 {
			return events
		}
		if d.IsSessionFinished() {
			return nil
		}
		runtime.Gosched()
	}
}
