package readterm

// Event is one observable terminal effect passed from a driver to the
// consumer. The concrete types are PutCharacter and ClearScreen.
type Event interface {
	event()
}

// PutCharacter places a single styled character at a viewport-relative
// position.
type PutCharacter struct {
	X, Y          int
	Character     rune
	Bold          bool
	Italic        bool
	Underlined    bool
	Strikethrough bool
	Color         Color
}

// ClearScreen reports that the visible screen buffer was cleared.
type ClearScreen struct{}

func (PutCharacter) event() {}
func (ClearScreen) event()  {}
