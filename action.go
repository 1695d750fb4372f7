package readterm

// Action is a user input operation that can be stored, replayed, or
// bound to a key before being applied to a Terminal via Do.
type Action interface {
	apply(t *Terminal) error
}

// WriteTextAction types text into the session.
type WriteTextAction struct {
	Text string
}

// BackspaceAction presses backspace.
type BackspaceAction struct{}

// EscapeAction presses escape.
type EscapeAction struct{}

// CursorLeftAction, CursorRightAction, CursorUpAction and
// CursorDownAction press the arrow keys.
type CursorLeftAction struct{}
type CursorRightAction struct{}
type CursorUpAction struct{}
type CursorDownAction struct{}

// ControlCodeAction presses Ctrl plus a letter.
type ControlCodeAction struct {
	Code rune
}

func (a WriteTextAction) apply(t *Terminal) error   { return t.WriteText(a.Text) }
func (BackspaceAction) apply(t *Terminal) error     { return t.Backspace() }
func (EscapeAction) apply(t *Terminal) error        { return t.Escape() }
func (CursorLeftAction) apply(t *Terminal) error    { return t.CursorLeft() }
func (CursorRightAction) apply(t *Terminal) error   { return t.CursorRight() }
func (CursorUpAction) apply(t *Terminal) error      { return t.CursorUp() }
func (CursorDownAction) apply(t *Terminal) error    { return t.CursorDown() }
func (a ControlCodeAction) apply(t *Terminal) error { return t.ControlCode(a.Code) }
