package readterm

import (
	"context"
	"fmt"
	"os"

	"pkt.systems/pslog"
)

// Settings configures a terminal session.
type Settings struct {
	// Shell is the program started for the session.
	Shell string
	// LinesToRemember is the scrollback history bound.
	LinesToRemember int
	// LineCount and ColumnCount are the viewport dimensions.
	LineCount   int
	ColumnCount int
	// TabWidth is the rendered width of tab characters.
	TabWidth int
	// Logger receives diagnostics from the session's background
	// goroutines. Defaults to the process-wide context logger.
	Logger pslog.Logger
}

// DefaultSettings returns settings with a sensible shell and geometry.
// The shell comes from $SHELL, falling back to "sh".
func DefaultSettings() Settings {
	shell := os.Getenv("SHELL")
	if shell == "" {
		shell = "sh"
	}
	return Settings{
		Shell:           shell,
		LinesToRemember: 10000,
		LineCount:       100,
		ColumnCount:     85,
		TabWidth:        2,
	}
}

// SettingsForTerminal returns default settings sized to the host
// terminal when one is attached.
func SettingsForTerminal() Settings {
	settings := DefaultSettings()
	caps := DetectTerminalCapabilities()
	if caps.IsTerminal {
		settings.ColumnCount = caps.Width
		settings.LineCount = caps.Height
	}
	return settings
}

func (s Settings) logger() pslog.Logger {
	if s.Logger != nil {
		return s.Logger
	}
	return pslog.Ctx(context.Background())
}

func (s Settings) bufferSettings() BufferSettings {
	return BufferSettings{
		MaxColumns:      s.ColumnCount,
		MaxLines:        s.LineCount,
		TabWidth:        s.TabWidth,
		LinesToRemember: s.LinesToRemember,
	}
}

// Terminal ties a shell session to a scroll buffer: input goes to the
// session, session events are folded into the buffer on Update, and the
// buffer answers all display queries.
//
// Update, UpdateBlocking and the display queries must be called from a
// single goroutine.
type Terminal struct {
	driver Driver
	buffer *ScrollBuffer
}

// New starts a shell session with the best driver for this platform.
func New(settings Settings) (*Terminal, error) {
	driver, err := NewDriver(settings)
	if err != nil {
		return nil, fmt.Errorf("starting terminal session: %w", err)
	}
	return newWithDriver(driver, settings), nil
}

func newWithDriver(driver Driver, settings Settings) *Terminal {
	return &Terminal{
		driver: driver,
		buffer: NewScrollBuffer(settings.bufferSettings()),
	}
}

// WriteText sends text to the session and echoes it into the buffer, so
// typed input is visible even before the session produces output.
func (t *Terminal) WriteText(text string) error {
	t.buffer.PutString(text)
	return t.driver.WriteText(text)
}

// SendRaw sends bytes to the session verbatim, without local echo.
func (t *Terminal) SendRaw(data string) error {
	return t.driver.SendRaw(data)
}

// Backspace sends a backspace keypress and mirrors it into the buffer.
func (t *Terminal) Backspace() error {
	t.buffer.Backspace()
	return t.driver.Backspace()
}

// Escape sends an escape keypress.
func (t *Terminal) Escape() error { return t.driver.Escape() }

// CursorLeft, CursorRight, CursorUp and CursorDown send arrow
// keypresses. The cursor they move belongs to the session, not the
// buffer; any resulting redraw arrives back as events.
func (t *Terminal) CursorLeft() error  { return t.driver.CursorLeft() }
func (t *Terminal) CursorRight() error { return t.driver.CursorRight() }
func (t *Terminal) CursorUp() error    { return t.driver.CursorUp() }
func (t *Terminal) CursorDown() error  { return t.driver.CursorDown() }

// ControlCode sends Ctrl plus the given letter.
func (t *Terminal) ControlCode(c rune) error { return t.driver.ControlCode(c) }

// SignalInterrupt sends Ctrl-C.
func (t *Terminal) SignalInterrupt() error { return t.driver.ControlCode('c') }

// Do applies an Action to the session.
func (t *Terminal) Do(action Action) error {
	return action.apply(t)
}

// Update folds all pending session events into the buffer and returns
// them. It never blocks; nil means nothing happened.
func (t *Terminal) Update() []Event {
	events := t.driver.Update()
	for _, ev := range events {
		t.apply(ev)
	}
	return events
}

// UpdateBlocking waits for the session to produce events, drains the
// whole burst, folds it into the buffer, and returns it. It returns
// nil once the session has finished.
func (t *Terminal) UpdateBlocking() []Event {
	events := t.driver.UpdateBlocking()
	for _, ev := range events {
		t.apply(ev)
	}
	return events
}

func (t *Terminal) apply(ev Event) {
	switch e := ev.(type) {
	case PutCharacter:
		t.buffer.SetCursorXY(e.X, e.Y)
		t.buffer.PutCharStyled(e.Character, Style{Color: e.Color})
	case ClearScreen:
		t.buffer.ClearVisible()
	}
}

// IsSessionFinished reports whether the shell has exited and all of its
// output has been consumed.
func (t *Terminal) IsSessionFinished() bool {
	return t.driver.IsSessionFinished()
}

// VisibleText returns the viewport text, scrolled back by the given
// number of lines.
func (t *Terminal) VisibleText(scrollbackLineCount int) string {
	return t.buffer.VisibleText(scrollbackLineCount)
}

// VisibleSlices returns the viewport partitioned into same-style runs.
func (t *Terminal) VisibleSlices(scrollbackLineCount int) []TextSlice {
	return t.buffer.VisibleSlices(scrollbackLineCount)
}

// EntireText returns all buffered text including scrollback.
func (t *Terminal) EntireText() string {
	return t.buffer.EntireText()
}

// CursorIndex returns the buffer cursor flattened into a single index.
func (t *Terminal) CursorIndex() int {
	return t.buffer.CursorIndex()
}

// Buffer exposes the underlying scroll buffer.
func (t *Terminal) Buffer() *ScrollBuffer {
	return t.buffer
}

// Close terminates the session.
func (t *Terminal) Close() error {
	return t.driver.Close()
}
