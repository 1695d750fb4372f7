// Package readterm provides programmatic control of an interactive
// terminal session. It spawns a shell attached to a pseudo-terminal,
// interprets the raw byte stream the shell produces (including ANSI
// escape sequences) into structured events, and maintains a virtual
// screen with bounded scrollback that a caller can query or render.
//
// This package contains:
//   - Color and style value types
//   - The Event model (character placement, screen clear)
//   - An incremental ANSI escape-sequence interpreter
//   - Platform session drivers (pty-backed on Unix, pipe fallback elsewhere)
//   - A scroll buffer with cursor tracking and style-run extraction
//   - The Terminal facade composing driver and buffer
//
// # Basic Usage
//
//	term, err := readterm.New(readterm.DefaultSettings())
//	if err != nil {
//	    log.Fatal(err)
//	}
//	defer term.Close()
//
//	term.WriteText("ls\n")
//	term.UpdateBlocking()
//	fmt.Println(term.VisibleText(0))
//
// The caller's goroutine is the sole consumer: Update drains whatever the
// background reader has queued, applies it to the scroll buffer, and
// returns the events. Rendering callers typically poll Update from their
// frame loop and read VisibleSlices for styled output.
package readterm
