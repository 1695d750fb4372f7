package readterm

import (
	"os"

	"golang.org/x/term"
)

// TerminalCapabilities describes the host terminal the process itself
// is running under, useful for sizing a session to match.
type TerminalCapabilities struct {
	// IsTerminal reports whether stdout is attached to a terminal.
	IsTerminal bool
	// IsRedirected reports whether stdout is a pipe or file.
	IsRedirected bool
	// Width and Height are the host terminal dimensions, or 80x24 when
	// they cannot be determined.
	Width  int
	Height int
}

// DetectTerminalCapabilities probes stdout for terminal-ness and size.
func DetectTerminalCapabilities() TerminalCapabilities {
	caps := TerminalCapabilities{
		Width:  80,
		Height: 24,
	}

	fd := int(os.Stdout.Fd())
	if term.IsTerminal(fd) {
		caps.IsTerminal = true
		if w, h, err := term.GetSize(fd); err == nil {
			caps.Width = w
			caps.Height = h
		}
	} else {
		caps.IsRedirected = true
	}

	return caps
}
