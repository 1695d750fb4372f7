//go:build windows

package readterm

// newPlatformDriver falls back to the pipe driver. The shell is not
// attached to a terminal, so it runs non-interactively: no echo, no
// prompt, and the keypress operations report UnsupportedError.
func newPlatformDriver(settings Settings) (Driver, error) {
	return NewPipeDriver(settings)
}
