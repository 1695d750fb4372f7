//go:build !windows

package readterm

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/creack/pty"
	"pkt.systems/pslog"
)

// newPlatformDriver starts the shell attached to a pseudo-terminal.
func newPlatformDriver(settings Settings) (Driver, error) {
	return NewPtyDriver(settings)
}

// ptyDriver runs the shell under a pseudo-terminal, so the shell
// believes it is interactive: it echoes input, renders a prompt, and
// emits the escape sequences the interpreter decodes.
type ptyDriver struct {
	cmd    *exec.Cmd
	ptmx   *os.File
	interp *Interpreter
	logger pslog.Logger

	queue outputQueue

	// readerDone is closed by the read goroutine when the session's
	// output stream reaches EOF.
	readerDone chan struct{}

	// finished is owned by the consumer goroutine. It becomes true once
	// Update has drained the end-of-session marker, which the watcher
	// only pushes after the reader is done, so no output is lost.
	finished bool
}

// NewPtyDriver starts a shell session attached to a pseudo-terminal of
// the configured size.
func NewPtyDriver(settings Settings) (Driver, error) {
	cmd := exec.Command(settings.Shell)
	cmd.Env = append(os.Environ(), "TERM=xterm-256color")

	ptmx, err := pty.StartWithSize(cmd, &pty.Winsize{
		Rows: uint16(settings.LineCount),
		Cols: uint16(settings.ColumnCount),
	})
	if err != nil {
		return nil, fmt.Errorf("starting shell %q on a pty: %w", settings.Shell, err)
	}

	d := &ptyDriver{
		cmd:        cmd,
		ptmx:       ptmx,
		interp:     NewInterpreter(settings.ColumnCount, settings.LineCount),
		logger:     settings.logger(),
		readerDone: make(chan struct{}),
	}

	go d.readLoop()
	go d.waitLoop()

	return d, nil
}

// readLoop copies session output into the queue until the pty is
// closed or the shell exits.
func (d *ptyDriver) readLoop() {
	defer close(d.readerDone)
	buf := make([]byte, 4096)
	for {
		n, err := d.ptmx.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			d.queue.push(rawOutput{data: chunk})
		}
		if err != nil {
			// EOF or EIO when the slave side closes.
			return
		}
	}
}

// waitLoop reaps the shell process. The end-of-session marker is only
// pushed after the reader has drained everything, keeping it the last
// item in the queue.
func (d *ptyDriver) waitLoop() {
	if err := d.cmd.Wait(); err != nil {
		d.logger.Debug("shell exited with error", "shell", d.cmd.Path, "err", err)
	}
	<-d.readerDone
	d.queue.push(sessionEnded{})
}

func (d *ptyDriver) WriteText(text string) error {
	return d.SendRaw(text)
}

func (d *ptyDriver) SendRaw(data string) error {
	if _, err := d.ptmx.WriteString(data); err != nil {
		return fmt.Errorf("writing to pty: %w", err)
	}
	return nil
}

func (d *ptyDriver) Backspace() error   { return d.SendRaw(seqBackspace) }
func (d *ptyDriver) Escape() error      { return d.SendRaw(seqEscape) }
func (d *ptyDriver) CursorLeft() error  { return d.SendRaw(seqCursorLeft) }
func (d *ptyDriver) CursorRight() error { return d.SendRaw(seqCursorRight) }
func (d *ptyDriver) CursorUp() error    { return d.SendRaw(seqCursorUp) }
func (d *ptyDriver) CursorDown() error  { return d.SendRaw(seqCursorDown) }

func (d *ptyDriver) ControlCode(c rune) error {
	code, err := controlByte(c)
	if err != nil {
		return err
	}
	return d.SendRaw(string(rune(code)))
}

func (d *ptyDriver) Update() []Event {
	if d.finished {
		return nil
	}

	var events []Event
	for _, item := range d.queue.drain() {
		switch it := item.(type) {
		case rawOutput:
			d.interp.Feed(it.data, func(p Primitive) {
				if ev := translatePrimitive(p); ev != nil {
					events = append(events, ev)
				}
			})
		case sessionEnded:
			d.finished = true
		}
	}
	return events
}

func (d *ptyDriver) UpdateBlocking() []Event {
	return updateBlocking(d)
}

func (d *ptyDriver) IsSessionFinished() bool {
	return d.finished
}

// Close kills the shell if it is still running and closes the pty.
func (d *ptyDriver) Close() error {
	if !d.finished && d.cmd.Process != nil {
		if err := d.cmd.Process.Kill(); err != nil {
			d.logger.Warn("failed to kill shell process", "pid", d.cmd.Process.Pid, "err", err)
		}
	}
	if err := d.ptmx.Close(); err != nil {
		return fmt.Errorf("closing pty: %w", err)
	}
	return nil
}
