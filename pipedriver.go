package readterm

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"unicode/utf8"

	"pkt.systems/pslog"
)

// pipeDriver runs the shell with its output connected to a plain pipe.
// It works on every platform, but the shell sees no terminal: it does
// not echo input or print a prompt, and emits no escape sequences.
// Output characters are reported at their real viewport coordinates,
// which the driver tracks itself since no interpreter state arrives
// over a pipe.
type pipeDriver struct {
	cmd    *exec.Cmd
	stdin  io.WriteCloser
	output *os.File
	logger pslog.Logger

	queue      outputQueue
	readerDone chan struct{}
	finished   bool

	// Cursor tracking and UTF-8 reassembly, owned by the consumer
	// goroutine via Update.
	cols, rows int
	x, y       int
	pending    []byte
}

// NewPipeDriver starts a shell session over anonymous pipes. It is the
// fallback for platforms and environments without pseudo-terminals.
func NewPipeDriver(settings Settings) (Driver, error) {
	pr, pw, err := os.Pipe()
	if err != nil {
		return nil, fmt.Errorf("creating output pipe: %w", err)
	}

	cmd := exec.Command(settings.Shell)
	cmd.Stdout = pw
	cmd.Stderr = pw

	stdin, err := cmd.StdinPipe()
	if err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("creating stdin pipe: %w", err)
	}

	if err := cmd.Start(); err != nil {
		pr.Close()
		pw.Close()
		return nil, fmt.Errorf("starting shell %q: %w", settings.Shell, err)
	}

	// The child holds its own copy of the write end. Closing ours lets
	// the reader observe EOF when the shell exits.
	pw.Close()

	d := &pipeDriver{
		cmd:        cmd,
		stdin:      stdin,
		output:     pr,
		logger:     settings.logger(),
		readerDone: make(chan struct{}),
		cols:       settings.ColumnCount,
		rows:       settings.LineCount,
	}

	go d.readLoop()
	go d.waitLoop()

	return d, nil
}

func (d *pipeDriver) readLoop() {
	defer close(d.readerDone)
	buf := make([]byte, 4096)
	for {
		n, err := d.output.Read(buf)
		if n > 0 {
			chunk := make([]byte, n)
			copy(chunk, buf[:n])
			d.queue.push(rawOutput{data: chunk})
		}
		if err != nil {
			return
		}
	}
}

func (d *pipeDriver) waitLoop() {
	if err := d.cmd.Wait(); err != nil {
		d.logger.Debug("shell exited with error", "shell", d.cmd.Path, "err", err)
	}
	<-d.readerDone
	d.queue.push(sessionEnded{})
}

func (d *pipeDriver) WriteText(text string) error {
	return d.SendRaw(text)
}

func (d *pipeDriver) SendRaw(data string) error {
	if _, err := io.WriteString(d.stdin, data); err != nil {
		return fmt.Errorf("writing to shell stdin: %w", err)
	}
	return nil
}

func (d *pipeDriver) Backspace() error   { return &UnsupportedError{Op: "backspace"} }
func (d *pipeDriver) Escape() error      { return &UnsupportedError{Op: "escape"} }
func (d *pipeDriver) CursorLeft() error  { return &UnsupportedError{Op: "cursor left"} }
func (d *pipeDriver) CursorRight() error { return &UnsupportedError{Op: "cursor right"} }
func (d *pipeDriver) CursorUp() error    { return &UnsupportedError{Op: "cursor up"} }
func (d *pipeDriver) CursorDown() error  { return &UnsupportedError{Op: "cursor down"} }

func (d *pipeDriver) ControlCode(c rune) error {
	if _, err := controlByte(c); err != nil {
		return err
	}
	return &UnsupportedError{Op: "control code"}
}

func (d *pipeDriver) Update() []Event {
	if d.finished {
		return nil
	}

	var events []Event
	for _, item := range d.queue.drain() {
		switch it := item.(type) {
		case rawOutput:
			events = d.decode(it.data, events)
		case sessionEnded:
			d.finished = true
		}
	}
	return events
}

// decode appends the chunk to any pending partial rune and converts
// every complete rune into a positioned character event.
func (d *pipeDriver) decode(chunk []byte, events []Event) []Event {
	d.pending = append(d.pending, chunk...)

	for len(d.pending) > 0 {
		r, size := utf8.DecodeRune(d.pending)
		if r == utf8.RuneError && size == 1 {
			if !utf8.FullRune(d.pending) {
				// Partial rune, wait for the rest.
				break
			}
			// Genuinely invalid byte, drop it.
			d.pending = d.pending[1:]
			continue
		}
		d.pending = d.pending[size:]

		switch r {
		case '\n':
			events = append(events, d.putEvent('\n'))
			d.x = 0
			if d.y < d.rows-1 {
				d.y++
			}
		case '\r':
			d.x = 0
		default:
			if d.x >= d.cols {
				d.x = 0
				if d.y < d.rows-1 {
					d.y++
				}
			}
			events = append(events, d.putEvent(r))
			d.x++
		}
	}
	return events
}

func (d *pipeDriver) putEvent(r rune) Event {
	return PutCharacter{
		X:         d.x,
		Y:         d.y,
		Character: r,
		Color:     White,
	}
}

func (d *pipeDriver) UpdateBlocking() []Event {
	return updateBlocking(d)
}

func (d *pipeDriver) IsSessionFinished() bool {
	return d.finished
}

func (d *pipeDriver) Close() error {
	if !d.finished && d.cmd.Process != nil {
		if err := d.cmd.Process.Kill(); err != nil {
			d.logger.Warn("failed to kill shell process", "pid", d.cmd.Process.Pid, "err", err)
		}
	}
	d.stdin.Close()
	if err := d.output.Close(); err != nil {
		return fmt.Errorf("closing output pipe: %w", err)
	}
	return nil
}
