package readterm

import (
	"fmt"
	"strings"
)

// BufferSettings configures a ScrollBuffer.
type BufferSettings struct {
	// MaxColumns is the number of columns visible at once. Every line in
	// the buffer is exactly this wide.
	MaxColumns int
	// MaxLines is the number of lines visible at once (the viewport).
	MaxLines int
	// TabWidth is the number of spaces used to render tab characters.
	TabWidth int
	// LinesToRemember is how many lines of history to keep beyond the
	// viewport before the oldest lines are evicted.
	LinesToRemember int
}

// ScrollBuffer is the virtual screen: an ordered sequence of fixed-width
// lines with bounded history and a cursor. The viewport is always the
// last MaxLines lines of the buffer.
//
// A ScrollBuffer is exclusively owned by a single goroutine (the event
// consumer) and performs no internal locking.
type ScrollBuffer struct {
	settings BufferSettings

	// The lines in the buffer. Never shorter than MaxLines; grows by
	// appending, shrinks from the front on eviction.
	lines []line

	// The cursor location, relative to the top of the viewport.
	cursor location
}

// line is a constant-width row in the buffer. Unused cells are
// space-padded.
type line struct {
	cells []Cell
}

// location is a zero-based (line, column) position relative to the
// top-left of the viewport.
type location struct {
	lineNumber   int
	columnNumber int
}

// NewScrollBuffer creates a scroll buffer holding a full viewport of
// blank lines with the cursor at the top-left.
func NewScrollBuffer(settings BufferSettings) *ScrollBuffer {
	lines := make([]line, settings.MaxLines)
	for i := range lines {
		lines[i] = newBlankLine(settings.MaxColumns)
	}
	return &ScrollBuffer{
		settings: settings,
		lines:    lines,
	}
}

func newBlankLine(columns int) line {
	cells := make([]Cell, columns)
	for i := range cells {
		cells[i] = EmptyCell()
	}
	return line{cells: cells}
}

// PutString places every character of s in order.
func (b *ScrollBuffer) PutString(s string) {
	for _, c := range s {
		b.PutChar(c)
	}
}

// PutChar places a character at the cursor with the default style.
func (b *ScrollBuffer) PutChar(c rune) {
	b.PutCharStyled(c, DefaultStyle())
}

// PutCharStyled places a character at the cursor.
//
// Newline moves the cursor to the start of the next row, growing the
// history when the cursor is already on the last viewport row. Carriage
// return resets the column. Tabs expand to TabWidth spaces. Any other
// character is written into the cell under the (wrap-resolved) cursor
// and advances the column.
func (b *ScrollBuffer) PutCharStyled(character rune, style Style) {
	// Evict the oldest line once the scrollback limit is hit.
	if b.linesInScrollback() > b.settings.LinesToRemember {
		b.lines = b.lines[1:]
	}

	switch character {
	case '\n':
		b.cursor.carriageReturn()

		// Append a new line if we've reached the end of the buffer.
		// The location is bottom-relative, so the line number only
		// advances when we aren't already on the last row.
		if b.cursor.lineNumber == eofLocation(b.settings).lineNumber {
			b.addBlankLine()
		} else {
			b.cursor.lineFeed()
		}
	case '\r':
		b.cursor.carriageReturn()
	case '\t':
		for i := 0; i < b.settings.TabWidth; i++ {
			b.PutChar(' ')
		}
	default:
		if b.cursor.isEOF(b.settings) {
			// The cursor sits one past the last cell of the last row:
			// grow the history and restart at column zero. No line
			// increment is needed because the viewport slides down.
			b.addBlankLine()
			b.cursor.carriageReturn()
		} else if b.cursor.columnNumber >= b.settings.MaxColumns {
			// Wrap within the viewport.
			b.cursor.carriageReturn()
			b.cursor.lineFeed()
		}

		l := b.lineAt(b.cursor.lineNumber)
		l.cells[b.cursor.columnNumber] = Cell{Character: character, Style: style}
		b.cursor.columnNumber++
	}
}

// Backspace moves the cursor back one column and blanks the vacated
// cell. At column zero it is a no-op.
func (b *ScrollBuffer) Backspace() {
	if b.cursor.columnNumber == 0 {
		return
	}
	b.cursor.columnNumber--
	b.PutChar(' ')
	b.cursor.columnNumber--
}

// ClearEverything discards the entire line history, reinitializes a full
// blank viewport, and resets the cursor to the top-left.
func (b *ScrollBuffer) ClearEverything() {
	lines := make([]line, b.settings.MaxLines)
	for i := range lines {
		lines[i] = newBlankLine(b.settings.MaxColumns)
	}
	b.lines = lines
	b.ResetCursor()
}

// ClearVisible replaces the currently visible viewport lines with blank
// lines. Scrollback history and the cursor are untouched.
func (b *ScrollBuffer) ClearVisible() {
	for i := b.firstVisibleLineIndexNoScroll(); i < len(b.lines); i++ {
		b.lines[i] = newBlankLine(b.settings.MaxColumns)
	}
}

// ResetCursor moves the cursor back to (0, 0).
func (b *ScrollBuffer) ResetCursor() {
	b.cursor = location{}
}

// SetCursorXY sets the cursor from viewport-relative coordinates.
func (b *ScrollBuffer) SetCursorXY(x, y int) {
	b.cursor = location{lineNumber: y, columnNumber: x}
}

// CursorXY returns the cursor's (column, line) viewport-relative
// coordinates.
func (b *ScrollBuffer) CursorXY() (x, y int) {
	return b.cursor.columnNumber, b.cursor.lineNumber
}

// CursorIndex returns the cursor position flattened into a single index
// relative to the top-left of the viewport.
func (b *ScrollBuffer) CursorIndex() int {
	return b.cursor.lineNumber*b.settings.MaxColumns + b.cursor.columnNumber
}

// lineAt returns the viewport line at the given viewport-relative index.
// Every line is always exactly MaxColumns wide.
func (b *ScrollBuffer) lineAt(lineNumber int) *line {
	index := b.firstVisibleLineIndexNoScroll() + lineNumber
	l := &b.lines[index]
	if len(l.cells) != b.settings.MaxColumns {
		panic(fmt.Sprintf("readterm: line %d is %d cells wide, want %d",
			index, len(l.cells), b.settings.MaxColumns))
	}
	return l
}

func (b *ScrollBuffer) visibleLines(scrollbackLineCount int) []line {
	first := b.firstVisibleLineIndex(scrollbackLineCount)
	return b.lines[first : first+b.settings.MaxLines]
}

// VisibleCells returns the grid of cells visible when scrolled back by
// scrollbackLineCount lines. Scrolling past the start of history yields
// the oldest possible viewport.
func (b *ScrollBuffer) VisibleCells(scrollbackLineCount int) [][]Cell {
	visible := b.visibleLines(scrollbackLineCount)
	cells := make([][]Cell, len(visible))
	for i, l := range visible {
		row := make([]Cell, len(l.cells))
		copy(row, l.cells)
		cells[i] = row
	}
	return cells
}

// VisibleSlices partitions each visible line into maximal same-style
// runs, left to right, each line followed by a newline slice carrying
// the style of the line's last cell.
func (b *ScrollBuffer) VisibleSlices(scrollbackLineCount int) []TextSlice {
	var slices []TextSlice

	for _, l := range b.visibleLines(scrollbackLineCount) {
		remaining := l.cells

		for len(remaining) > 0 {
			style := remaining[0].Style

			count := 0
			var text strings.Builder
			for _, cell := range remaining {
				if cell.Style != style {
					break
				}
				text.WriteRune(cell.Character)
				count++
			}
			remaining = remaining[count:]

			slices = append(slices, TextSlice{
				Text:  text.String(),
				Style: style,
			})
		}

		slices = append(slices, TextSlice{
			Text:  "\n",
			Style: l.cells[len(l.cells)-1].Style,
		})
	}

	return slices
}

// VisibleText returns the visible lines joined by newlines, characters
// only.
func (b *ScrollBuffer) VisibleText(scrollbackLineCount int) string {
	visible := b.visibleLines(scrollbackLineCount)
	texts := make([]string, len(visible))
	for i, l := range visible {
		texts[i] = l.String()
	}
	return strings.Join(texts, "\n")
}

// EntireText returns every buffered line, including all retained
// scrollback, joined by newlines.
func (b *ScrollBuffer) EntireText() string {
	texts := make([]string, len(b.lines))
	for i, l := range b.lines {
		texts[i] = l.String()
	}
	return strings.Join(texts, "\n")
}

// Write implements io.Writer by placing the bytes as text.
func (b *ScrollBuffer) Write(buf []byte) (int, error) {
	b.PutString(string(buf))
	return len(buf), nil
}

func (b *ScrollBuffer) addBlankLine() {
	b.lines = append(b.lines, newBlankLine(b.settings.MaxColumns))
}

func (b *ScrollBuffer) firstVisibleLineIndex(scrollbackLineCount int) int {
	if scrollbackLineCount >= b.linesInScrollback() {
		return 0
	}
	return b.firstVisibleLineIndexNoScroll() - scrollbackLineCount
}

func (b *ScrollBuffer) firstVisibleLineIndexNoScroll() int {
	return b.linesInScrollback()
}

func (b *ScrollBuffer) linesInScrollback() int {
	return len(b.lines) - b.settings.MaxLines
}

func (l line) String() string {
	var s strings.Builder
	for _, cell := range l.cells {
		s.WriteRune(cell.Character)
	}
	return s.String()
}

// eofLocation is the cursor location signaling that the next character
// must grow the history: the last viewport row, one past the last valid
// column.
func eofLocation(settings BufferSettings) location {
	return location{
		lineNumber:   settings.MaxLines - 1,
		columnNumber: settings.MaxColumns,
	}
}

func (l *location) carriageReturn() {
	l.columnNumber = 0
}

func (l *location) lineFeed() {
	l.lineNumber++
}

func (l location) isEOF(settings BufferSettings) bool {
	return l == eofLocation(settings)
}
