package readterm

import (
	"fmt"
	"testing"
)

var smallSettings = BufferSettings{
	MaxColumns:      3,
	MaxLines:        3,
	TabWidth:        4,
	LinesToRemember: 2,
}

func TestEmptyBufferIsFullOfSpaces(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	if got := buffer.EntireText(); got != "   \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestFillEmptyBuffer(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)

	steps := []struct {
		char rune
		want string
	}{
		{'A', "A  \n   \n   "},
		{'B', "AB \n   \n   "},
		{'C', "ABC\n   \n   "},
		{'D', "ABC\nD  \n   "},
		{'E', "ABC\nDE \n   "},
		{'F', "ABC\nDEF\n   "},
		{'G', "ABC\nDEF\nG  "},
		{'H', "ABC\nDEF\nGH "},
		{'I', "ABC\nDEF\nGHI"},
	}
	for _, step := range steps {
		buffer.PutChar(step.char)
		if got := buffer.EntireText(); got != step.want {
			t.Fatalf("after %q: EntireText() = %q, want %q", step.char, got, step.want)
		}
	}

	// The next character pushes the first line into scrollback.
	buffer.PutChar('J')
	if got := buffer.VisibleText(0); got != "DEF\nGHI\nJ  " {
		t.Errorf("VisibleText(0) = %q", got)
	}
	if got := buffer.EntireText(); got != "ABC\nDEF\nGHI\nJ  " {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestNewlineOnLastLineGrowsHistory(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("a\nb\nc\nd")
	if got := buffer.EntireText(); got != "a  \nb  \nc  \nd  " {
		t.Errorf("EntireText() = %q", got)
	}
	if got := buffer.VisibleText(0); got != "b  \nc  \nd  " {
		t.Errorf("VisibleText(0) = %q", got)
	}
}

func TestNewlines(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("h\n a\nn")
	if got := buffer.EntireText(); got != "h  \n a \nn  " {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestCarriageReturnOverwrites(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("h\rpa")
	if got := buffer.EntireText(); got != "pa \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestOldestLinesEvictedPastLimit(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("abcdefghijklmnopqr")
	if got := buffer.EntireText(); got != "def\nghi\njkl\nmno\npqr" {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestTabExpandsToSpaces(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutChar('\t')
	if got := buffer.EntireText(); got != "   \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
	// Four spaces on a three-column line wrap once.
	if x, y := buffer.CursorXY(); x != 1 || y != 1 {
		t.Errorf("CursorXY() = (%d, %d), want (1, 1)", x, y)
	}
}

func TestBackspace(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("ab")
	buffer.Backspace()
	if got := buffer.EntireText(); got != "a  \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
	if x, y := buffer.CursorXY(); x != 1 || y != 0 {
		t.Errorf("CursorXY() = (%d, %d), want (1, 0)", x, y)
	}
}

func TestBackspaceAtColumnZeroIsNoOp(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("a\n")
	buffer.Backspace()
	if got := buffer.EntireText(); got != "a  \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
	if x, y := buffer.CursorXY(); x != 0 || y != 1 {
		t.Errorf("CursorXY() = (%d, %d), want (0, 1)", x, y)
	}
}

func TestClearEverything(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("abcdefghij")
	buffer.ClearEverything()
	if got := buffer.EntireText(); got != "   \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
	if got := buffer.CursorIndex(); got != 0 {
		t.Errorf("CursorIndex() = %d", got)
	}

	// The buffer must still be writable after a full clear.
	buffer.PutString("ok")
	if got := buffer.VisibleText(0); got != "ok \n   \n   " {
		t.Errorf("VisibleText(0) = %q", got)
	}
}

func TestClearVisibleKeepsScrollback(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("abcdefghijkl")
	if got := buffer.EntireText(); got != "abc\ndef\nghi\njkl" {
		t.Fatalf("EntireText() = %q", got)
	}

	buffer.ClearVisible()
	if got := buffer.VisibleText(0); got != "   \n   \n   " {
		t.Errorf("VisibleText(0) = %q", got)
	}
	if got := buffer.EntireText(); got != "abc\n   \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
}

func TestScrollbackClampedAtOldestLine(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("abcdefghijkl")

	if got := buffer.VisibleText(1); got != "abc\ndef\nghi" {
		t.Errorf("VisibleText(1) = %q", got)
	}
	// Scrolling past the history clamps to the oldest viewport.
	if got := buffer.VisibleText(100); got != "abc\ndef\nghi" {
		t.Errorf("VisibleText(100) = %q", got)
	}
}

func TestCursorIndex(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutString("abcd")
	if got := buffer.CursorIndex(); got != 4 {
		t.Errorf("CursorIndex() = %d, want 4", got)
	}

	buffer.SetCursorXY(2, 1)
	if got := buffer.CursorIndex(); got != 5 {
		t.Errorf("CursorIndex() = %d, want 5", got)
	}
	if x, y := buffer.CursorXY(); x != 2 || y != 1 {
		t.Errorf("CursorXY() = (%d, %d), want (2, 1)", x, y)
	}
}

func TestVisibleSlicesGroupsByStyle(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	red := Style{Color: Red}
	buffer.PutCharStyled('a', red)
	buffer.PutCharStyled('b', red)
	buffer.PutChar('c')

	slices := buffer.VisibleSlices(0)
	want := []TextSlice{
		{Text: "ab", Style: red},
		{Text: "c", Style: DefaultStyle()},
		{Text: "\n", Style: DefaultStyle()},
		{Text: "   ", Style: DefaultStyle()},
		{Text: "\n", Style: DefaultStyle()},
		{Text: "   ", Style: DefaultStyle()},
		{Text: "\n", Style: DefaultStyle()},
	}
	if len(slices) != len(want) {
		t.Fatalf("got %d slices, want %d: %#v", len(slices), len(want), slices)
	}
	for i := range want {
		if slices[i] != want[i] {
			t.Errorf("slice %d = %#v, want %#v", i, slices[i], want[i])
		}
	}
}

func TestVisibleCellsCopiesCells(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	buffer.PutChar('x')

	cells := buffer.VisibleCells(0)
	if cells[0][0].Character != 'x' {
		t.Fatalf("cell (0,0) = %q", cells[0][0].Character)
	}

	// Mutating the returned grid must not affect the buffer.
	cells[0][0].Character = 'z'
	if got := buffer.VisibleText(0); got != "x  \n   \n   " {
		t.Errorf("VisibleText(0) = %q", got)
	}
}

func TestWriterInterface(t *testing.T) {
	buffer := NewScrollBuffer(smallSettings)
	n, err := fmt.Fprintf(buffer, "h%s", "i")
	if err != nil {
		t.Fatalf("Fprintf: %v", err)
	}
	if n != 2 {
		t.Errorf("wrote %d bytes, want 2", n)
	}
	if got := buffer.EntireText(); got != "hi \n   \n   " {
		t.Errorf("EntireText() = %q", got)
	}
}
