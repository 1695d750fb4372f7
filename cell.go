package readterm

// Cell represents a single character cell in the scroll buffer.
type Cell struct {
	Character rune
	Style     Style
}

// EmptyCell returns the default cell: a space with the default style.
func EmptyCell() Cell {
	return Cell{
		Character: ' ',
		Style:     DefaultStyle(),
	}
}

// TextSlice is a maximal run of contiguous same-styled text within one
// line, suitable for styled display without re-deriving runs per cell.
type TextSlice struct {
	// Text is the characters within the slice.
	Text  string
	Style Style
}
