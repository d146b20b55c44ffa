package term

// Renderable is a point-in-time copy of everything needed to draw the
// visible part of a terminal.
type Renderable struct {
	Cells         []IndexedCell
	Mode          Mode
	DisplayOffset int
	Selection     *SelectionRange
	Cursor        Cursor
	CursorChar    rune
}
