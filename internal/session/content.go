package session

import "github.com/dshills/termsession/internal/term"

// Content is an immutable snapshot of the visible terminal, rebuilt on
// every successful Sync.
type Content struct {
	Cells         []term.IndexedCell
	Mode          term.Mode
	DisplayOffset int

	// SelectionText is the selected text, empty when nothing is selected.
	SelectionText string
	Selection     *term.SelectionRange

	Cursor     term.Cursor
	CursorChar rune

	Size term.WindowSize
}

func makeContent(b Backend, size term.WindowSize) Content {
	r := b.Renderable()
	text, _ := b.SelectionToString()
	return Content{
		Cells:         r.Cells,
		Mode:          r.Mode,
		DisplayOffset: r.DisplayOffset,
		SelectionText: text,
		Selection:     r.Selection,
		Cursor:        r.Cursor,
		CursorChar:    b.CellAt(r.Cursor.Point).Rune,
		Size:          size,
	}
}
