package session

import (
	"iter"
	"regexp"

	"github.com/dshills/termsession/internal/procinfo"
	"github.com/dshills/termsession/internal/term"
)

// Backend is the terminal emulator shared with the PTY I/O goroutine.
// It is only touched while holding the session's fair lock.
type Backend interface {
	// Advance parses PTY output. Only the I/O goroutine calls it.
	Advance(data []byte)

	Resize(size term.WindowSize)
	ScrollDisplay(s term.Scroll)
	ScrollToPoint(p term.Point)
	ClearScrollback()

	// PaletteColor returns a color the program set, if any.
	PaletteColor(index int) (term.RGB, bool)

	Selection() *term.Selection
	SetSelection(sel *term.Selection)
	SelectionToString() (string, bool)

	Renderable() term.Renderable
	CellAt(p term.Point) term.Cell

	DisplayOffset() int
	ScreenLines() int
	Columns() int
	Mode() term.Mode

	LineSearchLeft(p term.Point) term.Point
	LineSearchRight(p term.Point) term.Point
	RegexIter(start, end term.Point, dir term.Direction, re *regexp.Regexp) iter.Seq[term.Match]
}

// PTY is the write side of the PTY I/O goroutine.
type PTY interface {
	Write(data []byte)
	Resize(size term.WindowSize)
	Shutdown()
}

// ProcessTracker resolves the foreground process of the PTY.
type ProcessTracker interface {
	// Update re-resolves the identity and reports whether it changed.
	Update() bool
	Current() (procinfo.Info, bool)
}

// Palette supplies colors the program has not overridden.
type Palette interface {
	ColorAt(index int) term.RGB
}
