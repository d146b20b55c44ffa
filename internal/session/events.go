package session

import (
	"github.com/dshills/termsession/internal/input/mouse"
	"github.com/dshills/termsession/internal/term"
)

// internalEvent is a change queued by the session and applied to the
// backend on the next Sync. The set of events is closed.
type internalEvent interface {
	internalEvent()
}

type colorRequestEvent struct {
	index  int
	format func(term.RGB) string
}

type resizeEvent struct {
	size term.WindowSize
}

type clearEvent struct{}

type scrollEvent struct {
	scroll term.Scroll
}

type scrollToPointEvent struct {
	point term.Point
}

// setSelectionEvent replaces the selection. A nil selection clears it
// and leaves the selection head alone.
type setSelectionEvent struct {
	selection *term.Selection
	head      term.Point
}

type updateSelectionEvent struct {
	position mouse.Position
}

type copyEvent struct{}

func (colorRequestEvent) internalEvent()    {}
func (resizeEvent) internalEvent()          {}
func (clearEvent) internalEvent()           {}
func (scrollEvent) internalEvent()          {}
func (scrollToPointEvent) internalEvent()   {}
func (setSelectionEvent) internalEvent()    {}
func (updateSelectionEvent) internalEvent() {}
func (copyEvent) internalEvent()            {}
