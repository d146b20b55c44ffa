// Package screen presents a session on a tcell screen and converts
// tcell input into session input.
//
// One screen cell is one unit of the session's pixel geometry, so
// window sizes and pointer positions pass through unchanged.
package screen

import (
	"sync"

	"github.com/gdamore/tcell/v2"

	"github.com/dshills/termsession/internal/session"
	"github.com/dshills/termsession/internal/term"
)

// Screen draws session content on a tcell screen.
type Screen struct {
	screen tcell.Screen
	mu     sync.Mutex
}

// New creates a screen on the controlling terminal.
func New() (*Screen, error) {
	s, err := tcell.NewScreen()
	if err != nil {
		return nil, err
	}
	return &Screen{screen: s}, nil
}

// NewWithScreen wraps an existing tcell screen, such as a simulation
// screen in tests.
func NewWithScreen(s tcell.Screen) *Screen {
	return &Screen{screen: s}
}

// Init takes over the terminal and enables mouse, paste and focus
// reporting.
func (s *Screen) Init() error {
	s.mu.Lock()
	defer s.mu.Unlock()

	if err := s.screen.Init(); err != nil {
		return err
	}
	s.screen.EnableMouse(tcell.MouseMotionEvents)
	s.screen.EnablePaste()
	s.screen.EnableFocus()
	return nil
}

// Fini restores the terminal.
func (s *Screen) Fini() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Fini()
}

// Size returns the screen size as a session window size.
func (s *Screen) Size() term.WindowSize {
	s.mu.Lock()
	defer s.mu.Unlock()

	w, h := s.screen.Size()
	return term.CellSize(w, h)
}

// Draw replaces the screen contents with c and shows it.
func (s *Screen) Draw(c session.Content) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.Clear()
	for _, ic := range c.Cells {
		if ic.Cell.Flags.Has(term.FlagWideSpacer) {
			continue
		}
		x, y := ic.Point.Column, ic.Point.Line+c.DisplayOffset
		selected := c.Selection != nil && c.Selection.Contains(ic.Point)
		r := ic.Cell.Rune
		if r == 0 || ic.Cell.Flags.Has(term.FlagHidden) {
			r = ' '
		}
		s.screen.SetContent(x, y, r, nil, cellStyle(ic.Cell, selected))
	}

	if c.Cursor.Shape == term.CursorHidden || c.DisplayOffset != 0 {
		s.screen.HideCursor()
	} else {
		s.screen.SetCursorStyle(cursorStyle(c.Cursor.Shape, c.Mode.Has(term.ModeBlinkingCursor)))
		s.screen.ShowCursor(c.Cursor.Point.Column, c.Cursor.Point.Line)
	}
	s.screen.Show()
}

// SetTitle sets the window title.
func (s *Screen) SetTitle(title string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.screen.SetTitle(title)
}

// Beep rings the terminal bell.
func (s *Screen) Beep() {
	s.mu.Lock()
	defer s.mu.Unlock()

	_ = s.screen.Beep() // best-effort; terminal may not support beep
}

// PollEvent waits for the next input event. It returns nil after Fini.
func (s *Screen) PollEvent() tcell.Event {
	return s.screen.PollEvent()
}

// Interrupt wakes PollEvent with an interrupt event carrying data.
func (s *Screen) Interrupt(data any) {
	_ = s.screen.PostEvent(tcell.NewEventInterrupt(data)) // best-effort; event queue may be full
}
